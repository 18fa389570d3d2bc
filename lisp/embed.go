// Copyright © 2024 The ELPS authors

package lisp

// True returns true if v is the special operator bound to TrueSymbol in a
// root environment, the value comparisons produce for a true result.
func True(v *LVal) bool {
	return v.IsSpecialOp() && v.Fun.Name == TrueSymbol
}

// Not returns true if v is the special operator bound to FalseSymbol in a
// root environment.
func Not(v *LVal) bool {
	return v.IsSpecialOp() && v.Fun.Name == FalseSymbol
}

// GoValue converts v to its natural representation in Go.  Lists are turned
// into slices.  The value Nil() is converted to nil.  Functions are returned
// as is.
func GoValue(v *LVal) interface{} {
	if v.IsNil() {
		return nil
	}
	switch v.Type {
	case LString:
		return v.Str
	case LInt:
		return v.Int
	case LFloat:
		return v.Float
	case LList:
		s, _ := GoSlice(v)
		return s
	}
	return v
}

// GoString returns the string that v represents and the value true.  If v does
// not represent a string GoString returns a false second argument
func GoString(v *LVal) (string, bool) {
	if v.Type != LString {
		return "", false
	}
	return v.Str, true
}

// GoInt converts the numeric value that v represents to and int and returns it
// with the value true.  If v does not represent a number GoInt returns a
// false second argument
func GoInt(v *LVal) (int, bool) {
	if !v.IsNumeric() {
		return 0, false
	}
	if v.Type == LFloat {
		return int(v.Float), true
	}
	return int(v.Int), true
}

// GoFloat64 converts the numeric value that v represents to a float64 and
// returns it with the value true.  If v does not represent a number GoFloat64
// returns a false second argument
func GoFloat64(v *LVal) (float64, bool) {
	if !v.IsNumeric() {
		return 0, false
	}
	if v.Type == LFloat {
		return float64(v.Float), true
	}
	return float64(v.Int), true
}

// GoSlice converts the elements of a list to their Go representations and
// returns them with the value true.  If v is not a list GoSlice returns a
// false second argument.
func GoSlice(v *LVal) ([]interface{}, bool) {
	if v.Type != LList {
		return nil, false
	}
	vs := make([]interface{}, len(v.Cells))
	for i := range vs {
		vs[i] = GoValue(v.Cells[i])
	}
	return vs, true
}
