// Copyright © 2024 The ELPS authors

package lisp

import (
	"bytes"
	"strconv"
	"strings"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LNil is the absence of a value.  It is the result of a let expression
	// and of looking up a name which is not bound.
	LNil
	// LInt values store an int32 in the LVal.Int field.
	LInt
	// LFloat values store a float32 in the LVal.Float field.
	LFloat
	// LString values store a string in the LVal.Str field.
	LString
	// LFun values store an *LFunData in the LVal.Fun field.
	LFun
	// LList values store their elements in LVal.Cells.  Lists are only
	// produced when quoted lists are constructed (see QuoteConstruct).
	LList
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid: "INVALID",
	LNil:     "nil",
	LInt:     "int",
	LFloat:   "float",
	LString:  "string",
	LFun:     "function",
	LList:    "list",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LFunType denotes the calling convention of a function.
type LFunType uint8

// LFunType constants.
const (
	// LFunClosure is a function defined in lisp with lambda or let.
	LFunClosure LFunType = iota
	// LFunBuiltin is a native function which receives evaluated arguments.
	LFunBuiltin
	// LFunSpecialOp is a native function which receives its unevaluated
	// operands and the caller's environment.  The environment it returns
	// replaces the caller's.
	LFunSpecialOp
)

var lfunTypeStrings = []string{
	LFunClosure:   "lambda",
	LFunBuiltin:   "builtin",
	LFunSpecialOp: "special",
}

func (ft LFunType) String() string {
	if ft >= LFunType(len(lfunTypeStrings)) {
		return "invalid-function-type"
	}
	return lfunTypeStrings[ft]
}

// LBuiltin is a native function which operates on evaluated arguments.
type LBuiltin func(env *Env, args []*LVal) (*LVal, error)

// LSpecialOp is a native function which controls evaluation of its own
// operands.
type LSpecialOp func(env *Env, args []Expr) (*Env, *LVal, error)

// LFunData holds the definition of a function value.
type LFunData struct {
	FunType LFunType
	// Name is the name a closure binds itself to when called, or the name of
	// a native function.  Anonymous closures have an empty Name.
	Name    string
	Formals []string
	Doc     string

	Builtin   LBuiltin
	SpecialOp LSpecialOp

	// Env and Body are only set for closures.  Env is the environment
	// captured when the closure was created.
	Env  *Env
	Body Expr
}

// LVal is a lisp value
type LVal struct {
	Type  LType
	Int   int32
	Float float32
	Str   string
	Cells []*LVal
	Fun   *LFunData
}

// Nil returns an LVal representing the absence of a value.
func Nil() *LVal {
	return &LVal{Type: LNil}
}

// Int returns an LVal representing the number x.
func Int(x int32) *LVal {
	return &LVal{Type: LInt, Int: x}
}

// Float returns an LVal representation of the number x
func Float(x float32) *LVal {
	return &LVal{Type: LFloat, Float: x}
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{Type: LString, Str: str}
}

// List returns an LVal representing a list of values.
func List(cells ...*LVal) *LVal {
	return &LVal{Type: LList, Cells: cells}
}

// Closure returns a function value which evaluates the body of lambda in a
// child scope of env.  The closure binds itself to selfName when it is
// called, unless selfName is empty.
func Closure(env *Env, lambda *LambdaExpr, selfName string) *LVal {
	return &LVal{
		Type: LFun,
		Fun: &LFunData{
			FunType: LFunClosure,
			Name:    selfName,
			Formals: lambda.Params,
			Env:     env,
			Body:    lambda.Body,
		},
	}
}

// Fun returns a native function which receives evaluated arguments.
func Fun(name string, formals []string, fn LBuiltin) *LVal {
	return &LVal{
		Type: LFun,
		Fun: &LFunData{
			FunType: LFunBuiltin,
			Name:    name,
			Formals: formals,
			Builtin: fn,
		},
	}
}

// SpecialOp returns a native function which receives unevaluated operands.
func SpecialOp(name string, formals []string, fn LSpecialOp) *LVal {
	return &LVal{
		Type: LFun,
		Fun: &LFunData{
			FunType:   LFunSpecialOp,
			Name:      name,
			Formals:   formals,
			SpecialOp: fn,
		},
	}
}

// IsNil returns true if v represents the absence of a value.
func (v *LVal) IsNil() bool {
	return v == nil || v.Type == LNil
}

// IsNumeric returns true if v has a numeric type.
func (v *LVal) IsNumeric() bool {
	return v.Type == LInt || v.Type == LFloat
}

// IsSpecialOp returns true if v is a native function that receives
// unevaluated operands.
func (v *LVal) IsSpecialOp() bool {
	return v.Type == LFun && v.Fun.FunType == LFunSpecialOp
}

// Docstring returns the documentation of a function value.
func (v *LVal) Docstring() string {
	if v.Type != LFun {
		return ""
	}
	return v.Fun.Doc
}

// Equal returns true if v and other have the same type and payload.  Values
// of different numeric types are never equal.  Functions are never equal,
// not even to themselves, so lists holding functions are never equal.
func (v *LVal) Equal(other *LVal) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LNil:
		return true
	case LInt:
		return v.Int == other.Int
	case LFloat:
		return v.Float == other.Float
	case LString:
		return v.Str == other.Str
	case LList:
		if len(v.Cells) != len(other.Cells) {
			return false
		}
		for i := range v.Cells {
			if !v.Cells[i].Equal(other.Cells[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (v *LVal) String() string {
	if v == nil {
		return "nil"
	}
	switch v.Type {
	case LNil:
		return "nil"
	case LInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case LFloat:
		return formatFloat(v.Float)
	case LString:
		return quoteString(v.Str)
	case LFun:
		return v.funString()
	case LList:
		var buf bytes.Buffer
		buf.WriteString("'")
		writeCells(&buf, v.Cells)
		return buf.String()
	}
	return "<" + v.Type.String() + ">"
}

func (v *LVal) funString() string {
	fun := v.Fun
	switch fun.FunType {
	case LFunClosure:
		params := "(" + strings.Join(fun.Formals, " ") + ")"
		if fun.Name == "" {
			return "<lambda " + params + ">"
		}
		return "<fun " + fun.Name + " " + params + ">"
	default:
		return "<" + fun.FunType.String() + " " + fun.Name + ">"
	}
}

func writeCells(buf *bytes.Buffer, cells []*LVal) {
	buf.WriteString("(")
	for i, cell := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		if cell.Type == LList {
			writeCells(buf, cell.Cells)
			continue
		}
		buf.WriteString(cell.String())
	}
	buf.WriteString(")")
}
