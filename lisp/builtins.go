// Copyright © 2024 The ELPS authors

package lisp

import (
	"sort"
	"strings"
)

// LBuiltinDef is a built-in function
type LBuiltinDef interface {
	Name() string
	Formals() []string
	Docstring() string
	// Value returns the function value bound to Name in a root environment.
	Value() *LVal
}

type langBuiltin struct {
	name    string
	formals []string
	fun     LBuiltin
	op      LSpecialOp
	docs    string
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() []string {
	return fun.formals
}

func (fun *langBuiltin) Docstring() string {
	return strings.Join(strings.Fields(fun.docs), " ")
}

func (fun *langBuiltin) Value() *LVal {
	var v *LVal
	if fun.op != nil {
		v = SpecialOp(fun.name, fun.formals, fun.op)
	} else {
		v = Fun(fun.name, fun.formals, fun.fun)
	}
	v.Fun.Doc = fun.Docstring()
	return v
}

var langBuiltins = []*langBuiltin{
	{"+", []string{"&rest", "numbers"}, builtinAdd, nil, `
		Returns the sum of numbers, or 0 when called without arguments.  The
		result is a float if any argument is a float.`},
	{"-", []string{"&rest", "numbers"}, builtinSub, nil, `
		Folds subtraction over numbers from the right, starting from 0, so
		(- a b c) computes a - (b - (c - 0)).  The result is a float if any
		argument is a float.`},
	{"*", []string{"&rest", "numbers"}, builtinMul, nil, `
		Returns the product of numbers, or 1 when called without arguments.
		The result is a float if any argument is a float.`},
	{"/", []string{"&rest", "numbers"}, builtinDiv, nil, `
		Folds division over numbers from the right, starting from 1, so
		(/ a b c) computes a / (b / (c / 1)).  Division of ints truncates and
		signals divide-by-zero when the divisor is 0.  The result is a float if
		any argument is a float.`},
	{"=", []string{"a", "b"}, builtinEqual, nil, `
		Returns the value of true if a and b have the same type and value,
		otherwise the value of false.  An int is never equal to a float.`},
	{"exit", nil, builtinExit, nil, `
		Terminates the process with status 0.`},
	{TrueSymbol, []string{"then", "else"}, nil, opTrue, `
		Evaluates then, ignoring else.  Comparisons return this function so
		their result can be applied to two branch expressions.`},
	{FalseSymbol, []string{"then", "else"}, nil, opFalse, `
		Evaluates else, ignoring then.  Comparisons return this function so
		their result can be applied to two branch expressions.`},
}

// DefaultBuiltins returns the native functions bound in every root
// environment, sorted by name.
func DefaultBuiltins() []LBuiltinDef {
	defs := make([]LBuiltinDef, len(langBuiltins))
	for i := range langBuiltins {
		defs[i] = langBuiltins[i]
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name() < defs[j].Name() })
	return defs
}

// builtinBindings returns the bindings of the root environment.
func builtinBindings() map[string]*LVal {
	bindings := make(map[string]*LVal, len(langBuiltins)+1)
	for _, fun := range langBuiltins {
		bindings[fun.name] = fun.Value()
	}
	bindings["nil"] = Nil()
	return bindings
}

func builtinAdd(env *Env, args []*LVal) (*LVal, error) {
	return foldNumbers("+", args, 0,
		func(a, b int32) (int32, error) { return a + b, nil },
		func(a, b float32) float32 { return a + b })
}

func builtinSub(env *Env, args []*LVal) (*LVal, error) {
	return foldNumbers("-", args, 0,
		func(a, b int32) (int32, error) { return a - b, nil },
		func(a, b float32) float32 { return a - b })
}

func builtinMul(env *Env, args []*LVal) (*LVal, error) {
	return foldNumbers("*", args, 1,
		func(a, b int32) (int32, error) { return a * b, nil },
		func(a, b float32) float32 { return a * b })
}

func builtinDiv(env *Env, args []*LVal) (*LVal, error) {
	return foldNumbers("/", args, 1,
		func(a, b int32) (int32, error) {
			if b == 0 {
				return 0, Errorf(CondDivideByZero, "division by zero")
			}
			return a / b, nil
		},
		func(a, b float32) float32 { return a / b })
}

// foldNumbers computes op(args[0], op(args[1], ... op(args[n-1], base))).
// When any argument is a float every argument is converted to float before
// folding.
func foldNumbers(name string, args []*LVal, base int32, iop func(a, b int32) (int32, error), fop func(a, b float32) float32) (*LVal, error) {
	isFloat := false
	for i, arg := range args {
		switch arg.Type {
		case LInt:
		case LFloat:
			isFloat = true
		default:
			return nil, Errorf(CondTypeError, "%s: argument %d is not a number: %v", name, i+1, arg.Type)
		}
	}
	if isFloat {
		acc := float32(base)
		for i := len(args) - 1; i >= 0; i-- {
			acc = fop(toFloat(args[i]), acc)
		}
		return Float(acc), nil
	}
	acc := base
	for i := len(args) - 1; i >= 0; i-- {
		var err error
		acc, err = iop(args[i].Int, acc)
		if err != nil {
			return nil, err
		}
	}
	return Int(acc), nil
}

func toFloat(v *LVal) float32 {
	if v.Type == LInt {
		return float32(v.Int)
	}
	return v.Float
}

func builtinEqual(env *Env, args []*LVal) (*LVal, error) {
	if len(args) != 2 {
		return nil, Errorf(CondArityError, "=: expected 2 arguments (got %d)", len(args))
	}
	if args[0].Equal(args[1]) {
		return env.Lookup(TrueSymbol), nil
	}
	return env.Lookup(FalseSymbol), nil
}

func builtinExit(env *Env, args []*LVal) (*LVal, error) {
	env.Runtime.Exit(0)
	return Nil(), nil
}

func opTrue(env *Env, args []Expr) (*Env, *LVal, error) {
	if len(args) != 2 {
		return env, nil, Errorf(CondArityError, "true: expected 2 branches (got %d)", len(args))
	}
	return env.Eval(args[0])
}

func opFalse(env *Env, args []Expr) (*Env, *LVal, error) {
	if len(args) != 2 {
		return env, nil, Errorf(CondArityError, "false: expected 2 branches (got %d)", len(args))
	}
	return env.Eval(args[1])
}
