// Copyright © 2024 The ELPS authors

package lisp

import "github.com/luthersystems/slisp/parser/token"

// Eval evaluates expr in env.  Eval returns the environment in which
// evaluation continues, the value of expr, and any error produced.  The
// returned environment differs from env only when expr (or a special
// operator it calls) binds a name.
func (env *Env) Eval(expr Expr) (*Env, *LVal, error) {
	switch e := expr.(type) {
	case *IntLiteral:
		return env, Int(e.Value), nil
	case *FloatLiteral:
		return env, Float(e.Value), nil
	case *StringLiteral:
		return env, String(e.Value), nil
	case *LookupExpr:
		return env.evalLookup(e)
	case *LambdaExpr:
		return env, Closure(env, e, e.SelfName), nil
	case *LetExpr:
		return env.evalLet(e)
	case *ListExpr:
		return env.evalList(e)
	case *SExpr:
		return env.evalCall(e)
	case nil:
		return env, nil, env.Errorf(nil, CondInvalidExpression, "nil expression")
	}
	return env, nil, env.Errorf(expr.Loc(), CondInvalidExpression, "unknown expression type %T", expr)
}

func (env *Env) evalLookup(e *LookupExpr) (*Env, *LVal, error) {
	v, ok := env.Get(e.Name)
	if ok {
		return env, v, nil
	}
	if env.Runtime.StrictLookup {
		return env, nil, env.Errorf(e.Source, CondUnboundSymbol, "unbound symbol: %s", e.Name)
	}
	return env, Nil(), nil
}

// evalLet binds the value of e.Value in a new environment.  A lambda bound
// by let can refer to itself by the bound name.
func (env *Env) evalLet(e *LetExpr) (*Env, *LVal, error) {
	if lambda, ok := e.Value.(*LambdaExpr); ok {
		return env.Bind(e.Name, Closure(env, lambda, e.Name)), Nil(), nil
	}
	next, v, err := env.Eval(e.Value)
	if err != nil {
		return env, nil, err
	}
	return next.Bind(e.Name, v), Nil(), nil
}

func (env *Env) evalList(e *ListExpr) (*Env, *LVal, error) {
	if len(e.Elements) == 0 {
		return env, Nil(), nil
	}
	if env.Runtime.QuoteMode == QuoteLegacy {
		return env, env.Lookup(ConsSymbol), nil
	}
	next, cells, err := env.evalOperands(e.Elements)
	if err != nil {
		return env, nil, err
	}
	return next, List(cells...), nil
}

// evalOperands evaluates exprs left to right.  Each operand is evaluated in
// the environment returned by the previous one.
func (env *Env) evalOperands(exprs []Expr) (*Env, []*LVal, error) {
	vals := make([]*LVal, len(exprs))
	next := env
	for i, expr := range exprs {
		var err error
		next, vals[i], err = next.Eval(expr)
		if err != nil {
			return env, nil, err
		}
	}
	return next, vals, nil
}

func (env *Env) evalCall(call *SExpr) (*Env, *LVal, error) {
	next, fun, err := env.Eval(call.Operator)
	if err != nil {
		return env, nil, err
	}
	if fun.Type != LFun {
		return env, nil, env.Errorf(call.Source, CondNotCallable, "not callable: %v", fun)
	}
	if fun.IsSpecialOp() {
		return next.callSpecialOp(call, fun)
	}
	next, args, err := next.evalOperands(call.Operands)
	if err != nil {
		return env, nil, err
	}
	v, err := next.FunCall(call, fun, args)
	// The caller's environment is unaffected by the call.
	return env, v, err
}

// FunCall invokes fun, a closure or builtin, with evaluated arguments.  call
// is the expression which produced the call and may be nil.
func (env *Env) FunCall(call *SExpr, fun *LVal, args []*LVal) (v *LVal, err error) {
	if fun.Type != LFun || fun.IsSpecialOp() {
		return nil, env.Errorf(callSource(call), CondNotCallable, "not a regular function: %v", fun)
	}
	done, err := env.enter(call, fun)
	if err != nil {
		return nil, err
	}
	defer done()
	if fun.Fun.FunType == LFunBuiltin {
		v, err = fun.Fun.Builtin(env, args)
	} else {
		v, err = env.callClosure(fun, args)
	}
	if err != nil {
		return nil, env.annotate(callSource(call), err)
	}
	return v, nil
}

func (env *Env) callSpecialOp(call *SExpr, fun *LVal) (*Env, *LVal, error) {
	done, err := env.enter(call, fun)
	if err != nil {
		return env, nil, err
	}
	defer done()
	next, v, err := fun.Fun.SpecialOp(env, call.Operands)
	if err != nil {
		return env, nil, env.annotate(call.Source, err)
	}
	return next, v, nil
}

// callClosure evaluates the body of a closure in a child of its captured
// environment.  The closure's own name is bound first so that parameters
// may shadow it.  Parameters without a corresponding argument are left
// unbound and extra arguments are ignored.
func (env *Env) callClosure(fun *LVal, args []*LVal) (*LVal, error) {
	data := fun.Fun
	bindings := make(map[string]*LVal, len(data.Formals)+1)
	if data.Name != "" {
		bindings[data.Name] = fun
	}
	for i, name := range data.Formals {
		if i >= len(args) {
			break
		}
		bindings[name] = args[i]
	}
	_, v, err := data.Env.Extend(bindings).Eval(data.Body)
	return v, err
}

// enter pushes a frame for fun onto the call stack and notifies the
// runtime's profiler.  The returned function must be called when the call
// completes.
func (env *Env) enter(call *SExpr, fun *LVal) (func(), error) {
	src := callSource(call)
	err := env.Runtime.Stack.Push(src, fun)
	if err != nil {
		return nil, env.Errorf(src, CondStackOverflow, "%v", err)
	}
	end := env.trace(fun)
	return func() {
		end()
		env.Runtime.Stack.Pop()
	}, nil
}

func (env *Env) trace(fun *LVal) func() {
	p := env.Runtime.Profiler
	if p == nil || !p.IsEnabled() {
		return func() {}
	}
	return p.Start(fun)
}

func callSource(call *SExpr) *token.Location {
	if call == nil {
		return nil
	}
	return call.Source
}
