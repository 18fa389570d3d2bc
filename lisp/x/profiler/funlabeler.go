// Copyright © 2024 The ELPS authors

package profiler

import (
	"github.com/luthersystems/slisp/lisp"
)

// FunLabeler provides an alternative name for a function label in the trace.
type FunLabeler func(runtime *lisp.Runtime, fun *lisp.LVal) string

// WithTypeLabeler labels spans with the calling convention of the function
// followed by its name, e.g. "builtin:+" or "lambda:fact".
func WithTypeLabeler() Option {
	return WithFunLabeler(typeFunLabeler)
}

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

func typeFunLabeler(runtime *lisp.Runtime, fun *lisp.LVal) string {
	name := defaultFunName(fun)
	if name == "" {
		return ""
	}
	return fun.Fun.FunType.String() + ":" + name
}
