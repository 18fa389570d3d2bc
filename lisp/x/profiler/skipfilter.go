// Copyright © 2024 The ELPS authors

package profiler

import (
	"github.com/luthersystems/slisp/lisp"
)

type SkipFilter func(fun *lisp.LVal) bool

func defaultSkipFilter(fun *lisp.LVal) bool {
	return fun == nil || fun.Type != lisp.LFun
}

// WithClosuresOnly filters out spans for builtin functions and special
// operators.
func WithClosuresOnly() Option {
	return WithSkipFilter(nativeSkipFilter)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

func nativeSkipFilter(fun *lisp.LVal) bool {
	return fun.Fun.FunType != lisp.LFunClosure
}
