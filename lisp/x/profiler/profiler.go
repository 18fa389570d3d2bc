// Copyright © 2024 The ELPS authors

// Package profiler contains lisp.Profiler implementations which record the
// functions called by an evaluating environment.
package profiler

import (
	"fmt"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser/token"
)

// profiler is the state shared by the profiler implementations.
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Start(fun *lisp.LVal) func() {
	return func() {}
}

// defaultFunName returns the name fun is bound to, or "lambda" for an
// anonymous closure.
func defaultFunName(fun *lisp.LVal) string {
	if fun.Type != lisp.LFun {
		return ""
	}
	if fun.Fun.Name == "" {
		return "lambda"
	}
	return fun.Fun.Name
}

// prettyFunName returns a pretty name and original name for a fun. If there is
// no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(fun *lisp.LVal) (string, string) {
	origLabel := defaultFunName(fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(p.runtime, fun)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v *lisp.LVal) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}

// getSourceLoc returns the location of a closure's body.  Native functions
// have no source.
func getSourceLoc(fun *lisp.LVal) *token.Location {
	if fun.Type != lisp.LFun || fun.Fun.Body == nil {
		return nil
	}
	return fun.Fun.Body.Loc()
}
