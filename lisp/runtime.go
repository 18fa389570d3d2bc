// Copyright © 2024 The ELPS authors

package lisp

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// QuoteMode determines how a non-empty quoted list evaluates.
type QuoteMode uint

const (
	// QuoteLegacy evaluates a non-empty quoted list to the value bound to
	// the name cons, without looking at the list's elements.  It is the
	// default for compatibility with existing programs.
	QuoteLegacy QuoteMode = iota
	// QuoteConstruct evaluates each element of a quoted list and produces an
	// LList value.
	QuoteConstruct
)

func (m QuoteMode) String() string {
	switch m {
	case QuoteLegacy:
		return "legacy"
	case QuoteConstruct:
		return "construct"
	}
	return "invalid"
}

// ParseQuoteMode returns the QuoteMode named s.
func ParseQuoteMode(s string) (QuoteMode, error) {
	switch strings.ToLower(s) {
	case "", "legacy":
		return QuoteLegacy, nil
	case "construct":
		return QuoteConstruct, nil
	}
	return QuoteLegacy, fmt.Errorf("invalid quoted list mode: %q", s)
}

// Runtime is an object underlying a tree of Env values.  It is responsible
// for holding shared evaluation state and writing debugging output to a
// stream (typically os.Stderr).  A Runtime must not be used by more than one
// goroutine at a time.
type Runtime struct {
	Stderr   io.Writer
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler
	// Exit terminates the process when a program calls exit.
	Exit func(code int)
	// QuoteMode determines the value of non-empty quoted lists.
	QuoteMode QuoteMode
	// StrictLookup makes references to unbound names an error instead of
	// nil.
	StrictLookup bool

	prelude *preludeSource
}

type preludeSource struct {
	name string
	path string
	text []byte
}

// StandardRuntime returns a new Runtime with Stderr set to os.Stderr and a
// call stack limited to DefaultMaxCallDepth frames.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stderr: os.Stderr,
		Stack:  &CallStack{MaxHeight: DefaultMaxCallDepth},
		Exit:   os.Exit,
	}
}

func (r *Runtime) getStderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}
