// Copyright © 2024 The ELPS authors

package lisp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Config is a function that configures a Runtime before its root environment
// is initialized.
type Config func(rt *Runtime) error

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for a runtime.
func WithReader(r Reader) Config {
	return func(rt *Runtime) error {
		rt.Reader = r
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(rt *Runtime) error {
		rt.Stderr = w
		return nil
	}
}

// WithMaximumCallDepth returns a Config that will prevent an execution
// environment from allowing the call stack height to exceed n.  A value of
// zero or less removes the limit, leaving recursion depth bounded only by the
// host.
func WithMaximumCallDepth(n int) Config {
	return func(rt *Runtime) error {
		rt.Stack.MaxHeight = n
		return nil
	}
}

// WithQuoteMode returns a Config that determines how quoted lists evaluate.
func WithQuoteMode(mode QuoteMode) Config {
	return func(rt *Runtime) error {
		rt.QuoteMode = mode
		return nil
	}
}

// WithStrictLookup returns a Config that makes references to unbound names
// produce an unbound-symbol error.
func WithStrictLookup() Config {
	return func(rt *Runtime) error {
		rt.StrictLookup = true
		return nil
	}
}

// WithProfiler returns a Config that makes environments notify p of every
// function call.
func WithProfiler(p Profiler) Config {
	return func(rt *Runtime) error {
		rt.Profiler = p
		return nil
	}
}

// WithExit returns a Config that replaces the function called when a program
// evaluates (exit).
func WithExit(fn func(code int)) Config {
	return func(rt *Runtime) error {
		rt.Exit = fn
		return nil
	}
}

// WithPrelude returns a Config that loads the source read from r, identified
// by name, into the root environment after the builtins are bound.
func WithPrelude(name string, r io.Reader) Config {
	return func(rt *Runtime) error {
		text, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("prelude %s: %w", name, err)
		}
		rt.prelude = &preludeSource{name: name, text: text}
		return nil
	}
}

// WithPreludeFile returns a Config that loads the file at path into the root
// environment after the builtins are bound.  An error is returned if the file
// cannot be read.
func WithPreludeFile(path string) Config {
	return func(rt *Runtime) error {
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("prelude: %w", err)
		}
		rt.prelude = &preludeSource{
			name: filepath.Base(path),
			path: path,
			text: text,
		}
		return nil
	}
}
