// Copyright © 2024 The ELPS authors

// Package slisptest provides helpers for testing and benchmarking slisp
// programs from Go.
package slisptest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/lisplib"
	"github.com/luthersystems/slisp/parser"
)

func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// Runner evaluates lisp source files in fresh environments.
type Runner struct {
	// Config is applied to the environment after the standard prelude is
	// configured.
	Config []lisp.Config
}

// NewEnv returns a root environment with the standard prelude loaded whose
// runtime output is logged to t.
func (r *Runner) NewEnv(t testing.TB) (*lisp.Env, error) {
	config := append([]lisp.Config{lisp.WithStderr(NewLogger(t))}, r.Config...)
	env, err := lisplib.NewEnv(nil, config...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lisp environment: %w", err)
	}
	return env, nil
}

// RunFile evaluates the file at path and returns the value of its last
// expression.  A failure to load the file is reported as a test error and nil
// is returned.
func (r *Runner) RunFile(t testing.TB, path string) *lisp.LVal {
	env, err := r.NewEnv(t)
	if err != nil {
		t.Error(err.Error())
		return nil
	}
	if logger, ok := env.Runtime.Stderr.(*Logger); ok {
		defer logger.Flush()
	}
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return nil
	}
	_, v, err := env.Load(filepath.Base(path), bytes.NewReader(source))
	if err != nil {
		LispError(t, err)
		return nil
	}
	return v
}

// LispError reports err as a test error, including a stack trace when err
// was produced by evaluation.
func LispError(t testing.TB, err error) {
	t.Helper()
	var lerr *lisp.ErrorVal
	if !errors.As(err, &lerr) {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// Condition returns the condition of err if it is a parse or evaluation
// error, otherwise the empty string.
func Condition(err error) string {
	var cerr interface{ Condition() string }
	if errors.As(err, &cerr) {
		return cerr.Condition()
	}
	return ""
}

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially.  Each expression is evaluated in the environment produced by
// the previous one.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the evaluated result
	Error  string // the expected error condition, if any
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on an isolated root
// environment with the standard prelude loaded.  Configs in config are
// applied to every environment.
func RunTestSuite(t *testing.T, tests TestSuite, config ...lisp.Config) {
	for i, test := range tests {
		t.Logf("test %d -- %s", i, test.Name)
		logger := NewLogger(t)
		env, err := lisplib.NewEnv(nil, append([]lisp.Config{lisp.WithStderr(logger)}, config...)...)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			exprs, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				if expr.Error != "" && Condition(err) == expr.Error {
					continue
				}
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(exprs) != 1 {
				t.Errorf("test %d %q: expr %d: expected one expression (got %d)", i, test.Name, j, len(exprs))
				continue
			}
			next, v, err := env.Eval(exprs[0])
			if expr.Error != "" {
				if err == nil {
					t.Errorf("test %d %q: expr %d: expected %s error (got result %v)", i, test.Name, j, expr.Error, v)
				} else if Condition(err) != expr.Error {
					t.Errorf("test %d %q: expr %d: expected %s error (got %v)", i, test.Name, j, expr.Error, err)
				}
				continue
			}
			if err != nil {
				t.Errorf("test %d %q: expr %d: %v", i, test.Name, j, err)
				continue
			}
			env = next
			if v.String() != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, v)
			}
		}
		logger.Flush()
	}
}

// RunBenchmark runs a standard benchmark that executes expressions parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env, err := lisplib.NewEnv(nil, lisp.WithStderr(io.Discard))
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		_, _, err = env.EvalAll(exprs)
		b.StopTimer()
		if err != nil {
			b.Fatal(err)
		}
	}
}
