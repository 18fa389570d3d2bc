// Copyright © 2024 The ELPS authors

package lisp

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of expressions that it
	// contains, in source order.
	Read(name string, r io.Reader) ([]Expr, error)
}

// LocationReader is like Reader but assigns physical locations to the tokens
// from r.
type LocationReader interface {
	// ReadLocation the contents of r, associated with physical location loc,
	// and return the sequence of expressions that it contains.
	ReadLocation(name string, loc string, r io.Reader) ([]Expr, error)
}

// EvalAll evaluates exprs in order, each in the environment produced by the
// previous expression.  EvalAll returns the final environment and the value
// of the last expression.  When an expression fails the environment produced
// by the expressions preceding it is returned along with the error.
func (env *Env) EvalAll(exprs []Expr) (*Env, *LVal, error) {
	last := Nil()
	for _, expr := range exprs {
		next, v, err := env.Eval(expr)
		if err != nil {
			return env, nil, err
		}
		env, last = next, v
	}
	return env, last, nil
}

// Load reads expressions from r using the runtime's Reader and evaluates
// them with EvalAll.  No expression is evaluated if r cannot be parsed.
func (env *Env) Load(name string, r io.Reader) (*Env, *LVal, error) {
	if env.Runtime.Reader == nil {
		return env, nil, env.Errorf(nil, CondNoReader, "no reader for environment runtime")
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return env, nil, err
	}
	return env.EvalAll(exprs)
}

// LoadString parses and evaluates the expressions in source.
func (env *Env) LoadString(name, source string) (*Env, *LVal, error) {
	return env.Load(name, strings.NewReader(source))
}

// LoadFile parses and evaluates the expressions in the file at path.
func (env *Env) LoadFile(path string) (*Env, *LVal, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return env, nil, err
	}
	return env.loadLocation(filepath.Base(path), path, text)
}

func (env *Env) loadLocation(name, path string, text []byte) (*Env, *LVal, error) {
	locReader, ok := env.Runtime.Reader.(LocationReader)
	if !ok || path == "" {
		return env.Load(name, bytes.NewReader(text))
	}
	exprs, err := locReader.ReadLocation(name, path, bytes.NewReader(text))
	if err != nil {
		return env, nil, err
	}
	return env.EvalAll(exprs)
}
