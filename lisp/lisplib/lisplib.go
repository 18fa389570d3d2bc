// Copyright © 2024 The ELPS authors

// Package lisplib is used to conveniently load the standard prelude into a
// slisp environment.
package lisplib

import (
	"bytes"
	_ "embed"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser"
)

// PreludeName is the source name attributed to the embedded prelude.
const PreludeName = "prelude.lisp"

//go:embed prelude.lisp
var preludeSource []byte

// Prelude returns a Config which loads the embedded prelude into a root
// environment.
func Prelude() lisp.Config {
	return lisp.WithPrelude(PreludeName, bytes.NewReader(preludeSource))
}

// PreludeSource returns the text of the embedded prelude.
func PreludeSource() string {
	return string(preludeSource)
}

// NewEnv creates a standard root environment which parses source with
// parser.NewReader and has the embedded prelude loaded.  Configs in config
// are applied afterwards and may override either choice.
func NewEnv(rt *lisp.Runtime, config ...lisp.Config) (*lisp.Env, error) {
	std := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		Prelude(),
	}
	return lisp.InitializeUserEnv(rt, append(std, config...)...)
}
