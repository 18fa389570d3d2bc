// Copyright © 2024 The ELPS authors

package lisplib_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/lisplib"
	"github.com/luthersystems/slisp/parser"
)

func TestNewEnv(t *testing.T) {
	env, err := lisplib.NewEnv(nil, lisp.WithStderr(&bytes.Buffer{}))
	require.NoError(t, err)
	for _, name := range []string{"not", "and", "or", "cons", "car", "cdr", "fact", "compose", "+", "true", "nil"} {
		_, ok := env.Get(name)
		assert.True(t, ok, "%s should be bound", name)
	}

	tests := []struct {
		expr   string
		result string
	}{
		{`(fact 5)`, `120`},
		{`(car (cons 1 2))`, `1`},
		{`(cdr (cons 1 2))`, `2`},
		{`((not true) 1 2)`, `2`},
		{`((and true false) 1 2)`, `2`},
		{`((or false true) 1 2)`, `1`},
		{`(neg 4)`, `-4`},
		{`(dec 4)`, `3`},
		{`((compose inc square) 3)`, `10`},
		{`(id "x")`, `"x"`},
	}
	for _, test := range tests {
		_, v, err := env.LoadString("test", test.expr)
		if assert.NoError(t, err, test.expr) {
			assert.Equal(t, test.result, v.String(), test.expr)
		}
	}
}

func TestPreludeOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mine.lisp")
	require.NoError(t, os.WriteFile(path, []byte("(let answer 42)"), 0600))

	env, err := lisplib.NewEnv(nil, lisp.WithPreludeFile(path))
	require.NoError(t, err)
	_, v, err := env.LoadString("test", "answer")
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())
	_, ok := env.Get("fact")
	assert.False(t, ok, "embedded prelude should be replaced")
}

func TestPreludeFailure(t *testing.T) {
	_, err := lisplib.NewEnv(nil, lisp.WithPreludeFile(filepath.Join(t.TempDir(), "missing.lisp")))
	assert.Error(t, err)

	_, err = lisplib.NewEnv(nil, lisp.WithPrelude("bad.lisp", strings.NewReader("(let x")))
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "bad.lisp")
	}

	_, err = lisplib.NewEnv(nil, lisp.WithPrelude("bad.lisp", strings.NewReader("(1 2)")))
	assert.Error(t, err)

	_, err = lisp.InitializeUserEnv(nil, lisplib.Prelude())
	assert.Error(t, err, "loading a prelude requires a reader")
}

func TestPreludeParsesWithEveryReader(t *testing.T) {
	for _, name := range []string{parser.ReaderDefault, parser.ReaderParsec} {
		r, err := parser.ReaderByName(name)
		require.NoError(t, err)
		exprs, err := r.Read(lisplib.PreludeName, strings.NewReader(lisplib.PreludeSource()))
		require.NoError(t, err, name)
		assert.NotEmpty(t, exprs)
	}
}
