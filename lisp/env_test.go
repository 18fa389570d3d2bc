// Copyright © 2024 The ELPS authors

package lisp_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/lisplib"
	"github.com/luthersystems/slisp/parser"
)

func newEnv(t *testing.T, config ...lisp.Config) *lisp.Env {
	t.Helper()
	env, err := lisplib.NewEnv(nil, append([]lisp.Config{lisp.WithStderr(&bytes.Buffer{})}, config...)...)
	require.NoError(t, err)
	return env
}

func TestEnvPersistence(t *testing.T) {
	root := newEnv(t)
	env, _, err := root.LoadString("test", `(let x 1)`)
	require.NoError(t, err)
	assert.NotSame(t, root, env)

	later, _, err := env.LoadString("test", `(let x 2) (let y 3)`)
	require.NoError(t, err)

	assert.Equal(t, "1", env.Lookup("x").String())
	assert.True(t, env.Lookup("y").IsNil())
	assert.Equal(t, "2", later.Lookup("x").String())
	assert.Equal(t, "3", later.Lookup("y").String())
	_, ok := root.Get("x")
	assert.False(t, ok)
}

func TestEnvBind(t *testing.T) {
	env := lisp.NewEnvRuntime(nil)
	assert.Equal(t, 1, env.Depth())
	assert.Empty(t, env.Names())

	a := env.Bind("a", lisp.Int(1))
	b := a.Bind("b", lisp.Int(2))
	shadow := b.Bind("a", lisp.String("x"))
	assert.Equal(t, []string{"a", "b"}, shadow.Names())
	assert.Equal(t, 4, shadow.Depth())
	assert.Equal(t, `"x"`, shadow.Lookup("a").String())
	assert.Equal(t, "1", b.Lookup("a").String())
	assert.Same(t, env.Runtime, shadow.Runtime)

	assert.Same(t, b, b.Extend(nil))
	ext := b.Extend(map[string]*lisp.LVal{"c": lisp.Nil()})
	_, ok := ext.Get("c")
	assert.True(t, ok)
	_, ok = b.Get("c")
	assert.False(t, ok)
}

func TestEvalAllStopsAtError(t *testing.T) {
	env := newEnv(t)
	exprs, err := parser.NewReader().Read("test", strings.NewReader(`(let a 1) (1 2) (let b 2)`))
	require.NoError(t, err)
	next, v, err := env.EvalAll(exprs)
	assert.Error(t, err)
	assert.Nil(t, v)
	assert.Equal(t, "1", next.Lookup("a").String())
	_, ok := next.Get("b")
	assert.False(t, ok)

	_, v, err = env.EvalAll(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNil())
}

func TestLoadParseErrorEvaluatesNothing(t *testing.T) {
	env := newEnv(t)
	next, _, err := env.LoadString("test", `(let a 1) (let b`)
	assert.Error(t, err)
	assert.Same(t, env, next)
}

func TestLoadWithoutReader(t *testing.T) {
	env, err := lisp.InitializeUserEnv(nil)
	require.NoError(t, err)
	_, _, err = env.LoadString("test", "1")
	var lerr *lisp.ErrorVal
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, lisp.CondNoReader, lerr.Condition())

	_, v, err := env.Eval(&lisp.IntLiteral{Value: 3})
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())
}

func TestRootBindings(t *testing.T) {
	env, err := lisp.InitializeUserEnv(nil)
	require.NoError(t, err)
	names := []string{"*", "+", "-", "/", "=", "exit", "false", "nil", "true"}
	assert.Equal(t, names, env.Names())
	assert.True(t, env.Lookup("nil").IsNil())
	assert.True(t, env.Lookup(lisp.TrueSymbol).IsSpecialOp())
	assert.False(t, env.Lookup("+").IsSpecialOp())

	defs := lisp.DefaultBuiltins()
	require.Len(t, defs, 8)
	for i := 1; i < len(defs); i++ {
		assert.True(t, defs[i-1].Name() < defs[i].Name())
	}
	for _, def := range defs {
		assert.NotEmpty(t, def.Docstring(), def.Name())
		assert.NotContains(t, def.Docstring(), "\n")
	}
}
