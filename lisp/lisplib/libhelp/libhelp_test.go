// Copyright © 2024 The ELPS authors

package libhelp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/lisplib"
	"github.com/luthersystems/slisp/lisp/lisplib/libhelp"
)

func newTestEnv(t *testing.T) *lisp.Env {
	t.Helper()
	env, err := lisplib.NewEnv(nil, lisp.WithStderr(&bytes.Buffer{}))
	require.NoError(t, err)
	return env
}

func TestCheckMissing(t *testing.T) {
	assert.Empty(t, libhelp.CheckMissing())
}

func TestRenderVar(t *testing.T) {
	env := newTestEnv(t)
	env, _, err := env.LoadString("test", `(let answer 42) (let greeting "hi")`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderVar(&buf, env, "answer"))
	assert.Equal(t, "int answer = 42\n", buf.String())

	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "greeting"))
	assert.Equal(t, "string greeting = \"hi\"\n", buf.String())

	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "fact"))
	assert.Equal(t, "lambda (fact n)\n", buf.String())

	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "="))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.True(t, len(lines) > 1)
	assert.Equal(t, "builtin (= a b)", lines[0])
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "  "), "docs are indented: %q", line)
		assert.True(t, len(line) <= 74, "docs are wrapped: %q", line)
	}

	buf.Reset()
	require.NoError(t, libhelp.RenderVar(&buf, env, "true"))
	assert.True(t, strings.HasPrefix(buf.String(), "special (true then else)\n"))

	assert.Error(t, libhelp.RenderVar(&buf, env, "no-such-name"))
}

func TestRenderBuiltins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderBuiltins(&buf))
	out := buf.String()
	for _, b := range lisp.DefaultBuiltins() {
		assert.Contains(t, out, "("+b.Name())
	}
	assert.Contains(t, out, "builtin (exit)\n")
}
