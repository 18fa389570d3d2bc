// Copyright © 2024 The ELPS authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/slisp/diagnostic"
	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser/rdparser"
)

func runReplWithString(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		opts := append([]Option{
			WithStdin(inR),
			WithStderr(outW),
			WithHistoryFile(""),
			WithColor(diagnostic.ColorNever),
		}, opts...)
		errc <- RunRepl("slisp> ", opts...)
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup
	require.NoError(t, <-errc)
	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".slisp_history")

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".slisp_history")
	require.NoError(t, os.WriteFile(histFile, []byte("some history"), 0644))

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple Addition",
			input:    "(+ 1 1)\n",
			expected: []string{"2\n"},
		},
		{
			name:     "Bindings persist across lines",
			input:    "(let (f x) (* x 2))\n(f 21)\n",
			expected: []string{"nil\n", "42\n"},
		},
		{
			name:     "Several forms on a line",
			input:    "(let a 1) (let b (+ a 1)) b\n",
			expected: []string{"nil\n", "2\n"},
		},
		{
			name:     "Multiline expression",
			input:    "(let (g x)\n  (+ x 1))\n(g 1)\n",
			expected: []string{"2\n"},
		},
		{
			name:     "Evaluation error",
			input:    "(let a 5)\n(a 1)\na\n",
			expected: []string{"error[not-callable]", "5\n"},
		},
		{
			name:     "Syntax error",
			input:    "(+ 1 2))\n(+ 2 2)\n",
			expected: []string{"3\n", "error[unexpected-token]", "4\n"},
		},
		{
			name:     "Prelude",
			input:    "(fact 5)\n",
			expected: []string{"120\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, expected := range tc.expected {
				assert.Contains(t, got, expected)
			}
		})
	}
}

func TestRunReplEnvConfig(t *testing.T) {
	got := runReplWithString(t, "undefined\n", WithEnvConfig(lisp.WithStrictLookup()))
	assert.Contains(t, got, "error[unbound-symbol]")
	assert.Contains(t, got, "--> repl:1:1")
}

func TestRunReplErrorDiscardsRestOfLine(t *testing.T) {
	got := runReplWithString(t, "(1 2) (+ 40 2)\n(+ 4 4)\n")
	assert.Contains(t, got, "error[not-callable]")
	assert.NotContains(t, got, "42")
	assert.Contains(t, got, "8\n")
}

func TestRunReplParsecReader(t *testing.T) {
	got := runReplWithString(t, "(let (g x)\u00a0\n  (+ x 1))\n(g\u30001)\n",
		WithEnvConfig(lisp.WithReader(rdparser.NewParsecReader())))
	assert.Contains(t, got, "2\n")
	assert.NotContains(t, got, "error")
}

func TestSymbolCompleter(t *testing.T) {
	env := lisp.NewEnvRuntime(nil).Extend(map[string]*lisp.LVal{
		"fact":  lisp.Nil(),
		"false": lisp.Nil(),
		"inc":   lisp.Nil(),
	})
	c := &symbolCompleter{env: func() *lisp.Env { return env }}

	candidates, offset := c.Do([]rune("(fa"), 3)
	assert.Equal(t, 2, offset)
	assert.Equal(t, [][]rune{[]rune("ct"), []rune("lse")}, candidates)

	candidates, offset = c.Do([]rune("(inc"), 4)
	assert.Empty(t, candidates)
	assert.Equal(t, 0, offset)

	candidates, _ = c.Do([]rune("(zzz"), 4)
	assert.Empty(t, candidates)

	candidates, _ = c.Do([]rune("("), 1)
	assert.Empty(t, candidates)
}
