// Copyright © 2024 The ELPS authors

package diagnostic

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

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, errors.New("not found: " + name)
			}
			return []byte(s), nil
		},
	}
}

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lisp": "(let x 1)\n(+ x \"a\")",
	})
	got := render(t, r, Diagnostic{
		Severity:  SeverityError,
		Condition: "type-error",
		Message:   "+: argument 2 is not a number: string",
		Spans: []Span{
			{File: "test.lisp", Line: 2, Col: 6, EndCol: 8, Label: "string argument"},
		},
	})
	expect := "error[type-error]: +: argument 2 is not a number: string\n" +
		"  --> test.lisp:2:6\n" +
		"   |\n" +
		" 2 |  (+ x \"a\")\n" +
		"   |       ^^^ string argument\n" +
		"   |\n"
	assert.Equal(t, expect, got)
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{"test.lisp": "(f 1)"})
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "something odd",
		Spans:    []Span{{File: "test.lisp", Line: 1, Col: 1}},
	})
	assert.Contains(t, got, "warning: something odd\n")
	assert.Contains(t, got, "  ^\n", "an open paren is a single character")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans:    []Span{{File: "<stdin>", Line: 5, Col: 3}},
	})
	assert.Contains(t, got, "error: some error")
	assert.Contains(t, got, "--> <stdin>:5:3")
	assert.Contains(t, got, "|")
	assert.NotContains(t, got, "^")
}

func TestRenderInMemorySource(t *testing.T) {
	r := testRenderer(nil)
	r.Sources = map[string]string{"repl": "(fact\tundefined)"}
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "unbound",
		Spans:    []Span{{File: "repl", Line: 1, Col: 7}},
	})
	// the tab expands to four columns
	assert.Contains(t, got, " |  (fact    undefined)\n")
	assert.Contains(t, got, " |  "+strings.Repeat(" ", 9)+strings.Repeat("^", 9)+"\n")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(nil)
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "boom",
		Notes:    []string{"in f at test.lisp:1:1", "in g at test.lisp:2:1"},
	})
	assert.Contains(t, got, "= note: in f at test.lisp:1:1\n")
	assert.Contains(t, got, "= note: in g at test.lisp:2:1\n")
	assert.NotContains(t, got, "-->")
}

func TestRenderAll(t *testing.T) {
	r := testRenderer(nil)
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, []Diagnostic{
		{Severity: SeverityNote, Message: "first"},
		{Severity: SeverityNote, Message: "second"},
	}))
	assert.Equal(t, "note: first\n\nnote: second\n", buf.String())
}

func TestRenderColor(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways
	got := render(t, r, Diagnostic{Severity: SeverityError, Message: "x"})
	assert.True(t, strings.HasPrefix(got, ansiPalette.boldRed))

	for _, s := range []string{"", "auto", "always", "never"} {
		_, err := ParseColorMode(s)
		assert.NoError(t, err)
	}
	mode, err := ParseColorMode("Never")
	require.NoError(t, err)
	assert.Equal(t, ColorNever, mode)
	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestFromSyntaxError(t *testing.T) {
	_, err := parser.NewReader().Read("test.lisp", strings.NewReader("(+ 1\n  (f 2)"))
	require.Error(t, err)
	d := FromError(err)
	assert.Equal(t, "missing-close-paren", d.Condition)
	assert.Equal(t, "unmatched (", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, Span{File: "test.lisp", Line: 1, Col: 1}, d.Spans[0])
}

func TestFromEvalError(t *testing.T) {
	env, err := lisplib.NewEnv(nil, lisp.WithStderr(&bytes.Buffer{}))
	require.NoError(t, err)
	_, _, err = env.LoadString("test.lisp", "(let (f x) (/ x 0))\n(f 1)")
	require.Error(t, err)

	d := FromError(err)
	assert.Equal(t, lisp.CondDivideByZero, d.Condition)
	assert.Equal(t, "division by zero", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, 12, d.Spans[0].Col)
	assert.Equal(t, []string{"in / at test.lisp:1:12", "in f at test.lisp:2:1"}, d.Notes)

	r := testRenderer(nil)
	r.Sources = map[string]string{"test.lisp": "(let (f x) (/ x 0))\n(f 1)"}
	var buf bytes.Buffer
	require.NoError(t, r.RenderError(&buf, err))
	assert.Contains(t, buf.String(), " 1 |  (let (f x) (/ x 0))\n")
	assert.Contains(t, buf.String(), "   |  "+strings.Repeat(" ", 11)+"^\n")
}

func TestFromPlainError(t *testing.T) {
	d := FromError(errors.New("open x.lisp: no such file"))
	assert.Equal(t, "open x.lisp: no such file", d.Message)
	assert.Empty(t, d.Spans)
	assert.Empty(t, d.Condition)
}
