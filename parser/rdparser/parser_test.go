// Copyright © 2024 The ELPS authors

package rdparser

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser/token"
)

func TestParser(t *testing.T) {
	tests := []struct {
		source string
		output string
	}{
		{`0`, `0`},
		{`12`, `12`},
		{`0.5`, `0.5`},
		{`3.`, `3.0`},
		{`abc`, `abc`},
		{`x1`, `x1`},
		{`"xyz"`, `"xyz"`},
		{`"x\"yz"`, `"x\"yz"`},
		{`"\n"`, `"n"`},
		{`""`, `""`},
		{`()`, `'()`},
		{`'()`, `'()`},
		{`'(1 2 3)`, `'(1 2 3)`},
		{`'(1 (2 x) "s")`, `'(1 (2 x) "s")`},
		{`'(1 '(2))`, `'(1 (2))`},
		{`(f)`, `(f)`},
		{`(+ 1 2.5)`, `(+ 1 2.5)`},
		{`((lambda (x) x) 1)`, `((lambda (x) x) 1)`},
		{`(lambda (x y) (+ x y))`, `(lambda (x y) (+ x y))`},
		{`(lambda () 1)`, `(lambda () 1)`},
		{`(let x 1)`, `(let x 1)`},
		{`(let f (lambda (n) n))`, `(let f (lambda (n) n))`},
		{`(let (f n) (* n 2))`, `(let (f n) (* n 2))`},
		{`(let (f) 1)`, `(let (f) 1)`},
		{`; comment
		  (f ; more
		   x)`, `(f x)`},
	}

	for i, test := range tests {
		name := fmt.Sprintf("test%d", i)
		s := token.NewScanner(name, strings.NewReader(test.source))
		p := New(s)
		exprs, err := p.ParseProgram()
		if !assert.NoError(t, err, "test %d: %q", i, test.source) {
			continue
		}
		if !assert.Len(t, exprs, 1, "test %d", i) {
			continue
		}
		assert.Equal(t, test.output, exprs[0].String(), "test %d", i)
	}
}

func TestParserShapes(t *testing.T) {
	exprs, err := readString(`(let (fact n) ((= n 0) 1 (* n (fact (- n 1))))) '() 'x`)
	if assert.Error(t, err) {
		assertCondition(t, CondMissingOpenParen, err)
	}

	exprs, err = readString(`(let (fact n) ((= n 0) 1 (* n (fact (- n 1)))))`)
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	let, ok := exprs[0].(*lisp.LetExpr)
	require.True(t, ok)
	assert.Equal(t, "fact", let.Name)
	lambda, ok := let.Value.(*lisp.LambdaExpr)
	require.True(t, ok)
	assert.Equal(t, []string{"n"}, lambda.Params)
	assert.Equal(t, "fact", lambda.SelfName)
	body, ok := lambda.Body.(*lisp.SExpr)
	require.True(t, ok)
	assert.IsType(t, &lisp.SExpr{}, body.Operator)
	assert.Len(t, body.Operands, 2)

	exprs, err = readString(`(lambda (a b) a)`)
	require.NoError(t, err)
	lambda, ok = exprs[0].(*lisp.LambdaExpr)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, lambda.Params)
	assert.Equal(t, "", lambda.SelfName)

	exprs, err = readString(`'(1 2.5 "s")`)
	require.NoError(t, err)
	list, ok := exprs[0].(*lisp.ListExpr)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)
	assert.Equal(t, &lisp.IntLiteral{Source: list.Elements[0].Loc(), Value: 1}, list.Elements[0])
	assert.Equal(t, &lisp.FloatLiteral{Source: list.Elements[1].Loc(), Value: 2.5}, list.Elements[1])
	assert.Equal(t, &lisp.StringLiteral{Source: list.Elements[2].Loc(), Value: "s"}, list.Elements[2])
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		source    string
		condition string
	}{
		{`(+ 1 2`, CondMissingCloseParen},
		{`'(1 2`, CondMissingCloseParen},
		{`(f (g x)`, CondMissingCloseParen},
		{`)`, CondUnexpectedToken},
		{`(+ 1 2))`, CondUnexpectedToken},
		{`let`, CondUnexpectedToken},
		{`(f let)`, CondUnexpectedToken},
		{`'`, CondUnexpectedEOF},
		{`'x`, CondMissingOpenParen},
		{`"abc`, CondMissingQuote},
		{`(# 1)`, CondBadOperator},
		{`(f #)`, CondUnrecognizedLexeme},
		{`#`, CondUnrecognizedLexeme},
		{`(+ 1 4294967296)`, CondInvalidLiteral},
		{`(let x)`, CondMalformedLet},
		{`(let x 1 2)`, CondMalformedLet},
		{`(let 1 2)`, CondMalformedLet},
		{`(let ((f) x) 1)`, CondMalformedLet},
		{`(let (f 1) 1)`, CondBadArgumentName},
		{`(lambda (x))`, CondMalformedLambda},
		{`(lambda x x)`, CondMalformedLambda},
		{`(lambda (x 2) x)`, CondBadArgumentName},
		{`(lambda '(x) x)`, CondMalformedLambda},
		{`(lambda '() 1)`, CondMalformedLambda},
		{`(lambda ((x) y) x)`, CondBadArgumentName},
		{`99999999999`, CondInvalidLiteral},
	}
	for _, test := range tests {
		_, err := readString(test.source)
		if assert.Error(t, err, "source %q", test.source) {
			assertCondition(t, test.condition, err, "source %q", test.source)
		}
	}
}

func TestParserErrorLocation(t *testing.T) {
	_, err := readString("(f\n  (g x)")
	require.Error(t, err)
	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, CondMissingCloseParen, serr.Condition())
	assert.Equal(t, 1, serr.Source.Line)
	assert.Equal(t, 1, serr.Source.Col)
	assert.Equal(t, "test:1:1: missing-close-paren: unmatched (", err.Error())

	_, err = readString("(+ 1 2)\n  )")
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 2, serr.Source.Line)
	assert.Equal(t, 3, serr.Source.Col)
}

func TestParseForm(t *testing.T) {
	p := New(token.NewScanner("test", strings.NewReader(`) x let`)))
	form, err := p.ParseForm(false)
	require.NoError(t, err)
	require.NotNil(t, form.Token)
	assert.Equal(t, token.PAREN_R, form.Token.Type)

	form, err = p.ParseForm(false)
	require.NoError(t, err)
	assert.Nil(t, form.Token)
	assert.Equal(t, "x", form.Expr.String())

	form, err = p.ParseForm(false)
	require.NoError(t, err)
	assert.Equal(t, token.KEYWORD, form.Token.Type)

	_, err = p.Parse()
	assert.Equal(t, io.EOF, err)
	_, err = p.Parse()
	assert.Equal(t, io.EOF, err)
}

func TestParseFormSkipQuote(t *testing.T) {
	p := New(token.NewScanner("test", strings.NewReader(`(a b)`)))
	form, err := p.ParseForm(true)
	require.NoError(t, err)
	assert.IsType(t, &lisp.ListExpr{}, form.Expr)

	p = New(token.NewScanner("test", strings.NewReader(`(a b)`)))
	form, err = p.ParseForm(false)
	require.NoError(t, err)
	assert.IsType(t, &lisp.SExpr{}, form.Expr)
}

func TestParsecReaderAgrees(t *testing.T) {
	const source = `
	; definitions
	(let (fact n) ((= n 0) 1 (* n (fact (- n 1)))))
	(let s "a\"b")
	'(1 2.5 (x))
	((lambda () 3))`
	exprs, err := NewReader().Read("test", strings.NewReader(source))
	require.NoError(t, err)
	pexprs, err := NewParsecReader().Read("test", strings.NewReader(source))
	require.NoError(t, err)
	assert.Equal(t, exprs, pexprs)
}

func TestIsIncomplete(t *testing.T) {
	incomplete := []string{`(f`, `'(`, `'`, `"abc`, `(let (f x)`}
	for _, source := range incomplete {
		_, err := readString(source)
		assert.True(t, IsIncomplete(err), "source %q", source)
	}
	complete := []string{`)`, `(let x)`, `'x`}
	for _, source := range complete {
		_, err := readString(source)
		assert.Error(t, err)
		assert.False(t, IsIncomplete(err), "source %q", source)
	}
	assert.False(t, IsIncomplete(nil))
	assert.False(t, IsIncomplete(errors.New("other")))
}

func TestInteractive(t *testing.T) {
	p := NewInteractive("repl")
	p.SetPrompts("> ", "- ")
	assert.Equal(t, "> ", p.Prompt())

	exprs, err := p.Feed("(let (f x)")
	require.NoError(t, err)
	assert.Nil(t, exprs)
	assert.True(t, p.IsParsing())
	assert.Equal(t, "- ", p.Prompt())

	exprs, err = p.Feed("  (* x 2)) (f 2)")
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, "(let (f x) (* x 2))", exprs[0].String())
	assert.Equal(t, 2, exprs[1].Loc().Line)
	assert.Equal(t, "(let (f x)\n  (* x 2)) (f 2)\n", p.Source())
	assert.False(t, p.IsParsing())

	exprs, err = p.Feed("(f) (g))")
	assertCondition(t, CondUnexpectedToken, err)
	require.Len(t, exprs, 2, "forms preceding the error are returned")
	assert.False(t, p.IsParsing())

	_, err = p.Feed("(f")
	require.NoError(t, err)
	p.Reset()
	assert.False(t, p.IsParsing())

	var nilp *Interactive
	assert.False(t, nilp.IsParsing())
}

func TestInteractiveReader(t *testing.T) {
	assert.False(t, NewInteractiveReader("repl", NewReader()).parsec)
	assert.False(t, NewInteractiveReader("repl", nil).parsec)

	p := NewInteractiveReader("repl", NewParsecReader())
	require.True(t, p.parsec)
	exprs, err := p.Feed("(f\f1")
	require.NoError(t, err)
	assert.Nil(t, exprs)
	exprs, err = p.Feed("\v2) \"a")
	require.NoError(t, err)
	assert.Nil(t, exprs, "an open string continues on the next line")
	exprs, err = p.Feed("b\"")
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, "(f 1 2)", exprs[0].String())
	assert.Equal(t, 2, exprs[1].Loc().Line)

	exprs, err = p.Feed("x \xff")
	assertCondition(t, CondScanError, err)
	require.Len(t, exprs, 1)
}

func readString(source string) ([]lisp.Expr, error) {
	return New(token.NewScanner("test", strings.NewReader(source))).ParseProgram()
}

func assertCondition(t *testing.T, condition string, err error, msgAndArgs ...interface{}) {
	t.Helper()
	var serr *SyntaxError
	if assert.True(t, errors.As(err, &serr), msgAndArgs...) {
		assert.Equal(t, condition, serr.Condition(), msgAndArgs...)
	}
}

func TestParseTokenSlice(t *testing.T) {
	loc := &token.Location{File: "gen", Line: 1, Col: 1}
	toks := []*token.Token{
		{Type: token.PAREN_L, Text: "(", Source: loc},
		{Type: token.SYMBOL, Text: "f", Source: loc},
		{Type: token.PAREN_L, Text: "(", Source: loc},
		{Type: token.PAREN_R, Text: ")", Source: loc},
		{Type: token.INT, Text: "1", Source: loc},
		{Type: token.PAREN_R, Text: ")", Source: loc},
	}
	p := NewFromStream(TokenSlice(toks))
	expr, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, "(f '() 1)", expr.String())
	_, err = p.Parse()
	assert.ErrorIs(t, err, io.EOF)

	p = NewFromStream(TokenSlice(toks[:2]))
	_, err = p.Parse()
	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, CondMissingCloseParen, serr.Condition())
}
