// Copyright © 2024 The ELPS authors

package rdparser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser/lexer"
	"github.com/luthersystems/slisp/parser/token"
)

type reader struct {
	parsec bool
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// NewParsecReader returns a lisp.Reader which tokenizes source text with a
// lexer.ParsecLexer.  The entire input stream is read before parsing begins.
func NewParsecReader() lisp.Reader {
	return &reader{parsec: true}
}

// Read implements lisp.Reader.
func (r *reader) Read(name string, stream io.Reader) ([]lisp.Expr, error) {
	return r.ReadLocation(name, "", stream)
}

// ReadLocation implements lisp.LocationReader.
func (r *reader) ReadLocation(name string, loc string, stream io.Reader) ([]lisp.Expr, error) {
	if r.parsec {
		text, err := io.ReadAll(stream)
		if err != nil {
			return nil, err
		}
		lex := lexer.NewParsec(name, text)
		lex.SetPath(loc)
		return NewFromStream(lex).ParseProgram()
	}
	s := token.NewScanner(name, stream)
	s.SetPath(loc)
	return New(s).ParseProgram()
}

// Form is the result of ParseForm.  A Form holds either an expression or a
// structural token which does not begin an expression (a closing
// parenthesis, a keyword, an unrecognized lexeme, or EOF).
type Form struct {
	Expr  lisp.Expr
	Token *token.Token
}

// Parser is a recursive descent parser with a single token of lookahead.
type Parser struct {
	src *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// NewFromStream initializes and returns a Parser that reads tokens from
// stream.
func NewFromStream(stream lexer.TokenStream) *Parser {
	return NewFromSource(NewTokenStreamSource(stream))
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse parses the next top-level expression.  Parse returns io.EOF when the
// input is exhausted.
func (p *Parser) Parse() (lisp.Expr, error) {
	form, err := p.ParseForm(false)
	if err != nil {
		return nil, err
	}
	if form.Token == nil {
		return form.Expr, nil
	}
	if form.Token.Type == token.EOF {
		return nil, io.EOF
	}
	return nil, p.unexpected(form.Token)
}

// ParseProgram parses all expressions remaining in the input.
func (p *Parser) ParseProgram() ([]lisp.Expr, error) {
	var exprs []lisp.Expr
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			return exprs, nil
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

// ParseForm parses one expression.  When skipQuote is true the parser is
// inside a quoted list and a parenthesized form is a nested list rather than
// a procedure call.  Tokens which cannot begin an expression are consumed and
// returned in Form.Token for the caller to interpret.
func (p *Parser) ParseForm(skipQuote bool) (Form, error) {
	tok := p.ReadToken()
	switch tok.Type {
	case token.INT:
		x, err := strconv.ParseInt(tok.Text, 10, 32)
		if err != nil {
			return Form{}, p.errorf(tok, CondInvalidLiteral, "integer literal overflows int32: %s", tok.Text)
		}
		return exprForm(&lisp.IntLiteral{Source: tok.Source, Value: int32(x)}), nil
	case token.FLOAT:
		x, err := strconv.ParseFloat(tok.Text, 32)
		if err != nil {
			return Form{}, p.errorf(tok, CondInvalidLiteral, "invalid floating point literal: %s", tok.Text)
		}
		return exprForm(&lisp.FloatLiteral{Source: tok.Source, Value: float32(x)}), nil
	case token.STRING:
		return exprForm(&lisp.StringLiteral{Source: tok.Source, Value: unquote(tok.Text)}), nil
	case token.SYMBOL:
		return exprForm(&lisp.LookupExpr{Source: tok.Source, Name: tok.Text}), nil
	case token.QUOTE:
		return p.parseQuote(tok)
	case token.PAREN_L:
		if skipQuote {
			return p.parseList(tok, tok)
		}
		return p.parseParens(tok)
	case token.ERROR, token.INVALID:
		if tok.Text == lexer.UnterminatedString {
			return Form{}, p.errorf(tok, CondMissingQuote, "%s", tok.Text)
		}
		return Form{}, p.errorf(tok, CondScanError, "%s", tok.Text)
	default:
		return Form{Token: tok}, nil
	}
}

func exprForm(expr lisp.Expr) Form {
	return Form{Expr: expr}
}

func (p *Parser) parseQuote(quote *token.Token) (Form, error) {
	open := p.ReadToken()
	switch open.Type {
	case token.PAREN_L:
		return p.parseList(quote, open)
	case token.EOF:
		return Form{}, p.errorf(open, CondUnexpectedEOF, "unexpected EOF following quote")
	case token.ERROR, token.INVALID:
		return Form{}, p.errorf(open, CondScanError, "%s", open.Text)
	}
	return Form{}, p.errorf(open, CondMissingOpenParen, "expected ( following quote but found %v", open)
}

// parseList parses the elements of a quoted list following the open
// parenthesis.
func (p *Parser) parseList(start, open *token.Token) (Form, error) {
	list := &lisp.ListExpr{Source: start.Source}
	for {
		form, err := p.ParseForm(true)
		if err != nil {
			return Form{}, err
		}
		if form.Token == nil {
			list.Elements = append(list.Elements, form.Expr)
			continue
		}
		if form.Token.Type == token.PAREN_R {
			return exprForm(list), nil
		}
		return Form{}, p.unterminated(open, form.Token)
	}
}

// parseParens parses a procedure call or special form following the open
// parenthesis.
func (p *Parser) parseParens(open *token.Token) (Form, error) {
	if p.src.AcceptType(token.PAREN_R) {
		return exprForm(&lisp.ListExpr{Source: open.Source}), nil
	}
	if p.src.Peek().Type == token.KEYWORD {
		kw := p.ReadToken()
		switch kw.Text {
		case "let":
			return p.parseLet(open)
		case "lambda":
			return p.parseLambda(open)
		}
		return Form{}, p.errorf(kw, CondUnexpectedToken, "unknown keyword: %s", kw.Text)
	}
	form, err := p.ParseForm(false)
	if err != nil {
		return Form{}, err
	}
	if form.Token != nil {
		if form.Token.Type == token.UNKNOWN {
			return Form{}, p.errorf(form.Token, CondBadOperator, "invalid operator: %q", form.Token.Text)
		}
		return Form{}, p.unterminated(open, form.Token)
	}
	rands, err := p.parseOperands(open)
	if err != nil {
		return Form{}, err
	}
	return exprForm(&lisp.SExpr{Source: open.Source, Operator: form.Expr, Operands: rands}), nil
}

// parseOperands parses expressions up to and including the closing
// parenthesis matching open.
func (p *Parser) parseOperands(open *token.Token) ([]lisp.Expr, error) {
	var rands []lisp.Expr
	for {
		form, err := p.ParseForm(false)
		if err != nil {
			return nil, err
		}
		if form.Token == nil {
			rands = append(rands, form.Expr)
			continue
		}
		if form.Token.Type == token.PAREN_R {
			return rands, nil
		}
		return nil, p.unterminated(open, form.Token)
	}
}

// parseLet parses the operands of a let form.  The sugared form
// (let (name param...) body) binds name to a lambda which can call itself by
// name.
func (p *Parser) parseLet(open *token.Token) (Form, error) {
	rands, err := p.parseOperands(open)
	if err != nil {
		return Form{}, err
	}
	if len(rands) != 2 {
		return Form{}, p.errorAt(open.Source, CondMalformedLet, "let expects a name and a value (got %d operands)", len(rands))
	}
	switch target := rands[0].(type) {
	case *lisp.LookupExpr:
		return exprForm(&lisp.LetExpr{Source: open.Source, Name: target.Name, Value: rands[1]}), nil
	case *lisp.SExpr:
		name, ok := target.Operator.(*lisp.LookupExpr)
		if !ok {
			return Form{}, p.errorAt(target.Source, CondMalformedLet, "let function name must be a symbol: %v", target.Operator)
		}
		params, err := p.paramNames(target.Operands)
		if err != nil {
			return Form{}, err
		}
		lambda := &lisp.LambdaExpr{
			Source:   target.Source,
			Params:   params,
			Body:     rands[1],
			SelfName: name.Name,
		}
		return exprForm(&lisp.LetExpr{Source: open.Source, Name: name.Name, Value: lambda}), nil
	}
	return Form{}, p.errorAt(rands[0].Loc(), CondMalformedLet, "let cannot bind %v", rands[0])
}

// parseLambda parses the operands of a lambda form.  The parameter list must
// be parenthesized, unquoted, and may be empty.
func (p *Parser) parseLambda(open *token.Token) (Form, error) {
	// the parsed operands do not record whether an empty list was quoted
	quoted := p.src.Peek().Type == token.QUOTE
	rands, err := p.parseOperands(open)
	if err != nil {
		return Form{}, err
	}
	if len(rands) != 2 {
		return Form{}, p.errorAt(open.Source, CondMalformedLambda, "lambda expects a parameter list and a body (got %d operands)", len(rands))
	}
	var params []string
	switch formals := rands[0].(type) {
	case *lisp.SExpr:
		params, err = p.paramNames(append([]lisp.Expr{formals.Operator}, formals.Operands...))
		if err != nil {
			return Form{}, err
		}
	case *lisp.ListExpr:
		if quoted {
			return Form{}, p.errorAt(formals.Source, CondMalformedLambda, "lambda parameter list must not be quoted")
		}
	default:
		return Form{}, p.errorAt(rands[0].Loc(), CondMalformedLambda, "lambda parameters must be a list: %v", rands[0])
	}
	return exprForm(&lisp.LambdaExpr{Source: open.Source, Params: params, Body: rands[1]}), nil
}

func (p *Parser) paramNames(exprs []lisp.Expr) ([]string, error) {
	params := make([]string, len(exprs))
	for i, expr := range exprs {
		name, ok := expr.(*lisp.LookupExpr)
		if !ok {
			return nil, p.errorAt(expr.Loc(), CondBadArgumentName, "parameter must be a symbol: %v", expr)
		}
		params[i] = name.Name
	}
	return params, nil
}

// unterminated reports tok, found while parsing the form beginning with open.
func (p *Parser) unterminated(open, tok *token.Token) error {
	if tok.Type == token.EOF {
		return p.errorf(open, CondMissingCloseParen, "unmatched %s", open.Text)
	}
	return p.unexpected(tok)
}

func (p *Parser) unexpected(tok *token.Token) error {
	switch tok.Type {
	case token.UNKNOWN:
		return p.errorf(tok, CondUnrecognizedLexeme, "unrecognized text: %q", tok.Text)
	case token.PAREN_R:
		return p.errorf(tok, CondUnexpectedToken, "unmatched %s", tok.Text)
	case token.KEYWORD:
		return p.errorf(tok, CondUnexpectedToken, "%s must begin a parenthesized form", tok.Text)
	}
	return p.errorf(tok, CondUnexpectedToken, "unexpected token: %v", tok)
}

// ReadToken advances the parser and returns the token it consumed.
func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) errorf(tok *token.Token, condition string, format string, v ...interface{}) error {
	return &SyntaxError{
		Cond:   condition,
		Msg:    fmt.Sprintf(format, v...),
		Source: tok.Source,
		Token:  tok,
	}
}

func (p *Parser) errorAt(loc *token.Location, condition string, format string, v ...interface{}) error {
	return &SyntaxError{
		Cond:   condition,
		Msg:    fmt.Sprintf(format, v...),
		Source: loc,
	}
}

// unquote removes the delimiting quotes from a string token.  A backslash
// makes the following character literal.
func unquote(text string) string {
	text = strings.TrimPrefix(text, `"`)
	text = strings.TrimSuffix(text, `"`)
	if !strings.ContainsRune(text, '\\') {
		return text
	}
	var buf bytes.Buffer
	escaped := false
	for _, c := range text {
		if c == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		buf.WriteRune(c)
	}
	return buf.String()
}
