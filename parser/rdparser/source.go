// Copyright © 2024 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/slisp/parser/lexer"
	"github.com/luthersystems/slisp/parser/token"
)

// TokenGenerator implements lexer.TokenStream.  The function will be called
// any time a TokenSource wants a token.
type TokenGenerator func() *token.Token

// ReadToken implements lexer.TokenStream.
func (fn TokenGenerator) ReadToken() *token.Token {
	return fn()
}

// TokenSlice returns a TokenStream that produces toks followed by EOF.
func TokenSlice(toks []*token.Token) lexer.TokenStream {
	pos := &token.Location{}
	return TokenGenerator(func() *token.Token {
		if len(toks) == 0 {
			return &token.Token{Type: token.EOF, Source: pos}
		}
		tok := toks[0]
		toks = toks[1:]
		if tok.Source != nil {
			pos = tok.Source
		}
		return tok
	})
}

// TokenSource abstracts a TokenStream by adding one token of lookahead.
type TokenSource struct {
	lex   lexer.TokenStream
	Token *token.Token
	peek  *token.Token
}

func NewTokenStreamSource(stream lexer.TokenStream) *TokenSource {
	return &TokenSource{
		lex: stream,
	}
}

// NewTokenSource initializes and returns a new TokenSource that scans tokens
// from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return NewTokenStreamSource(lexer.New(scanner))
}

func (s *TokenSource) Peek() *token.Token {
	if s.peek == nil {
		s.peek = s.lex.ReadToken()
	}
	return s.peek
}

func (s *TokenSource) AcceptType(typ ...token.Type) bool {
	for _, typ := range typ {
		if s.Peek().Type == typ {
			s.scan()
			return true
		}
	}
	return false
}

// Scan advances to the next token.  At EOF Scan sets Token to the EOF token
// and returns false.
func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.scan()
	return true
}

func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}

func (s *TokenSource) scan() {
	s.Token = s.Peek()
	s.peek = nil
}
