// Copyright © 2024 The ELPS authors

package lexer

import (
	"unicode/utf8"

	parsec "github.com/prataprc/goparsec"

	"github.com/luthersystems/slisp/parser/token"
)

type parsecRule struct {
	pattern string
	typ     token.Type
}

// parsecRules are tried in order.  Float must precede int so the fraction is
// not left behind.  A quote that does not begin a complete string literal is
// an error.
var parsecRules = []parsecRule{
	{`^\(`, token.PAREN_L},
	{`^\)`, token.PAREN_R},
	{`^'`, token.QUOTE},
	{`^"(?s:[^"\\]|\\.)*"`, token.STRING},
	{`^[0-9]+\.[0-9]*`, token.FLOAT},
	{`^[0-9]+`, token.INT},
	{`^\pL[\pL0-9]*`, token.SYMBOL},
	{`^[-+*/=]`, token.SYMBOL},
	{`^"`, token.ERROR},
	{`^(?s).`, token.UNKNOWN},
}

// parsecWhitespace matches the runes accepted by unicode.IsSpace.
const parsecWhitespace = `^[\t\n\v\f\r\x{85}\pZ]+`

// ParsecLexer produces tokens from in-memory source text using goparsec's
// regular expression scanner.  ParsecLexer produces the same token sequence
// as Lexer.
type ParsecLexer struct {
	file string
	path string
	text []byte
	s    parsec.Scanner
	// byte offset of the first invalid utf-8 sequence in text, or -1.  The
	// scanner only sees the text preceding it.
	invalid int

	// location of cursor position pos
	pos  int
	line int
	col  int
}

var _ TokenStream = (*ParsecLexer)(nil)

func NewParsec(file string, text []byte) *ParsecLexer {
	invalid := invalidUTF8(text)
	valid := text
	if invalid >= 0 {
		valid = text[:invalid]
	}
	return &ParsecLexer{
		file:    file,
		text:    text,
		s:       parsec.NewScanner(valid).SetWSPattern(parsecWhitespace),
		invalid: invalid,
		line:    1,
		col:     1,
	}
}

func invalidUTF8(text []byte) int {
	for i := 0; i < len(text); {
		c, n := utf8.DecodeRune(text[i:])
		if c == utf8.RuneError && n == 1 {
			return i
		}
		i += n
	}
	return -1
}

// SetPath associates a physical location with tokens produced by lex.
func (lex *ParsecLexer) SetPath(path string) {
	lex.path = path
}

func (lex *ParsecLexer) ReadToken() *token.Token {
	lex.skipWhitespace()
	start := lex.s.GetCursor()
	if lex.s.Endof() {
		if lex.invalid >= 0 {
			return lex.emitInvalid(start)
		}
		return lex.emit(token.EOF, "", start)
	}
	for _, rule := range parsecRules {
		b, next := lex.s.Match(rule.pattern)
		if b == nil {
			continue
		}
		lex.s = next
		text := string(b)
		switch {
		case rule.typ == token.ERROR:
			_, lex.s = lex.s.Match(`^(?s).*`)
			if lex.invalid >= 0 {
				return lex.emitInvalid(start)
			}
			return lex.emit(token.ERROR, UnterminatedString, start)
		case rule.typ == token.SYMBOL && token.Keywords[text]:
			return lex.emit(token.KEYWORD, text, start)
		}
		return lex.emit(rule.typ, text, start)
	}
	return lex.emit(token.ERROR, "invalid source text", start)
}

func (lex *ParsecLexer) skipWhitespace() {
	for {
		_, lex.s = lex.s.SkipWS()
		b, next := lex.s.Match(`^;[^\n]*`)
		if b == nil {
			return
		}
		lex.s = next
	}
}

// emitInvalid reports the invalid utf-8 sequence which ends the scanned
// text.  The error is permanent.
func (lex *ParsecLexer) emitInvalid(start int) *token.Token {
	return lex.emit(token.ERROR, token.InvalidUTF8Error(lex.invalid).Error(), start)
}

func (lex *ParsecLexer) emit(typ token.Type, text string, start int) *token.Token {
	return &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.locate(start),
	}
}

// locate computes the line and column of byte offset pos.  Offsets are
// requested in increasing order so only newly consumed text is examined.
func (lex *ParsecLexer) locate(pos int) *token.Location {
	for lex.pos < pos {
		c, n := utf8.DecodeRune(lex.text[lex.pos:])
		lex.pos += n
		if c == '\n' {
			lex.line++
			lex.col = 1
		} else {
			lex.col++
		}
	}
	return &token.Location{
		File: lex.file,
		Path: lex.path,
		Pos:  pos,
		Line: lex.line,
		Col:  lex.col,
	}
}
