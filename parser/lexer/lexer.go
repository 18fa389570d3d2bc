// Copyright © 2024 The ELPS authors

package lexer

import (
	"strings"
	"unicode"

	"github.com/luthersystems/slisp/parser/token"
)

// TokenStream is a lazy source of tokens.  Once a stream has produced an EOF
// token every subsequent call must produce EOF as well.
type TokenStream interface {
	ReadToken() *token.Token
}

// UnterminatedString is the text of the ERROR token produced when input
// ends inside a string literal.
const UnterminatedString = "unterminated string literal"

// operatorChars are single character identifiers.  They never combine with
// adjacent characters.
const operatorChars = "+-*/="

// Lexer produces tokens from a token.Scanner.
type Lexer struct {
	scanner *token.Scanner
}

var _ TokenStream = (*Lexer)(nil)

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

func (lex *Lexer) ReadToken() *token.Token {
	lex.skipWhitespace()
	if !lex.scanner.Accept(anyRune) {
		if lex.scanner.EOF() {
			return lex.emit(token.EOF, "")
		}
		if err := lex.scanner.Err(); err != nil {
			return lex.emitError(err)
		}
	}
	c := lex.scanner.Rune()
	switch {
	case c == '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case c == ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case c == '\'':
		return lex.scanner.EmitToken(token.QUOTE)
	case c == '"':
		return lex.readString()
	case isDigit(c):
		return lex.readNumber()
	case unicode.IsLetter(c):
		return lex.readIdentifier()
	case strings.ContainsRune(operatorChars, c):
		return lex.scanner.EmitToken(token.SYMBOL)
	default:
		return lex.scanner.EmitToken(token.UNKNOWN)
	}
}

func (lex *Lexer) readString() *token.Token {
	for {
		switch {
		case lex.scanner.AcceptRune('"'):
			return lex.scanner.EmitToken(token.STRING)
		case lex.scanner.AcceptRune('\\'):
			// the escaped character is taken literally
			if !lex.scanner.Accept(anyRune) {
				return lex.unterminatedString()
			}
		case !lex.scanner.Accept(anyRune):
			return lex.unterminatedString()
		}
	}
}

func (lex *Lexer) unterminatedString() *token.Token {
	if err := lex.scanner.Err(); err != nil {
		return lex.emitError(err)
	}
	return lex.emit(token.ERROR, UnterminatedString)
}

func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeqDigit() // the first digit already scanned
	if lex.scanner.AcceptRune('.') {
		lex.scanner.AcceptSeqDigit()
		return lex.scanner.EmitToken(token.FLOAT)
	}
	// the text may not be a usable int32 (overflow), which is detected at
	// parse time
	return lex.scanner.EmitToken(token.INT)
}

func (lex *Lexer) readIdentifier() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	if token.Keywords[lex.scanner.Text()] {
		return lex.scanner.EmitToken(token.KEYWORD)
	}
	return lex.scanner.EmitToken(token.SYMBOL)
}

// skipWhitespace discards whitespace and line comments.
func (lex *Lexer) skipWhitespace() {
	for {
		n := lex.scanner.AcceptSeqSpace()
		if lex.scanner.AcceptRune(';') {
			lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
			continue
		}
		if n == 0 {
			break
		}
	}
	lex.scanner.Ignore()
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error) *token.Token {
	return lex.emit(token.ERROR, err.Error())
}

func anyRune(rune) bool {
	return true
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
