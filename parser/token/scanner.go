// Copyright © 2024 The ELPS authors

package token

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a rune stream (io.Reader).
// Scanner tracks the line and column of every rune it accepts so emitted
// tokens carry a complete Location.
type Scanner struct {
	file string
	path string
	r    *bufio.Reader
	err  error // sticky read error, including io.EOF

	text   strings.Builder
	c      rune
	peek   rune
	peekN  int
	peeked bool

	// position of the next unscanned rune
	pos  int
	line int
	col  int

	// position of the first rune in the current token
	startPos  int
	startLine int
	startCol  int
}

// NewScanner initializes and returns a new Scanner.
func NewScanner(file string, r io.Reader) *Scanner {
	return &Scanner{
		file:      file,
		r:         bufio.NewReader(r),
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// SetPath associates a physical location (e.g. filesystem path) with s to aid
// in debugging programs which load many files.
func (s *Scanner) SetPath(path string) {
	s.path = path
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.text.Reset()
	s.startPos = s.pos
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.text.String()
}

// Rune returns the last rune accepted by the scanner.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune to be scanned, if there are any.  If an invalid
// utf-8 sequence or EOF prevents further runes from being scanned Peek returns
// a false second value and the cause is available from Err and EOF.
func (s *Scanner) Peek() (rune, bool) {
	if s.peeked {
		return s.peek, true
	}
	if s.err != nil {
		return 0, false
	}
	c, n, err := s.r.ReadRune()
	if err != nil {
		s.err = err
		return 0, false
	}
	if c == utf8.RuneError && n == 1 {
		s.err = InvalidUTF8Error(s.pos)
		return 0, false
	}
	s.peek, s.peekN, s.peeked = c, n, true
	return c, true
}

// ScanRune attempts to scan a utf-8 rune from the input for inclusion in the
// current token.  If an error prevents a valid unicode rune from being scanned
// then an error will be returned.  At the end of input ScanRune returns
// io.EOF.
func (s *Scanner) ScanRune() error {
	c, ok := s.Peek()
	if !ok {
		return s.err
	}
	s.peeked = false
	s.c = c
	s.text.WriteRune(c)
	s.pos += s.peekN
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// Err returns a non-EOF error encountered while reading the input stream.
func (s *Scanner) Err() error {
	if s.peeked || s.err == io.EOF {
		return nil
	}
	return s.err
}

// EOF returns true when all input has been scanned.
func (s *Scanner) EOF() bool {
	_, ok := s.Peek()
	return !ok && s.err == io.EOF
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune() == nil
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(peek rune) bool { return peek == c })
}

func (s *Scanner) AcceptDigit() bool {
	return s.Accept(isDigit)
}

func (s *Scanner) AcceptSpace() bool {
	return s.Accept(unicode.IsSpace)
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(peek rune) bool { return strings.ContainsRune(charset, peek) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqDigit() int {
	return s.AcceptSeq(isDigit)
}

func (s *Scanner) AcceptSeqSpace() int {
	return s.AcceptSeq(unicode.IsSpace)
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.startPos,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the next unscanned rune.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}

// InvalidUTF8Error returns the error reported for source text which is not
// valid utf-8 at byte offset pos.
func InvalidUTF8Error(pos int) error {
	return fmt.Errorf("invalid utf-8 sequence in source text at byte %d", pos)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
