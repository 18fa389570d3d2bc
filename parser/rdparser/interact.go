// Copyright © 2024 The ELPS authors

package rdparser

import (
	"io"
	"strings"
	"sync"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser/lexer"
	"github.com/luthersystems/slisp/parser/token"
)

// Interactive implements a parser for line oriented input.  Lines are
// accumulated until they contain only complete expressions, allowing an
// expression to span multiple lines of a REPL session.
type Interactive struct {
	name       string
	parsec     bool
	prompt     string
	promptCont string
	mut        sync.RWMutex
	buf        strings.Builder
	source     string
}

// NewInteractive initializes and returns a new Interactive parser.  Tokens
// are attributed to the source name.
func NewInteractive(name string) *Interactive {
	return &Interactive{name: name}
}

// NewInteractiveReader returns an Interactive parser which tokenizes input
// with the same token source as r.  Readers not created by this package use
// the default token source.
func NewInteractiveReader(name string, r lisp.Reader) *Interactive {
	p := NewInteractive(name)
	if rd, ok := r.(*reader); ok {
		p.parsec = rd.parsec
	}
	return p
}

// SetPrompts configures the string prompts returned by p.Prompt().  The cont
// string is used to prompt the user when the parser is in the middle of
// parsing an expression at the start of a line.
func (p *Interactive) SetPrompts(prompt, cont string) {
	p.prompt = prompt
	p.promptCont = cont
}

// Prompt returns the prompt for the next line of input.
func (p *Interactive) Prompt() string {
	if p.IsParsing() {
		return p.promptCont
	}
	return p.prompt
}

// IsParsing returns true if p holds the beginning of an incomplete
// expression.  IsParsing can be called at any time, potentially by concurrent
// goroutines or when p is nil.
func (p *Interactive) IsParsing() bool {
	if p == nil {
		return false
	}
	p.mut.RLock()
	defer p.mut.RUnlock()
	return p.buf.Len() > 0
}

// Feed appends line to the pending input and parses it.  When the pending
// input ends inside an expression Feed returns no expressions and no error,
// and the input is retained for the next call.  Otherwise the pending input
// is cleared and its expressions are returned.  If the input contains a
// syntax error the expressions preceding it are returned with the error.
func (p *Interactive) Feed(line string) ([]lisp.Expr, error) {
	p.mut.Lock()
	defer p.mut.Unlock()
	p.buf.WriteString(line)
	p.buf.WriteString("\n")
	text := p.buf.String()
	var parser *Parser
	if p.parsec {
		parser = NewFromStream(lexer.NewParsec(p.name, []byte(text)))
	} else {
		parser = New(token.NewScanner(p.name, strings.NewReader(text)))
	}
	var exprs []lisp.Expr
	for {
		expr, err := parser.Parse()
		if err == io.EOF {
			break
		}
		if IsIncomplete(err) {
			return nil, nil
		}
		if err != nil {
			p.buf.Reset()
			p.source = text
			return exprs, err
		}
		exprs = append(exprs, expr)
	}
	p.buf.Reset()
	p.source = text
	return exprs, nil
}

// Reset discards any pending input.
func (p *Interactive) Reset() {
	p.mut.Lock()
	defer p.mut.Unlock()
	p.buf.Reset()
}

// Source returns the text of the input most recently parsed by Feed.
// Locations attached to the returned expressions and errors refer to this
// text.
func (p *Interactive) Source() string {
	p.mut.RLock()
	defer p.mut.RUnlock()
	return p.source
}
