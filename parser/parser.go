// Copyright © 2024 The ELPS authors

package parser

import (
	"fmt"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser/rdparser"
)

// Reader names accepted by ReaderByName.
const (
	ReaderDefault = "rd"
	ReaderParsec  = "parsec"
)

// NewReader returns a new lisp.Reader
func NewReader() lisp.Reader {
	return rdparser.NewReader()
}

// ReaderByName returns the lisp.Reader identified by name.  An empty name
// selects the default reader.
func ReaderByName(name string) (lisp.Reader, error) {
	switch name {
	case "", ReaderDefault:
		return rdparser.NewReader(), nil
	case ReaderParsec:
		return rdparser.NewParsecReader(), nil
	}
	return nil, fmt.Errorf("unknown reader: %q", name)
}
