// Copyright © 2024 The ELPS authors

package rdparser

import (
	"errors"
	"fmt"

	"github.com/luthersystems/slisp/parser/token"
)

// Syntax error conditions.
const (
	CondUnexpectedEOF      = "unexpected-eof"
	CondMissingOpenParen   = "missing-open-paren"
	CondMissingCloseParen  = "missing-close-paren"
	CondMissingQuote       = "missing-quote" // closing " of a string literal
	CondBadOperator        = "bad-operator"
	CondMalformedLet       = "malformed-let"
	CondMalformedLambda    = "malformed-lambda"
	CondBadArgumentName    = "bad-argument-name"
	CondUnrecognizedLexeme = "unrecognized-lexeme"
	CondUnexpectedToken    = "unexpected-token"
	CondScanError          = "scan-error"
	CondInvalidLiteral     = "invalid-literal"
)

// SyntaxError is returned when source text cannot be parsed.
type SyntaxError struct {
	Cond   string
	Msg    string
	Source *token.Location
	// Token is the offending token, when there is one.
	Token *token.Token
}

func (e *SyntaxError) Error() string {
	if e.Source != nil {
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Cond, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Cond, e.Msg)
}

// Condition returns the error condition name (e.g., "missing-close-paren").
func (e *SyntaxError) Condition() string {
	return e.Cond
}

// IsIncomplete returns true if err is a SyntaxError caused by input ending
// in the middle of an expression.  Appending more text to the input may
// resolve such an error.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Cond {
	case CondMissingCloseParen, CondUnexpectedEOF, CondMissingQuote:
		return true
	}
	return false
}
