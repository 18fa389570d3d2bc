// Copyright © 2024 The ELPS authors

// Package diagnostic renders parse and evaluation errors as annotated source
// snippets for CLI output.
package diagnostic

import (
	"errors"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser/rdparser"
	"github.com/luthersystems/slisp/parser/token"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // name used to look up source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	// Condition is the error condition, rendered next to the severity.
	Condition string
	Message   string
	Spans     []Span
	Notes     []string // "= note:" lines (stack trace frames, etc.)
}

// FromError converts a parse or evaluation error into a Diagnostic.  Errors
// of other types produce a Diagnostic with only a message.
func FromError(err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Message: err.Error()}

	var serr *rdparser.SyntaxError
	if errors.As(err, &serr) {
		d.Condition = serr.Condition()
		d.Message = serr.Msg
		if span, ok := locationSpan(serr.Source); ok {
			d.Spans = append(d.Spans, span)
		}
		return d
	}

	var lerr *lisp.ErrorVal
	if !errors.As(err, &lerr) {
		var locErr *token.LocationError
		if errors.As(err, &locErr) {
			d.Message = locErr.Err.Error()
			if span, ok := locationSpan(locErr.Source); ok {
				d.Spans = append(d.Spans, span)
			}
		}
		return d
	}
	d.Condition = lerr.Condition()
	d.Message = lerr.ErrorMessage()
	if span, ok := locationSpan(lerr.Source); ok {
		d.Spans = append(d.Spans, span)
	}
	if lerr.Stack != nil {
		for i := len(lerr.Stack.Frames) - 1; i >= 0; i-- {
			frame := &lerr.Stack.Frames[i]
			name := frame.Name
			if name == "" {
				name = "lambda"
			}
			loc := "unknown"
			if frame.Source != nil {
				loc = frame.Source.String()
			}
			d.Notes = append(d.Notes, "in "+name+" at "+loc)
		}
	}
	return d
}

func locationSpan(loc *token.Location) (Span, bool) {
	if loc == nil || loc.Pos < 0 {
		return Span{}, false
	}
	span := Span{
		File: loc.File,
		Line: loc.Line,
		Col:  loc.Col,
	}
	// Prefer physical path for reading source
	if loc.Path != "" {
		span.File = loc.Path
	}
	return span, true
}
