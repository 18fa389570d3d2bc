// Copyright © 2024 The ELPS authors

package lsp

import (
	"errors"
	"time"

	"github.com/luthersystems/slisp/parser/rdparser"
	"github.com/luthersystems/slisp/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const debounceDelay = 300 * time.Millisecond

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.publish(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		if d := s.docs.Get(doc.URI); d != nil {
			s.publish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.publish(doc)
	}
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)
	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// publish sends the document's syntax diagnostics to the client.
func (s *Server) publish(doc *Document) {
	_, _, parseErr := doc.snapshot()
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: documentDiagnostics(parseErr),
	})
}

// documentDiagnostics converts a parse error into LSP diagnostics.
func documentDiagnostics(parseErr error) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	if parseErr == nil {
		return diags
	}
	d := protocol.Diagnostic{
		Range:    parseErrorRange(parseErr),
		Severity: severity(protocol.DiagnosticSeverityError),
		Source:   strPtr("slisp"),
		Message:  parseErr.Error(),
	}
	var serr *rdparser.SyntaxError
	if errors.As(parseErr, &serr) {
		d.Code = &protocol.IntegerOrString{Value: serr.Condition()}
		d.Message = serr.Msg
	}
	return append(diags, d)
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

// parseErrorRange extracts source position from a parse error.  The range
// covers the offending token when the error has one.
func parseErrorRange(err error) protocol.Range {
	var serr *rdparser.SyntaxError
	if errors.As(err, &serr) && serr.Source != nil && serr.Source.Line > 0 {
		width := 1
		if serr.Token != nil && serr.Token.Type != token.EOF && len(serr.Token.Text) > 0 {
			width = len(serr.Token.Text)
		}
		return locationRange(serr.Source, width)
	}
	var locErr *token.LocationError
	if errors.As(err, &locErr) && locErr.Source != nil && locErr.Source.Line > 0 {
		return locationRange(locErr.Source, 1)
	}
	return protocol.Range{}
}
