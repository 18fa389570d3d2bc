// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/slisp/lisp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol reports each top-level let binding.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	lets := doc.definitions()
	doc.mu.Unlock()

	symbols := []protocol.DocumentSymbol{}
	for _, let := range lets {
		if let.Source == nil || let.Source.Line == 0 {
			continue
		}
		r := locationRange(let.Source, len(let.Name))
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           let.Name,
			Detail:         symbolDetail(let),
			Kind:           symbolKind(let),
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}

func symbolKind(let *lisp.LetExpr) protocol.SymbolKind {
	if _, ok := let.Value.(*lisp.LambdaExpr); ok {
		return protocol.SymbolKindFunction
	}
	return protocol.SymbolKindVariable
}

// symbolDetail returns the parameter list of a function binding.
func symbolDetail(let *lisp.LetExpr) *string {
	lam, ok := let.Value.(*lisp.LambdaExpr)
	if !ok {
		return nil
	}
	return strPtr("(" + strings.Join(lam.Params, " ") + ")")
}
