// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser/token"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, exprs, _ := doc.snapshot()
	prefix := wordAtPosition(content, int(params.Position.Line), int(params.Position.Character))
	return s.completions(exprs, prefix), nil
}

// completions returns the keywords, document definitions, and global
// bindings that begin with prefix, sorted by label.
func (s *Server) completions(exprs []lisp.Expr, prefix string) []protocol.CompletionItem {
	seen := make(map[string]bool)
	items := []protocol.CompletionItem{}
	add := func(label string, kind protocol.CompletionItemKind, detail string) {
		if seen[label] || !strings.HasPrefix(label, prefix) {
			return
		}
		seen[label] = true
		item := protocol.CompletionItem{Label: label, Kind: &kind}
		if detail != "" {
			item.Detail = strPtr(detail)
		}
		items = append(items, item)
	}

	for kw := range token.Keywords {
		add(kw, protocol.CompletionItemKindKeyword, "special form")
	}
	for _, expr := range exprs {
		let, ok := expr.(*lisp.LetExpr)
		if !ok {
			continue
		}
		if lam, ok := let.Value.(*lisp.LambdaExpr); ok {
			add(let.Name, protocol.CompletionItemKindFunction, "("+strings.Join(lam.Params, " ")+")")
		} else {
			add(let.Name, protocol.CompletionItemKindVariable, "")
		}
	}
	if s.env != nil {
		for _, name := range s.env.Names() {
			v := s.env.Lookup(name)
			if v.Type == lisp.LFun {
				add(name, protocol.CompletionItemKindFunction, "("+strings.Join(v.Fun.Formals, " ")+")")
			} else {
				add(name, protocol.CompletionItemKindVariable, v.Type.String())
			}
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}
