// Copyright © 2024 The ELPS authors

package lsp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/lisplib/libhelp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var keywordDocs = map[string]string{
	"let": "(let name value) binds name to value for the expressions that follow.\n\n" +
		"(let (name params...) body) binds name to a function which may call itself.",
	"lambda": "(lambda (params...) body) creates a function closing over the current environment.",
}

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content, exprs, _ := doc.snapshot()

	line := int(params.Position.Line)
	word := wordAtPosition(content, line, int(params.Position.Character))
	if word == "" {
		return nil, nil
	}
	text := s.hoverContent(exprs, word, line)
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}, nil
}

// hoverContent builds Markdown hover text for name.  Definitions in the
// document take precedence over keywords and global bindings.
func (s *Server) hoverContent(exprs []lisp.Expr, name string, line int) string {
	if let := findDefinition(exprs, name, line); let != nil {
		return definitionHover(let)
	}
	if doc, ok := keywordDocs[name]; ok {
		return fmt.Sprintf("**special form** `%s`\n\n%s", name, doc)
	}
	if s.env == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := libhelp.RenderVar(&buf, s.env, name); err != nil {
		return ""
	}
	return "```text\n" + strings.TrimSuffix(buf.String(), "\n") + "\n```"
}

// findDefinition returns the top-level let binding name which is in effect
// at the given 0-based line.  Bindings are only visible to the expressions
// that follow them, so when no binding precedes line the first later one is
// returned.
func findDefinition(exprs []lisp.Expr, name string, line int) *lisp.LetExpr {
	var before, after *lisp.LetExpr
	for _, expr := range exprs {
		let, ok := expr.(*lisp.LetExpr)
		if !ok || let.Name != name {
			continue
		}
		if let.Source != nil && let.Source.Line-1 <= line {
			before = let
		} else if after == nil {
			after = let
		}
	}
	if before != nil {
		return before
	}
	return after
}

func definitionHover(let *lisp.LetExpr) string {
	var sb strings.Builder
	if lam, ok := let.Value.(*lisp.LambdaExpr); ok {
		sig := append([]string{let.Name}, lam.Params...)
		fmt.Fprintf(&sb, "**function** `%s`\n\n```lisp\n(%s)\n```", let.Name, strings.Join(sig, " "))
	} else {
		fmt.Fprintf(&sb, "**variable** `%s`\n\n```lisp\n%s\n```", let.Name, let.String())
	}
	if let.Source != nil && let.Source.Line > 0 {
		fmt.Fprintf(&sb, "\n\n*Defined on line %d*", let.Source.Line)
	}
	return sb.String()
}
