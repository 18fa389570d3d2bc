// Copyright © 2024 The ELPS authors

package lsp

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/lisp/lisplib"
	"github.com/luthersystems/slisp/parser/token"
)

const testURI = "file:///tmp/test.lisp"

func testServer(t *testing.T) *Server {
	t.Helper()
	env, err := lisplib.NewEnv(nil, lisp.WithStderr(io.Discard))
	require.NoError(t, err)
	return New(WithEnv(env))
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *[]*protocol.PublishDiagnosticsParams) {
	var captured []*protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				captured = append(captured, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
	return ctx, &captured
}

func openParams(text string) *protocol.DidOpenTextDocumentParams {
	return &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        testURI,
			LanguageID: "slisp",
			Version:    1,
			Text:       text,
		},
	}
}

func hoverAt(t *testing.T, s *Server, line, col int) string {
	t.Helper()
	h, err := s.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)},
		},
	})
	require.NoError(t, err)
	if h == nil {
		return ""
	}
	mc, ok := h.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Equal(t, protocol.MarkupKindMarkdown, mc.Kind)
	return mc.Value
}

func TestWordAtPosition(t *testing.T) {
	content := "(let (fact n) (* n 2))\n(fact 10)"
	tests := []struct {
		line, col int
		want      string
	}{
		{0, 6, "fact"},
		{0, 10, "fact"},
		{0, 15, "*"},
		{0, 17, "n"},
		{0, 16, "*"},
		{1, 1, "fact"},
		{1, 6, "10"},
		{1, 0, ""},
		{2, 0, ""},
		{0, 100, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wordAtPosition(content, tt.line, tt.col), "line %d col %d", tt.line, tt.col)
	}
}

func TestLocationRange(t *testing.T) {
	loc := &token.Location{File: "test.lisp", Line: 3, Col: 5}
	r := locationRange(loc, 4)
	assert.Equal(t, protocol.Position{Line: 2, Character: 4}, r.Start)
	assert.Equal(t, protocol.Position{Line: 2, Character: 8}, r.End)

	assert.Equal(t, protocol.Position{}, lspPosition(&token.Location{}))
	assert.Equal(t, protocol.Range{}, parseErrorRange(io.EOF))
	assert.Equal(t, "/tmp/test.lisp", uriToPath(testURI))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
}

func TestDocumentParse(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Open(testURI, 1, "(let a 1)\n(let (f x) x)\n(+ a")
	_, exprs, err := doc.snapshot()
	require.Error(t, err)
	assert.Len(t, exprs, 2)
	lets := doc.definitions()
	require.Len(t, lets, 2)
	assert.Equal(t, "a", lets[0].Name)
	assert.Equal(t, "f", lets[1].Name)

	doc = store.Change(testURI, 2, "(let a 1)")
	_, exprs, err = doc.snapshot()
	assert.NoError(t, err)
	assert.Len(t, exprs, 1)
	assert.Same(t, doc, store.Get(testURI))

	store.Close(testURI)
	assert.Nil(t, store.Get(testURI))
}

func TestPublishDiagnostics(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()

	require.NoError(t, s.textDocumentDidOpen(ctx, openParams("(let x 1)\n(+ x")))
	require.Len(t, *captured, 1)
	diags := (*captured)[0].Diagnostics
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "unmatched (", d.Message)
	require.NotNil(t, d.Code)
	assert.Equal(t, "missing-close-paren", d.Code.Value)
	require.NotNil(t, d.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, d.Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 1}, d.Range.End)

	require.NoError(t, s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	require.Len(t, *captured, 2)

	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	require.Len(t, *captured, 3)
	assert.Empty(t, (*captured)[2].Diagnostics)
	assert.Nil(t, s.docs.Get(testURI))
}

func TestDocumentDiagnostics(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Open(testURI, 1, "(f))")
	_, _, err := doc.snapshot()
	diags := documentDiagnostics(err)
	require.Len(t, diags, 1)
	assert.Equal(t, "unexpected-token", diags[0].Code.Value)
	assert.Equal(t, protocol.Position{Line: 0, Character: 3}, diags[0].Range.Start)

	doc = store.Open(testURI, 1, "(f)")
	_, _, err = doc.snapshot()
	assert.Empty(t, documentDiagnostics(err))
	assert.NotNil(t, documentDiagnostics(err))
}

func TestDidChangeReparses(t *testing.T) {
	s := testServer(t)
	ctx, _ := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, openParams("(let a 1)")))
	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "(let b 2)"},
		},
	}))
	doc := s.docs.Get(testURI)
	require.NotNil(t, doc)
	assert.Equal(t, int32(2), doc.Version)
	assert.Equal(t, "(let b 2)", doc.Content)
	require.NoError(t, s.shutdown(ctx))
}

func TestHover(t *testing.T) {
	s := testServer(t)
	ctx, _ := capturingContext()
	src := "(let limit 10)\n(let (twice f x) (f (f x)))\n(twice square limit)\n(= limit 1)"
	require.NoError(t, s.textDocumentDidOpen(ctx, openParams(src)))

	h := hoverAt(t, s, 2, 2)
	assert.Contains(t, h, "**function** `twice`")
	assert.Contains(t, h, "(twice f x)")
	assert.Contains(t, h, "*Defined on line 2*")

	h = hoverAt(t, s, 2, 16)
	assert.Contains(t, h, "**variable** `limit`")
	assert.Contains(t, h, "(let limit 10)")

	h = hoverAt(t, s, 2, 8)
	assert.Equal(t, "```text\nlambda (square x)\n```", h)

	h = hoverAt(t, s, 3, 1)
	assert.Contains(t, h, "builtin (= a b)")

	h = hoverAt(t, s, 0, 2)
	assert.Contains(t, h, "**special form** `let`")

	assert.Empty(t, hoverAt(t, s, 3, 11))
}

func TestFindDefinition(t *testing.T) {
	s := testServer(t)
	doc := s.docs.Open(testURI, 1, "(x)\n(let x 1)\n(let x 2)\nx")
	_, exprs, _ := doc.snapshot()
	let := findDefinition(exprs, "x", 3)
	require.NotNil(t, let)
	assert.Equal(t, 3, let.Source.Line)
	let = findDefinition(exprs, "x", 0)
	require.NotNil(t, let)
	assert.Equal(t, 2, let.Source.Line)
	assert.Nil(t, findDefinition(exprs, "y", 0))
}

func TestDocumentSymbols(t *testing.T) {
	s := testServer(t)
	ctx, _ := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, openParams("(let limit 10)\n(let (twice f x) (f (f x)))\n(twice inc limit)")))
	result, err := s.textDocumentDocumentSymbol(nil, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	require.Len(t, symbols, 2)
	assert.Equal(t, "limit", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindVariable, symbols[0].Kind)
	assert.Nil(t, symbols[0].Detail)
	assert.Equal(t, "twice", symbols[1].Name)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[1].Kind)
	require.NotNil(t, symbols[1].Detail)
	assert.Equal(t, "(f x)", *symbols[1].Detail)
	assert.Equal(t, protocol.UInteger(1), symbols[1].Range.Start.Line)

	result, err = s.textDocumentDocumentSymbol(nil, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.lisp"},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCompletion(t *testing.T) {
	s := testServer(t)
	ctx, _ := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, openParams("(let (lookup k) k)\n(l")))
	result, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 1, Character: 2},
		},
	})
	require.NoError(t, err)
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok)
	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"lambda", "let", "lookup"}, labels)
	require.NotNil(t, items[2].Detail)
	assert.Equal(t, "(k)", *items[2].Detail)

	items = s.completions(nil, "ca")
	require.Len(t, items, 1)
	assert.Equal(t, "car", items[0].Label)
	assert.Equal(t, protocol.CompletionItemKindFunction, *items[0].Kind)
}

func TestInitialize(t *testing.T) {
	s := testServer(t)
	ctx, _ := capturingContext()
	result, err := s.initialize(ctx, &protocol.InitializeParams{})
	require.NoError(t, err)
	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, init.ServerInfo)
	assert.Equal(t, serverName, init.ServerInfo.Name)
	syncOpts, ok := init.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, *syncOpts.Change)

	code := -1
	s.exitFn = func(c int) { code = c }
	require.NoError(t, s.exit(ctx))
	assert.Equal(t, 0, code)
}
