// Copyright © 2024 The ELPS authors

package lsp

import (
	"io"
	"strings"
	"sync"

	"github.com/luthersystems/slisp/lisp"
	"github.com/luthersystems/slisp/parser/rdparser"
	"github.com/luthersystems/slisp/parser/token"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu       sync.Mutex
	URI      string
	Version  int32
	Content  string
	exprs    []lisp.Expr
	parseErr error
}

// parse parses the document content.  Parsing stops at the first syntax
// error; the expressions preceding it are kept so that symbols and hover
// keep working while the user is typing.
func (d *Document) parse() {
	scanner := token.NewScanner(uriToPath(d.URI), strings.NewReader(d.Content))
	p := rdparser.New(scanner)
	d.exprs = nil
	d.parseErr = nil
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			return
		}
		if err != nil {
			d.parseErr = err
			return
		}
		d.exprs = append(d.exprs, expr)
	}
}

// definitions returns the top-level let expressions of the document in
// source order.
func (d *Document) definitions() []*lisp.LetExpr {
	var lets []*lisp.LetExpr
	for _, expr := range d.exprs {
		if let, ok := expr.(*lisp.LetExpr); ok {
			lets = append(lets, let)
		}
	}
	return lets
}

// snapshot returns the document content and parse results under the lock.
func (d *Document) snapshot() (content string, exprs []lisp.Expr, parseErr error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Content, d.exprs, d.parseErr
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}
