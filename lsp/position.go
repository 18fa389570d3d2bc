// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luthersystems/slisp/parser/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// operatorChars are single character symbols.  They never combine with
// adjacent characters.
const operatorChars = "+-*/="

// lspPosition converts a 1-based source location to a 0-based LSP position.
func lspPosition(loc *token.Location) protocol.Position {
	line := loc.Line
	col := loc.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(col),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// locationRange returns the single-line range of width characters starting
// at loc.
func locationRange(loc *token.Location, width int) protocol.Range {
	start := lspPosition(loc)
	end := protocol.Position{
		Line:      start.Line,
		Character: start.Character + safeUint(width),
	}
	return protocol.Range{Start: start, End: end}
}

// wordAtPosition extracts the symbol at the given 0-based LSP position from
// the document content. The cursor can be inside or at the end of a word; in
// both cases the full word is returned.
func wordAtPosition(content string, line, col int) string {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	ln := lines[line]
	if col < 0 || col > len(ln) {
		return ""
	}
	if col < len(ln) && strings.IndexByte(operatorChars, ln[col]) >= 0 {
		return ln[col : col+1]
	}
	start := col
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(ln[:start])
		if !isWord(r) {
			break
		}
		start -= size
	}
	end := col
	for end < len(ln) {
		r, size := utf8.DecodeRuneInString(ln[end:])
		if !isWord(r) {
			break
		}
		end += size
	}
	if start == end && col > 0 && strings.IndexByte(operatorChars, ln[col-1]) >= 0 {
		return ln[col-1 : col]
	}
	return ln[start:end]
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || ('0' <= r && r <= '9')
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}
