// Package source provides the immutable UTF-8 source buffer shared by
// every downstream compilation stage: the lexer, parser, type checker
// and IR emitter all resolve spans against the same Source value.
package source

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Source is an immutable UTF-8 buffer with a path label and a
// precomputed line-start index. Its lifetime exceeds every artifact
// derived from it (tokens, AST nodes, diagnostics all hold a Source
// pointer rather than copying text).
type Source struct {
	path       string // Path label, for diagnostics. May be synthetic (e.g. "<string>").
	text       string // Full UTF-8 source text.
	lineStarts []int  // Byte offset of the first byte of each line. lineStarts[0] == 0.
}

// Span is a half-open [Start, End) byte range into exactly one Source,
// plus resolved line/column pairs at each end so diagnostics never have
// to re-walk the line index.
type Span struct {
	Start, End         int // Half-open byte range. Invariant: Start <= End.
	StartLine, StartCol int
	EndLine, EndCol     int
}

// ---------------------
// ----- functions -----
// ---------------------

// New constructs a Source from raw UTF-8 bytes and a path label. It
// precomputes line starts so later line/column resolution is O(log n).
func New(path string, text string) *Source {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Source{path: path, text: text, lineStarts: starts}
}

// Path returns the Source's path label.
func (s *Source) Path() string { return s.path }

// Text returns the full source text.
func (s *Source) Text() string { return s.text }

// Len returns the number of bytes in the source.
func (s *Source) Len() int { return len(s.text) }

// ByteAt returns the byte at offset, or 0 if offset is out of range.
func (s *Source) ByteAt(offset int) byte {
	if offset < 0 || offset >= len(s.text) {
		return 0
	}
	return s.text[offset]
}

// Slice returns the substring covered by span.
func (s *Source) Slice(span Span) string {
	if span.Start < 0 || span.End > len(s.text) || span.Start > span.End {
		return ""
	}
	return s.text[span.Start:span.End]
}

// LineCol resolves a byte offset to a 1-indexed line and column pair.
// Column is a byte offset within the line, matching the teacher's
// lexer.startOnLine convention.
func (s *Source) LineCol(offset int) (line, col int) {
	// Binary search for the line containing offset.
	lo, hi := 0, len(s.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - s.lineStarts[lo] + 1
}

// MakeSpan builds a Span from raw byte offsets, resolving line/column
// information from the Source.
func (s *Source) MakeSpan(start, end int) Span {
	sl, sc := s.LineCol(start)
	el, ec := s.LineCol(end)
	return Span{Start: start, End: end, StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
}

// Join returns the smallest Span enclosing both a and b.
func Join(a, b Span) Span {
	start, end := a.Start, a.End
	startLine, startCol := a.StartLine, a.StartCol
	endLine, endCol := a.EndLine, a.EndCol
	if b.Start < start {
		start, startLine, startCol = b.Start, b.StartLine, b.StartCol
	}
	if b.End > end {
		end, endLine, endCol = b.End, b.EndLine, b.EndCol
	}
	return Span{Start: start, End: end, StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol}
}

// String renders a span as "line:col-line:col" for diagnostics.
func (sp Span) String() string {
	if sp.StartLine == sp.EndLine {
		return fmt.Sprintf("%d:%d-%d", sp.StartLine, sp.StartCol, sp.EndCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", sp.StartLine, sp.StartCol, sp.EndLine, sp.EndCol)
}

// SnippetLines returns the source lines spanned by sp, trimmed of their
// trailing newline, for use by a presentation layer rendering a
// diagnostic (the core never formats these itself; see spec.md §4.11).
func (s *Source) SnippetLines(sp Span) []string {
	var out []string
	for line := sp.StartLine; line <= sp.EndLine && line <= len(s.lineStarts); line++ {
		start := s.lineStarts[line-1]
		end := len(s.text)
		if line < len(s.lineStarts) {
			end = s.lineStarts[line]
		}
		out = append(out, strings.TrimRight(s.text[start:end], "\n\r"))
	}
	return out
}
