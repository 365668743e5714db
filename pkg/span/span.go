// Package span provides character-offset spans over document source text,
// with the containment predicates used by position resolution.
package span

import (
	"fmt"
	"strings"
)

// Span is a half-open interval [Start, Start+Length) of character offsets
// into a document's source text.
type Span struct {
	Start  int
	Length int
}

func New(start, length int) Span {
	return Span{Start: start, Length: length}
}

// Between returns the span covering [start, end).
func Between(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Start: start, Length: end - start}
}

// End returns the first offset after the span.
func (s Span) End() int {
	return s.Start + s.Length
}

func (s Span) IsEmpty() bool {
	return s.Length <= 0
}

// ContainsStrict reports whether offset lies inside the half-open interval.
func (s Span) ContainsStrict(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

// ContainsInclusive is ContainsStrict extended to include the right edge.
func (s Span) ContainsInclusive(offset int) bool {
	return offset >= s.Start && offset <= s.End()
}

// ContainsExtended treats a cursor touching either boundary as inside. This
// is the mode used for completion-trigger positions that sit exactly at a
// quote character.
func (s Span) ContainsExtended(offset int) bool {
	return offset >= s.Start && offset <= s.End()
}

// Text returns the slice of source covered by the span, clamped to the
// source bounds.
func (s Span) Text(source string) string {
	start := clamp(s.Start, len(source))
	end := clamp(s.End(), len(source))
	if end < start {
		end = start
	}
	return source[start:end]
}

// Unquote returns the span with one surrounding pair of double quotes
// stripped, when the covered text carries them. Otherwise the span is
// returned unchanged.
func (s Span) Unquote(source string) Span {
	text := s.Text(source)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		return Span{Start: s.Start + 1, Length: s.Length - 2}
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End())
}

// OffsetFromLineAndColumn converts zero-based line and column coordinates
// into a flat character offset. Coordinates past the end of a line, the last
// line, or the document are clamped rather than rejected, since editors
// routinely report positions just past the text they refer to.
func OffsetFromLineAndColumn(source string, line, col int) int {
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	lines := strings.Split(source, "\n")
	if line >= len(lines) {
		return len(source)
	}
	offset := 0
	for i := 0; i < line; i++ {
		offset += len(lines[i]) + 1
	}
	if col > len(lines[line]) {
		col = len(lines[line])
	}
	return offset + col
}

// LineAndColumnFromOffset converts a flat character offset into zero-based
// line and column coordinates. Offsets outside [0, len(source)] are clamped.
func LineAndColumnFromOffset(source string, offset int) (line, col int) {
	offset = clamp(offset, len(source))

	lastNewline := -1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	col = offset - lastNewline - 1
	return line, col
}

// Clamp bounds offset into [0, max].
func Clamp(offset, max int) int {
	return clamp(offset, max)
}

func clamp(offset, max int) int {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
