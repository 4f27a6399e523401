package latex

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// Pos is a byte offset into the original source string. It is intentionally
// a plain integer rather than a bit-packed, renumberable span built for
// incremental reparsing: this parser parses a whole document in one pass
// rather than incrementally, so there is no need to keep spans stable
// across edits.
type Pos int

// Position is a human-facing line/column pair, 1-indexed, computed by
// grapheme cluster rather than by byte or rune so that combining marks and
// multi-rune emoji occupy a single column.
type Position struct {
	Line int
	Col  int
}

// String implements fmt.Stringer as "line L, col C", the text that error
// formatting wraps in parentheses.
func (p Position) String() string {
	return fmt.Sprintf("line %d, col %d", p.Line, p.Col)
}

// positionIndex maps byte offsets to grapheme-aware line/column pairs for a
// fixed source string. Line-start offsets are computed once and reused by
// every lookup; the per-line column count stays proportional to line length
// rather than rescanning the whole file on each error.
type positionIndex struct {
	text        string
	lineStarts  []int // byte offset of the first byte of each line
}

func newPositionIndex(text string) *positionIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &positionIndex{text: text, lineStarts: starts}
}

// At returns the 1-indexed (line, col) for a byte offset. Col counts
// grapheme clusters from the start of the line, not bytes or runes.
func (ix *positionIndex) At(pos Pos) Position {
	offset := int(pos)
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.text) {
		offset = len(ix.text)
	}

	line := 0
	for i, start := range ix.lineStarts {
		if start > offset {
			break
		}
		line = i
	}

	lineStart := ix.lineStarts[line]
	segment := ix.text[lineStart:offset]

	col := 1
	gr := uniseg.NewGraphemes(segment)
	for gr.Next() {
		col++
	}

	return Position{Line: line + 1, Col: col}
}
