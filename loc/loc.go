// Package loc maps byte offsets in a source text to lines and columns.
package loc

import (
	"fmt"
	"sort"
)

// Position is a 1-based line and column. Columns count bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Lines is a line table over one source text.
type Lines struct {
	// starts[i] is the offset of the first byte of line i+1.
	starts []int
	size   int
}

// NewLines indexes src.
func NewLines(src []byte) *Lines {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Lines{starts: starts, size: len(src)}
}

// Count returns the number of lines.
func (l *Lines) Count() int {
	return len(l.starts)
}

// Position returns the line and column of offset. Offsets past the end are
// clamped to the end of the text.
func (l *Lines) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > l.size {
		offset = l.size
	}
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - l.starts[line] + 1,
	}
}

// Range returns the begin and end offsets of line n (1-based), excluding the
// line terminator.
func (l *Lines) Range(n int) (begin, end int) {
	if n < 1 || n > len(l.starts) {
		return 0, 0
	}
	begin = l.starts[n-1]
	if n < len(l.starts) {
		end = l.starts[n] - 1
	} else {
		end = l.size
	}
	if end < begin {
		end = begin
	}
	return begin, end
}

// Text returns line n of src without its terminator.
func (l *Lines) Text(src []byte, n int) string {
	begin, end := l.Range(n)
	if end > len(src) {
		end = len(src)
	}
	if begin > end {
		return ""
	}
	text := src[begin:end]
	if len(text) > 0 && text[len(text)-1] == '\r' {
		text = text[:len(text)-1]
	}
	return string(text)
}
