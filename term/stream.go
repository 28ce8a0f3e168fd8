package term

import "fmt"

// Stream is a flat, append-only buffer of scanned terms. Each entry stores
// its kind and end offset; the begin offset is the end of the previous
// entry, or the stream start for the first one.
//
// A cursor walks the stream: before the first Next it sits on Begin, past
// the last entry it sits on End.
type Stream struct {
	start int
	kinds []Term
	ends  []int
	index int
}

// NewStream returns an empty stream whose first entry begins at start.
func NewStream(start int) *Stream {
	return &Stream{
		start: start,
		kinds: make([]Term, 0, 64),
		ends:  make([]int, 0, 64),
		index: -1,
	}
}

// Put appends an entry ending at end.
func (s *Stream) Put(kind Term, end int) {
	if end <= s.tail() {
		panic(fmt.Sprintf("term: %s ends at %d, not after %d", kind, end, s.tail()))
	}
	s.kinds = append(s.kinds, kind)
	s.ends = append(s.ends, end)
}

// Extend grows the last entry to end when it has the same kind, and
// appends a new entry otherwise.
func (s *Stream) Extend(kind Term, end int) {
	if n := len(s.kinds); n > 0 && s.kinds[n-1] == kind {
		if end <= s.ends[n-1] {
			panic(fmt.Sprintf("term: %s extended to %d, not after %d", kind, end, s.ends[n-1]))
		}
		s.ends[n-1] = end
		return
	}
	s.Put(kind, end)
}

func (s *Stream) tail() int {
	if len(s.ends) == 0 {
		return s.start - 1
	}
	return s.ends[len(s.ends)-1]
}

// Len returns the number of entries.
func (s *Stream) Len() int {
	return len(s.kinds)
}

// Start returns the offset the first entry begins at.
func (s *Stream) Start() int {
	return s.start
}

// Kind returns the kind of entry i, with Begin and End for positions
// before and after the stream.
func (s *Stream) Kind(i int) Term {
	switch {
	case i < 0:
		return Begin
	case i >= len(s.kinds):
		return End
	default:
		return s.kinds[i]
	}
}

// Before returns the source offset entry i begins at. Past the end it
// returns the end of the last entry.
func (s *Stream) Before(i int) int {
	switch {
	case i <= 0:
		return s.start
	case i > len(s.ends):
		return s.After(len(s.ends) - 1)
	default:
		return s.ends[i-1]
	}
}

// After returns the source offset entry i ends at.
func (s *Stream) After(i int) int {
	switch {
	case i < 0 || len(s.ends) == 0:
		return s.start
	case i >= len(s.ends):
		return s.ends[len(s.ends)-1]
	default:
		return s.ends[i]
	}
}

// Seek moves the cursor to entry i.
func (s *Stream) Seek(i int) {
	if i < -1 {
		i = -1
	}
	if i > len(s.kinds) {
		i = len(s.kinds)
	}
	s.index = i
}

// Rewind moves the cursor before the first entry.
func (s *Stream) Rewind() {
	s.index = -1
}

// Index returns the cursor position.
func (s *Stream) Index() int {
	return s.index
}

// Current returns the kind under the cursor.
func (s *Stream) Current() Term {
	return s.Kind(s.index)
}

// Next advances the cursor and returns the kind under it.
func (s *Stream) Next() Term {
	if s.index < len(s.kinds) {
		s.index++
	}
	return s.Current()
}
