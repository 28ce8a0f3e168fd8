package term_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/lingo/term"
)

func TestStreamOffsets(t *testing.T) {
	t.Parallel()

	s := term.NewStream(0)
	s.Put(term.Name, 3)
	s.Extend(term.Whitespace, 4)
	s.Extend(term.Whitespace, 6)
	s.Put(term.Plus, 7)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, term.Whitespace, s.Kind(1))
	assert.Equal(t, 0, s.Before(0))
	assert.Equal(t, 3, s.After(0))
	assert.Equal(t, 3, s.Before(1))
	assert.Equal(t, 6, s.After(1))
	assert.Equal(t, 6, s.Before(2))
	assert.Equal(t, 7, s.After(2))
	assert.Equal(t, 7, s.Before(3), "past the end begins where the stream ends")
}

func TestStreamStartOffset(t *testing.T) {
	t.Parallel()

	s := term.NewStream(10)
	s.Put(term.Integer, 12)
	assert.Equal(t, 10, s.Before(0))
	assert.Equal(t, 12, s.After(0))
	assert.Equal(t, 10, s.Start())
}

func TestStreamCursor(t *testing.T) {
	t.Parallel()

	s := term.NewStream(0)
	s.Put(term.Integer, 1)
	s.Put(term.Plus, 2)

	assert.Equal(t, -1, s.Index())
	assert.Equal(t, term.Begin, s.Current())
	assert.Equal(t, term.Integer, s.Next())
	assert.Equal(t, term.Plus, s.Next())
	assert.Equal(t, term.End, s.Next())
	assert.Equal(t, term.End, s.Next())
	assert.Equal(t, 2, s.Index())

	s.Seek(1)
	assert.Equal(t, term.Plus, s.Current())
	s.Rewind()
	assert.Equal(t, term.Begin, s.Current())
}

func TestStreamExtendDifferentKindAppends(t *testing.T) {
	t.Parallel()

	s := term.NewStream(0)
	s.Extend(term.Whitespace, 2)
	s.Extend(term.Newline, 3)
	s.Extend(term.Whitespace, 5)
	assert.Equal(t, 3, s.Len())
}

func TestStreamPutMustAdvance(t *testing.T) {
	t.Parallel()

	s := term.NewStream(0)
	s.Put(term.Name, 2)
	assert.Panics(t, func() { s.Put(term.Name, 2) })
}
