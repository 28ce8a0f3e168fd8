package loc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dhamidi/lingo/loc"
)

func TestPosition(t *testing.T) {
	t.Parallel()

	src := []byte("let a = 1;\nlet b\r\n= 2;")
	lines := loc.NewLines(src)

	tests := []struct {
		offset int
		want   string
	}{
		{0, "1:1"},
		{4, "1:5"},
		{10, "1:11"},
		{11, "2:1"},
		{17, "2:7"},
		{18, "3:1"},
		{21, "3:4"},
		{99, "3:5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lines.Position(tt.offset).String(), "offset %d", tt.offset)
	}
	assert.Equal(t, 3, lines.Count())
}

func TestText(t *testing.T) {
	t.Parallel()

	src := []byte("one\r\ntwo\n\nfour")
	lines := loc.NewLines(src)

	assert.Equal(t, "one", lines.Text(src, 1))
	assert.Equal(t, "two", lines.Text(src, 2))
	assert.Equal(t, "", lines.Text(src, 3))
	assert.Equal(t, "four", lines.Text(src, 4))
	assert.Equal(t, "", lines.Text(src, 5))
}
