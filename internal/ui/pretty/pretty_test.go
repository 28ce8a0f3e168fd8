package pretty

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dhamidi/lingo/loc"
	"github.com/dhamidi/lingo/parse"
)

func TestFormatDiagnosticNoColor(t *testing.T) {
	t.Parallel()

	s := NewStyles(false)
	d := parse.Diagnostic{
		Outcome:    parse.Mismatched,
		Position:   loc.Position{Offset: 4, Line: 1, Column: 5},
		Summary:    `stumbled on "=" in Ident, expected name`,
		Production: "Ident",
	}
	got := s.FormatDiagnostic("a.lingo", d, "let = 1;", 0)
	want := "a.lingo:1:5  error  stumbled on \"=\" in Ident, expected name\n" +
		"    let = 1;\n" +
		"        ^\n" +
		"    in Ident\n"
	assert.Equal(t, want, got)
}

func TestFormatDiagnosticWithoutPath(t *testing.T) {
	t.Parallel()

	s := NewStyles(false)
	d := parse.Diagnostic{Position: loc.Position{Line: 2, Column: 1}, Summary: "unconsumed input at end of input"}
	assert.Equal(t, "2:1  error  unconsumed input at end of input\n", s.FormatDiagnostic("", d, "", 0))
}

func TestClip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		line       string
		column     int
		width      int
		wantLine   string
		wantColumn int
	}{
		{"fits", "let x = 1;", 5, 80, "let x = 1;", 5},
		{"disabled", "0123456789abcdefghij", 15, 0, "0123456789abcdefghij", 15},
		{"middle", "0123456789abcdefghij", 15, 12, "...bcdefg...", 7},
		{"start", "0123456789abcdefghij", 2, 12, "012345...", 2},
		{"end", "0123456789abcdefghij", 20, 12, "...efghij", 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			line, column := clip(tt.line, tt.column, tt.width)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantColumn, column)
		})
	}
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, IsColorEnabled("always", &buf))
	assert.False(t, IsColorEnabled("never", &buf))
	assert.False(t, IsColorEnabled("auto", &buf))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, IsColorEnabled("auto", &buf))
}

func TestWidthFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, Width(&bytes.Buffer{}, 100))
}
