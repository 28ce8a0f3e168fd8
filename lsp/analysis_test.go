package lsp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func rng(l1, c1, l2, c2 int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(l1), Character: protocol.UInteger(c1)},
		End:   protocol.Position{Line: protocol.UInteger(l2), Character: protocol.UInteger(c2)},
	}
}

func TestAnalyzeSyntaxError(t *testing.T) {
	t.Parallel()

	a := Analyze([]byte("let = 1;"))
	assert.Nil(t, a.Document)
	require.Len(t, a.Diagnostics, 1)

	d := a.Diagnostics[0]
	assert.Equal(t, rng(0, 4, 0, 5), d.Range)
	assert.Equal(t, `stumbled on "=" in Ident, expected name`, d.Message)
	require.NotNil(t, d.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	require.NotNil(t, d.Source)
	assert.Equal(t, "lingo", *d.Source)
}

func TestAnalyzeClean(t *testing.T) {
	t.Parallel()

	a := Analyze([]byte("let x = 1;\n"))
	require.NotNil(t, a.Document)
	assert.NotNil(t, a.Diagnostics)
	assert.Empty(t, a.Diagnostics)
}

func TestSymbols(t *testing.T) {
	t.Parallel()

	a := Analyze([]byte("let x = 1;\nlet y = x;\nf(y);"))
	got := a.Symbols()
	want := []protocol.DocumentSymbol{
		{Name: "x", Kind: protocol.SymbolKindVariable, Range: rng(0, 0, 0, 10), SelectionRange: rng(0, 4, 0, 5)},
		{Name: "y", Kind: protocol.SymbolKindVariable, Range: rng(1, 0, 1, 10), SelectionRange: rng(1, 4, 1, 5)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestRangesCountUTF16(t *testing.T) {
	t.Parallel()

	// é is one UTF-16 unit in two bytes, 𝑥 two units in four bytes.
	a := Analyze([]byte("let é𝑥 = 1;\nlet y = é𝑥;"))
	want := []protocol.DocumentSymbol{
		{Name: "é𝑥", Kind: protocol.SymbolKindVariable, Range: rng(0, 0, 0, 12), SelectionRange: rng(0, 4, 0, 7)},
		{Name: "y", Kind: protocol.SymbolKindVariable, Range: rng(1, 0, 1, 12), SelectionRange: rng(1, 4, 1, 5)},
	}
	if diff := cmp.Diff(want, a.Symbols()); diff != "" {
		t.Errorf("symbols mismatch (-want +got):\n%s", diff)
	}

	a = Analyze([]byte("let é = ;"))
	require.Len(t, a.Diagnostics, 1)
	assert.Equal(t, rng(0, 8, 0, 9), a.Diagnostics[0].Range)
}

func TestCompletions(t *testing.T) {
	t.Parallel()

	a := Analyze([]byte("let a = 1; let b = 2; let a = 3;"))
	var labels []string
	for _, item := range a.Completions() {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"a", "b", "let", "true", "false", "null"}, labels)

	assert.Len(t, Analyze([]byte("let")).Completions(), len(keywords))
}
