package term_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/lingo/term"
)

func TestCatalogMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		term     term.Term
		symbol   string
		category term.Category
	}{
		{term.Let, "let", term.Keyword},
		{term.Plus, "+", term.Operator},
		{term.LE, "<=", term.Operator},
		{term.LParen, "(", term.Delimiter},
		{term.TagSelfClose, "/>", term.Markup},
		{term.Name, "name", term.Other},
		{term.End, "end of input", term.Other},
	}
	for _, tt := range tests {
		t.Run(tt.term.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.symbol, tt.term.Symbol())
			assert.Equal(t, tt.category, tt.term.Category())
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	kw, ok := term.LookupKeyword("let")
	require.True(t, ok)
	assert.Equal(t, term.Let, kw)

	_, ok = term.LookupKeyword("lets")
	assert.False(t, ok)
	_, ok = term.LookupKeyword("+")
	assert.False(t, ok)

	op, ok := term.BySymbol("&&")
	require.True(t, ok)
	assert.Equal(t, term.And, op)

	lt, ok := term.BySymbol("<")
	require.True(t, ok)
	assert.Equal(t, term.LT, lt, "markup markers never shadow operators")
}

func TestEverySymbolRoundTrips(t *testing.T) {
	t.Parallel()

	for _, tk := range term.All() {
		switch tk.Category() {
		case term.Keyword, term.Operator, term.Delimiter:
			got, ok := term.BySymbol(tk.Symbol())
			require.True(t, ok, tk.String())
			assert.Equal(t, tk, got)
		}
	}
	assert.Len(t, term.All(), term.Count)
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := term.NewSet(term.Plus, term.TagEndOpen, term.Begin)
	assert.True(t, s.Has(term.Plus))
	assert.True(t, s.Has(term.TagEndOpen))
	assert.True(t, s.Has(term.Begin))
	assert.False(t, s.Has(term.Minus))
	assert.Equal(t, []term.Term{term.Begin, term.Plus, term.TagEndOpen}, s.Terms())
	assert.Equal(t, "{Begin Plus TagEndOpen}", s.String())
}
