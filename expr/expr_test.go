package expr_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/lingo/expr"
	"github.com/dhamidi/lingo/name"
	"github.com/dhamidi/lingo/parse"
	"github.com/dhamidi/lingo/term"
)

func TestParseExprPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{"1", "1"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 % 3", "((8 / 4) % 3)"},
		{"a || b && c == d + e * f", "(a || (b && (c == (d + (e * f)))))"},
		{"a * b + c < d && e || f", "(((((a * b) + c) < d) && e) || f)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"((x))", "x"},
		{"-a * b", "((-a) * b)"},
		{"!ok && x <= 10", "((!ok) && (x <= 10))"},
		{"true && !false || null == null", "((true && (!false)) || (null == null))"},
		{"a != b", "(a != b)"},
		{"f()", "f()"},
		{`f(1, g(x), "s")`, `f(1, g(x), "s")`},
		{"f (1 + 2)", "f((1 + 2))"},
		{`"hello {name}!"`, `"hello {name}!"`},
		{`"{a + b}"`, `"{(a + b)}"`},
		{`""`, `""`},
		{"0x1F + 0b10", "(0x1F + 0b10)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			x, err := expr.ParseExpr([]byte(tt.src), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.Dump(x))
		})
	}
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	src := "let x = 1 + 2;\n// comment\nf(x); /* block */ let y = x;\n"
	doc, err := expr.Parse([]byte(src), nil)
	require.NoError(t, err)
	require.Len(t, doc.Statements, 3)
	assert.Equal(t, "let x = (1 + 2);\nf(x);\nlet y = x;", expr.Dump(doc))

	let, ok := doc.Statements[0].(*expr.Let)
	require.True(t, ok)
	assert.Equal(t, expr.Span{Begin: 0, End: 14}, let.Bounds())
	assert.Equal(t, expr.Span{Begin: 4, End: 5}, let.Name.Bounds())
	assert.Equal(t, "x", let.Name.Name.String())
	assert.Equal(t, expr.Span{Begin: 8, End: 13}, let.Value.Bounds())

	_, ok = doc.Statements[1].(*expr.ExprStmt)
	assert.True(t, ok)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"", "  \n\t", "// nothing here\n"} {
		doc, err := expr.Parse([]byte(src), nil)
		require.NoError(t, err, "%q", src)
		assert.Empty(t, doc.Statements)
	}
}

func TestParseNumbers(t *testing.T) {
	t.Parallel()

	x, err := expr.ParseExpr([]byte("0x1F + 0b10 + 1.5 + 2e3 + 7"), nil)
	require.NoError(t, err)

	var kinds []term.Term
	var texts []string
	expr.Inspect(x, func(n expr.Node) bool {
		if num, ok := n.(*expr.Number); ok {
			kinds = append(kinds, num.Kind)
			texts = append(texts, num.Text)
		}
		return true
	})
	assert.Equal(t, []term.Term{term.Hex, term.Binary, term.Decimal, term.Exponent, term.Integer}, kinds)
	assert.Equal(t, []string{"0x1F", "0b10", "1.5", "2e3", "7"}, texts)
}

func TestParseInternsNames(t *testing.T) {
	t.Parallel()

	pool := name.NewPool()
	x, err := expr.ParseExpr([]byte("a + a * b"), pool)
	require.NoError(t, err)

	var refs []*expr.Ref
	expr.Inspect(x, func(n expr.Node) bool {
		if r, ok := n.(*expr.Ref); ok {
			refs = append(refs, r)
		}
		return true
	})
	require.Len(t, refs, 3)
	assert.Same(t, refs[0].Name.Name, refs[1].Name.Name)
	assert.NotSame(t, refs[0].Name.Name, refs[2].Name.Name)
	assert.Same(t, pool.InternString("b"), refs[2].Name.Name)
}

func TestParseElements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{`let card = <div class="card" id={n}>Hi {name}<br/></div>`, `let card = <div class="card" id={n}>Hi {name}<br/></div>;`},
		{"<p>1 < 2</p>\nx;", "<p>1 < 2</p>;\nx;"},
		{"render(<a/>, <b></b>);", "render(<a/>, <b></b>);"},
		{"let ok = a < b;", "let ok = (a < b);"},
		{`<ul><li>{items}</li></ul>`, `<ul><li>{items}</li></ul>;`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			doc, err := expr.Parse([]byte(tt.src), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.Dump(doc))
		})
	}
}

func TestParseElementStructure(t *testing.T) {
	t.Parallel()

	x, err := expr.ParseExpr([]byte(`<img src="a.png" alt={title}/>`), nil)
	require.NoError(t, err)
	el, ok := x.(*expr.Element)
	require.True(t, ok)
	assert.True(t, el.SelfClosing)
	assert.Nil(t, el.Close)
	require.Len(t, el.Attributes, 2)
	assert.Equal(t, "src", el.Attributes[0].Name.Name.String())
	assert.IsType(t, &expr.String{}, el.Attributes[0].Value)
	assert.IsType(t, &expr.Hole{}, el.Attributes[1].Value)
}

func TestSyntaxErrorMismatched(t *testing.T) {
	t.Parallel()

	_, err := expr.Parse([]byte("let = 1;"), nil)
	var serr *expr.SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, parse.Mismatched, serr.Outcome)
	assert.Equal(t, "Ident", serr.Production)
	assert.Equal(t, []term.Term{term.Name}, serr.Expected)
	assert.Equal(t, "1:5: stumbled on \"=\" in Ident, expected name", serr.Error())
	assert.Equal(t, "1:5: stumbled on \"=\" in Ident, expected name\nlet = 1;\n    ^", serr.Message)
}

func TestSyntaxErrorUnconsumed(t *testing.T) {
	t.Parallel()

	_, err := expr.Parse([]byte("1 +;"), nil)
	var serr *expr.SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, parse.Unconsumed, serr.Outcome)
	assert.Contains(t, serr.Summary, `unconsumed input at ";"`)
	assert.Contains(t, serr.Expected, term.Integer)
	assert.Contains(t, serr.Expected, term.LParen)
	assert.Equal(t, 4, serr.Position.Column)
}

func TestSyntaxErrorAfterCommit(t *testing.T) {
	t.Parallel()

	tests := []string{
		"f(1",
		"(1 + 2",
		`"a {b"`,
		"let x = 1",
		"<a x=1/>",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			t.Parallel()
			_, err := expr.Parse([]byte(src), nil)
			var serr *expr.SyntaxError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, parse.Mismatched, serr.Outcome)
		})
	}
}

func TestSyntaxErrorClosingTag(t *testing.T) {
	t.Parallel()

	_, err := expr.Parse([]byte("<a></b>"), nil)
	var serr *expr.SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "1:6: closing tag </b> does not match <a>", serr.Error())
	assert.Equal(t, "1:6: closing tag </b> does not match <a>\n<a></b>\n     ^", serr.Message)
}

func TestGrammarVerifies(t *testing.T) {
	t.Parallel()

	g := expr.Grammar()
	require.NoError(t, g.Verify(nil))

	var buf bytes.Buffer
	require.NoError(t, g.WriteEBNF(&buf, nil))
	text := buf.String()
	assert.Contains(t, text, "Document = { Statement } .\n")
	assert.Contains(t, text, "Let = \"let\" Ident \"=\" Expr Terminator .\n")
	assert.Contains(t, text, "Terminator = [ \";\" ] .\n")
	assert.Contains(t, text, "Ref = Ident .\n")
	assert.Contains(t, text, "tagOpen = \"<\" .\n")
}

func TestPrecedence(t *testing.T) {
	t.Parallel()

	assert.Greater(t, expr.Precedence(term.Star), expr.Precedence(term.Plus))
	assert.Greater(t, expr.Precedence(term.Plus), expr.Precedence(term.LT))
	assert.Greater(t, expr.Precedence(term.EQ), expr.Precedence(term.And))
	assert.Greater(t, expr.Precedence(term.And), expr.Precedence(term.Or))
	assert.Zero(t, expr.Precedence(term.Assign))
}
