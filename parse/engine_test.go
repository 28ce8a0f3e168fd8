package parse_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/eaburns/pretty"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/lingo/grammar"
	"github.com/dhamidi/lingo/lex"
	"github.com/dhamidi/lingo/parse"
	"github.com/dhamidi/lingo/term"
)

type chain struct {
	operands []any
	ops      []term.Term
}

type binary struct {
	op   term.Term
	x, y any
}

var levels = [][]term.Term{{term.Star}, {term.Plus}}

func foldChain(n any) any {
	c := n.(*chain)
	for _, level := range levels {
		for i := 0; i < len(c.ops); {
			if c.ops[i] != level[0] {
				i++
				continue
			}
			c.operands[i] = binary{op: c.ops[i], x: c.operands[i], y: c.operands[i+1]}
			c.operands = append(c.operands[:i+1], c.operands[i+2:]...)
			c.ops = append(c.ops[:i], c.ops[i+1:]...)
		}
	}
	return c.operands[0]
}

func render(v any) string {
	switch v := v.(type) {
	case binary:
		return "(" + render(v.x) + v.op.Symbol() + render(v.y) + ")"
	case string:
		return v
	default:
		return "?"
	}
}

// sumGrammar is Expr := Number (("+" | "*") Number)* with "*" binding
// tighter than "+".
func sumGrammar() *grammar.Grammar {
	b := grammar.NewBuilder()
	b.Term("+", term.Plus).Term("*", term.Star)
	b.Ignore(term.Whitespace, term.Newline, term.Comment)
	operands := b.Part("operands", grammar.Assign(func(c *chain, v any) { c.operands = append(c.operands, v) }))
	number := b.Production("Number", func(x grammar.Extent) any {
		return x.Context().(*lex.Document).Slice(x.Terms())
	})
	operator := b.TermCapture("Operator", func(n any, t term.Term) {
		c := n.(*chain)
		c.ops = append(c.ops, t)
	})
	expr := b.Production("Expr", func(grammar.Extent) any { return &chain{} }).Fold(foldChain)
	number.Is(term.Integer)
	operator.Is(grammar.OneOf("+", "*"))
	expr.Is(number.As(operands), grammar.Any(operator, number.As(operands)))
	return b.MustBuild(expr)
}

func parseString(g *grammar.Grammar, src string, opts ...parse.Option) (*lex.Document, *parse.Result) {
	doc := lex.Scan([]byte(src), nil)
	return doc, parse.Parse(g, doc.Terms, nil, opts...)
}

func TestPrecedenceFolding(t *testing.T) {
	t.Parallel()

	g := sumGrammar()
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"1+2*3", "(1+(2*3))"},
		{"1*2+3", "((1*2)+3)"},
		{"1 + 2 + 3", "((1+2)+3)"},
		{"2*3*4+5*6", "(((2*3)*4)+(5*6))"},
		{" 1\n+ /* two */ 2 // end\n", "(1+2)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			doc, r := parseString(g, tt.input)
			require.True(t, r.OK(), r.Message(doc.Lines, doc.Source))
			got := r.Construct(doc)
			assert.Equal(t, tt.want, render(got), pretty.String(got))
		})
	}
}

func TestMissingOperand(t *testing.T) {
	t.Parallel()

	doc, r := parseString(sumGrammar(), "1+")
	assert.Equal(t, parse.Unconsumed, r.Outcome())
	assert.False(t, r.OK())
	assert.Equal(t, 1, r.Consumed())

	far := r.Farthest()
	assert.Equal(t, doc.Terms.Len(), far.Pos)
	assert.Equal(t, []term.Term{term.Integer}, far.Expected.Terms())
	require.NotNil(t, far.Production)
	assert.Equal(t, "Number", far.Production.Name())

	assert.Equal(t, "1:3: unconsumed input at end of input, expected integer\n1+\n  ^", r.Message(doc.Lines, doc.Source))

	err := r.Err(doc.Lines, doc.Source)
	var perr *parse.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Begin)
	assert.Equal(t, "end of input", perr.Found)
	assert.Equal(t, "1:3: unconsumed input at end of input, expected integer", err.Error())
}

func TestMismatched(t *testing.T) {
	t.Parallel()

	doc, r := parseString(sumGrammar(), "+")
	assert.Equal(t, parse.Mismatched, r.Outcome())
	assert.Empty(t, r.Productions())
	assert.Equal(t, "1:1: stumbled on \"+\" in Number, expected integer\n+\n^", r.Message(doc.Lines, doc.Source))
	assert.Panics(t, func() { r.Construct(doc) })

	fail := r.Fail()
	require.NotNil(t, fail)
	assert.Equal(t, "Number", fail.Name)
	require.Len(t, fail.Kids, 1)
	assert.Equal(t, "integer", fail.Kids[0].Want)
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	doc, r := parseString(sumGrammar(), "  ")
	assert.Equal(t, parse.Mismatched, r.Outcome())
	d := r.Diagnose(doc.Lines, doc.Source)
	assert.Equal(t, "end of input", d.Found)
	assert.Equal(t, 2, d.Begin)
}

func TestProductionStream(t *testing.T) {
	t.Parallel()

	g := sumGrammar()
	doc, r := parseString(g, "1 + 2 // c\n")
	require.True(t, r.OK())

	type row struct {
		Name       string
		Part, Len  int
		Begin, End int
	}
	var got []row
	for _, e := range r.Productions() {
		got = append(got, row{g.Production(e.Production()).Name(), e.Part(), e.Len(), e.Begin(), e.End()})
	}
	operands := g.Part(1)
	require.Equal(t, "operands", operands.Name())
	want := []row{
		{"Expr", 0, 4, 0, 5},
		{"Number", operands.ID(), 1, 0, 1},
		{"Operator", 0, 1, 2, 3},
		{"Number", operands.ID(), 1, 4, 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("production stream mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, doc.Terms.Len(), r.Consumed())

	tree := r.Tree(doc.Source)
	require.NotNil(t, tree)
	assert.Equal(t, "Expr", tree.Name)
	assert.Equal(t, "1 + 2", tree.Text)
	require.Len(t, tree.Kids, 3)
	assert.Equal(t, "+", tree.Kids[1].Text)
	assert.Equal(t, "Operator", tree.Kids[1].Name)
}

func TestDeterminism(t *testing.T) {
	t.Parallel()

	g := sumGrammar()
	for _, input := range []string{"1+2*3", "1+", "+", "1 2"} {
		_, a := parseString(g, input)
		_, b := parseString(g, input)
		assert.Equal(t, a.Outcome(), b.Outcome(), input)
		assert.Equal(t, a.Productions(), b.Productions(), input)
		assert.Equal(t, a.Farthest().Pos, b.Farthest().Pos, input)
	}
}

// callGrammar is Stmt := Call | Ref with Call := Name "(" [sure] Name ")".
func callGrammar(commit bool) *grammar.Grammar {
	b := grammar.NewBuilder()
	b.Term("(", term.LParen).Term(")", term.RParen)
	b.Ignore(term.Whitespace)
	call := b.Production("Call", nil)
	if commit {
		call.Is(term.Name, "(", grammar.Sure(), term.Name, ")")
	} else {
		call.Is(term.Name, "(", term.Name, ")")
	}
	ref := b.Production("Ref", nil).Is(term.Name)
	stmt := b.Alternatives("Stmt").Or(call, ref)
	return b.MustBuild(stmt)
}

func traceLogger(buf *bytes.Buffer) *log.Logger {
	logger := log.New(buf)
	logger.SetLevel(log.DebugLevel)
	return logger
}

func TestCutMonotonicity(t *testing.T) {
	t.Parallel()

	var trace bytes.Buffer
	_, r := parseString(callGrammar(true), "f(x", parse.WithLogger(traceLogger(&trace)), parse.WithTrace())
	assert.Equal(t, parse.Mismatched, r.Outcome())
	assert.Contains(t, trace.String(), "production=Call")
	assert.NotContains(t, trace.String(), "production=Ref")

	trace.Reset()
	_, r = parseString(callGrammar(false), "f(x", parse.WithLogger(traceLogger(&trace)), parse.WithTrace())
	assert.Equal(t, parse.Unconsumed, r.Outcome())
	assert.Contains(t, trace.String(), "production=Ref")

	for _, input := range []string{"f(x)", "g", "f ( x )"} {
		_, r := parseString(callGrammar(true), input)
		assert.True(t, r.OK(), input)
	}
}

func TestCutInsideRepetition(t *testing.T) {
	t.Parallel()

	b := grammar.NewBuilder()
	b.Term("(", term.LParen).Term(")", term.RParen)
	item := b.Production("Item", nil).Is("(", grammar.Sure(), term.Name, ")")
	list := b.Production("List", nil).Is(grammar.Any(item))
	g := b.MustBuild(list)

	_, r := parseString(g, "(a)(b)")
	assert.True(t, r.OK())

	_, r = parseString(g, "(a)(b")
	assert.Equal(t, parse.Mismatched, r.Outcome())

	_, r = parseString(g, "(a)b")
	assert.Equal(t, parse.Unconsumed, r.Outcome())
}

func TestOneOrMoreBacktracks(t *testing.T) {
	t.Parallel()

	b := grammar.NewBuilder()
	b.Term(";", term.Semicolon)
	names := b.Production("Names", nil).Is(grammar.More(term.Name), ";")
	empty := b.Production("Empty", nil).Is(";")
	root := b.Alternatives("Root").Or(names, empty)
	b.Ignore(term.Whitespace)
	g := b.MustBuild(root)

	tests := []struct {
		input string
		want  string
	}{
		{";", "Empty"},
		{"a ;", "Names"},
		{"a b c;", "Names"},
	}
	for _, tt := range tests {
		_, r := parseString(g, tt.input)
		require.True(t, r.OK(), tt.input)
		require.Len(t, r.Productions(), 1)
		assert.Equal(t, tt.want, g.Production(r.Productions()[0].Production()).Name(), tt.input)
	}
}

func TestLookaround(t *testing.T) {
	t.Parallel()

	b := grammar.NewBuilder()
	b.Term("(", term.LParen).Term(";", term.Semicolon)
	b.Ignore(term.Whitespace, term.Comment)
	ref := b.Production("Ref", nil).Is(term.Name, grammar.Not("("))
	done := b.Production("Done", nil).Is(term.Name, grammar.Opt(";"), grammar.Last(";"))
	root := b.Alternatives("Root").Or(done, ref)
	g := b.MustBuild(root)

	tests := []struct {
		input   string
		outcome parse.Outcome
	}{
		{"a", parse.Ok},
		{"a(", parse.Mismatched},
		{"a ;", parse.Ok},
		{"a ; /* c */ ", parse.Ok},
	}
	for _, tt := range tests {
		_, r := parseString(g, tt.input)
		assert.Equal(t, tt.outcome, r.Outcome(), tt.input)
	}

	_, r := parseString(g, "a ;")
	require.True(t, r.OK())
	e := r.Productions()[0]
	assert.Equal(t, "Done", g.Production(e.Production()).Name())
	assert.Equal(t, 3, e.End())
}

type list struct{ items []string }

func TestPartRouting(t *testing.T) {
	t.Parallel()

	b := grammar.NewBuilder()
	b.Term(",", term.Comma)
	b.Ignore(term.Whitespace)
	items := b.Part("items", grammar.Assign(func(l *list, s string) { l.items = append(l.items, s) }))
	text := func(x grammar.Extent) any { return x.Context().(*lex.Document).Slice(x.Terms()) }
	num := b.Production("Num", text).Is(term.Integer)
	word := b.Production("Word", text).Is(term.Name)
	value := b.Alternatives("Value").Or(num, word)
	pair := b.Ephemeral("Pair").Is(value.As(items), ",", value.As(items))
	root := b.Production("Root", func(grammar.Extent) any { return &list{} }).
		Is(pair, grammar.Any(",", value.As(items)))
	g := b.MustBuild(root)

	doc, r := parseString(g, "1, a, 2, b")
	require.True(t, r.OK(), r.Message(doc.Lines, doc.Source))
	got := r.Construct(doc).(*list)
	assert.Equal(t, []string{"1", "a", "2", "b"}, got.items)
}

func TestParsePanicsOnForeignTarget(t *testing.T) {
	t.Parallel()

	g := sumGrammar()
	other := grammar.NewBuilder()
	p := other.Production("X", nil).Is(term.Name)
	other.MustBuild(p)
	doc := lex.Scan([]byte("x"), nil)
	assert.Panics(t, func() { parse.Parse(g, doc.Terms, p) })
}

func TestGrammarSurvivesRebuildAttempt(t *testing.T) {
	t.Parallel()

	b := grammar.NewBuilder()
	number := b.Production("Number", nil).Is(term.Integer)
	alt := b.Production("Alt", nil).Is(number)
	g := b.MustBuild(alt)

	alt.Is(term.Name)
	assert.Panics(t, func() { b.MustBuild(alt) })

	doc := lex.Scan([]byte("1"), nil)
	r := parse.Parse(g, doc.Terms, number)
	require.True(t, r.OK(), r.Message(doc.Lines, doc.Source))
	r = parse.Parse(g, doc.Terms, alt)
	require.True(t, r.OK(), r.Message(doc.Lines, doc.Source))
	assert.Len(t, r.Productions(), 2)
}
