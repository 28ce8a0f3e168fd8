package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eaburns/peggy/peg"

	"github.com/dhamidi/lingo/grammar"
	"github.com/dhamidi/lingo/loc"
	"github.com/dhamidi/lingo/term"
)

// Outcome is the verdict of a parse.
type Outcome uint8

const (
	// Undefined is the outcome of a Result that was never parsed.
	Undefined Outcome = iota
	// Ok means the grammar matched and every term was consumed.
	Ok
	// Mismatched means the target production did not match.
	Mismatched
	// Unconsumed means the target production matched a strict prefix.
	Unconsumed
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case Mismatched:
		return "mismatched"
	case Unconsumed:
		return "unconsumed"
	default:
		return "undefined"
	}
}

// Mismatch is the farthest failed term match of a parse.
type Mismatch struct {
	// Pos is the term index, -1 when no term match failed.
	Pos int
	// Expected holds every term that would have matched at Pos.
	Expected term.Set
	// Production is the innermost named production of the first failure
	// at Pos.
	Production *grammar.Production
}

// Result is a finished parse.
type Result struct {
	g        *grammar.Grammar
	target   *grammar.Production
	terms    *term.Stream
	outcome  Outcome
	entries  []Entry
	far      Mismatch
	consumed int
}

func (r *Result) Outcome() Outcome { return r.outcome }

// OK reports whether the outcome is Ok.
func (r *Result) OK() bool { return r.outcome == Ok }

// Productions returns the production stream. It is empty unless the target
// matched, and must not be modified.
func (r *Result) Productions() []Entry { return r.entries }

// Farthest returns the farthest term mismatch.
func (r *Result) Farthest() Mismatch { return r.far }

// Consumed returns the index of the first term the parse did not consume.
func (r *Result) Consumed() int { return r.consumed }

func (r *Result) Grammar() *grammar.Grammar { return r.g }

func (r *Result) Terms() *term.Stream { return r.terms }

// Diagnostic describes why a parse is not Ok.
type Diagnostic struct {
	Outcome  Outcome
	Position loc.Position
	// Begin and End are the source offsets of the offending term.
	Begin, End int
	Found      string
	Expected   []term.Term
	Production string
	Summary    string
	// Excerpt is the source line and a caret under Position.
	Excerpt string
}

// Diagnose explains a non-Ok outcome. For Ok it returns a Diagnostic with
// an empty Summary.
func (r *Result) Diagnose(lines *loc.Lines, source []byte) Diagnostic {
	d := Diagnostic{Outcome: r.outcome}
	if r.outcome == Ok {
		return d
	}
	if r.outcome == Undefined || r.terms == nil {
		d.Summary = "no parse attempted"
		return d
	}

	at := r.far.Pos
	if r.outcome == Unconsumed && at < r.consumed {
		at = r.consumed
	}
	if at < 0 {
		at = r.consumed
	}

	n := r.terms.Len()
	d.Begin = r.terms.Before(at)
	d.End = d.Begin
	if at < n {
		d.End = r.terms.After(at)
		d.Found = quote(source[d.Begin:d.End])
	} else {
		d.Found = "end of input"
	}
	if at == r.far.Pos {
		d.Expected = r.far.Expected.Terms()
		if r.far.Production != nil {
			d.Production = r.far.Production.Name()
		}
	}

	var sb strings.Builder
	if r.outcome == Unconsumed {
		fmt.Fprintf(&sb, "unconsumed input at %s", d.Found)
	} else {
		fmt.Fprintf(&sb, "stumbled on %s", d.Found)
		if d.Production != "" {
			fmt.Fprintf(&sb, " in %s", d.Production)
		}
	}
	if len(d.Expected) > 0 {
		fmt.Fprintf(&sb, ", expected %s", Describe(d.Expected))
	}
	d.Summary = sb.String()

	if lines != nil {
		d.Position = lines.Position(d.Begin)
		d.Excerpt = excerpt(lines, source, d.Position)
	}
	return d
}

// Message renders the diagnostic of a non-Ok outcome as a location, a
// summary and an excerpt. It returns "" for Ok.
func (r *Result) Message(lines *loc.Lines, source []byte) string {
	if r.outcome == Ok {
		return ""
	}
	d := r.Diagnose(lines, source)
	return d.Position.String() + ": " + d.Summary + "\n" + d.Excerpt
}

// Error is the error form of a Diagnostic.
type Error struct {
	Diagnostic
}

func (e *Error) Error() string {
	return e.Position.String() + ": " + e.Summary
}

// Err returns nil for Ok and an *Error otherwise.
func (r *Result) Err(lines *loc.Lines, source []byte) error {
	if r.outcome == Ok {
		return nil
	}
	return &Error{r.Diagnose(lines, source)}
}

// Describe lists terms for a reader: literal terms quoted, others by name.
func Describe(terms []term.Term) string {
	names := make([]string, len(terms))
	for i, t := range terms {
		switch t.Category() {
		case term.Keyword, term.Operator, term.Delimiter:
			names[i] = strconv.Quote(t.Symbol())
		default:
			names[i] = t.Symbol()
		}
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}

const maxFound = 24

func quote(text []byte) string {
	s := string(text)
	if len(s) > maxFound {
		s = s[:maxFound] + "..."
	}
	return strconv.Quote(s)
}

func excerpt(lines *loc.Lines, source []byte, p loc.Position) string {
	text := lines.Text(source, p.Line)
	prefix := text
	if p.Column-1 < len(text) {
		prefix = text[:p.Column-1]
	}
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, prefix)
	return text + "\n" + pad + "^"
}

// Tree returns the production stream as a peg.Node tree, one node per
// entry, each holding the source text it matched. It returns nil when the
// stream is empty.
func (r *Result) Tree(source []byte) *peg.Node {
	if len(r.entries) == 0 {
		return nil
	}
	root := &peg.Node{Name: r.target.Name()}
	r.appendKids(root, 0, len(r.entries), source)
	if len(root.Kids) == 1 && root.Kids[0].Name == root.Name {
		return root.Kids[0]
	}
	first, last := r.entries[0], r.entries[len(r.entries)-1]
	root.Text = r.text(first.Begin(), last.End(), source)
	return root
}

func (r *Result) appendKids(parent *peg.Node, from, to int, source []byte) {
	for i := from; i < to; i += r.entries[i].Len() {
		e := r.entries[i]
		n := &peg.Node{
			Name: r.g.Production(e.Production()).Name(),
			Text: r.text(e.Begin(), e.End(), source),
		}
		r.appendKids(n, i+1, i+e.Len(), source)
		parent.Kids = append(parent.Kids, n)
	}
}

func (r *Result) text(begin, end int, source []byte) string {
	if end <= begin {
		return ""
	}
	return string(source[r.terms.Before(begin):r.terms.After(end-1)])
}

// Fail returns the farthest mismatch as a peg.Fail tree: the production
// with one child per expected term. It returns nil for Ok.
func (r *Result) Fail() *peg.Fail {
	if r.outcome == Ok || r.terms == nil || r.far.Pos < 0 {
		return nil
	}
	pos := r.terms.Before(r.far.Pos)
	name := r.target.Name()
	if r.far.Production != nil {
		name = r.far.Production.Name()
	}
	fail := &peg.Fail{Name: name, Pos: pos}
	for _, t := range r.far.Expected.Terms() {
		fail.Kids = append(fail.Kids, &peg.Fail{Pos: pos, Want: Describe([]term.Term{t})})
	}
	return fail
}
