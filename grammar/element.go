package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/lingo/term"
)

// Quant is the repetition of an element.
type Quant uint8

const (
	ExactlyOne Quant = iota
	ZeroOrOne
	ZeroOrMore
	OneOrMore
)

func (q Quant) String() string {
	switch q {
	case ExactlyOne:
		return "one"
	case ZeroOrOne:
		return "opt"
	case ZeroOrMore:
		return "any"
	case OneOrMore:
		return "more"
	default:
		return "Quant(" + strconv.Itoa(int(q)) + ")"
	}
}

// Element is a body element other than a plain literal, term or production.
type Element interface {
	element()
}

type group struct {
	quant Quant
	elems []any
}

type oneOf struct{ terms []any }

type notTerm struct{ t any }

type lastTerm struct{ t any }

type sure struct{}

type ref struct {
	prod *Production
	part *Part
}

func (group) element()    {}
func (oneOf) element()    {}
func (notTerm) element()  {}
func (lastTerm) element() {}
func (sure) element()     {}
func (ref) element()      {}

// Opt matches the sequence elems zero or one time.
func Opt(elems ...any) Element { return group{ZeroOrOne, elems} }

// Any matches the sequence elems zero or more times.
func Any(elems ...any) Element { return group{ZeroOrMore, elems} }

// More matches the sequence elems one or more times.
func More(elems ...any) Element { return group{OneOrMore, elems} }

// One matches the sequence elems exactly once.
func One(elems ...any) Element { return group{ExactlyOne, elems} }

// OneOf matches one term out of terms, given as literals or kinds.
func OneOf(terms ...any) Element { return oneOf{terms} }

// Not succeeds without consuming anything when the next term is not t.
func Not(t any) Element { return notTerm{t} }

// Last succeeds without consuming anything when the last matched term is t.
func Last(t any) Element { return lastTerm{t} }

// Sure commits the current alternative: once it is passed, a failure of the
// rest of the alternative fails the whole parse.
func Sure() Element { return sure{} }

// node is a resolved element, ready to be emitted as one instruction.
type node struct {
	op    int
	quant Quant
	t     term.Term
	set   int
	part  *Part
	prod  *Production
}

func (n node) quantifiable() bool {
	return n.op == OpMatch || n.op == OpMatchSet || n.op == OpCall
}

// signature identifies the shape of n for deduplicating hoisted groups.
func (n node) signature() string {
	switch n.op {
	case OpMatch:
		return fmt.Sprintf("m%d:%d", n.quant, n.t)
	case OpMatchSet:
		return fmt.Sprintf("s%d:%d", n.quant, n.set)
	case OpNot:
		return fmt.Sprintf("n%d", n.t)
	case OpLast:
		return fmt.Sprintf("l%d", n.t)
	case OpSure:
		return "!"
	case OpCall:
		part := 0
		if n.part != nil {
			part = n.part.id
		}
		return fmt.Sprintf("c%d:%d:%d", n.quant, part, n.prod.id)
	}
	return "?"
}

func (b *Builder) sequence(owner *Production, elems []any) ([]node, error) {
	seq := make([]node, 0, len(elems))
	for _, e := range elems {
		n, err := b.resolve(owner, e)
		if err != nil {
			return nil, err
		}
		seq = append(seq, n)
	}
	return seq, nil
}

func (b *Builder) resolve(owner *Production, e any) (node, error) {
	switch v := e.(type) {
	case string, term.Term:
		t, err := b.term(v)
		if err != nil {
			return node{}, err
		}
		return node{op: OpMatch, t: t}, nil
	case *Production:
		return b.call(v, nil)
	case ref:
		return b.call(v.prod, v.part)
	case oneOf:
		var set term.Set
		for _, x := range v.terms {
			t, err := b.term(x)
			if err != nil {
				return node{}, err
			}
			set.Add(t)
		}
		return node{op: OpMatchSet, set: b.set(set)}, nil
	case notTerm:
		t, err := b.term(v.t)
		if err != nil {
			return node{}, err
		}
		return node{op: OpNot, t: t}, nil
	case lastTerm:
		t, err := b.term(v.t)
		if err != nil {
			return node{}, err
		}
		return node{op: OpLast, t: t}, nil
	case sure:
		return node{op: OpSure}, nil
	case group:
		if len(v.elems) == 0 {
			return node{}, fmt.Errorf("%w: empty group", ErrUnsupportedElement)
		}
		seq, err := b.sequence(owner, v.elems)
		if err != nil {
			return node{}, err
		}
		return b.quantify(owner, seq, v.quant), nil
	default:
		return node{}, fmt.Errorf("%w: %T", ErrUnsupportedElement, e)
	}
}

func (b *Builder) term(e any) (term.Term, error) {
	switch v := e.(type) {
	case string:
		t, ok := b.literals[v]
		if !ok {
			return 0, fmt.Errorf("%w %q", ErrUndeclaredLiteral, v)
		}
		return t, nil
	case term.Term:
		if !v.Valid() {
			return 0, fmt.Errorf("%w: term %d", ErrUnsupportedElement, v)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%w: %T is not a term", ErrUnsupportedElement, e)
	}
}

func (b *Builder) call(p *Production, part *Part) (node, error) {
	if p == nil {
		return node{}, fmt.Errorf("%w: nil production", ErrUnsupportedElement)
	}
	if p.b != b {
		return node{}, fmt.Errorf("%s: %w", p.name, ErrForeignProduction)
	}
	return node{op: OpCall, prod: p, part: part}, nil
}

func (b *Builder) set(s term.Set) int {
	if i, ok := b.setIndex[s]; ok {
		return i
	}
	b.sets = append(b.sets, s)
	b.setIndex[s] = len(b.sets) - 1
	return len(b.sets) - 1
}

// quantify applies q to the sequence seq. A single term match or call takes
// the quantifier directly; anything else becomes a call to a synthetic
// production.
func (b *Builder) quantify(owner *Production, seq []node, q Quant) node {
	if len(seq) == 1 && seq[0].quantifiable() {
		n := seq[0]
		if n.quant == ExactlyOne {
			n.quant = q
			return n
		}
		if q == ExactlyOne {
			return n
		}
	}
	return node{op: OpCall, quant: q, prod: b.hoist(owner, seq)}
}

// hoist returns the synthetic ephemeral production whose single alternative
// is seq, declaring it on first use.
func (b *Builder) hoist(owner *Production, seq []node) *Production {
	sigs := make([]string, len(seq))
	for i, n := range seq {
		sigs[i] = n.signature()
	}
	key := strings.Join(sigs, " ")
	if p, ok := b.hoisted[key]; ok {
		return p
	}
	p := b.declare(fmt.Sprintf("%s#%d", owner.name, len(b.hoisted)+1), Ephemeral)
	p.synthetic = true
	p.body = [][]node{seq}
	b.hoisted[key] = p
	return p
}
