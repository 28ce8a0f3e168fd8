package parse

import (
	"github.com/dhamidi/lingo/grammar"
	"github.com/dhamidi/lingo/term"
)

// Construct builds the value of the parse by walking the production stream.
// Every real entry calls its production's Construct, then its children are
// built and stored through their parts, then the production's Fold is
// applied. Capture entries report their term to the node of the enclosing
// entry. ctx is available to the callbacks through Extent.Context.
//
// Construct returns the value of the first top-level entry. It panics
// unless the outcome is Ok.
func (r *Result) Construct(ctx any) any {
	if r.outcome != Ok {
		panic("parse: Construct called on a " + r.outcome.String() + " result")
	}
	b := &builder{r: r, ctx: ctx}
	var value any
	for i := 0; i < len(r.entries); i += r.entries[i].Len() {
		v := b.entry(i, nil)
		if i == 0 {
			value = v
		}
	}
	return value
}

type builder struct {
	r   *Result
	ctx any
}

// entry builds entry i. parent receives the term of capture entries.
func (b *builder) entry(i int, parent any) any {
	e := b.r.entries[i]
	p := b.r.g.Production(e.Production())
	if p.Kind() == grammar.Capture {
		p.Capture(parent, b.r.terms.Kind(e.Begin()))
		return nil
	}

	node := p.New(extent{b: b, e: e})
	for j := i + 1; j < i+e.Len(); j += b.r.entries[j].Len() {
		child := b.r.entries[j]
		value := b.entry(j, node)
		if part := b.r.g.Part(child.Part()); part != nil && !b.isCapture(child) {
			part.Assign(node, value)
		}
	}
	return p.Complete(node)
}

func (b *builder) isCapture(e Entry) bool {
	return b.r.g.Production(e.Production()).Kind() == grammar.Capture
}

type extent struct {
	b *builder
	e Entry
}

func (x extent) Terms() (begin, end int) {
	return x.e.Begin(), x.e.End()
}

func (x extent) Span() (begin, end int) {
	terms := x.b.r.terms
	begin = terms.Before(x.e.Begin())
	if x.e.End() <= x.e.Begin() {
		return begin, begin
	}
	return begin, terms.After(x.e.End() - 1)
}

func (x extent) Kind(i int) term.Term {
	return x.b.r.terms.Kind(i)
}

func (x extent) Context() any {
	return x.b.ctx
}
