// Package grammar declares grammars and compiles them to bytecode for the
// parse engine.
//
// A grammar is described with a Builder: literals map spellings to term
// kinds, productions get bodies made of terms, references to other
// productions and quantified groups. Build checks the declarations, hoists
// inline groups into synthetic productions, emits one flat program and
// links every call to the offset of its target. The resulting Grammar is
// immutable and may be shared by any number of parses.
package grammar

import (
	"errors"
	"fmt"

	"github.com/dhamidi/lingo/term"
)

// Kind says what a production contributes to the production stream.
type Kind uint8

const (
	// Real productions record an entry and construct a node.
	Real Kind = iota
	// Abstract productions dispatch to one of their alternatives and hand the
	// caller's part down to it.
	Abstract
	// Ephemeral productions record nothing; entries made beneath them belong
	// to the enclosing real production.
	Ephemeral
	// Capture productions match one term and report its kind to the
	// enclosing node.
	Capture
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "real"
	case Abstract:
		return "abstract"
	case Ephemeral:
		return "ephemeral"
	case Capture:
		return "capture"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Extent describes the input matched by one production entry.
type Extent interface {
	// Terms returns the matched term indices [begin, end).
	Terms() (begin, end int)
	// Span returns the matched source offsets [begin, end).
	Span() (begin, end int)
	// Kind returns the kind of term i.
	Kind(i int) term.Term
	// Context returns the value passed to construction.
	Context() any
}

type (
	// Construct creates the node for a real production.
	Construct func(x Extent) any
	// TermFunc receives the term matched by a capture production, together
	// with the node of the enclosing real production.
	TermFunc func(node any, t term.Term)
	// FoldFunc replaces a node once all of its children are assigned.
	FoldFunc func(node any) any
	// PartFunc stores a child value into its parent.
	PartFunc func(parent, child any)
)

// Assign adapts a typed setter to a PartFunc. Values of other types are
// ignored, so a nil child leaves the parent untouched.
func Assign[P, C any](fn func(parent P, child C)) PartFunc {
	return func(parent, child any) {
		p, ok := parent.(P)
		if !ok {
			return
		}
		c, ok := child.(C)
		if !ok {
			return
		}
		fn(p, c)
	}
}

// Limits of the packed production stream entries.
const (
	MaxProductions = 1<<16 - 1
	MaxParts       = 1<<16 - 1
)

var (
	ErrUndeclaredLiteral  = errors.New("undeclared literal")
	ErrEmptyProduction    = errors.New("production has no body")
	ErrUnsupportedElement = errors.New("unsupported element")
	ErrCaptureShape       = errors.New("capture production must match exactly one term")
	ErrDuplicateName      = errors.New("duplicate name")
	ErrTooManyProductions = errors.New("too many productions")
	ErrTooManyParts       = errors.New("too many parts")
	ErrForeignProduction  = errors.New("production belongs to another builder")
	ErrBuilt              = errors.New("builder already produced a grammar")
)

// Production is a named rule. Handles are returned by the Builder and stay
// valid in the Grammar it builds.
type Production struct {
	b         *Builder
	id        int
	name      string
	kind      Kind
	synthetic bool
	construct Construct
	capture   TermFunc
	fold      FoldFunc

	pending [][]any
	body    [][]node
}

// ID returns the production id. Ids start at 1.
func (p *Production) ID() int { return p.id }

func (p *Production) Name() string { return p.name }

func (p *Production) Kind() Kind { return p.kind }

// Synthetic reports whether the production was hoisted from an inline group.
func (p *Production) Synthetic() bool { return p.synthetic }

func (p *Production) String() string { return p.name }

// Is appends one alternative made of the sequence elems.
func (p *Production) Is(elems ...any) *Production {
	p.pending = append(p.pending, elems)
	return p
}

// Or appends one alternative per element.
func (p *Production) Or(elems ...any) *Production {
	for _, e := range elems {
		p.pending = append(p.pending, []any{e})
	}
	return p
}

// Fold sets the function applied to the node after its children.
func (p *Production) Fold(fn FoldFunc) *Production {
	p.fold = fn
	return p
}

// As labels a reference to p, so that the constructed child is stored into
// the parent through part.
func (p *Production) As(part *Part) Element {
	return ref{prod: p, part: part}
}

// New creates the node for an entry of p. Productions without a Construct
// yield nil.
func (p *Production) New(x Extent) any {
	if p.construct == nil {
		return nil
	}
	return p.construct(x)
}

// Capture reports t to node when p is a capture production.
func (p *Production) Capture(node any, t term.Term) {
	if p.capture != nil {
		p.capture(node, t)
	}
}

// Complete applies the fold function, if any.
func (p *Production) Complete(node any) any {
	if p.fold == nil {
		return node
	}
	return p.fold(node)
}

// Part is a named slot of a parent node.
type Part struct {
	id     int
	name   string
	assign PartFunc
}

// ID returns the part id. Ids start at 1; 0 means no part.
func (p *Part) ID() int { return p.id }

func (p *Part) Name() string { return p.name }

// Assign stores child into parent.
func (p *Part) Assign(parent, child any) {
	if p.assign != nil {
		p.assign(parent, child)
	}
}

// Builder collects declarations for one grammar.
type Builder struct {
	literals map[string]term.Term
	spelling map[term.Term]string
	ignored  term.Set
	prods    []*Production
	parts    []*Part
	sets     []term.Set
	setIndex map[term.Set]int
	hoisted  map[string]*Production
	errs     []error
	// built is set by the first successful Build. Productions are shared
	// with the grammar from then on.
	built bool
}

func NewBuilder() *Builder {
	return &Builder{
		literals: make(map[string]term.Term),
		spelling: make(map[term.Term]string),
		setIndex: make(map[term.Set]int),
		hoisted:  make(map[string]*Production),
	}
}

// Term registers literal as a spelling of kind. The first literal registered
// for a kind is the one used when the grammar is printed.
func (b *Builder) Term(literal string, kind term.Term) *Builder {
	if prev, ok := b.literals[literal]; ok && prev != kind {
		b.errs = append(b.errs, fmt.Errorf("literal %q: %w: %s and %s", literal, ErrDuplicateName, prev, kind))
		return b
	}
	b.literals[literal] = kind
	if _, ok := b.spelling[kind]; !ok {
		b.spelling[kind] = literal
	}
	return b
}

// Ignore marks kinds that the engine skips after every matched term.
func (b *Builder) Ignore(kinds ...term.Term) *Builder {
	for _, k := range kinds {
		b.ignored.Add(k)
	}
	return b
}

// Production declares a real production.
func (b *Builder) Production(name string, fn Construct) *Production {
	p := b.declare(name, Real)
	p.construct = fn
	return p
}

// Alternatives declares an abstract production.
func (b *Builder) Alternatives(name string) *Production {
	return b.declare(name, Abstract)
}

// Ephemeral declares a production that records no entry of its own.
func (b *Builder) Ephemeral(name string) *Production {
	return b.declare(name, Ephemeral)
}

// TermCapture declares a production that matches one term and hands its
// kind to fn.
func (b *Builder) TermCapture(name string, fn TermFunc) *Production {
	p := b.declare(name, Capture)
	p.capture = fn
	return p
}

// Part declares a slot.
func (b *Builder) Part(name string, fn PartFunc) *Part {
	part := &Part{id: len(b.parts) + 1, name: name, assign: fn}
	b.parts = append(b.parts, part)
	return part
}

func (b *Builder) declare(name string, kind Kind) *Production {
	p := &Production{b: b, id: len(b.prods) + 1, name: name, kind: kind}
	b.prods = append(b.prods, p)
	return p
}

// Build compiles the declarations. The start productions become the roots
// reported by Grammar.Start and used for printing. A builder builds one
// grammar; later calls return ErrBuilt.
func (b *Builder) Build(start ...*Production) (*Grammar, error) {
	if b.built {
		return nil, ErrBuilt
	}
	errs := append([]error(nil), b.errs...)

	seen := make(map[string]bool)
	for _, p := range b.prods {
		if seen[p.name] {
			errs = append(errs, fmt.Errorf("production %s: %w", p.name, ErrDuplicateName))
		}
		seen[p.name] = true
	}
	for _, p := range start {
		if p.b != b {
			errs = append(errs, fmt.Errorf("start %s: %w", p.name, ErrForeignProduction))
		}
	}

	declared := len(b.prods)
	for _, p := range b.prods[:declared] {
		if p.synthetic {
			continue
		}
		if len(p.pending) == 0 {
			errs = append(errs, fmt.Errorf("production %s: %w", p.name, ErrEmptyProduction))
			continue
		}
		p.body = p.body[:0]
		for _, alt := range p.pending {
			seq, err := b.sequence(p, alt)
			if err != nil {
				errs = append(errs, fmt.Errorf("production %s: %w", p.name, err))
				continue
			}
			p.body = append(p.body, seq)
		}
		if p.kind == Capture {
			if err := checkCapture(p); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(b.prods) > MaxProductions {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrTooManyProductions, len(b.prods), MaxProductions))
	}
	if len(b.parts) > MaxParts {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrTooManyParts, len(b.parts), MaxParts))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	g := &Grammar{
		prods:    b.prods,
		parts:    b.parts,
		sets:     b.sets,
		ignored:  b.ignored,
		literals: b.literals,
		spelling: b.spelling,
		start:    start,
		byName:   make(map[string]*Production, len(b.prods)),
	}
	for _, p := range b.prods {
		g.byName[p.name] = p
	}
	g.code, g.offsets = emit(b.prods)
	link(g.code, g.offsets)
	b.built = true
	return g, nil
}

// MustBuild is Build for grammars declared at init time.
func (b *Builder) MustBuild(start ...*Production) *Grammar {
	g, err := b.Build(start...)
	if err != nil {
		panic(fmt.Sprintf("grammar: %v", err))
	}
	return g
}

func checkCapture(p *Production) error {
	for _, alt := range p.body {
		if len(alt) != 1 || alt[0].quant != ExactlyOne || (alt[0].op != OpMatch && alt[0].op != OpMatchSet) {
			return fmt.Errorf("production %s: %w", p.name, ErrCaptureShape)
		}
	}
	return nil
}

// Grammar is a compiled, immutable grammar.
type Grammar struct {
	code     []int
	offsets  []int
	prods    []*Production
	parts    []*Part
	sets     []term.Set
	ignored  term.Set
	literals map[string]term.Term
	spelling map[term.Term]string
	start    []*Production
	byName   map[string]*Production
}

// Code returns the linked program. It must not be modified.
func (g *Grammar) Code() []int { return g.code }

// Offset returns the offset of the header of p in the program, or -1 when
// p is not part of g.
func (g *Grammar) Offset(p *Production) int {
	if p == nil || g.Production(p.id) != p {
		return -1
	}
	return g.offsets[p.id-1]
}

// Production returns the production with the given id, or nil.
func (g *Grammar) Production(id int) *Production {
	if id < 1 || id > len(g.prods) {
		return nil
	}
	return g.prods[id-1]
}

// Lookup returns the production declared as name, or nil.
func (g *Grammar) Lookup(name string) *Production {
	return g.byName[name]
}

// Part returns the part with the given id, or nil for 0 and unknown ids.
func (g *Grammar) Part(id int) *Part {
	if id < 1 || id > len(g.parts) {
		return nil
	}
	return g.parts[id-1]
}

// Ignored reports whether the engine skips terms of kind t.
func (g *Grammar) Ignored(t term.Term) bool {
	return g.ignored.Has(t)
}

// Set returns term set i referenced by MATCH_SET instructions.
func (g *Grammar) Set(i int) term.Set {
	return g.sets[i]
}

// Productions returns all productions in id order, synthetic ones included.
func (g *Grammar) Productions() []*Production {
	return append([]*Production(nil), g.prods...)
}

// Start returns the first start production passed to Build, or nil.
func (g *Grammar) Start() *Production {
	if len(g.start) == 0 {
		return nil
	}
	return g.start[0]
}

// Literal returns the kind spelled literal.
func (g *Grammar) Literal(literal string) (term.Term, bool) {
	t, ok := g.literals[literal]
	return t, ok
}
