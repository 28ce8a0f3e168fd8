// Package parse runs compiled grammars against term streams.
//
// The engine interprets the bytecode of a grammar.Grammar with backtracking.
// Every alternative saves the term position, the length of the production
// stream and the last matched term, and restores them when it fails. A
// SURE instruction commits the alternative: a later failure in it poisons
// the parse and every enclosing level fails without trying anything else.
//
// The engine never fails on bad input. It returns a Result whose outcome
// tells whether the input matched, and which keeps the farthest position at
// which a term failed to match for diagnostics.
package parse

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dhamidi/lingo/grammar"
	"github.com/dhamidi/lingo/internal/logging"
	"github.com/dhamidi/lingo/term"
)

// Option configures a parse.
type Option func(*engine)

// WithLogger sets the logger that receives parse events.
func WithLogger(logger *log.Logger) Option {
	return func(e *engine) {
		e.log = logger
	}
}

// WithTrace logs every production attempt at debug level.
func WithTrace() Option {
	return func(e *engine) {
		e.trace = true
	}
}

type frame struct {
	prod *grammar.Production
	// part handed down to calls without their own part; only abstract and
	// ephemeral productions pass their part on.
	part int
}

type snapshot struct {
	pos, out, last int
}

type engine struct {
	g     *grammar.Grammar
	code  []int
	terms *term.Stream
	n     int

	pos      int
	last     int
	out      []Entry
	frames   []frame
	poisoned bool
	far      Mismatch

	log   *log.Logger
	trace bool
}

// Parse matches terms against target, or against the grammar's start
// production when target is nil. It panics if there is no such production.
func Parse(g *grammar.Grammar, terms *term.Stream, target *grammar.Production, opts ...Option) *Result {
	if target == nil {
		target = g.Start()
	}
	at := g.Offset(target)
	if at < 0 {
		panic("parse: target production is not part of the grammar")
	}

	e := &engine{
		g:     g,
		code:  g.Code(),
		terms: terms,
		n:     terms.Len(),
		last:  -1,
		out:   make([]Entry, 0, terms.Len()/2+1),
		far:   Mismatch{Pos: -1},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.trace && e.log == nil {
		e.log = logging.Default()
	}

	e.skip()
	matched := e.call(at, 0)

	r := &Result{
		g:        g,
		target:   target,
		terms:    terms,
		entries:  e.out,
		far:      e.far,
		consumed: e.pos,
	}
	switch {
	case !matched:
		r.outcome = Mismatched
		r.entries = nil
	case e.pos < e.n:
		r.outcome = Unconsumed
	default:
		r.outcome = Ok
	}
	if e.log != nil {
		e.log.Debug("parsed", logging.FieldProduction, target.Name(), logging.FieldOutcome, r.outcome,
			logging.FieldTerms, e.n, logging.FieldConsumed, e.pos, logging.FieldEntries, len(r.entries),
			logging.FieldFarthest, e.far.Pos)
	}
	return r
}

// call runs the production whose header is at offset at. part labels the
// entry of a real production, or is handed down by abstract and ephemeral
// ones.
func (e *engine) call(at, part int) bool {
	code := e.code
	op, id := code[at], code[at+1]
	p := e.g.Production(id)
	if e.trace {
		e.log.Debug("try", logging.FieldProduction, p.Name(), logging.FieldTerm, e.pos)
	}

	entry := -1
	switch op {
	case grammar.OpAssume, grammar.OpCapture:
		entry = len(e.out)
		e.out = append(e.out, Entry{})
		e.frames = append(e.frames, frame{prod: p})
	case grammar.OpAbstract, grammar.OpEphemeral:
		e.frames = append(e.frames, frame{prod: p, part: part})
	default:
		panic(fmt.Sprintf("parse: %s at %d is not a production header", grammar.OpName(op), at))
	}
	defer func() { e.frames = e.frames[:len(e.frames)-1] }()

	begin := e.pos
	for pc := at + 2; code[pc] == grammar.OpTryNext; pc = code[pc+1] {
		s := e.save()
		if e.sequence(pc + 2) {
			if entry >= 0 {
				e.out[entry] = makeEntry(id, part, len(e.out)-entry, begin, e.end(begin))
			}
			return true
		}
		e.restore(s)
		if e.poisoned {
			break
		}
	}
	if entry >= 0 {
		e.out = e.out[:entry]
	}
	return false
}

// sequence runs the elements of one alternative, starting at pc, up to its
// DONE.
func (e *engine) sequence(pc int) bool {
	code := e.code
	committed := false
	for {
		op := code[pc]
		ok := true
		switch op {
		case grammar.OpDone:
			return true
		case grammar.OpSure:
			committed = true
		case grammar.OpMatch, grammar.OpMatchSet, grammar.OpCall:
			ok = e.repeat(pc)
		case grammar.OpNot:
			ok = e.terms.Kind(e.pos) != term.Term(code[pc+1])
		case grammar.OpLast:
			ok = e.last >= 0 && e.terms.Kind(e.last) == term.Term(code[pc+1])
		default:
			panic(fmt.Sprintf("parse: unexpected %s at %d", grammar.OpName(op), pc))
		}
		if !ok {
			if committed && !e.poisoned {
				e.poisoned = true
				if e.log != nil {
					e.log.Debug("committed alternative failed", logging.FieldProduction, e.frames[len(e.frames)-1].prod.Name(), logging.FieldTerm, e.pos)
				}
			}
			return false
		}
		pc += 1 + grammar.Width(op)
	}
}

// repeat applies the quantifier of the element at pc.
func (e *engine) repeat(pc int) bool {
	q := grammar.Quant(e.code[pc+1])
	switch q {
	case grammar.ZeroOrOne:
		return e.once(pc) || !e.poisoned
	case grammar.ZeroOrMore, grammar.OneOrMore:
		for n := 0; ; n++ {
			at := e.pos
			if !e.once(pc) {
				if e.poisoned {
					return false
				}
				return n > 0 || q == grammar.ZeroOrMore
			}
			if e.pos == at {
				return true
			}
		}
	default:
		return e.once(pc)
	}
}

// once matches the element at pc a single time. A failed match leaves the
// engine state as it was.
func (e *engine) once(pc int) bool {
	code := e.code
	switch code[pc] {
	case grammar.OpMatch:
		t := term.Term(code[pc+2])
		if e.pos >= e.n || e.terms.Kind(e.pos) != t {
			e.mismatch(term.NewSet(t))
			return false
		}
	case grammar.OpMatchSet:
		set := e.g.Set(code[pc+2])
		if e.pos >= e.n || !set.Has(e.terms.Kind(e.pos)) {
			e.mismatch(set)
			return false
		}
	case grammar.OpCall:
		part := code[pc+2]
		if part == 0 {
			part = e.frames[len(e.frames)-1].part
		}
		return e.call(code[pc+3], part)
	}
	e.advance()
	return true
}

func (e *engine) advance() {
	e.last = e.pos
	e.pos++
	e.skip()
}

func (e *engine) skip() {
	for e.pos < e.n && e.g.Ignored(e.terms.Kind(e.pos)) {
		e.pos++
	}
}

// end returns the term index after the last term matched since begin.
func (e *engine) end(begin int) int {
	if e.last+1 > begin {
		return e.last + 1
	}
	return begin
}

func (e *engine) save() snapshot {
	return snapshot{pos: e.pos, out: len(e.out), last: e.last}
}

func (e *engine) restore(s snapshot) {
	e.pos = s.pos
	e.out = e.out[:s.out]
	e.last = s.last
}

// mismatch records a failed term match. The farthest position wins; failures
// at the same position add to the expected terms.
func (e *engine) mismatch(expected term.Set) {
	switch {
	case e.pos > e.far.Pos:
		e.far = Mismatch{Pos: e.pos, Expected: expected, Production: e.named()}
	case e.pos == e.far.Pos:
		e.far.Expected.Union(expected)
	}
}

// named returns the innermost production on the call stack that was declared
// by the grammar author.
func (e *engine) named() *grammar.Production {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if p := e.frames[i].prod; !p.Synthetic() {
			return p
		}
	}
	return nil
}
