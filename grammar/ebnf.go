package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/lingo/term"
)

var ErrNoStart = errors.New("no start production")

// WriteEBNF prints the declared productions in the EBNF dialect of
// golang.org/x/exp/ebnf, starting with start. Hoisted groups are printed
// inline, zero-width elements are left out and terms without a literal
// become lexical productions named after their kind.
func (g *Grammar) WriteEBNF(w io.Writer, start *Production) error {
	if start == nil {
		start = g.Start()
	}
	p := &ebnfPrinter{g: g, lexical: make(map[term.Term]bool)}

	var order []*Production
	if start != nil {
		order = append(order, start)
	}
	for _, prod := range g.prods {
		if prod.synthetic || prod == start {
			continue
		}
		order = append(order, prod)
	}

	var buf bytes.Buffer
	for _, prod := range order {
		fmt.Fprintf(&buf, "%s = %s.\n", ebnfName(prod.name), p.alternatives(prod.body))
	}
	for _, t := range term.All() {
		if p.lexical[t] {
			fmt.Fprintf(&buf, "%s = %s .\n", lexicalName(t), strconv.Quote(t.Symbol()))
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Verify prints the grammar and checks the result with ebnf.Verify, which
// reports undefined productions and productions not reachable from start.
func (g *Grammar) Verify(start *Production) error {
	if start == nil {
		start = g.Start()
	}
	if start == nil {
		return ErrNoStart
	}
	var buf bytes.Buffer
	if err := g.WriteEBNF(&buf, start); err != nil {
		return err
	}
	parsed, err := ebnf.Parse(start.name+".ebnf", &buf)
	if err != nil {
		return fmt.Errorf("parse ebnf: %w", err)
	}
	if err := ebnf.Verify(parsed, ebnfName(start.name)); err != nil {
		return fmt.Errorf("verify %s: %w", start.name, err)
	}
	return nil
}

type ebnfPrinter struct {
	g       *Grammar
	lexical map[term.Term]bool
}

// alternatives renders a production body. Empty alternatives cannot be
// written in this dialect, so they turn the rest into an option.
func (p *ebnfPrinter) alternatives(body [][]node) string {
	var alts []string
	empty := false
	for _, alt := range body {
		s := p.sequence(alt)
		if s == "" {
			empty = true
			continue
		}
		alts = append(alts, s)
	}
	switch {
	case len(alts) == 0:
		return ""
	case empty:
		return "[ " + strings.Join(alts, " | ") + " ] "
	default:
		return strings.Join(alts, " | ") + " "
	}
}

func (p *ebnfPrinter) sequence(seq []node) string {
	var parts []string
	for _, n := range seq {
		if s := p.element(n); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (p *ebnfPrinter) element(n node) string {
	switch n.op {
	case OpMatch:
		return quantified(p.term(n.t), n.quant, false)
	case OpMatchSet:
		terms := p.g.sets[n.set].Terms()
		names := make([]string, len(terms))
		for i, t := range terms {
			names[i] = p.term(t)
		}
		return quantified(strings.Join(names, " | "), n.quant, len(names) > 1)
	case OpCall:
		if !n.prod.synthetic {
			return quantified(ebnfName(n.prod.name), n.quant, false)
		}
		inner := p.alternatives(n.prod.body)
		if inner == "" {
			return ""
		}
		inner = strings.TrimSpace(inner)
		return quantified(inner, n.quant, strings.Contains(inner, " "))
	}
	return ""
}

func (p *ebnfPrinter) term(t term.Term) string {
	if lit, ok := p.g.spelling[t]; ok {
		return strconv.Quote(lit)
	}
	p.lexical[t] = true
	return lexicalName(t)
}

func quantified(s string, q Quant, compound bool) string {
	switch q {
	case ZeroOrOne:
		return "[ " + s + " ]"
	case ZeroOrMore:
		return "{ " + s + " }"
	case OneOrMore:
		if compound {
			return "( " + s + " ) { " + s + " }"
		}
		return s + " { " + s + " }"
	default:
		if compound {
			return "( " + s + " )"
		}
		return s
	}
}

// ebnfName returns an exported production name, which x/exp/ebnf treats as
// non-lexical.
func ebnfName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return name
	}
	if unicode.IsLetter(r) {
		return string(unicode.ToUpper(r)) + name[size:]
	}
	return "P" + strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)
}

func lexicalName(t term.Term) string {
	s := t.String()
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
