package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/lingo/lex"
	"github.com/dhamidi/lingo/parse"
	"github.com/dhamidi/lingo/term"
)

// ProductionEncoder writes the production stream one entry per line,
// indented by depth: production, part, term range and matched text,
// separated by tabs.
type ProductionEncoder struct {
	w   io.Writer
	doc *lex.Document
	r   *parse.Result
}

func NewProductionEncoder(w io.Writer) *ProductionEncoder {
	return &ProductionEncoder{w: w}
}

func (e *ProductionEncoder) Encode(doc *lex.Document, r *parse.Result) error {
	e.doc, e.r = doc, r
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ProductionEncoder) MarshalText() ([]byte, error) {
	if e.r == nil {
		return nil, fmt.Errorf("format: no result to encode")
	}
	var sb strings.Builder
	g := e.r.Grammar()
	entries := e.r.Productions()

	// ends[d] is the index after the subtree open at depth d.
	var ends []int
	for i, entry := range entries {
		for len(ends) > 0 && i >= ends[len(ends)-1] {
			ends = ends[:len(ends)-1]
		}
		part := "-"
		if p := g.Part(entry.Part()); p != nil {
			part = p.Name()
		}
		text := ""
		if e.doc != nil {
			text = e.doc.Slice(entry.Begin(), entry.End())
		}
		fmt.Fprintf(&sb, "%s%s\t%s\t[%d,%d)\t%s\n",
			strings.Repeat("  ", len(ends)),
			g.Production(entry.Production()).Name(),
			part,
			entry.Begin(), entry.End(),
			strconv.Quote(text),
		)
		ends = append(ends, i+entry.Len())
	}
	return []byte(sb.String()), nil
}

// TermEncoder writes the term stream of a document one term per line:
// index, kind, source range and quoted text.
type TermEncoder struct {
	w   io.Writer
	doc *lex.Document
	// Trivia includes whitespace, newlines and comments.
	Trivia bool
}

func NewTermEncoder(w io.Writer) *TermEncoder {
	return &TermEncoder{w: w, Trivia: true}
}

func (e *TermEncoder) Encode(doc *lex.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TermEncoder) MarshalText() ([]byte, error) {
	if e.doc == nil {
		return nil, fmt.Errorf("format: no document to encode")
	}
	var sb strings.Builder
	terms := e.doc.Terms
	for i := 0; i < terms.Len(); i++ {
		kind := terms.Kind(i)
		if !e.Trivia && isTrivia(kind) {
			continue
		}
		fmt.Fprintf(&sb, "%d\t%s\t%d-%d\t%s\n",
			i, kind, terms.Before(i), terms.After(i), strconv.Quote(e.doc.Text(i)))
	}
	return []byte(sb.String()), nil
}

func isTrivia(kind term.Term) bool {
	switch kind {
	case term.Whitespace, term.Newline, term.Comment:
		return true
	}
	return false
}
