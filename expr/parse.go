package expr

import (
	"fmt"

	"github.com/dhamidi/lingo/grammar"
	"github.com/dhamidi/lingo/lex"
	"github.com/dhamidi/lingo/name"
	"github.com/dhamidi/lingo/parse"
)

// SyntaxError reports source that is not a valid document.
type SyntaxError struct {
	parse.Diagnostic
	// Message is the full report: location, summary and excerpt.
	Message string
}

func (e *SyntaxError) Error() string {
	return e.Position.String() + ": " + e.Summary
}

// Parse scans and parses a document. Names are interned into pool; a nil
// pool gets a fresh one. Errors are of type *SyntaxError.
func Parse(src []byte, pool *name.Pool, opts ...parse.Option) (*Document, error) {
	doc := lex.Scan(src, pool)
	v, err := run(doc, lang.document, opts)
	if err != nil {
		return nil, err
	}
	d := v.(*Document)
	if err := CheckTags(doc, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseExpr parses src as a single expression.
func ParseExpr(src []byte, pool *name.Pool, opts ...parse.Option) (Expr, error) {
	doc := lex.Scan(src, pool)
	v, err := run(doc, lang.expr, opts)
	if err != nil {
		return nil, err
	}
	x := v.(Expr)
	if err := CheckTags(doc, x); err != nil {
		return nil, err
	}
	return x, nil
}

// ParseResult parses a scanned document and returns the raw result, for
// tools that want the production stream.
func ParseResult(doc *lex.Document, opts ...parse.Option) *parse.Result {
	return parse.Parse(lang.g, doc.Terms, lang.document, opts...)
}

func run(doc *lex.Document, target *grammar.Production, opts []parse.Option) (any, error) {
	r := parse.Parse(lang.g, doc.Terms, target, opts...)
	if !r.OK() {
		return nil, &SyntaxError{
			Diagnostic: r.Diagnose(doc.Lines, doc.Source),
			Message:    r.Message(doc.Lines, doc.Source),
		}
	}
	return r.Construct(doc), nil
}

// CheckTags reports the first element whose closing tag does not repeat its
// opening tag.
func CheckTags(doc *lex.Document, root Node) error {
	var bad *Element
	Inspect(root, func(n Node) bool {
		if bad != nil {
			return false
		}
		if e, ok := n.(*Element); ok && e.Close != nil && e.Tag != nil && !e.Close.Name.Equal(e.Tag.Name) {
			bad = e
		}
		return true
	})
	if bad == nil {
		return nil
	}

	d := parse.Diagnostic{
		Outcome:  parse.Ok,
		Position: doc.Lines.Position(bad.Close.Begin),
		Begin:    bad.Close.Begin,
		End:      bad.Close.End,
		Found:    fmt.Sprintf("%q", bad.Close.Name),
		Summary:  fmt.Sprintf("closing tag </%s> does not match <%s>", bad.Close.Name, bad.Tag.Name),
	}
	line := doc.Lines.Text(doc.Source, d.Position.Line)
	d.Excerpt = line + "\n" + caret(line, d.Position.Column)
	return &SyntaxError{
		Diagnostic: d,
		Message:    d.Position.String() + ": " + d.Summary + "\n" + d.Excerpt,
	}
}

func caret(line string, column int) string {
	pad := make([]byte, 0, column)
	for i := 0; i < column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	return string(pad) + "^"
}
