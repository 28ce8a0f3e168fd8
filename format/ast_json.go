package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/lingo/expr"
	"github.com/dhamidi/lingo/loc"
)

// ASTJSONEncoder writes expr syntax trees as indented JSON. Spans are
// reported as lines and columns when a line table is given.
type ASTJSONEncoder struct {
	w     io.Writer
	lines *loc.Lines
}

func NewASTJSONEncoder(w io.Writer, lines *loc.Lines) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, lines: lines}
}

func (e *ASTJSONEncoder) Encode(node expr.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(node expr.Node) ([]byte, error) {
	return json.MarshalIndent(e.nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind        string         `json:"kind"`
	Span        *astJSONSpan   `json:"span,omitempty"`
	Name        string         `json:"name,omitempty"`
	Term        string         `json:"term,omitempty"`
	Text        string         `json:"text,omitempty"`
	Op          string         `json:"op,omitempty"`
	Value       *bool          `json:"value,omitempty"`
	SelfClosing bool           `json:"selfClosing,omitempty"`
	Children    []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e *ASTJSONEncoder) nodeToJSON(n expr.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind: strings.TrimPrefix(fmt.Sprintf("%T", n), "*expr."),
	}

	if e.lines != nil {
		s := n.Bounds()
		start, end := e.lines.Position(s.Begin), e.lines.Position(s.End)
		jn.Span = &astJSONSpan{
			Start: astJSONPosition{Line: start.Line, Column: start.Column},
			End:   astJSONPosition{Line: end.Line, Column: end.Column},
		}
	}

	switch n := n.(type) {
	case *expr.Ident:
		if n.Name != nil {
			jn.Name = n.Name.String()
		}
	case *expr.Number:
		jn.Term = n.Kind.String()
		jn.Text = n.Text
	case *expr.Text:
		jn.Text = n.Text
	case *expr.Bool:
		v := n.Value
		jn.Value = &v
	case *expr.Unary:
		jn.Op = n.Op.Symbol()
	case *expr.Binary:
		jn.Op = n.Op.Symbol()
	case *expr.Element:
		jn.SelfClosing = n.SelfClosing
	}

	for _, child := range children(n) {
		jn.Children = append(jn.Children, e.nodeToJSON(child))
	}
	return jn
}

// children returns the direct children of n.
func children(n expr.Node) []expr.Node {
	var kids []expr.Node
	expr.Inspect(n, func(c expr.Node) bool {
		if c == n {
			return true
		}
		kids = append(kids, c)
		return false
	})
	return kids
}
