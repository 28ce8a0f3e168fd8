package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/eaburns/peggy/peg"
	"github.com/eaburns/pretty"

	"github.com/dhamidi/lingo/expr"
	"github.com/dhamidi/lingo/lex"
	"github.com/dhamidi/lingo/parse"
)

// TreeEncoder writes the production stream as a JSON tree of peg nodes.
type TreeEncoder struct {
	w   io.Writer
	doc *lex.Document
	r   *parse.Result
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(doc *lex.Document, r *parse.Result) error {
	e.doc, e.r = doc, r
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.r == nil || e.doc == nil {
		return nil, fmt.Errorf("format: no result to encode")
	}
	return json.MarshalIndent(e.r.Tree(e.doc.Source), "", "  ")
}

// WriteFail writes the farthest mismatch of r as an indented failure tree.
// It writes nothing for successful parses.
func WriteFail(w io.Writer, r *parse.Result) {
	if fail := r.Fail(); fail != nil {
		peg.PrettyWrite(w, fail)
	}
}

// PrettyEncoder dumps expr syntax trees with every field spelled out.
type PrettyEncoder struct {
	w io.Writer
}

func NewPrettyEncoder(w io.Writer) *PrettyEncoder {
	return &PrettyEncoder{w: w}
}

func (e *PrettyEncoder) Encode(node expr.Node) error {
	_, err := io.WriteString(e.w, pretty.String(node)+"\n")
	return err
}
