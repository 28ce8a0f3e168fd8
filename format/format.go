// Package format renders scanned documents, production streams and syntax
// trees for the command line tools.
package format

import (
	"encoding"

	"github.com/dhamidi/lingo/lex"
	"github.com/dhamidi/lingo/parse"
)

// ResultEncoder writes the production stream of a parse of doc. It is
// implemented by ProductionEncoder and TreeEncoder; the term and syntax tree
// encoders take their input directly.
type ResultEncoder interface {
	encoding.TextMarshaler
	Encode(doc *lex.Document, r *parse.Result) error
}
