package lsp

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/lingo/expr"
	"github.com/dhamidi/lingo/loc"
)

// Analysis is what the server knows about one open document.
type Analysis struct {
	// Document is nil when the source did not parse.
	Document    *expr.Document
	Diagnostics []protocol.Diagnostic
	src         []byte
	lines       *loc.Lines
}

var source = lsName

// Analyze parses src. Columns in ranges count UTF-16 code units, as the
// protocol does by default.
func Analyze(src []byte) *Analysis {
	a := &Analysis{
		src:         src,
		lines:       loc.NewLines(src),
		Diagnostics: []protocol.Diagnostic{},
	}
	doc, err := expr.Parse(src, nil)
	if err == nil {
		a.Document = doc
		return a
	}

	severity := protocol.DiagnosticSeverityError
	diag := protocol.Diagnostic{
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}
	var serr *expr.SyntaxError
	if errors.As(err, &serr) {
		diag.Range = a.span(serr.Begin, serr.End)
		diag.Message = serr.Summary
	}
	a.Diagnostics = append(a.Diagnostics, diag)
	return a
}

// Symbols lists the let declarations of the document.
func (a *Analysis) Symbols() []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	if a.Document == nil {
		return symbols
	}
	for _, s := range a.Document.Statements {
		let, ok := s.(*expr.Let)
		if !ok || let.Name == nil || let.Name.Name == nil {
			continue
		}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           let.Name.Name.String(),
			Kind:           protocol.SymbolKindVariable,
			Range:          a.span(let.Begin, let.End),
			SelectionRange: a.span(let.Name.Begin, let.Name.End),
		})
	}
	return symbols
}

var keywords = []string{"let", "true", "false", "null"}

// Completions offers the declared names followed by the keywords that
// start a statement or an operand.
func (a *Analysis) Completions() []protocol.CompletionItem {
	var items []protocol.CompletionItem
	seen := make(map[string]bool)
	for _, sym := range a.Symbols() {
		if seen[sym.Name] {
			continue
		}
		seen[sym.Name] = true
		kind := protocol.CompletionItemKindVariable
		items = append(items, protocol.CompletionItem{Label: sym.Name, Kind: &kind})
	}
	for _, kw := range keywords {
		kind := protocol.CompletionItemKindKeyword
		items = append(items, protocol.CompletionItem{Label: kw, Kind: &kind})
	}
	return items
}

func (a *Analysis) span(begin, end int) protocol.Range {
	return protocol.Range{
		Start: a.position(begin),
		End:   a.position(end),
	}
}

func (a *Analysis) position(offset int) protocol.Position {
	p := a.lines.Position(offset)
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(utf16Len(a.src[p.Offset-(p.Column-1) : p.Offset])),
	}
}

func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		n += utf16.RuneLen(r)
		b = b[size:]
	}
	return n
}
