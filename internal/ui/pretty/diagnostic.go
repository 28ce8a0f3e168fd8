package pretty

import (
	"fmt"
	"strings"

	"github.com/dhamidi/lingo/loc"
	"github.com/dhamidi/lingo/parse"
)

// indent aligns source context under the location line.
const indent = "    "

// FormatDiagnostic renders a parse diagnostic: location, summary and the
// offending source line with a caret. Source lines longer than width are
// cut around the caret; width <= 0 disables cutting.
func (s *Styles) FormatDiagnostic(path string, d parse.Diagnostic, line string, width int) string {
	var b strings.Builder

	location := s.Location.Render(d.Position.String())
	if path != "" {
		location = s.FilePath.Render(path) + ":" + location
	}
	fmt.Fprintf(&b, "%s  %s  %s\n", location, s.Error.Render("error"), s.Message.Render(d.Summary))

	if line != "" {
		b.WriteString(s.FormatSourceContext(line, d.Position.Column, width))
	}
	if d.Production != "" {
		b.WriteString(indent + s.Dim.Render("in") + " " + s.Production.Render(d.Production) + "\n")
	}
	return b.String()
}

// FormatSourceContext renders line and a caret under column.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	line, column = clip(line, column, width-len(indent))

	var b strings.Builder
	b.WriteString(indent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		pad := strings.Map(func(r rune) rune {
			if r == '\t' {
				return r
			}
			return ' '
		}, line[:min(column-1, len(line))])
		b.WriteString(indent + pad + s.Caret.Render("^") + "\n")
	}
	return b.String()
}

// FormatSuccess renders the line printed for a file that parsed.
func (s *Styles) FormatSuccess(path string, statements int) string {
	return s.FilePath.Render(path) + "  " + s.Success.Render("ok") +
		s.Dim.Render(fmt.Sprintf(" (%d statements)", statements))
}

// SourceLine returns the line of src that d points into.
func SourceLine(lines *loc.Lines, src []byte, d parse.Diagnostic) string {
	if lines == nil || d.Position.Line == 0 {
		return ""
	}
	return lines.Text(src, d.Position.Line)
}

// clip keeps at most width bytes of line around column, marking cut ends
// with "...". It returns the new column.
func clip(line string, column, width int) (string, int) {
	const ellipsis = "..."
	if width <= 2*len(ellipsis) || len(line) <= width {
		return line, column
	}
	keep := width - 2*len(ellipsis)
	start := column - 1 - keep/2
	if start < 0 {
		start = 0
	}
	end := start + keep
	if end > len(line) {
		end = len(line)
		start = max(0, end-keep)
	}
	out := line[start:end]
	column -= start
	if start > 0 {
		out = ellipsis + out
		column += len(ellipsis)
	}
	if end < len(line) {
		out += ellipsis
	}
	return out, column
}
