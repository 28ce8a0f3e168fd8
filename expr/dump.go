package expr

import "strings"

// Dump renders n with every binary and unary expression parenthesized.
// Statements of a document are put on lines of their own.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

func dump(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *Document:
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteByte('\n')
			}
			dump(sb, s)
		}
	case *Let:
		sb.WriteString("let ")
		dumpIdent(sb, n.Name)
		sb.WriteString(" = ")
		dumpExpr(sb, n.Value)
		sb.WriteByte(';')
	case *ExprStmt:
		dumpExpr(sb, n.X)
		sb.WriteByte(';')
	case *Ident:
		dumpIdent(sb, n)
	case *Ref:
		dumpIdent(sb, n.Name)
	case *Call:
		dumpIdent(sb, n.Func)
		sb.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			dumpExpr(sb, a)
		}
		sb.WriteByte(')')
	case *Number:
		sb.WriteString(n.Text)
	case *String:
		sb.WriteByte('"')
		for _, s := range n.Segments {
			dump(sb, s)
		}
		sb.WriteByte('"')
	case *Text:
		sb.WriteString(n.Text)
	case *Hole:
		sb.WriteByte('{')
		dumpExpr(sb, n.X)
		sb.WriteByte('}')
	case *Bool:
		if n.Value {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case *Null:
		sb.WriteString("null")
	case *Unary:
		sb.WriteByte('(')
		sb.WriteString(n.Op.Symbol())
		dumpExpr(sb, n.X)
		sb.WriteByte(')')
	case *Binary:
		sb.WriteByte('(')
		dumpExpr(sb, n.X)
		sb.WriteString(" " + n.Op.Symbol() + " ")
		dumpExpr(sb, n.Y)
		sb.WriteByte(')')
	case *Element:
		sb.WriteByte('<')
		dumpIdent(sb, n.Tag)
		for _, a := range n.Attributes {
			sb.WriteByte(' ')
			dump(sb, a)
		}
		if n.SelfClosing {
			sb.WriteString("/>")
			return
		}
		sb.WriteByte('>')
		for _, c := range n.Content {
			dump(sb, c)
		}
		sb.WriteString("</")
		dumpIdent(sb, n.Close)
		sb.WriteByte('>')
	case *Attribute:
		dumpIdent(sb, n.Name)
		sb.WriteByte('=')
		dumpExpr(sb, n.Value)
	}
}

func dumpIdent(sb *strings.Builder, id *Ident) {
	if id == nil || id.Name == nil {
		sb.WriteString("<nil>")
		return
	}
	sb.WriteString(id.Name.String())
}

func dumpExpr(sb *strings.Builder, x Expr) {
	if x == nil {
		sb.WriteString("<nil>")
		return
	}
	dump(sb, x)
}
