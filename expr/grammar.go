package expr

import (
	"github.com/dhamidi/lingo/grammar"
	"github.com/dhamidi/lingo/lex"
	"github.com/dhamidi/lingo/term"
)

// language holds the compiled grammar and the productions callers may
// target.
type language struct {
	g        *grammar.Grammar
	document *grammar.Production
	expr     *grammar.Production
}

var lang = build()

// Grammar returns the compiled grammar of the language. Its start
// production is Document.
func Grammar() *grammar.Grammar {
	return lang.g
}

func span(x grammar.Extent) Span {
	begin, end := x.Span()
	return Span{Begin: begin, End: end}
}

func source(x grammar.Extent) *lex.Document {
	doc, _ := x.Context().(*lex.Document)
	return doc
}

func build() *language {
	b := grammar.NewBuilder()
	for _, t := range term.All() {
		switch t.Category() {
		case term.Keyword, term.Operator, term.Delimiter:
			b.Term(t.Symbol(), t)
		}
	}
	b.Ignore(term.Whitespace, term.Newline, term.Comment)

	var (
		statementPart = b.Part("statement", grammar.Assign(func(d *Document, s Statement) {
			d.Statements = append(d.Statements, s)
		}))
		letName = b.Part("letName", grammar.Assign(func(l *Let, id *Ident) {
			l.Name = id
		}))
		letValue = b.Part("letValue", grammar.Assign(func(l *Let, x Expr) {
			l.Value = x
		}))
		stmtExpr = b.Part("stmtExpr", grammar.Assign(func(s *ExprStmt, x Expr) {
			s.X = x
		}))
		operandPart = b.Part("operand", grammar.Assign(func(c *chain, x Expr) {
			c.operands = append(c.operands, x)
		}))
		callee = b.Part("callee", grammar.Assign(func(c *Call, id *Ident) {
			c.Func = id
		}))
		argument = b.Part("argument", grammar.Assign(func(c *Call, x Expr) {
			c.Args = append(c.Args, x)
		}))
		refName = b.Part("refName", grammar.Assign(func(r *Ref, id *Ident) {
			r.Name = id
		}))
		segmentPart = b.Part("segment", grammar.Assign(func(s *String, seg Segment) {
			s.Segments = append(s.Segments, seg)
		}))
		holeExpr = b.Part("holeExpr", grammar.Assign(func(h *Hole, x Expr) {
			h.X = x
		}))
		inner = b.Part("inner", grammar.Assign(func(g *group, x Expr) {
			g.x = x
		}))
		unaryOperand = b.Part("unaryOperand", grammar.Assign(func(u *Unary, x Expr) {
			u.X = x
		}))
		tag = b.Part("tag", grammar.Assign(func(e *Element, id *Ident) {
			e.Tag = id
		}))
		closeTag = b.Part("closeTag", grammar.Assign(func(e *Element, id *Ident) {
			e.Close = id
		}))
		attributePart = b.Part("attribute", grammar.Assign(func(e *Element, a *Attribute) {
			e.Attributes = append(e.Attributes, a)
		}))
		contentPart = b.Part("content", grammar.Assign(func(e *Element, c Content) {
			e.Content = append(e.Content, c)
		}))
		attrName = b.Part("attrName", grammar.Assign(func(a *Attribute, id *Ident) {
			a.Name = id
		}))
		attrValuePart = b.Part("attrValue", grammar.Assign(func(a *Attribute, x Expr) {
			a.Value = x
		}))
	)

	document := b.Production("Document", func(x grammar.Extent) any {
		return &Document{Span: span(x)}
	})
	statement := b.Alternatives("Statement")
	let := b.Production("Let", func(x grammar.Extent) any {
		return &Let{Span: span(x)}
	})
	exprStmt := b.Production("ExprStmt", func(x grammar.Extent) any {
		return &ExprStmt{Span: span(x)}
	})
	terminator := b.Ephemeral("Terminator")
	expr := b.Production("Expr", func(x grammar.Extent) any {
		return &chain{span: span(x)}
	}).Fold(func(node any) any {
		return node.(*chain).fold()
	})
	operator := b.TermCapture("Operator", func(node any, t term.Term) {
		if c, ok := node.(*chain); ok {
			c.ops = append(c.ops, t)
		}
	})
	operand := b.Alternatives("Operand")
	call := b.Production("Call", func(x grammar.Extent) any {
		return &Call{Span: span(x)}
	})
	ref := b.Production("Ref", func(x grammar.Extent) any {
		return &Ref{Span: span(x)}
	})
	ident := b.Production("Ident", func(x grammar.Extent) any {
		begin, _ := x.Terms()
		id := &Ident{Span: span(x)}
		if doc := source(x); doc != nil {
			id.Name = doc.Identifier(begin)
		}
		return id
	})
	number := b.Production("Number", func(x grammar.Extent) any {
		begin, _ := x.Terms()
		n := &Number{Span: span(x), Kind: x.Kind(begin)}
		if doc := source(x); doc != nil {
			n.Text = doc.Text(begin)
		}
		return n
	})
	str := b.Production("String", func(x grammar.Extent) any {
		return &String{Span: span(x)}
	})
	segment := b.Alternatives("Segment")
	text := b.Production("Text", newText)
	hole := b.Production("Hole", func(x grammar.Extent) any {
		return &Hole{Span: span(x)}
	})
	boolean := b.Production("Bool", func(x grammar.Extent) any {
		begin, _ := x.Terms()
		return &Bool{Span: span(x), Value: x.Kind(begin) == term.True}
	})
	null := b.Production("Null", func(x grammar.Extent) any {
		return &Null{Span: span(x)}
	})
	paren := b.Production("Group", func(grammar.Extent) any {
		return &group{}
	}).Fold(func(node any) any {
		return node.(*group).x
	})
	unary := b.Production("Unary", func(x grammar.Extent) any {
		return &Unary{Span: span(x)}
	})
	sign := b.TermCapture("Sign", func(node any, t term.Term) {
		if u, ok := node.(*Unary); ok {
			u.Op = t
		}
	})
	element := b.Production("Element", func(x grammar.Extent) any {
		return &Element{Span: span(x)}
	})
	elementBody := b.Ephemeral("ElementBody")
	selfClose := b.TermCapture("SelfClose", func(node any, _ term.Term) {
		if e, ok := node.(*Element); ok {
			e.SelfClosing = true
		}
	})
	attribute := b.Production("Attribute", func(x grammar.Extent) any {
		return &Attribute{Span: span(x)}
	})
	attrValue := b.Alternatives("AttributeValue")
	content := b.Alternatives("Content")
	markup := b.Production("Markup", newText)

	document.Is(grammar.Any(statement.As(statementPart)))
	statement.Or(let, exprStmt)
	let.Is("let", grammar.Sure(), ident.As(letName), "=", expr.As(letValue), terminator)
	exprStmt.Is(expr.As(stmtExpr), terminator)
	terminator.Or(";", grammar.Last(term.TagClose), grammar.Last(term.TagSelfClose))

	expr.Is(operand.As(operandPart), grammar.Any(operator, operand.As(operandPart)))
	operator.Is(grammar.OneOf("||", "&&", "==", "!=", "<", "<=", ">", ">=", "+", "-", "*", "/", "%"))
	operand.Or(call, ref, number, str, boolean, null, paren, unary, element)

	call.Is(ident.As(callee), "(", grammar.Sure(),
		grammar.Opt(expr.As(argument), grammar.Any(",", expr.As(argument))), ")")
	ref.Is(ident.As(refName), grammar.Not("("))
	ident.Is(term.Name)
	number.Is(grammar.OneOf(term.Integer, term.Decimal, term.Exponent, term.Binary, term.Hex))
	str.Is(term.Quote, grammar.Any(segment.As(segmentPart)), term.Quote)
	segment.Or(text, hole)
	text.Is(term.StringText)
	hole.Is("{", grammar.Sure(), expr.As(holeExpr), "}")
	boolean.Is(grammar.OneOf("true", "false"))
	null.Is("null")
	paren.Is("(", grammar.Sure(), expr.As(inner), ")")
	unary.Is(sign, operand.As(unaryOperand))
	sign.Is(grammar.OneOf("-", "!"))

	element.Is(term.TagOpen, grammar.Sure(), ident.As(tag), grammar.Any(attribute.As(attributePart)), elementBody)
	elementBody.Or(selfClose, grammar.One(term.TagClose, grammar.Any(content.As(contentPart)),
		term.TagEndOpen, ident.As(closeTag), term.TagClose))
	selfClose.Is(term.TagSelfClose)
	attribute.Is(ident.As(attrName), "=", grammar.Sure(), attrValue.As(attrValuePart))
	attrValue.Or(str, hole)
	content.Or(markup, hole, element)
	markup.Is(term.MarkupText)

	return &language{
		g:        b.MustBuild(document, expr),
		document: document,
		expr:     expr,
	}
}

func newText(x grammar.Extent) any {
	begin, end := x.Terms()
	t := &Text{Span: span(x)}
	if doc := source(x); doc != nil {
		t.Text = doc.Slice(begin, end)
	}
	return t
}

// group is the node of a parenthesized expression; it folds to the
// expression inside.
type group struct {
	x Expr
}
