// Package expr is a small expression and declaration language built on the
// lingo grammar compiler and parse engine.
//
// A document is a list of statements. Expressions have binary operators with
// the usual precedence, calls, strings with interpolated holes and inline
// markup elements:
//
//	let greeting = "hello {name}";
//	let card = <div class="card">{greeting}</div>
//	render(card, 1 + 2 * 3);
package expr

import (
	"github.com/dhamidi/lingo/name"
	"github.com/dhamidi/lingo/term"
)

// Span is a range of source offsets [Begin, End).
type Span struct {
	Begin, End int
}

// Bounds returns s; every node embeds a Span.
func (s Span) Bounds() Span { return s }

// Node is implemented by every syntax tree node.
type Node interface {
	Bounds() Span
	node()
}

// Statement is a top-level statement.
type Statement interface {
	Node
	statement()
}

// Expr is an expression.
type Expr interface {
	Node
	expr()
}

// Segment is a piece of a string literal.
type Segment interface {
	Node
	segment()
}

// Content is a piece of the body of a markup element.
type Content interface {
	Node
	content()
}

type Document struct {
	Span
	Statements []Statement
}

type Let struct {
	Span
	Name  *Ident
	Value Expr
}

type ExprStmt struct {
	Span
	X Expr
}

type Ident struct {
	Span
	Name *name.Identifier
}

type Ref struct {
	Span
	Name *Ident
}

type Call struct {
	Span
	Func *Ident
	Args []Expr
}

// Number keeps the literal text; Kind tells how it was written.
type Number struct {
	Span
	Kind term.Term
	Text string
}

type String struct {
	Span
	Segments []Segment
}

// Text is literal text inside a string or an element. Escapes are kept as
// written.
type Text struct {
	Span
	Text string
}

// Hole is an expression interpolated into a string, an attribute or the
// content of an element.
type Hole struct {
	Span
	X Expr
}

type Bool struct {
	Span
	Value bool
}

type Null struct {
	Span
}

type Unary struct {
	Span
	Op term.Term
	X  Expr
}

type Binary struct {
	Span
	Op   term.Term
	X, Y Expr
}

// Element is an inline markup element. Close is nil for self-closing
// elements.
type Element struct {
	Span
	Tag         *Ident
	Attributes  []*Attribute
	Content     []Content
	SelfClosing bool
	Close       *Ident
}

// Attribute values are a *String or a *Hole.
type Attribute struct {
	Span
	Name  *Ident
	Value Expr
}

func (*Document) node()  {}
func (*Let) node()       {}
func (*ExprStmt) node()  {}
func (*Ident) node()     {}
func (*Ref) node()       {}
func (*Call) node()      {}
func (*Number) node()    {}
func (*String) node()    {}
func (*Text) node()      {}
func (*Hole) node()      {}
func (*Bool) node()      {}
func (*Null) node()      {}
func (*Unary) node()     {}
func (*Binary) node()    {}
func (*Element) node()   {}
func (*Attribute) node() {}

func (*Let) statement()      {}
func (*ExprStmt) statement() {}

func (*Ref) expr()     {}
func (*Call) expr()    {}
func (*Number) expr()  {}
func (*String) expr()  {}
func (*Hole) expr()    {}
func (*Bool) expr()    {}
func (*Null) expr()    {}
func (*Unary) expr()   {}
func (*Binary) expr()  {}
func (*Element) expr() {}

func (*Text) segment() {}
func (*Hole) segment() {}

func (*Text) content()    {}
func (*Hole) content()    {}
func (*Element) content() {}

// Inspect walks the tree rooted at n in depth-first order, calling fn for
// every node. Children are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Document:
		for _, s := range n.Statements {
			Inspect(s, fn)
		}
	case *Let:
		inspectIdent(n.Name, fn)
		inspectExpr(n.Value, fn)
	case *ExprStmt:
		inspectExpr(n.X, fn)
	case *Ref:
		inspectIdent(n.Name, fn)
	case *Call:
		inspectIdent(n.Func, fn)
		for _, a := range n.Args {
			inspectExpr(a, fn)
		}
	case *String:
		for _, s := range n.Segments {
			Inspect(s, fn)
		}
	case *Hole:
		inspectExpr(n.X, fn)
	case *Unary:
		inspectExpr(n.X, fn)
	case *Binary:
		inspectExpr(n.X, fn)
		inspectExpr(n.Y, fn)
	case *Element:
		inspectIdent(n.Tag, fn)
		for _, a := range n.Attributes {
			Inspect(a, fn)
		}
		for _, c := range n.Content {
			Inspect(c, fn)
		}
		inspectIdent(n.Close, fn)
	case *Attribute:
		inspectIdent(n.Name, fn)
		inspectExpr(n.Value, fn)
	}
}

// typed nil pointers must not reach fn
func inspectIdent(id *Ident, fn func(Node) bool) {
	if id != nil {
		Inspect(id, fn)
	}
}

func inspectExpr(x Expr, fn func(Node) bool) {
	if x != nil {
		Inspect(x, fn)
	}
}
