package expr

import "github.com/dhamidi/lingo/term"

// chain is the node of an Expr entry: operands and the operators between
// them, in source order. It folds to a tree of Binary nodes.
type chain struct {
	span     Span
	operands []Expr
	ops      []term.Term
}

// Precedence returns the binding power of a binary operator, or 0 when op is
// not one. Higher binds tighter.
func Precedence(op term.Term) int {
	switch op {
	case term.Or:
		return 1
	case term.And:
		return 2
	case term.EQ, term.NE, term.LT, term.LE, term.GT, term.GE:
		return 3
	case term.Plus, term.Minus:
		return 4
	case term.Star, term.Slash, term.Percent:
		return 5
	}
	return 0
}

func (c *chain) fold() Expr {
	if len(c.operands) == 0 {
		return nil
	}
	if len(c.ops) != len(c.operands)-1 {
		// only reachable with a grammar that captures operators elsewhere
		c.ops = c.ops[:min(len(c.ops), len(c.operands)-1)]
		c.operands = c.operands[:len(c.ops)+1]
	}
	k := 0
	x := c.climb(c.operands[0], &k, 1)
	if b, ok := x.(*Binary); ok {
		b.Span = c.span
	}
	return x
}

// climb combines lhs with the operators from *k on whose precedence is at
// least floor. All operators are left associative.
func (c *chain) climb(lhs Expr, k *int, floor int) Expr {
	for *k < len(c.ops) && Precedence(c.ops[*k]) >= floor {
		op := c.ops[*k]
		rhs := c.operands[*k+1]
		*k++
		for *k < len(c.ops) && Precedence(c.ops[*k]) > Precedence(op) {
			rhs = c.climb(rhs, k, Precedence(op)+1)
		}
		lhs = &Binary{
			Span: Span{Begin: lhs.Bounds().Begin, End: rhs.Bounds().End},
			Op:   op,
			X:    lhs,
			Y:    rhs,
		}
	}
	return lhs
}
