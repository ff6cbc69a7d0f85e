package ast

import "github.com/mna/luagen/lang/token"

type (
	// AssignmentExpression represents the `l1, ... = r1, ...` part of an
	// assignment statement. Left and Right are a *SequenceExpression when
	// there is more than one target/value, or a bare expression otherwise.
	AssignmentExpression struct {
		Left  Expr
		Right Expr
	}

	// SequenceExpression wraps a comma-separated list of expressions. It only
	// ever appears as the Left or Right of an *AssignmentExpression.
	SequenceExpression struct {
		Items []Expr
	}

	// Identifier represents a bare name, either a local/upvalue reference or,
	// if unresolved by the generator's scope chain, a global.
	Identifier struct {
		Start token.Pos
		Name  string
	}

	// StringLiteral represents a string literal.
	StringLiteral struct {
		Start token.Pos
		Value string
	}

	// NumericLiteral represents a number literal.
	NumericLiteral struct {
		Start token.Pos
		Value float64
	}

	// NilLiteral represents the `nil` literal.
	NilLiteral struct {
		Start token.Pos
	}

	// BooleanLiteral represents a `true`/`false` literal.
	BooleanLiteral struct {
		Start token.Pos
		Value bool
	}

	// BinaryExpression represents a binary operator expression.
	BinaryExpression struct {
		Left  Expr
		Op    BinOp
		OpPos token.Pos
		Right Expr
	}

	// UnaryExpression represents a unary operator expression.
	UnaryExpression struct {
		Op      UnOp
		OpPos   token.Pos
		Operand Expr
	}

	// FunctionExpression represents a function literal used as an expression,
	// e.g. the right-hand side of `local f = function(x) .. end`.
	FunctionExpression struct {
		Start  token.Pos
		Params []*Identifier
		Body   *Block
		End    token.Pos
	}

	// CallExpression represents a function call, e.g. `f(x, y)`.
	CallExpression struct {
		Callee Expr
		Args   []Expr
		End    token.Pos
	}
)

func (n *AssignmentExpression) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *AssignmentExpression) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	Walk(v, n.Left)
	Walk(v, n.Right)
	v.Visit(n, VisitExit)
}
func (n *AssignmentExpression) expr() {}

func (n *SequenceExpression) Span() (start, end token.Pos) {
	if len(n.Items) == 0 {
		return 0, 0
	}
	start, _ = n.Items[0].Span()
	_, end = n.Items[len(n.Items)-1].Span()
	return start, end
}
func (n *SequenceExpression) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	for _, e := range n.Items {
		Walk(v, e)
	}
	v.Visit(n, VisitExit)
}
func (n *SequenceExpression) expr() {}

func (n *Identifier) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Name))
}
func (n *Identifier) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	v.Visit(n, VisitExit)
}
func (n *Identifier) expr() {}

func (n *StringLiteral) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Value))
}
func (n *StringLiteral) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	v.Visit(n, VisitExit)
}
func (n *StringLiteral) expr() {}

func (n *NumericLiteral) Span() (start, end token.Pos) { return n.Start, n.Start }
func (n *NumericLiteral) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	v.Visit(n, VisitExit)
}
func (n *NumericLiteral) expr() {}

func (n *NilLiteral) Span() (start, end token.Pos) { return n.Start, n.Start }
func (n *NilLiteral) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	v.Visit(n, VisitExit)
}
func (n *NilLiteral) expr() {}

func (n *BooleanLiteral) Span() (start, end token.Pos) { return n.Start, n.Start }
func (n *BooleanLiteral) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	v.Visit(n, VisitExit)
}
func (n *BooleanLiteral) expr() {}

func (n *BinaryExpression) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpression) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	Walk(v, n.Left)
	Walk(v, n.Right)
	v.Visit(n, VisitExit)
}
func (n *BinaryExpression) expr() {}

func (n *UnaryExpression) Span() (start, end token.Pos) {
	_, end = n.Operand.Span()
	return n.OpPos, end
}
func (n *UnaryExpression) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	Walk(v, n.Operand)
	v.Visit(n, VisitExit)
}
func (n *UnaryExpression) expr() {}

func (n *FunctionExpression) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *FunctionExpression) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
	v.Visit(n, VisitExit)
}
func (n *FunctionExpression) expr() {}

func (n *CallExpression) Span() (start, end token.Pos) {
	start, _ = n.Callee.Span()
	return start, n.End
}
func (n *CallExpression) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
	v.Visit(n, VisitExit)
}
func (n *CallExpression) expr() {}

// IsCall reports whether e is a *CallExpression, used throughout the
// generator to detect the multi-return trailing-position cases described in
// spec.md §4.6.
func IsCall(e Expr) bool {
	_, ok := e.(*CallExpression)
	return ok
}
