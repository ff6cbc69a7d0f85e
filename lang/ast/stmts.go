package ast

import "github.com/mna/luagen/lang/token"

type (
	// VariableDeclaration represents `local a, b, ... = e1, e2, ...`. Init may
	// have fewer entries than Names (trailing names get LOADNIL) or, when its
	// last entry is a call expression, more values than entries (the call's
	// extra results fill the remaining names).
	VariableDeclaration struct {
		Start token.Pos
		Names []*Identifier
		Init  []Expr // may be shorter than Names, see above
		End   token.Pos
	}

	// ExpressionStatement wraps an expression used as a statement. In this
	// AST it is only ever an *AssignmentExpression (a bare CallExpression as
	// a statement uses *CallStatement instead).
	ExpressionStatement struct {
		Expr Expr
	}

	// CallStatement represents a function call used as a statement, e.g.
	// `f(x)`.
	CallStatement struct {
		Call *CallExpression
	}

	// IfStatement represents an if/elseif/else chain. An elseif is
	// represented as an *IfStatement that is the sole statement of Else.
	IfStatement struct {
		Start token.Pos
		Test  Expr
		Then  *Block
		Else  *Block // nil if there is no else/elseif clause
		End   token.Pos
	}

	// ReturnStatement represents `return e1, e2, ...` (Results may be empty).
	ReturnStatement struct {
		Start   token.Pos
		Results []Expr
	}

	// FunctionStatement represents `[local] function name(params) .. end`.
	FunctionStatement struct {
		Start   token.Pos
		Name    *Identifier
		IsLocal bool
		Params  []*Identifier
		Body    *Block
		End     token.Pos
	}
)

func (n *VariableDeclaration) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *VariableDeclaration) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	for _, id := range n.Names {
		Walk(v, id)
	}
	for _, e := range n.Init {
		Walk(v, e)
	}
	v.Visit(n, VisitExit)
}
func (n *VariableDeclaration) stmt() {}

func (n *ExpressionStatement) Span() (start, end token.Pos) { return n.Expr.Span() }
func (n *ExpressionStatement) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	Walk(v, n.Expr)
	v.Visit(n, VisitExit)
}
func (n *ExpressionStatement) stmt() {}

func (n *CallStatement) Span() (start, end token.Pos) { return n.Call.Span() }
func (n *CallStatement) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	Walk(v, n.Call)
	v.Visit(n, VisitExit)
}
func (n *CallStatement) stmt() {}

func (n *IfStatement) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *IfStatement) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	Walk(v, n.Test)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
	v.Visit(n, VisitExit)
}
func (n *IfStatement) stmt() {}

func (n *ReturnStatement) Span() (start, end token.Pos) {
	end = n.Start
	if len(n.Results) > 0 {
		_, end = n.Results[len(n.Results)-1].Span()
	}
	return n.Start, end
}
func (n *ReturnStatement) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	for _, e := range n.Results {
		Walk(v, e)
	}
	v.Visit(n, VisitExit)
}
func (n *ReturnStatement) stmt() {}

func (n *FunctionStatement) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *FunctionStatement) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	if n.Name != nil {
		Walk(v, n.Name)
	}
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
	v.Visit(n, VisitExit)
}
func (n *FunctionStatement) stmt() {}
