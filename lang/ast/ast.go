// Package ast defines the input contract of the code generator: the AST
// node types produced by a Lua 5.3-style parser for the subset of the
// grammar this module's generator implements. Lexing and parsing
// themselves are not part of this module (see spec.md and SPEC_FULL.md at
// the repository root for the boundary) — ast only hosts the node
// definitions a parser is expected to hand to lang/compiler.
//
// The node set is intentionally closed and small: statement forms for
// local declarations, assignment, if, blocks, calls, return and function
// declarations, plus the expression leaves needed to compile them. Loops,
// tables, method calls and goto/label are not represented, matching the
// generator's declared non-goals.
package ast

import (
	"fmt"

	"github.com/mna/luagen/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk calls v.Visit on the node itself (VisitEnter, then VisitExit) and
	// walks the node's children in between, to implement the Visitor pattern
	// (see the package-level Walk function). It is
	// provided for generic tree-walking utilities (e.g. a debug printer); the
	// code generator itself does not use it, it dispatches on the concrete
	// node type directly.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node
	stmt()
}

// Chunk is the root of a parsed source file: a single block of top-level
// statements.
type Chunk struct {
	Name  string // filename, may be empty
	Block *Block
}

func (n *Chunk) Span() (start, end token.Pos) { return n.Block.Span() }
func (n *Chunk) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	if n.Block != nil {
		Walk(v, n.Block)
	}
	v.Visit(n, VisitExit)
}

// Block is an ordered sequence of statements, used for the top-level chunk
// body, if/else bodies and function bodies.
type Block struct {
	Start, End token.Pos
	Stmts      []Stmt
}

func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	for _, s := range n.Stmts {
		Walk(v, s)
	}
	v.Visit(n, VisitExit)
}

func (n *Block) String() string {
	return fmt.Sprintf("block{%d stmts}", len(n.Stmts))
}
