package ast

import "fmt"

// VisitDirection indicates whether a call to Visit enters or exits a node.
type VisitDirection int

// List of visit directions.
const (
	VisitEnter VisitDirection = iota
	VisitExit
)

// Visitor defines the method to implement to walk the AST with Walk. A
// node's children can be skipped by returning a nil visitor from Visit.
type Visitor interface {
	Visit(n Node, dir VisitDirection) (w Visitor)
}

// VisitorFunc is a function that implements the Visitor interface.
type VisitorFunc func(n Node, dir VisitDirection) Visitor

// Visit implements the Visitor interface for VisitorFunc.
func (f VisitorFunc) Visit(n Node, dir VisitDirection) Visitor {
	return f(n, dir)
}

// Walk visits each node with Visitor v starting with the provided node. It
// first calls Visit with the node in VisitEnter direction, and if that call
// returns a non-nil Visitor, it recursively walks the children of this node
// and calls Visit again with the node and VisitExit direction when it exits
// the node (after all children have been visited).
func Walk(v Visitor, node Node) {
	node.Walk(v)
}

// CountKinds walks node and returns a count of each concrete node type
// encountered, keyed by its Go type name. It is a debug/test utility, not
// used by the code generator itself.
func CountKinds(node Node) map[string]int {
	c := &kindCounter{counts: make(map[string]int)}
	Walk(c, node)
	return c.counts
}

type kindCounter struct {
	counts map[string]int
}

func (c *kindCounter) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitEnter {
		c.counts[fmt.Sprintf("%T", n)]++
		return c
	}
	return c
}
