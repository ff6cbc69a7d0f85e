// Package token defines the source position representation shared by the
// AST and the code generator. Lexing and parsing are not part of this
// module (see the ast package doc comment); token only carries the small
// amount of positional information AST nodes are tagged with.
package token

import "fmt"

const (
	lineBits = 18
	colBits  = 32 - lineBits

	// MaxLines is the maximum 1-based line number value that can be encoded in
	// Pos.
	MaxLines = (1 << lineBits) - 1
	// MaxCols is the maximum 1-based column number value that can be encoded in
	// Pos.
	MaxCols = (1 << colBits) - 1

	lineMask = MaxLines
	colMask  = MaxCols
)

// Pos is an efficient encoding of a 1-based line and column position in a
// 32-bit unsigned integer. A value of 0 for either line or column should be
// interpreted as "unknown".
type Pos uint32

// MakePos creates a Pos value encoding the provided line and col. It is the
// caller's responsibility to ensure the values are > 0 and <= the maximum
// allowed.
func MakePos(line, col int) Pos {
	return Pos(line<<colBits | col)
}

// LineCol returns the line and column values encoded in Pos.
func (p Pos) LineCol() (int, int) {
	l := (p >> colBits) & lineMask
	c := p & colMask
	return int(l), int(c)
}

// Unknown returns true if either line or column value is unknown.
func (p Pos) Unknown() bool {
	l, c := p.LineCol()
	return l == 0 || c == 0
}

func (p Pos) String() string {
	if p.Unknown() {
		return "-"
	}
	l, c := p.LineCol()
	return fmt.Sprintf("%d:%d", l, c)
}

// Span is implemented by anything that reports a start/end Pos pair, so that
// position-relative helpers (e.g. PosInside) can work uniformly over AST
// nodes and ad-hoc position pairs alike.
type Span interface {
	Span() (start, end Pos)
}

// PosInside returns true if test is entirely inside (or equal to) ref.
func PosInside(ref, test Span) bool {
	rs, re := ref.Span()
	ts, te := test.Span()
	return rs <= ts && te <= re
}
