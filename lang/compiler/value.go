package compiler

import (
	"math"

	"github.com/dolthub/swiss"
)

// Value is a constant-pool value: one of nil, boolean, number or string.
// Concrete types implement it the way the teacher's machine.Value does for
// its runtime value set, rather than boxing into interface{}.
type Value interface {
	value()
	equal(Value) bool
}

type (
	Nil    struct{}
	Bool   bool
	Number float64
	String string
)

func (Nil) value()    {}
func (Bool) value()   {}
func (Number) value() {}
func (String) value() {}

func (Nil) equal(v Value) bool {
	_, ok := v.(Nil)
	return ok
}

func (b Bool) equal(v Value) bool {
	o, ok := v.(Bool)
	return ok && b == o
}

// equal compares the bit pattern of the two floats so that -0.0 and 0.0
// intern distinctly and NaN constants compare equal to themselves, per
// spec.md §3.
func (n Number) equal(v Value) bool {
	o, ok := v.(Number)
	return ok && math.Float64bits(float64(n)) == math.Float64bits(float64(o))
}

func (s String) equal(v Value) bool {
	o, ok := v.(String)
	return ok && s == o
}

// hashKey is the swiss.Map key for a Value: == on a Number would treat
// -0.0 and 0.0 as equal and NaN as unequal to itself, so numbers are keyed
// by their bit pattern (matching Number.equal), and each concrete type gets
// its own key space via kind.
type hashKey struct {
	kind byte
	bits uint64
	str  string
}

func keyOf(v Value) hashKey {
	switch t := v.(type) {
	case Nil:
		return hashKey{kind: 'n'}
	case Bool:
		b := uint64(0)
		if t {
			b = 1
		}
		return hashKey{kind: 'b', bits: b}
	case Number:
		return hashKey{kind: 'f', bits: math.Float64bits(float64(t))}
	case String:
		return hashKey{kind: 's', str: string(t)}
	default:
		panic("compiler: unsupported constant value type")
	}
}

// constPool interns Values, returning a stable index for equal values. It
// backs both Prototype.Consts (spec.md §4.2) and the shared Program-level
// name table, the way the teacher reaches for a swiss.Map over the
// runtime's table implementation instead of a bare Go map on its own hot
// paths.
type constPool struct {
	index  *swiss.Map[hashKey, uint32]
	values []Value
}

func newConstPool() *constPool {
	return &constPool{index: swiss.NewMap[hashKey, uint32](8)}
}

// intern returns the existing index for v if an equal value was already
// interned, otherwise appends v and returns its new index.
func (p *constPool) intern(v Value) uint32 {
	k := keyOf(v)
	if idx, ok := p.index.Get(k); ok {
		return idx
	}
	idx := uint32(len(p.values))
	p.values = append(p.values, v)
	p.index.Put(k, idx)
	return idx
}

func (p *constPool) get(idx uint32) Value { return p.values[idx] }
func (p *constPool) len() int             { return len(p.values) }
