package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstPoolIntern(t *testing.T) {
	p := newConstPool()

	i1 := p.intern(Number(1))
	i2 := p.intern(Number(1))
	require.Equal(t, i1, i2, "interning an equal value twice must return the same index")

	i3 := p.intern(Number(2))
	require.NotEqual(t, i1, i3)

	i4 := p.intern(String("abc"))
	i5 := p.intern(String("abc"))
	require.Equal(t, i4, i5)

	require.Equal(t, 3, p.len())
	require.Equal(t, Number(1), p.get(i1))
	require.Equal(t, String("abc"), p.get(i4))
}

func TestConstPoolSignedZero(t *testing.T) {
	p := newConstPool()

	iPos := p.intern(Number(0))
	iNeg := p.intern(Number(math.Copysign(0, -1)))
	require.NotEqual(t, iPos, iNeg, "positive and negative zero must intern distinctly")
}

func TestConstPoolNaN(t *testing.T) {
	p := newConstPool()

	nan := math.NaN()
	i1 := p.intern(Number(nan))
	i2 := p.intern(Number(nan))
	require.Equal(t, i1, i2, "a NaN constant must compare equal to itself for interning purposes")
}

func TestConstPoolNilAndBool(t *testing.T) {
	p := newConstPool()

	iNil := p.intern(Nil{})
	iTrue := p.intern(Bool(true))
	iFalse := p.intern(Bool(false))
	iNil2 := p.intern(Nil{})

	require.Equal(t, iNil, iNil2)
	require.NotEqual(t, iTrue, iFalse)
	require.Equal(t, 3, p.len())
}

func TestValueEqual(t *testing.T) {
	require.True(t, Number(1).equal(Number(1)))
	require.False(t, Number(1).equal(Number(2)))
	require.False(t, Number(1).equal(String("1")))
	require.True(t, String("a").equal(String("a")))
	require.True(t, Nil{}.equal(Nil{}))
	require.False(t, Nil{}.equal(Bool(false)))
}
