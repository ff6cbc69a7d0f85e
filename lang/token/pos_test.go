package token

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type startEnd struct {
	s, e Pos
}

func (se startEnd) Span() (start, end Pos) { return se.s, se.e }

func TestPosInside(t *testing.T) {
	cases := []struct {
		ref, test startEnd
		want      bool
	}{
		{startEnd{MakePos(1, 2), MakePos(1, 2)}, startEnd{MakePos(1, 3), MakePos(1, 4)}, false},
		{startEnd{MakePos(1, 1), MakePos(1, 10)}, startEnd{MakePos(1, 3), MakePos(1, 4)}, true},
		{startEnd{MakePos(1, 3), MakePos(1, 4)}, startEnd{MakePos(1, 3), MakePos(1, 4)}, true},
		{startEnd{MakePos(1, 5), MakePos(1, 10)}, startEnd{MakePos(1, 3), MakePos(1, 4)}, false},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%v-%v", c.ref, c.test), func(t *testing.T) {
			assert.Equal(t, c.want, PosInside(c.ref, c.test))
		})
	}
}

func TestMakePosLineCol(t *testing.T) {
	p := MakePos(12, 34)
	l, c := p.LineCol()
	assert.Equal(t, 12, l)
	assert.Equal(t, 34, c)
	assert.False(t, p.Unknown())
}

func TestPosUnknown(t *testing.T) {
	assert.True(t, Pos(0).Unknown())
	assert.False(t, MakePos(1, 1).Unknown())
}
