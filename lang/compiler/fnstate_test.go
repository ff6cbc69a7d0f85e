package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterAllocation(t *testing.T) {
	prog := newRoot()
	fs := prog.Toplevel

	require.Equal(t, uint8(0), fs.nextRegister())
	require.Equal(t, uint8(1), fs.nextRegister())
	require.Equal(t, uint8(2), fs.usableReg(), "usableReg falls back to nextRegister when freeRegs is empty")

	fs.setNextReg(1)
	require.Equal(t, uint8(1), fs.nextRegister())
}

func TestDefLocalAndLookup(t *testing.T) {
	prog := newRoot()
	fs := prog.Toplevel

	a := fs.defLocal("a", -1)
	require.Equal(t, uint8(0), a.Reg)

	b := fs.defLocal("b", 5)
	require.Equal(t, uint8(5), b.Reg)

	_, ok := fs.lookupLocal("missing")
	require.False(t, ok)

	found, ok := fs.lookupLocal("a")
	require.True(t, ok)
	require.Equal(t, a, found)
}

func TestDefLocalShadowing(t *testing.T) {
	prog := newRoot()
	fs := prog.Toplevel

	fs.defLocal("x", 0)
	fs.defLocal("x", 3)

	found, ok := fs.lookupLocal("x")
	require.True(t, ok)
	require.Equal(t, uint8(3), found.Reg, "lookupLocal returns the most recently declared binding")
}

func TestMustLookupLocalPanics(t *testing.T) {
	prog := newRoot()
	fs := prog.Toplevel

	require.Panics(t, func() { fs.mustLookupLocal("nope") })
}

func TestSet2RegStack(t *testing.T) {
	prog := newRoot()
	fs := prog.Toplevel

	require.Equal(t, -1, fs.set2reg(), "no preference by default")
	require.Equal(t, uint8(0), fs.targetReg(), "falls back to usableReg when no preference")

	fs.pushSet2Reg(2)
	require.Equal(t, uint8(2), fs.targetReg())
	fs.popSet2Reg()
	require.Equal(t, -1, fs.set2reg())
}

func TestRetNumStack(t *testing.T) {
	prog := newRoot()
	fs := prog.Toplevel

	require.Equal(t, int32(1), fs.retNum(), "default retNum is 1 when the stack is empty")

	fs.pushRetNum(-1)
	require.Equal(t, int32(-1), fs.retNum())
	fs.pushRetNum(0)
	require.Equal(t, int32(0), fs.retNum())
	fs.popRetNum()
	require.Equal(t, int32(-1), fs.retNum())
	fs.popRetNum()
	require.Equal(t, int32(1), fs.retNum())
}

func TestPatchJump(t *testing.T) {
	prog := newRoot()
	fs := prog.Toplevel

	jmpPc := fs.emit(Instruction{Op: JMP})
	fs.emit(Instruction{Op: MOVE})
	fs.emit(Instruction{Op: MOVE})
	fs.patchJump(jmpPc, fs.here())

	require.Equal(t, int32(2), fs.Code[jmpPc].SBx)
}

func TestNewChild(t *testing.T) {
	prog := newRoot()
	root := prog.Toplevel

	child := root.newChild()
	require.Same(t, root, child.Parent)
	require.Equal(t, 0, child.ProtoIdx)
	require.Len(t, root.Children, 1)

	child2 := root.newChild()
	require.Equal(t, 1, child2.ProtoIdx)
}
