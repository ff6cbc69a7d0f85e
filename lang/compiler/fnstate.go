package compiler

import (
	"fmt"
	"os"
)

// debug gates development-time tracing of register allocation and jump
// patching decisions. Off by default; not a supported public interface,
// mirroring the teacher's compiler.go debug var.
var debug = false

func trace(format string, args ...any) {
	if debug {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Local is a function-local variable bound to a fixed register for the
// lifetime of the enclosing prototype (spec.md §3).
type Local struct {
	Name string
	Reg  uint8
}

// Upvalue describes how a non-local reference is resolved through an
// enclosing prototype (spec.md §3).
type Upvalue struct {
	Name    string
	InStack bool // true: captures a local of the immediately enclosing prototype
	Idx     uint8
}

// Program owns the flat set of tables shared across every Prototype
// generated from a single Chunk: the root Prototype, plus a name table
// recording every distinct global identifier referenced anywhere in the
// chunk. Each Prototype still interns its own GETTABUP/SETTABUP RK operand
// in its own Consts (spec.md §4.2 scopes the constant pool per-function);
// names is a separate, program-wide index used only for diagnostics and
// disassembly (asm.go's "globals:" section), the way the teacher's pcomp
// keeps a Program-wide Names table distinct from each Funcode's own
// constants.
type Program struct {
	Toplevel *FnState
	names    *constPool
}

// FnState is the per-function compiler state described in spec.md §3 as
// "Prototype". Grounded on the teacher's fcomp/Funcode split: FnState plays
// both roles here since this generator has no separate CFG-linearization
// pass to justify keeping "the code being built" and "the compiler driving
// it" apart.
type FnState struct {
	Prog     *Program
	Parent   *FnState
	ProtoIdx int // index of this prototype within Parent.Children; -1 for root
	Children []*FnState

	Code     []Instruction
	Consts   *constPool
	Locals   []Local
	Upvalues []Upvalue

	nextReg  uint8
	freeRegs []uint8 // reserved extension point, see spec.md §9; never pushed to

	set2regStack []int   // -1 means "no caller preference"
	retNumStack  []int32 // -1 means "all results"
}

// newRoot creates the root Prototype of a Program, with the _ENV upvalue
// bootstrapped at index 0 per spec.md §3 and §4.6.
func newRoot() *Program {
	prog := &Program{names: newConstPool()}
	root := &FnState{
		Prog:     prog,
		ProtoIdx: -1,
		Consts:   newConstPool(),
		Upvalues: []Upvalue{{Name: "_ENV", InStack: true, Idx: 0}},
	}
	prog.Toplevel = root
	return prog
}

// newChild creates a new Prototype as a child of fs, appends it to
// fs.Children and returns it with Parent wired, mirroring pcomp.function's
// role of handing fcomp a fresh Funcode (spec.md §4.3).
func (fs *FnState) newChild() *FnState {
	child := &FnState{
		Prog:     fs.Prog,
		Parent:   fs,
		ProtoIdx: len(fs.Children),
		Consts:   newConstPool(),
	}
	fs.Children = append(fs.Children, child)
	return child
}

// nextRegister returns the current register high-water mark and advances
// it by one (spec.md §4.3 nextReg).
func (fs *FnState) nextRegister() uint8 {
	r := fs.nextReg
	fs.nextReg++
	trace("fnstate: nextRegister -> %d\n", r)
	return r
}

// usableReg prefers a reclaimed register from freeRegs, falling back to
// nextRegister (spec.md §4.3 usableReg). freeRegs is never populated by
// this generator for the AST subset it covers (spec.md §9), so in practice
// this always takes the nextRegister path; the pool is kept as the
// documented extension point rather than removed.
func (fs *FnState) usableReg() uint8 {
	if n := len(fs.freeRegs); n > 0 {
		r := fs.freeRegs[n-1]
		fs.freeRegs = fs.freeRegs[:n-1]
		return r
	}
	return fs.nextRegister()
}

// setNextReg rewinds the register high-water mark, used after a CALL whose
// actual return count compresses the used register window (spec.md §4.3).
func (fs *FnState) setNextReg(n uint8) {
	trace("fnstate: setNextReg %d -> %d\n", fs.nextReg, n)
	fs.nextReg = n
}

// defLocal declares a new local variable. If reg is negative, a fresh
// register is allocated for it; latest declaration of a given name wins on
// lookup (spec.md §4.3).
func (fs *FnState) defLocal(name string, reg int) Local {
	var r uint8
	if reg < 0 {
		r = fs.nextRegister()
	} else {
		r = uint8(reg)
	}
	l := Local{Name: name, Reg: r}
	fs.Locals = append(fs.Locals, l)
	return l
}

// lookupLocal returns the most recently declared local named name in fs,
// or false if none exists. Per spec.md §7, callers that fail to find a
// local they expected to exist must panic; lookupLocal itself only reports
// absence.
func (fs *FnState) lookupLocal(name string) (Local, bool) {
	for i := len(fs.Locals) - 1; i >= 0; i-- {
		if fs.Locals[i].Name == name {
			return fs.Locals[i], true
		}
	}
	return Local{}, false
}

// mustLookupLocal is lookupLocal's fatal variant, for call sites that have
// already established (by other means) that name must be a local in fs.
func (fs *FnState) mustLookupLocal(name string) Local {
	l, ok := fs.lookupLocal(name)
	if !ok {
		panic(fmt.Sprintf("compiler: undefined local %q", name))
	}
	return l
}

// internGlobal interns name in fs's own constant pool (for the RK operand
// of the GETTABUP/SETTABUP instruction being emitted) and records it in the
// program-wide name table, so asm.go can report every global a chunk
// touches regardless of which prototype touches it.
func (fs *FnState) internGlobal(name string) uint32 {
	fs.Prog.names.intern(String(name))
	return fs.Consts.intern(String(name))
}

// pushSet2Reg/popSet2Reg/set2reg implement the first context channel of
// spec.md §4.5: the destination register a sub-expression must deliver its
// primary result into. An empty stack or a top value of -1 means "no
// caller preference - allocate a fresh temporary".
func (fs *FnState) pushSet2Reg(reg int) { fs.set2regStack = append(fs.set2regStack, reg) }

func (fs *FnState) popSet2Reg() {
	fs.set2regStack = fs.set2regStack[:len(fs.set2regStack)-1]
}

func (fs *FnState) set2reg() int {
	if len(fs.set2regStack) == 0 {
		return -1
	}
	return fs.set2regStack[len(fs.set2regStack)-1]
}

// targetReg resolves the current set2reg preference to a concrete register,
// allocating a fresh temporary when there is no preference.
func (fs *FnState) targetReg() uint8 {
	if r := fs.set2reg(); r >= 0 {
		return uint8(r)
	}
	return fs.usableReg()
}

// pushRetNum/popRetNum/retNum implement the second context channel of
// spec.md §4.5: how many results the parent wants from a multi-valued
// producer. 1 is the conventional default when the stack is empty.
func (fs *FnState) pushRetNum(n int32) { fs.retNumStack = append(fs.retNumStack, n) }

func (fs *FnState) popRetNum() {
	fs.retNumStack = fs.retNumStack[:len(fs.retNumStack)-1]
}

func (fs *FnState) retNum() int32 {
	if len(fs.retNumStack) == 0 {
		return 1
	}
	return fs.retNumStack[len(fs.retNumStack)-1]
}

// emit appends an instruction to fs.Code and returns its index (the
// instruction's own pc), used by callers that need to backpatch it later.
func (fs *FnState) emit(insn Instruction) int {
	fs.Code = append(fs.Code, insn)
	trace("fnstate: emit[%d] %s A=%d B=%d C=%d Bx=%d SBx=%d\n",
		len(fs.Code)-1, insn.Op, insn.A, insn.B, insn.C, insn.Bx, insn.SBx)
	return len(fs.Code) - 1
}

// patchJump rewrites the SBx of the JMP instruction at pc so that it jumps
// to target, using Lua's PC-relative-to-the-instruction-after-the-jump
// convention (spec.md §4.6: "(target_pc - jmp_pc - 1)").
func (fs *FnState) patchJump(pc int, target int) {
	fs.Code[pc].SBx = int32(target - pc - 1)
}

// here returns the index the next emitted instruction will occupy.
func (fs *FnState) here() int { return len(fs.Code) }
