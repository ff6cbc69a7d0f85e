package compiler

import (
	"fmt"

	"github.com/mna/luagen/lang/ast"
)

// binaryExpression dispatches a binary operator to its lowering, per
// spec.md §4.6.
func (cg *codegen) binaryExpression(fs *FnState, n *ast.BinaryExpression) {
	switch {
	case n.Op.IsLogical():
		cg.logicalExpr(fs, n)
	case n.Op.IsComparison():
		cg.comparisonExpr(fs, n)
	default:
		cg.arithExpr(fs, n)
	}
}

// arithExpr lowers arithmetic and concat operators. Arithmetic operands
// accept RK encoding for literal operands; concat operands are always
// plain registers (spec.md §4.6 "Binary expression").
func (cg *codegen) arithExpr(fs *FnState, n *ast.BinaryExpression) {
	target := fs.targetReg()
	op := arithOpcode(n.Op)
	rkEligible := n.Op.IsArith()
	b := cg.binOperand(fs, n.Left, rkEligible)
	c := cg.binOperand(fs, n.Right, rkEligible)
	fs.emit(Instruction{Op: op, A: target, B: b, C: c})
}

func arithOpcode(op ast.BinOp) Opcode {
	switch op {
	case ast.OpAdd:
		return ADD
	case ast.OpSub:
		return SUB
	case ast.OpMul:
		return MUL
	case ast.OpDiv:
		return DIV
	case ast.OpMod:
		return MOD
	case ast.OpPow:
		return POW
	case ast.OpConcat:
		return CONCAT
	default:
		panic(fmt.Sprintf("compiler: unsupported arithmetic operator %v", op))
	}
}

// comparisonOpcode canonicalises a comparison operator to one of
// EQ/LT/LE plus the expected boolean outcome A (spec.md §4.6): A=1 for
// ==, <, <=; A=0 for ~=, >, >=. > and >= keep operand order and flip A
// instead of swapping operands.
func comparisonOpcode(op ast.BinOp) (Opcode, uint8) {
	switch op {
	case ast.OpEq:
		return EQ, 1
	case ast.OpNeq:
		return EQ, 0
	case ast.OpLt:
		return LT, 1
	case ast.OpLe:
		return LE, 1
	case ast.OpGt:
		return LT, 0
	case ast.OpGe:
		return LE, 0
	default:
		panic(fmt.Sprintf("compiler: unsupported comparison operator %v", op))
	}
}

// comparisonExpr lowers a comparison used as an ordinary value-producing
// expression. When the surrounding context wants a single boolean result
// (retNum == 1, the common case for any context other than an if/loop
// test), it appends the canonical JMP/LOADBOOL/LOADBOOL sequence from
// spec.md §4.6. Contexts that only need the conditional branch itself
// (ifStatement) use comparisonNoMaterialize instead.
func (cg *codegen) comparisonExpr(fs *FnState, n *ast.BinaryExpression) {
	target := fs.targetReg()
	op, aFlag := comparisonOpcode(n.Op)
	b := cg.binOperand(fs, n.Left, true)
	c := cg.binOperand(fs, n.Right, true)
	fs.emit(Instruction{Op: op, A: aFlag, B: b, C: c})

	if fs.retNum() == 1 {
		fs.emit(Instruction{Op: JMP, SBx: 1})
		fs.emit(Instruction{Op: LOADBOOL, A: target, B: 0, C: 1})
		fs.emit(Instruction{Op: LOADBOOL, A: target, B: 1, C: 0})
	}
}

// comparisonNoMaterialize emits a comparison's EQ/LT/LE instruction
// without the boolean-materializing trailer, returning a register for the
// caller's TEST to check. Since EQ/LT/LE's own A flag already decides
// whether the following instruction (the caller's TEST+JMP pair) is taken,
// the actual register TEST inspects is not semantically load-bearing; this
// reuses the left operand's register when it is a plain register, matching
// the worked example in spec.md §8 scenario 4 where TEST reuses the
// GETTABUP destination rather than a separately materialized boolean.
func (cg *codegen) comparisonNoMaterialize(fs *FnState, n *ast.BinaryExpression) uint8 {
	op, aFlag := comparisonOpcode(n.Op)
	b := cg.binOperand(fs, n.Left, true)
	c := cg.binOperand(fs, n.Right, true)
	fs.emit(Instruction{Op: op, A: aFlag, B: b, C: c})
	if IsK(b) {
		return fs.usableReg()
	}
	return uint8(b)
}

// logicalExpr lowers short-circuit and/or. Per spec.md §9's resolution of
// the ambiguous source ordering, the right operand's code is generated
// between the TESTSET/JMP pair and the trailing MOVE (rather than literally
// before it), with the JMP backpatched to land after the MOVE so that the
// short-circuit path skips both the right operand's evaluation and the
// MOVE.
func (cg *codegen) logicalExpr(fs *FnState, n *ast.BinaryExpression) {
	t := fs.targetReg()

	lReg := fs.usableReg()
	fs.pushSet2Reg(int(lReg))
	fs.pushRetNum(1)
	cg.expr(fs, n.Left)
	fs.popRetNum()
	fs.popSet2Reg()

	c := uint32(1)
	if n.Op == ast.OpAnd {
		c = 0
	}
	fs.emit(Instruction{Op: TESTSET, A: t, B: uint32(lReg), C: c})
	jmpPc := fs.emit(Instruction{Op: JMP})

	rReg := fs.usableReg()
	fs.pushSet2Reg(int(rReg))
	fs.pushRetNum(1)
	cg.expr(fs, n.Right)
	fs.popRetNum()
	fs.popSet2Reg()
	fs.emit(Instruction{Op: MOVE, A: t, B: uint32(rReg)})

	fs.patchJump(jmpPc, fs.here())
}

// unaryExpression lowers -, not, # (spec.md §4.6 "Unary expression").
func (cg *codegen) unaryExpression(fs *FnState, n *ast.UnaryExpression) {
	target := fs.targetReg()
	r := fs.usableReg()
	fs.pushSet2Reg(int(r))
	fs.pushRetNum(1)
	cg.expr(fs, n.Operand)
	fs.popRetNum()
	fs.popSet2Reg()

	var op Opcode
	switch n.Op {
	case ast.OpNeg:
		op = UNM
	case ast.OpNot:
		op = NOT
	case ast.OpLen:
		op = LEN
	default:
		panic(fmt.Sprintf("compiler: unsupported unary operator %v", n.Op))
	}
	fs.emit(Instruction{Op: op, A: target, B: uint32(r)})
}

// binOperand evaluates e as an operand of a binary instruction, returning
// either an RK-tagged constant index (when rkEligible and e is a literal)
// or a plain register. Locals are referenced by their existing register
// directly rather than being copied into a temporary.
func (cg *codegen) binOperand(fs *FnState, e ast.Expr, rkEligible bool) uint32 {
	switch lit := e.(type) {
	case *ast.NumericLiteral:
		if rkEligible {
			return RK(fs.Consts.intern(Number(lit.Value)))
		}
	case *ast.StringLiteral:
		if rkEligible {
			return RK(fs.Consts.intern(String(lit.Value)))
		}
	case *ast.Identifier:
		if local, ok := fs.lookupLocal(lit.Name); ok {
			return uint32(local.Reg)
		}
	}

	r := fs.usableReg()
	fs.pushSet2Reg(int(r))
	fs.pushRetNum(1)
	cg.expr(fs, e)
	fs.popRetNum()
	fs.popSet2Reg()
	return uint32(r)
}

// callExpression lowers a function call (spec.md §4.6 "Call expression"),
// the most delicate rule in the generator: the callee and every argument
// must land in a contiguous register block above the call's own target
// register, a VM invariant for CALL.
func (cg *codegen) callExpression(fs *FnState, n *ast.CallExpression) {
	wantedRetNum := fs.retNum()
	rCall := fs.targetReg()

	fs.pushSet2Reg(int(rCall))
	fs.pushRetNum(1)
	cg.expr(fs, n.Callee)
	fs.popRetNum()
	fs.popSet2Reg()

	var b uint32
	if len(n.Args) == 0 {
		b = 1
	} else {
		trailingCall := ast.IsCall(n.Args[len(n.Args)-1])
		for i, arg := range n.Args {
			reg := fs.nextRegister()
			fs.pushSet2Reg(int(reg))
			if i == len(n.Args)-1 && trailingCall {
				fs.pushRetNum(-1)
			} else {
				fs.pushRetNum(1)
			}
			cg.expr(fs, arg)
			fs.popRetNum()
			fs.popSet2Reg()
		}
		if trailingCall {
			b = 0
		} else {
			b = uint32(len(n.Args) + 1)
		}
	}

	var c uint32
	switch {
	case wantedRetNum < 0:
		c = 0
	case wantedRetNum == 0:
		c = 1
	default:
		c = uint32(wantedRetNum) + 1
		fs.setNextReg(rCall + uint8(wantedRetNum))
	}

	fs.emit(Instruction{Op: CALL, A: rCall, B: b, C: c})
}

// functionExpression lowers a function literal used as an expression
// (spec.md §4.6 "Function expression"): identical to the statement form
// minus the name binding / SETTABUP.
func (cg *codegen) functionExpression(fs *FnState, n *ast.FunctionExpression) {
	child := fs.newChild()
	for _, p := range n.Params {
		child.defLocal(p.Name, -1)
	}
	cg.block(child, n.Body)
	if !blockEndsInReturn(n.Body) {
		child.emit(Instruction{Op: RETURN, A: 0, B: 1})
	}

	target := fs.targetReg()
	fs.emit(Instruction{Op: CLOSURE, A: target, Bx: uint32(child.ProtoIdx)})
}
