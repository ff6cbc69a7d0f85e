package compiler

import (
	"fmt"

	"github.com/mna/luagen/lang/ast"
)

// blockEndsInReturn reports whether b's last statement is a return, so
// function bodies that already terminate explicitly are not given a
// redundant trailing default RETURN (spec.md §8 scenario 5 shows exactly
// two instructions for a body ending in `return x + 1`, not three).
func blockEndsInReturn(b *ast.Block) bool {
	if b == nil || len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[len(b.Stmts)-1].(*ast.ReturnStatement)
	return ok
}

// variableDeclaration lowers `local a, b, ... = e1, e2, ...` (spec.md §4.6
// "Variable declaration").
func (cg *codegen) variableDeclaration(fs *FnState, n *ast.VariableDeclaration) {
	names, inits := n.Names, n.Init
	numNames, numInits := len(names), len(inits)

	locals := make([]Local, numNames)
	for i, id := range names {
		locals[i] = fs.defLocal(id.Name, -1)
	}

	lastIsCall := numInits > 0 && ast.IsCall(inits[numInits-1])

	for i := 0; i < numNames; i++ {
		if i >= numInits {
			fs.emit(Instruction{Op: LOADNIL, A: locals[i].Reg, B: 0})
			continue
		}

		fs.pushSet2Reg(int(locals[i].Reg))
		if i == numInits-1 && lastIsCall {
			// spec.md §4.6 describes the wanted count as "N - M, the
			// excess beyond those already bound by earlier expressions".
			// The worked example in §8 scenario 2 (`local a, b = f()`,
			// CALL ... C=3, i.e. 2 results requested) shows the call must
			// actually be asked for (numNames - i) total results: this
			// expression's own result plus the excess, since "earlier
			// expressions" only covers indices before i.
			fs.pushRetNum(int32(numNames - i))
			cg.expr(fs, inits[i])
			fs.popRetNum()
			fs.popSet2Reg()
			// Excess names already occupy the contiguous registers
			// following locals[i].Reg, since all of locals were declared
			// in sequence before any expression was visited; the call's
			// multi-return populated them directly.
			break
		}
		fs.pushRetNum(1)
		cg.expr(fs, inits[i])
		fs.popRetNum()
		fs.popSet2Reg()
	}
}

// assignTargetKind identifies what kind of storage an assignment's
// left-hand side resolves to.
type assignTargetKind int

const (
	assignLocal assignTargetKind = iota
	assignUpvalue
	assignGlobal
)

type assignTarget struct {
	kind     assignTargetKind
	reg      uint8  // assignLocal
	upvalIdx uint8  // assignUpvalue
	nameIdx  uint32 // assignGlobal: constant-pool index of the name
}

// deferredWrite records a SETUPVAL or SETTABUP that must be emitted after
// every right-hand side of an assignment has been visited (spec.md §4.6
// "Assignment": "After all N iterations, emit the deferred SETUPVAL and
// SETTABUP instructions in collection order").
type deferredWrite struct {
	upvalue  bool // true: SETUPVAL, false: SETTABUP
	valueReg uint8
	upvalIdx uint8  // upvalue == true
	envIdx   uint8  // upvalue == false
	nameIdx  uint32 // upvalue == false
}

// sequenceItems returns the flattened expression list of e: its Items if e
// is a *ast.SequenceExpression, or a single-element slice otherwise. Used
// for both sides of an *ast.AssignmentExpression (spec.md §6).
func sequenceItems(e ast.Expr) []ast.Expr {
	if seq, ok := e.(*ast.SequenceExpression); ok {
		return seq.Items
	}
	return []ast.Expr{e}
}

// resolveAssignTarget determines what kind of storage l refers to. Every
// assignment target in this AST subset is a bare identifier (no table or
// field assignment, out of scope per spec.md §1).
func (cg *codegen) resolveAssignTarget(fs *FnState, l ast.Expr) assignTarget {
	id, ok := l.(*ast.Identifier)
	if !ok {
		panic(fmt.Sprintf("compiler: unsupported assignment target %T", l))
	}
	if local, ok := fs.lookupLocal(id.Name); ok {
		return assignTarget{kind: assignLocal, reg: local.Reg}
	}
	if uv, ok := fs.resolveUpvalue(id.Name); ok {
		return assignTarget{kind: assignUpvalue, upvalIdx: uv.Idx}
	}
	fs.ensureEnvUpvalue()
	nameIdx := fs.internGlobal(id.Name)
	return assignTarget{kind: assignGlobal, nameIdx: nameIdx}
}

// commitAssignTarget records (or immediately emits, for a local) the write
// of valueReg into target.
func (cg *codegen) commitAssignTarget(fs *FnState, target assignTarget, valueReg uint8, deferred *[]deferredWrite) {
	switch target.kind {
	case assignLocal:
		if valueReg != target.reg {
			fs.emit(Instruction{Op: MOVE, A: target.reg, B: uint32(valueReg)})
		}
	case assignUpvalue:
		*deferred = append(*deferred, deferredWrite{upvalue: true, valueReg: valueReg, upvalIdx: target.upvalIdx})
	case assignGlobal:
		*deferred = append(*deferred, deferredWrite{upvalue: false, valueReg: valueReg, envIdx: fs.ensureEnvUpvalue(), nameIdx: target.nameIdx})
	}
}

// assignmentStatement lowers `l1, ..., lN = r1, ..., rM` (spec.md §4.6
// "Assignment"), reached through the *ast.ExpressionStatement /
// *ast.AssignmentExpression wrapping described in SPEC_FULL's AST module.
func (cg *codegen) assignmentStatement(fs *FnState, stmt *ast.ExpressionStatement) {
	assign, ok := stmt.Expr.(*ast.AssignmentExpression)
	if !ok {
		panic(fmt.Sprintf("compiler: unsupported expression statement %T", stmt.Expr))
	}

	lhs := sequenceItems(assign.Left)
	rhs := sequenceItems(assign.Right)
	n, m := len(lhs), len(rhs)
	lastIsCall := m > 0 && ast.IsCall(rhs[m-1])

	targets := make([]assignTarget, n)
	for i, l := range lhs {
		targets[i] = cg.resolveAssignTarget(fs, l)
	}

	var deferred []deferredWrite

	for i := 0; i < m && i < n; i++ {
		target := targets[i]

		if i == m-1 && lastIsCall && n > m {
			// See variableDeclaration's identical reasoning: the call must
			// be asked for (n - i) total results (this target's own value
			// plus every excess LHS beyond it). This bookkeeping is only
			// verified correct when every excess LHS is a local (spec.md
			// §9); excess upvalue/global targets below still work since
			// commitAssignTarget only needs a value register to defer a
			// write from, but that path is not exercised by the worked
			// examples.
			base := fs.usableReg()
			fs.pushSet2Reg(int(base))
			fs.pushRetNum(int32(n - i))
			cg.expr(fs, rhs[i])
			fs.popRetNum()
			fs.popSet2Reg()

			cg.commitAssignTarget(fs, target, base, &deferred)
			for j := i + 1; j < n; j++ {
				cg.commitAssignTarget(fs, targets[j], base+uint8(j-i), &deferred)
			}
			break
		}

		var valueReg uint8
		if target.kind == assignLocal {
			valueReg = target.reg
		} else {
			valueReg = fs.usableReg()
		}
		fs.pushSet2Reg(int(valueReg))
		fs.pushRetNum(1)
		cg.expr(fs, rhs[i])
		fs.popRetNum()
		fs.popSet2Reg()
		cg.commitAssignTarget(fs, target, valueReg, &deferred)
	}

	if !lastIsCall {
		for i := m; i < n; i++ {
			target := targets[i]
			var valueReg uint8
			if target.kind == assignLocal {
				valueReg = target.reg
			} else {
				valueReg = fs.usableReg()
			}
			fs.emit(Instruction{Op: LOADNIL, A: valueReg, B: 0})
			cg.commitAssignTarget(fs, target, valueReg, &deferred)
		}
	}

	for _, dw := range deferred {
		if dw.upvalue {
			fs.emit(Instruction{Op: SETUPVAL, A: dw.valueReg, B: uint32(dw.upvalIdx)})
		} else {
			fs.emit(Instruction{Op: SETTABUP, A: dw.envIdx, B: RK(dw.nameIdx), C: uint32(dw.valueReg)})
		}
	}
}

// ifStatement lowers if/elseif/else (spec.md §4.6 "If statement"). An
// elseif is represented by the parser as a single-statement Else block
// containing a nested *ast.IfStatement, requiring no special handling here.
func (cg *codegen) ifStatement(fs *FnState, n *ast.IfStatement) {
	testReg := cg.testCondition(fs, n.Test)
	fs.emit(Instruction{Op: TEST, A: testReg, C: 0})
	jmp1 := fs.emit(Instruction{Op: JMP})

	cg.block(fs, n.Then)
	jmp2 := fs.emit(Instruction{Op: JMP})
	fs.patchJump(jmp1, fs.here())

	if n.Else != nil {
		cg.block(fs, n.Else)
	}
	fs.patchJump(jmp2, fs.here())
}

// testCondition evaluates an if-statement's test, returning the register
// TEST should check. See comparisonNoMaterialize for why a bare
// comparison test skips the generic boolean-materialization path.
func (cg *codegen) testCondition(fs *FnState, test ast.Expr) uint8 {
	if bin, ok := test.(*ast.BinaryExpression); ok && bin.Op.IsComparison() {
		return cg.comparisonNoMaterialize(fs, bin)
	}

	reg := fs.usableReg()
	fs.pushSet2Reg(int(reg))
	fs.pushRetNum(1)
	cg.expr(fs, test)
	fs.popRetNum()
	fs.popSet2Reg()
	return reg
}

// returnStatement lowers `return e1, e2, ...` (spec.md §4.6 "Return
// statement").
func (cg *codegen) returnStatement(fs *FnState, n *ast.ReturnStatement) {
	if len(n.Results) == 0 {
		fs.emit(Instruction{Op: RETURN, A: 0, B: 1})
		return
	}

	first := fs.nextReg
	count := len(n.Results)
	trailingCall := ast.IsCall(n.Results[count-1])

	for i, e := range n.Results {
		reg := fs.nextRegister()
		fs.pushSet2Reg(int(reg))
		if i == count-1 && trailingCall {
			fs.pushRetNum(-1)
		} else {
			fs.pushRetNum(1)
		}
		cg.expr(fs, e)
		fs.popRetNum()
		fs.popSet2Reg()
	}

	b := uint32(count + 1)
	if trailingCall {
		b = 0
	}
	fs.emit(Instruction{Op: RETURN, A: first, B: b})
}

// functionStatement lowers `[local] function name(params) .. end` (spec.md
// §4.6 "Function declaration (statement)").
func (cg *codegen) functionStatement(fs *FnState, n *ast.FunctionStatement) {
	child := fs.newChild()
	for _, p := range n.Params {
		child.defLocal(p.Name, -1)
	}
	cg.block(child, n.Body)
	if !blockEndsInReturn(n.Body) {
		child.emit(Instruction{Op: RETURN, A: 0, B: 1})
	}

	target := fs.targetReg()
	if n.IsLocal {
		fs.defLocal(n.Name.Name, int(target))
	}
	fs.emit(Instruction{Op: CLOSURE, A: target, Bx: uint32(child.ProtoIdx)})
	if !n.IsLocal {
		envIdx := fs.ensureEnvUpvalue()
		nameIdx := fs.internGlobal(n.Name.Name)
		fs.emit(Instruction{Op: SETTABUP, A: envIdx, B: RK(nameIdx), C: uint32(target)})
	}
}
