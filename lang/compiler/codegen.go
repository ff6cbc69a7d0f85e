// Package compiler implements the code generator described by this
// repository: given a parsed Lua chunk (lang/ast), it produces a tree of
// Prototypes (FnState) containing register-machine instructions, a
// constant pool, an upvalue table and nested child prototypes, ready for a
// downstream bytecode serializer. Lexing, parsing, serialization and
// execution are external collaborators and are not implemented here.
//
// Much of this package's shape is adapted from the Starlark-derived
// compiler it is grounded on: a Program/FnState split mirroring that
// compiler's pcomp/fcomp, panic-based fatal errors for conditions a
// well-formed, fully-resolved AST should never produce, and a pseudo-
// assembly textual form (asm.go) for tests.
package compiler

import (
	"fmt"

	"github.com/mna/luagen/lang/ast"
)

// Compile compiles a single parsed chunk into a Program rooted at its
// top-level Prototype, per spec.md §4.6 ("Chunk").
//
// Compile does not return an error: a chunk built only from the AST node
// kinds this package implements always compiles to a valid Program. An
// unsupported construct (e.g. a loop or table literal, excluded by this
// generator's non-goals) is a programmer error in the caller and panics
// immediately, per this package's error handling design.
func Compile(chunk *ast.Chunk) *Program {
	prog := newRoot()
	root := prog.Toplevel

	cg := &codegen{}
	cg.block(root, chunk.Block)

	root.emit(Instruction{Op: RETURN, A: 0, B: 1})
	return prog
}

// codegen carries no state of its own: all mutable compilation state lives
// on the FnState being built, per spec.md §4.5's description of the
// context channels as stacks on the current prototype. codegen only hosts
// the dispatch methods, playing the role the teacher's fcomp plays for a
// single function's worth of statements and expressions.
type codegen struct{}

// block visits every statement of b in order (spec.md §4.6 "Block
// statement").
func (cg *codegen) block(fs *FnState, b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		cg.stmt(fs, s)
	}
}

// stmt dispatches on the concrete statement node type via a direct,
// exhaustive type switch rather than the ast.Visitor double-dispatch
// pattern, per spec.md §9's design note (no virtual dispatch is required
// over a closed AST).
func (cg *codegen) stmt(fs *FnState, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VariableDeclaration:
		cg.variableDeclaration(fs, n)
	case *ast.ExpressionStatement:
		cg.assignmentStatement(fs, n)
	case *ast.CallStatement:
		fs.pushSet2Reg(-1)
		fs.pushRetNum(0)
		cg.callExpression(fs, n.Call)
		fs.popRetNum()
		fs.popSet2Reg()
	case *ast.IfStatement:
		cg.ifStatement(fs, n)
	case *ast.ReturnStatement:
		cg.returnStatement(fs, n)
	case *ast.FunctionStatement:
		cg.functionStatement(fs, n)
	default:
		panic(fmt.Sprintf("compiler: unsupported statement construct %T", s))
	}
}

// expr dispatches on the concrete expression node type, delivering its
// primary result into fs's current set2reg target (expr.go has the full
// per-kind lowering).
func (cg *codegen) expr(fs *FnState, e ast.Expr) {
	switch n := e.(type) {
	case *ast.Identifier:
		cg.identifier(fs, n)
	case *ast.StringLiteral:
		idx := fs.Consts.intern(String(n.Value))
		fs.emit(Instruction{Op: LOADK, A: fs.targetReg(), Bx: idx})
	case *ast.NumericLiteral:
		idx := fs.Consts.intern(Number(n.Value))
		fs.emit(Instruction{Op: LOADK, A: fs.targetReg(), Bx: idx})
	case *ast.NilLiteral:
		fs.emit(Instruction{Op: LOADNIL, A: fs.targetReg(), B: 0})
	case *ast.BooleanLiteral:
		b := uint32(0)
		if n.Value {
			b = 1
		}
		fs.emit(Instruction{Op: LOADBOOL, A: fs.targetReg(), B: b, C: 0})
	case *ast.BinaryExpression:
		cg.binaryExpression(fs, n)
	case *ast.UnaryExpression:
		cg.unaryExpression(fs, n)
	case *ast.CallExpression:
		cg.callExpression(fs, n)
	case *ast.FunctionExpression:
		cg.functionExpression(fs, n)
	case *ast.SequenceExpression:
		panic("compiler: SequenceExpression must be handled by its containing assignment")
	default:
		panic(fmt.Sprintf("compiler: unsupported expression construct %T", e))
	}
}

// identifier lowers an identifier used as an rvalue (spec.md §4.6
// "Identifier (rvalue)").
func (cg *codegen) identifier(fs *FnState, n *ast.Identifier) {
	if local, ok := fs.lookupLocal(n.Name); ok {
		fs.emit(Instruction{Op: MOVE, A: fs.targetReg(), B: uint32(local.Reg)})
		return
	}
	if uv, ok := fs.resolveUpvalue(n.Name); ok {
		fs.emit(Instruction{Op: GETUPVAL, A: fs.targetReg(), B: uint32(uv.Idx)})
		return
	}
	envIdx := fs.ensureEnvUpvalue()
	nameIdx := fs.internGlobal(n.Name)
	fs.emit(Instruction{Op: GETTABUP, A: fs.targetReg(), B: uint32(envIdx), C: RK(nameIdx)})
}
