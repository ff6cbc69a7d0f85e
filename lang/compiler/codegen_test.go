package compiler_test

import (
	"os"
	"testing"

	"github.com/mna/luagen/internal/filetest"
	"github.com/mna/luagen/lang/ast"
	"github.com/mna/luagen/lang/compiler"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var updateGolden = new(bool)

// scenarioFixture describes one golden-file scenario's Lua source and a
// human-readable label, loaded from testdata/scenarios.yaml. The AST itself
// is still hand-built in Go (this module has no parser, see SPEC_FULL's AST
// module), so source here documents intent rather than being compiled.
type scenarioFixture struct {
	Name        string `yaml:"name"`
	Source      string `yaml:"source"`
	Description string `yaml:"description"`
}

func loadScenarioFixtures(t *testing.T, path string) map[string]scenarioFixture {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var fixtures []scenarioFixture
	require.NoError(t, yaml.Unmarshal(data, &fixtures))

	byName := make(map[string]scenarioFixture, len(fixtures))
	for _, f := range fixtures {
		byName[f.Name] = f
	}
	return byName
}

// TestDasmGolden exercises the disassembler end-to-end against a golden
// file, grounded on the teacher's internal/filetest golden-output pattern
// (there used for parser/resolver fixtures). Each scenario's Lua source and
// description come from testdata/scenarios.yaml.
func TestDasmGolden(t *testing.T) {
	fis := filetest.SourceFiles(t, "testdata", ".luachunk")
	require.NotEmpty(t, fis)

	fixtures := loadScenarioFixtures(t, "testdata/scenarios.yaml")

	builders := map[string]func() *ast.Chunk{
		"scenario1_local_assign.luachunk": func() *ast.Chunk {
			return chunk(localDecl([]string{"a"}, num(1)))
		},
	}

	for _, fi := range fis {
		fi := fi
		fixture, ok := fixtures[fi.Name()]
		require.True(t, ok, "no scenarios.yaml entry for %s", fi.Name())
		require.NotEmpty(t, fixture.Description)

		t.Run(fi.Name(), func(t *testing.T) {
			build, ok := builders[fi.Name()]
			require.True(t, ok, "no chunk builder registered for %s", fi.Name())

			prog := compiler.Compile(build())
			out, err := compiler.Dasm(prog)
			require.NoError(t, err)

			filetest.DiffOutput(t, fi, out, "testdata", updateGolden)
		})
	}
}

// TestVariableDeclarationSimple mirrors the worked scenario `local a = 1`.
func TestVariableDeclarationSimple(t *testing.T) {
	prog := compiler.Compile(chunk(localDecl([]string{"a"}, num(1))))
	fs := prog.Toplevel

	require.Equal(t, []compiler.Instruction{
		{Op: compiler.LOADK, A: 0, Bx: 0},
		{Op: compiler.RETURN, A: 0, B: 1},
	}, fs.Code)
	require.Len(t, fs.Locals, 1)
	require.Equal(t, "a", fs.Locals[0].Name)
	require.Equal(t, uint8(0), fs.Locals[0].Reg)
}

// TestVariableDeclarationTrailingCall mirrors `local a, b = f()` where f is
// an undeclared (global) function: the call must be asked for 2 results.
func TestVariableDeclarationTrailingCall(t *testing.T) {
	prog := compiler.Compile(chunk(localDecl([]string{"a", "b"}, call(id("f")))))
	fs := prog.Toplevel

	require.Equal(t, []compiler.Instruction{
		{Op: compiler.GETTABUP, A: 0, B: 0, C: compiler.RK(0)},
		{Op: compiler.CALL, A: 0, B: 1, C: 3},
		{Op: compiler.RETURN, A: 0, B: 1},
	}, fs.Code)
}

// TestAssignmentToGlobal mirrors `x = 1 + 2`.
func TestAssignmentToGlobal(t *testing.T) {
	prog := compiler.Compile(chunk(assign(id("x"), binExpr(ast.OpAdd, num(1), num(2)))))
	fs := prog.Toplevel

	require.Equal(t, []compiler.Instruction{
		{Op: compiler.ADD, A: 0, B: compiler.RK(1), C: compiler.RK(2)},
		{Op: compiler.SETTABUP, A: 0, B: compiler.RK(0), C: 0},
		{Op: compiler.RETURN, A: 0, B: 1},
	}, fs.Code)
}

// TestIfStatementComparison mirrors `if a == 1 then b = 2 end`.
func TestIfStatementComparison(t *testing.T) {
	prog := compiler.Compile(chunk(
		ifStmt(binExpr(ast.OpEq, id("a"), num(1)), block(assign(id("b"), num(2))), nil),
	))
	fs := prog.Toplevel

	require.Equal(t, []compiler.Instruction{
		{Op: compiler.GETTABUP, A: 0, B: 0, C: compiler.RK(0)},
		{Op: compiler.EQ, A: 1, B: 0, C: compiler.RK(1)},
		{Op: compiler.TEST, A: 0, C: 0},
		{Op: compiler.JMP, SBx: 3},
		{Op: compiler.LOADK, A: 1, Bx: 3},
		{Op: compiler.SETTABUP, A: 0, B: compiler.RK(2), C: 1},
		{Op: compiler.JMP, SBx: 0},
		{Op: compiler.RETURN, A: 0, B: 1},
	}, fs.Code)
}

// TestLocalFunctionWithParam mirrors `local function f(x) return x + 1 end`.
func TestLocalFunctionWithParam(t *testing.T) {
	prog := compiler.Compile(chunk(
		fnStmt("f", true, []string{"x"}, block(ret(binExpr(ast.OpAdd, id("x"), num(1))))),
	))
	fs := prog.Toplevel

	require.Equal(t, []compiler.Instruction{
		{Op: compiler.CLOSURE, A: 0, Bx: 0},
		{Op: compiler.RETURN, A: 0, B: 1},
	}, fs.Code)
	require.Len(t, fs.Children, 1)

	child := fs.Children[0]
	require.Equal(t, []compiler.Instruction{
		{Op: compiler.ADD, A: 1, B: 0, C: compiler.RK(0)},
		{Op: compiler.RETURN, A: 1, B: 2},
	}, child.Code)
	require.Len(t, child.Locals, 1)
	require.Equal(t, "x", child.Locals[0].Name)
	require.Equal(t, uint8(0), child.Locals[0].Reg)
}

// TestNestedFunctionCapturesLocal mirrors:
//
//	local function outer()
//	  local y = 1
//	  local function inner() return y end
//	end
func TestNestedFunctionCapturesLocal(t *testing.T) {
	innerBody := block(ret(id("y")))
	outerBody := block(
		localDecl([]string{"y"}, num(1)),
		fnStmt("inner", true, nil, innerBody),
	)
	prog := compiler.Compile(chunk(fnStmt("outer", true, nil, outerBody)))

	outer := prog.Toplevel.Children[0]
	inner := outer.Children[0]

	require.Equal(t, []compiler.Instruction{
		{Op: compiler.GETUPVAL, A: 0, B: 0},
		{Op: compiler.RETURN, A: 0, B: 2},
	}, inner.Code)
	require.Len(t, inner.Upvalues, 1)
	require.Equal(t, "y", inner.Upvalues[0].Name)
	require.True(t, inner.Upvalues[0].InStack)
	require.Equal(t, uint8(0), inner.Upvalues[0].Idx)
}

// TestCallStatementDiscardsResults mirrors `print("hi")` used as a bare
// statement: the caller wants zero results back (spec.md §4.6 "Call
// expression", C=1 encodes "0 results").
func TestCallStatementDiscardsResults(t *testing.T) {
	prog := compiler.Compile(chunk(callStmt(call(id("print"), str("hi")))))
	fs := prog.Toplevel

	require.Equal(t, []compiler.Instruction{
		{Op: compiler.GETTABUP, A: 0, B: 0, C: compiler.RK(0)},
		{Op: compiler.LOADK, A: 1, Bx: 1},
		{Op: compiler.CALL, A: 0, B: 2, C: 1},
		{Op: compiler.RETURN, A: 0, B: 1},
	}, fs.Code)
}

// TestMultipleAssignmentToGlobals mirrors `a, b = 1, 2`: every
// SETTABUP for the deferred global writes must be emitted in the order
// their targets were collected, after both right-hand sides are evaluated.
func TestMultipleAssignmentToGlobals(t *testing.T) {
	prog := compiler.Compile(chunk(assign(seq(id("a"), id("b")), seq(num(1), num(2)))))
	fs := prog.Toplevel

	require.Equal(t, []compiler.Instruction{
		{Op: compiler.LOADK, A: 0, Bx: 2},
		{Op: compiler.LOADK, A: 1, Bx: 3},
		{Op: compiler.SETTABUP, A: 0, B: compiler.RK(0), C: 0},
		{Op: compiler.SETTABUP, A: 0, B: compiler.RK(1), C: 1},
		{Op: compiler.RETURN, A: 0, B: 1},
	}, fs.Code)
}
