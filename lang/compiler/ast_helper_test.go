package compiler_test

import (
	"github.com/mna/luagen/lang/ast"
)

// Small builder helpers so each test's chunk reads close to the Lua source
// it represents, grounded on the shape of the hand-written ASTs the
// teacher's resolver_test.go constructs for its binding tests.

func id(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func num(v float64) *ast.NumericLiteral { return &ast.NumericLiteral{Value: v} }

func str(v string) *ast.StringLiteral { return &ast.StringLiteral{Value: v} }

func block(stmts ...ast.Stmt) *ast.Block { return &ast.Block{Stmts: stmts} }

func chunk(stmts ...ast.Stmt) *ast.Chunk { return &ast.Chunk{Block: block(stmts...)} }

func localDecl(names []string, init ...ast.Expr) *ast.VariableDeclaration {
	ids := make([]*ast.Identifier, len(names))
	for i, n := range names {
		ids[i] = id(n)
	}
	return &ast.VariableDeclaration{Names: ids, Init: init}
}

func assign(left, right ast.Expr) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Expr: &ast.AssignmentExpression{Left: left, Right: right}}
}

func seq(items ...ast.Expr) ast.Expr {
	if len(items) == 1 {
		return items[0]
	}
	return &ast.SequenceExpression{Items: items}
}

func call(callee ast.Expr, args ...ast.Expr) *ast.CallExpression {
	return &ast.CallExpression{Callee: callee, Args: args}
}

func callStmt(c *ast.CallExpression) *ast.CallStatement { return &ast.CallStatement{Call: c} }

func binExpr(op ast.BinOp, l, r ast.Expr) *ast.BinaryExpression {
	return &ast.BinaryExpression{Op: op, Left: l, Right: r}
}

func ifStmt(test ast.Expr, then, els *ast.Block) *ast.IfStatement {
	return &ast.IfStatement{Test: test, Then: then, Else: els}
}

func ret(results ...ast.Expr) *ast.ReturnStatement { return &ast.ReturnStatement{Results: results} }

func fnStmt(name string, isLocal bool, params []string, body *ast.Block) *ast.FunctionStatement {
	ids := make([]*ast.Identifier, len(params))
	for i, p := range params {
		ids[i] = id(p)
	}
	return &ast.FunctionStatement{Name: id(name), IsLocal: isLocal, Params: ids, Body: body}
}
