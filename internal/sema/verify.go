package sema

import (
	"fmt"

	"sigil/internal/ast"
	"sigil/internal/types"
)

// verifyCompletion is the self-check run after all phases: every value
// expression reachable from a statement must carry a TypeInfo entry, and
// no Unresolved placeholder may survive a run that reported no user
// errors. Violations are checker defects and surface with an internal
// code, never as user diagnostics.
//
// The sweep enumerates value expressions by walking statements, mirroring
// the inference walk. It never descends into type annotations, so
// structural expressions (array length positions, declaration-name
// identifiers, callee heads) are excluded by construction rather than by
// a fragile post-hoc filter.
func (c *checker) verifyCompletion(hadUserErrors bool) {
	c.forEachItem(ast.ItemConst, func(fileID ast.FileID, itemID ast.ItemID) {
		cn, ok := c.builder.Items.Const(itemID)
		if !ok || !cn.Value.IsValid() {
			return
		}
		c.sweepExpr(cn.Value, hadUserErrors)
	})
	c.forEachItem(ast.ItemFn, func(fileID ast.FileID, itemID ast.ItemID) {
		fn, ok := c.builder.Items.Fn(itemID)
		if !ok || !fn.Body.IsValid() {
			return
		}
		c.sweepStmt(fn.Body, hadUserErrors)
	})
}

func (c *checker) sweepStmt(id ast.StmtID, hadUserErrors bool) {
	stmt := c.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		data, _ := c.builder.Stmts.Block(id)
		for _, s := range data.Stmts {
			c.sweepStmt(s, hadUserErrors)
		}
	case ast.StmtLet:
		data, _ := c.builder.Stmts.Let(id)
		if data.Value.IsValid() {
			c.sweepExpr(data.Value, hadUserErrors)
		}
	case ast.StmtAssign:
		data, _ := c.builder.Stmts.Assign(id)
		c.sweepExpr(data.Target, hadUserErrors)
		c.sweepExpr(data.Value, hadUserErrors)
	case ast.StmtReturn:
		data, _ := c.builder.Stmts.Return(id)
		if data.Value.IsValid() {
			c.sweepExpr(data.Value, hadUserErrors)
		}
	case ast.StmtIf:
		data, _ := c.builder.Stmts.If(id)
		c.sweepExpr(data.Cond, hadUserErrors)
		c.sweepStmt(data.Then, hadUserErrors)
		if data.Else.IsValid() {
			c.sweepStmt(data.Else, hadUserErrors)
		}
	case ast.StmtWhile:
		data, _ := c.builder.Stmts.While(id)
		c.sweepExpr(data.Cond, hadUserErrors)
		c.sweepStmt(data.Body, hadUserErrors)
	case ast.StmtExpr:
		data, _ := c.builder.Stmts.Expr(id)
		c.sweepExpr(data.Expr, hadUserErrors)
	case ast.StmtForall, ast.StmtExists:
		data, _ := c.builder.Stmts.Quant(id)
		c.sweepStmt(data.Body, hadUserErrors)
	}
}

func (c *checker) sweepExpr(id ast.ExprID, hadUserErrors bool) {
	expr := c.builder.Exprs.Get(id)
	if expr == nil {
		return
	}
	c.checkCovered(id, expr, hadUserErrors)

	switch expr.Kind {
	case ast.ExprUnary:
		data, _ := c.builder.Exprs.Unary(id)
		c.sweepExpr(data.Operand, hadUserErrors)
	case ast.ExprBinary:
		data, _ := c.builder.Exprs.Binary(id)
		c.sweepExpr(data.Left, hadUserErrors)
		c.sweepExpr(data.Right, hadUserErrors)
	case ast.ExprCall:
		data, _ := c.builder.Exprs.Call(id)
		c.sweepCallTarget(data.Target, hadUserErrors)
		for _, a := range data.Args {
			c.sweepExpr(a, hadUserErrors)
		}
	case ast.ExprMember:
		data, _ := c.builder.Exprs.Member(id)
		c.sweepExpr(data.Target, hadUserErrors)
	case ast.ExprIndex:
		data, _ := c.builder.Exprs.Index(id)
		c.sweepExpr(data.Target, hadUserErrors)
		c.sweepExpr(data.Index, hadUserErrors)
	case ast.ExprArray:
		data, _ := c.builder.Exprs.Array(id)
		for _, el := range data.Elements {
			c.sweepExpr(el, hadUserErrors)
		}
	case ast.ExprStruct:
		data, _ := c.builder.Exprs.Struct(id)
		for _, f := range data.Fields {
			c.sweepExpr(f.Value, hadUserErrors)
		}
	case ast.ExprGroup:
		data, _ := c.builder.Exprs.Group(id)
		c.sweepExpr(data.Inner, hadUserErrors)
	}
}

// sweepCallTarget skips callee-name nodes, which never receive a type:
// calls record the result on the call expression itself. A method call's
// receiver is still a value and is swept.
func (c *checker) sweepCallTarget(target ast.ExprID, hadUserErrors bool) {
	expr := c.builder.Exprs.Get(target)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprIdent, ast.ExprPath:
		return
	case ast.ExprMember:
		data, _ := c.builder.Exprs.Member(target)
		c.sweepExpr(data.Target, hadUserErrors)
	default:
		c.sweepExpr(target, hadUserErrors)
	}
}

func (c *checker) checkCovered(id ast.ExprID, expr *ast.Expr, hadUserErrors bool) {
	ti, ok := c.recorded(id)
	if !ok {
		c.reportInternal(expr.Span,
			fmt.Sprintf("no type recorded for %s expression (node %d)", expr.Kind, id))
		return
	}
	if hadUserErrors {
		return
	}
	if ti.Type == types.NoTypeID || ti.Type == c.unresolved() {
		c.reportInternal(expr.Span,
			fmt.Sprintf("unresolved type survived a clean run on %s expression (node %d)", expr.Kind, id))
	}
}
