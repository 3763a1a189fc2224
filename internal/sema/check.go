package sema

import (
	"fmt"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/types"
)

// checkExpr pushes an expected type down into an expression. Only a few
// forms actually absorb the expectation: nondet values, integer literals
// (which otherwise default to i32), grouped expressions, and array
// literals. Everything else synthesizes and is compared.
func (c *checker) checkExpr(id ast.ExprID, expected types.TypeID, origin ast.TypeID) {
	if _, done := c.recorded(id); done {
		return
	}
	expr := c.builder.Exprs.Get(id)
	if expr == nil {
		return
	}
	edesc, eok := c.types.Lookup(expected)

	switch expr.Kind {
	case ast.ExprNondet:
		c.record(id, expected, origin)
		return
	case ast.ExprLit:
		lit, _ := c.builder.Exprs.Literal(id)
		if lit.Kind == ast.ExprLitInt && eok && edesc.IsNumeric() {
			c.record(id, expected, origin)
			return
		}
	case ast.ExprGroup:
		data, _ := c.builder.Exprs.Group(id)
		c.checkExpr(data.Inner, expected, origin)
		if inner, ok := c.recorded(data.Inner); ok {
			c.record(id, inner.Type, origin)
		} else {
			c.record(id, expected, origin)
		}
		return
	case ast.ExprArray:
		if eok && edesc.Kind == types.KindArray {
			data, _ := c.builder.Exprs.Array(id)
			if uint32(len(data.Elements)) != edesc.Count {
				diag.ReportError(c.reporter, diag.SemaTypeMismatch, expr.Span,
					fmt.Sprintf("expected %d element(s), found %d", edesc.Count, len(data.Elements))).Emit()
			}
			for _, el := range data.Elements {
				c.checkExpr(el, edesc.Elem, ast.NoTypeID)
			}
			c.record(id, expected, origin)
			return
		}
	}

	t := c.typeExpr(id)
	if !c.assignable(t, expected) {
		diag.ReportError(c.reporter, diag.SemaTypeMismatch, expr.Span,
			"expected `"+c.label(expected)+"`, found `"+c.label(t)+"`").Emit()
	}
}

// assignable is plain TypeID equality with holes for recovery: an
// Unresolved side means the mismatch was already reported upstream.
func (c *checker) assignable(t, expected types.TypeID) bool {
	if t == expected || expected == types.NoTypeID {
		return true
	}
	un := c.unresolved()
	return t == un || expected == un
}
