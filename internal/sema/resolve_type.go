package sema

import (
	"strconv"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// resolveType turns a syntactic type expression into a semantic TypeID.
// Errors are reported in place and yield the Unresolved placeholder so
// checking can continue.
func (c *checker) resolveType(scope symbols.ScopeID, id ast.TypeID) types.TypeID {
	te := c.builder.Types.Get(id)
	if te == nil {
		return c.unresolved()
	}
	switch te.Kind {
	case ast.TypeExprPath:
		data, _ := c.builder.Types.Path(id)
		return c.resolveTypePath(scope, te.Span, data.Segments)
	case ast.TypeExprArray:
		data, _ := c.builder.Types.Array(id)
		elem := c.resolveType(scope, data.Elem)
		count, ok := c.evalArraySize(scope, data.Size)
		if !ok || elem == c.unresolved() {
			return c.unresolved()
		}
		return c.types.Intern(types.MakeArray(elem, count))
	case ast.TypeExprFn:
		data, _ := c.builder.Types.Fn(id)
		params := make([]types.TypeID, 0, len(data.Params))
		for _, p := range data.Params {
			params = append(params, c.resolveType(scope, p))
		}
		result := c.unit()
		if data.Result.IsValid() {
			result = c.resolveType(scope, data.Result)
		}
		return c.types.InternFn(params, result)
	default:
		return c.unresolved()
	}
}

func (c *checker) resolveTypePath(scope symbols.ScopeID, span source.Span, segments []source.StringID) types.TypeID {
	if len(segments) == 0 {
		return c.unresolved()
	}
	if len(segments) == 1 {
		name := segments[0]
		if tid, ok := c.builtinNames[name]; ok {
			return tid
		}
		if tid, ok := c.typeParams[name]; ok {
			return tid
		}
		sym, symID, found := c.lookup(scope, name)
		if !found {
			diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
				"unknown type `"+c.name(name)+"`").Emit()
			return c.unresolved()
		}
		return c.typeOfSymbol(sym, symID, span, name)
	}

	// module-qualified type: пройти по сегментам модулей до последнего имени
	sym, symID, found := c.lookup(scope, segments[0])
	if !found {
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
			"unknown name `"+c.name(segments[0])+"`").Emit()
		return c.unresolved()
	}
	for _, seg := range segments[1 : len(segments)-1] {
		if sym.Kind != symbols.SymbolModule {
			diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
				"`"+c.name(seg)+"` is not reachable through a module path").Emit()
			return c.unresolved()
		}
		root, ok := c.table.ModuleScope(sym.ModulePath)
		if !ok {
			return c.unresolved()
		}
		id, fnd, vis := c.resolver.ResolveExported(root, seg)
		if !fnd {
			diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
				"`"+c.name(seg)+"` is not defined in module `"+sym.ModulePath+"`").Emit()
			return c.unresolved()
		}
		if !vis {
			diag.ReportError(c.reporter, diag.SemaVisibilityViolation, span,
				"`"+c.name(seg)+"` is private in module `"+sym.ModulePath+"`").Emit()
			return c.unresolved()
		}
		sym, symID, fnd = c.deref(id)
		if !fnd {
			return c.unresolved()
		}
	}
	last := segments[len(segments)-1]
	if sym.Kind != symbols.SymbolModule {
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
			"`"+c.name(last)+"` must be qualified by a module").Emit()
		return c.unresolved()
	}
	root, ok := c.table.ModuleScope(sym.ModulePath)
	if !ok {
		return c.unresolved()
	}
	id, fnd, vis := c.resolver.ResolveExported(root, last)
	if !fnd {
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
			"`"+c.name(last)+"` is not defined in module `"+sym.ModulePath+"`").Emit()
		return c.unresolved()
	}
	if !vis {
		diag.ReportError(c.reporter, diag.SemaVisibilityViolation, span,
			"`"+c.name(last)+"` is private in module `"+sym.ModulePath+"`").Emit()
		return c.unresolved()
	}
	sym, symID, fnd = c.deref(id)
	if !fnd {
		return c.unresolved()
	}
	return c.typeOfSymbol(sym, symID, span, last)
}

// typeOfSymbol extracts the semantic type of a type symbol, populating
// aliases on demand so declaration order does not matter.
func (c *checker) typeOfSymbol(sym *symbols.Symbol, symID symbols.SymbolID, span source.Span, name source.StringID) types.TypeID {
	if sym.Kind != symbols.SymbolType {
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
			"`"+c.name(name)+"` is a "+sym.Kind.String()+", not a type").Emit()
		return c.unresolved()
	}
	if sym.Type == types.NoTypeID {
		if itemID, ok := c.symItem[symID]; ok {
			c.populateAlias(itemID)
			sym = c.table.Symbols.Get(symID)
		}
	}
	if sym.Type == types.NoTypeID {
		return c.unresolved()
	}
	return sym.Type
}

// evalArraySize evaluates an array length as a compile-time constant.
// Integer literals, references to integer constants, and +,-,*,/ over
// them are accepted. The expression is structural: it never receives a
// TypeInfo entry.
func (c *checker) evalArraySize(scope symbols.ScopeID, id ast.ExprID) (uint32, bool) {
	v, ok := c.evalConstInt(scope, id, 0)
	if !ok {
		return 0, false
	}
	if v < 0 || v > int64(^uint32(0)) {
		expr := c.builder.Exprs.Get(id)
		diag.ReportError(c.reporter, diag.SemaConstNotConstant, expr.Span,
			"array length out of range").Emit()
		return 0, false
	}
	return uint32(v), true
}

func (c *checker) evalConstInt(scope symbols.ScopeID, id ast.ExprID, depth int) (int64, bool) {
	expr := c.builder.Exprs.Get(id)
	if expr == nil || depth > 32 {
		return 0, false
	}
	fail := func() (int64, bool) {
		diag.ReportError(c.reporter, diag.SemaConstNotConstant, expr.Span,
			"array length must be a constant integer expression").Emit()
		return 0, false
	}
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := c.builder.Exprs.Literal(id)
		if lit.Kind != ast.ExprLitInt {
			return fail()
		}
		raw, _ := c.strings.Lookup(lit.Value)
		v, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return fail()
		}
		return v, true
	case ast.ExprGroup:
		g, _ := c.builder.Exprs.Group(id)
		return c.evalConstInt(scope, g.Inner, depth+1)
	case ast.ExprUnary:
		u, _ := c.builder.Exprs.Unary(id)
		if u.Op != ast.ExprUnaryNeg {
			return fail()
		}
		v, ok := c.evalConstInt(scope, u.Operand, depth+1)
		if !ok {
			return 0, false
		}
		return -v, true
	case ast.ExprBinary:
		b, _ := c.builder.Exprs.Binary(id)
		l, ok := c.evalConstInt(scope, b.Left, depth+1)
		if !ok {
			return 0, false
		}
		r, ok := c.evalConstInt(scope, b.Right, depth+1)
		if !ok {
			return 0, false
		}
		switch b.Op {
		case ast.ExprBinaryAdd:
			return l + r, true
		case ast.ExprBinarySub:
			return l - r, true
		case ast.ExprBinaryMul:
			return l * r, true
		case ast.ExprBinaryDiv:
			if r == 0 {
				return fail()
			}
			return l / r, true
		default:
			return fail()
		}
	case ast.ExprIdent:
		ident, _ := c.builder.Exprs.Ident(id)
		sym, symID, found := c.lookup(scope, ident.Name)
		if !found || sym.Kind != symbols.SymbolConst {
			return fail()
		}
		itemID, ok := c.symItem[symID]
		if !ok {
			return fail()
		}
		cn, ok := c.builder.Items.Const(itemID)
		if !ok || !cn.Value.IsValid() {
			return fail()
		}
		constScope := c.fileScope[sym.Decl.ASTFile]
		return c.evalConstInt(constScope, cn.Value, depth+1)
	default:
		return fail()
	}
}
