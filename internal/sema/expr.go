package sema

import (
	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// typeExpr synthesizes a type bottom-up and records it. Every value
// expression passes through here or through checkExpr exactly once; the
// map doubles as a memo so shared subtrees stay consistent.
func (c *checker) typeExpr(id ast.ExprID) types.TypeID {
	if ti, ok := c.recorded(id); ok {
		return ti.Type
	}
	expr := c.builder.Exprs.Get(id)
	if expr == nil {
		return c.unresolved()
	}
	var t types.TypeID
	origin := ast.NoTypeID
	switch expr.Kind {
	case ast.ExprIdent:
		t = c.typeIdent(id, expr)
	case ast.ExprLit:
		t = c.typeLiteral(id)
	case ast.ExprUnary:
		t = c.typeUnary(id, expr)
	case ast.ExprBinary:
		t = c.typeBinary(id, expr)
	case ast.ExprCall:
		t = c.typeCall(id, expr)
	case ast.ExprMember:
		t = c.typeMember(id)
	case ast.ExprPath:
		t = c.typePath(id, expr)
	case ast.ExprIndex:
		t = c.typeIndex(id)
	case ast.ExprArray:
		t = c.typeArray(id, expr)
	case ast.ExprStruct:
		t, origin = c.typeStructLit(id, expr)
	case ast.ExprGroup:
		data, _ := c.builder.Exprs.Group(id)
		t = c.typeExpr(data.Inner)
	case ast.ExprNondet:
		diag.ReportError(c.reporter, diag.SemaTypeMismatch, expr.Span,
			"cannot infer the type of a non-deterministic value in this position").Emit()
		t = c.unresolved()
	default:
		t = c.unresolved()
	}
	c.record(id, t, origin)
	return t
}

func (c *checker) typeIdent(id ast.ExprID, expr *ast.Expr) types.TypeID {
	data, _ := c.builder.Exprs.Ident(id)
	sym, _, found := c.lookup(c.scope, data.Name)
	if !found {
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, expr.Span,
			"`"+c.name(data.Name)+"` is not defined").Emit()
		return c.unresolved()
	}
	return c.valueTypeOfSymbol(sym, expr.Span, data.Name)
}

func (c *checker) valueTypeOfSymbol(sym *symbols.Symbol, span source.Span, name source.StringID) types.TypeID {
	switch sym.Kind {
	case symbols.SymbolLet, symbols.SymbolParam, symbols.SymbolConst:
		if sym.Type == types.NoTypeID {
			diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
				"`"+c.name(name)+"` is used before its type is known").Emit()
			return c.unresolved()
		}
		return sym.Type
	case symbols.SymbolFunction:
		return c.fnValueType(sym)
	case symbols.SymbolType:
		diag.ReportError(c.reporter, diag.SemaTypeMismatch, span,
			"`"+c.name(name)+"` is a type, not a value").Emit()
		return c.unresolved()
	case symbols.SymbolModule:
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
			"`"+c.name(name)+"` is a module, not a value").Emit()
		return c.unresolved()
	default:
		return c.unresolved()
	}
}

func (c *checker) typeLiteral(id ast.ExprID) types.TypeID {
	lit, _ := c.builder.Exprs.Literal(id)
	bt := c.types.Builtins()
	switch lit.Kind {
	case ast.ExprLitInt:
		// целочисленный литерал без контекста: i32
		return bt.I32
	case ast.ExprLitString:
		return bt.String
	case ast.ExprLitTrue, ast.ExprLitFalse:
		return bt.Bool
	case ast.ExprLitUnit:
		return bt.Unit
	default:
		return c.unresolved()
	}
}

func (c *checker) typeUnary(id ast.ExprID, expr *ast.Expr) types.TypeID {
	data, _ := c.builder.Exprs.Unary(id)
	ot := c.typeExpr(data.Operand)
	desc, ok := c.types.Lookup(ot)
	if !ok || desc.Kind == types.KindUnresolved {
		return c.unresolved()
	}
	switch data.Op {
	case ast.ExprUnaryNeg:
		if desc.Kind == types.KindInt {
			return ot
		}
		if desc.Kind == types.KindUint {
			diag.ReportError(c.reporter, diag.SemaInvalidUnaryOperand, expr.Span,
				"cannot negate a value of type `"+c.label(ot)+"`").Emit()
			return c.unresolved()
		}
	case ast.ExprUnaryNot:
		if desc.Kind == types.KindBool {
			return ot
		}
	case ast.ExprUnaryBitNot:
		if desc.IsNumeric() {
			return ot
		}
	}
	diag.ReportError(c.reporter, diag.SemaInvalidUnaryOperand, expr.Span,
		"operator `"+data.Op.String()+"` is not defined for `"+c.label(ot)+"`").Emit()
	return c.unresolved()
}

func (c *checker) typeBinary(id ast.ExprID, expr *ast.Expr) types.TypeID {
	data, _ := c.builder.Exprs.Binary(id)
	lt := c.typeExpr(data.Left)
	rt := c.typeExpr(data.Right)
	un := c.unresolved()
	if lt == un || rt == un {
		// каскад не раздуваем: ошибка уже в операнде
		return un
	}
	ldesc := c.types.MustLookup(lt)
	rdesc := c.types.MustLookup(rt)

	mismatch := func() {
		diag.ReportError(c.reporter, diag.SemaTypeMismatch, expr.Span,
			"mismatched operand types `"+c.label(lt)+"` and `"+c.label(rt)+"`").Emit()
	}
	invalid := func() {
		diag.ReportError(c.reporter, diag.SemaInvalidBinaryOperands, expr.Span,
			"operator `"+data.Op.String()+"` is not defined for `"+c.label(lt)+"` and `"+c.label(rt)+"`").Emit()
	}

	switch data.Op {
	case ast.ExprBinaryAdd, ast.ExprBinarySub, ast.ExprBinaryMul, ast.ExprBinaryDiv, ast.ExprBinaryRem:
		if !ldesc.IsNumeric() || !rdesc.IsNumeric() {
			invalid()
			return un
		}
		if lt != rt {
			mismatch()
			return un
		}
		return lt
	case ast.ExprBinaryEq, ast.ExprBinaryNe:
		if lt != rt {
			diag.ReportError(c.reporter, diag.SemaTypeMismatch, expr.Span,
				"cannot compare `"+c.label(lt)+"` with `"+c.label(rt)+"`").Emit()
		}
		return c.boolType()
	case ast.ExprBinaryLt, ast.ExprBinaryLe, ast.ExprBinaryGt, ast.ExprBinaryGe:
		if !ldesc.IsNumeric() || !rdesc.IsNumeric() {
			invalid()
		} else if lt != rt {
			mismatch()
		}
		return c.boolType()
	case ast.ExprBinaryAnd, ast.ExprBinaryOr:
		if ldesc.Kind != types.KindBool || rdesc.Kind != types.KindBool {
			invalid()
		}
		return c.boolType()
	case ast.ExprBinaryBitAnd, ast.ExprBinaryBitOr, ast.ExprBinaryBitXor:
		if !ldesc.IsNumeric() || !rdesc.IsNumeric() {
			invalid()
			return un
		}
		if lt != rt {
			mismatch()
			return un
		}
		return lt
	case ast.ExprBinaryShl, ast.ExprBinaryShr:
		// ширина счётчика сдвига не обязана совпадать с левым операндом
		if !ldesc.IsNumeric() || !rdesc.IsNumeric() {
			invalid()
			return un
		}
		return lt
	default:
		return un
	}
}

func (c *checker) typeMember(id ast.ExprID) types.TypeID {
	data, _ := c.builder.Exprs.Member(id)
	tt := c.typeExpr(data.Target)
	if tt == c.unresolved() {
		return c.unresolved()
	}
	desc, ok := c.types.Lookup(tt)
	if !ok {
		return c.unresolved()
	}
	if desc.Kind != types.KindStruct {
		diag.ReportError(c.reporter, diag.SemaUnknownField, data.FieldSpan,
			"type `"+c.label(tt)+"` has no field `"+c.name(data.Field)+"`").Emit()
		return c.unresolved()
	}
	info, _ := c.types.StructOf(tt)
	for _, f := range info.Fields {
		if f.Name == data.Field {
			return f.Type
		}
	}
	b := diag.ReportError(c.reporter, diag.SemaUnknownField, data.FieldSpan,
		"struct `"+c.label(tt)+"` has no field `"+c.name(data.Field)+"`")
	if typeSymID, known := c.typeSym[tt]; known {
		if memberID, found := c.table.Member(typeSymID, data.Field); found {
			if msym := c.table.Symbols.Get(memberID); msym != nil {
				b.WithNote(msym.Span, "a method `"+c.name(data.Field)+"` exists; did you mean to call it?")
			}
		}
	}
	b.Emit()
	return c.unresolved()
}

func (c *checker) typePath(id ast.ExprID, expr *ast.Expr) types.TypeID {
	data, _ := c.builder.Exprs.Path(id)
	pt := c.resolvePathExpr(expr.Span, data.Segments)
	if !pt.ok {
		return c.unresolved()
	}
	if pt.enum != types.NoTypeID {
		return pt.enum
	}
	last := data.Segments[len(data.Segments)-1]
	return c.valueTypeOfSymbol(pt.sym, expr.Span, last)
}

func (c *checker) typeIndex(id ast.ExprID) types.TypeID {
	data, _ := c.builder.Exprs.Index(id)
	tt := c.typeExpr(data.Target)
	it := c.typeExpr(data.Index)
	if idesc, ok := c.types.Lookup(it); ok && !idesc.IsNumeric() && idesc.Kind != types.KindUnresolved {
		idx := c.builder.Exprs.Get(data.Index)
		diag.ReportError(c.reporter, diag.SemaTypeMismatch, idx.Span,
			"array index must be an integer, found `"+c.label(it)+"`").Emit()
	}
	if tt == c.unresolved() {
		return c.unresolved()
	}
	desc, ok := c.types.Lookup(tt)
	if !ok || desc.Kind != types.KindArray {
		target := c.builder.Exprs.Get(data.Target)
		diag.ReportError(c.reporter, diag.SemaNotIndexable, target.Span,
			"type `"+c.label(tt)+"` cannot be indexed").Emit()
		return c.unresolved()
	}
	return desc.Elem
}

func (c *checker) typeArray(id ast.ExprID, expr *ast.Expr) types.TypeID {
	data, _ := c.builder.Exprs.Array(id)
	if len(data.Elements) == 0 {
		diag.ReportError(c.reporter, diag.SemaTypeMismatch, expr.Span,
			"cannot infer the element type of an empty array").Emit()
		return c.unresolved()
	}
	first := c.typeExpr(data.Elements[0])
	for _, el := range data.Elements[1:] {
		c.checkExpr(el, first, ast.NoTypeID)
	}
	if first == c.unresolved() {
		return c.unresolved()
	}
	return c.types.Intern(types.MakeArray(first, uint32(len(data.Elements))))
}

func (c *checker) typeStructLit(id ast.ExprID, expr *ast.Expr) (types.TypeID, ast.TypeID) {
	data, _ := c.builder.Exprs.Struct(id)
	origin := data.Type
	st := c.resolveType(c.scope, data.Type)
	desc, ok := c.types.Lookup(st)
	if st == c.unresolved() || !ok || desc.Kind != types.KindStruct {
		if st != c.unresolved() {
			diag.ReportError(c.reporter, diag.SemaTypeMismatch, expr.Span,
				"`"+c.label(st)+"` is not a struct type").Emit()
		}
		for _, f := range data.Fields {
			c.typeExpr(f.Value)
		}
		return c.unresolved(), origin
	}

	info, _ := c.types.StructOf(st)
	seen := make(map[source.StringID]source.Span, len(data.Fields))
	for _, f := range data.Fields {
		if prev, dup := seen[f.Name]; dup {
			diag.ReportError(c.reporter, diag.SemaDuplicateDeclaration, f.Span,
				"field `"+c.name(f.Name)+"` is given more than once").
				WithNote(prev, "previous value here").
				Emit()
			c.typeExpr(f.Value)
			continue
		}
		seen[f.Name] = f.Span
		var fieldType types.TypeID
		for _, fi := range info.Fields {
			if fi.Name == f.Name {
				fieldType = fi.Type
				break
			}
		}
		if fieldType == types.NoTypeID {
			diag.ReportError(c.reporter, diag.SemaUnknownField, f.Span,
				"struct `"+c.label(st)+"` has no field `"+c.name(f.Name)+"`").Emit()
			c.typeExpr(f.Value)
			continue
		}
		c.checkExpr(f.Value, fieldType, ast.NoTypeID)
	}
	for _, fi := range info.Fields {
		if _, given := seen[fi.Name]; !given {
			diag.ReportError(c.reporter, diag.SemaTypeMismatch, expr.Span,
				"missing field `"+c.name(fi.Name)+"` in struct literal `"+c.label(st)+"`").Emit()
		}
	}
	return st, origin
}

// pathTarget is the resolution result of a `::`-qualified expression.
// enum is set when the path denotes Enum::Variant, which is a value of the
// enum type rather than a symbol.
type pathTarget struct {
	sym   *symbols.Symbol
	symID symbols.SymbolID
	enum  types.TypeID
	ok    bool
}

func (c *checker) resolvePathExpr(span source.Span, segs []source.StringID) pathTarget {
	if len(segs) == 0 {
		return pathTarget{}
	}
	sym, symID, found := c.lookup(c.scope, segs[0])
	if !found {
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
			"`"+c.name(segs[0])+"` is not defined").Emit()
		return pathTarget{}
	}
	if len(segs) == 1 {
		return pathTarget{sym: sym, symID: symID, ok: true}
	}

	for _, seg := range segs[1 : len(segs)-1] {
		if sym.Kind != symbols.SymbolModule {
			diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
				"`"+c.name(seg)+"` is not reachable through a module path").Emit()
			return pathTarget{}
		}
		root, ok := c.table.ModuleScope(sym.ModulePath)
		if !ok {
			return pathTarget{}
		}
		id, fnd, vis := c.resolver.ResolveExported(root, seg)
		if !fnd {
			diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
				"`"+c.name(seg)+"` is not defined in module `"+sym.ModulePath+"`").Emit()
			return pathTarget{}
		}
		if !vis {
			diag.ReportError(c.reporter, diag.SemaVisibilityViolation, span,
				"`"+c.name(seg)+"` is private in module `"+sym.ModulePath+"`").Emit()
			return pathTarget{}
		}
		sym, symID, fnd = c.deref(id)
		if !fnd {
			return pathTarget{}
		}
	}

	last := segs[len(segs)-1]
	switch sym.Kind {
	case symbols.SymbolType:
		if info, isEnum := c.types.EnumOf(sym.Type); isEnum {
			for _, v := range info.Variants {
				if v == last {
					return pathTarget{enum: sym.Type, ok: true}
				}
			}
			if _, hasMember := c.table.Member(symID, last); !hasMember {
				diag.ReportError(c.reporter, diag.SemaUnknownVariant, span,
					"enum `"+c.label(sym.Type)+"` has no variant `"+c.name(last)+"`").Emit()
				return pathTarget{}
			}
		}
		memberID, hasMember := c.table.Member(symID, last)
		if !hasMember {
			diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
				"`"+c.name(sym.Name)+"::"+c.name(last)+"` is not defined").Emit()
			return pathTarget{}
		}
		msym, mid, ok := c.deref(memberID)
		if !ok {
			return pathTarget{}
		}
		return pathTarget{sym: msym, symID: mid, ok: true}
	case symbols.SymbolModule:
		root, ok := c.table.ModuleScope(sym.ModulePath)
		if !ok {
			return pathTarget{}
		}
		id, fnd, vis := c.resolver.ResolveExported(root, last)
		if !fnd {
			diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
				"`"+c.name(last)+"` is not defined in module `"+sym.ModulePath+"`").Emit()
			return pathTarget{}
		}
		if !vis {
			diag.ReportError(c.reporter, diag.SemaVisibilityViolation, span,
				"`"+c.name(last)+"` is private in module `"+sym.ModulePath+"`").Emit()
			return pathTarget{}
		}
		tsym, tid, ok := c.deref(id)
		if !ok {
			return pathTarget{}
		}
		return pathTarget{sym: tsym, symID: tid, ok: true}
	default:
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, span,
			"`"+c.name(segs[0])+"` cannot qualify a path").Emit()
		return pathTarget{}
	}
}
