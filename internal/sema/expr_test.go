package sema

import (
	"testing"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/types"
)

func TestIntLiteralDefaultsToI32(t *testing.T) {
	p := newProg(t, "app")
	lit := p.intLit("7")
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("x", ast.NoTypeID, lit)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if got := exprType(t, ctx, lit); got != ctx.Types().Builtins().I32 {
		t.Errorf("bare int literal typed as %s, want i32", ctx.Label(lit))
	}
}

func TestIntLiteralAdoptsAnnotation(t *testing.T) {
	p := newProg(t, "app")
	lit := p.intLit("7")
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("x", p.ty("i64"), lit)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if got := exprType(t, ctx, lit); got != ctx.Types().Builtins().I64 {
		t.Errorf("annotated literal typed as %s, want i64", ctx.Label(lit))
	}
}

func TestIntLiteralAdoptsUnsigned(t *testing.T) {
	p := newProg(t, "app")
	lit := p.intLit("200")
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("x", p.ty("u8"), lit)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if got := exprType(t, ctx, lit); got != ctx.Types().Builtins().U8 {
		t.Errorf("literal typed as %s, want u8", ctx.Label(lit))
	}
}

func TestBoolAnnotationMismatch(t *testing.T) {
	p := newProg(t, "app")
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("x", p.ty("bool"), p.intLit("1"))))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestArithmeticSameWidth(t *testing.T) {
	p := newProg(t, "app")
	sum := p.bin(ast.ExprBinaryAdd, p.ident("a"), p.ident("b"))
	p.fn("f", []param{
		{name: "a", typ: p.ty("i32")},
		{name: "b", typ: p.ty("i32")},
	}, p.ty("i32"), p.block(p.ret(sum)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if got := exprType(t, ctx, sum); got != ctx.Types().Builtins().I32 {
		t.Errorf("i32 + i32 typed as %s", ctx.Label(sum))
	}
}

func TestArithmeticMixedWidthRejected(t *testing.T) {
	p := newProg(t, "app")
	sum := p.bin(ast.ExprBinaryAdd, p.ident("a"), p.ident("b"))
	p.fn("f", []param{
		{name: "a", typ: p.ty("i32")},
		{name: "b", typ: p.ty("i64")},
	}, ast.NoTypeID, p.block(p.exprStmt(sum)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestArithmeticOnBoolRejected(t *testing.T) {
	p := newProg(t, "app")
	sum := p.bin(ast.ExprBinaryAdd, p.boolLit(true), p.boolLit(false))
	p.fn("f", nil, ast.NoTypeID, p.block(p.exprStmt(sum)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaInvalidBinaryOperands)
}

func TestShiftWidthsMayDiffer(t *testing.T) {
	p := newProg(t, "app")
	shl := p.bin(ast.ExprBinaryShl, p.ident("a"), p.ident("s"))
	p.fn("f", []param{
		{name: "a", typ: p.ty("i32")},
		{name: "s", typ: p.ty("u8")},
	}, p.ty("i32"), p.block(p.ret(shl)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	// результат сдвига наследует тип левого операнда
	if got := exprType(t, ctx, shl); got != ctx.Types().Builtins().I32 {
		t.Errorf("shift typed as %s, want i32", ctx.Label(shl))
	}
}

func TestComparisonYieldsBool(t *testing.T) {
	p := newProg(t, "app")
	lt := p.bin(ast.ExprBinaryLt, p.ident("a"), p.ident("b"))
	eq := p.bin(ast.ExprBinaryEq, p.boolLit(true), p.boolLit(false))
	p.fn("f", []param{
		{name: "a", typ: p.ty("u16")},
		{name: "b", typ: p.ty("u16")},
	}, ast.NoTypeID, p.block(p.exprStmt(lt), p.exprStmt(eq)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if !ctx.NodeIs(lt, types.KindBool) || !ctx.NodeIs(eq, types.KindBool) {
		t.Error("comparisons must be typed bool")
	}
}

func TestNegateUnsignedRejected(t *testing.T) {
	p := newProg(t, "app")
	neg := p.unary(ast.ExprUnaryNeg, p.ident("u"))
	p.fn("f", []param{{name: "u", typ: p.ty("u32")}}, ast.NoTypeID, p.block(p.exprStmt(neg)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaInvalidUnaryOperand)
}

func TestUnaryNotOnBool(t *testing.T) {
	p := newProg(t, "app")
	not := p.unary(ast.ExprUnaryNot, p.boolLit(true))
	p.fn("f", nil, p.ty("bool"), p.block(p.ret(not)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if !ctx.NodeIs(not, types.KindBool) {
		t.Error("!bool must be bool")
	}
}

func TestArrayLiteralElementsUnify(t *testing.T) {
	p := newProg(t, "app")
	arr := p.array(p.intLit("1"), p.intLit("2"), p.intLit("3"))
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("xs", ast.NoTypeID, arr)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	ti, _ := ctx.NodeType(arr)
	desc, _ := ctx.Types().Lookup(ti.Type)
	if desc.Kind != types.KindArray || desc.Count != 3 {
		t.Fatalf("array literal typed as %s", ctx.Label(arr))
	}
	if desc.Elem != ctx.Types().Builtins().I32 {
		t.Error("element type must default to i32")
	}
}

func TestArrayLiteralAgainstAnnotation(t *testing.T) {
	p := newProg(t, "app")
	a := p.intLit("1")
	b := p.intLit("2")
	arr := p.array(a, b)
	elem := p.ty("i64")
	annot := p.tyArray(elem, p.intLit("2"))
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("xs", annot, arr)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	// контекст протекает в элементы
	if got := exprType(t, ctx, a); got != ctx.Types().Builtins().I64 {
		t.Errorf("element typed as %s, want i64", ctx.Label(a))
	}
}

func TestArrayLengthMismatch(t *testing.T) {
	p := newProg(t, "app")
	arr := p.array(p.intLit("1"), p.intLit("2"))
	annot := p.tyArray(p.ty("i32"), p.intLit("3"))
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("xs", annot, arr)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestEmptyArrayLiteralRejected(t *testing.T) {
	p := newProg(t, "app")
	arr := p.array()
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("xs", ast.NoTypeID, arr)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestIndexingArray(t *testing.T) {
	p := newProg(t, "app")
	idx := p.index(p.ident("xs"), p.intLit("1"))
	p.fn("f", []param{{name: "xs", typ: p.tyArray(p.ty("i64"), p.intLit("4"))}},
		p.ty("i64"), p.block(p.ret(idx)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if got := exprType(t, ctx, idx); got != ctx.Types().Builtins().I64 {
		t.Errorf("index result typed as %s, want i64", ctx.Label(idx))
	}
}

func TestIndexingNonArrayRejected(t *testing.T) {
	p := newProg(t, "app")
	idx := p.index(p.ident("n"), p.intLit("0"))
	p.fn("f", []param{{name: "n", typ: p.ty("i32")}}, ast.NoTypeID, p.block(p.exprStmt(idx)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaNotIndexable)
}

func TestConstArraySize(t *testing.T) {
	p := newProg(t, "app")
	p.constDecl("N", ast.VisPrivate, p.ty("i32"), p.intLit("4"))
	arr := p.array(p.intLit("1"), p.intLit("2"), p.intLit("3"), p.intLit("4"))
	annot := p.tyArray(p.ty("i32"), p.ident("N"))
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("xs", annot, arr)))

	_, bag := p.mustCheck()
	expectClean(t, bag)
}

func TestConstArraySizeArithmetic(t *testing.T) {
	p := newProg(t, "app")
	p.constDecl("N", ast.VisPrivate, p.ty("i32"), p.intLit("2"))
	// [i32; N * 2]
	size := p.bin(ast.ExprBinaryMul, p.ident("N"), p.intLit("2"))
	annot := p.tyArray(p.ty("i32"), size)
	arr := p.array(p.intLit("1"), p.intLit("2"), p.intLit("3"), p.intLit("4"))
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("xs", annot, arr)))

	_, bag := p.mustCheck()
	expectClean(t, bag)
}

func TestNonConstArraySizeRejected(t *testing.T) {
	p := newProg(t, "app")
	annot := p.tyArray(p.ty("i32"), p.ident("n"))
	p.fn("f", []param{{name: "n", typ: p.ty("i32")}}, ast.NoTypeID,
		p.block(p.let("xs", annot, p.array(p.intLit("1")))))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaConstNotConstant)
}

func TestGroupPassesExpectationThrough(t *testing.T) {
	p := newProg(t, "app")
	lit := p.intLit("9")
	grp := p.group(lit)
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("x", p.ty("u64"), grp)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	bt := ctx.Types().Builtins()
	if exprType(t, ctx, lit) != bt.U64 || exprType(t, ctx, grp) != bt.U64 {
		t.Error("grouping must be transparent to the expected type")
	}
}

func TestLetWithoutTypeOrValue(t *testing.T) {
	p := newProg(t, "app")
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("x", ast.NoTypeID, ast.NoExprID)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestUnresolvedNameDoesNotCascade(t *testing.T) {
	p := newProg(t, "app")
	// missing — одна ошибка, binary поверх неё молчит
	missing := p.ident("missing")
	sum := p.bin(ast.ExprBinaryAdd, missing, p.intLit("1"))
	p.fn("f", nil, ast.NoTypeID, p.block(p.exprStmt(sum)))

	_, bag := p.mustCheck()
	if bag.Len() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", bag.Len(), collectCodes(bag))
	}
	expectCode(t, bag, diag.SemaUnresolvedName)
}

func TestStringLiteral(t *testing.T) {
	p := newProg(t, "app")
	lit := p.strLit("hello")
	p.fn("f", nil, p.ty("string"), p.block(p.ret(lit)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if !ctx.NodeIs(lit, types.KindString) {
		t.Error("string literal must be typed string")
	}
}

func TestReturnUnitMismatch(t *testing.T) {
	p := newProg(t, "app")
	p.fn("f", nil, p.ty("i32"), p.block(p.ret(ast.NoExprID)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestIfConditionMustBeBool(t *testing.T) {
	p := newProg(t, "app")
	cond := p.intLit("1")
	ifStmt := p.b.Stmts.NewIf(p.span(), cond, p.block(), ast.NoStmtID)
	p.fn("f", nil, ast.NoTypeID, p.block(ifStmt))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestForallBinderInScope(t *testing.T) {
	p := newProg(t, "app")
	use := p.bin(ast.ExprBinaryGe, p.ident("k"), p.intLit("0"))
	body := p.block(p.exprStmt(use))
	quant := p.b.Stmts.NewQuant(ast.StmtForall, p.span(), p.s("k"), p.span(), p.ty("i32"), body)
	p.fn("f", nil, ast.NoTypeID, p.block(quant))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if !ctx.NodeIs(use, types.KindBool) {
		t.Error("quantified comparison must be typed bool")
	}
}
