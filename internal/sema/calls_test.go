package sema

import (
	"testing"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/types"
)

func TestCallArityMismatch(t *testing.T) {
	p := newProg(t, "app")
	p.fn("two", []param{
		{name: "a", typ: p.ty("i32")},
		{name: "b", typ: p.ty("i32")},
	}, ast.NoTypeID, p.block())
	bad := p.call(p.ident("two"), p.intLit("1"))
	p.fn("f", nil, ast.NoTypeID, p.block(p.exprStmt(bad)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaArityMismatch)
}

func TestCallArgumentContext(t *testing.T) {
	p := newProg(t, "app")
	p.fn("wide", []param{{name: "v", typ: p.ty("i64")}}, ast.NoTypeID, p.block())
	arg := p.intLit("5")
	p.fn("f", nil, ast.NoTypeID, p.block(p.exprStmt(p.call(p.ident("wide"), arg))))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	// литерал-аргумент принимает тип параметра
	if got := exprType(t, ctx, arg); got != ctx.Types().Builtins().I64 {
		t.Errorf("argument typed as %s, want i64", ctx.Label(arg))
	}
}

func TestCallNotCallable(t *testing.T) {
	p := newProg(t, "app")
	bad := p.call(p.ident("n"))
	p.fn("f", []param{{name: "n", typ: p.ty("i32")}}, ast.NoTypeID, p.block(p.exprStmt(bad)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaNotCallable)
}

func TestInstanceMethodCall(t *testing.T) {
	p := newProg(t, "app")
	p.structDecl("Point", ast.VisPrivate,
		fieldDecl{name: "x", typ: p.ty("i32")},
		fieldDecl{name: "y", typ: p.ty("i32")},
	)
	// fn Point::norm(self) -> i32
	normBody := p.block(p.ret(p.member(p.ident("self"), "x")))
	p.method("Point", "norm", []param{{name: "self", self: true}}, p.ty("i32"), normBody)

	call := p.call(p.member(p.ident("pt"), "norm"))
	p.fn("f", []param{{name: "pt", typ: p.ty("Point")}}, p.ty("i32"), p.block(p.ret(call)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if got := exprType(t, ctx, call); got != ctx.Types().Builtins().I32 {
		t.Errorf("method call typed as %s, want i32", ctx.Label(call))
	}
}

func TestAssociatedFunctionCall(t *testing.T) {
	p := newProg(t, "app")
	p.structDecl("Point", ast.VisPrivate,
		fieldDecl{name: "x", typ: p.ty("i32")},
		fieldDecl{name: "y", typ: p.ty("i32")},
	)
	originBody := p.block(p.ret(p.structLit(p.ty("Point"),
		fieldVal{name: "x", value: p.intLit("0")},
		fieldVal{name: "y", value: p.intLit("0")},
	)))
	p.method("Point", "origin", nil, p.ty("Point"), originBody)

	call := p.call(p.path("Point", "origin"))
	p.fn("f", nil, p.ty("Point"), p.block(p.ret(call)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if !ctx.NodeIs(call, types.KindStruct) {
		t.Errorf("associated call typed as %s, want Point", ctx.Label(call))
	}
}

func TestAssociatedFunctionOnInstanceRejected(t *testing.T) {
	p := newProg(t, "app")
	p.structDecl("Point", ast.VisPrivate, fieldDecl{name: "x", typ: p.ty("i32")})
	p.method("Point", "origin", nil, p.ty("Point"),
		p.block(p.ret(p.structLit(p.ty("Point"), fieldVal{name: "x", value: p.intLit("0")}))))

	// pt.origin() — ассоциированная функция через экземпляр
	bad := p.call(p.member(p.ident("pt"), "origin"))
	p.fn("f", []param{{name: "pt", typ: p.ty("Point")}}, ast.NoTypeID, p.block(p.exprStmt(bad)))

	ctx, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaReceiverDiscipline)
	// проверка продолжается: вызов всё равно типизирован
	if !ctx.NodeIs(bad, types.KindStruct) {
		t.Error("call must still get the declared result type for recovery")
	}
}

func TestInstanceMethodViaTypePathRejected(t *testing.T) {
	p := newProg(t, "app")
	p.structDecl("Point", ast.VisPrivate, fieldDecl{name: "x", typ: p.ty("i32")})
	p.method("Point", "norm", []param{{name: "self", self: true}}, p.ty("i32"),
		p.block(p.ret(p.member(p.ident("self"), "x"))))

	// Point::norm() — метод без получателя
	bad := p.call(p.path("Point", "norm"))
	p.fn("f", nil, ast.NoTypeID, p.block(p.exprStmt(bad)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaReceiverDiscipline)
}

func TestUnknownMethod(t *testing.T) {
	p := newProg(t, "app")
	p.structDecl("Point", ast.VisPrivate, fieldDecl{name: "x", typ: p.ty("i32")})
	bad := p.call(p.member(p.ident("pt"), "missing"))
	p.fn("f", []param{{name: "pt", typ: p.ty("Point")}}, ast.NoTypeID, p.block(p.exprStmt(bad)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaUnresolvedName)
}

func TestGenericCallUnifies(t *testing.T) {
	p := newProg(t, "app")
	// fn id<T>(x: T) -> T { return x; }
	p.genericFn("id", []string{"T"}, []param{{name: "x", typ: p.ty("T")}}, p.ty("T"),
		p.block(p.ret(p.ident("x"))))

	call := p.call(p.ident("id"), p.ident("v"))
	p.fn("f", []param{{name: "v", typ: p.ty("i64")}}, p.ty("i64"), p.block(p.ret(call)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if got := exprType(t, ctx, call); got != ctx.Types().Builtins().I64 {
		t.Errorf("id(v) typed as %s, want i64", ctx.Label(call))
	}
}

func TestGenericCallConflict(t *testing.T) {
	p := newProg(t, "app")
	// fn pair<T>(a: T, b: T) — первое связывание выигрывает, второй аргумент не совпадает
	p.genericFn("pair", []string{"T"}, []param{
		{name: "a", typ: p.ty("T")},
		{name: "b", typ: p.ty("T")},
	}, ast.NoTypeID, p.block())

	bad := p.call(p.ident("pair"), p.ident("x"), p.ident("y"))
	p.fn("f", []param{
		{name: "x", typ: p.ty("i32")},
		{name: "y", typ: p.ty("bool")},
	}, ast.NoTypeID, p.block(p.exprStmt(bad)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestGenericArrayElementUnifies(t *testing.T) {
	p := newProg(t, "app")
	// fn head<T>(xs: [T; 2]) -> T
	arrT := p.tyArray(p.ty("T"), p.intLit("2"))
	p.genericFn("head", []string{"T"}, []param{{name: "xs", typ: arrT}}, p.ty("T"),
		p.block(p.ret(p.index(p.ident("xs"), p.intLit("0")))))

	call := p.call(p.ident("head"), p.ident("v"))
	p.fn("f", []param{{name: "v", typ: p.tyArray(p.ty("u16"), p.intLit("2"))}},
		p.ty("u16"), p.block(p.ret(call)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if got := exprType(t, ctx, call); got != ctx.Types().Builtins().U16 {
		t.Errorf("head(v) typed as %s, want u16", ctx.Label(call))
	}
}

func TestGenericNondetOnlyArgRejected(t *testing.T) {
	p := newProg(t, "app")
	p.genericFn("id", []string{"T"}, []param{{name: "x", typ: p.ty("T")}}, p.ty("T"),
		p.block(p.ret(p.ident("x"))))

	// nondet не участвует в унификации: параметр вывести не из чего
	bad := p.call(p.ident("id"), p.nondet())
	p.fn("f", nil, ast.NoTypeID, p.block(p.exprStmt(bad)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaUnresolvedGenericParam)
}

func TestGenericNondetAdoptsSolvedParam(t *testing.T) {
	p := newProg(t, "app")
	p.genericFn("pick", []string{"T"}, []param{
		{name: "a", typ: p.ty("T")},
		{name: "b", typ: p.ty("T")},
	}, p.ty("T"), p.block(p.ret(p.ident("a"))))

	nd := p.nondet()
	call := p.call(p.ident("pick"), p.ident("v"), nd)
	p.fn("f", []param{{name: "v", typ: p.ty("i64")}}, p.ty("i64"), p.block(p.ret(call)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	bt := ctx.Types().Builtins()
	if got := exprType(t, ctx, nd); got != bt.I64 {
		t.Errorf("deferred nondet typed as %s, want i64", ctx.Label(nd))
	}
	if got := exprType(t, ctx, call); got != bt.I64 {
		t.Errorf("call typed as %s, want i64", ctx.Label(call))
	}
}

func TestNondetReturnAdoptsResultType(t *testing.T) {
	p := newProg(t, "app")
	nd := p.nondet()
	p.fn("any_i32", nil, p.ty("i32"), p.block(p.ret(nd)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if !ctx.IsNumericSubkind(nd, ctx.Types().Builtins().I32) {
		t.Errorf("return-position nondet typed as %s, want i32", ctx.Label(nd))
	}
}

func TestNondetWithoutContextRejected(t *testing.T) {
	p := newProg(t, "app")
	nd := p.nondet()
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("x", ast.NoTypeID, nd)))

	_, bag := p.mustCheck()
	expectCode(t, bag, diag.SemaTypeMismatch)
}

func TestNondetAgainstAnnotation(t *testing.T) {
	p := newProg(t, "app")
	nd := p.nondet()
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("x", p.ty("u32"), nd)))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if got := exprType(t, ctx, nd); got != ctx.Types().Builtins().U32 {
		t.Errorf("annotated nondet typed as %s, want u32", ctx.Label(nd))
	}
}

func TestFunctionAsValue(t *testing.T) {
	p := newProg(t, "app")
	p.fn("inc", []param{{name: "n", typ: p.ty("i32")}}, p.ty("i32"),
		p.block(p.ret(p.bin(ast.ExprBinaryAdd, p.ident("n"), p.intLit("1")))))

	// let g = inc; g(1)
	ref := p.ident("inc")
	call := p.call(p.ident("g"), p.intLit("1"))
	p.fn("f", nil, p.ty("i32"), p.block(
		p.let("g", ast.NoTypeID, ref),
		p.ret(call),
	))

	ctx, bag := p.mustCheck()
	expectClean(t, bag)
	if !ctx.NodeIs(ref, types.KindFn) {
		t.Errorf("function reference typed as %s, want fn", ctx.Label(ref))
	}
	if got := exprType(t, ctx, call); got != ctx.Types().Builtins().I32 {
		t.Errorf("indirect call typed as %s, want i32", ctx.Label(call))
	}
}

func TestFnTypeAnnotation(t *testing.T) {
	p := newProg(t, "app")
	p.fn("inc", []param{{name: "n", typ: p.ty("i32")}}, p.ty("i32"),
		p.block(p.ret(p.ident("n"))))

	// let g: fn(i32) -> i32 = inc;
	fnTy := p.b.Types.NewFn(p.span(), []ast.TypeID{p.ty("i32")}, p.ty("i32"))
	p.fn("f", nil, ast.NoTypeID, p.block(p.let("g", fnTy, p.ident("inc"))))

	_, bag := p.mustCheck()
	expectClean(t, bag)
}
