package sema

import (
	"testing"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/types"
)

// prog constructs AST arenas by hand, standing in for the external parser.
// Every node gets a distinct span so the dedup reporter never collapses
// unrelated diagnostics.
type prog struct {
	t    *testing.T
	b    *ast.Builder
	fset *source.FileSet
	strs *source.Interner
	file ast.FileID
	src  source.FileID
	off  uint32
}

func newProg(t *testing.T, module ...string) *prog {
	t.Helper()
	p := &prog{
		t:    t,
		b:    ast.NewBuilder(ast.Hints{}),
		fset: source.NewFileSet(),
		strs: source.NewInterner(),
	}
	p.src = p.fset.AddVirtual("test.sg", make([]byte, 1<<12))
	p.newFile(module...)
	return p
}

// newFile starts a new AST file; subsequent items land there.
func (p *prog) newFile(module ...string) ast.FileID {
	segs := make([]source.StringID, 0, len(module))
	for _, m := range module {
		segs = append(segs, p.strs.Intern(m))
	}
	p.file = p.b.NewFile(p.span(), segs)
	return p.file
}

func (p *prog) span() source.Span {
	p.off += 4
	return source.Span{File: p.src, Start: p.off - 4, End: p.off - 1}
}

func (p *prog) s(name string) source.StringID { return p.strs.Intern(name) }

// --- type expressions ---

func (p *prog) ty(segments ...string) ast.TypeID {
	ids := make([]source.StringID, 0, len(segments))
	for _, s := range segments {
		ids = append(ids, p.s(s))
	}
	return p.b.Types.NewPath(p.span(), ids)
}

func (p *prog) tyArray(elem ast.TypeID, size ast.ExprID) ast.TypeID {
	return p.b.Types.NewArray(p.span(), elem, size)
}

// --- expressions ---

func (p *prog) intLit(v string) ast.ExprID {
	return p.b.Exprs.NewLiteral(p.span(), ast.ExprLitInt, p.s(v))
}

func (p *prog) boolLit(v bool) ast.ExprID {
	kind := ast.ExprLitFalse
	if v {
		kind = ast.ExprLitTrue
	}
	return p.b.Exprs.NewLiteral(p.span(), kind, source.NoStringID)
}

func (p *prog) strLit(v string) ast.ExprID {
	return p.b.Exprs.NewLiteral(p.span(), ast.ExprLitString, p.s(v))
}

func (p *prog) ident(name string) ast.ExprID {
	return p.b.Exprs.NewIdent(p.span(), p.s(name))
}

func (p *prog) path(segments ...string) ast.ExprID {
	ids := make([]source.StringID, 0, len(segments))
	for _, s := range segments {
		ids = append(ids, p.s(s))
	}
	return p.b.Exprs.NewPath(p.span(), ids)
}

func (p *prog) nondet() ast.ExprID { return p.b.Exprs.NewNondet(p.span()) }

func (p *prog) unary(op ast.ExprUnaryOp, operand ast.ExprID) ast.ExprID {
	return p.b.Exprs.NewUnary(p.span(), op, operand)
}

func (p *prog) bin(op ast.ExprBinaryOp, left, right ast.ExprID) ast.ExprID {
	return p.b.Exprs.NewBinary(p.span(), op, left, right)
}

func (p *prog) call(target ast.ExprID, args ...ast.ExprID) ast.ExprID {
	return p.b.Exprs.NewCall(p.span(), target, args)
}

func (p *prog) member(target ast.ExprID, field string) ast.ExprID {
	return p.b.Exprs.NewMember(p.span(), target, p.s(field), p.span())
}

func (p *prog) index(target, idx ast.ExprID) ast.ExprID {
	return p.b.Exprs.NewIndex(p.span(), target, idx)
}

func (p *prog) array(elems ...ast.ExprID) ast.ExprID {
	return p.b.Exprs.NewArray(p.span(), elems)
}

func (p *prog) group(inner ast.ExprID) ast.ExprID {
	return p.b.Exprs.NewGroup(p.span(), inner)
}

type fieldVal struct {
	name  string
	value ast.ExprID
}

func (p *prog) structLit(typ ast.TypeID, fields ...fieldVal) ast.ExprID {
	fs := make([]ast.ExprStructField, 0, len(fields))
	for _, f := range fields {
		fs = append(fs, ast.ExprStructField{Name: p.s(f.name), Value: f.value, Span: p.span()})
	}
	return p.b.Exprs.NewStruct(p.span(), typ, fs)
}

// --- statements ---

func (p *prog) block(stmts ...ast.StmtID) ast.StmtID {
	return p.b.Stmts.NewBlock(p.span(), stmts)
}

func (p *prog) let(name string, typ ast.TypeID, value ast.ExprID) ast.StmtID {
	return p.b.Stmts.NewLet(p.span(), p.s(name), p.span(), false, typ, value)
}

func (p *prog) letMut(name string, typ ast.TypeID, value ast.ExprID) ast.StmtID {
	return p.b.Stmts.NewLet(p.span(), p.s(name), p.span(), true, typ, value)
}

func (p *prog) assign(target, value ast.ExprID) ast.StmtID {
	return p.b.Stmts.NewAssign(p.span(), target, value)
}

func (p *prog) ret(value ast.ExprID) ast.StmtID {
	return p.b.Stmts.NewReturn(p.span(), value)
}

func (p *prog) exprStmt(e ast.ExprID) ast.StmtID {
	return p.b.Stmts.NewExpr(p.span(), e)
}

// --- items ---

type param struct {
	name string
	typ  ast.TypeID
	self bool
}

func (p *prog) params(ps []param) ([]ast.FnParamID, bool) {
	out := make([]ast.FnParamID, 0, len(ps))
	hasRecv := false
	for _, pr := range ps {
		if pr.self {
			hasRecv = true
		}
		out = append(out, p.b.Items.NewFnParam(p.s(pr.name), p.span(), pr.typ, pr.self, p.span()))
	}
	return out, hasRecv
}

func (p *prog) fn(name string, ps []param, ret ast.TypeID, body ast.StmtID) ast.ItemID {
	return p.fnFull(name, "", nil, ps, ret, body, ast.VisPublic)
}

func (p *prog) method(owner, name string, ps []param, ret ast.TypeID, body ast.StmtID) ast.ItemID {
	return p.fnFull(name, owner, nil, ps, ret, body, ast.VisPublic)
}

func (p *prog) genericFn(name string, tparams []string, ps []param, ret ast.TypeID, body ast.StmtID) ast.ItemID {
	return p.fnFull(name, "", tparams, ps, ret, body, ast.VisPublic)
}

func (p *prog) fnFull(name, owner string, tparams []string, ps []param, ret ast.TypeID, body ast.StmtID, vis ast.Visibility) ast.ItemID {
	tps := make([]ast.TypeParam, 0, len(tparams))
	for _, tp := range tparams {
		tps = append(tps, ast.TypeParam{Name: p.s(tp), Span: p.span()})
	}
	ownerID := source.NoStringID
	if owner != "" {
		ownerID = p.s(owner)
	}
	pids, hasRecv := p.params(ps)
	item := p.b.Items.NewFn(p.s(name), p.span(), ownerID, vis, tps, pids, hasRecv, ret, body, p.span())
	p.b.PushItem(p.file, item)
	return item
}

type fieldDecl struct {
	name string
	typ  ast.TypeID
}

func (p *prog) structDecl(name string, vis ast.Visibility, fields ...fieldDecl) ast.ItemID {
	fs := make([]ast.FieldID, 0, len(fields))
	for _, f := range fields {
		fs = append(fs, p.b.Items.NewField(p.s(f.name), p.span(), f.typ, p.span()))
	}
	item := p.b.Items.NewStruct(p.s(name), p.span(), vis, fs, p.span())
	p.b.PushItem(p.file, item)
	return item
}

func (p *prog) enumDecl(name string, vis ast.Visibility, variants ...string) ast.ItemID {
	vs := make([]ast.VariantID, 0, len(variants))
	for _, v := range variants {
		vs = append(vs, p.b.Items.NewVariant(p.s(v), p.span()))
	}
	item := p.b.Items.NewEnum(p.s(name), p.span(), vis, vs, p.span())
	p.b.PushItem(p.file, item)
	return item
}

func (p *prog) aliasDecl(name string, vis ast.Visibility, target ast.TypeID) ast.ItemID {
	item := p.b.Items.NewAlias(p.s(name), p.span(), vis, target, p.span())
	p.b.PushItem(p.file, item)
	return item
}

func (p *prog) constDecl(name string, vis ast.Visibility, typ ast.TypeID, value ast.ExprID) ast.ItemID {
	item := p.b.Items.NewConst(p.s(name), p.span(), vis, typ, value, p.span())
	p.b.PushItem(p.file, item)
	return item
}

func (p *prog) importModule(module ...string) ast.ItemID {
	segs := make([]source.StringID, 0, len(module))
	for _, m := range module {
		segs = append(segs, p.s(m))
	}
	item := p.b.Items.NewImport(p.span(), segs, source.NoStringID, nil, false, false)
	p.b.PushItem(p.file, item)
	return item
}

func (p *prog) importGlob(module ...string) ast.ItemID {
	segs := make([]source.StringID, 0, len(module))
	for _, m := range module {
		segs = append(segs, p.s(m))
	}
	item := p.b.Items.NewImport(p.span(), segs, source.NoStringID, nil, false, true)
	p.b.PushItem(p.file, item)
	return item
}

func (p *prog) importNames(module []string, names ...string) ast.ItemID {
	segs := make([]source.StringID, 0, len(module))
	for _, m := range module {
		segs = append(segs, p.s(m))
	}
	group := make([]ast.ImportPair, 0, len(names))
	for _, n := range names {
		group = append(group, ast.ImportPair{Name: p.s(n), Span: p.span()})
	}
	item := p.b.Items.NewImport(p.span(), segs, source.NoStringID, group, true, false)
	p.b.PushItem(p.file, item)
	return item
}

// --- running and assertions ---

func (p *prog) check() (*TypedContext, *diag.Bag, error) {
	p.t.Helper()
	return BuildTypedContext(p.b, p.fset, Options{Strings: p.strs})
}

// mustCheck fails the test on internal invariant violations. User-facing
// diagnostics stay in the bag for the caller to inspect.
func (p *prog) mustCheck() (*TypedContext, *diag.Bag) {
	p.t.Helper()
	ctx, bag, err := p.check()
	if err != nil {
		p.t.Fatalf("checker defect: %v\ndiagnostics: %v", err, collectCodes(bag))
	}
	return ctx, bag
}

func collectCodes(bag *diag.Bag) []diag.Code {
	items := bag.Items()
	codes := make([]diag.Code, 0, len(items))
	for _, it := range items {
		codes = append(codes, it.Code)
	}
	return codes
}

func containsCode(codes []diag.Code, want diag.Code) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}

func expectClean(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", collectCodes(bag))
	}
}

func expectCode(t *testing.T, bag *diag.Bag, want diag.Code) {
	t.Helper()
	if !containsCode(collectCodes(bag), want) {
		t.Fatalf("expected %s, got: %v", want, collectCodes(bag))
	}
}

func exprType(t *testing.T, ctx *TypedContext, id ast.ExprID) types.TypeID {
	t.Helper()
	ti, ok := ctx.NodeType(id)
	if !ok {
		t.Fatalf("no type recorded for expression %d", id)
	}
	return ti.Type
}
