package sema

import (
	"fmt"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// callee is the resolved target of a call expression: either a declared
// function with a full signature or a function-typed value. bad marks an
// unresolvable target whose arguments must still be typed for coverage.
type callee struct {
	sig     *symbols.FunctionSignature
	fn      *types.FnInfo
	display string
	decl    source.Span
	bad     bool
}

// typeCall resolves the callee, enforces the receiver discipline, checks
// arity, then matches arguments. Checking continues past each failure so
// one bad call surfaces all of its problems.
func (c *checker) typeCall(id ast.ExprID, expr *ast.Expr) types.TypeID {
	data, _ := c.builder.Exprs.Call(id)
	cal := c.resolveCallee(data.Target)
	if cal.bad || (cal.sig == nil && cal.fn == nil) {
		for _, a := range data.Args {
			c.typeExpr(a)
		}
		return c.unresolved()
	}

	var params []types.TypeID
	var result types.TypeID
	var tparams []types.TypeID
	if cal.sig != nil {
		for _, p := range cal.sig.CallParams() {
			params = append(params, p.Type)
		}
		result = cal.sig.Result
		tparams = cal.sig.TypeParams
	} else {
		params = cal.fn.Params
		result = cal.fn.Result
	}

	if len(data.Args) != len(params) {
		b := diag.ReportError(c.reporter, diag.SemaArityMismatch, expr.Span,
			fmt.Sprintf("`%s` expects %d argument(s), found %d", cal.display, len(params), len(data.Args)))
		if !cal.decl.Empty() {
			b.WithNote(cal.decl, "declared here")
		}
		b.Emit()
	}
	n := min(len(data.Args), len(params))

	if len(tparams) > 0 {
		return c.typeGenericCall(expr.Span, data, params, result, tparams, n)
	}
	for i, a := range data.Args {
		if i < n {
			c.checkExpr(a, params[i], ast.NoTypeID)
		} else {
			c.typeExpr(a)
		}
	}
	return result
}

// typeGenericCall solves a generic signature against the call site by
// first-order unification over the synthesized argument types. Nondet
// arguments never drive unification; they adopt the substituted parameter
// type once every type parameter is solved.
func (c *checker) typeGenericCall(
	span source.Span,
	data *ast.ExprCallData,
	params []types.TypeID,
	result types.TypeID,
	tparams []types.TypeID,
	n int,
) types.TypeID {
	subst := make(map[types.TypeID]types.TypeID, len(tparams))
	deferred := make(map[int]bool)
	argT := make([]types.TypeID, len(data.Args))

	for i, a := range data.Args {
		if i >= n {
			c.typeExpr(a)
			continue
		}
		ae := c.builder.Exprs.Get(a)
		if ae != nil && ae.Kind == ast.ExprNondet {
			deferred[i] = true
			continue
		}
		argT[i] = c.typeExpr(a)
		c.unifyType(params[i], argT[i], subst)
	}

	for _, tp := range tparams {
		if _, solved := subst[tp]; !solved {
			desc := c.types.MustLookup(tp)
			diag.ReportError(c.reporter, diag.SemaUnresolvedGenericParam, span,
				"cannot infer type parameter `"+c.name(desc.Name)+"` from this call").Emit()
			subst[tp] = c.unresolved()
		}
	}

	for i := 0; i < n; i++ {
		want := c.substitute(params[i], subst)
		if deferred[i] {
			c.checkExpr(data.Args[i], want, ast.NoTypeID)
			continue
		}
		if !c.assignable(argT[i], want) {
			ae := c.builder.Exprs.Get(data.Args[i])
			diag.ReportError(c.reporter, diag.SemaTypeMismatch, ae.Span,
				"expected `"+c.label(want)+"`, found `"+c.label(argT[i])+"`").Emit()
		}
	}
	return c.substitute(result, subst)
}

// unifyType binds generic parameters in declared against the actual type.
// Structural mismatches are left to the post-substitution comparison, so
// unification itself never reports.
func (c *checker) unifyType(declared, actual types.TypeID, subst map[types.TypeID]types.TypeID) {
	d, ok := c.types.Lookup(declared)
	if !ok {
		return
	}
	switch d.Kind {
	case types.KindGeneric:
		if actual == c.unresolved() || actual == types.NoTypeID {
			return
		}
		if _, bound := subst[declared]; !bound {
			subst[declared] = actual
		}
	case types.KindArray:
		a, aok := c.types.Lookup(actual)
		if aok && a.Kind == types.KindArray && a.Count == d.Count {
			c.unifyType(d.Elem, a.Elem, subst)
		}
	case types.KindFn:
		di, dok := c.types.FnOf(declared)
		ai, aok := c.types.FnOf(actual)
		if dok && aok && len(di.Params) == len(ai.Params) {
			for i := range di.Params {
				c.unifyType(di.Params[i], ai.Params[i], subst)
			}
			c.unifyType(di.Result, ai.Result, subst)
		}
	}
}

// substitute rewrites generic parameters according to subst, rebuilding
// composite types as needed.
func (c *checker) substitute(t types.TypeID, subst map[types.TypeID]types.TypeID) types.TypeID {
	d, ok := c.types.Lookup(t)
	if !ok {
		return t
	}
	switch d.Kind {
	case types.KindGeneric:
		if r, bound := subst[t]; bound {
			return r
		}
		return t
	case types.KindArray:
		elem := c.substitute(d.Elem, subst)
		if elem == d.Elem {
			return t
		}
		if elem == c.unresolved() {
			return c.unresolved()
		}
		return c.types.Intern(types.MakeArray(elem, d.Count))
	case types.KindFn:
		info, fok := c.types.FnOf(t)
		if !fok {
			return t
		}
		changed := false
		params := make([]types.TypeID, len(info.Params))
		for i, p := range info.Params {
			params[i] = c.substitute(p, subst)
			changed = changed || params[i] != p
		}
		result := c.substitute(info.Result, subst)
		changed = changed || result != info.Result
		if !changed {
			return t
		}
		return c.types.InternFn(params, result)
	default:
		return t
	}
}

func (c *checker) resolveCallee(target ast.ExprID) callee {
	expr := c.builder.Exprs.Get(target)
	if expr == nil {
		return callee{bad: true}
	}
	switch expr.Kind {
	case ast.ExprIdent:
		return c.resolveIdentCallee(target, expr)
	case ast.ExprMember:
		return c.resolveMethodCallee(target, expr)
	case ast.ExprPath:
		return c.resolvePathCallee(target, expr)
	default:
		t := c.typeExpr(target)
		if t == c.unresolved() {
			return callee{bad: true}
		}
		if info, ok := c.types.FnOf(t); ok {
			return callee{fn: info, display: "function value"}
		}
		diag.ReportError(c.reporter, diag.SemaNotCallable, expr.Span,
			"expression of type `"+c.label(t)+"` is not callable").Emit()
		return callee{bad: true}
	}
}

func (c *checker) resolveIdentCallee(target ast.ExprID, expr *ast.Expr) callee {
	data, _ := c.builder.Exprs.Ident(target)
	sym, _, found := c.lookup(c.scope, data.Name)
	if !found {
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, expr.Span,
			"`"+c.name(data.Name)+"` is not defined").Emit()
		return callee{bad: true}
	}
	switch sym.Kind {
	case symbols.SymbolFunction:
		return callee{sig: sym.Signature, display: c.name(data.Name), decl: sym.Span}
	case symbols.SymbolLet, symbols.SymbolParam, symbols.SymbolConst:
		if sym.Type == c.unresolved() || sym.Type == types.NoTypeID {
			return callee{bad: true}
		}
		if info, ok := c.types.FnOf(sym.Type); ok {
			return callee{fn: info, display: c.name(data.Name), decl: sym.Span}
		}
		diag.ReportError(c.reporter, diag.SemaNotCallable, expr.Span,
			"`"+c.name(data.Name)+"` of type `"+c.label(sym.Type)+"` is not callable").Emit()
		return callee{bad: true}
	case symbols.SymbolType:
		diag.ReportError(c.reporter, diag.SemaNotCallable, expr.Span,
			"`"+c.name(data.Name)+"` is a type and cannot be called").Emit()
		return callee{bad: true}
	default:
		diag.ReportError(c.reporter, diag.SemaNotCallable, expr.Span,
			"`"+c.name(data.Name)+"` is not callable").Emit()
		return callee{bad: true}
	}
}

// resolveMethodCallee handles `receiver.method(args)`. The receiver is
// typed first; the method is looked up in the member index of the
// receiver's nominal type. Calling an associated function through an
// instance violates the receiver discipline.
func (c *checker) resolveMethodCallee(target ast.ExprID, expr *ast.Expr) callee {
	data, _ := c.builder.Exprs.Member(target)
	recvType := c.typeExpr(data.Target)
	if recvType == c.unresolved() {
		return callee{bad: true}
	}

	// поле функционального типа на структуре: косвенный вызов
	if info, isStruct := c.types.StructOf(recvType); isStruct {
		for _, f := range info.Fields {
			if f.Name != data.Field {
				continue
			}
			if fnInfo, isFn := c.types.FnOf(f.Type); isFn {
				return callee{fn: fnInfo, display: c.name(data.Field)}
			}
		}
	}

	typeSymID, known := c.typeSym[recvType]
	if !known {
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, data.FieldSpan,
			"no method `"+c.name(data.Field)+"` on type `"+c.label(recvType)+"`").Emit()
		return callee{bad: true}
	}
	memberID, found := c.table.Member(typeSymID, data.Field)
	if !found {
		diag.ReportError(c.reporter, diag.SemaUnresolvedName, data.FieldSpan,
			"no method `"+c.name(data.Field)+"` on type `"+c.label(recvType)+"`").Emit()
		return callee{bad: true}
	}
	msym := c.table.Symbols.Get(memberID)
	if msym == nil || msym.Signature == nil {
		return callee{bad: true}
	}
	display := c.label(recvType) + "::" + c.name(data.Field)
	if !msym.Signature.HasReceiver {
		diag.ReportError(c.reporter, diag.SemaReceiverDiscipline, data.FieldSpan,
			"associated function `"+display+"` cannot be called on an instance").
			WithNote(msym.Span, "declared without a receiver; call it as `"+display+"(...)`").
			Emit()
	}
	return callee{sig: msym.Signature, display: display, decl: msym.Span}
}

// resolvePathCallee handles `Type::fn(args)` and `module::fn(args)`.
// Calling an instance method through its type path without a receiver
// violates the receiver discipline.
func (c *checker) resolvePathCallee(target ast.ExprID, expr *ast.Expr) callee {
	data, _ := c.builder.Exprs.Path(target)
	pt := c.resolvePathExpr(expr.Span, data.Segments)
	if !pt.ok {
		return callee{bad: true}
	}
	display := c.pathDisplay(data.Segments)
	if pt.enum != types.NoTypeID {
		diag.ReportError(c.reporter, diag.SemaNotCallable, expr.Span,
			"enum variant `"+display+"` is not callable").Emit()
		return callee{bad: true}
	}
	sym := pt.sym
	switch sym.Kind {
	case symbols.SymbolFunction:
		if sym.Signature != nil && sym.Signature.HasReceiver {
			diag.ReportError(c.reporter, diag.SemaReceiverDiscipline, expr.Span,
				"instance method `"+display+"` requires a receiver; call it as `value."+c.name(sym.Name)+"(...)`").
				WithNote(sym.Span, "declared here").
				Emit()
			return callee{bad: true}
		}
		return callee{sig: sym.Signature, display: display, decl: sym.Span}
	case symbols.SymbolConst, symbols.SymbolLet:
		if info, ok := c.types.FnOf(sym.Type); ok {
			return callee{fn: info, display: display, decl: sym.Span}
		}
		diag.ReportError(c.reporter, diag.SemaNotCallable, expr.Span,
			"`"+display+"` of type `"+c.label(sym.Type)+"` is not callable").Emit()
		return callee{bad: true}
	case symbols.SymbolType:
		diag.ReportError(c.reporter, diag.SemaNotCallable, expr.Span,
			"`"+display+"` is a type and cannot be called").Emit()
		return callee{bad: true}
	default:
		diag.ReportError(c.reporter, diag.SemaNotCallable, expr.Span,
			"`"+display+"` is not callable").Emit()
		return callee{bad: true}
	}
}

func (c *checker) pathDisplay(segs []source.StringID) string {
	out := ""
	for i, seg := range segs {
		if i > 0 {
			out += "::"
		}
		out += c.name(seg)
	}
	return out
}
