package sema

import (
	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// inferVariables is the main inference walk: constant initializers first
// (bodies may reference them), then every function body. Types flow
// bottom-up through synthesis and top-down at the three checked slots:
// return values, annotated let bindings, and call arguments.
func (c *checker) inferVariables() {
	c.forEachItem(ast.ItemConst, func(fileID ast.FileID, itemID ast.ItemID) {
		c.inferConst(fileID, itemID)
	})
	c.forEachItem(ast.ItemFn, func(fileID ast.FileID, itemID ast.ItemID) {
		c.checkFunctionBody(fileID, itemID)
	})
}

func (c *checker) inferConst(fileID ast.FileID, itemID ast.ItemID) {
	cn, ok := c.builder.Items.Const(itemID)
	if !ok {
		return
	}
	c.scope = c.fileScope[fileID]
	if !cn.Value.IsValid() {
		diag.ReportError(c.reporter, diag.SemaConstNotConstant, cn.NameSpan,
			"constant `"+c.name(cn.Name)+"` requires an initializer").Emit()
		return
	}
	symID, declared := c.itemSym[itemID]
	if !declared {
		// дубликат: значение всё равно типизируем
		c.typeExpr(cn.Value)
		return
	}
	sym := c.table.Symbols.Get(symID)
	if sym.Type != types.NoTypeID {
		c.checkExpr(cn.Value, sym.Type, cn.Type)
		return
	}
	sym.Type = c.typeExpr(cn.Value)
}

func (c *checker) checkFunctionBody(fileID ast.FileID, itemID ast.ItemID) {
	fn, ok := c.builder.Items.Fn(itemID)
	if !ok {
		return
	}
	moduleScope := c.fileScope[fileID]

	var sig *symbols.FunctionSignature
	if symID, declared := c.itemSym[itemID]; declared {
		sig = c.table.Symbols.Get(symID).Signature
	}

	saved := c.typeParams
	c.typeParams = make(map[source.StringID]types.TypeID, len(fn.TypeParams))
	defer func() { c.typeParams = saved }()

	if sig != nil {
		for _, g := range sig.TypeParams {
			desc := c.types.MustLookup(g)
			c.typeParams[desc.Name] = g
		}
	} else {
		// дубликат объявления: локальная сигнатура ради проверки тела
		for _, tp := range fn.TypeParams {
			if _, dup := c.typeParams[tp.Name]; !dup {
				c.typeParams[tp.Name] = c.types.NewGeneric(tp.Name)
			}
		}
		sig = c.localSignature(moduleScope, fn)
	}

	if !fn.Body.IsValid() {
		return
	}

	fnScope := c.resolver.NewScope(symbols.ScopeFunction, moduleScope, symbols.ScopeOwner{
		Kind:    symbols.ScopeOwnerItem,
		ASTFile: fileID,
		Item:    itemID,
	}, fn.Span)

	for i, pid := range fn.Params {
		p := c.builder.Items.FnParam(pid)
		if p == nil {
			continue
		}
		t := c.unresolved()
		if i < len(sig.Params) {
			t = sig.Params[i].Type
		}
		c.resolver.Declare(fnScope, &symbols.Symbol{
			Name: p.Name,
			Kind: symbols.SymbolParam,
			Span: p.NameSpan,
			Type: t,
			Decl: symbols.SymbolDecl{
				SourceFile: c.sourceFileOf(fileID),
				ASTFile:    fileID,
				Item:       itemID,
			},
		})
	}

	c.scope = fnScope
	c.retType = sig.Result
	c.retOrigin = fn.ReturnType
	c.walkStmt(fn.Body)
}

// localSignature resolves parameter and result types without touching the
// symbol table. Used for duplicate declarations so their bodies are still
// fully checked.
func (c *checker) localSignature(scope symbols.ScopeID, fn *ast.FnItem) *symbols.FunctionSignature {
	params := make([]symbols.ParamSig, 0, len(fn.Params))
	for _, pid := range fn.Params {
		p := c.builder.Items.FnParam(pid)
		if p == nil {
			continue
		}
		t := c.unresolved()
		if !p.IsSelf && p.Type.IsValid() {
			t = c.resolveType(scope, p.Type)
		}
		params = append(params, symbols.ParamSig{Name: p.Name, Type: t, Span: p.Span})
	}
	result := c.unit()
	if fn.ReturnType.IsValid() {
		result = c.resolveType(scope, fn.ReturnType)
	}
	return &symbols.FunctionSignature{
		Params:      params,
		Result:      result,
		HasReceiver: fn.HasReceiver,
		Span:        fn.Span,
	}
}

func (c *checker) walkStmt(id ast.StmtID) {
	stmt := c.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		data, _ := c.builder.Stmts.Block(id)
		prev := c.scope
		c.scope = c.resolver.NewScope(symbols.ScopeBlock, prev, symbols.ScopeOwner{
			Kind: symbols.ScopeOwnerStmt,
			Stmt: id,
		}, stmt.Span)
		for _, s := range data.Stmts {
			c.walkStmt(s)
		}
		c.scope = prev
	case ast.StmtLet:
		c.walkLet(id, stmt)
	case ast.StmtAssign:
		c.walkAssign(id)
	case ast.StmtReturn:
		c.walkReturn(id, stmt)
	case ast.StmtIf:
		data, _ := c.builder.Stmts.If(id)
		c.checkExpr(data.Cond, c.boolType(), ast.NoTypeID)
		c.walkStmt(data.Then)
		if data.Else.IsValid() {
			c.walkStmt(data.Else)
		}
	case ast.StmtWhile:
		data, _ := c.builder.Stmts.While(id)
		c.checkExpr(data.Cond, c.boolType(), ast.NoTypeID)
		c.walkStmt(data.Body)
	case ast.StmtExpr:
		data, _ := c.builder.Stmts.Expr(id)
		c.typeExpr(data.Expr)
	case ast.StmtForall, ast.StmtExists:
		c.walkQuant(id, stmt)
	}
}

func (c *checker) walkLet(id ast.StmtID, stmt *ast.Stmt) {
	data, _ := c.builder.Stmts.Let(id)
	var t types.TypeID
	switch {
	case data.Type.IsValid():
		t = c.resolveType(c.scope, data.Type)
		if data.Value.IsValid() {
			c.checkExpr(data.Value, t, data.Type)
		}
	case data.Value.IsValid():
		t = c.typeExpr(data.Value)
	default:
		diag.ReportError(c.reporter, diag.SemaTypeMismatch, stmt.Span,
			"cannot infer the type of `"+c.name(data.Name)+"`: no annotation and no initializer").Emit()
		t = c.unresolved()
	}
	var flags symbols.SymbolFlags
	if data.Mut {
		flags |= symbols.SymbolFlagMutable
	}
	c.resolver.Declare(c.scope, &symbols.Symbol{
		Name:  data.Name,
		Kind:  symbols.SymbolLet,
		Span:  data.NameSpan,
		Flags: flags,
		Type:  t,
		Decl:  symbols.SymbolDecl{Stmt: id},
	})
}

func (c *checker) walkAssign(id ast.StmtID) {
	data, _ := c.builder.Stmts.Assign(id)
	target := c.builder.Exprs.Get(data.Target)
	if target == nil {
		return
	}
	switch target.Kind {
	case ast.ExprIdent:
		c.checkAssignTarget(data.Target, target)
	case ast.ExprMember, ast.ExprIndex:
		// запись в поле или элемент; изменяемость контейнера не отслеживается
	default:
		diag.ReportError(c.reporter, diag.SemaAssignImmutable, target.Span,
			"this expression cannot be assigned to").Emit()
	}
	t := c.typeExpr(data.Target)
	c.checkExpr(data.Value, t, ast.NoTypeID)
}

func (c *checker) checkAssignTarget(id ast.ExprID, target *ast.Expr) {
	data, _ := c.builder.Exprs.Ident(id)
	sym, _, found := c.lookup(c.scope, data.Name)
	if !found {
		return // unresolved name reported by typeExpr
	}
	switch sym.Kind {
	case symbols.SymbolLet:
		if sym.Flags&symbols.SymbolFlagMutable == 0 {
			diag.ReportError(c.reporter, diag.SemaAssignImmutable, target.Span,
				"`"+c.name(data.Name)+"` is not declared mutable").
				WithNote(sym.Span, "declared here").
				Emit()
		}
	case symbols.SymbolParam:
		diag.ReportError(c.reporter, diag.SemaAssignImmutable, target.Span,
			"cannot assign to parameter `"+c.name(data.Name)+"`").Emit()
	case symbols.SymbolConst:
		diag.ReportError(c.reporter, diag.SemaAssignImmutable, target.Span,
			"cannot assign to constant `"+c.name(data.Name)+"`").Emit()
	default:
		diag.ReportError(c.reporter, diag.SemaAssignImmutable, target.Span,
			"`"+c.name(data.Name)+"` cannot be assigned to").Emit()
	}
}

func (c *checker) walkReturn(id ast.StmtID, stmt *ast.Stmt) {
	data, _ := c.builder.Stmts.Return(id)
	if !data.Value.IsValid() {
		if c.retType != c.unit() && c.retType != c.unresolved() {
			diag.ReportError(c.reporter, diag.SemaTypeMismatch, stmt.Span,
				"expected `"+c.label(c.retType)+"`, found `unit`").Emit()
		}
		return
	}
	value := c.builder.Exprs.Get(data.Value)
	if value != nil && value.Kind == ast.ExprNondet {
		// тип присваивается отдельным проходом после инференса
		c.nondetReturns = append(c.nondetReturns, nondetReturn{
			expr:   data.Value,
			result: c.retType,
			origin: c.retOrigin,
		})
		return
	}
	c.checkExpr(data.Value, c.retType, c.retOrigin)
}

func (c *checker) walkQuant(id ast.StmtID, stmt *ast.Stmt) {
	data, _ := c.builder.Stmts.Quant(id)
	bt := c.resolveType(c.scope, data.Type)
	prev := c.scope
	c.scope = c.resolver.NewScope(symbols.ScopeQuant, prev, symbols.ScopeOwner{
		Kind: symbols.ScopeOwnerStmt,
		Stmt: id,
	}, stmt.Span)
	c.resolver.Declare(c.scope, &symbols.Symbol{
		Name: data.Binder,
		Kind: symbols.SymbolLet,
		Span: data.BinderSpan,
		Type: bt,
		Decl: symbols.SymbolDecl{Stmt: id},
	})
	c.walkStmt(data.Body)
	c.scope = prev
}
