package sema

import (
	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// registerFunctions attaches resolved signatures to the function symbols
// pre-declared during import resolution. It first completes the nominal
// types registered in phase two: field and alias targets may reference
// imported names, which only became resolvable in phase three.
func (c *checker) registerFunctions() {
	c.populateTypeDecls()

	fileCount := c.builder.Files.Arena.Len()
	for raw := uint32(1); raw <= fileCount; raw++ {
		fileID := ast.FileID(raw)
		file := c.builder.Files.Get(fileID)
		if file == nil {
			continue
		}
		scope := c.fileScope[fileID]
		for _, itemID := range file.Items {
			item := c.builder.Items.Get(itemID)
			if item == nil || item.Kind != ast.ItemFn {
				continue
			}
			c.registerFunction(scope, itemID)
		}
	}
}

// populateTypeDecls fills in what phase two deliberately left open:
// alias targets, struct fields, and annotated constant types. Aliases go
// first because struct fields may name them.
func (c *checker) populateTypeDecls() {
	c.forEachItem(ast.ItemAlias, func(fileID ast.FileID, itemID ast.ItemID) {
		c.populateAlias(itemID)
	})
	c.forEachItem(ast.ItemStruct, func(fileID ast.FileID, itemID ast.ItemID) {
		c.populateStruct(fileID, itemID)
	})
	c.forEachItem(ast.ItemConst, func(fileID ast.FileID, itemID ast.ItemID) {
		c.populateConst(fileID, itemID)
	})
}

func (c *checker) forEachItem(kind ast.ItemKind, fn func(ast.FileID, ast.ItemID)) {
	fileCount := c.builder.Files.Arena.Len()
	for raw := uint32(1); raw <= fileCount; raw++ {
		fileID := ast.FileID(raw)
		file := c.builder.Files.Get(fileID)
		if file == nil {
			continue
		}
		for _, itemID := range file.Items {
			item := c.builder.Items.Get(itemID)
			if item != nil && item.Kind == kind {
				fn(fileID, itemID)
			}
		}
	}
}

func (c *checker) populateAlias(itemID ast.ItemID) {
	switch c.aliasState[itemID] {
	case aliasDone:
		return
	case aliasInProgress:
		al, ok := c.builder.Items.Alias(itemID)
		if ok {
			diag.ReportError(c.reporter, diag.SemaAliasCycle, al.NameSpan,
				"recursive type alias `"+c.name(al.Name)+"`").Emit()
		}
		c.sealAlias(itemID, c.unresolved())
		return
	}
	c.aliasState[itemID] = aliasInProgress

	al, ok := c.builder.Items.Alias(itemID)
	if !ok {
		c.aliasState[itemID] = aliasDone
		return
	}
	symID, ok := c.itemSym[itemID]
	if !ok {
		// дубликат объявления, символ не создавался
		c.aliasState[itemID] = aliasDone
		return
	}
	sym := c.table.Symbols.Get(symID)
	scope := c.fileScope[sym.Decl.ASTFile]
	t := c.resolveType(scope, al.Target)
	c.sealAlias(itemID, t)
}

func (c *checker) sealAlias(itemID ast.ItemID, t types.TypeID) {
	if c.aliasState[itemID] == aliasDone {
		return
	}
	c.aliasState[itemID] = aliasDone
	symID, ok := c.itemSym[itemID]
	if !ok {
		return
	}
	sym := c.table.Symbols.Get(symID)
	if sym != nil && sym.Type == types.NoTypeID {
		sym.Type = t
		if t != c.unresolved() {
			if _, taken := c.typeSym[t]; !taken {
				c.typeSym[t] = symID
			}
		}
	}
}

func (c *checker) populateStruct(fileID ast.FileID, itemID ast.ItemID) {
	st, ok := c.builder.Items.Struct(itemID)
	if !ok {
		return
	}
	symID, ok := c.itemSym[itemID]
	if !ok {
		return
	}
	sym := c.table.Symbols.Get(symID)
	if sym == nil || sym.Type == types.NoTypeID {
		return
	}
	scope := c.fileScope[fileID]

	seen := make(map[source.StringID]source.Span, len(st.Fields))
	fields := make([]types.FieldInfo, 0, len(st.Fields))
	for _, fid := range st.Fields {
		f := c.builder.Items.Field(fid)
		if f == nil {
			continue
		}
		if prev, dup := seen[f.Name]; dup {
			diag.ReportError(c.reporter, diag.SemaDuplicateDeclaration, f.NameSpan,
				"duplicate field `"+c.name(f.Name)+"`").
				WithNote(prev, "previous field here").
				Emit()
			continue
		}
		seen[f.Name] = f.NameSpan
		fields = append(fields, types.FieldInfo{
			Name: f.Name,
			Type: c.resolveType(scope, f.Type),
		})
	}
	c.types.SetStructFields(sym.Type, fields)
}

func (c *checker) populateConst(fileID ast.FileID, itemID ast.ItemID) {
	cn, ok := c.builder.Items.Const(itemID)
	if !ok || !cn.Type.IsValid() {
		return
	}
	symID, ok := c.itemSym[itemID]
	if !ok {
		return
	}
	sym := c.table.Symbols.Get(symID)
	if sym == nil {
		return
	}
	sym.Type = c.resolveType(c.fileScope[fileID], cn.Type)
}

func (c *checker) registerFunction(scope symbols.ScopeID, itemID ast.ItemID) {
	fn, ok := c.builder.Items.Fn(itemID)
	if !ok {
		return
	}
	symID, ok := c.itemSym[itemID]
	if !ok {
		// дубликат или неизвестный владелец, уже отрепорчено
		return
	}

	saved := c.typeParams
	c.typeParams = make(map[source.StringID]types.TypeID, len(fn.TypeParams))
	defer func() { c.typeParams = saved }()

	tparams := make([]types.TypeID, 0, len(fn.TypeParams))
	for _, tp := range fn.TypeParams {
		if _, dup := c.typeParams[tp.Name]; dup {
			diag.ReportError(c.reporter, diag.SemaDuplicateDeclaration, tp.Span,
				"duplicate type parameter `"+c.name(tp.Name)+"`").Emit()
			continue
		}
		g := c.types.NewGeneric(tp.Name)
		c.typeParams[tp.Name] = g
		tparams = append(tparams, g)
	}

	ownerType := types.NoTypeID
	if fn.Owner != source.NoStringID {
		if ownerSym, _, found := c.lookup(scope, fn.Owner); found && ownerSym.Kind == symbols.SymbolType {
			ownerType = ownerSym.Type
		}
		if ownerType == types.NoTypeID {
			ownerType = c.unresolved()
		}
	}

	params := make([]symbols.ParamSig, 0, len(fn.Params))
	for _, pid := range fn.Params {
		p := c.builder.Items.FnParam(pid)
		if p == nil {
			continue
		}
		var t types.TypeID
		if p.IsSelf {
			t = ownerType
		} else {
			t = c.resolveType(scope, p.Type)
		}
		params = append(params, symbols.ParamSig{Name: p.Name, Type: t, Span: p.Span})
	}

	result := c.unit()
	if fn.ReturnType.IsValid() {
		result = c.resolveType(scope, fn.ReturnType)
	}

	sym := c.table.Symbols.Get(symID)
	sym.Signature = &symbols.FunctionSignature{
		Params:      params,
		Result:      result,
		TypeParams:  tparams,
		HasReceiver: fn.HasReceiver,
		Span:        fn.Span,
	}
}
