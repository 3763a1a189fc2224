package sema

import (
	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
)

// resolveImports binds the imports recorded in phase one. Every module
// root and every type/const name exists by now. Functions are pre-declared
// here as signature-less stubs so that glob and partial imports can bind
// them; registerFunctions fills in the signatures without re-declaring.
func (c *checker) resolveImports() {
	c.predeclareFunctions()
	for _, p := range c.pendingImports {
		c.resolveImport(p)
	}
}

// predeclareFunctions inserts function symbols with nil signatures so that
// imports and qualified paths can reference them.
func (c *checker) predeclareFunctions() {
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
			fn, ok := c.builder.Items.Fn(itemID)
			if !ok {
				continue
			}
			var flags symbols.SymbolFlags
			if fn.Visibility == ast.VisPublic {
				flags |= symbols.SymbolFlagPublic
			}
			sym := &symbols.Symbol{
				Name:  fn.Name,
				Kind:  symbols.SymbolFunction,
				Span:  fn.NameSpan,
				Flags: flags,
				Owner: fn.Owner,
				Decl: symbols.SymbolDecl{
					SourceFile: c.sourceFileOf(fileID),
					ASTFile:    fileID,
					Item:       itemID,
				},
			}
			if fn.Owner == source.NoStringID {
				id, declared := c.resolver.Declare(scope, sym)
				if declared {
					c.itemSym[itemID] = id
					c.symItem[id] = itemID
				}
				continue
			}
			// метод или ассоциированная функция: живёт в member-индексе типа
			ownerSym, ownerID, found := c.lookup(scope, fn.Owner)
			if !found || ownerSym.Kind != symbols.SymbolType {
				diag.ReportError(c.reporter, diag.SemaUnresolvedName, fn.NameSpan,
					"unknown type `"+c.name(fn.Owner)+"` for function `"+c.name(fn.Name)+"`").Emit()
				continue
			}
			id := c.table.Symbols.New(sym)
			if prev, fresh := c.table.DeclareMember(ownerID, fn.Name, id); !fresh {
				prevSym := c.table.Symbols.Get(prev)
				b := diag.ReportError(c.reporter, diag.SemaDuplicateDeclaration, fn.NameSpan,
					"duplicate declaration of `"+c.name(fn.Owner)+"::"+c.name(fn.Name)+"`")
				if prevSym != nil {
					b.WithNote(prevSym.Span, "previous declaration here")
				}
				b.Emit()
				continue
			}
			c.itemSym[itemID] = id
			c.symItem[id] = itemID
		}
	}
}

func (c *checker) resolveImport(p pendingImport) {
	imp, ok := c.builder.Items.Import(p.item)
	if !ok {
		return
	}
	item := c.builder.Items.Get(p.item)
	span := item.Span
	key := joinModule(c.strings, imp.Module)
	scope := c.fileScope[p.file]

	root, found := c.table.ModuleScope(key)
	if !found {
		diag.ReportError(c.reporter, diag.SemaUnresolvedImport, span,
			"module `"+key+"` not found").Emit()
		return
	}
	if key == c.fileModule[p.file] {
		diag.ReportWarning(c.reporter, diag.SemaInfo, span,
			"module `"+key+"` imports itself").Emit()
		return
	}

	switch {
	case imp.ImportAll:
		c.bindGlob(scope, root, key, span)
	case imp.HasGroup:
		c.bindGroup(scope, root, key, imp.Group)
	default:
		name := imp.ModuleAlias
		if name == source.NoStringID && len(imp.Module) > 0 {
			name = imp.Module[len(imp.Module)-1]
		}
		target := c.moduleSymbol(key, span)
		c.resolver.DeclareImported(scope, &symbols.Symbol{
			Name:   name,
			Kind:   symbols.SymbolImport,
			Span:   span,
			Target: target,
		}, span)
	}
}

// bindGlob imports every public symbol of the target module. Re-exported
// imports are skipped: glob pulls in declarations, not someone else's
// import list.
func (c *checker) bindGlob(scope, root symbols.ScopeID, key string, span source.Span) {
	sc := c.table.Scopes.Get(root)
	if sc == nil {
		return
	}
	for _, symID := range sc.Symbols {
		sym := c.table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		if sym.Flags&symbols.SymbolFlagPublic == 0 || sym.Flags&symbols.SymbolFlagImported != 0 {
			continue
		}
		c.resolver.DeclareImported(scope, &symbols.Symbol{
			Name:   sym.Name,
			Kind:   symbols.SymbolImport,
			Span:   span,
			Target: symID,
		}, span)
	}
}

func (c *checker) bindGroup(scope, root symbols.ScopeID, key string, group []ast.ImportPair) {
	for _, pair := range group {
		id, found, visible := c.resolver.ResolveExported(root, pair.Name)
		if !found {
			diag.ReportError(c.reporter, diag.SemaUnresolvedImport, pair.Span,
				"`"+c.name(pair.Name)+"` is not defined in module `"+key+"`").Emit()
			continue
		}
		if !visible {
			sym := c.table.Symbols.Get(id)
			b := diag.ReportError(c.reporter, diag.SemaVisibilityViolation, pair.Span,
				"`"+c.name(pair.Name)+"` is private in module `"+key+"`")
			if sym != nil {
				b.WithNote(sym.Span, "declared here")
			}
			b.Emit()
			continue
		}
		alias := pair.Alias
		if alias == source.NoStringID {
			alias = pair.Name
		}
		c.resolver.DeclareImported(scope, &symbols.Symbol{
			Name:   alias,
			Kind:   symbols.SymbolImport,
			Span:   pair.Span,
			Target: id,
		}, pair.Span)
	}
}
