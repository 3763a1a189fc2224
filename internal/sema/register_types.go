package sema

import (
	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// registerTypes declares every nominal type and constant name before any
// type expression is resolved. Structs get an empty-field shell so that
// mutually recursive declarations see each other; bodies are attached in
// populateTypeDecls once imports are bound.
func (c *checker) registerTypes() {
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
			if item == nil {
				continue
			}
			switch item.Kind {
			case ast.ItemStruct:
				c.registerStruct(fileID, scope, itemID)
			case ast.ItemEnum:
				c.registerEnum(fileID, scope, itemID)
			case ast.ItemAlias:
				c.registerAlias(fileID, scope, itemID)
			case ast.ItemConst:
				c.registerConst(fileID, scope, itemID)
			case ast.ItemFn, ast.ItemImport:
				// функции — фаза 4, импорты — фаза 3
			}
		}
	}
}

func (c *checker) registerStruct(fileID ast.FileID, scope symbols.ScopeID, itemID ast.ItemID) {
	st, ok := c.builder.Items.Struct(itemID)
	if !ok {
		return
	}
	tid := c.types.RegisterStruct(st.Name)
	c.declareTypeSymbol(fileID, scope, itemID, st.Name, st.NameSpan, st.Visibility, tid)
}

func (c *checker) registerEnum(fileID ast.FileID, scope symbols.ScopeID, itemID ast.ItemID) {
	en, ok := c.builder.Items.Enum(itemID)
	if !ok {
		return
	}
	tid := c.types.RegisterEnum(en.Name)

	// варианты без полезной нагрузки, фиксируем сразу
	seen := make(map[source.StringID]source.Span, len(en.Variants))
	names := make([]source.StringID, 0, len(en.Variants))
	for _, vid := range en.Variants {
		v := c.builder.Items.Variant(vid)
		if v == nil {
			continue
		}
		if prev, dup := seen[v.Name]; dup {
			diag.ReportError(c.reporter, diag.SemaDuplicateDeclaration, v.Span,
				"duplicate variant `"+c.name(v.Name)+"`").
				WithNote(prev, "previous variant here").
				Emit()
			continue
		}
		seen[v.Name] = v.Span
		names = append(names, v.Name)
	}
	c.types.SetEnumVariants(tid, names)
	c.declareTypeSymbol(fileID, scope, itemID, en.Name, en.NameSpan, en.Visibility, tid)
}

func (c *checker) registerAlias(fileID ast.FileID, scope symbols.ScopeID, itemID ast.ItemID) {
	al, ok := c.builder.Items.Alias(itemID)
	if !ok {
		return
	}
	// целевой тип разрешается в populateTypeDecls, когда импорты готовы
	c.declareTypeSymbol(fileID, scope, itemID, al.Name, al.NameSpan, al.Visibility, types.NoTypeID)
}

func (c *checker) registerConst(fileID ast.FileID, scope symbols.ScopeID, itemID ast.ItemID) {
	cn, ok := c.builder.Items.Const(itemID)
	if !ok {
		return
	}
	var flags symbols.SymbolFlags
	if cn.Visibility == ast.VisPublic {
		flags |= symbols.SymbolFlagPublic
	}
	id, declared := c.resolver.Declare(scope, &symbols.Symbol{
		Name:  cn.Name,
		Kind:  symbols.SymbolConst,
		Span:  cn.NameSpan,
		Flags: flags,
		Decl: symbols.SymbolDecl{
			SourceFile: c.sourceFileOf(fileID),
			ASTFile:    fileID,
			Item:       itemID,
		},
	})
	if declared {
		c.itemSym[itemID] = id
		c.symItem[id] = itemID
	}
}

func (c *checker) declareTypeSymbol(
	fileID ast.FileID,
	scope symbols.ScopeID,
	itemID ast.ItemID,
	name source.StringID,
	nameSpan source.Span,
	vis ast.Visibility,
	tid types.TypeID,
) {
	var flags symbols.SymbolFlags
	if vis == ast.VisPublic {
		flags |= symbols.SymbolFlagPublic
	}
	id, declared := c.resolver.Declare(scope, &symbols.Symbol{
		Name:  name,
		Kind:  symbols.SymbolType,
		Span:  nameSpan,
		Flags: flags,
		Type:  tid,
		Decl: symbols.SymbolDecl{
			SourceFile: c.sourceFileOf(fileID),
			ASTFile:    fileID,
			Item:       itemID,
		},
	})
	if !declared {
		return
	}
	c.itemSym[itemID] = id
	c.symItem[id] = itemID
	if tid != types.NoTypeID {
		c.typeSym[tid] = id
	}
}

func (c *checker) sourceFileOf(fileID ast.FileID) source.FileID {
	file := c.builder.Files.Get(fileID)
	if file == nil {
		return 0
	}
	return file.Span.File
}
