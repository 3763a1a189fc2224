package sema

import (
	"sort"

	"sigil/internal/ast"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// FunctionDef is one checked function surfaced by the typed context.
type FunctionDef struct {
	Item      ast.ItemID
	Name      source.StringID
	Owner     source.StringID // NoStringID for free functions
	Signature *symbols.FunctionSignature
}

// TypedContext is the read-only result of a completed checking run:
// every value expression mapped to its type, plus the symbol table and
// type interner needed to interpret those types. Construct it through
// ContextBuilder; it cannot exist for a run that has not finished.
type TypedContext struct {
	builder   *ast.Builder
	fset      *source.FileSet
	strings   *source.Interner
	table     *symbols.Table
	types     *types.Interner
	exprTypes map[ast.ExprID]TypeInfo
	parents   map[ast.ExprID]ast.ExprID
	functions []FunctionDef
}

// NodeType returns the TypeInfo recorded for a value expression.
func (tc *TypedContext) NodeType(id ast.ExprID) (TypeInfo, bool) {
	ti, ok := tc.exprTypes[id]
	return ti, ok
}

// NodeIs reports whether the expression's type has the given kind.
func (tc *TypedContext) NodeIs(id ast.ExprID, kind types.Kind) bool {
	ti, ok := tc.exprTypes[id]
	if !ok {
		return false
	}
	desc, ok := tc.types.Lookup(ti.Type)
	return ok && desc.Kind == kind
}

// IsNumeric reports whether the expression has a signed or unsigned
// integer type.
func (tc *TypedContext) IsNumeric(id ast.ExprID) bool {
	ti, ok := tc.exprTypes[id]
	if !ok {
		return false
	}
	desc, ok := tc.types.Lookup(ti.Type)
	return ok && desc.IsNumeric()
}

// IsNumericSubkind reports whether the expression has exactly the given
// integer type, e.g. Types().Builtins().I64.
func (tc *TypedContext) IsNumericSubkind(id ast.ExprID, subkind types.TypeID) bool {
	ti, ok := tc.exprTypes[id]
	if !ok || ti.Type != subkind {
		return false
	}
	desc, ok := tc.types.Lookup(subkind)
	return ok && desc.IsNumeric()
}

// ParentExpr returns the enclosing expression of a node, when one exists.
// Statement-rooted expressions have no parent.
func (tc *TypedContext) ParentExpr(id ast.ExprID) (ast.ExprID, bool) {
	p, ok := tc.parents[id]
	return p, ok
}

// Functions lists every declared function with its resolved signature, in
// declaration order.
func (tc *TypedContext) Functions() []FunctionDef {
	return tc.functions
}

// FilterExprs returns the IDs of value expressions matching pred, sorted
// by ID for deterministic output.
func (tc *TypedContext) FilterExprs(pred func(ast.ExprID, TypeInfo) bool) []ast.ExprID {
	out := make([]ast.ExprID, 0)
	for id, ti := range tc.exprTypes {
		if pred(id, ti) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SourceFiles exposes the checked files.
func (tc *TypedContext) SourceFiles() []source.File { return tc.fset.Files() }

// AST exposes the underlying syntax arenas.
func (tc *TypedContext) AST() *ast.Builder { return tc.builder }

// Symbols exposes the symbol table.
func (tc *TypedContext) Symbols() *symbols.Table { return tc.table }

// Types exposes the type interner.
func (tc *TypedContext) Types() *types.Interner { return tc.types }

// Strings exposes the string interner shared with the AST.
func (tc *TypedContext) Strings() *source.Interner { return tc.strings }

// Label renders the type of an expression for display.
func (tc *TypedContext) Label(id ast.ExprID) string {
	ti, ok := tc.exprTypes[id]
	if !ok {
		return "<untyped>"
	}
	return tc.types.Label(ti.Type, tc.strings)
}

// ExprSpan returns the source span of an expression.
func (tc *TypedContext) ExprSpan(id ast.ExprID) source.Span {
	expr := tc.builder.Exprs.Get(id)
	if expr == nil {
		return source.Span{}
	}
	return expr.Span
}

// buildContext freezes the checker's result into a TypedContext.
func (c *checker) buildContext() *TypedContext {
	return &TypedContext{
		builder:   c.builder,
		fset:      c.fset,
		strings:   c.strings,
		table:     c.table,
		types:     c.types,
		exprTypes: c.exprTypes,
		parents:   c.buildParentIndex(),
		functions: c.collectFunctions(),
	}
}

// buildParentIndex maps every expression to its structural parent. Unlike
// the coverage sweep this includes callee heads: parent queries are about
// tree shape, not typing.
func (c *checker) buildParentIndex() map[ast.ExprID]ast.ExprID {
	parents := make(map[ast.ExprID]ast.ExprID, c.builder.Exprs.Arena.Len())
	link := func(child, parent ast.ExprID) {
		if child.IsValid() {
			parents[child] = parent
		}
	}
	count := c.builder.Exprs.Arena.Len()
	for raw := uint32(1); raw <= count; raw++ {
		id := ast.ExprID(raw)
		expr := c.builder.Exprs.Get(id)
		if expr == nil {
			continue
		}
		switch expr.Kind {
		case ast.ExprUnary:
			data, _ := c.builder.Exprs.Unary(id)
			link(data.Operand, id)
		case ast.ExprBinary:
			data, _ := c.builder.Exprs.Binary(id)
			link(data.Left, id)
			link(data.Right, id)
		case ast.ExprCall:
			data, _ := c.builder.Exprs.Call(id)
			link(data.Target, id)
			for _, a := range data.Args {
				link(a, id)
			}
		case ast.ExprMember:
			data, _ := c.builder.Exprs.Member(id)
			link(data.Target, id)
		case ast.ExprIndex:
			data, _ := c.builder.Exprs.Index(id)
			link(data.Target, id)
			link(data.Index, id)
		case ast.ExprArray:
			data, _ := c.builder.Exprs.Array(id)
			for _, el := range data.Elements {
				link(el, id)
			}
		case ast.ExprStruct:
			data, _ := c.builder.Exprs.Struct(id)
			for _, f := range data.Fields {
				link(f.Value, id)
			}
		case ast.ExprGroup:
			data, _ := c.builder.Exprs.Group(id)
			link(data.Inner, id)
		}
	}
	return parents
}

func (c *checker) collectFunctions() []FunctionDef {
	var out []FunctionDef
	c.forEachItem(ast.ItemFn, func(fileID ast.FileID, itemID ast.ItemID) {
		fn, ok := c.builder.Items.Fn(itemID)
		if !ok {
			return
		}
		var sig *symbols.FunctionSignature
		if symID, declared := c.itemSym[itemID]; declared {
			sig = c.table.Symbols.Get(symID).Signature
		}
		out = append(out, FunctionDef{
			Item:      itemID,
			Name:      fn.Name,
			Owner:     fn.Owner,
			Signature: sig,
		})
	})
	return out
}
