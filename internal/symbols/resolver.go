package symbols

import (
	"sigil/internal/diag"
	"sigil/internal/source"
)

// Resolver drives scope management and declaration/lookup routines.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
}

// NewResolver wires a resolver to a table. The reporter receives duplicate
// declaration diagnostics; declaration never fails hard.
func NewResolver(table *Table, reporter diag.Reporter) *Resolver {
	return &Resolver{
		table:    table,
		reporter: reporter,
	}
}

// Table returns the underlying table.
func (r *Resolver) Table() *Table { return r.table }

// NewScope creates a child scope under parent.
func (r *Resolver) NewScope(kind ScopeKind, parent ScopeID, owner ScopeOwner, span source.Span) ScopeID {
	return r.table.Scopes.New(kind, parent, owner, span)
}

// Declare inserts an explicitly declared symbol into scope. A name collision
// with another explicit declaration is reported and the first declaration
// wins; an imported alias of the same name is silently replaced, since
// local declarations shadow imports.
func (r *Resolver) Declare(scope ScopeID, sym *Symbol) (SymbolID, bool) {
	sc := r.table.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID, false
	}
	if prevID, ok := sc.NameIndex[sym.Name]; ok {
		prev := r.table.Symbols.Get(prevID)
		if prev != nil && prev.Flags&SymbolFlagImported == 0 {
			name, _ := r.table.Strings.Lookup(sym.Name)
			diag.ReportError(r.reporter, diag.SemaDuplicateDeclaration, sym.Span,
				"duplicate declaration of `"+name+"`").
				WithNote(prev.Span, "previous declaration here").
				Emit()
			return prevID, false
		}
		// локальное объявление затеняет импортированное имя
	}
	sym.Scope = scope
	id := r.table.Symbols.New(sym)
	sc.NameIndex[sym.Name] = id
	sc.Symbols = append(sc.Symbols, id)
	return id, true
}

// DeclareImported inserts an import-produced alias. Explicit declarations
// always win silently; a collision between two imported names is reported
// and the first binding wins.
func (r *Resolver) DeclareImported(scope ScopeID, sym *Symbol, importSpan source.Span) (SymbolID, bool) {
	sc := r.table.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID, false
	}
	if prevID, ok := sc.NameIndex[sym.Name]; ok {
		prev := r.table.Symbols.Get(prevID)
		if prev != nil && prev.Flags&SymbolFlagImported == 0 {
			return prevID, false
		}
		name, _ := r.table.Strings.Lookup(sym.Name)
		diag.ReportError(r.reporter, diag.SemaDuplicateImportName, importSpan,
			"name `"+name+"` is imported more than once").
			WithNote(prev.Span, "previous import here").
			Emit()
		return prevID, false
	}
	sym.Scope = scope
	sym.Flags |= SymbolFlagImported
	id := r.table.Symbols.New(sym)
	sc.NameIndex[sym.Name] = id
	sc.Symbols = append(sc.Symbols, id)
	return id, true
}

// Resolve walks from scope outward through parents and returns the nearest
// binding of name. Shadowing falls out of the walk order.
func (r *Resolver) Resolve(scope ScopeID, name source.StringID) (SymbolID, bool) {
	for scope.IsValid() {
		sc := r.table.Scopes.Get(scope)
		if sc == nil {
			return NoSymbolID, false
		}
		if id, ok := sc.NameIndex[name]; ok {
			return id, true
		}
		scope = sc.Parent
	}
	return NoSymbolID, false
}

// ResolveExported resolves name in the given module root, filtering out
// private symbols. Used for cross-module access: imports and qualified
// paths. The bool pair distinguishes "not found" from "found but private".
func (r *Resolver) ResolveExported(moduleRoot ScopeID, name source.StringID) (SymbolID, bool, bool) {
	sc := r.table.Scopes.Get(moduleRoot)
	if sc == nil {
		return NoSymbolID, false, false
	}
	id, ok := sc.NameIndex[name]
	if !ok {
		return NoSymbolID, false, false
	}
	sym := r.table.Symbols.Get(id)
	if sym == nil {
		return NoSymbolID, false, false
	}
	if sym.Flags&SymbolFlagPublic == 0 {
		return id, true, false
	}
	return id, true, true
}

// ModuleRootOf walks to the outermost scope enclosing the given one.
func (r *Resolver) ModuleRootOf(scope ScopeID) ScopeID {
	for scope.IsValid() {
		sc := r.table.Scopes.Get(scope)
		if sc == nil || !sc.Parent.IsValid() {
			return scope
		}
		scope = sc.Parent
	}
	return NoScopeID
}

// ResolveQualified resolves a `::`-separated path starting from scope:
// module::name reaches into another module's exports, Type::member reaches
// a type's associated functions and methods via the member index. Longer
// module paths resolve segment-by-segment through module symbols.
func (r *Resolver) ResolveQualified(scope ScopeID, segments []source.StringID) (SymbolID, bool) {
	if len(segments) == 0 {
		return NoSymbolID, false
	}
	head, ok := r.Resolve(scope, segments[0])
	if !ok {
		return NoSymbolID, false
	}
	cur := head
	for _, seg := range segments[1:] {
		sym := r.table.Symbols.Get(cur)
		if sym == nil {
			return NoSymbolID, false
		}
		// импортный алиас прозрачен для дальнейших сегментов
		if sym.Kind == SymbolImport && sym.Target.IsValid() {
			cur = sym.Target
			sym = r.table.Symbols.Get(cur)
			if sym == nil {
				return NoSymbolID, false
			}
		}
		switch sym.Kind {
		case SymbolModule:
			root, ok := r.table.ModuleScope(sym.ModulePath)
			if !ok {
				return NoSymbolID, false
			}
			id, found, visible := r.ResolveExported(root, seg)
			if !found || !visible {
				return NoSymbolID, false
			}
			cur = id
		case SymbolType:
			id, ok := r.table.Member(cur, seg)
			if !ok {
				return NoSymbolID, false
			}
			cur = id
		default:
			return NoSymbolID, false
		}
	}
	return cur, true
}
