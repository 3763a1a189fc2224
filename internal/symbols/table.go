package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"sigil/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates symbol-related arenas and shared resources. Members
// indexes methods and associated functions by their declaring type symbol;
// it backs qualified (`Type::member`) resolution.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	members map[SymbolID]map[source.StringID]SymbolID
	modRoot map[string]ScopeID
}

// NewTable builds a fresh table with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
		members: make(map[SymbolID]map[source.StringID]SymbolID),
		modRoot: make(map[string]ScopeID),
	}
}

// ModuleRoot returns (and creates if needed) a module-level scope identified
// by moduleKey. Files declaring the same module share one root.
func (t *Table) ModuleRoot(moduleKey string, span source.Span) ScopeID {
	if moduleKey != "" {
		if scope, ok := t.modRoot[moduleKey]; ok {
			return scope
		}
	}
	scope := t.Scopes.New(ScopeModule, NoScopeID, ScopeOwner{
		Kind: ScopeOwnerFile,
	}, span)
	if moduleKey != "" {
		t.modRoot[moduleKey] = scope
	}
	return scope
}

// ModuleScope looks up an existing module root without creating it.
func (t *Table) ModuleScope(moduleKey string) (ScopeID, bool) {
	scope, ok := t.modRoot[moduleKey]
	return scope, ok
}

// ModuleKeys returns the registered module keys. Order is unspecified.
func (t *Table) ModuleKeys() []string {
	keys := make([]string, 0, len(t.modRoot))
	for k := range t.modRoot {
		keys = append(keys, k)
	}
	return keys
}

// DeclareMember attaches a method or associated function to its declaring
// type symbol. Returns the previous member's ID when the name collides.
func (t *Table) DeclareMember(owner SymbolID, name source.StringID, fn SymbolID) (SymbolID, bool) {
	bucket := t.members[owner]
	if bucket == nil {
		bucket = make(map[source.StringID]SymbolID)
		t.members[owner] = bucket
	}
	if prev, ok := bucket[name]; ok {
		return prev, false
	}
	bucket[name] = fn
	return fn, true
}

// Member resolves a method or associated function of a type symbol.
func (t *Table) Member(owner SymbolID, name source.StringID) (SymbolID, bool) {
	bucket := t.members[owner]
	if bucket == nil {
		return NoSymbolID, false
	}
	id, ok := bucket[name]
	return id, ok
}

// MembersOf returns every member declared on the given type symbol.
func (t *Table) MembersOf(owner SymbolID) map[source.StringID]SymbolID {
	return t.members[owner]
}
