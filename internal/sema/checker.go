package sema

import (
	"fmt"
	"strings"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// checker carries all mutable state of one checking run. It is strictly
// single-threaded: one instance checks one ast.Builder, phase by phase.
type checker struct {
	builder  *ast.Builder
	fset     *source.FileSet
	strings  *source.Interner
	reporter diag.Reporter
	table    *symbols.Table
	resolver *symbols.Resolver
	types    *types.Interner

	phase Phase

	// результат инференса: тип на каждый value-узел
	exprTypes map[ast.ExprID]TypeInfo

	fileModule map[ast.FileID]string
	fileScope  map[ast.FileID]symbols.ScopeID

	builtinNames map[source.StringID]types.TypeID

	moduleSyms map[string]symbols.SymbolID
	itemSym    map[ast.ItemID]symbols.SymbolID
	symItem    map[symbols.SymbolID]ast.ItemID
	typeSym    map[types.TypeID]symbols.SymbolID
	aliasState map[ast.ItemID]uint8

	pendingImports []pendingImport

	// generic-параметры активной сигнатуры/тела
	typeParams map[source.StringID]types.TypeID

	scope     symbols.ScopeID
	retType   types.TypeID
	retOrigin ast.TypeID

	nondetReturns []nondetReturn
	internalBag   []diag.Diagnostic
}

type pendingImport struct {
	file ast.FileID
	item ast.ItemID
}

// nondetReturn is a nondet expression in return position, deferred until the
// post-inference fixup pass assigns it the function's declared result type.
type nondetReturn struct {
	expr   ast.ExprID
	result types.TypeID
	origin ast.TypeID
}

const (
	aliasUnvisited uint8 = iota
	aliasInProgress
	aliasDone
)

func newChecker(b *ast.Builder, fset *source.FileSet, strs *source.Interner, reporter diag.Reporter, hints symbols.Hints) *checker {
	c := &checker{
		builder:    b,
		fset:       fset,
		strings:    strs,
		reporter:   reporter,
		table:      symbols.NewTable(hints, strs),
		types:      types.NewInterner(),
		phase:      PhaseNotStarted,
		exprTypes:  make(map[ast.ExprID]TypeInfo, b.Exprs.Arena.Len()),
		fileModule: make(map[ast.FileID]string),
		fileScope:  make(map[ast.FileID]symbols.ScopeID),
		moduleSyms: make(map[string]symbols.SymbolID),
		itemSym:    make(map[ast.ItemID]symbols.SymbolID),
		symItem:    make(map[symbols.SymbolID]ast.ItemID),
		typeSym:    make(map[types.TypeID]symbols.SymbolID),
		aliasState: make(map[ast.ItemID]uint8),
		typeParams: make(map[source.StringID]types.TypeID),
	}
	c.resolver = symbols.NewResolver(c.table, reporter)
	c.seedBuiltinNames()
	return c
}

func (c *checker) seedBuiltinNames() {
	bt := c.types.Builtins()
	c.builtinNames = map[source.StringID]types.TypeID{
		c.strings.Intern("unit"):   bt.Unit,
		c.strings.Intern("bool"):   bt.Bool,
		c.strings.Intern("string"): bt.String,
		c.strings.Intern("i8"):     bt.I8,
		c.strings.Intern("i16"):    bt.I16,
		c.strings.Intern("i32"):    bt.I32,
		c.strings.Intern("i64"):    bt.I64,
		c.strings.Intern("u8"):     bt.U8,
		c.strings.Intern("u16"):    bt.U16,
		c.strings.Intern("u32"):    bt.U32,
		c.strings.Intern("u64"):    bt.U64,
	}
}

// advance moves to the next phase, panicking on out-of-order transitions.
// Phase skips are checker bugs, not user errors.
func (c *checker) advance(next Phase) {
	if phasePrerequisites[next] != c.phase {
		panic(fmt.Sprintf("sema: phase %s cannot follow %s", next, c.phase))
	}
	c.phase = next
}

func (c *checker) record(id ast.ExprID, t types.TypeID, origin ast.TypeID) {
	c.exprTypes[id] = TypeInfo{Type: t, Origin: origin}
}

func (c *checker) recorded(id ast.ExprID) (TypeInfo, bool) {
	ti, ok := c.exprTypes[id]
	return ti, ok
}

func (c *checker) unresolved() types.TypeID { return c.types.Builtins().Unresolved }
func (c *checker) unit() types.TypeID       { return c.types.Builtins().Unit }
func (c *checker) boolType() types.TypeID   { return c.types.Builtins().Bool }

func (c *checker) name(id source.StringID) string {
	s, _ := c.strings.Lookup(id)
	return s
}

func (c *checker) label(t types.TypeID) string {
	return c.types.Label(t, c.strings)
}

// lookup resolves a name from the current scope outward, dereferencing
// import aliases except when the alias points at a module symbol (the
// caller decides how to treat modules).
func (c *checker) lookup(scope symbols.ScopeID, name source.StringID) (*symbols.Symbol, symbols.SymbolID, bool) {
	id, ok := c.resolver.Resolve(scope, name)
	if !ok {
		return nil, symbols.NoSymbolID, false
	}
	return c.deref(id)
}

// deref follows import-alias targets. The chain is bounded: aliases of
// aliases across modules are rare but legal.
func (c *checker) deref(id symbols.SymbolID) (*symbols.Symbol, symbols.SymbolID, bool) {
	for i := 0; i < 16; i++ {
		sym := c.table.Symbols.Get(id)
		if sym == nil {
			return nil, symbols.NoSymbolID, false
		}
		if sym.Kind == symbols.SymbolImport && sym.Target.IsValid() {
			id = sym.Target
			continue
		}
		return sym, id, true
	}
	return nil, symbols.NoSymbolID, false
}

func joinModule(strs *source.Interner, segments []source.StringID) string {
	if len(segments) == 0 {
		return ""
	}
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		s, _ := strs.Lookup(seg)
		parts = append(parts, s)
	}
	return strings.Join(parts, "::")
}

// moduleSymbol lazily allocates the symbol representing a whole module.
// It lives outside any scope; import aliases point at it.
func (c *checker) moduleSymbol(key string, span source.Span) symbols.SymbolID {
	if id, ok := c.moduleSyms[key]; ok {
		return id
	}
	var last source.StringID
	if i := strings.LastIndex(key, "::"); i >= 0 {
		last = c.strings.Intern(key[i+2:])
	} else {
		last = c.strings.Intern(key)
	}
	id := c.table.Symbols.New(&symbols.Symbol{
		Name:       last,
		Kind:       symbols.SymbolModule,
		Span:       span,
		ModulePath: key,
	})
	c.moduleSyms[key] = id
	return id
}

// fnValueType builds the structural function type for a function symbol
// used as a value. Methods keep their receiver as an explicit first
// parameter.
func (c *checker) fnValueType(sym *symbols.Symbol) types.TypeID {
	sig := sym.Signature
	if sig == nil {
		return c.unresolved()
	}
	params := make([]types.TypeID, 0, len(sig.Params))
	for _, p := range sig.Params {
		params = append(params, p.Type)
	}
	return c.types.InternFn(params, sig.Result)
}

func (c *checker) reportInternal(span source.Span, msg string) {
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.InternalInvariantViolation,
		Message:  msg,
		Primary:  span,
	}
	c.internalBag = append(c.internalBag, d)
	c.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, nil)
}
