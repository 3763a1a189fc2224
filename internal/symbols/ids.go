package symbols

type (
	// ScopeID identifies a scope inside the table's scope arena.
	ScopeID uint32
	// SymbolID identifies a symbol inside the table's symbol arena.
	SymbolID uint32
)

const (
	NoScopeID  ScopeID  = 0
	NoSymbolID SymbolID = 0
)

func (id ScopeID) IsValid() bool  { return id != NoScopeID }
func (id SymbolID) IsValid() bool { return id != NoSymbolID }
