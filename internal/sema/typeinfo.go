package sema

import (
	"sigil/internal/ast"
	"sigil/internal/types"
)

// TypeInfo is the checker's per-node result: the resolved semantic type
// plus the syntactic type node it originated from, when one exists in
// source (annotations, struct literal heads). Origin is ast.NoTypeID for
// types that were synthesized.
type TypeInfo struct {
	Type   types.TypeID
	Origin ast.TypeID
}

// IsResolved reports whether the entry carries a usable type.
func (ti TypeInfo) IsResolved(in *types.Interner) bool {
	if ti.Type == types.NoTypeID {
		return false
	}
	t, ok := in.Lookup(ti.Type)
	return ok && t.Kind != types.KindUnresolved && t.Kind != types.KindInvalid
}
