package ast

import "sigil/internal/source"

// ImportItem represents an import declaration.
//
//	import math::vec            (plain: binds "vec")
//	import math::vec as v       (plain with alias)
//	import math::vec::*         (glob: all public symbols)
//	import math::vec::{Dot, Cross}  (partial: named subset)
type ImportItem struct {
	Module      []source.StringID
	ModuleAlias source.StringID
	Group       []ImportPair
	HasGroup    bool
	ImportAll   bool
}

// ImportPair is one entry of a partial import group.
type ImportPair struct {
	Name  source.StringID
	Alias source.StringID
	Span  source.Span
}

func (i *Items) Import(id ItemID) (*ImportItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemImport {
		return nil, false
	}
	return i.Imports.Get(uint32(item.Payload)), true
}

func (i *Items) NewImport(
	span source.Span,
	module []source.StringID,
	moduleAlias source.StringID,
	group []ImportPair,
	hasGroup bool,
	importAll bool,
) ItemID {
	payload := i.Imports.Allocate(ImportItem{
		Module:      append([]source.StringID(nil), module...),
		ModuleAlias: moduleAlias,
		Group:       append([]ImportPair(nil), group...),
		HasGroup:    hasGroup,
		ImportAll:   importAll,
	})
	return i.New(ItemImport, span, PayloadID(payload))
}
