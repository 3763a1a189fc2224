package ast

import "sigil/internal/source"

// ConstItem describes a module-level constant. Type may be NoTypeID when
// the constant's type is inferred from the initializer.
type ConstItem struct {
	Name       source.StringID
	NameSpan   source.Span
	Visibility Visibility
	Type       TypeID
	Value      ExprID
	Span       source.Span
}

func (i *Items) Const(id ItemID) (*ConstItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemConst {
		return nil, false
	}
	return i.Consts.Get(uint32(item.Payload)), true
}

func (i *Items) NewConst(
	name source.StringID,
	nameSpan source.Span,
	visibility Visibility,
	typ TypeID,
	value ExprID,
	span source.Span,
) ItemID {
	payload := i.Consts.Allocate(ConstItem{
		Name:       name,
		NameSpan:   nameSpan,
		Visibility: visibility,
		Type:       typ,
		Value:      value,
		Span:       span,
	})
	return i.New(ItemConst, span, PayloadID(payload))
}
