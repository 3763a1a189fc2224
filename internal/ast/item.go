package ast

import (
	"sigil/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemStruct
	ItemEnum
	ItemAlias
	ItemConst
	ItemImport
)

func (k ItemKind) String() string {
	switch k {
	case ItemFn:
		return "fn"
	case ItemStruct:
		return "struct"
	case ItemEnum:
		return "enum"
	case ItemAlias:
		return "alias"
	case ItemConst:
		return "const"
	case ItemImport:
		return "import"
	default:
		return "invalid"
	}
}

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// Items manages allocation of top-level declarations. Each item kind keeps
// its payload in a dedicated arena; Item.Payload indexes into it.
type Items struct {
	Arena    *Arena[Item]
	Fns      *Arena[FnItem]
	FnParams *Arena[FnParam]
	Structs  *Arena[StructItem]
	Fields   *Arena[StructField]
	Enums    *Arena[EnumItem]
	Variants *Arena[EnumVariant]
	Aliases  *Arena[AliasItem]
	Consts   *Arena[ConstItem]
	Imports  *Arena[ImportItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:    NewArena[Item](capHint),
		Fns:      NewArena[FnItem](capHint),
		FnParams: NewArena[FnParam](capHint),
		Structs:  NewArena[StructItem](capHint),
		Fields:   NewArena[StructField](capHint),
		Enums:    NewArena[EnumItem](capHint),
		Variants: NewArena[EnumVariant](capHint),
		Aliases:  NewArena[AliasItem](capHint),
		Consts:   NewArena[ConstItem](capHint),
		Imports:  NewArena[ImportItem](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payloadID PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payloadID,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}
