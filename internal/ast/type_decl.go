package ast

import "sigil/internal/source"

// StructItem describes a struct declaration. Field payloads live in the
// Fields arena so checkers can address them by ID.
type StructItem struct {
	Name       source.StringID
	NameSpan   source.Span
	Visibility Visibility
	Fields     []FieldID
	Span       source.Span
}

type StructField struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID
	Span     source.Span
}

// EnumItem describes an enum declaration with plain (payload-free) variants.
type EnumItem struct {
	Name       source.StringID
	NameSpan   source.Span
	Visibility Visibility
	Variants   []VariantID
	Span       source.Span
}

type EnumVariant struct {
	Name source.StringID
	Span source.Span
}

// AliasItem describes a `type Name = Target` declaration.
type AliasItem struct {
	Name       source.StringID
	NameSpan   source.Span
	Visibility Visibility
	Target     TypeID
	Span       source.Span
}

func (i *Items) Struct(id ItemID) (*StructItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemStruct {
		return nil, false
	}
	return i.Structs.Get(uint32(item.Payload)), true
}

func (i *Items) NewField(name source.StringID, nameSpan source.Span, typ TypeID, span source.Span) FieldID {
	return FieldID(i.Fields.Allocate(StructField{
		Name:     name,
		NameSpan: nameSpan,
		Type:     typ,
		Span:     span,
	}))
}

func (i *Items) Field(id FieldID) *StructField {
	return i.Fields.Get(uint32(id))
}

func (i *Items) NewStruct(
	name source.StringID,
	nameSpan source.Span,
	visibility Visibility,
	fields []FieldID,
	span source.Span,
) ItemID {
	payload := i.Structs.Allocate(StructItem{
		Name:       name,
		NameSpan:   nameSpan,
		Visibility: visibility,
		Fields:     append([]FieldID(nil), fields...),
		Span:       span,
	})
	return i.New(ItemStruct, span, PayloadID(payload))
}

func (i *Items) Enum(id ItemID) (*EnumItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemEnum {
		return nil, false
	}
	return i.Enums.Get(uint32(item.Payload)), true
}

func (i *Items) NewVariant(name source.StringID, span source.Span) VariantID {
	return VariantID(i.Variants.Allocate(EnumVariant{Name: name, Span: span}))
}

func (i *Items) Variant(id VariantID) *EnumVariant {
	return i.Variants.Get(uint32(id))
}

func (i *Items) NewEnum(
	name source.StringID,
	nameSpan source.Span,
	visibility Visibility,
	variants []VariantID,
	span source.Span,
) ItemID {
	payload := i.Enums.Allocate(EnumItem{
		Name:       name,
		NameSpan:   nameSpan,
		Visibility: visibility,
		Variants:   append([]VariantID(nil), variants...),
		Span:       span,
	})
	return i.New(ItemEnum, span, PayloadID(payload))
}

func (i *Items) Alias(id ItemID) (*AliasItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemAlias {
		return nil, false
	}
	return i.Aliases.Get(uint32(item.Payload)), true
}

func (i *Items) NewAlias(
	name source.StringID,
	nameSpan source.Span,
	visibility Visibility,
	target TypeID,
	span source.Span,
) ItemID {
	payload := i.Aliases.Allocate(AliasItem{
		Name:       name,
		NameSpan:   nameSpan,
		Visibility: visibility,
		Target:     target,
		Span:       span,
	})
	return i.New(ItemAlias, span, PayloadID(payload))
}
