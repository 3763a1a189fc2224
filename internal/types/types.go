package types

import (
	"fmt"

	"sigil/internal/source"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUnresolved is the recovery placeholder recorded after a reported
	// error. It must not survive a clean checking run.
	KindUnresolved
	KindUnit
	KindBool
	KindString
	KindInt
	KindUint
	KindArray
	KindStruct
	KindEnum
	KindFn
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnresolved:
		return "unresolved"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindFn:
		return "fn"
	case KindGeneric:
		return "generic"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integer types.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Width   Width           // for numeric primitives
	Elem    TypeID          // array element
	Count   uint32          // array length
	Name    source.StringID // nominal types and generic parameters
	Payload uint32          // index into per-kind info tables / generic env
}

// IsNumeric reports whether the descriptor is a signed or unsigned integer.
func (t Type) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindUint
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeArray describes a fixed-length array of the element type.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// StructInfo carries the resolved shape of a nominal struct type.
type StructInfo struct {
	Name   source.StringID
	Fields []FieldInfo
}

// FieldInfo is one resolved struct field.
type FieldInfo struct {
	Name source.StringID
	Type TypeID
}

// EnumInfo carries the resolved shape of a nominal enum type.
type EnumInfo struct {
	Name     source.StringID
	Variants []source.StringID
}

// FnInfo carries a resolved function type.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}
