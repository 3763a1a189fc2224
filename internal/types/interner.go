package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"sigil/internal/source"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid    TypeID
	Unresolved TypeID
	Unit       TypeID
	Bool       TypeID
	String     TypeID
	I8         TypeID
	I16        TypeID
	I32        TypeID
	I64        TypeID
	U8         TypeID
	U16        TypeID
	U32        TypeID
	U64        TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Nominal types (structs, enums) and function types additionally carry an
// info record addressed by the descriptor's Payload.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	structs  []StructInfo
	enums    []EnumInfo
	fns      []FnInfo
	fnIndex  map[string]TypeID
	generics uint32
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:   make(map[Type]TypeID, 64),
		fnIndex: make(map[string]TypeID),
	}
	// reserve 0 as invalid sentinel in every info table
	in.structs = append(in.structs, StructInfo{})
	in.enums = append(in.enums, EnumInfo{})
	in.fns = append(in.fns, FnInfo{})
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unresolved = in.Intern(Type{Kind: KindUnresolved})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.I8 = in.Intern(MakeInt(Width8))
	in.builtins.I16 = in.Intern(MakeInt(Width16))
	in.builtins.I32 = in.Intern(MakeInt(Width32))
	in.builtins.I64 = in.Intern(MakeInt(Width64))
	in.builtins.U8 = in.Intern(MakeUint(Width8))
	in.builtins.U16 = in.Intern(MakeUint(Width16))
	in.builtins.U32 = in.Intern(MakeUint(Width32))
	in.builtins.U64 = in.Intern(MakeUint(Width64))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// RegisterStruct allocates a nominal struct type with an empty field list.
// Fields are attached later via SetStructFields, which is what lets two
// struct declarations reference each other.
func (in *Interner) RegisterStruct(name source.StringID) TypeID {
	idx, err := safecast.Conv[uint32](len(in.structs))
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	in.structs = append(in.structs, StructInfo{Name: name})
	return in.Intern(Type{Kind: KindStruct, Name: name, Payload: idx})
}

// SetStructFields attaches resolved fields to a registered struct.
func (in *Interner) SetStructFields(id TypeID, fields []FieldInfo) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindStruct {
		panic("types: SetStructFields on non-struct")
	}
	in.structs[t.Payload].Fields = append([]FieldInfo(nil), fields...)
}

// StructOf returns the struct info for a struct TypeID.
func (in *Interner) StructOf(id TypeID) (*StructInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindStruct {
		return nil, false
	}
	return &in.structs[t.Payload], true
}

// RegisterEnum allocates a nominal enum type.
func (in *Interner) RegisterEnum(name source.StringID) TypeID {
	idx, err := safecast.Conv[uint32](len(in.enums))
	if err != nil {
		panic(fmt.Errorf("enum info overflow: %w", err))
	}
	in.enums = append(in.enums, EnumInfo{Name: name})
	return in.Intern(Type{Kind: KindEnum, Name: name, Payload: idx})
}

// SetEnumVariants attaches variants to a registered enum.
func (in *Interner) SetEnumVariants(id TypeID, variants []source.StringID) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindEnum {
		panic("types: SetEnumVariants on non-enum")
	}
	in.enums[t.Payload].Variants = append([]source.StringID(nil), variants...)
}

// EnumOf returns the enum info for an enum TypeID.
func (in *Interner) EnumOf(id TypeID) (*EnumInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindEnum {
		return nil, false
	}
	return &in.enums[t.Payload], true
}

// InternFn returns the TypeID for a function type. Function types are
// structural: identical parameter and result shapes share one ID.
func (in *Interner) InternFn(params []TypeID, result TypeID) TypeID {
	var sb strings.Builder
	for _, p := range params {
		fmt.Fprintf(&sb, "%d,", p)
	}
	fmt.Fprintf(&sb, "->%d", result)
	key := sb.String()
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	idx, err := safecast.Conv[uint32](len(in.fns))
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	in.fns = append(in.fns, FnInfo{
		Params: append([]TypeID(nil), params...),
		Result: result,
	})
	id := in.internRaw(Type{Kind: KindFn, Payload: idx})
	in.fnIndex[key] = id
	return id
}

// FnOf returns the function info for a fn TypeID.
func (in *Interner) FnOf(id TypeID) (*FnInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindFn {
		return nil, false
	}
	return &in.fns[t.Payload], true
}

// NewGeneric allocates a fresh generic parameter type. Each call yields a
// distinct TypeID even for the same name: generic parameters of different
// declarations never unify with each other.
func (in *Interner) NewGeneric(name source.StringID) TypeID {
	in.generics++
	return in.internRaw(Type{Kind: KindGeneric, Name: name, Payload: in.generics})
}

// Len reports the number of interned descriptors including sentinels.
func (in *Interner) Len() int { return len(in.types) }
