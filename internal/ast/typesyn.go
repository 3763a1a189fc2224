package ast

import (
	"sigil/internal/source"
)

// TypeExprKind enumerates syntactic type forms as written in source.
type TypeExprKind uint8

const (
	TypeExprPath TypeExprKind = iota
	TypeExprArray
	TypeExprFn
)

type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Payload PayloadID
}

// TypePathData names a type: builtin (i32, bool, ...), user type, generic
// parameter, or module-qualified reference.
type TypePathData struct {
	Segments []source.StringID
}

// TypeArrayData is `[Elem; Size]`. Size is an expression in a structural
// position; it is evaluated as a constant, not type-checked as a value.
type TypeArrayData struct {
	Elem TypeID
	Size ExprID
}

// TypeFnData is a function type in signature position.
type TypeFnData struct {
	Params []TypeID
	Result TypeID
}

// Types manages allocation of syntactic type expressions.
type Types struct {
	Arena  *Arena[TypeExpr]
	Paths  *Arena[TypePathData]
	Arrays *Arena[TypeArrayData]
	Fns    *Arena[TypeFnData]
}

func NewTypes(capHint uint) *Types {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Types{
		Arena:  NewArena[TypeExpr](capHint),
		Paths:  NewArena[TypePathData](capHint),
		Arrays: NewArena[TypeArrayData](capHint),
		Fns:    NewArena[TypeFnData](capHint),
	}
}

func (t *Types) new(kind TypeExprKind, span source.Span, payload PayloadID) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (t *Types) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

// NewPath creates a named type reference.
func (t *Types) NewPath(span source.Span, segments []source.StringID) TypeID {
	payload := t.Paths.Allocate(TypePathData{
		Segments: append([]source.StringID(nil), segments...),
	})
	return t.new(TypeExprPath, span, PayloadID(payload))
}

// Path returns the path data for the given type ID.
func (t *Types) Path(id TypeID) (*TypePathData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprPath {
		return nil, false
	}
	return t.Paths.Get(uint32(te.Payload)), true
}

// NewArray creates an array type expression.
func (t *Types) NewArray(span source.Span, elem TypeID, size ExprID) TypeID {
	payload := t.Arrays.Allocate(TypeArrayData{Elem: elem, Size: size})
	return t.new(TypeExprArray, span, PayloadID(payload))
}

// Array returns the array data for the given type ID.
func (t *Types) Array(id TypeID) (*TypeArrayData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprArray {
		return nil, false
	}
	return t.Arrays.Get(uint32(te.Payload)), true
}

// NewFn creates a function type expression.
func (t *Types) NewFn(span source.Span, params []TypeID, result TypeID) TypeID {
	payload := t.Fns.Allocate(TypeFnData{
		Params: append([]TypeID(nil), params...),
		Result: result,
	})
	return t.new(TypeExprFn, span, PayloadID(payload))
}

// Fn returns the function type data for the given type ID.
func (t *Types) Fn(id TypeID) (*TypeFnData, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprFn {
		return nil, false
	}
	return t.Fns.Get(uint32(te.Payload)), true
}
