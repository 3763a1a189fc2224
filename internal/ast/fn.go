package ast

import "sigil/internal/source"

// FnItem describes a function declaration. Owner names the declaring type
// for methods and associated functions; free functions have Owner ==
// source.NoStringID. HasReceiver is true when the first parameter is the
// receiver (`self`).
type FnItem struct {
	Name        source.StringID
	NameSpan    source.Span
	Owner       source.StringID
	Visibility  Visibility
	TypeParams  []TypeParam
	Params      []FnParamID
	HasReceiver bool
	ReturnType  TypeID // NoTypeID means unit
	Body        StmtID // NoStmtID for bodyless signatures
	Span        source.Span
}

// TypeParam is a declared generic parameter of a function.
type TypeParam struct {
	Name source.StringID
	Span source.Span
}

// FnParam is a single declared parameter. IsSelf marks the receiver; a
// receiver carries no syntactic type (its type is the owner).
type FnParam struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID
	IsSelf   bool
	Span     source.Span
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

func (i *Items) NewFnParam(name source.StringID, nameSpan source.Span, typ TypeID, isSelf bool, span source.Span) FnParamID {
	return FnParamID(i.FnParams.Allocate(FnParam{
		Name:     name,
		NameSpan: nameSpan,
		Type:     typ,
		IsSelf:   isSelf,
		Span:     span,
	}))
}

func (i *Items) FnParam(id FnParamID) *FnParam {
	return i.FnParams.Get(uint32(id))
}

func (i *Items) NewFn(
	name source.StringID,
	nameSpan source.Span,
	owner source.StringID,
	visibility Visibility,
	typeParams []TypeParam,
	params []FnParamID,
	hasReceiver bool,
	returnType TypeID,
	body StmtID,
	span source.Span,
) ItemID {
	payload := i.Fns.Allocate(FnItem{
		Name:        name,
		NameSpan:    nameSpan,
		Owner:       owner,
		Visibility:  visibility,
		TypeParams:  append([]TypeParam(nil), typeParams...),
		Params:      append([]FnParamID(nil), params...),
		HasReceiver: hasReceiver,
		ReturnType:  returnType,
		Body:        body,
		Span:        span,
	})
	return i.New(ItemFn, span, PayloadID(payload))
}
