package symbols

import (
	"sigil/internal/source"
	"sigil/internal/types"
)

// ParamSig is one declared parameter of a function signature. The receiver,
// when present, is always Params[0].
type ParamSig struct {
	Name source.StringID
	Type types.TypeID
	Span source.Span
}

// FunctionSignature captures everything call checking needs: resolved
// parameter and result types, the declared generic parameters, and whether
// the function takes a receiver (instance method) or not (free or
// associated function).
type FunctionSignature struct {
	Params      []ParamSig
	Result      types.TypeID
	TypeParams  []types.TypeID
	HasReceiver bool
	Span        source.Span
}

// Arity reports the number of caller-supplied arguments: the receiver slot
// is not counted.
func (s *FunctionSignature) Arity() int {
	if s == nil {
		return 0
	}
	if s.HasReceiver {
		return len(s.Params) - 1
	}
	return len(s.Params)
}

// CallParams returns the parameter slots matched against call arguments,
// excluding the receiver.
func (s *FunctionSignature) CallParams() []ParamSig {
	if s == nil {
		return nil
	}
	if s.HasReceiver {
		return s.Params[1:]
	}
	return s.Params
}
