package types

import (
	"fmt"
	"strings"

	"sigil/internal/source"
)

// Label renders a type for diagnostics. strs resolves interned names; a nil
// interner falls back to kind names.
func (in *Interner) Label(id TypeID, strs *source.Interner) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	name := func(sid source.StringID) string {
		if strs != nil {
			if s, ok := strs.Lookup(sid); ok && s != "" {
				return s
			}
		}
		return "_"
	}
	switch t.Kind {
	case KindUnresolved:
		return "<unresolved>"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return fmt.Sprintf("i%d", t.Width)
	case KindUint:
		return fmt.Sprintf("u%d", t.Width)
	case KindArray:
		return fmt.Sprintf("[%s; %d]", in.Label(t.Elem, strs), t.Count)
	case KindStruct, KindEnum, KindGeneric:
		return name(t.Name)
	case KindFn:
		info, ok := in.FnOf(id)
		if !ok {
			return "fn(?)"
		}
		params := make([]string, 0, len(info.Params))
		for _, p := range info.Params {
			params = append(params, in.Label(p, strs))
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), in.Label(info.Result, strs))
	default:
		return t.Kind.String()
	}
}
