package sema

// Phase tracks the checker's progress through its five ordered passes.
//
// Phase progression must be sequential:
// - types must exist before signatures reference them,
// - signatures must exist before bodies call each other (including forward
//   and mutually recursive calls),
// - imports must resolve before body checking needs cross-module symbols.
//
// Transitions are validated by checker.advance using phasePrerequisites.
type Phase uint8

const (
	PhaseNotStarted        Phase = iota
	PhaseProcessDirectives       // raw imports registered against the scope tree
	PhaseRegisterTypes           // struct/enum/alias/const names in the symbol table
	PhaseResolveImports          // import bindings resolved, visibility checked
	PhaseRegisterFunctions       // free function and method signatures collected
	PhaseInferVariables          // bodies checked, typed context populated
	PhaseComplete                // verification sweep passed, context frozen
)

// phasePrerequisites maps each phase to its required predecessor. The
// explicit mapping is safer than arithmetic and keeps transitions auditable.
var phasePrerequisites = map[Phase]Phase{
	PhaseProcessDirectives: PhaseNotStarted,
	PhaseRegisterTypes:     PhaseProcessDirectives,
	PhaseResolveImports:    PhaseRegisterTypes,
	PhaseRegisterFunctions: PhaseResolveImports,
	PhaseInferVariables:    PhaseRegisterFunctions,
	PhaseComplete:          PhaseInferVariables,
}

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseProcessDirectives:
		return "ProcessDirectives"
	case PhaseRegisterTypes:
		return "RegisterTypes"
	case PhaseResolveImports:
		return "ResolveImports"
	case PhaseRegisterFunctions:
		return "RegisterFunctions"
	case PhaseInferVariables:
		return "InferVariables"
	case PhaseComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}
