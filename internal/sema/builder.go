package sema

import (
	"errors"
	"fmt"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
)

// Options configures a checking run.
type Options struct {
	// Strings must be the interner the parser used for the AST. nil
	// allocates a fresh one, which only makes sense for empty inputs.
	Strings *source.Interner
	// MaxDiagnostics caps the diagnostic bag; 0 uses DefaultMaxDiagnostics.
	MaxDiagnostics int
	// Hints sizes the symbol arenas.
	Hints symbols.Hints
}

// DefaultMaxDiagnostics bounds a single run's diagnostic output.
const DefaultMaxDiagnostics = 100

var (
	// ErrAlreadyChecked is returned when Check is called twice.
	ErrAlreadyChecked = errors.New("sema: checking already performed")
	// ErrNotChecked is returned when Context is requested before Check.
	ErrNotChecked = errors.New("sema: checking has not completed")
)

// InternalError reports checker defects found by the completion sweep.
// It is never produced by user mistakes in the checked program.
type InternalError struct {
	Violations []diag.Diagnostic
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("sema: %d internal invariant violation(s)", len(e.Violations))
}

// BuilderState is the typestate of a ContextBuilder.
type BuilderState uint8

const (
	// StateChecking accepts exactly one Check call.
	StateChecking BuilderState = iota
	// StateComplete allows Context access and nothing else.
	StateComplete
)

// ContextBuilder drives one checking run. The two-state protocol makes an
// unchecked TypedContext unrepresentable: Context is only reachable after
// Check has moved the builder to StateComplete.
type ContextBuilder struct {
	state BuilderState
	chk   *checker
	bag   *diag.Bag
	ctx   *TypedContext
}

// NewContextBuilder wires a builder for the given AST and source files.
func NewContextBuilder(b *ast.Builder, fset *source.FileSet, opts Options) *ContextBuilder {
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = DefaultMaxDiagnostics
	}
	strs := opts.Strings
	if strs == nil {
		strs = source.NewInterner()
	}
	bag := diag.NewBag(maxDiag)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	return &ContextBuilder{
		state: StateChecking,
		chk:   newChecker(b, fset, strs, reporter, opts.Hints),
		bag:   bag,
	}
}

// State returns the current typestate.
func (cb *ContextBuilder) State() BuilderState { return cb.state }

// Diagnostics returns the diagnostic bag. Valid in any state.
func (cb *ContextBuilder) Diagnostics() *diag.Bag { return cb.bag }

// Check runs the five phases, the nondet fixup, and the completion sweep,
// then freezes the context. It returns ErrAlreadyChecked on re-entry and
// an *InternalError when the sweep found checker defects.
func (cb *ContextBuilder) Check() error {
	if cb.state != StateChecking {
		return ErrAlreadyChecked
	}
	c := cb.chk

	c.advance(PhaseProcessDirectives)
	c.processDirectives()
	c.advance(PhaseRegisterTypes)
	c.registerTypes()
	c.advance(PhaseResolveImports)
	c.resolveImports()
	c.advance(PhaseRegisterFunctions)
	c.registerFunctions()
	c.advance(PhaseInferVariables)
	c.inferVariables()

	c.assignReturnNondets()
	c.verifyCompletion(cb.bag.HasErrors())
	c.advance(PhaseComplete)

	cb.bag.Sort()
	cb.ctx = c.buildContext()
	cb.state = StateComplete

	if len(c.internalBag) > 0 {
		return &InternalError{Violations: c.internalBag}
	}
	return nil
}

// Context returns the typed context. Only available once checking has
// completed.
func (cb *ContextBuilder) Context() (*TypedContext, error) {
	if cb.state != StateComplete {
		return nil, ErrNotChecked
	}
	return cb.ctx, nil
}

// BuildTypedContext is the package entry point: run the checker over a
// parsed module set and return the typed context together with all
// diagnostics. err is non-nil only for checker defects (internal
// invariant violations), never for errors in the checked program; those
// live in the bag.
func BuildTypedContext(b *ast.Builder, fset *source.FileSet, opts Options) (*TypedContext, *diag.Bag, error) {
	cb := NewContextBuilder(b, fset, opts)
	err := cb.Check()
	ctx, ctxErr := cb.Context()
	if err == nil {
		err = ctxErr
	}
	return ctx, cb.Diagnostics(), err
}
