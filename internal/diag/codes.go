package diag

import "fmt"

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Семантические (3xxx). Коды стабильны: инструменты парсят их.
	SemaInfo                    Code = 3000
	SemaDuplicateDeclaration    Code = 3001
	SemaUnresolvedImport        Code = 3002
	SemaVisibilityViolation     Code = 3003
	SemaUnresolvedName          Code = 3004
	SemaTypeMismatch            Code = 3005
	SemaArityMismatch           Code = 3006
	SemaReceiverDiscipline      Code = 3007
	SemaUnresolvedGenericParam  Code = 3008
	SemaUnknownField            Code = 3009
	SemaNotCallable             Code = 3010
	SemaInvalidBinaryOperands   Code = 3011
	SemaInvalidUnaryOperand     Code = 3012
	SemaNotIndexable            Code = 3013
	SemaUnknownVariant          Code = 3014
	SemaAssignImmutable         Code = 3015
	SemaConstNotConstant        Code = 3016
	SemaDuplicateImportName     Code = 3017
	SemaAliasCycle              Code = 3018

	// Внутренние (9xxx) — дефекты чекера, не ошибки пользователя.
	InternalInvariantViolation Code = 9001
)

func (c Code) String() string {
	switch c {
	case UnknownCode:
		return "SIG0000"
	default:
		return fmt.Sprintf("SIG%04d", uint16(c))
	}
}

// IsInternal reports whether the code marks a checker defect rather than a
// user-facing error.
func (c Code) IsInternal() bool {
	return c >= 9000
}
