package ast

import (
	"sigil/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprLit
	ExprUnary
	ExprBinary
	ExprCall
	ExprMember
	ExprPath
	ExprIndex
	ExprArray
	ExprStruct
	ExprGroup
	ExprNondet
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprLit:
		return "literal"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprCall:
		return "call"
	case ExprMember:
		return "member"
	case ExprPath:
		return "path"
	case ExprIndex:
		return "index"
	case ExprArray:
		return "array"
	case ExprStruct:
		return "struct"
	case ExprGroup:
		return "group"
	case ExprNondet:
		return "nondet"
	default:
		return "invalid"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitString
	ExprLitTrue
	ExprLitFalse
	ExprLitUnit
)

type ExprUnaryOp uint8

const (
	ExprUnaryNeg ExprUnaryOp = iota
	ExprUnaryNot
	ExprUnaryBitNot
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNeg:
		return "-"
	case ExprUnaryNot:
		return "!"
	case ExprUnaryBitNot:
		return "~"
	default:
		return "?"
	}
}

type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryRem
	ExprBinaryEq
	ExprBinaryNe
	ExprBinaryLt
	ExprBinaryLe
	ExprBinaryGt
	ExprBinaryGe
	ExprBinaryAnd
	ExprBinaryOr
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShl
	ExprBinaryShr
)

func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryAdd:
		return "+"
	case ExprBinarySub:
		return "-"
	case ExprBinaryMul:
		return "*"
	case ExprBinaryDiv:
		return "/"
	case ExprBinaryRem:
		return "%"
	case ExprBinaryEq:
		return "=="
	case ExprBinaryNe:
		return "!="
	case ExprBinaryLt:
		return "<"
	case ExprBinaryLe:
		return "<="
	case ExprBinaryGt:
		return ">"
	case ExprBinaryGe:
		return ">="
	case ExprBinaryAnd:
		return "&&"
	case ExprBinaryOr:
		return "||"
	case ExprBinaryBitAnd:
		return "&"
	case ExprBinaryBitOr:
		return "|"
	case ExprBinaryBitXor:
		return "^"
	case ExprBinaryShl:
		return "<<"
	case ExprBinaryShr:
		return ">>"
	default:
		return "?"
	}
}

type ExprIdentData struct {
	Name source.StringID
}

type ExprLiteralData struct {
	Kind  ExprLitKind
	Value source.StringID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}

type ExprMemberData struct {
	Target    ExprID
	Field     source.StringID
	FieldSpan source.Span
}

// ExprPathData is a double-colon qualified reference: Type::member,
// Enum::Variant, or module::name. Segments are left-to-right.
type ExprPathData struct {
	Segments []source.StringID
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

type ExprArrayData struct {
	Elements []ExprID
}

type ExprStructData struct {
	Type   TypeID
	Fields []ExprStructField
}

type ExprStructField struct {
	Name  source.StringID
	Value ExprID
	Span  source.Span
}

type ExprGroupData struct {
	Inner ExprID
}
