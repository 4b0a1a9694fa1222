package emit

import "github.com/gogpu/wgslgen/ir"

// Precedence is the binding strength of one side of an operator.
// Higher values bind tighter.
type Precedence uint8

// Precedence levels, loosest first. Every level leaves room for a left and a
// right value so that associativity can be expressed.
const (
	PrecNone           Precedence = 0
	PrecConditional    Precedence = 10
	PrecOr             Precedence = 20
	PrecAnd            Precedence = 30
	PrecBitOr          Precedence = 40
	PrecBitXor         Precedence = 50
	PrecBitAnd         Precedence = 60
	PrecEquality       Precedence = 70
	PrecRelational     Precedence = 80
	PrecShift          Precedence = 90
	PrecAdditive       Precedence = 100
	PrecMultiplicative Precedence = 110
	PrecPrefix         Precedence = 120
	PrecPostfix        Precedence = 130
	PrecAtomic         Precedence = 250
)

// OpInfo is an operator together with the precedence of its two sides.
//
// The same type describes the context an operand is emitted in: Left and Right
// are then the binding strengths of whatever sits on either side of the
// operand. Operand, when set, is the loosest precedence an operand may have
// without parentheses, for grammars that forbid mixing some operators.
type OpInfo struct {
	Op      string
	Left    Precedence
	Right   Precedence
	Operand Precedence
}

// Common operator infos.
var (
	InfoNone    = OpInfo{}
	InfoAtomic  = OpInfo{Left: PrecAtomic, Right: PrecAtomic}
	InfoPostfix = OpInfo{Left: PrecPostfix, Right: PrecPostfix + 1}
)

// Prefix returns the info of a prefix operator.
func Prefix(op string) OpInfo {
	return OpInfo{Op: op, Left: PrecPrefix, Right: PrecPrefix}
}

// leftAssoc returns the info of a left-associative binary operator.
func leftAssoc(op string, prec Precedence) OpInfo {
	return OpInfo{Op: op, Left: prec, Right: prec + 1}
}

// LeftSide returns the context of the left operand of op emitted in outer.
func LeftSide(outer, op OpInfo) OpInfo {
	return OpInfo{Left: outer.Left, Right: op.Left, Operand: op.Operand}
}

// RightSide returns the context of the right operand of op emitted in outer.
func RightSide(op, outer OpInfo) OpInfo {
	return OpInfo{Left: op.Right, Right: outer.Right, Operand: op.Operand}
}

// NeedsParens reports whether inner must be parenthesized in context outer.
func NeedsParens(outer, inner OpInfo) bool {
	if inner.Left <= outer.Left || inner.Right <= outer.Right {
		return true
	}
	return outer.Operand != PrecNone && inner.Left < outer.Operand
}

// CBinaryOpInfo returns the C operator and precedence of a binary operator.
func CBinaryOpInfo(op ir.BinaryOperator) OpInfo {
	switch op {
	case ir.BinaryAdd:
		return leftAssoc("+", PrecAdditive)
	case ir.BinarySubtract:
		return leftAssoc("-", PrecAdditive)
	case ir.BinaryMultiply:
		return leftAssoc("*", PrecMultiplicative)
	case ir.BinaryDivide:
		return leftAssoc("/", PrecMultiplicative)
	case ir.BinaryModulo:
		return leftAssoc("%", PrecMultiplicative)
	case ir.BinaryEqual:
		return leftAssoc("==", PrecEquality)
	case ir.BinaryNotEqual:
		return leftAssoc("!=", PrecEquality)
	case ir.BinaryLess:
		return leftAssoc("<", PrecRelational)
	case ir.BinaryLessEqual:
		return leftAssoc("<=", PrecRelational)
	case ir.BinaryGreater:
		return leftAssoc(">", PrecRelational)
	case ir.BinaryGreaterEqual:
		return leftAssoc(">=", PrecRelational)
	case ir.BinaryAnd:
		return leftAssoc("&", PrecBitAnd)
	case ir.BinaryExclusiveOr:
		return leftAssoc("^", PrecBitXor)
	case ir.BinaryInclusiveOr:
		return leftAssoc("|", PrecBitOr)
	case ir.BinaryLogicalAnd:
		return leftAssoc("&&", PrecAnd)
	case ir.BinaryLogicalOr:
		return leftAssoc("||", PrecOr)
	case ir.BinaryShiftLeft:
		return leftAssoc("<<", PrecShift)
	case ir.BinaryShiftRight:
		return leftAssoc(">>", PrecShift)
	default:
		return leftAssoc("?", PrecNone)
	}
}

// CUnaryOpInfo returns the C operator and precedence of a unary operator.
func CUnaryOpInfo(op ir.UnaryOperator) OpInfo {
	switch op {
	case ir.UnaryNegate:
		return Prefix("-")
	case ir.UnaryLogicalNot:
		return Prefix("!")
	default:
		return Prefix("~")
	}
}

// conditionalInfo is the right-associative C conditional operator.
var conditionalInfo = OpInfo{Op: "?:", Left: PrecConditional + 1, Right: PrecConditional}

// OpenParens writes "(" when inner needs parentheses in outer. It returns the
// context for the contents and whether a closing parenthesis is owed.
func (e *Emitter) OpenParens(outer, inner OpInfo) (OpInfo, bool) {
	if NeedsParens(outer, inner) {
		e.out.Write("(")
		return InfoNone, true
	}
	return outer, false
}

// CloseParens writes ")" when open is set.
func (e *Emitter) CloseParens(open bool) {
	if open {
		e.out.Write(")")
	}
}
