package emit

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/gogpu/wgslgen/ir"
)

func TestNeedsParens_LeftAssociativity(t *testing.T) {
	properties := gopter.NewProperties(nil)
	ops := gen.IntRange(int(ir.BinaryAdd), int(ir.BinaryShiftRight))

	properties.Property("same operator on the left is bare", prop.ForAll(
		func(op int) bool {
			info := CBinaryOpInfo(ir.BinaryOperator(op))
			return !NeedsParens(LeftSide(InfoNone, info), info)
		},
		ops,
	))
	properties.Property("same operator on the right is parenthesized", prop.ForAll(
		func(op int) bool {
			info := CBinaryOpInfo(ir.BinaryOperator(op))
			return NeedsParens(RightSide(info, InfoNone), info)
		},
		ops,
	))
	properties.Property("atomic operands are never parenthesized", prop.ForAll(
		func(outer int) bool {
			o := CBinaryOpInfo(ir.BinaryOperator(outer))
			return !NeedsParens(LeftSide(InfoNone, o), InfoAtomic) &&
				!NeedsParens(RightSide(o, InfoNone), InfoAtomic) &&
				!NeedsParens(RightSide(Prefix("-"), InfoNone), InfoAtomic)
		},
		ops,
	))

	properties.TestingRun(t)
}

func TestNeedsParens_OperandFloor(t *testing.T) {
	and := OpInfo{Op: "&", Left: PrecBitAnd, Right: PrecBitAnd + 1, Operand: PrecPrefix}
	add := CBinaryOpInfo(ir.BinaryAdd)
	neg := Prefix("-")

	assert.True(t, NeedsParens(LeftSide(InfoNone, and), add), "sum inside a bitwise operand")
	assert.True(t, NeedsParens(RightSide(and, InfoNone), add))
	assert.False(t, NeedsParens(RightSide(and, InfoNone), neg))
	assert.False(t, NeedsParens(LeftSide(InfoNone, and), InfoPostfix))
}
