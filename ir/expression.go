package ir

// Expression represents an expression in the IR.
// Expressions live in a per-function arena and reference each other by handle.
type Expression struct {
	Kind ExpressionKind
}

// ExpressionKind represents the kind of expression.
type ExpressionKind interface {
	expressionKind()
}

// Literal represents a literal value.
type Literal struct {
	Value LiteralValue
}

func (Literal) expressionKind() {}

// LiteralValue represents literal values, tagged by width, signedness and float kind.
type LiteralValue interface {
	literalValue()
}

// LiteralBool is a boolean literal.
type LiteralBool bool

func (LiteralBool) literalValue() {}

// LiteralI8 is an 8-bit signed integer literal.
type LiteralI8 int8

func (LiteralI8) literalValue() {}

// LiteralU8 is an 8-bit unsigned integer literal.
type LiteralU8 uint8

func (LiteralU8) literalValue() {}

// LiteralI16 is a 16-bit signed integer literal.
type LiteralI16 int16

func (LiteralI16) literalValue() {}

// LiteralU16 is a 16-bit unsigned integer literal.
type LiteralU16 uint16

func (LiteralU16) literalValue() {}

// LiteralI32 is a 32-bit signed integer literal.
type LiteralI32 int32

func (LiteralI32) literalValue() {}

// LiteralU32 is a 32-bit unsigned integer literal.
type LiteralU32 uint32

func (LiteralU32) literalValue() {}

// LiteralI64 is a 64-bit signed integer literal.
type LiteralI64 int64

func (LiteralI64) literalValue() {}

// LiteralU64 is a 64-bit unsigned integer literal.
type LiteralU64 uint64

func (LiteralU64) literalValue() {}

// LiteralIntPtr is a pointer-sized signed integer literal.
type LiteralIntPtr int64

func (LiteralIntPtr) literalValue() {}

// LiteralUintPtr is a pointer-sized unsigned integer literal.
type LiteralUintPtr uint64

func (LiteralUintPtr) literalValue() {}

// LiteralF16 is a half-precision literal, stored widened.
type LiteralF16 float32

func (LiteralF16) literalValue() {}

// LiteralF32 is a single-precision literal.
type LiteralF32 float32

func (LiteralF32) literalValue() {}

// LiteralF64 is a double-precision literal.
type LiteralF64 float64

func (LiteralF64) literalValue() {}

// LiteralAbstractInt is an integer constant with no attached type.
type LiteralAbstractInt int64

func (LiteralAbstractInt) literalValue() {}

// LiteralAbstractFloat is a float constant with no attached type.
type LiteralAbstractFloat float64

func (LiteralAbstractFloat) literalValue() {}

// ExprConstant references a module-scope constant.
type ExprConstant struct {
	Constant ConstantHandle
}

func (ExprConstant) expressionKind() {}

// ExprZeroValue is the zero value of a type.
type ExprZeroValue struct {
	Type TypeHandle
}

func (ExprZeroValue) expressionKind() {}

// ExprCompose constructs a vector, matrix, array or struct from components.
type ExprCompose struct {
	Type       TypeHandle
	Components []ExpressionHandle
}

func (ExprCompose) expressionKind() {}

// ExprAccess indexes an array, vector, matrix or buffer with a dynamic index.
type ExprAccess struct {
	Base  ExpressionHandle
	Index ExpressionHandle
}

func (ExprAccess) expressionKind() {}

// ExprAccessIndex indexes with a constant index. For structs it selects a member.
type ExprAccessIndex struct {
	Base  ExpressionHandle
	Index uint32
}

func (ExprAccessIndex) expressionKind() {}

// ExprSplat broadcasts a scalar into a vector of Size components.
type ExprSplat struct {
	Size  VectorSize
	Value ExpressionHandle
}

func (ExprSplat) expressionKind() {}

// ExprArraySplat builds an array of Type by repeating Value for every element.
type ExprArraySplat struct {
	Type  TypeHandle
	Value ExpressionHandle
}

func (ExprArraySplat) expressionKind() {}

// ExprSwizzle reorders vector components.
type ExprSwizzle struct {
	Size    VectorSize
	Vector  ExpressionHandle
	Pattern [4]SwizzleComponent
}

func (ExprSwizzle) expressionKind() {}

// SwizzleComponent selects a vector component.
type SwizzleComponent uint8

const (
	SwizzleX SwizzleComponent = 0
	SwizzleY SwizzleComponent = 1
	SwizzleZ SwizzleComponent = 2
	SwizzleW SwizzleComponent = 3
)

// ExprFunctionArgument references an argument of the current function.
type ExprFunctionArgument struct {
	Index uint32
}

func (ExprFunctionArgument) expressionKind() {}

// ExprGlobalVariable references a global variable. Its type is a pointer
// to the variable's type, except for handle-space globals.
type ExprGlobalVariable struct {
	Variable GlobalVariableHandle
}

func (ExprGlobalVariable) expressionKind() {}

// ExprLocalVariable references a function-local variable.
type ExprLocalVariable struct {
	Variable uint32 // Index into Function.LocalVars
}

func (ExprLocalVariable) expressionKind() {}

// ExprLoad reads through a pointer.
type ExprLoad struct {
	Pointer ExpressionHandle
}

func (ExprLoad) expressionKind() {}

// ExprBufferLoad reads element Index of a structured buffer.
type ExprBufferLoad struct {
	Buffer ExpressionHandle
	Index  ExpressionHandle
}

func (ExprBufferLoad) expressionKind() {}

// ExprUnary applies a unary operator.
type ExprUnary struct {
	Op   UnaryOperator
	Expr ExpressionHandle
}

func (ExprUnary) expressionKind() {}

// UnaryOperator represents unary operators.
type UnaryOperator uint8

const (
	UnaryNegate     UnaryOperator = iota // Arithmetic negation
	UnaryLogicalNot                      // Logical not (!)
	UnaryBitwiseNot                      // Bitwise not (~)
)

// ExprBinary applies a binary operator.
type ExprBinary struct {
	Op    BinaryOperator
	Left  ExpressionHandle
	Right ExpressionHandle
}

func (ExprBinary) expressionKind() {}

// BinaryOperator represents binary operators.
type BinaryOperator uint8

const (
	BinaryAdd      BinaryOperator = iota // Addition
	BinarySubtract                       // Subtraction
	BinaryMultiply                       // Multiplication
	BinaryDivide                         // Division
	BinaryModulo                         // Modulo (remainder)

	BinaryEqual        // Equal (==)
	BinaryNotEqual     // Not equal (!=)
	BinaryLess         // Less than (<)
	BinaryLessEqual    // Less than or equal (<=)
	BinaryGreater      // Greater than (>)
	BinaryGreaterEqual // Greater than or equal (>=)

	BinaryAnd         // Bitwise AND
	BinaryExclusiveOr // Bitwise XOR
	BinaryInclusiveOr // Bitwise OR

	BinaryLogicalAnd // Logical AND (&&)
	BinaryLogicalOr  // Logical OR (||)

	BinaryShiftLeft  // Left shift (<<)
	BinaryShiftRight // Right shift (>>)
)

// IsShift reports whether op is a shift operator.
func (op BinaryOperator) IsShift() bool {
	return op == BinaryShiftLeft || op == BinaryShiftRight
}

// ExprSelect picks Accept when Condition holds, Reject otherwise.
type ExprSelect struct {
	Condition ExpressionHandle
	Accept    ExpressionHandle
	Reject    ExpressionHandle
}

func (ExprSelect) expressionKind() {}

// ExprConvert is a value-converting cast to Type.
type ExprConvert struct {
	Expr ExpressionHandle
	Type TypeHandle
}

func (ExprConvert) expressionKind() {}

// ExprBitcast reinterprets the bits of Expr as Type. Widths must match.
type ExprBitcast struct {
	Expr ExpressionHandle
	Type TypeHandle
}

func (ExprBitcast) expressionKind() {}

// ExprMath calls a math builtin.
type ExprMath struct {
	Fun  MathFunction
	Arg  ExpressionHandle
	Arg1 *ExpressionHandle
	Arg2 *ExpressionHandle
}

func (ExprMath) expressionKind() {}

// MathFunction represents math builtins.
type MathFunction uint8

const (
	MathAbs MathFunction = iota
	MathMin
	MathMax
	MathClamp
	MathSaturate
	MathCos
	MathSin
	MathTan
	MathAtan2
	MathCeil
	MathFloor
	MathRound
	MathFract
	MathTrunc
	MathExp
	MathExp2
	MathLog
	MathLog2
	MathPow
	MathSqrt
	MathInverseSqrt
	MathDot
	MathCross
	MathDistance
	MathLength
	MathNormalize
	MathReflect
	MathSign
	MathFma
	MathMix
	MathStep
	MathSmoothStep
	MathTranspose
	MathDeterminant
	MathCountOneBits
	MathReverseBits
)

// Arity returns the number of arguments the function takes.
func (f MathFunction) Arity() int {
	switch f {
	case MathMin, MathMax, MathAtan2, MathPow, MathDot, MathCross, MathDistance, MathReflect, MathStep:
		return 2
	case MathClamp, MathFma, MathMix, MathSmoothStep:
		return 3
	default:
		return 1
	}
}

// ExprCallResult is the result of a call statement.
type ExprCallResult struct {
	Function FunctionHandle
}

func (ExprCallResult) expressionKind() {}

// ExprArrayLength is the element count of a runtime-sized array.
type ExprArrayLength struct {
	Array ExpressionHandle
}

func (ExprArrayLength) expressionKind() {}

// ExpressionOperands returns the expressions kind reads, in evaluation order.
func ExpressionOperands(kind ExpressionKind) []ExpressionHandle {
	switch e := kind.(type) {
	case ExprCompose:
		return e.Components
	case ExprAccess:
		return []ExpressionHandle{e.Base, e.Index}
	case ExprAccessIndex:
		return []ExpressionHandle{e.Base}
	case ExprSplat:
		return []ExpressionHandle{e.Value}
	case ExprArraySplat:
		return []ExpressionHandle{e.Value}
	case ExprSwizzle:
		return []ExpressionHandle{e.Vector}
	case ExprLoad:
		return []ExpressionHandle{e.Pointer}
	case ExprBufferLoad:
		return []ExpressionHandle{e.Buffer, e.Index}
	case ExprUnary:
		return []ExpressionHandle{e.Expr}
	case ExprBinary:
		return []ExpressionHandle{e.Left, e.Right}
	case ExprSelect:
		return []ExpressionHandle{e.Condition, e.Accept, e.Reject}
	case ExprConvert:
		return []ExpressionHandle{e.Expr}
	case ExprBitcast:
		return []ExpressionHandle{e.Expr}
	case ExprMath:
		args := []ExpressionHandle{e.Arg}
		if e.Arg1 != nil {
			args = append(args, *e.Arg1)
		}
		if e.Arg2 != nil {
			args = append(args, *e.Arg2)
		}
		return args
	case ExprArrayLength:
		return []ExpressionHandle{e.Array}
	default:
		return nil
	}
}
