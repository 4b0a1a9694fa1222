// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"github.com/gogpu/wgslgen/emit"
	"github.com/gogpu/wgslgen/ir"
)

// mathNames are the WGSL builtin functions backing ir.MathFunction.
var mathNames = map[ir.MathFunction]string{
	ir.MathAbs:          "abs",
	ir.MathMin:          "min",
	ir.MathMax:          "max",
	ir.MathClamp:        "clamp",
	ir.MathSaturate:     "saturate",
	ir.MathCos:          "cos",
	ir.MathSin:          "sin",
	ir.MathTan:          "tan",
	ir.MathAtan2:        "atan2",
	ir.MathCeil:         "ceil",
	ir.MathFloor:        "floor",
	ir.MathRound:        "round",
	ir.MathFract:        "fract",
	ir.MathTrunc:        "trunc",
	ir.MathExp:          "exp",
	ir.MathExp2:         "exp2",
	ir.MathLog:          "log",
	ir.MathLog2:         "log2",
	ir.MathPow:          "pow",
	ir.MathSqrt:         "sqrt",
	ir.MathInverseSqrt:  "inverseSqrt",
	ir.MathDot:          "dot",
	ir.MathCross:        "cross",
	ir.MathDistance:     "distance",
	ir.MathLength:       "length",
	ir.MathNormalize:    "normalize",
	ir.MathReflect:      "reflect",
	ir.MathSign:         "sign",
	ir.MathFma:          "fma",
	ir.MathMix:          "mix",
	ir.MathStep:         "step",
	ir.MathSmoothStep:   "smoothstep",
	ir.MathTranspose:    "transpose",
	ir.MathDeterminant:  "determinant",
	ir.MathCountOneBits: "countOneBits",
	ir.MathReverseBits:  "reverseBits",
}

// BinaryOpInfo implements emit.Target. WGSL does not let bitwise, shift,
// comparison and logical operators take an operand of a looser operator
// without parentheses, so those carry an operand floor.
func (w *Writer) BinaryOpInfo(op ir.BinaryOperator) emit.OpInfo {
	info := emit.CBinaryOpInfo(op)
	switch op {
	case ir.BinaryAnd, ir.BinaryExclusiveOr, ir.BinaryInclusiveOr,
		ir.BinaryShiftLeft, ir.BinaryShiftRight:
		info.Operand = emit.PrecPrefix
	case ir.BinaryEqual, ir.BinaryNotEqual,
		ir.BinaryLess, ir.BinaryLessEqual, ir.BinaryGreater, ir.BinaryGreaterEqual:
		info.Operand = emit.PrecShift
	case ir.BinaryLogicalAnd, ir.BinaryLogicalOr:
		info.Operand = emit.PrecEquality
	}
	return info
}

// IsPointerSyntaxRequired implements emit.Target. Only pointer parameters
// are pointers in WGSL; variables are references and need no dereference.
func (w *Writer) IsPointerSyntaxRequired(h ir.ExpressionHandle) bool {
	kind, err := w.em.Expression(h)
	if err != nil {
		return false
	}
	arg, ok := kind.(ir.ExprFunctionArgument)
	if !ok {
		return false
	}
	fn := w.em.Function()
	if fn == nil || int(arg.Index) >= len(fn.Arguments) {
		return false
	}
	inner, err := w.em.TypeInner(fn.Arguments[arg.Index].Type)
	if err != nil {
		return false
	}
	_, isPointer := inner.(ir.PointerType)
	return isPointer
}

// EmitOperand implements emit.Target. A structured buffer is declared as
// an array variable but used as a pointer to it.
func (w *Writer) EmitOperand(h ir.ExpressionHandle, ctx emit.OpInfo) error {
	if _, named := w.em.NamedExpression(h); !named {
		if gh, ok := w.bufferGlobal(h); ok {
			w.out().Write("(&" + w.em.GlobalName(gh) + ")")
			return nil
		}
	}
	return w.em.DefaultEmitOperand(h, ctx)
}

// bufferGlobal reports whether h names a structured buffer global.
func (w *Writer) bufferGlobal(h ir.ExpressionHandle) (ir.GlobalVariableHandle, bool) {
	kind, err := w.em.Expression(h)
	if err != nil {
		return 0, false
	}
	ref, ok := kind.(ir.ExprGlobalVariable)
	if !ok || int(ref.Variable) >= len(w.module.GlobalVariables) {
		return 0, false
	}
	inner, err := w.em.TypeInner(w.module.GlobalVariables[ref.Variable].Type)
	if err != nil {
		return 0, false
	}
	_, isBuffer := inner.(ir.StructuredBufferType)
	return ref.Variable, isBuffer
}

// isArrayPointer reports whether h already designates a pointer to a
// runtime-sized array: a buffer global, or a pointer or buffer parameter.
func (w *Writer) isArrayPointer(h ir.ExpressionHandle) bool {
	if _, ok := w.bufferGlobal(h); ok || w.IsPointerSyntaxRequired(h) {
		return true
	}
	inner, err := w.em.ExprInner(h)
	if err != nil {
		return false
	}
	_, isBuffer := inner.(ir.StructuredBufferType)
	return isBuffer
}

// TryEmitExpr implements emit.Target.
//
//nolint:gocyclo,cyclop,funlen // one case per expression kind with WGSL syntax
func (w *Writer) TryEmitExpr(h ir.ExpressionHandle, ctx emit.OpInfo) (bool, error) {
	kind, err := w.em.Expression(h)
	if err != nil {
		return false, err
	}
	out := w.out()

	switch k := kind.(type) {
	case ir.Literal:
		// "- -1.5f" must not become the decrement token.
		if !isNegativeLiteral(k.Value) || (ctx.Left < emit.PrecPrefix && ctx.Right < emit.PrecPostfix) {
			return false, nil
		}
		out.Write("(")
		if err := w.EmitLiteral(k.Value); err != nil {
			return true, err
		}
		out.Write(")")
		return true, nil

	case ir.ExprCompose:
		return true, w.emitConstructor(k.Type, k.Components...)

	case ir.ExprSplat:
		ty, err := w.em.ExprTypeHandle(h)
		if err != nil {
			return true, err
		}
		return true, w.emitConstructor(ty, k.Value)

	case ir.ExprConvert:
		return true, w.emitConstructor(k.Type, k.Expr)

	case ir.ExprArraySplat:
		inner, err := w.typeInner(k.Type)
		if err != nil {
			return true, err
		}
		arr, ok := inner.(ir.ArrayType)
		if !ok || arr.Size.Constant == nil {
			return true, errorf(ErrInvalidModule, "array splat of non fixed-size type %d", k.Type)
		}
		args := make([]ir.ExpressionHandle, *arr.Size.Constant)
		for i := range args {
			args[i] = k.Value
		}
		return true, w.emitConstructor(k.Type, args...)

	case ir.ExprBitcast:
		out.Write("bitcast<")
		if err := w.EmitSimpleType(k.Type); err != nil {
			return true, err
		}
		out.Write(">(")
		if err := w.EmitOperand(k.Expr, emit.InfoNone); err != nil {
			return true, err
		}
		out.Write(")")
		return true, nil

	case ir.ExprSelect:
		return true, w.em.EmitCall("select", k.Reject, k.Accept, k.Condition)

	case ir.ExprMath:
		name, ok := mathNames[k.Fun]
		if !ok {
			return true, errorf(ErrUnsupportedConstruct, "math function %d", k.Fun)
		}
		return true, w.em.EmitCall(name, ir.ExpressionOperands(k)...)

	case ir.ExprBufferLoad:
		inner, open := w.em.OpenParens(ctx, emit.InfoPostfix)
		if err := w.EmitOperand(k.Buffer, emit.LeftSide(inner, emit.InfoPostfix)); err != nil {
			return true, err
		}
		out.Write("[")
		if err := w.EmitOperand(k.Index, emit.InfoNone); err != nil {
			return true, err
		}
		out.Write("]")
		w.em.CloseParens(open)
		return true, nil

	case ir.ExprArrayLength:
		out.Write("arrayLength(")
		if w.isArrayPointer(k.Array) {
			err = w.EmitOperand(k.Array, emit.InfoNone)
		} else {
			err = w.em.EmitPrefix(emit.Prefix("&"), k.Array, emit.InfoNone)
		}
		if err != nil {
			return true, err
		}
		out.Write(")")
		return true, nil

	case ir.ExprBinary:
		if k.Op.IsShift() {
			return w.tryEmitShift(k)
		}
		if k.Op == ir.BinaryMultiply {
			swap, err := w.isMatrixProduct(k)
			if err != nil {
				return true, err
			}
			if swap {
				return true, w.em.EmitInfix(w.BinaryOpInfo(k.Op), k.Right, k.Left, ctx)
			}
		}
	}
	return false, nil
}

// emitConstructor writes T(args).
func (w *Writer) emitConstructor(ty ir.TypeHandle, args ...ir.ExpressionHandle) error {
	if err := w.EmitSimpleType(ty); err != nil {
		return err
	}
	w.out().Write("(")
	if err := w.em.EmitArgs(args); err != nil {
		return err
	}
	w.out().Write(")")
	return nil
}

// isMatrixProduct reports whether a multiplication involves a matrix.
// Matrix axes are swapped on the way in, so the operands are swapped too.
func (w *Writer) isMatrixProduct(k ir.ExprBinary) (bool, error) {
	for _, operand := range [...]ir.ExpressionHandle{k.Left, k.Right} {
		inner, err := w.em.ExprInner(operand)
		if err != nil {
			return false, err
		}
		if _, ok := inner.(ir.MatrixType); ok {
			return true, nil
		}
	}
	return false, nil
}

// tryEmitShift writes a shift whose amount is a signed 32-bit integer or
// vector of them. WGSL shift amounts are unsigned, so the amount is
// reinterpreted. Both operands and the result are parenthesized, so neither
// operand sees the surrounding context and the result is atomic in it:
//
//	((lhs) << bitcast<u32>(rhs))
func (w *Writer) tryEmitShift(k ir.ExprBinary) (bool, error) {
	amount, err := w.em.ExprInner(k.Right)
	if err != nil {
		return true, err
	}
	unsigned := ir.ScalarType{Kind: ir.ScalarUint, Width: 4}
	var target ir.TypeInner
	switch t := amount.(type) {
	case ir.ScalarType:
		if t == ir.I32 {
			target = unsigned
		}
	case ir.VectorType:
		if t.Scalar == ir.I32 {
			target = ir.VectorType{Size: t.Size, Scalar: unsigned}
		}
	}
	if target == nil {
		return false, nil
	}
	text, err := w.typeText(target)
	if err != nil {
		return true, err
	}

	info := w.BinaryOpInfo(k.Op)
	out := w.out()
	out.Write("((")
	if err := w.EmitOperand(k.Left, emit.InfoNone); err != nil {
		return true, err
	}
	out.Write(") " + info.Op + " bitcast<" + text + ">(")
	if err := w.EmitOperand(k.Right, emit.InfoNone); err != nil {
		return true, err
	}
	out.Write("))")
	return true, nil
}
