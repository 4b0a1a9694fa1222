package emit

import (
	"fmt"

	"github.com/gogpu/wgslgen/ir"
)

// swizzleComponents names vector components in order.
const swizzleComponents = "xyzw"

// defaultMathNames are the C-family spellings of math builtins.
var defaultMathNames = map[ir.MathFunction]string{
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
	ir.MathFract:        "frac",
	ir.MathTrunc:        "trunc",
	ir.MathExp:          "exp",
	ir.MathExp2:         "exp2",
	ir.MathLog:          "log",
	ir.MathLog2:         "log2",
	ir.MathPow:          "pow",
	ir.MathSqrt:         "sqrt",
	ir.MathInverseSqrt:  "rsqrt",
	ir.MathDot:          "dot",
	ir.MathCross:        "cross",
	ir.MathDistance:     "distance",
	ir.MathLength:       "length",
	ir.MathNormalize:    "normalize",
	ir.MathReflect:      "reflect",
	ir.MathSign:         "sign",
	ir.MathFma:          "mad",
	ir.MathMix:          "lerp",
	ir.MathStep:         "step",
	ir.MathSmoothStep:   "smoothstep",
	ir.MathTranspose:    "transpose",
	ir.MathDeterminant:  "determinant",
	ir.MathCountOneBits: "countbits",
	ir.MathReverseBits:  "reversebits",
}

// EmitExpr writes expression h in context ctx. Baked expressions are
// referenced by their temporary; everything else is offered to the target
// before the default rendering applies.
func (e *Emitter) EmitExpr(h ir.ExpressionHandle, ctx OpInfo) error {
	if name, ok := e.NamedExpression(h); ok {
		e.out.Write(name)
		return nil
	}
	handled, err := e.target.TryEmitExpr(h, ctx)
	if err != nil || handled {
		return err
	}
	return e.DefaultEmitExpr(h, ctx)
}

// NamedExpression returns the temporary holding a baked expression.
func (e *Emitter) NamedExpression(h ir.ExpressionHandle) (string, bool) {
	if e.fn == nil {
		return "", false
	}
	name, ok := e.fn.named[h]
	return name, ok
}

// DefaultEmitOperand writes an operand with no decoration.
func (e *Emitter) DefaultEmitOperand(h ir.ExpressionHandle, ctx OpInfo) error {
	return e.EmitExpr(h, ctx)
}

// DefaultIsPointerSyntaxRequired reports false: C-like defaults pass
// variables by reference and never dereference explicitly.
func (e *Emitter) DefaultIsPointerSyntaxRequired(ir.ExpressionHandle) bool {
	return false
}

// EmitReference writes the location a pointer-typed expression designates,
// dereferencing it when the target requires pointer syntax.
func (e *Emitter) EmitReference(h ir.ExpressionHandle, ctx OpInfo) error {
	if !e.target.IsPointerSyntaxRequired(h) {
		return e.target.EmitOperand(h, ctx)
	}
	deref := Prefix("*")
	inner, open := e.OpenParens(ctx, deref)
	e.out.Write(deref.Op)
	if err := e.target.EmitOperand(h, RightSide(deref, inner)); err != nil {
		return err
	}
	e.CloseParens(open)
	return nil
}

// EmitInfix writes left op right, parenthesized as ctx requires.
func (e *Emitter) EmitInfix(info OpInfo, left, right ir.ExpressionHandle, ctx OpInfo) error {
	inner, open := e.OpenParens(ctx, info)
	if err := e.target.EmitOperand(left, LeftSide(inner, info)); err != nil {
		return err
	}
	e.out.Write(" " + info.Op + " ")
	if err := e.target.EmitOperand(right, RightSide(info, inner)); err != nil {
		return err
	}
	e.CloseParens(open)
	return nil
}

// EmitPrefix writes a prefix operator applied to operand.
func (e *Emitter) EmitPrefix(info OpInfo, operand ir.ExpressionHandle, ctx OpInfo) error {
	inner, open := e.OpenParens(ctx, info)
	e.out.Write(info.Op)
	if err := e.target.EmitOperand(operand, RightSide(info, inner)); err != nil {
		return err
	}
	e.CloseParens(open)
	return nil
}

// EmitArgs writes a comma-separated argument list.
func (e *Emitter) EmitArgs(args []ir.ExpressionHandle) error {
	for i, arg := range args {
		if i > 0 {
			e.out.Write(", ")
		}
		if err := e.target.EmitOperand(arg, InfoNone); err != nil {
			return err
		}
	}
	return nil
}

// EmitCall writes callee(args).
func (e *Emitter) EmitCall(callee string, args ...ir.ExpressionHandle) error {
	e.out.Write(callee + "(")
	if err := e.EmitArgs(args); err != nil {
		return err
	}
	e.out.Write(")")
	return nil
}

// emitPostfix writes base followed by suffix, e.g. an index or member access.
func (e *Emitter) emitPostfix(base ir.ExpressionHandle, ctx OpInfo, suffix func() error) error {
	inner, open := e.OpenParens(ctx, InfoPostfix)
	if err := e.EmitReference(base, LeftSide(inner, InfoPostfix)); err != nil {
		return err
	}
	if err := suffix(); err != nil {
		return err
	}
	e.CloseParens(open)
	return nil
}

// pointee returns the type an access base refers to, looking through pointers.
func (e *Emitter) pointee(base ir.ExpressionHandle) (ir.TypeInner, error) {
	inner, err := e.ExprInner(base)
	if err != nil {
		return nil, err
	}
	if ptr, ok := inner.(ir.PointerType); ok {
		return e.TypeInner(ptr.Base)
	}
	return inner, nil
}

// DefaultEmitExpr writes h with C-family syntax.
//
//nolint:gocyclo,cyclop,funlen // Expression rendering requires handling all expression kinds
func (e *Emitter) DefaultEmitExpr(h ir.ExpressionHandle, ctx OpInfo) error {
	kind, err := e.Expression(h)
	if err != nil {
		return err
	}

	switch k := kind.(type) {
	case ir.Literal:
		return e.target.EmitLiteral(k.Value)

	case ir.ExprConstant:
		e.out.Write(e.ConstantName(k.Constant))
		return nil

	case ir.ExprZeroValue:
		if err := e.target.EmitType(k.Type, nil); err != nil {
			return err
		}
		e.out.Write("()")
		return nil

	case ir.ExprFunctionArgument:
		e.out.Write(e.ArgumentName(e.fn.handle, int(k.Index)))
		return nil

	case ir.ExprGlobalVariable:
		e.out.Write(e.GlobalName(k.Variable))
		return nil

	case ir.ExprLocalVariable:
		e.out.Write(e.LocalName(k.Variable))
		return nil

	case ir.ExprCompose:
		inner, err := e.TypeInner(k.Type)
		if err != nil {
			return err
		}
		switch inner.(type) {
		case ir.VectorType, ir.MatrixType:
			if err := e.target.EmitType(k.Type, nil); err != nil {
				return err
			}
			e.out.Write("(")
			if err := e.EmitArgs(k.Components); err != nil {
				return err
			}
			e.out.Write(")")
		default:
			e.out.Write("{")
			if err := e.EmitArgs(k.Components); err != nil {
				return err
			}
			e.out.Write("}")
		}
		return nil

	case ir.ExprSplat:
		ty, err := e.ExprTypeHandle(h)
		if err != nil {
			return err
		}
		return e.emitCast(ty, k.Value, ctx)

	case ir.ExprArraySplat:
		arr, ok := e.mustArray(k.Type)
		if !ok {
			return fmt.Errorf("array splat type %d is not a fixed-size array", k.Type)
		}
		e.out.Write("{")
		for i := uint32(0); i < *arr.Size.Constant; i++ {
			if i > 0 {
				e.out.Write(", ")
			}
			if err := e.target.EmitOperand(k.Value, InfoNone); err != nil {
				return err
			}
		}
		e.out.Write("}")
		return nil

	case ir.ExprAccess:
		return e.emitPostfix(k.Base, ctx, func() error {
			e.out.Write("[")
			if err := e.target.EmitOperand(k.Index, InfoNone); err != nil {
				return err
			}
			e.out.Write("]")
			return nil
		})

	case ir.ExprAccessIndex:
		base, err := e.pointee(k.Base)
		if err != nil {
			return err
		}
		return e.emitPostfix(k.Base, ctx, func() error {
			switch base.(type) {
			case ir.StructType:
				baseType, err := e.pointeeHandle(k.Base)
				if err != nil {
					return err
				}
				e.out.Write("." + e.MemberName(baseType, int(k.Index)))
			case ir.VectorType:
				if k.Index >= uint32(len(swizzleComponents)) {
					return fmt.Errorf("vector component %d out of range", k.Index)
				}
				e.out.Write("." + swizzleComponents[k.Index:k.Index+1])
			default:
				e.out.Writef("[%d]", k.Index)
			}
			return nil
		})

	case ir.ExprSwizzle:
		return e.emitPostfix(k.Vector, ctx, func() error {
			e.out.Write(".")
			for i := 0; i < int(k.Size); i++ {
				e.out.Write(swizzleComponents[k.Pattern[i] : k.Pattern[i]+1])
			}
			return nil
		})

	case ir.ExprLoad:
		return e.EmitReference(k.Pointer, ctx)

	case ir.ExprBufferLoad:
		return e.emitPostfix(k.Buffer, ctx, func() error {
			e.out.Write(".Load(")
			if err := e.target.EmitOperand(k.Index, InfoNone); err != nil {
				return err
			}
			e.out.Write(")")
			return nil
		})

	case ir.ExprUnary:
		return e.EmitPrefix(CUnaryOpInfo(k.Op), k.Expr, ctx)

	case ir.ExprBinary:
		return e.EmitInfix(e.target.BinaryOpInfo(k.Op), k.Left, k.Right, ctx)

	case ir.ExprSelect:
		inner, open := e.OpenParens(ctx, conditionalInfo)
		if err := e.target.EmitOperand(k.Condition, LeftSide(inner, conditionalInfo)); err != nil {
			return err
		}
		e.out.Write(" ? ")
		if err := e.target.EmitOperand(k.Accept, InfoNone); err != nil {
			return err
		}
		e.out.Write(" : ")
		if err := e.target.EmitOperand(k.Reject, RightSide(conditionalInfo, inner)); err != nil {
			return err
		}
		e.CloseParens(open)
		return nil

	case ir.ExprConvert:
		return e.emitCast(k.Type, k.Expr, ctx)

	case ir.ExprMath:
		name, ok := defaultMathNames[k.Fun]
		if !ok {
			return e.target.Unsupportedf("math function %d", k.Fun)
		}
		return e.EmitCall(name, ir.ExpressionOperands(k)...)

	case ir.ExprCallResult:
		return fmt.Errorf("call result %d used before its call", h)

	case ir.ExprBitcast:
		return e.target.Unsupportedf("bitcast has no default rendering")

	case ir.ExprArrayLength:
		return e.target.Unsupportedf("array length has no default rendering")

	default:
		return e.target.Unsupportedf("expression %T", kind)
	}
}

// emitCast writes a C cast of value to ty.
func (e *Emitter) emitCast(ty ir.TypeHandle, value ir.ExpressionHandle, ctx OpInfo) error {
	cast := Prefix("")
	inner, open := e.OpenParens(ctx, cast)
	e.out.Write("(")
	if err := e.target.EmitType(ty, nil); err != nil {
		return err
	}
	e.out.Write(")")
	if err := e.target.EmitOperand(value, RightSide(cast, inner)); err != nil {
		return err
	}
	e.CloseParens(open)
	return nil
}

// mustArray returns ty as a fixed-size array type.
func (e *Emitter) mustArray(ty ir.TypeHandle) (ir.ArrayType, bool) {
	inner, err := e.TypeInner(ty)
	if err != nil {
		return ir.ArrayType{}, false
	}
	arr, ok := inner.(ir.ArrayType)
	if !ok || arr.Size.Constant == nil {
		return ir.ArrayType{}, false
	}
	return arr, true
}

// pointeeHandle returns the handle of the type an access base refers to.
func (e *Emitter) pointeeHandle(base ir.ExpressionHandle) (ir.TypeHandle, error) {
	res, err := e.ExprType(base)
	if err != nil {
		return 0, err
	}
	if res.Handle != nil {
		return *res.Handle, nil
	}
	if ptr, ok := res.Value.(ir.PointerType); ok {
		return ptr.Base, nil
	}
	return e.Intern(res.Value), nil
}
