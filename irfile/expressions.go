package irfile

import (
	"math"
	"strconv"

	"github.com/gogpu/wgslgen/ir"
)

//nolint:gocyclo,cyclop,funlen // one case per expression kind
func convertExpression(e *exprDoc) (ir.ExpressionKind, error) {
	h := func(v uint32) ir.ExpressionHandle { return ir.ExpressionHandle(v) }

	switch {
	case e.Literal != nil:
		lit, err := convertLiteral(e.Literal)
		if err != nil {
			return nil, at("literal", err)
		}
		return ir.Literal{Value: lit}, nil
	case e.Constant != nil:
		return ir.ExprConstant{Constant: ir.ConstantHandle(*e.Constant)}, nil
	case e.Zero != nil:
		return ir.ExprZeroValue{Type: ir.TypeHandle(*e.Zero)}, nil
	case e.Argument != nil:
		return ir.ExprFunctionArgument{Index: *e.Argument}, nil
	case e.Global != nil:
		return ir.ExprGlobalVariable{Variable: ir.GlobalVariableHandle(*e.Global)}, nil
	case e.Local != nil:
		return ir.ExprLocalVariable{Variable: *e.Local}, nil
	case e.Compose != nil:
		return ir.ExprCompose{Type: ir.TypeHandle(e.Compose.Type), Components: exprHandles(e.Compose.Components)}, nil
	case e.Splat != nil:
		return ir.ExprSplat{Size: ir.VectorSize(e.Splat.Size), Value: h(e.Splat.Value)}, nil
	case e.ArraySplat != nil:
		return ir.ExprArraySplat{Type: ir.TypeHandle(e.ArraySplat.Type), Value: h(e.ArraySplat.Value)}, nil
	case e.Access != nil:
		return ir.ExprAccess{Base: h(e.Access.Base), Index: h(e.Access.Index)}, nil
	case e.AccessIndex != nil:
		return ir.ExprAccessIndex{Base: h(e.AccessIndex.Base), Index: e.AccessIndex.Index}, nil
	case e.Swizzle != nil:
		return convertSwizzle(e.Swizzle)
	case e.Load != nil:
		return ir.ExprLoad{Pointer: h(*e.Load)}, nil
	case e.BufferLoad != nil:
		return ir.ExprBufferLoad{Buffer: h(e.BufferLoad.Buffer), Index: h(e.BufferLoad.Index)}, nil
	case e.Unary != nil:
		op, err := lookup(unaryNames, "unary operator", e.Unary.Op)
		if err != nil {
			return nil, at("unary", err)
		}
		return ir.ExprUnary{Op: op, Expr: h(e.Unary.Expr)}, nil
	case e.Binary != nil:
		op, err := lookup(binaryNames, "binary operator", e.Binary.Op)
		if err != nil {
			return nil, at("binary", err)
		}
		return ir.ExprBinary{Op: op, Left: h(e.Binary.Left), Right: h(e.Binary.Right)}, nil
	case e.Select != nil:
		return ir.ExprSelect{Condition: h(e.Select.Condition), Accept: h(e.Select.Accept), Reject: h(e.Select.Reject)}, nil
	case e.Convert != nil:
		return ir.ExprConvert{Expr: h(e.Convert.Expr), Type: ir.TypeHandle(e.Convert.Type)}, nil
	case e.Bitcast != nil:
		return ir.ExprBitcast{Expr: h(e.Bitcast.Expr), Type: ir.TypeHandle(e.Bitcast.Type)}, nil
	case e.Math != nil:
		return convertMath(e.Math)
	case e.CallResult != nil:
		return ir.ExprCallResult{Function: ir.FunctionHandle(*e.CallResult)}, nil
	case e.ArrayLength != nil:
		return ir.ExprArrayLength{Array: h(*e.ArrayLength)}, nil
	}
	return nil, &Error{Message: "expression has no kind"}
}

func convertSwizzle(s *swizzleDoc) (ir.ExpressionKind, error) {
	if len(s.Pattern) < 1 || len(s.Pattern) > 4 {
		return nil, at("swizzle", &Error{Message: "pattern " + quote(s.Pattern) + " must have 1 to 4 components"})
	}
	swizzle := ir.ExprSwizzle{Size: ir.VectorSize(len(s.Pattern)), Vector: ir.ExpressionHandle(s.Vector)}
	for i, c := range s.Pattern {
		switch c {
		case 'x', 'r':
			swizzle.Pattern[i] = ir.SwizzleX
		case 'y', 'g':
			swizzle.Pattern[i] = ir.SwizzleY
		case 'z', 'b':
			swizzle.Pattern[i] = ir.SwizzleZ
		case 'w', 'a':
			swizzle.Pattern[i] = ir.SwizzleW
		default:
			return nil, at("swizzle", &Error{Message: "bad component " + quote(string(c))})
		}
	}
	return swizzle, nil
}

func convertMath(m *mathDoc) (ir.ExpressionKind, error) {
	fun, err := lookup(mathNames, "math function", m.Fun)
	if err != nil {
		return nil, at("math", err)
	}
	if len(m.Args) != fun.Arity() {
		return nil, at("math", &Error{Message: m.Fun + " takes " + strconv.Itoa(fun.Arity()) + " arguments"})
	}
	args := exprHandles(m.Args)
	expr := ir.ExprMath{Fun: fun, Arg: args[0]}
	if len(args) > 1 {
		expr.Arg1 = &args[1]
	}
	if len(args) > 2 {
		expr.Arg2 = &args[2]
	}
	return expr, nil
}

//nolint:gocyclo,cyclop // one case per literal type
func convertLiteral(l *literalDoc) (ir.LiteralValue, error) {
	text := l.Value
	switch l.Type {
	case "bool":
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, &Error{Err: err}
		}
		return ir.LiteralBool(b), nil
	case "f16", "f32", "f64", "abstract_float":
		f, err := parseFloat(text)
		if err != nil {
			return nil, err
		}
		switch l.Type {
		case "f16":
			return ir.LiteralF16(f), nil
		case "f32":
			return ir.LiteralF32(f), nil
		case "f64":
			return ir.LiteralF64(f), nil
		}
		return ir.LiteralAbstractFloat(f), nil
	case "u8", "u16", "u32", "u64", "uptr":
		bits := map[string]int{"u8": 8, "u16": 16, "u32": 32, "u64": 64, "uptr": 64}[l.Type]
		u, err := strconv.ParseUint(text, 0, bits)
		if err != nil {
			return nil, &Error{Err: err}
		}
		switch l.Type {
		case "u8":
			return ir.LiteralU8(u), nil
		case "u16":
			return ir.LiteralU16(u), nil
		case "u32":
			return ir.LiteralU32(u), nil
		case "u64":
			return ir.LiteralU64(u), nil
		}
		return ir.LiteralUintPtr(u), nil
	case "i8", "i16", "i32", "i64", "iptr", "abstract_int":
		bits := map[string]int{"i8": 8, "i16": 16, "i32": 32}[l.Type]
		if bits == 0 {
			bits = 64
		}
		i, err := strconv.ParseInt(text, 0, bits)
		if err != nil {
			return nil, &Error{Err: err}
		}
		switch l.Type {
		case "i8":
			return ir.LiteralI8(i), nil
		case "i16":
			return ir.LiteralI16(i), nil
		case "i32":
			return ir.LiteralI32(i), nil
		case "i64":
			return ir.LiteralI64(i), nil
		case "iptr":
			return ir.LiteralIntPtr(i), nil
		}
		return ir.LiteralAbstractInt(i), nil
	case "f32_bits":
		u, err := strconv.ParseUint(text, 0, 32)
		if err != nil {
			return nil, &Error{Err: err}
		}
		return ir.LiteralF32(math.Float32frombits(uint32(u))), nil
	}
	return nil, &Error{Message: "unknown literal type " + quote(l.Type)}
}
