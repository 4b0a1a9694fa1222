// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/wgslgen/ir"
)

// Type handles of exprTypes.
const (
	tF32 ir.TypeHandle = iota
	tI32
	tU32
	tVec4
	tMat4
	tBool
	tArray3
	tVec2
	tIVec2
)

var exprTypes = []ir.Type{
	{Inner: ir.F32},
	{Inner: ir.I32},
	{Inner: ir.U32},
	{Inner: ir.VectorType{Size: ir.Vec4, Scalar: ir.F32}},
	{Inner: ir.MatrixType{Columns: ir.Vec4, Rows: ir.Vec4, Scalar: ir.F32}},
	{Inner: ir.Bool},
	{Inner: ir.ArrayType{Base: 0, Size: size(3), Stride: 4}},
	{Inner: ir.VectorType{Size: ir.Vec2, Scalar: ir.F32}},
	{Inner: ir.VectorType{Size: ir.Vec2, Scalar: ir.I32}},
}

// returning builds a function f whose arguments a, b, c... have types args
// and which returns the last of tail.
func returning(args []ir.TypeHandle, result ir.TypeHandle, tail ...ir.ExpressionKind) *ir.Module {
	var kinds []ir.ExpressionKind
	var arguments []ir.FunctionArgument
	for i, ty := range args {
		arguments = append(arguments, ir.FunctionArgument{Name: string(rune('a' + i)), Type: ty})
		kinds = append(kinds, ir.ExprFunctionArgument{Index: uint32(i)})
	}
	kinds = append(kinds, tail...)
	first := ir.ExpressionHandle(len(args))
	last := ir.ExpressionHandle(len(kinds) - 1)
	return &ir.Module{
		Types: exprTypes,
		Functions: []ir.Function{{
			Name:        "f",
			Arguments:   arguments,
			Result:      &ir.FunctionResult{Type: result},
			Expressions: exprs(kinds...),
			Body: stmts(
				ir.StmtEmit{Range: ir.Range{Start: first, End: last + 1}},
				ir.StmtReturn{Value: handle(last)},
			),
		}},
	}
}

func TestWriter_Expressions(t *testing.T) {
	bin := func(op ir.BinaryOperator, l, r ir.ExpressionHandle) ir.ExprBinary {
		return ir.ExprBinary{Op: op, Left: l, Right: r}
	}
	floats := []ir.TypeHandle{tF32, tF32, tF32}
	ints := []ir.TypeHandle{tI32, tI32, tI32}

	tests := []struct {
		name   string
		args   []ir.TypeHandle
		result ir.TypeHandle
		tail   []ir.ExpressionKind
		want   string
	}{
		{
			name: "tighter right operand", args: floats, result: tF32,
			tail: []ir.ExpressionKind{bin(ir.BinaryMultiply, 1, 2), bin(ir.BinaryAdd, 0, 3)},
			want: "a + b * c",
		},
		{
			name: "looser left operand", args: floats, result: tF32,
			tail: []ir.ExpressionKind{bin(ir.BinaryAdd, 0, 1), bin(ir.BinaryMultiply, 3, 2)},
			want: "(a + b) * c",
		},
		{
			name: "bitwise operators do not mix", args: ints, result: tI32,
			tail: []ir.ExpressionKind{bin(ir.BinaryAnd, 0, 1), bin(ir.BinaryInclusiveOr, 3, 2)},
			want: "(a & b) | c",
		},
		{
			name: "sum compared", args: floats, result: tBool,
			tail: []ir.ExpressionKind{bin(ir.BinaryAdd, 0, 1), bin(ir.BinaryLess, 3, 2)},
			want: "a + b < c",
		},
		{
			name: "comparisons joined", args: floats, result: tBool,
			tail: []ir.ExpressionKind{
				bin(ir.BinaryLess, 0, 1),
				bin(ir.BinaryLess, 1, 2),
				bin(ir.BinaryLogicalAnd, 3, 4),
				bin(ir.BinaryLess, 0, 2),
				bin(ir.BinaryLogicalOr, 5, 6),
			},
			want: "(a < b && b < c) || a < c",
		},
		{
			name: "comparison of comparisons", args: floats, result: tBool,
			tail: []ir.ExpressionKind{
				bin(ir.BinaryLess, 0, 1),
				bin(ir.BinaryLess, 1, 2),
				bin(ir.BinaryEqual, 3, 4),
			},
			want: "(a < b) == (b < c)",
		},
		{
			name: "unsigned shift amount", args: []ir.TypeHandle{tI32, tU32, tI32}, result: tI32,
			tail: []ir.ExpressionKind{bin(ir.BinaryShiftLeft, 0, 1), bin(ir.BinaryAdd, 3, 2)},
			want: "(a << b) + c",
		},
		{
			name: "shifted sum", args: []ir.TypeHandle{tI32, tU32, tI32}, result: tI32,
			tail: []ir.ExpressionKind{bin(ir.BinaryAdd, 0, 2), bin(ir.BinaryShiftLeft, 3, 1)},
			want: "(a + c) << b",
		},
		{
			name: "signed vector shift amount", args: []ir.TypeHandle{tIVec2, tIVec2}, result: tIVec2,
			tail: []ir.ExpressionKind{bin(ir.BinaryShiftRight, 0, 1)},
			want: "((a) >> bitcast<vec2<u32>>(b))",
		},
		{
			name: "matrix times vector", args: []ir.TypeHandle{tMat4, tVec4}, result: tVec4,
			tail: []ir.ExpressionKind{bin(ir.BinaryMultiply, 0, 1)},
			want: "b * a",
		},
		{
			name: "select", args: floats, result: tF32,
			tail: []ir.ExpressionKind{
				bin(ir.BinaryLess, 0, 1),
				ir.ExprSelect{Condition: 3, Accept: 0, Reject: 2},
			},
			want: "select(c, a, a < b)",
		},
		{
			name: "conversion", args: floats, result: tI32,
			tail: []ir.ExpressionKind{bin(ir.BinaryAdd, 0, 1), ir.ExprConvert{Expr: 3, Type: tI32}},
			want: "i32(a + b)",
		},
		{
			name: "bitcast", args: []ir.TypeHandle{tF32}, result: tU32,
			tail: []ir.ExpressionKind{ir.ExprBitcast{Expr: 0, Type: tU32}},
			want: "bitcast<u32>(a)",
		},
		{
			name: "splat", args: []ir.TypeHandle{tF32}, result: tVec4,
			tail: []ir.ExpressionKind{ir.ExprSplat{Size: ir.Vec4, Value: 0}},
			want: "vec4<f32>(a)",
		},
		{
			name: "array splat", args: []ir.TypeHandle{tF32}, result: tArray3,
			tail: []ir.ExpressionKind{ir.ExprArraySplat{Type: tArray3, Value: 0}},
			want: "array<f32, 3>(a, a, a)",
		},
		{
			name: "compose", args: []ir.TypeHandle{tF32, tF32}, result: tVec2,
			tail: []ir.ExpressionKind{ir.ExprCompose{Type: tVec2, Components: []ir.ExpressionHandle{0, 1}}},
			want: "vec2<f32>(a, b)",
		},
		{
			name: "mix", args: floats, result: tF32,
			tail: []ir.ExpressionKind{ir.ExprMath{Fun: ir.MathMix, Arg: 0, Arg1: handle(1), Arg2: handle(2)}},
			want: "mix(a, b, c)",
		},
		{
			name: "inverse square root", args: []ir.TypeHandle{tF32}, result: tF32,
			tail: []ir.ExpressionKind{ir.ExprMath{Fun: ir.MathInverseSqrt, Arg: 0}},
			want: "inverseSqrt(a)",
		},
		{
			name: "count one bits", args: []ir.TypeHandle{tU32}, result: tU32,
			tail: []ir.ExpressionKind{ir.ExprMath{Fun: ir.MathCountOneBits, Arg: 0}},
			want: "countOneBits(a)",
		},
		{
			name: "negated sum", args: floats, result: tF32,
			tail: []ir.ExpressionKind{bin(ir.BinaryAdd, 0, 1), ir.ExprUnary{Op: ir.UnaryNegate, Expr: 3}},
			want: "-(a + b)",
		},
		{
			name: "zero value", args: nil, result: tVec4,
			tail: []ir.ExpressionKind{ir.ExprZeroValue{Type: tVec4}},
			want: "vec4<f32>()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, _ := compile(t, returning(tt.args, tt.result, tt.tail...))
			assert.Contains(t, source, fmt.Sprintf("    return %s;\n", tt.want))
		})
	}
}

func TestWriter_NegativeLiteralOperands(t *testing.T) {
	lit := func(v ir.LiteralValue) ir.Literal { return ir.Literal{Value: v} }
	negate := ir.ExprUnary{Op: ir.UnaryNegate, Expr: 0}

	tests := []struct {
		name   string
		result ir.TypeHandle
		tail   []ir.ExpressionKind
		want   string
	}{
		{"negated negative float", tF32, []ir.ExpressionKind{lit(ir.LiteralF32(-1.5)), negate}, "-(-1.5f)"},
		{"negated negative zero", tF32, []ir.ExpressionKind{lit(ir.LiteralF32(float32(math.Copysign(0, -1)))), negate}, "-(-0.0f)"},
		{"negated untyped int", tI32, []ir.ExpressionKind{lit(ir.LiteralAbstractInt(-3)), negate}, "-(-3)"},
		{"negated positive float", tF32, []ir.ExpressionKind{lit(ir.LiteralF32(1.5)), negate}, "-1.5f"},
		{"negated typed int", tI32, []ir.ExpressionKind{lit(ir.LiteralI32(-2)), negate}, "-i32(-2)"},
		{
			name: "subtracted negative float", result: tF32,
			tail: []ir.ExpressionKind{
				lit(ir.LiteralF32(2)),
				lit(ir.LiteralF32(-1.5)),
				ir.ExprBinary{Op: ir.BinarySubtract, Left: 0, Right: 1},
			},
			want: "2.0f - -1.5f",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, _ := compile(t, returning(nil, tt.result, tt.tail...))
			assert.Contains(t, source, fmt.Sprintf("    return %s;\n", tt.want))
		})
	}
}

func TestWriter_ShiftAmountWidths(t *testing.T) {
	tests := []struct {
		name string
		ty   ir.TypeInner
		want string
	}{
		{"i64", ir.I64, "a << b"},
		{"pointer sized", ir.IntPtr, "a << b"},
		{"vec3 i64", ir.VectorType{Size: ir.Vec3, Scalar: ir.I64}, "a << b"},
		{"i32", ir.I32, "((a) << bitcast<u32>(b))"},
		{"vec2 i32", ir.VectorType{Size: ir.Vec2, Scalar: ir.I32}, "((a) << bitcast<vec2<u32>>(b))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module := returning([]ir.TypeHandle{0, 0}, 0, ir.ExprBinary{Op: ir.BinaryShiftLeft, Left: 0, Right: 1})
			module.Types = []ir.Type{{Inner: tt.ty}}
			source, _, err := Compile(module, nil)
			require.NoError(t, err)
			assert.Contains(t, source, fmt.Sprintf("    return %s;\n", tt.want))
			if !strings.Contains(tt.want, "bitcast") {
				assert.NotContains(t, source, "bitcast")
			}
		})
	}
}

func TestWriter_PointerArguments(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.F32},
			{Inner: ir.PointerType{Base: 0, Space: ir.SpaceFunction}},
		},
		Functions: []ir.Function{
			{
				Name:        "helper",
				Arguments:   []ir.FunctionArgument{{Name: "p", Type: 1}},
				Result:      &ir.FunctionResult{Type: 0},
				Expressions: exprs(ir.ExprFunctionArgument{Index: 0}, ir.ExprLoad{Pointer: 0}),
				Body: stmts(
					ir.StmtEmit{Range: ir.Range{Start: 1, End: 2}},
					ir.StmtReturn{Value: handle(1)},
				),
			},
			{
				Name:        "caller",
				Result:      &ir.FunctionResult{Type: 0},
				LocalVars:   []ir.LocalVariable{{Name: "x", Type: 0}},
				Expressions: exprs(ir.ExprLocalVariable{Variable: 0}, ir.ExprCallResult{Function: 0}),
				Body: stmts(
					ir.StmtCall{Function: 0, Arguments: []ir.ExpressionHandle{0}, Result: handle(1)},
					ir.StmtReturn{Value: handle(1)},
				),
			},
		},
	}
	source, _ := compile(t, module)
	assert.Equal(t, "fn helper(p : ptr<function, f32>) -> f32 {\n"+
		"    let _e1 : f32 = *p;\n"+
		"    return _e1;\n"+
		"}\n"+
		"\n"+
		"fn caller() -> f32 {\n"+
		"    var x : f32;\n"+
		"    let _e1 : f32 = helper(&x);\n"+
		"    return _e1;\n"+
		"}\n", source)
}

func TestWriter_ArrayLength(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.U32},
			{Inner: ir.StructuredBufferType{Base: 0}},
			{Inner: ir.ArrayType{Base: 0, Stride: 4}},
		},
		GlobalVariables: []ir.GlobalVariable{
			{Name: "data", Space: ir.SpaceStorage, Type: 1},
			{Name: "values", Space: ir.SpaceStorage, Type: 2},
		},
		Functions: []ir.Function{{
			Name:   "total",
			Result: &ir.FunctionResult{Type: 0},
			Expressions: exprs(
				ir.ExprGlobalVariable{Variable: 0},
				ir.ExprArrayLength{Array: 0},
				ir.ExprGlobalVariable{Variable: 1},
				ir.ExprArrayLength{Array: 2},
				ir.ExprBinary{Op: ir.BinaryAdd, Left: 1, Right: 3},
			),
			Body: stmts(
				ir.StmtEmit{Range: ir.Range{Start: 0, End: 5}},
				ir.StmtReturn{Value: handle(4)},
			),
		}},
	}
	source, _ := compile(t, module)
	assert.Contains(t, source, "var<storage, read> data : array<u32>;\n")
	assert.Contains(t, source, "var<storage, read_write> values : array<u32>;\n")
	assert.Contains(t, source, "    return arrayLength((&data)) + arrayLength(&values);\n")
}

func TestWriter_ArrayLengthOfBufferParameter(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.U32},
			{Inner: ir.StructuredBufferType{Base: 0, ReadWrite: true}},
		},
		Functions: []ir.Function{{
			Name:      "count",
			Arguments: []ir.FunctionArgument{{Name: "items", Type: 1}},
			Result:    &ir.FunctionResult{Type: 0},
			Expressions: exprs(
				ir.ExprFunctionArgument{Index: 0},
				ir.ExprArrayLength{Array: 0},
			),
			Body: stmts(
				ir.StmtEmit{Range: ir.Range{Start: 1, End: 2}},
				ir.StmtReturn{Value: handle(1)},
			),
		}},
	}
	source, _ := compile(t, module)
	assert.Contains(t, source, "fn count(items : ptr<storage, array<u32>, read_write>) -> u32 {\n")
	assert.Contains(t, source, "    return arrayLength(items);\n")
}

func TestWriter_UnknownMathFunction(t *testing.T) {
	module := returning([]ir.TypeHandle{tF32}, tF32, ir.ExprMath{Fun: ir.MathReverseBits + 1, Arg: 0})
	_, _, err := Compile(module, nil)
	assert.True(t, IsUnsupportedConstruct(err), "unexpected error: %v", err)
}
