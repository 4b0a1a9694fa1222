package emit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/wgslgen/ir"
)

func exprs(kinds ...ir.ExpressionKind) []ir.Expression {
	out := make([]ir.Expression, len(kinds))
	for i, k := range kinds {
		out[i] = ir.Expression{Kind: k}
	}
	return out
}

func stmts(kinds ...ir.StatementKind) ir.Block {
	out := make(ir.Block, len(kinds))
	for i, k := range kinds {
		out[i] = ir.Statement{Kind: k}
	}
	return out
}

func handle(h ir.ExpressionHandle) *ir.ExpressionHandle {
	return &h
}

func size(n uint32) ir.ArraySize {
	return ir.ArraySize{Constant: &n}
}

// abcModule holds one function f(a, b, c float) float returning the last expression.
func abcModule(tail ...ir.ExpressionKind) *ir.Module {
	kinds := append([]ir.ExpressionKind{
		ir.ExprFunctionArgument{Index: 0},
		ir.ExprFunctionArgument{Index: 1},
		ir.ExprFunctionArgument{Index: 2},
	}, tail...)
	last := ir.ExpressionHandle(len(kinds) - 1)
	return &ir.Module{
		Types: []ir.Type{{Inner: ir.F32}, {Inner: ir.I32}},
		Functions: []ir.Function{{
			Name: "f",
			Arguments: []ir.FunctionArgument{
				{Name: "a", Type: 0}, {Name: "b", Type: 0}, {Name: "c", Type: 0},
			},
			Result:      &ir.FunctionResult{Type: 0},
			Expressions: exprs(kinds...),
			Body: stmts(
				ir.StmtEmit{Range: ir.Range{Start: 3, End: last + 1}},
				ir.StmtReturn{Value: handle(last)},
			),
		}},
	}
}

func TestEmitter_Precedence(t *testing.T) {
	bin := func(op ir.BinaryOperator, l, r ir.ExpressionHandle) ir.ExprBinary {
		return ir.ExprBinary{Op: op, Left: l, Right: r}
	}
	neg := func(h ir.ExpressionHandle) ir.ExprUnary {
		return ir.ExprUnary{Op: ir.UnaryNegate, Expr: h}
	}

	tests := []struct {
		name string
		tail []ir.ExpressionKind
		want string
	}{
		{
			name: "tighter right operand",
			tail: []ir.ExpressionKind{bin(ir.BinaryMultiply, 1, 2), bin(ir.BinaryAdd, 0, 3)},
			want: "a + b * c",
		},
		{
			name: "looser left operand",
			tail: []ir.ExpressionKind{bin(ir.BinaryAdd, 0, 1), bin(ir.BinaryMultiply, 3, 2)},
			want: "(a + b) * c",
		},
		{
			name: "left associative chain",
			tail: []ir.ExpressionKind{bin(ir.BinarySubtract, 0, 1), bin(ir.BinarySubtract, 3, 2)},
			want: "a - b - c",
		},
		{
			name: "right nested same precedence",
			tail: []ir.ExpressionKind{bin(ir.BinarySubtract, 1, 2), bin(ir.BinarySubtract, 0, 3)},
			want: "a - (b - c)",
		},
		{
			name: "double negation",
			tail: []ir.ExpressionKind{neg(0), neg(3)},
			want: "-(-a)",
		},
		{
			name: "negated sum",
			tail: []ir.ExpressionKind{bin(ir.BinaryAdd, 0, 1), neg(3)},
			want: "-(a + b)",
		},
		{
			name: "conditional",
			tail: []ir.ExpressionKind{
				bin(ir.BinaryLess, 0, 1),
				ir.ExprSelect{Condition: 3, Accept: 0, Reject: 2},
			},
			want: "a < b ? a : c",
		},
		{
			name: "cast of sum",
			tail: []ir.ExpressionKind{bin(ir.BinaryAdd, 0, 1), ir.ExprConvert{Expr: 3, Type: 1}},
			want: "(int)(a + b)",
		},
		{
			name: "math call",
			tail: []ir.ExpressionKind{
				bin(ir.BinaryAdd, 0, 1),
				ir.ExprMath{Fun: ir.MathMix, Arg: 3, Arg1: handle(1), Arg2: handle(2)},
			},
			want: "lerp(a + b, b, c)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := emitC(abcModule(tt.tail...))
			require.NoError(t, err)
			assert.Equal(t, "float f(float a, float b, float c) {\n    return "+tt.want+";\n}\n", got)
		})
	}
}

func TestEmitter_BakesSharedExpressions(t *testing.T) {
	got, err := emitC(abcModule(
		ir.ExprBinary{Op: ir.BinaryAdd, Left: 0, Right: 1},
		ir.ExprBinary{Op: ir.BinaryMultiply, Left: 3, Right: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, "float f(float a, float b, float c) {\n"+
		"    const float _e3 = a + b;\n"+
		"    return _e3 * _e3;\n"+
		"}\n", got)
}

func TestEmitter_BakesLoads(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{{Inner: ir.F32}},
		Functions: []ir.Function{{
			Name:        "g",
			Result:      &ir.FunctionResult{Type: 0},
			LocalVars:   []ir.LocalVariable{{Name: "x", Type: 0}},
			Expressions: exprs(ir.ExprLocalVariable{Variable: 0}, ir.ExprLoad{Pointer: 0}),
			Body: stmts(
				ir.StmtEmit{Range: ir.Range{Start: 1, End: 2}},
				ir.StmtReturn{Value: handle(1)},
			),
		}},
	}
	got, err := emitC(module)
	require.NoError(t, err)
	assert.Equal(t, "float g() {\n    float x;\n    const float _e1 = x;\n    return _e1;\n}\n", got)
}

func TestEmitter_PostfixChains(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.F32},
			{Inner: ir.VectorType{Size: ir.Vec4, Scalar: ir.F32}},
			{Name: "S", Inner: ir.StructType{Members: []ir.StructMember{{Name: "a", Type: 0}}}},
		},
		Functions: []ir.Function{{
			Name:      "h",
			Arguments: []ir.FunctionArgument{{Name: "v", Type: 1}, {Name: "s", Type: 2}},
			Result:    &ir.FunctionResult{Type: 0},
			Expressions: exprs(
				ir.ExprFunctionArgument{Index: 0},
				ir.ExprFunctionArgument{Index: 1},
				ir.ExprSwizzle{Size: ir.Vec2, Vector: 0, Pattern: [4]ir.SwizzleComponent{ir.SwizzleW, ir.SwizzleX}},
				ir.ExprAccessIndex{Base: 0, Index: 1},
				ir.ExprAccessIndex{Base: 1, Index: 0},
				ir.ExprBinary{Op: ir.BinaryAdd, Left: 3, Right: 4},
				ir.ExprAccessIndex{Base: 2, Index: 0},
				ir.ExprBinary{Op: ir.BinaryMultiply, Left: 5, Right: 6},
			),
			Body: stmts(
				ir.StmtEmit{Range: ir.Range{Start: 2, End: 8}},
				ir.StmtReturn{Value: handle(7)},
			),
		}},
	}
	got, err := emitC(module)
	require.NoError(t, err)
	assert.Contains(t, got, "struct S {\n    float a;\n};\n\nfloat h(float4 v, S s) {\n")
	assert.Contains(t, got, "    return (v.y + s.a) * v.wx.x;\n")
}

func TestEmitter_Declarations(t *testing.T) {
	two := math.Float32bits(2)
	module := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.F32},
			{Inner: ir.VectorType{Size: ir.Vec3, Scalar: ir.F32}},
			{Name: "VertexOut", Inner: ir.StructType{Members: []ir.StructMember{
				{Name: "pos", Type: 1},
				{Name: "color", Type: 1, Binding: ir.LocationBinding{Location: 0}},
			}}},
			{Inner: ir.ArrayType{Base: 0, Size: size(4), Stride: 4}},
		},
		Constants: []ir.Constant{
			{Name: "SCALE", Type: 0, Value: ir.ScalarValue{Bits: uint64(two), Kind: ir.ScalarFloat}},
		},
		GlobalVariables: []ir.GlobalVariable{
			{Name: "g", Space: ir.SpacePrivate, Type: 0, Init: new(ir.ConstantHandle)},
			{Name: "w", Space: ir.SpaceWorkGroup, Type: 3},
		},
	}
	got, err := emitC(module)
	require.NoError(t, err)
	assert.Equal(t, "struct VertexOut {\n"+
		"    float3 pos;\n"+
		"    float3 color : TEXCOORD0;\n"+
		"};\n"+
		"\n"+
		"const float SCALE = 2;\n"+
		"\n"+
		"static float g = 2;\n"+
		"groupshared float w[4];\n", got)
}

func TestEmitter_Declarators(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.F32},
			{Inner: ir.ArrayType{Base: 0, Size: size(4), Stride: 4}},
			{Inner: ir.PointerType{Base: 1, Space: ir.SpaceFunction}},
			{Inner: ir.PointerType{Base: 0, Space: ir.SpaceFunction}},
			{Inner: ir.ArrayType{Base: 3, Size: size(2), Stride: 8}},
			{Inner: ir.ArrayType{Base: 0, Stride: 4}},
		},
	}
	tests := []struct {
		ty   ir.TypeHandle
		want string
	}{
		{ty: 1, want: "float p[4]"},
		{ty: 2, want: "float (*p)[4]"},
		{ty: 4, want: "float *p[2]"},
		{ty: 5, want: "float p[]"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			target, e := newCTarget(module)
			require.NoError(t, target.EmitType(tt.ty, Name("p")))
			assert.Equal(t, tt.want, e.Out().String())
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, e := newCTarget(module)
		err := e.DefaultEmitDeclarator(&Declarator{Kind: DeclaratorKind(42)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "declarator unknown")
	})
}

func TestEmitter_Calls(t *testing.T) {
	t.Run("pointer argument", func(t *testing.T) {
		module := &ir.Module{
			Types: []ir.Type{
				{Inner: ir.F32},
				{Inner: ir.PointerType{Base: 0, Space: ir.SpaceFunction}},
			},
			Functions: []ir.Function{
				{
					Name:        "set",
					Arguments:   []ir.FunctionArgument{{Name: "p", Type: 1}},
					Expressions: exprs(ir.ExprFunctionArgument{Index: 0}, ir.Literal{Value: ir.LiteralF32(1)}),
					Body:        stmts(ir.StmtStore{Pointer: 0, Value: 1}),
				},
				{
					Name:        "main",
					LocalVars:   []ir.LocalVariable{{Name: "x", Type: 0}},
					Expressions: exprs(ir.ExprLocalVariable{Variable: 0}),
					Body:        stmts(ir.StmtCall{Function: 0, Arguments: []ir.ExpressionHandle{0}}),
				},
			},
		}
		got, err := emitC(module)
		require.NoError(t, err)
		assert.Equal(t, "void set(float *p) {\n    *p = 1;\n}\n\nvoid main() {\n    float x;\n    set(&x);\n}\n", got)
	})

	t.Run("result", func(t *testing.T) {
		module := &ir.Module{
			Types: []ir.Type{{Inner: ir.F32}},
			Functions: []ir.Function{
				{
					Name:        "one",
					Result:      &ir.FunctionResult{Type: 0},
					Expressions: exprs(ir.Literal{Value: ir.LiteralF32(1)}),
					Body:        stmts(ir.StmtReturn{Value: handle(0)}),
				},
				{
					Name:   "two",
					Result: &ir.FunctionResult{Type: 0},
					Expressions: exprs(
						ir.ExprCallResult{Function: 0},
						ir.ExprBinary{Op: ir.BinaryAdd, Left: 0, Right: 0},
					),
					Body: stmts(
						ir.StmtCall{Function: 0, Result: handle(0)},
						ir.StmtEmit{Range: ir.Range{Start: 1, End: 2}},
						ir.StmtReturn{Value: handle(1)},
					),
				},
			},
		}
		got, err := emitC(module)
		require.NoError(t, err)
		assert.Contains(t, got, "float two() {\n    const float _e0 = one();\n    return _e0 + _e0;\n}\n")
	})

	t.Run("result used before call", func(t *testing.T) {
		module := &ir.Module{
			Types: []ir.Type{{Inner: ir.F32}},
			Functions: []ir.Function{{
				Name:        "early",
				Result:      &ir.FunctionResult{Type: 0},
				Expressions: exprs(ir.ExprCallResult{Function: 0}),
				Body:        stmts(ir.StmtReturn{Value: handle(0)}),
			}},
		}
		_, err := emitC(module)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "used before its call")
	})
}

func TestEmitter_ControlFlow(t *testing.T) {
	t.Run("switch", func(t *testing.T) {
		module := &ir.Module{
			Types: []ir.Type{{Inner: ir.I32}},
			Functions: []ir.Function{{
				Name:        "s",
				Arguments:   []ir.FunctionArgument{{Name: "i", Type: 0}},
				Expressions: exprs(ir.ExprFunctionArgument{Index: 0}),
				Body: stmts(ir.StmtSwitch{Selector: 0, Cases: []ir.SwitchCase{
					{Values: []ir.SwitchValue{ir.SwitchValueI32(1), ir.SwitchValueI32(2)}, Body: stmts(ir.StmtBreak{})},
					{Default: true, Body: stmts(ir.StmtReturn{})},
				}}),
			}},
		}
		got, err := emitC(module)
		require.NoError(t, err)
		assert.Equal(t, "void s(int i) {\n"+
			"    switch (i) {\n"+
			"        case 1:\n"+
			"        case 2: {\n"+
			"            break;\n"+
			"        }\n"+
			"        default: {\n"+
			"            return;\n"+
			"        }\n"+
			"    }\n"+
			"}\n", got)
	})

	loopModule := func(loop ir.StmtLoop) *ir.Module {
		return &ir.Module{
			Types: []ir.Type{{Inner: ir.Bool}},
			Functions: []ir.Function{{
				Name:        "spin",
				Expressions: exprs(ir.Literal{Value: ir.LiteralBool(true)}),
				Body:        stmts(loop),
			}},
		}
	}

	t.Run("loop with break-if", func(t *testing.T) {
		got, err := emitC(loopModule(ir.StmtLoop{Body: stmts(ir.StmtContinue{}), BreakIf: handle(0)}))
		require.NoError(t, err)
		assert.Equal(t, "void spin() {\n"+
			"    for (;;) {\n"+
			"        continue;\n"+
			"        if (true) { break; }\n"+
			"    }\n"+
			"}\n", got)
	})

	t.Run("loop with continuing", func(t *testing.T) {
		_, err := emitC(loopModule(ir.StmtLoop{Continuing: stmts(ir.StmtBreak{})}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported loop continuing block")
	})

	t.Run("barrier", func(t *testing.T) {
		module := loopModule(ir.StmtLoop{})
		module.Functions[0].Body = stmts(ir.StmtBarrier{Flags: ir.BarrierWorkGroup})
		_, err := emitC(module)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported barrier")
	})
}

func TestEmitter_EntryPointSelection(t *testing.T) {
	newModule := func() *ir.Module {
		return &ir.Module{
			Functions: []ir.Function{{Name: "helper"}, {Name: "vs"}, {Name: "fs"}},
			EntryPoints: []ir.EntryPoint{
				{Name: "vs", Stage: ir.StageVertex, Function: 1},
				{Name: "fs", Stage: ir.StageFragment, Function: 2},
			},
		}
	}

	_, e := newCTarget(newModule())
	require.NoError(t, e.SelectEntryPoint("fs"))
	got, err := e.EmitModule()
	require.NoError(t, err)
	assert.Equal(t, "void helper() {\n}\n\n// fragment\nvoid fs() {\n}\n", got)
	assert.Equal(t, map[string]string{"fs": "fs"}, e.EntryPointNames())

	_, e = newCTarget(newModule())
	require.Error(t, e.SelectEntryPoint("cs"))
}

func TestEmitter_Names(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{{Inner: ir.F32}},
		GlobalVariables: []ir.GlobalVariable{
			{Name: "x", Space: ir.SpacePrivate, Type: 0},
			{Name: "x", Space: ir.SpacePrivate, Type: 0},
			{Name: "float", Space: ir.SpacePrivate, Type: 0},
			{Space: ir.SpacePrivate, Type: 0},
		},
	}
	got, err := emitC(module)
	require.NoError(t, err)
	assert.Equal(t, "static float x;\nstatic float x_1;\nstatic float _float;\nstatic float global_3;\n", got)
}

func TestEmitter_ScalarLiteral(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.I32},
			{Inner: ir.F16},
			{Inner: ir.UintPtr},
			{Inner: ir.VectorType{Size: ir.Vec2, Scalar: ir.F32}},
		},
	}
	_, e := newCTarget(module)

	tests := []struct {
		name  string
		ty    ir.TypeHandle
		value ir.ScalarValue
		want  ir.LiteralValue
	}{
		{
			name:  "negative i32",
			ty:    0,
			value: ir.ScalarValue{Bits: 0xffffffff, Kind: ir.ScalarSint},
			want:  ir.LiteralI32(-1),
		},
		{
			name:  "widened f16",
			ty:    1,
			value: ir.ScalarValue{Bits: uint64(math.Float32bits(1.5)), Kind: ir.ScalarFloat},
			want:  ir.LiteralF16(1.5),
		},
		{
			name:  "pointer sized",
			ty:    2,
			value: ir.ScalarValue{Bits: 7, Kind: ir.ScalarUint},
			want:  ir.LiteralUintPtr(7),
		},
		{
			name:  "kind mismatch",
			ty:    0,
			value: ir.ScalarValue{Bits: math.Float64bits(0.5), Kind: ir.ScalarFloat},
			want:  ir.LiteralAbstractFloat(0.5),
		},
		{
			name:  "non-scalar type",
			ty:    3,
			value: ir.ScalarValue{Bits: 3, Kind: ir.ScalarSint},
			want:  ir.LiteralAbstractInt(3),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ScalarLiteral(tt.ty, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutput(t *testing.T) {
	var o Output
	o.WriteLine("a {")
	o.PushIndent()
	o.WriteLine("b %d;", 1)
	o.PopIndent()
	o.PopIndent()
	o.WriteLine("}")
	o.WritePrologue("enable x;\n\n")
	assert.Equal(t, "enable x;\n\na {\n    b 1;\n}\n", o.String())
	assert.Equal(t, len("a {\n    b 1;\n}\n"), o.Len())
}

func TestNamer(t *testing.T) {
	n := newNamer(nil)
	assert.Equal(t, "x", n.call("x"))
	assert.Equal(t, "x_1", n.call("x"))
	assert.Equal(t, "_unnamed", n.call(""))

	n.reserve("y")
	assert.Equal(t, "y_2", n.call("y"))
	assert.True(t, n.isUsed("y"))
}
