package irfile

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/wgslgen/ir"
	"github.com/gogpu/wgslgen/wgsl"
)

func exprs(kinds ...ir.ExpressionKind) []ir.Expression {
	out := make([]ir.Expression, len(kinds))
	for i, k := range kinds {
		out[i] = ir.Expression{Kind: k}
	}
	return out
}

func stmts(kinds ...ir.StatementKind) []ir.Statement {
	out := make([]ir.Statement, len(kinds))
	for i, k := range kinds {
		out[i] = ir.Statement{Kind: k}
	}
	return out
}

func TestLoad_Compute(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "compute.yaml"))
	require.NoError(t, err)

	size := uint32(64)
	init := ir.ConstantHandle(0)
	want := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.U32},
			{Inner: ir.I32},
			{Inner: ir.StructuredBufferType{Base: 0, ReadWrite: true}},
			{Inner: ir.F32},
			{Inner: ir.VectorType{Size: ir.Vec3, Scalar: ir.U32}},
			{Inner: ir.ArrayType{Base: 0, Size: ir.ArraySize{Constant: &size}, Stride: 4}},
		},
		Constants: []ir.Constant{
			{Name: "default_gain", Type: 3, Value: ir.ScalarValue{Bits: uint64(math.Float32bits(1)), Kind: ir.ScalarFloat}},
		},
		GlobalVariables: []ir.GlobalVariable{
			{
				Name:   "data",
				Space:  ir.SpaceStorage,
				Type:   2,
				Layout: []ir.LayoutOffset{{Kind: ir.ResourceUnorderedAccess, Offset: 0, Space: 1}},
			},
			{
				Name:   "gain",
				Space:  ir.SpacePrivate,
				Type:   3,
				Layout: []ir.LayoutOffset{{Kind: ir.ResourceSpecializationConstant}},
				Init:   &init,
			},
			{Name: "scratch", Space: ir.SpaceWorkGroup, Type: 5},
		},
		Functions: []ir.Function{{
			Name: "main",
			Arguments: []ir.FunctionArgument{
				{Name: "id", Type: 4, Binding: ir.BuiltinBinding{Builtin: ir.BuiltinGlobalInvocationID}},
			},
			LocalVars: []ir.LocalVariable{{Name: "acc", Type: 1}},
			Expressions: exprs(
				ir.ExprFunctionArgument{Index: 0},
				ir.ExprAccessIndex{Base: 0, Index: 0},
				ir.ExprGlobalVariable{Variable: 0},
				ir.ExprBufferLoad{Buffer: 2, Index: 1},
				ir.ExprLocalVariable{Variable: 0},
				ir.ExprLoad{Pointer: 4},
				ir.ExprBinary{Op: ir.BinaryShiftLeft, Left: 3, Right: 5},
				ir.ExprAccess{Base: 2, Index: 1},
			),
			Body: stmts(
				ir.StmtEmit{Range: ir.Range{Start: 1, End: 8}},
				ir.StmtStore{Pointer: 7, Value: 6},
				ir.StmtBarrier{Flags: ir.BarrierStorage | ir.BarrierWorkGroup},
				ir.StmtSwitch{Selector: 5, Cases: []ir.SwitchCase{{
					Values: []ir.SwitchValue{ir.SwitchValueI32(1), ir.SwitchValueU32(2)},
					Body:   stmts(ir.StmtBreak{}),
				}}},
				ir.StmtLoop{Body: stmts(ir.StmtBreak{})},
				ir.StmtReturn{},
			),
		}},
		EntryPoints: []ir.EntryPoint{{
			Name:      "main",
			Stage:     ir.StageCompute,
			Function:  0,
			Workgroup: [3]uint32{64, 1, 1},
		}},
	}
	assert.Equal(t, want, m)
}

// TestLoad_Golden compiles every testdata module and compares the output
// with the .wgsl file beside it. UPDATE_GOLDEN=1 rewrites the golden files.
func TestLoad_Golden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			m, err := Load(path)
			require.NoError(t, err)
			errs, err := ir.Validate(m)
			require.NoError(t, err)
			require.Empty(t, errs)

			source, _, err := wgsl.Compile(m, nil)
			require.NoError(t, err)

			goldenPath := strings.TrimSuffix(path, ".yaml") + ".wgsl"
			if os.Getenv("UPDATE_GOLDEN") != "" {
				require.NoError(t, os.WriteFile(goldenPath, []byte(source), 0o644))
				t.Logf("updated golden file: %s", goldenPath)
				return
			}
			golden, err := os.ReadFile(goldenPath)
			require.NoError(t, err, "run with UPDATE_GOLDEN=1 to create")
			assert.Equal(t, strings.ReplaceAll(string(golden), "\r\n", "\n"), source)
		})
	}
}

func TestDecode_Values(t *testing.T) {
	m, err := Decode([]byte(`
types:
  - scalar: f16
  - scalar: i32
  - vector: {size: 2, scalar: f32}
  - scalar: bool
  - scalar: f64
constants:
  - {name: half, type: 0, value: 0.5}
  - {name: neg, type: 1, value: -3}
  - {name: loose, type: 2, kind: sint, value: 3}
  - {name: flag, type: 3, value: true}
  - {name: wide, type: 4, value: 0.25}
  - {name: raw, type: 1, bits: 0xffffffff}
  - {name: nan, type: 0, value: .nan}
`))
	require.NoError(t, err)
	values := make([]ir.ScalarValue, len(m.Constants))
	for i, c := range m.Constants {
		v, ok := c.Value.(ir.ScalarValue)
		require.True(t, ok, c.Name)
		values[i] = v
	}
	assert.Equal(t, ir.ScalarValue{Bits: uint64(math.Float32bits(0.5)), Kind: ir.ScalarFloat}, values[0])
	assert.Equal(t, ir.ScalarValue{Bits: math.MaxUint64 - 2, Kind: ir.ScalarSint}, values[1])
	assert.Equal(t, ir.ScalarValue{Bits: 3, Kind: ir.ScalarSint}, values[2])
	assert.Equal(t, ir.ScalarValue{Bits: 1, Kind: ir.ScalarBool}, values[3])
	assert.Equal(t, ir.ScalarValue{Bits: math.Float64bits(0.25), Kind: ir.ScalarFloat}, values[4])
	assert.Equal(t, ir.ScalarValue{Bits: 0xffffffff, Kind: ir.ScalarSint}, values[5])
	assert.True(t, math.IsNaN(float64(math.Float32frombits(uint32(values[6].Bits)))))
}

func TestDecode_Expressions(t *testing.T) {
	m, err := Decode([]byte(`
types:
  - scalar: f32
  - vector: {size: 4, scalar: f32}
functions:
  - name: f
    arguments:
      - {name: v, type: 1}
    expressions:
      - argument: 0
      - swizzle: {vector: 0, pattern: wzy}
      - math: {fun: mix, args: [0, 0, 0]}
      - math: {fun: length, args: [0]}
      - literal: {type: u32, value: 0x10}
      - literal: {type: f32_bits, value: 0x7fc00000}
      - unary: {op: bitwise_not, expr: 4}
      - select: {condition: 0, accept: 1, reject: 2}
      - literal: {type: abstract_float, value: 0.1}
`))
	require.NoError(t, err)
	got := m.Functions[0].Expressions

	arg1, arg2 := ir.ExpressionHandle(0), ir.ExpressionHandle(0)
	assert.Equal(t, ir.ExprSwizzle{
		Size:    ir.Vec3,
		Vector:  0,
		Pattern: [4]ir.SwizzleComponent{ir.SwizzleW, ir.SwizzleZ, ir.SwizzleY},
	}, got[1].Kind)
	assert.Equal(t, ir.ExprMath{Fun: ir.MathMix, Arg: 0, Arg1: &arg1, Arg2: &arg2}, got[2].Kind)
	assert.Equal(t, ir.ExprMath{Fun: ir.MathLength, Arg: 0}, got[3].Kind)
	assert.Equal(t, ir.Literal{Value: ir.LiteralU32(16)}, got[4].Kind)
	lit, ok := got[5].Kind.(ir.Literal)
	require.True(t, ok)
	assert.True(t, math.IsNaN(float64(lit.Value.(ir.LiteralF32))))
	assert.Equal(t, ir.ExprUnary{Op: ir.UnaryBitwiseNot, Expr: 4}, got[6].Kind)
	assert.Equal(t, ir.ExprSelect{Condition: 0, Accept: 1, Reject: 2}, got[7].Kind)
	assert.Equal(t, ir.Literal{Value: ir.LiteralAbstractFloat(0.1)}, got[8].Kind)
}

func TestDecode_Statements(t *testing.T) {
	m, err := Decode([]byte(`
functions:
  - name: f
    body:
      - block:
          body:
            - if:
                condition: 0
                accept: [{continue: true}]
                reject: [{kill: true}]
      - loop:
          body: [{break: true}]
          continuing: [{emit: [0, 1]}]
          break_if: 0
      - call: {function: 0, arguments: [1, 2], result: 3}
      - switch:
          selector: 0
          cases:
            - values: [{constant: 2}]
              default: true
      - return: {value: null}
`))
	require.NoError(t, err)
	breakIf, result := ir.ExpressionHandle(0), ir.ExpressionHandle(3)
	want := stmts(
		ir.StmtBlock{Block: stmts(ir.StmtIf{
			Condition: 0,
			Accept:    stmts(ir.StmtContinue{}),
			Reject:    stmts(ir.StmtKill{}),
		})},
		ir.StmtLoop{
			Body:       stmts(ir.StmtBreak{}),
			Continuing: stmts(ir.StmtEmit{Range: ir.Range{Start: 0, End: 1}}),
			BreakIf:    &breakIf,
		},
		ir.StmtCall{Function: 0, Arguments: []ir.ExpressionHandle{1, 2}, Result: &result},
		ir.StmtSwitch{Selector: 0, Cases: []ir.SwitchCase{{
			Values:  []ir.SwitchValue{ir.SwitchValueConstant{Constant: 2}},
			Default: true,
		}}},
		ir.StmtReturn{},
	)
	assert.Equal(t, want, m.Functions[0].Body)
}

func TestDecode_Empty(t *testing.T) {
	m, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, &ir.Module{}, m)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad yaml", "types: [", "parse"},
		{"unknown top-level key", "shaders: []", "schema"},
		{"two type kinds", "types: [{scalar: f32, sampler: {}}]", "schema"},
		{"unknown scalar", "types: [{scalar: f128}]", "schema"},
		{"vector size", "types: [{vector: {size: 5, scalar: f32}}]", "schema"},
		{"expression with two kinds", "functions: [{name: f, expressions: [{load: 0, local: 0}]}]", "schema"},
		{"empty statement", "functions: [{name: f, body: [{}]}]", "schema"},
		{"constant without value", "constants: [{name: c, type: 0}]", "schema"},
		{"builtin and location", "functions: [{name: f, arguments: [{name: a, type: 0, builtin: position, location: 0}]}]", "schema"},
		{"unknown builtin", "functions: [{name: f, arguments: [{name: a, type: 0, builtin: frag_coord}]}]", `functions[0].arguments[0]: unknown builtin "frag_coord"`},
		{"unknown operator", "functions: [{name: f, expressions: [{binary: {op: pow, left: 0, right: 0}}]}]", `functions[0].expressions[0].binary: unknown binary operator "pow"`},
		{"math arity", "functions: [{name: f, expressions: [{math: {fun: dot, args: [0]}}]}]", "dot takes 2 arguments"},
		{"nested statement", "functions: [{name: f, body: [{loop: {body: [{barrier: [storage]}, {call: {function: 0}}, {if: {condition: 0, accept: [{block: {body: [{return: {}}, {emit: [0]}]}}]}}]}}]}]", "schema"},
		{"unknown stage", "entry_points: [{name: m, stage: tessellation, function: 0}]", `entry_points[0]: unknown stage "tessellation"`},
		{"untyped loose constant", "types: [{vector: {size: 2, scalar: f32}}]\nconstants: [{name: c, type: 0, value: 1}]", "constants[0]: constant of non-scalar type needs a kind"},
		{"bad integer", "types: [{scalar: i32}]\nconstants: [{name: c, type: 0, value: 1.5}]", "constants[0].value"},
		{"unknown resource kind", "globals: [{name: g, space: private, type: 0, layout: [{kind: texture}]}]", `globals[0].layout[0]: unknown resource kind "texture"`},
		{"nested blocks decode", "functions: [{name: f, body: [{if: {condition: 0, reject: [{switch: {selector: 0, cases: [{body: [{barrier: [storage]}, {call: {function: 0}}]}]}}, {barrier: [storage]}]}}]}]", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecode_PathOfNestedError(t *testing.T) {
	_, err := Decode([]byte(`
functions:
  - name: f
  - name: g
    body:
      - if:
          condition: 0
          reject:
            - loop:
                body:
                  - {break: true}
                  - {call: {function: 0}}
                  - {store: {pointer: 0, value: 0}}
                  - {barrier: [storage]}
      - switch:
          selector: 0
          cases:
            - body:
                - block:
                    body:
                      - {kill: true}
                      - {emit: [0, 1]}
`))
	require.NoError(t, err)

	_, err = Decode([]byte(`
types:
  - scalar: f32
  - struct:
      members:
        - {name: a, type: 0}
        - {name: b, type: 0, location: 1, interpolation: {kind: flat, sampling: center}}
        - {name: c, type: 0, builtin: sample_mask}
constants:
  - {name: c, type: 0, value: 1.5}
  - {name: d, type: 0, value: "1e"}
`))
	require.Error(t, err)
	assert.Equal(t, `irfile: constants[1].value: strconv.ParseFloat: parsing "1e": invalid syntax`, err.Error())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
