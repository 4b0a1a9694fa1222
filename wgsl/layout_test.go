// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/wgslgen/emit"
	"github.com/gogpu/wgslgen/ir"
)

func TestFieldAlignment(t *testing.T) {
	tests := []struct {
		structAlign uint64
		offset      uint32
		want        uint32
	}{
		{16, 0, 16},
		{16, 4, 4},
		{16, 8, 8},
		{16, 48, 16},
		{4, 12, 4},
		{8, 6, 2},
		{1, 7, 1},
		{256, 0, 256},
	}
	for _, tt := range tests {
		got, err := fieldAlignment(tt.structAlign, tt.offset)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "align %d offset %d", tt.structAlign, tt.offset)
	}

	for _, bad := range []uint64{0, 3, 12, 1<<40 + 1} {
		_, err := fieldAlignment(bad, 0)
		assert.True(t, IsInvalidModule(err), "align %d", bad)
	}
	_, err := fieldAlignment(1<<40, 0)
	assert.True(t, IsInvalidModule(err))
}

func TestFieldAlignmentProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("alignment is the largest power of two dividing both", prop.ForAll(
		func(shift int, offset uint32) bool {
			structAlign := uint64(1) << uint(shift)
			align, err := fieldAlignment(structAlign, offset)
			if err != nil {
				return false
			}
			a := uint64(align)
			if a&(a-1) != 0 || structAlign%a != 0 || uint64(offset)%a != 0 {
				return false
			}
			return a == structAlign || uint64(offset)%(2*a) != 0
		},
		gen.IntRange(0, 16),
		gen.UInt32(),
	))

	properties.TestingRun(t)
}

func TestCompile_StructLayout(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.F32},
			{Inner: ir.VectorType{Size: ir.Vec3, Scalar: ir.F32}},
			{Name: "Light", Inner: ir.StructType{
				Members: []ir.StructMember{
					{Name: "intensity", Type: 0, Offset: 0},
					{Name: "direction", Type: 1, Offset: 16},
					{Name: "range", Type: 0, Offset: 28},
				},
				Layout: &ir.StructLayout{Size: 32, Alignment: 16},
			}},
		},
	}
	source, _ := compile(t, module)
	assert.Equal(t, "struct Light {\n"+
		"    @align(16) intensity : f32,\n"+
		"    @align(16) direction : vec3<f32>,\n"+
		"    @align(4) range : f32,\n"+
		"};\n", source)
}

func TestBindingAttrs(t *testing.T) {
	tests := []struct {
		name    string
		binding ir.Binding
		want    []string
	}{
		{"none", nil, nil},
		{"builtin", ir.BuiltinBinding{Builtin: ir.BuiltinFragDepth}, []string{"@builtin(frag_depth)"}},
		{"location", ir.LocationBinding{Location: 1}, []string{"@location(1)"}},
		{
			"flat drops sampling",
			ir.LocationBinding{Location: 2, Interpolation: &ir.Interpolation{Kind: ir.InterpolationFlat, Sampling: ir.SamplingSample}},
			[]string{"@location(2)", "@interpolate(flat)"},
		},
		{
			"linear centroid",
			ir.LocationBinding{Location: 3, Interpolation: &ir.Interpolation{Kind: ir.InterpolationLinear, Sampling: ir.SamplingCentroid}},
			[]string{"@location(3)", "@interpolate(linear, centroid)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bindingAttrs(tt.binding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := bindingAttrs(ir.LocationBinding{Location: 0, Space: 1})
	assert.True(t, IsUnsupportedConstruct(err))
	_, err = bindingAttrs(ir.BuiltinBinding{Builtin: ir.BuiltinNumWorkGroups + 1})
	assert.True(t, IsUnsupportedConstruct(err))
}

func TestCompile_GlobalDeclarations(t *testing.T) {
	module := &ir.Module{
		Types: []ir.Type{
			{Inner: ir.F32},
			{Inner: ir.SamplerType{}},
			{Inner: ir.StructuredBufferType{Base: 0}},
			{Inner: ir.ArrayType{Base: 4, Stride: 4}},
			{Inner: ir.U32},
			{Inner: ir.I32},
		},
		GlobalVariables: []ir.GlobalVariable{
			{
				Name:  "params",
				Space: ir.SpaceUniform,
				Type:  0,
				Layout: []ir.LayoutOffset{
					{Kind: ir.ResourceConstantBuffer, Offset: 2, Space: 0},
					{Kind: ir.ResourceShaderResource, Offset: 5, Space: 5},
				},
			},
			{
				Name:   "samp",
				Space:  ir.SpaceHandle,
				Type:   1,
				Layout: []ir.LayoutOffset{{Kind: ir.ResourceSamplerState, Offset: 1, Space: 0}},
			},
			{
				Name:   "weights",
				Space:  ir.SpaceStorage,
				Type:   2,
				Layout: []ir.LayoutOffset{{Kind: ir.ResourceShaderResource, Offset: 3, Space: 2}},
			},
			{Name: "values", Space: ir.SpaceStorage, Type: 3},
			{Name: "counter", Space: ir.SpacePrivate, Type: 5},
			{
				Name:   "color",
				Space:  ir.SpacePrivate,
				Type:   0,
				Layout: []ir.LayoutOffset{{Kind: ir.ResourceVaryingOutput, Offset: 3}},
			},
		},
	}
	source, _ := compile(t, module)
	assert.Equal(t, "@binding(2) @group(0) var<uniform> params : f32;\n"+
		"@binding(1) @group(0) var samp : sampler;\n"+
		"@binding(3) @group(2) var<storage, read> weights : array<f32>;\n"+
		"var<storage, read_write> values : array<u32>;\n"+
		"var<private> counter : i32;\n"+
		"@location(3) var<private> color : f32;\n", source)
}

func TestWriter_DeclaratorShapes(t *testing.T) {
	w := NewWriter(&ir.Module{}, nil)
	require.NoError(t, w.EmitDeclarator(emit.Attributed(emit.Name("x"), "@location(0)", "@interpolate(flat)")))
	assert.Equal(t, "@location(0) @interpolate(flat) x", w.out().String())

	for _, decl := range []*emit.Declarator{
		emit.Pointer(emit.Name("p")),
		emit.Reference(emit.Name("r")),
		emit.LiteralSizedArray(emit.Name("a"), 4),
		emit.UnsizedArray(emit.Name("u")),
		emit.Attributed(emit.SizedArray(emit.Name("s"), "N"), "@align(4)"),
	} {
		err := w.EmitDeclarator(decl)
		assert.True(t, IsUnexpectedDeclaratorShape(err), "%s declarator", decl.Kind)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "_unnamed"},
		{"_", "_unnamed"},
		{"position", "position"},
		{"3d", "_3d"},
		{"a-b", "a_b"},
		{"loop", "_loop"},
		{"bitcast", "_bitcast"},
		{"__x", "v__x"},
		{"Self", "_Self"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Escape(tt.name), "Escape(%q)", tt.name)
	}
}
