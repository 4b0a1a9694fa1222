// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/gogpu/wgslgen/emit"
	"github.com/gogpu/wgslgen/ir"
)

var builtinNames = map[ir.BuiltinValue]string{
	ir.BuiltinPosition:             "position",
	ir.BuiltinVertexIndex:          "vertex_index",
	ir.BuiltinInstanceIndex:        "instance_index",
	ir.BuiltinFrontFacing:          "front_facing",
	ir.BuiltinFragDepth:            "frag_depth",
	ir.BuiltinSampleIndex:          "sample_index",
	ir.BuiltinSampleMask:           "sample_mask",
	ir.BuiltinLocalInvocationID:    "local_invocation_id",
	ir.BuiltinLocalInvocationIndex: "local_invocation_index",
	ir.BuiltinGlobalInvocationID:   "global_invocation_id",
	ir.BuiltinWorkGroupID:          "workgroup_id",
	ir.BuiltinNumWorkGroups:        "num_workgroups",
}

var (
	interpolationKindNames = [...]string{
		ir.InterpolationPerspective: "perspective",
		ir.InterpolationLinear:      "linear",
		ir.InterpolationFlat:        "flat",
	}
	interpolationSamplingNames = [...]string{
		ir.SamplingCenter:   "center",
		ir.SamplingCentroid: "centroid",
		ir.SamplingSample:   "sample",
	}
)

// bindingAttrs returns the attributes of a shader stage IO binding.
func bindingAttrs(binding ir.Binding) ([]string, error) {
	switch b := binding.(type) {
	case nil:
		return nil, nil
	case ir.BuiltinBinding:
		name, ok := builtinNames[b.Builtin]
		if !ok {
			return nil, errorf(ErrUnsupportedConstruct, "builtin %d", b.Builtin)
		}
		return []string{"@builtin(" + name + ")"}, nil
	case ir.LocationBinding:
		if b.Space != 0 {
			return nil, errorf(ErrUnsupportedConstruct, "location %d in space %d", b.Location, b.Space)
		}
		attrs := []string{fmt.Sprintf("@location(%d)", b.Location)}
		if b.Interpolation != nil {
			interp, err := interpolateAttr(b.Interpolation)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, interp)
		}
		return attrs, nil
	default:
		return nil, errorf(ErrUnsupportedConstruct, "binding %T", binding)
	}
}

func interpolateAttr(interp *ir.Interpolation) (string, error) {
	if int(interp.Kind) >= len(interpolationKindNames) || int(interp.Sampling) >= len(interpolationSamplingNames) {
		return "", errorf(ErrInvalidModule, "interpolation %d/%d", interp.Kind, interp.Sampling)
	}
	kind := interpolationKindNames[interp.Kind]
	if interp.Kind == ir.InterpolationFlat {
		return "@interpolate(" + kind + ")", nil
	}
	return "@interpolate(" + kind + ", " + interpolationSamplingNames[interp.Sampling] + ")", nil
}

// fieldAlignment returns the alignment a member at offset can claim inside
// a struct aligned to structAlign: the largest power of two dividing both.
func fieldAlignment(structAlign uint64, offset uint32) (uint32, error) {
	if structAlign == 0 || structAlign&(structAlign-1) != 0 {
		return 0, errorf(ErrInvalidModule, "struct alignment %d is not a power of two", structAlign)
	}
	combined := structAlign | uint64(offset)
	align := uint64(1) << bits.TrailingZeros64(combined)
	if align > math.MaxUint32 {
		return 0, errorf(ErrInvalidModule, "member alignment %d overflows 32 bits", align)
	}
	return uint32(align), nil
}

// StructFieldAttributes implements emit.Target. Members of laid out
// structs carry their alignment; stage IO members carry their binding.
func (w *Writer) StructFieldAttributes(ty ir.TypeHandle, member int) ([]string, error) {
	inner, err := w.typeInner(ty)
	if err != nil {
		return nil, err
	}
	st, ok := inner.(ir.StructType)
	if !ok || member < 0 || member >= len(st.Members) {
		return nil, errorf(ErrInvalidModule, "type %d has no member %d", ty, member)
	}
	m := &st.Members[member]

	var attrs []string
	if st.Layout != nil {
		align, err := fieldAlignment(st.Layout.Alignment, m.Offset)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, fmt.Sprintf("@align(%d)", align))
	}
	binding, err := bindingAttrs(m.Binding)
	if err != nil {
		return nil, err
	}
	return append(attrs, binding...), nil
}

// StructFieldSeparator implements emit.Target.
func (w *Writer) StructFieldSeparator() string {
	return ","
}

// isOverride reports whether a global is a pipeline-overridable constant.
func isOverride(global *ir.GlobalVariable) bool {
	return len(global.Layout) > 0 && global.Layout[0].Kind == ir.ResourceSpecializationConstant
}

// EmitLayoutAttributes implements emit.Target. Only the first resolved
// layout entry is used.
func (w *Writer) EmitLayoutAttributes(gh ir.GlobalVariableHandle) error {
	global := &w.module.GlobalVariables[gh]
	if len(global.Layout) == 0 {
		return nil
	}
	layout := global.Layout[0]
	switch layout.Kind {
	case ir.ResourceVaryingInput, ir.ResourceVaryingOutput:
		if layout.Space != 0 {
			return errorf(ErrUnsupportedConstruct, "varying %s in space %d", w.em.GlobalName(gh), layout.Space)
		}
		w.out().Writef("@location(%d) ", layout.Offset)
	case ir.ResourceSpecializationConstant:
	default:
		w.out().Writef("@binding(%d) @group(%d) ", layout.Offset, layout.Space)
	}
	return nil
}

// EmitVarKeyword implements emit.Target.
func (w *Writer) EmitVarKeyword(v emit.VarInfo) error {
	out := w.out()
	switch v.Kind {
	case emit.VarLocal:
		out.Write("var ")
	case emit.VarLet:
		out.Write("let ")
	case emit.VarConst:
		out.Write("const ")
	case emit.VarGlobal:
		if v.Global != nil && isOverride(v.Global) {
			out.Write("override ")
			return nil
		}
		inner, err := w.typeInner(v.Type)
		if err != nil {
			return err
		}
		if buf, ok := inner.(ir.StructuredBufferType); ok {
			out.Write("var<storage, " + accessMode(buf.ReadWrite) + "> ")
			return nil
		}
		switch v.Space {
		case ir.SpaceFunction:
			return errorf(ErrUnsupportedConstruct, "global in function address space")
		case ir.SpaceHandle:
			out.Write("var ")
		case ir.SpaceStorage:
			out.Write("var<storage, read_write> ")
		default:
			space, err := addressSpaceName(v.Space)
			if err != nil {
				return err
			}
			out.Write("var<" + space + "> ")
		}
	default:
		return errorf(ErrInvalidModule, "variable kind %d", v.Kind)
	}
	return nil
}

// EmitGlobalParamType implements emit.Target. Structured buffers are
// declared as runtime-sized arrays.
func (w *Writer) EmitGlobalParamType(gh ir.GlobalVariableHandle) error {
	global := &w.module.GlobalVariables[gh]
	inner, err := w.typeInner(global.Type)
	if err != nil {
		return err
	}
	name := w.em.GlobalName(gh)
	if buf, ok := inner.(ir.StructuredBufferType); ok {
		base, err := w.typeTextOf(buf.Base)
		if err != nil {
			return err
		}
		w.out().Write(name + " : array<" + base + ">")
		return nil
	}
	return w.EmitType(global.Type, emit.Name(name))
}
