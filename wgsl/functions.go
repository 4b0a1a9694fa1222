// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"strings"

	"github.com/gogpu/wgslgen/emit"
	"github.com/gogpu/wgslgen/ir"
)

// EmitFuncHeader implements emit.Target:
//
//	fn name(params) -> @location(0) T
func (w *Writer) EmitFuncHeader(fh ir.FunctionHandle, name string) error {
	fn := &w.module.Functions[fh]
	out := w.out()
	out.Write("fn " + name + "(")
	if err := w.em.EmitParams(fh); err != nil {
		return err
	}
	out.Write(")")
	if fn.Result == nil {
		return nil
	}
	out.Write(" -> ")
	attrs, err := bindingAttrs(fn.Result.Binding)
	if err != nil {
		return err
	}
	if len(attrs) > 0 {
		out.Write(strings.Join(attrs, " ") + " ")
	}
	return w.EmitSimpleType(fn.Result.Type)
}

// EmitParam implements emit.Target.
func (w *Writer) EmitParam(fh ir.FunctionHandle, index int) error {
	arg := &w.module.Functions[fh].Arguments[index]
	attrs, err := bindingAttrs(arg.Binding)
	if err != nil {
		return err
	}
	return w.EmitType(arg.Type, emit.Attributed(emit.Name(w.em.ArgumentName(fh, index)), attrs...))
}

// EmitEntryPointAttributes implements emit.Target.
func (w *Writer) EmitEntryPointAttributes(ep *ir.EntryPoint) error {
	out := w.out()
	switch ep.Stage {
	case ir.StageVertex:
		out.WriteLine("@vertex")
	case ir.StageFragment:
		out.WriteLine("@fragment")
	case ir.StageCompute:
		out.WriteLine("@compute @workgroup_size(%d, %d, %d)", ep.Workgroup[0], ep.Workgroup[1], ep.Workgroup[2])
	default:
		return errorf(ErrUnsupportedConstruct, "%s shader stage", ep.Stage)
	}
	return nil
}
