// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"github.com/gogpu/wgslgen/emit"
	"github.com/gogpu/wgslgen/ir"
)

// TryEmitStatement implements emit.Target. Loops and barriers have WGSL
// specific forms; everything else uses the C-family rendering.
func (w *Writer) TryEmitStatement(stmt ir.StatementKind) (bool, error) {
	switch s := stmt.(type) {
	case ir.StmtSwitch:
		if hasDefault(s.Cases) {
			return false, nil
		}
		// WGSL requires exactly one default clause.
		cases := make([]ir.SwitchCase, len(s.Cases), len(s.Cases)+1)
		copy(cases, s.Cases)
		s.Cases = append(cases, ir.SwitchCase{Default: true})
		return true, w.em.DefaultEmitStatement(s)
	case ir.StmtLoop:
		return true, w.emitLoop(s)
	case ir.StmtBarrier:
		if s.Flags&(ir.BarrierStorage|ir.BarrierWorkGroup) == 0 {
			return true, errorf(ErrUnsupportedConstruct, "barrier with flags %#x", uint32(s.Flags))
		}
		if s.Flags&ir.BarrierStorage != 0 {
			w.out().WriteLine("storageBarrier();")
		}
		if s.Flags&ir.BarrierWorkGroup != 0 {
			w.out().WriteLine("workgroupBarrier();")
		}
		return true, nil
	}
	return false, nil
}

func hasDefault(cases []ir.SwitchCase) bool {
	for i := range cases {
		if cases[i].Default {
			return true
		}
	}
	return false
}

func (w *Writer) emitLoop(s ir.StmtLoop) error {
	out := w.out()
	out.WriteLine("loop {")
	out.PushIndent()
	if err := w.em.EmitBlock(s.Body); err != nil {
		return err
	}
	if len(s.Continuing) > 0 || s.BreakIf != nil {
		out.WriteLine("continuing {")
		out.PushIndent()
		if err := w.em.EmitBlock(s.Continuing); err != nil {
			return err
		}
		if s.BreakIf != nil {
			out.WriteIndent()
			out.Write("break if ")
			if err := w.EmitOperand(*s.BreakIf, emit.InfoNone); err != nil {
				return err
			}
			out.Write(";\n")
		}
		out.PopIndent()
		out.WriteLine("}")
	}
	out.PopIndent()
	out.WriteLine("}")
	return nil
}

// EmitSwitchCaseLabels implements emit.Target. All selectors of a case
// share one clause; a case that is also the default lists it last:
//
//	case i32(1), i32(2):
//	case i32(3), default,:
//
// Literal selectors must have the selector's type, so a literal of the
// other signedness is reinterpreted.
func (w *Writer) EmitSwitchCaseLabels(selector ir.ExpressionHandle, c *ir.SwitchCase) error {
	if len(c.Values) == 0 && !c.Default {
		return errorf(ErrInvalidModule, "switch case without selectors")
	}
	selectorKind, err := w.selectorKind(selector)
	if err != nil {
		return err
	}

	out := w.out()
	out.Write("case ")
	for i, value := range c.Values {
		if i > 0 {
			out.Write(", ")
		}
		if err := w.emitCaseValue(value, selectorKind); err != nil {
			return err
		}
	}
	if c.Default {
		if len(c.Values) > 0 {
			out.Write(", ")
		}
		out.Write("default,")
	}
	out.Write(":")
	return nil
}

func (w *Writer) emitCaseValue(value ir.SwitchValue, selectorKind ir.ScalarKind) error {
	var valueKind ir.ScalarKind
	switch value.(type) {
	case ir.SwitchValueI32:
		valueKind = ir.ScalarSint
	case ir.SwitchValueU32:
		valueKind = ir.ScalarUint
	default:
		return w.em.EmitSwitchValue(value)
	}
	if valueKind == selectorKind {
		return w.em.EmitSwitchValue(value)
	}
	target, err := w.scalarName(ir.ScalarType{Kind: selectorKind, Width: 4})
	if err != nil {
		return err
	}
	w.out().Write("bitcast<" + target + ">(")
	if err := w.em.EmitSwitchValue(value); err != nil {
		return err
	}
	w.out().Write(")")
	return nil
}

// selectorKind returns the integer kind of a switch selector.
func (w *Writer) selectorKind(selector ir.ExpressionHandle) (ir.ScalarKind, error) {
	inner, err := w.em.ExprInner(selector)
	if err != nil {
		return 0, err
	}
	scalar, ok := inner.(ir.ScalarType)
	if !ok || !scalar.IsInteger() {
		return 0, errorf(ErrInvalidModule, "switch selector of type %T", inner)
	}
	return scalar.Kind, nil
}
