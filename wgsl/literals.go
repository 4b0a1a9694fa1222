// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/wgslgen/ir"
)

// EmitLiteral implements emit.Target.
//
//nolint:gocyclo,cyclop // one case per literal kind
func (w *Writer) EmitLiteral(value ir.LiteralValue) error {
	out := w.out()
	switch v := value.(type) {
	case ir.LiteralBool:
		out.Write(strconv.FormatBool(bool(v)))
	case ir.LiteralI8, ir.LiteralU8:
		return errorf(ErrUnrepresentableType, "8-bit integer literal %v", v)
	case ir.LiteralI16, ir.LiteralU16:
		return errorf(ErrUnrepresentableType, "16-bit integer literal %v", v)
	case ir.LiteralI32:
		out.Writef("i32(%d)", int32(v))
	case ir.LiteralU32:
		out.Writef("u32(%d)", uint32(v))
	case ir.LiteralI64:
		out.Writef("i64(%d)", int64(v))
	case ir.LiteralU64:
		out.Writef("u64(%d)", uint64(v))
	case ir.LiteralIntPtr:
		if w.options.PointerWidth == 4 {
			out.Writef("i32(%d)", int32(v)) //nolint:gosec // G115: 32-bit target
		} else {
			out.Writef("i64(%d)", int64(v))
		}
	case ir.LiteralUintPtr:
		if w.options.PointerWidth == 4 {
			out.Writef("u32(%d)", uint32(v)) //nolint:gosec // G115: 32-bit target
		} else {
			out.Writef("u64(%d)", uint64(v))
		}
	case ir.LiteralF16:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errorf(ErrUnrepresentableType, "non-finite f16 literal %v", f)
		}
		w.session.require(ExtensionF16)
		out.Write(formatFloat(f, 32) + "h")
	case ir.LiteralF32:
		f := float32(v)
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			// Literals are const-expressions, which may not evaluate to Inf or NaN.
			return errorf(ErrUnrepresentableType, "non-finite f32 literal %v", f)
		}
		out.Write(formatFloat(float64(f), 32) + "f")
	case ir.LiteralF64:
		return errorf(ErrUnrepresentableType, "f64 literal %v", float64(v))
	case ir.LiteralAbstractInt:
		w.session.noteMalformedConstant()
		out.Write(strconv.FormatInt(int64(v), 10))
	case ir.LiteralAbstractFloat:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return errorf(ErrUnrepresentableType, "non-finite literal %v", float64(v))
		}
		w.session.noteMalformedConstant()
		out.Write(formatFloat(float64(v), 64))
	default:
		return errorf(ErrUnsupportedConstruct, "literal %T", value)
	}
	return nil
}

// isNegativeLiteral reports whether value is written with a leading minus sign.
func isNegativeLiteral(value ir.LiteralValue) bool {
	switch v := value.(type) {
	case ir.LiteralF16:
		return math.Signbit(float64(v))
	case ir.LiteralF32:
		return math.Signbit(float64(v))
	case ir.LiteralAbstractInt:
		return v < 0
	case ir.LiteralAbstractFloat:
		return math.Signbit(float64(v))
	}
	return false
}

// formatFloat renders the shortest digits that round-trip at bitSize,
// always with a decimal point or an exponent.
func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// EmitConstantValue implements emit.Target. Composite constants are spelled
// as constructor calls.
func (w *Writer) EmitConstantValue(c ir.ConstantHandle) error {
	if int(c) >= len(w.module.Constants) {
		return errorf(ErrInvalidModule, "constant %d out of range", c)
	}
	constant := &w.module.Constants[c]
	composite, ok := constant.Value.(ir.CompositeValue)
	if !ok {
		return w.em.DefaultEmitConstantValue(c)
	}
	if err := w.EmitSimpleType(constant.Type); err != nil {
		return err
	}
	w.out().Write("(")
	for i, component := range composite.Components {
		if i > 0 {
			w.out().Write(", ")
		}
		if err := w.EmitConstantValue(component); err != nil {
			return err
		}
	}
	w.out().Write(")")
	return nil
}
