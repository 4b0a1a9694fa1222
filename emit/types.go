package emit

import (
	"math"

	"github.com/gogpu/wgslgen/ir"
)

// DefaultEmitType writes a type in C declarator style: arrays and pointers
// become declarators wrapped around decl, everything else is a simple type
// followed by the declarator.
func (e *Emitter) DefaultEmitType(ty ir.TypeHandle, decl *Declarator) error {
	inner, err := e.TypeInner(ty)
	if err != nil {
		return err
	}
	switch t := inner.(type) {
	case ir.ArrayType:
		if t.Size.Constant != nil {
			return e.target.EmitType(t.Base, LiteralSizedArray(decl, *t.Size.Constant))
		}
		return e.target.EmitType(t.Base, UnsizedArray(decl))
	case ir.PointerType:
		return e.target.EmitType(t.Base, Pointer(decl))
	}
	if err := e.target.EmitSimpleType(ty); err != nil {
		return err
	}
	if decl != nil {
		e.out.Write(" ")
		return e.target.EmitDeclarator(decl)
	}
	return nil
}

// ScalarLiteral converts a scalar constant of type ty into a literal.
// Bits hold the value at the type's width; f16 values are stored widened to
// f32. When ty is not a usable scalar type the value comes back as an abstract
// literal.
func (e *Emitter) ScalarLiteral(ty ir.TypeHandle, v ir.ScalarValue) (ir.LiteralValue, error) {
	inner, err := e.TypeInner(ty)
	scalar, ok := inner.(ir.ScalarType)
	if err != nil || !ok || scalar.Kind != v.Kind {
		return abstractLiteral(v), nil
	}

	switch scalar.Kind {
	case ir.ScalarBool:
		return ir.LiteralBool(v.Bits != 0), nil
	case ir.ScalarSint:
		switch scalar.Width {
		case 1:
			return ir.LiteralI8(int8(v.Bits)), nil //nolint:gosec // G115: truncation to the declared width
		case 2:
			return ir.LiteralI16(int16(v.Bits)), nil //nolint:gosec // G115: truncation to the declared width
		case 4:
			return ir.LiteralI32(int32(v.Bits)), nil //nolint:gosec // G115: truncation to the declared width
		case ir.WidthPointer:
			return ir.LiteralIntPtr(int64(v.Bits)), nil //nolint:gosec // G115: bit pattern reinterpretation
		default:
			return ir.LiteralI64(int64(v.Bits)), nil //nolint:gosec // G115: bit pattern reinterpretation
		}
	case ir.ScalarUint:
		switch scalar.Width {
		case 1:
			return ir.LiteralU8(uint8(v.Bits)), nil //nolint:gosec // G115: truncation to the declared width
		case 2:
			return ir.LiteralU16(uint16(v.Bits)), nil //nolint:gosec // G115: truncation to the declared width
		case 4:
			return ir.LiteralU32(uint32(v.Bits)), nil //nolint:gosec // G115: truncation to the declared width
		case ir.WidthPointer:
			return ir.LiteralUintPtr(v.Bits), nil
		default:
			return ir.LiteralU64(v.Bits), nil
		}
	default:
		switch scalar.Width {
		case 2:
			return ir.LiteralF16(math.Float32frombits(uint32(v.Bits))), nil //nolint:gosec // G115: f16 is stored as f32 bits
		case 4:
			return ir.LiteralF32(math.Float32frombits(uint32(v.Bits))), nil //nolint:gosec // G115: truncation to the declared width
		default:
			return ir.LiteralF64(math.Float64frombits(v.Bits)), nil
		}
	}
}

// abstractLiteral is the untyped fallback for a scalar without a usable type.
func abstractLiteral(v ir.ScalarValue) ir.LiteralValue {
	switch v.Kind {
	case ir.ScalarBool:
		return ir.LiteralBool(v.Bits != 0)
	case ir.ScalarFloat:
		return ir.LiteralAbstractFloat(math.Float64frombits(v.Bits))
	default:
		return ir.LiteralAbstractInt(int64(v.Bits)) //nolint:gosec // G115: bit pattern reinterpretation
	}
}
