// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"

	"github.com/gogpu/wgslgen/emit"
	"github.com/gogpu/wgslgen/ir"
)

// EmitType implements emit.Target. WGSL declarations read "name : type";
// arrays and pointers are part of the type and never wrap the name.
func (w *Writer) EmitType(ty ir.TypeHandle, decl *emit.Declarator) error {
	if decl == nil {
		return w.EmitSimpleType(ty)
	}
	if err := w.EmitDeclarator(decl); err != nil {
		return err
	}
	w.out().Write(" : ")
	return w.EmitSimpleType(ty)
}

// EmitSimpleType implements emit.Target.
func (w *Writer) EmitSimpleType(ty ir.TypeHandle) error {
	text, err := w.typeTextOf(ty)
	if err != nil {
		return err
	}
	w.out().Write(text)
	return nil
}

// typeText spells a non-struct type.
//
//nolint:gocyclo,cyclop // one case per type kind
func (w *Writer) typeText(inner ir.TypeInner) (string, error) {
	switch t := inner.(type) {
	case ir.VoidType:
		return "", errorf(ErrUnsupportedConstruct, "void type in value position")

	case ir.ScalarType:
		return w.scalarName(t)

	case ir.VectorType:
		scalar, err := w.scalarName(t.Scalar)
		if err != nil {
			return "", err
		}
		if t.Size < ir.Vec1 || t.Size > ir.Vec4 {
			return "", errorf(ErrInvalidModule, "vector size %d", t.Size)
		}
		if t.Size == ir.Vec1 {
			return scalar, nil
		}
		return fmt.Sprintf("vec%d<%s>", t.Size, scalar), nil

	case ir.MatrixType:
		scalar, err := w.scalarName(t.Scalar)
		if err != nil {
			return "", err
		}
		if t.Columns < ir.Vec1 || t.Columns > ir.Vec4 || t.Rows < ir.Vec1 || t.Rows > ir.Vec4 {
			return "", errorf(ErrInvalidModule, "matrix dimensions %dx%d", t.Columns, t.Rows)
		}
		return fmt.Sprintf("mat%dx%d<%s>", t.Columns, t.Rows, scalar), nil

	case ir.ArrayType:
		base, err := w.typeTextOf(t.Base)
		if err != nil {
			return "", err
		}
		if t.Size.Constant == nil {
			return "array<" + base + ">", nil
		}
		return fmt.Sprintf("array<%s, %d>", base, *t.Size.Constant), nil

	case ir.PointerType:
		base, err := w.typeTextOf(t.Base)
		if err != nil {
			return "", err
		}
		switch t.Space {
		case ir.SpaceHandle:
			return "", errorf(ErrUnsupportedConstruct, "pointer to handle address space")
		case ir.SpaceStorage:
			return "ptr<storage, " + base + ", read_write>", nil
		}
		space, err := addressSpaceName(t.Space)
		if err != nil {
			return "", err
		}
		return "ptr<" + space + ", " + base + ">", nil

	case ir.StructuredBufferType:
		base, err := w.typeTextOf(t.Base)
		if err != nil {
			return "", err
		}
		return "ptr<storage, array<" + base + ">, " + accessMode(t.ReadWrite) + ">", nil

	case ir.SamplerType:
		if t.Comparison {
			return "sampler_comparison", nil
		}
		return "sampler", nil

	case ir.AtomicType:
		scalar, err := w.scalarName(t.Scalar)
		if err != nil {
			return "", err
		}
		return "atomic<" + scalar + ">", nil

	default:
		return "", errorf(ErrUnsupportedConstruct, "type %T", inner)
	}
}

// typeTextOf spells the type behind a handle, structs included.
func (w *Writer) typeTextOf(ty ir.TypeHandle) (string, error) {
	inner, err := w.typeInner(ty)
	if err != nil {
		return "", err
	}
	if _, ok := inner.(ir.StructType); ok {
		return w.em.TypeName(ty), nil
	}
	return w.typeText(inner)
}

// scalarName spells a scalar type. Requesting f16 enables the extension.
func (w *Writer) scalarName(s ir.ScalarType) (string, error) {
	switch s.Kind {
	case ir.ScalarBool:
		return "bool", nil
	case ir.ScalarFloat:
		switch s.Width {
		case 2:
			w.session.require(ExtensionF16)
			return "f16", nil
		case 4:
			return "f32", nil
		case 8:
			return "", errorf(ErrUnrepresentableType, "f64")
		}
	case ir.ScalarSint, ir.ScalarUint:
		prefix := "i"
		if s.Kind == ir.ScalarUint {
			prefix = "u"
		}
		switch s.Width {
		case 1, 2:
			return "", errorf(ErrUnrepresentableType, "%s%d", prefix, s.Width*8)
		case 4:
			return prefix + "32", nil
		case 8:
			return prefix + "64", nil
		case ir.WidthPointer:
			if w.options.PointerWidth == 4 {
				return prefix + "32", nil
			}
			return prefix + "64", nil
		}
	}
	return "", errorf(ErrInvalidModule, "scalar kind %d with width %d", s.Kind, s.Width)
}

func addressSpaceName(space ir.AddressSpace) (string, error) {
	switch space {
	case ir.SpaceFunction:
		return "function", nil
	case ir.SpacePrivate:
		return "private", nil
	case ir.SpaceWorkGroup:
		return "workgroup", nil
	case ir.SpaceUniform:
		return "uniform", nil
	case ir.SpaceStorage:
		return "storage", nil
	case ir.SpacePushConstant:
		return "push_constant", nil
	default:
		return "", errorf(ErrUnsupportedConstruct, "address space %d", space)
	}
}

func accessMode(readWrite bool) string {
	if readWrite {
		return "read_write"
	}
	return "read"
}
