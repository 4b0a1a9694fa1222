package ir

import "fmt"

// Resolver resolves expression types.
//
// With a nil Types registry, type handles refer to the module's own arena and
// derived element types must already exist there. With a registry, handles
// refer to the registry and derived types are interned into it.
type Resolver struct {
	Module *Module
	Types  *TypeRegistry
}

// ResolveExpressionType resolves the type of an expression in a function.
// Returns a TypeResolution that either references a module type or contains an inline type.
func ResolveExpressionType(module *Module, fn *Function, handle ExpressionHandle) (TypeResolution, error) {
	r := &Resolver{Module: module}
	return r.Resolve(fn, handle)
}

// Resolve resolves the type of an expression in fn.
//
// Variable references resolve to pointers into the variable's address space,
// except handle-space globals and structured buffers, which resolve to their own type.
//
//nolint:gocyclo,cyclop,funlen // Type resolution requires handling all expression kinds
func (r *Resolver) Resolve(fn *Function, handle ExpressionHandle) (TypeResolution, error) {
	module := r.Module
	if int(handle) >= len(fn.Expressions) {
		return TypeResolution{}, fmt.Errorf("expression handle %d out of range (max %d)", handle, len(fn.Expressions))
	}

	expr := fn.Expressions[handle]

	switch kind := expr.Kind.(type) {
	case Literal:
		return resolveLiteralType(kind)
	case ExprConstant:
		if int(kind.Constant) >= len(module.Constants) {
			return TypeResolution{}, fmt.Errorf("constant %d out of range", kind.Constant)
		}
		h := module.Constants[kind.Constant].Type
		return TypeResolution{Handle: &h}, nil
	case ExprZeroValue:
		h := kind.Type
		return TypeResolution{Handle: &h}, nil
	case ExprCompose:
		h := kind.Type
		return TypeResolution{Handle: &h}, nil
	case ExprArraySplat:
		h := kind.Type
		return TypeResolution{Handle: &h}, nil
	case ExprConvert:
		h := kind.Type
		return TypeResolution{Handle: &h}, nil
	case ExprBitcast:
		h := kind.Type
		return TypeResolution{Handle: &h}, nil
	case ExprAccess:
		return r.resolveAccessType(fn, kind.Base, nil)
	case ExprAccessIndex:
		index := kind.Index
		return r.resolveAccessType(fn, kind.Base, &index)
	case ExprSplat:
		return r.resolveSplatType(fn, kind)
	case ExprSwizzle:
		return r.resolveSwizzleType(fn, kind)
	case ExprFunctionArgument:
		if int(kind.Index) >= len(fn.Arguments) {
			return TypeResolution{}, fmt.Errorf("function argument index %d out of range", kind.Index)
		}
		h := fn.Arguments[kind.Index].Type
		return TypeResolution{Handle: &h}, nil
	case ExprGlobalVariable:
		return r.resolveGlobalType(kind)
	case ExprLocalVariable:
		if int(kind.Variable) >= len(fn.LocalVars) {
			return TypeResolution{}, fmt.Errorf("local variable %d out of range", kind.Variable)
		}
		return TypeResolution{Value: PointerType{Base: fn.LocalVars[kind.Variable].Type, Space: SpaceFunction}}, nil
	case ExprLoad:
		return r.resolveLoadType(fn, kind)
	case ExprBufferLoad:
		return r.resolveBufferLoadType(fn, kind)
	case ExprUnary:
		return r.Resolve(fn, kind.Expr)
	case ExprBinary:
		return r.resolveBinaryType(fn, kind)
	case ExprSelect:
		return r.Resolve(fn, kind.Accept)
	case ExprMath:
		return r.resolveMathType(fn, kind)
	case ExprCallResult:
		if int(kind.Function) >= len(module.Functions) {
			return TypeResolution{}, fmt.Errorf("function %d out of range", kind.Function)
		}
		result := module.Functions[kind.Function].Result
		if result == nil {
			return TypeResolution{}, fmt.Errorf("function has no return type")
		}
		h := result.Type
		return TypeResolution{Handle: &h}, nil
	case ExprArrayLength:
		return TypeResolution{Value: U32}, nil
	default:
		return TypeResolution{}, fmt.Errorf("unsupported expression kind: %T", kind)
	}
}

func resolveLiteralType(lit Literal) (TypeResolution, error) {
	switch v := lit.Value.(type) {
	case LiteralBool:
		return TypeResolution{Value: Bool}, nil
	case LiteralI8:
		return TypeResolution{Value: I8}, nil
	case LiteralU8:
		return TypeResolution{Value: U8}, nil
	case LiteralI16:
		return TypeResolution{Value: I16}, nil
	case LiteralU16:
		return TypeResolution{Value: U16}, nil
	case LiteralI32:
		return TypeResolution{Value: I32}, nil
	case LiteralU32:
		return TypeResolution{Value: U32}, nil
	case LiteralI64:
		return TypeResolution{Value: I64}, nil
	case LiteralU64:
		return TypeResolution{Value: U64}, nil
	case LiteralIntPtr:
		return TypeResolution{Value: IntPtr}, nil
	case LiteralUintPtr:
		return TypeResolution{Value: UintPtr}, nil
	case LiteralF16:
		return TypeResolution{Value: F16}, nil
	case LiteralF32:
		return TypeResolution{Value: F32}, nil
	case LiteralF64:
		return TypeResolution{Value: F64}, nil
	case LiteralAbstractInt:
		// Abstract int defaults to i32
		return TypeResolution{Value: I32}, nil
	case LiteralAbstractFloat:
		// Abstract float defaults to f32
		return TypeResolution{Value: F32}, nil
	default:
		return TypeResolution{}, fmt.Errorf("unknown literal type: %T", v)
	}
}

func (r *Resolver) resolveGlobalType(expr ExprGlobalVariable) (TypeResolution, error) {
	module := r.Module
	if int(expr.Variable) >= len(module.GlobalVariables) {
		return TypeResolution{}, fmt.Errorf("global variable %d out of range", expr.Variable)
	}
	global := module.GlobalVariables[expr.Variable]
	inner, ok := r.lookup(global.Type)
	if !ok {
		return TypeResolution{}, fmt.Errorf("global %q type %d out of range", global.Name, global.Type)
	}
	h := global.Type
	if global.Space == SpaceHandle {
		return TypeResolution{Handle: &h}, nil
	}
	if _, ok := inner.(StructuredBufferType); ok {
		return TypeResolution{Handle: &h}, nil
	}
	return TypeResolution{Value: PointerType{Base: h, Space: global.Space}}, nil
}

// resolveAccessType resolves dynamic (index == nil) and constant accesses.
// Accessing through a pointer yields a pointer to the element.
func (r *Resolver) resolveAccessType(fn *Function, base ExpressionHandle, index *uint32) (TypeResolution, error) {
	baseType, err := r.Resolve(fn, base)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("access base: %w", err)
	}
	inner := r.inner(baseType)
	if inner == nil {
		return TypeResolution{}, fmt.Errorf("access base expression %d has no type", base)
	}

	switch t := inner.(type) {
	case PointerType:
		baseInner, ok := r.lookup(t.Base)
		if !ok {
			return TypeResolution{}, fmt.Errorf("pointer base type %d out of range", t.Base)
		}
		elem, err := elementType(baseInner, index)
		if err != nil {
			return TypeResolution{}, err
		}
		h := r.internElement(elem)
		if h == nil {
			return TypeResolution{}, fmt.Errorf("pointer to inline element %T needs a registered type", elem.Value)
		}
		return TypeResolution{Value: PointerType{Base: *h, Space: t.Space}}, nil
	case StructuredBufferType:
		return TypeResolution{Value: PointerType{Base: t.Base, Space: SpaceStorage}}, nil
	default:
		return elementType(inner, index)
	}
}

func elementType(inner TypeInner, index *uint32) (TypeResolution, error) {
	switch t := inner.(type) {
	case ArrayType:
		h := t.Base
		return TypeResolution{Handle: &h}, nil
	case VectorType:
		return TypeResolution{Value: t.Scalar}, nil
	case MatrixType:
		// Matrix access returns a column vector
		return TypeResolution{Value: VectorType{Size: t.Rows, Scalar: t.Scalar}}, nil
	case StructType:
		if index == nil {
			return TypeResolution{}, fmt.Errorf("struct access needs a constant index")
		}
		if int(*index) >= len(t.Members) {
			return TypeResolution{}, fmt.Errorf("struct member index %d out of range", *index)
		}
		h := t.Members[*index].Type
		return TypeResolution{Handle: &h}, nil
	default:
		return TypeResolution{}, fmt.Errorf("cannot index into type %T", t)
	}
}

// internElement finds or creates a type handle for an element resolution.
func (r *Resolver) internElement(res TypeResolution) *TypeHandle {
	if res.Handle != nil {
		return res.Handle
	}
	if r.Types != nil {
		h := r.Types.GetOrCreate("", res.Value)
		return &h
	}
	for i := range r.Module.Types {
		if typeInnerEqual(r.Module.Types[i].Inner, res.Value) {
			h := TypeHandle(i)
			return &h
		}
	}
	return nil
}

// lookup returns the inner type behind a handle.
func (r *Resolver) lookup(h TypeHandle) (TypeInner, bool) {
	if r.Types != nil {
		ty, ok := r.Types.Lookup(h)
		return ty.Inner, ok && ty.Inner != nil
	}
	if int(h) >= len(r.Module.Types) {
		return nil, false
	}
	return r.Module.Types[h].Inner, true
}

// inner returns the inner type of a resolution, or nil for a dangling handle.
func (r *Resolver) inner(res TypeResolution) TypeInner {
	if res.Handle != nil {
		inner, _ := r.lookup(*res.Handle)
		return inner
	}
	return res.Value
}

func (r *Resolver) resolveSplatType(fn *Function, expr ExprSplat) (TypeResolution, error) {
	valueType, err := r.Resolve(fn, expr.Value)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("splat value: %w", err)
	}
	scalar, ok := r.inner(valueType).(ScalarType)
	if !ok {
		return TypeResolution{}, fmt.Errorf("splat value must be scalar, got %T", r.inner(valueType))
	}
	return TypeResolution{Value: VectorType{Size: expr.Size, Scalar: scalar}}, nil
}

func (r *Resolver) resolveSwizzleType(fn *Function, expr ExprSwizzle) (TypeResolution, error) {
	vectorType, err := r.Resolve(fn, expr.Vector)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("swizzle vector: %w", err)
	}
	vec, ok := r.inner(vectorType).(VectorType)
	if !ok {
		return TypeResolution{}, fmt.Errorf("swizzle base must be vector, got %T", r.inner(vectorType))
	}
	// Swizzle returns a vector of the same scalar type with the swizzle size
	return TypeResolution{Value: VectorType{Size: expr.Size, Scalar: vec.Scalar}}, nil
}

func (r *Resolver) resolveLoadType(fn *Function, expr ExprLoad) (TypeResolution, error) {
	pointerType, err := r.Resolve(fn, expr.Pointer)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("load pointer: %w", err)
	}
	if ptr, ok := r.inner(pointerType).(PointerType); ok {
		h := ptr.Base
		return TypeResolution{Handle: &h}, nil
	}
	return TypeResolution{}, fmt.Errorf("load requires pointer type, got %T", r.inner(pointerType))
}

func (r *Resolver) resolveBufferLoadType(fn *Function, expr ExprBufferLoad) (TypeResolution, error) {
	bufferType, err := r.Resolve(fn, expr.Buffer)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("buffer load: %w", err)
	}
	buf, ok := r.inner(bufferType).(StructuredBufferType)
	if !ok {
		return TypeResolution{}, fmt.Errorf("buffer load requires a structured buffer, got %T", r.inner(bufferType))
	}
	h := buf.Base
	return TypeResolution{Handle: &h}, nil
}

func (r *Resolver) resolveBinaryType(fn *Function, expr ExprBinary) (TypeResolution, error) {
	leftType, err := r.Resolve(fn, expr.Left)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("binary left: %w", err)
	}

	switch expr.Op {
	case BinaryEqual, BinaryNotEqual, BinaryLess, BinaryLessEqual, BinaryGreater, BinaryGreaterEqual:
		if vec, ok := r.inner(leftType).(VectorType); ok {
			// Vector comparison returns vector of bools
			return TypeResolution{Value: VectorType{Size: vec.Size, Scalar: Bool}}, nil
		}
		return TypeResolution{Value: Bool}, nil

	case BinaryLogicalAnd, BinaryLogicalOr:
		return TypeResolution{Value: Bool}, nil

	case BinaryShiftLeft, BinaryShiftRight:
		return leftType, nil

	case BinaryMultiply:
		rightType, rightErr := r.Resolve(fn, expr.Right)
		if rightErr != nil {
			return TypeResolution{}, fmt.Errorf("binary right: %w", rightErr)
		}
		return r.resolveMulResultType(leftType, rightType), nil

	default:
		// Scalar op vector broadcasts to the vector.
		rightType, rightErr := r.Resolve(fn, expr.Right)
		if rightErr != nil {
			return TypeResolution{}, fmt.Errorf("binary right: %w", rightErr)
		}
		_, leftIsScalar := r.inner(leftType).(ScalarType)
		_, rightIsVec := r.inner(rightType).(VectorType)
		if leftIsScalar && rightIsVec {
			return rightType, nil
		}
		return leftType, nil
	}
}

// resolveMulResultType determines the result type of a multiplication.
//
// Products are stored in source operand order while matrix dimensions are in
// column-major terms, so mat*vec yields Columns components and vec*mat yields
// Rows components.
func (r *Resolver) resolveMulResultType(left, right TypeResolution) TypeResolution {
	leftInner := r.inner(left)
	rightInner := r.inner(right)

	_, leftIsScalar := leftInner.(ScalarType)
	_, rightIsScalar := rightInner.(ScalarType)
	_, leftIsVec := leftInner.(VectorType)
	_, rightIsVec := rightInner.(VectorType)
	leftMat, leftIsMat := leftInner.(MatrixType)
	rightMat, rightIsMat := rightInner.(MatrixType)

	switch {
	case leftIsScalar && (rightIsVec || rightIsMat):
		return right
	case (leftIsVec || leftIsMat) && rightIsScalar:
		return left
	case leftIsMat && rightIsVec:
		return TypeResolution{Value: VectorType{Size: leftMat.Columns, Scalar: leftMat.Scalar}}
	case leftIsVec && rightIsMat:
		return TypeResolution{Value: VectorType{Size: rightMat.Rows, Scalar: rightMat.Scalar}}
	case leftIsMat && rightIsMat:
		return TypeResolution{Value: MatrixType{Columns: leftMat.Columns, Rows: rightMat.Rows, Scalar: leftMat.Scalar}}
	default:
		return left
	}
}

func (r *Resolver) resolveMathType(fn *Function, expr ExprMath) (TypeResolution, error) {
	argType, err := r.Resolve(fn, expr.Arg)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("math argument: %w", err)
	}

	switch expr.Fun {
	case MathDot, MathLength, MathDistance:
		if vec, ok := r.inner(argType).(VectorType); ok {
			return TypeResolution{Value: vec.Scalar}, nil
		}
		return argType, nil
	case MathDeterminant:
		if mat, ok := r.inner(argType).(MatrixType); ok {
			return TypeResolution{Value: mat.Scalar}, nil
		}
		return argType, nil
	case MathTranspose:
		if mat, ok := r.inner(argType).(MatrixType); ok {
			return TypeResolution{Value: MatrixType{Columns: mat.Rows, Rows: mat.Columns, Scalar: mat.Scalar}}, nil
		}
		return argType, nil
	default:
		// Most math functions preserve the argument type
		return argType, nil
	}
}

// typeInnerEqual compares two inner types structurally.
func typeInnerEqual(a, b TypeInner) bool {
	switch at := a.(type) {
	case StructType:
		bt, ok := b.(StructType)
		if !ok || len(at.Members) != len(bt.Members) {
			return false
		}
		for i := range at.Members {
			if at.Members[i].Name != bt.Members[i].Name || at.Members[i].Type != bt.Members[i].Type ||
				at.Members[i].Offset != bt.Members[i].Offset {
				return false
			}
		}
		return true
	case ArrayType:
		bt, ok := b.(ArrayType)
		if !ok || at.Base != bt.Base || at.Stride != bt.Stride {
			return false
		}
		if at.Size.Constant == nil || bt.Size.Constant == nil {
			return at.Size.Constant == nil && bt.Size.Constant == nil
		}
		return *at.Size.Constant == *bt.Size.Constant
	default:
		return a == b
	}
}
