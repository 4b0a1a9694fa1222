package ir

// Module represents a shader module in IR form.
type Module struct {
	// Types holds all type definitions
	Types []Type

	// Constants holds module-scope constants
	Constants []Constant

	// GlobalVariables holds module-scope variables and shader parameters
	GlobalVariables []GlobalVariable

	// Functions holds all function definitions
	Functions []Function

	// EntryPoints holds shader entry points
	EntryPoints []EntryPoint
}

// EntryPoint represents a shader entry point.
type EntryPoint struct {
	Name      string
	Stage     ShaderStage
	Function  FunctionHandle
	Workgroup [3]uint32 // For compute shaders, x/y/z order
}

// ShaderStage represents a shader stage.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageCompute
	StageGeometry
	StageHull
	StageDomain
	StageMesh
	StageAmplification
	StageRayGeneration
)

var stageNames = [...]string{
	StageVertex:        "vertex",
	StageFragment:      "fragment",
	StageCompute:       "compute",
	StageGeometry:      "geometry",
	StageHull:          "hull",
	StageDomain:        "domain",
	StageMesh:          "mesh",
	StageAmplification: "amplification",
	StageRayGeneration: "raygeneration",
}

// String returns the lowercase stage name.
func (s ShaderStage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Handle types for referencing IR objects
type (
	TypeHandle           uint32
	FunctionHandle       uint32
	GlobalVariableHandle uint32
	ConstantHandle       uint32
	ExpressionHandle     uint32
)

// Type represents a type in the IR.
type Type struct {
	Name  string
	Inner TypeInner
}

// TypeInner represents the inner type kind.
type TypeInner interface {
	typeInner()
}

// VoidType is the result type of functions returning nothing.
type VoidType struct{}

func (VoidType) typeInner() {}

// ScalarType represents scalar types.
type ScalarType struct {
	Kind  ScalarKind
	Width uint8 // in bytes, or WidthPointer
}

func (ScalarType) typeInner() {}

// WidthPointer marks a pointer-sized integer. Its real width depends on the target.
const WidthPointer uint8 = 0xff

// ScalarKind represents scalar type kinds.
type ScalarKind uint8

const (
	ScalarSint  ScalarKind = iota // Signed integer
	ScalarUint                    // Unsigned integer
	ScalarFloat                   // Floating point
	ScalarBool                    // Boolean
)

// Common scalar types.
var (
	Bool    = ScalarType{Kind: ScalarBool, Width: 1}
	I8      = ScalarType{Kind: ScalarSint, Width: 1}
	U8      = ScalarType{Kind: ScalarUint, Width: 1}
	I16     = ScalarType{Kind: ScalarSint, Width: 2}
	U16     = ScalarType{Kind: ScalarUint, Width: 2}
	I32     = ScalarType{Kind: ScalarSint, Width: 4}
	U32     = ScalarType{Kind: ScalarUint, Width: 4}
	I64     = ScalarType{Kind: ScalarSint, Width: 8}
	U64     = ScalarType{Kind: ScalarUint, Width: 8}
	IntPtr  = ScalarType{Kind: ScalarSint, Width: WidthPointer}
	UintPtr = ScalarType{Kind: ScalarUint, Width: WidthPointer}
	F16     = ScalarType{Kind: ScalarFloat, Width: 2}
	F32     = ScalarType{Kind: ScalarFloat, Width: 4}
	F64     = ScalarType{Kind: ScalarFloat, Width: 8}
)

// IsInteger reports whether the scalar is a signed or unsigned integer.
func (s ScalarType) IsInteger() bool {
	return s.Kind == ScalarSint || s.Kind == ScalarUint
}

// VectorType represents vector types.
type VectorType struct {
	Size   VectorSize
	Scalar ScalarType
}

func (VectorType) typeInner() {}

// VectorSize represents vector and matrix dimension sizes.
type VectorSize uint8

const (
	Vec1 VectorSize = 1
	Vec2 VectorSize = 2
	Vec3 VectorSize = 3
	Vec4 VectorSize = 4
)

// MatrixType represents matrix types.
//
// Columns and Rows use column-major terminology: the matrix holds Columns
// column vectors of Rows elements each, and indexing yields a column. Source
// languages with row-major terminology arrive here with their axes swapped,
// while multiplication expressions keep the source operand order.
type MatrixType struct {
	Columns VectorSize
	Rows    VectorSize
	Scalar  ScalarType
}

func (MatrixType) typeInner() {}

// ArrayType represents array types.
type ArrayType struct {
	Base   TypeHandle
	Size   ArraySize
	Stride uint32
}

func (ArrayType) typeInner() {}

// ArraySize represents array size.
type ArraySize struct {
	Constant *uint32 // nil for runtime-sized arrays
}

// StructType represents struct types.
type StructType struct {
	Members []StructMember
	Layout  *StructLayout // nil for undecorated, synthesized structs
}

func (StructType) typeInner() {}

// StructLayout is the size and alignment decoration computed upstream.
type StructLayout struct {
	Size      uint64
	Alignment uint64
}

// StructMember represents a struct member.
type StructMember struct {
	Name    string
	Type    TypeHandle
	Binding Binding // @builtin(position), @location(0), etc.
	Offset  uint32
}

// PointerType represents the pointer and reference family.
type PointerType struct {
	Base   TypeHandle
	Space  AddressSpace
	Flavor PointerFlavor
}

func (PointerType) typeInner() {}

// PointerFlavor records which source construct produced a pointer type.
type PointerFlavor uint8

const (
	PointerPtr PointerFlavor = iota
	PointerRef
	PointerConstRef
	PointerOut
	PointerInOut
)

// StructuredBufferType is an unbounded array of Base bound as a storage resource.
type StructuredBufferType struct {
	Base      TypeHandle
	ReadWrite bool
}

func (StructuredBufferType) typeInner() {}

// AtomicType represents atomic types for thread-safe operations.
type AtomicType struct {
	Scalar ScalarType
}

func (AtomicType) typeInner() {}

// AddressSpace represents memory address spaces.
type AddressSpace uint8

const (
	SpaceFunction AddressSpace = iota // generic
	SpacePrivate                      // thread-local
	SpaceWorkGroup                    // group-shared
	SpaceUniform
	SpaceStorage
	SpacePushConstant
	SpaceHandle
)

// SamplerType represents sampler types.
type SamplerType struct {
	Comparison bool
}

func (SamplerType) typeInner() {}

// Constant represents a constant value.
type Constant struct {
	Name  string
	Type  TypeHandle
	Value ConstantValue
}

// ConstantValue represents constant values.
type ConstantValue interface {
	constantValue()
}

// ScalarValue represents a scalar constant. Its width comes from the constant's type.
// Bits hold the value at that width: integers as two's complement, f32 and f64
// as their IEEE bits, and f16 widened to f32 bits.
type ScalarValue struct {
	Bits uint64 // Bit representation
	Kind ScalarKind
}

func (ScalarValue) constantValue() {}

// CompositeValue represents a composite constant.
type CompositeValue struct {
	Components []ConstantHandle
}

func (CompositeValue) constantValue() {}

// GlobalVariable represents a global variable or shader parameter.
type GlobalVariable struct {
	Name   string
	Space  AddressSpace
	Layout []LayoutOffset
	Type   TypeHandle
	Init   *ConstantHandle
}

// ResourceKind tags a layout offset with the register class it was allocated in.
type ResourceKind uint8

const (
	ResourceVaryingInput ResourceKind = iota
	ResourceVaryingOutput
	ResourceSpecializationConstant
	ResourceUniform
	ResourceConstantBuffer
	ResourceShaderResource
	ResourceUnorderedAccess
	ResourceSamplerState
	ResourceDescriptorTableSlot
	ResourcePushConstantBuffer
)

// LayoutOffset is one resolved (offset, space) pair of a variable's layout.
type LayoutOffset struct {
	Kind   ResourceKind
	Offset uint32
	Space  uint32
}

// Function represents a function definition.
type Function struct {
	Name            string
	Arguments       []FunctionArgument
	Result          *FunctionResult
	LocalVars       []LocalVariable
	Expressions     []Expression
	ExpressionTypes []TypeResolution // Type of each expression (parallel to Expressions)
	Body            []Statement
}

// FunctionArgument represents a function argument.
type FunctionArgument struct {
	Name    string
	Type    TypeHandle
	Binding Binding
}

// FunctionResult represents a function return type.
type FunctionResult struct {
	Type    TypeHandle
	Binding Binding
}

// LocalVariable represents a function-local variable.
type LocalVariable struct {
	Name string
	Type TypeHandle
	Init *ExpressionHandle
}

// Binding represents shader stage IO bindings.
type Binding interface {
	binding()
}

// BuiltinBinding represents a built-in binding.
type BuiltinBinding struct {
	Builtin BuiltinValue
}

func (BuiltinBinding) binding() {}

// BuiltinValue represents built-in values.
type BuiltinValue uint8

const (
	BuiltinPosition BuiltinValue = iota
	BuiltinVertexIndex
	BuiltinInstanceIndex
	BuiltinFrontFacing
	BuiltinFragDepth
	BuiltinSampleIndex
	BuiltinSampleMask
	BuiltinLocalInvocationID
	BuiltinLocalInvocationIndex
	BuiltinGlobalInvocationID
	BuiltinWorkGroupID
	BuiltinNumWorkGroups
)

// LocationBinding represents a varying slot. Space is the secondary register space.
type LocationBinding struct {
	Location      uint32
	Space         uint32
	Interpolation *Interpolation
}

func (LocationBinding) binding() {}

// Interpolation represents interpolation settings.
type Interpolation struct {
	Kind     InterpolationKind
	Sampling InterpolationSampling
}

// InterpolationKind represents interpolation kinds.
type InterpolationKind uint8

const (
	InterpolationPerspective InterpolationKind = iota
	InterpolationLinear
	InterpolationFlat
)

// InterpolationSampling represents interpolation sampling.
type InterpolationSampling uint8

const (
	SamplingCenter InterpolationSampling = iota
	SamplingCentroid
	SamplingSample
)

// TypeResolution represents the resolved type of an expression.
// It can either reference a type in the module's type arena (Handle)
// or represent an inline/computed type (Value).
type TypeResolution struct {
	Handle *TypeHandle // If set, references a module type
	Value  TypeInner   // If Handle is nil, this is the inline type
}

// Inner returns the resolved inner type, looking handles up in module.
func (r TypeResolution) Inner(module *Module) TypeInner {
	if r.Handle != nil {
		if int(*r.Handle) < len(module.Types) {
			return module.Types[*r.Handle].Inner
		}
		return nil
	}
	return r.Value
}

// Expression types are defined in expression.go
// Statement types are defined in statement.go
