package irfile

import "github.com/gogpu/wgslgen/ir"

var scalarNames = map[string]ir.ScalarType{
	"bool": ir.Bool,
	"i8":   ir.I8,
	"u8":   ir.U8,
	"i16":  ir.I16,
	"u16":  ir.U16,
	"i32":  ir.I32,
	"u32":  ir.U32,
	"i64":  ir.I64,
	"u64":  ir.U64,
	"iptr": ir.IntPtr,
	"uptr": ir.UintPtr,
	"f16":  ir.F16,
	"f32":  ir.F32,
	"f64":  ir.F64,
}

var kindNames = map[string]ir.ScalarKind{
	"sint":  ir.ScalarSint,
	"uint":  ir.ScalarUint,
	"float": ir.ScalarFloat,
	"bool":  ir.ScalarBool,
}

var spaceNames = map[string]ir.AddressSpace{
	"function":      ir.SpaceFunction,
	"private":       ir.SpacePrivate,
	"workgroup":     ir.SpaceWorkGroup,
	"uniform":       ir.SpaceUniform,
	"storage":       ir.SpaceStorage,
	"push_constant": ir.SpacePushConstant,
	"handle":        ir.SpaceHandle,
}

var flavorNames = map[string]ir.PointerFlavor{
	"":          ir.PointerPtr,
	"ptr":       ir.PointerPtr,
	"ref":       ir.PointerRef,
	"const_ref": ir.PointerConstRef,
	"out":       ir.PointerOut,
	"inout":     ir.PointerInOut,
}

var resourceNames = map[string]ir.ResourceKind{
	"varying_input":           ir.ResourceVaryingInput,
	"varying_output":          ir.ResourceVaryingOutput,
	"specialization_constant": ir.ResourceSpecializationConstant,
	"uniform":                 ir.ResourceUniform,
	"constant_buffer":         ir.ResourceConstantBuffer,
	"shader_resource":         ir.ResourceShaderResource,
	"unordered_access":        ir.ResourceUnorderedAccess,
	"sampler_state":           ir.ResourceSamplerState,
	"descriptor_table_slot":   ir.ResourceDescriptorTableSlot,
	"push_constant_buffer":    ir.ResourcePushConstantBuffer,
}

var builtinNames = map[string]ir.BuiltinValue{
	"position":               ir.BuiltinPosition,
	"vertex_index":           ir.BuiltinVertexIndex,
	"instance_index":         ir.BuiltinInstanceIndex,
	"front_facing":           ir.BuiltinFrontFacing,
	"frag_depth":             ir.BuiltinFragDepth,
	"sample_index":           ir.BuiltinSampleIndex,
	"sample_mask":            ir.BuiltinSampleMask,
	"local_invocation_id":    ir.BuiltinLocalInvocationID,
	"local_invocation_index": ir.BuiltinLocalInvocationIndex,
	"global_invocation_id":   ir.BuiltinGlobalInvocationID,
	"workgroup_id":           ir.BuiltinWorkGroupID,
	"num_workgroups":         ir.BuiltinNumWorkGroups,
}

var interpolationNames = map[string]ir.InterpolationKind{
	"perspective": ir.InterpolationPerspective,
	"linear":      ir.InterpolationLinear,
	"flat":        ir.InterpolationFlat,
}

var samplingNames = map[string]ir.InterpolationSampling{
	"":         ir.SamplingCenter,
	"center":   ir.SamplingCenter,
	"centroid": ir.SamplingCentroid,
	"sample":   ir.SamplingSample,
}

var unaryNames = map[string]ir.UnaryOperator{
	"negate":      ir.UnaryNegate,
	"not":         ir.UnaryLogicalNot,
	"bitwise_not": ir.UnaryBitwiseNot,
}

var binaryNames = map[string]ir.BinaryOperator{
	"add":           ir.BinaryAdd,
	"subtract":      ir.BinarySubtract,
	"multiply":      ir.BinaryMultiply,
	"divide":        ir.BinaryDivide,
	"modulo":        ir.BinaryModulo,
	"equal":         ir.BinaryEqual,
	"not_equal":     ir.BinaryNotEqual,
	"less":          ir.BinaryLess,
	"less_equal":    ir.BinaryLessEqual,
	"greater":       ir.BinaryGreater,
	"greater_equal": ir.BinaryGreaterEqual,
	"and":           ir.BinaryAnd,
	"xor":           ir.BinaryExclusiveOr,
	"or":            ir.BinaryInclusiveOr,
	"logical_and":   ir.BinaryLogicalAnd,
	"logical_or":    ir.BinaryLogicalOr,
	"shift_left":    ir.BinaryShiftLeft,
	"shift_right":   ir.BinaryShiftRight,
}

var mathNames = map[string]ir.MathFunction{
	"abs":            ir.MathAbs,
	"min":            ir.MathMin,
	"max":            ir.MathMax,
	"clamp":          ir.MathClamp,
	"saturate":       ir.MathSaturate,
	"cos":            ir.MathCos,
	"sin":            ir.MathSin,
	"tan":            ir.MathTan,
	"atan2":          ir.MathAtan2,
	"ceil":           ir.MathCeil,
	"floor":          ir.MathFloor,
	"round":          ir.MathRound,
	"fract":          ir.MathFract,
	"trunc":          ir.MathTrunc,
	"exp":            ir.MathExp,
	"exp2":           ir.MathExp2,
	"log":            ir.MathLog,
	"log2":           ir.MathLog2,
	"pow":            ir.MathPow,
	"sqrt":           ir.MathSqrt,
	"inverse_sqrt":   ir.MathInverseSqrt,
	"dot":            ir.MathDot,
	"cross":          ir.MathCross,
	"distance":       ir.MathDistance,
	"length":         ir.MathLength,
	"normalize":      ir.MathNormalize,
	"reflect":        ir.MathReflect,
	"sign":           ir.MathSign,
	"fma":            ir.MathFma,
	"mix":            ir.MathMix,
	"step":           ir.MathStep,
	"smooth_step":    ir.MathSmoothStep,
	"transpose":      ir.MathTranspose,
	"determinant":    ir.MathDeterminant,
	"count_one_bits": ir.MathCountOneBits,
	"reverse_bits":   ir.MathReverseBits,
}

var barrierNames = map[string]ir.BarrierFlags{
	"storage":   ir.BarrierStorage,
	"workgroup": ir.BarrierWorkGroup,
}

// lookup resolves name in table, naming what in the error.
func lookup[T any](table map[string]T, what, name string) (T, error) {
	v, ok := table[name]
	if !ok {
		var zero T
		return zero, &Error{Message: "unknown " + what + " " + quote(name)}
	}
	return v, nil
}

// stageByName finds a shader stage by its lowercase name.
func stageByName(name string) (ir.ShaderStage, error) {
	for s := ir.StageVertex; s <= ir.StageRayGeneration; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, &Error{Message: "unknown stage " + quote(name)}
}
