package irfile

import (
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/wgslgen/ir"
)

// convert builds the module a decoded document describes.
func convert(doc *document) (*ir.Module, error) {
	m := &ir.Module{}

	for i := range doc.Types {
		ty, err := convertType(&doc.Types[i])
		if err != nil {
			return nil, at(index("types", i), err)
		}
		m.Types = append(m.Types, ty)
	}

	for i := range doc.Constants {
		c, err := convertConstant(m, &doc.Constants[i])
		if err != nil {
			return nil, at(index("constants", i), err)
		}
		m.Constants = append(m.Constants, c)
	}

	for i := range doc.Globals {
		g, err := convertGlobal(&doc.Globals[i])
		if err != nil {
			return nil, at(index("globals", i), err)
		}
		m.GlobalVariables = append(m.GlobalVariables, g)
	}

	for i := range doc.Functions {
		fn, err := convertFunction(&doc.Functions[i])
		if err != nil {
			return nil, at(index("functions", i), err)
		}
		m.Functions = append(m.Functions, fn)
	}

	for i, ep := range doc.EntryPoints {
		stage, err := stageByName(ep.Stage)
		if err != nil {
			return nil, at(index("entry_points", i), err)
		}
		entry := ir.EntryPoint{Name: ep.Name, Stage: stage, Function: ir.FunctionHandle(ep.Function)}
		if len(ep.Workgroup) > 3 {
			return nil, at(index("entry_points", i), &Error{Message: "workgroup has more than 3 dimensions"})
		}
		for axis := range entry.Workgroup {
			entry.Workgroup[axis] = 1
			if axis < len(ep.Workgroup) {
				entry.Workgroup[axis] = ep.Workgroup[axis]
			}
		}
		if stage != ir.StageCompute && len(ep.Workgroup) == 0 {
			entry.Workgroup = [3]uint32{}
		}
		m.EntryPoints = append(m.EntryPoints, entry)
	}

	return m, nil
}

func convertScalar(name string) (ir.ScalarType, error) {
	return lookup(scalarNames, "scalar", name)
}

//nolint:gocyclo,cyclop // one case per type kind
func convertType(t *typeDoc) (ir.Type, error) {
	ty := ir.Type{Name: t.Name}
	switch {
	case t.Void:
		ty.Inner = ir.VoidType{}
	case t.Scalar != "":
		s, err := convertScalar(t.Scalar)
		if err != nil {
			return ty, at("scalar", err)
		}
		ty.Inner = s
	case t.Vector != nil:
		s, err := convertScalar(t.Vector.Scalar)
		if err != nil {
			return ty, at("vector", err)
		}
		ty.Inner = ir.VectorType{Size: ir.VectorSize(t.Vector.Size), Scalar: s}
	case t.Matrix != nil:
		s, err := convertScalar(t.Matrix.Scalar)
		if err != nil {
			return ty, at("matrix", err)
		}
		ty.Inner = ir.MatrixType{
			Columns: ir.VectorSize(t.Matrix.Columns),
			Rows:    ir.VectorSize(t.Matrix.Rows),
			Scalar:  s,
		}
	case t.Array != nil:
		ty.Inner = ir.ArrayType{
			Base:   ir.TypeHandle(t.Array.Base),
			Size:   ir.ArraySize{Constant: t.Array.Size},
			Stride: t.Array.Stride,
		}
	case t.Struct != nil:
		st := ir.StructType{}
		if t.Struct.Layout != nil {
			st.Layout = &ir.StructLayout{Size: t.Struct.Layout.Size, Alignment: t.Struct.Layout.Alignment}
		}
		for i, m := range t.Struct.Members {
			binding, err := convertBinding(&m.bindingDoc)
			if err != nil {
				return ty, at("struct."+index("members", i), err)
			}
			st.Members = append(st.Members, ir.StructMember{
				Name:    m.Name,
				Type:    ir.TypeHandle(m.Type),
				Binding: binding,
				Offset:  m.Offset,
			})
		}
		ty.Inner = st
	case t.Pointer != nil:
		space, err := lookup(spaceNames, "address space", t.Pointer.Space)
		if err != nil {
			return ty, at("pointer", err)
		}
		flavor, err := lookup(flavorNames, "pointer flavor", t.Pointer.Flavor)
		if err != nil {
			return ty, at("pointer", err)
		}
		ty.Inner = ir.PointerType{Base: ir.TypeHandle(t.Pointer.Base), Space: space, Flavor: flavor}
	case t.Buffer != nil:
		ty.Inner = ir.StructuredBufferType{Base: ir.TypeHandle(t.Buffer.Base), ReadWrite: t.Buffer.ReadWrite}
	case t.Sampler != nil:
		ty.Inner = ir.SamplerType{Comparison: t.Sampler.Comparison}
	case t.Atomic != "":
		s, err := convertScalar(t.Atomic)
		if err != nil {
			return ty, at("atomic", err)
		}
		ty.Inner = ir.AtomicType{Scalar: s}
	default:
		return ty, &Error{Message: "type has no kind"}
	}
	return ty, nil
}

// convertBinding returns nil when neither a builtin nor a location is set.
func convertBinding(b *bindingDoc) (ir.Binding, error) {
	switch {
	case b.Builtin != "":
		builtin, err := lookup(builtinNames, "builtin", b.Builtin)
		if err != nil {
			return nil, err
		}
		return ir.BuiltinBinding{Builtin: builtin}, nil
	case b.Location != nil:
		loc := ir.LocationBinding{Location: *b.Location, Space: b.LocationSpace}
		if b.Interpolation != nil {
			kind, err := lookup(interpolationNames, "interpolation", b.Interpolation.Kind)
			if err != nil {
				return nil, err
			}
			sampling, err := lookup(samplingNames, "sampling", b.Interpolation.Sampling)
			if err != nil {
				return nil, err
			}
			loc.Interpolation = &ir.Interpolation{Kind: kind, Sampling: sampling}
		}
		return loc, nil
	}
	return nil, nil
}

func convertConstant(m *ir.Module, c *constantDoc) (ir.Constant, error) {
	constant := ir.Constant{Name: c.Name, Type: ir.TypeHandle(c.Type)}
	switch {
	case c.Composite != nil:
		components := make([]ir.ConstantHandle, len(c.Composite))
		for i, h := range c.Composite {
			components[i] = ir.ConstantHandle(h)
		}
		constant.Value = ir.CompositeValue{Components: components}
		return constant, nil
	case c.Value == nil && c.Bits == nil:
		return constant, &Error{Message: "constant has neither value, bits nor composite"}
	}

	// The declared scalar type decides the encoding. Constants whose type is
	// not a scalar are stored at full width under the explicit kind.
	scalar, typed := ir.ScalarType{Width: 8}, false
	if int(c.Type) < len(m.Types) {
		scalar, typed = m.Types[c.Type].Inner.(ir.ScalarType)
		if !typed {
			scalar = ir.ScalarType{Width: 8}
		}
	}
	if c.Kind != "" {
		kind, err := lookup(kindNames, "scalar kind", c.Kind)
		if err != nil {
			return constant, err
		}
		if typed && kind != scalar.Kind {
			scalar = ir.ScalarType{Kind: kind, Width: 8}
		}
		scalar.Kind = kind
	} else if !typed {
		return constant, &Error{Message: "constant of non-scalar type needs a kind"}
	}

	if c.Bits != nil {
		constant.Value = ir.ScalarValue{Bits: *c.Bits, Kind: scalar.Kind}
		return constant, nil
	}
	bits, err := scalarBits(scalar, *c.Value)
	if err != nil {
		return constant, at("value", err)
	}
	constant.Value = ir.ScalarValue{Bits: bits, Kind: scalar.Kind}
	return constant, nil
}

// scalarBits encodes text as the bit pattern of a scalar of type s.
func scalarBits(s ir.ScalarType, text string) (uint64, error) {
	switch s.Kind {
	case ir.ScalarBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return 0, &Error{Err: err}
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case ir.ScalarFloat:
		f, err := parseFloat(text)
		if err != nil {
			return 0, err
		}
		if s.Width == 8 {
			return math.Float64bits(f), nil
		}
		// f16 values are carried widened to f32.
		return uint64(math.Float32bits(float32(f))), nil
	case ir.ScalarUint:
		u, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return 0, &Error{Err: err}
		}
		return u, nil
	default:
		i, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return 0, &Error{Err: err}
		}
		return uint64(i), nil //nolint:gosec // G115: two's complement bit pattern
	}
}

// parseFloat accepts Go float syntax plus the YAML spellings .inf, -.inf and .nan.
func parseFloat(text string) (float64, error) {
	t := strings.ToLower(text)
	t = strings.Replace(t, ".inf", "inf", 1)
	if t == ".nan" {
		t = "nan"
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, &Error{Err: err}
	}
	return f, nil
}

func convertGlobal(g *globalDoc) (ir.GlobalVariable, error) {
	space, err := lookup(spaceNames, "address space", g.Space)
	if err != nil {
		return ir.GlobalVariable{}, at("space", err)
	}
	global := ir.GlobalVariable{Name: g.Name, Space: space, Type: ir.TypeHandle(g.Type)}
	if g.Init != nil {
		init := ir.ConstantHandle(*g.Init)
		global.Init = &init
	}
	for i, o := range g.Layout {
		kind, err := lookup(resourceNames, "resource kind", o.Kind)
		if err != nil {
			return global, at(index("layout", i), err)
		}
		global.Layout = append(global.Layout, ir.LayoutOffset{Kind: kind, Offset: o.Offset, Space: o.Space})
	}
	return global, nil
}

func convertFunction(f *functionDoc) (ir.Function, error) {
	fn := ir.Function{Name: f.Name}

	for i := range f.Arguments {
		a := &f.Arguments[i]
		binding, err := convertBinding(&a.bindingDoc)
		if err != nil {
			return fn, at(index("arguments", i), err)
		}
		fn.Arguments = append(fn.Arguments, ir.FunctionArgument{Name: a.Name, Type: ir.TypeHandle(a.Type), Binding: binding})
	}

	if f.Result != nil {
		binding, err := convertBinding(&f.Result.bindingDoc)
		if err != nil {
			return fn, at("result", err)
		}
		fn.Result = &ir.FunctionResult{Type: ir.TypeHandle(f.Result.Type), Binding: binding}
	}

	for _, l := range f.Locals {
		local := ir.LocalVariable{Name: l.Name, Type: ir.TypeHandle(l.Type)}
		local.Init = exprHandle(l.Init)
		fn.LocalVars = append(fn.LocalVars, local)
	}

	for i := range f.Expressions {
		kind, err := convertExpression(&f.Expressions[i])
		if err != nil {
			return fn, at(index("expressions", i), err)
		}
		fn.Expressions = append(fn.Expressions, ir.Expression{Kind: kind})
	}

	body, err := convertBlock(f.Body)
	if err != nil {
		return fn, at("body", err)
	}
	fn.Body = body
	return fn, nil
}

func exprHandle(h *uint32) *ir.ExpressionHandle {
	if h == nil {
		return nil
	}
	e := ir.ExpressionHandle(*h)
	return &e
}

func exprHandles(hs []uint32) []ir.ExpressionHandle {
	out := make([]ir.ExpressionHandle, len(hs))
	for i, h := range hs {
		out[i] = ir.ExpressionHandle(h)
	}
	return out
}
