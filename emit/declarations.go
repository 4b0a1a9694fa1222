package emit

import (
	"fmt"

	"github.com/gogpu/wgslgen/ir"
)

// separate writes a blank line between top-level declaration groups.
func (e *Emitter) separate() {
	if e.out.Len() > 0 {
		e.out.Write("\n")
	}
}

// emitStructs writes every struct type in handle order.
func (e *Emitter) emitStructs() error {
	for handle, typ := range e.module.Types {
		st, ok := typ.Inner.(ir.StructType)
		if !ok {
			continue
		}
		th := ir.TypeHandle(handle) //nolint:gosec // G115: handle is valid slice index
		e.separate()
		e.out.WriteLine("struct %s {", e.TypeName(th))
		e.out.PushIndent()
		for i, member := range st.Members {
			attrs, err := e.target.StructFieldAttributes(th, i)
			if err != nil {
				return fmt.Errorf("struct %s member %s: %w", e.TypeName(th), e.MemberName(th, i), err)
			}
			e.out.WriteIndent()
			if err := e.target.EmitType(member.Type, Attributed(Name(e.MemberName(th, i)), attrs...)); err != nil {
				return fmt.Errorf("struct %s member %s: %w", e.TypeName(th), e.MemberName(th, i), err)
			}
			e.out.Write(e.target.StructFieldSeparator() + "\n")
		}
		e.out.PopIndent()
		e.out.WriteLine("};")
	}
	return nil
}

// emitConstants writes module constants as one group.
func (e *Emitter) emitConstants() error {
	if len(e.module.Constants) == 0 {
		return nil
	}
	e.separate()
	for handle, constant := range e.module.Constants {
		ch := ir.ConstantHandle(handle) //nolint:gosec // G115: handle is valid slice index
		name := e.ConstantName(ch)
		if err := e.target.EmitVarKeyword(VarInfo{Kind: VarConst, Type: constant.Type}); err != nil {
			return fmt.Errorf("constant %s: %w", name, err)
		}
		if err := e.target.EmitType(constant.Type, Name(name)); err != nil {
			return fmt.Errorf("constant %s: %w", name, err)
		}
		e.out.Write(" = ")
		if err := e.target.EmitConstantValue(ch); err != nil {
			return fmt.Errorf("constant %s: %w", name, err)
		}
		e.out.Write(";\n")
	}
	return nil
}

// emitGlobals writes global variables and shader parameters as one group.
func (e *Emitter) emitGlobals() error {
	if len(e.module.GlobalVariables) == 0 {
		return nil
	}
	e.separate()
	for handle := range e.module.GlobalVariables {
		global := &e.module.GlobalVariables[handle]
		gh := ir.GlobalVariableHandle(handle) //nolint:gosec // G115: handle is valid slice index
		name := e.GlobalName(gh)
		if err := e.target.EmitLayoutAttributes(gh); err != nil {
			return fmt.Errorf("global %s: %w", name, err)
		}
		if err := e.target.EmitVarKeyword(VarInfo{Kind: VarGlobal, Type: global.Type, Space: global.Space, Global: global}); err != nil {
			return fmt.Errorf("global %s: %w", name, err)
		}
		if err := e.target.EmitGlobalParamType(gh); err != nil {
			return fmt.Errorf("global %s: %w", name, err)
		}
		if global.Init != nil {
			e.out.Write(" = ")
			if err := e.target.EmitConstantValue(*global.Init); err != nil {
				return fmt.Errorf("global %s: %w", name, err)
			}
		}
		e.out.Write(";\n")
	}
	return nil
}

// emitFunctions writes every function in handle order. Entry point
// functions are preceded by their stage attributes.
func (e *Emitter) emitFunctions() error {
	for handle := range e.module.Functions {
		fh := ir.FunctionHandle(handle) //nolint:gosec // G115: handle is valid slice index
		ep := e.entryPoints[fh]
		if ep != nil && e.skipEntryPoint(ep) {
			continue
		}
		e.separate()
		if err := e.emitFunction(fh, ep); err != nil {
			return fmt.Errorf("function %s: %w", e.FunctionName(fh), err)
		}
	}
	return nil
}

func (e *Emitter) emitFunction(fh ir.FunctionHandle, ep *ir.EntryPoint) error {
	fn := &e.module.Functions[fh]
	e.beginFunction(fh, fn)
	defer func() { e.fn = nil }()

	if ep != nil {
		if err := e.target.EmitEntryPointAttributes(ep); err != nil {
			return err
		}
	}
	if err := e.target.EmitFuncHeader(fh, e.FunctionName(fh)); err != nil {
		return err
	}
	e.out.Write(" {\n")
	e.out.PushIndent()

	for i, local := range fn.LocalVars {
		name := e.LocalName(uint32(i)) //nolint:gosec // G115: i is valid slice index
		e.out.WriteIndent()
		if err := e.target.EmitVarKeyword(VarInfo{Kind: VarLocal, Type: local.Type, Space: ir.SpaceFunction}); err != nil {
			return fmt.Errorf("local %s: %w", name, err)
		}
		if err := e.target.EmitType(local.Type, Name(name)); err != nil {
			return fmt.Errorf("local %s: %w", name, err)
		}
		if local.Init != nil {
			e.out.Write(" = ")
			if err := e.EmitExpr(*local.Init, InfoNone); err != nil {
				return fmt.Errorf("local %s: %w", name, err)
			}
		}
		e.out.Write(";\n")
	}

	if err := e.EmitBlock(fn.Body); err != nil {
		return err
	}
	e.out.PopIndent()
	e.out.WriteLine("}")
	return nil
}

// beginFunction sets up the per-function context.
func (e *Emitter) beginFunction(fh ir.FunctionHandle, fn *ir.Function) {
	e.fn = &functionState{
		handle:    fh,
		fn:        fn,
		exprTypes: make([]*ir.TypeResolution, len(fn.Expressions)),
		refCounts: countRefs(fn),
		named:     make(map[ir.ExpressionHandle]string),
	}
}

// DefaultEmitFuncHeader writes a C function signature: result type, name
// and parameter list.
func (e *Emitter) DefaultEmitFuncHeader(fh ir.FunctionHandle, name string) error {
	fn := &e.module.Functions[fh]
	if fn.Result != nil {
		if err := e.target.EmitType(fn.Result.Type, Name(name)); err != nil {
			return err
		}
	} else {
		e.out.Write("void " + name)
	}
	e.out.Write("(")
	if err := e.EmitParams(fh); err != nil {
		return err
	}
	e.out.Write(")")
	return nil
}

// EmitParams writes the comma-separated parameters of fh.
func (e *Emitter) EmitParams(fh ir.FunctionHandle) error {
	for i := range e.module.Functions[fh].Arguments {
		if i > 0 {
			e.out.Write(", ")
		}
		if err := e.target.EmitParam(fh, i); err != nil {
			return fmt.Errorf("parameter %s: %w", e.ArgumentName(fh, i), err)
		}
	}
	return nil
}

// DefaultEmitParam writes a parameter as a typed declaration.
func (e *Emitter) DefaultEmitParam(fh ir.FunctionHandle, index int) error {
	arg := &e.module.Functions[fh].Arguments[index]
	return e.target.EmitType(arg.Type, Name(e.ArgumentName(fh, index)))
}

// DefaultEmitGlobalParamType writes a global as a typed declaration.
func (e *Emitter) DefaultEmitGlobalParamType(gh ir.GlobalVariableHandle) error {
	return e.target.EmitType(e.module.GlobalVariables[gh].Type, Name(e.GlobalName(gh)))
}

// DefaultEmitVarKeyword writes C storage qualifiers.
func (e *Emitter) DefaultEmitVarKeyword(v VarInfo) error {
	switch v.Kind {
	case VarLet, VarConst:
		e.out.Write("const ")
	case VarGlobal:
		switch v.Space {
		case ir.SpacePrivate:
			e.out.Write("static ")
		case ir.SpaceWorkGroup:
			e.out.Write("groupshared ")
		}
	}
	return nil
}

// DefaultEmitConstantValue writes a scalar constant as a literal and a
// composite constant as a brace-enclosed initializer list.
func (e *Emitter) DefaultEmitConstantValue(ch ir.ConstantHandle) error {
	if int(ch) >= len(e.module.Constants) {
		return fmt.Errorf("constant %d out of range", ch)
	}
	constant := &e.module.Constants[ch]
	switch v := constant.Value.(type) {
	case ir.ScalarValue:
		lit, err := e.ScalarLiteral(constant.Type, v)
		if err != nil {
			return err
		}
		return e.target.EmitLiteral(lit)
	case ir.CompositeValue:
		e.out.Write("{")
		for i, c := range v.Components {
			if i > 0 {
				e.out.Write(", ")
			}
			if err := e.target.EmitConstantValue(c); err != nil {
				return err
			}
		}
		e.out.Write("}")
		return nil
	default:
		return fmt.Errorf("constant %d has unknown value %T", ch, constant.Value)
	}
}
