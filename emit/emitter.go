package emit

import (
	"fmt"

	"github.com/gogpu/wgslgen/ir"
)

// nameKey identifies an IR entity for name lookup.
type nameKey struct {
	kind    nameKeyKind
	handle1 uint32
	handle2 uint32
}

type nameKeyKind uint8

const (
	nameKeyType nameKeyKind = iota
	nameKeyStructMember
	nameKeyConstant
	nameKeyGlobalVariable
	nameKeyFunction
	nameKeyFunctionArgument
	nameKeyLocal
)

// Emitter walks one IR module and drives a Target.
// An Emitter renders a single module once and is not safe for concurrent use.
type Emitter struct {
	module *ir.Module
	target Target
	out    Output

	// types holds the module's types followed by interned inline types.
	types    *ir.TypeRegistry
	resolver *ir.Resolver

	names map[nameKey]string
	namer *namer

	entryPoints     map[ir.FunctionHandle]*ir.EntryPoint
	entryPointNames map[string]string
	selected        string

	// fn is the function being emitted, nil at module scope.
	fn *functionState
}

// functionState is the per-function emission context.
type functionState struct {
	handle ir.FunctionHandle
	fn     *ir.Function

	// exprTypes caches resolved expression types.
	exprTypes []*ir.TypeResolution

	// refCounts counts the uses of every expression.
	refCounts []int

	// named maps baked expressions to their temporaries.
	named map[ir.ExpressionHandle]string
}

// New creates an emitter rendering module through target.
func New(module *ir.Module, target Target) *Emitter {
	e := &Emitter{
		module:          module,
		target:          target,
		types:           ir.NewTypeRegistryFrom(module),
		names:           make(map[nameKey]string),
		namer:           newNamer(target.Escape),
		entryPoints:     make(map[ir.FunctionHandle]*ir.EntryPoint, len(module.EntryPoints)),
		entryPointNames: make(map[string]string, len(module.EntryPoints)),
	}
	e.resolver = &ir.Resolver{Module: module, Types: e.types}
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		e.entryPoints[ep.Function] = ep
	}
	return e
}

// SelectEntryPoint restricts emission to one entry point. Other entry point
// functions are skipped; helper functions are always emitted.
func (e *Emitter) SelectEntryPoint(name string) error {
	for i := range e.module.EntryPoints {
		if e.module.EntryPoints[i].Name == name {
			e.selected = name
			return nil
		}
	}
	return fmt.Errorf("entry point %q not found", name)
}

// Module returns the module being emitted.
func (e *Emitter) Module() *ir.Module {
	return e.module
}

// Out returns the output cursor.
func (e *Emitter) Out() *Output {
	return &e.out
}

// EntryPointNames maps declared entry point names to emitted names.
func (e *Emitter) EntryPointNames() map[string]string {
	return e.entryPointNames
}

// EmitModule renders the module and returns the prologue followed by the body.
func (e *Emitter) EmitModule() (string, error) {
	e.registerNames()

	if err := e.emitStructs(); err != nil {
		return "", err
	}
	if err := e.emitConstants(); err != nil {
		return "", err
	}
	if err := e.emitGlobals(); err != nil {
		return "", err
	}
	if err := e.emitFunctions(); err != nil {
		return "", err
	}
	if err := e.target.EmitPrologue(); err != nil {
		return "", fmt.Errorf("prologue: %w", err)
	}
	return e.out.String(), nil
}

// registerNames assigns every named entity its identifier up front.
// Entry points are named first so they keep their declared names.
func (e *Emitter) registerNames() {
	for i := range e.module.EntryPoints {
		ep := &e.module.EntryPoints[i]
		if e.skipEntryPoint(ep) {
			continue
		}
		name := e.namer.call(ep.Name)
		e.names[nameKey{kind: nameKeyFunction, handle1: uint32(ep.Function)}] = name
		e.entryPointNames[ep.Name] = name
	}

	for handle, typ := range e.module.Types {
		st, ok := typ.Inner.(ir.StructType)
		if !ok {
			continue
		}
		baseName := typ.Name
		if baseName == "" {
			baseName = fmt.Sprintf("type_%d", handle)
		}
		e.names[nameKey{kind: nameKeyType, handle1: uint32(handle)}] = e.namer.call(baseName) //nolint:gosec // G115: handle is valid slice index

		for memberIdx, member := range st.Members {
			memberName := member.Name
			if memberName == "" {
				memberName = fmt.Sprintf("member_%d", memberIdx)
			}
			e.names[nameKey{kind: nameKeyStructMember, handle1: uint32(handle), handle2: uint32(memberIdx)}] = e.target.Escape(memberName) //nolint:gosec // G115: handle is valid slice index
		}
	}

	for handle, constant := range e.module.Constants {
		baseName := constant.Name
		if baseName == "" {
			baseName = fmt.Sprintf("const_%d", handle)
		}
		e.names[nameKey{kind: nameKeyConstant, handle1: uint32(handle)}] = e.namer.call(baseName) //nolint:gosec // G115: handle is valid slice index
	}

	for handle, global := range e.module.GlobalVariables {
		baseName := global.Name
		if baseName == "" {
			baseName = fmt.Sprintf("global_%d", handle)
		}
		e.names[nameKey{kind: nameKeyGlobalVariable, handle1: uint32(handle)}] = e.namer.call(baseName) //nolint:gosec // G115: handle is valid slice index
	}

	for handle := range e.module.Functions {
		fn := &e.module.Functions[handle]
		key := nameKey{kind: nameKeyFunction, handle1: uint32(handle)} //nolint:gosec // G115: handle is valid slice index
		if _, isEntry := e.names[key]; !isEntry {
			baseName := fn.Name
			if baseName == "" {
				baseName = fmt.Sprintf("function_%d", handle)
			}
			e.names[key] = e.namer.call(baseName)
		}

		for argIdx, arg := range fn.Arguments {
			argName := arg.Name
			if argName == "" {
				argName = fmt.Sprintf("arg_%d", argIdx)
			}
			e.names[nameKey{kind: nameKeyFunctionArgument, handle1: uint32(handle), handle2: uint32(argIdx)}] = e.namer.call(argName) //nolint:gosec // G115: handle is valid slice index
		}
		for localIdx, local := range fn.LocalVars {
			localName := local.Name
			if localName == "" {
				localName = fmt.Sprintf("local_%d", localIdx)
			}
			e.names[nameKey{kind: nameKeyLocal, handle1: uint32(handle), handle2: uint32(localIdx)}] = e.namer.call(localName) //nolint:gosec // G115: handle is valid slice index
		}
	}
}

// skipEntryPoint reports whether ep is left out by SelectEntryPoint.
func (e *Emitter) skipEntryPoint(ep *ir.EntryPoint) bool {
	return e.selected != "" && ep.Name != e.selected
}

// TypeName returns the name of a struct type.
func (e *Emitter) TypeName(h ir.TypeHandle) string {
	if name, ok := e.names[nameKey{kind: nameKeyType, handle1: uint32(h)}]; ok {
		return name
	}
	return fmt.Sprintf("type_%d", h)
}

// MemberName returns the name of a struct member.
func (e *Emitter) MemberName(h ir.TypeHandle, member int) string {
	if name, ok := e.names[nameKey{kind: nameKeyStructMember, handle1: uint32(h), handle2: uint32(member)}]; ok { //nolint:gosec // G115: member is valid slice index
		return name
	}
	return fmt.Sprintf("member_%d", member)
}

// ConstantName returns the name of a module constant.
func (e *Emitter) ConstantName(h ir.ConstantHandle) string {
	if name, ok := e.names[nameKey{kind: nameKeyConstant, handle1: uint32(h)}]; ok {
		return name
	}
	return fmt.Sprintf("const_%d", h)
}

// GlobalName returns the name of a global variable.
func (e *Emitter) GlobalName(h ir.GlobalVariableHandle) string {
	if name, ok := e.names[nameKey{kind: nameKeyGlobalVariable, handle1: uint32(h)}]; ok {
		return name
	}
	return fmt.Sprintf("global_%d", h)
}

// FunctionName returns the name of a function.
func (e *Emitter) FunctionName(h ir.FunctionHandle) string {
	if name, ok := e.names[nameKey{kind: nameKeyFunction, handle1: uint32(h)}]; ok {
		return name
	}
	return fmt.Sprintf("function_%d", h)
}

// ArgumentName returns the name of an argument of fn.
func (e *Emitter) ArgumentName(fn ir.FunctionHandle, index int) string {
	if name, ok := e.names[nameKey{kind: nameKeyFunctionArgument, handle1: uint32(fn), handle2: uint32(index)}]; ok { //nolint:gosec // G115: index is valid slice index
		return name
	}
	return fmt.Sprintf("arg_%d", index)
}

// LocalName returns the name of a local variable of the current function.
func (e *Emitter) LocalName(index uint32) string {
	if e.fn != nil {
		if name, ok := e.names[nameKey{kind: nameKeyLocal, handle1: uint32(e.fn.handle), handle2: index}]; ok {
			return name
		}
	}
	return fmt.Sprintf("local_%d", index)
}

// Type returns the type behind h, including interned inline types.
func (e *Emitter) Type(h ir.TypeHandle) (ir.Type, error) {
	ty, ok := e.types.Lookup(h)
	if !ok {
		return ir.Type{}, fmt.Errorf("type %d out of range", h)
	}
	if ty.Inner == nil {
		return ir.Type{}, fmt.Errorf("type %d has nil inner type", h)
	}
	return ty, nil
}

// TypeInner returns the inner type behind h.
func (e *Emitter) TypeInner(h ir.TypeHandle) (ir.TypeInner, error) {
	ty, err := e.Type(h)
	if err != nil {
		return nil, err
	}
	return ty.Inner, nil
}

// Intern returns a handle for an inline type.
func (e *Emitter) Intern(inner ir.TypeInner) ir.TypeHandle {
	return e.types.GetOrCreate("", inner)
}

// Function returns the function being emitted, or nil at module scope.
func (e *Emitter) Function() *ir.Function {
	if e.fn == nil {
		return nil
	}
	return e.fn.fn
}

// FunctionHandle returns the handle of the function being emitted.
func (e *Emitter) FunctionHandle() ir.FunctionHandle {
	if e.fn == nil {
		return 0
	}
	return e.fn.handle
}

// Expression returns an expression of the current function.
func (e *Emitter) Expression(h ir.ExpressionHandle) (ir.ExpressionKind, error) {
	if e.fn == nil {
		return nil, fmt.Errorf("expression %d outside of a function", h)
	}
	if int(h) >= len(e.fn.fn.Expressions) {
		return nil, fmt.Errorf("expression %d out of range (max %d)", h, len(e.fn.fn.Expressions))
	}
	kind := e.fn.fn.Expressions[h].Kind
	if kind == nil {
		return nil, fmt.Errorf("expression %d has nil kind", h)
	}
	return kind, nil
}

// ExprType returns the resolved type of an expression of the current function.
func (e *Emitter) ExprType(h ir.ExpressionHandle) (ir.TypeResolution, error) {
	if e.fn == nil {
		return ir.TypeResolution{}, fmt.Errorf("expression %d outside of a function", h)
	}
	if int(h) >= len(e.fn.exprTypes) {
		return ir.TypeResolution{}, fmt.Errorf("expression %d out of range", h)
	}
	if cached := e.fn.exprTypes[h]; cached != nil {
		return *cached, nil
	}
	var res ir.TypeResolution
	if types := e.fn.fn.ExpressionTypes; len(types) == len(e.fn.fn.Expressions) && (types[h].Handle != nil || types[h].Value != nil) {
		res = types[h]
	} else {
		var err error
		res, err = e.resolver.Resolve(e.fn.fn, h)
		if err != nil {
			return ir.TypeResolution{}, err
		}
	}
	e.fn.exprTypes[h] = &res
	return res, nil
}

// ExprInner returns the inner type of an expression.
func (e *Emitter) ExprInner(h ir.ExpressionHandle) (ir.TypeInner, error) {
	res, err := e.ExprType(h)
	if err != nil {
		return nil, err
	}
	if res.Handle != nil {
		return e.TypeInner(*res.Handle)
	}
	return res.Value, nil
}

// ExprTypeHandle returns a type handle for the type of an expression,
// interning inline types.
func (e *Emitter) ExprTypeHandle(h ir.ExpressionHandle) (ir.TypeHandle, error) {
	res, err := e.ExprType(h)
	if err != nil {
		return 0, err
	}
	if res.Handle != nil {
		return *res.Handle, nil
	}
	return e.Intern(res.Value), nil
}
