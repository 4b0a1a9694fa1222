package ir

import (
	"fmt"
)

// ValidationError represents a validation error.
type ValidationError struct {
	Message string
	// Optional context
	Function   string
	Expression *ExpressionHandle
	Statement  int
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Function != "" {
		if e.Expression != nil {
			return fmt.Sprintf("in function %s, expression %d: %s", e.Function, *e.Expression, e.Message)
		}
		if e.Statement >= 0 {
			return fmt.Sprintf("in function %s, statement %d: %s", e.Function, e.Statement, e.Message)
		}
		return fmt.Sprintf("in function %s: %s", e.Function, e.Message)
	}
	return e.Message
}

// Validator checks the structural integrity of IR modules.
//
// It checks handles, names, layouts and control flow shape. Whether a type is
// representable on a given target is the backend's concern, not the validator's.
type Validator struct {
	module  *Module
	errors  []ValidationError
	context validationContext
}

// validationContext holds current validation context.
type validationContext struct {
	function     *Function
	functionName string
	loopDepth    int
	switchDepth  int
	inContinuing bool
}

// Validate checks the IR module for correctness.
// Returns validation errors if any, or nil if module is valid.
func Validate(module *Module) ([]ValidationError, error) {
	if module == nil {
		return nil, fmt.Errorf("module is nil")
	}

	v := &Validator{
		module: module,
		errors: make([]ValidationError, 0),
	}

	v.ValidateModule()

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

// ValidateModule validates the complete module.
func (v *Validator) ValidateModule() {
	v.validateTypes()
	v.validateConstants()
	v.validateGlobalVariables()
	v.validateFunctions()
	v.validateEntryPoints()
}

func (v *Validator) validateTypes() {
	for i, typ := range v.module.Types {
		v.validateType(TypeHandle(i), &typ)
	}
}

//nolint:gocognit,gocyclo,cyclop // Type validation requires checking many type variants
func (v *Validator) validateType(handle TypeHandle, typ *Type) {
	if typ.Inner == nil {
		v.addError(fmt.Sprintf("type %d has nil inner type", handle))
		return
	}

	switch inner := typ.Inner.(type) {
	case ScalarType:
		v.validateScalar(handle, inner)

	case VectorType:
		if inner.Size < Vec1 || inner.Size > Vec4 {
			v.addError(fmt.Sprintf("type %d: vector size must be 1 to 4, got %d", handle, inner.Size))
		}
		v.validateScalar(handle, inner.Scalar)

	case MatrixType:
		if inner.Columns < Vec1 || inner.Columns > Vec4 {
			v.addError(fmt.Sprintf("type %d: matrix columns must be 1 to 4, got %d", handle, inner.Columns))
		}
		if inner.Rows < Vec1 || inner.Rows > Vec4 {
			v.addError(fmt.Sprintf("type %d: matrix rows must be 1 to 4, got %d", handle, inner.Rows))
		}
		if inner.Scalar.Kind != ScalarFloat {
			v.addError(fmt.Sprintf("type %d: matrix scalar must be float, got kind %d", handle, inner.Scalar.Kind))
		}

	case ArrayType:
		if !v.isValidTypeHandle(inner.Base) {
			v.addError(fmt.Sprintf("type %d: array base type %d does not exist", handle, inner.Base))
		}
		if inner.Base == handle {
			v.addError(fmt.Sprintf("type %d: array has circular reference to itself", handle))
		}
		if inner.Size.Constant != nil && *inner.Size.Constant == 0 {
			v.addError(fmt.Sprintf("type %d: array size must be positive", handle))
		}

	case StructType:
		memberNames := make(map[string]bool)
		for j, member := range inner.Members {
			if member.Name == "" {
				v.addError(fmt.Sprintf("type %d: struct member %d has empty name", handle, j))
			}
			if memberNames[member.Name] {
				v.addError(fmt.Sprintf("type %d: duplicate struct member name %q", handle, member.Name))
			}
			memberNames[member.Name] = true

			if !v.isValidTypeHandle(member.Type) {
				v.addError(fmt.Sprintf("type %d: struct member %q type %d does not exist", handle, member.Name, member.Type))
			}
			if member.Type == handle {
				v.addError(fmt.Sprintf("type %d: struct member %q has circular reference", handle, member.Name))
			}
		}
		if typ.Name == "" {
			v.addError(fmt.Sprintf("type %d: struct must be named", handle))
		}

	case PointerType:
		if !v.isValidTypeHandle(inner.Base) {
			v.addError(fmt.Sprintf("type %d: pointer base type %d does not exist", handle, inner.Base))
		}

	case StructuredBufferType:
		if !v.isValidTypeHandle(inner.Base) {
			v.addError(fmt.Sprintf("type %d: buffer element type %d does not exist", handle, inner.Base))
		}

	case AtomicType:
		if !inner.Scalar.IsInteger() {
			v.addError(fmt.Sprintf("type %d: atomic scalar must be an integer", handle))
		}

	case VoidType, SamplerType:
	}
}

func (v *Validator) validateScalar(handle TypeHandle, s ScalarType) {
	switch s.Width {
	case 1, 2, 4, 8:
	case WidthPointer:
		if !s.IsInteger() {
			v.addError(fmt.Sprintf("type %d: only integers may be pointer-sized", handle))
		}
	default:
		v.addError(fmt.Sprintf("type %d: scalar width must be 1, 2, 4, or 8 bytes, got %d", handle, s.Width))
	}
}

func (v *Validator) validateConstants() {
	for i, c := range v.module.Constants {
		if !v.isValidTypeHandle(c.Type) {
			v.addError(fmt.Sprintf("constant %d (%s): type %d does not exist", i, c.Name, c.Type))
		}
		if comp, ok := c.Value.(CompositeValue); ok {
			for _, h := range comp.Components {
				if int(h) >= i {
					v.addError(fmt.Sprintf("constant %d (%s): component %d must precede it", i, c.Name, h))
				}
			}
		}
	}
}

// isBindingKind reports whether kind is rendered as a binding/group pair.
func isBindingKind(kind ResourceKind) bool {
	switch kind {
	case ResourceVaryingInput, ResourceVaryingOutput, ResourceSpecializationConstant:
		return false
	default:
		return true
	}
}

func (v *Validator) validateGlobalVariables() {
	bindings := make(map[string]string) // group:binding -> global name
	names := make(map[string]bool)

	for i, gv := range v.module.GlobalVariables {
		if gv.Name != "" {
			if names[gv.Name] {
				v.addError(fmt.Sprintf("duplicate global variable name %q", gv.Name))
			}
			names[gv.Name] = true
		}

		if !v.isValidTypeHandle(gv.Type) {
			v.addError(fmt.Sprintf("global variable %d (%s): type %d does not exist", i, gv.Name, gv.Type))
		}

		for _, lo := range gv.Layout {
			if !isBindingKind(lo.Kind) {
				continue
			}
			key := fmt.Sprintf("%d:%d", lo.Space, lo.Offset)
			if other, ok := bindings[key]; ok && other != gv.Name {
				v.addError(fmt.Sprintf("global variable %q: @binding(%d) @group(%d) already used by %q",
					gv.Name, lo.Offset, lo.Space, other))
			}
			bindings[key] = gv.Name
			// Only the first binding entry is rendered.
			break
		}

		if gv.Init != nil {
			if !v.isValidConstantHandle(*gv.Init) {
				v.addError(fmt.Sprintf("global variable %q: init constant %d does not exist", gv.Name, *gv.Init))
			}
		}
	}
}

func (v *Validator) validateFunctions() {
	names := make(map[string]bool)

	for i := range v.module.Functions {
		fn := &v.module.Functions[i]
		if fn.Name != "" {
			if names[fn.Name] {
				v.addError(fmt.Sprintf("duplicate function name %q", fn.Name))
			}
			names[fn.Name] = true
		}

		v.context = validationContext{
			function:     fn,
			functionName: fn.Name,
		}

		v.validateFunction(fn)
	}
	v.context = validationContext{}
}

func (v *Validator) validateFunction(fn *Function) {
	for i, arg := range fn.Arguments {
		if !v.isValidTypeHandle(arg.Type) {
			v.addErrorInFunction(fmt.Sprintf("argument %d (%s): type %d does not exist", i, arg.Name, arg.Type))
		}
	}

	if fn.Result != nil {
		if !v.isValidTypeHandle(fn.Result.Type) {
			v.addErrorInFunction(fmt.Sprintf("result type %d does not exist", fn.Result.Type))
		}
	}

	for i, lv := range fn.LocalVars {
		if !v.isValidTypeHandle(lv.Type) {
			v.addErrorInFunction(fmt.Sprintf("local variable %d (%s): type %d does not exist", i, lv.Name, lv.Type))
		}
		if lv.Init != nil {
			if !v.isValidExpressionHandle(*lv.Init) {
				v.addErrorInFunction(fmt.Sprintf("local variable %q: init expression %d does not exist", lv.Name, *lv.Init))
			}
		}
	}

	if len(fn.ExpressionTypes) != 0 && len(fn.ExpressionTypes) != len(fn.Expressions) {
		v.addErrorInFunction(fmt.Sprintf("expression types length %d does not match %d expressions",
			len(fn.ExpressionTypes), len(fn.Expressions)))
	}

	for i, expr := range fn.Expressions {
		v.validateExpression(ExpressionHandle(i), &expr)
	}

	v.validateBlock(fn.Body)
}

//nolint:gocognit,gocyclo,cyclop,funlen // Expression validation requires checking many expression variants
func (v *Validator) validateExpression(handle ExpressionHandle, expr *Expression) {
	if expr.Kind == nil {
		v.addErrorInExpression(handle, "expression has nil kind")
		return
	}

	// Operands must precede their users.
	operand := func(what string, h ExpressionHandle) {
		if !v.isValidExpressionHandle(h) {
			v.addErrorInExpression(handle, fmt.Sprintf("%s expression %d does not exist", what, h))
		} else if h >= handle {
			v.addErrorInExpression(handle, fmt.Sprintf("%s expression %d does not precede its user", what, h))
		}
	}
	typ := func(h TypeHandle) {
		if !v.isValidTypeHandle(h) {
			v.addErrorInExpression(handle, fmt.Sprintf("type %d does not exist", h))
		}
	}

	switch kind := expr.Kind.(type) {
	case Literal:
		if kind.Value == nil {
			v.addErrorInExpression(handle, "literal has no value")
		}

	case ExprConstant:
		if !v.isValidConstantHandle(kind.Constant) {
			v.addErrorInExpression(handle, fmt.Sprintf("constant %d does not exist", kind.Constant))
		}

	case ExprZeroValue:
		typ(kind.Type)

	case ExprCompose:
		typ(kind.Type)
		for _, c := range kind.Components {
			operand("component", c)
		}

	case ExprArraySplat:
		typ(kind.Type)
		operand("value", kind.Value)
		if v.isValidTypeHandle(kind.Type) {
			arr, ok := v.module.Types[kind.Type].Inner.(ArrayType)
			if !ok || arr.Size.Constant == nil {
				v.addErrorInExpression(handle, "array splat needs a fixed-size array type")
			}
		}

	case ExprConvert:
		typ(kind.Type)
		operand("value", kind.Expr)

	case ExprBitcast:
		typ(kind.Type)
		operand("value", kind.Expr)

	case ExprAccess:
		operand("base", kind.Base)
		operand("index", kind.Index)

	case ExprAccessIndex:
		operand("base", kind.Base)

	case ExprSplat:
		if kind.Size < Vec1 || kind.Size > Vec4 {
			v.addErrorInExpression(handle, fmt.Sprintf("splat size must be 1 to 4, got %d", kind.Size))
		}
		operand("value", kind.Value)

	case ExprSwizzle:
		if kind.Size < Vec1 || kind.Size > Vec4 {
			v.addErrorInExpression(handle, fmt.Sprintf("swizzle size must be 1 to 4, got %d", kind.Size))
		}
		operand("vector", kind.Vector)

	case ExprFunctionArgument:
		if int(kind.Index) >= len(v.context.function.Arguments) {
			v.addErrorInExpression(handle, fmt.Sprintf("argument %d does not exist", kind.Index))
		}

	case ExprGlobalVariable:
		if !v.isValidGlobalVariableHandle(kind.Variable) {
			v.addErrorInExpression(handle, fmt.Sprintf("global variable %d does not exist", kind.Variable))
		}

	case ExprLocalVariable:
		if int(kind.Variable) >= len(v.context.function.LocalVars) {
			v.addErrorInExpression(handle, fmt.Sprintf("local variable %d does not exist", kind.Variable))
		}

	case ExprLoad:
		operand("pointer", kind.Pointer)

	case ExprBufferLoad:
		operand("buffer", kind.Buffer)
		operand("index", kind.Index)

	case ExprUnary:
		operand("operand", kind.Expr)

	case ExprBinary:
		operand("left", kind.Left)
		operand("right", kind.Right)

	case ExprSelect:
		operand("condition", kind.Condition)
		operand("accept", kind.Accept)
		operand("reject", kind.Reject)

	case ExprMath:
		operand("argument", kind.Arg)
		args := 1
		if kind.Arg1 != nil {
			operand("argument", *kind.Arg1)
			args++
		}
		if kind.Arg2 != nil {
			operand("argument", *kind.Arg2)
			args++
		}
		if args != kind.Fun.Arity() {
			v.addErrorInExpression(handle, fmt.Sprintf("math function takes %d arguments, got %d", kind.Fun.Arity(), args))
		}

	case ExprCallResult:
		if !v.isValidFunctionHandle(kind.Function) {
			v.addErrorInExpression(handle, fmt.Sprintf("function %d does not exist", kind.Function))
		}

	case ExprArrayLength:
		operand("array", kind.Array)
	}
}

func (v *Validator) validateBlock(block Block) {
	for i, stmt := range block {
		v.validateStatement(i, &stmt)
	}
}

//nolint:gocognit,gocyclo,cyclop,funlen // Statement validation requires checking many statement variants
func (v *Validator) validateStatement(index int, stmt *Statement) {
	if stmt.Kind == nil {
		v.addErrorInStatement(index, "statement has nil kind")
		return
	}

	switch kind := stmt.Kind.(type) {
	case StmtEmit:
		exprCount := ExpressionHandle(len(v.context.function.Expressions))
		if kind.Range.Start >= exprCount {
			v.addErrorInStatement(index, fmt.Sprintf("emit range start %d out of range", kind.Range.Start))
		}
		if kind.Range.End > exprCount {
			v.addErrorInStatement(index, fmt.Sprintf("emit range end %d out of range", kind.Range.End))
		}
		if kind.Range.Start >= kind.Range.End {
			v.addErrorInStatement(index, fmt.Sprintf("emit range start %d >= end %d", kind.Range.Start, kind.Range.End))
		}

	case StmtBlock:
		v.validateBlock(kind.Block)

	case StmtIf:
		if !v.isValidExpressionHandle(kind.Condition) {
			v.addErrorInStatement(index, fmt.Sprintf("condition expression %d does not exist", kind.Condition))
		}
		v.validateBlock(kind.Accept)
		v.validateBlock(kind.Reject)

	case StmtSwitch:
		if !v.isValidExpressionHandle(kind.Selector) {
			v.addErrorInStatement(index, fmt.Sprintf("selector expression %d does not exist", kind.Selector))
		}
		defaults := 0
		seen := make(map[SwitchValue]bool)
		v.context.switchDepth++
		for _, c := range kind.Cases {
			if c.Default {
				defaults++
			}
			if len(c.Values) == 0 && !c.Default {
				v.addErrorInStatement(index, "switch case has no values")
			}
			for _, value := range c.Values {
				if seen[value] {
					v.addErrorInStatement(index, fmt.Sprintf("duplicate switch case value %v", value))
				}
				seen[value] = true
				if cv, ok := value.(SwitchValueConstant); ok && !v.isValidConstantHandle(cv.Constant) {
					v.addErrorInStatement(index, fmt.Sprintf("case constant %d does not exist", cv.Constant))
				}
			}
			v.validateBlock(c.Body)
		}
		v.context.switchDepth--
		// A missing default is supplied by backends that require one.
		if defaults > 1 {
			v.addErrorInStatement(index, fmt.Sprintf("switch has %d default cases", defaults))
		}

	case StmtLoop:
		oldDepth := v.context.loopDepth
		v.context.loopDepth++

		v.validateBlock(kind.Body)

		oldContinuing := v.context.inContinuing
		v.context.inContinuing = true
		v.validateBlock(kind.Continuing)
		v.context.inContinuing = oldContinuing

		if kind.BreakIf != nil {
			if !v.isValidExpressionHandle(*kind.BreakIf) {
				v.addErrorInStatement(index, fmt.Sprintf("break-if expression %d does not exist", *kind.BreakIf))
			}
		}

		v.context.loopDepth = oldDepth

	case StmtBreak:
		if v.context.loopDepth == 0 && v.context.switchDepth == 0 {
			v.addErrorInStatement(index, "break outside of loop or switch")
		}

	case StmtContinue:
		if v.context.loopDepth == 0 {
			v.addErrorInStatement(index, "continue outside of loop")
		}
		if v.context.inContinuing {
			v.addErrorInStatement(index, "continue inside continuing block")
		}

	case StmtReturn:
		if kind.Value != nil {
			if !v.isValidExpressionHandle(*kind.Value) {
				v.addErrorInStatement(index, fmt.Sprintf("return value expression %d does not exist", *kind.Value))
			}
			if v.context.function.Result == nil {
				v.addErrorInStatement(index, "return with value in void function")
			}
		} else if v.context.function.Result != nil {
			v.addErrorInStatement(index, "return without value in non-void function")
		}

	case StmtStore:
		if !v.isValidExpressionHandle(kind.Pointer) {
			v.addErrorInStatement(index, fmt.Sprintf("store pointer expression %d does not exist", kind.Pointer))
		}
		if !v.isValidExpressionHandle(kind.Value) {
			v.addErrorInStatement(index, fmt.Sprintf("store value expression %d does not exist", kind.Value))
		}

	case StmtCall:
		if !v.isValidFunctionHandle(kind.Function) {
			v.addErrorInStatement(index, fmt.Sprintf("function %d does not exist", kind.Function))
			return
		}
		callee := &v.module.Functions[kind.Function]
		if len(kind.Arguments) != len(callee.Arguments) {
			v.addErrorInStatement(index, fmt.Sprintf("call to %q passes %d arguments, want %d",
				callee.Name, len(kind.Arguments), len(callee.Arguments)))
		}
		for _, arg := range kind.Arguments {
			if !v.isValidExpressionHandle(arg) {
				v.addErrorInStatement(index, fmt.Sprintf("argument expression %d does not exist", arg))
			}
		}
		if kind.Result != nil && !v.isValidExpressionHandle(*kind.Result) {
			v.addErrorInStatement(index, fmt.Sprintf("result expression %d does not exist", *kind.Result))
		}

	case StmtKill, StmtBarrier:
	}
}

func (v *Validator) validateEntryPoints() {
	names := make(map[string]bool)

	for i, ep := range v.module.EntryPoints {
		if ep.Name == "" {
			v.addError(fmt.Sprintf("entry point %d has empty name", i))
		}
		if names[ep.Name] {
			v.addError(fmt.Sprintf("duplicate entry point name %q", ep.Name))
		}
		names[ep.Name] = true

		if !v.isValidFunctionHandle(ep.Function) {
			v.addError(fmt.Sprintf("entry point %q: function %d does not exist", ep.Name, ep.Function))
			continue
		}

		fn := &v.module.Functions[ep.Function]

		switch ep.Stage {
		case StageVertex:
			// Position can be returned directly or as a struct member.
			if fn.Result == nil {
				v.addError(fmt.Sprintf("entry point %q (@vertex): must have a return value", ep.Name))
			} else if !v.hasPositionBuiltin(fn.Result) {
				v.addError(fmt.Sprintf("entry point %q (@vertex): must return @builtin(position)", ep.Name))
			}

		case StageCompute:
			if ep.Workgroup[0] == 0 || ep.Workgroup[1] == 0 || ep.Workgroup[2] == 0 {
				v.addError(fmt.Sprintf("entry point %q (@compute): workgroup size must be non-zero", ep.Name))
			}
		}
	}
}

// hasPositionBuiltin checks if the function result contains @builtin(position).
func (v *Validator) hasPositionBuiltin(result *FunctionResult) bool {
	if isPositionBuiltin(result.Binding) {
		return true
	}
	if int(result.Type) >= len(v.module.Types) {
		return false
	}
	structType, ok := v.module.Types[result.Type].Inner.(StructType)
	if !ok {
		return false
	}
	for _, member := range structType.Members {
		if isPositionBuiltin(member.Binding) {
			return true
		}
	}
	return false
}

func isPositionBuiltin(binding Binding) bool {
	b, ok := binding.(BuiltinBinding)
	return ok && b.Builtin == BuiltinPosition
}

// Helper methods for validation

func (v *Validator) isValidTypeHandle(handle TypeHandle) bool {
	return int(handle) < len(v.module.Types)
}

func (v *Validator) isValidConstantHandle(handle ConstantHandle) bool {
	return int(handle) < len(v.module.Constants)
}

func (v *Validator) isValidGlobalVariableHandle(handle GlobalVariableHandle) bool {
	return int(handle) < len(v.module.GlobalVariables)
}

func (v *Validator) isValidFunctionHandle(handle FunctionHandle) bool {
	return int(handle) < len(v.module.Functions)
}

func (v *Validator) isValidExpressionHandle(handle ExpressionHandle) bool {
	if v.context.function == nil {
		return false
	}
	return int(handle) < len(v.context.function.Expressions)
}

func (v *Validator) addError(msg string) {
	v.errors = append(v.errors, ValidationError{
		Message:   msg,
		Statement: -1,
	})
}

func (v *Validator) addErrorInFunction(msg string) {
	v.errors = append(v.errors, ValidationError{
		Message:   msg,
		Function:  v.context.functionName,
		Statement: -1,
	})
}

func (v *Validator) addErrorInExpression(handle ExpressionHandle, msg string) {
	v.errors = append(v.errors, ValidationError{
		Message:    msg,
		Function:   v.context.functionName,
		Expression: &handle,
		Statement:  -1,
	})
}

func (v *Validator) addErrorInStatement(index int, msg string) {
	v.errors = append(v.errors, ValidationError{
		Message:   msg,
		Function:  v.context.functionName,
		Statement: index,
	})
}
