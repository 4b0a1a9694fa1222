package emit

import (
	"fmt"
	"strings"

	"github.com/gogpu/wgslgen/ir"
)

// cTarget is a minimal C-flavored target that relies on the defaults for
// everything but type names, literals and pointer arguments.
type cTarget struct {
	e *Emitter
}

var cKeywords = map[string]bool{
	"float": true, "int": true, "uint": true, "bool": true,
	"return": true, "void": true, "switch": true,
}

func newCTarget(module *ir.Module) (*cTarget, *Emitter) {
	t := &cTarget{}
	t.e = New(module, t)
	return t, t.e
}

func (t *cTarget) EmitType(ty ir.TypeHandle, decl *Declarator) error {
	return t.e.DefaultEmitType(ty, decl)
}

func (t *cTarget) EmitSimpleType(ty ir.TypeHandle) error {
	inner, err := t.e.TypeInner(ty)
	if err != nil {
		return err
	}
	switch v := inner.(type) {
	case ir.ScalarType:
		t.e.Out().Write(cScalarName(v))
	case ir.VectorType:
		t.e.Out().Writef("%s%d", cScalarName(v.Scalar), v.Size)
	case ir.MatrixType:
		t.e.Out().Writef("%s%dx%d", cScalarName(v.Scalar), v.Columns, v.Rows)
	case ir.StructType:
		t.e.Out().Write(t.e.TypeName(ty))
	default:
		return t.Unsupportedf("type %T", inner)
	}
	return nil
}

func cScalarName(s ir.ScalarType) string {
	switch s.Kind {
	case ir.ScalarSint:
		return "int"
	case ir.ScalarUint:
		return "uint"
	case ir.ScalarBool:
		return "bool"
	default:
		return "float"
	}
}

func (t *cTarget) EmitDeclarator(decl *Declarator) error {
	return t.e.DefaultEmitDeclarator(decl)
}

func (t *cTarget) EmitLiteral(value ir.LiteralValue) error {
	switch v := value.(type) {
	case ir.LiteralU32:
		t.e.Out().Writef("%du", uint32(v))
	case ir.LiteralBool:
		t.e.Out().Writef("%t", bool(v))
	default:
		t.e.Out().Writef("%v", v)
	}
	return nil
}

func (t *cTarget) EmitConstantValue(c ir.ConstantHandle) error {
	return t.e.DefaultEmitConstantValue(c)
}

func (t *cTarget) TryEmitExpr(ir.ExpressionHandle, OpInfo) (bool, error) {
	return false, nil
}

func (t *cTarget) EmitOperand(h ir.ExpressionHandle, ctx OpInfo) error {
	return t.e.DefaultEmitOperand(h, ctx)
}

func (t *cTarget) BinaryOpInfo(op ir.BinaryOperator) OpInfo {
	return CBinaryOpInfo(op)
}

// IsPointerSyntaxRequired treats pointer arguments as C pointers.
func (t *cTarget) IsPointerSyntaxRequired(h ir.ExpressionHandle) bool {
	kind, err := t.e.Expression(h)
	if err != nil {
		return false
	}
	if _, ok := kind.(ir.ExprFunctionArgument); !ok {
		return false
	}
	inner, err := t.e.ExprInner(h)
	if err != nil {
		return false
	}
	_, isPointer := inner.(ir.PointerType)
	return isPointer
}

func (t *cTarget) TryEmitStatement(ir.StatementKind) (bool, error) {
	return false, nil
}

func (t *cTarget) EmitFuncHeader(fn ir.FunctionHandle, name string) error {
	return t.e.DefaultEmitFuncHeader(fn, name)
}

func (t *cTarget) EmitParam(fn ir.FunctionHandle, index int) error {
	return t.e.DefaultEmitParam(fn, index)
}

func (t *cTarget) StructFieldAttributes(ty ir.TypeHandle, member int) ([]string, error) {
	inner, err := t.e.TypeInner(ty)
	if err != nil {
		return nil, err
	}
	if loc, ok := inner.(ir.StructType).Members[member].Binding.(ir.LocationBinding); ok {
		return []string{fmt.Sprintf(": TEXCOORD%d", loc.Location)}, nil
	}
	return nil, nil
}

func (t *cTarget) StructFieldSeparator() string {
	return ";"
}

func (t *cTarget) EmitGlobalParamType(global ir.GlobalVariableHandle) error {
	return t.e.DefaultEmitGlobalParamType(global)
}

func (t *cTarget) EmitLayoutAttributes(ir.GlobalVariableHandle) error {
	return nil
}

func (t *cTarget) EmitVarKeyword(v VarInfo) error {
	return t.e.DefaultEmitVarKeyword(v)
}

func (t *cTarget) EmitSwitchCaseLabels(selector ir.ExpressionHandle, c *ir.SwitchCase) error {
	return t.e.DefaultEmitSwitchCaseLabels(selector, c)
}

func (t *cTarget) EmitEntryPointAttributes(ep *ir.EntryPoint) error {
	t.e.Out().WriteLine("// %s", ep.Stage)
	return nil
}

func (t *cTarget) EmitPrologue() error {
	return nil
}

func (t *cTarget) Escape(name string) string {
	if cKeywords[name] || strings.HasPrefix(name, "__") {
		return "_" + name
	}
	return name
}

func (t *cTarget) Unsupportedf(format string, args ...any) error {
	return fmt.Errorf("c: unsupported "+format, args...)
}

// emitC renders module with the C target.
func emitC(module *ir.Module) (string, error) {
	_, e := newCTarget(module)
	return e.EmitModule()
}
