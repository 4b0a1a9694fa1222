package emit

import "github.com/gogpu/wgslgen/ir"

// VarKind is the role of a declared variable.
type VarKind uint8

const (
	// VarLocal is a mutable function-scope variable.
	VarLocal VarKind = iota

	// VarLet is an immutable temporary holding an evaluated expression.
	VarLet

	// VarConst is a module-scope constant.
	VarConst

	// VarGlobal is a module-scope variable or shader parameter.
	VarGlobal
)

// VarInfo describes a declaration for the variable keyword hook.
type VarInfo struct {
	Kind  VarKind
	Type  ir.TypeHandle
	Space ir.AddressSpace

	// Global is set for VarGlobal.
	Global *ir.GlobalVariable
}

// Target is the set of override points of a textual backend.
//
// Hooks write to the Emitter's Output. A target that has nothing special to do
// for a construct calls the matching Default method of its Emitter.
type Target interface {
	// EmitType writes a type, wrapping decl when it is not nil.
	EmitType(ty ir.TypeHandle, decl *Declarator) error

	// EmitSimpleType writes a type with no declarator.
	EmitSimpleType(ty ir.TypeHandle) error

	// EmitDeclarator writes decl. A nil declarator writes nothing.
	EmitDeclarator(decl *Declarator) error

	// EmitLiteral writes a literal value.
	EmitLiteral(value ir.LiteralValue) error

	// EmitConstantValue writes the value of a module constant.
	EmitConstantValue(c ir.ConstantHandle) error

	// TryEmitExpr fully renders an expression and reports true, or reports
	// false to fall back to the default rendering.
	TryEmitExpr(h ir.ExpressionHandle, ctx OpInfo) (bool, error)

	// EmitOperand writes an expression used as an operand of another one.
	EmitOperand(h ir.ExpressionHandle, ctx OpInfo) error

	// BinaryOpInfo returns the operator text and precedence of op.
	BinaryOpInfo(op ir.BinaryOperator) OpInfo

	// IsPointerSyntaxRequired reports whether a pointer-typed expression must
	// be dereferenced explicitly to reach its value.
	IsPointerSyntaxRequired(h ir.ExpressionHandle) bool

	// TryEmitStatement fully renders a statement and reports true, or reports
	// false to fall back to the default rendering.
	TryEmitStatement(stmt ir.StatementKind) (bool, error)

	// EmitFuncHeader writes a function signature, parameters included.
	EmitFuncHeader(fn ir.FunctionHandle, name string) error

	// EmitParam writes one parameter of fn.
	EmitParam(fn ir.FunctionHandle, index int) error

	// StructFieldAttributes returns the attributes of a struct member.
	StructFieldAttributes(ty ir.TypeHandle, member int) ([]string, error)

	// StructFieldSeparator terminates a struct member declaration.
	StructFieldSeparator() string

	// EmitGlobalParamType writes the name and type of a global.
	EmitGlobalParamType(global ir.GlobalVariableHandle) error

	// EmitLayoutAttributes writes the binding attributes of a global.
	EmitLayoutAttributes(global ir.GlobalVariableHandle) error

	// EmitVarKeyword writes the keyword that introduces a declaration.
	EmitVarKeyword(v VarInfo) error

	// EmitSwitchCaseLabels writes the label of one switch case group.
	EmitSwitchCaseLabels(selector ir.ExpressionHandle, c *ir.SwitchCase) error

	// EmitEntryPointAttributes writes the attributes preceding an entry point.
	EmitEntryPointAttributes(ep *ir.EntryPoint) error

	// EmitPrologue writes the prologue once the body is complete.
	EmitPrologue() error

	// Escape rewrites identifiers that collide with reserved words.
	Escape(name string) string

	// Unsupportedf returns the target's error for a construct it cannot render.
	Unsupportedf(format string, args ...any) error
}
