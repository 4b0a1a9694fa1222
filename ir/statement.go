package ir

// Statement represents a statement in the IR.
type Statement struct {
	Kind StatementKind
}

// StatementKind represents the kind of statement.
type StatementKind interface {
	statementKind()
}

// Block is a sequence of statements.
type Block []Statement

// Range is a half-open range of expression handles.
type Range struct {
	Start ExpressionHandle
	End   ExpressionHandle // Exclusive
}

// StmtEmit marks the point where the expressions in Range are evaluated.
type StmtEmit struct {
	Range Range
}

func (StmtEmit) statementKind() {}

// StmtBlock is a nested block.
type StmtBlock struct {
	Block Block
}

func (StmtBlock) statementKind() {}

// StmtIf is a conditional.
type StmtIf struct {
	Condition ExpressionHandle // Must be a bool expression
	Accept    Block
	Reject    Block
}

func (StmtIf) statementKind() {}

// StmtSwitch is a multi-way branch over an integer selector.
type StmtSwitch struct {
	Selector ExpressionHandle
	Cases    []SwitchCase
}

func (StmtSwitch) statementKind() {}

// SwitchCase is one block of a switch together with every value that selects it.
type SwitchCase struct {
	Values  []SwitchValue
	Default bool // The block also handles the default case
	Body    Block
}

// SwitchValue represents a case label value.
type SwitchValue interface {
	switchValue()
}

// SwitchValueI32 is a signed 32-bit integer literal label.
type SwitchValueI32 int32

func (SwitchValueI32) switchValue() {}

// SwitchValueU32 is an unsigned 32-bit integer literal label.
type SwitchValueU32 uint32

func (SwitchValueU32) switchValue() {}

// SwitchValueConstant is a label naming a module constant.
type SwitchValueConstant struct {
	Constant ConstantHandle
}

func (SwitchValueConstant) switchValue() {}

// StmtLoop is an infinite loop with an optional continuing block.
type StmtLoop struct {
	Body       Block
	Continuing Block
	BreakIf    *ExpressionHandle // Optional break-if expression evaluated after continuing
}

func (StmtLoop) statementKind() {}

// StmtBreak exits the innermost loop or switch.
type StmtBreak struct{}

func (StmtBreak) statementKind() {}

// StmtContinue skips to the continuing block of the innermost loop.
type StmtContinue struct{}

func (StmtContinue) statementKind() {}

// StmtReturn returns from the current function.
type StmtReturn struct {
	Value *ExpressionHandle
}

func (StmtReturn) statementKind() {}

// StmtKill discards the current fragment.
type StmtKill struct{}

func (StmtKill) statementKind() {}

// StmtBarrier synchronizes invocations of a workgroup.
type StmtBarrier struct {
	Flags BarrierFlags
}

func (StmtBarrier) statementKind() {}

// BarrierFlags select the memory a barrier orders.
type BarrierFlags uint32

const (
	BarrierStorage   BarrierFlags = 1 << 0
	BarrierWorkGroup BarrierFlags = 1 << 1
)

// StmtStore writes Value through Pointer.
type StmtStore struct {
	Pointer ExpressionHandle
	Value   ExpressionHandle
}

func (StmtStore) statementKind() {}

// StmtCall calls a function. Result, when set, is an ExprCallResult.
type StmtCall struct {
	Function  FunctionHandle
	Arguments []ExpressionHandle
	Result    *ExpressionHandle
}

func (StmtCall) statementKind() {}
