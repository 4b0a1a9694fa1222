package syntax

import "strings"

// Module is a parsed WGSL translation unit.
type Module struct {
	Enables   []string
	Structs   []*StructDecl
	Constants []*ConstDecl
	Overrides []*OverrideDecl
	Globals   []*VarDecl
	Aliases   []*AliasDecl
	Functions []*FunctionDecl
}

// Struct returns the struct declared as name, or nil.
func (m *Module) Struct(name string) *StructDecl {
	for _, s := range m.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Function returns the function declared as name, or nil.
func (m *Module) Function(name string) *FunctionDecl {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Global returns the module-scope variable declared as name, or nil.
func (m *Module) Global(name string) *VarDecl {
	for _, v := range m.Globals {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Attribute is an attribute such as @location(0). Arguments are kept as
// source text.
type Attribute struct {
	Name string
	Args []string
	Pos  Position
}

// String returns the attribute in source form.
func (a Attribute) String() string {
	if a.Args == nil {
		return "@" + a.Name
	}
	return "@" + a.Name + "(" + strings.Join(a.Args, ", ") + ")"
}

// Type is a type specifier: a name with an optional template list. Template
// arguments that are not types (array sizes, access modes) are kept as
// names, with Value holding a literal size.
type Type struct {
	Name  string
	Args  []*Type
	Value string
	Pos   Position
}

// String returns the canonical spelling of the type.
func (t *Type) String() string {
	if t.Value != "" {
		return t.Value
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

// StructDecl represents a struct declaration.
type StructDecl struct {
	Name    string
	Members []*StructMember
	Pos     Position
}

// StructMember represents a struct member.
type StructMember struct {
	Name       string
	Type       *Type
	Attributes []Attribute
	Pos        Position
}

// ConstDecl is a const or let declaration.
type ConstDecl struct {
	Name string
	Type *Type // nil when inferred
	Init Expr
	Pos  Position
}

// OverrideDecl is a pipeline-overridable constant.
type OverrideDecl struct {
	Name       string
	Type       *Type
	Init       Expr
	Attributes []Attribute
	Pos        Position
}

// VarDecl is a var declaration at module or function scope.
type VarDecl struct {
	Name         string
	Type         *Type
	Init         Expr
	AddressSpace string
	AccessMode   string
	Attributes   []Attribute
	Pos          Position
}

// AliasDecl represents a type alias declaration.
type AliasDecl struct {
	Name string
	Type *Type
	Pos  Position
}

// FunctionDecl represents a function declaration.
type FunctionDecl struct {
	Name        string
	Params      []*Parameter
	ReturnType  *Type // nil for no result
	ReturnAttrs []Attribute
	Attributes  []Attribute
	Body        *BlockStmt
	Pos         Position
}

// Parameter represents a function parameter.
type Parameter struct {
	Name       string
	Type       *Type
	Attributes []Attribute
	Pos        Position
}

// Stmt is a statement.
type Stmt interface {
	stmtNode()
}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	Statements []Stmt
}

// LetStmt is a function-scope const or let declaration.
type LetStmt struct {
	Const bool
	Decl  *ConstDecl
}

// VarStmt is a function-scope var declaration.
type VarStmt struct {
	Decl *VarDecl
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	Value Expr // nil for a bare return
}

// IfStmt represents if/else. Else is a *BlockStmt, an *IfStmt or nil.
type IfStmt struct {
	Condition Expr
	Body      *BlockStmt
	Else      Stmt
}

// SwitchStmt represents a switch statement.
type SwitchStmt struct {
	Selector Expr
	Clauses  []*SwitchClause
}

// SwitchClause is one case or default clause. A nil selector in
// Selectors stands for default.
type SwitchClause struct {
	Selectors []Expr
	Body      *BlockStmt
}

// HasDefault reports whether the clause handles the default case.
func (c *SwitchClause) HasDefault() bool {
	for _, s := range c.Selectors {
		if s == nil {
			return true
		}
	}
	return false
}

// LoopStmt represents loop { ... continuing { ... break if c; } }.
type LoopStmt struct {
	Body       *BlockStmt
	Continuing *BlockStmt // nil when absent
	BreakIf    Expr       // nil when absent
}

// ForStmt represents a for loop.
type ForStmt struct {
	Init      Stmt
	Condition Expr
	Update    Stmt
	Body      *BlockStmt
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Condition Expr
	Body      *BlockStmt
}

// BreakStmt represents break.
type BreakStmt struct{}

// ContinueStmt represents continue.
type ContinueStmt struct{}

// DiscardStmt represents discard.
type DiscardStmt struct{}

// AssignStmt is an assignment, compound assignment, increment or
// decrement. Value is nil for increments and decrements.
type AssignStmt struct {
	Op     TokenKind
	Target Expr // nil for the phony assignment _ = e
	Value  Expr
}

// CallStmt is a function call evaluated for its effects.
type CallStmt struct {
	Call *CallExpr
}

func (*BlockStmt) stmtNode()    {}
func (*LetStmt) stmtNode()      {}
func (*VarStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*SwitchStmt) stmtNode()   {}
func (*LoopStmt) stmtNode()     {}
func (*ForStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*DiscardStmt) stmtNode()  {}
func (*AssignStmt) stmtNode()   {}
func (*CallStmt) stmtNode()     {}

// Expr is an expression.
type Expr interface {
	exprNode()
}

// Ident is a name reference.
type Ident struct {
	Name string
	Pos  Position
}

// Literal is a numeric or boolean literal in source form.
type Literal struct {
	Kind  TokenKind // TokenIntLiteral, TokenFloatLiteral, TokenTrue or TokenFalse
	Value string
	Pos   Position
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Expr Expr
}

// UnaryExpr is a prefix operator applied to an operand.
type UnaryExpr struct {
	Op      TokenKind
	Operand Expr
}

// BinaryExpr is an infix operator.
type BinaryExpr struct {
	Op    TokenKind
	Left  Expr
	Right Expr
}

// CallExpr is a call of a function, builtin or type constructor. Template
// is set for templated callees such as vec4<f32> or bitcast<u32>.
type CallExpr struct {
	Callee   string
	Template []*Type
	Args     []Expr
	Pos      Position
}

// IndexExpr is base[index].
type IndexExpr struct {
	Base  Expr
	Index Expr
}

// MemberExpr is base.member, swizzles included.
type MemberExpr struct {
	Base   Expr
	Member string
}

func (*Ident) exprNode()      {}
func (*Literal) exprNode()    {}
func (*ParenExpr) exprNode()  {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CallExpr) exprNode()   {}
func (*IndexExpr) exprNode()  {}
func (*MemberExpr) exprNode() {}
