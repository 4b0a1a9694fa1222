package syntax

import "strings"

// Parser parses WGSL tokens into an AST. Parsing stops at the first error.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a new parser for the given tokens. The last token must
// be TokenEOF.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseModule parses a complete WGSL module.
func ParseModule(source string) (*Module, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// ParseType parses a single type specifier such as array<vec4<f32>, 4>.
func ParseType(source string) (*Type, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens)
	ty, perr := p.typeSpec()
	if perr != nil {
		return nil, perr
	}
	if !p.isAtEnd() {
		return nil, errorAt(p.peek(), "unexpected %s after type", p.peek().Kind)
	}
	return ty, nil
}

// ParseExpression parses a single expression.
func ParseExpression(source string) (Expr, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens)
	expr, perr := p.expression()
	if perr != nil {
		return nil, perr
	}
	if !p.isAtEnd() {
		return nil, errorAt(p.peek(), "unexpected %s after expression", p.peek().Kind)
	}
	return expr, nil
}

// Parse parses the tokens and returns a Module AST. Directives must precede
// declarations.
func (p *Parser) Parse() (*Module, error) {
	m := &Module{}
	declared := false
	for !p.isAtEnd() {
		switch p.peek().Kind {
		case TokenEnable, TokenRequires:
			if declared {
				return nil, errorAt(p.peek(), "%s directive after declarations", p.peek().Kind)
			}
			names, err := p.directive()
			if err != nil {
				return nil, err
			}
			m.Enables = append(m.Enables, names...)
		default:
			declared = true
			if err := p.declaration(m); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// directive parses "enable a, b;" or "requires a;". Only enabled
// extension names are returned.
func (p *Parser) directive() ([]string, *Error) {
	kind := p.advance().Kind
	var names []string
	for {
		name, err := p.expectIdent("extension name")
		if err != nil {
			return nil, err
		}
		names = append(names, name.Lexeme)
		if !p.match(TokenComma) || p.check(TokenSemicolon) {
			break
		}
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	if kind != TokenEnable {
		return nil, nil
	}
	return names, nil
}

// declaration parses one module-scope declaration into m.
func (p *Parser) declaration(m *Module) *Error {
	if p.match(TokenSemicolon) {
		return nil
	}
	attrs, err := p.attributes()
	if err != nil {
		return err
	}
	tok := p.peek()
	switch tok.Kind {
	case TokenFn:
		fn, err := p.functionDecl(attrs)
		if err != nil {
			return err
		}
		m.Functions = append(m.Functions, fn)
	case TokenVar:
		v, err := p.varDecl(attrs)
		if err != nil {
			return err
		}
		m.Globals = append(m.Globals, v)
	case TokenOverride:
		o, err := p.overrideDecl(attrs)
		if err != nil {
			return err
		}
		m.Overrides = append(m.Overrides, o)
	default:
		if len(attrs) > 0 {
			return errorAt(tok, "attributes before %s", tok.Kind)
		}
		switch tok.Kind {
		case TokenStruct:
			s, err := p.structDecl()
			if err != nil {
				return err
			}
			m.Structs = append(m.Structs, s)
		case TokenConst:
			c, err := p.constDecl()
			if err != nil {
				return err
			}
			m.Constants = append(m.Constants, c)
		case TokenAlias:
			a, err := p.aliasDecl()
			if err != nil {
				return err
			}
			m.Aliases = append(m.Aliases, a)
		case TokenConstAssert:
			p.advance()
			if _, err := p.expression(); err != nil {
				return err
			}
			return p.expectErr(TokenSemicolon)
		default:
			return errorAt(tok, "unexpected %s, expected declaration", tok.Kind)
		}
	}
	return nil
}

// attributes parses a list of attributes (@location(0), @vertex, ...).
// Arguments are kept as source text.
func (p *Parser) attributes() ([]Attribute, *Error) {
	var attrs []Attribute
	for p.match(TokenAt) {
		at := p.previous()
		name := p.advance()
		if name.Kind != TokenIdent && name.Kind != TokenConst {
			return nil, errorAt(name, "expected attribute name, got %s", name.Kind)
		}
		attr := Attribute{Name: name.Lexeme, Pos: at.Pos()}
		if p.match(TokenLeftParen) {
			attr.Args = []string{}
			for !p.check(TokenRightParen) {
				start := p.current
				if _, err := p.expression(); err != nil {
					return nil, err
				}
				attr.Args = append(attr.Args, p.text(start, p.current))
				if !p.match(TokenComma) {
					break
				}
			}
			if err := p.expectErr(TokenRightParen); err != nil {
				return nil, err
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (p *Parser) functionDecl(attrs []Attribute) (*FunctionDecl, *Error) {
	tok := p.advance() // fn
	name, err := p.expectIdent("function name")
	if err != nil {
		return nil, err
	}
	fn := &FunctionDecl{Name: name.Lexeme, Attributes: attrs, Pos: tok.Pos()}

	if err := p.expectErr(TokenLeftParen); err != nil {
		return nil, err
	}
	for !p.check(TokenRightParen) {
		param, err := p.parameter()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return nil, err
	}

	if p.match(TokenArrow) {
		if fn.ReturnAttrs, err = p.attributes(); err != nil {
			return nil, err
		}
		if fn.ReturnType, err = p.typeSpec(); err != nil {
			return nil, err
		}
	}

	if fn.Body, err = p.block(); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) parameter() (*Parameter, *Error) {
	attrs, err := p.attributes()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent("parameter name")
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenColon); err != nil {
		return nil, err
	}
	ty, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	return &Parameter{Name: name.Lexeme, Type: ty, Attributes: attrs, Pos: name.Pos()}, nil
}

func (p *Parser) structDecl() (*StructDecl, *Error) {
	tok := p.advance() // struct
	name, err := p.expectIdent("struct name")
	if err != nil {
		return nil, err
	}
	s := &StructDecl{Name: name.Lexeme, Pos: tok.Pos()}
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return nil, err
	}
	for !p.check(TokenRightBrace) {
		attrs, err := p.attributes()
		if err != nil {
			return nil, err
		}
		member, err := p.expectIdent("member name")
		if err != nil {
			return nil, err
		}
		if err := p.expectErr(TokenColon); err != nil {
			return nil, err
		}
		ty, err := p.typeSpec()
		if err != nil {
			return nil, err
		}
		s.Members = append(s.Members, &StructMember{Name: member.Lexeme, Type: ty, Attributes: attrs, Pos: member.Pos()})
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	if len(s.Members) == 0 {
		return nil, errorAt(name, "struct %s has no members", s.Name)
	}
	return s, nil
}

var addressSpaces = map[string]bool{
	"function": true, "private": true, "workgroup": true,
	"uniform": true, "storage": true, "push_constant": true,
}

var accessModes = map[string]bool{"read": true, "write": true, "read_write": true}

// varDecl parses a var declaration, terminator included.
func (p *Parser) varDecl(attrs []Attribute) (*VarDecl, *Error) {
	tok := p.advance() // var
	v := &VarDecl{Attributes: attrs, Pos: tok.Pos()}
	if p.match(TokenLess) {
		space, err := p.expectIdent("address space")
		if err != nil {
			return nil, err
		}
		if !addressSpaces[space.Lexeme] {
			return nil, errorAt(space, "unknown address space %s", space.Lexeme)
		}
		v.AddressSpace = space.Lexeme
		if p.match(TokenComma) {
			mode, err := p.expectIdent("access mode")
			if err != nil {
				return nil, err
			}
			if !accessModes[mode.Lexeme] {
				return nil, errorAt(mode, "unknown access mode %s", mode.Lexeme)
			}
			if v.AddressSpace != "storage" {
				return nil, errorAt(mode, "access mode in %s address space", v.AddressSpace)
			}
			v.AccessMode = mode.Lexeme
		}
		if err := p.closeTemplate(); err != nil {
			return nil, err
		}
	}

	name, err := p.expectIdent("variable name")
	if err != nil {
		return nil, err
	}
	v.Name = name.Lexeme
	if p.match(TokenColon) {
		if v.Type, err = p.typeSpec(); err != nil {
			return nil, err
		}
	}
	if p.match(TokenEqual) {
		if v.Init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if v.Type == nil && v.Init == nil {
		return nil, errorAt(name, "variable %s needs a type or an initializer", v.Name)
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *Parser) overrideDecl(attrs []Attribute) (*OverrideDecl, *Error) {
	tok := p.advance() // override
	name, err := p.expectIdent("override name")
	if err != nil {
		return nil, err
	}
	o := &OverrideDecl{Name: name.Lexeme, Attributes: attrs, Pos: tok.Pos()}
	if p.match(TokenColon) {
		if o.Type, err = p.typeSpec(); err != nil {
			return nil, err
		}
	}
	if p.match(TokenEqual) {
		if o.Init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if o.Type == nil && o.Init == nil {
		return nil, errorAt(name, "override %s needs a type or an initializer", o.Name)
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return o, nil
}

// constDecl parses "const name [: T] = init;" and, through letStmt, the
// function-scope let form.
func (p *Parser) constDecl() (*ConstDecl, *Error) {
	tok := p.advance() // const or let
	name, err := p.expectIdent("constant name")
	if err != nil {
		return nil, err
	}
	c := &ConstDecl{Name: name.Lexeme, Pos: tok.Pos()}
	if p.match(TokenColon) {
		if c.Type, err = p.typeSpec(); err != nil {
			return nil, err
		}
	}
	if err := p.expectErr(TokenEqual); err != nil {
		return nil, err
	}
	if c.Init, err = p.expression(); err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Parser) aliasDecl() (*AliasDecl, *Error) {
	tok := p.advance() // alias
	name, err := p.expectIdent("alias name")
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenEqual); err != nil {
		return nil, err
	}
	ty, err := p.typeSpec()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	return &AliasDecl{Name: name.Lexeme, Type: ty, Pos: tok.Pos()}, nil
}

// templated lists the predeclared names that take a template list.
var templated = map[string]int{
	"vec2": 1, "vec3": 1, "vec4": 1,
	"mat2x2": 1, "mat2x3": 1, "mat2x4": 1,
	"mat3x2": 1, "mat3x3": 1, "mat3x4": 1,
	"mat4x2": 1, "mat4x3": 1, "mat4x4": 1,
	"atomic": 1, "array": 2, "ptr": 3, "bitcast": 1,
}

var scalarTypes = map[string]bool{
	"bool": true, "i32": true, "u32": true, "f32": true, "f16": true,
	"i64": true, "u64": true,
}

// typeSpec parses a type specifier.
func (p *Parser) typeSpec() (*Type, *Error) {
	tok := p.peek()
	if tok.Kind != TokenIdent {
		return nil, errorAt(tok, "expected type, got %s", tok.Kind)
	}
	p.advance()
	t := &Type{Name: tok.Lexeme, Pos: tok.Pos()}
	if p.match(TokenLess) {
		args, err := p.templateArgs()
		if err != nil {
			return nil, err
		}
		t.Args = args
	}
	if err := checkType(t); err != nil {
		return nil, err
	}
	return t, nil
}

// templateArgs parses the arguments of a template list after "<".
func (p *Parser) templateArgs() ([]*Type, *Error) {
	var args []*Type
	for {
		if p.check(TokenIntLiteral) {
			tok := p.advance()
			args = append(args, &Type{Value: tok.Lexeme, Pos: tok.Pos()})
		} else {
			arg, err := p.typeSpec()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if !p.match(TokenComma) {
			break
		}
	}
	if err := p.closeTemplate(); err != nil {
		return nil, err
	}
	return args, nil
}

// closeTemplate consumes the ">" closing a template list, splitting a
// token that starts with it.
func (p *Parser) closeTemplate() *Error {
	tok := p.peek()
	rest := map[TokenKind]TokenKind{
		TokenGreaterGreater:      TokenGreater,
		TokenGreaterEqual:        TokenEqual,
		TokenGreaterGreaterEqual: TokenGreaterEqual,
	}
	if tok.Kind == TokenGreater {
		p.advance()
		return nil
	}
	if kind, ok := rest[tok.Kind]; ok {
		p.tokens[p.current] = Token{Kind: kind, Lexeme: tok.Lexeme[1:], Line: tok.Line, Column: tok.Column + 1}
		return nil
	}
	return errorAt(tok, "expected > closing the template list, got %s", tok.Kind)
}

// checkType validates the template arguments of predeclared types.
// Names without a template list are accepted as declared types.
//
//nolint:gocyclo,cyclop // one rule per type generator
func checkType(t *Type) *Error {
	pos := Token{Line: t.Pos.Line, Column: t.Pos.Column}
	arity, isTemplated := templated[t.Name]
	switch {
	case len(t.Args) == 0:
		if isTemplated && t.Name != "array" {
			return errorAt(pos, "%s requires a template list", t.Name)
		}
		return nil
	case !isTemplated || t.Name == "bitcast":
		return errorAt(pos, "%s does not take a template list", t.Name)
	}

	switch {
	case strings.HasPrefix(t.Name, "vec"):
		if len(t.Args) != 1 || !scalarTypes[t.Args[0].Name] {
			return errorAt(pos, "%s needs one scalar type", t.Name)
		}
	case strings.HasPrefix(t.Name, "mat"):
		if len(t.Args) != 1 || (t.Args[0].Name != "f32" && t.Args[0].Name != "f16") {
			return errorAt(pos, "%s needs one floating point type", t.Name)
		}
	case t.Name == "atomic":
		if len(t.Args) != 1 || (t.Args[0].Name != "i32" && t.Args[0].Name != "u32") {
			return errorAt(pos, "atomic needs i32 or u32")
		}
	case t.Name == "array":
		if len(t.Args) > arity || t.Args[0].Value != "" {
			return errorAt(pos, "array needs an element type and an optional size")
		}
		if len(t.Args) == 2 && t.Args[1].Value == "" && len(t.Args[1].Args) > 0 {
			return errorAt(pos, "array size must be a constant")
		}
	case t.Name == "ptr":
		if len(t.Args) < 2 || len(t.Args) > arity {
			return errorAt(pos, "ptr needs an address space, a type and an optional access mode")
		}
		if !addressSpaces[t.Args[0].Name] {
			return errorAt(pos, "unknown address space %s", t.Args[0].Name)
		}
		if t.Args[1].Value != "" {
			return errorAt(pos, "ptr store type must be a type")
		}
		if len(t.Args) == 3 && !accessModes[t.Args[2].Name] {
			return errorAt(pos, "unknown access mode %s", t.Args[2].Name)
		}
	}
	return nil
}

// block parses a braced statement list.
func (p *Parser) block() (*BlockStmt, *Error) {
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return nil, err
	}
	block := &BlockStmt{}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	return block, nil
}

// statement parses a statement. Empty statements return nil.
//
//nolint:gocyclo,cyclop // one case per statement keyword
func (p *Parser) statement() (Stmt, *Error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenSemicolon:
		p.advance()
		return nil, nil
	case TokenLeftBrace:
		return p.block()
	case TokenReturn:
		p.advance()
		ret := &ReturnStmt{}
		if !p.check(TokenSemicolon) {
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			ret.Value = value
		}
		return ret, p.expectErr(TokenSemicolon)
	case TokenIf:
		return p.ifStmt()
	case TokenSwitch:
		return p.switchStmt()
	case TokenLoop:
		return p.loopStmt()
	case TokenFor:
		return p.forStmt()
	case TokenWhile:
		p.advance()
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Condition: cond, Body: body}, nil
	case TokenBreak:
		p.advance()
		if p.check(TokenIf) {
			return nil, errorAt(tok, "break if outside of a continuing block")
		}
		return &BreakStmt{}, p.expectErr(TokenSemicolon)
	case TokenContinue:
		p.advance()
		return &ContinueStmt{}, p.expectErr(TokenSemicolon)
	case TokenDiscard:
		p.advance()
		return &DiscardStmt{}, p.expectErr(TokenSemicolon)
	case TokenVar:
		v, err := p.varDecl(nil)
		if err != nil {
			return nil, err
		}
		return &VarStmt{Decl: v}, nil
	case TokenLet, TokenConst:
		c, err := p.constDecl()
		if err != nil {
			return nil, err
		}
		return &LetStmt{Const: tok.Kind == TokenConst, Decl: c}, nil
	case TokenConstAssert:
		p.advance()
		if _, err := p.expression(); err != nil {
			return nil, err
		}
		return nil, p.expectErr(TokenSemicolon)
	}

	stmt, err := p.simpleStatement()
	if err != nil {
		return nil, err
	}
	return stmt, p.expectErr(TokenSemicolon)
}

// simpleStatement parses an assignment, increment, decrement or call
// without its terminator.
func (p *Parser) simpleStatement() (Stmt, *Error) {
	tok := p.peek()
	target, err := p.unary()
	if err != nil {
		return nil, err
	}
	if ident, ok := target.(*Ident); ok && ident.Name == "_" {
		if err := p.expectErr(TokenEqual); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Op: TokenEqual, Value: value}, nil
	}

	op := p.peek().Kind
	switch op {
	case TokenPlusPlus, TokenMinusMinus:
		p.advance()
		return &AssignStmt{Op: op, Target: target}, nil
	case TokenEqual, TokenPlusEqual, TokenMinusEqual, TokenStarEqual,
		TokenSlashEqual, TokenPercentEqual, TokenAmpEqual, TokenPipeEqual,
		TokenCaretEqual, TokenLessLessEqual, TokenGreaterGreaterEqual:
		p.advance()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Op: op, Target: target, Value: value}, nil
	}
	if call, ok := target.(*CallExpr); ok {
		return &CallStmt{Call: call}, nil
	}
	return nil, errorAt(tok, "expected assignment or call statement")
}

func (p *Parser) ifStmt() (*IfStmt, *Error) {
	p.advance() // if
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Condition: cond, Body: body}
	if p.match(TokenElse) {
		if p.check(TokenIf) {
			stmt.Else, err = p.ifStmt()
		} else {
			stmt.Else, err = p.block()
		}
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// switchStmt parses a switch. WGSL requires exactly one default selector.
func (p *Parser) switchStmt() (*SwitchStmt, *Error) {
	tok := p.advance() // switch
	selector, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return nil, err
	}
	stmt := &SwitchStmt{Selector: selector}
	defaults := 0
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		clause := &SwitchClause{}
		switch {
		case p.match(TokenDefault):
			clause.Selectors = []Expr{nil}
		case p.match(TokenCase):
			for {
				if p.match(TokenDefault) {
					clause.Selectors = append(clause.Selectors, nil)
				} else {
					value, err := p.expression()
					if err != nil {
						return nil, err
					}
					clause.Selectors = append(clause.Selectors, value)
				}
				if !p.match(TokenComma) || p.check(TokenColon) || p.check(TokenLeftBrace) {
					break
				}
			}
		default:
			return nil, errorAt(p.peek(), "expected case or default, got %s", p.peek().Kind)
		}
		p.match(TokenColon)
		if clause.Body, err = p.block(); err != nil {
			return nil, err
		}
		for _, s := range clause.Selectors {
			if s == nil {
				defaults++
			}
		}
		stmt.Clauses = append(stmt.Clauses, clause)
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	if defaults != 1 {
		return nil, errorAt(tok, "switch has %d default selectors, want 1", defaults)
	}
	return stmt, nil
}

func (p *Parser) loopStmt() (*LoopStmt, *Error) {
	p.advance() // loop
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return nil, err
	}
	loop := &LoopStmt{Body: &BlockStmt{}}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		if p.check(TokenContinuing) {
			if err := p.continuing(loop); err != nil {
				return nil, err
			}
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			loop.Body.Statements = append(loop.Body.Statements, stmt)
		}
	}
	if err := p.expectErr(TokenRightBrace); err != nil {
		return nil, err
	}
	return loop, nil
}

// continuing parses the continuing block of loop. A break-if must be its
// last statement.
func (p *Parser) continuing(loop *LoopStmt) *Error {
	p.advance() // continuing
	if err := p.expectErr(TokenLeftBrace); err != nil {
		return err
	}
	loop.Continuing = &BlockStmt{}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		if p.check(TokenBreak) && p.peekAt(1).Kind == TokenIf {
			p.advance()
			p.advance()
			cond, err := p.expression()
			if err != nil {
				return err
			}
			loop.BreakIf = cond
			if err := p.expectErr(TokenSemicolon); err != nil {
				return err
			}
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return err
		}
		if stmt != nil {
			loop.Continuing.Statements = append(loop.Continuing.Statements, stmt)
		}
	}
	return p.expectErr(TokenRightBrace)
}

func (p *Parser) forStmt() (*ForStmt, *Error) {
	p.advance() // for
	if err := p.expectErr(TokenLeftParen); err != nil {
		return nil, err
	}
	stmt := &ForStmt{}
	var err *Error
	switch p.peek().Kind {
	case TokenSemicolon:
		p.advance()
	case TokenVar:
		var v *VarDecl
		if v, err = p.varDecl(nil); err != nil {
			return nil, err
		}
		stmt.Init = &VarStmt{Decl: v}
	case TokenLet, TokenConst:
		kind := p.peek().Kind
		var c *ConstDecl
		if c, err = p.constDecl(); err != nil {
			return nil, err
		}
		stmt.Init = &LetStmt{Const: kind == TokenConst, Decl: c}
	default:
		if stmt.Init, err = p.simpleStatement(); err != nil {
			return nil, err
		}
		if err := p.expectErr(TokenSemicolon); err != nil {
			return nil, err
		}
	}
	if !p.check(TokenSemicolon) {
		if stmt.Condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if err := p.expectErr(TokenSemicolon); err != nil {
		return nil, err
	}
	if !p.check(TokenRightParen) {
		if stmt.Update, err = p.simpleStatement(); err != nil {
			return nil, err
		}
	}
	if err := p.expectErr(TokenRightParen); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.block(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// Helper methods

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) peekAt(n int) Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectErr(kind TokenKind) *Error {
	if p.match(kind) {
		return nil
	}
	return errorAt(p.peek(), "expected %s, got %s", kind, p.peek().Kind)
}

func (p *Parser) expectIdent(what string) (Token, *Error) {
	tok := p.peek()
	if tok.Kind != TokenIdent {
		return tok, errorAt(tok, "expected %s, got %s", what, tok.Kind)
	}
	return p.advance(), nil
}

// text returns the source of tokens [start, end) without separators.
func (p *Parser) text(start, end int) string {
	var sb strings.Builder
	for _, tok := range p.tokens[start:end] {
		sb.WriteString(tok.Lexeme)
	}
	return sb.String()
}
