package syntax

// Expressions follow the WGSL grammar, which has no single precedence
// ladder: bitwise operators only chain with themselves over unary operands,
// shifts take unary operands and do not chain, comparisons do not chain,
// and && and || do not mix.

// expression parses a full expression.
func (p *Parser) expression() (Expr, *Error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	if op := p.peek().Kind; op == TokenAmpersand || op == TokenPipe || op == TokenCaret {
		for p.match(op) {
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			left = &BinaryExpr{Op: op, Left: left, Right: right}
		}
		return left, nil
	}

	if left, err = p.relationalFrom(left); err != nil {
		return nil, err
	}
	if op := p.peek().Kind; op == TokenAmpAmp || op == TokenPipePipe {
		for p.match(op) {
			right, err := p.relational()
			if err != nil {
				return nil, err
			}
			left = &BinaryExpr{Op: op, Left: left, Right: right}
		}
	}
	return left, nil
}

func isComparison(kind TokenKind) bool {
	switch kind {
	case TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual, TokenEqualEqual, TokenBangEqual:
		return true
	}
	return false
}

func (p *Parser) relational() (Expr, *Error) {
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return p.relationalFrom(operand)
}

// relationalFrom continues a relational expression whose first unary
// operand has been parsed.
func (p *Parser) relationalFrom(operand Expr) (Expr, *Error) {
	left, err := p.shiftFrom(operand)
	if err != nil {
		return nil, err
	}
	if !isComparison(p.peek().Kind) {
		return left, nil
	}
	op := p.advance().Kind
	right, err := p.unary()
	if err != nil {
		return nil, err
	}
	if right, err = p.shiftFrom(right); err != nil {
		return nil, err
	}
	return &BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) shiftFrom(operand Expr) (Expr, *Error) {
	if op := p.peek().Kind; op == TokenLessLess || op == TokenGreaterGreater {
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: operand, Right: right}, nil
	}
	return p.additiveFrom(operand)
}

func (p *Parser) additiveFrom(operand Expr) (Expr, *Error) {
	left, err := p.multiplicativeFrom(operand)
	if err != nil {
		return nil, err
	}
	for op := p.peek().Kind; op == TokenPlus || op == TokenMinus; op = p.peek().Kind {
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if right, err = p.multiplicativeFrom(right); err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) multiplicativeFrom(left Expr) (Expr, *Error) {
	for op := p.peek().Kind; op == TokenStar || op == TokenSlash || op == TokenPercent; op = p.peek().Kind {
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// unary parses prefix operators, including address-of and indirection.
func (p *Parser) unary() (Expr, *Error) {
	switch op := p.peek().Kind; op {
	case TokenMinus, TokenBang, TokenTilde, TokenStar, TokenAmpersand:
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.postfix()
}

// postfix parses indexing and member access.
func (p *Parser) postfix() (Expr, *Error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(TokenLeftBracket):
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expectErr(TokenRightBracket); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Base: expr, Index: index}
		case p.match(TokenDot):
			member, err := p.expectIdent("member name")
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{Base: expr, Member: member.Lexeme}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) primary() (Expr, *Error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIntLiteral, TokenFloatLiteral, TokenTrue, TokenFalse:
		p.advance()
		return &Literal{Kind: tok.Kind, Value: tok.Lexeme, Pos: tok.Pos()}, nil

	case TokenLeftParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expectErr(TokenRightParen); err != nil {
			return nil, err
		}
		return &ParenExpr{Expr: inner}, nil

	case TokenIdent:
		p.advance()
		var template []*Type
		if _, ok := templated[tok.Lexeme]; ok && p.check(TokenLess) {
			p.advance()
			args, err := p.templateArgs()
			if err != nil {
				return nil, err
			}
			if tok.Lexeme != "bitcast" {
				if err := checkType(&Type{Name: tok.Lexeme, Args: args, Pos: tok.Pos()}); err != nil {
					return nil, err
				}
			}
			template = args
		}
		if !p.check(TokenLeftParen) {
			if template != nil {
				return nil, errorAt(p.peek(), "expected ( after %s<...>", tok.Lexeme)
			}
			return &Ident{Name: tok.Lexeme, Pos: tok.Pos()}, nil
		}
		p.advance()
		call := &CallExpr{Callee: tok.Lexeme, Template: template, Pos: tok.Pos()}
		for !p.check(TokenRightParen) {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
		if err := p.expectErr(TokenRightParen); err != nil {
			return nil, err
		}
		return call, nil
	}
	return nil, errorAt(tok, "unexpected %s in expression", tok.Kind)
}
