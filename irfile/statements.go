package irfile

import "github.com/gogpu/wgslgen/ir"

func convertBlock(stmts []stmtDoc) (ir.Block, error) {
	if len(stmts) == 0 {
		return nil, nil
	}
	block := make(ir.Block, 0, len(stmts))
	for i := range stmts {
		kind, err := convertStatement(&stmts[i])
		if err != nil {
			return nil, at(index("", i), err)
		}
		block = append(block, ir.Statement{Kind: kind})
	}
	return block, nil
}

//nolint:gocyclo,cyclop,funlen // one case per statement kind
func convertStatement(s *stmtDoc) (ir.StatementKind, error) {
	switch {
	case s.Emit != nil:
		if len(s.Emit) != 2 {
			return nil, &Error{Message: "emit takes [start, end)"}
		}
		return ir.StmtEmit{Range: ir.Range{Start: ir.ExpressionHandle(s.Emit[0]), End: ir.ExpressionHandle(s.Emit[1])}}, nil

	case s.Block != nil:
		body, err := convertBlock(s.Block.Body)
		if err != nil {
			return nil, at("block.body", err)
		}
		return ir.StmtBlock{Block: body}, nil

	case s.If != nil:
		accept, err := convertBlock(s.If.Accept)
		if err != nil {
			return nil, at("if.accept", err)
		}
		reject, err := convertBlock(s.If.Reject)
		if err != nil {
			return nil, at("if.reject", err)
		}
		return ir.StmtIf{Condition: ir.ExpressionHandle(s.If.Condition), Accept: accept, Reject: reject}, nil

	case s.Switch != nil:
		return convertSwitch(s.Switch)

	case s.Loop != nil:
		body, err := convertBlock(s.Loop.Body)
		if err != nil {
			return nil, at("loop.body", err)
		}
		continuing, err := convertBlock(s.Loop.Continuing)
		if err != nil {
			return nil, at("loop.continuing", err)
		}
		return ir.StmtLoop{Body: body, Continuing: continuing, BreakIf: exprHandle(s.Loop.BreakIf)}, nil

	case s.Break:
		return ir.StmtBreak{}, nil

	case s.Continue:
		return ir.StmtContinue{}, nil

	case s.Return != nil:
		return ir.StmtReturn{Value: exprHandle(s.Return.Value)}, nil

	case s.Kill:
		return ir.StmtKill{}, nil

	case s.Barrier != nil:
		var flags ir.BarrierFlags
		for _, name := range s.Barrier {
			flag, err := lookup(barrierNames, "barrier", name)
			if err != nil {
				return nil, at("barrier", err)
			}
			flags |= flag
		}
		return ir.StmtBarrier{Flags: flags}, nil

	case s.Store != nil:
		return ir.StmtStore{Pointer: ir.ExpressionHandle(s.Store.Pointer), Value: ir.ExpressionHandle(s.Store.Value)}, nil

	case s.Call != nil:
		return ir.StmtCall{
			Function:  ir.FunctionHandle(s.Call.Function),
			Arguments: exprHandles(s.Call.Arguments),
			Result:    exprHandle(s.Call.Result),
		}, nil
	}
	return nil, &Error{Message: "statement has no kind"}
}

func convertSwitch(s *switchDoc) (ir.StatementKind, error) {
	stmt := ir.StmtSwitch{Selector: ir.ExpressionHandle(s.Selector)}
	for i, c := range s.Cases {
		sc := ir.SwitchCase{Default: c.Default}
		for j, v := range c.Values {
			switch {
			case v.I32 != nil:
				sc.Values = append(sc.Values, ir.SwitchValueI32(*v.I32))
			case v.U32 != nil:
				sc.Values = append(sc.Values, ir.SwitchValueU32(*v.U32))
			case v.Constant != nil:
				sc.Values = append(sc.Values, ir.SwitchValueConstant{Constant: ir.ConstantHandle(*v.Constant)})
			default:
				return nil, at("switch."+index("cases", i)+"."+index("values", j), &Error{Message: "case value has no kind"})
			}
		}
		body, err := convertBlock(c.Body)
		if err != nil {
			return nil, at("switch."+index("cases", i)+".body", err)
		}
		sc.Body = body
		stmt.Cases = append(stmt.Cases, sc)
	}
	return stmt, nil
}
