package emit

import (
	"fmt"

	"github.com/gogpu/wgslgen/ir"
)

// countRefs counts how often every expression of fn is used, by other
// expressions, by local initializers and by statements.
func countRefs(fn *ir.Function) []int {
	counts := make([]int, len(fn.Expressions))
	use := func(h ir.ExpressionHandle) {
		if int(h) < len(counts) {
			counts[h]++
		}
	}
	for _, expr := range fn.Expressions {
		for _, op := range ir.ExpressionOperands(expr.Kind) {
			use(op)
		}
	}
	for _, local := range fn.LocalVars {
		if local.Init != nil {
			use(*local.Init)
		}
	}
	countBlockRefs(fn.Body, use)
	return counts
}

func countBlockRefs(block ir.Block, use func(ir.ExpressionHandle)) {
	for _, stmt := range block {
		switch s := stmt.Kind.(type) {
		case ir.StmtBlock:
			countBlockRefs(s.Block, use)
		case ir.StmtIf:
			use(s.Condition)
			countBlockRefs(s.Accept, use)
			countBlockRefs(s.Reject, use)
		case ir.StmtSwitch:
			use(s.Selector)
			for _, c := range s.Cases {
				countBlockRefs(c.Body, use)
			}
		case ir.StmtLoop:
			countBlockRefs(s.Body, use)
			countBlockRefs(s.Continuing, use)
			if s.BreakIf != nil {
				use(*s.BreakIf)
			}
		case ir.StmtReturn:
			if s.Value != nil {
				use(*s.Value)
			}
		case ir.StmtStore:
			use(s.Pointer)
			use(s.Value)
		case ir.StmtCall:
			for _, arg := range s.Arguments {
				use(arg)
			}
		}
	}
}

// needsBake reports whether h is evaluated into a temporary at its Emit point.
// Loads always are, so that reads happen in program order. Names and
// references never are. Anything else is baked once it is used twice.
func (e *Emitter) needsBake(h ir.ExpressionHandle) (bool, error) {
	kind, err := e.Expression(h)
	if err != nil {
		return false, err
	}
	switch kind.(type) {
	case ir.Literal, ir.ExprConstant, ir.ExprZeroValue,
		ir.ExprFunctionArgument, ir.ExprGlobalVariable, ir.ExprLocalVariable,
		ir.ExprAccess, ir.ExprAccessIndex, ir.ExprCallResult:
		return false, nil
	case ir.ExprLoad, ir.ExprBufferLoad:
		return true, nil
	}
	inner, err := e.ExprInner(h)
	if err != nil {
		return false, err
	}
	if _, isPointer := inner.(ir.PointerType); isPointer {
		return false, nil
	}
	return e.fn.refCounts[h] >= 2, nil
}

// tempName returns the temporary name of a baked expression.
func (e *Emitter) tempName(h ir.ExpressionHandle) string {
	name := fmt.Sprintf("_e%d", h)
	if e.namer.isUsed(name) {
		return e.namer.call(name)
	}
	return name
}

// bakeExpression declares an immutable temporary holding h.
func (e *Emitter) bakeExpression(h ir.ExpressionHandle) error {
	ty, err := e.ExprTypeHandle(h)
	if err != nil {
		return err
	}
	name := e.tempName(h)
	if err := e.emitLet(name, ty); err != nil {
		return err
	}
	if err := e.EmitExpr(h, InfoNone); err != nil {
		return err
	}
	e.out.Write(";\n")
	e.fn.named[h] = name
	return nil
}

// emitLet writes the start of a temporary declaration, up to the initializer.
func (e *Emitter) emitLet(name string, ty ir.TypeHandle) error {
	e.out.WriteIndent()
	if err := e.target.EmitVarKeyword(VarInfo{Kind: VarLet, Type: ty, Space: ir.SpaceFunction}); err != nil {
		return err
	}
	if err := e.target.EmitType(ty, Name(name)); err != nil {
		return err
	}
	e.out.Write(" = ")
	return nil
}

// EmitBlock writes the statements of block at the current indentation.
func (e *Emitter) EmitBlock(block ir.Block) error {
	for _, stmt := range block {
		if err := e.emitStatement(stmt.Kind); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitStatement(stmt ir.StatementKind) error {
	handled, err := e.target.TryEmitStatement(stmt)
	if err != nil || handled {
		return err
	}
	return e.DefaultEmitStatement(stmt)
}

// emitNestedBlock writes " {", block one level deeper, and the closing brace line.
func (e *Emitter) emitNestedBlock(block ir.Block) error {
	e.out.Write(" {\n")
	e.out.PushIndent()
	if err := e.EmitBlock(block); err != nil {
		return err
	}
	e.out.PopIndent()
	e.out.WriteIndent()
	e.out.Write("}")
	return nil
}

// DefaultEmitStatement writes stmt with C-family syntax.
//
//nolint:gocyclo,cyclop,funlen // Statement rendering requires handling all statement kinds
func (e *Emitter) DefaultEmitStatement(stmt ir.StatementKind) error {
	switch s := stmt.(type) {
	case ir.StmtEmit:
		for h := s.Range.Start; h < s.Range.End; h++ {
			bake, err := e.needsBake(h)
			if err != nil {
				return err
			}
			if bake {
				if err := e.bakeExpression(h); err != nil {
					return err
				}
			}
		}
		return nil

	case ir.StmtBlock:
		e.out.WriteIndent()
		if err := e.emitNestedBlock(s.Block); err != nil {
			return err
		}
		e.out.Write("\n")
		return nil

	case ir.StmtIf:
		e.out.WriteIndent()
		e.out.Write("if (")
		if err := e.target.EmitOperand(s.Condition, InfoNone); err != nil {
			return err
		}
		e.out.Write(")")
		if err := e.emitNestedBlock(s.Accept); err != nil {
			return err
		}
		if len(s.Reject) > 0 {
			e.out.Write(" else")
			if err := e.emitNestedBlock(s.Reject); err != nil {
				return err
			}
		}
		e.out.Write("\n")
		return nil

	case ir.StmtSwitch:
		e.out.WriteIndent()
		e.out.Write("switch (")
		if err := e.target.EmitOperand(s.Selector, InfoNone); err != nil {
			return err
		}
		e.out.Write(") {\n")
		e.out.PushIndent()
		for i := range s.Cases {
			c := &s.Cases[i]
			e.out.WriteIndent()
			if err := e.target.EmitSwitchCaseLabels(s.Selector, c); err != nil {
				return err
			}
			if err := e.emitNestedBlock(c.Body); err != nil {
				return err
			}
			e.out.Write("\n")
		}
		e.out.PopIndent()
		e.out.WriteLine("}")
		return nil

	case ir.StmtLoop:
		if len(s.Continuing) > 0 {
			return e.target.Unsupportedf("loop continuing block")
		}
		e.out.WriteLine("for (;;) {")
		e.out.PushIndent()
		if err := e.EmitBlock(s.Body); err != nil {
			return err
		}
		if s.BreakIf != nil {
			e.out.WriteIndent()
			e.out.Write("if (")
			if err := e.target.EmitOperand(*s.BreakIf, InfoNone); err != nil {
				return err
			}
			e.out.Write(") { break; }\n")
		}
		e.out.PopIndent()
		e.out.WriteLine("}")
		return nil

	case ir.StmtBreak:
		e.out.WriteLine("break;")
		return nil

	case ir.StmtContinue:
		e.out.WriteLine("continue;")
		return nil

	case ir.StmtReturn:
		if s.Value == nil {
			e.out.WriteLine("return;")
			return nil
		}
		e.out.WriteIndent()
		e.out.Write("return ")
		if err := e.target.EmitOperand(*s.Value, InfoNone); err != nil {
			return err
		}
		e.out.Write(";\n")
		return nil

	case ir.StmtKill:
		e.out.WriteLine("discard;")
		return nil

	case ir.StmtBarrier:
		return e.target.Unsupportedf("barrier")

	case ir.StmtStore:
		e.out.WriteIndent()
		if err := e.EmitReference(s.Pointer, InfoNone); err != nil {
			return err
		}
		e.out.Write(" = ")
		if err := e.target.EmitOperand(s.Value, InfoNone); err != nil {
			return err
		}
		e.out.Write(";\n")
		return nil

	case ir.StmtCall:
		return e.emitCallStatement(s)

	default:
		return e.target.Unsupportedf("statement %T", stmt)
	}
}

// emitCallStatement writes a call, binding its result to a temporary when
// the call produces one. Arguments bound to pointer parameters are passed
// by address unless they already are pointers in the target's syntax.
func (e *Emitter) emitCallStatement(s ir.StmtCall) error {
	if int(s.Function) >= len(e.module.Functions) {
		return fmt.Errorf("call to function %d out of range", s.Function)
	}
	callee := &e.module.Functions[s.Function]
	if len(s.Arguments) != len(callee.Arguments) {
		return fmt.Errorf("call to %s passes %d arguments, want %d",
			e.FunctionName(s.Function), len(s.Arguments), len(callee.Arguments))
	}

	var result string
	if s.Result != nil {
		if callee.Result == nil {
			return fmt.Errorf("call to %s binds the result of a void function", e.FunctionName(s.Function))
		}
		result = e.tempName(*s.Result)
		if err := e.emitLet(result, callee.Result.Type); err != nil {
			return err
		}
	} else {
		e.out.WriteIndent()
	}

	e.out.Write(e.FunctionName(s.Function) + "(")
	for i, arg := range s.Arguments {
		if i > 0 {
			e.out.Write(", ")
		}
		param, err := e.TypeInner(callee.Arguments[i].Type)
		if err != nil {
			return err
		}
		if _, isPointer := param.(ir.PointerType); isPointer && !e.target.IsPointerSyntaxRequired(arg) {
			err = e.EmitPrefix(Prefix("&"), arg, InfoNone)
		} else {
			err = e.target.EmitOperand(arg, InfoNone)
		}
		if err != nil {
			return err
		}
	}
	e.out.Write(");\n")

	if s.Result != nil {
		e.fn.named[*s.Result] = result
	}
	return nil
}

// DefaultEmitSwitchCaseLabels writes one C case label per value, then the
// default label.
func (e *Emitter) DefaultEmitSwitchCaseLabels(_ ir.ExpressionHandle, c *ir.SwitchCase) error {
	for i, value := range c.Values {
		if i > 0 {
			e.out.Write("\n")
			e.out.WriteIndent()
		}
		e.out.Write("case ")
		if err := e.EmitSwitchValue(value); err != nil {
			return err
		}
		e.out.Write(":")
	}
	if c.Default {
		if len(c.Values) > 0 {
			e.out.Write("\n")
			e.out.WriteIndent()
		}
		e.out.Write("default:")
	}
	return nil
}

// EmitSwitchValue writes a case label value.
func (e *Emitter) EmitSwitchValue(value ir.SwitchValue) error {
	switch v := value.(type) {
	case ir.SwitchValueI32:
		return e.target.EmitLiteral(ir.LiteralI32(v))
	case ir.SwitchValueU32:
		return e.target.EmitLiteral(ir.LiteralU32(v))
	case ir.SwitchValueConstant:
		e.out.Write(e.ConstantName(v.Constant))
		return nil
	default:
		return fmt.Errorf("unknown switch value %T", value)
	}
}
