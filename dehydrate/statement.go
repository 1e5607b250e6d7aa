package dehydrate

import (
	"fmt"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
	"github.com/wippyai/sksl-runtime/rehydrate"
)

// statement writes s, or Void for nil.
func (w *writer) statement(s ir.Statement) error {
	switch s := s.(type) {
	case nil:
		w.cmd(rehydrate.CmdVoid)
		return nil
	case *ir.Block:
		w.cmd(rehydrate.CmdBlock)
		if err := w.symbolTable(s.Symbols()); err != nil {
			return err
		}
		n, err := narrow[uint8](len(s.Statements()), "block statement count")
		if err != nil {
			return err
		}
		w.body.WriteU8(n)
		for _, st := range s.Statements() {
			if err := w.statement(st); err != nil {
				return err
			}
		}
		w.body.WriteU8(uint8(s.Kind()))
		return nil
	case *ir.BreakStatement:
		w.cmd(rehydrate.CmdBreak)
		return nil
	case *ir.ContinueStatement:
		w.cmd(rehydrate.CmdContinue)
		return nil
	case *ir.DiscardStatement:
		w.cmd(rehydrate.CmdDiscard)
		return nil
	case *ir.NopStatement:
		w.cmd(rehydrate.CmdNop)
		return nil
	case *ir.DoStatement:
		w.cmd(rehydrate.CmdDo)
		if err := w.statement(s.Body()); err != nil {
			return err
		}
		return w.expression(s.Test())
	case *ir.ExpressionStatement:
		w.cmd(rehydrate.CmdExpressionStatement)
		return w.expression(s.Expression())
	case *ir.ForStatement:
		w.cmd(rehydrate.CmdFor)
		if err := w.symbolTable(s.Symbols()); err != nil {
			return err
		}
		if err := w.statement(s.Initializer()); err != nil {
			return err
		}
		if err := w.expression(s.Test()); err != nil {
			return err
		}
		if err := w.expression(s.Next()); err != nil {
			return err
		}
		return w.statement(s.Body())
	case *ir.IfStatement:
		w.cmd(rehydrate.CmdIf)
		w.body.WriteBool(s.IsStatic())
		if err := w.expression(s.Test()); err != nil {
			return err
		}
		if err := w.statement(s.IfTrue()); err != nil {
			return err
		}
		return w.statement(s.IfFalse())
	case *ir.ReturnStatement:
		w.cmd(rehydrate.CmdReturn)
		return w.expression(s.Expression())
	case *ir.SwitchStatement:
		return w.switchStatement(s)
	case *ir.VarDeclaration:
		w.cmd(rehydrate.CmdVarDeclaration)
		if err := w.localRef(s.Variable()); err != nil {
			return err
		}
		if err := w.symbol(s.BaseType()); err != nil {
			return err
		}
		n, err := narrow[uint8](s.ArraySize(), "declaration array size")
		if err != nil {
			return err
		}
		w.body.WriteU8(n)
		return w.expression(s.Value())
	}
	return errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("cannot encode statement %T", s))
}

func (w *writer) switchStatement(s *ir.SwitchStatement) error {
	w.cmd(rehydrate.CmdSwitch)
	w.body.WriteBool(s.IsStatic())
	if err := w.symbolTable(s.Symbols()); err != nil {
		return err
	}
	if err := w.expression(s.Value()); err != nil {
		return err
	}
	n, err := narrow[uint8](len(s.Cases()), "switch case count")
	if err != nil {
		return err
	}
	w.body.WriteU8(n)
	for _, c := range s.Cases() {
		w.body.WriteBool(c.IsDefault())
		if !c.IsDefault() {
			w.body.WriteS32(c.Value())
		}
		if err := w.statement(c.Statement()); err != nil {
			return err
		}
	}
	return nil
}
