package dehydrate

import (
	"fmt"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
	"github.com/wippyai/sksl-runtime/rehydrate"
)

var constructorCommands = map[ir.ConstructorKind]rehydrate.Command{
	ir.ConstructorArray:          rehydrate.CmdConstructorArray,
	ir.ConstructorArrayCast:      rehydrate.CmdConstructorArrayCast,
	ir.ConstructorCompound:       rehydrate.CmdConstructorCompound,
	ir.ConstructorCompoundCast:   rehydrate.CmdConstructorCompoundCast,
	ir.ConstructorDiagonalMatrix: rehydrate.CmdConstructorDiagonalMatrix,
	ir.ConstructorMatrixResize:   rehydrate.CmdConstructorMatrixResize,
	ir.ConstructorScalarCast:     rehydrate.CmdConstructorScalarCast,
	ir.ConstructorSplat:          rehydrate.CmdConstructorSplat,
	ir.ConstructorStruct:         rehydrate.CmdConstructorStruct,
}

// expression writes e, or Void for nil.
func (w *writer) expression(e ir.Expression) error {
	switch e := e.(type) {
	case nil:
		w.cmd(rehydrate.CmdVoid)
		return nil
	case *ir.BinaryExpression:
		w.cmd(rehydrate.CmdBinary)
		if err := w.expression(e.Left()); err != nil {
			return err
		}
		w.body.WriteU8(uint8(e.Operator()))
		return w.expression(e.Right())
	case *ir.Literal:
		return w.literal(e)
	case *ir.ConstructorExpression:
		cmd, ok := constructorCommands[e.Kind()]
		if !ok {
			return errors.InvalidInput(errors.PhaseEncode, "unknown constructor kind "+e.Kind().String())
		}
		w.cmd(cmd)
		if err := w.symbol(e.Type()); err != nil {
			return err
		}
		return w.expressions(e.Arguments())
	case *ir.FieldAccess:
		w.cmd(rehydrate.CmdFieldAccess)
		if err := w.expression(e.Base()); err != nil {
			return err
		}
		n, err := narrow[uint8](e.FieldIndex(), "field index")
		if err != nil {
			return err
		}
		w.body.WriteU8(n)
		w.body.WriteU8(uint8(e.OwnerKind()))
		return nil
	case *ir.FunctionCall:
		w.cmd(rehydrate.CmdFunctionCall)
		if err := w.symbol(e.Type()); err != nil {
			return err
		}
		if err := w.ref(e.Function()); err != nil {
			return err
		}
		return w.expressions(e.Arguments())
	case *ir.IndexExpression:
		w.cmd(rehydrate.CmdIndex)
		if err := w.expression(e.Base()); err != nil {
			return err
		}
		return w.expression(e.Index())
	case *ir.PostfixExpression:
		w.cmd(rehydrate.CmdPostfix)
		w.body.WriteU8(uint8(e.Operator()))
		return w.expression(e.Operand())
	case *ir.PrefixExpression:
		w.cmd(rehydrate.CmdPrefix)
		w.body.WriteU8(uint8(e.Operator()))
		return w.expression(e.Operand())
	case *ir.SettingExpression:
		w.cmd(rehydrate.CmdSetting)
		return w.str(e.Name())
	case *ir.Swizzle:
		w.cmd(rehydrate.CmdSwizzle)
		if err := w.expression(e.Base()); err != nil {
			return err
		}
		n, err := narrow[uint8](len(e.Components()), "swizzle component count")
		if err != nil {
			return err
		}
		w.body.WriteU8(n)
		for _, c := range e.Components() {
			w.body.WriteU8(c)
		}
		return nil
	case *ir.TernaryExpression:
		w.cmd(rehydrate.CmdTernary)
		for _, sub := range []ir.Expression{e.Test(), e.IfTrue(), e.IfFalse()} {
			if err := w.expression(sub); err != nil {
				return err
			}
		}
		return nil
	case *ir.VariableReference:
		w.cmd(rehydrate.CmdVariableReference)
		if err := w.ref(e.Variable()); err != nil {
			return err
		}
		w.body.WriteU8(uint8(e.RefKind()))
		return nil
	}
	return errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("cannot encode expression %T", e))
}

func (w *writer) expressions(args []ir.Expression) error {
	n, err := narrow[uint8](len(args), "argument count")
	if err != nil {
		return err
	}
	w.body.WriteU8(n)
	for _, a := range args {
		if err := w.expression(a); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) literal(l *ir.Literal) error {
	t := l.Type()
	switch {
	case t.IsBoolean():
		w.cmd(rehydrate.CmdBoolLiteral)
		w.body.WriteBool(l.BoolValue())
		return nil
	case t.IsFloat():
		w.cmd(rehydrate.CmdFloatLiteral)
		if err := w.symbol(t); err != nil {
			return err
		}
		w.body.WriteU32(l.FloatBits())
		return nil
	}
	w.cmd(rehydrate.CmdIntLiteral)
	if err := w.symbol(t); err != nil {
		return err
	}
	if t.IsUnsigned() {
		v, err := narrow[uint32](l.IntValue(), "unsigned literal")
		if err != nil {
			return err
		}
		w.body.WriteU32(v)
		return nil
	}
	v, err := narrow[int32](l.IntValue(), "integer literal")
	if err != nil {
		return err
	}
	w.body.WriteS32(v)
	return nil
}
