package rehydrate

import (
	"math"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
)

var constructorKinds = map[Command]ir.ConstructorKind{
	CmdConstructorArray:          ir.ConstructorArray,
	CmdConstructorArrayCast:      ir.ConstructorArrayCast,
	CmdConstructorCompound:       ir.ConstructorCompound,
	CmdConstructorCompoundCast:   ir.ConstructorCompoundCast,
	CmdConstructorDiagonalMatrix: ir.ConstructorDiagonalMatrix,
	CmdConstructorMatrixResize:   ir.ConstructorMatrixResize,
	CmdConstructorScalarCast:     ir.ConstructorScalarCast,
	CmdConstructorSplat:          ir.ConstructorSplat,
	CmdConstructorStruct:         ir.ConstructorStruct,
}

// expression decodes an expression; the Void tag yields nil.
func (s *session) expression() (ir.Expression, error) {
	cmd, off, err := s.command()
	if err != nil {
		return nil, err
	}
	var e ir.Expression
	switch cmd {
	case CmdBinary:
		e, err = s.binary()
	case CmdBoolLiteral:
		var v bool
		if v, err = s.r.ReadBool(); err == nil {
			e = ir.NewBoolLiteral(s.lang.Types.Bool, v)
		}
	case CmdConstructorArray, CmdConstructorArrayCast, CmdConstructorCompound,
		CmdConstructorCompoundCast, CmdConstructorDiagonalMatrix, CmdConstructorMatrixResize,
		CmdConstructorScalarCast, CmdConstructorSplat, CmdConstructorStruct:
		e, err = s.constructor(off, cmd)
	case CmdFieldAccess:
		e, err = s.fieldAccess()
	case CmdFloatLiteral:
		e, err = s.floatLiteral()
	case CmdFunctionCall:
		e, err = s.functionCall()
	case CmdIndex:
		e, err = s.index()
	case CmdIntLiteral:
		e, err = s.intLiteral()
	case CmdPostfix:
		e, err = s.postfix()
	case CmdPrefix:
		e, err = s.prefix()
	case CmdSetting:
		e, err = s.setting(off)
	case CmdSwizzle:
		e, err = s.swizzle()
	case CmdTernary:
		e, err = s.ternary()
	case CmdVariableReference:
		e, err = s.variableReference()
	case CmdVoid:
		return nil, nil
	default:
		return nil, errors.UnknownCommand(off, "expression", byte(cmd))
	}
	if err != nil {
		return nil, err
	}
	if e.Type() == nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(off).
			Command(cmd.String()).
			Detail("no result type for %s", e.Description()).
			Build()
	}
	s.node()
	return e, nil
}

// requiredExpression decodes an expression in a slot that may not be empty.
func (s *session) requiredExpression(parent Command) (ir.Expression, error) {
	off := s.r.Position()
	e, err := s.expression()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(off).
			Command(parent.String()).
			Detail("missing expression").
			Build()
	}
	return e, nil
}

// expressionArray decodes a u8 count followed by that many expressions.
func (s *session) expressionArray(parent Command) ([]ir.Expression, error) {
	count, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	args := make([]ir.Expression, 0, count)
	for range count {
		e, err := s.requiredExpression(parent)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return args, nil
}

func (s *session) operator() (ir.Operator, error) {
	off := s.r.Position()
	b, err := s.r.ReadU8()
	if err != nil {
		return 0, err
	}
	op := ir.Operator(b)
	if !op.Valid() {
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(off).
			Value(b).
			Detail("unknown operator %d", b).
			Build()
	}
	return op, nil
}

func (s *session) binary() (ir.Expression, error) {
	left, err := s.requiredExpression(CmdBinary)
	if err != nil {
		return nil, err
	}
	op, err := s.operator()
	if err != nil {
		return nil, err
	}
	right, err := s.requiredExpression(CmdBinary)
	if err != nil {
		return nil, err
	}
	return ir.NewBinaryExpression(s.lang, left, op, right), nil
}

func (s *session) constructor(off int, cmd Command) (ir.Expression, error) {
	typ, err := s.typ()
	if err != nil {
		return nil, err
	}
	args, err := s.expressionArray(cmd)
	if err != nil {
		return nil, err
	}
	kind := constructorKinds[cmd]
	if kind.SingleArgument() && len(args) != 1 {
		return nil, errors.Arity(off, cmd.String(), 1, len(args))
	}
	return ir.NewConstructor(kind, typ, args), nil
}

func (s *session) fieldAccess() (ir.Expression, error) {
	base, err := s.requiredExpression(CmdFieldAccess)
	if err != nil {
		return nil, err
	}
	indexOff := s.r.Position()
	index, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	if fields := base.Type().Fields(); int(index) >= len(fields) {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(indexOff).
			Command(CmdFieldAccess.String()).
			Value(index).
			Detail("field index %d out of range for %s", index, base.Type().Name()).
			Build()
	}
	kindOff := s.r.Position()
	ownerKind, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	if ir.FieldAccessOwnerKind(ownerKind) > ir.FieldAccessAnonymousInterfaceBlock {
		return nil, errors.InvalidData(errors.PhaseDecode, kindOff, "unknown field access owner kind")
	}
	return ir.NewFieldAccess(base, int(index), ir.FieldAccessOwnerKind(ownerKind)), nil
}

func (s *session) floatLiteral() (ir.Expression, error) {
	typ, err := s.typ()
	if err != nil {
		return nil, err
	}
	bits, err := s.r.ReadS32()
	if err != nil {
		return nil, err
	}
	return ir.NewFloatLiteral(typ, math.Float32frombits(uint32(bits))), nil
}

func (s *session) intLiteral() (ir.Expression, error) {
	typ, err := s.typ()
	if err != nil {
		return nil, err
	}
	if typ.IsUnsigned() {
		v, err := s.r.ReadU32()
		if err != nil {
			return nil, err
		}
		return ir.NewIntLiteral(typ, int64(v)), nil
	}
	v, err := s.r.ReadS32()
	if err != nil {
		return nil, err
	}
	return ir.NewIntLiteral(typ, int64(v)), nil
}

// functionCall decodes a call and re-resolves the callee against the
// overloads visible from the current scope.
func (s *session) functionCall() (ir.Expression, error) {
	typ, err := s.typ()
	if err != nil {
		return nil, err
	}
	fn, err := s.functionRef(true)
	if err != nil {
		return nil, err
	}
	args, err := s.expressionArray(CmdFunctionCall)
	if err != nil {
		return nil, err
	}
	best := ir.FindBestFunctionForCall(s.symbols, fn, args)
	if best != fn {
		debugf("call to %s resolved to %s", fn.Description(), best.Description())
	}
	return ir.NewFunctionCall(typ, best, args), nil
}

func (s *session) index() (ir.Expression, error) {
	base, err := s.requiredExpression(CmdIndex)
	if err != nil {
		return nil, err
	}
	idx, err := s.requiredExpression(CmdIndex)
	if err != nil {
		return nil, err
	}
	return ir.NewIndexExpression(s.lang, base, idx), nil
}

func (s *session) postfix() (ir.Expression, error) {
	op, err := s.operator()
	if err != nil {
		return nil, err
	}
	operand, err := s.requiredExpression(CmdPostfix)
	if err != nil {
		return nil, err
	}
	return ir.NewPostfixExpression(operand, op), nil
}

func (s *session) prefix() (ir.Expression, error) {
	op, err := s.operator()
	if err != nil {
		return nil, err
	}
	operand, err := s.requiredExpression(CmdPrefix)
	if err != nil {
		return nil, err
	}
	return ir.NewPrefixExpression(s.lang, op, operand), nil
}

func (s *session) setting(off int) (ir.Expression, error) {
	name, err := s.readString()
	if err != nil {
		return nil, err
	}
	e, err := ir.ConvertSetting(s.lang, name)
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindUnknownSetting).
			Offset(off).
			Value(name).
			Cause(err).
			Build()
	}
	return e, nil
}

func (s *session) swizzle() (ir.Expression, error) {
	base, err := s.requiredExpression(CmdSwizzle)
	if err != nil {
		return nil, err
	}
	countOff := s.r.Position()
	count, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	if count < 1 || count > 4 {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(countOff).
			Command(CmdSwizzle.String()).
			Value(int(count)).
			Detail("swizzle takes 1 to 4 components").
			Build()
	}
	components := make([]uint8, 0, count)
	for range count {
		cOff := s.r.Position()
		c, err := s.r.ReadU8()
		if err != nil {
			return nil, err
		}
		if c > ir.SwizzleW {
			return nil, errors.InvalidData(errors.PhaseDecode, cOff, "swizzle component out of range")
		}
		components = append(components, c)
	}
	return ir.NewSwizzle(s.lang, base, components), nil
}

func (s *session) ternary() (ir.Expression, error) {
	test, err := s.requiredExpression(CmdTernary)
	if err != nil {
		return nil, err
	}
	ifTrue, err := s.requiredExpression(CmdTernary)
	if err != nil {
		return nil, err
	}
	ifFalse, err := s.requiredExpression(CmdTernary)
	if err != nil {
		return nil, err
	}
	return ir.NewTernaryExpression(test, ifTrue, ifFalse), nil
}

func (s *session) variableReference() (ir.Expression, error) {
	v, err := s.variableRef(true)
	if err != nil {
		return nil, err
	}
	kindOff := s.r.Position()
	kind, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	if !ir.RefKind(kind).Valid() {
		return nil, errors.InvalidData(errors.PhaseDecode, kindOff, "unknown reference kind")
	}
	return ir.NewVariableReference(v, ir.RefKind(kind)), nil
}
