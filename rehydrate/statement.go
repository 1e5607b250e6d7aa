package rehydrate

import (
	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
)

// statement decodes a statement; the Void tag yields nil.
func (s *session) statement() (ir.Statement, error) {
	cmd, off, err := s.command()
	if err != nil {
		return nil, err
	}
	var stmt ir.Statement
	switch cmd {
	case CmdBlock:
		stmt, err = s.block()
	case CmdBreak:
		stmt = &ir.BreakStatement{}
	case CmdContinue:
		stmt = &ir.ContinueStatement{}
	case CmdDiscard:
		stmt = &ir.DiscardStatement{}
	case CmdDo:
		stmt, err = s.doStatement()
	case CmdExpressionStatement:
		var e ir.Expression
		if e, err = s.requiredExpression(cmd); err == nil {
			stmt = ir.NewExpressionStatement(e)
		}
	case CmdFor:
		stmt, err = s.forStatement()
	case CmdIf:
		stmt, err = s.ifStatement()
	case CmdNop:
		stmt = &ir.NopStatement{}
	case CmdReturn:
		var e ir.Expression
		if e, err = s.expression(); err == nil {
			stmt = ir.NewReturnStatement(e)
		}
	case CmdSwitch:
		stmt, err = s.switchStatement()
	case CmdVarDeclaration:
		stmt, err = s.varDeclaration()
	case CmdVoid:
		return nil, nil
	default:
		return nil, errors.UnknownCommand(off, "statement", byte(cmd))
	}
	if err != nil {
		return nil, err
	}
	s.node()
	return stmt, nil
}

// requiredStatement decodes a statement in a slot that may not be empty.
func (s *session) requiredStatement(parent Command) (ir.Statement, error) {
	off := s.r.Position()
	stmt, err := s.statement()
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(off).
			Command(parent.String()).
			Detail("missing statement").
			Build()
	}
	return stmt, nil
}

func (s *session) block() (ir.Statement, error) {
	saved := s.symbols
	defer func() { s.symbols = saved }()

	symbols, err := s.symbolTable()
	if err != nil {
		return nil, err
	}
	count, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	stmts := make([]ir.Statement, 0, count)
	for range count {
		stmt, err := s.requiredStatement(CmdBlock)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	kindOff := s.r.Position()
	kind, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	if !ir.BlockKind(kind).Valid() {
		return nil, errors.InvalidData(errors.PhaseDecode, kindOff, "unknown block kind")
	}
	return ir.NewBlock(stmts, ir.BlockKind(kind), symbols), nil
}

func (s *session) doStatement() (ir.Statement, error) {
	body, err := s.requiredStatement(CmdDo)
	if err != nil {
		return nil, err
	}
	test, err := s.requiredExpression(CmdDo)
	if err != nil {
		return nil, err
	}
	return ir.NewDoStatement(body, test), nil
}

func (s *session) forStatement() (ir.Statement, error) {
	saved := s.symbols
	defer func() { s.symbols = saved }()

	symbols, err := s.symbolTable()
	if err != nil {
		return nil, err
	}
	init, err := s.statement()
	if err != nil {
		return nil, err
	}
	test, err := s.expression()
	if err != nil {
		return nil, err
	}
	next, err := s.expression()
	if err != nil {
		return nil, err
	}
	body, err := s.requiredStatement(CmdFor)
	if err != nil {
		return nil, err
	}
	unroll := ir.AnalyzeLoopUnroll(init, test, next, body)
	return ir.NewForStatement(init, test, next, body, unroll, symbols), nil
}

func (s *session) ifStatement() (ir.Statement, error) {
	isStatic, err := s.r.ReadBool()
	if err != nil {
		return nil, err
	}
	test, err := s.requiredExpression(CmdIf)
	if err != nil {
		return nil, err
	}
	ifTrue, err := s.requiredStatement(CmdIf)
	if err != nil {
		return nil, err
	}
	ifFalse, err := s.statement()
	if err != nil {
		return nil, err
	}
	return ir.NewIfStatement(isStatic, test, ifTrue, ifFalse), nil
}

func (s *session) switchStatement() (ir.Statement, error) {
	isStatic, err := s.r.ReadBool()
	if err != nil {
		return nil, err
	}

	saved := s.symbols
	defer func() { s.symbols = saved }()

	symbols, err := s.symbolTable()
	if err != nil {
		return nil, err
	}
	value, err := s.requiredExpression(CmdSwitch)
	if err != nil {
		return nil, err
	}
	count, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	cases := make([]*ir.SwitchCase, 0, count)
	for range count {
		isDefault, err := s.r.ReadBool()
		if err != nil {
			return nil, err
		}
		var c *ir.SwitchCase
		if isDefault {
			stmt, err := s.requiredStatement(CmdSwitch)
			if err != nil {
				return nil, err
			}
			c = ir.NewDefaultSwitchCase(stmt)
		} else {
			v, err := s.r.ReadS32()
			if err != nil {
				return nil, err
			}
			stmt, err := s.requiredStatement(CmdSwitch)
			if err != nil {
				return nil, err
			}
			c = ir.NewSwitchCase(v, stmt)
		}
		s.node()
		cases = append(cases, c)
	}
	return ir.NewSwitchStatement(isStatic, value, cases, symbols), nil
}

func (s *session) varDeclaration() (ir.Statement, error) {
	v, err := s.variableRef(false)
	if err != nil {
		return nil, err
	}
	base, err := s.typ()
	if err != nil {
		return nil, err
	}
	arraySize, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	value, err := s.expression()
	if err != nil {
		return nil, err
	}
	return ir.NewVarDeclaration(v, base, int(arraySize), value), nil
}
