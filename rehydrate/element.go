package rehydrate

import (
	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
)

// elements decodes the element list up to its terminator.
func (s *session) elements() ([]ir.ProgramElement, error) {
	cmd, off, err := s.command()
	if err != nil {
		return nil, err
	}
	if cmd != CmdElements {
		return nil, errors.UnknownCommand(off, "element list", byte(cmd))
	}
	var result []ir.ProgramElement
	for {
		elem, err := s.element()
		if err != nil {
			return nil, err
		}
		if elem == nil {
			return result, nil
		}
		result = append(result, elem)
	}
}

// element decodes one top-level element; the list terminator yields nil.
func (s *session) element() (ir.ProgramElement, error) {
	cmd, off, err := s.command()
	if err != nil {
		return nil, err
	}
	switch cmd {
	case CmdFunctionDefinition:
		decl, err := s.functionRef(false)
		if err != nil {
			return nil, err
		}
		body, err := s.requiredStatement(cmd)
		if err != nil {
			return nil, err
		}
		return ir.NewFunctionDefinition(decl, body), nil

	case CmdFunctionPrototype:
		decl, err := s.functionRef(false)
		if err != nil {
			return nil, err
		}
		return ir.NewFunctionPrototype(decl), nil

	case CmdGlobalVar:
		stmtOff := s.r.Position()
		stmt, err := s.requiredStatement(cmd)
		if err != nil {
			return nil, err
		}
		decl, ok := stmt.(*ir.VarDeclaration)
		if !ok {
			return nil, errors.KindMismatch(errors.PhaseDecode, stmtOff, "variable declaration", stmt.Description())
		}
		return ir.NewGlobalVarDeclaration(decl), nil

	case CmdInterfaceBlock:
		symOff := s.r.Position()
		sym, err := s.symbol()
		if err != nil {
			return nil, err
		}
		v, ok := sym.(*ir.Variable)
		if !ok {
			return nil, errors.KindMismatch(errors.PhaseDecode, symOff, "variable", sym.SymbolKind().String())
		}
		typeName, err := s.readString()
		if err != nil {
			return nil, err
		}
		instanceName, err := s.readString()
		if err != nil {
			return nil, err
		}
		arraySize, err := s.r.ReadU8()
		if err != nil {
			return nil, err
		}
		return ir.NewInterfaceBlock(v, typeName, instanceName, int(arraySize)), nil

	case CmdStructDefinition:
		typ, err := s.typ()
		if err != nil {
			return nil, err
		}
		return ir.NewStructDefinition(typ), nil

	case CmdSharedFunction:
		return s.sharedFunction(off)

	case CmdElementsComplete:
		return nil, nil
	}
	return nil, errors.UnknownCommand(off, "element", byte(cmd))
}

// sharedFunction decodes a function whose declaration is introduced
// alongside its definition: parameters, then the declaration, then the
// definition element itself.
func (s *session) sharedFunction(off int) (ir.ProgramElement, error) {
	count, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	for range count {
		paramOff := s.r.Position()
		sym, err := s.symbol()
		if err != nil {
			return nil, err
		}
		if _, ok := sym.(*ir.Variable); !ok {
			return nil, errors.KindMismatch(errors.PhaseDecode, paramOff, "parameter variable", sym.SymbolKind().String())
		}
	}
	declOff := s.r.Position()
	sym, err := s.symbol()
	if err != nil {
		return nil, err
	}
	if _, ok := sym.(*ir.FunctionDeclaration); !ok {
		return nil, errors.KindMismatch(errors.PhaseDecode, declOff, "function", sym.SymbolKind().String())
	}
	elemOff := s.r.Position()
	elem, err := s.element()
	if err != nil {
		return nil, err
	}
	def, ok := elem.(*ir.FunctionDefinition)
	if !ok {
		got := "end of elements"
		if elem != nil {
			got = elem.ElementKind().String()
		}
		return nil, errors.New(errors.PhaseDecode, errors.KindKindMismatch).
			Offset(elemOff).
			Command(CmdSharedFunction.String()).
			Detail("shared function at offset %d must wrap a function definition, got %s", off, got).
			Build()
	}
	return def, nil
}
