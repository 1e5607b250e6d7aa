package rehydrate

import (
	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
)

func (s *session) layout() (ir.Layout, error) {
	cmd, off, err := s.command()
	if err != nil {
		return ir.Layout{}, err
	}
	switch cmd {
	case CmdBuiltinLayout:
		builtin, err := s.r.ReadS16()
		if err != nil {
			return ir.Layout{}, err
		}
		return ir.BuiltinLayout(builtin), nil
	case CmdDefaultLayout:
		return ir.DefaultLayout(), nil
	case CmdLayout:
		var l ir.Layout
		if l.Flags, err = s.r.ReadU32(); err != nil {
			return ir.Layout{}, err
		}
		fields := []struct {
			dst  *int32
			read func() (int32, error)
		}{
			{&l.Location, s.r.ReadS8},
			{&l.Offset, s.r.ReadS16},
			{&l.Binding, s.r.ReadS16},
			{&l.Index, s.r.ReadS8},
			{&l.Set, s.r.ReadS8},
			{&l.Builtin, s.r.ReadS16},
			{&l.InputAttachmentIndex, s.r.ReadS8},
		}
		for _, f := range fields {
			if *f.dst, err = f.read(); err != nil {
				return ir.Layout{}, err
			}
		}
		return l, nil
	}
	return ir.Layout{}, errors.UnknownCommand(off, "layout", byte(cmd))
}

// modifiers decodes and interns a Modifiers value.
func (s *session) modifiers() (*ir.Modifiers, error) {
	cmd, off, err := s.command()
	if err != nil {
		return nil, err
	}
	var m ir.Modifiers
	switch cmd {
	case CmdDefaultModifiers:
		m = ir.DefaultModifiers()
	case CmdModifiers8Bit:
		if m.Layout, err = s.layout(); err != nil {
			return nil, err
		}
		flags, err := s.r.ReadU8()
		if err != nil {
			return nil, err
		}
		m.Flags = int32(flags)
	case CmdModifiers:
		if m.Layout, err = s.layout(); err != nil {
			return nil, err
		}
		if m.Flags, err = s.r.ReadS32(); err != nil {
			return nil, err
		}
	default:
		return nil, errors.UnknownCommand(off, "modifiers", byte(cmd))
	}
	return s.modPool.Add(m), nil
}

// symbol decodes a symbol definition or a reference to an existing one.
// Newly created symbols are owned by the current scope.
func (s *session) symbol() (ir.Symbol, error) {
	cmd, off, err := s.command()
	if err != nil {
		return nil, err
	}
	switch cmd {
	case CmdArrayType:
		return s.arrayType(off)
	case CmdFunctionDeclaration:
		return s.functionDeclaration(off)
	case CmdField:
		return s.field(off)
	case CmdStructType:
		return s.structType(off)
	case CmdSymbolRef:
		sym, _, err := s.possiblyBuiltinRef()
		return sym, err
	case CmdVariable:
		return s.variable(off)
	}
	return nil, errors.UnknownCommand(off, "symbol", byte(cmd))
}

// typ decodes a symbol that must be a type.
func (s *session) typ() (*ir.Type, error) {
	off := s.r.Position()
	sym, err := s.symbol()
	if err != nil {
		return nil, err
	}
	t, ok := sym.(*ir.Type)
	if !ok {
		return nil, errors.KindMismatch(errors.PhaseDecode, off, "type", sym.SymbolKind().String())
	}
	return t, nil
}

func (s *session) arrayType(off int) (ir.Symbol, error) {
	id, err := s.claimID()
	if err != nil {
		return nil, err
	}
	component, err := s.typ()
	if err != nil {
		return nil, err
	}
	countOff := s.r.Position()
	count, err := s.r.ReadS8()
	if err != nil {
		return nil, err
	}
	if count < 0 && count != ir.UnsizedArray {
		return nil, errors.InvalidData(errors.PhaseDecode, countOff, "negative array size")
	}
	t := ir.MakeArrayType(component.ArrayName(int(count)), component, int(count))
	if err := s.own(off, t); err != nil {
		return nil, err
	}
	s.register(id, t)
	return t, nil
}

func (s *session) functionDeclaration(off int) (ir.Symbol, error) {
	id, err := s.claimID()
	if err != nil {
		return nil, err
	}
	mods, err := s.modifiers()
	if err != nil {
		return nil, err
	}
	name, err := s.readString()
	if err != nil {
		return nil, err
	}
	count, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	params := make([]*ir.Variable, 0, count)
	for range count {
		paramOff := s.r.Position()
		sym, err := s.symbol()
		if err != nil {
			return nil, err
		}
		v, ok := sym.(*ir.Variable)
		if !ok {
			return nil, errors.KindMismatch(errors.PhaseDecode, paramOff, "parameter variable", sym.SymbolKind().String())
		}
		params = append(params, v)
	}
	ret, err := s.typ()
	if err != nil {
		return nil, err
	}
	decl := ir.NewFunctionDeclaration(mods, name, params, ret, s.symbols.IsBuiltin())
	if err := s.own(off, decl); err != nil {
		return nil, err
	}
	s.register(id, decl)
	return decl, nil
}

func (s *session) field(off int) (ir.Symbol, error) {
	owner, err := s.variableRef(false)
	if err != nil {
		return nil, err
	}
	indexOff := s.r.Position()
	index, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	fields := owner.Type().ComponentType().Fields()
	if int(index) >= len(fields) {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(indexOff).
			Command(CmdField.String()).
			Value(index).
			Detail("field index %d out of range for %s", index, owner.Type().Name()).
			Build()
	}
	f := ir.NewField(owner, int(index))
	if err := s.own(off, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *session) structType(off int) (ir.Symbol, error) {
	id, err := s.claimID()
	if err != nil {
		return nil, err
	}
	name, err := s.readString()
	if err != nil {
		return nil, err
	}
	count, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	fields := make([]ir.StructField, 0, count)
	for range count {
		mods, err := s.modifiers()
		if err != nil {
			return nil, err
		}
		fieldName, err := s.readString()
		if err != nil {
			return nil, err
		}
		ft, err := s.typ()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ir.StructField{Modifiers: mods, Name: fieldName, Type: ft})
	}
	interfaceBlock, err := s.r.ReadBool()
	if err != nil {
		return nil, err
	}
	t := ir.MakeStructType(name, fields, interfaceBlock)
	if err := s.own(off, t); err != nil {
		return nil, err
	}
	s.register(id, t)
	return t, nil
}

func (s *session) variable(off int) (ir.Symbol, error) {
	id, err := s.claimID()
	if err != nil {
		return nil, err
	}
	mods, err := s.modifiers()
	if err != nil {
		return nil, err
	}
	name, err := s.readString()
	if err != nil {
		return nil, err
	}
	t, err := s.typ()
	if err != nil {
		return nil, err
	}
	storageOff := s.r.Position()
	storage, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	if !ir.VariableStorage(storage).Valid() {
		return nil, errors.InvalidData(errors.PhaseDecode, storageOff, "unknown variable storage")
	}
	v := ir.NewVariable(mods, name, t, s.symbols.IsBuiltin(), ir.VariableStorage(storage))
	if err := s.own(off, v); err != nil {
		return nil, err
	}
	s.register(id, v)
	return v, nil
}
