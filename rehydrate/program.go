package rehydrate

import (
	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
)

func (s *session) program() (*ir.Program, error) {
	cmd, off, err := s.command()
	if err != nil {
		return nil, err
	}
	if cmd != CmdProgram {
		return nil, errors.UnknownCommand(off, "program", byte(cmd))
	}

	kindOff := s.r.Position()
	kind, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	if !ir.ProgramKind(kind).Valid() {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(kindOff).
			Value(kind).
			Detail("unknown program kind %d", kind).
			Build()
	}
	versionOff := s.r.Position()
	version, err := s.r.ReadU8()
	if err != nil {
		return nil, err
	}
	if !ir.Version(version).Valid() {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(versionOff).
			Value(version).
			Detail("unknown language version %d", version).
			Build()
	}

	// Rehydrated programs are assumed well formed, so the most permissive
	// version is allowed regardless of what they require.
	s.config = &ir.ProgramConfig{
		Settings:        ir.ProgramSettings{MaxVersionAllowed: ir.Version300},
		Kind:            ir.ProgramKind(kind),
		RequiredVersion: ir.Version(version),
	}
	s.symbols = s.lang.Root(s.config.Kind)
	parent := s.symbols

	rootOff := s.r.Position()
	root, err := s.symbolTable()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.MalformedScope(rootOff, "program has no root symbol table")
	}
	elements, err := s.elements()
	if err != nil {
		return nil, err
	}
	flip, err := s.r.ReadBool()
	if err != nil {
		return nil, err
	}

	prog := &ir.Program{
		Config:    s.config,
		Context:   s.lang,
		Symbols:   root,
		Modifiers: s.modPool,
		Pool:      s.pool.Detach(),
		Elements:  elements,
		Inputs:    ir.ProgramInputs{UseFlipRTUniform: flip},
	}
	s.symbols = parent
	return prog, nil
}

func (s *session) module() (*ir.Module, error) {
	parent := s.symbols
	rootOff := s.r.Position()
	root, err := s.symbolTable()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.MalformedScope(rootOff, "module has no root symbol table")
	}
	elements, err := s.elements()
	if err != nil {
		return nil, err
	}
	mod := &ir.Module{
		Symbols:   root,
		Modifiers: s.modPool,
		Pool:      s.pool.Detach(),
		Elements:  elements,
	}
	s.symbols = parent
	return mod, nil
}
