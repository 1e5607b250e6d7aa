package dehydrate

import (
	"fmt"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
	"github.com/wippyai/sksl-runtime/rehydrate"
)

func (w *writer) elements(elems []ir.ProgramElement) error {
	w.cmd(rehydrate.CmdElements)
	for _, e := range elems {
		if err := w.element(e); err != nil {
			return err
		}
	}
	w.cmd(rehydrate.CmdElementsComplete)
	return nil
}

func (w *writer) element(e ir.ProgramElement) error {
	switch e := e.(type) {
	case *ir.FunctionDefinition:
		decl := e.Declaration()
		if _, ok := w.ids[decl]; !ok {
			if err := w.sharedFunction(decl); err != nil {
				return err
			}
		}
		w.cmd(rehydrate.CmdFunctionDefinition)
		if err := w.localRef(decl); err != nil {
			return err
		}
		return w.statement(e.Body())
	case *ir.FunctionPrototype:
		w.cmd(rehydrate.CmdFunctionPrototype)
		return w.localRef(e.Declaration())
	case *ir.GlobalVarDeclaration:
		w.cmd(rehydrate.CmdGlobalVar)
		return w.statement(e.Declaration())
	case *ir.InterfaceBlock:
		w.cmd(rehydrate.CmdInterfaceBlock)
		if err := w.symbol(e.Variable()); err != nil {
			return err
		}
		if err := w.str(e.TypeName()); err != nil {
			return err
		}
		if err := w.str(e.InstanceName()); err != nil {
			return err
		}
		n, err := narrow[uint8](e.ArraySize(), "interface block array size")
		if err != nil {
			return err
		}
		w.body.WriteU8(n)
		return nil
	case *ir.StructDefinition:
		w.cmd(rehydrate.CmdStructDefinition)
		return w.symbol(e.Type())
	}
	return errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("cannot encode element %T", e))
}

// sharedFunction introduces a declaration that no scope owns: its
// parameters, then the declaration itself. The definition element follows.
func (w *writer) sharedFunction(decl *ir.FunctionDeclaration) error {
	w.cmd(rehydrate.CmdSharedFunction)
	n, err := narrow[uint8](len(decl.Parameters()), "parameter count")
	if err != nil {
		return err
	}
	w.body.WriteU8(n)
	for _, p := range decl.Parameters() {
		if err := w.symbol(p); err != nil {
			return err
		}
	}
	return w.symbol(decl)
}
