package dehydrate

import (
	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
	"github.com/wippyai/sksl-runtime/rehydrate"
)

func (w *writer) layout(l ir.Layout) error {
	switch {
	case l.IsDefault():
		w.cmd(rehydrate.CmdDefaultLayout)
		return nil
	case l.IsBuiltinOnly():
		b, err := narrow[int16](l.Builtin, "layout builtin")
		if err != nil {
			return err
		}
		w.cmd(rehydrate.CmdBuiltinLayout)
		w.body.WriteS16(b)
		return nil
	}

	w.cmd(rehydrate.CmdLayout)
	w.body.WriteU32(l.Flags)
	fields := []struct {
		v    int32
		wide bool
		name string
	}{
		{l.Location, false, "layout location"},
		{l.Offset, true, "layout offset"},
		{l.Binding, true, "layout binding"},
		{l.Index, false, "layout index"},
		{l.Set, false, "layout set"},
		{l.Builtin, true, "layout builtin"},
		{l.InputAttachmentIndex, false, "layout input attachment index"},
	}
	for _, f := range fields {
		if f.wide {
			v, err := narrow[int16](f.v, f.name)
			if err != nil {
				return err
			}
			w.body.WriteS16(v)
			continue
		}
		v, err := narrow[int8](f.v, f.name)
		if err != nil {
			return err
		}
		w.body.WriteS8(v)
	}
	return nil
}

// modifiers picks the smallest form that carries m.
func (w *writer) modifiers(m *ir.Modifiers) error {
	if m == nil || m.IsDefault() {
		w.cmd(rehydrate.CmdDefaultModifiers)
		return nil
	}
	if m.Flags >= 0 && m.Flags <= 0xFF {
		w.cmd(rehydrate.CmdModifiers8Bit)
		if err := w.layout(m.Layout); err != nil {
			return err
		}
		w.body.WriteU8(uint8(m.Flags))
		return nil
	}
	w.cmd(rehydrate.CmdModifiers)
	if err := w.layout(m.Layout); err != nil {
		return err
	}
	w.body.WriteS32(m.Flags)
	return nil
}

// symbolTable writes t, or Void for nil. Owned symbols reachable inline
// from another owned symbol are written inside that symbol. Bound symbols
// that are neither written here nor builtin are added as SymbolRef entries
// so the visible list can index them.
func (w *writer) symbolTable(t *ir.SymbolTable) error {
	if t == nil {
		w.cmd(rehydrate.CmdVoid)
		return nil
	}
	w.cmd(rehydrate.CmdSymbolTable)
	w.body.WriteBool(t.IsBuiltin())

	inner := innerSymbols(t.Owned())
	var entries []ir.Symbol
	index := make(map[ir.Symbol]int)
	for _, sym := range t.Owned() {
		if inner[sym] {
			continue
		}
		index[sym] = len(entries)
		entries = append(entries, sym)
	}
	ownedEntries := len(entries)
	for _, b := range t.Bindings() {
		if _, ok := index[b.Symbol]; ok || w.isBuiltin(b.Symbol) {
			continue
		}
		index[b.Symbol] = len(entries)
		entries = append(entries, b.Symbol)
	}

	count, err := narrow[uint16](len(entries), "owned symbol count")
	if err != nil {
		return err
	}
	w.body.WriteU16(count)
	for i, sym := range entries {
		if i < ownedEntries {
			if err := w.symbol(sym); err != nil {
				return err
			}
			continue
		}
		w.cmd(rehydrate.CmdSymbolRef)
		if err := w.localRef(sym); err != nil {
			return err
		}
	}

	visible, err := narrow[uint16](len(t.Bindings()), "visible symbol count")
	if err != nil {
		return err
	}
	w.body.WriteU16(visible)
	for _, b := range t.Bindings() {
		if i, ok := index[b.Symbol]; ok {
			w.body.WriteU16(uint16(i))
			continue
		}
		w.body.WriteU16(rehydrate.BuiltinSymbol)
		if err := w.str(b.Symbol.Name()); err != nil {
			return err
		}
	}
	return nil
}

// innerSymbols returns the members of owned that are reachable inline from
// another member.
func innerSymbols(owned []ir.Symbol) map[ir.Symbol]bool {
	set := make(map[ir.Symbol]bool, len(owned))
	for _, s := range owned {
		set[s] = true
	}
	inner := make(map[ir.Symbol]bool)
	var visit func(ir.Symbol)
	visit = func(s ir.Symbol) {
		for _, c := range inlineChildren(s) {
			if set[c] && !inner[c] {
				inner[c] = true
				visit(c)
			}
		}
	}
	for _, s := range owned {
		visit(s)
	}
	return inner
}

// inlineChildren lists the symbols written inside the definition of s.
func inlineChildren(s ir.Symbol) []ir.Symbol {
	switch s := s.(type) {
	case *ir.FunctionDeclaration:
		out := make([]ir.Symbol, 0, len(s.Parameters())+1)
		for _, p := range s.Parameters() {
			out = append(out, p)
		}
		return append(out, s.ReturnType())
	case *ir.Variable:
		return []ir.Symbol{s.Type()}
	case *ir.Type:
		if s.IsArray() {
			return []ir.Symbol{s.ComponentType()}
		}
		if s.IsStruct() {
			out := make([]ir.Symbol, 0, len(s.Fields()))
			for _, f := range s.Fields() {
				out = append(out, f.Type)
			}
			return out
		}
	}
	return nil
}

// symbol writes the definition of sym, or a SymbolRef when it has already
// been written or is a builtin.
func (w *writer) symbol(sym ir.Symbol) error {
	if _, ok := w.ids[sym]; ok || w.isBuiltin(sym) {
		w.cmd(rehydrate.CmdSymbolRef)
		return w.ref(sym)
	}
	switch sym := sym.(type) {
	case *ir.Type:
		return w.typeDefinition(sym)
	case *ir.FunctionDeclaration:
		return w.functionDeclaration(sym)
	case *ir.Variable:
		return w.variable(sym)
	case *ir.Field:
		return w.field(sym)
	}
	return errors.InvalidInput(errors.PhaseEncode, "unknown symbol kind "+sym.SymbolKind().String())
}

func (w *writer) typeDefinition(t *ir.Type) error {
	switch {
	case t.IsArray():
		w.cmd(rehydrate.CmdArrayType)
		if err := w.claimID(t); err != nil {
			return err
		}
		if err := w.symbol(t.ComponentType()); err != nil {
			return err
		}
		n, err := narrow[int8](t.ArraySize(), "array size")
		if err != nil {
			return err
		}
		w.body.WriteS8(n)
		return nil

	case t.IsStruct():
		w.cmd(rehydrate.CmdStructType)
		if err := w.claimID(t); err != nil {
			return err
		}
		if err := w.str(t.Name()); err != nil {
			return err
		}
		n, err := narrow[uint8](len(t.Fields()), "struct field count")
		if err != nil {
			return err
		}
		w.body.WriteU8(n)
		for _, f := range t.Fields() {
			if err := w.modifiers(f.Modifiers); err != nil {
				return err
			}
			if err := w.str(f.Name); err != nil {
				return err
			}
			if err := w.symbol(f.Type); err != nil {
				return err
			}
		}
		w.body.WriteBool(t.IsInterfaceBlock())
		return nil
	}
	return errors.New(errors.PhaseEncode, errors.KindUnresolvedBuiltin).
		Value(t.Name()).
		Detail("type %q is neither builtin nor definable", t.Name()).
		Build()
}

func (w *writer) functionDeclaration(f *ir.FunctionDeclaration) error {
	w.cmd(rehydrate.CmdFunctionDeclaration)
	if err := w.claimID(f); err != nil {
		return err
	}
	if err := w.modifiers(f.Modifiers()); err != nil {
		return err
	}
	if err := w.str(f.Name()); err != nil {
		return err
	}
	n, err := narrow[uint8](len(f.Parameters()), "parameter count")
	if err != nil {
		return err
	}
	w.body.WriteU8(n)
	for _, p := range f.Parameters() {
		if err := w.symbol(p); err != nil {
			return err
		}
	}
	return w.symbol(f.ReturnType())
}

func (w *writer) variable(v *ir.Variable) error {
	w.cmd(rehydrate.CmdVariable)
	if err := w.claimID(v); err != nil {
		return err
	}
	if err := w.modifiers(v.Modifiers()); err != nil {
		return err
	}
	if err := w.str(v.Name()); err != nil {
		return err
	}
	if err := w.symbol(v.Type()); err != nil {
		return err
	}
	w.body.WriteU8(uint8(v.Storage()))
	return nil
}

func (w *writer) field(f *ir.Field) error {
	w.cmd(rehydrate.CmdField)
	if err := w.localRef(f.Owner()); err != nil {
		return err
	}
	n, err := narrow[uint8](f.Index(), "field index")
	if err != nil {
		return err
	}
	w.body.WriteU8(n)
	return nil
}
