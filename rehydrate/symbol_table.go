package rehydrate

import (
	"fmt"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
)

// symbolTable decodes a scope and installs it as the current scope. It
// returns nil, leaving the current scope unchanged, for the Void tag.
// Callers restore the previous scope when the construct ends.
func (s *session) symbolTable() (*ir.SymbolTable, error) {
	cmd, off, err := s.command()
	if err != nil {
		return nil, err
	}
	switch cmd {
	case CmdVoid:
		return nil, nil
	case CmdSymbolTable:
	default:
		return nil, errors.UnknownCommand(off, "symbol table", byte(cmd))
	}

	builtin, err := s.r.ReadBool()
	if err != nil {
		return nil, err
	}
	ownedCount, err := s.r.ReadU16()
	if err != nil {
		return nil, err
	}
	table := ir.NewSymbolTable(s.symbols, builtin)
	s.symbols = table

	debugf("owned symbols at offset %d", off)
	owned := make([]ir.Symbol, 0, ownedCount)
	for range ownedCount {
		sym, err := s.symbol()
		if err != nil {
			return nil, err
		}
		debugf("  %s", sym.Description())
		owned = append(owned, sym)
	}

	debugf("visible symbols at offset %d", s.r.Position())
	visibleCount, err := s.r.ReadU16()
	if err != nil {
		return nil, err
	}
	for range visibleCount {
		entryOff := s.r.Position()
		index, err := s.r.ReadU16()
		if err != nil {
			return nil, err
		}
		if index != BuiltinSymbol {
			if int(index) >= len(owned) {
				return nil, errors.MalformedScope(entryOff,
					fmt.Sprintf("visible index %d out of range for %d owned symbols", index, len(owned)))
			}
			debugf("  %s", owned[index].Description())
			table.AddWithoutOwnership(owned[index])
			continue
		}
		name, err := s.readString()
		if err != nil {
			return nil, err
		}
		sym := table.Root().Lookup(name)
		if sym == nil {
			return nil, errors.UnresolvedBuiltin(entryOff, name)
		}
		debugf("  (builtin) %s", sym.Description())
		table.AddWithoutOwnership(sym)
	}
	return table, nil
}
