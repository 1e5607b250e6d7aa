// Package dehydrate writes programs and modules in the artifact format read
// by package rehydrate.
//
// The encoder emits a canonical form: symbols that are reachable inline from
// another symbol owned by the same scope are written inline rather than as
// separate scope entries, ids are assigned in stream order, and strings are
// interned in first-use order. Decoding a canonical artifact and encoding
// the result reproduces the artifact byte for byte.
package dehydrate

import (
	"github.com/golang/snappy"
	"go.uber.org/zap"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/internal/binary"
	"github.com/wippyai/sksl-runtime/ir"
	"github.com/wippyai/sksl-runtime/rehydrate"
)

// Options configures an Encoder.
type Options struct {
	// Logger receives encode records. Nil disables logging.
	Logger *zap.Logger
}

// Encoder serializes IR. It holds no per-call state and may be shared.
type Encoder struct {
	log *zap.Logger
}

// NewEncoder creates an Encoder.
func NewEncoder(opts Options) *Encoder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Encoder{log: log}
}

// Encode serializes p with default options.
func Encode(p *ir.Program) ([]byte, error) {
	return NewEncoder(Options{}).Encode(p)
}

// EncodeCompressed serializes p and snappy-compresses the result.
func EncodeCompressed(p *ir.Program) ([]byte, error) {
	data, err := Encode(p)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, data), nil
}

// Encode serializes a program.
func (e *Encoder) Encode(p *ir.Program) ([]byte, error) {
	if p == nil || p.Config == nil || p.Symbols == nil {
		return nil, errors.InvalidInput(errors.PhaseEncode, "program needs a config and a root symbol table")
	}
	w := newWriter(p.Symbols.Root())

	w.cmd(rehydrate.CmdProgram)
	w.body.WriteU8(uint8(p.Config.Kind))
	w.body.WriteU8(uint8(p.Config.RequiredVersion))
	if err := w.symbolTable(p.Symbols); err != nil {
		return nil, err
	}
	if err := w.elements(p.Elements); err != nil {
		return nil, err
	}
	w.body.WriteBool(p.Inputs.UseFlipRTUniform)

	out, err := w.bytes()
	if err != nil {
		return nil, err
	}
	e.log.Debug("dehydrated program",
		zap.Stringer("kind", p.Config.Kind),
		zap.Int("bytes", len(out)),
		zap.Int("strings", w.strings.count()),
		zap.Int("ids", w.nextID))
	return out, nil
}

// EncodeModule serializes a module. Its scope may reference its own
// symbols and builtins from the outermost scope only.
func (e *Encoder) EncodeModule(m *ir.Module) ([]byte, error) {
	if m == nil || m.Symbols == nil {
		return nil, errors.InvalidInput(errors.PhaseEncode, "module needs a root symbol table")
	}
	w := newWriter(m.Symbols.Root())
	if err := w.symbolTable(m.Symbols); err != nil {
		return nil, err
	}
	if err := w.elements(m.Elements); err != nil {
		return nil, err
	}

	out, err := w.bytes()
	if err != nil {
		return nil, err
	}
	e.log.Debug("dehydrated module", zap.Int("bytes", len(out)), zap.Int("ids", w.nextID))
	return out, nil
}

// writer is the state of one encode.
type writer struct {
	body    *binary.Writer
	strings *stringBlob
	root    *ir.SymbolTable
	ids     map[ir.Symbol]uint16
	nextID  int
}

func newWriter(root *ir.SymbolTable) *writer {
	return &writer{
		body:    binary.NewWriter(),
		strings: newStringBlob(),
		root:    root,
		ids:     make(map[ir.Symbol]uint16),
	}
}

func (w *writer) cmd(c rehydrate.Command) { w.body.WriteU8(uint8(c)) }

// bytes prepends the header to the command stream.
func (w *writer) bytes() ([]byte, error) {
	blob := w.strings.bytes()
	n, err := narrow[uint16](len(blob), "string blob length")
	if err != nil {
		return nil, err
	}
	out := binary.NewWriter()
	out.WriteU16(rehydrate.FormatVersion)
	out.WriteU16(n)
	out.WriteBytes(blob)
	out.WriteBytes(w.body.Bytes())
	return out.Bytes(), nil
}

func (w *writer) str(s string) error {
	off, err := w.strings.intern(s)
	if err != nil {
		return err
	}
	w.body.WriteU16(off)
	return nil
}

// claimID assigns the next id to sym and writes it.
func (w *writer) claimID(sym ir.Symbol) error {
	id, err := narrow[uint16](w.nextID, "symbol id")
	if err != nil {
		return err
	}
	if id == rehydrate.BuiltinSymbol {
		return errors.Overflow(errors.PhaseEncode, w.nextID, "symbol id")
	}
	w.nextID++
	w.ids[sym] = id
	w.body.WriteU16(id)
	return nil
}

// isBuiltin reports whether sym can be written as a builtin name: the
// outermost scope resolves its name to sym, or sym is one of the overloads
// bound there.
func (w *writer) isBuiltin(sym ir.Symbol) bool {
	if w.root == nil {
		return false
	}
	if w.root.Lookup(sym.Name()) == sym {
		return true
	}
	if fn, ok := sym.(*ir.FunctionDeclaration); ok {
		for _, o := range w.root.Overloads(fn.Name()) {
			if o == fn {
				return true
			}
		}
	}
	return false
}

// ref writes a reference token that may name a builtin.
func (w *writer) ref(sym ir.Symbol) error {
	if id, ok := w.ids[sym]; ok {
		w.body.WriteU16(id)
		return nil
	}
	if w.isBuiltin(sym) {
		w.body.WriteU16(rehydrate.BuiltinSymbol)
		return w.str(sym.Name())
	}
	return unwritten(sym)
}

// localRef writes a reference token that must name an already written
// symbol.
func (w *writer) localRef(sym ir.Symbol) error {
	id, ok := w.ids[sym]
	if !ok {
		return unwritten(sym)
	}
	w.body.WriteU16(id)
	return nil
}

func unwritten(sym ir.Symbol) error {
	return errors.New(errors.PhaseEncode, errors.KindUnresolvedID).
		Value(sym.Name()).
		Detail("%s %q is referenced before it is written", sym.SymbolKind(), sym.Name()).
		Build()
}
