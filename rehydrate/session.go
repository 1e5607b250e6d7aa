package rehydrate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/internal/binary"
	"github.com/wippyai/sksl-runtime/ir"
)

// Options configures a Decoder.
type Options struct {
	// Logger receives session start/end records. Nil uses the package logger.
	Logger *zap.Logger
}

// Decoder rehydrates artifacts against one language Context. A Decoder is
// stateless; every call runs an independent session, so one Decoder may be
// used from several goroutines.
type Decoder struct {
	lang *ir.Context
	log  *zap.Logger
}

// NewDecoder creates a Decoder for lang.
func NewDecoder(lang *ir.Context, opts Options) *Decoder {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Decoder{lang: lang, log: log}
}

// Decode rehydrates a program artifact with default options.
func Decode(lang *ir.Context, data []byte) (*ir.Program, error) {
	return NewDecoder(lang, Options{}).Decode(data)
}

// Decode rehydrates a program artifact. On any contract violation it
// returns a *errors.Error and no program.
func (d *Decoder) Decode(data []byte) (*ir.Program, error) {
	if d.lang == nil {
		return nil, errors.InvalidInput(errors.PhaseDecode, "decoder requires a language context")
	}
	s := d.newSession(data)
	d.log.Debug("rehydrate program", zap.Int("bytes", len(data)))

	if err := s.header(); err != nil {
		return nil, err
	}
	prog, err := s.program()
	if err != nil {
		return nil, err
	}
	if err := s.finish(); err != nil {
		return nil, err
	}

	d.log.Debug("rehydrated program",
		zap.Stringer("kind", prog.Config.Kind),
		zap.Stringer("version", prog.Config.RequiredVersion),
		zap.Int("elements", len(prog.Elements)),
		zap.Int("symbols", len(prog.Pool.Symbols())),
		zap.Int64("nodes", prog.Pool.NodeCount()))
	return prog, nil
}

// DecodeModule rehydrates a module artifact whose root scope is nested in
// parent. Module artifacts carry the header, a root scope and an element
// list, without the program tag or trailing input flags.
func (d *Decoder) DecodeModule(data []byte, parent *ir.SymbolTable) (*ir.Module, error) {
	if d.lang == nil {
		return nil, errors.InvalidInput(errors.PhaseDecode, "decoder requires a language context")
	}
	if parent == nil {
		return nil, errors.InvalidInput(errors.PhaseDecode, "module decode requires a parent symbol table")
	}
	s := d.newSession(data)
	s.symbols = parent
	d.log.Debug("rehydrate module", zap.Int("bytes", len(data)))

	if err := s.header(); err != nil {
		return nil, err
	}
	mod, err := s.module()
	if err != nil {
		return nil, err
	}
	if err := s.finish(); err != nil {
		return nil, err
	}

	d.log.Debug("rehydrated module",
		zap.Int("elements", len(mod.Elements)),
		zap.Int("symbols", len(mod.Pool.Symbols())))
	return mod, nil
}

// session is the state of one decode: a private cursor, id table, scope
// stack and modifiers pool. Only the Context is shared.
type session struct {
	lang    *ir.Context
	r       *binary.Reader
	strings *stringTable
	symbols *ir.SymbolTable
	modPool *ir.ModifiersPool
	config  *ir.ProgramConfig
	pool    *ir.Pool
	ids     map[uint16]ir.Symbol
	lastID  int
}

func (d *Decoder) newSession(data []byte) *session {
	return &session{
		lang:    d.lang,
		r:       binary.NewReader(data),
		modPool: ir.NewModifiersPool(),
		pool:    ir.NewPool(),
		ids:     make(map[uint16]ir.Symbol),
		lastID:  -1,
	}
}

// header reads the format version and the string blob.
func (s *session) header() error {
	s.r.SetPhase(errors.PhaseHeader)
	version, err := s.r.ReadU16()
	if err != nil {
		return err
	}
	if version != FormatVersion {
		return errors.VersionMismatch(FormatVersion, version)
	}
	blobLen, err := s.r.ReadU16()
	if err != nil {
		return err
	}
	blob, err := s.r.ReadBytes(int(blobLen))
	if err != nil {
		return err
	}
	s.strings = newStringTable(blob)
	s.r.SetPhase(errors.PhaseDecode)
	return nil
}

// finish rejects unread input.
func (s *session) finish() error {
	if n := s.r.Len(); n != 0 {
		return errors.TrailingData(s.r.Position(), n)
	}
	return nil
}

func (s *session) command() (Command, int, error) {
	off := s.r.Position()
	b, err := s.r.ReadU8()
	if err != nil {
		return 0, off, err
	}
	return Command(b), off, nil
}

func (s *session) readString() (string, error) {
	off := s.r.Position()
	ref, err := s.r.ReadU16()
	if err != nil {
		return "", err
	}
	str, err := s.strings.lookup(ref)
	if err != nil {
		return "", errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(off).
			Cause(err).
			Detail("bad string reference").
			Build()
	}
	return str, nil
}

// claimID reads a newly assigned symbol id. Ids must strictly increase in
// stream order.
func (s *session) claimID() (uint16, error) {
	off := s.r.Position()
	id, err := s.r.ReadU16()
	if err != nil {
		return 0, err
	}
	if id == BuiltinSymbol || int(id) <= s.lastID {
		return 0, errors.New(errors.PhaseDecode, errors.KindIDOrder).
			Offset(off).
			Value(id).
			Detail("symbol id %d does not follow previous id %d", id, s.lastID).
			Build()
	}
	s.lastID = int(id)
	return id, nil
}

// own records a symbol created by this session in the current scope and
// the session arena.
func (s *session) own(off int, sym ir.Symbol) error {
	if s.symbols == nil || s.symbols.IsSealed() {
		return errors.MalformedScope(off, fmt.Sprintf("%s %q created outside a session scope", sym.SymbolKind(), sym.Name()))
	}
	if _, err := s.pool.AddSymbol(sym); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindOverflow, err, "symbol arena")
	}
	s.symbols.TakeOwnership(sym)
	return nil
}

func (s *session) register(id uint16, sym ir.Symbol) {
	s.ids[id] = sym
}

// symbolRef is a decoded reference token: either a session-local id or a
// builtin name resolved from the outermost scope.
type symbolRef struct {
	name    string
	id      uint16
	builtin bool
}

func (s *session) readRef() (symbolRef, error) {
	id, err := s.r.ReadU16()
	if err != nil {
		return symbolRef{}, err
	}
	if id != BuiltinSymbol {
		return symbolRef{id: id}, nil
	}
	name, err := s.readString()
	if err != nil {
		return symbolRef{}, err
	}
	return symbolRef{name: name, builtin: true}, nil
}

func (s *session) resolve(off int, ref symbolRef) (ir.Symbol, error) {
	if ref.builtin {
		sym := s.symbols.Root().Lookup(ref.name)
		if sym == nil {
			return nil, errors.UnresolvedBuiltin(off, ref.name)
		}
		return sym, nil
	}
	sym, ok := s.ids[ref.id]
	if !ok {
		return nil, errors.UnresolvedID(off, ref.id)
	}
	return sym, nil
}

// possiblyBuiltinRef reads a reference that may name a builtin.
func (s *session) possiblyBuiltinRef() (ir.Symbol, int, error) {
	off := s.r.Position()
	ref, err := s.readRef()
	if err != nil {
		return nil, off, err
	}
	sym, err := s.resolve(off, ref)
	return sym, off, err
}

// localRef reads a reference that must name a session-local id.
func (s *session) localRef() (ir.Symbol, int, error) {
	off := s.r.Position()
	id, err := s.r.ReadU16()
	if err != nil {
		return nil, off, err
	}
	sym, err := s.resolve(off, symbolRef{id: id})
	return sym, off, err
}

func (s *session) variableRef(builtin bool) (*ir.Variable, error) {
	sym, off, err := s.ref(builtin)
	if err != nil {
		return nil, err
	}
	v, ok := sym.(*ir.Variable)
	if !ok {
		return nil, errors.KindMismatch(errors.PhaseResolve, off, "variable", sym.SymbolKind().String())
	}
	return v, nil
}

func (s *session) functionRef(builtin bool) (*ir.FunctionDeclaration, error) {
	sym, off, err := s.ref(builtin)
	if err != nil {
		return nil, err
	}
	fn, ok := sym.(*ir.FunctionDeclaration)
	if !ok {
		return nil, errors.KindMismatch(errors.PhaseResolve, off, "function", sym.SymbolKind().String())
	}
	return fn, nil
}

func (s *session) ref(builtin bool) (ir.Symbol, int, error) {
	if builtin {
		return s.possiblyBuiltinRef()
	}
	return s.localRef()
}

func (s *session) node() { s.pool.CountNode() }
