package rehydrate

import (
	"github.com/wippyai/sksl-runtime/internal/binary"
	"github.com/wippyai/sksl-runtime/ir"
)

// artifact assembles test inputs by hand: an interned string blob and a
// command stream, joined under the format header by bytes.
type artifact struct {
	blob    *binary.Writer
	body    *binary.Writer
	strs    map[string]uint16
	version uint16
}

func newArtifact() *artifact {
	return &artifact{
		blob:    binary.NewWriter(),
		body:    binary.NewWriter(),
		strs:    make(map[string]uint16),
		version: FormatVersion,
	}
}

func (a *artifact) cmd(c Command) *artifact { a.body.WriteU8(uint8(c)); return a }
func (a *artifact) u8(v uint8) *artifact    { a.body.WriteU8(v); return a }
func (a *artifact) u16(v uint16) *artifact  { a.body.WriteU16(v); return a }
func (a *artifact) u32(v uint32) *artifact  { a.body.WriteU32(v); return a }
func (a *artifact) s8(v int8) *artifact     { a.body.WriteS8(v); return a }
func (a *artifact) s16(v int16) *artifact   { a.body.WriteS16(v); return a }
func (a *artifact) s32(v int32) *artifact   { a.body.WriteS32(v); return a }
func (a *artifact) flag(v bool) *artifact   { a.body.WriteBool(v); return a }

func (a *artifact) str(s string) *artifact {
	off, ok := a.strs[s]
	if !ok {
		off = uint16(a.blob.Len())
		a.blob.WriteU8(uint8(len(s)))
		a.blob.WriteBytes([]byte(s))
		a.strs[s] = off
	}
	return a.u16(off)
}

// builtin writes a reference token naming a builtin symbol.
func (a *artifact) builtin(name string) *artifact {
	return a.u16(BuiltinSymbol).str(name)
}

// typeRef writes a symbol reference to a builtin type.
func (a *artifact) typeRef(name string) *artifact {
	return a.cmd(CmdSymbolRef).builtin(name)
}

func (a *artifact) variable(id uint16, name, typ string, storage ir.VariableStorage) *artifact {
	return a.cmd(CmdVariable).u16(id).cmd(CmdDefaultModifiers).str(name).typeRef(typ).u8(uint8(storage))
}

func (a *artifact) varRef(id uint16, kind ir.RefKind) *artifact {
	return a.cmd(CmdVariableReference).u16(id).u8(uint8(kind))
}

func (a *artifact) intLit(v int32) *artifact {
	return a.cmd(CmdIntLiteral).typeRef("int").s32(v)
}

// emptyScope writes a scope with nothing owned or visible.
func (a *artifact) emptyScope() *artifact {
	return a.cmd(CmdSymbolTable).flag(false).u16(0).u16(0)
}

func (a *artifact) bytes() []byte {
	w := binary.NewWriter()
	w.WriteU16(a.version)
	w.WriteU16(uint16(a.blob.Len()))
	w.WriteBytes(a.blob.Bytes())
	w.WriteBytes(a.body.Bytes())
	return w.Bytes()
}

// addProgram encodes the fragment program
//
//	int add(int a, int b) { return a + b; }
func addProgram() *artifact {
	a := newArtifact()
	a.cmd(CmdProgram).u8(uint8(ir.ProgramKindFragment)).u8(uint8(ir.Version100))
	a.cmd(CmdSymbolTable).flag(false).u16(1)
	a.cmd(CmdFunctionDeclaration).u16(0).cmd(CmdDefaultModifiers).str("add").u8(2)
	a.variable(1, "a", "int", ir.StorageParameter)
	a.variable(2, "b", "int", ir.StorageParameter)
	a.typeRef("int")
	a.u16(1).u16(0)

	a.cmd(CmdElements)
	a.cmd(CmdFunctionDefinition).u16(0)
	a.cmd(CmdBlock).emptyScope().u8(1)
	a.cmd(CmdReturn).cmd(CmdBinary).varRef(1, ir.RefRead).u8(uint8(ir.OpPlus)).varRef(2, ir.RefRead)
	a.u8(uint8(ir.BlockBraced))
	a.cmd(CmdElementsComplete)
	a.flag(false)
	return a
}

// mainProgram encodes a fragment program holding `void main()` whose body
// is the single statement written by body.
func mainProgram(body func(a *artifact)) *artifact {
	a := newArtifact()
	a.cmd(CmdProgram).u8(uint8(ir.ProgramKindFragment)).u8(uint8(ir.Version100))
	a.cmd(CmdSymbolTable).flag(false).u16(1)
	a.cmd(CmdFunctionDeclaration).u16(0).cmd(CmdDefaultModifiers).str("main").u8(0).typeRef("void")
	a.u16(1).u16(0)

	a.cmd(CmdElements)
	a.cmd(CmdFunctionDefinition).u16(0)
	body(a)
	a.cmd(CmdElementsComplete)
	a.flag(false)
	return a
}

// mainBlock is mainProgram with a braced, unscoped block around stmts.
func mainBlock(stmts ...func(a *artifact)) *artifact {
	return mainProgram(func(a *artifact) {
		a.cmd(CmdBlock).cmd(CmdVoid).u8(uint8(len(stmts)))
		for _, stmt := range stmts {
			stmt(a)
		}
		a.u8(uint8(ir.BlockBraced))
	})
}
