package ir

// ProgramKind selects the builtin environment a program is compiled against.
type ProgramKind uint8

const (
	ProgramKindFragment ProgramKind = iota
	ProgramKindVertex
	ProgramKindGeneric
	ProgramKindRuntimeColorFilter
	ProgramKindRuntimeShader
	ProgramKindRuntimeBlender
	ProgramKindPrivateRuntimeShader
	ProgramKindMeshVertex
	ProgramKindMeshFragment
	programKindCount
)

var programKindNames = [programKindCount]string{
	"fragment",
	"vertex",
	"generic",
	"runtime_color_filter",
	"runtime_shader",
	"runtime_blender",
	"private_runtime_shader",
	"mesh_vertex",
	"mesh_fragment",
}

// Valid reports whether k is a known program kind.
func (k ProgramKind) Valid() bool { return k < programKindCount }

func (k ProgramKind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return programKindNames[k]
}

// ParseProgramKind resolves a kind by its String name.
func ParseProgramKind(name string) (ProgramKind, bool) {
	for i, n := range programKindNames {
		if n == name {
			return ProgramKind(i), true
		}
	}
	return 0, false
}

// ProgramKinds returns every known kind in order.
func ProgramKinds() []ProgramKind {
	kinds := make([]ProgramKind, programKindCount)
	for i := range kinds {
		kinds[i] = ProgramKind(i)
	}
	return kinds
}

// Version is a shading language version.
type Version uint8

const (
	Version100 Version = iota
	Version300
)

// Valid reports whether v is a known version.
func (v Version) Valid() bool { return v <= Version300 }

func (v Version) String() string {
	switch v {
	case Version100:
		return "100"
	case Version300:
		return "300"
	}
	return "unknown"
}

// ProgramSettings are the compiler settings attached to a program.
type ProgramSettings struct {
	MaxVersionAllowed Version
}

// ProgramConfig describes how a program was compiled.
type ProgramConfig struct {
	Settings        ProgramSettings
	Kind            ProgramKind
	RequiredVersion Version
}

// ProgramInputs records program-wide inputs the program depends on.
type ProgramInputs struct {
	UseFlipRTUniform bool
}

// Program is a fully decoded program. It owns its root symbol table,
// elements and node pool; builtin symbols it references are shared with
// the Context it was decoded against.
type Program struct {
	Config    *ProgramConfig
	Context   *Context
	Symbols   *SymbolTable
	Modifiers *ModifiersPool
	Pool      *Pool
	Elements  []ProgramElement
	Inputs    ProgramInputs
}

// Functions returns the function definitions of p in element order.
func (p *Program) Functions() []*FunctionDefinition {
	var defs []*FunctionDefinition
	for _, e := range p.Elements {
		if def, ok := e.(*FunctionDefinition); ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// Module is a decoded library of declarations layered over a parent scope.
type Module struct {
	Symbols   *SymbolTable
	Modifiers *ModifiersPool
	Pool      *Pool
	Elements  []ProgramElement
}
