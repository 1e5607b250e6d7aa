package ir

import "strings"

// SymbolKind identifies the concrete type behind a Symbol.
type SymbolKind uint8

const (
	SymbolKindVariable SymbolKind = iota
	SymbolKindField
	SymbolKindFunctionDeclaration
	SymbolKindType
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolKindVariable:
		return "variable"
	case SymbolKindField:
		return "field"
	case SymbolKindFunctionDeclaration:
		return "function"
	case SymbolKindType:
		return "type"
	}
	return "unknown"
}

// Symbol is a named entity that can be bound in a SymbolTable.
type Symbol interface {
	SymbolKind() SymbolKind
	Name() string
	Description() string
}

// VariableStorage describes where a variable lives.
type VariableStorage uint8

const (
	StorageGlobal VariableStorage = iota
	StorageInterfaceBlock
	StorageLocal
	StorageParameter
)

func (s VariableStorage) String() string {
	switch s {
	case StorageGlobal:
		return "global"
	case StorageInterfaceBlock:
		return "interface_block"
	case StorageLocal:
		return "local"
	case StorageParameter:
		return "parameter"
	}
	return "unknown"
}

// Valid reports whether s is a known storage class.
func (s VariableStorage) Valid() bool { return s <= StorageParameter }

// Variable is a named storage location.
type Variable struct {
	modifiers   *Modifiers
	typ         *Type
	declaration *VarDeclaration
	name        string
	storage     VariableStorage
	builtin     bool
}

// NewVariable creates a variable symbol.
func NewVariable(mods *Modifiers, name string, typ *Type, builtin bool, storage VariableStorage) *Variable {
	return &Variable{
		modifiers: mods,
		name:      name,
		typ:       typ,
		builtin:   builtin,
		storage:   storage,
	}
}

func (v *Variable) SymbolKind() SymbolKind       { return SymbolKindVariable }
func (v *Variable) Name() string                 { return v.name }
func (v *Variable) Type() *Type                  { return v.typ }
func (v *Variable) Modifiers() *Modifiers        { return v.modifiers }
func (v *Variable) Storage() VariableStorage     { return v.storage }
func (v *Variable) IsBuiltin() bool              { return v.builtin }
func (v *Variable) Declaration() *VarDeclaration { return v.declaration }

// SetDeclaration links the variable to the statement that declares it.
func (v *Variable) SetDeclaration(d *VarDeclaration) { v.declaration = d }

func (v *Variable) Description() string {
	var b strings.Builder
	if v.modifiers != nil {
		if m := v.modifiers.Description(); m != "" {
			b.WriteString(m)
			b.WriteByte(' ')
		}
	}
	b.WriteString(v.typ.Name())
	b.WriteByte(' ')
	b.WriteString(v.name)
	return b.String()
}

// Field is a member of an anonymous interface block, visible as a
// top-level name.
type Field struct {
	owner *Variable
	index int
}

// NewField creates a field symbol for member index of owner's struct type.
func NewField(owner *Variable, index int) *Field {
	return &Field{owner: owner, index: index}
}

func (f *Field) SymbolKind() SymbolKind { return SymbolKindField }
func (f *Field) Owner() *Variable       { return f.owner }
func (f *Field) Index() int             { return f.index }

func (f *Field) member() StructField {
	return f.owner.Type().ComponentType().Fields()[f.index]
}

func (f *Field) Name() string        { return f.member().Name }
func (f *Field) Type() *Type         { return f.member().Type }
func (f *Field) Description() string { return f.owner.Name() + "." + f.Name() }

// FunctionDeclaration is a function signature. Builtin declarations are
// shared across sessions and never modified.
type FunctionDeclaration struct {
	modifiers  *Modifiers
	returnType *Type
	definition *FunctionDefinition
	name       string
	params     []*Variable
	builtin    bool
}

// NewFunctionDeclaration creates a function declaration symbol.
func NewFunctionDeclaration(mods *Modifiers, name string, params []*Variable, returnType *Type, builtin bool) *FunctionDeclaration {
	return &FunctionDeclaration{
		modifiers:  mods,
		name:       name,
		params:     params,
		returnType: returnType,
		builtin:    builtin,
	}
}

func (f *FunctionDeclaration) SymbolKind() SymbolKind          { return SymbolKindFunctionDeclaration }
func (f *FunctionDeclaration) Name() string                    { return f.name }
func (f *FunctionDeclaration) Modifiers() *Modifiers           { return f.modifiers }
func (f *FunctionDeclaration) Parameters() []*Variable         { return f.params }
func (f *FunctionDeclaration) ReturnType() *Type               { return f.returnType }
func (f *FunctionDeclaration) IsBuiltin() bool                 { return f.builtin }
func (f *FunctionDeclaration) Definition() *FunctionDefinition { return f.definition }

// SetDefinition links the declaration to its body.
func (f *FunctionDeclaration) SetDefinition(def *FunctionDefinition) { f.definition = def }

func (f *FunctionDeclaration) Description() string {
	var b strings.Builder
	if f.modifiers != nil {
		if m := f.modifiers.Description(); m != "" {
			b.WriteString(m)
			b.WriteByte(' ')
		}
	}
	b.WriteString(f.returnType.Name())
	b.WriteByte(' ')
	b.WriteString(f.name)
	b.WriteByte('(')
	for i, p := range f.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Description())
	}
	b.WriteByte(')')
	return b.String()
}
