package ir

import (
	"strconv"
	"strings"
)

// ElementKind identifies the concrete type behind a ProgramElement.
type ElementKind uint8

const (
	ElementFunction ElementKind = iota
	ElementFunctionPrototype
	ElementGlobalVar
	ElementInterfaceBlock
	ElementStructDefinition
)

func (k ElementKind) String() string {
	switch k {
	case ElementFunction:
		return "function"
	case ElementFunctionPrototype:
		return "prototype"
	case ElementGlobalVar:
		return "global"
	case ElementInterfaceBlock:
		return "interface_block"
	case ElementStructDefinition:
		return "struct"
	}
	return "unknown"
}

// ProgramElement is a top-level item of a program.
type ProgramElement interface {
	ElementKind() ElementKind
	Description() string
}

// FunctionDefinition pairs a declaration with its body.
type FunctionDefinition struct {
	decl *FunctionDeclaration
	body Statement
}

// NewFunctionDefinition creates a definition and links decl to it.
func NewFunctionDefinition(decl *FunctionDeclaration, body Statement) *FunctionDefinition {
	def := &FunctionDefinition{decl: decl, body: body}
	decl.SetDefinition(def)
	return def
}

func (e *FunctionDefinition) ElementKind() ElementKind          { return ElementFunction }
func (e *FunctionDefinition) Declaration() *FunctionDeclaration { return e.decl }
func (e *FunctionDefinition) Body() Statement                   { return e.body }

func (e *FunctionDefinition) Description() string {
	return e.decl.Description() + " " + e.body.Description()
}

// FunctionPrototype is a forward declaration.
type FunctionPrototype struct {
	decl *FunctionDeclaration
}

// NewFunctionPrototype creates a prototype element.
func NewFunctionPrototype(decl *FunctionDeclaration) *FunctionPrototype {
	return &FunctionPrototype{decl: decl}
}

func (e *FunctionPrototype) ElementKind() ElementKind          { return ElementFunctionPrototype }
func (e *FunctionPrototype) Declaration() *FunctionDeclaration { return e.decl }
func (e *FunctionPrototype) Description() string               { return e.decl.Description() + ";" }

// GlobalVarDeclaration declares a global variable.
type GlobalVarDeclaration struct {
	decl *VarDeclaration
}

// NewGlobalVarDeclaration wraps a variable declaration statement.
func NewGlobalVarDeclaration(decl *VarDeclaration) *GlobalVarDeclaration {
	return &GlobalVarDeclaration{decl: decl}
}

func (e *GlobalVarDeclaration) ElementKind() ElementKind     { return ElementGlobalVar }
func (e *GlobalVarDeclaration) Declaration() *VarDeclaration { return e.decl }
func (e *GlobalVarDeclaration) Description() string          { return e.decl.Description() }

// InterfaceBlock declares a block of uniforms or buffer members.
type InterfaceBlock struct {
	variable     *Variable
	typeName     string
	instanceName string
	arraySize    int
}

// NewInterfaceBlock creates an interface block element.
func NewInterfaceBlock(v *Variable, typeName, instanceName string, arraySize int) *InterfaceBlock {
	return &InterfaceBlock{variable: v, typeName: typeName, instanceName: instanceName, arraySize: arraySize}
}

func (e *InterfaceBlock) ElementKind() ElementKind { return ElementInterfaceBlock }
func (e *InterfaceBlock) Variable() *Variable      { return e.variable }
func (e *InterfaceBlock) TypeName() string         { return e.typeName }
func (e *InterfaceBlock) InstanceName() string     { return e.instanceName }
func (e *InterfaceBlock) ArraySize() int           { return e.arraySize }

func (e *InterfaceBlock) Description() string {
	var b strings.Builder
	if m := e.variable.Modifiers(); m != nil {
		if d := m.Description(); d != "" {
			b.WriteString(d)
			b.WriteByte(' ')
		}
	}
	b.WriteString(e.typeName)
	b.WriteByte(' ')
	describeFields(&b, e.variable.Type().ComponentType().Fields())
	if e.instanceName != "" {
		b.WriteByte(' ')
		b.WriteString(e.instanceName)
		if e.arraySize > 0 {
			b.WriteString("[" + strconv.Itoa(e.arraySize) + "]")
		}
	}
	b.WriteByte(';')
	return b.String()
}

// StructDefinition declares a struct type.
type StructDefinition struct {
	typ *Type
}

// NewStructDefinition creates a struct definition element.
func NewStructDefinition(typ *Type) *StructDefinition {
	return &StructDefinition{typ: typ}
}

func (e *StructDefinition) ElementKind() ElementKind { return ElementStructDefinition }
func (e *StructDefinition) Type() *Type              { return e.typ }

func (e *StructDefinition) Description() string {
	var b strings.Builder
	b.WriteString("struct ")
	b.WriteString(e.typ.Name())
	b.WriteByte(' ')
	describeFields(&b, e.typ.Fields())
	b.WriteByte(';')
	return b.String()
}
