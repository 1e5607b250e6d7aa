package rehydrate

// FormatVersion is the artifact format version this package reads.
const FormatVersion uint16 = 11

// BuiltinSymbol is the reference token that introduces a builtin name
// instead of a session-local id.
const BuiltinSymbol uint16 = 0xFFFF

// Command is a grammar tag. All categories share one tag space; the values
// are part of the artifact format and must not be reordered.
type Command uint8

const (
	CmdArrayType Command = iota
	CmdBinary
	CmdBlock
	CmdBoolLiteral
	CmdBreak
	CmdBuiltinLayout
	CmdConstructorArray
	CmdConstructorArrayCast
	CmdConstructorCompound
	CmdConstructorCompoundCast
	CmdConstructorDiagonalMatrix
	CmdConstructorMatrixResize
	CmdConstructorScalarCast
	CmdConstructorSplat
	CmdConstructorStruct
	CmdContinue
	CmdDefaultLayout
	CmdDefaultModifiers
	CmdDiscard
	CmdDo
	CmdElements
	CmdElementsComplete
	CmdExpressionStatement
	CmdField
	CmdFieldAccess
	CmdFloatLiteral
	CmdFor
	CmdFunctionCall
	CmdFunctionDeclaration
	CmdFunctionDefinition
	CmdFunctionPrototype
	CmdGlobalVar
	CmdIf
	CmdIndex
	CmdInterfaceBlock
	CmdIntLiteral
	CmdLayout
	CmdModifiers8Bit
	CmdModifiers
	CmdNop
	CmdPostfix
	CmdPrefix
	CmdProgram
	CmdReturn
	CmdSetting
	CmdSharedFunction
	CmdStructDefinition
	CmdStructType
	CmdSwitch
	CmdSwizzle
	CmdSymbolRef
	CmdSymbolTable
	CmdTernary
	CmdVarDeclaration
	CmdVariable
	CmdVariableReference
	CmdVoid
	commandCount
)

var commandNames = [commandCount]string{
	"ArrayType",
	"Binary",
	"Block",
	"BoolLiteral",
	"Break",
	"BuiltinLayout",
	"ConstructorArray",
	"ConstructorArrayCast",
	"ConstructorCompound",
	"ConstructorCompoundCast",
	"ConstructorDiagonalMatrix",
	"ConstructorMatrixResize",
	"ConstructorScalarCast",
	"ConstructorSplat",
	"ConstructorStruct",
	"Continue",
	"DefaultLayout",
	"DefaultModifiers",
	"Discard",
	"Do",
	"Elements",
	"ElementsComplete",
	"ExpressionStatement",
	"Field",
	"FieldAccess",
	"FloatLiteral",
	"For",
	"FunctionCall",
	"FunctionDeclaration",
	"FunctionDefinition",
	"FunctionPrototype",
	"GlobalVar",
	"If",
	"Index",
	"InterfaceBlock",
	"IntLiteral",
	"Layout",
	"Modifiers8Bit",
	"Modifiers",
	"Nop",
	"Postfix",
	"Prefix",
	"Program",
	"Return",
	"Setting",
	"SharedFunction",
	"StructDefinition",
	"StructType",
	"Switch",
	"Swizzle",
	"SymbolRef",
	"SymbolTable",
	"Ternary",
	"VarDeclaration",
	"Variable",
	"VariableReference",
	"Void",
}

// Valid reports whether c is a known tag.
func (c Command) Valid() bool { return c < commandCount }

func (c Command) String() string {
	if !c.Valid() {
		return "Unknown"
	}
	return commandNames[c]
}
