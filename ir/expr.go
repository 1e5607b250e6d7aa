package ir

import (
	"math"
	"strconv"
	"strings"
)

// ExpressionKind identifies the concrete type behind an Expression.
type ExpressionKind uint8

const (
	ExprBinary ExpressionKind = iota
	ExprLiteral
	ExprConstructor
	ExprFieldAccess
	ExprFunctionCall
	ExprIndex
	ExprPostfix
	ExprPrefix
	ExprSetting
	ExprSwizzle
	ExprTernary
	ExprVariableReference
)

// Expression is a typed expression node.
type Expression interface {
	ExpressionKind() ExpressionKind
	Type() *Type
	Description() string
}

// BinaryExpression applies a binary operator.
type BinaryExpression struct {
	left  Expression
	right Expression
	typ   *Type
	op    Operator
}

// NewBinaryExpression creates a binary node and derives its result type.
func NewBinaryExpression(ctx *Context, left Expression, op Operator, right Expression) *BinaryExpression {
	return &BinaryExpression{
		left:  left,
		op:    op,
		right: right,
		typ:   binaryResultType(ctx, left.Type(), op, right.Type()),
	}
}

func (e *BinaryExpression) ExpressionKind() ExpressionKind { return ExprBinary }
func (e *BinaryExpression) Type() *Type                    { return e.typ }
func (e *BinaryExpression) Left() Expression               { return e.left }
func (e *BinaryExpression) Right() Expression              { return e.right }
func (e *BinaryExpression) Operator() Operator             { return e.op }

func (e *BinaryExpression) Description() string {
	return "(" + e.left.Description() + " " + e.op.String() + " " + e.right.Description() + ")"
}

func binaryResultType(ctx *Context, left *Type, op Operator, right *Type) *Type {
	switch {
	case op.IsComparison(), op.IsLogical():
		return ctx.Types.Bool
	case op == OpComma:
		return right
	case op.IsAssignment():
		return left
	}
	switch {
	case left.Matches(right):
		return left
	case op == OpStar && left.IsMatrix() && right.IsVector():
		return ctx.Types.Vector(right.ComponentType(), left.Rows())
	case op == OpStar && left.IsVector() && right.IsMatrix():
		return ctx.Types.Vector(left.ComponentType(), right.Columns())
	case op == OpStar && left.IsMatrix() && right.IsMatrix():
		return ctx.Types.Matrix(left.ComponentType(), right.Columns(), left.Rows())
	case left.IsScalar() && !right.IsScalar():
		return right
	case right.IsScalar() && !left.IsScalar():
		return left
	case right.Priority() > left.Priority():
		return right
	}
	return left
}

// Literal is a scalar constant. Float literals keep their exact bit
// pattern.
type Literal struct {
	typ   *Type
	value float64
	bits  uint32
}

// NewBoolLiteral creates a boolean constant.
func NewBoolLiteral(typ *Type, v bool) *Literal {
	l := &Literal{typ: typ}
	if v {
		l.value = 1
	}
	return l
}

// NewIntLiteral creates an integer constant.
func NewIntLiteral(typ *Type, v int64) *Literal {
	return &Literal{typ: typ, value: float64(v)}
}

// NewFloatLiteral creates a float constant.
func NewFloatLiteral(typ *Type, v float32) *Literal {
	return &Literal{typ: typ, value: float64(v), bits: math.Float32bits(v)}
}

func (e *Literal) ExpressionKind() ExpressionKind { return ExprLiteral }
func (e *Literal) Type() *Type                    { return e.typ }
func (e *Literal) Value() float64                 { return e.value }
func (e *Literal) IntValue() int64                { return int64(e.value) }
func (e *Literal) BoolValue() bool                { return e.value != 0 }
func (e *Literal) FloatBits() uint32              { return e.bits }
func (e *Literal) FloatValue() float32            { return math.Float32frombits(e.bits) }

func (e *Literal) Description() string {
	switch {
	case e.typ.IsBoolean():
		if e.BoolValue() {
			return "true"
		}
		return "false"
	case e.typ.IsFloat():
		s := strconv.FormatFloat(float64(e.FloatValue()), 'g', -1, 32)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case e.typ.IsUnsigned():
		return strconv.FormatInt(e.IntValue(), 10) + "u"
	}
	return strconv.FormatInt(e.IntValue(), 10)
}

// ConstructorKind distinguishes the constructor forms.
type ConstructorKind uint8

const (
	ConstructorArray ConstructorKind = iota
	ConstructorArrayCast
	ConstructorCompound
	ConstructorCompoundCast
	ConstructorDiagonalMatrix
	ConstructorMatrixResize
	ConstructorScalarCast
	ConstructorSplat
	ConstructorStruct
)

func (k ConstructorKind) String() string {
	switch k {
	case ConstructorArray:
		return "array"
	case ConstructorArrayCast:
		return "array_cast"
	case ConstructorCompound:
		return "compound"
	case ConstructorCompoundCast:
		return "compound_cast"
	case ConstructorDiagonalMatrix:
		return "diagonal_matrix"
	case ConstructorMatrixResize:
		return "matrix_resize"
	case ConstructorScalarCast:
		return "scalar_cast"
	case ConstructorSplat:
		return "splat"
	case ConstructorStruct:
		return "struct"
	}
	return "unknown"
}

// SingleArgument reports whether the form takes exactly one argument.
func (k ConstructorKind) SingleArgument() bool {
	switch k {
	case ConstructorArrayCast, ConstructorCompoundCast, ConstructorDiagonalMatrix,
		ConstructorMatrixResize, ConstructorScalarCast, ConstructorSplat:
		return true
	}
	return false
}

// ConstructorExpression builds a value of typ from its arguments.
type ConstructorExpression struct {
	typ  *Type
	args []Expression
	kind ConstructorKind
}

// NewConstructor creates a constructor node. Callers check the argument
// count of single-argument forms.
func NewConstructor(kind ConstructorKind, typ *Type, args []Expression) *ConstructorExpression {
	return &ConstructorExpression{kind: kind, typ: typ, args: args}
}

func (e *ConstructorExpression) ExpressionKind() ExpressionKind { return ExprConstructor }
func (e *ConstructorExpression) Type() *Type                    { return e.typ }
func (e *ConstructorExpression) Kind() ConstructorKind          { return e.kind }
func (e *ConstructorExpression) Arguments() []Expression        { return e.args }

func (e *ConstructorExpression) Description() string {
	return e.typ.Name() + "(" + describeList(e.args) + ")"
}

// FieldAccessOwnerKind records whether the base is an anonymous interface
// block, whose fields are referenced without a qualifier.
type FieldAccessOwnerKind uint8

const (
	FieldAccessDefault FieldAccessOwnerKind = iota
	FieldAccessAnonymousInterfaceBlock
)

// FieldAccess selects a struct member.
type FieldAccess struct {
	base      Expression
	index     int
	ownerKind FieldAccessOwnerKind
}

// NewFieldAccess creates a member selection; index must be in range for
// the base's struct type.
func NewFieldAccess(base Expression, index int, ownerKind FieldAccessOwnerKind) *FieldAccess {
	return &FieldAccess{base: base, index: index, ownerKind: ownerKind}
}

func (e *FieldAccess) ExpressionKind() ExpressionKind  { return ExprFieldAccess }
func (e *FieldAccess) Base() Expression                { return e.base }
func (e *FieldAccess) FieldIndex() int                 { return e.index }
func (e *FieldAccess) OwnerKind() FieldAccessOwnerKind { return e.ownerKind }
func (e *FieldAccess) Field() StructField              { return e.base.Type().Fields()[e.index] }
func (e *FieldAccess) Type() *Type                     { return e.Field().Type }

func (e *FieldAccess) Description() string {
	if e.ownerKind == FieldAccessAnonymousInterfaceBlock {
		return e.Field().Name
	}
	return e.base.Description() + "." + e.Field().Name
}

// FunctionCall invokes a function declaration.
type FunctionCall struct {
	typ      *Type
	function *FunctionDeclaration
	args     []Expression
}

// NewFunctionCall creates a call node.
func NewFunctionCall(typ *Type, fn *FunctionDeclaration, args []Expression) *FunctionCall {
	return &FunctionCall{typ: typ, function: fn, args: args}
}

func (e *FunctionCall) ExpressionKind() ExpressionKind { return ExprFunctionCall }
func (e *FunctionCall) Type() *Type                    { return e.typ }
func (e *FunctionCall) Function() *FunctionDeclaration { return e.function }
func (e *FunctionCall) Arguments() []Expression        { return e.args }

func (e *FunctionCall) Description() string {
	return e.function.Name() + "(" + describeList(e.args) + ")"
}

// IndexExpression subscripts an array, vector or matrix.
type IndexExpression struct {
	base  Expression
	index Expression
	typ   *Type
}

// NewIndexExpression creates a subscript node and derives its element type.
func NewIndexExpression(ctx *Context, base, index Expression) *IndexExpression {
	bt := base.Type()
	typ := bt.ComponentType()
	if bt.IsMatrix() {
		typ = ctx.Types.Vector(bt.ComponentType(), bt.Rows())
	}
	return &IndexExpression{base: base, index: index, typ: typ}
}

func (e *IndexExpression) ExpressionKind() ExpressionKind { return ExprIndex }
func (e *IndexExpression) Type() *Type                    { return e.typ }
func (e *IndexExpression) Base() Expression               { return e.base }
func (e *IndexExpression) Index() Expression              { return e.index }

func (e *IndexExpression) Description() string {
	return e.base.Description() + "[" + e.index.Description() + "]"
}

// PrefixExpression applies a prefix operator.
type PrefixExpression struct {
	operand Expression
	typ     *Type
	op      Operator
}

// NewPrefixExpression creates a prefix node.
func NewPrefixExpression(ctx *Context, op Operator, operand Expression) *PrefixExpression {
	typ := operand.Type()
	if op == OpLogicalNot {
		typ = ctx.Types.Bool
	}
	return &PrefixExpression{op: op, operand: operand, typ: typ}
}

func (e *PrefixExpression) ExpressionKind() ExpressionKind { return ExprPrefix }
func (e *PrefixExpression) Type() *Type                    { return e.typ }
func (e *PrefixExpression) Operator() Operator             { return e.op }
func (e *PrefixExpression) Operand() Expression            { return e.operand }
func (e *PrefixExpression) Description() string            { return e.op.String() + e.operand.Description() }

// PostfixExpression applies ++ or -- after its operand.
type PostfixExpression struct {
	operand Expression
	op      Operator
}

// NewPostfixExpression creates a postfix node.
func NewPostfixExpression(operand Expression, op Operator) *PostfixExpression {
	return &PostfixExpression{operand: operand, op: op}
}

func (e *PostfixExpression) ExpressionKind() ExpressionKind { return ExprPostfix }
func (e *PostfixExpression) Type() *Type                    { return e.operand.Type() }
func (e *PostfixExpression) Operator() Operator             { return e.op }
func (e *PostfixExpression) Operand() Expression            { return e.operand }
func (e *PostfixExpression) Description() string            { return e.operand.Description() + e.op.String() }

// SettingExpression is a capability lookup that was not folded to a
// constant.
type SettingExpression struct {
	typ  *Type
	name string
}

func (e *SettingExpression) ExpressionKind() ExpressionKind { return ExprSetting }
func (e *SettingExpression) Type() *Type                    { return e.typ }
func (e *SettingExpression) Name() string                   { return e.name }
func (e *SettingExpression) Description() string            { return e.name }

// Swizzle components.
const (
	SwizzleX uint8 = iota
	SwizzleY
	SwizzleZ
	SwizzleW
)

// Swizzle selects and reorders vector components.
type Swizzle struct {
	base       Expression
	typ        *Type
	components []uint8
}

// NewSwizzle creates a swizzle node; components must each be below 4.
func NewSwizzle(ctx *Context, base Expression, components []uint8) *Swizzle {
	typ := ctx.Types.Vector(base.Type().ComponentType(), len(components))
	return &Swizzle{base: base, components: components, typ: typ}
}

func (e *Swizzle) ExpressionKind() ExpressionKind { return ExprSwizzle }
func (e *Swizzle) Type() *Type                    { return e.typ }
func (e *Swizzle) Base() Expression               { return e.base }
func (e *Swizzle) Components() []uint8            { return e.components }

func (e *Swizzle) Description() string {
	var b strings.Builder
	b.WriteString(e.base.Description())
	b.WriteByte('.')
	for _, c := range e.components {
		b.WriteByte("xyzw"[c&3])
	}
	return b.String()
}

// TernaryExpression selects between two values.
type TernaryExpression struct {
	test    Expression
	ifTrue  Expression
	ifFalse Expression
}

// NewTernaryExpression creates a conditional node.
func NewTernaryExpression(test, ifTrue, ifFalse Expression) *TernaryExpression {
	return &TernaryExpression{test: test, ifTrue: ifTrue, ifFalse: ifFalse}
}

func (e *TernaryExpression) ExpressionKind() ExpressionKind { return ExprTernary }
func (e *TernaryExpression) Type() *Type                    { return e.ifTrue.Type() }
func (e *TernaryExpression) Test() Expression               { return e.test }
func (e *TernaryExpression) IfTrue() Expression             { return e.ifTrue }
func (e *TernaryExpression) IfFalse() Expression            { return e.ifFalse }

func (e *TernaryExpression) Description() string {
	return "(" + e.test.Description() + " ? " + e.ifTrue.Description() + " : " + e.ifFalse.Description() + ")"
}

// RefKind describes how a variable reference uses the variable.
type RefKind uint8

const (
	RefRead RefKind = iota
	RefWrite
	RefReadWrite
	RefPointer
)

// Valid reports whether k is a known reference kind.
func (k RefKind) Valid() bool { return k <= RefPointer }

func (k RefKind) String() string {
	switch k {
	case RefRead:
		return "read"
	case RefWrite:
		return "write"
	case RefReadWrite:
		return "readwrite"
	case RefPointer:
		return "pointer"
	}
	return "unknown"
}

// VariableReference names a variable.
type VariableReference struct {
	variable *Variable
	refKind  RefKind
}

// NewVariableReference creates a reference node.
func NewVariableReference(v *Variable, refKind RefKind) *VariableReference {
	return &VariableReference{variable: v, refKind: refKind}
}

func (e *VariableReference) ExpressionKind() ExpressionKind { return ExprVariableReference }
func (e *VariableReference) Type() *Type                    { return e.variable.Type() }
func (e *VariableReference) Variable() *Variable            { return e.variable }
func (e *VariableReference) RefKind() RefKind               { return e.refKind }
func (e *VariableReference) Description() string            { return e.variable.Name() }

func describeList(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.Description()
	}
	return strings.Join(parts, ", ")
}
