package ir

import (
	"strconv"
	"strings"
)

// StatementKind identifies the concrete type behind a Statement.
type StatementKind uint8

const (
	StmtBlock StatementKind = iota
	StmtBreak
	StmtContinue
	StmtDiscard
	StmtDo
	StmtExpression
	StmtFor
	StmtIf
	StmtNop
	StmtReturn
	StmtSwitch
	StmtSwitchCase
	StmtVarDeclaration
)

// Statement is a statement node.
type Statement interface {
	StatementKind() StatementKind
	Description() string
}

// BlockKind records how a block was written.
type BlockKind uint8

const (
	BlockUnbraced BlockKind = iota
	BlockBraced
	BlockCompoundStatement
)

// Valid reports whether k is a known block kind.
func (k BlockKind) Valid() bool { return k <= BlockCompoundStatement }

func (k BlockKind) String() string {
	switch k {
	case BlockUnbraced:
		return "unbraced"
	case BlockBraced:
		return "braced"
	case BlockCompoundStatement:
		return "compound"
	}
	return "unknown"
}

// Block is a statement list with an optional scope.
type Block struct {
	symbols    *SymbolTable
	statements []Statement
	kind       BlockKind
}

// NewBlock creates a block; symbols is nil for blocks without a scope.
func NewBlock(statements []Statement, kind BlockKind, symbols *SymbolTable) *Block {
	return &Block{statements: statements, kind: kind, symbols: symbols}
}

func (s *Block) StatementKind() StatementKind { return StmtBlock }
func (s *Block) Statements() []Statement      { return s.statements }
func (s *Block) Kind() BlockKind              { return s.kind }
func (s *Block) Symbols() *SymbolTable        { return s.symbols }

func (s *Block) Description() string {
	var b strings.Builder
	if s.kind == BlockBraced {
		b.WriteString("{ ")
	}
	for i, st := range s.statements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(st.Description())
	}
	if s.kind == BlockBraced {
		b.WriteString(" }")
	}
	return b.String()
}

// BreakStatement exits the innermost loop or switch.
type BreakStatement struct{}

func (s *BreakStatement) StatementKind() StatementKind { return StmtBreak }
func (s *BreakStatement) Description() string          { return "break;" }

// ContinueStatement starts the next loop iteration.
type ContinueStatement struct{}

func (s *ContinueStatement) StatementKind() StatementKind { return StmtContinue }
func (s *ContinueStatement) Description() string          { return "continue;" }

// DiscardStatement drops the current fragment.
type DiscardStatement struct{}

func (s *DiscardStatement) StatementKind() StatementKind { return StmtDiscard }
func (s *DiscardStatement) Description() string          { return "discard;" }

// NopStatement does nothing.
type NopStatement struct{}

func (s *NopStatement) StatementKind() StatementKind { return StmtNop }
func (s *NopStatement) Description() string          { return ";" }

// DoStatement is a do-while loop.
type DoStatement struct {
	body Statement
	test Expression
}

// NewDoStatement creates a do-while loop.
func NewDoStatement(body Statement, test Expression) *DoStatement {
	return &DoStatement{body: body, test: test}
}

func (s *DoStatement) StatementKind() StatementKind { return StmtDo }
func (s *DoStatement) Body() Statement              { return s.body }
func (s *DoStatement) Test() Expression             { return s.test }

func (s *DoStatement) Description() string {
	return "do " + s.body.Description() + " while (" + s.test.Description() + ");"
}

// ExpressionStatement evaluates an expression for its effects.
type ExpressionStatement struct {
	expr Expression
}

// NewExpressionStatement wraps expr as a statement.
func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{expr: expr}
}

func (s *ExpressionStatement) StatementKind() StatementKind { return StmtExpression }
func (s *ExpressionStatement) Expression() Expression       { return s.expr }
func (s *ExpressionStatement) Description() string          { return s.expr.Description() + ";" }

// ForStatement is a for loop. Any clause may be nil. Unroll info is
// recomputed from the loop shape, never stored in artifacts.
type ForStatement struct {
	symbols    *SymbolTable
	init       Statement
	test       Expression
	next       Expression
	body       Statement
	unrollInfo *LoopUnrollInfo
}

// NewForStatement creates a for loop with its own scope.
func NewForStatement(init Statement, test, next Expression, body Statement, unroll *LoopUnrollInfo, symbols *SymbolTable) *ForStatement {
	return &ForStatement{
		init:       init,
		test:       test,
		next:       next,
		body:       body,
		unrollInfo: unroll,
		symbols:    symbols,
	}
}

func (s *ForStatement) StatementKind() StatementKind { return StmtFor }
func (s *ForStatement) Initializer() Statement       { return s.init }
func (s *ForStatement) Test() Expression             { return s.test }
func (s *ForStatement) Next() Expression             { return s.next }
func (s *ForStatement) Body() Statement              { return s.body }
func (s *ForStatement) Symbols() *SymbolTable        { return s.symbols }
func (s *ForStatement) UnrollInfo() *LoopUnrollInfo  { return s.unrollInfo }

func (s *ForStatement) Description() string {
	var b strings.Builder
	b.WriteString("for (")
	if s.init != nil {
		b.WriteString(s.init.Description())
	} else {
		b.WriteByte(';')
	}
	if s.test != nil {
		b.WriteByte(' ')
		b.WriteString(s.test.Description())
	}
	b.WriteString(";")
	if s.next != nil {
		b.WriteByte(' ')
		b.WriteString(s.next.Description())
	}
	b.WriteString(") ")
	b.WriteString(s.body.Description())
	return b.String()
}

// IfStatement is a conditional. IfFalse may be nil.
type IfStatement struct {
	test     Expression
	ifTrue   Statement
	ifFalse  Statement
	isStatic bool
}

// NewIfStatement creates a conditional.
func NewIfStatement(isStatic bool, test Expression, ifTrue, ifFalse Statement) *IfStatement {
	return &IfStatement{isStatic: isStatic, test: test, ifTrue: ifTrue, ifFalse: ifFalse}
}

func (s *IfStatement) StatementKind() StatementKind { return StmtIf }
func (s *IfStatement) IsStatic() bool               { return s.isStatic }
func (s *IfStatement) Test() Expression             { return s.test }
func (s *IfStatement) IfTrue() Statement            { return s.ifTrue }
func (s *IfStatement) IfFalse() Statement           { return s.ifFalse }

func (s *IfStatement) Description() string {
	var b strings.Builder
	if s.isStatic {
		b.WriteByte('@')
	}
	b.WriteString("if (")
	b.WriteString(s.test.Description())
	b.WriteString(") ")
	b.WriteString(s.ifTrue.Description())
	if s.ifFalse != nil {
		b.WriteString(" else ")
		b.WriteString(s.ifFalse.Description())
	}
	return b.String()
}

// ReturnStatement exits a function. Expression may be nil.
type ReturnStatement struct {
	expr Expression
}

// NewReturnStatement creates a return.
func NewReturnStatement(expr Expression) *ReturnStatement {
	return &ReturnStatement{expr: expr}
}

func (s *ReturnStatement) StatementKind() StatementKind { return StmtReturn }
func (s *ReturnStatement) Expression() Expression       { return s.expr }

func (s *ReturnStatement) Description() string {
	if s.expr == nil {
		return "return;"
	}
	return "return " + s.expr.Description() + ";"
}

// SwitchCase is one arm of a switch.
type SwitchCase struct {
	stmt      Statement
	value     int32
	isDefault bool
}

// NewSwitchCase creates a case arm with a constant value.
func NewSwitchCase(value int32, stmt Statement) *SwitchCase {
	return &SwitchCase{value: value, stmt: stmt}
}

// NewDefaultSwitchCase creates the default arm.
func NewDefaultSwitchCase(stmt Statement) *SwitchCase {
	return &SwitchCase{isDefault: true, stmt: stmt}
}

func (s *SwitchCase) StatementKind() StatementKind { return StmtSwitchCase }
func (s *SwitchCase) IsDefault() bool              { return s.isDefault }
func (s *SwitchCase) Value() int32                 { return s.value }
func (s *SwitchCase) Statement() Statement         { return s.stmt }

func (s *SwitchCase) Description() string {
	if s.isDefault {
		return "default: " + s.stmt.Description()
	}
	return "case " + strconv.Itoa(int(s.value)) + ": " + s.stmt.Description()
}

// SwitchStatement dispatches on an integer value.
type SwitchStatement struct {
	symbols  *SymbolTable
	value    Expression
	cases    []*SwitchCase
	isStatic bool
}

// NewSwitchStatement creates a switch with its own scope.
func NewSwitchStatement(isStatic bool, value Expression, cases []*SwitchCase, symbols *SymbolTable) *SwitchStatement {
	return &SwitchStatement{isStatic: isStatic, value: value, cases: cases, symbols: symbols}
}

func (s *SwitchStatement) StatementKind() StatementKind { return StmtSwitch }
func (s *SwitchStatement) IsStatic() bool               { return s.isStatic }
func (s *SwitchStatement) Value() Expression            { return s.value }
func (s *SwitchStatement) Cases() []*SwitchCase         { return s.cases }
func (s *SwitchStatement) Symbols() *SymbolTable        { return s.symbols }

func (s *SwitchStatement) Description() string {
	var b strings.Builder
	if s.isStatic {
		b.WriteByte('@')
	}
	b.WriteString("switch (")
	b.WriteString(s.value.Description())
	b.WriteString(") {")
	for _, c := range s.cases {
		b.WriteByte(' ')
		b.WriteString(c.Description())
	}
	b.WriteString(" }")
	return b.String()
}

// VarDeclaration declares a variable with an optional initial value.
type VarDeclaration struct {
	variable  *Variable
	baseType  *Type
	value     Expression
	arraySize int
}

// NewVarDeclaration creates a declaration and links it to v.
func NewVarDeclaration(v *Variable, baseType *Type, arraySize int, value Expression) *VarDeclaration {
	d := &VarDeclaration{variable: v, baseType: baseType, arraySize: arraySize, value: value}
	v.SetDeclaration(d)
	return d
}

func (s *VarDeclaration) StatementKind() StatementKind { return StmtVarDeclaration }
func (s *VarDeclaration) Variable() *Variable          { return s.variable }
func (s *VarDeclaration) BaseType() *Type              { return s.baseType }
func (s *VarDeclaration) ArraySize() int               { return s.arraySize }
func (s *VarDeclaration) Value() Expression            { return s.value }

func (s *VarDeclaration) Description() string {
	var b strings.Builder
	if m := s.variable.Modifiers(); m != nil {
		if d := m.Description(); d != "" {
			b.WriteString(d)
			b.WriteByte(' ')
		}
	}
	b.WriteString(s.baseType.Name())
	b.WriteByte(' ')
	b.WriteString(s.variable.Name())
	if s.arraySize > 0 {
		b.WriteString("[" + strconv.Itoa(s.arraySize) + "]")
	}
	if s.value != nil {
		b.WriteString(" = ")
		b.WriteString(s.value.Description())
	}
	b.WriteByte(';')
	return b.String()
}
