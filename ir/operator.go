package ir

// Operator is a unary or binary operator token. Values are part of the
// artifact format and must not be reordered.
type Operator uint8

const (
	OpPlus Operator = iota
	OpMinus
	OpStar
	OpSlash
	OpPercent
	OpShl
	OpShr
	OpLogicalNot
	OpLogicalAnd
	OpLogicalOr
	OpLogicalXor
	OpBitwiseNot
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpEq
	OpEqEq
	OpNeq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpPlusEq
	OpMinusEq
	OpStarEq
	OpSlashEq
	OpPercentEq
	OpShlEq
	OpShrEq
	OpBitwiseAndEq
	OpBitwiseOrEq
	OpBitwiseXorEq
	OpPlusPlus
	OpMinusMinus
	OpComma
	operatorCount
)

var operatorTokens = [operatorCount]string{
	"+", "-", "*", "/", "%", "<<", ">>", "!", "&&", "||", "^^", "~", "&", "|", "^",
	"=", "==", "!=", "<", ">", "<=", ">=",
	"+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "|=", "^=",
	"++", "--", ",",
}

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool { return op < operatorCount }

func (op Operator) String() string {
	if !op.Valid() {
		return "<invalid operator>"
	}
	return operatorTokens[op]
}

// IsAssignment reports whether op writes its left operand.
func (op Operator) IsAssignment() bool {
	switch op {
	case OpEq, OpPlusEq, OpMinusEq, OpStarEq, OpSlashEq, OpPercentEq,
		OpShlEq, OpShrEq, OpBitwiseAndEq, OpBitwiseOrEq, OpBitwiseXorEq:
		return true
	}
	return false
}

// IsComparison reports whether op yields a boolean from two operands.
func (op Operator) IsComparison() bool {
	switch op {
	case OpEqEq, OpNeq, OpLt, OpGt, OpLtEq, OpGtEq:
		return true
	}
	return false
}

// IsLogical reports whether op combines boolean operands.
func (op Operator) IsLogical() bool {
	switch op {
	case OpLogicalAnd, OpLogicalOr, OpLogicalXor:
		return true
	}
	return false
}

// RemoveAssignment maps a compound assignment to its arithmetic operator.
// Other operators are returned unchanged.
func (op Operator) RemoveAssignment() Operator {
	switch op {
	case OpPlusEq:
		return OpPlus
	case OpMinusEq:
		return OpMinus
	case OpStarEq:
		return OpStar
	case OpSlashEq:
		return OpSlash
	case OpPercentEq:
		return OpPercent
	case OpShlEq:
		return OpShl
	case OpShrEq:
		return OpShr
	case OpBitwiseAndEq:
		return OpBitwiseAnd
	case OpBitwiseOrEq:
		return OpBitwiseOr
	case OpBitwiseXorEq:
		return OpBitwiseXor
	}
	return op
}
