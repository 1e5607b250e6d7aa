package ir

import (
	"strconv"
	"strings"
)

// TypeKind identifies the shape of a type.
type TypeKind uint8

const (
	TypeKindVoid TypeKind = iota
	TypeKindScalar
	TypeKindVector
	TypeKindMatrix
	TypeKindArray
	TypeKindStruct
	TypeKindGeneric
	TypeKindSampler
	TypeKindEffect
)

// NumberKind classifies scalar components.
type NumberKind uint8

const (
	NumberKindFloat NumberKind = iota
	NumberKindSigned
	NumberKindUnsigned
	NumberKindBoolean
	NumberKindNonnumeric
)

// UnsizedArray is the element count of an array declared without a size.
const UnsizedArray = -1

// StructField is one member of a struct or interface block type.
type StructField struct {
	Modifiers *Modifiers
	Name      string
	Type      *Type
}

// Type is both a type and a Symbol; types are bound by name in symbol tables.
type Type struct {
	component      *Type
	name           string
	fields         []StructField
	coercible      []*Type
	columns        int
	rows           int
	count          int
	priority       int
	bitWidth       int
	kind           TypeKind
	number         NumberKind
	interfaceBlock bool
}

// MakeSimpleType creates a type with no components (void, samplers, effects).
func MakeSimpleType(name string, kind TypeKind) *Type {
	return &Type{name: name, kind: kind, number: NumberKindNonnumeric}
}

// MakeScalarType creates a scalar type. Priority orders implicit numeric
// coercions: a value may be coerced to a scalar of equal or higher priority.
func MakeScalarType(name string, number NumberKind, priority, bitWidth int) *Type {
	return &Type{
		name:     name,
		kind:     TypeKindScalar,
		number:   number,
		priority: priority,
		bitWidth: bitWidth,
		columns:  1,
		rows:     1,
	}
}

// MakeVectorType creates a vector of columns scalars.
func MakeVectorType(name string, component *Type, columns int) *Type {
	return &Type{
		name:      name,
		kind:      TypeKindVector,
		number:    component.number,
		component: component,
		columns:   columns,
		rows:      1,
	}
}

// MakeMatrixType creates a columns x rows matrix of scalars.
func MakeMatrixType(name string, component *Type, columns, rows int) *Type {
	return &Type{
		name:      name,
		kind:      TypeKindMatrix,
		number:    component.number,
		component: component,
		columns:   columns,
		rows:      rows,
	}
}

// MakeArrayType creates an array type; count may be UnsizedArray.
func MakeArrayType(name string, component *Type, count int) *Type {
	return &Type{
		name:      name,
		kind:      TypeKindArray,
		number:    NumberKindNonnumeric,
		component: component,
		count:     count,
	}
}

// MakeStructType creates a struct or interface block type.
func MakeStructType(name string, fields []StructField, interfaceBlock bool) *Type {
	return &Type{
		name:           name,
		kind:           TypeKindStruct,
		number:         NumberKindNonnumeric,
		fields:         fields,
		interfaceBlock: interfaceBlock,
	}
}

// MakeGenericType creates a placeholder type that accepts any of coercible.
func MakeGenericType(name string, coercible []*Type) *Type {
	return &Type{
		name:      name,
		kind:      TypeKindGeneric,
		number:    NumberKindNonnumeric,
		coercible: coercible,
	}
}

func (t *Type) SymbolKind() SymbolKind { return SymbolKindType }
func (t *Type) Name() string           { return t.name }
func (t *Type) Description() string    { return t.name }
func (t *Type) TypeKind() TypeKind     { return t.kind }
func (t *Type) NumberKind() NumberKind { return t.number }

func (t *Type) IsVoid() bool           { return t.kind == TypeKindVoid }
func (t *Type) IsScalar() bool         { return t.kind == TypeKindScalar }
func (t *Type) IsVector() bool         { return t.kind == TypeKindVector }
func (t *Type) IsMatrix() bool         { return t.kind == TypeKindMatrix }
func (t *Type) IsArray() bool          { return t.kind == TypeKindArray }
func (t *Type) IsStruct() bool         { return t.kind == TypeKindStruct }
func (t *Type) IsGeneric() bool        { return t.kind == TypeKindGeneric }
func (t *Type) IsInterfaceBlock() bool { return t.interfaceBlock }
func (t *Type) IsUnsizedArray() bool   { return t.kind == TypeKindArray && t.count == UnsizedArray }

func (t *Type) IsFloat() bool    { return t.number == NumberKindFloat }
func (t *Type) IsSigned() bool   { return t.number == NumberKindSigned }
func (t *Type) IsUnsigned() bool { return t.number == NumberKindUnsigned }
func (t *Type) IsBoolean() bool  { return t.number == NumberKindBoolean }

// IsNumber reports whether the type's components are numeric.
func (t *Type) IsNumber() bool {
	switch t.number {
	case NumberKindFloat, NumberKindSigned, NumberKindUnsigned:
		return true
	}
	return false
}

// ComponentType returns the element type of vectors, matrices and arrays,
// and the type itself for scalars.
func (t *Type) ComponentType() *Type {
	if t.component == nil {
		return t
	}
	return t.component
}

// Columns returns the vector width or matrix column count; 1 for scalars.
func (t *Type) Columns() int { return t.columns }

// Rows returns the matrix row count; 1 for scalars and vectors.
func (t *Type) Rows() int { return t.rows }

// ArraySize returns the element count of an array type.
func (t *Type) ArraySize() int { return t.count }

// Fields returns the members of a struct type.
func (t *Type) Fields() []StructField { return t.fields }

// CoercibleTypes returns the members of a generic type.
func (t *Type) CoercibleTypes() []*Type { return t.coercible }

// Priority returns the scalar coercion rank of the type's components.
func (t *Type) Priority() int { return t.ComponentType().priority }

// BitWidth returns the scalar width in bits.
func (t *Type) BitWidth() int { return t.ComponentType().bitWidth }

// ArrayName returns the canonical name of an array of t with count elements.
func (t *Type) ArrayName(count int) string {
	if count == UnsizedArray {
		return t.name + "[]"
	}
	return t.name + "[" + strconv.Itoa(count) + "]"
}

// Matches reports whether t and other denote the same type.
func (t *Type) Matches(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.name == other.name
}

// CoercionCost returns the cost of implicitly converting a value of type
// from to t, and false if no implicit conversion exists.
func (t *Type) CoercionCost(from *Type) (int, bool) {
	if t.Matches(from) {
		return 0, true
	}
	if t.kind == TypeKindGeneric {
		best, found := 0, false
		for _, c := range t.coercible {
			if cost, ok := c.CoercionCost(from); ok && (!found || cost < best) {
				best, found = cost, true
			}
		}
		return best, found
	}
	switch t.kind {
	case TypeKindScalar, TypeKindVector, TypeKindMatrix:
		if from.kind != t.kind || from.columns != t.columns || from.rows != t.rows {
			return 0, false
		}
		if !t.IsNumber() || !from.IsNumber() {
			return 0, false
		}
		diff := t.Priority() - from.Priority()
		if diff < 0 {
			return 0, false
		}
		return diff, true
	case TypeKindArray:
		if from.kind == TypeKindArray && from.count == t.count && t.component.Matches(from.component) {
			return 0, true
		}
	}
	return 0, false
}

func describeFields(b *strings.Builder, fields []StructField) {
	b.WriteString("{ ")
	for _, f := range fields {
		if f.Modifiers != nil {
			if m := f.Modifiers.Description(); m != "" {
				b.WriteString(m)
				b.WriteByte(' ')
			}
		}
		b.WriteString(f.Type.Name())
		b.WriteByte(' ')
		b.WriteString(f.Name)
		b.WriteString("; ")
	}
	b.WriteByte('}')
}
