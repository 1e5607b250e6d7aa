package ir

import "strconv"

// Builtin layout ids of the predeclared shader variables.
const (
	BuiltinPosition      int32 = 0
	BuiltinPointSize     int32 = 1
	BuiltinFragCoord     int32 = 15
	BuiltinClockwise     int32 = 17
	BuiltinVertexID      int32 = 42
	BuiltinInstanceID    int32 = 43
	BuiltinFragColor     int32 = 10001
	BuiltinLastFragColor int32 = 10008
)

// BuiltinTypes is the type table shared by every builtin root.
type BuiltinTypes struct {
	Void        *Type
	Bool        *Type
	Int         *Type
	UInt        *Type
	Short       *Type
	UShort      *Type
	Float       *Type
	Half        *Type
	Sampler2D   *Type
	Shader      *Type
	ColorFilter *Type
	Blender     *Type

	byName  map[string]*Type
	ordered []*Type
}

func newBuiltinTypes() *BuiltinTypes {
	bt := &BuiltinTypes{byName: make(map[string]*Type)}
	add := func(t *Type) *Type {
		bt.byName[t.Name()] = t
		bt.ordered = append(bt.ordered, t)
		return t
	}

	bt.Void = add(MakeSimpleType("void", TypeKindVoid))

	scalars := []struct {
		dst      **Type
		name     string
		number   NumberKind
		priority int
		width    int
	}{
		{&bt.Float, "float", NumberKindFloat, 10, 32},
		{&bt.Half, "half", NumberKindFloat, 9, 16},
		{&bt.Int, "int", NumberKindSigned, 7, 32},
		{&bt.UInt, "uint", NumberKindUnsigned, 6, 32},
		{&bt.Short, "short", NumberKindSigned, 4, 16},
		{&bt.UShort, "ushort", NumberKindUnsigned, 3, 16},
		{&bt.Bool, "bool", NumberKindBoolean, 0, 1},
	}
	for _, s := range scalars {
		*s.dst = add(MakeScalarType(s.name, s.number, s.priority, s.width))
		for n := 2; n <= 4; n++ {
			add(MakeVectorType(s.name+strconv.Itoa(n), *s.dst, n))
		}
	}
	for _, component := range []*Type{bt.Float, bt.Half} {
		for c := 2; c <= 4; c++ {
			for r := 2; r <= 4; r++ {
				add(MakeMatrixType(matrixName(component, c, r), component, c, r))
			}
		}
	}

	bt.Sampler2D = add(MakeSimpleType("sampler2D", TypeKindSampler))
	bt.Shader = add(MakeSimpleType("shader", TypeKindEffect))
	bt.ColorFilter = add(MakeSimpleType("colorFilter", TypeKindEffect))
	bt.Blender = add(MakeSimpleType("blender", TypeKindEffect))

	generic := func(name string, members ...string) {
		types := make([]*Type, len(members))
		for i, m := range members {
			types[i] = bt.byName[m]
		}
		add(MakeGenericType(name, types))
	}
	generic("$genType", "float", "float2", "float3", "float4")
	generic("$genHType", "half", "half2", "half3", "half4")
	generic("$genIType", "int", "int2", "int3", "int4")
	generic("$genUType", "uint", "uint2", "uint3", "uint4")
	generic("$genBType", "bool", "bool2", "bool3", "bool4")
	generic("$vec", "float2", "float3", "float4")
	generic("$hvec", "half2", "half3", "half4")
	generic("$bvec", "bool2", "bool3", "bool4")
	generic("$squareMat", "float2x2", "float3x3", "float4x4")
	generic("$squareHMat", "half2x2", "half3x3", "half4x4")
	return bt
}

func matrixName(component *Type, columns, rows int) string {
	return component.Name() + strconv.Itoa(columns) + "x" + strconv.Itoa(rows)
}

// Lookup returns the builtin type with the given name, or nil.
func (bt *BuiltinTypes) Lookup(name string) *Type { return bt.byName[name] }

// All returns every builtin type in declaration order.
func (bt *BuiltinTypes) All() []*Type { return bt.ordered }

// Vector returns the vector of n components of the given scalar type;
// n == 1 yields the scalar itself.
func (bt *BuiltinTypes) Vector(component *Type, n int) *Type {
	if n == 1 {
		return component
	}
	return bt.byName[component.Name()+strconv.Itoa(n)]
}

// Matrix returns the columns x rows matrix of the given scalar type.
func (bt *BuiltinTypes) Matrix(component *Type, columns, rows int) *Type {
	return bt.byName[matrixName(component, columns, rows)]
}

type builtinSignature struct {
	name   string
	ret    string
	params []string
}

func sigs(name string, forms ...[]string) []builtinSignature {
	out := make([]builtinSignature, len(forms))
	for i, f := range forms {
		out[i] = builtinSignature{name: name, ret: f[0], params: f[1:]}
	}
	return out
}

func builtinFunctionSignatures() []builtinSignature {
	var all []builtinSignature
	unary := []string{
		"sin", "cos", "tan", "asin", "acos", "radians", "degrees",
		"exp", "log", "exp2", "log2", "sqrt", "inversesqrt",
		"floor", "ceil", "fract", "saturate", "normalize",
		"dFdx", "dFdy", "fwidth",
	}
	for _, name := range unary {
		all = append(all, sigs(name,
			[]string{"$genType", "$genType"},
			[]string{"$genHType", "$genHType"})...)
	}
	all = append(all, sigs("abs",
		[]string{"$genType", "$genType"},
		[]string{"$genHType", "$genHType"},
		[]string{"$genIType", "$genIType"})...)
	all = append(all, sigs("sign",
		[]string{"$genType", "$genType"},
		[]string{"$genHType", "$genHType"},
		[]string{"$genIType", "$genIType"})...)
	all = append(all, sigs("atan",
		[]string{"$genType", "$genType"},
		[]string{"$genHType", "$genHType"},
		[]string{"$genType", "$genType", "$genType"},
		[]string{"$genHType", "$genHType", "$genHType"})...)
	all = append(all, sigs("pow",
		[]string{"$genType", "$genType", "$genType"},
		[]string{"$genHType", "$genHType", "$genHType"})...)
	all = append(all, sigs("mod",
		[]string{"$genType", "$genType", "float"},
		[]string{"$genType", "$genType", "$genType"},
		[]string{"$genHType", "$genHType", "half"},
		[]string{"$genHType", "$genHType", "$genHType"})...)
	for _, name := range []string{"min", "max"} {
		all = append(all, sigs(name,
			[]string{"$genType", "$genType", "$genType"},
			[]string{"$genType", "$genType", "float"},
			[]string{"$genHType", "$genHType", "$genHType"},
			[]string{"$genHType", "$genHType", "half"},
			[]string{"$genIType", "$genIType", "$genIType"},
			[]string{"$genIType", "$genIType", "int"},
			[]string{"$genUType", "$genUType", "$genUType"},
			[]string{"$genUType", "$genUType", "uint"})...)
	}
	all = append(all, sigs("clamp",
		[]string{"$genType", "$genType", "$genType", "$genType"},
		[]string{"$genType", "$genType", "float", "float"},
		[]string{"$genHType", "$genHType", "$genHType", "$genHType"},
		[]string{"$genHType", "$genHType", "half", "half"},
		[]string{"$genIType", "$genIType", "$genIType", "$genIType"},
		[]string{"$genIType", "$genIType", "int", "int"})...)
	all = append(all, sigs("mix",
		[]string{"$genType", "$genType", "$genType", "$genType"},
		[]string{"$genType", "$genType", "$genType", "float"},
		[]string{"$genHType", "$genHType", "$genHType", "$genHType"},
		[]string{"$genHType", "$genHType", "$genHType", "half"},
		[]string{"$genType", "$genType", "$genType", "$genBType"})...)
	all = append(all, sigs("step",
		[]string{"$genType", "$genType", "$genType"},
		[]string{"$genType", "float", "$genType"},
		[]string{"$genHType", "$genHType", "$genHType"},
		[]string{"$genHType", "half", "$genHType"})...)
	all = append(all, sigs("smoothstep",
		[]string{"$genType", "$genType", "$genType", "$genType"},
		[]string{"$genType", "float", "float", "$genType"},
		[]string{"$genHType", "$genHType", "$genHType", "$genHType"},
		[]string{"$genHType", "half", "half", "$genHType"})...)
	all = append(all, sigs("length",
		[]string{"float", "$genType"},
		[]string{"half", "$genHType"})...)
	all = append(all, sigs("distance",
		[]string{"float", "$genType", "$genType"},
		[]string{"half", "$genHType", "$genHType"})...)
	all = append(all, sigs("dot",
		[]string{"float", "$genType", "$genType"},
		[]string{"half", "$genHType", "$genHType"})...)
	all = append(all, sigs("cross",
		[]string{"float3", "float3", "float3"},
		[]string{"half3", "half3", "half3"})...)
	all = append(all, sigs("reflect",
		[]string{"$genType", "$genType", "$genType"},
		[]string{"$genHType", "$genHType", "$genHType"})...)
	all = append(all, sigs("matrixCompMult",
		[]string{"$squareMat", "$squareMat", "$squareMat"},
		[]string{"$squareHMat", "$squareHMat", "$squareHMat"})...)
	all = append(all, sigs("inverse",
		[]string{"$squareMat", "$squareMat"},
		[]string{"$squareHMat", "$squareHMat"})...)
	all = append(all, sigs("determinant",
		[]string{"float", "$squareMat"},
		[]string{"half", "$squareHMat"})...)
	for c := 2; c <= 4; c++ {
		for r := 2; r <= 4; r++ {
			fm := "float" + strconv.Itoa(c) + "x" + strconv.Itoa(r)
			ft := "float" + strconv.Itoa(r) + "x" + strconv.Itoa(c)
			hm := "half" + strconv.Itoa(c) + "x" + strconv.Itoa(r)
			ht := "half" + strconv.Itoa(r) + "x" + strconv.Itoa(c)
			all = append(all, sigs("transpose", []string{ft, fm}, []string{ht, hm})...)
		}
	}
	for _, name := range []string{"lessThan", "lessThanEqual", "greaterThan", "greaterThanEqual", "equal", "notEqual"} {
		all = append(all, sigs(name,
			[]string{"$bvec", "$vec", "$vec"},
			[]string{"$bvec", "$hvec", "$hvec"})...)
	}
	all = append(all, sigs("any", []string{"bool", "$bvec"})...)
	all = append(all, sigs("all", []string{"bool", "$bvec"})...)
	all = append(all, sigs("not", []string{"$bvec", "$bvec"})...)
	all = append(all, sigs("unpremul", []string{"half4", "half4"}, []string{"float4", "float4"})...)
	all = append(all, sigs("toLinearSrgb", []string{"half3", "half3"})...)
	all = append(all, sigs("fromLinearSrgb", []string{"half3", "half3"})...)
	all = append(all, sigs("sample",
		[]string{"half4", "sampler2D", "float2"},
		[]string{"half4", "sampler2D", "float3"})...)
	return all
}

type builtinVariable struct {
	name    string
	typ     string
	builtin int32
	flags   int32
}

var (
	fragmentVariables = []builtinVariable{
		{"sk_FragCoord", "float4", BuiltinFragCoord, ModifierIn},
		{"sk_Clockwise", "bool", BuiltinClockwise, ModifierIn},
		{"sk_FragColor", "half4", BuiltinFragColor, ModifierOut},
		{"sk_LastFragColor", "half4", BuiltinLastFragColor, ModifierIn},
	}
	vertexVariables = []builtinVariable{
		{"sk_Position", "float4", BuiltinPosition, ModifierOut},
		{"sk_PointSize", "float", BuiltinPointSize, ModifierOut},
		{"sk_VertexID", "int", BuiltinVertexID, ModifierIn},
		{"sk_InstanceID", "int", BuiltinInstanceID, ModifierIn},
	}
	runtimeVariables = []builtinVariable{
		{"sk_FragCoord", "float4", BuiltinFragCoord, ModifierIn},
	}
)

func kindVariables(kind ProgramKind) []builtinVariable {
	switch kind {
	case ProgramKindFragment:
		return fragmentVariables
	case ProgramKindVertex, ProgramKindMeshVertex:
		return vertexVariables
	case ProgramKindRuntimeShader, ProgramKindPrivateRuntimeShader, ProgramKindMeshFragment:
		return runtimeVariables
	}
	return nil
}
