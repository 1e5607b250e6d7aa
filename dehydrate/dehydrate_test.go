package dehydrate

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/google/go-cmp/cmp"

	rterrors "github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
	"github.com/wippyai/sksl-runtime/rehydrate"
)

// addGolden is the artifact for
//
//	int add(int a, int b) { return a + b; }
var addGolden = []byte{
	0x0b, 0x00, 0x0c, 0x00, // version 11, 12-byte blob
	0x03, 0x61, 0x64, 0x64, 0x01, 0x61, 0x03, 0x69, 0x6e, 0x74, 0x01, 0x62, // "add" "a" "int" "b"
	0x2a, 0x00, 0x00, // Program fragment 100
	0x33, 0x00, 0x01, 0x00, // SymbolTable, 1 owned
	0x1c, 0x00, 0x00, 0x11, 0x00, 0x00, 0x02, // FunctionDeclaration #0 add, 2 params
	0x36, 0x01, 0x00, 0x11, 0x04, 0x00, 0x32, 0xff, 0xff, 0x06, 0x00, 0x03, // Variable #1 a int
	0x36, 0x02, 0x00, 0x11, 0x0a, 0x00, 0x32, 0xff, 0xff, 0x06, 0x00, 0x03, // Variable #2 b int
	0x32, 0xff, 0xff, 0x06, 0x00, // returns int
	0x01, 0x00, 0x00, 0x00, // visible: entry 0
	0x14, 0x1d, 0x00, 0x00, // Elements, FunctionDefinition #0
	0x02, 0x33, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, // Block, empty scope, 1 statement
	0x2b, 0x01, 0x37, 0x01, 0x00, 0x00, 0x00, 0x37, 0x02, 0x00, 0x00, // return a + b
	0x01,       // braced
	0x15, 0x00, // ElementsComplete, no flip uniform
}

func ref(v *ir.Variable) ir.Expression { return ir.NewVariableReference(v, ir.RefRead) }

func buildAdd(ctx *ir.Context) *ir.Program {
	bt := ctx.Types
	pool := ir.NewModifiersPool()
	mods := pool.Add(ir.DefaultModifiers())

	root := ir.NewSymbolTable(ctx.Root(ir.ProgramKindFragment), false)
	a := ir.NewVariable(mods, "a", bt.Int, false, ir.StorageParameter)
	b := ir.NewVariable(mods, "b", bt.Int, false, ir.StorageParameter)
	add := ir.NewFunctionDeclaration(mods, "add", []*ir.Variable{a, b}, bt.Int, false)
	root.Add(add)

	body := ir.NewBlock([]ir.Statement{
		ir.NewReturnStatement(ir.NewBinaryExpression(ctx, ref(a), ir.OpPlus, ref(b))),
	}, ir.BlockBraced, ir.NewSymbolTable(root, false))

	return &ir.Program{
		Config: &ir.ProgramConfig{
			Kind:     ir.ProgramKindFragment,
			Settings: ir.ProgramSettings{MaxVersionAllowed: ir.Version300},
		},
		Context:   ctx,
		Symbols:   root,
		Modifiers: pool,
		Pool:      ir.NewPool().Detach(),
		Elements:  []ir.ProgramElement{ir.NewFunctionDefinition(add, body)},
	}
}

// buildShader assembles a runtime shader that touches every statement
// form and most expression forms.
func buildShader(ctx *ir.Context) *ir.Program {
	bt := ctx.Types
	half4 := bt.Lookup("half4")
	pool := ir.NewModifiersPool()
	plain := pool.Add(ir.DefaultModifiers())
	bound := ir.DefaultLayout()
	bound.Binding = 3
	bound.Set = 1
	uniform := pool.Add(ir.Modifiers{Layout: bound, Flags: ir.ModifierUniform})
	highp := pool.Add(ir.Modifiers{Layout: ir.DefaultLayout(), Flags: ir.ModifierUniform | ir.ModifierHighp})

	root := ir.NewSymbolTable(ctx.Root(ir.ProgramKindRuntimeShader), false)
	lightType := ir.MakeStructType("Light", []ir.StructField{
		{Modifiers: plain, Name: "color", Type: half4},
		{Modifiers: plain, Name: "power", Type: bt.Float},
	}, false)
	root.Add(lightType)
	light := ir.NewVariable(uniform, "light", lightType, false, ir.StorageGlobal)
	root.Add(light)
	gainsType := ir.MakeArrayType(bt.Float.ArrayName(4), bt.Float, 4)
	gains := ir.NewVariable(highp, "gains", gainsType, false, ir.StorageGlobal)
	root.Add(gains)

	coord := ir.NewVariable(plain, "coord", bt.Lookup("float2"), false, ir.StorageParameter)
	main := ir.NewFunctionDeclaration(plain, "main", []*ir.Variable{coord}, half4, false)
	root.Add(main)

	scope := ir.NewSymbolTable(root, false)
	scope.AddWithoutOwnership(coord)
	acc := ir.NewVariable(plain, "acc", bt.Float, false, ir.StorageLocal)
	scope.Add(acc)
	write := func(v *ir.Variable) ir.Expression { return ir.NewVariableReference(v, ir.RefWrite) }

	maxFn := ctx.Root(ir.ProgramKindRuntimeShader).Lookup("max").(*ir.FunctionDeclaration)
	x := ir.NewSwizzle(ctx, ref(coord), []uint8{ir.SwizzleX})
	half := ir.NewFloatLiteral(bt.Float, 0.5)
	declAcc := ir.NewVarDeclaration(acc, bt.Float, 0,
		ir.NewFunctionCall(bt.Float, maxFn, []ir.Expression{x, half}))

	loopScope := ir.NewSymbolTable(scope, false)
	i := ir.NewVariable(plain, "i", bt.Int, false, ir.StorageLocal)
	loopScope.Add(i)
	init := ir.NewVarDeclaration(i, bt.Int, 0, ir.NewIntLiteral(bt.Int, 0))
	test := ir.NewBinaryExpression(ctx, ref(i), ir.OpLt, ir.NewIntLiteral(bt.Int, 4))
	next := ir.NewPostfixExpression(ir.NewVariableReference(i, ir.RefReadWrite), ir.OpPlusPlus)
	loopBody := ir.NewExpressionStatement(ir.NewBinaryExpression(ctx,
		write(acc), ir.OpPlusEq, ir.NewIndexExpression(ctx, ref(gains), ref(i))))
	loop := ir.NewForStatement(init, test, next, loopBody,
		ir.AnalyzeLoopUnroll(init, test, next, loopBody), loopScope)

	power := ir.NewFieldAccess(ref(light), 1, ir.FieldAccessDefault)
	branch := ir.NewIfStatement(false,
		ir.NewSettingExpression("sk_Caps.floatIs32Bits", bt.Bool),
		ir.NewExpressionStatement(ir.NewBinaryExpression(ctx, write(acc), ir.OpStarEq, power)),
		ir.NewExpressionStatement(ir.NewBinaryExpression(ctx, write(acc), ir.OpEq,
			ir.NewPrefixExpression(ctx, ir.OpMinus, ref(acc)))))

	clamp := ir.NewExpressionStatement(ir.NewBinaryExpression(ctx, write(acc), ir.OpEq,
		ir.NewTernaryExpression(
			ir.NewBinaryExpression(ctx, ref(acc), ir.OpGt, ir.NewFloatLiteral(bt.Float, 1)),
			ir.NewFloatLiteral(bt.Float, 1),
			ref(acc))))

	sw := ir.NewSwitchStatement(false,
		ir.NewConstructor(ir.ConstructorScalarCast, bt.Int, []ir.Expression{ref(acc)}),
		[]*ir.SwitchCase{
			ir.NewSwitchCase(0, ir.NewReturnStatement(
				ir.NewConstructor(ir.ConstructorSplat, half4, []ir.Expression{ir.NewFloatLiteral(bt.Half, 0)}))),
			ir.NewDefaultSwitchCase(&ir.BreakStatement{}),
		},
		ir.NewSymbolTable(scope, false))

	color := ir.NewFieldAccess(ref(light), 0, ir.FieldAccessDefault)
	ret := ir.NewReturnStatement(ir.NewBinaryExpression(ctx, color, ir.OpStar,
		ir.NewConstructor(ir.ConstructorScalarCast, bt.Half, []ir.Expression{ref(acc)})))

	body := ir.NewBlock([]ir.Statement{declAcc, loop, branch, clamp, sw, ret}, ir.BlockBraced, scope)

	return &ir.Program{
		Config: &ir.ProgramConfig{
			Kind:            ir.ProgramKindRuntimeShader,
			RequiredVersion: ir.Version300,
			Settings:        ir.ProgramSettings{MaxVersionAllowed: ir.Version300},
		},
		Context:   ctx,
		Symbols:   root,
		Modifiers: pool,
		Pool:      ir.NewPool().Detach(),
		Inputs:    ir.ProgramInputs{UseFlipRTUniform: true},
		Elements: []ir.ProgramElement{
			ir.NewStructDefinition(lightType),
			ir.NewGlobalVarDeclaration(ir.NewVarDeclaration(light, lightType, 0, nil)),
			ir.NewGlobalVarDeclaration(ir.NewVarDeclaration(gains, bt.Float, 4, nil)),
			ir.NewFunctionDefinition(main, body),
		},
	}
}

func TestEncodeGolden(t *testing.T) {
	data, err := Encode(buildAdd(ir.NewContext()))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(addGolden, data); diff != "" {
		t.Errorf("encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestGoldenRoundTrip(t *testing.T) {
	ctx := ir.NewContext()
	prog, err := rehydrate.Decode(ctx, addGolden)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Encode(prog)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(addGolden, again) {
		t.Errorf("re-encoded artifact differs:\n%s", cmp.Diff(addGolden, again))
	}
}

func TestRoundTripShader(t *testing.T) {
	ctx := ir.NewContext()
	prog := buildShader(ctx)

	first, err := Encode(prog)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := rehydrate.Decode(ctx, first)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second, err := Encode(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-encode is not byte identical (-first +second):\n%s", diff)
	}

	if decoded.Config.Kind != ir.ProgramKindRuntimeShader || decoded.Config.RequiredVersion != ir.Version300 {
		t.Errorf("config = %+v", decoded.Config)
	}
	if !decoded.Inputs.UseFlipRTUniform {
		t.Error("flip uniform input lost")
	}
	want := prog.Functions()[0].Body().Description()
	got := decoded.Functions()[0].Body().Description()
	if want != got {
		t.Errorf("body differs:\nwant %s\ngot  %s", want, got)
	}

	dump := ir.Dump(decoded)
	for _, line := range []string{
		"unroll i from 0 step 1 count 4",
		"if sk_Caps.floatIs32Bits",
		"case 0",
		"default",
		"struct ",
	} {
		if !strings.Contains(dump, line) {
			t.Errorf("dump missing %q:\n%s", line, dump)
		}
	}

	light := decoded.Symbols.LookupLocal("light").(*ir.Variable)
	if l := light.Modifiers().Layout; l.Binding != 3 || l.Set != 1 {
		t.Errorf("uniform layout = %+v", l)
	}
	gains := decoded.Symbols.LookupLocal("gains").(*ir.Variable)
	if gains.Modifiers().Flags != ir.ModifierUniform|ir.ModifierHighp {
		t.Errorf("gains flags = %#x", gains.Modifiers().Flags)
	}
	if !gains.Type().IsArray() || gains.Type().ArraySize() != 4 {
		t.Errorf("gains type = %s", gains.Type().Description())
	}
}

func TestEncodeModule(t *testing.T) {
	ctx := ir.NewContext()
	bt := ctx.Types
	pool := ir.NewModifiersPool()
	plain := pool.Add(ir.DefaultModifiers())
	parent := ctx.Root(ir.ProgramKindRuntimeShader)

	scope := ir.NewSymbolTable(parent, true)
	x := ir.NewVariable(plain, "x", bt.Half, true, ir.StorageParameter)
	luma := ir.NewFunctionDeclaration(plain, "luma", []*ir.Variable{x}, bt.Half, true)
	scope.Add(luma)
	mod := &ir.Module{
		Symbols:   scope,
		Modifiers: pool,
		Pool:      ir.NewPool().Detach(),
		Elements:  []ir.ProgramElement{ir.NewFunctionPrototype(luma)},
	}

	enc := NewEncoder(Options{})
	first, err := enc.EncodeModule(mod)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := rehydrate.NewDecoder(ctx, rehydrate.Options{}).DecodeModule(first, parent)
	if err != nil {
		t.Fatal(err)
	}
	second, err := enc.EncodeModule(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("module re-encode differs:\n%s", cmp.Diff(first, second))
	}
	if decoded.Symbols.LookupLocal("luma") == nil {
		t.Error("luma not visible in decoded module")
	}
}

func TestEncodeSharedFunction(t *testing.T) {
	ctx := ir.NewContext()
	bt := ctx.Types
	pool := ir.NewModifiersPool()
	plain := pool.Add(ir.DefaultModifiers())

	root := ir.NewSymbolTable(ctx.Root(ir.ProgramKindFragment), false)
	v := ir.NewVariable(plain, "v", bt.Half, false, ir.StorageParameter)
	id := ir.NewFunctionDeclaration(plain, "id", []*ir.Variable{v}, bt.Half, false)
	prog := &ir.Program{
		Config:    &ir.ProgramConfig{Kind: ir.ProgramKindFragment},
		Context:   ctx,
		Symbols:   root,
		Modifiers: pool,
		Pool:      ir.NewPool().Detach(),
		Elements:  []ir.ProgramElement{ir.NewFunctionDefinition(id, ir.NewReturnStatement(ref(v)))},
	}

	data, err := Encode(prog)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := rehydrate.Decode(ctx, data)
	if err != nil {
		t.Fatal(err)
	}
	fns := decoded.Functions()
	if len(fns) != 1 || fns[0].Declaration().Description() != "half id(half v)" {
		t.Fatalf("functions = %v", fns)
	}
	if decoded.Symbols.LookupLocal("id") != nil {
		t.Error("shared declaration should not be bound")
	}
}

func TestEncodeCompressed(t *testing.T) {
	prog := buildShader(ir.NewContext())
	plain, err := Encode(prog)
	if err != nil {
		t.Fatal(err)
	}
	packed, err := EncodeCompressed(prog)
	if err != nil {
		t.Fatal(err)
	}
	unpacked, err := snappy.Decode(nil, packed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plain, unpacked) {
		t.Error("compressed artifact does not unpack to the plain encoding")
	}
}

func TestEncodeErrors(t *testing.T) {
	ctx := ir.NewContext()
	bt := ctx.Types
	plain := ir.NewModifiersPool().Add(ir.DefaultModifiers())

	withBody := func(body ir.Statement) *ir.Program {
		root := ir.NewSymbolTable(ctx.Root(ir.ProgramKindFragment), false)
		main := ir.NewFunctionDeclaration(plain, "main", nil, bt.Void, false)
		root.Add(main)
		return &ir.Program{
			Config:   &ir.ProgramConfig{Kind: ir.ProgramKindFragment},
			Context:  ctx,
			Symbols:  root,
			Elements: []ir.ProgramElement{ir.NewFunctionDefinition(main, body)},
		}
	}
	stray := ir.NewVariable(plain, "stray", bt.Int, false, ir.StorageLocal)

	tests := []struct {
		name string
		prog *ir.Program
		kind rterrors.Kind
	}{
		{
			name: "variable never written",
			prog: withBody(ir.NewExpressionStatement(ref(stray))),
			kind: rterrors.KindUnresolvedID,
		},
		{
			name: "declaration of unwritten variable",
			prog: withBody(ir.NewVarDeclaration(stray, bt.Int, 0, nil)),
			kind: rterrors.KindUnresolvedID,
		},
		{
			name: "name too long",
			prog: func() *ir.Program {
				root := ir.NewSymbolTable(ctx.Root(ir.ProgramKindFragment), false)
				root.Add(ir.NewVariable(plain, strings.Repeat("n", 300), bt.Int, false, ir.StorageGlobal))
				return &ir.Program{Config: &ir.ProgramConfig{}, Context: ctx, Symbols: root}
			}(),
			kind: rterrors.KindOverflow,
		},
		{
			name: "literal out of range",
			prog: withBody(ir.NewExpressionStatement(ir.NewIntLiteral(bt.Int, 1<<40))),
			kind: rterrors.KindOverflow,
		},
		{
			name: "missing scope",
			prog: &ir.Program{Config: &ir.ProgramConfig{}},
			kind: rterrors.KindInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.prog)
			var rerr *rterrors.Error
			if !errors.As(err, &rerr) {
				t.Fatalf("expected *errors.Error, got %v", err)
			}
			if rerr.Kind != tt.kind {
				t.Errorf("kind = %s, want %s (%v)", rerr.Kind, tt.kind, err)
			}
		})
	}
}
