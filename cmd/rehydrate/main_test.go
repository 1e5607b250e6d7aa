package main

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/sksl-runtime/dehydrate"
	"github.com/wippyai/sksl-runtime/ir"
)

func writeArtifact(t *testing.T) string {
	t.Helper()
	ctx := ir.NewContext()
	bt := ctx.Types
	mods := ir.NewModifiersPool().Add(ir.DefaultModifiers())
	root := ir.NewSymbolTable(ctx.Root(ir.ProgramKindFragment), false)
	entry := ir.NewFunctionDeclaration(mods, "main", nil, bt.Void, false)
	root.Add(entry)
	body := ir.NewBlock([]ir.Statement{ir.NewReturnStatement(nil)}, ir.BlockBraced, ir.NewSymbolTable(root, false))

	data, err := dehydrate.Encode(&ir.Program{
		Config:   &ir.ProgramConfig{Kind: ir.ProgramKindFragment},
		Context:  ctx,
		Symbols:  root,
		Elements: []ir.ProgramElement{ir.NewFunctionDefinition(entry, body)},
	})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "main.bin")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunVerify(t *testing.T) {
	path := writeArtifact(t)
	if err := run(options{in: path, kind: "fragment", verify: true}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	path := writeArtifact(t)
	tests := []struct {
		name string
		opts options
	}{
		{"unknown kind", options{in: path, kind: "compute"}},
		{"missing file", options{in: filepath.Join(t.TempDir(), "nope.bin"), kind: "fragment"}},
		{"missing config", options{in: path, kind: "fragment", config: filepath.Join(t.TempDir(), "nope.toml")}},
		{"module without path", options{module: true, kind: "fragment"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.opts); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestFirstDifference(t *testing.T) {
	tests := []struct {
		a, b []byte
		want int
	}{
		{[]byte{1, 2, 3}, []byte{1, 2, 3}, 3},
		{[]byte{1, 2, 3}, []byte{1, 9, 3}, 1},
		{[]byte{1, 2}, []byte{1, 2, 3}, 2},
		{nil, []byte{1}, 0},
	}
	for _, tt := range tests {
		if got := firstDifference(tt.a, tt.b); got != tt.want {
			t.Errorf("firstDifference(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"scope owned=1", 0, "scope owned=1"},
		{"scope owned=1", 40, "scope owned=1"},
		{"scope owned=1", 6, "scope…"},
		{"ab", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
	if got := indent(ir.Line{Depth: 2, Text: "x"}); got != "    x" {
		t.Errorf("indent = %q", got)
	}
}

func browserWith(lines []ir.Line) *browserModel {
	m := newBrowserModel("test.bin", func() ([]ir.Line, error) { return lines, nil })
	m.Update(m.loadTree())
	return m
}

func TestBrowserFold(t *testing.T) {
	m := browserWith([]ir.Line{
		{Depth: 0, Text: "program fragment"},
		{Depth: 1, Text: "function void main()"},
		{Depth: 2, Text: "block braced"},
		{Depth: 3, Text: "return;"},
		{Depth: 1, Text: "global int g;"},
	})
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, m.visible); diff != "" {
		t.Fatalf("initial rows (-want +got):\n%s", diff)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if diff := cmp.Diff([]int{0, 1, 4}, m.visible); diff != "" {
		t.Errorf("folded rows (-want +got):\n%s", diff)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.visible) != 5 {
		t.Errorf("unfold left %d rows", len(m.visible))
	}

	// Leaves do not fold.
	m.cursor = 3
	m.toggle()
	if len(m.visible) != 5 {
		t.Errorf("leaf fold changed rows to %d", len(m.visible))
	}
}

func TestBrowserFilter(t *testing.T) {
	m := browserWith([]ir.Line{
		{Depth: 0, Text: "program fragment"},
		{Depth: 1, Text: "owns variable int x"},
		{Depth: 1, Text: "binds variable x"},
		{Depth: 1, Text: "function void main()"},
	})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.filter.Focused() {
		t.Fatal("filter not focused")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("VARIABLE")})
	if diff := cmp.Diff([]int{1, 2}, m.visible); diff != "" {
		t.Errorf("filtered rows (-want +got):\n%s", diff)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filter.Focused() || m.filter.Value() != "" || len(m.visible) != 4 {
		t.Errorf("esc did not clear the filter: %q, %d rows", m.filter.Value(), len(m.visible))
	}
}

func TestBrowserScroll(t *testing.T) {
	lines := make([]ir.Line, 50)
	for i := range lines {
		lines[i] = ir.Line{Depth: 1, Text: "row"}
	}
	m := browserWith(lines)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10 + chromeLines})
	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	if m.cursor != 20 || m.top != 11 {
		t.Errorf("cursor %d top %d", m.cursor, m.top)
	}
	m.move(1000)
	if m.cursor != 49 {
		t.Errorf("cursor %d after overshoot", m.cursor)
	}
}

func TestBrowserLoadError(t *testing.T) {
	m := newBrowserModel("bad.bin", func() ([]ir.Line, error) { return nil, os.ErrNotExist })
	m.Update(m.loadTree())
	if m.err == nil {
		t.Fatal("load error dropped")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Error("q should quit")
	}
}
