package ir

import (
	"fmt"
	"strings"
)

// Line is one row of a printed tree.
type Line struct {
	Text  string
	Depth int
}

type printer struct {
	lines []Line
}

func (p *printer) add(depth int, format string, args ...any) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	p.lines = append(p.lines, Line{Depth: depth, Text: text})
}

// Lines renders a program as an indented tree.
func Lines(prog *Program) []Line {
	p := &printer{}
	p.add(0, "program %s version=%s flip_rt=%t", prog.Config.Kind, prog.Config.RequiredVersion, prog.Inputs.UseFlipRTUniform)
	p.scope(1, prog.Symbols)
	for _, e := range prog.Elements {
		p.element(1, e)
	}
	return p.lines
}

// ModuleLines renders a module as an indented tree.
func ModuleLines(m *Module) []Line {
	p := &printer{}
	p.add(0, "module")
	p.scope(1, m.Symbols)
	for _, e := range m.Elements {
		p.element(1, e)
	}
	return p.lines
}

// Dump renders a program as indented text.
func Dump(prog *Program) string {
	return join(Lines(prog))
}

// DumpModule renders a module as indented text.
func DumpModule(m *Module) string {
	return join(ModuleLines(m))
}

func join(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.Repeat("  ", l.Depth))
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func (p *printer) scope(depth int, t *SymbolTable) {
	if t == nil {
		return
	}
	p.add(depth, "scope owned=%d visible=%d", len(t.Owned()), len(t.Bindings()))
	for _, s := range t.Owned() {
		p.add(depth+1, "owns %s %s", s.SymbolKind(), s.Description())
	}
	for _, b := range t.Bindings() {
		p.add(depth+1, "binds %s %s", b.Symbol.SymbolKind(), b.Name)
	}
}

func (p *printer) element(depth int, e ProgramElement) {
	switch e := e.(type) {
	case *FunctionDefinition:
		p.add(depth, "function %s", e.Declaration().Description())
		p.statement(depth+1, e.Body())
	default:
		p.add(depth, "%s %s", e.ElementKind(), e.Description())
	}
}

func (p *printer) statement(depth int, s Statement) {
	switch s := s.(type) {
	case nil:
		p.add(depth, "<none>")
	case *Block:
		p.add(depth, "block %s", s.Kind())
		p.scope(depth+1, s.Symbols())
		for _, st := range s.Statements() {
			p.statement(depth+1, st)
		}
	case *ForStatement:
		p.add(depth, "for")
		p.scope(depth+1, s.Symbols())
		if s.Initializer() != nil {
			p.add(depth+1, "init %s", s.Initializer().Description())
		}
		if s.Test() != nil {
			p.add(depth+1, "test %s", s.Test().Description())
		}
		if s.Next() != nil {
			p.add(depth+1, "next %s", s.Next().Description())
		}
		if u := s.UnrollInfo(); u != nil {
			p.add(depth+1, "unroll %s from %g step %g count %d", u.Index.Name(), u.Start, u.Delta, u.Count)
		}
		p.statement(depth+1, s.Body())
	case *IfStatement:
		if s.IsStatic() {
			p.add(depth, "@if %s", s.Test().Description())
		} else {
			p.add(depth, "if %s", s.Test().Description())
		}
		p.statement(depth+1, s.IfTrue())
		if s.IfFalse() != nil {
			p.add(depth, "else")
			p.statement(depth+1, s.IfFalse())
		}
	case *SwitchStatement:
		if s.IsStatic() {
			p.add(depth, "@switch %s", s.Value().Description())
		} else {
			p.add(depth, "switch %s", s.Value().Description())
		}
		p.scope(depth+1, s.Symbols())
		for _, c := range s.Cases() {
			if c.IsDefault() {
				p.add(depth+1, "default")
			} else {
				p.add(depth+1, "case %d", c.Value())
			}
			p.statement(depth+2, c.Statement())
		}
	case *DoStatement:
		p.add(depth, "do")
		p.statement(depth+1, s.Body())
		p.add(depth, "while %s", s.Test().Description())
	default:
		p.add(depth, "%s", s.Description())
	}
}
