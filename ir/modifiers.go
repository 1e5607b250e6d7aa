package ir

import (
	"strconv"
	"strings"
	"sync"
)

// Layout flags.
const (
	LayoutOriginUpperLeft uint32 = 1 << iota
	LayoutPushConstant
	LayoutBlendSupportAllEquations
	LayoutColor
	LayoutSPIRV
	LayoutMetal
	LayoutWGSL
	LayoutGL
)

// Modifier flags.
const (
	ModifierConst int32 = 1 << iota
	ModifierIn
	ModifierOut
	ModifierUniform
	ModifierFlat
	ModifierNoPerspective
	ModifierPure
	ModifierInline
	ModifierNoInline
	ModifierHighp
	ModifierMediump
	ModifierLowp
	ModifierES3
	ModifierExport
	ModifierBuffer
	ModifierReadOnly
	ModifierWriteOnly
)

var modifierNames = []struct {
	flag int32
	name string
}{
	{ModifierConst, "const"},
	{ModifierIn | ModifierOut, "inout"},
	{ModifierIn, "in"},
	{ModifierOut, "out"},
	{ModifierUniform, "uniform"},
	{ModifierFlat, "flat"},
	{ModifierNoPerspective, "noperspective"},
	{ModifierPure, "$pure"},
	{ModifierInline, "inline"},
	{ModifierNoInline, "noinline"},
	{ModifierHighp, "highp"},
	{ModifierMediump, "mediump"},
	{ModifierLowp, "lowp"},
	{ModifierES3, "$es3"},
	{ModifierExport, "$export"},
	{ModifierBuffer, "buffer"},
	{ModifierReadOnly, "readonly"},
	{ModifierWriteOnly, "writeonly"},
}

// Layout is the layout(...) qualifier attached to a declaration.
// Unset integer fields hold -1.
type Layout struct {
	Flags                uint32
	Location             int32
	Offset               int32
	Binding              int32
	Index                int32
	Set                  int32
	Builtin              int32
	InputAttachmentIndex int32
}

// DefaultLayout returns a layout with no qualifiers set.
func DefaultLayout() Layout {
	return Layout{
		Location:             -1,
		Offset:               -1,
		Binding:              -1,
		Index:                -1,
		Set:                  -1,
		Builtin:              -1,
		InputAttachmentIndex: -1,
	}
}

// BuiltinLayout returns a default layout carrying only a builtin id.
func BuiltinLayout(builtin int32) Layout {
	l := DefaultLayout()
	l.Builtin = builtin
	return l
}

// IsDefault reports whether no qualifier is set.
func (l Layout) IsDefault() bool {
	return l == DefaultLayout()
}

// IsBuiltinOnly reports whether the builtin id is the only qualifier set.
func (l Layout) IsBuiltinOnly() bool {
	return l.Builtin != -1 && l == BuiltinLayout(l.Builtin)
}

// Description renders the layout qualifier, or "" for the default layout.
func (l Layout) Description() string {
	var parts []string
	add := func(name string, v int32) {
		if v >= 0 {
			parts = append(parts, name+"="+strconv.Itoa(int(v)))
		}
	}
	add("location", l.Location)
	add("offset", l.Offset)
	add("binding", l.Binding)
	add("index", l.Index)
	add("set", l.Set)
	add("builtin", l.Builtin)
	add("input_attachment_index", l.InputAttachmentIndex)
	if l.Flags&LayoutOriginUpperLeft != 0 {
		parts = append(parts, "origin_upper_left")
	}
	if l.Flags&LayoutPushConstant != 0 {
		parts = append(parts, "push_constant")
	}
	if l.Flags&LayoutBlendSupportAllEquations != 0 {
		parts = append(parts, "blend_support_all_equations")
	}
	if l.Flags&LayoutColor != 0 {
		parts = append(parts, "color")
	}
	if len(parts) == 0 {
		return ""
	}
	return "layout(" + strings.Join(parts, ", ") + ")"
}

// Modifiers combine a layout with qualifier flags.
type Modifiers struct {
	Layout Layout
	Flags  int32
}

// DefaultModifiers returns modifiers with no qualifiers.
func DefaultModifiers() Modifiers {
	return Modifiers{Layout: DefaultLayout()}
}

// IsDefault reports whether no layout qualifier or flag is set.
func (m Modifiers) IsDefault() bool {
	return m.Flags == 0 && m.Layout.IsDefault()
}

// Description renders the qualifiers in declaration order.
func (m Modifiers) Description() string {
	var parts []string
	if l := m.Layout.Description(); l != "" {
		parts = append(parts, l)
	}
	flags := m.Flags
	for _, n := range modifierNames {
		if flags&n.flag == n.flag {
			parts = append(parts, n.name)
			flags &^= n.flag
		}
	}
	return strings.Join(parts, " ")
}

// ModifiersPool interns Modifiers so that equal qualifiers share storage.
type ModifiersPool struct {
	mu     sync.Mutex
	byVal  map[Modifiers]*Modifiers
	values []*Modifiers
}

// NewModifiersPool creates an empty pool.
func NewModifiersPool() *ModifiersPool {
	return &ModifiersPool{byVal: make(map[Modifiers]*Modifiers)}
}

// Add returns the pooled copy of m.
func (p *ModifiersPool) Add(m Modifiers) *Modifiers {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.byVal[m]; ok {
		return existing
	}
	v := new(Modifiers)
	*v = m
	p.byVal[m] = v
	p.values = append(p.values, v)
	return v
}

// Len returns the number of distinct modifiers in the pool.
func (p *ModifiersPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.values)
}
