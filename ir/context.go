package ir

import "maps"

// Context is the language runtime a decode session borrows: the builtin
// type table, one sealed root scope per program kind, and the capability
// settings used to fold Setting expressions. A Context is immutable once
// built and may be shared by concurrent sessions.
type Context struct {
	Types     *BuiltinTypes
	caps      map[string]bool
	modifiers *ModifiersPool
	functions []*FunctionDeclaration
	roots     [programKindCount]*SymbolTable
}

// ContextOption configures NewContext.
type ContextOption func(*Context)

// WithCapabilities enables folding of sk_Caps settings. Names are the part
// after "sk_Caps."; unlisted capabilities take their default value.
func WithCapabilities(caps map[string]bool) ContextOption {
	return func(c *Context) {
		c.caps = maps.Clone(caps)
		if c.caps == nil {
			c.caps = map[string]bool{}
		}
	}
}

// NewContext builds the builtin environment.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		Types:     newBuiltinTypes(),
		modifiers: NewModifiersPool(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.functions = c.makeFunctions()
	for _, kind := range ProgramKinds() {
		c.roots[kind] = c.makeRoot(kind)
	}
	return c
}

func (c *Context) makeFunctions() []*FunctionDeclaration {
	mods := c.modifiers.Add(DefaultModifiers())
	paramNames := "xyzw"
	var fns []*FunctionDeclaration
	for _, sig := range builtinFunctionSignatures() {
		params := make([]*Variable, len(sig.params))
		for i, p := range sig.params {
			params[i] = NewVariable(mods, paramNames[i:i+1], c.Types.Lookup(p), true, StorageParameter)
		}
		fns = append(fns, NewFunctionDeclaration(mods, sig.name, params, c.Types.Lookup(sig.ret), true))
	}
	return fns
}

func (c *Context) makeRoot(kind ProgramKind) *SymbolTable {
	root := NewSymbolTable(nil, true)
	for _, t := range c.Types.All() {
		root.AddWithoutOwnership(t)
	}
	for _, fn := range c.functions {
		root.AddWithoutOwnership(fn)
	}
	for _, bv := range kindVariables(kind) {
		mods := c.modifiers.Add(Modifiers{Layout: BuiltinLayout(bv.builtin), Flags: bv.flags})
		root.Add(NewVariable(mods, bv.name, c.Types.Lookup(bv.typ), true, StorageGlobal))
	}
	root.Seal()
	return root
}

// Root returns the sealed builtin scope for kind, or nil for an unknown kind.
func (c *Context) Root(kind ProgramKind) *SymbolTable {
	if !kind.Valid() {
		return nil
	}
	return c.roots[kind]
}

// Capability reports the value of a capability and whether folding is
// enabled at all.
func (c *Context) Capability(name string) (value, enabled bool) {
	if c.caps == nil {
		return false, false
	}
	if v, ok := c.caps[name]; ok {
		return v, true
	}
	return capabilityDefaults[name], true
}
