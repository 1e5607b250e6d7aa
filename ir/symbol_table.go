package ir

// Binding is one name visible in a scope.
type Binding struct {
	Symbol Symbol
	Name   string
}

// SymbolTable is a lexical scope. It owns the symbols created in it and
// binds names to symbols, which may be owned by any table. Function names
// may be bound several times to form an overload set.
//
// A sealed table rejects ownership and new bindings; the builtin roots held
// by a Context are sealed so that sessions sharing them cannot mutate them.
type SymbolTable struct {
	parent    *SymbolTable
	names     map[string]Symbol
	overloads map[string][]*FunctionDeclaration
	owned     []Symbol
	bindings  []Binding
	builtin   bool
	sealed    bool
}

// NewSymbolTable creates a scope nested in parent, which may be nil.
func NewSymbolTable(parent *SymbolTable, builtin bool) *SymbolTable {
	return &SymbolTable{
		parent:    parent,
		builtin:   builtin,
		names:     make(map[string]Symbol),
		overloads: make(map[string][]*FunctionDeclaration),
	}
}

func (t *SymbolTable) Parent() *SymbolTable { return t.parent }
func (t *SymbolTable) IsBuiltin() bool      { return t.builtin }
func (t *SymbolTable) IsSealed() bool       { return t.sealed }
func (t *SymbolTable) Owned() []Symbol      { return t.owned }
func (t *SymbolTable) Bindings() []Binding  { return t.bindings }

// Seal makes the table read-only.
func (t *SymbolTable) Seal() { t.sealed = true }

// Root returns the outermost ancestor of t.
func (t *SymbolTable) Root() *SymbolTable {
	for t.parent != nil {
		t = t.parent
	}
	return t
}

// TakeOwnership records sym as owned by t without binding its name.
func (t *SymbolTable) TakeOwnership(sym Symbol) {
	if t.sealed {
		panic("ir: ownership taken by sealed symbol table")
	}
	t.owned = append(t.owned, sym)
}

// Bind makes sym visible under name without taking ownership.
func (t *SymbolTable) Bind(name string, sym Symbol) {
	if t.sealed {
		panic("ir: binding added to sealed symbol table")
	}
	t.bindings = append(t.bindings, Binding{Name: name, Symbol: sym})
	if fn, ok := sym.(*FunctionDeclaration); ok {
		t.overloads[name] = append(t.overloads[name], fn)
		if existing, ok := t.names[name]; ok && existing.SymbolKind() == SymbolKindFunctionDeclaration {
			return
		}
	}
	t.names[name] = sym
}

// AddWithoutOwnership binds sym under its own name.
func (t *SymbolTable) AddWithoutOwnership(sym Symbol) {
	t.Bind(sym.Name(), sym)
}

// Add takes ownership of sym and binds it under its own name.
func (t *SymbolTable) Add(sym Symbol) {
	t.TakeOwnership(sym)
	t.AddWithoutOwnership(sym)
}

// Owns reports whether sym is owned by t.
func (t *SymbolTable) Owns(sym Symbol) bool {
	for _, s := range t.owned {
		if s == sym {
			return true
		}
	}
	return false
}

// LookupLocal resolves name in t only.
func (t *SymbolTable) LookupLocal(name string) Symbol {
	return t.names[name]
}

// Lookup resolves name in t and then its ancestors.
func (t *SymbolTable) Lookup(name string) Symbol {
	for s := t; s != nil; s = s.parent {
		if sym, ok := s.names[name]; ok {
			return sym
		}
	}
	return nil
}

// Overloads returns every function bound to name in t and its ancestors,
// innermost scope first.
func (t *SymbolTable) Overloads(name string) []*FunctionDeclaration {
	var result []*FunctionDeclaration
	for s := t; s != nil; s = s.parent {
		result = append(result, s.overloads[name]...)
	}
	return result
}
