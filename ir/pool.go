package ir

import (
	"fmt"
	"sync/atomic"

	"fortio.org/safecast"
)

// Handle indexes a symbol in a Pool.
type Handle uint32

// Pool is the arena for nodes created by one decode session. A session
// registers every symbol it creates; the finished Program takes the pool
// over with Detach, after which no further symbols may be added.
type Pool struct {
	symbols  []Symbol
	nodes    atomic.Int64
	detached atomic.Bool
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// AddSymbol registers sym and returns its handle.
func (p *Pool) AddSymbol(sym Symbol) (Handle, error) {
	if p.detached.Load() {
		return 0, fmt.Errorf("ir: symbol %q added to detached pool", sym.Name())
	}
	h, err := safecast.Conv[uint32](len(p.symbols))
	if err != nil {
		return 0, err
	}
	p.symbols = append(p.symbols, sym)
	return Handle(h), nil
}

// Symbol returns the symbol registered under h, or nil.
func (p *Pool) Symbol(h Handle) Symbol {
	if int(h) >= len(p.symbols) {
		return nil
	}
	return p.symbols[h]
}

// Symbols returns every registered symbol in creation order.
func (p *Pool) Symbols() []Symbol { return p.symbols }

// CountNode records one expression, statement or element allocation.
func (p *Pool) CountNode() { p.nodes.Add(1) }

// NodeCount returns the number of nodes recorded.
func (p *Pool) NodeCount() int64 { return p.nodes.Load() }

// Detach seals the pool and hands it to its owner.
func (p *Pool) Detach() *Pool {
	p.detached.Store(true)
	return p
}

// IsDetached reports whether Detach has been called.
func (p *Pool) IsDetached() bool { return p.detached.Load() }
