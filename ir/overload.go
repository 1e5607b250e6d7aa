package ir

import "math"

// FindBestFunctionForCall picks the overload of fn reachable from scope
// whose parameters accept args at the lowest total coercion cost. fn wins
// ties, and is returned unchanged when nothing matches.
func FindBestFunctionForCall(scope *SymbolTable, fn *FunctionDeclaration, args []Expression) *FunctionDeclaration {
	best := fn
	bestCost, ok := callCost(fn, args)
	if !ok {
		bestCost = math.MaxInt
	}
	if scope == nil {
		return best
	}
	for _, candidate := range scope.Overloads(fn.Name()) {
		if candidate == fn {
			continue
		}
		cost, ok := callCost(candidate, args)
		if ok && cost < bestCost {
			best, bestCost = candidate, cost
		}
	}
	return best
}

func callCost(fn *FunctionDeclaration, args []Expression) (int, bool) {
	params := fn.Parameters()
	if len(params) != len(args) {
		return 0, false
	}
	total := 0
	for i, p := range params {
		cost, ok := p.Type().CoercionCost(args[i].Type())
		if !ok {
			return 0, false
		}
		total += cost
	}
	return total, true
}
