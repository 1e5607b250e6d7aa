package ir

// loopTerminationLimit caps the iteration count of an unrollable loop.
const loopTerminationLimit = 100000

// LoopUnrollInfo describes a for loop with a statically known trip count.
type LoopUnrollInfo struct {
	Index *Variable
	Start float64
	Delta float64
	Count int
}

// AnalyzeLoopUnroll returns unroll info for loops of the form
//
//	for (T i = C0; i <op> C1; i++ / i-- / i += C2 / i -= C2) body
//
// where body never writes i. It returns nil for any other loop shape and
// for loops that run more than loopTerminationLimit iterations.
func AnalyzeLoopUnroll(init Statement, test, next Expression, body Statement) *LoopUnrollInfo {
	decl, ok := init.(*VarDeclaration)
	if !ok || decl.Value() == nil {
		return nil
	}
	index := decl.Variable()
	if t := index.Type(); !t.IsScalar() || !t.IsNumber() {
		return nil
	}
	start, ok := constantValue(decl.Value())
	if !ok {
		return nil
	}

	cond, ok := test.(*BinaryExpression)
	if !ok || !cond.Operator().IsComparison() || !refersTo(cond.Left(), index) {
		return nil
	}
	limit, ok := constantValue(cond.Right())
	if !ok {
		return nil
	}

	delta, ok := loopStep(next, index)
	if !ok || delta == 0 {
		return nil
	}

	if body != nil && writesVariable(body, index) {
		return nil
	}

	count := 0
	for v := start; compare(v, cond.Operator(), limit); v += delta {
		count++
		if count > loopTerminationLimit {
			return nil
		}
	}
	return &LoopUnrollInfo{Index: index, Start: start, Delta: delta, Count: count}
}

func constantValue(e Expression) (float64, bool) {
	switch e := e.(type) {
	case *Literal:
		if !e.Type().IsNumber() {
			return 0, false
		}
		return e.Value(), true
	case *PrefixExpression:
		if e.Operator() != OpMinus {
			return 0, false
		}
		v, ok := constantValue(e.Operand())
		return -v, ok
	}
	return 0, false
}

func refersTo(e Expression, v *Variable) bool {
	ref, ok := e.(*VariableReference)
	return ok && ref.Variable() == v
}

func loopStep(next Expression, index *Variable) (float64, bool) {
	switch e := next.(type) {
	case *PostfixExpression:
		if !refersTo(e.Operand(), index) {
			return 0, false
		}
		return incrementDelta(e.Operator())
	case *PrefixExpression:
		if !refersTo(e.Operand(), index) {
			return 0, false
		}
		return incrementDelta(e.Operator())
	case *BinaryExpression:
		if !refersTo(e.Left(), index) {
			return 0, false
		}
		v, ok := constantValue(e.Right())
		if !ok {
			return 0, false
		}
		switch e.Operator() {
		case OpPlusEq:
			return v, true
		case OpMinusEq:
			return -v, true
		}
	}
	return 0, false
}

func incrementDelta(op Operator) (float64, bool) {
	switch op {
	case OpPlusPlus:
		return 1, true
	case OpMinusMinus:
		return -1, true
	}
	return 0, false
}

func writesVariable(body Statement, v *Variable) bool {
	found := false
	Inspect(body, func(n Node) bool {
		if found {
			return false
		}
		switch n := n.(type) {
		case *VariableReference:
			if n.Variable() == v && n.RefKind() != RefRead {
				found = true
			}
		case *BinaryExpression:
			if n.Operator().IsAssignment() && refersTo(n.Left(), v) {
				found = true
			}
		case *PrefixExpression:
			if (n.Operator() == OpPlusPlus || n.Operator() == OpMinusMinus) && refersTo(n.Operand(), v) {
				found = true
			}
		case *PostfixExpression:
			if refersTo(n.Operand(), v) {
				found = true
			}
		}
		return !found
	})
	return found
}

func compare(a float64, op Operator, b float64) bool {
	switch op {
	case OpLt:
		return a < b
	case OpLtEq:
		return a <= b
	case OpGt:
		return a > b
	case OpGtEq:
		return a >= b
	case OpEqEq:
		return a == b
	case OpNeq:
		return a != b
	}
	return false
}
