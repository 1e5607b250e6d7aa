package ir

// Node is any expression, statement or program element.
type Node interface {
	Description() string
}

// Inspect walks the tree rooted at n in depth-first order, calling f for
// each node. If f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range children(n) {
		Inspect(c, f)
	}
}

func children(n Node) []Node {
	var out []Node
	addExpr := func(e Expression) {
		if e != nil {
			out = append(out, e)
		}
	}
	addStmt := func(s Statement) {
		if s != nil {
			out = append(out, s)
		}
	}
	switch n := n.(type) {
	case *BinaryExpression:
		addExpr(n.left)
		addExpr(n.right)
	case *ConstructorExpression:
		for _, a := range n.args {
			addExpr(a)
		}
	case *FieldAccess:
		addExpr(n.base)
	case *FunctionCall:
		for _, a := range n.args {
			addExpr(a)
		}
	case *IndexExpression:
		addExpr(n.base)
		addExpr(n.index)
	case *PrefixExpression:
		addExpr(n.operand)
	case *PostfixExpression:
		addExpr(n.operand)
	case *Swizzle:
		addExpr(n.base)
	case *TernaryExpression:
		addExpr(n.test)
		addExpr(n.ifTrue)
		addExpr(n.ifFalse)
	case *Block:
		for _, s := range n.statements {
			addStmt(s)
		}
	case *DoStatement:
		addStmt(n.body)
		addExpr(n.test)
	case *ExpressionStatement:
		addExpr(n.expr)
	case *ForStatement:
		addStmt(n.init)
		addExpr(n.test)
		addExpr(n.next)
		addStmt(n.body)
	case *IfStatement:
		addExpr(n.test)
		addStmt(n.ifTrue)
		addStmt(n.ifFalse)
	case *ReturnStatement:
		addExpr(n.expr)
	case *SwitchStatement:
		addExpr(n.value)
		for _, c := range n.cases {
			out = append(out, c)
		}
	case *SwitchCase:
		addStmt(n.stmt)
	case *VarDeclaration:
		addExpr(n.value)
	case *FunctionDefinition:
		addStmt(n.body)
	case *GlobalVarDeclaration:
		out = append(out, n.decl)
	}
	return out
}
