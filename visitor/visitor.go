// Package visitor provides depth-first AST traversal over the engine's
// restricted SELECT dialect.
package visitor

import "github.com/morgana/queryengine/ast"

// Visitor is the interface for AST traversal.
type Visitor interface {
	Visit(node ast.Node) Visitor
}

// Walk traverses an AST in depth-first order.
func Walk(v Visitor, node ast.Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	walkChildren(v, node)
}

func walkChildren(v Visitor, node ast.Node) {
	switch n := node.(type) {
	case *ast.SelectStmt:
		for _, col := range n.Columns {
			Walk(v, col)
		}
		for _, t := range n.Tables {
			Walk(v, t)
		}
		for _, j := range n.Joins {
			Walk(v, j)
		}
		if n.Where != nil {
			Walk(v, n.Where)
		}

	case *ast.SelectItem:
		if n.Col != nil {
			Walk(v, n.Col)
		}

	case *ast.TableRef:
		// leaf: Name/Alias are plain strings

	case *ast.JoinClause:
		Walk(v, n.Table)
		Walk(v, n.OnLeft)
		Walk(v, n.OnRight)

	case *ast.ColName:
		// leaf

	case *ast.Literal:
		// leaf

	case *ast.Comparison:
		Walk(v, n.Col)
		Walk(v, n.Value)

	case *ast.InExpr:
		Walk(v, n.Col)
		for _, val := range n.Values {
			Walk(v, val)
		}

	case *ast.BinaryExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *ast.NotExpr:
		Walk(v, n.X)

	case *ast.ParenExpr:
		Walk(v, n.X)
	}
}

// WalkFunc calls fn for each node in the AST in depth-first order. If fn
// returns false the node's children are skipped.
func WalkFunc(node ast.Node, fn func(ast.Node) bool) {
	Walk(&funcVisitor{fn: fn}, node)
}

type funcVisitor struct {
	fn func(ast.Node) bool
}

func (v *funcVisitor) Visit(node ast.Node) Visitor {
	if v.fn(node) {
		return v
	}
	return nil
}

// Inspect calls f for each node in the AST; a false return skips children.
func Inspect(node ast.Node, f func(ast.Node) bool) {
	WalkFunc(node, f)
}
