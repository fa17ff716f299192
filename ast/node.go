// Package ast defines the abstract syntax tree for the engine's restricted
// SELECT dialect: a single statement shape of
// SELECT ... FROM ... [JOIN ... ON ...]* [WHERE ...], with no aggregation,
// ORDER BY, LIMIT, subqueries, or set operations.
package ast

import "github.com/morgana/queryengine/token"

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Statement represents a top-level SQL statement.
type Statement interface {
	Node
	statementNode()
}

// Expr represents a WHERE-clause expression: a comparison, a set-membership
// test, or a boolean combination of those.
type Expr interface {
	Node
	exprNode()
}
