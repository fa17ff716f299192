package ast

import "github.com/morgana/queryengine/token"

// ColName is a column reference, optionally qualified (table.col).
type ColName struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Table     string // qualifier token text; "" if unqualified
	Qualified bool   // true iff the source wrote `table.col` (drives fullname)
	Name      string
}

func (*ColName) exprNode()        {}
func (c *ColName) Pos() token.Pos { return c.StartPos }
func (c *ColName) End() token.Pos { return c.EndPos }

// Literal is a scalar value token from the source text: an int, float, or
// quoted string. Raw retains surrounding quotes for strings, matching the
// lexer's STRING token; casting to a column's declared type happens
// downstream, never in the AST.
type Literal struct {
	StartPos token.Pos
	EndPos   token.Pos
	Kind     token.Token // token.INT, token.FLOAT, or token.STRING
	Raw      string
}

func (*Literal) exprNode()        {}
func (l *Literal) Pos() token.Pos { return l.StartPos }
func (l *Literal) End() token.Pos { return l.EndPos }

// Comparison is `<col> <op> <literal>` for op in {=, !=, <, >, <=, >=}.
type Comparison struct {
	StartPos token.Pos
	EndPos   token.Pos
	Col      *ColName
	Op       token.Token
	Value    *Literal
}

func (*Comparison) exprNode()        {}
func (c *Comparison) Pos() token.Pos { return c.StartPos }
func (c *Comparison) End() token.Pos { return c.EndPos }

// InExpr is `<col> [NOT] IN (<literal>, ...)`. A trailing comma before the
// closing paren is tolerated: `IN (x,)` == `IN (x)`.
type InExpr struct {
	StartPos token.Pos
	EndPos   token.Pos
	Col      *ColName
	Not      bool
	Values   []*Literal
}

func (*InExpr) exprNode()        {}
func (i *InExpr) Pos() token.Pos { return i.StartPos }
func (i *InExpr) End() token.Pos { return i.EndPos }

// BinaryExpr is `<left> AND <right>` or `<left> OR <right>`.
type BinaryExpr struct {
	StartPos token.Pos
	EndPos   token.Pos
	Op       token.Token // token.AND or token.OR
	Left     Expr
	Right    Expr
}

func (*BinaryExpr) exprNode()        {}
func (b *BinaryExpr) Pos() token.Pos { return b.StartPos }
func (b *BinaryExpr) End() token.Pos { return b.EndPos }

// NotExpr is `NOT <expr>`.
type NotExpr struct {
	StartPos token.Pos
	EndPos   token.Pos
	X        Expr
}

func (*NotExpr) exprNode()        {}
func (n *NotExpr) Pos() token.Pos { return n.StartPos }
func (n *NotExpr) End() token.Pos { return n.EndPos }

// ParenExpr is `( <expr> )`, preserved so the classifier can recover the
// original nesting depth.
type ParenExpr struct {
	StartPos token.Pos
	EndPos   token.Pos
	X        Expr
}

func (*ParenExpr) exprNode()        {}
func (p *ParenExpr) Pos() token.Pos { return p.StartPos }
func (p *ParenExpr) End() token.Pos { return p.EndPos }
