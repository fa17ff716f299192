package ast

import "github.com/morgana/queryengine/token"

// SelectStmt is the only statement shape this dialect executes.
type SelectStmt struct {
	StartPos token.Pos
	EndPos   token.Pos
	Columns  []*SelectItem // projection list; len==1 with Star==true for `SELECT *`
	Tables   []*TableRef   // FROM targets, comma- and JOIN-separated in order
	Joins    []*JoinClause // one per JOIN keyword after the first table segment
	Where    Expr          // nil if WHERE absent
}

func (*SelectStmt) statementNode()   {}
func (s *SelectStmt) Pos() token.Pos { return s.StartPos }
func (s *SelectStmt) End() token.Pos { return s.EndPos }

// SelectItem is one entry of the SELECT projection list: either the single
// `*` token, or a column reference with an optional alias.
type SelectItem struct {
	StartPos token.Pos
	EndPos   token.Pos
	Star     bool
	Col      *ColName
	Alias    string // "" if no AS clause
}

func (s *SelectItem) Pos() token.Pos { return s.StartPos }
func (s *SelectItem) End() token.Pos { return s.EndPos }

// TableRef is one FROM-clause table, optionally aliased.
type TableRef struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Alias    string // "" if no AS clause
}

func (t *TableRef) Pos() token.Pos { return t.StartPos }
func (t *TableRef) End() token.Pos { return t.EndPos }

// JoinClause is one `[INNER|LEFT|RIGHT|OUTER] JOIN <table> ON <l> = <r>`
// segment. Kind holds the last join-kind keyword seen before JOIN; only
// token.INNER is executed.
type JoinClause struct {
	StartPos token.Pos
	EndPos   token.Pos
	Kind     token.Token // token.INNER, token.LEFT, token.RIGHT, token.OUTER
	Table    *TableRef
	OnLeft   *ColName
	OnRight  *ColName
}

func (j *JoinClause) Pos() token.Pos { return j.StartPos }
func (j *JoinClause) End() token.Pos { return j.EndPos }
