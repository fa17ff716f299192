// Package plan holds the resolved logical plan produced by the parser:
// tables with their schema-attached columns, projected columns, join
// edges, reading filters, and the querying filter stream, plus the pure
// Column.Fullname() derivation shared by the projection's output header
// and the row-filter evaluator.
package plan

import (
	"fmt"

	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/schema"
)

// Column is a resolved column reference. Two Columns are equal iff all
// fields are equal; Go struct equality over these comparable fields gives
// that for free.
type Column struct {
	Name                string
	Alias               string
	Type                schema.Type
	TableName           string
	TableAlias          string
	HasQualifierInQuery bool
	IsPartition         bool
	IsProjected         bool
}

// Fullname derives the canonical output column header: alias if present;
// else name_tableAlias if qualified and the table has an alias; else
// name_tableName if qualified without alias; else name.
func (c Column) Fullname() string {
	if c.Alias != "" {
		return c.Alias
	}
	if c.HasQualifierInQuery {
		if c.TableAlias != "" {
			return c.Name + "_" + c.TableAlias
		}
		return c.Name + "_" + c.TableName
	}
	return c.Name
}

// Table is a resolved FROM-clause entry: its declared name, optional query
// alias, and the schema-attached columns available on it.
type Table struct {
	Name    string
	Alias   string
	Columns []*Column
}

// QualifiedName is the alias if present, else the table name; used to
// address the table in the executor (scanner, join).
func (t *Table) QualifiedName() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// FindColumn resolves a column reference against this table's columns
// only: by declared name first, then by the alias a projection item gave
// it, so a WHERE clause may filter on a projected alias.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	for _, c := range t.Columns {
		if c.Alias != "" && c.Alias == name {
			return c
		}
	}
	return nil
}

// PartitionKeys returns this table's partition columns, in schema order.
func (t *Table) PartitionKeys() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.IsPartition {
			out = append(out, c)
		}
	}
	return out
}

// JoinEdge is one resolved `ON left = right` clause. Kind names the join
// keyword seen in the statement; only "INNER" is executed.
type JoinEdge struct {
	Left  *Column
	Right *Column
	Kind  string
}

// ReadingFilterOp is the tagged kind of a ReadingFilter.
type ReadingFilterOp int

const (
	ReadEQ ReadingFilterOp = iota
	ReadNEQ
	ReadCompare // compound op carried in CompareOp
	ReadIN
	ReadNotIN
)

// CompareOp is one of <, <=, >, >= when Op == ReadCompare.
type CompareOp string

const (
	CmpLT  CompareOp = "<"
	CmpLTE CompareOp = "<="
	CmpGT  CompareOp = ">"
	CmpGTE CompareOp = ">="
)

// ReadingFilter binds a partition Column to one of the four reading-filter
// kinds. Value holds the single literal for EQ/NEQ/compare; Values holds
// the literal set for IN/NOT-IN.
type ReadingFilter struct {
	Column    *Column
	Op        ReadingFilterOp
	CompareOp CompareOp
	Value     string
	Values    []string
}

// QueryingOp is a row-predicate operator of the querying filter stream.
type QueryingOp string

const (
	OpEQ    QueryingOp = "=="
	OpNEQ   QueryingOp = "!="
	OpLT    QueryingOp = "<"
	OpLTE   QueryingOp = "<="
	OpGT    QueryingOp = ">"
	OpGTE   QueryingOp = ">="
	OpIN    QueryingOp = "in"
	OpNotIn QueryingOp = "not in"
)

// Connective is a boolean-structure token preserved in source order
// alongside QueryingFilter elements.
type Connective string

const (
	ConnAnd    Connective = "&"
	ConnOr     Connective = "|"
	ConnNot    Connective = "not"
	ConnLParen Connective = "("
	ConnRParen Connective = ")"
)

// QueryingFilter is one predicate element of the querying filter stream.
type QueryingFilter struct {
	Column *Column
	Op     QueryingOp
	Value  string   // verbatim literal text; empty when Values is set
	Values []string // verbatim literal texts for in/not-in
}

// QueryingElem is one element of the linear querying filter stream: either
// a QueryingFilter or a Connective, never both.
type QueryingElem struct {
	Filter     *QueryingFilter
	Connective Connective
}

// IsFilter reports whether this element carries a QueryingFilter.
func (e QueryingElem) IsFilter() bool { return e.Filter != nil }

// Logical is the fully resolved plan for one SELECT statement.
type Logical struct {
	Tables         []*Table
	Projection     []*Column
	Joins          []*JoinEdge
	ReadingFilters []*ReadingFilter
	Querying       []QueryingElem
}

// FindTable resolves a table reference by alias first, then by name.
func (l *Logical) FindTable(qualifier string) (*Table, error) {
	for _, t := range l.Tables {
		if t.Alias != "" && t.Alias == qualifier {
			return t, nil
		}
	}
	for _, t := range l.Tables {
		if t.Alias == "" && t.Name == qualifier {
			return t, nil
		}
	}
	return nil, engineerr.NotFoundf("unknown table %q", qualifier)
}

// ResolveColumnRef resolves a (qualifier, name) pair against the plan's
// tables: a non-empty qualifier is tried first as a table alias then as a
// table name. An unqualified name resolves to the first FROM-order table
// carrying it, so a query projecting both `id` and `up.id` over joined
// tables emits two distinct output columns rather than failing as
// ambiguous.
func (l *Logical) ResolveColumnRef(qualifier, name string) (*Column, error) {
	if qualifier != "" {
		t, err := l.FindTable(qualifier)
		if err != nil {
			return nil, err
		}
		c := t.FindColumn(name)
		if c == nil {
			return nil, engineerr.NotFoundf("unknown column %q on table %q", name, qualifier)
		}
		return c, nil
	}

	for _, t := range l.Tables {
		if c := t.FindColumn(name); c != nil {
			return c, nil
		}
	}
	return nil, engineerr.NotFoundf("unknown column %q", name)
}

// ResolveRef resolves qualifier/name and records whether the reference was
// written with an explicit table qualifier, so that every call site
// (projection, joins, WHERE) keeps Column.Fullname() in sync. qualifier
// must be "" exactly when qualified is false.
//
// The projection is resolved first and owns the column's output header: a
// later reference from a JOIN edge or WHERE atom never overrides the
// qualifier flag of an already-projected column, so `SELECT id FROM a
// JOIN b ON a.id = b.a_id` still emits the header `id`.
func (l *Logical) ResolveRef(qualifier string, qualified bool, name string) (*Column, error) {
	col, err := l.ResolveColumnRef(qualifier, name)
	if err != nil {
		return nil, err
	}
	if !col.IsProjected {
		col.HasQualifierInQuery = qualified
	}
	return col, nil
}

func (c *Column) String() string {
	return fmt.Sprintf("%s.%s", c.TableName, c.Name)
}
