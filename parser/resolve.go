package parser

import (
	"github.com/morgana/queryengine/ast"
	"github.com/morgana/queryengine/classifier"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/schema"
)

// SchemaLookup fetches the table schema document for a bare table name, by
// descending from the query's root connection. The parser package never
// talks to storage directly; engine.Engine supplies this callback so
// parser stays storage-agnostic.
type SchemaLookup func(tableName string) (*schema.Document, error)

// Resolve schema-attaches every FROM/JOIN table, resolves the projection
// (including `*`), resolves join edges, classifies WHERE into
// reading/querying filters, then prunes each table's column list down to
// what scanning actually needs.
func Resolve(stmt *ast.SelectStmt, lookup SchemaLookup) (*plan.Logical, error) {
	lg := &plan.Logical{}

	refs := append([]*ast.TableRef{}, stmt.Tables...)
	for _, j := range stmt.Joins {
		refs = append(refs, j.Table)
	}
	for _, tr := range refs {
		t, err := attachSchema(tr, lookup)
		if err != nil {
			return nil, err
		}
		lg.Tables = append(lg.Tables, t)
	}

	if err := resolveProjection(stmt, lg); err != nil {
		return nil, err
	}

	for _, j := range stmt.Joins {
		// Non-INNER kinds are recorded, not rejected here: the join
		// executor surfaces a NotImplemented error at execution time.
		left, err := lg.ResolveRef(j.OnLeft.Table, j.OnLeft.Qualified, j.OnLeft.Name)
		if err != nil {
			return nil, err
		}
		right, err := lg.ResolveRef(j.OnRight.Table, j.OnRight.Qualified, j.OnRight.Name)
		if err != nil {
			return nil, err
		}
		lg.Joins = append(lg.Joins, &plan.JoinEdge{Left: left, Right: right, Kind: j.Kind.String()})
	}

	if err := classifier.Classify(stmt.Where, lg); err != nil {
		return nil, err
	}

	pruneColumns(lg)
	return lg, nil
}

// attachSchema looks up a table's schema document, whose columns and
// partition keys become the Table's column list, in declaration order
// (columns, then partition keys), tagged with type and partition flag.
func attachSchema(tr *ast.TableRef, lookup SchemaLookup) (*plan.Table, error) {
	doc, err := lookup(tr.Name)
	if err != nil {
		return nil, err
	}
	if !doc.IsTable() {
		return nil, engineerr.Schemaf("%q is not a table", tr.Name)
	}
	cols, err := doc.Columns()
	if err != nil {
		return nil, err
	}
	pks, err := doc.PartitionKeys()
	if err != nil {
		return nil, err
	}

	t := &plan.Table{Name: tr.Name, Alias: tr.Alias}
	for _, c := range cols {
		t.Columns = append(t.Columns, &plan.Column{
			Name: c.Name, Type: c.Type, TableName: tr.Name, TableAlias: tr.Alias,
		})
	}
	for _, c := range pks {
		t.Columns = append(t.Columns, &plan.Column{
			Name: c.Name, Type: c.Type, TableName: tr.Name, TableAlias: tr.Alias, IsPartition: true,
		})
	}
	return t, nil
}

// resolveProjection resolves each projected item against the FROM tables.
// A lone `*` expands every column of the single FROM table in declaration
// order; `*` over multiple joined tables is not supported.
func resolveProjection(stmt *ast.SelectStmt, lg *plan.Logical) error {
	if len(stmt.Columns) == 1 && stmt.Columns[0].Star {
		if len(lg.Tables) != 1 {
			return engineerr.NotImplementedf("'*' projection is only supported with a single FROM table")
		}
		for _, c := range lg.Tables[0].Columns {
			c.IsProjected = true
			lg.Projection = append(lg.Projection, c)
		}
		return nil
	}

	for _, item := range stmt.Columns {
		if item.Star {
			return engineerr.Parsef("'*' cannot be combined with other projected columns")
		}
		col, err := lg.ResolveRef(item.Col.Table, item.Col.Qualified, item.Col.Name)
		if err != nil {
			return err
		}
		if item.Alias != "" {
			col.Alias = item.Alias
		}
		col.IsProjected = true
		lg.Projection = append(lg.Projection, col)
	}
	return nil
}

// pruneColumns restricts each Table's column list to columns actually
// projected, used as a join key, or referenced by a reading or querying
// filter.
func pruneColumns(lg *plan.Logical) {
	required := make(map[*plan.Column]bool)
	for _, c := range lg.Projection {
		required[c] = true
	}
	for _, j := range lg.Joins {
		required[j.Left] = true
		required[j.Right] = true
	}
	for _, rf := range lg.ReadingFilters {
		required[rf.Column] = true
	}
	for _, qe := range lg.Querying {
		if qe.IsFilter() {
			required[qe.Filter.Column] = true
		}
	}

	for _, t := range lg.Tables {
		kept := t.Columns[:0:0]
		for _, c := range t.Columns {
			if required[c] {
				kept = append(kept, c)
			}
		}
		t.Columns = kept
	}
}
