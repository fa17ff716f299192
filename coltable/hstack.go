package coltable

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/morgana/queryengine/engineerr"
)

// Hstack combines equal-row-count tables column-wise, in the given table
// order, used by the join executor to glue a matched left row block to its
// matched right row block. All inputs must already carry disjoint column
// names (guaranteed by each side's Column.Fullname()).
func Hstack(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, engineerr.IOf(nil, "Hstack called with no tables")
	}
	nrows := tables[0].NumRows()
	var fields []arrow.Field
	var cols []arrow.Array
	seen := make(map[string]bool)
	for _, t := range tables {
		if t.NumRows() != nrows {
			return nil, engineerr.IOf(nil, "Hstack: row count mismatch (%d vs %d)", t.NumRows(), nrows)
		}
		sch := t.Schema()
		for i, f := range sch.Fields() {
			if seen[f.Name] {
				return nil, engineerr.Resolvef("duplicate column %q when combining joined tables", f.Name)
			}
			seen[f.Name] = true
			fields = append(fields, f)
			cols = append(cols, t.Record.Column(i))
		}
	}
	sch := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(sch, cols, nrows)
	return &Table{Record: rec}, nil
}
