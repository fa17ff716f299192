// Package coltable is the engine's in-memory columnar table
// representation, built directly on Apache Arrow records so every scan,
// join, projection, and filter operates on arrow.Record values instead of
// ad hoc slices-of-maps. The Table type is used from the codec layer
// through to the row filter evaluator.
package coltable

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/morgana/queryengine/engineerr"
)

// Table wraps a single Arrow record batch with its schema, the unit the
// engine passes between stages after a table has been fully scanned.
type Table struct {
	Record arrow.Record
}

// New wraps an existing record.
func New(rec arrow.Record) *Table { return &Table{Record: rec} }

// NumRows returns the row count.
func (t *Table) NumRows() int64 {
	if t.Record == nil {
		return 0
	}
	return t.Record.NumRows()
}

// Schema returns the table's Arrow schema.
func (t *Table) Schema() *arrow.Schema {
	if t.Record == nil {
		return arrow.NewSchema(nil, nil)
	}
	return t.Record.Schema()
}

// ColumnNames returns field names in schema order.
func (t *Table) ColumnNames() []string {
	sch := t.Schema()
	out := make([]string, sch.NumFields())
	for i, f := range sch.Fields() {
		out[i] = f.Name
	}
	return out
}

// Column returns the array backing the named column, or nil if absent.
func (t *Table) Column(name string) arrow.Array {
	idxs := t.Schema().FieldIndices(name)
	if len(idxs) == 0 {
		return nil
	}
	return t.Record.Column(idxs[0])
}

// Release frees the underlying Arrow buffers.
func (t *Table) Release() {
	if t.Record != nil {
		t.Record.Release()
	}
}

// Empty builds a zero-row table with the given fields, used when a table's
// pruned read set is empty: the result still carries the projected schema.
func Empty(mem memory.Allocator, fields []arrow.Field) *Table {
	sch := arrow.NewSchema(fields, nil)
	cols := make([]arrow.Array, len(fields))
	for i, f := range fields {
		b := array.NewBuilder(mem, f.Type)
		cols[i] = b.NewArray()
		b.Release()
	}
	rec := array.NewRecord(sch, cols, 0)
	for _, c := range cols {
		c.Release()
	}
	return &Table{Record: rec}
}

// Concat stacks tables row-wise, preserving column order. All inputs must
// share the same schema.
func Concat(mem memory.Allocator, tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, engineerr.IOf(nil, "Concat called with no tables")
	}
	if len(tables) == 1 {
		tables[0].Record.Retain()
		return &Table{Record: tables[0].Record}, nil
	}

	sch := tables[0].Schema()
	cols := make([]arrow.Array, sch.NumFields())
	var nrows int64
	for fi := range sch.Fields() {
		arrs := make([]arrow.Array, len(tables))
		for ti, t := range tables {
			arrs[ti] = t.Record.Column(fi)
		}
		merged, err := array.Concatenate(arrs, mem)
		if err != nil {
			return nil, engineerr.IOf(err, "concatenating column %d", fi)
		}
		cols[fi] = merged
		nrows = int64(merged.Len())
	}
	rec := array.NewRecord(sch, cols, nrows)
	for _, c := range cols {
		c.Release()
	}
	return &Table{Record: rec}, nil
}

// Project returns a new table containing only the named columns, in the
// requested order.
func (t *Table) Project(names []string) (*Table, error) {
	sch := t.Schema()
	fields := make([]arrow.Field, 0, len(names))
	cols := make([]arrow.Array, 0, len(names))
	for _, n := range names {
		idxs := sch.FieldIndices(n)
		if len(idxs) == 0 {
			return nil, engineerr.Resolvef("column %q not present in scanned table", n)
		}
		fields = append(fields, sch.Field(idxs[0]))
		cols = append(cols, t.Record.Column(idxs[0]))
	}
	newSchema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(newSchema, cols, t.Record.NumRows())
	return &Table{Record: rec}, nil
}

// Rename returns a new table with fields renamed per the given old->new
// name map; columns absent from the map keep their original name.
func (t *Table) Rename(names map[string]string) *Table {
	sch := t.Schema()
	fields := make([]arrow.Field, sch.NumFields())
	for i, f := range sch.Fields() {
		if newName, ok := names[f.Name]; ok {
			f.Name = newName
		}
		fields[i] = f
	}
	newSchema := arrow.NewSchema(fields, nil)
	cols := make([]arrow.Array, int(t.Record.NumCols()))
	for i := range cols {
		cols[i] = t.Record.Column(i)
	}
	rec := array.NewRecord(newSchema, cols, t.Record.NumRows())
	return &Table{Record: rec}
}

// Select returns a new table containing only the rows at the given indices
// (row order preserved), used by the join executor and row filter.
func (t *Table) Select(mem memory.Allocator, indices []int64) (*Table, error) {
	sch := t.Schema()
	cols := make([]arrow.Array, sch.NumFields())
	for fi := 0; fi < sch.NumFields(); fi++ {
		col := t.Record.Column(fi)
		taken, err := takeArray(mem, col, indices)
		if err != nil {
			return nil, err
		}
		cols[fi] = taken
	}
	rec := array.NewRecord(sch, cols, int64(len(indices)))
	for _, c := range cols {
		c.Release()
	}
	return &Table{Record: rec}, nil
}
