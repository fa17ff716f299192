package coltable

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/schema"
)

// RecastTemporal re-casts a column that arrived as a raw string (e.g. from
// a delimited-text codec) into its declared date/datetime type. A no-op if
// the named column is already a Timestamp.
func (t *Table) RecastTemporal(mem memory.Allocator, name string, typ schema.Type) (*Table, error) {
	sch := t.Schema()
	idxs := sch.FieldIndices(name)
	if len(idxs) == 0 {
		return t, nil
	}
	idx := idxs[0]

	strCol, ok := t.Record.Column(idx).(*array.String)
	if !ok {
		return t, nil
	}

	dt := ArrowType(typ).(*arrow.TimestampType)
	b := array.NewTimestampBuilder(mem, dt)
	defer b.Release()
	for i := 0; i < strCol.Len(); i++ {
		if strCol.IsNull(i) {
			b.AppendNull()
			continue
		}
		parsed, err := parseTimeValue(strCol.Value(i))
		if err != nil {
			return nil, err
		}
		b.Append(arrow.Timestamp(parsed.UnixMicro()))
	}
	newCol := b.NewArray()
	defer newCol.Release()

	fields := append([]arrow.Field{}, sch.Fields()...)
	fields[idx] = arrow.Field{Name: name, Type: dt}
	newSchema := arrow.NewSchema(fields, nil)

	cols := make([]arrow.Array, int(t.Record.NumCols()))
	for i := range cols {
		cols[i] = t.Record.Column(i)
	}
	cols[idx] = newCol

	rec := array.NewRecord(newSchema, cols, t.Record.NumRows())
	return &Table{Record: rec}, nil
}

func parseTimeValue(v string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02", v); err == nil {
		return ts, nil
	}
	return time.Time{}, engineerr.Typef("cannot cast %q to date/datetime", v)
}
