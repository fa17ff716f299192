package coltable

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/schema"
)

// ArrowType maps a schema.Type to the Arrow data type the engine stores it
// as throughout scanning, joining, and filtering.
func ArrowType(t schema.Type) arrow.DataType {
	switch t {
	case schema.Int:
		return arrow.PrimitiveTypes.Int64
	case schema.Float:
		return arrow.PrimitiveTypes.Float64
	case schema.String:
		return arrow.BinaryTypes.String
	case schema.Bool:
		return arrow.FixedWidthTypes.Boolean
	case schema.Date, schema.DateTime:
		return arrow.FixedWidthTypes.Timestamp_us
	}
	return arrow.BinaryTypes.String
}

// WithConstantColumn returns a new table with a column named name, holding
// value (already cast through schema.Cast) repeated for every row; the
// scanner uses it to inject partition-key values that exist only in file
// names.
func (t *Table) WithConstantColumn(mem memory.Allocator, name string, typ schema.Type, value any) (*Table, error) {
	n := int(t.NumRows())
	arr, err := constantArray(mem, typ, value, n)
	if err != nil {
		return nil, err
	}
	defer arr.Release()

	sch := t.Schema()
	fields := append(append([]arrow.Field{}, sch.Fields()...), arrow.Field{Name: name, Type: arr.DataType()})
	newSchema := arrow.NewSchema(fields, nil)

	cols := make([]arrow.Array, 0, len(fields))
	for i := 0; i < int(t.Record.NumCols()); i++ {
		cols = append(cols, t.Record.Column(i))
	}
	cols = append(cols, arr)

	rec := array.NewRecord(newSchema, cols, t.Record.NumRows())
	return &Table{Record: rec}, nil
}

func constantArray(mem memory.Allocator, typ schema.Type, value any, n int) (arrow.Array, error) {
	switch typ {
	case schema.Int:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		v, _ := value.(int64)
		for i := 0; i < n; i++ {
			b.Append(v)
		}
		return b.NewArray(), nil
	case schema.Float:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		v, _ := value.(float64)
		for i := 0; i < n; i++ {
			b.Append(v)
		}
		return b.NewArray(), nil
	case schema.Bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		v, _ := value.(bool)
		for i := 0; i < n; i++ {
			b.Append(v)
		}
		return b.NewArray(), nil
	case schema.String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		v, _ := value.(string)
		for i := 0; i < n; i++ {
			b.Append(v)
		}
		return b.NewArray(), nil
	case schema.Date, schema.DateTime:
		dt := arrow.FixedWidthTypes.Timestamp_us.(*arrow.TimestampType)
		b := array.NewTimestampBuilder(mem, dt)
		defer b.Release()
		v, _ := value.(time.Time)
		ts := arrow.Timestamp(v.UnixMicro())
		for i := 0; i < n; i++ {
			b.Append(ts)
		}
		return b.NewArray(), nil
	}
	return nil, engineerr.Typef("unsupported partition type %q", typ)
}
