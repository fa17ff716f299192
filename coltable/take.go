package coltable

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/morgana/queryengine/engineerr"
)

// takeArray builds a new array gathering arr's values at indices, in order.
// A small, explicit type switch over the column kinds the engine's schema
// vocabulary produces (int, float, string, bool, timestamp) rather than a
// generic reflection-based gather.
func takeArray(mem memory.Allocator, arr arrow.Array, indices []int64) (arrow.Array, error) {
	switch a := arr.(type) {
	case *array.Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, i := range indices {
			if a.IsNull(int(i)) {
				b.AppendNull()
				continue
			}
			b.Append(a.Value(int(i)))
		}
		return b.NewArray(), nil
	case *array.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, i := range indices {
			if a.IsNull(int(i)) {
				b.AppendNull()
				continue
			}
			b.Append(a.Value(int(i)))
		}
		return b.NewArray(), nil
	case *array.String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, i := range indices {
			if a.IsNull(int(i)) {
				b.AppendNull()
				continue
			}
			b.Append(a.Value(int(i)))
		}
		return b.NewArray(), nil
	case *array.Boolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for _, i := range indices {
			if a.IsNull(int(i)) {
				b.AppendNull()
				continue
			}
			b.Append(a.Value(int(i)))
		}
		return b.NewArray(), nil
	case *array.Timestamp:
		b := array.NewTimestampBuilder(mem, a.DataType().(*arrow.TimestampType))
		defer b.Release()
		for _, i := range indices {
			if a.IsNull(int(i)) {
				b.AppendNull()
				continue
			}
			b.Append(a.Value(int(i)))
		}
		return b.NewArray(), nil
	}
	return nil, engineerr.Typef("unsupported column type %s for row selection", arr.DataType())
}
