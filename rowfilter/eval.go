package rowfilter

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/morgana/queryengine/engineerr"
)

// columnValues extracts each row's value from a column array as the same
// dynamic Go type schema.Cast produces (int64, float64, string, bool,
// time.Time), plus per-row validity; the row-evaluation twin of
// join.rowKeys.
func columnValues(arr arrow.Array) ([]any, []bool, error) {
	n := arr.Len()
	values := make([]any, n)
	valid := make([]bool, n)

	switch a := arr.(type) {
	case *array.Int64:
		for i := 0; i < n; i++ {
			if a.IsNull(i) {
				continue
			}
			values[i], valid[i] = a.Value(i), true
		}
	case *array.Float64:
		for i := 0; i < n; i++ {
			if a.IsNull(i) {
				continue
			}
			values[i], valid[i] = a.Value(i), true
		}
	case *array.String:
		for i := 0; i < n; i++ {
			if a.IsNull(i) {
				continue
			}
			values[i], valid[i] = a.Value(i), true
		}
	case *array.Boolean:
		for i := 0; i < n; i++ {
			if a.IsNull(i) {
				continue
			}
			values[i], valid[i] = a.Value(i), true
		}
	case *array.Timestamp:
		for i := 0; i < n; i++ {
			if a.IsNull(i) {
				continue
			}
			values[i], valid[i] = a.Value(i).ToTime(arrow.Microsecond), true
		}
	default:
		return nil, nil, engineerr.Typef("unsupported column type %T for row filtering", arr)
	}
	return values, valid, nil
}
