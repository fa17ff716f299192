package join

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/morgana/queryengine/engineerr"
)

// rowKeys extracts a hashable Go value per row of a join key column, along
// with which rows are non-null (a null key never matches, standard SQL
// join semantics). The same explicit type switch as coltable.takeArray,
// since join keys are drawn from the same schema type vocabulary.
func rowKeys(arr arrow.Array) ([]any, []bool, error) {
	switch a := arr.(type) {
	case *array.Int64:
		keys := make([]any, a.Len())
		valid := make([]bool, a.Len())
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				continue
			}
			keys[i] = a.Value(i)
			valid[i] = true
		}
		return keys, valid, nil
	case *array.Float64:
		keys := make([]any, a.Len())
		valid := make([]bool, a.Len())
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				continue
			}
			keys[i] = a.Value(i)
			valid[i] = true
		}
		return keys, valid, nil
	case *array.String:
		keys := make([]any, a.Len())
		valid := make([]bool, a.Len())
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				continue
			}
			keys[i] = a.Value(i)
			valid[i] = true
		}
		return keys, valid, nil
	case *array.Boolean:
		keys := make([]any, a.Len())
		valid := make([]bool, a.Len())
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				continue
			}
			keys[i] = a.Value(i)
			valid[i] = true
		}
		return keys, valid, nil
	case *array.Timestamp:
		keys := make([]any, a.Len())
		valid := make([]bool, a.Len())
		for i := 0; i < a.Len(); i++ {
			if a.IsNull(i) {
				continue
			}
			keys[i] = a.Value(i)
			valid[i] = true
		}
		return keys, valid, nil
	}
	return nil, nil, engineerr.Typef("unsupported join key column type %T", arr)
}
