package rowfilter

import (
	"time"

	"github.com/morgana/queryengine/engineerr"
)

// compareValues orders two values of the same underlying Go type produced
// by schema.Cast or columnValues (int64, float64, string, bool, time.Time),
// the row-evaluation twin of pruner.compareValues.
func compareValues(a, b any) (int, error) {
	switch av := a.(type) {
	case int64:
		bv := b.(int64)
		return cmpOrdered(av, bv), nil
	case float64:
		bv := b.(float64)
		return cmpOrdered(av, bv), nil
	case string:
		bv := b.(string)
		return cmpOrdered(av, bv), nil
	case bool:
		bv := b.(bool)
		return cmpOrdered(boolRank(av), boolRank(bv)), nil
	case time.Time:
		bv := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1, nil
		case av.After(bv):
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, engineerr.Typef("unsupported value type %T for comparison", a)
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

type ordered interface {
	~int | ~int64 | ~float64 | ~string
}

func cmpOrdered[T ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
