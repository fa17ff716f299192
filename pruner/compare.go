package pruner

import (
	"time"

	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/schema"
)

// negateOp returns the operator whose truth value is the logical negation
// of op, used to push a NOT down onto a leaf.
func negateOp(op plan.QueryingOp) plan.QueryingOp {
	switch op {
	case plan.OpEQ:
		return plan.OpNEQ
	case plan.OpNEQ:
		return plan.OpEQ
	case plan.OpLT:
		return plan.OpGTE
	case plan.OpGTE:
		return plan.OpLT
	case plan.OpLTE:
		return plan.OpGT
	case plan.OpGT:
		return plan.OpLTE
	case plan.OpIN:
		return plan.OpNotIn
	case plan.OpNotIn:
		return plan.OpIN
	}
	return op
}

// satisfies reports whether the candidate raw partition value (cast
// through typ) satisfies the filter.
func satisfies(candidateRaw string, typ schema.Type, f *plan.QueryingFilter) (bool, error) {
	cv, err := schema.Cast(candidateRaw, typ)
	if err != nil {
		return false, err
	}

	switch f.Op {
	case plan.OpIN, plan.OpNotIn:
		in := false
		for _, raw := range f.Values {
			fv, err := schema.Cast(raw, typ)
			if err != nil {
				return false, err
			}
			c, err := compareValues(cv, fv)
			if err != nil {
				return false, err
			}
			if c == 0 {
				in = true
				break
			}
		}
		if f.Op == plan.OpIN {
			return in, nil
		}
		return !in, nil
	}

	fv, err := schema.Cast(f.Value, typ)
	if err != nil {
		return false, err
	}
	c, err := compareValues(cv, fv)
	if err != nil {
		return false, err
	}
	switch f.Op {
	case plan.OpEQ:
		return c == 0, nil
	case plan.OpNEQ:
		return c != 0, nil
	case plan.OpLT:
		return c < 0, nil
	case plan.OpLTE:
		return c <= 0, nil
	case plan.OpGT:
		return c > 0, nil
	case plan.OpGTE:
		return c >= 0, nil
	}
	return false, engineerr.Parsef("unsupported reading-filter operator %v", f.Op)
}

// compareValues orders two cast values of the same underlying Go type
// (int64, float64, string, bool, time.Time), returning -1/0/1.
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
