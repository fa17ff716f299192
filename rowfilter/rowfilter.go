// Package rowfilter evaluates the querying filter stream row-by-row
// against the joined table and keeps only matching rows. The stream's own
// AND/OR/NOT structure is honored exactly, mirroring pruner's boolean-tree
// reconstruction but evaluating against actual column values instead of
// candidate partition strings.
package rowfilter

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/schema"
)

// Apply filters joined to the rows satisfying querying, or returns joined
// unchanged if querying is empty.
func Apply(mem memory.Allocator, joined *coltable.Table, querying []plan.QueryingElem) (*coltable.Table, error) {
	if len(querying) == 0 {
		return joined, nil
	}

	tree, err := buildTree(querying)
	if err != nil {
		return nil, err
	}

	mask, err := evalNode(tree, joined)
	if err != nil {
		return nil, err
	}

	indices := make([]int64, 0, len(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, int64(i))
		}
	}
	return joined.Select(mem, indices)
}

func evalNode(n *node, t *coltable.Table) ([]bool, error) {
	switch n.op {
	case "leaf":
		return evalLeaf(n.filter, t)
	case "not":
		child, err := evalNode(n.children[0], t)
		if err != nil {
			return nil, err
		}
		out := make([]bool, len(child))
		for i, v := range child {
			out[i] = !v
		}
		return out, nil
	case "and", "or":
		left, err := evalNode(n.children[0], t)
		if err != nil {
			return nil, err
		}
		right, err := evalNode(n.children[1], t)
		if err != nil {
			return nil, err
		}
		out := make([]bool, len(left))
		for i := range left {
			if n.op == "and" {
				out[i] = left[i] && right[i]
			} else {
				out[i] = left[i] || right[i]
			}
		}
		return out, nil
	}
	return nil, engineerr.Parsef("malformed querying filter tree node %q", n.op)
}

func evalLeaf(f *plan.QueryingFilter, t *coltable.Table) ([]bool, error) {
	col := t.Column(f.Column.Fullname())
	if col == nil {
		return nil, engineerr.Resolvef("column %q not present in joined table", f.Column.Fullname())
	}
	values, valid, err := columnValues(col)
	if err != nil {
		return nil, err
	}

	typ := f.Column.Type
	out := make([]bool, len(values))

	if f.Op == plan.OpIN || f.Op == plan.OpNotIn {
		literals := make([]any, len(f.Values))
		for i, raw := range f.Values {
			lv, err := schema.Cast(raw, typ)
			if err != nil {
				return nil, err
			}
			literals[i] = lv
		}
		for i := range values {
			if !valid[i] {
				continue
			}
			in := false
			for _, lv := range literals {
				c, err := compareValues(values[i], lv)
				if err != nil {
					return nil, err
				}
				if c == 0 {
					in = true
					break
				}
			}
			if f.Op == plan.OpIN {
				out[i] = in
			} else {
				out[i] = !in
			}
		}
		return out, nil
	}

	lit, err := schema.Cast(f.Value, typ)
	if err != nil {
		return nil, err
	}
	for i := range values {
		if !valid[i] {
			continue
		}
		c, err := compareValues(values[i], lit)
		if err != nil {
			return nil, err
		}
		switch f.Op {
		case plan.OpEQ:
			out[i] = c == 0
		case plan.OpNEQ:
			out[i] = c != 0
		case plan.OpLT:
			out[i] = c < 0
		case plan.OpLTE:
			out[i] = c <= 0
		case plan.OpGT:
			out[i] = c > 0
		case plan.OpGTE:
			out[i] = c >= 0
		default:
			return nil, engineerr.Parsef("unsupported querying-filter operator %v", f.Op)
		}
	}
	return out, nil
}
