// Package classifier implements the WHERE-clause filter classifier: it
// walks the already-parsed WHERE expression tree and splits it into (a)
// per-table reading filters over partition columns, used by the pruner to
// select files, and (b) a flat querying filter stream over the joined row
// set, used by the row filter evaluator.
package classifier

import (
	"strings"

	"github.com/morgana/queryengine/ast"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/token"
	"github.com/morgana/queryengine/visitor"
)

// Classify walks where (nil if the statement had no WHERE clause) and
// populates lg.ReadingFilters and lg.Querying. It is a no-op when where is
// nil: an absent WHERE means no row filtering at all.
func Classify(where ast.Expr, lg *plan.Logical) error {
	if where == nil {
		return nil
	}
	if err := validate(where); err != nil {
		return err
	}
	return walk(where, lg)
}

// validate sweeps the WHERE tree once before classification, rejecting any
// node kind outside the dialect's atom/connective vocabulary and any IN
// list left empty after trailing-comma removal, so the in-order walk below
// can assume a well-formed tree.
func validate(where ast.Expr) error {
	var bad error
	visitor.Inspect(where, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ParenExpr, *ast.NotExpr, *ast.BinaryExpr, *ast.Comparison, *ast.ColName, *ast.Literal:
		case *ast.InExpr:
			if len(n.Values) == 0 {
				bad = engineerr.Parsef("IN list has no values")
				return false
			}
		default:
			bad = engineerr.Parsef("unsupported WHERE expression %T", n)
			return false
		}
		return true
	})
	return bad
}

func walk(e ast.Expr, lg *plan.Logical) error {
	switch n := e.(type) {
	case *ast.ParenExpr:
		lg.Querying = append(lg.Querying, plan.QueryingElem{Connective: plan.ConnLParen})
		if err := walk(n.X, lg); err != nil {
			return err
		}
		lg.Querying = append(lg.Querying, plan.QueryingElem{Connective: plan.ConnRParen})
		return nil

	case *ast.NotExpr:
		lg.Querying = append(lg.Querying, plan.QueryingElem{Connective: plan.ConnNot})
		return walk(n.X, lg)

	case *ast.BinaryExpr:
		if err := walk(n.Left, lg); err != nil {
			return err
		}
		conn := plan.ConnAnd
		if n.Op == token.OR {
			conn = plan.ConnOr
		}
		lg.Querying = append(lg.Querying, plan.QueryingElem{Connective: conn})
		return walk(n.Right, lg)

	case *ast.Comparison:
		return classifyComparison(n, lg)

	case *ast.InExpr:
		return classifyIn(n, lg)

	default:
		return engineerr.Parsef("unsupported WHERE expression %T", e)
	}
}

func classifyComparison(n *ast.Comparison, lg *plan.Logical) error {
	col, err := lg.ResolveRef(n.Col.Table, n.Col.Qualified, n.Col.Name)
	if err != nil {
		return err
	}

	qop, err := queryingOp(n.Op)
	if err != nil {
		return err
	}
	lg.Querying = append(lg.Querying, plan.QueryingElem{Filter: &plan.QueryingFilter{
		Column: col,
		Op:     qop,
		Value:  n.Value.Raw,
	}})

	if col.IsPartition {
		rf, err := readingFilterFromComparison(col, n.Op, n.Value.Raw)
		if err != nil {
			return err
		}
		lg.ReadingFilters = append(lg.ReadingFilters, rf)
	}
	return nil
}

func classifyIn(n *ast.InExpr, lg *plan.Logical) error {
	col, err := lg.ResolveRef(n.Col.Table, n.Col.Qualified, n.Col.Name)
	if err != nil {
		return err
	}

	values := literalValues(n.Values)
	op := plan.OpIN
	if n.Not {
		op = plan.OpNotIn
	}
	lg.Querying = append(lg.Querying, plan.QueryingElem{Filter: &plan.QueryingFilter{
		Column: col,
		Op:     op,
		Values: values,
	}})

	if col.IsPartition {
		rfOp := plan.ReadIN
		if n.Not {
			rfOp = plan.ReadNotIN
		}
		lg.ReadingFilters = append(lg.ReadingFilters, &plan.ReadingFilter{
			Column: col,
			Op:     rfOp,
			Values: values,
		})
	}
	return nil
}

// literalValues extracts verbatim literal text, dropping empty elements so
// that `IN (x,)` classifies identically to `IN (x)`. The parser already
// tolerates the trailing comma when building the InExpr.Values list; this
// guards the classifier too in case the list contains a stray empty
// literal from elsewhere.
func literalValues(lits []*ast.Literal) []string {
	out := make([]string, 0, len(lits))
	for _, l := range lits {
		if strings.TrimSpace(l.Raw) == "" {
			continue
		}
		out = append(out, l.Raw)
	}
	return out
}

func queryingOp(t token.Token) (plan.QueryingOp, error) {
	switch t {
	case token.EQ:
		return plan.OpEQ, nil
	case token.NEQ:
		return plan.OpNEQ, nil
	case token.LT:
		return plan.OpLT, nil
	case token.GT:
		return plan.OpGT, nil
	case token.LTE:
		return plan.OpLTE, nil
	case token.GTE:
		return plan.OpGTE, nil
	}
	return "", engineerr.Parsef("unsupported comparison operator %v", t)
}

func readingFilterFromComparison(col *plan.Column, op token.Token, value string) (*plan.ReadingFilter, error) {
	switch op {
	case token.EQ:
		return &plan.ReadingFilter{Column: col, Op: plan.ReadEQ, Value: value}, nil
	case token.NEQ:
		return &plan.ReadingFilter{Column: col, Op: plan.ReadNEQ, Value: value}, nil
	case token.LT:
		return &plan.ReadingFilter{Column: col, Op: plan.ReadCompare, CompareOp: plan.CmpLT, Value: value}, nil
	case token.GT:
		return &plan.ReadingFilter{Column: col, Op: plan.ReadCompare, CompareOp: plan.CmpGT, Value: value}, nil
	case token.LTE:
		return &plan.ReadingFilter{Column: col, Op: plan.ReadCompare, CompareOp: plan.CmpLTE, Value: value}, nil
	case token.GTE:
		return &plan.ReadingFilter{Column: col, Op: plan.ReadCompare, CompareOp: plan.CmpGTE, Value: value}, nil
	}
	return nil, engineerr.Parsef("unsupported reading-filter operator %v", op)
}
