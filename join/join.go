// Package join executes the inner-join stage: a left-to-right chain of
// equality joins over each table's already-scanned coltable.Table, keyed
// on the JoinEdge columns resolved by the parser, via a hash index built
// from one side's key column.
package join

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/plan"
)

// Execute joins tables[0] against every subsequent table in edge order,
// each step folding one more table into the running result via its ON
// edge. Only INNER is executed; any other Kind is rejected here, at
// execution time, rather than at resolve time.
func Execute(mem memory.Allocator, tables []*plan.Table, scanned map[string]*coltable.Table, edges []*plan.JoinEdge) (*coltable.Table, error) {
	if len(tables) == 0 {
		return nil, engineerr.Resolvef("no tables to join")
	}

	result, ok := scanned[tables[0].QualifiedName()]
	if !ok {
		return nil, engineerr.Resolvef("no scanned data for table %q", tables[0].QualifiedName())
	}
	joined := map[string]bool{tables[0].QualifiedName(): true}

	for _, edge := range edges {
		if edge.Kind != "INNER" {
			return nil, engineerr.NotImplementedf("join kind %q is not executed; only INNER is supported", edge.Kind)
		}

		leftQName := qualifiedNameOf(edge.Left)
		rightQName := qualifiedNameOf(edge.Right)

		var knownCol, newCol, newQName string
		switch {
		case joined[leftQName] && !joined[rightQName]:
			knownCol, newCol, newQName = edge.Left.Fullname(), edge.Right.Fullname(), rightQName
		case joined[rightQName] && !joined[leftQName]:
			knownCol, newCol, newQName = edge.Right.Fullname(), edge.Left.Fullname(), leftQName
		case joined[leftQName] && joined[rightQName]:
			return nil, engineerr.NotImplementedf("join condition between two already-joined tables is not supported")
		default:
			return nil, engineerr.Resolvef("join condition references tables not yet reachable in FROM order")
		}

		right, ok := scanned[newQName]
		if !ok {
			return nil, engineerr.Resolvef("no scanned data for table %q", newQName)
		}

		next, err := innerJoin(mem, result, right, knownCol, newCol)
		if err != nil {
			return nil, err
		}
		result = next
		joined[newQName] = true
	}

	return result, nil
}

func qualifiedNameOf(c *plan.Column) string {
	if c.TableAlias != "" {
		return c.TableAlias
	}
	return c.TableName
}

// innerJoin matches left's leftCol against right's rightCol by building a
// hash index over right, then probing with every left row. Output order
// follows the left table's row order, then right-match order.
func innerJoin(mem memory.Allocator, left, right *coltable.Table, leftCol, rightCol string) (*coltable.Table, error) {
	rightArr := right.Column(rightCol)
	if rightArr == nil {
		return nil, engineerr.Resolvef("join column %q not present in scanned table", rightCol)
	}
	leftArr := left.Column(leftCol)
	if leftArr == nil {
		return nil, engineerr.Resolvef("join column %q not present in scanned table", leftCol)
	}

	rightKeys, rightValid, err := rowKeys(rightArr)
	if err != nil {
		return nil, err
	}
	index := make(map[any][]int64, len(rightKeys))
	for i, k := range rightKeys {
		if !rightValid[i] {
			continue
		}
		index[k] = append(index[k], int64(i))
	}

	leftKeys, leftValid, err := rowKeys(leftArr)
	if err != nil {
		return nil, err
	}

	var leftIdx, rightIdx []int64
	for i, k := range leftKeys {
		if !leftValid[i] {
			continue
		}
		for _, ri := range index[k] {
			leftIdx = append(leftIdx, int64(i))
			rightIdx = append(rightIdx, ri)
		}
	}

	leftSel, err := left.Select(mem, leftIdx)
	if err != nil {
		return nil, err
	}
	rightSel, err := right.Select(mem, rightIdx)
	if err != nil {
		return nil, err
	}

	return coltable.Hstack([]*coltable.Table{leftSel, rightSel})
}
