package pruner

import (
	"sort"

	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/schema"
)

// Prune computes the minimal file read set for a table: for every
// partition key, apply the reading filters that touch it, composed by the
// WHERE clause's own AND/OR/NOT structure, then union the files implied by
// the surviving values per key and intersect across keys.
//
// The caller handles the unpartitioned case itself: a table with no
// partition keys reads the single file whose basename equals the table
// name.
func Prune(idx *Index, tableName string, keyTypes map[string]schema.Type, querying []plan.QueryingElem) ([]string, error) {
	if len(querying) == 0 {
		out := idx.AllFiles()
		sort.Strings(out)
		return out, nil
	}

	tree, err := buildTree(querying)
	if err != nil {
		return nil, err
	}

	var perKeyFiles [][]string
	for _, key := range idx.Keys {
		universe := idx.CandidateValues(key)
		surviving, err := evalKey(tree, tableName, key, keyTypes[key], universe, false)
		if err != nil {
			return nil, err
		}
		var files []string
		seen := make(map[string]bool)
		for v := range surviving {
			for _, f := range idx.FilesForValue(key, v) {
				if !seen[f] {
					seen[f] = true
					files = append(files, f)
				}
			}
		}
		perKeyFiles = append(perKeyFiles, files)
	}

	if len(perKeyFiles) == 0 {
		return idx.AllFiles(), nil
	}

	result := toSet(perKeyFiles[0])
	for _, files := range perKeyFiles[1:] {
		result = intersectStr(result, toSet(files))
	}
	out := make([]string, 0, len(result))
	for f := range result {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

// evalKey recursively evaluates the (possibly negated) tree against the
// universe of observed raw values for one partition key on one table,
// leaving atoms about any other column unrestricted: a key with no filters
// keeps all observed values.
func evalKey(n *node, tableName, key string, typ schema.Type, universe map[string]bool, negate bool) (map[string]bool, error) {
	switch n.op {
	case "leaf":
		f := n.filter
		if f.Column == nil || f.Column.TableName != tableName || f.Column.Name != key || !f.Column.IsPartition {
			return universe, nil
		}
		op := f.Op
		if negate {
			op = negateOp(op)
		}
		return filterUniverse(universe, typ, &plan.QueryingFilter{Column: f.Column, Op: op, Value: f.Value, Values: f.Values})

	case "not":
		return evalKey(n.children[0], tableName, key, typ, universe, !negate)

	case "and", "or":
		op := n.op
		if negate {
			if op == "and" {
				op = "or"
			} else {
				op = "and"
			}
		}
		left, err := evalKey(n.children[0], tableName, key, typ, universe, negate)
		if err != nil {
			return nil, err
		}
		right, err := evalKey(n.children[1], tableName, key, typ, universe, negate)
		if err != nil {
			return nil, err
		}
		if op == "and" {
			return intersectStr(left, right), nil
		}
		return unionStr(left, right), nil
	}
	return universe, nil
}

func filterUniverse(universe map[string]bool, typ schema.Type, f *plan.QueryingFilter) (map[string]bool, error) {
	out := make(map[string]bool)
	for v := range universe {
		ok, err := satisfies(v, typ, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out[v] = true
		}
	}
	return out, nil
}

func toSet(files []string) map[string]bool {
	out := make(map[string]bool, len(files))
	for _, f := range files {
		out[f] = true
	}
	return out
}

func intersectStr(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for v := range a {
		if b[v] {
			out[v] = true
		}
	}
	return out
}

func unionStr(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for v := range a {
		out[v] = true
	}
	for v := range b {
		out[v] = true
	}
	return out
}
