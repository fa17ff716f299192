// Package pruner implements partition pruning: parsing the
// file-name-encoded partition segments, building the per-key candidate
// value set observed across a table's files, and applying reading filters
// to compute the minimal file read set.
package pruner

import (
	"strings"

	"github.com/morgana/queryengine/engineerr"
)

// ParseFileName decodes a partition file name: split on '-', drop the
// leading table name and the trailing extension, then split each remaining
// segment on '=' into (key, string-encoded value) pairs, in the order they
// appear in the name.
func ParseFileName(filename, tableName string) ([]KV, error) {
	base := filename
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	if !strings.HasPrefix(base, tableName+"-") {
		return nil, engineerr.IOf(nil, "file %q does not match table %q naming scheme", filename, tableName)
	}
	rest := strings.TrimPrefix(base, tableName+"-")
	if rest == "" {
		return nil, engineerr.IOf(nil, "file %q has no partition segments", filename)
	}

	segments := strings.Split(rest, "-")
	out := make([]KV, 0, len(segments))
	for _, seg := range segments {
		eq := strings.Index(seg, "=")
		if eq < 0 {
			return nil, engineerr.IOf(nil, "malformed partition segment %q in file %q", seg, filename)
		}
		out = append(out, KV{Key: seg[:eq], Value: seg[eq+1:]})
	}
	return out, nil
}

// KV is one decoded partition segment.
type KV struct {
	Key   string
	Value string
}
