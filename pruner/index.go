package pruner

import "github.com/morgana/queryengine/engineerr"

// Index is the per-table partition index built by scanning every file name
// in the table's directory.
type Index struct {
	TableName string
	Keys      []string // schema partition order

	// files maps each partition file name to its decoded KV segments.
	files map[string][]KV
	// values maps key -> observed raw value -> file names carrying it.
	values map[string]map[string][]string
}

// BuildIndex parses every file name in files (a table's partition file
// listing) and indexes, per partition key, the observed raw values and the
// files that carry each one.
func BuildIndex(tableName string, keys []string, files []string) (*Index, error) {
	idx := &Index{
		TableName: tableName,
		Keys:      keys,
		files:     make(map[string][]KV, len(files)),
		values:    make(map[string]map[string][]string, len(keys)),
	}
	for _, k := range keys {
		idx.values[k] = make(map[string][]string)
	}

	for _, f := range files {
		kvs, err := ParseFileName(f, tableName)
		if err != nil {
			return nil, err
		}
		idx.files[f] = kvs
		for _, kv := range kvs {
			if _, ok := idx.values[kv.Key]; !ok {
				continue // a segment outside the declared partition keys
			}
			idx.values[kv.Key][kv.Value] = append(idx.values[kv.Key][kv.Value], f)
		}
	}
	return idx, nil
}

// CandidateValues returns every raw value observed for key, across all
// files.
func (idx *Index) CandidateValues(key string) map[string]bool {
	out := make(map[string]bool, len(idx.values[key]))
	for v := range idx.values[key] {
		out[v] = true
	}
	return out
}

// FilesForValue returns the files encoding the given raw value for key.
func (idx *Index) FilesForValue(key, value string) []string {
	return idx.values[key][value]
}

// AllFiles returns every partition file known to the index.
func (idx *Index) AllFiles() []string {
	out := make([]string, 0, len(idx.files))
	for f := range idx.files {
		out = append(out, f)
	}
	return out
}

// ValueFor returns the raw partition value of key encoded in a given file
// name.
func (idx *Index) ValueFor(file, key string) (string, error) {
	for _, kv := range idx.files[file] {
		if kv.Key == key {
			return kv.Value, nil
		}
	}
	return "", engineerr.IOf(nil, "file %q has no value for partition key %q", file, key)
}
