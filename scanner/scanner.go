// Package scanner implements the per-table multi-file scan: for each
// table, list and prune partition files, read the surviving files through
// the codec, inject partition values, project and rename to each column's
// fullname, and concatenate into one per-table table.
package scanner

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/morgana/queryengine/codec"
	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/pruner"
	"github.com/morgana/queryengine/schema"
)

// TableSource is the subset of connector.Connection a table scan needs,
// named separately here so scanner stays decoupled from the connector
// package's concrete type.
type TableSource interface {
	Schema(ctx context.Context) (*schema.Document, error)
	ListFiles(ctx context.Context) ([]string, error)
	OpenDataFile(ctx context.Context, filename string) (io.ReadCloser, error)
}

// Scan runs the full scan for one resolved Table, returning the
// concatenated per-table table and the physical files actually read
// (propagated into the engine's final result list).
func Scan(ctx context.Context, mem memory.Allocator, t *plan.Table, src TableSource, querying []plan.QueryingElem) (*coltable.Table, []string, error) {
	doc, err := src.Schema(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !doc.IsTable() {
		return nil, nil, engineerr.Schemaf("%q is not a table", t.Name)
	}

	allPartitionKeys, err := doc.PartitionKeys()
	if err != nil {
		return nil, nil, err
	}
	storedCols, err := doc.Columns()
	if err != nil {
		return nil, nil, err
	}
	storedTypes := make(map[string]schema.Type, len(storedCols))
	for _, c := range storedCols {
		storedTypes[c.Name] = c.Type
	}

	cdc, err := codec.For(doc.Codec(), mem)
	if err != nil {
		return nil, nil, err
	}

	var readFiles []string
	if len(allPartitionKeys) == 0 {
		readFiles = []string{t.Name + doc.Codec().Extension()}
	} else {
		allFiles, err := src.ListFiles(ctx)
		if err != nil {
			return nil, nil, err
		}
		keyNames := make([]string, len(allPartitionKeys))
		keyTypes := make(map[string]schema.Type, len(allPartitionKeys))
		for i, k := range allPartitionKeys {
			keyNames[i] = k.Name
			keyTypes[k.Name] = k.Type
		}
		idx, err := pruner.BuildIndex(t.Name, keyNames, allFiles)
		if err != nil {
			return nil, nil, err
		}
		readFiles, err = pruner.Prune(idx, t.Name, keyTypes, querying)
		if err != nil {
			return nil, nil, err
		}
	}
	return scanFiles(ctx, mem, t, src, cdc, storedCols, storedTypes, allPartitionKeys, readFiles)
}

func scanFiles(
	ctx context.Context,
	mem memory.Allocator,
	t *plan.Table,
	src TableSource,
	cdc codec.Codec,
	storedCols []schema.Column,
	storedTypes map[string]schema.Type,
	allPartitionKeys []schema.Column,
	readFiles []string,
) (*coltable.Table, []string, error) {
	requiredStored := requiredStoredColumns(t, storedTypes)
	requiredPartitions := requiredPartitionColumns(t, allPartitionKeys)

	if len(readFiles) == 0 {
		return emptyResultTable(mem, t), nil, nil
	}

	var perFile []*coltable.Table
	for _, f := range readFiles {
		ft, err := scanOneFile(ctx, mem, t, src, cdc, f, storedCols, requiredStored, requiredPartitions)
		if err != nil {
			return nil, nil, err
		}
		perFile = append(perFile, ft)
	}

	out, err := coltable.Concat(mem, perFile)
	if err != nil {
		return nil, nil, err
	}
	for _, ft := range perFile {
		ft.Release()
	}

	// Re-cast date/datetime stored columns that arrived as raw strings
	// from a delimited-text codec.
	for _, c := range requiredStored {
		if c.Type == schema.Date || c.Type == schema.DateTime {
			fullname := findFullname(t, c.Name)
			out, err = out.RecastTemporal(mem, fullname, c.Type)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	return out, readFiles, nil
}

func scanOneFile(
	ctx context.Context,
	mem memory.Allocator,
	t *plan.Table,
	src TableSource,
	cdc codec.Codec,
	file string,
	storedCols []schema.Column,
	requiredStored []schema.Column,
	requiredPartitions []schema.Column,
) (*coltable.Table, error) {
	r, err := src.OpenDataFile(ctx, file)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// The codec decodes against the table's full stored schema (a
	// delimited-text file carries every stored column positionally);
	// projection down to the required set happens below.
	tbl, err := cdc.Read(ctx, r, storedCols)
	if err != nil {
		return nil, err
	}

	if len(requiredPartitions) > 0 {
		var kvs []pruner.KV
		if kvs, err = pruner.ParseFileName(file, t.Name); err != nil {
			return nil, err
		}
		raw := make(map[string]string, len(kvs))
		for _, kv := range kvs {
			raw[kv.Key] = kv.Value
		}
		for _, pk := range requiredPartitions {
			v, ok := raw[pk.Name]
			if !ok {
				return nil, engineerr.IOf(nil, "file %q has no value for partition key %q", file, pk.Name)
			}
			cast, err := schema.Cast(v, pk.Type)
			if err != nil {
				return nil, err
			}
			tbl, err = tbl.WithConstantColumn(mem, pk.Name, pk.Type, cast)
			if err != nil {
				return nil, err
			}
		}
	}

	names := make([]string, 0, len(requiredStored)+len(requiredPartitions))
	rename := make(map[string]string, len(requiredStored)+len(requiredPartitions))
	for _, c := range requiredStored {
		names = append(names, c.Name)
		rename[c.Name] = findFullname(t, c.Name)
	}
	for _, c := range requiredPartitions {
		names = append(names, c.Name)
		rename[c.Name] = findFullname(t, c.Name)
	}

	projected, err := tbl.Project(names)
	if err != nil {
		return nil, err
	}
	return projected.Rename(rename), nil
}

func requiredStoredColumns(t *plan.Table, storedTypes map[string]schema.Type) []schema.Column {
	var out []schema.Column
	for _, c := range t.Columns {
		if c.IsPartition {
			continue
		}
		if typ, ok := storedTypes[c.Name]; ok {
			out = append(out, schema.Column{Name: c.Name, Type: typ})
		}
	}
	return out
}

func requiredPartitionColumns(t *plan.Table, allKeys []schema.Column) []schema.Column {
	required := make(map[string]bool)
	for _, c := range t.Columns {
		if c.IsPartition {
			required[c.Name] = true
		}
	}
	var out []schema.Column
	for _, k := range allKeys {
		if required[k.Name] {
			out = append(out, k)
		}
	}
	return out
}

func findFullname(t *plan.Table, name string) string {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Fullname()
		}
	}
	return name
}

func emptyResultTable(mem memory.Allocator, t *plan.Table) *coltable.Table {
	fields := make([]arrow.Field, 0, len(t.Columns))
	for _, c := range t.Columns {
		fields = append(fields, arrow.Field{Name: c.Fullname(), Type: coltable.ArrowType(c.Type), Nullable: true})
	}
	return coltable.Empty(mem, fields)
}
