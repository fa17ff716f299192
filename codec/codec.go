// Package codec implements the file-format readers behind each table's
// declared format tag: PARQUET (columnar compressed) and CSV
// (comma-delimited text), both producing a coltable.Table from a data
// file's bytes through arrow-go's own readers.
package codec

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/schema"
)

// Codec reads a data file of one physical format into a coltable.Table
// typed per the table's declared (non-partition) columns.
type Codec interface {
	// Read decodes r's full contents into a table whose schema matches
	// cols, in order.
	Read(ctx context.Context, r io.Reader, cols []schema.Column) (*coltable.Table, error)
}

// For looks up the Codec implementation for a schema.Codec tag. The engine
// is read-only, so only the reader side of each format is implemented.
func For(tag schema.Codec, mem memory.Allocator) (Codec, error) {
	switch tag {
	case schema.CSV:
		return &csvCodec{mem: mem}, nil
	case schema.Parquet:
		return &parquetCodec{mem: mem}, nil
	}
	return nil, engineerr.Schemaf("unknown codec tag %q", tag)
}
