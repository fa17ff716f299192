package codec

import (
	"bytes"
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/schema"
)

// parquetCodec reads ".parquet.gzip" columnar-compressed files through
// arrow-go's parquet/pqarrow reader.
type parquetCodec struct {
	mem memory.Allocator
}

func (c *parquetCodec) Read(ctx context.Context, r io.Reader, cols []schema.Column) (*coltable.Table, error) {
	// Parquet's footer-first layout needs random access; buffer the file
	// fully (data files in this engine are per-partition shards, not
	// whole-table dumps, so this stays bounded).
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, engineerr.IOf(err, "reading parquet data file")
	}

	pf, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, engineerr.IOf(err, "opening parquet file")
	}
	defer pf.Close()

	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, c.mem)
	if err != nil {
		return nil, engineerr.IOf(err, "building parquet arrow reader")
	}

	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, engineerr.IOf(err, "reading parquet table")
	}
	defer tbl.Release()

	batchSize := tbl.NumRows()
	if batchSize == 0 {
		batchSize = 1
	}
	tr := array.NewTableReader(tbl, batchSize)
	defer tr.Release()

	var out *coltable.Table
	if tr.Next() {
		rec := tr.Record()
		rec.Retain()
		out = coltable.New(rec)
	} else {
		out = coltable.Empty(c.mem, tbl.Schema().Fields())
	}

	return out.Project(columnNames(cols))
}

func columnNames(cols []schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
