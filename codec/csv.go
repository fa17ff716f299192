package codec

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	csvarrow "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/schema"
)

// csvCodec reads comma-delimited text with a header row through arrow/csv
// against the table's declared schema. Date/datetime columns are read as
// plain strings and re-cast after per-table concatenation
// (coltable.RecastTemporal), since delimited text has no native timestamp
// type.
type csvCodec struct {
	mem memory.Allocator
}

func (c *csvCodec) Read(_ context.Context, r io.Reader, cols []schema.Column) (*coltable.Table, error) {
	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		typ := coltable.ArrowType(col.Type)
		if col.Type == schema.Date || col.Type == schema.DateTime {
			typ = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: col.Name, Type: typ}
	}
	arrowSchema := arrow.NewSchema(fields, nil)

	reader := csvarrow.NewReader(
		r,
		arrowSchema,
		csvarrow.WithHeader(true),
		csvarrow.WithComma(','),
		csvarrow.WithAllocator(c.mem),
	)
	defer reader.Release()

	var batches []*coltable.Table
	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		batches = append(batches, coltable.New(rec))
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		return nil, engineerr.IOf(err, "reading CSV data file")
	}
	if len(batches) == 0 {
		return coltable.Empty(c.mem, fields), nil
	}
	out, err := coltable.Concat(c.mem, batches)
	if err != nil {
		return nil, err
	}
	for _, b := range batches {
		b.Release()
	}
	return out, nil
}
