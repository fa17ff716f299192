package morganaquery

import (
	"bytes"

	csvarrow "github.com/apache/arrow-go/v18/arrow/csv"

	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/engineerr"
)

// encodeCSV renders a result table as comma-delimited text with a header
// row, the invocation shim's default response codec. The codec package's
// Codec interface is read-only, so the shim carries its own minimal
// encoder instead of widening that contract with a write side.
func encodeCSV(t *coltable.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csvarrow.NewWriter(&buf, t.Schema(), csvarrow.WithHeader(true), csvarrow.WithComma(','))
	if t.Record != nil {
		if err := w.Write(t.Record); err != nil {
			return nil, engineerr.IOf(err, "encoding result as CSV")
		}
	}
	if err := w.Flush(); err != nil {
		return nil, engineerr.IOf(err, "flushing CSV encoder")
	}
	return buf.Bytes(), nil
}
