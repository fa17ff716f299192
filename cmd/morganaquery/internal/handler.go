// Package morganaquery provides the invocation shim: a Handle function
// matching the `{database, query} -> {statusCode, body}` contract, and a
// cobra CLI wrapping it for local use. The real work lives in plain Go
// functions so both surfaces can be exercised without spinning up a
// process.
package morganaquery

import (
	"context"
	"encoding/base64"

	"github.com/sirupsen/logrus"

	"github.com/morgana/queryengine/connector"
	"github.com/morgana/queryengine/engine"
	"github.com/morgana/queryengine/engineerr"
)

// Request is the invocation shim's input record.
type Request struct {
	Database string
	Query    string
}

// Response is the invocation shim's output record: a 200 carries Body
// (base64 of the result table in the default codec); any other status code
// carries Error and no Body.
type Response struct {
	StatusCode int
	Body       string
	Error      string
}

// Handle runs one query end to end and maps the outcome onto the response
// envelope. It never panics: every engine error is a *engineerr.Error with
// its own status code.
func Handle(ctx context.Context, req Request) Response {
	log := logrus.WithFields(logrus.Fields{"database": req.Database})
	log.Debug("handling query request")

	conn, err := connector.Open(ctx, req.Database, connector.Options{})
	if err != nil {
		return errorResponse(log, err)
	}

	eng := engine.New(conn)
	result, err := eng.Query(ctx, req.Query)
	if err != nil {
		return errorResponse(log, err)
	}

	body, err := encodeCSV(result.Table)
	if err != nil {
		return errorResponse(log, err)
	}

	log.WithField("files_read", len(result.FilesRead)).Info("query succeeded")
	return Response{StatusCode: 200, Body: base64.StdEncoding.EncodeToString(body)}
}

func errorResponse(log *logrus.Entry, err error) Response {
	code := 500
	if e, ok := err.(*engineerr.Error); ok {
		code = e.StatusCode()
	}
	log.WithError(err).WithField("status", code).Warn("query failed")
	return Response{StatusCode: code, Error: err.Error()}
}
