// Package engine wires the full query pipeline: lex/parse, resolve,
// per-table prune+scan, inner join, row filter, final projection. A single
// top-level orchestration function calls each stage in turn and collects
// the files read for the response envelope.
package engine

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/sirupsen/logrus"

	"github.com/morgana/queryengine/coltable"
	"github.com/morgana/queryengine/connector"
	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/join"
	"github.com/morgana/queryengine/parser"
	"github.com/morgana/queryengine/plan"
	"github.com/morgana/queryengine/rowfilter"
	"github.com/morgana/queryengine/scanner"
	"github.com/morgana/queryengine/schema"
)

// Engine executes queries against a root connector.Connection.
type Engine struct {
	Root *connector.Connection
	Mem  memory.Allocator
	Log  *logrus.Logger
}

// New builds an Engine over root, using the default Arrow allocator and
// the process-wide logrus logger.
func New(root *connector.Connection) *Engine {
	return &Engine{Root: root, Mem: memory.DefaultAllocator, Log: logrus.StandardLogger()}
}

// Result is the outcome of one Query call: the final table and the
// physical files actually read to produce it.
type Result struct {
	Table     *coltable.Table
	FilesRead []string
}

// Query runs the full pipeline over a single SELECT statement.
func (e *Engine) Query(ctx context.Context, sql string) (*Result, error) {
	log := e.Log.WithField("component", "engine")
	log.WithField("sql", sql).Debug("parsing query")

	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	conns := make(map[string]*connector.Connection)
	lookup := func(tableName string) (*schema.Document, error) {
		c, ok := conns[tableName]
		var err error
		if !ok {
			c, err = e.Root.Access(ctx, tableName)
			if err != nil {
				return nil, err
			}
			conns[tableName] = c
		}
		return c.Schema(ctx)
	}

	lg, err := parser.Resolve(stmt, lookup)
	if err != nil {
		return nil, err
	}
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	scanned := make(map[string]*coltable.Table)
	var filesRead []string
	for _, t := range lg.Tables {
		conn, ok := conns[t.Name]
		if !ok {
			conn, err = e.Root.Access(ctx, t.Name)
			if err != nil {
				return nil, err
			}
			conns[t.Name] = conn
		}
		tbl, files, err := scanner.Scan(ctx, e.Mem, t, conn, lg.Querying)
		if err != nil {
			return nil, err
		}
		scanned[t.QualifiedName()] = tbl
		for _, f := range files {
			filesRead = append(filesRead, connector.Join(conn.URI(), f))
		}
		log.WithFields(logrus.Fields{"table": t.Name, "files": len(files)}).Debug("scanned table")
		if err := checkCancel(ctx); err != nil {
			return nil, err
		}
	}

	joined, err := join.Execute(e.Mem, lg.Tables, scanned, lg.Joins)
	if err != nil {
		return nil, err
	}
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	filtered, err := rowfilter.Apply(e.Mem, joined, lg.Querying)
	if err != nil {
		return nil, err
	}

	out, err := projectFinal(filtered, lg)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"rows": out.NumRows(), "files_read": len(filesRead)}).Info("query complete")
	return &Result{Table: out, FilesRead: filesRead}, nil
}

// checkCancel polls ctx at a stage boundary: cancellation is cooperative
// and only ever observed between stages, never inside one.
func checkCancel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return engineerr.IOf(err, "query cancelled")
	}
	return nil
}

func projectFinal(t *coltable.Table, lg *plan.Logical) (*coltable.Table, error) {
	names := make([]string, len(lg.Projection))
	for i, c := range lg.Projection {
		names[i] = c.Fullname()
	}
	out, err := t.Project(names)
	if err != nil {
		return nil, engineerr.Resolvef("projecting final result: %v", err)
	}
	return out, nil
}
