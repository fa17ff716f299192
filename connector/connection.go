package connector

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/morgana/queryengine/engineerr"
	"github.com/morgana/queryengine/schema"
)

// store is the minimal byte-oriented contract both backends (local
// filesystem, S3) implement; Connection builds the shared behavior on top
// of it so URI parsing and schema caching are written once.
type store interface {
	// ReadFile returns the full contents addressed by uri.
	ReadFile(ctx context.Context, uri string) ([]byte, error)
	// ListDir returns the basenames of entries directly under uri.
	ListDir(ctx context.Context, uri string) ([]string, error)
	// OpenFile returns a streaming reader for the file addressed by uri.
	OpenFile(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Connection is a handle to a database or table directory at a URI.
// Schema caching is single-writer: the first call to Schema populates the
// cache, subsequent calls reuse it.
type Connection struct {
	uri   string
	store store

	mu      sync.Mutex
	doc     *schema.Document
	loadErr error
}

// Open builds a Connection for a root URI (file://, s3://, or a bare
// local path), selecting the backend by scheme.
func Open(ctx context.Context, rootURI string, opts Options) (*Connection, error) {
	norm, err := NormalizeURI(rootURI)
	if err != nil {
		return nil, err
	}
	st, err := newStore(Scheme(norm), opts)
	if err != nil {
		return nil, err
	}
	return &Connection{uri: norm, store: st}, nil
}

// Options carries backend-specific storage options; the zero value uses
// ambient credentials/defaults for each backend.
type Options struct {
	// S3Region overrides the AWS region used when opts target an s3://
	// root; empty uses the SDK's default resolution chain.
	S3Region string
}

func newStore(scheme string, opts Options) (store, error) {
	switch scheme {
	case FileScheme:
		return newLocalStore(), nil
	case S3Scheme:
		return newS3Store(opts)
	}
	return nil, engineerr.IOf(nil, "unsupported URI scheme %q", scheme)
}

// URI returns this connection's normalized root URI.
func (c *Connection) URI() string { return c.uri }

// Schema lazily loads and caches the `.schema.json` document at this
// connection's root. Initialize-once, guarded by a plain mutex.
func (c *Connection) Schema(ctx context.Context) (*schema.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc != nil {
		return c.doc, nil
	}
	if c.loadErr != nil {
		return nil, c.loadErr
	}

	data, err := c.store.ReadFile(ctx, Join(c.uri, ".schema.json"))
	if err != nil {
		c.loadErr = engineerr.IOf(err, "loading schema at %s", c.uri)
		return nil, c.loadErr
	}
	doc, err := schema.Parse(data)
	if err != nil {
		c.loadErr = err
		return nil, err
	}
	c.doc = doc
	return doc, nil
}

// ListFiles lists every data file in this table directory; fails if this
// connection's schema is not a table.
func (c *Connection) ListFiles(ctx context.Context) ([]string, error) {
	doc, err := c.Schema(ctx)
	if err != nil {
		return nil, err
	}
	if !doc.IsTable() {
		return nil, engineerr.Schemaf("ListFiles called on database schema at %s", c.uri)
	}
	names, err := c.store.ListDir(ctx, c.uri)
	if err != nil {
		return nil, engineerr.IOf(err, "listing files at %s", c.uri)
	}
	out := names[:0:0]
	for _, n := range names {
		if n == ".schema.json" || strings.HasPrefix(n, ".") {
			continue
		}
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// ListPartitionFiles lists files whose name contains the segment
// "-<column>=": the subset of ListFiles encoding a value for the given
// partition key.
func (c *Connection) ListPartitionFiles(ctx context.Context, column string) ([]string, error) {
	all, err := c.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	marker := fmt.Sprintf("-%s=", column)
	var out []string
	for _, n := range all {
		if strings.Contains(n, marker) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Access descends into a child table by name: fails if the current schema
// is not a database, or the name is not listed.
func (c *Connection) Access(ctx context.Context, child string) (*Connection, error) {
	doc, err := c.Schema(ctx)
	if err != nil {
		return nil, err
	}
	if !doc.IsDatabase() {
		return nil, engineerr.Schemaf("Access(%q) called on table schema at %s", child, c.uri)
	}
	ref, ok := doc.TableRef(child)
	if !ok {
		return nil, engineerr.NotFoundf("unknown table %q", child)
	}

	childURI := ref
	if !strings.Contains(ref, "://") {
		childURI = Join(c.uri, ref)
	}
	norm, err := NormalizeURI(childURI)
	if err != nil {
		return nil, err
	}
	return &Connection{uri: norm, store: c.store}, nil
}

// OpenDataFile opens a named data file within this table directory for
// reading through the codec factory.
func (c *Connection) OpenDataFile(ctx context.Context, filename string) (io.ReadCloser, error) {
	r, err := c.store.OpenFile(ctx, Join(c.uri, filename))
	if err != nil {
		return nil, engineerr.IOf(err, "opening %s/%s", c.uri, filename)
	}
	return r, nil
}
