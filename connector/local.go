package connector

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/morgana/queryengine/engineerr"
)

func toAbsLocalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", engineerr.IOf(err, "resolving local path %q", p)
	}
	return filepath.ToSlash(abs), nil
}

// localStore implements store over the local filesystem.
type localStore struct{}

func newLocalStore() *localStore { return &localStore{} }

func (s *localStore) toPath(uri string) string {
	p := strings.TrimPrefix(uri, "file://")
	return filepath.FromSlash(p)
}

func (s *localStore) ReadFile(_ context.Context, uri string) ([]byte, error) {
	return os.ReadFile(s.toPath(uri))
}

func (s *localStore) ListDir(_ context.Context, uri string) ([]string, error) {
	entries, err := os.ReadDir(s.toPath(uri))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

func (s *localStore) OpenFile(_ context.Context, uri string) (io.ReadCloser, error) {
	return os.Open(s.toPath(uri))
}
