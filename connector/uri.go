// Package connector implements the storage layer: a Connection exposes
// schema loading, file listing, partition-file listing, and directory
// descent (Access) over either a local filesystem root or an S3
// bucket/prefix, selected by URI scheme.
package connector

import (
	"net/url"
	"path"
	"strings"

	"github.com/morgana/queryengine/engineerr"
)

// FileScheme and S3Scheme are the two recognized URI schemes.
const (
	FileScheme = "file"
	S3Scheme   = "s3"
)

// NormalizeURI turns non-URI inputs into file:// URIs over their absolute
// local path. file:// and s3:// URIs pass through unchanged (after
// trimming a trailing slash).
func NormalizeURI(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", engineerr.IOf(nil, "empty root URI")
	}
	if !strings.Contains(raw, "://") {
		abs, err := toAbsLocalPath(raw)
		if err != nil {
			return "", err
		}
		return "file://" + abs, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", engineerr.IOf(err, "invalid URI %q", raw)
	}
	switch u.Scheme {
	case FileScheme:
		abs, err := toAbsLocalPath(u.Path)
		if err != nil {
			return "", err
		}
		return "file://" + abs, nil
	case S3Scheme:
		return strings.TrimRight(raw, "/"), nil
	default:
		return "", engineerr.IOf(nil, "unsupported URI scheme %q", u.Scheme)
	}
}

// Scheme returns the scheme component of a normalized URI.
func Scheme(uri string) string {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i]
	}
	return ""
}

// Join appends a path segment to a normalized URI (table/child descent).
func Join(uri, child string) string {
	return strings.TrimRight(uri, "/") + "/" + strings.TrimLeft(child, "/")
}

// Base returns the final path segment of a normalized URI, used to derive
// a table's directory name when listing files.
func Base(uri string) string {
	return path.Base(strings.TrimRight(uri, "/"))
}
