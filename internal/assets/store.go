// Package assets provides the static resources served on the HTTP port,
// either from the embedded browser panel or from a directory on disk.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

//go:embed www
var wwwFS embed.FS

// ErrNotFound indicates a resource that does not exist in the store.
// Traversal attempts and other non-canonical paths report the same error.
var ErrNotFound = errors.New("resource not found")

// Store looks up static resources by slash-separated relative path,
// e.g. "index.html".
type Store interface {
	Resolve(name string) ([]byte, error)
}

type fsStore struct {
	fsys fs.FS
}

// NewEmbeddedStore serves the built-in browser panel bundled into the
// binary, so the server works with zero setup.
func NewEmbeddedStore() Store {
	sub, err := fs.Sub(wwwFS, "www")
	if err != nil {
		panic(err)
	}
	return &fsStore{fsys: sub}
}

// NewDirStore serves files from a directory on disk, replacing the embedded
// bundle.
func NewDirStore(dir string) (Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("www directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("www path is not a directory: %s", dir)
	}
	return &fsStore{fsys: os.DirFS(dir)}, nil
}

func (s *fsStore) Resolve(name string) ([]byte, error) {
	// Reject anything that is not a canonical relative path. This is what
	// keeps ".." traversal out of directory-backed stores.
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, nil
}

// ContentType maps a resource path to the Content-Type header value by file
// extension. Unknown extensions fall back to application/octet-stream.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return "text/html"
	case ".js":
		return "application/javascript"
	case ".css":
		return "text/css"
	case ".png":
		return "image/png"
	case ".ico":
		return "image/x-icon"
	case ".svg":
		return "image/svg+xml"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
