package middleware

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/seqmux/seqmux/pkg/common"
)

// StaticAssets is the static-asset collaborator: given a directory and a
// request path it returns either file bytes plus a mime type or "not found".
type StaticAssets struct {
	dir string
}

// NewStaticAssets creates a collaborator rooted at dir.
func NewStaticAssets(dir string) *StaticAssets {
	return &StaticAssets{dir: dir}
}

// Lookup resolves path inside the root directory. Paths escaping the root
// resolve to "not found".
func (s *StaticAssets) Lookup(path string) ([]byte, string, bool) {
	cleaned := filepath.Clean("/" + path)
	full := filepath.Join(s.dir, cleaned)

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return nil, "", false
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, "", false
	}

	contentType := mime.TypeByExtension(filepath.Ext(full))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, true
}

// Static serves files under prefix from dir. Requests that miss fall through
// to the rest of the chain, so static serving composes with regular routes.
func Static(prefix, dir string) Middleware {
	assets := NewStaticAssets(dir)
	return func(c *common.Context, next common.Next) (any, error) {
		if c.Method != http.MethodGet && c.Method != http.MethodHead {
			return next()
		}
		if !strings.HasPrefix(c.Path, prefix) {
			return next()
		}

		data, contentType, ok := assets.Lookup(strings.TrimPrefix(c.Path, prefix))
		if !ok {
			return next()
		}
		if c.Method == http.MethodHead {
			data = nil
		}
		return c.Blob(http.StatusOK, contentType, data), nil
	}
}
