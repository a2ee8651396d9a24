package middleware

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestStaticServesFile(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "app.css", "body { color: red }")

	c := newContext(t, http.MethodGet, "/assets/app.css")
	resp := runChain(t, c, okHandler, Static("/assets", dir))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body { color: red }", string(resp.Body))
	assert.Contains(t, resp.Headers.Get("Content-Type"), "text/css")
}

func TestStaticHeadOmitsBody(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "app.js", "console.log(1)")

	c := newContext(t, http.MethodHead, "/assets/app.js")
	resp := runChain(t, c, okHandler, Static("/assets", dir))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestStaticMissFallsThrough(t *testing.T) {
	dir := t.TempDir()

	c := newContext(t, http.MethodGet, "/assets/missing.png")
	resp := runChain(t, c, okHandler, Static("/assets", dir))

	// No file, so the chain keeps going and the handler answers.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(resp.Body))
}

func TestStaticIgnoresNonReadMethods(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "data.txt", "secret")

	c := newContext(t, http.MethodPost, "/assets/data.txt")
	resp := runChain(t, c, okHandler, Static("/assets", dir))

	assert.Equal(t, "ok", string(resp.Body))
}

func TestStaticBlocksTraversal(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "inside.txt", "inside")

	outside := filepath.Join(filepath.Dir(dir), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("outside"), 0o600))
	t.Cleanup(func() { os.Remove(outside) })

	assets := NewStaticAssets(dir)
	_, _, ok := assets.Lookup("../outside.txt")
	assert.False(t, ok)

	data, _, ok := assets.Lookup("inside.txt")
	assert.True(t, ok)
	assert.Equal(t, "inside", string(data))
}
