package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborbuild/arbor"
	"github.com/arborbuild/arbor/tasks/fetch"
)

func rc() *arbor.RunContext {
	return &arbor.RunContext{Context: context.Background(), Log: arbor.NopLogger{}}
}

func TestFetchDownloadsIntoCacheLayout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	cacheRoot := t.TempDir()
	coord := fetch.Coordinate{Group: "com.example", Artifact: "widget", Version: "1.0", Filename: "widget-1.0.jar", URL: srv.URL}
	task := fetch.New("fetch-widget", coord)
	task.CacheRoot = cacheRoot

	require.NoError(t, task.Validate())
	require.NoError(t, task.Execute(rc()))

	want := filepath.Join(cacheRoot, "com", "example", "widget", "1.0", "widget-1.0.jar")
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestFetchSkipsWhenAlreadyCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	cacheRoot := t.TempDir()
	coord := fetch.Coordinate{Group: "com.example", Artifact: "widget", Version: "1.0", Filename: "widget.jar", URL: srv.URL}
	task := fetch.New("fetch-widget", coord)
	task.CacheRoot = cacheRoot

	require.NoError(t, task.Execute(rc()))
	require.NoError(t, task.Execute(rc()))
	assert.Equal(t, 1, calls)
}

func TestFetchValidateRequiresURLAndFilename(t *testing.T) {
	task := fetch.New("bad", fetch.Coordinate{})
	require.Error(t, task.Validate())
}

func TestRepositoryManifestParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repositories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
repositories:
  widget:
    group: com.example
    artifact: widget
    version: "1.0"
    filename: widget-1.0.jar
    url: https://example.invalid/widget-1.0.jar
`), 0o644))

	manifest, err := fetch.LoadRepositoryManifest(path)
	require.NoError(t, err)
	require.Contains(t, manifest.Repositories, "widget")
	assert.Equal(t, "com.example", manifest.Repositories["widget"].Group)
}
