package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `{"results": [{"query": "q1"}, {"query": "q2", "taxon": {"reachedRank": "genus", "identifier": "bacillus", "percIdentity": 97.5, "bitScore": 300, "taxonomy": "g__bacillus", "consensusBeans": []}}]}`

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blutils.consensus.json")
	require.NoError(t, os.WriteFile(path, []byte(validDocument), 0o644))

	loaded, err := New(nil, 0).FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "blutils.consensus.json", loaded.Source)
	assert.Equal(t, SourceFile, loaded.Kind)
	assert.Len(t, loaded.Document.Results, 2)

	_, err = New(nil, 0).FromFile(filepath.Join(dir, "missing.json"))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "read", loadErr.Op)
}

func TestFromReader(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		limit  int64
		wantOp string
	}{
		{name: "Valid", body: validDocument},
		{name: "NotJSON", body: "results,query\nq1,", wantOp: "parse"},
		{name: "Empty", body: "", wantOp: "parse"},
		{name: "TooLarge", body: validDocument, limit: 10, wantOp: "read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, err := New(nil, tt.limit).FromReader("upload.json", strings.NewReader(tt.body))
			if tt.wantOp == "" {
				require.NoError(t, err)
				assert.Equal(t, SourceUpload, loaded.Kind)
				return
			}

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.wantOp, loadErr.Op)
			assert.Equal(t, "upload.json", loadErr.Source)
			assert.Contains(t, loadErr.Error(), "upload.json")
		})
	}
}

func TestFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.json":
			w.Write([]byte(validDocument))
		case "/broken.json":
			w.Write([]byte(`{"results": [`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := New(srv.Client(), 1<<20)

	loaded, err := l.FromURL(context.Background(), srv.URL+"/ok.json")
	require.NoError(t, err)
	assert.Equal(t, SourceURL, loaded.Kind)
	assert.Len(t, loaded.Document.Results, 2)

	_, err = l.FromURL(context.Background(), srv.URL+"/broken.json")
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "parse", loadErr.Op)

	_, err = l.FromURL(context.Background(), srv.URL+"/missing.json")
	assert.ErrorIs(t, err, ErrHTTPStatus)

	_, err = l.FromURL(context.Background(), "ftp://example.org/file.json")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestFromHistory(t *testing.T) {
	loaded, err := New(nil, 0).FromHistory("first.json", []byte(validDocument))
	require.NoError(t, err)
	assert.Equal(t, SourceHistory, loaded.Kind)
	assert.Equal(t, "first.json", loaded.Source)
	assert.Len(t, loaded.Document.Results, 2)
}

func TestValidURL(t *testing.T) {
	assert.True(t, ValidURL("https://raw.githubusercontent.com/a/b.json"))
	assert.True(t, ValidURL("http://localhost:8080/x"))
	assert.False(t, ValidURL("blutils.consensus.json"))
	assert.False(t, ValidURL("https://"))
	assert.False(t, ValidURL(""))
}

func TestGuard(t *testing.T) {
	var g Guard
	first := g.Begin()
	second := g.Begin()

	committed := ""
	assert.True(t, g.Commit(second, func() { committed = "second" }))
	assert.False(t, g.Commit(first, func() { committed = "first" }))
	assert.Equal(t, "second", committed)
	assert.Equal(t, second, g.Current())
}

func TestTooLargeMessage(t *testing.T) {
	_, err := New(nil, 2048).FromReader("big.json", strings.NewReader(strings.Repeat(" ", 4096)))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Contains(t, err.Error(), "2.0 KiB")
}
