package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListArticles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-post.md"), []byte("# B"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-post.md"), []byte("# A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	s := NewServer(dir, t.TempDir(), "", filepath.Join(dir, "meta.json"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Accept-Encoding", "identity")
	s.engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Articles []string `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, []string{"a-post.md", "b-post.md"}, payload.Articles)
}

func TestMetadataFallsBackToEmptyArray(t *testing.T) {
	s := NewServer(t.TempDir(), t.TempDir(), "", filepath.Join(t.TempDir(), "missing.json"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metadata", nil)
	req.Header.Set("Accept-Encoding", "identity")
	s.engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", rec.Body.String())
}
