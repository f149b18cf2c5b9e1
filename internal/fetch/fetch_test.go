package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddfmt/internal/model"
)

func TestFetchCachesWithETag(t *testing.T) {
	t.Parallel()

	body, err := model.EncodeExample(model.FormatYAML)
	require.NoError(t, err)

	var hits, notModified atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			notModified.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	ctx := context.Background()

	doc, err := f.Fetch(ctx, srv.URL+"/week")
	require.NoError(t, err)
	assert.False(t, doc.FromCache)
	assert.Equal(t, model.FormatYAML, doc.Format)
	assert.Equal(t, body, doc.Body)

	doc, err = f.Fetch(ctx, srv.URL+"/week")
	require.NoError(t, err)
	assert.True(t, doc.FromCache)
	assert.Equal(t, model.FormatYAML, doc.Format)
	assert.Equal(t, body, doc.Body)

	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, int32(1), notModified.Load())
}

func TestFetchFallsBackToCache(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	_, err := f.Fetch(context.Background(), srv.URL+"/info.json")
	require.NoError(t, err)

	fail.Store(true)
	doc, err := f.Fetch(context.Background(), srv.URL+"/info.json")
	require.NoError(t, err)
	assert.True(t, doc.FromCache)
	assert.Equal(t, "{}", string(doc.Body))

	_, err = NewFetcher(t.TempDir()).Fetch(context.Background(), srv.URL+"/info.json")
	assert.ErrorContains(t, err, "503")
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url, contentType string
		want             model.Format
	}{
		{"https://example.com/info.toml", "", model.FormatTOML},
		{"https://example.com/info.yml?token=x", "application/json", model.FormatYAML},
		{"https://example.com/week", "application/toml; charset=utf-8", model.FormatTOML},
		{"https://example.com/week", "text/yaml", model.FormatYAML},
		{"https://example.com/week", "", model.FormatJSON},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatOf(tt.url, tt.contentType), tt.url)
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com/...(redacted)", redactURL("https://example.com/secret/info.json?token=abc"))
	assert.Equal(t, "(redacted)", redactURL("not a url"))
	assert.True(t, IsRemote("https://example.com/info.json"))
	assert.False(t, IsRemote("input/info.json"))
}
