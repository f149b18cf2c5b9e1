// Package fetch downloads schedule documents published over HTTP, honoring
// ETag / Last-Modified and keeping a disk copy to fall back on.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	appLog "ddfmt/internal/log"
	"ddfmt/internal/metrics"
	"ddfmt/internal/model"
)

// maxBody caps the size of a downloaded document.
const maxBody = 1 << 20

// Document is a fetched schedule document.
type Document struct {
	URL       string
	Body      []byte
	Format    model.Format
	FromCache bool // body reused after a 304 or a failed request
}

// cacheEntry holds HTTP cache metadata for a single URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	ContentType  string    `json:"content_type,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher fetches remote documents with a disk-backed cache under cacheDir.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// IsRemote reports whether src names an http(s) URL rather than a file.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// NewFetcher creates a Fetcher. An empty cacheDir falls back to ./cache.
func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		cacheDir = "./cache"
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		cacheDir: cacheDir,
	}
}

// Fetch downloads rawURL. On a network error or non-OK status the cached body
// is returned if one exists.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Document, error) {
	if rawURL == "" {
		return Document{}, errors.New("fetch: url is empty")
	}

	cachePath := f.cachePathForURL(rawURL)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return Document{}, fmt.Errorf("fetch: %w", err)
	}
	meta, _ := loadCacheMeta(cachePath)
	cachedBody, _ := os.ReadFile(filepath.Join(cachePath, "body"))

	cached := func() Document {
		metrics.IncFetch(metrics.SourceCache)
		return Document{URL: rawURL, Body: cachedBody, Format: formatOf(rawURL, meta.ContentType), FromCache: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Document{}, fmt.Errorf("fetch: %w", err)
	}
	if len(cachedBody) > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	appLog.Debug("fetch start", "url", redactURL(rawURL))

	resp, err := f.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			appLog.Error("fetch failed, using cached body", err, "url", redactURL(rawURL))
			return cached(), nil
		}
		return Document{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
		if err != nil {
			return Document{}, fmt.Errorf("fetch: read body: %w", err)
		}
		if len(body) > maxBody {
			return Document{}, fmt.Errorf("fetch: document larger than %d bytes", maxBody)
		}

		newMeta := cacheEntry{
			URL:          rawURL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			ContentType:  resp.Header.Get("Content-Type"),
		}
		if err := saveCache(cachePath, newMeta, body); err != nil {
			appLog.Error("fetch cache save failed", err, "url", redactURL(rawURL))
		}
		appLog.Info("fetched input", "url", redactURL(rawURL), "bytes", len(body))
		metrics.IncFetch(metrics.SourceNetwork)
		return Document{URL: rawURL, Body: body, Format: formatOf(rawURL, newMeta.ContentType)}, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return Document{}, errors.New("fetch: 304 Not Modified but no cached body")
		}
		appLog.Debug("input not modified; using cache", "url", redactURL(rawURL))
		return cached(), nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("fetch non-OK, using cached body", errors.New(resp.Status), "url", redactURL(rawURL))
			return cached(), nil
		}
		return Document{}, fmt.Errorf("fetch: %s", resp.Status)
	}
}

// formatOf picks the decoder from the URL path extension, then the
// Content-Type, defaulting to JSON.
func formatOf(rawURL, contentType string) model.Format {
	if u, err := url.Parse(rawURL); err == nil {
		switch strings.ToLower(filepath.Ext(u.Path)) {
		case ".json", ".yaml", ".yml", ".toml":
			return model.FormatFromPath(u.Path)
		}
	}
	mt, _, _ := mime.ParseMediaType(contentType)
	switch {
	case strings.Contains(mt, "yaml"):
		return model.FormatYAML
	case strings.Contains(mt, "toml"):
		return model.FormatTOML
	default:
		return model.FormatJSON
	}
}

func (f *Fetcher) cachePathForURL(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Body first so meta never points at a missing body.
	if err := renameio.WriteFile(filepath.Join(cachePath, "body"), body, 0o600); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// redactURL drops path and query, which may carry tokens.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
