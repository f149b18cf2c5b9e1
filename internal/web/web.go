// Package web serves a read-only preview of the current week: the rendered
// post, the decoded document, the calendar export and upcoming windows.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"ddfmt/internal/calendar"
	"ddfmt/internal/config"
	"ddfmt/internal/fetch"
	appLog "ddfmt/internal/log"
	"ddfmt/internal/metrics"
	"ddfmt/internal/model"
	"ddfmt/internal/pipeline"
	"ddfmt/internal/report"
)

const (
	// snapshotTTL bounds how long a decoded input is reused between requests.
	snapshotTTL = 30 * time.Second

	// loadTimeout bounds a shared input load, which outlives the request
	// that started it.
	loadTimeout = 20 * time.Second

	// Per-IP request budget for everything but /health and /metrics.
	rateLimitRequests = 120
	rateLimitWindow   = time.Minute
)

// Server provides the preview HTTP endpoints.
type Server struct {
	opts   pipeline.Options
	auth   *config.BasicAuth
	router chi.Router

	loads  singleflight.Group
	snapMu sync.RWMutex
	snap   *snapshot
}

type snapshot struct {
	info      model.DeepDivesInfo
	post      string
	updatedAt time.Time
}

type windowDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewServer constructs a Server. auth may be nil.
func NewServer(opts pipeline.Options, auth *config.BasicAuth) *Server {
	s := &Server{
		opts:   opts,
		auth:   auth,
		router: chi.NewRouter(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler, wrapped with basic auth when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled")
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(rateLimitRequests, rateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			}),
		))
		r.Get("/", s.handlePost)
		r.Get("/post.md", s.handlePost)
		r.Get("/api/info", s.handleInfo)
		r.Get("/api/windows", s.handleWindows)
		r.Get("/calendar.ics", s.handleCalendar)
	})
}

func (s *Server) basicAuthEnabled() bool {
	return s.auth != nil && s.auth.Username != "" && s.auth.Password != ""
}

// basicAuthMiddleware guards everything except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.auth.Username
	password := s.auth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="ddfmt", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(snap.post))
}

// handleInfo returns the input in canonical JSON form.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.load(w, r)
	if !ok {
		return
	}
	body, err := model.Encode(snap.info)
	if err != nil {
		appLog.Error("encode info failed", err)
		writeError(w, http.StatusInternalServerError, "failed to encode document")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.load(w, r)
	if !ok {
		return
	}
	body, err := calendar.Export(snap.info, calendar.ExportOptions{Stamp: snap.updatedAt})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = w.Write(body)
}

// GET /api/windows?count=4
func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	if s.opts.Reset == nil {
		writeError(w, http.StatusNotFound, "no reset schedule configured")
		return
	}
	count := parseIntDefault(r.URL.Query().Get("count"), 4)
	if count <= 0 || count > 52 {
		writeError(w, http.StatusBadRequest, "count must be between 1 and 52")
		return
	}

	windows := s.opts.Reset.Upcoming(s.now(), count)
	dtos := make([]windowDTO, 0, len(windows))
	for _, win := range windows {
		dtos = append(dtos, windowDTO{Start: win.Start, End: win.End})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// load returns the cached snapshot or decodes the input again. On failure
// it writes the error response and reports false.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*snapshot, bool) {
	now := s.now()

	s.snapMu.RLock()
	snap := s.snap
	s.snapMu.RUnlock()
	if snap != nil && now.Sub(snap.updatedAt) < snapshotTTL {
		return snap, true
	}

	// Concurrent misses share one load, so it must not be tied to the
	// request of whoever started it.
	v, err, _ := s.loads.Do("input", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), loadTimeout)
		defer cancel()
		info, err := pipeline.LoadInput(ctx, s.opts)
		if err != nil {
			return nil, err
		}
		snap := &snapshot{info: info, post: report.Render(info), updatedAt: now}
		s.snapMu.Lock()
		s.snap = snap
		s.snapMu.Unlock()
		return snap, nil
	})
	if err != nil {
		appLog.Error("preview: load input failed", err, "input", s.opts.Input)
		var schemaErr *model.SchemaError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			writeError(w, http.StatusNotFound, "input not found")
		case errors.As(err, &schemaErr):
			writeError(w, http.StatusUnprocessableEntity, schemaErr.Error())
		case fetch.IsRemote(s.opts.Input):
			writeError(w, http.StatusBadGateway, "failed to fetch input")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load input")
		}
		return nil, false
	}
	return v.(*snapshot), true
}

func (s *Server) now() time.Time {
	if s.opts.Now != nil {
		return s.opts.Now()
	}
	return time.Now()
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
