// Package metrics holds the Prometheus collectors of the tool. They register
// on the default registry and are exposed by the preview server on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ddfmt_renders_total",
		Help: "Pipeline runs by result",
	}, []string{"result"})

	lastRender = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ddfmt_last_render_timestamp_seconds",
		Help: "Unix time of the last successful render",
	})

	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ddfmt_fetches_total",
		Help: "Remote input fetches by where the body came from",
	}, []string{"source"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ddfmt_http_requests_total",
		Help: "Preview server requests by route and status code",
	}, []string{"route", "code"})
)

// Result labels for ObserveRender.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Source labels for IncFetch.
const (
	SourceNetwork = "network"
	SourceCache   = "cache"
)

// ObserveRender records a pipeline run.
func ObserveRender(err error, at time.Time) {
	if err != nil {
		rendersTotal.WithLabelValues(ResultError).Inc()
		return
	}
	rendersTotal.WithLabelValues(ResultOK).Inc()
	lastRender.Set(float64(at.Unix()))
}

func IncFetch(source string) {
	if source != SourceNetwork && source != SourceCache {
		source = "unknown"
	}
	fetchesTotal.WithLabelValues(source).Inc()
}

// Middleware counts requests by chi route pattern, so label cardinality is
// bounded by the routes.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		httpRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
