package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRender(t *testing.T) {
	ok := testutil.ToFloat64(rendersTotal.WithLabelValues(ResultOK))
	failed := testutil.ToFloat64(rendersTotal.WithLabelValues(ResultError))

	at := time.Date(2023, time.July, 6, 11, 0, 0, 0, time.UTC)
	ObserveRender(nil, at)
	ObserveRender(errors.New("boom"), at.Add(time.Hour))

	assert.Equal(t, ok+1, testutil.ToFloat64(rendersTotal.WithLabelValues(ResultOK)))
	assert.Equal(t, failed+1, testutil.ToFloat64(rendersTotal.WithLabelValues(ResultError)))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(lastRender))
}

func TestIncFetchNormalizesLabel(t *testing.T) {
	before := testutil.ToFloat64(fetchesTotal.WithLabelValues("unknown"))
	IncFetch("bogus")
	assert.Equal(t, before+1, testutil.ToFloat64(fetchesTotal.WithLabelValues("unknown")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := httpRequestsTotal.WithLabelValues("/items/{id}", "418")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
