package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	c := New()

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/memory/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest("GET", "/memory/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/memory/{id}", "404"))
	assert.Equal(t, 3.0, got)
	assert.Equal(t, 1, testutil.CollectAndCount(c.HTTPDuration))
}

func TestMiddlewareDefaultStatus(t *testing.T) {
	c := New()

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/events", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/events", "200")))
}

func TestObserveAI(t *testing.T) {
	c := New()
	c.ObserveAI("highlight", OutcomeFallback)
	c.ObserveAI("highlight", OutcomeFallback)
	c.ObserveAI("story", OutcomeSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.AIRequests.WithLabelValues("highlight", OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.AIRequests.WithLabelValues("story", OutcomeSuccess)))

	var nilCollector *Collector
	nilCollector.ObserveAI("story", OutcomeError)
}

func TestHandlerExposition(t *testing.T) {
	c := New()
	c.ObserveAI("person", OutcomeError)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `ai_requests_total{operation="person",outcome="error"} 1`), "exposition missing ai counter")
	assert.Contains(t, string(body), "go_goroutines")
}
