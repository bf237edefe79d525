package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ClockIn()
	m.ClockIn()
	m.ClockOut()
	m.AttendanceTaskCreated()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.clockIns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clockOuts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksCreated))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/abc", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `records_http_request_duration_seconds_count{method="GET",route="/students/{id}",status="404"} 1`))
	assert.False(t, strings.Contains(body, "/students/abc"))
}
