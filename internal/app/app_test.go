package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Address:        ":0",
			RequestTimeout: 5 * time.Second,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Attendance: config.AttendanceConfig{
			DailyTaskScore:    1,
			DailyTaskMaxScore: 1,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		},
	}
}

func TestNewWiresRoutes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	application, err := New(testConfig(), zerolog.Nop(), db)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is running", rec.Body.String())

	rec = httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "records_http_request_duration_seconds")

	require.NoError(t, application.Shutdown(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportWithoutStorageIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.Metrics.Enabled = false

	application, err := New(cfg, zerolog.Nop(), db)
	require.NoError(t, err)

	courseID := "0c9d8e7f-6a5b-4c3d-8e2f-1a0b9c8d7e6f"
	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/courses/"+courseID+"/attendance/export", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "SERVICE_UNAVAILABLE")

	rec = httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
