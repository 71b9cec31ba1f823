package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "json", "warn")
	require.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("hidden")
	require.Zero(t, buf.Len())
	log.Warn().Msg("shown")
	require.Contains(t, buf.String(), `"message":"shown"`)

	require.Equal(t, zerolog.InfoLevel, NewWithWriter(&buf, "json", "bogus").GetLevel())
}

func TestRequestLoggerUsesRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger{Logger: NewWithWriter(&buf, "json", "info")}.Middleware)
	r.Get("/billing/bi/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/billing/bi/7", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "/billing/bi/{id}", entry["route"])
	require.Equal(t, "/billing/bi/7", entry["path"])
	require.EqualValues(t, http.StatusTeapot, entry["status"])
	require.NotEmpty(t, entry["request_id"])
}
