package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/inventory/deletein/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/inventory/deletein/{id}", "404"))
	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/inventory/deletein/"+id, nil))
	}
	after := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/inventory/deletein/{id}", "404"))
	require.Equal(t, before+2, after)
	require.Zero(t, testutil.ToFloat64(HTTPRequestInFlight))
}
