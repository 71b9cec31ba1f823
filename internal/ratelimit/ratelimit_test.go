package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCost(t *testing.T) {
	cases := []struct {
		method, path string
		want         int64
	}{
		{http.MethodGet, "/health", 0},
		{http.MethodGet, "/metrics", 0},
		{http.MethodGet, "/inventory/in", 5},
		{http.MethodPost, "/billing/addbi", 20},
		{http.MethodGet, "/billing/receipt/3", 50},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Cost(httptest.NewRequest(tc.method, tc.path, nil)), tc.path)
	}
}

func TestMiddlewareRejectsWhenBucketEmpty(t *testing.T) {
	l := New(0.001, 40)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/billing/addbi", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, send("10.0.0.1:5000").Code)
	require.Equal(t, http.StatusNoContent, send("10.0.0.1:5001").Code)
	rec := send("10.0.0.1:5002")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.Contains(t, rec.Body.String(), "Rate limit exceeded")

	// Other clients have their own bucket.
	require.Equal(t, http.StatusNoContent, send("10.0.0.2:5000").Code)
}

func TestSweepDropsFullBuckets(t *testing.T) {
	l := New(1, 10)
	l.bucket("a")
	l.bucket("b").TakeAvailable(5)

	l.Sweep()
	require.Len(t, l.clients, 1)
	_, ok := l.clients["b"]
	require.True(t, ok)
}
