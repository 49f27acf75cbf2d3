package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "contoso_hotel/internal/adapters/http_server"
	"contoso_hotel/internal/adapters/observability"
)

func TestLogger_RouteLabelAndLevel(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(httpserver.Logger(zerolog.New(&buf)))
	r.Get("/v1/hotels/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/hotels/42", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	r.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "/v1/hotels/{id}", line["route"])
	assert.Equal(t, float64(500), line["status"])
	assert.Equal(t, float64(4), line["bytes"])
	assert.Equal(t, "10.1.2.3", line["remote"])
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	h := newServer(&stubRepo{deleted: true}, 0)
	matched := observability.HTTPRequests.WithLabelValues("/v1/bookings/{id}", http.MethodDelete, "204")
	unmatched := observability.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")
	beforeMatched, beforeUnmatched := testutil.ToFloat64(matched), testutil.ToFloat64(unmatched)

	do(t, h, http.MethodDelete, "/v1/bookings/5", "")
	do(t, h, http.MethodDelete, "/v1/bookings/6", "")
	do(t, h, http.MethodGet, "/nope/1", "")

	assert.Equal(t, beforeMatched+2, testutil.ToFloat64(matched))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
}

func TestServer_UnknownRouteAndMethod(t *testing.T) {
	h := newServer(&stubRepo{}, 0)

	rr := do(t, h, http.MethodGet, "/v2/hotels", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "no route for /v2/hotels", decodeProblem(t, rr).Detail)

	rr = do(t, h, http.MethodPut, "/v1/hotels", "")
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.StatusMethodNotAllowed, decodeProblem(t, rr).Status)
}
