package healthcheck_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muhammadchandra19/exchange/pkg/httplib/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Handler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	testCases := []struct {
		name     string
		checks   map[string]healthcheck.Check
		path     string
		assertFn func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "all checks pass",
			checks: map[string]healthcheck.Check{
				"redis": func(context.Context) error { return nil },
			},
			path: "/health",
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)

				var resp healthcheck.Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "ok", resp.Status)
				assert.Equal(t, "ok", resp.Checks["redis"])
			},
		},
		{
			name: "failing check",
			checks: map[string]healthcheck.Check{
				"redis":      func(context.Context) error { return nil },
				"postgresql": func(context.Context) error { return errors.New("down") },
			},
			path: "/health",
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

				var resp healthcheck.Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "unavailable", resp.Status)
				assert.Equal(t, "down", resp.Checks["postgresql"])
			},
		},
		{
			name: "other paths fall through",
			path: "/prices",
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusTeapot, rec.Code)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			healthcheck.New(tc.checks).Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			tc.assertFn(t, rec)
		})
	}
}
