package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

// Check reports the health of one dependency.
type Check func(ctx context.Context) error

// Response is the body of GET /health.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheck is the health check handler.
type HealthCheck struct {
	checks  map[string]Check
	timeout time.Duration
}

// New creates a HealthCheck running the given named checks.
func New(checks map[string]Check) HealthCheck {
	return HealthCheck{checks: checks, timeout: 2 * time.Second}
}

// Handler is used to control the flow of GET /health endpoint
func (hc HealthCheck) Handler(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if IsHealthCheckRequest(r) {
			hc.ServeHTTP(w, r)

			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// ServeHTTP runs every check and answers 200 when all pass, 503 otherwise.
func (hc HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), hc.timeout)
	defer cancel()

	resp := Response{Status: "ok"}
	code := http.StatusOK

	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(names))
		}
		if err := hc.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/health"
}
