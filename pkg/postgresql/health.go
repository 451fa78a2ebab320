package postgresql

import (
	"context"
	"fmt"
	"time"
)

// HealthCheck represents database health information
type HealthCheck struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	ActiveConns  int32         `json:"active_connections"`
	IdleConns    int32         `json:"idle_connections"`
	MaxConns     int32         `json:"max_connections"`
	Error        string        `json:"error,omitempty"`
}

// CheckHealth pings the pool and reports pool statistics.
func CheckHealth(ctx context.Context, db PostgreSQLClient) *HealthCheck {
	start := time.Now()
	health := &HealthCheck{}

	if stats := db.Stats(); stats != nil {
		health.ActiveConns = stats.AcquiredConns()
		health.IdleConns = stats.IdleConns()
		health.MaxConns = stats.MaxConns()
	}

	if err := db.Ping(ctx); err != nil {
		health.Status = "unhealthy"
		health.Error = fmt.Sprintf("ping failed: %v", err)
		health.ResponseTime = time.Since(start)
		return health
	}

	health.Status = "healthy"
	health.ResponseTime = time.Since(start)

	return health
}

// Ping adapts CheckHealth to a plain error for health endpoints.
func Ping(db PostgreSQLClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if health := CheckHealth(ctx, db); health.Status != "healthy" {
			return fmt.Errorf("postgresql %s: %s", health.Status, health.Error)
		}
		return nil
	}
}
