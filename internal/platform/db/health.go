package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthStatus describes the database health check result.
type HealthStatus struct {
	Healthy   bool          `json:"healthy"`
	Latency   time.Duration `json:"latency_ns"`
	TotalConns int32        `json:"total_conns"`
	IdleConns  int32        `json:"idle_conns"`
	Error     string        `json:"error,omitempty"`
}

// CheckHealth pings the database and reports pool statistics.
func CheckHealth(ctx context.Context, pool *pgxpool.Pool) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := pool.Ping(ctx)
	latency := time.Since(start)

	stat := pool.Stat()
	status := HealthStatus{
		Healthy:    err == nil,
		Latency:    latency,
		TotalConns: stat.TotalConns(),
		IdleConns:  stat.IdleConns(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}
