package database

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	poolConns = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bookapi_db_pool_connections",
		Help: "Connections in the PostgreSQL pool by state.",
	}, []string{"state"})

	poolAcquireWait = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookapi_db_pool_avg_acquire_seconds",
		Help: "Average time spent acquiring a pooled connection.",
	})
)

// Ping checks the database is reachable within 5 seconds.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases the pool. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	db.Pool.Close()
	db.Pool = nil
	log.Info().Msg("postgres connection pool closed")
	return nil
}

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	AcquireCount         int64
	AcquireDuration      time.Duration
	AcquiredConns        int32
	CanceledAcquireCount int64
	IdleConns            int32
	MaxConns             int32
	TotalConns           int32
}

func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquireCount:         raw.AcquireCount(),
		AcquireDuration:      raw.AcquireDuration(),
		AcquiredConns:        raw.AcquiredConns(),
		CanceledAcquireCount: raw.CanceledAcquireCount(),
		IdleConns:            raw.IdleConns(),
		MaxConns:             raw.MaxConns(),
		TotalConns:           raw.TotalConns(),
	}, nil
}

// AvgAcquireDuration is the mean time to acquire a connection.
func (s *PoolStats) AvgAcquireDuration() time.Duration {
	if s.AcquireCount == 0 {
		return 0
	}
	return s.AcquireDuration / time.Duration(s.AcquireCount)
}

// MonitorPoolHealth exports pool statistics every interval and warns on
// saturation. It returns when ctx is done.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				log.Warn().Err(err).Msg("pool stats unavailable")
				continue
			}
			recordPoolStats(stats)

		case <-ctx.Done():
			return
		}
	}
}

func recordPoolStats(stats *PoolStats) {
	poolConns.WithLabelValues("acquired").Set(float64(stats.AcquiredConns))
	poolConns.WithLabelValues("idle").Set(float64(stats.IdleConns))
	poolConns.WithLabelValues("total").Set(float64(stats.TotalConns))
	poolAcquireWait.Set(stats.AvgAcquireDuration().Seconds())

	if stats.MaxConns > 0 {
		utilization := float64(stats.AcquiredConns) / float64(stats.MaxConns) * 100
		if utilization > 80 {
			log.Warn().
				Float64("utilization_pct", utilization).
				Int32("acquired", stats.AcquiredConns).
				Int32("max", stats.MaxConns).
				Msg("high database pool utilization")
		}
	}
}
