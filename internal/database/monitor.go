package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/employer-api/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// PoolHealth is one connectivity check plus a snapshot of pool usage.
type PoolHealth struct {
	Healthy      bool          `json:"-"`
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"-"`
	Error        string        `json:"error,omitempty"`
	Acquired     int32         `json:"acquired_conns"`
	Idle         int32         `json:"idle_conns"`
	Total        int32         `json:"total_conns"`
	Max          int32         `json:"max_conns"`
}

// CheckPool pings the database through pool and reads its statistics.
func CheckPool(ctx context.Context, pool *Pool) PoolHealth {
	start := time.Now()
	err := pool.Ping(ctx)

	health := PoolHealth{
		Healthy:      err == nil,
		Status:       "healthy",
		ResponseTime: time.Since(start),
		Max:          pool.MaxConns(),
	}
	if err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
	}
	if stat := pool.Stat(); stat != nil {
		health.Acquired = stat.AcquiredConns()
		health.Idle = stat.IdleConns()
		health.Total = stat.TotalConns()
	}
	return health
}

// Monitor periodically checks the pool and logs its state.
type Monitor struct {
	pool    *Pool
	log     *zerolog.Logger
	cron    *cron.Cron
	timeout time.Duration
}

// NewMonitor schedules a pool check every cfg.Interval. It does not start
// the schedule; see Start.
func NewMonitor(pool *Pool, logger *zerolog.Logger, cfg config.HealthChecksConfig) (*Monitor, error) {
	m := &Monitor{
		pool:    pool,
		log:     logger,
		cron:    cron.New(),
		timeout: cfg.Timeout,
	}

	if _, err := m.cron.AddFunc(fmt.Sprintf("@every %s", cfg.Interval), m.check); err != nil {
		return nil, fmt.Errorf("failed to schedule pool health check: %w", err)
	}
	return m, nil
}

// Start runs the schedule in its own goroutine.
func (m *Monitor) Start() {
	m.log.Info().Msg("starting database pool monitor")
	m.cron.Start()
}

// Stop stops the schedule and waits for a running check to finish.
func (m *Monitor) Stop() {
	m.log.Info().Msg("stopping database pool monitor")
	<-m.cron.Stop().Done()
}

func (m *Monitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	health := CheckPool(ctx, m.pool)

	event := m.log.Debug()
	if !health.Healthy {
		event = m.log.Error().Str("error", health.Error)
	}
	event.
		Dur("response_time", health.ResponseTime).
		Int32("acquired_conns", health.Acquired).
		Int32("idle_conns", health.Idle).
		Int32("total_conns", health.Total).
		Int32("max_conns", health.Max).
		Msg("database pool health check")
}
