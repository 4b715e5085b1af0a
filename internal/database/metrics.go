package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "employer_api"
	metricsSubsystem = "db_pool"
)

// RegisterMetrics registers gauges and counters reading pool statistics at
// scrape time. Before the pool is built every value reads 0, except
// max_conns which is configuration.
func RegisterMetrics(reg prometheus.Registerer, pool *Pool) error {
	read := func(get func(*pgxpool.Stat) float64) func() float64 {
		return func() float64 {
			stat := pool.Stat()
			if stat == nil {
				return 0
			}
			return get(stat)
		}
	}
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		}
	}

	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts("acquired_conns", "Connections currently borrowed.")),
			read(func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts("idle_conns", "Idle connections in the pool.")),
			read(func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts("total_conns", "Open connections in the pool.")),
			read(func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts(opts("max_conns", "Configured maximum pool size.")),
			func() float64 { return float64(pool.MaxConns()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts(opts("acquires_total", "Successful connection acquisitions.")),
			read(func(s *pgxpool.Stat) float64 { return float64(s.AcquireCount()) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts(opts("empty_acquires_total", "Acquisitions that waited for a free connection.")),
			read(func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts(opts("canceled_acquires_total", "Acquisitions canceled before a connection was free.")),
			read(func(s *pgxpool.Stat) float64 { return float64(s.CanceledAcquireCount()) })),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
