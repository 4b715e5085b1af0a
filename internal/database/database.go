// Package database owns the PostgreSQL side of the service.
//
// It contains:
//   - Pool: the connection pool manager (lazy pgxpool lifecycle)
//   - Helper: the generic CRUD helper that runs one parameterized
//     statement per call on a borrowed connection
//   - Monitor: a cron-driven pool health check
//   - a Prometheus collector for pool statistics
package database

import (
	"context"

	"github.com/deppfellow/employer-api/internal/config"
	loggerConfig "github.com/deppfellow/employer-api/internal/logger"
	"github.com/rs/zerolog"
)

// Database bundles the pool and the helper running on it, so the rest of
// the app passes one value around.
type Database struct {
	Pool   *Pool
	Helper *Helper
	log    *zerolog.Logger
}

// New builds the pool and helper and tries to initialize the pool.
//
// An unreachable database is logged, not returned: the pool is rebuilt on
// first use, and until then every operation reports ErrPoolUnavailable.
// Only an invalid configuration is an error here.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pool, err := NewPool(cfg, logger, loggerService)
	if err != nil {
		return nil, err
	}

	if err := pool.Initialize(ctx); err != nil {
		logger.Warn().Err(err).Msg("starting without a database connection, will retry on first use")
	} else {
		logger.Info().Msg("connected to the database")
	}

	return &Database{
		Pool:   pool,
		Helper: NewHelper(pool, logger, cfg.Observability.Logging.SlowQueryThreshold),
		log:    logger,
	}, nil
}

// Close closes the connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Shutdown()
	return nil
}
