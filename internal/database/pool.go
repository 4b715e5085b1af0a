package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/deppfellow/employer-api/internal/config"
	loggerConfig "github.com/deppfellow/employer-api/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DatabasePingTimeout is the number of seconds Initialize waits for the
// first ping before declaring the database unreachable.
const DatabasePingTimeout = 10

// Handle is a borrowed connection, scoped to one operation.
// *pgxpool.Conn satisfies it.
type Handle interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// ConnPool is the borrow/return contract the Helper runs on.
type ConnPool interface {
	Acquire(ctx context.Context) (Handle, error)
	Release(h Handle)
}

// Pool is the connection pool manager: a bounded pgxpool built lazily on
// first use and closed explicitly by its owner.
//
// Acquire blocks while all MaxConns connections are borrowed. The pool is
// built and pinged outside mu; concurrent first uses share one build.
type Pool struct {
	config      *pgxpool.Config
	log         *zerolog.Logger
	pingTimeout time.Duration
	builds      singleflight.Group

	mu     sync.Mutex
	pool   *pgxpool.Pool
	closed bool
}

// BuildDSN renders a postgres:// URL for db. The password is escaped and
// IPv6 hosts are bracketed.
func BuildDSN(db config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(db.Host, strconv.Itoa(db.Port))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     hostPort,
		Path:     "/" + db.Name,
		RawQuery: url.Values{"sslmode": []string{db.SSLMode}}.Encode(),
	}
	return u.String()
}

// NewPool parses the pool configuration for the selected database. It does
// not dial; see Initialize.
//
// Query tracing:
//   - New Relic (nrpgx5) when the agent runs
//   - pgx tracelog through zerolog in the "local" environment
//   - both, chained, when both apply
func NewPool(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildDSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	if cfg.Database.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	}
	if cfg.Database.ConnMaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second
	}

	var tracers []pgx.QueryTracer
	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}
	switch len(tracers) {
	case 0:
	case 1:
		poolConfig.ConnConfig.Tracer = tracers[0]
	default:
		poolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	return &Pool{
		config:      poolConfig,
		log:         logger,
		pingTimeout: DatabasePingTimeout * time.Second,
	}, nil
}

// Initialize builds the pool and pings the database. When the database is
// unreachable the failure is logged and returned (wrapping
// ErrPoolUnavailable) and the pool stays unbuilt, so a later Acquire
// retries. Calling it on a built pool is a no-op.
func (p *Pool) Initialize(ctx context.Context) error {
	_, err := p.get(ctx)
	return err
}

// current returns the built pool, nil if there is none yet.
func (p *Pool) current() (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}
	return p.pool, nil
}

// get returns the live pool, building it if needed. Waiting callers give
// up when ctx ends; the shared build runs on under its own ping timeout.
func (p *Pool) get(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := p.current()
	if err != nil || pool != nil {
		return pool, err
	}

	result := p.builds.DoChan("build", func() (any, error) {
		return p.build()
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrPoolUnavailable, ctx.Err())
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*pgxpool.Pool), nil
	}
}

// build creates and pings a pgxpool and publishes it. It never holds mu
// across I/O.
func (p *Pool) build() (*pgxpool.Pool, error) {
	if pool, err := p.current(); err != nil || pool != nil {
		return pool, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.pingTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, p.config)
	if err != nil {
		p.log.Error().Err(err).Msg("failed to create connection pool")
		return nil, fmt.Errorf("%w: %w", ErrPoolUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		p.log.Error().Err(err).
			Str("host", p.config.ConnConfig.Host).
			Str("database", p.config.ConnConfig.Database).
			Msg("database unreachable, connection pool not created")
		return nil, fmt.Errorf("%w: %w", ErrPoolUnavailable, err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		pool.Close()
		return nil, ErrPoolClosed
	}
	p.pool = pool
	p.mu.Unlock()

	p.log.Info().
		Int32("min_conns", p.config.MinConns).
		Int32("max_conns", p.config.MaxConns).
		Msg("connection pool created")

	return pool, nil
}

// Acquire borrows one connection. It fails with ErrPoolClosed after
// Shutdown and with ErrPoolUnavailable when the pool cannot be built or
// ctx ends while waiting for a free connection.
func (p *Pool) Acquire(ctx context.Context) (Handle, error) {
	pool, err := p.get(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, p.acquireError(err)
	}
	return conn, nil
}

// acquireError classifies a pgxpool acquire failure. A Shutdown racing
// the acquire reports ErrPoolClosed.
func (p *Pool) acquireError(err error) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return fmt.Errorf("%w: %w", ErrPoolClosed, err)
	}
	p.log.Error().Err(err).Msg("failed to acquire connection from pool")
	return fmt.Errorf("%w: %w", ErrPoolUnavailable, err)
}

// Release returns a borrowed connection. Handles the pool did not hand out
// are logged and ignored.
func (p *Pool) Release(h Handle) {
	conn, ok := h.(*pgxpool.Conn)
	if !ok || conn == nil {
		p.log.Warn().
			Str("handle_type", fmt.Sprintf("%T", h)).
			Msg("ignoring release of a handle not owned by the pool")
		return
	}
	conn.Release()
}

// Ping checks connectivity, building the pool if needed.
func (p *Pool) Ping(ctx context.Context) error {
	pool, err := p.get(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

// Stat returns pool statistics, or nil while the pool is not built.
func (p *Pool) Stat() *pgxpool.Stat {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool == nil {
		return nil
	}
	return p.pool.Stat()
}

// MaxConns is the configured upper bound of borrowed connections.
func (p *Pool) MaxConns() int32 {
	return p.config.MaxConns
}

// Shutdown closes every pooled connection, waiting for borrowed ones to
// be released. Later Acquire calls fail with ErrPoolClosed. Safe to call
// more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	pool := p.pool
	p.pool = nil
	p.mu.Unlock()

	if pool != nil {
		pool.Close()
	}
	p.log.Info().Msg("connection pool closed")
}
