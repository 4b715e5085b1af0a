package database

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/employer-api/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Helper runs generic CRUD statements against named tables.
//
// Every call borrows one connection, runs exactly one statement inside a
// transaction, commits on success, rolls back on failure and always
// returns the connection.
//
// Table and column names are interpolated verbatim into the SQL text; only
// values travel as bound parameters. Identifiers must therefore be trusted
// strings chosen by the caller (constants, configuration, operator CLI
// flags), never request input.
type Helper struct {
	pool      ConnPool
	log       *zerolog.Logger
	slowQuery time.Duration
}

// NewHelper returns a Helper borrowing from pool. Statements slower than
// slowQuery are logged at warn level; zero disables that.
func NewHelper(pool ConnPool, logger *zerolog.Logger, slowQuery time.Duration) *Helper {
	return &Helper{
		pool:      pool,
		log:       logger,
		slowQuery: slowQuery,
	}
}

// Insert inserts data into table and returns the value of idColumn for the
// new row.
func (h *Helper) Insert(ctx context.Context, table string, data Values, idColumn string) (any, error) {
	stmt, err := BuildInsert(table, data, idColumn)
	if err != nil {
		return nil, err
	}

	var id any
	err = h.run(ctx, "insert", table, stmt, pgx.ReadWrite, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt.SQL, stmt.Args...).Scan(&id)
	})
	if err != nil {
		return nil, err
	}
	return id, nil
}

// Update sets data on the rows of table matching condition and returns the
// number of rows affected. No match is 0, not an error.
func (h *Helper) Update(ctx context.Context, table string, data, condition Values) (int64, error) {
	stmt, err := BuildUpdate(table, data, condition)
	if err != nil {
		return 0, err
	}
	return h.exec(ctx, "update", table, stmt)
}

// Delete removes the rows of table matching condition and returns the
// number of rows affected.
func (h *Helper) Delete(ctx context.Context, table string, condition Values) (int64, error) {
	stmt, err := BuildDelete(table, condition)
	if err != nil {
		return 0, err
	}
	return h.exec(ctx, "delete", table, stmt)
}

// SelectAll returns every row of table matching condition. A nil condition
// scans the table; no columns selects "*".
func (h *Helper) SelectAll(ctx context.Context, table string, columns []string, condition Values) ([]Row, error) {
	stmt, err := BuildSelect(table, columns, condition, 0)
	if err != nil {
		return nil, err
	}

	var out []Row
	err = h.run(ctx, "select_all", table, stmt, pgx.ReadOnly, func(tx pgx.Tx) error {
		rows, err := collectRows(ctx, tx, stmt, 0)
		out = rows
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SelectOne returns the first row of table matching condition, or nil when
// nothing matches.
func (h *Helper) SelectOne(ctx context.Context, table string, columns []string, condition Values) (Row, error) {
	stmt, err := BuildSelect(table, columns, condition, 1)
	if err != nil {
		return nil, err
	}

	var out []Row
	err = h.run(ctx, "select_one", table, stmt, pgx.ReadOnly, func(tx pgx.Tx) error {
		rows, err := collectRows(ctx, tx, stmt, 1)
		out = rows
		return err
	})
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

// Truncate removes every row of table.
func (h *Helper) Truncate(ctx context.Context, table string) error {
	stmt, err := BuildTruncate(table)
	if err != nil {
		return err
	}

	_, err = h.exec(ctx, "truncate", table, stmt)
	if err == nil {
		h.log.Info().Str("table", table).Msg("table truncated")
	}
	return err
}

func (h *Helper) exec(ctx context.Context, op, table string, stmt Statement) (int64, error) {
	var affected int64
	err := h.run(ctx, op, table, stmt, pgx.ReadWrite, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// collectRows reads up to limit rows (all when limit <= 0).
func collectRows(ctx context.Context, tx pgx.Tx, stmt Statement, limit int) ([]Row, error) {
	rows, err := tx.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		out = append(out, Row(values))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, rows.Err()
}

// run is the borrow / begin / execute / commit-or-rollback / release
// cycle shared by every operation.
func (h *Helper) run(ctx context.Context, op, table string, stmt Statement, mode pgx.TxAccessMode, fn func(tx pgx.Tx) error) error {
	handle, err := h.pool.Acquire(ctx)
	if err != nil {
		h.log.Error().Err(err).
			Str("op", op).
			Str("table", table).
			Msg("no database connection available")
		return err
	}
	defer h.pool.Release(handle)

	start := time.Now()

	tx, err := handle.BeginTx(ctx, pgx.TxOptions{AccessMode: mode})
	if err != nil {
		return h.fail(op, table, stmt, err)
	}

	if err := fn(tx); err != nil {
		// Rollback must reach the server even when ctx is what failed.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			h.log.Warn().Err(rbErr).Str("op", op).Str("table", table).Msg("rollback failed")
		}
		return h.fail(op, table, stmt, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return h.fail(op, table, stmt, err)
	}

	elapsed := time.Since(start)
	event := h.log.Debug()
	if h.slowQuery > 0 && elapsed >= h.slowQuery {
		event = h.log.Warn().Bool("slow", true)
	}
	event.
		Str("op", op).
		Str("table", table).
		Str("sql", stmt.SQL).
		Dur("duration", elapsed).
		Msg("statement executed")

	return nil
}

func (h *Helper) fail(op, table string, stmt Statement, err error) error {
	h.log.Error().Err(err).
		Fields(sqlerr.Fields(err)).
		Str("op", op).
		Str("table", table).
		Str("sql", stmt.SQL).
		Msg("statement failed, transaction rolled back")

	return &StatementError{Op: op, Table: table, Err: err}
}
