package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// TxRunner executes a unit of work as one all-or-nothing transaction at
// serializable isolation. Concurrency correctness of check-then-write
// sequences inside the unit rests entirely on that isolation level, never on
// in-process locks: several service instances may share the same store.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error
}

type RetryStrategy struct {
	Attempts int
	Backoff  time.Duration
}

type PGTxRunner struct {
	pool     *pgxpool.Pool
	strategy RetryStrategy
	logger   zerolog.Logger

	// exec and txStatus default to the pgx-backed implementations; tests
	// substitute them to drive the retry loop and the idle check.
	exec     func(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error
	txStatus func(conn *pgxpool.Conn) byte
}

func NewTxRunner(pool *pgxpool.Pool, strategy RetryStrategy, logger zerolog.Logger) *PGTxRunner {
	if strategy.Attempts <= 0 {
		strategy.Attempts = 1
	}
	return &PGTxRunner{pool: pool, strategy: strategy, logger: logger}
}

// Run retries the unit on transient store conflicts (serialization failure,
// deadlock) with linear backoff. Business failures and dangling-transaction
// faults are returned immediately.
func (r *PGTxRunner) Run(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error {
	exec := r.exec
	if exec == nil {
		exec = r.runOnce
	}

	var lastErr error
	for attempt := 1; attempt <= r.strategy.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * r.strategy.Backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := exec(ctx, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrDanglingTransaction) || !IsTransient(err) {
			return err
		}

		r.logger.Warn().Err(err).Int("attempt", attempt).Msg("transient conflict, retrying unit")
		lastErr = err
	}
	return lastErr
}

func (r *PGTxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error {
	// A dedicated connection per unit, so the idle check below inspects the
	// same session the unit ran on.
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, &pgLedger{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			// A rollback that itself fails leaves the connection in an
			// unknown state; surface it instead of the business error.
			return r.checkIdle(conn, fmt.Errorf("rollback after %v: %w", err, rbErr))
		}
		return r.checkIdle(conn, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return r.checkIdle(conn, fmt.Errorf("commit transaction: %w", err))
	}
	return r.checkIdle(conn, nil)
}

// checkIdle enforces the transaction discipline invariant: after every unit,
// success or failure, the connection must hold no open transaction. A
// violation means a commit/rollback was missed on some exit path and
// overrides whatever the unit returned.
func (r *PGTxRunner) checkIdle(conn *pgxpool.Conn, opErr error) error {
	probe := r.txStatus
	if probe == nil {
		probe = pgTxStatus
	}
	status := probe(conn)
	if status != 'I' {
		r.logger.Error().Str("tx_status", string(status)).Msg("connection left inside a transaction")
		return fmt.Errorf("%w: tx status %q", domain.ErrDanglingTransaction, status)
	}
	return opErr
}

func pgTxStatus(conn *pgxpool.Conn) byte {
	return conn.Conn().PgConn().TxStatus()
}

// IsTransient reports whether the error is a store-reported conflict that a
// fresh attempt of the whole unit may resolve.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

var _ TxRunner = (*PGTxRunner)(nil)
