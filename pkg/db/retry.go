package db

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

// ErrTxConflict signals that a guarded update or compare-and-set inside a
// transaction observed state written by a concurrent transaction. The
// enclosing WithRetryableTransaction re-runs the whole function so it can
// re-read and re-validate against the committed state.
var ErrTxConflict = errors.New("transaction conflict")

// Observer receives transaction outcome signals; pkg/metrics implements it.
type Observer interface {
	TxAttempt(op string)
	TxConflict(op string)
	TxDuration(op string, d time.Duration)
}

// SetObserver attaches a transaction observer. Safe to leave unset.
func (c *Client) SetObserver(obs Observer) {
	c.obs = obs
}

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// WithRetryableTransaction runs fn in a transaction and retries the whole
// transaction on conflict, with exponential backoff and jitter, up to the
// configured attempt bound. Retrying only the failing statement would break
// the read-then-write discipline, so the full function is always re-run.
// Exhausted retries surface as a CONFLICT error.
func (c *Client) WithRetryableTransaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	maxAttempts := c.tx.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 4
	}
	initial := c.tx.InitialBackoff
	if initial <= 0 {
		initial = 10 * time.Millisecond
	}

	backoff := retry.NewExponential(initial)
	if c.tx.BackoffJitter > 0 {
		backoff = retry.WithJitter(c.tx.BackoffJitter, backoff)
	}
	backoff = retry.WithMaxRetries(uint64(maxAttempts-1), backoff)

	start := time.Now()
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if c.obs != nil {
			c.obs.TxAttempt(op)
		}
		txErr := c.WithTx(ctx, fn)
		if txErr == nil {
			return nil
		}
		if IsConflict(txErr) {
			if c.obs != nil {
				c.obs.TxConflict(op)
			}
			return retry.RetryableError(txErr)
		}
		return txErr
	})
	if c.obs != nil {
		c.obs.TxDuration(op, time.Since(start))
	}
	if err == nil {
		return nil
	}
	if IsConflict(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "transaction aborted after retries: "+op)
	}
	return err
}

// IsConflict reports whether err is a concurrency conflict worth retrying:
// our own guarded-update sentinel, a duplicate key from racing inserts, or a
// Postgres serialization/deadlock abort.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTxConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgUniqueViolation:
			return true
		}
	}
	return false
}
