package db

import (
	"context"
	"errors"
	"testing"

	"github.com/adityawarsita/gudangpos-backend/pkg/config"
	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dsn := "file:retry_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return FromGorm(conn, config.TxConfig{MaxAttempts: 3, InitialBackoff: 1})
}

func TestWithRetryableTransactionRetriesConflicts(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	attempts := 0
	err := client.WithRetryableTransaction(context.Background(), "test", func(tx *gorm.DB) error {
		attempts++
		if attempts < 3 {
			return ErrTxConflict
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetryableTransactionExhaustsToConflictError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	attempts := 0
	err := client.WithRetryableTransaction(context.Background(), "test", func(tx *gorm.DB) error {
		attempts++
		return ErrTxConflict
	})
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT after exhaustion, got %v", err)
	}
}

func TestWithRetryableTransactionStopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	fatal := errors.New("validation problem")
	attempts := 0
	err := client.WithRetryableTransaction(context.Background(), "test", func(tx *gorm.DB) error {
		attempts++
		return fatal
	})
	if attempts != 1 {
		t.Fatalf("non-retryable errors must not be retried, got %d attempts", attempts)
	}
	if !errors.Is(err, fatal) {
		t.Fatalf("expected original error, got %v", err)
	}
}

func TestIsConflict(t *testing.T) {
	t.Parallel()

	if !IsConflict(ErrTxConflict) {
		t.Fatal("sentinel must classify as conflict")
	}
	if !IsConflict(gorm.ErrDuplicatedKey) {
		t.Fatal("duplicate key must classify as conflict")
	}
	if !IsConflict(&pgconn.PgError{Code: "40001"}) {
		t.Fatal("serialization failure must classify as conflict")
	}
	if IsConflict(errors.New("boom")) {
		t.Fatal("arbitrary errors are not conflicts")
	}
	if IsConflict(nil) {
		t.Fatal("nil is not a conflict")
	}
}
