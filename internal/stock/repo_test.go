package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/adityawarsita/gudangpos-backend/pkg/db"
	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:stock_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.StockRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func stockOf(t *testing.T, conn *gorm.DB, sku string) float64 {
	t.Helper()
	var record models.StockRecord
	if err := conn.First(&record, "sku = ?", sku).Error; err != nil {
		t.Fatalf("read stock %s: %v", sku, err)
	}
	return record.CurrentStockBase
}

func TestIncrementCreatesThenAccumulates(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	if err := repo.Increment(ctx, "SUGAR-01", 120); err != nil {
		t.Fatalf("first increment: %v", err)
	}
	if err := repo.Increment(ctx, "SUGAR-01", 30.5); err != nil {
		t.Fatalf("second increment: %v", err)
	}
	if got := stockOf(t, conn, "SUGAR-01"); got != 150.5 {
		t.Fatalf("expected 150.5, got %v", got)
	}
}

func TestDeductGuardsAgainstOverdraw(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	if err := repo.SetAbsolute(ctx, "RICE-01", 10); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.Deduct(ctx, "RICE-01", 4); err != nil {
		t.Fatalf("deduct within stock: %v", err)
	}
	if got := stockOf(t, conn, "RICE-01"); got != 6 {
		t.Fatalf("expected 6, got %v", got)
	}

	err := repo.Deduct(ctx, "RICE-01", 7)
	if !errors.Is(err, db.ErrTxConflict) {
		t.Fatalf("overdraw must surface the conflict sentinel, got %v", err)
	}
	if got := stockOf(t, conn, "RICE-01"); got != 6 {
		t.Fatalf("failed deduct must not change stock, got %v", got)
	}

	err = repo.Deduct(ctx, "GHOST-01", 1)
	if !errors.Is(err, db.ErrTxConflict) {
		t.Fatalf("missing record must surface the conflict sentinel, got %v", err)
	}
}

func TestSetAbsoluteIsIdempotent(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.SetAbsolute(ctx, "EGG-01", 48); err != nil {
			t.Fatalf("set #%d: %v", i, err)
		}
	}
	if got := stockOf(t, conn, "EGG-01"); got != 48 {
		t.Fatalf("expected 48, got %v", got)
	}

	if err := repo.SetAbsolute(ctx, "EGG-01", 12); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got := stockOf(t, conn, "EGG-01"); got != 12 {
		t.Fatalf("expected 12, got %v", got)
	}
}

func TestDeleteAndRename(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	if err := repo.SetAbsolute(ctx, "OIL-01", 20); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := repo.Rename(ctx, "OIL-01", "OIL-1L"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := repo.Get(ctx, "OIL-01"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("old sku must be gone, got %v", err)
	}
	if got := stockOf(t, conn, "OIL-1L"); got != 20 {
		t.Fatalf("stock must follow the rename, got %v", got)
	}

	if err := repo.Delete(ctx, "OIL-1L"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "OIL-1L"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("deleted sku must be gone, got %v", err)
	}
}
