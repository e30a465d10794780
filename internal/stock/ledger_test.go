package stock

import (
	"context"
	"math"
	"testing"

	"github.com/adityawarsita/gudangpos-backend/pkg/config"
	"github.com/adityawarsita/gudangpos-backend/pkg/db"
	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	client := db.FromGorm(conn, config.TxConfig{MaxAttempts: 3, InitialBackoff: 1})
	svc, err := NewService(repo, client, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestGetTreatsMissingAsZero(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	record, err := svc.Get(context.Background(), "NOPE-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.SKU != "NOPE-01" || record.CurrentStockBase != 0 {
		t.Fatalf("missing record must read as zero, got %+v", record)
	}
}

func TestIncrementRejectsBadQuantities(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, delta := range []float64{-1, math.NaN(), math.Inf(1)} {
		err := svc.Increment(ctx, "SUGAR-01", delta)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("delta %v: expected validation error, got %v", delta, err)
		}
	}
	if err := svc.Increment(ctx, "", 1); pkgerrors.As(err) == nil {
		t.Fatalf("empty sku must fail validation, got %v", err)
	}
}

func TestRepackMovesStockUnderConversion(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	if err := repo.SetAbsolute(ctx, "SUGAR-SACK", 3); err != nil {
		t.Fatalf("seed sacks: %v", err)
	}
	if err := repo.SetAbsolute(ctx, "SUGAR-01", 120); err != nil {
		t.Fatalf("seed kg: %v", err)
	}

	result, err := svc.Repack(ctx, RepackInput{
		FromSKU:        "SUGAR-SACK",
		ToSKU:          "SUGAR-01",
		Units:          1,
		ConversionRate: 50,
	})
	if err != nil {
		t.Fatalf("repack: %v", err)
	}
	if result.FromStock != 2 {
		t.Fatalf("expected 2 sacks left, got %v", result.FromStock)
	}
	if result.ToStock != 170 {
		t.Fatalf("expected 170 kg, got %v", result.ToStock)
	}

	source, err := svc.Get(ctx, "SUGAR-SACK")
	if err != nil || source.CurrentStockBase != 2 {
		t.Fatalf("persisted sack stock wrong: %v %v", source, err)
	}
	target, err := svc.Get(ctx, "SUGAR-01")
	if err != nil || target.CurrentStockBase != 170 {
		t.Fatalf("persisted kg stock wrong: %v %v", target, err)
	}
}

func TestRepackCreatesTargetRecord(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	if err := repo.SetAbsolute(ctx, "FLOUR-SACK", 5); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := svc.Repack(ctx, RepackInput{
		FromSKU:        "FLOUR-SACK",
		ToSKU:          "FLOUR-01",
		Units:          2,
		ConversionRate: 25,
	})
	if err != nil {
		t.Fatalf("repack: %v", err)
	}
	if result.ToStock != 50 {
		t.Fatalf("absent target starts from zero, expected 50, got %v", result.ToStock)
	}
}

func TestRepackInsufficientLeavesBothUntouched(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	if err := repo.SetAbsolute(ctx, "SUGAR-SACK", 3); err != nil {
		t.Fatalf("seed sacks: %v", err)
	}
	if err := repo.SetAbsolute(ctx, "SUGAR-01", 120); err != nil {
		t.Fatalf("seed kg: %v", err)
	}

	_, err := svc.Repack(ctx, RepackInput{
		FromSKU:        "SUGAR-SACK",
		ToSKU:          "SUGAR-01",
		Units:          4,
		ConversionRate: 50,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}
	details, ok := typed.Details().(pkgerrors.InsufficientStockDetails)
	if !ok || details.SKU != "SUGAR-SACK" || details.Requested != 4 || details.Available != 3 {
		t.Fatalf("details wrong: %+v", typed.Details())
	}

	source, _ := svc.Get(ctx, "SUGAR-SACK")
	target, _ := svc.Get(ctx, "SUGAR-01")
	if source.CurrentStockBase != 3 || target.CurrentStockBase != 120 {
		t.Fatalf("failed repack must not move stock: %v / %v",
			source.CurrentStockBase, target.CurrentStockBase)
	}
}

func TestRepackMissingSourceIsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Repack(context.Background(), RepackInput{
		FromSKU:        "GHOST-SACK",
		ToSKU:          "GHOST-01",
		Units:          1,
		ConversionRate: 10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRepackValidatesInput(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []RepackInput{
		{FromSKU: "", ToSKU: "B", Units: 1, ConversionRate: 1},
		{FromSKU: "A", ToSKU: "A", Units: 1, ConversionRate: 1},
		{FromSKU: "A", ToSKU: "B", Units: 0, ConversionRate: 1},
		{FromSKU: "A", ToSKU: "B", Units: -2, ConversionRate: 1},
		{FromSKU: "A", ToSKU: "B", Units: 1, ConversionRate: 0},
		{FromSKU: "A", ToSKU: "B", Units: 1, ConversionRate: math.NaN()},
	}
	for _, input := range cases {
		_, err := svc.Repack(ctx, input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("input %+v: expected validation error, got %v", input, err)
		}
	}
}
