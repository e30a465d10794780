// Package sequence allocates the gapless daily counters behind
// human-readable document IDs. Allocation always happens inside the
// caller's transaction: the counter write commits or aborts together with
// the document it names, which is what keeps the sequence gapless.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adityawarsita/gudangpos-backend/pkg/db"
	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"github.com/adityawarsita/gudangpos-backend/pkg/enums"
	"gorm.io/gorm"
)

const purchasePrefix = "PUR-"

// Allocator hands out the next daily sequence number per document type.
type Allocator struct {
	now func() time.Time
}

// NewAllocator builds an allocator on the real clock.
func NewAllocator() *Allocator {
	return &Allocator{now: time.Now}
}

// NewAllocatorAt builds an allocator on a fixed clock; used by tests.
func NewAllocatorAt(now func() time.Time) *Allocator {
	return &Allocator{now: now}
}

// Allocate reserves the next sequence number for the document type and
// returns the composed ID. The counter row is point-read by its composed
// key and advanced with a compare-and-set: losing a race surfaces
// db.ErrTxConflict so the caller's retry wrapper re-runs the whole
// transaction, never just this step.
func (a *Allocator) Allocate(ctx context.Context, tx *gorm.DB, docType enums.DocumentType) (string, error) {
	if !docType.IsValid() {
		return "", fmt.Errorf("invalid document type %q", docType)
	}

	date := a.now().Format("2006-01-02")
	key := fmt.Sprintf("%s_%s", docType, date)

	var counter models.Counter
	err := tx.WithContext(ctx).First(&counter, "id = ?", key).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First document of the day. A racing insert hits the primary
		// key and classifies as a retryable conflict.
		if err := tx.WithContext(ctx).Create(&models.Counter{ID: key, Count: 1}).Error; err != nil {
			return "", err
		}
		return composeID(docType, date, 1), nil
	case err != nil:
		return "", err
	}

	next := counter.Count + 1
	res := tx.WithContext(ctx).
		Model(&models.Counter{}).
		Where("id = ? AND count = ?", key, counter.Count).
		Update("count", next)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", fmt.Errorf("counter %s moved underneath us: %w", key, db.ErrTxConflict)
	}
	return composeID(docType, date, next), nil
}

func composeID(docType enums.DocumentType, date string, n int) string {
	id := fmt.Sprintf("%s-%04d", date, n)
	if docType == enums.DocumentTypePurchases {
		return purchasePrefix + id
	}
	return id
}
