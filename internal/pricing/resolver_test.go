package pricing

import (
	"testing"

	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
)

func TestResolvePricePerTier(t *testing.T) {
	t.Parallel()

	product := models.Product{
		PriceRegular: 15000,
		PricePremium: 14000,
		PriceStar:    13000,
	}

	tests := []struct {
		tier string
		want int64
	}{
		{"regular", 15000},
		{"premium", 14000},
		{"star", 13000},
		{"STAR", 13000},
		{" Premium ", 14000},
		{"", 15000},
		{"wholesale", 15000},
	}
	for _, tc := range tests {
		if got := ResolvePrice(product, tc.tier); got != tc.want {
			t.Fatalf("tier %q: expected %d, got %d", tc.tier, tc.want, got)
		}
	}
}

func TestResolvePriceMissingFieldsAreZero(t *testing.T) {
	t.Parallel()

	var product models.Product
	for _, tier := range []string{"regular", "premium", "star"} {
		if got := ResolvePrice(product, tier); got != 0 {
			t.Fatalf("unset %s price should resolve to 0, got %d", tier, got)
		}
	}
}
