// Package pricing selects a unit price from a customer tier. Pricing is a
// flat per-tier model: the tier alone picks one of the three stored price
// fields, order volume never does.
package pricing

import (
	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"github.com/adityawarsita/gudangpos-backend/pkg/enums"
)

// ResolvePrice returns the per-base-unit price for the given tier. Tier
// input is normalized case-insensitively with regular as the fallback, and
// an unset price resolves to 0 rather than an error so callers always get a
// number. Star <= premium <= regular is a business expectation, not an
// invariant this function enforces.
func ResolvePrice(product models.Product, tier string) int64 {
	switch enums.NormalizeCustomerTier(tier) {
	case enums.CustomerTierStar:
		return product.PriceStar
	case enums.CustomerTierPremium:
		return product.PricePremium
	default:
		return product.PriceRegular
	}
}
