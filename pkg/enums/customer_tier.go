package enums

import "strings"

// CustomerTier is the pricing class that selects which stored price applies.
type CustomerTier string

const (
	CustomerTierRegular CustomerTier = "regular"
	CustomerTierPremium CustomerTier = "premium"
	CustomerTierStar    CustomerTier = "star"
)

var validCustomerTiers = []CustomerTier{
	CustomerTierRegular,
	CustomerTierPremium,
	CustomerTierStar,
}

// String implements fmt.Stringer.
func (c CustomerTier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerTier.
func (c CustomerTier) IsValid() bool {
	for _, candidate := range validCustomerTiers {
		if candidate == c {
			return true
		}
	}
	return false
}

// NormalizeCustomerTier maps raw input to a tier, case-insensitively.
// Unknown or empty input falls back to the regular tier rather than failing,
// matching how walk-in customers are billed.
func NormalizeCustomerTier(value string) CustomerTier {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(CustomerTierStar):
		return CustomerTierStar
	case string(CustomerTierPremium):
		return CustomerTierPremium
	default:
		return CustomerTierRegular
	}
}
