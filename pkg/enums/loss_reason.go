package enums

import "fmt"

// LossReason classifies a non-sale stock decrease.
type LossReason string

const (
	LossReasonExpired    LossReason = "expired"
	LossReasonDamaged    LossReason = "damaged"
	LossReasonMissing    LossReason = "missing"
	LossReasonWrongInput LossReason = "wrong_input"
)

var validLossReasons = []LossReason{
	LossReasonExpired,
	LossReasonDamaged,
	LossReasonMissing,
	LossReasonWrongInput,
}

// String implements fmt.Stringer.
func (l LossReason) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LossReason.
func (l LossReason) IsValid() bool {
	for _, candidate := range validLossReasons {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLossReason converts raw input into a LossReason.
func ParseLossReason(value string) (LossReason, error) {
	for _, candidate := range validLossReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loss reason %q", value)
}
