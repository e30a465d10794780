package enums

import "fmt"

// BaseUnit is the finest granularity in which a product's stock is tracked.
type BaseUnit string

const (
	BaseUnitKg   BaseUnit = "kg"
	BaseUnitG    BaseUnit = "g"
	BaseUnitLtr  BaseUnit = "ltr"
	BaseUnitPcs  BaseUnit = "pcs"
	BaseUnitSack BaseUnit = "sack"
	BaseUnitBox  BaseUnit = "box"
	BaseUnitBall BaseUnit = "ball"
)

var validBaseUnits = []BaseUnit{
	BaseUnitKg,
	BaseUnitG,
	BaseUnitLtr,
	BaseUnitPcs,
	BaseUnitSack,
	BaseUnitBox,
	BaseUnitBall,
}

// String implements fmt.Stringer.
func (b BaseUnit) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BaseUnit.
func (b BaseUnit) IsValid() bool {
	for _, candidate := range validBaseUnits {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBaseUnit converts raw input into a BaseUnit.
func ParseBaseUnit(value string) (BaseUnit, error) {
	for _, candidate := range validBaseUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid base unit %q", value)
}
