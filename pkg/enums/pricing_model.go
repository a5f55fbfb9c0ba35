package enums

import "fmt"

// PricingModel selects how a catering package is priced.
type PricingModel string

const (
	PricingModelPerPerson PricingModel = "per_person"
	PricingModelPerWeight PricingModel = "per_weight"
)

var validPricingModels = []PricingModel{
	PricingModelPerPerson,
	PricingModelPerWeight,
}

// String implements fmt.Stringer.
func (p PricingModel) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PricingModel.
func (p PricingModel) IsValid() bool {
	for _, candidate := range validPricingModels {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricingModel converts raw input into a PricingModel.
func ParsePricingModel(value string) (PricingModel, error) {
	for _, candidate := range validPricingModels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing model %q", value)
}
