package enums

import "fmt"

// StepKind identifies the input a configurator step collects.
type StepKind string

const (
	StepKindChoice      StepKind = "choice"
	StepKindBreadChoice StepKind = "bread_choice"
	StepKindWeightInput StepKind = "weight_input"
)

var validStepKinds = []StepKind{
	StepKindChoice,
	StepKindBreadChoice,
	StepKindWeightInput,
}

// String implements fmt.Stringer.
func (k StepKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known StepKind.
func (k StepKind) IsValid() bool {
	for _, candidate := range validStepKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseStepKind converts raw input into a StepKind.
func ParseStepKind(value string) (StepKind, error) {
	for _, candidate := range validStepKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid step kind %q", value)
}
