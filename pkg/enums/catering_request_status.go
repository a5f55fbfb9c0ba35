package enums

import "fmt"

// CateringRequestStatus tracks delivery of a relayed catering request email.
type CateringRequestStatus string

const (
	CateringRequestStatusPending CateringRequestStatus = "pending"
	CateringRequestStatusSent    CateringRequestStatus = "sent"
	CateringRequestStatusFailed  CateringRequestStatus = "failed"
)

var validCateringRequestStatuses = []CateringRequestStatus{
	CateringRequestStatusPending,
	CateringRequestStatusSent,
	CateringRequestStatusFailed,
}

// String implements fmt.Stringer.
func (s CateringRequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CateringRequestStatus.
func (s CateringRequestStatus) IsValid() bool {
	for _, candidate := range validCateringRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCateringRequestStatus converts raw input into a CateringRequestStatus.
func ParseCateringRequestStatus(value string) (CateringRequestStatus, error) {
	for _, candidate := range validCateringRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catering request status %q", value)
}
