package enums

import "fmt"

// CheckoutSource records where checkout items came from.
type CheckoutSource string

const (
	CheckoutSourceCart   CheckoutSource = "cart"
	CheckoutSourceBuyNow CheckoutSource = "buy_now"
)

// String implements fmt.Stringer.
func (c CheckoutSource) String() string {
	return string(c)
}

func (c CheckoutSource) IsValid() bool {
	return c == CheckoutSourceCart || c == CheckoutSourceBuyNow
}

// AttemptStatus is the outcome recorded in the checkout attempt ledger.
type AttemptStatus string

const (
	AttemptStatusPending   AttemptStatus = "pending"
	AttemptStatusPaid      AttemptStatus = "paid"
	AttemptStatusFailed    AttemptStatus = "failed"
	AttemptStatusOrphaned  AttemptStatus = "orphaned"
	AttemptStatusAbandoned AttemptStatus = "abandoned"
)

var validAttemptStatuses = []AttemptStatus{
	AttemptStatusPending,
	AttemptStatusPaid,
	AttemptStatusFailed,
	AttemptStatusOrphaned,
	AttemptStatusAbandoned,
}

// String implements fmt.Stringer.
func (a AttemptStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AttemptStatus.
func (a AttemptStatus) IsValid() bool {
	for _, candidate := range validAttemptStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAttemptStatus converts raw input into an AttemptStatus.
func ParseAttemptStatus(value string) (AttemptStatus, error) {
	for _, candidate := range validAttemptStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attempt status %q", value)
}
