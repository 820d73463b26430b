package enums

import "strings"

// PaymentStatus is the remote API's payment state for an order. Values outside
// the known set are carried as-is and displayed neutrally.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// NormalizePaymentStatus lowercases the remote value; gateway spellings such as
// SUCCESS collapse to paid.
func NormalizePaymentStatus(value string) PaymentStatus {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "success", "completed":
		return PaymentStatusPaid
	}
	return PaymentStatus(normalized)
}
