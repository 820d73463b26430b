package checkout

import (
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

const (
	minCardDigits = 13
	maxCardDigits = 19
	otpLength     = 6
)

// NormalizeCardNumber strips spaces.
func NormalizeCardNumber(number string) string {
	return strings.ReplaceAll(strings.TrimSpace(number), " ", "")
}

func ValidCardNumber(number string) bool {
	digits := NormalizeCardNumber(number)
	return len(digits) >= minCardDigits && len(digits) <= maxCardDigits && allDigits(digits)
}

// ValidExpiryMonth accepts "01" through "12".
func ValidExpiryMonth(month string) bool {
	if len(month) != 2 || !allDigits(month) {
		return false
	}
	m := int(month[0]-'0')*10 + int(month[1]-'0')
	return m >= 1 && m <= 12
}

func ValidCVV(cvv string) bool {
	return (len(cvv) == 3 || len(cvv) == 4) && allDigits(cvv)
}

func ValidOTP(otp string) bool {
	return len(otp) == otpLength && allDigits(otp)
}

// ValidateCard runs every card check and reports all failing fields at once.
// The returned details carry the normalized number.
func ValidateCard(card types.CardDetails) (types.CardDetails, error) {
	card.Number = NormalizeCardNumber(card.Number)
	card.HolderName = strings.TrimSpace(card.HolderName)
	card.ExpiryMonth = strings.TrimSpace(card.ExpiryMonth)
	card.ExpiryYear = strings.TrimSpace(card.ExpiryYear)
	card.CVV = strings.TrimSpace(card.CVV)

	fields := pkgerrors.FieldErrors{}
	if !ValidCardNumber(card.Number) {
		fields["card_number"] = []string{"Card number must be 13 to 19 digits."}
	}
	if card.HolderName == "" {
		fields["card_holder_name"] = []string{"Card holder name is required."}
	}
	if !ValidExpiryMonth(card.ExpiryMonth) {
		fields["card_expiry_mm"] = []string{"Expiry month must be between 01 and 12."}
	}
	if (len(card.ExpiryYear) != 2 && len(card.ExpiryYear) != 4) || !allDigits(card.ExpiryYear) {
		fields["card_expiry_yy"] = []string{"Expiry year is invalid."}
	}
	if !ValidCVV(card.CVV) {
		fields["card_cvv"] = []string{"CVV must be 3 or 4 digits."}
	}
	if len(fields) > 0 {
		return card, pkgerrors.New(pkgerrors.CodeValidation, "invalid card details").WithFields(fields)
	}
	return card, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
