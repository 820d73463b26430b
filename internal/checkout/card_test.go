package checkout

import (
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCardNumber(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidCardNumber("4111111111111111"))
	assert.True(t, ValidCardNumber("4111 1111 1111 1111"))
	assert.True(t, ValidCardNumber("4222222222222"))
	assert.True(t, ValidCardNumber("6011000990139424123"))
	assert.False(t, ValidCardNumber("411111"))
	assert.False(t, ValidCardNumber("41111111111111111111"))
	assert.False(t, ValidCardNumber("4111-1111-1111-1111"))
	assert.False(t, ValidCardNumber(""))
}

func TestValidExpiryMonth(t *testing.T) {
	t.Parallel()

	for _, month := range []string{"01", "09", "10", "12"} {
		assert.True(t, ValidExpiryMonth(month), month)
	}
	for _, month := range []string{"00", "13", "1", "ab", "012"} {
		assert.False(t, ValidExpiryMonth(month), month)
	}
}

func TestValidCVVAndOTP(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidCVV("123"))
	assert.True(t, ValidCVV("1234"))
	assert.False(t, ValidCVV("12"))
	assert.False(t, ValidCVV("12a"))

	assert.True(t, ValidOTP("123456"))
	assert.False(t, ValidOTP("12345"))
	assert.False(t, ValidOTP("12345a"))
}

func TestValidateCardReportsEveryField(t *testing.T) {
	t.Parallel()

	_, err := ValidateCard(types.CardDetails{Number: "411111", ExpiryMonth: "13", ExpiryYear: "2", CVV: "1"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	fields := pkgerrors.As(err).Fields()
	for _, key := range []string{"card_number", "card_holder_name", "card_expiry_mm", "card_expiry_yy", "card_cvv"} {
		assert.Contains(t, fields, key)
	}
}

func TestValidateCardNormalizes(t *testing.T) {
	t.Parallel()

	card, err := ValidateCard(types.CardDetails{
		Number:      " 4111 1111 1111 1111 ",
		HolderName:  "  Asha Rao ",
		ExpiryMonth: "07",
		ExpiryYear:  "2029",
		CVV:         "123",
	})
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", card.Number)
	assert.Equal(t, "Asha Rao", card.HolderName)
}
