package types

import "github.com/shopspring/decimal"

type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	VariantID   string          `json:"variant_id,omitempty"`
	VariantName string          `json:"variant_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	Items           []OrderItem     `json:"items"`
	ShippingName    string          `json:"shipping_name,omitempty"`
	ShippingPhone   string          `json:"shipping_phone,omitempty"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	ShippingCity    string          `json:"shipping_city,omitempty"`
	ShippingState   string          `json:"shipping_state,omitempty"`
	ShippingPincode string          `json:"shipping_pincode,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreatedAt       string          `json:"created_at,omitempty"`
}

// OrderLine is one denormalized line sent to the order-creation endpoint.
type OrderLine struct {
	ProductID string          `json:"product_id"`
	VariantID *string         `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	AddressID     string      `json:"address_id"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderLine `json:"items"`
	Notes         string      `json:"notes,omitempty"`
}

// PaymentSession scopes a single payment attempt to an order amount.
type PaymentSession struct {
	PaymentSessionID string          `json:"payment_session_id"`
	CashfreeOrderID  string          `json:"cashfree_order_id"`
	OrderAmount      decimal.Decimal `json:"order_amount"`
	OrderCurrency    string          `json:"order_currency"`
	ReturnURL        string          `json:"return_url,omitempty"`
	CashfreeMode     string          `json:"cashfree_mode,omitempty"`
}

type CardDetails struct {
	Number      string `json:"card_number"`
	HolderName  string `json:"card_holder_name"`
	ExpiryMonth string `json:"card_expiry_mm"`
	ExpiryYear  string `json:"card_expiry_yy"`
	CVV         string `json:"card_cvv"`
}

// PaymentResult is the normalized answer of card submission and OTP verification.
type PaymentResult struct {
	PaymentStatus string `json:"payment_status"`
	RequiresOTP   bool   `json:"requires_otp"`
	PaymentID     string `json:"payment_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Succeeded reports a final successful payment status.
func (r PaymentResult) Succeeded() bool {
	switch r.PaymentStatus {
	case "SUCCESS", "success", "PAID", "paid":
		return true
	}
	return false
}
