package shopapi

import (
	"context"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type ProcessCardRequest struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	types.CardDetails
}

type VerifyPaymentOTPRequest struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	PaymentID        string `json:"cf_payment_id,omitempty"`
	OTP              string `json:"otp"`
}

func (c *Client) CreatePaymentSession(ctx context.Context, orderID string) (*types.PaymentSession, error) {
	if err := requireID(orderID, "order id"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "payments.create_session", method: http.MethodPost, path: "payments/create-session/", body: map[string]string{"order_id": orderID}})
	if err != nil {
		return nil, err
	}
	session := paymentSessionFrom(resp)
	if session.PaymentSessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "payment session id missing")
	}
	return &session, nil
}

func (c *Client) ProcessCardPayment(ctx context.Context, req ProcessCardRequest) (*types.PaymentResult, error) {
	resp, err := c.do(ctx, call{endpoint: "payments.process_card", method: http.MethodPost, path: "payments/process-card-payment/", body: req})
	if err != nil {
		return nil, err
	}
	result := paymentResultFrom(resp)
	return &result, nil
}

func (c *Client) VerifyPaymentOTP(ctx context.Context, req VerifyPaymentOTPRequest) (*types.PaymentResult, error) {
	resp, err := c.do(ctx, call{endpoint: "payments.verify_otp", method: http.MethodPost, path: "payments/verify-otp/", body: req})
	if err != nil {
		return nil, err
	}
	result := paymentResultFrom(resp)
	return &result, nil
}
