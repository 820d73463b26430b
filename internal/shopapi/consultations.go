package shopapi

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-bff/pkg/types"
)

func (c *Client) BookConsultation(ctx context.Context, booking types.Consultation) (*types.Consultation, error) {
	booking.ID = ""
	booking.Status = ""
	resp, err := c.do(ctx, call{endpoint: "consultations.book", method: http.MethodPost, path: "consultations/", body: booking})
	if err != nil {
		return nil, err
	}
	booked := consultationFrom(resp)
	return &booked, nil
}

func (c *Client) ListConsultations(ctx context.Context) ([]types.Consultation, error) {
	resp, err := c.do(ctx, call{endpoint: "consultations.list", method: http.MethodGet, path: "consultations/"})
	if err != nil {
		return nil, err
	}
	return sliceOf(resp, consultationFrom), nil
}
