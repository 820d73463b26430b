package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-bff/api/responses"
	"github.com/angelmondragon/storefront-bff/api/validators"
	buynowsvc "github.com/angelmondragon/storefront-bff/internal/buynow"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

// startBuyNowRequest accepts a product id or slug.
type startBuyNowRequest struct {
	Product   string `json:"product" validate:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
}

func BuyNowStart(svc buynowsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload startBuyNowRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Start(r.Context(), buynowsvc.StartInput{
			Product:   payload.Product,
			VariantID: payload.VariantID,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func BuyNowPeek(svc buynowsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.Peek(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func BuyNowCancel(svc buynowsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Cancel(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
