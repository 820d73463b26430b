package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-bff/api/responses"
	"github.com/angelmondragon/storefront-bff/api/validators"
	addresssvc "github.com/angelmondragon/storefront-bff/internal/addresses"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

func AddressList(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addresses, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}

func AddressCreate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload types.Address
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		address, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

func AddressUpdate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload types.Address
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		address, err := svc.Update(r.Context(), urlParam(r, "id"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

// AddressDelete returns the refreshed address book.
func AddressDelete(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addresses, err := svc.Delete(r.Context(), urlParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}
