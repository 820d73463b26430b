package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-bff/api/responses"
	"github.com/angelmondragon/storefront-bff/api/validators"
	productsvc "github.com/angelmondragon/storefront-bff/internal/products"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

const maxSearchLength = 120

// ProductList serves the catalog listing with its filters and sort.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := listQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ProductSearch(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		q := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLength)
		results, err := svc.Search(r.Context(), q, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}

func ProductCollections(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collections, err := svc.Collections(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, collections)
	}
}

func ProductsByTag(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := listQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ByTag(r.Context(), urlParam(r, "slug"), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductDetail returns the product with its first page of reviews and the
// rating summary.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.Detail(r.Context(), urlParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func listQuery(r *http.Request) (productsvc.ListQuery, error) {
	page, err := pageParam(r)
	if err != nil {
		return productsvc.ListQuery{}, err
	}
	size, err := validators.ParseQueryInt(r, "page_size", 0, 0, 100)
	if err != nil {
		return productsvc.ListQuery{}, err
	}
	values := r.URL.Query()
	query := productsvc.ListQuery{
		Page:       page,
		PageSize:   size,
		Category:   strings.TrimSpace(values.Get("category")),
		Collection: strings.TrimSpace(values.Get("collection")),
		Search:     validators.SanitizeString(values.Get("search"), maxSearchLength),
		Sort:       strings.TrimSpace(values.Get("sort")),
		MinPrice:   strings.TrimSpace(values.Get("min_price")),
		MaxPrice:   strings.TrimSpace(values.Get("max_price")),
	}
	if query.InStock, err = validators.ParseQueryBool(r, "in_stock"); err != nil {
		return productsvc.ListQuery{}, err
	}
	return query, nil
}
