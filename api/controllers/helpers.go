package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-bff/api/validators"
)

const maxPage = 10000

func pageParam(r *http.Request) (int, error) {
	return validators.ParseQueryInt(r, "page", 1, 1, maxPage)
}

func urlParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}
