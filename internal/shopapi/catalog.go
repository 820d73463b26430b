package shopapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

// ProductQuery carries listing filters; zero values are omitted.
type ProductQuery struct {
	Page       int
	PageSize   int
	Category   string
	Collection string
	Search     string
	Ordering   string
	MinPrice   string
	MaxPrice   string
	InStock    *bool
}

func (q ProductQuery) values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			values.Set(key, v)
		}
	}
	set("category", q.Category)
	set("collection", q.Collection)
	set("search", q.Search)
	set("ordering", q.Ordering)
	set("min_price", q.MinPrice)
	set("max_price", q.MaxPrice)
	if q.InStock != nil {
		values.Set("in_stock", strconv.FormatBool(*q.InStock))
	}
	return values
}

func (c *Client) ListProducts(ctx context.Context, query ProductQuery) (*types.Page[types.Product], error) {
	resp, err := c.do(ctx, call{endpoint: "products.list", method: http.MethodGet, path: "products/", query: query.values()})
	if err != nil {
		return nil, err
	}
	return pageOf(resp, productFrom), nil
}

func (c *Client) GetProduct(ctx context.Context, slug string) (*types.Product, error) {
	if err := requireID(slug, "product slug"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "products.get", method: http.MethodGet, path: "products/" + escape(slug) + "/"})
	if err != nil {
		return nil, err
	}
	product := productFrom(unwrap(resp, "product", "data"))
	if product.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &product, nil
}

func (c *Client) ListCollections(ctx context.Context) ([]types.Collection, error) {
	resp, err := c.do(ctx, call{endpoint: "products.collections", method: http.MethodGet, path: "products/collections/"})
	if err != nil {
		return nil, err
	}
	return sliceOf(resp, collectionFrom), nil
}

func (c *Client) ProductsByTag(ctx context.Context, slug string, query ProductQuery) (*types.Page[types.Product], error) {
	if err := requireID(slug, "tag slug"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "products.tag", method: http.MethodGet, path: "products/tags/" + escape(slug) + "/", query: query.values()})
	if err != nil {
		return nil, err
	}
	return pageOf(resp, productFrom), nil
}

func (c *Client) SearchProducts(ctx context.Context, q string, page int) (*types.Page[types.Product], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	values := url.Values{"q": {q}}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	resp, err := c.do(ctx, call{endpoint: "products.search", method: http.MethodGet, path: "products/search/", query: values})
	if err != nil {
		return nil, err
	}
	return pageOf(resp, productFrom), nil
}
