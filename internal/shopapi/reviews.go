package shopapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type CreateReviewRequest struct {
	ProductID string `json:"product"`
	Rating    int    `json:"rating"`
	Title     string `json:"title,omitempty"`
	Comment   string `json:"comment"`
}

func (c *Client) ProductReviews(ctx context.Context, productID string, page int) (*types.Page[types.Review], error) {
	if err := requireID(productID, "product id"); err != nil {
		return nil, err
	}
	var query url.Values
	if page > 0 {
		query = url.Values{"page": {strconv.Itoa(page)}}
	}
	resp, err := c.do(ctx, call{endpoint: "reviews.product", method: http.MethodGet, path: "reviews/product/" + escape(productID) + "/", query: query})
	if err != nil {
		return nil, err
	}
	return pageOf(resp, reviewFrom), nil
}

func (c *Client) ReviewSummary(ctx context.Context, productID string) (*types.ReviewSummary, error) {
	if err := requireID(productID, "product id"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "reviews.summary", method: http.MethodGet, path: "reviews/product/" + escape(productID) + "/summary/"})
	if err != nil {
		return nil, err
	}
	summary := reviewSummaryFrom(resp)
	return &summary, nil
}

func (c *Client) CreateReview(ctx context.Context, req CreateReviewRequest) (*types.Review, error) {
	if err := requireID(req.ProductID, "product id"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "reviews.create", method: http.MethodPost, path: "reviews/", body: req})
	if err != nil {
		return nil, err
	}
	review := reviewFrom(resp)
	return &review, nil
}
