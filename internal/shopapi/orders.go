package shopapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

func (c *Client) ListOrders(ctx context.Context, page int) (*types.Page[types.Order], error) {
	var query url.Values
	if page > 0 {
		query = url.Values{"page": {strconv.Itoa(page)}}
	}
	resp, err := c.do(ctx, call{endpoint: "orders.list", method: http.MethodGet, path: "orders/", query: query})
	if err != nil {
		return nil, err
	}
	return pageOf(resp, orderFrom), nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*types.Order, error) {
	if err := requireID(id, "order id"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "orders.get", method: http.MethodGet, path: "orders/" + escape(id) + "/"})
	if err != nil {
		return nil, err
	}
	order := orderFrom(resp)
	return &order, nil
}

func (c *Client) CreateOrder(ctx context.Context, req types.CreateOrderRequest) (*types.Order, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	resp, err := c.do(ctx, call{endpoint: "orders.create", method: http.MethodPost, path: "orders/create/", body: req})
	if err != nil {
		return nil, err
	}
	order := orderFrom(resp)
	if order.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "order created without an id")
	}
	return &order, nil
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*types.Order, error) {
	if err := requireID(id, "order id"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "orders.cancel", method: http.MethodPost, path: "orders/" + escape(id) + "/cancel/"})
	if err != nil {
		return nil, err
	}
	order := orderFrom(resp)
	if order.ID == "" {
		return c.GetOrder(ctx, id)
	}
	return &order, nil
}
