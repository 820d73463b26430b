package shopapi

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type AddToCartRequest struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

func (c *Client) GetCart(ctx context.Context) (*types.Cart, error) {
	resp, err := c.do(ctx, call{endpoint: "cart.get", method: http.MethodGet, path: "cart/"})
	if err != nil {
		return nil, err
	}
	cart, ok := cartFrom(resp)
	if !ok {
		cart = types.Cart{Items: []types.CartItem{}}
	}
	return &cart, nil
}

// snapshot returns the cart carried by a mutation response, or refetches it
// when the response only carries an acknowledgement.
func (c *Client) cartSnapshot(ctx context.Context, resp any) (*types.Cart, error) {
	if cart, ok := cartFrom(resp); ok {
		return &cart, nil
	}
	return c.GetCart(ctx)
}

func (c *Client) AddToCart(ctx context.Context, req AddToCartRequest) (*types.Cart, error) {
	if err := requireID(req.ProductID, "product id"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "cart.add", method: http.MethodPost, path: "cart/add/", body: req})
	if err != nil {
		return nil, err
	}
	return c.cartSnapshot(ctx, resp)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*types.Cart, error) {
	if err := requireID(itemID, "cart item id"); err != nil {
		return nil, err
	}
	body := map[string]int{"quantity": quantity}
	resp, err := c.do(ctx, call{endpoint: "cart.update", method: http.MethodPut, path: "cart/update/" + escape(itemID) + "/", body: body})
	if err != nil {
		return nil, err
	}
	return c.cartSnapshot(ctx, resp)
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID string) (*types.Cart, error) {
	if err := requireID(itemID, "cart item id"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "cart.remove", method: http.MethodDelete, path: "cart/remove/" + escape(itemID) + "/"})
	if err != nil {
		return nil, err
	}
	return c.cartSnapshot(ctx, resp)
}

func (c *Client) ClearCart(ctx context.Context) (*types.Cart, error) {
	resp, err := c.do(ctx, call{endpoint: "cart.clear", method: http.MethodDelete, path: "cart/clear/"})
	if err != nil {
		return nil, err
	}
	if cart, ok := cartFrom(resp); ok {
		return &cart, nil
	}
	return &types.Cart{Items: []types.CartItem{}}, nil
}
