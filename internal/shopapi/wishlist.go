package shopapi

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-bff/pkg/types"
)

func (c *Client) GetWishlist(ctx context.Context) (*types.Wishlist, error) {
	resp, err := c.do(ctx, call{endpoint: "wishlist.get", method: http.MethodGet, path: "wishlist/"})
	if err != nil {
		return nil, err
	}
	wishlist, ok := wishlistFrom(resp)
	if !ok {
		wishlist = types.Wishlist{Items: []types.WishlistItem{}}
	}
	return &wishlist, nil
}

func (c *Client) wishlistSnapshot(ctx context.Context, resp any) (*types.Wishlist, error) {
	if wishlist, ok := wishlistFrom(resp); ok {
		return &wishlist, nil
	}
	return c.GetWishlist(ctx)
}

func (c *Client) AddToWishlist(ctx context.Context, productID string) (*types.Wishlist, error) {
	if err := requireID(productID, "product id"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "wishlist.add", method: http.MethodPost, path: "wishlist/add/", body: map[string]string{"product_id": productID}})
	if err != nil {
		return nil, err
	}
	return c.wishlistSnapshot(ctx, resp)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, itemID string) (*types.Wishlist, error) {
	if err := requireID(itemID, "wishlist item id"); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, call{endpoint: "wishlist.remove", method: http.MethodDelete, path: "wishlist/remove/" + escape(itemID) + "/"})
	if err != nil {
		return nil, err
	}
	return c.wishlistSnapshot(ctx, resp)
}

func (c *Client) ClearWishlist(ctx context.Context) (*types.Wishlist, error) {
	if _, err := c.do(ctx, call{endpoint: "wishlist.clear", method: http.MethodDelete, path: "wishlist/clear/"}); err != nil {
		return nil, err
	}
	return &types.Wishlist{Items: []types.WishlistItem{}}, nil
}
