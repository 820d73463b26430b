package shopapi

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-bff/pkg/types"
)

func (c *Client) ListAddresses(ctx context.Context) ([]types.Address, error) {
	resp, err := c.do(ctx, call{endpoint: "addresses.list", method: http.MethodGet, path: "auth/addresses/"})
	if err != nil {
		return nil, err
	}
	return sliceOf(resp, addressFrom), nil
}

// CreateAddress sends the address as given. is_default is forwarded untouched;
// keeping a single default is the remote API's job.
func (c *Client) CreateAddress(ctx context.Context, address types.Address) (*types.Address, error) {
	address.ID = ""
	resp, err := c.do(ctx, call{endpoint: "addresses.create", method: http.MethodPost, path: "auth/addresses/", body: address})
	if err != nil {
		return nil, err
	}
	created := addressFrom(resp)
	return &created, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id string, address types.Address) (*types.Address, error) {
	if err := requireID(id, "address id"); err != nil {
		return nil, err
	}
	address.ID = ""
	resp, err := c.do(ctx, call{endpoint: "addresses.update", method: http.MethodPut, path: "auth/addresses/" + escape(id) + "/", body: address})
	if err != nil {
		return nil, err
	}
	updated := addressFrom(resp)
	if updated.ID == "" {
		updated = address
		updated.ID = id
	}
	return &updated, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	if err := requireID(id, "address id"); err != nil {
		return err
	}
	_, err := c.do(ctx, call{endpoint: "addresses.delete", method: http.MethodDelete, path: "auth/addresses/" + escape(id) + "/"})
	return err
}
