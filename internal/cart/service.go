package cart

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-bff/internal/shopapi"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

// API is the slice of the commerce API client the cart service needs.
type API interface {
	GetCart(ctx context.Context) (*types.Cart, error)
	AddToCart(ctx context.Context, req shopapi.AddToCartRequest) (*types.Cart, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (*types.Cart, error)
	RemoveCartItem(ctx context.Context, itemID string) (*types.Cart, error)
	ClearCart(ctx context.Context) (*types.Cart, error)
}

// AddInput selects a product, an optional variant and a quantity.
type AddInput struct {
	ProductID string
	VariantID string
	Quantity  int
}

// Service mirrors the remote cart. Every mutation returns the server's snapshot;
// totals are never recomputed here.
type Service interface {
	Fetch(ctx context.Context) (*types.Cart, error)
	Add(ctx context.Context, input AddInput) (*types.Cart, error)
	Update(ctx context.Context, itemID string, quantity int) (*types.Cart, error)
	Remove(ctx context.Context, itemID string) (*types.Cart, error)
	Clear(ctx context.Context) (*types.Cart, error)
}

type service struct {
	api API
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart api is required")
	}
	return &service{api: api}, nil
}

func (s *service) Fetch(ctx context.Context) (*types.Cart, error) {
	return s.api.GetCart(ctx)
}

func (s *service) Add(ctx context.Context, input AddInput) (*types.Cart, error) {
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	req := shopapi.AddToCartRequest{ProductID: productID, Quantity: input.Quantity}
	if variantID := strings.TrimSpace(input.VariantID); variantID != "" {
		req.VariantID = &variantID
	}
	return s.api.AddToCart(ctx, req)
}

// Update sets the line quantity; zero removes the line.
func (s *service) Update(ctx context.Context, itemID string, quantity int) (*types.Cart, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	switch {
	case quantity < 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	case quantity == 0:
		return s.api.RemoveCartItem(ctx, itemID)
	}
	return s.api.UpdateCartItem(ctx, itemID, quantity)
}

func (s *service) Remove(ctx context.Context, itemID string) (*types.Cart, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	return s.api.RemoveCartItem(ctx, itemID)
}

func (s *service) Clear(ctx context.Context) (*types.Cart, error) {
	return s.api.ClearCart(ctx)
}
