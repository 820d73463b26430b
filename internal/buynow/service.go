// Package buynow holds the single-item express checkout selection in the
// shopper session, outside the cart.
package buynow

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/session"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type ProductLookup interface {
	GetProduct(ctx context.Context, slug string) (*types.Product, error)
}

type itemStore interface {
	BuyNowItem(ctx context.Context, sessionID string) (*types.BuyNowItem, error)
	SetBuyNowItem(ctx context.Context, sessionID string, item types.BuyNowItem) error
	ClearBuyNowItem(ctx context.Context, sessionID string) error
}

type StartInput struct {
	Product   string
	VariantID string
	Quantity  int
}

type Service interface {
	Start(ctx context.Context, input StartInput) (*types.BuyNowItem, error)
	Peek(ctx context.Context) (*types.BuyNowItem, error)
	Cancel(ctx context.Context) error
}

type service struct {
	products ProductLookup
	store    itemStore
}

func NewService(products ProductLookup, store itemStore) (Service, error) {
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product lookup is required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session store is required")
	}
	return &service{products: products, store: store}, nil
}

// Start snapshots the product (and variant) into the session, replacing any
// earlier selection.
func (s *service) Start(ctx context.Context, input StartInput) (*types.BuyNowItem, error) {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(input.Product)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.GetProduct(ctx, ref)
	if err != nil {
		return nil, err
	}
	item := types.BuyNowItem{Product: *product, Quantity: input.Quantity}
	if variantID := strings.TrimSpace(input.VariantID); variantID != "" {
		variant := product.FindVariant(variantID)
		if variant == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product").
				WithFields(pkgerrors.FieldErrors{"variant_id": {"Unknown variant."}})
		}
		item.Variant = variant
	}
	if err := s.store.SetBuyNowItem(ctx, sessionID, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store buy-now item")
	}
	return &item, nil
}

// Peek returns the pending selection without consuming it; nil when none.
func (s *service) Peek(ctx context.Context) (*types.BuyNowItem, error) {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.store.BuyNowItem(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buy-now item")
	}
	return item, nil
}

func (s *service) Cancel(ctx context.Context) error {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return err
	}
	if err := s.store.ClearBuyNowItem(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear buy-now item")
	}
	return nil
}
