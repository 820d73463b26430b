package wishlist

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/session"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

// API is the slice of the commerce API client the wishlist service needs.
type API interface {
	GetWishlist(ctx context.Context) (*types.Wishlist, error)
	AddToWishlist(ctx context.Context, productID string) (*types.Wishlist, error)
	RemoveFromWishlist(ctx context.Context, itemID string) (*types.Wishlist, error)
	ClearWishlist(ctx context.Context) (*types.Wishlist, error)
}

// ToggleResult reports the membership after a toggle together with the snapshot.
type ToggleResult struct {
	InWishlist bool            `json:"in_wishlist"`
	Wishlist   *types.Wishlist `json:"wishlist"`
}

type Service interface {
	Fetch(ctx context.Context) (*types.Wishlist, error)
	Add(ctx context.Context, productID string) (*types.Wishlist, error)
	Remove(ctx context.Context, itemID string) (*types.Wishlist, error)
	Clear(ctx context.Context) (*types.Wishlist, error)
	Toggle(ctx context.Context, productID string) (*ToggleResult, error)
}

type service struct {
	api   API
	locks *keyedMutex
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist api is required")
	}
	return &service{api: api, locks: newKeyedMutex()}, nil
}

func (s *service) Fetch(ctx context.Context) (*types.Wishlist, error) {
	return s.api.GetWishlist(ctx)
}

func (s *service) Add(ctx context.Context, productID string) (*types.Wishlist, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.api.AddToWishlist(ctx, productID)
}

func (s *service) Remove(ctx context.Context, itemID string) (*types.Wishlist, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist item id is required")
	}
	return s.api.RemoveFromWishlist(ctx, itemID)
}

func (s *service) Clear(ctx context.Context) (*types.Wishlist, error) {
	return s.api.ClearWishlist(ctx)
}

// Toggle adds the product when absent and removes it when present. The remote
// API has no atomic toggle, so the read and the write are serialized per
// (session, product) inside this process. Other instances can still interleave.
func (s *service) Toggle(ctx context.Context, productID string) (*ToggleResult, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	sessionID, _ := session.IDFromContext(ctx)
	unlock := s.locks.Lock(sessionID + "|" + productID)
	defer unlock()

	current, err := s.api.GetWishlist(ctx)
	if err != nil {
		return nil, err
	}
	if item := current.FindItem(productID); item != nil {
		updated, err := s.api.RemoveFromWishlist(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		return &ToggleResult{InWishlist: false, Wishlist: updated}, nil
	}
	updated, err := s.api.AddToWishlist(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{InWishlist: true, Wishlist: updated}, nil
}
