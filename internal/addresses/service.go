package addresses

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
	"github.com/angelmondragon/storefront-bff/pkg/validation"
)

type API interface {
	ListAddresses(ctx context.Context) ([]types.Address, error)
	CreateAddress(ctx context.Context, address types.Address) (*types.Address, error)
	UpdateAddress(ctx context.Context, id string, address types.Address) (*types.Address, error)
	DeleteAddress(ctx context.Context, id string) error
}

// Service manages the shopper's address book. Keeping a single default address
// is left to the remote API: saving one address never rewrites the others.
type Service interface {
	List(ctx context.Context) ([]types.Address, error)
	Create(ctx context.Context, address types.Address) (*types.Address, error)
	Update(ctx context.Context, id string, address types.Address) (*types.Address, error)
	Delete(ctx context.Context, id string) ([]types.Address, error)
}

type service struct {
	api API
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "addresses api is required")
	}
	return &service{api: api}, nil
}

func (s *service) List(ctx context.Context) ([]types.Address, error) {
	list, err := s.api.ListAddresses(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []types.Address{}
	}
	return list, nil
}

func (s *service) Create(ctx context.Context, address types.Address) (*types.Address, error) {
	address = normalize(address)
	if err := validation.Struct(&address); err != nil {
		return nil, err
	}
	return s.api.CreateAddress(ctx, address)
}

func (s *service) Update(ctx context.Context, id string, address types.Address) (*types.Address, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	address = normalize(address)
	if err := validation.Struct(&address); err != nil {
		return nil, err
	}
	return s.api.UpdateAddress(ctx, id, address)
}

// Delete removes the address and returns the refreshed book.
func (s *service) Delete(ctx context.Context, id string) ([]types.Address, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	if err := s.api.DeleteAddress(ctx, id); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

// DefaultOf returns the default address, else the first one, else nil.
func DefaultOf(list []types.Address) *types.Address {
	for i := range list {
		if list[i].IsDefault {
			return &list[i]
		}
	}
	if len(list) > 0 {
		return &list[0]
	}
	return nil
}

// Find returns the address with id, or nil.
func Find(list []types.Address, id string) *types.Address {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func normalize(a types.Address) types.Address {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.AddressLine1 = strings.TrimSpace(a.AddressLine1)
	a.AddressLine2 = strings.TrimSpace(a.AddressLine2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)
	a.Country = strings.TrimSpace(a.Country)
	a.AddressType = strings.ToLower(strings.TrimSpace(a.AddressType))
	return a
}
