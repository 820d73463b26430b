package cart

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-bff/internal/shopapi"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type stubAPI struct {
	cart    *types.Cart
	added   []shopapi.AddToCartRequest
	updated map[string]int
	removed []string
	cleared bool
}

func (s *stubAPI) GetCart(context.Context) (*types.Cart, error) { return s.cart, nil }

func (s *stubAPI) AddToCart(_ context.Context, req shopapi.AddToCartRequest) (*types.Cart, error) {
	s.added = append(s.added, req)
	return s.cart, nil
}

func (s *stubAPI) UpdateCartItem(_ context.Context, itemID string, quantity int) (*types.Cart, error) {
	if s.updated == nil {
		s.updated = map[string]int{}
	}
	s.updated[itemID] = quantity
	return s.cart, nil
}

func (s *stubAPI) RemoveCartItem(_ context.Context, itemID string) (*types.Cart, error) {
	s.removed = append(s.removed, itemID)
	return s.cart, nil
}

func (s *stubAPI) ClearCart(context.Context) (*types.Cart, error) {
	s.cleared = true
	return &types.Cart{Items: []types.CartItem{}}, nil
}

func newTestService(t *testing.T, api *stubAPI) Service {
	t.Helper()
	svc, err := NewService(api)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresAPI(t *testing.T) {
	t.Parallel()
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error without api")
	}
}

func TestAddValidatesBeforeCallingAPI(t *testing.T) {
	t.Parallel()

	api := &stubAPI{cart: &types.Cart{}}
	svc := newTestService(t, api)

	cases := []AddInput{
		{ProductID: "", Quantity: 1},
		{ProductID: "p1", Quantity: 0},
		{ProductID: "p1", Quantity: -3},
	}
	for _, input := range cases {
		_, err := svc.Add(context.Background(), input)
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
	if len(api.added) != 0 {
		t.Fatalf("api must not be called on invalid input, got %d calls", len(api.added))
	}
}

func TestAddForwardsVariant(t *testing.T) {
	t.Parallel()

	api := &stubAPI{cart: &types.Cart{TotalItems: 2}}
	svc := newTestService(t, api)

	got, err := svc.Add(context.Background(), AddInput{ProductID: " p1 ", VariantID: "v2", Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got != api.cart {
		t.Fatal("expected the server snapshot to be returned")
	}
	req := api.added[0]
	if req.ProductID != "p1" || req.VariantID == nil || *req.VariantID != "v2" || req.Quantity != 2 {
		t.Fatalf("unexpected request %+v", req)
	}

	if _, err := svc.Add(context.Background(), AddInput{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("add without variant: %v", err)
	}
	if api.added[1].VariantID != nil {
		t.Fatal("expected nil variant when none selected")
	}
}

func TestUpdateZeroQuantityRemoves(t *testing.T) {
	t.Parallel()

	api := &stubAPI{cart: &types.Cart{}}
	svc := newTestService(t, api)

	if _, err := svc.Update(context.Background(), "i1", 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(api.removed) != 1 || api.removed[0] != "i1" {
		t.Fatalf("expected removal of i1, got %v", api.removed)
	}
	if len(api.updated) != 0 {
		t.Fatalf("expected no update call, got %v", api.updated)
	}

	if _, err := svc.Update(context.Background(), "i1", 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	if api.updated["i1"] != 4 {
		t.Fatalf("expected quantity 4, got %v", api.updated)
	}

	if _, err := svc.Update(context.Background(), "i1", -1); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Update(context.Background(), " ", 1); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	api := &stubAPI{}
	svc := newTestService(t, api)
	cart, err := svc.Clear(context.Background())
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !api.cleared || len(cart.Items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", cart)
	}
}
