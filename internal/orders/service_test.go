package orders

import (
	"context"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type stubAPI struct {
	orders    map[string]*types.Order
	cancelled []string
}

func (s *stubAPI) ListOrders(context.Context, int) (*types.Page[types.Order], error) {
	page := &types.Page[types.Order]{Results: []types.Order{}}
	for _, order := range s.orders {
		page.Results = append(page.Results, *order)
	}
	page.Count = len(page.Results)
	return page, nil
}

func (s *stubAPI) GetOrder(_ context.Context, id string) (*types.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Not found.")
	}
	return order, nil
}

func (s *stubAPI) CancelOrder(_ context.Context, id string) (*types.Order, error) {
	s.cancelled = append(s.cancelled, id)
	order := *s.orders[id]
	order.Status = "cancelled"
	return &order, nil
}

func TestOrderStatusDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw   string
		label string
		color string
	}{
		{raw: "pending", label: "Pending", color: "yellow"},
		{raw: "CONFIRMED", label: "Confirmed", color: "blue"},
		{raw: "processing", label: "Processing", color: "indigo"},
		{raw: "shipped", label: "Shipped", color: "purple"},
		{raw: "delivered", label: "Delivered", color: "green"},
		{raw: "cancelled", label: "Cancelled", color: "red"},
		{raw: "returned", label: "Returned", color: "orange"},
		{raw: "out_for_delivery", label: "Out for delivery", color: "gray"},
		{raw: "", label: "Unknown", color: "gray"},
	}
	for _, tc := range tests {
		got := OrderStatusDisplay(tc.raw)
		if got.Label != tc.label || got.Color != tc.color {
			t.Fatalf("status %q: expected %s/%s got %s/%s", tc.raw, tc.label, tc.color, got.Label, got.Color)
		}
	}
}

func TestPaymentStatusDisplay(t *testing.T) {
	t.Parallel()

	if got := PaymentStatusDisplay("SUCCESS"); got.Value != "paid" || got.Color != "green" {
		t.Fatalf("unexpected display %+v", got)
	}
	if got := PaymentStatusDisplay("failed"); got.Color != "red" {
		t.Fatalf("unexpected display %+v", got)
	}
	if got := PaymentStatusDisplay("on_hold"); got.Color != neutralColor {
		t.Fatalf("expected neutral color, got %+v", got)
	}
}

func TestCancel(t *testing.T) {
	t.Parallel()

	api := &stubAPI{orders: map[string]*types.Order{
		"o1": {ID: "o1", Status: "pending"},
		"o2": {ID: "o2", Status: "shipped"},
		"o3": {ID: "o3", Status: "on_hold"},
	}}
	svc, err := NewService(api)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.Cancel(context.Background(), "o1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if view.Status != "cancelled" || view.StatusDisplay.Color != "red" || view.Cancellable {
		t.Fatalf("unexpected view %+v", view)
	}

	if _, err := svc.Cancel(context.Background(), "o2"); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict for shipped order, got %v", err)
	}

	// unknown statuses are left to the server to judge
	if _, err := svc.Cancel(context.Background(), "o3"); err != nil {
		t.Fatalf("cancel unknown status: %v", err)
	}
	if len(api.cancelled) != 2 {
		t.Fatalf("expected two cancel calls, got %v", api.cancelled)
	}

	if _, err := svc.Cancel(context.Background(), "missing"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListDecorates(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubAPI{orders: map[string]*types.Order{"o1": {ID: "o1", Status: "delivered", PaymentStatus: "paid"}}})
	page, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Count != 1 || page.Results[0].StatusDisplay.Label != "Delivered" || page.Results[0].PaymentStatusDisplay.Label != "Paid" {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Results[0].Items == nil {
		t.Fatal("expected non-nil items")
	}
}
