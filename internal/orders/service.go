package orders

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/enums"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type API interface {
	ListOrders(ctx context.Context, page int) (*types.Page[types.Order], error)
	GetOrder(ctx context.Context, id string) (*types.Order, error)
	CancelOrder(ctx context.Context, id string) (*types.Order, error)
}

// OrderView decorates an order with display badges for its statuses.
type OrderView struct {
	types.Order
	StatusDisplay        StatusDisplay `json:"status_display"`
	PaymentStatusDisplay StatusDisplay `json:"payment_status_display"`
	Cancellable          bool          `json:"cancellable"`
}

type Service interface {
	List(ctx context.Context, page int) (*types.Page[OrderView], error)
	Get(ctx context.Context, id string) (*OrderView, error)
	Cancel(ctx context.Context, id string) (*OrderView, error)
}

type service struct {
	api API
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders api is required")
	}
	return &service{api: api}, nil
}

func (s *service) List(ctx context.Context, page int) (*types.Page[OrderView], error) {
	if page < 0 {
		page = 0
	}
	resp, err := s.api.ListOrders(ctx, page)
	if err != nil {
		return nil, err
	}
	views := &types.Page[OrderView]{
		Results:  make([]OrderView, 0, len(resp.Results)),
		Count:    resp.Count,
		Next:     resp.Next,
		Previous: resp.Previous,
	}
	for _, order := range resp.Results {
		views.Results = append(views.Results, NewOrderView(order))
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, id string) (*OrderView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewOrderView(*order)
	return &view, nil
}

// Cancel asks the remote API to cancel. The local check only short-circuits
// orders that are obviously past cancellation; the server decides.
func (s *service) Cancel(ctx context.Context, id string) (*OrderView, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	status := enums.NormalizeOrderStatus(current.Status)
	if status.IsValid() && !status.Cancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
			WithDetails(map[string]any{"status": string(status)})
	}
	order, err := s.api.CancelOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewOrderView(*order)
	return &view, nil
}

func NewOrderView(order types.Order) OrderView {
	if order.Items == nil {
		order.Items = []types.OrderItem{}
	}
	return OrderView{
		Order:                order,
		StatusDisplay:        OrderStatusDisplay(order.Status),
		PaymentStatusDisplay: PaymentStatusDisplay(order.PaymentStatus),
		Cancellable:          enums.NormalizeOrderStatus(order.Status).Cancellable(),
	}
}
