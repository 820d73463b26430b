package checkout

import (
	"time"

	"github.com/angelmondragon/storefront-bff/pkg/enums"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

// Failure is the modal error of the last step. The phase is left unchanged so
// the shopper can retry from where it failed.
type Failure struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
	At      time.Time           `json:"at"`
}

// State is the per-session checkout progress.
type State struct {
	Phase          Phase                 `json:"phase"`
	Source         enums.CheckoutSource  `json:"source"`
	BuyNow         *types.BuyNowItem     `json:"buy_now,omitempty"`
	AddressID      string                `json:"address_id,omitempty"`
	PaymentMethod  enums.PaymentMethod   `json:"payment_method,omitempty"`
	Order          *types.Order          `json:"order,omitempty"`
	AttemptID      string                `json:"attempt_id,omitempty"`
	PaymentSession *types.PaymentSession `json:"payment_session,omitempty"`
	PaymentID      string                `json:"payment_id,omitempty"`
	Failure        *Failure              `json:"failure,omitempty"`
	StartedAt      time.Time             `json:"started_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// Quote is the items and advisory totals shown for review.
type Quote struct {
	Source enums.CheckoutSource `json:"source"`
	Lines  []Line               `json:"lines"`
	Totals Totals               `json:"totals"`
}

// View is what the storefront renders for the current step.
type View struct {
	State      State           `json:"state"`
	Addresses  []types.Address `json:"addresses,omitempty"`
	Quote      *Quote          `json:"quote,omitempty"`
	Completion *Completion     `json:"completion,omitempty"`
}

// Completion tells the storefront where to go once the order is confirmed.
type Completion struct {
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number,omitempty"`
	Redirect      string `json:"redirect"`
	RedirectDelay int64  `json:"redirect_delay_ms"`
}
