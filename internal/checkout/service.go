package checkout

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-bff/internal/shopapi"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/lock"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
	"github.com/angelmondragon/storefront-bff/pkg/session"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

const (
	lockPrefix        = "checkout:"
	defaultLockTTL    = 30 * time.Second
	defaultSuccess    = "/payment-success"
	declinedCode      = "PAYMENT_DECLINED"
	declinedMessage   = "Payment was not successful. Please try again."
	noCheckoutMessage = "no checkout in progress"
	phaseNone         = "none"
)

// API is the slice of the remote commerce API the checkout drives.
type API interface {
	ListAddresses(ctx context.Context) ([]types.Address, error)
	GetCart(ctx context.Context) (*types.Cart, error)
	ClearCart(ctx context.Context) (*types.Cart, error)
	CreateOrder(ctx context.Context, req types.CreateOrderRequest) (*types.Order, error)
	CreatePaymentSession(ctx context.Context, orderID string) (*types.PaymentSession, error)
	ProcessCardPayment(ctx context.Context, req shopapi.ProcessCardRequest) (*types.PaymentResult, error)
	VerifyPaymentOTP(ctx context.Context, req shopapi.VerifyPaymentOTPRequest) (*types.PaymentResult, error)
}

type stateStore interface {
	Checkout(ctx context.Context, sessionID string, dst any) (bool, error)
	SaveCheckout(ctx context.Context, sessionID string, state any) error
	ClearCheckout(ctx context.Context, sessionID string) error
	TakeBuyNowItem(ctx context.Context, sessionID string) (*types.BuyNowItem, error)
	ClearBuyNowItem(ctx context.Context, sessionID string) error
}

// Service drives one shopper from selected items to a confirmed order.
type Service interface {
	Current(ctx context.Context) (*View, error)
	Begin(ctx context.Context) (*View, error)
	SelectAddress(ctx context.Context, addressID string) (*View, error)
	Quote(ctx context.Context) (*Quote, error)
	PlaceOrder(ctx context.Context, method enums.PaymentMethod) (*View, error)
	SubmitCard(ctx context.Context, card types.CardDetails) (*View, error)
	VerifyOTP(ctx context.Context, otp string) (*View, error)
	Back(ctx context.Context) (*View, error)
	Reset(ctx context.Context) error
}

type ServiceParams struct {
	API     API
	Store   stateStore
	Locker  lock.Locker
	Ledger  Ledger
	Metrics *metrics.CheckoutMetrics
	Logger  *logger.Logger
	Config  config.CheckoutConfig
}

type service struct {
	api     API
	store   stateStore
	locker  lock.Locker
	ledger  Ledger
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
	cfg     config.CheckoutConfig
	clock   func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout api is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session store is required")
	}
	if params.Locker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "locker is required")
	}
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout ledger is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	cfg := params.Config
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	if strings.TrimSpace(cfg.SuccessPath) == "" {
		cfg.SuccessPath = defaultSuccess
	}
	return &service{
		api:     params.API,
		store:   params.Store,
		locker:  params.Locker,
		ledger:  params.Ledger,
		metrics: params.Metrics,
		logg:    logg,
		cfg:     cfg,
		clock:   time.Now,
	}, nil
}

// Current renders the persisted state. A session without checkout yields nil.
func (s *service) Current(ctx context.Context) (*View, error) {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return nil, err
	}
	state, err := s.load(ctx, sessionID)
	if err != nil || state == nil {
		return nil, err
	}
	return s.view(ctx, *state, nil)
}

// Begin starts a fresh checkout. A pending buy-now item is moved out of the
// session into the checkout state and becomes the only item.
func (s *service) Begin(ctx context.Context) (*View, error) {
	return s.locked(ctx, func(sessionID string) (*View, error) {
		prior, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if prior != nil && (prior.Phase == PhaseCardEntry || prior.Phase == PhaseOTPChallenge) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a payment is in progress; reset checkout first").
				WithDetails(map[string]any{"phase": prior.Phase})
		}

		addresses, err := s.api.ListAddresses(ctx)
		if err != nil {
			return nil, err
		}
		if len(addresses) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "add a shipping address before checkout").
				WithFields(pkgerrors.FieldErrors{"address_id": {"No saved addresses."}})
		}

		item, err := s.store.TakeBuyNowItem(ctx, sessionID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "take buy-now item")
		}
		if item == nil && prior != nil && prior.Order == nil && prior.BuyNow != nil {
			item = prior.BuyNow
		}

		now := s.clock().UTC()
		state := State{
			Phase:     PhaseAddressSelection,
			Source:    enums.CheckoutSourceCart,
			AddressID: defaultAddressID(addresses),
			StartedAt: now,
			UpdatedAt: now,
		}
		if item != nil {
			state.Source = enums.CheckoutSourceBuyNow
			state.BuyNow = item
		}

		quote, err := s.quote(ctx, state)
		if err != nil {
			return nil, err
		}
		if err := s.save(ctx, sessionID, &state); err != nil {
			return nil, err
		}
		from := phaseNone
		if prior != nil {
			from = prior.Phase.String()
		}
		s.metrics.Transition(from, state.Phase.String())
		return &View{State: state, Addresses: addresses, Quote: quote}, nil
	})
}

func (s *service) SelectAddress(ctx context.Context, addressID string) (*View, error) {
	addressID = strings.TrimSpace(addressID)
	if addressID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required").
			WithFields(pkgerrors.FieldErrors{"address_id": {"This field is required."}})
	}
	return s.locked(ctx, func(sessionID string) (*View, error) {
		state, err := s.mustLoad(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		next, err := Transition(state.Phase, EventAddressSelected)
		if err != nil {
			return nil, err
		}
		addresses, err := s.api.ListAddresses(ctx)
		if err != nil {
			return nil, err
		}
		if !hasAddress(addresses, addressID) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown address").
				WithFields(pkgerrors.FieldErrors{"address_id": {"Select one of your saved addresses."}})
		}
		state.AddressID = addressID
		state.Failure = nil
		s.advance(state, next)
		if err := s.save(ctx, sessionID, state); err != nil {
			return nil, err
		}
		return s.view(ctx, *state, addresses)
	})
}

func (s *service) Quote(ctx context.Context) (*Quote, error) {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return nil, err
	}
	state, err := s.mustLoad(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.quote(ctx, *state)
}

// PlaceOrder creates the order. Cash on delivery completes immediately; online
// payment opens a payment session and moves to card entry.
func (s *service) PlaceOrder(ctx context.Context, method enums.PaymentMethod) (*View, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithFields(pkgerrors.FieldErrors{"payment_method": {"Choose cod or online."}})
	}
	event := EventCODPlaced
	if method == enums.PaymentMethodOnline {
		event = EventSessionCreated
	}
	return s.locked(ctx, func(sessionID string) (*View, error) {
		state, err := s.mustLoad(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		next, err := Transition(state.Phase, event)
		if err != nil {
			return nil, err
		}
		if state.AddressID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required").
				WithFields(pkgerrors.FieldErrors{"address_id": {"Select a shipping address."}})
		}
		quote, err := s.quote(ctx, *state)
		if err != nil {
			return nil, err
		}

		order, err := s.api.CreateOrder(ctx, types.CreateOrderRequest{
			AddressID:     state.AddressID,
			PaymentMethod: method.String(),
			Items:         OrderLines(quote.Lines),
		})
		if err != nil {
			return nil, s.fail(ctx, sessionID, state, err)
		}
		state.PaymentMethod = method
		state.Order = order
		state.Failure = nil
		state.AttemptID = s.record(ctx, sessionID, *state, quote.Totals)
		orderCtx := s.logg.WithOrderID(ctx, order.ID)

		if method == enums.PaymentMethodCOD {
			s.metrics.Outcome(method.String(), "placed")
			return s.complete(orderCtx, sessionID, state, next)
		}

		paymentSession, err := s.api.CreatePaymentSession(ctx, order.ID)
		if err != nil {
			s.logg.Warn(orderCtx, "order left without payment session")
			s.markAttempt(orderCtx, state.AttemptID, enums.AttemptStatusOrphaned, err.Error())
			s.metrics.Outcome(method.String(), string(enums.AttemptStatusOrphaned))
			state.Order = nil
			state.AttemptID = ""
			return nil, s.fail(ctx, sessionID, state, err)
		}
		state.PaymentSession = paymentSession
		s.advance(state, next)
		if err := s.save(ctx, sessionID, state); err != nil {
			return nil, err
		}
		return &View{State: *state}, nil
	})
}

func (s *service) SubmitCard(ctx context.Context, card types.CardDetails) (*View, error) {
	card, err := ValidateCard(card)
	if err != nil {
		return nil, err
	}
	return s.locked(ctx, func(sessionID string) (*View, error) {
		state, err := s.mustLoad(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if err := requirePhase(state, PhaseCardEntry); err != nil {
			return nil, err
		}
		result, err := s.api.ProcessCardPayment(ctx, shopapi.ProcessCardRequest{
			OrderID:          state.Order.ID,
			PaymentSessionID: state.PaymentSession.PaymentSessionID,
			CardDetails:      card,
		})
		if err != nil {
			s.markAttempt(ctx, state.AttemptID, enums.AttemptStatusFailed, err.Error())
			return nil, s.fail(ctx, sessionID, state, err)
		}
		return s.settle(ctx, sessionID, state, *result, EventPaymentSucceeded)
	})
}

func (s *service) VerifyOTP(ctx context.Context, otp string) (*View, error) {
	otp = strings.TrimSpace(otp)
	if !ValidOTP(otp) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid otp").
			WithFields(pkgerrors.FieldErrors{"otp": {"Enter the 6 digit code."}})
	}
	return s.locked(ctx, func(sessionID string) (*View, error) {
		state, err := s.mustLoad(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if err := requirePhase(state, PhaseOTPChallenge); err != nil {
			return nil, err
		}
		result, err := s.api.VerifyPaymentOTP(ctx, shopapi.VerifyPaymentOTPRequest{
			OrderID:          state.Order.ID,
			PaymentSessionID: state.PaymentSession.PaymentSessionID,
			PaymentID:        state.PaymentID,
			OTP:              otp,
		})
		if err != nil {
			s.markAttempt(ctx, state.AttemptID, enums.AttemptStatusFailed, err.Error())
			return nil, s.fail(ctx, sessionID, state, err)
		}
		return s.settle(ctx, sessionID, state, *result, EventOTPVerified)
	})
}

// Back leaves the OTP screen and discards the OTP context.
func (s *service) Back(ctx context.Context) (*View, error) {
	return s.locked(ctx, func(sessionID string) (*View, error) {
		state, err := s.mustLoad(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		next, err := Transition(state.Phase, EventBack)
		if err != nil {
			return nil, err
		}
		state.PaymentID = ""
		state.Failure = nil
		s.advance(state, next)
		if err := s.save(ctx, sessionID, state); err != nil {
			return nil, err
		}
		return &View{State: *state}, nil
	})
}

// Reset drops the checkout state. A buy-now item already moved into it is not
// restored.
func (s *service) Reset(ctx context.Context) error {
	_, err := s.locked(ctx, func(sessionID string) (*View, error) {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if err := s.store.ClearCheckout(ctx, sessionID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear checkout")
		}
		if state != nil {
			s.metrics.Transition(state.Phase.String(), phaseNone)
		}
		return nil, nil
	})
	return err
}

// settle applies a card or OTP result. Declines stay in the current phase with
// the failure recorded on the state.
func (s *service) settle(ctx context.Context, sessionID string, state *State, result types.PaymentResult, successEvent Event) (*View, error) {
	method := state.PaymentMethod.String()
	switch {
	case result.Succeeded():
		next, err := Transition(state.Phase, successEvent)
		if err != nil {
			return nil, err
		}
		if result.PaymentID != "" {
			state.PaymentID = result.PaymentID
		}
		s.markAttempt(ctx, state.AttemptID, enums.AttemptStatusPaid, "")
		s.metrics.Outcome(method, string(enums.AttemptStatusPaid))
		return s.complete(s.logg.WithOrderID(ctx, state.Order.ID), sessionID, state, next)
	case result.RequiresOTP && state.Phase == PhaseCardEntry:
		next, err := Transition(state.Phase, EventOTPRequired)
		if err != nil {
			return nil, err
		}
		state.PaymentID = result.PaymentID
		state.Failure = nil
		s.advance(state, next)
		if err := s.save(ctx, sessionID, state); err != nil {
			return nil, err
		}
		return &View{State: *state}, nil
	default:
		message := strings.TrimSpace(result.Message)
		if message == "" {
			message = declinedMessage
		}
		s.markAttempt(ctx, state.AttemptID, enums.AttemptStatusFailed, message)
		s.metrics.Outcome(method, string(enums.AttemptStatusFailed))
		state.Failure = &Failure{Code: declinedCode, Message: message, At: s.clock().UTC()}
		if err := s.save(ctx, sessionID, state); err != nil {
			return nil, err
		}
		return &View{State: *state}, nil
	}
}

// complete finishes a confirmed order: the cart is emptied only when it was
// the source, and the buy-now record is always cleared.
func (s *service) complete(ctx context.Context, sessionID string, state *State, next Phase) (*View, error) {
	if state.Source == enums.CheckoutSourceCart {
		if _, err := s.api.ClearCart(ctx); err != nil {
			s.logg.Error(ctx, "clear cart after order", err)
		}
	}
	if err := s.store.ClearBuyNowItem(ctx, sessionID); err != nil {
		s.logg.Error(ctx, "clear buy-now item after order", err)
	}
	state.Failure = nil
	s.advance(state, next)
	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "checkout completed")
	return &View{State: *state, Completion: s.completion(*state)}, nil
}

func (s *service) completion(state State) *Completion {
	if state.Phase != PhaseDone || state.Order == nil {
		return nil
	}
	return &Completion{
		OrderID:       state.Order.ID,
		OrderNumber:   state.Order.OrderNumber,
		Redirect:      s.cfg.SuccessPath + "?order_id=" + url.QueryEscape(state.Order.ID),
		RedirectDelay: s.cfg.RedirectDelay.Milliseconds(),
	}
}

func (s *service) view(ctx context.Context, state State, addresses []types.Address) (*View, error) {
	out := &View{State: state, Completion: s.completion(state)}
	if state.Phase != PhaseAddressSelection && state.Phase != PhaseOrderReview {
		return out, nil
	}
	if addresses == nil {
		list, err := s.api.ListAddresses(ctx)
		if err != nil {
			return nil, err
		}
		addresses = list
	}
	quote, err := s.quote(ctx, state)
	if err != nil {
		return nil, err
	}
	out.Addresses = addresses
	out.Quote = quote
	return out, nil
}

// quote prices the buy-now item alone when present, otherwise the cart.
func (s *service) quote(ctx context.Context, state State) (*Quote, error) {
	var lines []Line
	if state.Source == enums.CheckoutSourceBuyNow {
		if state.BuyNow == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "buy-now item missing from checkout")
		}
		lines = []Line{NewLine(state.BuyNow.Product, state.BuyNow.Variant, state.BuyNow.Quantity)}
	} else {
		cart, err := s.api.GetCart(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range cart.Items {
			lines = append(lines, NewLine(item.Product, item.Variant, item.Quantity))
		}
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "your cart is empty")
	}
	return &Quote{Source: state.Source, Lines: lines, Totals: ComputeTotals(lines)}, nil
}

func (s *service) record(ctx context.Context, sessionID string, state State, totals Totals) string {
	amount := state.Order.TotalAmount
	if amount.IsZero() {
		amount = totals.Total
	}
	attempt := &Attempt{
		SessionID:     sessionID,
		OrderID:       state.Order.ID,
		OrderNumber:   state.Order.OrderNumber,
		Source:        state.Source,
		PaymentMethod: state.PaymentMethod,
		Amount:        amount,
	}
	if err := s.ledger.Record(ctx, attempt); err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, state.Order.ID), "record checkout attempt", err)
		return ""
	}
	return attempt.ID
}

func (s *service) markAttempt(ctx context.Context, attemptID string, status enums.AttemptStatus, reason string) {
	if attemptID == "" {
		return
	}
	if err := s.ledger.UpdateStatus(ctx, attemptID, status, reason); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "attempt_id", attemptID), "update checkout attempt", err)
	}
}

// fail records err on the state. A 401 has already signed the session out, so
// nothing is written back in that case.
func (s *service) fail(ctx context.Context, sessionID string, state *State, err error) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		return err
	}
	state.Failure = failureFrom(err, s.clock().UTC())
	if saveErr := s.save(ctx, sessionID, state); saveErr != nil {
		s.logg.Error(ctx, "persist checkout failure", saveErr)
	}
	return err
}

func failureFrom(err error, at time.Time) *Failure {
	failure := &Failure{Code: string(pkgerrors.CodeOf(err)), Message: err.Error(), At: at}
	if typed := pkgerrors.As(err); typed != nil {
		failure.Message = typed.Message()
		if fields := typed.Fields(); len(fields) > 0 {
			failure.Fields = fields
		}
	}
	return failure
}

func (s *service) advance(state *State, next Phase) {
	if state.Phase != next {
		s.metrics.Transition(state.Phase.String(), next.String())
	}
	state.Phase = next
}

func (s *service) locked(ctx context.Context, fn func(sessionID string) (*View, error)) (*View, error) {
	sessionID, err := session.RequireID(ctx)
	if err != nil {
		return nil, err
	}
	release, ok, err := s.locker.TryLock(ctx, lockPrefix+sessionID, s.cfg.LockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout request already in progress")
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logg.Warn(ctx, "release checkout lock failed: "+err.Error())
		}
	}()
	return fn(sessionID)
}

func (s *service) load(ctx context.Context, sessionID string) (*State, error) {
	var state State
	found, err := s.store.Checkout(ctx, sessionID, &state)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout")
	}
	if !found {
		return nil, nil
	}
	return &state, nil
}

func (s *service) mustLoad(ctx context.Context, sessionID string) (*State, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, noCheckoutMessage)
	}
	return state, nil
}

func (s *service) save(ctx context.Context, sessionID string, state *State) error {
	state.UpdatedAt = s.clock().UTC()
	if err := s.store.SaveCheckout(ctx, sessionID, state); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout")
	}
	return nil
}

func requirePhase(state *State, phase Phase) error {
	if state.Phase != phase || state.Order == nil || state.PaymentSession == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is not awaiting this step").
			WithDetails(map[string]any{"phase": state.Phase, "expected": phase})
	}
	return nil
}

func defaultAddressID(addresses []types.Address) string {
	for _, address := range addresses {
		if address.IsDefault {
			return address.ID
		}
	}
	if len(addresses) > 0 {
		return addresses[0].ID
	}
	return ""
}

func hasAddress(addresses []types.Address, id string) bool {
	for _, address := range addresses {
		if address.ID == id {
			return true
		}
	}
	return false
}
