package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-bff/internal/shopapi"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/lock"
	"github.com/angelmondragon/storefront-bff/pkg/session"
	"github.com/angelmondragon/storefront-bff/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	mu sync.Mutex

	addresses []types.Address
	cart      types.Cart

	orderErr   error
	sessionErr error
	cardResult types.PaymentResult
	cardErr    error
	otpResult  types.PaymentResult
	onCard     func()

	orders      []types.CreateOrderRequest
	cardCalls   []shopapi.ProcessCardRequest
	otpCalls    []shopapi.VerifyPaymentOTPRequest
	cartCleared int
}

func (s *stubAPI) ListAddresses(context.Context) ([]types.Address, error) {
	return s.addresses, nil
}

func (s *stubAPI) GetCart(context.Context) (*types.Cart, error) {
	cart := s.cart
	return &cart, nil
}

func (s *stubAPI) ClearCart(context.Context) (*types.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartCleared++
	s.cart.Items = nil
	return &types.Cart{}, nil
}

func (s *stubAPI) CreateOrder(_ context.Context, req types.CreateOrderRequest) (*types.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	s.orders = append(s.orders, req)
	id := "order-" + string(rune('0'+len(s.orders)))
	return &types.Order{ID: id, OrderNumber: "ORD-" + id, Status: "pending", TotalAmount: decimal.NewFromInt(1180)}, nil
}

func (s *stubAPI) CreatePaymentSession(_ context.Context, orderID string) (*types.PaymentSession, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	return &types.PaymentSession{PaymentSessionID: "ps_" + orderID, OrderAmount: decimal.NewFromInt(1180), OrderCurrency: "INR"}, nil
}

func (s *stubAPI) ProcessCardPayment(_ context.Context, req shopapi.ProcessCardRequest) (*types.PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cardCalls = append(s.cardCalls, req)
	if s.onCard != nil {
		s.onCard()
	}
	if s.cardErr != nil {
		return nil, s.cardErr
	}
	result := s.cardResult
	return &result, nil
}

func (s *stubAPI) VerifyPaymentOTP(_ context.Context, req shopapi.VerifyPaymentOTPRequest) (*types.PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otpCalls = append(s.otpCalls, req)
	result := s.otpResult
	return &result, nil
}

type memoryLedger struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{attempts: map[string]*Attempt{}}
}

func (m *memoryLedger) Record(_ context.Context, attempt *Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	attempt.ID = "att-" + attempt.OrderID
	if attempt.Status == "" {
		attempt.Status = enums.AttemptStatusPending
	}
	copied := *attempt
	m.attempts[attempt.ID] = &copied
	return nil
}

func (m *memoryLedger) UpdateStatus(_ context.Context, id string, status enums.AttemptStatus, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	attempt, ok := m.attempts[id]
	if !ok {
		return ErrAttemptNotFound
	}
	attempt.Status = status
	attempt.FailureReason = reason
	return nil
}

func (m *memoryLedger) byOrder(orderID string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, attempt := range m.attempts {
		if attempt.OrderID == orderID {
			copied := *attempt
			return &copied, nil
		}
	}
	return nil, ErrAttemptNotFound
}

func (m *memoryLedger) MarkAbandoned(context.Context, time.Time) ([]Attempt, error) {
	return nil, nil
}

func (m *memoryLedger) status(t *testing.T, orderID string) enums.AttemptStatus {
	t.Helper()
	attempt, err := m.byOrder(orderID)
	require.NoError(t, err)
	return attempt.Status
}

type fixture struct {
	svc    Service
	api    *stubAPI
	store  *session.Store
	ledger *memoryLedger
	locker *lock.MemoryLocker
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := &stubAPI{
		addresses: []types.Address{
			{ID: "a1", FullName: "Asha Rao"},
			{ID: "a2", FullName: "Asha Rao", IsDefault: true},
		},
		cart: types.Cart{Items: []types.CartItem{
			{ID: "ci1", Product: types.Product{ID: "p1", Price: dec("250")}, Quantity: 4},
		}},
	}
	store := session.NewStore(session.NewMemoryBackend(), time.Hour)
	ledger := newMemoryLedger()
	locker := lock.NewMemoryLocker()
	svc, err := NewService(ServiceParams{
		API:    api,
		Store:  store,
		Locker: locker,
		Ledger: ledger,
		Config: config.CheckoutConfig{RedirectDelay: 2 * time.Second, SuccessPath: "/payment-success"},
	})
	require.NoError(t, err)
	return &fixture{
		svc:    svc,
		api:    api,
		store:  store,
		ledger: ledger,
		locker: locker,
		ctx:    session.WithID(context.Background(), "sess-1"),
	}
}

func (f *fixture) toCardEntry(t *testing.T) *View {
	t.Helper()
	_, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.svc.SelectAddress(f.ctx, "a1")
	require.NoError(t, err)
	view, err := f.svc.PlaceOrder(f.ctx, enums.PaymentMethodOnline)
	require.NoError(t, err)
	require.Equal(t, PhaseCardEntry, view.State.Phase)
	return view
}

func validCard() types.CardDetails {
	return types.CardDetails{
		Number:      "4111 1111 1111 1111",
		HolderName:  "Asha Rao",
		ExpiryMonth: "12",
		ExpiryYear:  "29",
		CVV:         "123",
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewService(ServiceParams{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestBeginPreselectsDefaultAddressAndQuotesCart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	view, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseAddressSelection, view.State.Phase)
	assert.Equal(t, enums.CheckoutSourceCart, view.State.Source)
	assert.Equal(t, "a2", view.State.AddressID)
	assert.Len(t, view.Addresses, 2)
	require.NotNil(t, view.Quote)
	assert.Equal(t, "1180", view.Quote.Totals.Total.String())

	current, err := f.svc.Current(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseAddressSelection, current.State.Phase)
}

func TestBeginRequiresAnAddress(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.api.addresses = nil
	require.NoError(t, f.store.SetBuyNowItem(f.ctx, "sess-1", types.BuyNowItem{Product: types.Product{ID: "p9"}, Quantity: 1}))

	_, err := f.svc.Begin(f.ctx)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	item, err := f.store.BuyNowItem(f.ctx, "sess-1")
	require.NoError(t, err)
	assert.NotNil(t, item, "buy-now item must survive a blocked checkout")
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.api.cart = types.Cart{}

	_, err := f.svc.Begin(f.ctx)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCurrentWithoutCheckout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	view, err := f.svc.Current(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, view)

	_, err = f.svc.Current(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSelectAddressValidatesOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)

	_, err = f.svc.SelectAddress(f.ctx, "someone-else")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Contains(t, pkgerrors.As(err).Fields(), "address_id")

	view, err := f.svc.SelectAddress(f.ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, PhaseOrderReview, view.State.Phase)
	assert.Equal(t, "a1", view.State.AddressID)
}

func TestPlaceOrderBeforeReviewIsStateConflict(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(f.ctx, enums.PaymentMethodCOD)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(f.ctx, enums.PaymentMethodCOD)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.Empty(t, f.api.orders)
}

func TestCODCompletesAndClearsCart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.svc.SelectAddress(f.ctx, "a1")
	require.NoError(t, err)

	view, err := f.svc.PlaceOrder(f.ctx, enums.PaymentMethodCOD)
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, view.State.Phase)
	require.NotNil(t, view.Completion)
	assert.Equal(t, "/payment-success?order_id=order-1", view.Completion.Redirect)
	assert.Equal(t, int64(2000), view.Completion.RedirectDelay)

	require.Len(t, f.api.orders, 1)
	req := f.api.orders[0]
	assert.Equal(t, "a1", req.AddressID)
	assert.Equal(t, "cod", req.PaymentMethod)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "p1", req.Items[0].ProductID)
	assert.Equal(t, 4, req.Items[0].Quantity)

	assert.Equal(t, 1, f.api.cartCleared)
	assert.Equal(t, enums.AttemptStatusPending, f.ledger.status(t, "order-1"))
}

func TestBuyNowIsExclusiveAndLeavesCartUntouched(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	price := dec("700")
	require.NoError(t, f.store.SetBuyNowItem(f.ctx, "sess-1", types.BuyNowItem{
		Product:  types.Product{ID: "p9", Price: dec("650")},
		Variant:  &types.Variant{ID: "v9", Price: &price},
		Quantity: 1,
	}))

	view, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutSourceBuyNow, view.State.Source)
	require.Len(t, view.Quote.Lines, 1)
	assert.Equal(t, "700", view.Quote.Totals.Subtotal.String())

	taken, err := f.store.BuyNowItem(f.ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, taken, "buy-now item is consumed by begin")

	_, err = f.svc.SelectAddress(f.ctx, "a2")
	require.NoError(t, err)
	f.api.cardResult = types.PaymentResult{PaymentStatus: "SUCCESS", PaymentID: "cf_1"}
	_, err = f.svc.PlaceOrder(f.ctx, enums.PaymentMethodOnline)
	require.NoError(t, err)
	done, err := f.svc.SubmitCard(f.ctx, validCard())
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, done.State.Phase)

	require.Len(t, f.api.orders, 1)
	items := f.api.orders[0].Items
	require.Len(t, items, 1)
	assert.Equal(t, "p9", items[0].ProductID)
	require.NotNil(t, items[0].VariantID)
	assert.Equal(t, "v9", *items[0].VariantID)
	assert.True(t, items[0].Price.Equal(price))

	assert.Zero(t, f.api.cartCleared)
	assert.Len(t, f.api.cart.Items, 1)
}

func TestBeginAgainKeepsUnorderedBuyNowItem(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	require.NoError(t, f.store.SetBuyNowItem(f.ctx, "sess-1", types.BuyNowItem{Product: types.Product{ID: "p9", Price: dec("10")}, Quantity: 2}))

	_, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)
	view, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutSourceBuyNow, view.State.Source)
	require.NotNil(t, view.State.BuyNow)
	assert.Equal(t, "p9", view.State.BuyNow.Product.ID)
}

func TestCardSuccessRedirectsWithoutOTP(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	entry := f.toCardEntry(t)
	assert.Equal(t, "ps_order-1", entry.State.PaymentSession.PaymentSessionID)

	f.api.cardResult = types.PaymentResult{PaymentStatus: "SUCCESS", PaymentID: "cf_1"}
	view, err := f.svc.SubmitCard(f.ctx, validCard())
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, view.State.Phase)
	require.NotNil(t, view.Completion)
	assert.Empty(t, f.api.otpCalls)

	require.Len(t, f.api.cardCalls, 1)
	assert.Equal(t, "4111111111111111", f.api.cardCalls[0].Number)
	assert.Equal(t, "order-1", f.api.cardCalls[0].OrderID)
	assert.Equal(t, enums.AttemptStatusPaid, f.ledger.status(t, "order-1"))
	assert.Equal(t, 1, f.api.cartCleared)
}

func TestCardRequiringOTPMovesToChallenge(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.toCardEntry(t)

	f.api.cardResult = types.PaymentResult{PaymentStatus: "PENDING", RequiresOTP: true, PaymentID: "cf_9"}
	view, err := f.svc.SubmitCard(f.ctx, validCard())
	require.NoError(t, err)
	assert.Equal(t, PhaseOTPChallenge, view.State.Phase)
	assert.Nil(t, view.Completion)
	assert.Zero(t, f.api.cartCleared)

	_, err = f.svc.VerifyOTP(f.ctx, "12ab")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, f.api.otpCalls)

	f.api.otpResult = types.PaymentResult{PaymentStatus: "FAILED", Message: "Incorrect OTP"}
	view, err = f.svc.VerifyOTP(f.ctx, "000000")
	require.NoError(t, err)
	assert.Equal(t, PhaseOTPChallenge, view.State.Phase)
	require.NotNil(t, view.State.Failure)
	assert.Equal(t, "Incorrect OTP", view.State.Failure.Message)

	f.api.otpResult = types.PaymentResult{PaymentStatus: "SUCCESS"}
	view, err = f.svc.VerifyOTP(f.ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, view.State.Phase)
	assert.Nil(t, view.State.Failure)

	require.Len(t, f.api.otpCalls, 2)
	assert.Equal(t, "cf_9", f.api.otpCalls[1].PaymentID)
	assert.Equal(t, "ps_order-1", f.api.otpCalls[1].PaymentSessionID)
	assert.Equal(t, enums.AttemptStatusPaid, f.ledger.status(t, "order-1"))
}

func TestBackDiscardsOTPContext(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.toCardEntry(t)

	_, err := f.svc.Back(f.ctx)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	f.api.cardResult = types.PaymentResult{RequiresOTP: true, PaymentID: "cf_9"}
	_, err = f.svc.SubmitCard(f.ctx, validCard())
	require.NoError(t, err)

	view, err := f.svc.Back(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseCardEntry, view.State.Phase)
	assert.Empty(t, view.State.PaymentID)
	assert.NotNil(t, view.State.PaymentSession)
}

func TestCardValidationHappensBeforeNetwork(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.toCardEntry(t)

	card := validCard()
	card.Number = "411111"
	_, err := f.svc.SubmitCard(f.ctx, card)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, f.api.cardCalls)

	current, err := f.svc.Current(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, current.State.Failure)
}

func TestCardDeclineStaysResumable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.toCardEntry(t)

	f.api.cardResult = types.PaymentResult{PaymentStatus: "FAILED"}
	view, err := f.svc.SubmitCard(f.ctx, validCard())
	require.NoError(t, err)
	assert.Equal(t, PhaseCardEntry, view.State.Phase)
	require.NotNil(t, view.State.Failure)
	assert.Equal(t, declinedMessage, view.State.Failure.Message)
	assert.Equal(t, enums.AttemptStatusFailed, f.ledger.status(t, "order-1"))

	f.api.cardResult = types.PaymentResult{PaymentStatus: "SUCCESS"}
	view, err = f.svc.SubmitCard(f.ctx, validCard())
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, view.State.Phase)
	assert.Equal(t, enums.AttemptStatusPaid, f.ledger.status(t, "order-1"))
}

func TestCardTransportErrorIsRecorded(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.toCardEntry(t)

	f.api.cardErr = pkgerrors.New(pkgerrors.CodeNetwork, "network error")
	_, err := f.svc.SubmitCard(f.ctx, validCard())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNetwork))

	current, err := f.svc.Current(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseCardEntry, current.State.Phase)
	require.NotNil(t, current.State.Failure)
	assert.Equal(t, string(pkgerrors.CodeNetwork), current.State.Failure.Code)
}

func TestUnauthorizedDoesNotResurrectSignedOutState(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.toCardEntry(t)

	// the API client signs the session out when the remote API answers 401
	f.api.onCard = func() { require.NoError(t, f.store.SignOut(f.ctx, "sess-1")) }
	f.api.cardErr = pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	_, err := f.svc.SubmitCard(f.ctx, validCard())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	view, err := f.svc.Current(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, view, "checkout state must stay cleared after sign-out")
}

func TestPaymentSessionFailureOrphansOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.svc.SelectAddress(f.ctx, "a1")
	require.NoError(t, err)

	f.api.sessionErr = pkgerrors.New(pkgerrors.CodeUpstream, "gateway down")
	_, err = f.svc.PlaceOrder(f.ctx, enums.PaymentMethodOnline)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUpstream))
	assert.Equal(t, enums.AttemptStatusOrphaned, f.ledger.status(t, "order-1"))

	current, err := f.svc.Current(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseOrderReview, current.State.Phase)
	assert.Nil(t, current.State.Order)
	require.NotNil(t, current.State.Failure)
	assert.Equal(t, "gateway down", current.State.Failure.Message)

	f.api.sessionErr = nil
	view, err := f.svc.PlaceOrder(f.ctx, enums.PaymentMethodOnline)
	require.NoError(t, err)
	assert.Equal(t, "order-2", view.State.Order.ID)
	assert.Nil(t, view.State.Failure)
}

func TestCreateOrderErrorKeepsReview(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.svc.SelectAddress(f.ctx, "a1")
	require.NoError(t, err)

	f.api.orderErr = pkgerrors.New(pkgerrors.CodeValidation, "Product out of stock")
	_, err = f.svc.PlaceOrder(f.ctx, enums.PaymentMethodCOD)
	require.Error(t, err)

	current, err := f.svc.Current(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseOrderReview, current.State.Phase)
	require.NotNil(t, current.State.Failure)
	assert.Equal(t, "Product out of stock", current.State.Failure.Message)
	assert.Zero(t, f.api.cartCleared)
}

func TestPlaceOrderRejectsUnknownMethod(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(f.ctx, enums.PaymentMethod("upi"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Contains(t, pkgerrors.As(err).Fields(), "payment_method")
}

func TestConcurrentSubmitIsConflict(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.toCardEntry(t)

	release, ok, err := f.locker.TryLock(f.ctx, "checkout:sess-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.svc.SubmitCard(f.ctx, validCard())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Empty(t, f.api.cardCalls)

	require.NoError(t, release(f.ctx))
	f.api.cardResult = types.PaymentResult{PaymentStatus: "SUCCESS"}
	_, err = f.svc.SubmitCard(f.ctx, validCard())
	assert.NoError(t, err)
}

func TestBeginDuringPaymentRequiresReset(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.toCardEntry(t)

	_, err := f.svc.Begin(f.ctx)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	require.NoError(t, f.svc.Reset(f.ctx))
	current, err := f.svc.Current(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	view, err := f.svc.Begin(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseAddressSelection, view.State.Phase)
}

func TestQuoteWithoutCheckout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Quote(f.ctx)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestFailureFromPlainError(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	failure := failureFrom(errors.New("boom"), at)
	assert.Equal(t, string(pkgerrors.CodeInternal), failure.Code)
	assert.Equal(t, "boom", failure.Message)
	assert.Equal(t, at, failure.At)
}
