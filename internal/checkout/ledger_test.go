package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-bff/pkg/db"
	"github.com/angelmondragon/storefront-bff/pkg/enums"
	"github.com/angelmondragon/storefront-bff/pkg/migrate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestLedger(t *testing.T) (*ledger, *time.Time) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Run(context.Background(), sqlDB, "sqlite", "up"))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, err := NewLedger(db.Wrap(conn, "sqlite"))
	require.NoError(t, err)
	impl := l.(*ledger)
	impl.clock = func() time.Time { return now }
	return impl, &now
}

func findAttempt(t *testing.T, l *ledger, orderID string) Attempt {
	t.Helper()
	var attempt Attempt
	require.NoError(t, l.client.DB().Where("order_id = ?", orderID).First(&attempt).Error)
	return attempt
}

func TestLedgerRecordAndUpdate(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	attempt := &Attempt{
		SessionID:     "s1",
		OrderID:       "o1",
		OrderNumber:   "ORD-1",
		Source:        enums.CheckoutSourceCart,
		PaymentMethod: enums.PaymentMethodOnline,
		Amount:        decimal.RequireFromString("1180.50"),
	}
	require.NoError(t, l.Record(ctx, attempt))
	require.NotEmpty(t, attempt.ID)

	found := findAttempt(t, l, "o1")
	assert.Equal(t, enums.AttemptStatusPending, found.Status)
	assert.True(t, found.Amount.Equal(decimal.RequireFromString("1180.50")))

	require.NoError(t, l.UpdateStatus(ctx, attempt.ID, enums.AttemptStatusOrphaned, "session failed"))
	found = findAttempt(t, l, "o1")
	assert.Equal(t, enums.AttemptStatusOrphaned, found.Status)
	assert.Equal(t, "session failed", found.FailureReason)

	assert.ErrorIs(t, l.UpdateStatus(ctx, "missing", enums.AttemptStatusPaid, ""), ErrAttemptNotFound)
}

func TestLedgerMarkAbandonedOnlyTouchesStaleOnlinePending(t *testing.T) {
	ctx := context.Background()
	l, now := newTestLedger(t)

	record := func(orderID string, method enums.PaymentMethod, status enums.AttemptStatus) {
		require.NoError(t, l.Record(ctx, &Attempt{
			SessionID:     "s1",
			OrderID:       orderID,
			Source:        enums.CheckoutSourceCart,
			PaymentMethod: method,
			Status:        status,
			Amount:        decimal.NewFromInt(100),
		}))
	}
	record("stale-online", enums.PaymentMethodOnline, enums.AttemptStatusPending)
	record("stale-cod", enums.PaymentMethodCOD, enums.AttemptStatusPending)
	record("stale-paid", enums.PaymentMethodOnline, enums.AttemptStatusPaid)

	*now = now.Add(2 * time.Hour)
	record("fresh-online", enums.PaymentMethodOnline, enums.AttemptStatusPending)

	stale, err := l.MarkAbandoned(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "stale-online", stale[0].OrderID)
	assert.Equal(t, enums.AttemptStatusAbandoned, stale[0].Status)

	for orderID, want := range map[string]enums.AttemptStatus{
		"stale-online": enums.AttemptStatusAbandoned,
		"stale-cod":    enums.AttemptStatusPending,
		"stale-paid":   enums.AttemptStatusPaid,
		"fresh-online": enums.AttemptStatusPending,
	} {
		assert.Equal(t, want, findAttempt(t, l, orderID).Status, orderID)
	}

	again, err := l.MarkAbandoned(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestNewLedgerRequiresDB(t *testing.T) {
	_, err := NewLedger(nil)
	assert.Error(t, err)
	_, err = NewLedger(db.Wrap(nil, "sqlite"))
	assert.Error(t, err)
}
