package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront-bff/pkg/db"
	"github.com/angelmondragon/storefront-bff/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Attempt is one order created through the checkout flow.
type Attempt struct {
	ID            string               `gorm:"column:id;primaryKey"`
	SessionID     string               `gorm:"column:session_id"`
	OrderID       string               `gorm:"column:order_id"`
	OrderNumber   string               `gorm:"column:order_number"`
	Source        enums.CheckoutSource `gorm:"column:source"`
	PaymentMethod enums.PaymentMethod  `gorm:"column:payment_method"`
	Status        enums.AttemptStatus  `gorm:"column:status"`
	Amount        decimal.Decimal      `gorm:"column:amount"`
	FailureReason string               `gorm:"column:failure_reason"`
	CreatedAt     time.Time            `gorm:"column:created_at"`
	UpdatedAt     time.Time            `gorm:"column:updated_at"`
}

func (Attempt) TableName() string { return "checkout_attempts" }

// Ledger persists checkout attempts.
type Ledger interface {
	Record(ctx context.Context, attempt *Attempt) error
	UpdateStatus(ctx context.Context, id string, status enums.AttemptStatus, reason string) error
	MarkAbandoned(ctx context.Context, cutoff time.Time) ([]Attempt, error)
}

var ErrAttemptNotFound = errors.New("checkout attempt not found")

type ledger struct {
	client *db.Client
	clock  func() time.Time
}

// NewLedger returns the gorm-backed ledger over the checkout_attempts table.
func NewLedger(client *db.Client) (Ledger, error) {
	if client == nil || client.DB() == nil {
		return nil, errors.New("db is required for the checkout ledger")
	}
	return &ledger{client: client, clock: time.Now}, nil
}

func (l *ledger) Record(ctx context.Context, attempt *Attempt) error {
	now := l.clock().UTC()
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.Status == "" {
		attempt.Status = enums.AttemptStatusPending
	}
	attempt.CreatedAt = now
	attempt.UpdatedAt = now
	return l.client.DB().WithContext(ctx).Create(attempt).Error
}

func (l *ledger) UpdateStatus(ctx context.Context, id string, status enums.AttemptStatus, reason string) error {
	res := l.client.DB().WithContext(ctx).
		Model(&Attempt{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         status,
			"failure_reason": reason,
			"updated_at":     l.clock().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAttemptNotFound
	}
	return nil
}

// MarkAbandoned flips online attempts still pending before cutoff to abandoned
// and returns them. Cash-on-delivery orders stay pending until delivery.
func (l *ledger) MarkAbandoned(ctx context.Context, cutoff time.Time) ([]Attempt, error) {
	var stale []Attempt
	err := l.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("status = ? AND payment_method = ? AND created_at < ?", enums.AttemptStatusPending, enums.PaymentMethodOnline, cutoff.UTC()).
			Order("created_at").
			Find(&stale).Error; err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}
		ids := make([]string, 0, len(stale))
		for _, attempt := range stale {
			ids = append(ids, attempt.ID)
		}
		return tx.Model(&Attempt{}).
			Where("id IN ? AND status = ?", ids, enums.AttemptStatusPending).
			Updates(map[string]any{
				"status":     enums.AttemptStatusAbandoned,
				"updated_at": l.clock().UTC(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	for i := range stale {
		stale[i].Status = enums.AttemptStatusAbandoned
	}
	return stale, nil
}
