package consultations

import (
	"context"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
	"github.com/angelmondragon/storefront-bff/pkg/validation"
)

const DateLayout = "2006-01-02"

type API interface {
	BookConsultation(ctx context.Context, booking types.Consultation) (*types.Consultation, error)
	ListConsultations(ctx context.Context) ([]types.Consultation, error)
}

// BookingInput is the consultation form.
type BookingInput struct {
	Name          string `json:"name" validate:"required,max=120"`
	Phone         string `json:"phone" validate:"required,phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	PreferredDate string `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime string `json:"preferred_time" validate:"omitempty,max=32"`
	Topic         string `json:"topic" validate:"required,max=120"`
	Message       string `json:"message" validate:"omitempty,max=2000"`
}

type Service interface {
	Book(ctx context.Context, input BookingInput) (*types.Consultation, error)
	List(ctx context.Context) ([]types.Consultation, error)
}

type service struct {
	api   API
	clock func() time.Time
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consultations api is required")
	}
	return &service{api: api, clock: time.Now}, nil
}

func (s *service) Book(ctx context.Context, input BookingInput) (*types.Consultation, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	input.PreferredDate = strings.TrimSpace(input.PreferredDate)
	input.Topic = strings.TrimSpace(input.Topic)
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	now := s.clock()
	preferred, _ := time.ParseInLocation(DateLayout, input.PreferredDate, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if preferred.Before(today) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "preferred date cannot be in the past").
			WithFields(pkgerrors.FieldErrors{"preferred_date": {"must be today or later"}})
	}

	return s.api.BookConsultation(ctx, types.Consultation{
		Name:          input.Name,
		Phone:         input.Phone,
		Email:         input.Email,
		PreferredDate: input.PreferredDate,
		PreferredTime: strings.TrimSpace(input.PreferredTime),
		Topic:         input.Topic,
		Message:       strings.TrimSpace(input.Message),
	})
}

func (s *service) List(ctx context.Context) ([]types.Consultation, error) {
	list, err := s.api.ListConsultations(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []types.Consultation{}
	}
	return list, nil
}
