package reviews

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-bff/internal/shopapi"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

const (
	MinRating = 1
	MaxRating = 5
)

type API interface {
	ProductReviews(ctx context.Context, productID string, page int) (*types.Page[types.Review], error)
	ReviewSummary(ctx context.Context, productID string) (*types.ReviewSummary, error)
	CreateReview(ctx context.Context, req shopapi.CreateReviewRequest) (*types.Review, error)
}

type CreateInput struct {
	ProductID string
	Rating    int
	Title     string
	Comment   string
}

type Service interface {
	List(ctx context.Context, productID string, page int) (*types.Page[types.Review], error)
	Summary(ctx context.Context, productID string) (*types.ReviewSummary, error)
	Create(ctx context.Context, input CreateInput) (*types.Review, error)
}

type service struct {
	api API
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviews api is required")
	}
	return &service{api: api}, nil
}

func (s *service) List(ctx context.Context, productID string, page int) (*types.Page[types.Review], error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.api.ProductReviews(ctx, productID, page)
}

func (s *service) Summary(ctx context.Context, productID string) (*types.ReviewSummary, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.api.ReviewSummary(ctx, productID)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*types.Review, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return s.api.CreateReview(ctx, shopapi.CreateReviewRequest{
		ProductID: strings.TrimSpace(input.ProductID),
		Rating:    input.Rating,
		Title:     strings.TrimSpace(input.Title),
		Comment:   strings.TrimSpace(input.Comment),
	})
}

func (in CreateInput) validate() error {
	fields := pkgerrors.FieldErrors{}
	if strings.TrimSpace(in.ProductID) == "" {
		fields["product_id"] = []string{"This field is required."}
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		fields["rating"] = []string{"Rating must be between 1 and 5."}
	}
	if strings.TrimSpace(in.Comment) == "" {
		fields["comment"] = []string{"This field is required."}
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid review").WithFields(fields)
	}
	return nil
}
