package products

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-bff/internal/shopapi"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/types"
	"golang.org/x/sync/errgroup"
)

// HomePath is offered as the way out of a missing product.
const HomePath = "/"

type API interface {
	ListProducts(ctx context.Context, query shopapi.ProductQuery) (*types.Page[types.Product], error)
	GetProduct(ctx context.Context, slug string) (*types.Product, error)
	ListCollections(ctx context.Context) ([]types.Collection, error)
	ProductsByTag(ctx context.Context, slug string, query shopapi.ProductQuery) (*types.Page[types.Product], error)
	SearchProducts(ctx context.Context, q string, page int) (*types.Page[types.Product], error)
	ProductReviews(ctx context.Context, productID string, page int) (*types.Page[types.Review], error)
	ReviewSummary(ctx context.Context, productID string) (*types.ReviewSummary, error)
}

// Detail is the product page aggregate.
type Detail struct {
	Product types.Product       `json:"product"`
	Reviews []types.Review      `json:"reviews"`
	Summary types.ReviewSummary `json:"review_summary"`
}

type Service interface {
	List(ctx context.Context, query ListQuery) (*types.Page[types.Product], error)
	Detail(ctx context.Context, slug string) (*Detail, error)
	Get(ctx context.Context, slug string) (*types.Product, error)
	Collections(ctx context.Context) ([]types.Collection, error)
	ByTag(ctx context.Context, slug string, query ListQuery) (*types.Page[types.Product], error)
	Search(ctx context.Context, q string, page int) (*types.Page[types.Product], error)
}

type ServiceParams struct {
	API    API
	Logger *logger.Logger
}

type service struct {
	api  API
	logg *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products api is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: params.API, logg: logg}, nil
}

func (s *service) List(ctx context.Context, query ListQuery) (*types.Page[types.Product], error) {
	q, err := query.toAPI()
	if err != nil {
		return nil, err
	}
	return s.api.ListProducts(ctx, q)
}

func (s *service) Get(ctx context.Context, slug string) (*types.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, notFound()
	}
	product, err := s.api.GetProduct(ctx, slug)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, notFound()
		}
		return nil, err
	}
	return product, nil
}

// Detail loads the product, then its reviews and rating summary concurrently.
// Review failures leave those sections empty rather than failing the page.
func (s *service) Detail(ctx context.Context, slug string) (*Detail, error) {
	product, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	detail := &Detail{
		Product: *product,
		Reviews: []types.Review{},
		Summary: types.ReviewSummary{Distribution: map[string]int{}},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.api.ProductReviews(gctx, product.ID, 1)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "product_id", product.ID), "product reviews unavailable: "+err.Error())
			return nil
		}
		detail.Reviews = page.Results
		return nil
	})
	g.Go(func() error {
		summary, err := s.api.ReviewSummary(gctx, product.ID)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "product_id", product.ID), "review summary unavailable: "+err.Error())
			return nil
		}
		detail.Summary = *summary
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *service) Collections(ctx context.Context) ([]types.Collection, error) {
	return s.api.ListCollections(ctx)
}

func (s *service) ByTag(ctx context.Context, slug string, query ListQuery) (*types.Page[types.Product], error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tag is required")
	}
	q, err := query.toAPI()
	if err != nil {
		return nil, err
	}
	return s.api.ProductsByTag(ctx, slug, q)
}

func (s *service) Search(ctx context.Context, q string, page int) (*types.Page[types.Product], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required").
			WithFields(pkgerrors.FieldErrors{"q": {"This field is required."}})
	}
	if page < 0 {
		page = 0
	}
	return s.api.SearchProducts(ctx, q, page)
}

func notFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
		WithDetails(map[string]any{"back_to": HomePath})
}
