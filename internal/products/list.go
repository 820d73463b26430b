package products

import (
	"strings"

	"github.com/angelmondragon/storefront-bff/internal/shopapi"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/shopspring/decimal"
)

const maxPageSize = 100

// sort keys exposed to shoppers, mapped to the remote ordering parameter
var orderings = map[string]string{
	"":           "",
	"newest":     "-created_at",
	"price_asc":  "price",
	"price_desc": "-price",
	"name":       "name",
	"rating":     "-average_rating",
	"popular":    "-review_count",
}

// ListQuery is the listing filter accepted from the storefront.
type ListQuery struct {
	Page       int
	PageSize   int
	Category   string
	Collection string
	Search     string
	Sort       string
	MinPrice   string
	MaxPrice   string
	InStock    *bool
}

func (q ListQuery) toAPI() (shopapi.ProductQuery, error) {
	fields := pkgerrors.FieldErrors{}

	ordering, ok := orderings[strings.ToLower(strings.TrimSpace(q.Sort))]
	if !ok {
		fields["sort"] = []string{"Unsupported sort option."}
	}
	if q.Page < 0 {
		fields["page"] = []string{"Must be positive."}
	}
	if q.PageSize < 0 || q.PageSize > maxPageSize {
		fields["page_size"] = []string{"Must be between 1 and 100."}
	}

	minPrice, minOK := parsePrice(q.MinPrice)
	if !minOK {
		fields["min_price"] = []string{"Enter a valid amount."}
	}
	maxPrice, maxOK := parsePrice(q.MaxPrice)
	if !maxOK {
		fields["max_price"] = []string{"Enter a valid amount."}
	}
	if minOK && maxOK && minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		fields["min_price"] = append(fields["min_price"], "Must not exceed max_price.")
	}

	if len(fields) > 0 {
		return shopapi.ProductQuery{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid product query").WithFields(fields)
	}
	return shopapi.ProductQuery{
		Page:       q.Page,
		PageSize:   q.PageSize,
		Category:   q.Category,
		Collection: q.Collection,
		Search:     q.Search,
		Ordering:   ordering,
		MinPrice:   strings.TrimSpace(q.MinPrice),
		MaxPrice:   strings.TrimSpace(q.MaxPrice),
		InStock:    q.InStock,
	}, nil
}

func parsePrice(raw string) (*decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, false
	}
	return &d, true
}
