package types

import "github.com/shopspring/decimal"

// Variant is a purchasable SKU-level option of a product with its own price.
type Variant struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	SKU   string           `json:"sku,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock int              `json:"stock"`
}

type Product struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	ComparePrice *decimal.Decimal `json:"compare_price,omitempty"`
	Images       []string         `json:"images"`
	Category     string           `json:"category,omitempty"`
	Tags         []string         `json:"tags"`
	Variants     []Variant        `json:"variants"`
	InStock      bool             `json:"in_stock"`
	Rating       float64          `json:"rating"`
	ReviewCount  int              `json:"review_count"`
}

// UnitPrice prefers the variant price over the base product price.
func UnitPrice(product Product, variant *Variant) decimal.Decimal {
	if variant != nil && variant.Price != nil {
		return *variant.Price
	}
	return product.Price
}

// FindVariant returns the product variant with the given id, or nil.
func (p Product) FindVariant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

type Collection struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	ProductCount int    `json:"product_count"`
}

type Review struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Title     string `json:"title,omitempty"`
	Comment   string `json:"comment"`
	UserName  string `json:"user_name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type ReviewSummary struct {
	AverageRating float64        `json:"average_rating"`
	TotalReviews  int            `json:"total_reviews"`
	Distribution  map[string]int `json:"distribution"`
}

// Page is a normalized list response from the remote API.
type Page[T any] struct {
	Results  []T    `json:"results"`
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}
