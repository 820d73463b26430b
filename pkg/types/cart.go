package types

import "github.com/shopspring/decimal"

type CartItem struct {
	ID       string          `json:"id"`
	Product  Product         `json:"product"`
	Variant  *Variant        `json:"variant,omitempty"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Cart mirrors the server's cart snapshot. Totals are server-computed.
type Cart struct {
	ID             string          `json:"id"`
	Items          []CartItem      `json:"items"`
	TotalItems     int             `json:"total_items"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

// Contains reports whether the product (and variant, when given) is in the cart.
func (c Cart) Contains(productID, variantID string) bool {
	return c.FindItem(productID, variantID) != nil
}

// FindItem returns the line for a product, matching the variant when variantID is set.
func (c Cart) FindItem(productID, variantID string) *CartItem {
	for i := range c.Items {
		item := &c.Items[i]
		if item.Product.ID != productID {
			continue
		}
		if variantID == "" {
			return item
		}
		if item.Variant != nil && item.Variant.ID == variantID {
			return item
		}
	}
	return nil
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

type WishlistItem struct {
	ID      string  `json:"id"`
	Product Product `json:"product"`
	AddedAt string  `json:"added_at,omitempty"`
}

type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

func (w Wishlist) Contains(productID string) bool {
	return w.FindItem(productID) != nil
}

func (w Wishlist) FindItem(productID string) *WishlistItem {
	for i := range w.Items {
		if w.Items[i].Product.ID == productID {
			return &w.Items[i]
		}
	}
	return nil
}

// BuyNowItem is the single-item express checkout selection held in the session.
type BuyNowItem struct {
	Product  Product  `json:"product"`
	Variant  *Variant `json:"variant,omitempty"`
	Quantity int      `json:"quantity"`
}
