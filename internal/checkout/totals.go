package checkout

import (
	"github.com/angelmondragon/storefront-bff/pkg/types"
	"github.com/shopspring/decimal"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(500)
	ShippingFee           = decimal.NewFromInt(50)
	TaxRate               = decimal.RequireFromString("0.18")
)

// Line is one priced item of the checkout.
type Line struct {
	Product   types.Product   `json:"product"`
	Variant   *types.Variant  `json:"variant,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Totals are advisory; the remote API computes the charged amount.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func NewLine(product types.Product, variant *types.Variant, quantity int) Line {
	unit := types.UnitPrice(product, variant)
	return Line{
		Product:   product,
		Variant:   variant,
		Quantity:  quantity,
		UnitPrice: unit,
		LineTotal: unit.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// Shipping is free from the threshold up.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

// ComputeTotals applies the flat tax to the subtotal only, without rounding.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	shipping := Shipping(subtotal)
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// OrderLines denormalizes the lines for order creation.
func OrderLines(lines []Line) []types.OrderLine {
	out := make([]types.OrderLine, 0, len(lines))
	for _, line := range lines {
		ol := types.OrderLine{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		}
		if line.Variant != nil && line.Variant.ID != "" {
			id := line.Variant.ID
			ol.VariantID = &id
		}
		out = append(out, ol)
	}
	return out
}
