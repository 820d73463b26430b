package shopapi

import (
	"github.com/angelmondragon/storefront-bff/pkg/safe"
	"github.com/angelmondragon/storefront-bff/pkg/types"
	"github.com/shopspring/decimal"
)

var listKeys = []string{"results", "data", "items"}

// listOf accepts a bare array or an object wrapping one under results/data/items,
// optionally with count/next/previous pagination fields.
func listOf(v any) (items []any, count int, next, previous string) {
	if arr, ok := v.([]any); ok {
		return arr, len(arr), "", ""
	}
	obj := safe.Map(v)
	if obj == nil {
		return []any{}, 0, "", ""
	}
	items = []any{}
	for _, key := range listKeys {
		if arr, ok := obj[key].([]any); ok {
			items = arr
			break
		}
		// {"data": {"results": [...]}}
		if nested := safe.Map(obj[key]); nested != nil {
			if inner, c, n, p := listOf(nested); len(inner) > 0 || nested["count"] != nil {
				return inner, c, n, p
			}
		}
	}
	count = safe.Int(obj["count"], len(items))
	return items, count, safe.String(obj["next"]), safe.String(obj["previous"])
}

func pageOf[T any](v any, convert func(any) T) *types.Page[T] {
	items, count, next, previous := listOf(v)
	page := &types.Page[T]{
		Results:  make([]T, 0, len(items)),
		Count:    count,
		Next:     next,
		Previous: previous,
	}
	for _, item := range items {
		page.Results = append(page.Results, convert(item))
	}
	return page
}

func sliceOf[T any](v any, convert func(any) T) []T {
	return pageOf(v, convert).Results
}

// unwrap returns obj[key] when the response nests the payload under key.
func unwrap(v any, keys ...string) any {
	obj := safe.Map(v)
	if obj == nil {
		return v
	}
	for _, key := range keys {
		if inner := safe.Map(obj[key]); inner != nil {
			return inner
		}
	}
	return v
}

func idOf(v any) string {
	return safe.String(v)
}

func money(v any) decimal.Decimal {
	return safe.Decimal(v, decimal.Zero)
}

func optionalMoney(v any) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := safe.Decimal(v, decimal.Zero)
	return &d
}

func stringList(v any) []string {
	arr := safe.Array(v, nil)
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		switch value := item.(type) {
		case string:
			out = append(out, value)
		case map[string]any:
			// tags and images arrive either as strings or as {name|slug|image|url} objects
			for _, key := range []string{"name", "slug", "image", "url"} {
				if s := safe.String(value[key]); s != "" {
					out = append(out, s)
					break
				}
			}
		}
	}
	return out
}

func productFrom(v any) types.Product {
	obj := safe.Map(v)
	if obj == nil {
		// some endpoints reference products by bare id
		return types.Product{ID: idOf(v)}
	}
	product := types.Product{
		ID:           idOf(obj["id"]),
		Name:         safe.String(obj["name"]),
		Slug:         safe.String(obj["slug"]),
		Description:  safe.String(obj["description"]),
		Price:        money(obj["price"]),
		ComparePrice: optionalMoney(firstPresent(obj, "compare_price", "original_price", "mrp")),
		Images:       stringList(firstPresent(obj, "images", "image_urls")),
		Tags:         stringList(obj["tags"]),
		InStock:      safe.Bool(firstPresent(obj, "in_stock", "is_in_stock"), true),
		Rating:       safe.Number(firstPresent(obj, "rating", "average_rating"), 0),
		ReviewCount:  safe.Int(firstPresent(obj, "review_count", "reviews_count"), 0),
	}
	if len(product.Images) == 0 {
		if img := safe.String(firstPresent(obj, "image", "primary_image", "thumbnail")); img != "" {
			product.Images = []string{img}
		}
	}
	switch category := obj["category"].(type) {
	case string:
		product.Category = category
	case map[string]any:
		product.Category = safe.StringOr(category["name"], safe.String(category["slug"]))
	}
	for _, raw := range safe.Array(obj["variants"], nil) {
		product.Variants = append(product.Variants, variantFrom(raw))
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	if product.Variants == nil {
		product.Variants = []types.Variant{}
	}
	return product
}

func variantFrom(v any) types.Variant {
	obj := safe.Map(v)
	if obj == nil {
		return types.Variant{ID: idOf(v)}
	}
	return types.Variant{
		ID:    idOf(obj["id"]),
		Name:  safe.StringOr(obj["name"], safe.String(obj["size"])),
		SKU:   safe.String(obj["sku"]),
		Price: optionalMoney(obj["price"]),
		Stock: safe.Int(firstPresent(obj, "stock", "stock_quantity"), 0),
	}
}

func optionalVariant(v any) *types.Variant {
	if v == nil {
		return nil
	}
	variant := variantFrom(v)
	if variant.ID == "" {
		return nil
	}
	return &variant
}

func collectionFrom(v any) types.Collection {
	obj := safe.Map(v)
	return types.Collection{
		ID:           idOf(obj["id"]),
		Name:         safe.String(obj["name"]),
		Slug:         safe.String(obj["slug"]),
		Description:  safe.String(obj["description"]),
		Image:        safe.String(obj["image"]),
		ProductCount: safe.Int(obj["product_count"], 0),
	}
}

func cartItemFrom(v any) types.CartItem {
	obj := safe.Map(v)
	item := types.CartItem{
		ID:       idOf(obj["id"]),
		Product:  productFrom(obj["product"]),
		Variant:  optionalVariant(obj["variant"]),
		Quantity: safe.Int(obj["quantity"], 0),
	}
	if subtotal, ok := obj["subtotal"]; ok {
		item.Subtotal = money(subtotal)
	} else {
		item.Subtotal = types.UnitPrice(item.Product, item.Variant).Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return item
}

// cartFrom reports false when the body does not look like a cart snapshot.
func cartFrom(v any) (types.Cart, bool) {
	obj := safe.Map(unwrap(v, "cart", "data"))
	if obj == nil {
		return types.Cart{}, false
	}
	rawItems, hasItems := obj["items"]
	if !hasItems {
		return types.Cart{}, false
	}
	cart := types.Cart{
		ID:             idOf(obj["id"]),
		Items:          []types.CartItem{},
		DiscountAmount: money(obj["discount_amount"]),
	}
	for _, raw := range safe.Array(rawItems, nil) {
		cart.Items = append(cart.Items, cartItemFrom(raw))
	}
	cart.TotalItems = safe.Int(obj["total_items"], cart.ItemCount())
	cart.TotalAmount = money(firstPresent(obj, "total_amount", "total"))
	if final, ok := obj["final_amount"]; ok {
		cart.FinalAmount = money(final)
	} else {
		cart.FinalAmount = cart.TotalAmount.Sub(cart.DiscountAmount)
	}
	return cart, true
}

func wishlistItemFrom(v any) types.WishlistItem {
	obj := safe.Map(v)
	return types.WishlistItem{
		ID:      idOf(obj["id"]),
		Product: productFrom(obj["product"]),
		AddedAt: safe.String(firstPresent(obj, "added_at", "created_at")),
	}
}

func wishlistFrom(v any) (types.Wishlist, bool) {
	body := unwrap(v, "wishlist")
	if _, isArray := body.([]any); !isArray {
		obj := safe.Map(body)
		if obj == nil {
			return types.Wishlist{}, false
		}
		if _, ok := obj["items"]; !ok {
			if _, ok := obj["results"]; !ok {
				return types.Wishlist{}, false
			}
		}
	}
	return types.Wishlist{Items: sliceOf(body, wishlistItemFrom)}, true
}

func userFrom(v any) types.User {
	obj := safe.Map(unwrap(v, "user", "profile"))
	return types.User{
		ID:        idOf(obj["id"]),
		Email:     safe.String(obj["email"]),
		Phone:     safe.StringOr(obj["phone"], safe.String(obj["phone_number"])),
		FirstName: safe.String(obj["first_name"]),
		LastName:  safe.String(obj["last_name"]),
	}
}

func authResultFrom(v any) *types.AuthResult {
	access := safe.String(safe.Get(v, "tokens.access", nil))
	if access == "" {
		access = safe.StringOr(safe.Get(v, "access", nil), safe.String(safe.Get(v, "token", nil)))
	}
	refresh := safe.String(safe.Get(v, "tokens.refresh", nil))
	if refresh == "" {
		refresh = safe.String(safe.Get(v, "refresh", nil))
	}
	return &types.AuthResult{
		Access:  access,
		Refresh: refresh,
		User:    userFrom(safe.Get(v, "user", nil)),
	}
}

func addressFrom(v any) types.Address {
	obj := safe.Map(unwrap(v, "address"))
	return types.Address{
		ID:           idOf(obj["id"]),
		FullName:     safe.String(obj["full_name"]),
		Phone:        safe.String(obj["phone"]),
		AddressLine1: safe.String(obj["address_line1"]),
		AddressLine2: safe.String(obj["address_line2"]),
		City:         safe.String(obj["city"]),
		State:        safe.String(obj["state"]),
		Pincode:      safe.StringOr(obj["pincode"], safe.String(obj["postal_code"])),
		Country:      safe.String(obj["country"]),
		AddressType:  safe.String(obj["address_type"]),
		IsDefault:    safe.Bool(obj["is_default"], false),
	}
}

func orderItemFrom(v any) types.OrderItem {
	obj := safe.Map(v)
	item := types.OrderItem{
		Quantity:    safe.Int(obj["quantity"], 0),
		Price:       money(obj["price"]),
		VariantName: safe.String(obj["variant_name"]),
		ProductName: safe.String(obj["product_name"]),
	}
	if product := safe.Map(obj["product"]); product != nil {
		item.ProductID = idOf(product["id"])
		if item.ProductName == "" {
			item.ProductName = safe.String(product["name"])
		}
	} else {
		item.ProductID = idOf(firstPresent(obj, "product_id", "product"))
	}
	if variant := safe.Map(obj["variant"]); variant != nil {
		item.VariantID = idOf(variant["id"])
		if item.VariantName == "" {
			item.VariantName = safe.String(variant["name"])
		}
	} else {
		item.VariantID = idOf(firstPresent(obj, "variant_id", "variant"))
	}
	if subtotal, ok := obj["subtotal"]; ok {
		item.Subtotal = money(subtotal)
	} else {
		item.Subtotal = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return item
}

func orderFrom(v any) types.Order {
	obj := safe.Map(unwrap(v, "order"))
	order := types.Order{
		ID:              idOf(obj["id"]),
		OrderNumber:     safe.String(obj["order_number"]),
		Status:          safe.String(obj["status"]),
		PaymentStatus:   safe.String(obj["payment_status"]),
		PaymentMethod:   safe.String(obj["payment_method"]),
		Items:           sliceOf(obj["items"], orderItemFrom),
		ShippingName:    safe.String(obj["shipping_name"]),
		ShippingPhone:   safe.String(obj["shipping_phone"]),
		ShippingAddress: safe.String(obj["shipping_address"]),
		ShippingCity:    safe.String(obj["shipping_city"]),
		ShippingState:   safe.String(obj["shipping_state"]),
		ShippingPincode: safe.String(obj["shipping_pincode"]),
		TotalAmount:     money(firstPresent(obj, "total_amount", "total")),
		CreatedAt:       safe.String(obj["created_at"]),
	}
	return order
}

func paymentSessionFrom(v any) types.PaymentSession {
	obj := safe.Map(unwrap(v, "data", "session"))
	return types.PaymentSession{
		PaymentSessionID: safe.String(obj["payment_session_id"]),
		CashfreeOrderID:  safe.String(obj["cashfree_order_id"]),
		OrderAmount:      money(obj["order_amount"]),
		OrderCurrency:    safe.StringOr(obj["order_currency"], "INR"),
		ReturnURL:        safe.String(obj["return_url"]),
		CashfreeMode:     safe.String(obj["cashfree_mode"]),
	}
}

func paymentResultFrom(v any) types.PaymentResult {
	obj := safe.Map(unwrap(v, "data"))
	status := safe.String(obj["payment_status"])
	if status == "" {
		status = safe.String(obj["status"])
	}
	return types.PaymentResult{
		PaymentStatus: status,
		RequiresOTP:   safe.Bool(obj["requires_otp"], false),
		PaymentID:     safe.StringOr(obj["cf_payment_id"], safe.String(obj["payment_id"])),
		Message:       safe.String(obj["message"]),
	}
}

func reviewFrom(v any) types.Review {
	obj := safe.Map(unwrap(v, "review"))
	review := types.Review{
		ID:        idOf(obj["id"]),
		Rating:    safe.Int(obj["rating"], 0),
		Title:     safe.String(obj["title"]),
		Comment:   safe.String(obj["comment"]),
		UserName:  safe.StringOr(obj["user_name"], safe.String(safe.Get(obj, "user.first_name", ""))),
		CreatedAt: safe.String(obj["created_at"]),
	}
	if product := safe.Map(obj["product"]); product != nil {
		review.ProductID = idOf(product["id"])
	} else {
		review.ProductID = idOf(firstPresent(obj, "product_id", "product"))
	}
	return review
}

func reviewSummaryFrom(v any) types.ReviewSummary {
	obj := safe.Map(unwrap(v, "data", "summary"))
	summary := types.ReviewSummary{
		AverageRating: safe.Number(obj["average_rating"], 0),
		TotalReviews:  safe.Int(obj["total_reviews"], 0),
		Distribution:  map[string]int{},
	}
	for star, count := range safe.Map(firstPresent(obj, "rating_distribution", "distribution")) {
		summary.Distribution[star] = safe.Int(count, 0)
	}
	return summary
}

func consultationFrom(v any) types.Consultation {
	obj := safe.Map(unwrap(v, "consultation", "data"))
	return types.Consultation{
		ID:            idOf(obj["id"]),
		Name:          safe.String(obj["name"]),
		Phone:         safe.String(obj["phone"]),
		Email:         safe.String(obj["email"]),
		PreferredDate: safe.String(obj["preferred_date"]),
		PreferredTime: safe.String(obj["preferred_time"]),
		Topic:         safe.String(obj["topic"]),
		Message:       safe.String(obj["message"]),
		Status:        safe.String(obj["status"]),
	}
}

func firstPresent(obj map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
