package orders

import (
	"strings"

	"github.com/angelmondragon/storefront-bff/pkg/enums"
)

// StatusDisplay is the label and color shown for a status.
type StatusDisplay struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

const neutralColor = "gray"

var orderStatusDisplay = map[enums.OrderStatus]StatusDisplay{
	enums.OrderStatusPending:    {Label: "Pending", Color: "yellow"},
	enums.OrderStatusConfirmed:  {Label: "Confirmed", Color: "blue"},
	enums.OrderStatusProcessing: {Label: "Processing", Color: "indigo"},
	enums.OrderStatusShipped:    {Label: "Shipped", Color: "purple"},
	enums.OrderStatusDelivered:  {Label: "Delivered", Color: "green"},
	enums.OrderStatusCancelled:  {Label: "Cancelled", Color: "red"},
	enums.OrderStatusReturned:   {Label: "Returned", Color: "orange"},
}

var paymentStatusDisplay = map[enums.PaymentStatus]StatusDisplay{
	enums.PaymentStatusPending:  {Label: "Payment Pending", Color: "yellow"},
	enums.PaymentStatusPaid:     {Label: "Paid", Color: "green"},
	enums.PaymentStatusFailed:   {Label: "Payment Failed", Color: "red"},
	enums.PaymentStatusRefunded: {Label: "Refunded", Color: "blue"},
}

// OrderStatusDisplay maps an order status; unknown values get a neutral badge.
func OrderStatusDisplay(raw string) StatusDisplay {
	status := enums.NormalizeOrderStatus(raw)
	if display, ok := orderStatusDisplay[status]; ok {
		display.Value = string(status)
		return display
	}
	return neutral(raw)
}

func PaymentStatusDisplay(raw string) StatusDisplay {
	status := enums.NormalizePaymentStatus(raw)
	if display, ok := paymentStatusDisplay[status]; ok {
		display.Value = string(status)
		return display
	}
	return neutral(raw)
}

func neutral(raw string) StatusDisplay {
	value := strings.TrimSpace(raw)
	label := "Unknown"
	if value != "" {
		label = strings.ToUpper(value[:1]) + strings.ToLower(strings.ReplaceAll(value[1:], "_", " "))
	}
	return StatusDisplay{Value: value, Label: label, Color: neutralColor}
}
