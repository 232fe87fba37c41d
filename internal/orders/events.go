package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/izzah/storefront/pkg/enums"
)

// EventTypeOrderPlaced names the event emitted after an order is stored.
const EventTypeOrderPlaced = "order.placed"

// OrderPlacedEvent is the public summary published for downstream consumers.
// The proof image is never included.
type OrderPlacedEvent struct {
	OrderID       string              `json:"orderId"`
	OrderType     enums.OrderType     `json:"orderType"`
	CustomerEmail string              `json:"customerEmail"`
	Payment       enums.PaymentMethod `json:"payment"`
	City          string              `json:"city"`
	ItemCount     int                 `json:"itemCount"`
	PromoCode     string              `json:"promoCode,omitempty"`
	Total         decimal.Decimal     `json:"total"`
	PlacedAt      time.Time           `json:"placedAt"`
}

// NewOrderPlacedEvent summarizes order.
func NewOrderPlacedEvent(order *Order) OrderPlacedEvent {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderPlacedEvent{
		OrderID:       order.OrderID,
		OrderType:     order.OrderType,
		CustomerEmail: order.CustomerEmail,
		Payment:       order.Payment,
		City:          order.ShippingAddress.City,
		ItemCount:     count,
		PromoCode:     order.PromoCode,
		Total:         order.Total,
		PlacedAt:      order.CreatedAt,
	}
}
