package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/izzah/storefront/pkg/enums"
)

// Order is the immutable record written once per placed checkout. Document
// holds the full order snapshot; the other columns are projections of it.
type Order struct {
	ID            string              `gorm:"column:id;primaryKey"`
	OrderType     enums.OrderType     `gorm:"column:order_type;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;not null"`
	CustomerEmail string              `gorm:"column:customer_email"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PromoCode     string              `gorm:"column:promo_code"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Document      json.RawMessage     `gorm:"column:document;type:jsonb;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
}

func (Order) TableName() string { return "orders" }
