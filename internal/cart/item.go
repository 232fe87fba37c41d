package cart

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const tempIDPrefix = "temp_"

// Item is a single cart line.
type Item struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"productId"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Image      string          `json:"image,omitempty"`
	CoverImage string          `json:"coverImage,omitempty"`
	Color      string          `json:"color,omitempty"`
	Size       string          `json:"size,omitempty"`
	Variation  string          `json:"variation,omitempty"`
	Type       string          `json:"type,omitempty"`
	Lining     bool            `json:"lining,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// EffectiveProductID falls back to the item id without its temporary prefix.
func (i Item) EffectiveProductID() string {
	if i.ProductID != "" {
		return i.ProductID
	}
	return strings.Replace(i.ID, tempIDPrefix, "", 1)
}

// EffectiveQuantity treats a missing quantity as one.
func (i Item) EffectiveQuantity() int {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

// EffectiveImage falls back to the product cover image.
func (i Item) EffectiveImage() string {
	if i.Image != "" {
		return i.Image
	}
	return i.CoverImage
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.EffectiveQuantity())))
}

// SameConfiguration reports whether two items share product, color and size.
func (i Item) SameConfiguration(other Item) bool {
	return i.ProductID == other.ProductID && i.Color == other.Color && i.Size == other.Size
}

// Subtotal sums the line totals of items.
func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Confirmation is handed to the post-order confirmation view.
type Confirmation struct {
	OrderID   string `json:"orderId"`
	Email     string `json:"email"`
	OrderType string `json:"orderType"`
}
