package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/izzah/storefront/pkg/enums"
)

// Item is an order line as written to the order store. Optional attributes
// are null when the cart item did not carry them.
type Item struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Variation *string         `json:"variation"`
	Type      *string         `json:"type"`
	Size      *string         `json:"size"`
	Color     *string         `json:"color"`
	Lining    bool            `json:"lining"`
}

// ShippingAddress is the delivery block of an order.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Region     string `json:"region"`
	Country    string `json:"country"`
}

// Order is the immutable snapshot assembled at submission time.
type Order struct {
	OrderID                 string              `json:"orderId"`
	CustomerType            enums.CustomerType  `json:"customerType"`
	CustomerEmail           string              `json:"customerEmail"`
	Items                   []Item              `json:"items"`
	Shipping                string              `json:"shipping"`
	Payment                 enums.PaymentMethod `json:"payment"`
	ShippingAddress         ShippingAddress     `json:"shippingAddress"`
	PromoCode               string              `json:"promoCode"`
	DiscountApplied         decimal.Decimal     `json:"discountApplied"`
	DiscountPercent         int                 `json:"discountPercent"`
	Notes                   string              `json:"notes"`
	Subtotal                decimal.Decimal     `json:"subtotal"`
	Discount                decimal.Decimal     `json:"discount"`
	ShippingCost            decimal.Decimal     `json:"shippingCost"`
	SalesTax                decimal.Decimal     `json:"salesTax"`
	Total                   decimal.Decimal     `json:"total"`
	CreatedAt               time.Time           `json:"createdAt"`
	Status                  enums.OrderStatus   `json:"status"`
	BuyNow                  bool                `json:"buyNow"`
	OrderType               enums.OrderType     `json:"orderType"`
	BankTransferProofBase64 *string             `json:"bankTransferProofBase64"`
}
