package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/izzah/storefront/pkg/enums"
)

var (
	shippingFlat          = decimal.NewFromInt(150)
	shippingLahoreSialkot = decimal.NewFromInt(300)
	shippingKarachi       = decimal.NewFromInt(390)
	shippingOtherCities   = decimal.NewFromInt(360)

	salesTaxRate = decimal.RequireFromString("0.04")
	hundred      = decimal.NewFromInt(100)
)

// NormalizeCity lowercases and trims a free-text city.
func NormalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// ShippingCost is a pure function of payment method and city. Unknown cities
// fall into the other-cities bracket; unset methods pay the flat rate.
func ShippingCost(method enums.PaymentMethod, city string) decimal.Decimal {
	switch method {
	case enums.PaymentMethodEasyPaisa:
		return shippingFlat
	case enums.PaymentMethodCashOnDelivery:
		switch NormalizeCity(city) {
		case "lahore", "sialkot":
			return shippingLahoreSialkot
		case "karachi":
			return shippingKarachi
		default:
			return shippingOtherCities
		}
	default:
		return shippingFlat
	}
}

// ShippingLabel is the shopper-facing description of the shipping charge.
func ShippingLabel(method enums.PaymentMethod, city string) string {
	switch method {
	case enums.PaymentMethodEasyPaisa:
		return "PKR 150 - All over Pakistan"
	case enums.PaymentMethodCashOnDelivery:
		switch NormalizeCity(city) {
		case "lahore", "sialkot":
			return "PKR 300 - Lahore & Sialkot"
		case "karachi":
			return "PKR 390 - Karachi"
		case "":
			return "PKR 300-390 - Varies by city"
		default:
			return "PKR 360 - Other Cities"
		}
	default:
		return "PKR 150-390 - Based on payment method and city"
	}
}

// SalesTax is 4% of the subtotal for Cash on Delivery and zero otherwise.
func SalesTax(subtotal decimal.Decimal, method enums.PaymentMethod) decimal.Decimal {
	if method != enums.PaymentMethodCashOnDelivery {
		return decimal.Zero
	}
	return subtotal.Mul(salesTaxRate)
}

// Discount is subtotal * percent / 100.
func Discount(subtotal decimal.Decimal, percent int) decimal.Decimal {
	if percent <= 0 {
		return decimal.Zero
	}
	return subtotal.Mul(decimal.NewFromInt(int64(percent))).Div(hundred)
}

// Total is max(0, subtotal - discount + shipping + tax).
func Total(subtotal, discount, shipping, tax decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount).Add(shipping).Add(tax)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Totals is the priced view of a checkout. Values are unrounded.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	ShippingCost  decimal.Decimal `json:"shippingCost"`
	ShippingLabel string          `json:"shippingLabel"`
	SalesTax      decimal.Decimal `json:"salesTax"`
	Total         decimal.Decimal `json:"total"`
}

// ComputeTotals prices a subtotal for the given method, city and discount percentage.
func ComputeTotals(subtotal decimal.Decimal, discountPercent int, method enums.PaymentMethod, city string) Totals {
	discount := Discount(subtotal, discountPercent)
	shipping := ShippingCost(method, city)
	tax := SalesTax(subtotal, method)
	return Totals{
		Subtotal:      subtotal,
		Discount:      discount,
		ShippingCost:  shipping,
		ShippingLabel: ShippingLabel(method, city),
		SalesTax:      tax,
		Total:         Total(subtotal, discount, shipping, tax),
	}
}

// Display rounds every amount to whole PKR for presentation.
func (t Totals) Display() Totals {
	return Totals{
		Subtotal:      t.Subtotal.Round(0),
		Discount:      t.Discount.Round(0),
		ShippingCost:  t.ShippingCost.Round(0),
		ShippingLabel: t.ShippingLabel,
		SalesTax:      t.SalesTax.Round(0),
		Total:         t.Total.Round(0),
	}
}
