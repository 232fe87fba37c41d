package enums

import (
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state written with a new order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// OrderType records which checkout path produced an order.
type OrderType string

const (
	OrderTypeBuyNow OrderType = "buyNow"
	OrderTypeCart   OrderType = "cart"
)

var validOrderTypes = []OrderType{
	OrderTypeBuyNow,
	OrderTypeCart,
}

// String implements fmt.Stringer.
func (t OrderType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OrderType.
func (t OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IDPrefix is the prefix used for generated order ids.
func (t OrderType) IDPrefix() string {
	if t == OrderTypeCart {
		return "ORDER"
	}
	return "BUYNOW"
}

// ParseOrderType converts raw input into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, "buy_now") {
		return OrderTypeBuyNow, nil
	}
	for _, candidate := range validOrderTypes {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}

// CustomerType identifies who placed the order.
type CustomerType string

const (
	CustomerTypeGuest CustomerType = "guest"
)
