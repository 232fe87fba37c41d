package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod describes how a shopper settles an order.
type PaymentMethod string

const (
	PaymentMethodEasyPaisa      PaymentMethod = "EasyPaisa"
	PaymentMethodCashOnDelivery PaymentMethod = "Cash on Delivery"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodEasyPaisa,
	PaymentMethodCashOnDelivery,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresProof reports whether an uploaded transfer screenshot must accompany the order.
func (p PaymentMethod) RequiresProof() bool {
	return p == PaymentMethodEasyPaisa || p == PaymentMethodCashOnDelivery
}

// ParsePaymentMethod converts raw input into a PaymentMethod. "cod" is accepted
// as an alias for Cash on Delivery.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, "cod") {
		return PaymentMethodCashOnDelivery, nil
	}
	for _, candidate := range validPaymentMethods {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
