package enums

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	t.Parallel()

	cases := map[string]PaymentMethod{
		"EasyPaisa":        PaymentMethodEasyPaisa,
		"easypaisa":        PaymentMethodEasyPaisa,
		"Cash on Delivery": PaymentMethodCashOnDelivery,
		" cod ":            PaymentMethodCashOnDelivery,
	}
	for input, want := range cases {
		got, err := ParsePaymentMethod(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %q want %q", input, got, want)
		}
	}
	if _, err := ParsePaymentMethod("card"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestPaymentMethodRequiresProof(t *testing.T) {
	t.Parallel()

	if !PaymentMethodEasyPaisa.RequiresProof() || !PaymentMethodCashOnDelivery.RequiresProof() {
		t.Fatal("both supported methods require proof")
	}
	if PaymentMethod("").RequiresProof() {
		t.Fatal("unset method should not require proof")
	}
}

func TestOrderTypePrefix(t *testing.T) {
	t.Parallel()

	if OrderTypeBuyNow.IDPrefix() != "BUYNOW" {
		t.Fatalf("unexpected buy-now prefix %q", OrderTypeBuyNow.IDPrefix())
	}
	if OrderTypeCart.IDPrefix() != "ORDER" {
		t.Fatalf("unexpected cart prefix %q", OrderTypeCart.IDPrefix())
	}
}

func TestParseProductCategory(t *testing.T) {
	t.Parallel()

	got, err := ParseProductCategory("phone CHARMS")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != ProductCategoryPhoneCharms {
		t.Fatalf("got %q", got)
	}
	if len(ProductCategories()) != 8 {
		t.Fatalf("expected 8 categories")
	}
}

func TestParseOrderType(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]OrderType{"buyNow": OrderTypeBuyNow, "buy_now": OrderTypeBuyNow, " CART ": OrderTypeCart} {
		got, err := ParseOrderType(in)
		if err != nil || got != want {
			t.Fatalf("ParseOrderType(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseOrderType("wishlist"); err == nil {
		t.Fatal("expected error for unknown order type")
	}
}
