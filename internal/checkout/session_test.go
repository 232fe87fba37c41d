package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izzah/storefront/internal/cart"
	"github.com/izzah/storefront/pkg/enums"
	pkgerrors "github.com/izzah/storefront/pkg/errors"
	"github.com/izzah/storefront/pkg/kv"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testItems() []cart.Item {
	return []cart.Item{{
		ID:        "ear-1_Gold_no-size_1",
		ProductID: "ear-1",
		Title:     "Star earings",
		Price:     decimal.NewFromInt(500),
		Quantity:  2,
		Image:     "star.jpg",
		Color:     "Gold",
	}}
}

func TestNewSessionDefaults(t *testing.T) {
	t.Parallel()

	session := NewSession("c1", enums.OrderTypeCart, testItems(), testNow)
	assert.Equal(t, enums.CheckoutStateEditing, session.State)
	assert.Equal(t, ShippingMethodStandard, session.Form.ShippingMethod)
	assert.Equal(t, enums.PaymentMethodEasyPaisa, session.Form.PaymentMethod)

	totals := session.Totals()
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(1150)))
}

func TestSessionTransitions(t *testing.T) {
	t.Parallel()

	session := NewSession("c1", enums.OrderTypeCart, testItems(), testNow)
	err := session.Transition(enums.CheckoutStateSubmitting)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	require.NoError(t, session.Transition(enums.CheckoutStateValidating))
	require.NoError(t, session.Transition(enums.CheckoutStateSubmitting))
	require.NoError(t, session.Transition(enums.CheckoutStateRedirected))
	assert.Error(t, session.Transition(enums.CheckoutStateEditing))
	assert.Error(t, session.Editable())
}

func TestUpdateFormLocksAppliedPromo(t *testing.T) {
	t.Parallel()

	session := NewSession("c1", enums.OrderTypeCart, testItems(), testNow)
	session.ApplyPromo("ijs12", PromoResult{Valid: true, Message: "ok", Promo: PromoCode{Code: "IJS12", DiscountPercent: 12}})
	assert.True(t, session.Totals().Discount.Equal(decimal.NewFromInt(120)))

	other := "OTHER"
	err := session.UpdateForm(FormPatch{PromoCode: &other})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	same := "IJS12"
	city := "Lahore"
	require.NoError(t, session.UpdateForm(FormPatch{PromoCode: &same, City: &city}))
	assert.Equal(t, "Lahore", session.Form.City)

	session.RemovePromo()
	assert.False(t, session.PromoApplied)
	assert.Empty(t, session.Form.PromoCode)
	assert.True(t, session.Totals().Discount.IsZero())
	require.NoError(t, session.UpdateForm(FormPatch{PromoCode: &other}))
}

func TestApplyPromoRejectionClearsDiscount(t *testing.T) {
	t.Parallel()

	session := NewSession("c1", enums.OrderTypeCart, testItems(), testNow)
	session.ApplyPromo("IJS12", PromoResult{Valid: true, Promo: PromoCode{Code: "IJS12", DiscountPercent: 12}})
	session.ApplyPromo("NOPE", PromoResult{Message: PromoMessageInvalid})

	assert.False(t, session.PromoApplied)
	assert.Equal(t, 0, session.DiscountPercent)
	assert.Equal(t, PromoMessageInvalid, session.PromoMessage)
	assert.Equal(t, "NOPE", session.Form.PromoCode)
}

func TestUpdateFormPaymentSwitchKeepsProofWhenStillRequired(t *testing.T) {
	t.Parallel()

	session := NewSession("c1", enums.OrderTypeCart, testItems(), testNow)
	session.Proof = &Proof{DataURL: "data:image/png;base64,AA==", MIME: "image/png", Size: 1}

	cod := "Cash on Delivery"
	require.NoError(t, session.UpdateForm(FormPatch{PaymentMethod: &cod}))
	assert.True(t, session.HasProof())
	assert.True(t, session.Totals().SalesTax.Equal(decimal.NewFromInt(40)))
}

func TestResetInterrupted(t *testing.T) {
	t.Parallel()

	session := NewSession("c1", enums.OrderTypeCart, testItems(), testNow)
	session.State = enums.CheckoutStateSubmitting
	session.Converting = true
	session.resetInterrupted()
	assert.Equal(t, enums.CheckoutStateEditing, session.State)
	assert.False(t, session.Converting)

	session.State = enums.CheckoutStateRedirected
	session.resetInterrupted()
	assert.Equal(t, enums.CheckoutStateRedirected, session.State)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(kv.NewMemory(), time.Hour)
	ctx := context.Background()

	_, err := store.Load(ctx, "c1")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	session := NewSession("c1", enums.OrderTypeBuyNow, testItems(), testNow)
	session.Form.City = "Karachi"
	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Karachi", loaded.Form.City)
	assert.Equal(t, enums.OrderTypeBuyNow, loaded.OrderType)
	assert.True(t, loaded.Subtotal().Equal(decimal.NewFromInt(1000)))
}
