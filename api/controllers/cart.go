package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/izzah/storefront/api/responses"
	"github.com/izzah/storefront/api/validators"
	"github.com/izzah/storefront/internal/cart"
	"github.com/izzah/storefront/pkg/logger"
)

// CartStore is the cart surface the HTTP layer reads and edits.
type CartStore interface {
	Items(ctx context.Context, clientID string) ([]cart.Item, error)
	Remove(ctx context.Context, clientID, itemID string) ([]cart.Item, error)
}

type cartResponse struct {
	Items    []cart.Item     `json:"items"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func newCartResponse(items []cart.Item) cartResponse {
	if items == nil {
		items = []cart.Item{}
	}
	count := 0
	for _, item := range items {
		count += item.EffectiveQuantity()
	}
	return cartResponse{Items: items, Count: count, Subtotal: cart.Subtotal(items)}
}

// GetCart returns the shopper's persistent cart.
func GetCart(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := store.Items(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// RemoveCartItem deletes one line by its item key.
func RemoveCartItem(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemKey := validators.SanitizeString(chi.URLParam(r, "itemKey"), maxParamLen)
		items, err := store.Remove(r.Context(), clientID, itemKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}
