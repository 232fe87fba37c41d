package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/izzah/storefront/pkg/errors"
	"github.com/izzah/storefront/pkg/kv"
)

const (
	sessionBuyNow       = "buy_now"
	sessionConfirmation = "confirmation"
	sessionCheckout     = "checkout"
)

// CartKey is where a client's persistent cart lives.
func CartKey(clientID string) string {
	return kv.Key("cart", clientID)
}

// SessionKey addresses a transient per-client handoff slot.
func SessionKey(clientID, slot string) string {
	return kv.Key("session", clientID, slot)
}

// CheckoutSessionKey is the slot holding the in-progress checkout session.
func CheckoutSessionKey(clientID string) string {
	return SessionKey(clientID, sessionCheckout)
}

// Store persists carts and session handoffs in a kv.Store.
type Store struct {
	kv         kv.Store
	cartTTL    time.Duration
	sessionTTL time.Duration
}

// NewStore builds a cart store. A zero cartTTL keeps carts until cleared.
func NewStore(store kv.Store, cartTTL, sessionTTL time.Duration) (*Store, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &Store{kv: store, cartTTL: cartTTL, sessionTTL: sessionTTL}, nil
}

// Items returns the cart contents. A missing or unreadable cart is empty.
func (s *Store) Items(ctx context.Context, clientID string) ([]Item, error) {
	if err := requireClient(clientID); err != nil {
		return nil, err
	}
	raw, err := s.kv.Get(ctx, CartKey(clientID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []Item{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []Item{}, nil
	}
	return items, nil
}

// Save replaces the cart contents.
func (s *Store) Save(ctx context.Context, clientID string, items []Item) error {
	if err := requireClient(clientID); err != nil {
		return err
	}
	if items == nil {
		items = []Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, CartKey(clientID), string(payload), s.cartTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// Add merges item into the cart: an entry with the same product, color and
// size gets its quantity increased, anything else is appended.
func (s *Store) Add(ctx context.Context, clientID string, item Item) ([]Item, error) {
	items, err := s.Items(ctx, clientID)
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range items {
		if items[i].SameConfiguration(item) {
			items[i].Quantity = items[i].EffectiveQuantity() + item.EffectiveQuantity()
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}
	if err := s.Save(ctx, clientID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove drops the item with the given key.
func (s *Store) Remove(ctx context.Context, clientID, itemID string) ([]Item, error) {
	items, err := s.Items(ctx, clientID)
	if err != nil {
		return nil, err
	}
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err := s.Save(ctx, clientID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear deletes the cart.
func (s *Store) Clear(ctx context.Context, clientID string) error {
	if err := requireClient(clientID); err != nil {
		return err
	}
	if err := s.kv.Del(ctx, CartKey(clientID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// SetBuyNow stores the single pending buy-now item, replacing any previous one.
func (s *Store) SetBuyNow(ctx context.Context, clientID string, item Item) error {
	return s.putSession(ctx, clientID, sessionBuyNow, item)
}

// BuyNow returns the pending buy-now item or a NOT_FOUND error.
func (s *Store) BuyNow(ctx context.Context, clientID string) (*Item, error) {
	var item Item
	if err := s.getSession(ctx, clientID, sessionBuyNow, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ClearBuyNow consumes the pending buy-now item.
func (s *Store) ClearBuyNow(ctx context.Context, clientID string) error {
	return s.delSession(ctx, clientID, sessionBuyNow)
}

// SetConfirmation stashes the details shown after an order is placed.
func (s *Store) SetConfirmation(ctx context.Context, clientID string, confirmation Confirmation) error {
	return s.putSession(ctx, clientID, sessionConfirmation, confirmation)
}

// Confirmation returns the last order confirmation or a NOT_FOUND error.
func (s *Store) Confirmation(ctx context.Context, clientID string) (*Confirmation, error) {
	var confirmation Confirmation
	if err := s.getSession(ctx, clientID, sessionConfirmation, &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (s *Store) putSession(ctx context.Context, clientID, slot string, value any) error {
	if err := requireClient(clientID); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode "+slot)
	}
	if err := s.kv.Set(ctx, SessionKey(clientID, slot), string(payload), s.sessionTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store "+slot)
	}
	return nil
}

func (s *Store) getSession(ctx context.Context, clientID, slot string, dest any) error {
	if err := requireClient(clientID); err != nil {
		return err
	}
	raw, err := s.kv.Get(ctx, SessionKey(clientID, slot))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, strings.ReplaceAll(slot, "_", " ")+" not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+slot)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode "+slot)
	}
	return nil
}

func (s *Store) delSession(ctx context.Context, clientID, slot string) error {
	if err := requireClient(clientID); err != nil {
		return err
	}
	if err := s.kv.Del(ctx, SessionKey(clientID, slot)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear "+slot)
	}
	return nil
}

func requireClient(clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	return nil
}
