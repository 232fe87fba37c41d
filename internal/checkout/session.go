package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/izzah/storefront/internal/cart"
	"github.com/izzah/storefront/pkg/enums"
	pkgerrors "github.com/izzah/storefront/pkg/errors"
	"github.com/izzah/storefront/pkg/kv"
)

var allowedTransitions = map[enums.CheckoutState][]enums.CheckoutState{
	enums.CheckoutStateEditing:    {enums.CheckoutStateValidating},
	enums.CheckoutStateValidating: {enums.CheckoutStateEditing, enums.CheckoutStateSubmitting},
	enums.CheckoutStateSubmitting: {enums.CheckoutStateEditing, enums.CheckoutStateRedirected},
}

// Session is a single shopper's checkout in progress.
type Session struct {
	ClientID        string              `json:"clientId"`
	OrderType       enums.OrderType     `json:"orderType"`
	Items           []cart.Item         `json:"items"`
	Form            Form                `json:"form"`
	State           enums.CheckoutState `json:"state"`
	PromoApplied    bool                `json:"promoApplied"`
	AppliedCode     string              `json:"appliedCode,omitempty"`
	DiscountPercent int                 `json:"discountPercent"`
	PromoMessage    string              `json:"promoMessage,omitempty"`
	Proof           *Proof              `json:"proof,omitempty"`
	Converting      bool                `json:"converting"`
	LastOrderID     string              `json:"lastOrderId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// NewSession starts an editing session with the default form.
func NewSession(clientID string, orderType enums.OrderType, items []cart.Item, now time.Time) *Session {
	return &Session{
		ClientID:  clientID,
		OrderType: orderType,
		Items:     items,
		Form: Form{
			ShippingMethod: ShippingMethodStandard,
			PaymentMethod:  enums.PaymentMethodEasyPaisa,
		},
		State:     enums.CheckoutStateEditing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the session along the submit flow.
func (s *Session) Transition(to enums.CheckoutState) error {
	for _, allowed := range allowedTransitions[s.State] {
		if allowed == to {
			s.State = to
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move checkout from %s to %s", s.State, to))
}

// Editable reports whether the form may change.
func (s *Session) Editable() error {
	if s.State != enums.CheckoutStateEditing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("checkout is %s", s.State))
	}
	return nil
}

// Subtotal sums the session items.
func (s *Session) Subtotal() decimal.Decimal {
	return cart.Subtotal(s.Items)
}

// Totals prices the session with its current form and promo.
func (s *Session) Totals() Totals {
	percent := 0
	if s.PromoApplied {
		percent = s.DiscountPercent
	}
	return ComputeTotals(s.Subtotal(), percent, s.Form.PaymentMethod, s.Form.City)
}

// HasProof reports whether a usable proof is attached.
func (s *Session) HasProof() bool {
	return s.Proof != nil && s.Proof.DataURL != ""
}

// UpdateForm applies edits. The promo code field is locked while a code is applied.
func (s *Session) UpdateForm(patch FormPatch) error {
	if err := s.Editable(); err != nil {
		return err
	}
	if s.PromoApplied && patch.PromoCode != nil && !strings.EqualFold(strings.TrimSpace(*patch.PromoCode), s.AppliedCode) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "promo code is applied; remove it before editing")
	}
	next := s.Form
	if err := patch.apply(&next); err != nil {
		return err
	}
	if !next.PaymentMethod.RequiresProof() {
		s.Proof = nil
	}
	s.Form = next
	return nil
}

// ApplyPromo records a validation result. A rejection clears any discount.
func (s *Session) ApplyPromo(code string, result PromoResult) {
	s.Form.PromoCode = code
	s.PromoMessage = result.Message
	if !result.Valid {
		s.PromoApplied = false
		s.AppliedCode = ""
		s.DiscountPercent = 0
		return
	}
	s.PromoApplied = true
	s.AppliedCode = result.Promo.Code
	s.DiscountPercent = result.Promo.DiscountPercent
}

// RemovePromo clears the discount and the code field.
func (s *Session) RemovePromo() {
	s.PromoApplied = false
	s.AppliedCode = ""
	s.DiscountPercent = 0
	s.PromoMessage = ""
	s.Form.PromoCode = ""
}

func (s *Session) resetInterrupted() {
	s.Converting = false
	if s.State == enums.CheckoutStateValidating || s.State == enums.CheckoutStateSubmitting {
		s.State = enums.CheckoutStateEditing
	}
}

// SessionStore persists checkout sessions under session:<clientId>:checkout.
type SessionStore struct {
	kv  kv.Store
	ttl time.Duration
}

func NewSessionStore(store kv.Store, ttl time.Duration) *SessionStore {
	return &SessionStore{kv: store, ttl: ttl}
}

// Load returns the client's session or NOT_FOUND.
func (s *SessionStore) Load(ctx context.Context, clientID string) (*Session, error) {
	raw, err := s.kv.Get(ctx, cart.CheckoutSessionKey(clientID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode checkout session")
	}
	return &session, nil
}

// Save writes the session and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode checkout session")
	}
	if err := s.kv.Set(ctx, cart.CheckoutSessionKey(session.ClientID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return nil
}
