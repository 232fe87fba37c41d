package checkout

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"

	"github.com/izzah/storefront/internal/cart"
	"github.com/izzah/storefront/internal/orders"
	"github.com/izzah/storefront/pkg/enums"
	pkgerrors "github.com/izzah/storefront/pkg/errors"
	"github.com/izzah/storefront/pkg/kv"
	"github.com/izzah/storefront/pkg/logger"
	"github.com/izzah/storefront/pkg/metrics"
)

const (
	MessageOrderTooLarge = "Error: The uploaded image is too large. Please try a smaller image or contact support."
	MessageOrderFailed   = "Error placing order. Please try again. If the issue persists, contact support."
	MessageCheckoutBusy  = "checkout busy"
)

const defaultSessionLockTTL = 2 * time.Minute

// Service drives a checkout session from start to placed order.
type Service interface {
	Start(ctx context.Context, clientID string, orderType enums.OrderType) (*View, error)
	Get(ctx context.Context, clientID string) (*View, error)
	UpdateForm(ctx context.Context, clientID string, patch FormPatch) (*View, error)
	ApplyPromo(ctx context.Context, clientID, code string) (*View, error)
	RemovePromo(ctx context.Context, clientID string) (*View, error)
	UploadProof(ctx context.Context, clientID string, r io.Reader, size int64) (*View, error)
	PlaceOrder(ctx context.Context, clientID string) (*PlaceOrderResult, error)
	Confirmation(ctx context.Context, clientID string) (*cart.Confirmation, error)
}

type cartStore interface {
	Items(ctx context.Context, clientID string) ([]cart.Item, error)
	Clear(ctx context.Context, clientID string) error
	BuyNow(ctx context.Context, clientID string) (*cart.Item, error)
	ClearBuyNow(ctx context.Context, clientID string) error
	SetConfirmation(ctx context.Context, clientID string, confirmation cart.Confirmation) error
	Confirmation(ctx context.Context, clientID string) (*cart.Confirmation, error)
}

type orderPlacer interface {
	Place(ctx context.Context, order *orders.Order) error
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	KV             kv.Store
	Carts          cartStore
	Orders         orderPlacer
	Promos         *PromoValidator
	Proofs         *ProofIngestor
	Metrics        *metrics.CheckoutMetrics
	Logger         *logger.Logger
	SessionTTL     time.Duration
	SessionLockTTL time.Duration
}

type service struct {
	kv       kv.Store
	sessions *SessionStore
	carts    cartStore
	orders   orderPlacer
	promos   *PromoValidator
	proofs   *ProofIngestor
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	lockTTL  time.Duration
	now      func() time.Time
}

// NewService validates params and builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.KV == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	if params.Promos == nil {
		return nil, fmt.Errorf("promo validator required")
	}
	if params.Proofs == nil {
		params.Proofs = NewProofIngestor(0)
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.SessionLockTTL <= 0 {
		params.SessionLockTTL = defaultSessionLockTTL
	}
	return &service{
		kv:       params.KV,
		sessions: NewSessionStore(params.KV, params.SessionTTL),
		carts:    params.Carts,
		orders:   params.Orders,
		promos:   params.Promos,
		proofs:   params.Proofs,
		metrics:  params.Metrics,
		logg:     params.Logger,
		lockTTL:  params.SessionLockTTL,
		now:      time.Now,
	}, nil
}

// PlaceOrderResult is returned after a successful submission.
type PlaceOrderResult struct {
	OrderID   string          `json:"orderId"`
	Email     string          `json:"email"`
	OrderType enums.OrderType `json:"orderType"`
	Totals    Totals          `json:"totals"`
	Display   Totals          `json:"display"`
}

func (s *service) Start(ctx context.Context, clientID string, orderType enums.OrderType) (*View, error) {
	if !orderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source must be buyNow or cart")
	}
	var items []cart.Item
	switch orderType {
	case enums.OrderTypeBuyNow:
		item, err := s.carts.BuyNow(ctx, clientID)
		if err != nil {
			return nil, err
		}
		items = []cart.Item{*item}
		if items[0].ID == "" {
			items[0].ID = fmt.Sprintf("temp_%d", s.now().UnixMilli())
		}
	case enums.OrderTypeCart:
		cartItems, err := s.carts.Items(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if len(cartItems) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		items = cartItems
	}

	var view *View
	err := s.withLock(ctx, clientID, func() error {
		session := NewSession(clientID, orderType, items, s.now().UTC())
		if err := s.sessions.Save(ctx, session); err != nil {
			return err
		}
		view = NewView(session)
		return nil
	})
	return view, err
}

func (s *service) Get(ctx context.Context, clientID string) (*View, error) {
	session, err := s.sessions.Load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return NewView(session), nil
}

func (s *service) UpdateForm(ctx context.Context, clientID string, patch FormPatch) (*View, error) {
	return s.mutate(ctx, clientID, func(session *Session) error {
		return session.UpdateForm(patch)
	})
}

func (s *service) ApplyPromo(ctx context.Context, clientID, code string) (*View, error) {
	var rejection error
	view, err := s.mutate(ctx, clientID, func(session *Session) error {
		if err := session.Editable(); err != nil {
			return err
		}
		result := s.promos.Validate(code)
		session.ApplyPromo(code, result)
		if result.Valid {
			s.metrics.IncPromo("applied")
			return nil
		}
		s.metrics.IncPromo("rejected")
		rejection = pkgerrors.New(pkgerrors.CodeValidation, result.Message).WithField("promoCode", result.Message)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		return view, rejection
	}
	return view, nil
}

func (s *service) RemovePromo(ctx context.Context, clientID string) (*View, error) {
	return s.mutate(ctx, clientID, func(session *Session) error {
		if err := session.Editable(); err != nil {
			return err
		}
		session.RemovePromo()
		return nil
	})
}

// UploadProof converts the upload under the session lock; the session is
// flagged as converting while the read runs so submission is blocked.
func (s *service) UploadProof(ctx context.Context, clientID string, r io.Reader, size int64) (*View, error) {
	var (
		view      *View
		ingestErr error
	)
	err := s.withLock(ctx, clientID, func() error {
		session, err := s.loadLocked(ctx, clientID)
		if err != nil {
			return err
		}
		if err := session.Editable(); err != nil {
			return err
		}
		if !session.Form.PaymentMethod.RequiresProof() {
			return pkgerrors.New(pkgerrors.CodeValidation, "payment method does not take a proof")
		}

		session.Converting = true
		if err := s.sessions.Save(ctx, session); err != nil {
			return err
		}

		proof, err := s.proofs.Ingest(r, size)
		session.Converting = false
		if err != nil {
			session.Proof = nil
			ingestErr = err
			s.metrics.IncProof("rejected")
		} else {
			session.Proof = proof
			s.metrics.IncProof("accepted")
		}
		session.UpdatedAt = s.now().UTC()
		if err := s.sessions.Save(ctx, session); err != nil {
			return err
		}
		view = NewView(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, ingestErr
}

func (s *service) PlaceOrder(ctx context.Context, clientID string) (*PlaceOrderResult, error) {
	var result *PlaceOrderResult
	err := s.withLock(ctx, clientID, func() error {
		session, err := s.loadLocked(ctx, clientID)
		if err != nil {
			return err
		}
		if session.State == enums.CheckoutStateRedirected {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already placed").
				WithDetails(map[string]any{"orderId": session.LastOrderID})
		}
		if err := session.Transition(enums.CheckoutStateValidating); err != nil {
			return err
		}
		if len(session.Items) == 0 {
			_ = session.Transition(enums.CheckoutStateEditing)
			return pkgerrors.New(pkgerrors.CodeValidation, "checkout has no items")
		}
		if fieldErrs := ValidateForm(session.Form, session.HasProof()); len(fieldErrs) > 0 {
			for _, fe := range fieldErrs {
				s.metrics.IncFieldRejected(fe.Field)
			}
			_ = session.Transition(enums.CheckoutStateEditing)
			if err := s.sessions.Save(ctx, session); err != nil {
				return err
			}
			return fieldErrs.Err()
		}

		if err := session.Transition(enums.CheckoutStateSubmitting); err != nil {
			return err
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return err
		}

		placed, err := s.submit(ctx, session)
		if err != nil {
			return err
		}
		result = placed
		return nil
	})
	return result, err
}

func (s *service) submit(ctx context.Context, session *Session) (*PlaceOrderResult, error) {
	now := s.now().UTC()
	orderID := NewOrderID(session.OrderType, now)
	ctx = s.logg.WithOrderID(ctx, orderID)
	order := AssembleOrder(session, orderID, now)

	start := time.Now()
	err := s.orders.Place(ctx, order)
	s.metrics.ObserveSubmit(string(session.OrderType), time.Since(start))
	if err != nil {
		return nil, s.submitFailed(ctx, session, err)
	}
	s.metrics.IncOrderPlaced(string(session.OrderType), string(session.Form.PaymentMethod))

	if err := session.Transition(enums.CheckoutStateRedirected); err != nil {
		return nil, err
	}
	session.LastOrderID = orderID
	session.UpdatedAt = now

	if cleanupErr := s.cleanup(ctx, session, order); cleanupErr != nil {
		s.logg.Warn(ctx, fmt.Sprintf("post-order cleanup incomplete: %v", cleanupErr))
	}
	s.logg.Info(ctx, "order placed")

	totals := session.Totals()
	return &PlaceOrderResult{
		OrderID:   orderID,
		Email:     order.CustomerEmail,
		OrderType: session.OrderType,
		Totals:    totals,
		Display:   totals.Display(),
	}, nil
}

// submitFailed returns the session to editing and maps the write failure to
// a shopper-facing error. An oversized payload also drops the proof.
func (s *service) submitFailed(ctx context.Context, session *Session, cause error) error {
	kind := orders.KindOf(cause)
	s.metrics.IncOrderFailure(string(kind))
	s.logg.Error(ctx, "order write failed", cause)

	_ = session.Transition(enums.CheckoutStateEditing)
	if kind == orders.WriteErrorPayloadTooLarge {
		session.Proof = nil
	}
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logg.Error(ctx, "failed to reset checkout session", err)
	}

	if kind == orders.WriteErrorPayloadTooLarge {
		return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, cause, MessageOrderTooLarge).
			WithField(FieldBankTransferProof, MessageOrderTooLarge)
	}
	if kind == orders.WriteErrorDuplicate {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, cause, MessageOrderFailed)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, MessageOrderFailed)
}

// cleanup consumes the handoffs once the order is stored. The order stands
// even if some of these fail.
func (s *service) cleanup(ctx context.Context, session *Session, order *orders.Order) error {
	var err error
	if session.OrderType == enums.OrderTypeCart {
		err = multierr.Append(err, s.carts.Clear(ctx, session.ClientID))
	} else {
		err = multierr.Append(err, s.carts.ClearBuyNow(ctx, session.ClientID))
	}
	err = multierr.Append(err, s.carts.SetConfirmation(ctx, session.ClientID, cart.Confirmation{
		OrderID:   order.OrderID,
		Email:     order.CustomerEmail,
		OrderType: string(order.OrderType),
	}))
	err = multierr.Append(err, s.sessions.Save(ctx, session))
	return err
}

func (s *service) Confirmation(ctx context.Context, clientID string) (*cart.Confirmation, error) {
	return s.carts.Confirmation(ctx, clientID)
}

func (s *service) mutate(ctx context.Context, clientID string, fn func(*Session) error) (*View, error) {
	var view *View
	err := s.withLock(ctx, clientID, func() error {
		session, err := s.loadLocked(ctx, clientID)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}
		session.UpdatedAt = s.now().UTC()
		if err := s.sessions.Save(ctx, session); err != nil {
			return err
		}
		view = NewView(session)
		return nil
	})
	return view, err
}

// loadLocked loads a session while the caller holds its lock. Holding the
// lock means no conversion or submission is running, so in-flight markers
// left behind by an interrupted request are reset.
func (s *service) loadLocked(ctx context.Context, clientID string) (*Session, error) {
	session, err := s.sessions.Load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	session.resetInterrupted()
	return session, nil
}

func (s *service) withLock(ctx context.Context, clientID string, fn func() error) error {
	lock, err := kv.NewLock(s.kv, kv.Key("lock", "checkout", clientID), s.lockTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build checkout lock")
	}
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !acquired {
		return pkgerrors.New(pkgerrors.CodeStateConflict, MessageCheckoutBusy)
	}
	defer func() {
		if releaseErr := lock.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			s.logg.Warn(ctx, fmt.Sprintf("release checkout lock: %v", releaseErr))
		}
	}()
	return fn()
}
