package checkout

import (
	"github.com/izzah/storefront/internal/cart"
	"github.com/izzah/storefront/pkg/enums"
)

// PromoView is the promo block of a checkout view.
type PromoView struct {
	Applied         bool   `json:"applied"`
	Code            string `json:"code,omitempty"`
	DiscountPercent int    `json:"discountPercent"`
	Message         string `json:"message,omitempty"`
	Locked          bool   `json:"locked"`
}

// ProofView describes the uploaded proof without echoing the image.
type ProofView struct {
	Required   bool   `json:"required"`
	Uploaded   bool   `json:"uploaded"`
	MIME       string `json:"mime,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Converting bool   `json:"converting"`
}

// View is the client-facing state of a checkout session.
type View struct {
	State       enums.CheckoutState `json:"state"`
	OrderType   enums.OrderType     `json:"orderType"`
	Items       []cart.Item         `json:"items"`
	Form        Form                `json:"form"`
	Promo       PromoView           `json:"promo"`
	Proof       ProofView           `json:"proof"`
	Totals      Totals              `json:"totals"`
	Display     Totals              `json:"display"`
	CanSubmit   bool                `json:"canSubmit"`
	LastOrderID string              `json:"lastOrderId,omitempty"`
}

// NewView projects a session.
func NewView(session *Session) *View {
	totals := session.Totals()
	proof := ProofView{
		Required:   session.Form.PaymentMethod.RequiresProof(),
		Uploaded:   session.HasProof(),
		Converting: session.Converting,
	}
	if session.Proof != nil {
		proof.MIME = session.Proof.MIME
		proof.Size = session.Proof.Size
	}
	items := session.Items
	if items == nil {
		items = []cart.Item{}
	}
	return &View{
		State:     session.State,
		OrderType: session.OrderType,
		Items:     items,
		Form:      session.Form,
		Promo: PromoView{
			Applied:         session.PromoApplied,
			Code:            session.AppliedCode,
			DiscountPercent: session.DiscountPercent,
			Message:         session.PromoMessage,
			Locked:          session.PromoApplied,
		},
		Proof:       proof,
		Totals:      totals,
		Display:     totals.Display(),
		CanSubmit:   session.State == enums.CheckoutStateEditing && !session.Converting,
		LastOrderID: session.LastOrderID,
	}
}
