package checkout

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/izzah/storefront/internal/orders"
	"github.com/izzah/storefront/pkg/enums"
)

const orderIDSuffixLen = 9

// NewOrderID builds <PREFIX>_<unix-ms>_<9 base36 chars>. The suffix comes
// from a random UUID; ids are locally unique only.
func NewOrderID(orderType enums.OrderType, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", orderType.IDPrefix(), now.UnixMilli(), randomSuffix(uuid.New()))
}

func randomSuffix(id uuid.UUID) string {
	encoded := strconv.FormatUint(binary.BigEndian.Uint64(id[:8]), 36)
	if len(encoded) < orderIDSuffixLen {
		encoded = strings.Repeat("0", orderIDSuffixLen-len(encoded)) + encoded
	}
	return encoded[len(encoded)-orderIDSuffixLen:]
}

// AssembleOrder snapshots the session into an immutable order.
func AssembleOrder(session *Session, orderID string, now time.Time) *orders.Order {
	totals := session.Totals()
	form := session.Form

	items := make([]orders.Item, 0, len(session.Items))
	for _, item := range session.Items {
		items = append(items, orders.Item{
			ProductID: item.EffectiveProductID(),
			Title:     item.Title,
			Quantity:  item.EffectiveQuantity(),
			Price:     item.Price,
			Image:     item.EffectiveImage(),
			Variation: optional(item.Variation),
			Type:      optional(item.Type),
			Size:      optional(item.Size),
			Color:     optional(item.Color),
			Lining:    item.Lining,
		})
	}

	discountPercent := 0
	if session.PromoApplied {
		discountPercent = session.DiscountPercent
	}

	order := &orders.Order{
		OrderID:       orderID,
		CustomerType:  enums.CustomerTypeGuest,
		CustomerEmail: strings.TrimSpace(form.Email),
		Items:         items,
		Shipping:      form.ShippingMethod,
		Payment:       form.PaymentMethod,
		ShippingAddress: orders.ShippingAddress{
			FullName:   form.FullName,
			Phone:      form.Phone,
			Address:    form.Address,
			City:       form.City,
			PostalCode: form.PostalCode,
			Region:     form.Region,
			Country:    form.Country,
		},
		PromoCode:       form.PromoCode,
		DiscountApplied: totals.Discount,
		DiscountPercent: discountPercent,
		Notes:           form.Notes,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		ShippingCost:    totals.ShippingCost,
		SalesTax:        totals.SalesTax,
		Total:           totals.Total,
		CreatedAt:       now,
		Status:          enums.OrderStatusProcessing,
		BuyNow:          session.OrderType == enums.OrderTypeBuyNow,
		OrderType:       session.OrderType,
	}
	if form.PaymentMethod.RequiresProof() && session.HasProof() {
		proof := session.Proof.DataURL
		order.BankTransferProofBase64 = &proof
	}
	return order
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
