package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/izzah/storefront/pkg/db"
	"github.com/izzah/storefront/pkg/db/models"
)

// DefaultMaxDocumentBytes mirrors the hosted document store's 1 MiB limit.
const DefaultMaxDocumentBytes = 1 << 20

// Repository is the create-only order store.
type Repository struct {
	db       *gorm.DB
	maxBytes int
}

// NewRepository builds a repository bound to the provided DB. A non-positive
// maxBytes falls back to DefaultMaxDocumentBytes.
func NewRepository(conn *gorm.DB, maxBytes int) *Repository {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	return &Repository{db: conn, maxBytes: maxBytes}
}

// Create writes the order once. Failures are returned as *WriteError.
func (r *Repository) Create(ctx context.Context, order *Order) error {
	if order == nil {
		return &WriteError{Kind: WriteErrorGeneric, Err: fmt.Errorf("order is nil")}
	}
	document, err := json.Marshal(order)
	if err != nil {
		return &WriteError{Kind: WriteErrorGeneric, Err: fmt.Errorf("encode order: %w", err)}
	}
	if len(document) > r.maxBytes {
		return &WriteError{
			Kind: WriteErrorPayloadTooLarge,
			Err:  fmt.Errorf("order document is %d bytes, limit %d", len(document), r.maxBytes),
		}
	}

	row := models.Order{
		ID:            order.OrderID,
		OrderType:     order.OrderType,
		Status:        order.Status,
		CustomerEmail: order.CustomerEmail,
		PaymentMethod: order.Payment,
		PromoCode:     order.PromoCode,
		Total:         order.Total,
		Document:      document,
		CreatedAt:     order.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		kind := WriteErrorGeneric
		switch {
		case db.IsResourceExhausted(err):
			kind = WriteErrorPayloadTooLarge
		case db.IsUniqueViolation(err, ""):
			kind = WriteErrorDuplicate
		}
		return &WriteError{Kind: kind, Err: err}
	}
	return nil
}

// FindByID loads a stored order snapshot.
func (r *Repository) FindByID(ctx context.Context, id string) (*Order, error) {
	var row models.Order
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	var order Order
	if err := json.Unmarshal(row.Document, &order); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", id, err)
	}
	return &order, nil
}
