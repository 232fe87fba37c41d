package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/izzah/storefront/internal/cart"
	"github.com/izzah/storefront/pkg/db/models"
	"github.com/izzah/storefront/pkg/enums"
	pkgerrors "github.com/izzah/storefront/pkg/errors"
)

const (
	noColor = "no-color"
	noSize  = "no-size"
)

// Service exposes the storefront catalog and cart entry points.
type Service interface {
	Categories() []enums.ProductCategory
	ListByCategory(ctx context.Context, category string) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id string) (*ProductDetail, error)
	CheckAvailability(ctx context.Context, id string, sel Selection) (*Availability, error)
	AddToCart(ctx context.Context, clientID, id string, input PurchaseInput) ([]cart.Item, error)
	BuyNow(ctx context.Context, clientID, id string, input PurchaseInput) (*cart.Item, error)
}

// PurchaseInput is the shopper's selection plus quantity.
type PurchaseInput struct {
	Selection
	Quantity int
}

type cartWriter interface {
	Add(ctx context.Context, clientID string, item cart.Item) ([]cart.Item, error)
	SetBuyNow(ctx context.Context, clientID string, item cart.Item) error
}

type service struct {
	repo  ProductRepository
	carts cartWriter
	now   func() time.Time
}

// NewService builds the catalog service.
func NewService(repo ProductRepository, carts cartWriter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	return &service{repo: repo, carts: carts, now: time.Now}, nil
}

func (s *service) Categories() []enums.ProductCategory {
	return enums.ProductCategories()
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]ProductDTO, error) {
	parsed, err := enums.ParseProductCategory(category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
	}
	rows, err := s.repo.ListByCategory(ctx, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sel := DefaultSelection(p)
	return &ProductDetail{
		Product:          NewProductDTO(p),
		DefaultSelection: sel,
		Availability:     Evaluate(p, sel),
	}, nil
}

func (s *service) CheckAvailability(ctx context.Context, id string, sel Selection) (*Availability, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	availability := Evaluate(p, sel)
	return &availability, nil
}

func (s *service) AddToCart(ctx context.Context, clientID, id string, input PurchaseInput) ([]cart.Item, error) {
	p, err := s.purchasable(ctx, id, input)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	item := newCartItem(p, input, now)
	item.ID = ItemKey(p.ID, input.Selection, now)
	return s.carts.Add(ctx, clientID, item)
}

func (s *service) BuyNow(ctx context.Context, clientID, id string, input PurchaseInput) (*cart.Item, error) {
	p, err := s.purchasable(ctx, id, input)
	if err != nil {
		return nil, err
	}
	item := newCartItem(p, input, s.now().UTC())
	item.ID = p.ID
	if err := s.carts.SetBuyNow(ctx, clientID, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *service) load(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return p, nil
}

func (s *service) purchasable(ctx context.Context, id string, input PurchaseInput) (*models.Product, error) {
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	availability := Evaluate(p, input.Selection)
	if !availability.Purchasable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, availability.Message).
			WithDetails(map[string]any{"availability": availability})
	}
	return p, nil
}

// ItemKey builds the cart key <productId>_<color|no-color>_<size|no-size>_<ms>.
func ItemKey(productID string, sel Selection, at time.Time) string {
	color := sel.Color
	if color == "" {
		color = noColor
	}
	size := sel.Size
	if size == "" {
		size = noSize
	}
	return fmt.Sprintf("%s_%s_%s_%d", productID, color, size, at.UnixMilli())
}

func newCartItem(p *models.Product, input PurchaseInput, at time.Time) cart.Item {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return cart.Item{
		ProductID:  p.ID,
		Title:      p.Title,
		Price:      p.Price,
		Quantity:   quantity,
		Image:      p.CoverImage,
		CoverImage: p.CoverImage,
		Color:      input.Color,
		Size:       input.Size,
		Variation:  p.Variation,
		Type:       p.Type,
		Lining:     p.Lining,
		CreatedAt:  at,
	}
}
