package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/izzah/storefront/internal/cart"
	"github.com/izzah/storefront/pkg/db/models"
	"github.com/izzah/storefront/pkg/enums"
	pkgerrors "github.com/izzah/storefront/pkg/errors"
	"github.com/izzah/storefront/pkg/kv"
	"github.com/izzah/storefront/pkg/types"
)

type stubProductRepo struct {
	products map[string]*models.Product
	err      error
}

func (s *stubProductRepo) FindByID(_ context.Context, id string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubProductRepo) ListByCategory(_ context.Context, category enums.ProductCategory) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, products ...*models.Product) (*service, *cart.Store) {
	t.Helper()
	repo := &stubProductRepo{products: map[string]*models.Product{}}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	carts, err := cart.NewStore(kv.NewMemory(), 0, time.Hour)
	if err != nil {
		t.Fatalf("cart store: %v", err)
	}
	svc, err := NewService(repo, carts)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	impl := svc.(*service)
	impl.now = func() time.Time { return time.UnixMilli(1767225600000) }
	return impl, carts
}

func earrings() *models.Product {
	return &models.Product{
		ID:         "ear-1",
		Title:      "Star earings",
		Price:      decimal.NewFromInt(750),
		CoverImage: "star.jpg",
		Available:  true,
		Category:   enums.ProductCategoryEarings,
		ColorVariations: types.Variations{
			types.StockedVariation{VariantName: "Gold", Stocked: false},
			types.NamedVariation("Silver"),
		},
	}
}

func TestGetProductIncludesDefaults(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, earrings())

	detail, err := svc.GetProduct(context.Background(), "ear-1")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if detail.DefaultSelection.Color != "Silver" {
		t.Fatalf("expected Silver default, got %q", detail.DefaultSelection.Color)
	}
	if detail.Product.PackageInfo != models.DefaultPackageInfo {
		t.Fatalf("expected default package info, got %q", detail.Product.PackageInfo)
	}
	if !detail.Availability.Purchasable {
		t.Fatalf("expected purchasable default selection")
	}
	if len(detail.Product.Gallery) != 1 || detail.Product.Gallery[0] != "star.jpg" {
		t.Fatalf("unexpected gallery %v", detail.Product.Gallery)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.GetProduct(context.Background(), "nope")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetProductRepoFailure(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	svc.repo = &stubProductRepo{err: errors.New("db down")}

	_, err := svc.GetProduct(context.Background(), "ear-1")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestAddToCartBuildsKeyAndMerges(t *testing.T) {
	t.Parallel()
	svc, carts := newTestService(t, earrings())
	ctx := context.Background()

	items, err := svc.AddToCart(ctx, "c1", "ear-1", PurchaseInput{Selection: Selection{Color: "Silver"}, Quantity: 2})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if len(items) != 1 || items[0].ID != "ear-1_Silver_no-size_1767225600000" {
		t.Fatalf("unexpected items %+v", items)
	}

	items, err = svc.AddToCart(ctx, "c1", "ear-1", PurchaseInput{Selection: Selection{Color: "Silver"}})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %+v", items)
	}

	stored, _ := carts.Items(ctx, "c1")
	if len(stored) != 1 || stored[0].Image != "star.jpg" {
		t.Fatalf("unexpected stored cart %+v", stored)
	}
}

func TestAddToCartRejectsOutOfStock(t *testing.T) {
	t.Parallel()
	svc, carts := newTestService(t, earrings())

	_, err := svc.AddToCart(context.Background(), "c1", "ear-1", PurchaseInput{Selection: Selection{Color: "Gold"}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict || typed.Message() != MessageColorOutOfStock {
		t.Fatalf("expected out of stock conflict, got %v", err)
	}
	stored, _ := carts.Items(context.Background(), "c1")
	if len(stored) != 0 {
		t.Fatalf("cart should stay empty")
	}
}

func TestBuyNowStoresPendingItem(t *testing.T) {
	t.Parallel()
	svc, carts := newTestService(t, earrings())
	ctx := context.Background()

	item, err := svc.BuyNow(ctx, "c1", "ear-1", PurchaseInput{Selection: Selection{Color: "Silver"}})
	if err != nil {
		t.Fatalf("buy now: %v", err)
	}
	if item.ID != "ear-1" || item.Quantity != 1 {
		t.Fatalf("unexpected buy-now item %+v", item)
	}
	pending, err := carts.BuyNow(ctx, "c1")
	if err != nil {
		t.Fatalf("load pending: %v", err)
	}
	if !pending.Price.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("unexpected price %s", pending.Price)
	}
}

func TestListByCategory(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, earrings())

	rows, err := svc.ListByCategory(context.Background(), "earings")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 product, got %d", len(rows))
	}
	if _, err := svc.ListByCategory(context.Background(), "shoes"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown category, got %v", err)
	}
	if len(svc.Categories()) != 8 {
		t.Fatalf("expected 8 featured categories")
	}
}
