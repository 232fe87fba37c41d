package product

import (
	"context"

	"gorm.io/gorm"

	"github.com/izzah/storefront/pkg/db/models"
	"github.com/izzah/storefront/pkg/enums"
)

// ProductRepository is the read side of the catalog.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	ListByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error)
}

// Repository loads products through GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByCategory returns the category's products, newest first.
func (r *Repository) ListByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a product; used by seeding and tests.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}
