package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/izzah/storefront/pkg/enums"
	"github.com/izzah/storefront/pkg/types"
)

// DefaultPackageInfo is shown when a product record has no package text.
const DefaultPackageInfo = "3 PIECE"

// Product is a catalog listing.
type Product struct {
	ID              string                `gorm:"column:id;primaryKey"`
	Title           string                `gorm:"column:title;not null"`
	Price           decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	CoverImage      string                `gorm:"column:cover_image"`
	Images          []string              `gorm:"column:images;type:jsonb;serializer:json"`
	ColorVariations types.Variations      `gorm:"column:color_variations;type:jsonb"`
	SizeVariations  types.Variations      `gorm:"column:size_variations;type:jsonb"`
	Available       bool                  `gorm:"column:available;not null"`
	Description     string                `gorm:"column:description"`
	PackageInfo     string                `gorm:"column:package_info"`
	Details         map[string]string     `gorm:"column:details;type:jsonb;serializer:json"`
	Category        enums.ProductCategory `gorm:"column:category;index"`
	Variation       string                `gorm:"column:variation"`
	Type            string                `gorm:"column:type"`
	Lining          bool                  `gorm:"column:lining;not null;default:false"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
