package product

import (
	"github.com/shopspring/decimal"

	"github.com/izzah/storefront/pkg/db/models"
	"github.com/izzah/storefront/pkg/types"
)

// ProductDTO is the public product payload.
type ProductDTO struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Price           decimal.Decimal   `json:"price"`
	CoverImage      string            `json:"coverImage"`
	Images          []string          `json:"images"`
	Gallery         []string          `json:"gallery"`
	ColorVariations types.Variations  `json:"colorVariations"`
	SizeVariations  types.Variations  `json:"sizeVariations"`
	Available       bool              `json:"available"`
	Description     string            `json:"description"`
	PackageInfo     string            `json:"packageInfo"`
	Details         map[string]string `json:"details"`
	Category        string            `json:"category,omitempty"`
}

// ProductDetail pairs a product with its default selection and availability.
type ProductDetail struct {
	Product          ProductDTO   `json:"product"`
	DefaultSelection Selection    `json:"defaultSelection"`
	Availability     Availability `json:"availability"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(p *models.Product) ProductDTO {
	packageInfo := p.PackageInfo
	if packageInfo == "" {
		packageInfo = models.DefaultPackageInfo
	}
	images := append([]string{}, p.Images...)
	details := make(map[string]string, len(p.Details))
	for k, v := range p.Details {
		details[k] = v
	}
	colors := p.ColorVariations
	if colors == nil {
		colors = types.Variations{}
	}
	sizes := p.SizeVariations
	if sizes == nil {
		sizes = types.Variations{}
	}
	return ProductDTO{
		ID:              p.ID,
		Title:           p.Title,
		Price:           p.Price,
		CoverImage:      p.CoverImage,
		Images:          images,
		Gallery:         gallery(p.CoverImage, images),
		ColorVariations: colors,
		SizeVariations:  sizes,
		Available:       p.Available,
		Description:     p.Description,
		PackageInfo:     packageInfo,
		Details:         details,
		Category:        string(p.Category),
	}
}

// gallery lists the cover image followed by the remaining images.
func gallery(cover string, images []string) []string {
	out := make([]string, 0, len(images)+1)
	if cover != "" {
		out = append(out, cover)
	}
	return append(out, images...)
}
