package enums

import (
	"fmt"
	"strings"
)

// ProductCategory is one of the featured storefront categories.
type ProductCategory string

const (
	ProductCategoryBracelets        ProductCategory = "Bracelets"
	ProductCategoryPhoneCharms      ProductCategory = "Phone charms"
	ProductCategoryEarings          ProductCategory = "Earings"
	ProductCategoryNecklaces        ProductCategory = "Necklaces"
	ProductCategoryKeychains        ProductCategory = "Keychains"
	ProductCategoryBagPins          ProductCategory = "Bag pins"
	ProductCategoryPlushieKeychains ProductCategory = "Plushie keychains"
	ProductCategoryHairPins         ProductCategory = "Hair pins"
)

var validProductCategories = []ProductCategory{
	ProductCategoryBracelets,
	ProductCategoryPhoneCharms,
	ProductCategoryEarings,
	ProductCategoryNecklaces,
	ProductCategoryKeychains,
	ProductCategoryBagPins,
	ProductCategoryPlushieKeychains,
	ProductCategoryHairPins,
}

// ProductCategories returns the featured categories in display order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory, ignoring case.
func ParseProductCategory(value string) (ProductCategory, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validProductCategories {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
