package product

import (
	"github.com/izzah/storefront/pkg/db/models"
	"github.com/izzah/storefront/pkg/types"
)

const (
	MessageInStock         = "In Stock"
	MessageAvailableSoon   = "Will be available soon"
	MessageColorOutOfStock = "Selected color is out of stock"
	MessageSizeOutOfStock  = "Selected size is out of stock"
	MessageBothOutOfStock  = "Selected color and size are out of stock"
)

// Selection is the shopper's chosen color and size; empty means unselected.
type Selection struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// Availability is the purchasability verdict for a product and selection.
type Availability struct {
	Purchasable bool   `json:"purchasable"`
	Message     string `json:"message"`
}

// DefaultSelection picks the first in-stock color and size.
func DefaultSelection(p *models.Product) Selection {
	return Selection{
		Color: p.ColorVariations.FirstInStock(),
		Size:  p.SizeVariations.FirstInStock(),
	}
}

// Evaluate derives availability from the product flag and variant stock.
func Evaluate(p *models.Product, sel Selection) Availability {
	if !p.Available {
		return Availability{Purchasable: false, Message: MessageAvailableSoon}
	}
	colorOK := selectionInStock(p.ColorVariations, sel.Color)
	sizeOK := selectionInStock(p.SizeVariations, sel.Size)
	switch {
	case colorOK && sizeOK:
		return Availability{Purchasable: true, Message: MessageInStock}
	case !colorOK && !sizeOK:
		return Availability{Purchasable: false, Message: MessageBothOutOfStock}
	case !colorOK:
		return Availability{Purchasable: false, Message: MessageColorOutOfStock}
	default:
		return Availability{Purchasable: false, Message: MessageSizeOutOfStock}
	}
}

// selectionInStock treats an empty list or an unset selection as in stock; a
// name that matches no variant is out of stock.
func selectionInStock(options types.Variations, selected string) bool {
	if len(options) == 0 || selected == "" {
		return true
	}
	v, ok := options.Find(selected)
	if !ok {
		return false
	}
	return v.InStock()
}
