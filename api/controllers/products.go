package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/izzah/storefront/api/middleware"
	"github.com/izzah/storefront/api/responses"
	"github.com/izzah/storefront/api/validators"
	productsvc "github.com/izzah/storefront/internal/products"
	pkgerrors "github.com/izzah/storefront/pkg/errors"
	"github.com/izzah/storefront/pkg/logger"
)

const maxParamLen = 256

type selectionRequest struct {
	Color string `json:"color" validate:"max=64"`
	Size  string `json:"size" validate:"max=64"`
}

type purchaseRequest struct {
	Color    string `json:"color" validate:"max=64"`
	Size     string `json:"size" validate:"max=64"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

func (p purchaseRequest) toInput() productsvc.PurchaseInput {
	return productsvc.PurchaseInput{
		Selection: productsvc.Selection{
			Color: validators.SanitizeString(p.Color, 64),
			Size:  validators.SanitizeString(p.Size, 64),
		},
		Quantity: p.Quantity,
	}
}

// ListCategories returns the featured categories.
func ListCategories(svc productsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"categories": svc.Categories()})
	}
}

// ListCategoryProducts returns the products filed under a category.
func ListCategoryProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := validators.SanitizeString(chi.URLParam(r, "category"), maxParamLen)
		products, err := svc.ListByCategory(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"category": category, "products": products})
	}
}

// GetProduct returns one product with its default selection and availability.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.GetProduct(r.Context(), productID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// CheckAvailability evaluates a color/size selection.
func CheckAvailability(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload selectionRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		availability, err := svc.CheckAvailability(r.Context(), productID(r), productsvc.Selection{
			Color: validators.SanitizeString(payload.Color, 64),
			Size:  validators.SanitizeString(payload.Size, 64),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, availability)
	}
}

// AddToCart adds the selection to the shopper's persistent cart.
func AddToCart(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload purchaseRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clientID := middleware.ClientIDFromContext(r.Context())
		items, err := svc.AddToCart(r.Context(), clientID, productID(r), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(items))
	}
}

// BuyNow stages a single item for an immediate checkout.
func BuyNow(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload purchaseRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clientID := middleware.ClientIDFromContext(r.Context())
		item, err := svc.BuyNow(r.Context(), clientID, productID(r), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"item": item})
	}
}

func productID(r *http.Request) string {
	return validators.SanitizeString(chi.URLParam(r, "productId"), maxParamLen)
}

func requireClientID(r *http.Request) (string, error) {
	clientID := middleware.ClientIDFromContext(r.Context())
	if clientID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "client id missing")
	}
	return clientID, nil
}
