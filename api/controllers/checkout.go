package controllers

import (
	"errors"
	"net/http"

	"github.com/izzah/storefront/api/responses"
	"github.com/izzah/storefront/api/validators"
	checkoutsvc "github.com/izzah/storefront/internal/checkout"
	"github.com/izzah/storefront/pkg/enums"
	pkgerrors "github.com/izzah/storefront/pkg/errors"
	"github.com/izzah/storefront/pkg/logger"
)

const (
	proofField = checkoutsvc.FieldBankTransferProof
	// multipart framing allowance on top of the proof limit
	multipartOverhead int64 = 1 << 20
)

type startCheckoutRequest struct {
	Source string `json:"source" validate:"required,oneof=buyNow buy_now cart"`
}

type promoRequest struct {
	Code string `json:"code" validate:"max=64"`
}

// StartCheckout opens a session from the buy-now handoff or the cart.
func StartCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload startCheckoutRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderType, err := enums.ParseOrderType(payload.Source)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "source must be buyNow or cart"))
			return
		}
		view, err := svc.Start(r.Context(), clientID, orderType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// GetCheckout returns the current session view.
func GetCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateCheckoutForm applies partial form edits.
func UpdateCheckoutForm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var patch checkoutsvc.FormPatch
		if err := validators.DecodeJSONBody(w, r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateForm(r.Context(), clientID, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ApplyPromo validates and applies a promo code.
func ApplyPromo(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload promoRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ApplyPromo(r.Context(), clientID, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// RemovePromo clears an applied promo code.
func RemovePromo(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemovePromo(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UploadProof accepts the payment screenshot as multipart field
// bankTransferProof.
func UploadProof(svc checkoutsvc.Service, maxProofBytes int64, logg *logger.Logger) http.HandlerFunc {
	if maxProofBytes <= 0 {
		maxProofBytes = checkoutsvc.DefaultMaxProofBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxProofBytes+multipartOverhead)
		if err := r.ParseMultipartForm(maxProofBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, checkoutsvc.ProofTooLarge(maxProofBytes))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, checkoutsvc.MessageProofReadError).
				WithField(proofField, checkoutsvc.MessageProofReadError))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile(proofField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bankTransferProof file is required").
				WithField(proofField, "Please choose an image to upload."))
			return
		}
		defer file.Close()

		view, err := svc.UploadProof(r.Context(), clientID, file, header.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// PlaceOrder submits the checkout. Runs behind the idempotency middleware.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.PlaceOrder(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// GetConfirmation returns the last placed order for the thank-you page.
func GetConfirmation(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := requireClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		confirmation, err := svc.Confirmation(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, confirmation)
	}
}
