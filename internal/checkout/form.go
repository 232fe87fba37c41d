package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/izzah/storefront/pkg/enums"
	pkgerrors "github.com/izzah/storefront/pkg/errors"
)

// ShippingMethodStandard is the only shipping option offered.
const ShippingMethodStandard = "Standard Delivery"

const (
	FieldEmail             = "email"
	FieldFullName          = "fullName"
	FieldPhone             = "phone"
	FieldAddress           = "address"
	FieldCity              = "city"
	FieldPostalCode        = "postalCode"
	FieldRegion            = "region"
	FieldCountry           = "country"
	FieldBankTransferProof = "bankTransferProof"
)

const (
	MessageRequired       = "This field is required"
	MessageInvalidEmail   = "Please enter a valid email address"
	MessageInvalidPhone   = "Please enter a valid phone number (at least 7 digits)"
	MessageProofEasyPaisa = "Please upload a screenshot of your EasyPaisa transaction."
	MessageProofCOD       = "Please upload proof of advance delivery charges payment."
)

var (
	emailPattern      = regexp.MustCompile(`\S+@\S+\.\S+`)
	phoneStripPattern = regexp.MustCompile(`[\s\-\(\)]`)
	phonePattern      = regexp.MustCompile(`^\d{7,}$`)
)

// Form is the shopper-editable part of a checkout.
type Form struct {
	Email          string              `json:"email"`
	FullName       string              `json:"fullName"`
	Phone          string              `json:"phone"`
	Address        string              `json:"address"`
	City           string              `json:"city"`
	PostalCode     string              `json:"postalCode"`
	Region         string              `json:"region"`
	Country        string              `json:"country"`
	ShippingMethod string              `json:"shippingMethod"`
	PaymentMethod  enums.PaymentMethod `json:"paymentMethod"`
	PromoCode      string              `json:"promoCode"`
	Notes          string              `json:"notes"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is ordered the way fields appear on the form.
type FieldErrors []FieldError

// First names the first invalid field, or "".
func (fe FieldErrors) First() string {
	if len(fe) == 0 {
		return ""
	}
	return fe[0].Field
}

// Map indexes messages by field.
func (fe FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(fe))
	for _, e := range fe {
		out[e.Field] = e.Message
	}
	return out
}

// Has reports whether field failed.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Err converts the list into a VALIDATION_ERROR carrying per-field details.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%d field(s) need attention", len(fe))).
		WithFields(fe.Map(), fe.First())
}

// ValidateForm checks the form all-or-nothing. hasProof reports whether a
// payment proof has been uploaded.
func ValidateForm(form Form, hasProof bool) FieldErrors {
	var errs FieldErrors

	if email := strings.TrimSpace(form.Email); email != "" && !emailPattern.MatchString(email) {
		errs = append(errs, FieldError{Field: FieldEmail, Message: MessageInvalidEmail})
	}
	errs = appendRequired(errs, FieldFullName, form.FullName)
	if isBlank(form.Phone) {
		errs = append(errs, FieldError{Field: FieldPhone, Message: MessageRequired})
	} else if !ValidPhone(form.Phone) {
		errs = append(errs, FieldError{Field: FieldPhone, Message: MessageInvalidPhone})
	}
	errs = appendRequired(errs, FieldAddress, form.Address)
	errs = appendRequired(errs, FieldCity, form.City)
	errs = appendRequired(errs, FieldRegion, form.Region)
	errs = appendRequired(errs, FieldCountry, form.Country)

	if form.PaymentMethod.RequiresProof() && !hasProof {
		errs = append(errs, FieldError{Field: FieldBankTransferProof, Message: ProofRequiredMessage(form.PaymentMethod)})
	}
	return errs
}

// ValidPhone reports whether phone has at least 7 digits once spaces,
// hyphens and parentheses are removed.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneStripPattern.ReplaceAllString(phone, ""))
}

// ProofRequiredMessage is the method-specific missing-proof text.
func ProofRequiredMessage(method enums.PaymentMethod) string {
	if method == enums.PaymentMethodEasyPaisa {
		return MessageProofEasyPaisa
	}
	return MessageProofCOD
}

func appendRequired(errs FieldErrors, field, value string) FieldErrors {
	if isBlank(value) {
		return append(errs, FieldError{Field: field, Message: MessageRequired})
	}
	return errs
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// FormPatch carries partial form edits; nil fields are left unchanged.
type FormPatch struct {
	Email         *string `json:"email"`
	FullName      *string `json:"fullName"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	PostalCode    *string `json:"postalCode"`
	Region        *string `json:"region"`
	Country       *string `json:"country"`
	PaymentMethod *string `json:"paymentMethod"`
	PromoCode     *string `json:"promoCode"`
	Notes         *string `json:"notes"`
}

func (p FormPatch) apply(form *Form) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&form.Email, p.Email)
	set(&form.FullName, p.FullName)
	set(&form.Phone, p.Phone)
	set(&form.Address, p.Address)
	set(&form.City, p.City)
	set(&form.PostalCode, p.PostalCode)
	set(&form.Region, p.Region)
	set(&form.Country, p.Country)
	set(&form.PromoCode, p.PromoCode)
	set(&form.Notes, p.Notes)
	if p.PaymentMethod != nil {
		method, err := enums.ParsePaymentMethod(*p.PaymentMethod)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported payment method").
				WithField("paymentMethod", "Please choose EasyPaisa or Cash on Delivery")
		}
		form.PaymentMethod = method
	}
	return nil
}
