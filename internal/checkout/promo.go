package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/izzah/storefront/pkg/config"
)

const (
	PromoMessageEmpty     = "Please enter a promo code"
	PromoMessageInvalid   = "Invalid promo code"
	PromoMessageNotActive = "Promo code not yet active"
	PromoMessageExpired   = "Promo code has expired"
)

// PromoCode is one entry of the static promo table.
type PromoCode struct {
	Code            string
	DiscountPercent int
	ValidFrom       time.Time
	ValidTo         time.Time
}

// PromoResult is the verdict for an entered code.
type PromoResult struct {
	Valid   bool
	Message string
	Promo   PromoCode
}

// PromoValidator matches codes case-insensitively against a fixed table.
type PromoValidator struct {
	codes []PromoCode
	now   func() time.Time
}

// NewPromoValidator builds a validator from configured codes.
func NewPromoValidator(codes []config.PromoCodeConfig) *PromoValidator {
	table := make([]PromoCode, 0, len(codes))
	for _, c := range codes {
		table = append(table, PromoCode{
			Code:            c.Code,
			DiscountPercent: c.DiscountPercent,
			ValidFrom:       c.ValidFrom,
			ValidTo:         c.ValidTo,
		})
	}
	return &PromoValidator{codes: table, now: time.Now}
}

// WithClock swaps the time source.
func (v *PromoValidator) WithClock(now func() time.Time) *PromoValidator {
	v.now = now
	return v
}

// Validate checks code against the table at the current time.
func (v *PromoValidator) Validate(code string) PromoResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return PromoResult{Message: PromoMessageEmpty}
	}
	promo, ok := v.lookup(code)
	if !ok {
		return PromoResult{Message: PromoMessageInvalid}
	}
	now := v.now()
	if now.Before(promo.ValidFrom) {
		return PromoResult{Message: PromoMessageNotActive}
	}
	if now.After(promo.ValidTo) {
		return PromoResult{Message: PromoMessageExpired}
	}
	return PromoResult{
		Valid:   true,
		Message: fmt.Sprintf("Promo code applied! You get %d%% off", promo.DiscountPercent),
		Promo:   promo,
	}
}

func (v *PromoValidator) lookup(code string) (PromoCode, bool) {
	for _, promo := range v.codes {
		if strings.EqualFold(promo.Code, code) {
			return promo, true
		}
	}
	return PromoCode{}, false
}
