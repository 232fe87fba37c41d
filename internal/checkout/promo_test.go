package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izzah/storefront/pkg/config"
)

func testPromos(t *testing.T, at time.Time) *PromoValidator {
	t.Helper()
	var list config.PromoCodeList
	require.NoError(t, list.Decode("IJS12:12:2026-01-01:2026-12-31"))
	return NewPromoValidator(list).WithClock(func() time.Time { return at })
}

func TestPromoValidate(t *testing.T) {
	t.Parallel()

	inWindow := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		at      time.Time
		code    string
		valid   bool
		message string
	}{
		{"applies", inWindow, "IJS12", true, "Promo code applied! You get 12% off"},
		{"case insensitive", inWindow, " ijs12 ", true, "Promo code applied! You get 12% off"},
		{"last day inclusive", time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC), "IJS12", true, "Promo code applied! You get 12% off"},
		{"expired", time.Date(2027, 1, 1, 0, 0, 1, 0, time.UTC), "IJS12", false, PromoMessageExpired},
		{"not yet active", time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC), "IJS12", false, PromoMessageNotActive},
		{"unknown", inWindow, "SAVE50", false, PromoMessageInvalid},
		{"empty", inWindow, "   ", false, PromoMessageEmpty},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := testPromos(t, tc.at).Validate(tc.code)
			assert.Equal(t, tc.valid, result.Valid)
			assert.Equal(t, tc.message, result.Message)
			if tc.valid {
				assert.Equal(t, 12, result.Promo.DiscountPercent)
				assert.Equal(t, "IJS12", result.Promo.Code)
			}
		})
	}
}
