package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PromoCodeConfig is one entry of the promo reference table.
type PromoCodeConfig struct {
	Code            string
	DiscountPercent int
	ValidFrom       time.Time
	ValidTo         time.Time
}

// PromoCodeList decodes CODE:PERCENT:FROM:TO entries separated by commas.
// FROM and TO are YYYY-MM-DD in UTC; TO covers the whole day.
type PromoCodeList []PromoCodeConfig

func (l *PromoCodeList) Decode(value string) error {
	var out PromoCodeList
	for _, raw := range strings.Split(value, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		parsed, err := parsePromoEntry(entry)
		if err != nil {
			return err
		}
		out = append(out, parsed)
	}
	*l = out
	return nil
}

func parsePromoEntry(entry string) (PromoCodeConfig, error) {
	parts := strings.Split(entry, ":")
	if len(parts) != 4 {
		return PromoCodeConfig{}, fmt.Errorf("promo %q: expected CODE:PERCENT:FROM:TO", entry)
	}
	code := strings.TrimSpace(parts[0])
	if code == "" {
		return PromoCodeConfig{}, fmt.Errorf("promo %q: code is empty", entry)
	}
	percent, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || percent <= 0 || percent > 100 {
		return PromoCodeConfig{}, fmt.Errorf("promo %q: percent must be 1-100", entry)
	}
	from, err := parsePromoTime(parts[2], false)
	if err != nil {
		return PromoCodeConfig{}, fmt.Errorf("promo %q: valid from: %w", entry, err)
	}
	to, err := parsePromoTime(parts[3], true)
	if err != nil {
		return PromoCodeConfig{}, fmt.Errorf("promo %q: valid to: %w", entry, err)
	}
	if to.Before(from) {
		return PromoCodeConfig{}, fmt.Errorf("promo %q: valid to precedes valid from", entry)
	}
	return PromoCodeConfig{Code: code, DiscountPercent: percent, ValidFrom: from, ValidTo: to}, nil
}

func parsePromoTime(value string, endOfDay bool) (time.Time, error) {
	day, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}
