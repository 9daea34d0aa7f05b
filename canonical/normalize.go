// Package canonical maps raw heterogeneous records into the stable
// output schema and holds the pure field normalizers shared by every
// extraction path.
package canonical

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NormalizePrice converts any price representation to a float. Every
// character that is not a digit, decimal point, or comma is stripped,
// thousands-commas removed, and the remainder parsed. Unparsable
// values yield 0.0.
func NormalizePrice(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}

	var b strings.Builder
	for _, r := range toString(value) {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

var regionCurrencies = map[string]string{
	"US": "USD",
	"VN": "VND",
	"GB": "GBP",
	"EU": "EUR",
	"PK": "PKR",
	"ID": "IDR",
	"MY": "MYR",
	"TH": "THB",
	"PH": "PHP",
}

// CurrencyForRegion infers a currency code from a two-letter region
// code, case-insensitively. Unknown or absent regions map to USD.
func CurrencyForRegion(region string) string {
	if region == "" {
		return "USD"
	}
	if currency, ok := regionCurrencies[strings.ToUpper(region)]; ok {
		return currency
	}
	return "USD"
}

// ToISO8601 coerces a timestamp-ish value to an ISO-8601 string.
// Numerics are epoch seconds in UTC, strings are parsed best-effort,
// time.Time values are formatted directly. Anything else is nil.
func ToISO8601(value any) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return isoPtr(time.Unix(int64(v), 0).UTC())
	case int:
		return isoPtr(time.Unix(int64(v), 0).UTC())
	case int64:
		return isoPtr(time.Unix(v, 0).UTC())
	case time.Time:
		return isoPtr(v)
	case string:
		if v == "" {
			return nil
		}
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return nil
		}
		return isoPtr(t)
	default:
		return nil
	}
}

func isoPtr(t time.Time) *string {
	s := t.Format(time.RFC3339)
	return &s
}

// CleanText trims a scalar's text form, returning nil for empty input.
func CleanText(value string) *string {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}
	return &text
}

// NormalizeLink canonicalizes a product link for identity comparison.
// Shop links sometimes carry tracking params; stripping them was
// considered but the upstream behavior is trim-only, so this stays
// trim-only to keep dedupe keys comparable with historical output.
func NormalizeLink(link string) string {
	return strings.TrimSpace(link)
}
