package canonical

import (
	"testing"
	"time"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"dollar string", "$9.99", 9.99},
		{"thousands commas", "1,299.50", 1299.5},
		{"currency suffix", "120.000 VND", 120.000},
		{"plain digits", "42", 42},
		{"garbage", "free!", 0},
		{"empty string", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePrice(tt.in); got != tt.want {
				t.Fatalf("NormalizePrice(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCurrencyForRegion(t *testing.T) {
	tests := []struct {
		region string
		want   string
	}{
		{"US", "USD"},
		{"VN", "VND"},
		{"vn", "VND"},
		{"us", "USD"},
		{"GB", "GBP"},
		{"ID", "IDR"},
		{"", "USD"},
		{"ZZ", "USD"},
	}
	for _, tt := range tests {
		if got := CurrencyForRegion(tt.region); got != tt.want {
			t.Fatalf("CurrencyForRegion(%q) = %q, want %q", tt.region, got, tt.want)
		}
	}
}

func TestToISO8601(t *testing.T) {
	if got := ToISO8601(nil); got != nil {
		t.Fatalf("ToISO8601(nil) = %v, want nil", *got)
	}
	if got := ToISO8601("not a date at all zzz"); got != nil {
		t.Fatalf("ToISO8601(garbage) = %v, want nil", *got)
	}

	if got := ToISO8601(float64(0)); got == nil || *got != "1970-01-01T00:00:00Z" {
		t.Fatalf("ToISO8601(0) = %v, want epoch in UTC", got)
	}

	if got := ToISO8601("2023-06-01T10:30:00Z"); got == nil || *got != "2023-06-01T10:30:00Z" {
		t.Fatalf("ToISO8601(iso string) = %v", got)
	}

	ts := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	if got := ToISO8601(ts); got == nil || *got != "2024-03-05T08:00:00Z" {
		t.Fatalf("ToISO8601(time.Time) = %v", got)
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  hi  "); got == nil || *got != "hi" {
		t.Fatalf("CleanText should trim, got %v", got)
	}
	if got := CleanText("   "); got != nil {
		t.Fatalf("CleanText(blank) = %q, want nil", *got)
	}
}

func TestNormalizeLinkTrimOnly(t *testing.T) {
	link := "  https://shop.example.test/product/1?tracking=abc  "
	want := "https://shop.example.test/product/1?tracking=abc"
	if got := NormalizeLink(link); got != want {
		t.Fatalf("NormalizeLink = %q, want trim-only %q", got, want)
	}
}
