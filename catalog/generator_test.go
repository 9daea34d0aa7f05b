package catalog

import (
	"reflect"
	"testing"
)

func TestGenerateIsDeterministic(t *testing.T) {
	first := Generate("shoes", false, "VN", 20)
	second := Generate("shoes", false, "VN", 20)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs must reproduce identical output")
	}
}

func TestGenerateSeedTupleChangesOutput(t *testing.T) {
	base := Generate("shoes", false, "VN", 5)
	byKeyword := Generate("bags", false, "VN", 5)
	byRegion := Generate("shoes", false, "US", 5)
	byTrending := Generate("shoes", true, "VN", 5)

	if reflect.DeepEqual(base, byKeyword) {
		t.Fatalf("keyword should participate in the seed")
	}
	if reflect.DeepEqual(base, byRegion) {
		t.Fatalf("region should participate in the seed")
	}
	if reflect.DeepEqual(base, byTrending) {
		t.Fatalf("trending flag should participate in the seed")
	}
}

func TestGenerateCardinality(t *testing.T) {
	for _, limit := range []int{1, 7, 50, 200} {
		if got := len(Generate("shoes", false, "US", limit)); got != limit {
			t.Fatalf("len(Generate(limit=%d)) = %d, want exactly %d", limit, got, limit)
		}
	}
}

func TestGenerateFieldRanges(t *testing.T) {
	records := Generate("gadgets", false, "VN", 50)
	for i, r := range records {
		price, ok := r["price"].(float64)
		if !ok || price < 1.0 || price > 300.0 {
			t.Fatalf("record %d price = %v, want float in [1,300]", i, r["price"])
		}
		sold, ok := r["sold_count"].(int)
		if !ok || sold < 10 || sold > 50000 {
			t.Fatalf("record %d sold_count = %v, want int in [10,50000]", i, r["sold_count"])
		}
		if r["currency"] != "VND" {
			t.Fatalf("record %d currency = %v, want VND for region VN", i, r["currency"])
		}
		pid, ok := r["product_id"].(string)
		if !ok || len(pid) != 18 {
			t.Fatalf("record %d product_id = %v, want 18-digit string", i, r["product_id"])
		}
		if r["_source"] != "mock" {
			t.Fatalf("record %d _source = %v", i, r["_source"])
		}
	}
}

func TestGenerateDefaultsRegionAndKeyword(t *testing.T) {
	records := Generate("", true, "", 1)
	if records[0]["currency"] != "USD" {
		t.Fatalf("absent region should default to US/USD, got %v", records[0]["currency"])
	}
	if records[0]["title"] != "Trending Product 1" {
		t.Fatalf("title = %v, want Trending placeholder", records[0]["title"])
	}
}
