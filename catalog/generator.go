// Package catalog produces a deterministic synthetic product catalog.
// It backs offline mode and doubles as a reproducible test oracle: the
// same inputs always yield the same records in the same order.
package catalog

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"

	"github.com/davitran/go-scrape-ttshop/canonical"
	"github.com/davitran/go-scrape-ttshop/models"
)

// discounts is the fixed draw set; the empty string means no discount.
var discounts = []string{"", "10%", "15%", "25%", "40%"}

// labelPools is the fixed pool of promotion label sets, including the
// empty set.
var labelPools = [][]string{
	{"Flash Sale"},
	{"Top Choice Star Shop"},
	{"Editor Pick"},
	{},
	{"Limited Offer"},
}

const digits = "0123456789"
const lowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns exactly limit raw records seeded by the normalized
// (keyword, region, trending) tuple. Field draw order is fixed, so the
// output is byte-identical across runs with identical inputs.
func Generate(keyword string, trending bool, region string, limit int) []models.RawRecord {
	if limit < 0 {
		limit = 0
	}
	if region == "" {
		region = "US"
	}

	seedBasis := seedBasis(keyword, trending, region)
	rng := rand.New(rand.NewSource(seed(seedBasis)))
	currency := canonical.CurrencyForRegion(region)

	titleKeyword := keyword
	if titleKeyword == "" {
		titleKeyword = "Trending"
	}
	if len(titleKeyword) > 20 {
		titleKeyword = titleKeyword[:20]
	}

	records := make([]models.RawRecord, 0, limit)
	for i := 0; i < limit; i++ {
		sold := 10 + rng.Intn(50000-10+1)
		price := round2(1.0 + rng.Float64()*299.0)
		discount := discounts[rng.Intn(len(discounts))]
		productID := draw(rng, digits, 18)
		imgHash := draw(rng, lowerAlnum, 8)
		rating := round1(3.2 + rng.Float64()*1.8)
		reviewCap := sold / 5
		if reviewCap < 10 {
			reviewCap = 10
		}
		reviews := rng.Intn(reviewCap + 1)
		sellerID := draw(rng, digits, 10)
		labels := labelPools[rng.Intn(len(labelPools))]

		record := models.RawRecord{
			"product_id": productID,
			"title":      fmt.Sprintf("%s Product %d", titleKeyword, i+1),
			"cover":      fmt.Sprintf("https://picsum.photos/seed/%s/400/400.webp", imgHash),
			"img": []string{
				fmt.Sprintf("https://picsum.photos/seed/%sa/800/800.webp", imgHash),
				fmt.Sprintf("https://picsum.photos/seed/%sb/800/800.webp", imgHash),
			},
			"price":            price,
			"currency":         currency,
			"warehouse_region": region,
			"product_rating":   rating,
			"sold_count":       sold,
			"review_count":     reviews,
			"seller_name":      titleKeyword + " Seller",
			"seller_id":        sellerID,
			"promotion_labels": labels,
			"_source":          "mock",
		}
		if discount != "" {
			record["discount"] = discount
		}
		records = append(records, record)
	}
	return records
}

// seedBasis normalizes the generation tuple into the seed string.
func seedBasis(keyword string, trending bool, region string) string {
	kw := strings.TrimSpace(keyword)
	if kw == "" {
		kw = "trending"
	}
	t := 0
	if trending {
		t = 1
	}
	return fmt.Sprintf("%s|%s|%d", kw, region, t)
}

func seed(basis string) int64 {
	h := fnv.New64a()
	h.Write([]byte(basis))
	return int64(h.Sum64())
}

func draw(rng *rand.Rand, alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round1(f float64) float64 { return math.Round(f*10) / 10 }
