package canonical

import (
	"fmt"
	"strconv"

	"github.com/davitran/go-scrape-ttshop/models"
)

// MapProduct converts a raw record from any extraction or the mock
// catalog into the canonical catalog shape. It is total: every field
// has a fallback and no input shape makes it fail.
func MapProduct(raw models.RawRecord, region string) *models.CatalogProduct {
	currency := stringField(raw, "currency")
	if currency == "" {
		currency = CurrencyForRegion(region)
	}

	images := imageList(raw)
	cover := CleanText(stringField(raw, "cover"))
	if cover == nil && len(images) > 0 {
		cover = &images[0]
	}

	formatPrice := stringField(raw, "format_price")
	if formatPrice == "" {
		formatPrice = fmt.Sprintf("%.2f %s", NormalizePrice(raw["price"]), currency)
	}

	return &models.CatalogProduct{
		ProductID:       stringField(raw, "product_id", "id"),
		Title:           stringField(raw, "title", "name"),
		Cover:           cover,
		Img:             images,
		Price:           NormalizePrice(firstSet(raw, "price", "min_price")),
		Currency:        currency,
		FormatPrice:     formatPrice,
		Discount:        optString(raw, "discount"),
		WarehouseRegion: optString(raw, "warehouse_region", "ship_from"),
		ProductRating:   stringField(raw, "product_rating", "rating"),
		SoldCount:       intField(raw, "sold_count", "sold"),
		ReviewCount:     intField(raw, "review_count", "reviews"),
		SellerName:      stringField(raw, "seller_name", "shop_name"),
		SellerID:        stringField(raw, "seller_id", "shop_id"),
		PromotionLabels: stringList(raw, "promotion_labels", "badges"),
		CreatedAt:       ToISO8601(raw["created_at"]),
		LastSeenAt:      ToISO8601(raw["last_seen_at"]),
		Source:          sourceField(raw),
	}
}

// firstSet returns the first value among keys that carries content.
// Empty strings and zero numerics defer to later aliases, so a record
// with {"price": 0, "min_price": "5"} resolves to the non-zero alias.
func firstSet(raw models.RawRecord, keys ...string) any {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
		case float64:
			if t == 0 {
				continue
			}
		case int:
			if t == 0 {
				continue
			}
		case int64:
			if t == 0 {
				continue
			}
		}
		return v
	}
	return nil
}

func stringField(raw models.RawRecord, keys ...string) string {
	return toString(firstSet(raw, keys...))
}

func optString(raw models.RawRecord, keys ...string) *string {
	if v := firstSet(raw, keys...); v != nil {
		return CleanText(toString(v))
	}
	return nil
}

func intField(raw models.RawRecord, keys ...string) int {
	switch v := firstSet(raw, keys...).(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers arrive as float64; keep integral ids unscathed.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// imageList accepts either a single string or a sequence under the
// img/images keys; a single string is promoted to a one-element slice.
func imageList(raw models.RawRecord) []string {
	switch v := firstSet(raw, "img", "images").(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func stringList(raw models.RawRecord, keys ...string) []string {
	switch v := firstSet(raw, keys...).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	default:
		return []string{}
	}
}

func sourceField(raw models.RawRecord) string {
	if s := stringField(raw, "_source"); s != "" {
		return s
	}
	return "mock"
}
