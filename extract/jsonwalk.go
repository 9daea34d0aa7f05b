package extract

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/davitran/go-scrape-ttshop/canonical"
	"github.com/davitran/go-scrape-ttshop/models"
)

// ErrNoJSON reports that a script block held no parseable JSON object.
var ErrNoJSON = errors.New("extract: no JSON object found in script block")

// maxParseAttempts bounds JSON recovery per script block. Real payload
// spans resolve within the first few candidates; minified bundles can
// hold tens of thousands of braces and must not be scanned
// quadratically.
const maxParseAttempts = 64

// ExtractJSON locates a JSON value inside arbitrary script text. Shop
// pages embed blobs like window.__INIT_PROPS__ = {...}; followed by
// suffix noise, so the span from each '{' to the last '}' is tried and
// the end boundary shrunk leftward to the previous '}' on parse
// failure. Total parse attempts are capped so a brace-heavy block with
// no JSON fails fast, keeping cost linear in the block size.
func ExtractJSON(text string) (any, error) {
	lastBrace := strings.LastIndex(text, "}")
	attempts := 0
	start := strings.Index(text, "{")
	for start != -1 && start < lastBrace {
		end := lastBrace
		for end > start {
			if attempts == maxParseAttempts {
				return nil, ErrNoJSON
			}
			attempts++
			var value any
			if err := json.Unmarshal([]byte(text[start:end+1]), &value); err == nil {
				return value, nil
			}
			end = strings.LastIndex(text[:end], "}")
		}
		next := strings.Index(text[start+1:], "{")
		if next == -1 {
			break
		}
		start += 1 + next
	}
	return nil, ErrNoJSON
}

// productsFromBlob walks a decoded JSON value of any shape and collects
// every dict node that looks like a product. The walk is an explicit
// recursive descent over the map/slice/scalar union json.Unmarshal
// produces.
func productsFromBlob(data any, baseURL string) []*models.Product {
	var products []*models.Product

	var walk func(node any)
	walk = func(node any) {
		switch n := node.(type) {
		case map[string]any:
			if looksLikeProduct(n) {
				products = append(products, productFromNode(n, baseURL))
			}
			// Sorted key order keeps record order reproducible; map
			// iteration order would leak into RELEVANCE output.
			keys := make([]string, 0, len(n))
			for k := range n {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(n[k])
			}
		case []any:
			for _, item := range n {
				walk(item)
			}
		}
	}
	walk(data)
	return products
}

// looksLikeProduct reports whether a dict node carries product-shaped
// keys: title+price, or name+image plus a price or offers field. Key
// comparison is case-insensitive.
func looksLikeProduct(node map[string]any) bool {
	keys := make(map[string]struct{}, len(node))
	for k := range node {
		keys[strings.ToLower(k)] = struct{}{}
	}
	has := func(k string) bool {
		_, ok := keys[k]
		return ok
	}
	if has("title") && has("price") {
		return true
	}
	return has("name") && has("image") && (has("price") || has("offers"))
}

// productFromNode builds a raw page-shape record from one matched node.
func productFromNode(node map[string]any, baseURL string) *models.Product {
	fields := lowered(node)

	title := scalarString(fields["title"])
	if title == "" {
		title = scalarString(fields["name"])
	}

	var img *string
	switch image := fields["image"].(type) {
	case string:
		img = canonical.CleanText(image)
	case []any:
		if len(image) > 0 {
			img = canonical.CleanText(scalarString(image[0]))
		}
	}

	var rawPrice string
	switch price := fields["price"].(type) {
	case string:
		rawPrice = price
	case float64:
		rawPrice = scalarString(price)
	default:
		if offers, ok := fields["offers"].(map[string]any); ok {
			rawPrice = scalarString(lowered(offers)["price"])
		}
	}

	score := scalarString(fields["ratingvalue"])
	if score == "" {
		score = scalarString(fields["rating"])
	}
	sold := scalarString(fields["sold"])
	if sold == "" {
		sold = scalarString(fields["soldcount"])
	}

	link := scalarString(fields["url"])
	if link == "" {
		link = baseURL
	}

	return &models.Product{
		Title:       title,
		OriginPrice: canonical.CleanText(rawPrice),
		SalePrice:   canonical.CleanText(rawPrice),
		Score:       canonical.CleanText(score),
		Sold:        canonical.CleanText(sold),
		ProductLink: canonical.NormalizeLink(link),
		Img:         img,
	}
}

func lowered(node map[string]any) map[string]any {
	out := make(map[string]any, len(node))
	for k, v := range node {
		out[strings.ToLower(k)] = v
	}
	return out
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// json.Marshal renders integral floats without a decimal point.
		return jsonNumber(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
