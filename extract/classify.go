package extract

import "strings"

// PageType labels what kind of shop page a document is.
type PageType int

const (
	// ListingPage is a category/search page holding many product cards.
	ListingPage PageType = iota
	// ProductPage is a single product detail page.
	ProductPage
)

// String implements fmt.Stringer for log output.
func (t PageType) String() string {
	if t == ProductPage {
		return "product"
	}
	return "listing"
}

const brandToken = "tiktok shop"

// Classify decides whether a document is a product or a listing page.
// It is total and deterministic; rules are evaluated in order and the
// first match wins. This is a heuristic: a wrong label degrades to
// fewer records downstream, never to a failure.
func Classify(doc *PageDocument) PageType {
	if strings.EqualFold(doc.metaContent("meta[property='og:type']"), "product") {
		return ProductPage
	}

	if title := strings.ToLower(doc.title()); strings.Contains(title, brandToken) {
		if strings.Contains(title, "product") {
			return ProductPage
		}
		return ListingPage
	}

	if doc.doc.Find("meta[itemprop='price'], meta[property='product:price:amount']").Length() > 0 {
		return ProductPage
	}

	return ListingPage
}
