package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/davitran/go-scrape-ttshop/canonical"
	"github.com/davitran/go-scrape-ttshop/models"
)

// Strategy is one way of extracting product records from a listing
// document. Strategies are pure with respect to the document and may
// yield zero records.
type Strategy interface {
	Name() string
	Extract(doc *PageDocument) []*models.Product
}

// ListingStrategies is the fixed precedence order for listing pages.
// Evaluation short-circuits on the first non-empty result set, so the
// card scan only runs when no script blob yielded anything.
var ListingStrategies = []Strategy{
	scriptDataStrategy{},
	cardStrategy{},
}

// ExtractListing runs the listing strategies in order and dedupes the
// winning result set by product link, first seen wins.
func ExtractListing(doc *PageDocument) []*models.Product {
	for _, strategy := range ListingStrategies {
		products := strategy.Extract(doc)
		if len(products) == 0 {
			continue
		}
		unique := Dedupe(products)
		slog.Debug("listing strategy matched",
			slog.String("strategy", strategy.Name()),
			slog.String("url", doc.URL()),
			slog.Int("products", len(unique)),
		)
		return unique
	}
	return nil
}

// scriptDataStrategy scans embedded script blobs for product-shaped
// JSON nodes.
type scriptDataStrategy struct{}

func (scriptDataStrategy) Name() string { return "script_data" }

func (scriptDataStrategy) Extract(doc *PageDocument) []*models.Product {
	var products []*models.Product
	doc.doc.Find("script").Each(func(_ int, script *goquery.Selection) {
		text := script.Text()
		if text == "" {
			return
		}
		lower := strings.ToLower(text)
		if !strings.Contains(lower, `"product"`) || !strings.Contains(lower, `"price"`) {
			return
		}
		data, err := ExtractJSON(text)
		if err != nil {
			// Malformed or absent JSON skips this block only.
			return
		}
		products = append(products, productsFromBlob(data, doc.URL())...)
	})
	return products
}

// cardStrategy falls back to DOM card selectors when no script blob
// yielded products.
type cardStrategy struct{}

func (cardStrategy) Name() string { return "card_scan" }

// cardSelectors are tried in order; both may re-match the same element
// indirectly, which the dedupe pass absorbs.
var cardSelectors = []string{
	"a[href*='/product/']",
	"div[data-e2e='search-card']",
}

func (cardStrategy) Extract(doc *PageDocument) []*models.Product {
	var products []*models.Product
	for _, selector := range cardSelectors {
		doc.doc.Find(selector).Each(func(_ int, card *goquery.Selection) {
			if product := productFromCard(card, doc.URL()); product != nil {
				products = append(products, product)
			}
		})
	}
	return products
}

// productFromCard extracts one record from a card fragment. A card
// with neither title nor price is layout noise and discarded.
func productFromCard(card *goquery.Selection, baseURL string) *models.Product {
	title := firstCardText(card, "span", "h3", "h2")

	var price string
	card.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if text := strings.TrimSpace(span.Text()); strings.Contains(text, "$") {
			price = text
			return false
		}
		return true
	})

	link := cardLink(card, baseURL)
	img := firstImageSrc(card)

	if title == "" && price == "" {
		return nil
	}

	return &models.Product{
		Title:       title,
		OriginPrice: nil,
		SalePrice:   canonical.CleanText(price),
		Score:       nil,
		Sold:        nil,
		ProductLink: canonical.NormalizeLink(link),
		Img:         canonical.CleanText(img),
	}
}

func firstCardText(card *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(card.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// cardLink prefers the card's own href when the card is an anchor,
// then the first nested anchor, then the page URL.
func cardLink(card *goquery.Selection, baseURL string) string {
	if goquery.NodeName(card) == "a" {
		if href := card.AttrOr("href", ""); href != "" {
			return href
		}
	}
	if href := card.Find("a[href]").First().AttrOr("href", ""); href != "" {
		return href
	}
	return baseURL
}
