package extract

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/davitran/go-scrape-ttshop/canonical"
	"github.com/davitran/go-scrape-ttshop/models"
)

// ExtractProductPage parses a single product detail page. Every field
// is optional and extracted independently; a missing title is logged
// but the record is still emitted with an empty title.
func ExtractProductPage(doc *PageDocument) *models.Product {
	title := extractTitle(doc)
	if title == "" {
		slog.Warn("could not extract title", slog.String("url", doc.URL()))
	}

	originPrice, salePrice := extractPrices(doc)

	return &models.Product{
		Title:       title,
		OriginPrice: canonical.CleanText(originPrice),
		SalePrice:   canonical.CleanText(salePrice),
		Score:       canonical.CleanText(extractScore(doc)),
		Sold:        canonical.CleanText(extractSold(doc)),
		ProductLink: canonical.NormalizeLink(doc.URL()),
		Img:         canonical.CleanText(extractImage(doc)),
	}
}

func extractTitle(doc *PageDocument) string {
	if title := doc.metaContent("meta[property='og:title']"); title != "" {
		return title
	}
	if h1 := strings.TrimSpace(doc.doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return doc.title()
}

func extractPrices(doc *PageDocument) (origin, sale string) {
	origin = doc.metaContent("meta[property='product:original_price:amount']")
	sale = doc.metaContent("meta[property='product:price:amount']")

	if sale == "" {
		sale = doc.firstText(func(text string) bool {
			return strings.Contains(text, "$") && strings.ContainsFunc(text, unicode.IsDigit)
		})
	}
	return origin, sale
}

func extractScore(doc *PageDocument) string {
	if rating := doc.metaContent("meta[itemprop='ratingValue']"); rating != "" {
		return rating
	}
	return doc.firstText(func(text string) bool {
		return strings.Contains(text, "★")
	})
}

func extractSold(doc *PageDocument) string {
	return doc.firstText(func(text string) bool {
		return strings.Contains(strings.ToLower(text), "sold")
	})
}

func extractImage(doc *PageDocument) string {
	if img := doc.metaContent("meta[property='og:image']"); img != "" {
		return img
	}
	return firstImageSrc(doc.doc.Selection)
}

func firstImageSrc(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Find("img").First().AttrOr("src", ""))
}
