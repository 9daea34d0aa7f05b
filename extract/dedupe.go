package extract

import (
	"github.com/davitran/go-scrape-ttshop/canonical"
	"github.com/davitran/go-scrape-ttshop/models"
)

// Dedupe collapses repeated hits into a unique set keyed by normalized
// product link, preserving first-seen order. Records without a link
// fail the identity invariant and are dropped.
func Dedupe(products []*models.Product) []*models.Product {
	seen := make(map[string]struct{}, len(products))
	unique := make([]*models.Product, 0, len(products))
	for _, product := range products {
		key := canonical.NormalizeLink(product.ProductLink)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, product)
	}
	return unique
}

// DedupeCatalog is the catalog-shape counterpart, keyed by product id.
func DedupeCatalog(products []*models.CatalogProduct) []*models.CatalogProduct {
	seen := make(map[string]struct{}, len(products))
	unique := make([]*models.CatalogProduct, 0, len(products))
	for _, product := range products {
		key := canonical.NormalizeLink(product.ProductID)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, product)
	}
	return unique
}
