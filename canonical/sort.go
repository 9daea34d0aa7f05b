package canonical

import (
	"sort"

	"github.com/davitran/go-scrape-ttshop/models"
)

// SortProducts orders canonical records per the requested mode. The
// sort is stable, so ties keep their generation/fetch order, and
// RELEVANCE leaves the input untouched.
func SortProducts(items []*models.CatalogProduct, mode models.SortMode) {
	switch mode {
	case models.SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price < items[j].Price
		})
	case models.SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price > items[j].Price
		})
	case models.SortBestSellers:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].SoldCount > items[j].SoldCount
		})
	default:
		// RELEVANCE: identity.
	}
}
