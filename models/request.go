package models

import (
	"fmt"
	"strings"
)

// SortMode selects the ordering applied to results before delivery.
type SortMode string

const (
	SortRelevance   SortMode = "RELEVANCE"
	SortPriceAsc    SortMode = "PRICE_ASC"
	SortPriceDesc   SortMode = "PRICE_DESC"
	SortBestSellers SortMode = "BEST_SELLERS"
)

// ParseSortMode maps a wire name to a SortMode. Unknown or empty values
// fall back to RELEVANCE.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToUpper(strings.TrimSpace(s))) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortBestSellers:
		return SortBestSellers
	default:
		return SortRelevance
	}
}

const (
	// DefaultLimit is applied when a request leaves Limit unset.
	DefaultLimit = 50
	// MaxLimit bounds the number of products a single search may return.
	MaxLimit = 2000
)

// SearchRequest is the structured input for catalog-search mode.
type SearchRequest struct {
	Keyword    string   `json:"keyword"`
	IsTrending bool     `json:"isTrending"`
	Region     string   `json:"region"`
	SortType   SortMode `json:"sortType"`
	Limit      int      `json:"limit"`
	StartURLs  []string `json:"startUrls"`
}

// Validate checks the request shape and normalizes fields in place.
// It is the one failure class that halts before any work begins.
func (r *SearchRequest) Validate() error {
	r.Keyword = strings.TrimSpace(r.Keyword)

	if r.Region != "" {
		if len(r.Region) != 2 || !isAlpha(r.Region) {
			return fmt.Errorf("region: must be a two-letter ISO country code, got %q", r.Region)
		}
		r.Region = strings.ToUpper(r.Region)
	}

	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit < 1 || r.Limit > MaxLimit {
		return fmt.Errorf("limit: must be between 1 and %d, got %d", MaxLimit, r.Limit)
	}

	if r.SortType == "" {
		r.SortType = SortRelevance
	}
	switch r.SortType {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortBestSellers:
	default:
		return fmt.Errorf("sortType: unknown mode %q", r.SortType)
	}

	if r.Keyword == "" && len(r.StartURLs) == 0 && !r.IsTrending {
		return fmt.Errorf("keyword: required when startUrls is empty and isTrending is false")
	}
	return nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
