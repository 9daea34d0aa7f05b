// Package models defines data structures for the scraper.
package models

import "time"

// RawRecord is an untyped field mapping as extracted from a source
// (script blob, DOM card, or the mock catalog) before canonicalization.
// Keys vary by source and records may be incomplete.
type RawRecord = map[string]any

// Product is the canonical page-parse output shape. All fields except
// ProductLink may be absent.
type Product struct {
	Title       string  `csv:"title" json:"title"`
	OriginPrice *string `csv:"origin_price" json:"origin_price"`
	SalePrice   *string `csv:"sale_price" json:"sale_price"`
	Score       *string `csv:"score" json:"score"`
	Sold        *string `csv:"sold" json:"sold"`
	ProductLink string  `csv:"product_link" json:"product_link"`
	Img         *string `csv:"img" json:"img"`
}

// CatalogProduct is the canonical catalog-search output shape produced
// by the mapper from raw provider or mock records.
type CatalogProduct struct {
	ProductID       string   `json:"product_id"`
	Title           string   `json:"title"`
	Cover           *string  `json:"cover"`
	Img             []string `json:"img"`
	Price           float64  `json:"price"`
	Currency        string   `json:"currency"`
	FormatPrice     string   `json:"format_price"`
	Discount        *string  `json:"discount"`
	WarehouseRegion *string  `json:"warehouse_region"`
	ProductRating   string   `json:"product_rating"`
	SoldCount       int      `json:"sold_count"`
	ReviewCount     int      `json:"review_count"`
	SellerName      string   `json:"seller_name"`
	SellerID        string   `json:"seller_id"`
	PromotionLabels []string `json:"promotion_labels"`
	CreatedAt       *string  `json:"created_at"`
	LastSeenAt      *string  `json:"last_seen_at"`
	Source          string   `json:"_source"`
}

// ScrapeResult holds the overall result of a URL-list scraping run.
type ScrapeResult struct {
	Products     []*Product
	StartTime    time.Time
	EndTime      time.Time
	URLCount     int
	ProductCount int
	ErrorCount   int
	FailedURLs   []string
	ErrorsByType map[string]int
	RetryCount   int
}
