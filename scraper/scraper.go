// Package scraper orchestrates the extraction pipeline: fetch,
// classify, run strategies, dedupe, map, and sort. It also owns the
// offline catalog-search mode backed by the deterministic generator.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/davitran/go-scrape-ttshop/canonical"
	"github.com/davitran/go-scrape-ttshop/catalog"
	"github.com/davitran/go-scrape-ttshop/config"
	"github.com/davitran/go-scrape-ttshop/extract"
	"github.com/davitran/go-scrape-ttshop/models"
)

// Scraper composes the pipeline for both entry modes. One instance
// handles one URL or one search at a time; there is no shared mutable
// state across documents.
type Scraper struct {
	cfg     *config.Config
	fetcher *fetcher
	Metrics *Metrics
}

// NewScraper builds a scraper configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	metrics := NewMetrics()
	f, err := newFetcher(cfg, metrics)
	if err != nil {
		return nil, err
	}
	return &Scraper{cfg: cfg, fetcher: f, Metrics: metrics}, nil
}

// ScrapeURL fetches one page, classifies it, and extracts product
// records. A product page yields at most one record; a listing page
// yields the winning strategy's records, deduped by link. Transport
// failure after the retry budget yields zero records and the error.
func (s *Scraper) ScrapeURL(ctx context.Context, pageURL string) ([]*models.Product, error) {
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := extract.NewPageDocument(pageURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	pageType := extract.Classify(doc)
	slog.Debug("classified page",
		slog.String("url", pageURL),
		slog.String("type", pageType.String()),
	)

	var products []*models.Product
	if pageType == extract.ProductPage {
		if product := extract.ExtractProductPage(doc); product != nil {
			products = []*models.Product{product}
		}
		s.Metrics.AddProducts("product_page", len(products))
	} else {
		products = extract.ExtractListing(doc)
		s.Metrics.AddProducts("listing", len(products))
	}

	slog.Info("parsed page",
		slog.String("url", pageURL),
		slog.Int("products", len(products)),
	)
	return products, nil
}

// ScrapeAll processes a URL list sequentially. A failing URL
// contributes zero records and is recorded in the result summary; it
// never aborts the remaining URLs. The aggregate is deduped once more
// across pages before delivery.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) *models.ScrapeResult {
	result := &models.ScrapeResult{
		StartTime:    time.Now(),
		URLCount:     len(urls),
		ErrorsByType: make(map[string]int),
	}
	retriesBefore := s.fetcher.retries

	var all []*models.Product
	for _, pageURL := range urls {
		if ctx.Err() != nil {
			break
		}
		products, err := s.ScrapeURL(ctx, pageURL)
		if err != nil {
			result.ErrorCount++
			result.FailedURLs = append(result.FailedURLs, pageURL)
			result.ErrorsByType[errorTypeLabel(err)]++
			slog.Error("failed to scrape url",
				slog.String("url", pageURL),
				slog.Any("error", err),
			)
			continue
		}
		all = append(all, products...)
	}

	result.Products = extract.Dedupe(all)
	result.ProductCount = len(result.Products)
	result.RetryCount = s.fetcher.retries - retriesBefore
	result.EndTime = time.Now()

	if result.ProductCount == 0 {
		slog.Warn("no products were extracted from the provided urls")
	}
	return result
}

// Search serves a catalog-search request. Offline mode generates a
// deterministic mock catalog; online mode parses start URLs or
// simulates a keyword search, falling back to the mock catalog on any
// failure rather than surfacing a fatal error.
func (s *Scraper) Search(ctx context.Context, req models.SearchRequest) ([]*models.CatalogProduct, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	region := req.Region
	if region == "" {
		region = s.cfg.DefaultRegion
	}

	if s.cfg.OfflineMode {
		slog.Info("offline mode enabled, generating mock catalog")
		s.Metrics.IncSearch("offline")
		return s.searchOffline(req, region), nil
	}

	items, err := s.searchOnline(ctx, req, region)
	if err != nil {
		slog.Warn("online search failed, falling back to mock catalog", slog.Any("error", err))
		s.Metrics.IncSearch("fallback")
		return s.searchOffline(req, region), nil
	}
	s.Metrics.IncSearch("online")
	return items, nil
}

func (s *Scraper) searchOffline(req models.SearchRequest, region string) []*models.CatalogProduct {
	raws := catalog.Generate(req.Keyword, req.IsTrending, region, req.Limit)
	return s.finalize(raws, region, req.SortType, req.Limit)
}

func (s *Scraper) searchOnline(ctx context.Context, req models.SearchRequest, region string) ([]*models.CatalogProduct, error) {
	if len(req.StartURLs) > 0 {
		return s.searchStartURLs(ctx, req, region)
	}

	// Keyword search against the live provider needs a web runtime and
	// cookies; the flow is kept production-shaped over the mock corpus.
	payload, _ := json.Marshal(map[string]any{
		"q":        req.Keyword,
		"region":   region,
		"trending": req.IsTrending,
		"limit":    req.Limit,
	})
	slog.Info("simulating keyword search", slog.String("payload", string(payload)))
	return s.searchOffline(req, region), nil
}

// searchStartURLs parses explicit product/listing URLs and funnels the
// page-shape records through the canonical mapper.
func (s *Scraper) searchStartURLs(ctx context.Context, req models.SearchRequest, region string) ([]*models.CatalogProduct, error) {
	var raws []models.RawRecord
	var firstErr error
	for _, pageURL := range req.StartURLs {
		if len(raws) >= req.Limit {
			break
		}
		products, err := s.ScrapeURL(ctx, pageURL)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, p := range products {
			raws = append(raws, rawFromPageProduct(p))
		}
	}
	if len(raws) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return s.finalize(raws, region, req.SortType, req.Limit), nil
}

// finalize maps raw records to the canonical catalog shape, drops
// records without an identity, dedupes, sorts, and applies the limit.
func (s *Scraper) finalize(raws []models.RawRecord, region string, mode models.SortMode, limit int) []*models.CatalogProduct {
	items := make([]*models.CatalogProduct, 0, len(raws))
	for _, raw := range raws {
		item := canonical.MapProduct(raw, region)
		if item.ProductID == "" {
			continue
		}
		items = append(items, item)
	}
	items = extract.DedupeCatalog(items)
	canonical.SortProducts(items, mode)
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

var productIDPattern = regexp.MustCompile(`/product/(\d+)`)

// rawFromPageProduct bridges the page-parse shape into the raw keys
// the canonical mapper understands. The product id is taken from the
// link path when present, else the whole link serves as identity.
func rawFromPageProduct(p *models.Product) models.RawRecord {
	raw := models.RawRecord{
		"product_id": productIDFromLink(p.ProductLink),
		"title":      p.Title,
		"_source":    "fetch_url",
	}
	if p.SalePrice != nil {
		raw["price"] = *p.SalePrice
	}
	if p.Img != nil {
		raw["img"] = *p.Img
	}
	if p.Score != nil {
		raw["rating"] = *p.Score
	}
	if p.Sold != nil {
		raw["sold"] = *p.Sold
	}
	return raw
}

func productIDFromLink(link string) string {
	if m := productIDPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return strings.TrimSpace(link)
}
