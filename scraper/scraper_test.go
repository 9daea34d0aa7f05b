package scraper

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/davitran/go-scrape-ttshop/config"
	"github.com/davitran/go-scrape-ttshop/models"
	"github.com/jarcoal/httpmock"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://shop.example.test"
	cfg.MaxRetries = 0
	cfg.RetryBackoff = time.Millisecond
	cfg.RetryBackoffMax = 2 * time.Millisecond
	return cfg
}

func newTestScraper(t *testing.T, cfg *config.Config) (*Scraper, *httpmock.MockTransport) {
	t.Helper()
	s, err := NewScraper(cfg)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	transport := httpmock.NewMockTransport()
	s.fetcher.collector.WithTransport(transport)
	return s, transport
}

func TestScrapeURLListingEndToEnd(t *testing.T) {
	pageURL := "http://shop.example.test/listing"
	page := `<html><head><title>Search | TikTok Shop</title></head><body>
<script>window.__STATE__ = {"product":[{"title":"Widget","price":"$9.99"}]};</script>
</body></html>`

	s, transport := newTestScraper(t, testConfig())
	transport.RegisterResponder("GET", pageURL, httpmock.NewStringResponder(200, page))

	products, err := s.ScrapeURL(context.Background(), pageURL)
	if err != nil {
		t.Fatalf("ScrapeURL() = %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products, want exactly 1", len(products))
	}
	if products[0].ProductLink != pageURL {
		t.Fatalf("product_link = %q, want the page URL", products[0].ProductLink)
	}
	if products[0].SalePrice == nil || *products[0].SalePrice != "$9.99" {
		t.Fatalf("sale_price = %v, want the string form $9.99", products[0].SalePrice)
	}
}

func TestScrapeURLProductPage(t *testing.T) {
	pageURL := "http://shop.example.test/product/77"
	page := `<html><head>
<meta property="og:type" content="product">
<meta property="og:title" content="Single Widget">
<meta property="product:price:amount" content="5.25">
</head><body></body></html>`

	s, transport := newTestScraper(t, testConfig())
	transport.RegisterResponder("GET", pageURL, httpmock.NewStringResponder(200, page))

	products, err := s.ScrapeURL(context.Background(), pageURL)
	if err != nil {
		t.Fatalf("ScrapeURL() = %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}
	if products[0].Title != "Single Widget" {
		t.Fatalf("title = %q", products[0].Title)
	}
	if products[0].SalePrice == nil || *products[0].SalePrice != "5.25" {
		t.Fatalf("sale_price = %v", products[0].SalePrice)
	}
}

func TestScrapeAllContinuesPastFailures(t *testing.T) {
	okURL := "http://shop.example.test/product/1"
	badURL := "http://shop.example.test/product/2"
	page := `<html><head><meta property="og:type" content="product">
<meta property="og:title" content="Kept Widget"></head><body></body></html>`

	s, transport := newTestScraper(t, testConfig())
	transport.RegisterResponder("GET", okURL, httpmock.NewStringResponder(200, page))
	transport.RegisterResponder("GET", badURL, httpmock.NewErrorResponder(errors.New("connection refused")))

	result := s.ScrapeAll(context.Background(), []string{okURL, badURL})
	if result.ProductCount != 1 {
		t.Fatalf("product count = %d, want 1", result.ProductCount)
	}
	if result.ErrorCount != 1 || len(result.FailedURLs) != 1 || result.FailedURLs[0] != badURL {
		t.Fatalf("failure accounting wrong: %+v", result)
	}
	if result.URLCount != 2 {
		t.Fatalf("url count = %d, want 2", result.URLCount)
	}
}

func TestScrapeAllReportsRetryCount(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 2

	s, transport := newTestScraper(t, cfg)
	badURL := "http://shop.example.test/unstable"
	transport.RegisterResponder("GET", badURL, httpmock.NewStringResponder(500, "boom"))

	result := s.ScrapeAll(context.Background(), []string{badURL})
	if result.RetryCount != 2 {
		t.Fatalf("retry count = %d, want 2", result.RetryCount)
	}

	// A second run reports its own retries, not the cumulative total.
	result = s.ScrapeAll(context.Background(), []string{badURL})
	if result.RetryCount != 2 {
		t.Fatalf("second run retry count = %d, want 2", result.RetryCount)
	}
}

func TestFetchRetryBudget(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 2

	s, transport := newTestScraper(t, cfg)
	pageURL := "http://shop.example.test/flaky"
	transport.RegisterResponder("GET", pageURL, httpmock.NewStringResponder(500, "boom"))

	_, err := s.fetcher.Fetch(context.Background(), pageURL)
	if err == nil {
		t.Fatalf("Fetch() should fail after exhausting retries")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %T, want *TransportError", err)
	}
	if got := transport.GetTotalCallCount(); got != 3 {
		t.Fatalf("attempts = %d, want initial try plus 2 retries", got)
	}
}

func TestFetchBodyCache(t *testing.T) {
	pageURL := "http://shop.example.test/cached"
	page := `<html><head><meta property="og:type" content="product">
<meta property="og:title" content="Cached Widget"></head><body></body></html>`

	s, transport := newTestScraper(t, testConfig())
	transport.RegisterResponder("GET", pageURL, httpmock.NewStringResponder(200, page))

	for i := 0; i < 2; i++ {
		if _, err := s.ScrapeURL(context.Background(), pageURL); err != nil {
			t.Fatalf("ScrapeURL() pass %d = %v", i, err)
		}
	}
	if got := transport.GetTotalCallCount(); got != 1 {
		t.Fatalf("transport calls = %d, want 1 (second pass served from cache)", got)
	}
}

func TestFetchErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorKind
	}{
		{"forbidden", 403, KindForbidden},
		{"not found", 404, KindNotFound},
		{"rate limited", 429, KindRateLimited},
		{"server error", 500, KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, transport := newTestScraper(t, testConfig())
			pageURL := "http://shop.example.test/status"
			transport.RegisterResponder("GET", pageURL, httpmock.NewStringResponder(tt.status, ""))

			_, err := s.fetcher.Fetch(context.Background(), pageURL)
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("error = %v, want *TransportError", err)
			}
			if te.Kind != tt.want {
				t.Fatalf("kind = %q, want %q", te.Kind, tt.want)
			}
		})
	}
}

func TestSearchOfflineBestSellers(t *testing.T) {
	cfg := testConfig()
	cfg.OfflineMode = true
	s, _ := newTestScraper(t, cfg)

	req := models.SearchRequest{
		Keyword:  "shoes",
		Region:   "VN",
		Limit:    5,
		SortType: models.SortBestSellers,
	}
	items, err := s.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want exactly 5", len(items))
	}
	for i, item := range items {
		if item.Currency != "VND" {
			t.Fatalf("item %d currency = %q, want VND", i, item.Currency)
		}
		if i > 0 && items[i-1].SoldCount < item.SoldCount {
			t.Fatalf("sold_count not descending at %d: %d < %d", i, items[i-1].SoldCount, item.SoldCount)
		}
		if item.ProductID == "" {
			t.Fatalf("item %d has no identity", i)
		}
	}
}

func TestSearchOfflineDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.OfflineMode = true
	s, _ := newTestScraper(t, cfg)

	req := models.SearchRequest{Keyword: "shoes", Region: "VN", Limit: 10}
	first, err := s.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	second, err := s.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("offline search must be reproducible field-for-field")
	}
}

func TestSearchRejectsInvalidRequest(t *testing.T) {
	s, _ := newTestScraper(t, testConfig())

	if _, err := s.Search(context.Background(), models.SearchRequest{}); err == nil {
		t.Fatalf("empty request should be rejected before any work")
	}
	if _, err := s.Search(context.Background(), models.SearchRequest{Keyword: "shoes", Region: "USA"}); err == nil {
		t.Fatalf("invalid region should be rejected")
	}
}

func TestSearchOnlineFallsBackToMock(t *testing.T) {
	cfg := testConfig()
	cfg.OfflineMode = false

	s, transport := newTestScraper(t, cfg)
	badURL := "http://shop.example.test/product/404"
	transport.RegisterResponder("GET", badURL, httpmock.NewErrorResponder(errors.New("no route to host")))

	req := models.SearchRequest{Keyword: "shoes", Region: "US", Limit: 3, StartURLs: []string{badURL}}
	items, err := s.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search() = %v, online failure must fall back, not propagate", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want the mock fallback to honor the limit", len(items))
	}
	for _, item := range items {
		if item.Source != "mock" {
			t.Fatalf("_source = %q, want mock fallback records", item.Source)
		}
	}
}

func TestSearchOnlineStartURLs(t *testing.T) {
	cfg := testConfig()
	cfg.OfflineMode = false

	pageURL := "http://shop.example.test/product/123456789"
	page := `<html><head>
<meta property="og:type" content="product">
<meta property="og:title" content="Live Widget">
<meta property="product:price:amount" content="14.00">
</head><body></body></html>`

	s, transport := newTestScraper(t, cfg)
	transport.RegisterResponder("GET", pageURL, httpmock.NewStringResponder(200, page))

	req := models.SearchRequest{Region: "US", Limit: 5, StartURLs: []string{pageURL}}
	items, err := s.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].ProductID != "123456789" {
		t.Fatalf("product_id = %q, want id derived from the link path", items[0].ProductID)
	}
	if items[0].Title != "Live Widget" {
		t.Fatalf("title = %q", items[0].Title)
	}
	if items[0].Price != 14.00 {
		t.Fatalf("price = %v", items[0].Price)
	}
	if items[0].Source != "fetch_url" {
		t.Fatalf("_source = %q, want fetch_url", items[0].Source)
	}
}
