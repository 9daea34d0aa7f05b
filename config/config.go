package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/davitran/go-scrape-ttshop/models"
)

// Config holds scraper configuration. It is built once per run and never
// mutated afterwards.
type Config struct {
	OfflineMode     bool
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration
	UserAgent       string
	DefaultRegion   string
	DefaultSort     models.SortMode
	OutputFile      string
	OutputFormat    string // json, csv, xlsx, html, or xml
	MetricsAddr     string
	Verbose         bool
}

// DefaultConfig returns conservative defaults. Offline mode is on by
// default so a fresh checkout produces data without network access.
func DefaultConfig() *Config {
	return &Config{
		OfflineMode:     true,
		BaseURL:         "https://www.tiktok.com/shop",
		Timeout:         15 * time.Second,
		MaxRetries:      3,
		RetryBackoff:    300 * time.Millisecond,
		RetryBackoffMax: 2 * time.Second,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		DefaultRegion: "US",
		DefaultSort:   models.SortRelevance,
		OutputFile:    "data/output.json",
		OutputFormat:  "json",
		Verbose:       false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.DefaultRegion != "" && len(c.DefaultRegion) != 2 {
		return fmt.Errorf("default region must be a two-letter country code")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	switch c.OutputFormat {
	case "json", "csv", "xlsx", "html", "xml":
	default:
		return fmt.Errorf("output format must be one of json, csv, xlsx, html, xml")
	}
	return nil
}
