package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/davitran/go-scrape-ttshop/config"
	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// bodyCacheSize bounds the raw-body cache. Bodies are cached at the
// transport boundary only; parsed documents are always rebuilt per
// pipeline pass.
const bodyCacheSize = 128

// fetcher retrieves single pages through a colly collector with a
// bounded retry budget and an LRU body cache for repeated start URLs.
type fetcher struct {
	cfg       *config.Config
	collector *colly.Collector
	cache     *lru.Cache[string, []byte]
	metrics   *Metrics

	// Per-visit capture. The pipeline is single-threaded per
	// invocation, so one fetch is in flight at a time.
	body    []byte
	status  int
	lastErr error

	// Cumulative retry count, snapshotted into run summaries.
	retries int
}

func newFetcher(cfg *config.Config, metrics *Metrics) (*fetcher, error) {
	cache, err := lru.New[string, []byte](bodyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create body cache: %w", err)
	}

	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	f := &fetcher{
		cfg:       cfg,
		collector: collector,
		cache:     cache,
		metrics:   metrics,
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Accept", "application/json,text/html;q=0.9,*/*;q=0.8")
	})
	collector.OnResponse(func(r *colly.Response) {
		f.body = r.Body
		f.status = r.StatusCode
	})
	collector.OnError(func(r *colly.Response, err error) {
		f.lastErr = err
		if r != nil {
			f.status = r.StatusCode
		}
	})

	return f, nil
}

// Fetch retrieves the raw body for a URL, retrying transport failures
// up to the configured budget with exponential backoff and jitter. A
// failure after exhausting retries degrades to an error for that one
// URL; the caller decides how to continue.
func (f *fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if body, ok := f.cache.Get(url); ok {
		f.metrics.IncPage("cached")
		return body, nil
	}

	start := time.Now()
	defer func() { f.metrics.ObserveFetch(time.Since(start)) }()

	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			f.retries++
			f.metrics.IncRetries()
			select {
			case <-time.After(f.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := f.fetchOnce(url)
		if err == nil {
			f.metrics.IncPage("ok")
			f.cache.Add(url, body)
			return body, nil
		}
		lastErr = err
		f.metrics.IncPage("error")
		f.metrics.IncError(errorTypeLabel(err))
	}
	return nil, lastErr
}

func (f *fetcher) fetchOnce(url string) ([]byte, error) {
	f.body = nil
	f.status = 0
	f.lastErr = nil

	visitErr := f.collector.Visit(url)

	if f.lastErr != nil {
		return nil, &TransportError{Kind: classifyTransport(f.lastErr, f.status), URL: url, Err: f.lastErr}
	}
	if visitErr != nil {
		return nil, &TransportError{Kind: classifyTransport(visitErr, f.status), URL: url, Err: visitErr}
	}
	if f.status >= http.StatusBadRequest {
		err := fmt.Errorf("http status %d", f.status)
		return nil, &TransportError{Kind: classifyTransport(err, f.status), URL: url, Err: err}
	}
	return f.body, nil
}

// backoff grows exponentially from the configured base, capped at the
// configured max, with random jitter up to half the delay.
func (f *fetcher) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	base := f.cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	delay := base * time.Duration(1<<(attempt-1))
	if max := f.cfg.RetryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay + time.Duration(rand.Int63n(int64(delay/2)+1))
}
