package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/davitran/go-scrape-ttshop/export"
	"github.com/davitran/go-scrape-ttshop/models"
	"github.com/davitran/go-scrape-ttshop/scraper"
	"github.com/spf13/cobra"
)

var (
	searchInput    string
	searchOutput   string
	searchFormat   string
	searchKeyword  string
	searchRegion   string
	searchSort     string
	searchLimit    int
	searchTrending bool
	searchPrint    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a catalog search (offline mock or best-effort online)",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchInput, "input", "", "Path to a JSON file holding the search request")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "data/example_output.json", "Output file path")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "json", "Output format: json, csv, xlsx, html, or xml")
	searchCmd.Flags().StringVar(&searchKeyword, "keyword", "", "Search keyword")
	searchCmd.Flags().StringVar(&searchRegion, "region", "", "Two-letter region code (e.g. US, VN)")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort mode: RELEVANCE, PRICE_ASC, PRICE_DESC, BEST_SELLERS")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of products (1-2000)")
	searchCmd.Flags().BoolVar(&searchTrending, "trending", false, "Return trending items only")
	searchCmd.Flags().BoolVar(&searchPrint, "print", false, "Print a preview table of the results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.OutputFile = searchOutput
	cfg.OutputFormat = searchFormat
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	req, err := buildRequest()
	if err != nil {
		return err
	}
	if req.Region == "" {
		req.Region = cfg.DefaultRegion
	}
	if req.SortType == "" {
		req.SortType = cfg.DefaultSort
	}

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		return fmt.Errorf("initialising scraper: %w", err)
	}
	stopMetrics := serveMetrics(cfg.MetricsAddr, s.Metrics.Registry)
	defer stopMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	items, err := s.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("invalid search request: %w", err)
	}

	rows, err := export.CatalogRows(items)
	if err != nil {
		return err
	}
	if err := writeRows(cfg.OutputFormat, cfg.OutputFile, rows); err != nil {
		return err
	}

	if searchPrint {
		printPreview(items)
	}
	slog.Info("search complete",
		slog.Int("products", len(items)),
		slog.String("output", cfg.OutputFile),
	)
	return nil
}

// buildRequest assembles the search request from the optional request
// file, with command-line flags taking precedence.
func buildRequest() (models.SearchRequest, error) {
	var req models.SearchRequest
	if searchInput != "" {
		data, err := os.ReadFile(searchInput)
		if err != nil {
			return req, fmt.Errorf("read request file: %w", err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse request file %s: %w", searchInput, err)
		}
	}
	if searchKeyword != "" {
		req.Keyword = searchKeyword
	}
	if searchRegion != "" {
		req.Region = searchRegion
	}
	if searchSort != "" {
		req.SortType = models.ParseSortMode(searchSort)
	}
	if searchLimit != 0 {
		req.Limit = searchLimit
	}
	if searchTrending {
		req.IsTrending = true
	}
	return req, nil
}

// printPreview writes a compact table of the first records to stdout.
func printPreview(items []*models.CatalogProduct) {
	preview := items
	if len(preview) > 10 {
		preview = preview[:10]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT_ID\tTITLE\tPRICE\tCURRENCY\tSOLD\tSELLER")
	for _, it := range preview {
		title := it.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%d\t%s\n",
			it.ProductID, title, it.Price, it.Currency, it.SoldCount, it.SellerName)
	}
	w.Flush()
}
