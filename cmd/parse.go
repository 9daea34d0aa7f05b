package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/davitran/go-scrape-ttshop/config"
	"github.com/davitran/go-scrape-ttshop/export"
	"github.com/davitran/go-scrape-ttshop/models"
	"github.com/davitran/go-scrape-ttshop/scraper"
	"github.com/spf13/cobra"
)

var (
	parseInputFile string
	parseOutput    string
	parseFormat    string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a list of shop URLs into product records",
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "input-file", "i", "data/input_urls.txt", "Text file with one URL per line ('#' comments and blanks ignored)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "data/sample_output.json", "Output file path")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "Output format: json, csv, xlsx, html, or xml")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.OutputFile = parseOutput
	cfg.OutputFormat = parseFormat
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	urls, err := config.LoadURLs(parseInputFile)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", parseInputFile)
	}

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		return fmt.Errorf("initialising scraper: %w", err)
	}
	stopMetrics := serveMetrics(cfg.MetricsAddr, s.Metrics.Registry)
	defer stopMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting parse run",
		slog.Int("urls", len(urls)),
		slog.String("output", cfg.OutputFile),
		slog.String("format", cfg.OutputFormat),
	)

	result := s.ScrapeAll(ctx, urls)

	rows, err := export.ProductRows(result.Products)
	if err != nil {
		return err
	}
	if err := writeRows(cfg.OutputFormat, cfg.OutputFile, rows); err != nil {
		return err
	}

	printParseSummary(result, cfg.OutputFile)
	return nil
}

func writeRows(format, filename string, rows []models.RawRecord) error {
	writer, err := export.NewWriter(format, filename)
	if err != nil {
		return err
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	if err := writer.Write(rows); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := writer.Validate(); err != nil {
		// Zero records is a legitimate outcome; the artifact check is
		// advisory.
		slog.Warn("output validation", slog.Any("error", err))
	}
	return nil
}

func printParseSummary(result *models.ScrapeResult, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Parse complete")
	fmt.Printf("  URLs:          %d\n", result.URLCount)
	fmt.Printf("  Products:      %d\n", result.ProductCount)
	fmt.Printf("  Errors:        %d\n", result.ErrorCount)
	fmt.Printf("  Retries:       %d\n", result.RetryCount)
	fmt.Printf("  Failed URLs:   %d\n", len(result.FailedURLs))
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime).Round(time.Millisecond))
	fmt.Printf("  Output file:   %s\n", outputFile)
	fmt.Println(separator)
}
