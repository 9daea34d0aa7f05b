// Package export serializes canonical records to the supported output
// formats. The pipeline itself is format-agnostic; it hands a writer
// the final ordered record set exactly once.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/davitran/go-scrape-ttshop/models"
)

// OutputWriter is the sink contract. Write receives the complete
// ordered result set in a single call; Validate checks the artifact
// after writing; Close releases the underlying file.
type OutputWriter interface {
	Write(rows []models.RawRecord) error
	Close() error
	Validate() error
}

// NewWriter builds a writer for a format name.
func NewWriter(format, filename string) (OutputWriter, error) {
	switch format {
	case "json":
		return NewJSONWriter(filename)
	case "csv":
		return NewCSVWriter(filename)
	case "xlsx":
		return NewXLSXWriter(filename), nil
	case "html":
		return NewHTMLWriter(filename)
	case "xml":
		return NewXMLWriter(filename)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ProductRows converts page-parse records into generic rows.
func ProductRows(products []*models.Product) ([]models.RawRecord, error) {
	return toRows(products)
}

// CatalogRows converts catalog records into generic rows.
func CatalogRows(items []*models.CatalogProduct) ([]models.RawRecord, error) {
	return toRows(items)
}

// toRows round-trips typed records through their JSON form so every
// writer sees the same snake_case field names the JSON output uses.
func toRows(v any) ([]models.RawRecord, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	var rows []models.RawRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return rows, nil
}

// headerUnion returns the sorted union of all row keys.
func headerUnion(rows []models.RawRecord) []string {
	set := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			set[key] = struct{}{}
		}
	}
	headers := make([]string, 0, len(set))
	for key := range set {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

// cellText renders one cell value. Composite values keep their JSON
// text form; nil renders empty.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

func validateFile(filename string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("stat output file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("output file %s is empty", filename)
	}
	return nil
}
