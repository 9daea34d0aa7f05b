package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/davitran/go-scrape-ttshop/models"
)

// JSONWriter writes the full record set as one indented JSON array.
type JSONWriter struct {
	filename string
	file     *os.File
	wrote    bool
}

// NewJSONWriter creates the output file up front so path problems
// surface before any scraping happens.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}
	return &JSONWriter{filename: filename, file: f}, nil
}

// Write encodes rows as a single array. An empty input still produces
// a valid (empty-array) artifact.
func (jw *JSONWriter) Write(rows []models.RawRecord) error {
	if rows == nil {
		rows = []models.RawRecord{}
	}
	enc := json.NewEncoder(jw.file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	jw.wrote = true
	return nil
}

// Close closes the file handle.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}

// Validate ensures the array was written.
func (jw *JSONWriter) Validate() error {
	if !jw.wrote {
		return fmt.Errorf("json output was never written")
	}
	return nil
}

// CSVWriter writes rows with a sorted header union, matching the JSON
// field names.
type CSVWriter struct {
	filename string
	file     *os.File
	buf      *bufio.Writer
}

// NewCSVWriter initialises the CSV output file.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}
	return &CSVWriter{filename: filename, file: f, buf: bufio.NewWriter(f)}, nil
}

// Write emits the header row followed by every record. With no rows
// the file stays empty, mirroring the upstream exporter.
func (cw *CSVWriter) Write(rows []models.RawRecord) error {
	if len(rows) == 0 {
		return cw.buf.Flush()
	}

	w := csv.NewWriter(cw.buf)
	headers := headerUnion(rows)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			record[i] = cellText(row[h])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return cw.buf.Flush()
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	if err := cw.buf.Flush(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content.
func (cw *CSVWriter) Validate() error {
	if err := cw.buf.Flush(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return validateFile(cw.filename)
}
