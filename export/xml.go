package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"

	"github.com/davitran/go-scrape-ttshop/models"
)

// XMLWriter writes rows as <products><product>...</product></products>
// with one child element per field.
type XMLWriter struct {
	filename string
	file     *os.File
	wrote    bool
}

// NewXMLWriter initialises the XML output file.
func NewXMLWriter(filename string) (*XMLWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create xml file: %w", err)
	}
	return &XMLWriter{filename: filename, file: f}, nil
}

// Write streams the document through an xml.Encoder so field names can
// be dynamic.
func (xw *XMLWriter) Write(rows []models.RawRecord) error {
	if _, err := xw.file.WriteString(xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}

	enc := xml.NewEncoder(xw.file)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: "products"}}
	if err := enc.EncodeToken(root); err != nil {
		return fmt.Errorf("encode xml root: %w", err)
	}
	for _, row := range rows {
		if err := encodeRow(enc, row); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return fmt.Errorf("encode xml root end: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("flush xml output: %w", err)
	}
	xw.wrote = true
	return nil
}

func encodeRow(enc *xml.Encoder, row models.RawRecord) error {
	product := xml.StartElement{Name: xml.Name{Local: "product"}}
	if err := enc.EncodeToken(product); err != nil {
		return fmt.Errorf("encode xml product: %w", err)
	}

	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field := xml.StartElement{Name: xml.Name{Local: key}}
		if err := enc.EncodeToken(field); err != nil {
			return fmt.Errorf("encode xml field %s: %w", key, err)
		}
		if err := enc.EncodeToken(xml.CharData(cellText(row[key]))); err != nil {
			return fmt.Errorf("encode xml value %s: %w", key, err)
		}
		if err := enc.EncodeToken(field.End()); err != nil {
			return fmt.Errorf("encode xml field end %s: %w", key, err)
		}
	}
	return enc.EncodeToken(product.End())
}

// Close closes the file handle.
func (xw *XMLWriter) Close() error {
	return xw.file.Close()
}

// Validate ensures the document was written.
func (xw *XMLWriter) Validate() error {
	if !xw.wrote {
		return fmt.Errorf("xml output was never written")
	}
	return nil
}
