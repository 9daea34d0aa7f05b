// Package extract turns fetched pages into raw product records. It
// covers page classification, the ordered listing strategies, the
// single-product extractor, and structural deduplication.
package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PageDocument is the parsed representation of one fetched page. It is
// read-only once constructed and local to a single pipeline pass.
type PageDocument struct {
	url string
	doc *goquery.Document
}

// NewPageDocument parses page markup. The URL is kept as the fallback
// product link for records that carry none of their own.
func NewPageDocument(url string, r io.Reader) (*PageDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", url, err)
	}
	return &PageDocument{url: url, doc: doc}, nil
}

// NewPageDocumentFromString is a convenience wrapper for tests and
// in-memory documents.
func NewPageDocumentFromString(url, markup string) (*PageDocument, error) {
	return NewPageDocument(url, strings.NewReader(markup))
}

// URL returns the address the document was fetched from.
func (d *PageDocument) URL() string { return d.url }

// metaContent returns the content attribute of the first matching meta
// tag, or "".
func (d *PageDocument) metaContent(selector string) string {
	return strings.TrimSpace(d.doc.Find(selector).First().AttrOr("content", ""))
}

// title returns the text of the document's <title> element.
func (d *PageDocument) title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// firstText walks the document's text nodes in order and returns the
// first trimmed text for which pred holds. Script and style payloads
// are not text content and are skipped.
func (d *PageDocument) firstText(pred func(string) bool) string {
	var found string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return false
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" && pred(text) {
				found = text
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, n := range d.doc.Selection.Nodes {
		if walk(n) {
			break
		}
	}
	return found
}
