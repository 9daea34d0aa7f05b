package export

import (
	"fmt"
	"html/template"
	"os"

	"github.com/davitran/go-scrape-ttshop/models"
)

var htmlTemplate = template.Must(template.New("table").Parse(
	`<html><head><meta charset="utf-8"><title>TikTok Shop Data</title></head>
<body>
{{- if .Headers}}
<table border="1">
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- else}}
<p>No data available.</p>
{{- end}}
</body></html>
`))

// HTMLWriter renders the record set as a single HTML table.
type HTMLWriter struct {
	filename string
	file     *os.File
	wrote    bool
}

// NewHTMLWriter initialises the HTML output file.
func NewHTMLWriter(filename string) (*HTMLWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create html file: %w", err)
	}
	return &HTMLWriter{filename: filename, file: f}, nil
}

// Write renders the table. An empty input renders a placeholder page.
func (hw *HTMLWriter) Write(rows []models.RawRecord) error {
	headers := headerUnion(rows)
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, h := range headers {
			line[i] = cellText(row[h])
		}
		cells = append(cells, line)
	}

	data := struct {
		Headers []string
		Rows    [][]string
	}{Headers: headers, Rows: cells}

	if err := htmlTemplate.Execute(hw.file, data); err != nil {
		return fmt.Errorf("render html output: %w", err)
	}
	hw.wrote = true
	return nil
}

// Close closes the file handle.
func (hw *HTMLWriter) Close() error {
	return hw.file.Close()
}

// Validate ensures the page was rendered.
func (hw *HTMLWriter) Validate() error {
	if !hw.wrote {
		return fmt.Errorf("html output was never written")
	}
	return nil
}
