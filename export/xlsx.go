package export

import (
	"fmt"

	"github.com/davitran/go-scrape-ttshop/models"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "TikTok Shop Data"

// XLSXWriter writes rows into a single-sheet workbook.
type XLSXWriter struct {
	filename string
	wrote    bool
}

// NewXLSXWriter prepares an XLSX writer; the workbook is built in
// memory and saved on Write.
func NewXLSXWriter(filename string) *XLSXWriter {
	return &XLSXWriter{filename: filename}
}

// Write builds the workbook and saves it. An empty input produces an
// empty workbook, mirroring the upstream exporter.
func (xw *XLSXWriter) Write(rows []models.RawRecord) error {
	if err := ensureDir(xw.filename); err != nil {
		return err
	}

	wb := excelize.NewFile()
	defer wb.Close()
	wb.SetSheetName("Sheet1", xlsxSheet)

	if len(rows) > 0 {
		headers := headerUnion(rows)
		cells := make([]any, len(headers))
		for i, h := range headers {
			cells[i] = h
		}
		if err := wb.SetSheetRow(xlsxSheet, "A1", &cells); err != nil {
			return fmt.Errorf("write xlsx header: %w", err)
		}
		for rowIdx, row := range rows {
			for i, h := range headers {
				cells[i] = cellText(row[h])
			}
			addr, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("xlsx cell address: %w", err)
			}
			if err := wb.SetSheetRow(xlsxSheet, addr, &cells); err != nil {
				return fmt.Errorf("write xlsx row: %w", err)
			}
		}
	}

	if err := wb.SaveAs(xw.filename); err != nil {
		return fmt.Errorf("save xlsx file: %w", err)
	}
	xw.wrote = true
	return nil
}

// Close is a no-op; the workbook is closed after each Write.
func (xw *XLSXWriter) Close() error { return nil }

// Validate ensures the workbook was saved.
func (xw *XLSXWriter) Validate() error {
	if !xw.wrote {
		return fmt.Errorf("xlsx output was never written")
	}
	return validateFile(xw.filename)
}
