package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/xuri/excelize/v2"
)

// TableColumns is the fixed column order of the records sheet.
var TableColumns = []string{"PageNumber", "Title", "Description", "FullText"}

// TableWriter renders records as a single-sheet .xlsx workbook with a header row.
type TableWriter struct {
	// Sheet is the worksheet name. Empty means "Sheet1".
	Sheet string
}

// WriteFile writes records to path, replacing any existing file.
func (w TableWriter) WriteFile(path string, records []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if w.Sheet != "" && w.Sheet != sheet {
		if err := f.SetSheetName(sheet, w.Sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
		sheet = w.Sheet
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	header := make([]interface{}, len(TableColumns))
	for i, c := range TableColumns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.PageNumber, r.Title, r.Description, r.FullText}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
