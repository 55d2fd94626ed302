// Package compose writes run results as a Word document and an Excel workbook.
package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
)

// HeadingStyle is the paragraph style of the page headings.
const HeadingStyle = "Heading2"

// PageHeading returns the heading written above the paragraphs of a page.
func PageHeading(pageNumber int) string {
	return fmt.Sprintf("Page %d", pageNumber)
}

// DocumentWriter renders a DocumentResult as a .docx file: for every page a
// bold level-2 heading, one paragraph per Paragraph and a page break.
type DocumentWriter struct{}

// WriteFile writes doc to path, replacing any existing file.
func (w DocumentWriter) WriteFile(path string, doc *models.DocumentResult) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	for _, page := range doc.Pages {
		heading := document.AddEmptyParagraph()
		heading.Style(HeadingStyle)
		heading.AddText(PageHeading(page.PageNumber)).Bold(true)

		for _, p := range page.Paragraphs {
			document.AddParagraph(p)
		}
		document.AddPageBreak()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := document.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
