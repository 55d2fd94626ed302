package textproc

import (
	"strings"

	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
)

// DefaultDelimiters are tried in order. The first one present in a paragraph
// wins, regardless of where the others appear.
var DefaultDelimiters = []string{":", "-"}

// Extractor splits paragraphs into Title/Description records.
type Extractor struct {
	Delimiters []string
}

// NewExtractor returns an Extractor using DefaultDelimiters.
func NewExtractor() *Extractor {
	return &Extractor{Delimiters: DefaultDelimiters}
}

// Extract runs the default Extractor over the paragraphs of one page.
func Extract(pageNumber int, paragraphs []string) []models.Record {
	return NewExtractor().Extract(pageNumber, paragraphs)
}

// Extract builds one record per paragraph, stamped with pageNumber.
func (e *Extractor) Extract(pageNumber int, paragraphs []string) []models.Record {
	records := make([]models.Record, 0, len(paragraphs))
	for _, p := range paragraphs {
		title, description := e.Split(p)
		records = append(records, models.Record{
			PageNumber:  pageNumber,
			Title:       title,
			Description: description,
			FullText:    p,
		})
	}
	return records
}

// Split divides p at the first occurrence of the highest-priority delimiter it
// contains. Both halves are trimmed and the delimiter is dropped. Without any
// delimiter the whole paragraph is the title.
func (e *Extractor) Split(p string) (title, description string) {
	for _, d := range e.Delimiters {
		if d == "" {
			continue
		}
		if before, after, found := strings.Cut(p, d); found {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return p, ""
}
