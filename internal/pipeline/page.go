package pipeline

import (
	"context"

	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/ocr"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/textproc"
)

// PageProcessor runs recognition, normalization and extraction for one page image.
type PageProcessor struct {
	Engine     ocr.Engine
	Normalizer *textproc.Normalizer
	Extractor  *textproc.Extractor
}

// Process recognizes image and returns the page's paragraphs and records.
// Only the engine can fail; the text stages are total.
func (p *PageProcessor) Process(ctx context.Context, pageNumber int, image []byte) (models.PageResult, error) {
	lines, err := p.Engine.Recognize(ctx, image)
	if err != nil {
		return models.PageResult{}, err
	}
	paragraphs := p.Normalizer.Normalize(lines)
	return models.PageResult{
		PageNumber: pageNumber,
		Paragraphs: paragraphs,
		Records:    p.Extractor.Extract(pageNumber, paragraphs),
	}, nil
}
