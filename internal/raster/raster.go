// Package raster renders PDF pages to PNG images.
//
// Sources are validated and counted with pdfcpu before MuPDF (through go-fitz)
// opens them for rendering.
package raster

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultDPI is the rasterization resolution used when none is configured.
const DefaultDPI = 300

// Document is an opened source document.
type Document interface {
	// PageCount returns the number of renderable pages.
	PageCount() int
	// Render rasterizes the zero-based page at dpi and returns PNG bytes.
	Render(pageIndex int, dpi float64) ([]byte, error)
	Close() error
}

// Rasterizer opens source documents for rendering.
type Rasterizer interface {
	Open(path string) (Document, error)
}

// Inspect validates the PDF at path in relaxed mode and returns its page count.
func Inspect(path string) (int, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, cfg); err != nil {
		return 0, fmt.Errorf("failed to validate PDF: %w", err)
	}
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return pageCount, nil
}

// MuPDF renders pages with the MuPDF library.
type MuPDF struct{}

// NewMuPDF returns a MuPDF rasterizer.
func NewMuPDF() *MuPDF {
	return &MuPDF{}
}

// Open validates path with pdfcpu and opens it with MuPDF.
func (m *MuPDF) Open(path string) (Document, error) {
	pageCount, err := Inspect(path)
	if err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}

	if n := doc.NumPage(); n != pageCount {
		slog.Warn("Page count mismatch between validators.", "path", path, "pdfcpu", pageCount, "mupdf", n)
		pageCount = min(pageCount, n)
	}
	return &mupdfDocument{doc: doc, pageCount: pageCount}, nil
}

type mupdfDocument struct {
	doc       *fitz.Document
	pageCount int
}

func (d *mupdfDocument) PageCount() int { return d.pageCount }

func (d *mupdfDocument) Render(pageIndex int, dpi float64) ([]byte, error) {
	if pageIndex < 0 || pageIndex >= d.pageCount {
		return nil, fmt.Errorf("page index %d out of range [0,%d)", pageIndex, d.pageCount)
	}
	img, err := d.doc.ImageDPI(pageIndex, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageIndex+1, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page %d: %w", pageIndex+1, err)
	}
	return buf.Bytes(), nil
}

func (d *mupdfDocument) Close() error {
	if d.doc != nil {
		return d.doc.Close()
	}
	return nil
}
