// Package pipeline sequences rasterization, OCR, text reconstruction and
// artifact composition for one scanned document.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/compose"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/config"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/ocr"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/raster"
)

// Failure classes of a run. Every error returned by Run wraps exactly one of them
// or a context error.
var (
	ErrInput     = errors.New("input error")
	ErrRasterize = errors.New("rasterization error")
	ErrRecognize = errors.New("recognition error")
	ErrOutput    = errors.New("output write error")
)

// DocumentComposer writes the flowing document artifact.
type DocumentComposer interface {
	WriteFile(path string, doc *models.DocumentResult) error
}

// TableComposer writes the tabular artifact.
type TableComposer interface {
	WriteFile(path string, records []models.Record) error
}

// EngineFactory creates the OCR engine for a run.
type EngineFactory func(ctx context.Context) (ocr.Engine, error)

// Result describes a completed run.
type Result struct {
	Document     *models.DocumentResult
	PageCount    int
	ImagesDir    string
	DocumentPath string
	TablePath    string
}

// Pipeline converts one source document. It is not safe for concurrent use.
type Pipeline struct {
	cfg        *config.Config
	layout     Layout
	rasterizer raster.Rasterizer
	newEngine  EngineFactory
	documents  DocumentComposer
	tables     TableComposer
	logger     *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithRasterizer replaces the MuPDF rasterizer.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(p *Pipeline) { p.rasterizer = r }
}

// WithEngineFactory replaces the engine built from the OCR configuration.
func WithEngineFactory(f EngineFactory) Option {
	return func(p *Pipeline) { p.newEngine = f }
}

// WithComposers replaces the Word and Excel writers.
func WithComposers(documents DocumentComposer, tables TableComposer) Option {
	return func(p *Pipeline) {
		p.documents = documents
		p.tables = tables
	}
}

// WithLogger sets the logger used for progress reporting.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a Pipeline for cfg. cfg should already be validated.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		layout:     Layout{Root: cfg.OutputRoot},
		rasterizer: raster.NewMuPDF(),
		newEngine: func(ctx context.Context) (ocr.Engine, error) {
			return ocr.New(ctx, cfg.OCROptions())
		},
		documents: compose.DocumentWriter{},
		tables:    compose.TableWriter{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout returns the output layout of the run.
func (p *Pipeline) Layout() Layout { return p.layout }

// PagesToProcess bounds the requested page count by the document length.
// A non-positive request means every page.
func PagesToProcess(requested, available int) int {
	if requested <= 0 || requested > available {
		return available
	}
	return requested
}

// Run processes the configured pages in ascending order and writes both
// artifacts once all pages succeeded. The first failure aborts the run and
// nothing is composed.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	logCtx := p.logger.With("input", p.cfg.Input, "outputRoot", p.cfg.OutputRoot)

	doc, total, err := p.open(ctx, logCtx)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	engine, err := p.newEngine(ctx)
	if err != nil {
		logCtx.Error("Failed to initialize OCR engine", "error", err)
		return nil, fmt.Errorf("%w: failed to initialize OCR engine: %w", ErrRecognize, err)
	}
	defer engine.Close()
	logCtx = logCtx.With("engine", engine.Name())

	processor := &PageProcessor{
		Engine:     engine,
		Normalizer: p.cfg.Normalizer(),
		Extractor:  p.cfg.Extractor(),
	}

	result := &models.DocumentResult{}
	for pageNumber := 1; pageNumber <= total; pageNumber++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		image, err := p.renderPage(doc, pageNumber)
		if err != nil {
			logCtx.Error("Failed to rasterize page", "page", pageNumber, "error", err)
			return nil, err
		}

		page, err := processor.Process(ctx, pageNumber, image)
		if err != nil {
			logCtx.Error("Failed to recognize page", "page", pageNumber, "error", err)
			return nil, fmt.Errorf("%w: page %d: %w", ErrRecognize, pageNumber, err)
		}
		result.Append(page)
		logCtx.Info("Processed page.", "page", pageNumber, "total", total, "paragraphs", len(page.Paragraphs))
	}

	if err := p.Compose(result); err != nil {
		logCtx.Error("Failed to write artifacts", "error", err)
		return nil, err
	}

	logCtx.Info("Pipeline complete.", "pageCount", total, "paragraphCount", result.ParagraphCount())
	return &Result{
		Document:     result,
		PageCount:    total,
		ImagesDir:    p.layout.ImagesDir(),
		DocumentPath: p.layout.DocumentPath(),
		TablePath:    p.layout.TablePath(),
	}, nil
}

// Rasterize only renders the configured pages into the images directory and
// returns how many were written.
func (p *Pipeline) Rasterize(ctx context.Context) (int, error) {
	logCtx := p.logger.With("input", p.cfg.Input, "outputRoot", p.cfg.OutputRoot)

	doc, total, err := p.open(ctx, logCtx)
	if err != nil {
		return 0, err
	}
	defer doc.Close()

	for pageNumber := 1; pageNumber <= total; pageNumber++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if _, err := p.renderPage(doc, pageNumber); err != nil {
			logCtx.Error("Failed to rasterize page", "page", pageNumber, "error", err)
			return 0, err
		}
	}
	logCtx.Info("Rasterized pages.", "pageCount", total)
	return total, nil
}

// Compose writes the Word and Excel artifacts for doc.
func (p *Pipeline) Compose(doc *models.DocumentResult) error {
	return WriteArtifacts(p.layout, doc, p.documents, p.tables)
}

// WriteArtifacts writes the document and table artifacts of doc into layout.
func WriteArtifacts(layout Layout, doc *models.DocumentResult, documents DocumentComposer, tables TableComposer) error {
	if err := documents.WriteFile(layout.DocumentPath(), doc); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	if err := tables.WriteFile(layout.TablePath(), doc.Records()); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return nil
}

func (p *Pipeline) open(ctx context.Context, logCtx *slog.Logger) (raster.Document, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if err := p.layout.Create(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrOutput, err)
	}

	doc, err := p.rasterizer.Open(p.cfg.Input)
	if err != nil {
		logCtx.Error("Failed to open source document", "error", err)
		return nil, 0, fmt.Errorf("%w: %w", ErrInput, err)
	}

	available := doc.PageCount()
	total := PagesToProcess(p.cfg.Pages, available)
	logCtx.Info("Opened source document.", "availablePages", available, "requestedPages", p.cfg.Pages, "pageCount", total)
	return doc, total, nil
}

// renderPage rasterizes a 1-based page and stores it in the images directory.
func (p *Pipeline) renderPage(doc raster.Document, pageNumber int) ([]byte, error) {
	image, err := doc.Render(pageNumber-1, p.cfg.DPI)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrRasterize, pageNumber, err)
	}
	if err := os.WriteFile(p.layout.ImagePath(pageNumber), image, 0o644); err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrOutput, pageNumber, err)
	}
	return image, nil
}
