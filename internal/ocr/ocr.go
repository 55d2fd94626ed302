// Package ocr recognizes text lines on rendered page images.
//
// Two engines are available: Tesseract through gosseract (compiled in with the
// "ocr" build tag) and Gemini through Vertex AI.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/gcp"
)

// Engine names accepted by New.
const (
	EngineTesseract = "tesseract"
	EngineGemini    = "gemini"
)

// DefaultLanguages is the script pair the pipeline is tuned for.
var DefaultLanguages = []string{"bn", "en"}

// ErrUnknownEngine is returned by New for an unsupported engine name.
var ErrUnknownEngine = errors.New("unknown OCR engine")

// Engine turns one page image into raw text lines in reading order.
// Engines are created once per run and reused for every page.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) ([]string, error)
	Close() error
}

// Options selects and configures an Engine.
type Options struct {
	Engine string
	// Languages are ISO 639-1 hints such as "bn" and "en".
	Languages []string
	// DPI is the resolution the images were rendered at; zero means unknown.
	DPI int

	// Vertex AI settings, used by the gemini engine.
	ProjectID string
	Region    string
	Model     string
}

// New creates the engine named in opts.
func New(ctx context.Context, opts Options) (Engine, error) {
	langs := opts.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}

	switch strings.ToLower(opts.Engine) {
	case "", EngineTesseract:
		engine, err := NewTesseract(langs, opts.DPI)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case EngineGemini:
		vertexClient, err := gcp.NewVertexClient(ctx, opts.ProjectID, opts.Region, opts.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create vertex client: %w", err)
		}
		return NewGemini(vertexClient.OCRModel, langs, vertexClient), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, opts.Engine)
	}
}

var tesseractCodes = map[string]string{
	"ar": "ara",
	"bn": "ben",
	"de": "deu",
	"en": "eng",
	"es": "spa",
	"fr": "fra",
	"hi": "hin",
	"ur": "urd",
}

// TesseractLanguages maps ISO 639-1 hints to Tesseract traineddata names.
// Unknown codes are passed through unchanged.
func TesseractLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if code, ok := tesseractCodes[l]; ok {
			l = code
		}
		out = append(out, l)
	}
	return out
}

var languageNames = map[string]string{
	"ar": "Arabic",
	"bn": "Bengali",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"hi": "Hindi",
	"ur": "Urdu",
}

// LanguageNames maps ISO 639-1 hints to English language names for prompts.
func LanguageNames(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		l = strings.ToLower(strings.TrimSpace(l))
		if name, ok := languageNames[l]; ok {
			out = append(out, name)
		} else if l != "" {
			out = append(out, l)
		}
	}
	return out
}
