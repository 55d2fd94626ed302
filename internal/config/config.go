// Package config holds the run configuration of the extraction pipeline.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/ocr"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/raster"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/textproc"
)

type vertexConfig struct {
	ProjectID string `yaml:"project_id"`
	Region    string `yaml:"region"`
	Model     string `yaml:"model"`
}

type ocrConfig struct {
	Engine    string       `yaml:"engine"`
	Languages []string     `yaml:"languages"`
	Vertex    vertexConfig `yaml:"vertex"`
}

type textConfig struct {
	// CompleteLineLength is the fragment/complete-line threshold in characters.
	CompleteLineLength int `yaml:"complete_line_length"`
	// Delimiters are the Title/Description separators in priority order.
	Delimiters []string `yaml:"delimiters"`
}

// Config is the full configuration of one extraction run.
type Config struct {
	Input      string  `yaml:"input"`
	OutputRoot string  `yaml:"output_root"`
	Pages      int     `yaml:"pages"`
	DPI        float64 `yaml:"dpi"`

	OCR  ocrConfig  `yaml:"ocr"`
	Text textConfig `yaml:"text"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Input:      "book.pdf",
		OutputRoot: "output",
		Pages:      20,
		DPI:        raster.DefaultDPI,
		OCR: ocrConfig{
			Engine:    ocr.EngineTesseract,
			Languages: append([]string(nil), ocr.DefaultLanguages...),
			Vertex: vertexConfig{
				Region: "us-central1",
			},
		},
		Text: textConfig{
			CompleteLineLength: textproc.DefaultCompleteLineLength,
			Delimiters:         append([]string(nil), textproc.DefaultDelimiters...),
		},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	conf := Default()
	if err := yaml.Unmarshal(file, conf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return conf, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("input document path must be set")
	}
	if strings.TrimSpace(c.OutputRoot) == "" {
		return fmt.Errorf("output root must be set")
	}
	if c.Pages < 0 {
		return fmt.Errorf("pages must not be negative, got %d", c.Pages)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %v", c.DPI)
	}
	if len(c.OCR.Languages) != 2 {
		return fmt.Errorf("ocr.languages must name exactly two languages, got %v", c.OCR.Languages)
	}
	switch c.OCR.Engine {
	case ocr.EngineTesseract:
	case ocr.EngineGemini:
		if c.OCR.Vertex.ProjectID == "" || c.OCR.Vertex.Region == "" {
			return fmt.Errorf("ocr.vertex.project_id and ocr.vertex.region must be set for the gemini engine")
		}
	default:
		return fmt.Errorf("%w: %q", ocr.ErrUnknownEngine, c.OCR.Engine)
	}
	if c.Text.CompleteLineLength <= 0 {
		return fmt.Errorf("text.complete_line_length must be positive, got %d", c.Text.CompleteLineLength)
	}
	if len(c.Text.Delimiters) == 0 {
		return fmt.Errorf("text.delimiters must not be empty")
	}
	return nil
}

// OCROptions converts the OCR settings into engine options.
func (c *Config) OCROptions() ocr.Options {
	return ocr.Options{
		Engine:    c.OCR.Engine,
		Languages: c.OCR.Languages,
		DPI:       int(c.DPI),
		ProjectID: c.OCR.Vertex.ProjectID,
		Region:    c.OCR.Vertex.Region,
		Model:     c.OCR.Vertex.Model,
	}
}

// Normalizer builds the paragraph normalizer for this configuration.
func (c *Config) Normalizer() *textproc.Normalizer {
	n := textproc.NewNormalizer()
	n.CompleteLineLength = c.Text.CompleteLineLength
	return n
}

// Extractor builds the record extractor for this configuration.
func (c *Config) Extractor() *textproc.Extractor {
	return &textproc.Extractor{Delimiters: c.Text.Delimiters}
}
