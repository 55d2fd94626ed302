package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/config"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/gcp"
)

// Processing modes of the document converter.
const (
	ModeInline   = "inline"
	ModeWorkflow = "workflow"
)

// loadPipelineConfig builds the extraction settings shared by all functions:
// an optional OCR_CONFIG YAML file overridden by individual environment variables.
func loadPipelineConfig() (*config.Config, error) {
	cfg := config.Default()
	if path := gcp.GetEnv("OCR_CONFIG", ""); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load OCR_CONFIG: %w", err)
		}
		cfg = loaded
	}

	cfg.OCR.Engine = gcp.GetEnv("OCR_ENGINE", cfg.OCR.Engine)
	if langs := gcp.GetEnv("OCR_LANGUAGES", ""); langs != "" {
		cfg.OCR.Languages = strings.Split(langs, ",")
	}
	if pages := gcp.GetEnv("OCR_PAGES", ""); pages != "" {
		n, err := strconv.Atoi(pages)
		if err != nil {
			return nil, fmt.Errorf("OCR_PAGES must be an integer: %w", err)
		}
		cfg.Pages = n
	}
	if dpi := gcp.GetEnv("OCR_DPI", ""); dpi != "" {
		v, err := strconv.ParseFloat(dpi, 64)
		if err != nil {
			return nil, fmt.Errorf("OCR_DPI must be a number: %w", err)
		}
		cfg.DPI = v
	}
	cfg.OCR.Vertex.ProjectID = gcp.GetEnv("PROJECT_ID", cfg.OCR.Vertex.ProjectID)
	cfg.OCR.Vertex.Region = gcp.GetEnv("VERTEX_AI_REGION", cfg.OCR.Vertex.Region)
	cfg.OCR.Vertex.Model = gcp.GetEnv("VERTEX_AI_MODEL", cfg.OCR.Vertex.Model)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	return cfg, nil
}
