package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/google/uuid"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/config"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/pipeline"
)

const (
	ProgramName   = "ocr-extract"
	Version       = "v0.1.0"
	RepositoryUrl = "github.com/nahidn4p/PDF-OCR-Extract-Tool"
)

type args struct {
	Input      string   `arg:"positional" help:"scanned PDF to convert"`
	Config     string   `arg:"--config,-c,env:OCR_CONFIG" help:"YAML configuration file"`
	Output     string   `arg:"--output,-o,env:OCR_OUTPUT_ROOT" help:"output root directory"`
	Pages      *int     `arg:"--pages,-n,env:OCR_PAGES" help:"number of pages to process, 0 for all"`
	DPI        *float64 `arg:"--dpi,env:OCR_DPI" help:"rasterization resolution"`
	Engine     string   `arg:"--engine,-e,env:OCR_ENGINE" help:"OCR engine: tesseract or gemini"`
	Languages  []string `arg:"--lang,-l,env:OCR_LANGUAGES" help:"language pair as ISO-639-1 codes"`
	LineLength *int     `arg:"--line-length,env:OCR_LINE_LENGTH" help:"minimum characters of a complete line"`
	Project    string   `arg:"--project,env:PROJECT_ID" help:"Google Cloud project for the gemini engine"`
	Region     string   `arg:"--region,env:VERTEX_AI_REGION" help:"Vertex AI region for the gemini engine"`
	Model      string   `arg:"--model,env:VERTEX_AI_MODEL" help:"Gemini model name"`
	LogFormat  string   `arg:"--log-format" default:"text" help:"log output: text or json"`
	Verbose    bool     `arg:"--verbose,-v" help:"enable debug logging"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", ProgramName, Version)
}

func (args) Description() string {
	return "Extracts paragraphs and records from a scanned PDF into Word and Excel files."
}

func (args) Epilogue() string {
	return fmt.Sprintf("For more information visit %s", RepositoryUrl)
}

func main() {
	var args args

	p, err := arg.NewParser(arg.Config{Program: ProgramName}, &args)
	if err != nil {
		log.Fatalf("there was an error in the definition of the Go struct: %v", err)
	}
	p.MustParse(os.Args[1:])

	slog.SetDefault(newLogger(args.LogFormat, args.Verbose))

	cfg, err := loadConfig(args)
	if err != nil {
		p.Fail(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := slog.With("runId", uuid.NewString())
	res, err := pipeline.New(cfg, pipeline.WithLogger(logger)).Run(ctx)
	if err != nil {
		logger.Error("Extraction failed", "error", err)
		stop()
		os.Exit(1)
	}

	fmt.Printf("Processed %d pages, %d paragraphs, %d records.\n", res.PageCount, res.Document.ParagraphCount(), len(res.Document.Records()))
	fmt.Printf("Word:   %s\n", res.DocumentPath)
	fmt.Printf("Excel:  %s\n", res.TablePath)
	fmt.Printf("Images: %s\n", res.ImagesDir)
}

func newLogger(format string, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadConfig reads the optional YAML file and applies command line overrides.
func loadConfig(a args) (*config.Config, error) {
	cfg := config.Default()
	if a.Config != "" {
		loaded, err := config.Load(a.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if a.Input != "" {
		cfg.Input = a.Input
	}
	if a.Output != "" {
		cfg.OutputRoot = a.Output
	}
	if a.Pages != nil {
		cfg.Pages = *a.Pages
	}
	if a.DPI != nil {
		cfg.DPI = *a.DPI
	}
	if a.Engine != "" {
		cfg.OCR.Engine = a.Engine
	}
	if len(a.Languages) > 0 {
		cfg.OCR.Languages = a.Languages
	}
	if a.LineLength != nil {
		cfg.Text.CompleteLineLength = *a.LineLength
	}
	if a.Project != "" {
		cfg.OCR.Vertex.ProjectID = a.Project
	}
	if a.Region != "" {
		cfg.OCR.Vertex.Region = a.Region
	}
	if a.Model != "" {
		cfg.OCR.Vertex.Model = a.Model
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
