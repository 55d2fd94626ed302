package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/gcp"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/ocr"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/pipeline"
)

// PageRecognizerConfig holds all configuration for the page recognizer service.
type PageRecognizerConfig struct {
	ProjectID       string
	ArtifactsBucket string
}

// PageRecognizerFunction recognizes one rasterized page per request.
type PageRecognizerFunction struct {
	storageClient *storage.Client
	engine        ocr.Engine
	processor     *pipeline.PageProcessor
	config        PageRecognizerConfig
}

// NewPageRecognizer creates a new PageRecognizerFunction instance. The OCR
// engine lives as long as the function instance.
func NewPageRecognizer(ctx context.Context) (*PageRecognizerFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	config := PageRecognizerConfig{
		ProjectID:       projectID,
		ArtifactsBucket: gcp.GetEnv("ARTIFACTS_BUCKET", ""),
	}
	if config.ArtifactsBucket == "" {
		return nil, fmt.Errorf("ARTIFACTS_BUCKET environment variable must be set")
	}

	pipelineConfig, err := loadPipelineConfig()
	if err != nil {
		return nil, err
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	engine, err := ocr.New(ctx, pipelineConfig.OCROptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	return &PageRecognizerFunction{
		storageClient: storageClient,
		engine:        engine,
		processor: &pipeline.PageProcessor{
			Engine:     engine,
			Normalizer: pipelineConfig.Normalizer(),
			Extractor:  pipelineConfig.Extractor(),
		},
		config: config,
	}, nil
}

// Process recognizes a single page image and stores its paragraphs and records
// as JSON next to the document's other artifacts.
func (f *PageRecognizerFunction) Process(ctx context.Context, req *models.PageRecognizerRequest) (*models.PageRecognizerResponse, error) {
	logCtx := slog.With("documentId", req.DocumentID, "page", req.PageNumber, "executionId", req.ExecutionID)
	if req.DocumentID == "" || req.PageNumber < 1 {
		return nil, fmt.Errorf("request must name a document and a page number >= 1")
	}
	logCtx.Info("Starting recognition.", "engine", f.engine.Name())

	bucket, object := f.config.ArtifactsBucket, pageImageObject(req.DocumentID, req.PageNumber)
	if req.ImageGCSUri != "" {
		var err error
		bucket, object, err = gcp.ParseGCSUri(req.ImageGCSUri)
		if err != nil {
			return nil, err
		}
	}

	image, err := gcp.ReadObject(ctx, f.storageClient, bucket, object)
	if err != nil {
		logCtx.Error("Failed to read page image", "error", err)
		return nil, err
	}

	page, err := f.processor.Process(ctx, req.PageNumber, image)
	if err != nil {
		logCtx.Error("Failed to recognize page", "error", err)
		return nil, fmt.Errorf("%w: page %d: %w", pipeline.ErrRecognize, req.PageNumber, err)
	}
	if len(page.Paragraphs) == 0 {
		logCtx.Warn("No text recognized. Treating as empty page.")
	}

	content, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal page result: %w", err)
	}

	objectName := pageResultObject(req.DocumentID, req.PageNumber)
	bucketHandle := f.storageClient.Bucket(f.config.ArtifactsBucket)
	if err := gcp.SaveToGCSAtomically(ctx, bucketHandle, objectName, content); err != nil {
		logCtx.Error("Failed to save page result", "error", err)
		return nil, err
	}

	outputGCSUri := gcp.GCSUri(f.config.ArtifactsBucket, objectName)
	logCtx.Info("Recognition complete.", "outputGcsUri", outputGCSUri, "paragraphs", len(page.Paragraphs))
	return &models.PageRecognizerResponse{
		Status:         "success",
		OutputGCSUri:   outputGCSUri,
		ParagraphCount: len(page.Paragraphs),
		RecordCount:    len(page.Records),
	}, nil
}

// Close releases the OCR engine.
func (f *PageRecognizerFunction) Close() error {
	return f.engine.Close()
}
