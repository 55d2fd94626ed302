package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	executions "cloud.google.com/go/workflows/executions/apiv1"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/config"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/gcp"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/pipeline"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/raster"
)

type DocumentConverterConfig struct {
	ProjectID        string
	ArtifactsBucket  string
	CollectionName   string
	ProcessingMode   string
	WorkflowID       string
	WorkflowLocation string
	Pipeline         *config.Config
}

type DocumentConverterFunction struct {
	storageClient    *storage.Client
	runs             *gcp.RunStore
	executionsClient *executions.Client
	config           DocumentConverterConfig
}

func NewDocumentConverter(ctx context.Context) (*DocumentConverterFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	pipelineConfig, err := loadPipelineConfig()
	if err != nil {
		return nil, err
	}

	config := DocumentConverterConfig{
		ProjectID:        projectID,
		ArtifactsBucket:  gcp.GetEnv("ARTIFACTS_BUCKET", ""),
		CollectionName:   gcp.GetEnv("FIRESTORE_COLLECTION", "documents"),
		ProcessingMode:   gcp.GetEnv("PROCESSING_MODE", ModeInline),
		WorkflowLocation: gcp.GetEnv("WORKFLOW_LOCATION", "us-central1"),
		WorkflowID:       gcp.GetEnv("WORKFLOW_ID", "ocr-extraction-orchestrator"),
		Pipeline:         pipelineConfig,
	}
	if config.ArtifactsBucket == "" {
		return nil, fmt.Errorf("ARTIFACTS_BUCKET environment variable must be set")
	}
	if config.ProcessingMode != ModeInline && config.ProcessingMode != ModeWorkflow {
		return nil, fmt.Errorf("PROCESSING_MODE must be %q or %q, got %q", ModeInline, ModeWorkflow, config.ProcessingMode)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}

	f := &DocumentConverterFunction{
		storageClient: storageClient,
		runs:          gcp.NewRunStore(firestoreClient, config.CollectionName),
		config:        config,
	}
	if config.ProcessingMode == ModeWorkflow {
		f.executionsClient, err = executions.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create Workflows Executions client: %w", err)
		}
	}
	slog.Info("Document converter initialized.", "processingMode", config.ProcessingMode, "engine", pipelineConfig.OCR.Engine)
	return f, nil
}

func (f *DocumentConverterFunction) Process(ctx context.Context, e models.GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)
	if !strings.EqualFold(filepath.Ext(e.Name), ".pdf") {
		logCtx.Info("Object is not a PDF. Skipping.")
		return nil
	}
	logCtx.Info("Processing new GCS object.")

	tempDir, err := os.MkdirTemp("", "document-converter-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	sourcePath := filepath.Join(tempDir, "source.pdf")
	if err := gcp.DownloadObject(ctx, f.storageClient, e.Bucket, e.Name, sourcePath); err != nil {
		logCtx.Error("Failed to download source PDF", "error", err)
		return err
	}

	fileHash, err := calculateFileHash(sourcePath)
	if err != nil {
		logCtx.Error("Failed to calculate file hash", "error", err)
		return fmt.Errorf("failed to calculate file hash: %w", err)
	}
	logCtx = logCtx.With("fileHash", fileHash)

	existingID, isDuplicate, err := f.runs.FindByHash(ctx, fileHash)
	if err != nil {
		logCtx.Error("Failed to check for duplicate", "error", err)
		return err
	}
	if isDuplicate {
		logCtx.Info("Duplicate file detected. Skipping.", "existingDocId", existingID)
		return nil
	}

	docRef, err := f.runs.Create(ctx, fileHash, e.Name)
	if err != nil {
		logCtx.Error("Failed to create initial Firestore document", "error", err)
		return err
	}
	logCtx = logCtx.With("documentId", docRef.ID)
	logCtx.Info("Created master document in Firestore.")

	pageCount, err := raster.Inspect(sourcePath)
	if err != nil {
		return f.handleError(ctx, logCtx, docRef, "failed to validate PDF", err)
	}
	if err := f.runs.Update(ctx, docRef,
		firestore.Update{Path: "status", Value: models.StatusProcessing},
		firestore.Update{Path: "pageCount", Value: pipeline.PagesToProcess(f.config.Pipeline.Pages, pageCount)},
	); err != nil {
		return f.handleError(ctx, logCtx, docRef, "failed to update status to PROCESSING", err)
	}

	cfg := *f.config.Pipeline
	cfg.Input = sourcePath
	cfg.OutputRoot = filepath.Join(tempDir, "output")
	p := pipeline.New(&cfg, pipeline.WithLogger(logCtx))

	if f.config.ProcessingMode == ModeWorkflow {
		return f.rasterizeAndHandOff(ctx, logCtx, docRef, p)
	}
	return f.convertInline(ctx, logCtx, docRef, p)
}

// convertInline runs the whole pipeline in this invocation and uploads its artifacts.
func (f *DocumentConverterFunction) convertInline(ctx context.Context, logCtx *slog.Logger, docRef *firestore.DocumentRef, p *pipeline.Pipeline) error {
	res, err := p.Run(ctx)
	if err != nil {
		return f.handleError(ctx, logCtx, docRef, "pipeline failed", err)
	}

	objects, err := gcp.UploadTree(ctx, f.storageClient, f.config.ArtifactsBucket, docRef.ID, p.Layout().Root)
	if err != nil {
		return f.handleError(ctx, logCtx, docRef, "failed to upload artifacts", err)
	}
	logCtx.Info("Artifacts uploaded.", "objectCount", len(objects))

	records := len(res.Document.Records())
	if err := f.runs.Update(ctx, docRef,
		firestore.Update{Path: "status", Value: models.StatusComplete},
		firestore.Update{Path: "paragraphCount", Value: res.Document.ParagraphCount()},
		firestore.Update{Path: "recordCount", Value: records},
		firestore.Update{Path: "artifacts", Value: f.artifactURIs(docRef.ID)},
	); err != nil {
		return f.handleError(ctx, logCtx, docRef, "failed to update status to COMPLETE", err)
	}

	logCtx.Info("Conversion complete.", "pageCount", res.PageCount, "recordCount", records)
	return nil
}

// rasterizeAndHandOff uploads the page images and starts the workflow that
// fans recognition out per page.
func (f *DocumentConverterFunction) rasterizeAndHandOff(ctx context.Context, logCtx *slog.Logger, docRef *firestore.DocumentRef, p *pipeline.Pipeline) error {
	pageCount, err := p.Rasterize(ctx)
	if err != nil {
		return f.handleError(ctx, logCtx, docRef, "failed to rasterize PDF", err)
	}

	logCtx.Info("Starting concurrent upload of pages.", "pageCount", pageCount)
	if _, err := gcp.UploadTree(ctx, f.storageClient, f.config.ArtifactsBucket, imagesPrefix(docRef.ID), p.Layout().ImagesDir()); err != nil {
		return f.handleError(ctx, logCtx, docRef, "one or more pages failed to upload", err)
	}
	if err := f.runs.Update(ctx, docRef,
		firestore.Update{Path: "status", Value: models.StatusRasterized},
		firestore.Update{Path: "pageCount", Value: pageCount},
	); err != nil {
		return f.handleError(ctx, logCtx, docRef, "failed to update status to RASTERIZED", err)
	}

	logCtx.Info("Triggering workflow.")
	workflow := gcp.WorkflowName(f.config.ProjectID, f.config.WorkflowLocation, f.config.WorkflowID)
	executionID, err := gcp.TriggerWorkflow(ctx, f.executionsClient, workflow, models.WorkflowArgument{
		DocumentID: docRef.ID,
		PageCount:  pageCount,
		ImagesURI:  gcp.GCSUri(f.config.ArtifactsBucket, imagesPrefix(docRef.ID)),
	})
	if err != nil {
		return f.handleError(ctx, logCtx, docRef, "failed to trigger workflow execution", err)
	}
	if err := f.runs.Update(ctx, docRef, firestore.Update{Path: "workflowExecutionId", Value: executionID}); err != nil {
		logCtx.Warn("Failed to record workflow execution id", "error", err)
	}

	logCtx.Info("Hand-off to workflow complete.", "executionId", executionID)
	return nil
}

func (f *DocumentConverterFunction) artifactURIs(documentID string) map[string]string {
	return map[string]string{
		"document": gcp.GCSUri(f.config.ArtifactsBucket, documentObject(documentID)),
		"table":    gcp.GCSUri(f.config.ArtifactsBucket, tableObject(documentID)),
		"images":   gcp.GCSUri(f.config.ArtifactsBucket, imagesPrefix(documentID)),
	}
}

func (f *DocumentConverterFunction) handleError(ctx context.Context, logCtx *slog.Logger, docRef *firestore.DocumentRef, message string, originalErr error) error {
	fullError := fmt.Sprintf("%s: %v", message, originalErr)
	logCtx.Error(message, "error", originalErr)
	if err := f.runs.UpdateStatus(ctx, docRef, models.StatusFailed, fullError); err != nil {
		logCtx.Error("CRITICAL: Failed to update Firestore status to FAILED after a processing error.", "updateError", err)
	}
	return fmt.Errorf("%s: %w", message, originalErr)
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
