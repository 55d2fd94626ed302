package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/compose"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/gcp"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/pipeline"
	"google.golang.org/api/iterator"
)

// RecordAggregatorConfig holds configuration for the aggregator service.
type RecordAggregatorConfig struct {
	ProjectID       string
	ArtifactsBucket string
	CollectionName  string
}

// RecordAggregatorFunction composes the final artifacts from per-page results.
type RecordAggregatorFunction struct {
	storageClient *storage.Client
	runs          *gcp.RunStore
	config        RecordAggregatorConfig
}

// NewRecordAggregator creates a new RecordAggregatorFunction instance.
func NewRecordAggregator(ctx context.Context) (*RecordAggregatorFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	config := RecordAggregatorConfig{
		ProjectID:       projectID,
		ArtifactsBucket: gcp.GetEnv("ARTIFACTS_BUCKET", ""),
		CollectionName:  gcp.GetEnv("FIRESTORE_COLLECTION", "documents"),
	}
	if config.ArtifactsBucket == "" {
		return nil, fmt.Errorf("ARTIFACTS_BUCKET environment variable must be set")
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &RecordAggregatorFunction{
		storageClient: storageClient,
		runs:          gcp.NewRunStore(firestoreClient, config.CollectionName),
		config:        config,
	}, nil
}

// Process gathers every page result of a document, writes the Word and Excel
// artifacts once and marks the run complete.
func (f *RecordAggregatorFunction) Process(ctx context.Context, req *models.RecordAggregatorRequest) (*models.RecordAggregatorResponse, error) {
	logCtx := slog.With("documentId", req.DocumentID, "executionId", req.ExecutionID)
	if err := validateAggregatorRequest(req); err != nil {
		logCtx.Warn("Rejected aggregation request", "error", err)
		return nil, err
	}
	logCtx.Info("Starting aggregation.", "pageCount", req.PageCount)
	docRef := f.runs.Ref(req.DocumentID)

	pages, err := f.readPages(ctx, logCtx, req.DocumentID)
	if err != nil {
		return nil, f.handleError(ctx, logCtx, docRef, "failed to read page results", err)
	}
	doc, err := AssemblePages(pages, req.PageCount)
	if err != nil {
		return nil, f.handleError(ctx, logCtx, docRef, "incomplete page results", err)
	}
	logCtx.Info("Found and sorted page results.", "pageCount", len(doc.Pages))

	tempDir, err := os.MkdirTemp("", "record-aggregator-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	layout := pipeline.Layout{Root: tempDir}
	if err := pipeline.WriteArtifacts(layout, doc, compose.DocumentWriter{}, compose.TableWriter{}); err != nil {
		return nil, f.handleError(ctx, logCtx, docRef, "failed to compose artifacts", err)
	}

	uploads := map[string]string{
		layout.DocumentPath(): documentObject(req.DocumentID),
		layout.TablePath():    tableObject(req.DocumentID),
	}
	for localPath, object := range uploads {
		if err := gcp.UploadFile(ctx, f.storageClient, f.config.ArtifactsBucket, localPath, object); err != nil {
			return nil, f.handleError(ctx, logCtx, docRef, "failed to upload artifact", err)
		}
	}

	documentURI := gcp.GCSUri(f.config.ArtifactsBucket, documentObject(req.DocumentID))
	tableURI := gcp.GCSUri(f.config.ArtifactsBucket, tableObject(req.DocumentID))
	records := len(doc.Records())
	if err := f.runs.Update(ctx, docRef,
		firestore.Update{Path: "status", Value: models.StatusComplete},
		firestore.Update{Path: "paragraphCount", Value: doc.ParagraphCount()},
		firestore.Update{Path: "recordCount", Value: records},
		firestore.Update{Path: "artifacts", Value: map[string]string{
			"document": documentURI,
			"table":    tableURI,
			"images":   gcp.GCSUri(f.config.ArtifactsBucket, imagesPrefix(req.DocumentID)),
		}},
	); err != nil {
		logCtx.Error("Failed to update status to COMPLETE", "error", err)
		return nil, fmt.Errorf("failed to update status to COMPLETE: %w", err)
	}

	logCtx.Info("Aggregation complete.", "recordCount", records)
	return &models.RecordAggregatorResponse{
		Status:      "success",
		DocumentURI: documentURI,
		TableURI:    tableURI,
		RecordCount: records,
	}, nil
}

// validateAggregatorRequest rejects requests that could finalize a run
// without knowing how many pages it has.
func validateAggregatorRequest(req *models.RecordAggregatorRequest) error {
	if req.DocumentID == "" {
		return fmt.Errorf("request must name a document")
	}
	if req.PageCount < 1 {
		return fmt.Errorf("request must carry a page count >= 1, got %d", req.PageCount)
	}
	return nil
}

func (f *RecordAggregatorFunction) readPages(ctx context.Context, logCtx *slog.Logger, documentID string) ([]models.PageResult, error) {
	query := &storage.Query{Prefix: pagesPrefix(documentID)}
	it := f.storageClient.Bucket(f.config.ArtifactsBucket).Objects(ctx, query)

	var pages []models.PageResult
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list page results: %w", err)
		}
		if !strings.HasSuffix(attrs.Name, ".json") {
			continue
		}

		data, err := gcp.ReadObject(ctx, f.storageClient, f.config.ArtifactsBucket, attrs.Name)
		if err != nil {
			return nil, err
		}
		var page models.PageResult
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", attrs.Name, err)
		}
		logCtx.Debug("Read page result.", "gcsObject", attrs.Name, "page", page.PageNumber)
		pages = append(pages, page)
	}
	return pages, nil
}

func (f *RecordAggregatorFunction) handleError(ctx context.Context, logCtx *slog.Logger, docRef *firestore.DocumentRef, message string, originalErr error) error {
	fullError := fmt.Sprintf("%s: %v", message, originalErr)
	logCtx.Error(message, "error", originalErr)
	if err := f.runs.UpdateStatus(ctx, docRef, models.StatusFailed, fullError); err != nil {
		logCtx.Error("CRITICAL: Failed to update Firestore status to FAILED after a processing error.", "updateError", err)
	}
	return fmt.Errorf("%s: %w", message, originalErr)
}
