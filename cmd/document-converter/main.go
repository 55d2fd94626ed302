package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/services"
)

var (
	converterInstance *services.DocumentConverterFunction
	once              sync.Once
	initErr           error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.CloudEvent("ConvertDocument", convertDocument)
}

// main is required by the Go Functions Framework.
func main() {}

// convertDocument is the Cloud Function entry point for GCS finalize events.
func convertDocument(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		converterInstance, initErr = services.NewDocumentConverter(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent models.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	// Errors are logged with context inside Process; returning marks the invocation failed.
	return converterInstance.Process(ctx, gcsEvent)
}
