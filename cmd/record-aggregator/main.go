package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/services"
)

var (
	aggregatorInstance *services.RecordAggregatorFunction
	once               sync.Once
	initErr            error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleAggregateRecords", handleAggregateRecords)
}

func main() {}

// handleAggregateRecords is the HTTP handler for the aggregation service.
func handleAggregateRecords(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		aggregatorInstance, initErr = services.NewRecordAggregator(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: Aggregator initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.RecordAggregatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	res, err := aggregatorInstance.Process(r.Context(), &req)
	if err != nil {
		http.Error(w, "Internal Server Error: processing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error(
			"Failed to write response",
			"error", err,
			"documentId", req.DocumentID,
			"executionId", req.ExecutionID,
		)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}
