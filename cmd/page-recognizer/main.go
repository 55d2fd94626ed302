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
	recognizerInstance *services.PageRecognizerFunction
	once               sync.Once
	initErr            error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleRecognizePage", handleRecognizePage)
}

// main is required by the Go Functions Framework.
func main() {}

// handleRecognizePage is the HTTP handler called by the workflow for every page.
func handleRecognizePage(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		recognizerInstance, initErr = services.NewPageRecognizer(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: Page recognizer initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.PageRecognizerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	res, err := recognizerInstance.Process(r.Context(), &req)
	if err != nil {
		// Error is already logged with context in the Process method.
		http.Error(w, "Internal Server Error: processing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error(
			"Failed to write response",
			"error", err,
			"documentId", req.DocumentID,
			"page", req.PageNumber,
			"executionId", req.ExecutionID,
		)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}
