package models

import "time"

// Run status values stored on a Document.
const (
	StatusValidating = "VALIDATING"
	StatusProcessing = "PROCESSING"
	StatusRasterized = "RASTERIZED"
	StatusComplete   = "COMPLETE"
	StatusFailed     = "FAILED"
)

// Document represents the main record for a scanned PDF conversion run in Firestore.
// It tracks the overall status, counts and artifact locations of the file.
type Document struct {
	FileHash            string            `firestore:"fileHash,omitempty"`
	OriginalFilename    string            `firestore:"originalFilename,omitempty"`
	Status              string            `firestore:"status,omitempty"`
	ErrorDetails        string            `firestore:"errorDetails,omitempty"`
	PageCount           int               `firestore:"pageCount,omitempty"`
	ParagraphCount      int               `firestore:"paragraphCount,omitempty"`
	RecordCount         int               `firestore:"recordCount,omitempty"`
	Artifacts           map[string]string `firestore:"artifacts,omitempty"`
	WorkflowExecutionID string            `firestore:"workflowExecutionId,omitempty"` // For traceability
	CreatedAt           time.Time         `firestore:"createdAt,omitempty"`
	UpdatedAt           time.Time         `firestore:"updatedAt,omitempty"`
}
