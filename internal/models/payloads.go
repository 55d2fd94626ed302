package models

// These structs define the JSON payloads for HTTP requests and responses
// between the Cloud Workflow and the worker Cloud Functions.

// GCSEvent is the payload of a GCS object finalize event.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// WorkflowArgument is the execution argument handed to the Cloud Workflow
// once a document has been rasterized.
type WorkflowArgument struct {
	DocumentID string `json:"documentId"`
	PageCount  int    `json:"pageCount"`
	ImagesURI  string `json:"imagesUri"`
}

// PageRecognizerRequest is the input for the page-recognizer function.
type PageRecognizerRequest struct {
	DocumentID  string `json:"documentId"`
	PageNumber  int    `json:"pageNumber"`
	ImageGCSUri string `json:"imageGcsUri"`
	ExecutionID string `json:"executionId"`
}

// PageRecognizerResponse is the output of the page-recognizer function.
type PageRecognizerResponse struct {
	Status         string `json:"status"`
	OutputGCSUri   string `json:"outputGcsUri"`
	ParagraphCount int    `json:"paragraphCount"`
	RecordCount    int    `json:"recordCount"`
}

// RecordAggregatorRequest is the input for the record-aggregator function.
type RecordAggregatorRequest struct {
	DocumentID  string `json:"documentId"`
	PageCount   int    `json:"pageCount"`
	ExecutionID string `json:"executionId"`
}

// RecordAggregatorResponse is the output of the record-aggregator function.
type RecordAggregatorResponse struct {
	Status      string `json:"status"`
	DocumentURI string `json:"documentUri"`
	TableURI    string `json:"tableUri"`
	RecordCount int    `json:"recordCount"`
}
