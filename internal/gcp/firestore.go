package gcp

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
// It centralizes client creation for all services.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// RunStore keeps one models.Document per source file in a Firestore collection.
type RunStore struct {
	client     *firestore.Client
	collection string
}

// NewRunStore returns a RunStore over the named collection.
func NewRunStore(client *firestore.Client, collection string) *RunStore {
	return &RunStore{client: client, collection: collection}
}

// FindByHash returns the ID of an existing run for fileHash, if any.
func (s *RunStore) FindByHash(ctx context.Context, fileHash string) (string, bool, error) {
	docs, err := s.client.Collection(s.collection).Where("fileHash", "==", fileHash).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return "", false, fmt.Errorf("failed to query for duplicates: %w", err)
	}
	if len(docs) > 0 {
		return docs[0].Ref.ID, true, nil
	}
	return "", false, nil
}

// Create adds the initial run record in VALIDATING state.
func (s *RunStore) Create(ctx context.Context, fileHash, filename string) (*firestore.DocumentRef, error) {
	now := time.Now()
	newDoc := models.Document{
		FileHash:         fileHash,
		OriginalFilename: filename,
		Status:           models.StatusValidating,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	docRef, _, err := s.client.Collection(s.collection).Add(ctx, newDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to create master document: %w", err)
	}
	return docRef, nil
}

// Ref returns the document reference for an existing run.
func (s *RunStore) Ref(documentID string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(documentID)
}

// UpdateStatus sets the run status and, when non-empty, its error details.
func (s *RunStore) UpdateStatus(ctx context.Context, docRef *firestore.DocumentRef, status, errDetails string) error {
	updates := []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: time.Now()},
	}
	if errDetails != "" {
		updates = append(updates, firestore.Update{Path: "errorDetails", Value: errDetails})
	}
	_, err := docRef.Update(ctx, updates)
	return err
}

// Update applies arbitrary field updates and refreshes updatedAt.
func (s *RunStore) Update(ctx context.Context, docRef *firestore.DocumentRef, updates ...firestore.Update) error {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})
	_, err := docRef.Update(ctx, updates)
	return err
}
