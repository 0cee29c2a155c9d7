package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"briefbank-backend/models"
	"briefbank-backend/parser"
	"briefbank-backend/repository"
	"briefbank-backend/storage"

	"github.com/google/uuid"
)

// IngestService handles brief upload, parsing, and indexing
type IngestService struct {
	store       *repository.BriefStore
	fileStorage storage.Storage
}

// IngestServiceOption is a functional option for IngestService
type IngestServiceOption func(*IngestService)

// WithBriefStore sets the brief store
func WithBriefStore(store *repository.BriefStore) IngestServiceOption {
	return func(s *IngestService) {
		s.store = store
	}
}

// WithFileStorage sets the uploaded file storage backend
func WithFileStorage(fs storage.Storage) IngestServiceOption {
	return func(s *IngestService) {
		s.fileStorage = fs
	}
}

// NewIngestService creates a new ingest service
func NewIngestService(opts ...IngestServiceOption) *IngestService {
	s := &IngestService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadBriefRequest represents a request to ingest an uploaded brief
type UploadBriefRequest struct {
	Filename    string
	Content     []byte
	LegalIssues []string
	Outcome     *string
}

// UploadBriefResult represents the result of ingesting a brief
type UploadBriefResult struct {
	Brief      *models.Brief
	ChunkCount int
}

// UploadBrief parses an uploaded document, chunks it, stores the
// original file, and registers everything in the brief bank.
func (s *IngestService) UploadBrief(ctx context.Context, req UploadBriefRequest) (*UploadBriefResult, error) {
	if s.store == nil {
		return nil, errors.New("brief store not set")
	}

	brief, err := parser.ParseDocument(req.Content, req.Filename)
	if err != nil {
		return nil, err
	}

	brief.LegalIssues = req.LegalIssues
	brief.Outcome = req.Outcome

	chunks, citations := parser.ChunkBrief(brief)

	// Keep the original upload so it can be re-downloaded later.
	// Storage failure is not fatal to ingestion.
	if s.fileStorage != nil {
		storagePath, err := s.fileStorage.Upload(ctx, brief.ID, req.Filename, bytes.NewReader(req.Content))
		if err != nil {
			log.Printf("Warning: failed to store uploaded file %s: %v", req.Filename, err)
		} else {
			brief.StoragePath = &storagePath
		}
	}

	if err := s.store.AddBrief(brief, chunks, citations); err != nil {
		return nil, fmt.Errorf("failed to index brief: %w", err)
	}

	return &UploadBriefResult{
		Brief:      brief,
		ChunkCount: len(chunks),
	}, nil
}

// DeleteBriefRequest represents a request to delete a brief
type DeleteBriefRequest struct {
	BriefID uuid.UUID
}

// DeleteBrief removes a brief from the bank along with its stored
// upload. Deleting an unknown id is a no-op.
func (s *IngestService) DeleteBrief(ctx context.Context, req DeleteBriefRequest) error {
	if s.store == nil {
		return errors.New("brief store not set")
	}

	brief, err := s.store.GetBrief(req.BriefID)
	if err != nil {
		if errors.Is(err, repository.ErrBriefNotFound) {
			return nil
		}
		return err
	}

	if err := s.store.DeleteBrief(req.BriefID); err != nil {
		return err
	}

	if s.fileStorage != nil && brief.StoragePath != nil {
		if err := s.fileStorage.Delete(ctx, *brief.StoragePath); err != nil {
			log.Printf("Warning: failed to delete stored file %s: %v", *brief.StoragePath, err)
		}
	}

	return nil
}
