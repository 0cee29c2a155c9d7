package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"briefbank-backend/models"
)

// ErrBriefNotFound is returned when a brief lookup misses
var ErrBriefNotFound = errors.New("brief not found")

// ErrChunkNotFound is returned when a chunk lookup misses
var ErrChunkNotFound = errors.New("chunk not found")

// BriefStore holds the brief bank in memory and persists it as a
// single JSON file. Mutations are serialized by the write lock and are
// committed only once the file write succeeds; readers never observe a
// half-applied mutation.
type BriefStore struct {
	mu       sync.RWMutex
	path     string
	snapshot *models.StoreSnapshot
}

// OpenBriefStore loads the store from path, or starts empty when the
// file does not exist yet.
func OpenBriefStore(path string) (*BriefStore, error) {
	s := &BriefStore{
		path:     path,
		snapshot: models.NewStoreSnapshot(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if err := json.Unmarshal(data, s.snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode store file: %w", err)
	}

	// Maps omitted from an older file must still be usable
	if s.snapshot.Briefs == nil {
		s.snapshot.Briefs = make(map[uuid.UUID]*models.Brief)
	}
	if s.snapshot.Chunks == nil {
		s.snapshot.Chunks = make(map[uuid.UUID]*models.ArgumentChunk)
	}
	if s.snapshot.Citations == nil {
		s.snapshot.Citations = make(map[uuid.UUID]*models.Citation)
	}
	if s.snapshot.ChunksByBrief == nil {
		s.snapshot.ChunksByBrief = make(map[uuid.UUID][]uuid.UUID)
	}
	if s.snapshot.ChunksByIssue == nil {
		s.snapshot.ChunksByIssue = make(map[string][]uuid.UUID)
	}
	if s.snapshot.ChunksByJurisdiction == nil {
		s.snapshot.ChunksByJurisdiction = make(map[string][]uuid.UUID)
	}

	return s, nil
}

// Close releases the store. Present for lifecycle symmetry; all writes
// are already durable when the mutating call returns.
func (s *BriefStore) Close() error {
	return nil
}

// persist writes the snapshot to disk via a temp file and rename.
// Callers must hold the write lock.
func (s *BriefStore) persist() error {
	data, err := json.MarshalIndent(s.snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	return nil
}

// AddBrief registers a brief with its chunks and citations, updates
// the secondary indices, and persists. The persisted write is the
// commit point: on failure the in-memory changes are rolled back and
// the error is returned.
func (s *BriefStore) AddBrief(brief *models.Brief, chunks []*models.ArgumentChunk, citations []*models.Citation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Briefs[brief.ID] = brief
	s.snapshot.ChunksByBrief[brief.ID] = make([]uuid.UUID, 0, len(chunks))

	for _, chunk := range chunks {
		s.snapshot.Chunks[chunk.ID] = chunk
		s.snapshot.ChunksByBrief[brief.ID] = append(s.snapshot.ChunksByBrief[brief.ID], chunk.ID)

		if chunk.Jurisdiction != nil {
			s.snapshot.ChunksByJurisdiction[*chunk.Jurisdiction] = append(s.snapshot.ChunksByJurisdiction[*chunk.Jurisdiction], chunk.ID)
		}
		for _, issue := range chunk.LegalIssues {
			s.snapshot.ChunksByIssue[issue] = append(s.snapshot.ChunksByIssue[issue], chunk.ID)
		}
	}

	for _, citation := range citations {
		s.snapshot.Citations[citation.ID] = citation
	}

	if err := s.persist(); err != nil {
		s.removeBriefLocked(brief.ID)
		return err
	}

	return nil
}

// DeleteBrief removes a brief, its chunks and citations, and their
// index entries, then persists. Deleting an unknown id is a no-op.
func (s *BriefStore) DeleteBrief(briefID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshot.Briefs[briefID]; !ok {
		return nil
	}

	s.removeBriefLocked(briefID)
	return s.persist()
}

// removeBriefLocked undoes everything AddBrief registered for briefID.
// Index keys left empty are removed so delete restores the exact
// pre-add key sets. Callers must hold the write lock.
func (s *BriefStore) removeBriefLocked(briefID uuid.UUID) {
	for _, chunkID := range s.snapshot.ChunksByBrief[briefID] {
		chunk, ok := s.snapshot.Chunks[chunkID]
		if !ok {
			continue
		}

		for _, issue := range chunk.LegalIssues {
			s.snapshot.ChunksByIssue[issue] = removeID(s.snapshot.ChunksByIssue[issue], chunkID)
			if len(s.snapshot.ChunksByIssue[issue]) == 0 {
				delete(s.snapshot.ChunksByIssue, issue)
			}
		}

		if chunk.Jurisdiction != nil {
			j := *chunk.Jurisdiction
			s.snapshot.ChunksByJurisdiction[j] = removeID(s.snapshot.ChunksByJurisdiction[j], chunkID)
			if len(s.snapshot.ChunksByJurisdiction[j]) == 0 {
				delete(s.snapshot.ChunksByJurisdiction, j)
			}
		}

		for _, citID := range chunk.Citations {
			delete(s.snapshot.Citations, citID)
		}

		delete(s.snapshot.Chunks, chunkID)
	}

	delete(s.snapshot.Briefs, briefID)
	delete(s.snapshot.ChunksByBrief, briefID)
}

func removeID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	filtered := ids[:0]
	for _, id := range ids {
		if id != target {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// GetBrief retrieves a brief by id
func (s *BriefStore) GetBrief(id uuid.UUID) (*models.Brief, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	brief, ok := s.snapshot.Briefs[id]
	if !ok {
		return nil, ErrBriefNotFound
	}
	return brief, nil
}

// GetChunk retrieves a chunk by id
func (s *BriefStore) GetChunk(id uuid.UUID) (*models.ArgumentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunk, ok := s.snapshot.Chunks[id]
	if !ok {
		return nil, ErrChunkNotFound
	}
	return chunk, nil
}

// GetCitation retrieves a citation by id
func (s *BriefStore) GetCitation(id uuid.UUID) (*models.Citation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	citation, ok := s.snapshot.Citations[id]
	return citation, ok
}

// ListBriefs returns all stored briefs
func (s *BriefStore) ListBriefs() []*models.Brief {
	s.mu.RLock()
	defer s.mu.RUnlock()

	briefs := make([]*models.Brief, 0, len(s.snapshot.Briefs))
	for _, b := range s.snapshot.Briefs {
		briefs = append(briefs, b)
	}
	return briefs
}

// ListChunks returns all stored chunks
func (s *BriefStore) ListChunks() []*models.ArgumentChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]*models.ArgumentChunk, 0, len(s.snapshot.Chunks))
	for _, c := range s.snapshot.Chunks {
		chunks = append(chunks, c)
	}
	return chunks
}

// ChunksForBrief returns the chunks owned by a brief in insertion order
func (s *BriefStore) ChunksForBrief(briefID uuid.UUID) []*models.ArgumentChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.snapshot.ChunksByBrief[briefID]
	chunks := make([]*models.ArgumentChunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.snapshot.Chunks[id]; ok {
			chunks = append(chunks, c)
		}
	}
	return chunks
}
