package models

import (
	"github.com/google/uuid"
)

// StoreSnapshot is the persisted form of the brief bank: the three
// primary maps plus the secondary indices, written whole-file on every
// mutation and loaded whole-file at store construction.
type StoreSnapshot struct {
	Briefs    map[uuid.UUID]*Brief         `json:"briefs"`
	Chunks    map[uuid.UUID]*ArgumentChunk `json:"chunks"`
	Citations map[uuid.UUID]*Citation      `json:"citations"`

	// Secondary indices
	ChunksByBrief        map[uuid.UUID][]uuid.UUID `json:"chunks_by_brief"`
	ChunksByIssue        map[string][]uuid.UUID    `json:"chunks_by_issue"`
	ChunksByJurisdiction map[string][]uuid.UUID    `json:"chunks_by_jurisdiction"`
}

// NewStoreSnapshot creates an empty snapshot with all maps allocated
func NewStoreSnapshot() *StoreSnapshot {
	return &StoreSnapshot{
		Briefs:               make(map[uuid.UUID]*Brief),
		Chunks:               make(map[uuid.UUID]*ArgumentChunk),
		Citations:            make(map[uuid.UUID]*Citation),
		ChunksByBrief:        make(map[uuid.UUID][]uuid.UUID),
		ChunksByIssue:        make(map[string][]uuid.UUID),
		ChunksByJurisdiction: make(map[string][]uuid.UUID),
	}
}
