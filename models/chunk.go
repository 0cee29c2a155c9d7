package models

import (
	"github.com/google/uuid"
)

// ArgumentChunk represents a single retrievable argument unit, the
// atomic unit for search. Jurisdiction, court and posture are copied
// from the owning brief so filters never need a second lookup.
type ArgumentChunk struct {
	ID          uuid.UUID   `json:"id"`
	BriefID     uuid.UUID   `json:"brief_id"`
	SectionType SectionType `json:"section_type"`
	Heading     *string     `json:"heading,omitempty"`
	Content     string      `json:"content"`

	// Hierarchical relationship: the first sub-chunk of an argument run
	// is the parent of every later sub-chunk in that run.
	ParentChunkID *uuid.UUID `json:"parent_chunk_id,omitempty"`

	// Semantic metadata
	LegalIssues []string    `json:"legal_issues,omitempty"`
	Citations   []uuid.UUID `json:"citations,omitempty"`

	// Classification
	IsLegalStandard      bool `json:"is_legal_standard"`
	IsProceduralLanguage bool `json:"is_procedural_language"`
	IsFactual            bool `json:"is_factual"`

	// Denormalized from the owning brief
	Jurisdiction      *string            `json:"jurisdiction,omitempty"`
	Court             *string            `json:"court,omitempty"`
	ProceduralPosture *ProceduralPosture `json:"procedural_posture,omitempty"`
}
