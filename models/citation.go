package models

import (
	"github.com/google/uuid"
)

// Citation represents one legal case citation extracted from a chunk
type Citation struct {
	ID            uuid.UUID `json:"id"`
	FullText      string    `json:"full_text"` // "Smith v. Jones, 123 F.3d 456 (9th Cir. 2020)"
	CaseName      *string   `json:"case_name,omitempty"`
	Volume        *string   `json:"volume,omitempty"`
	Reporter      *string   `json:"reporter,omitempty"`
	Page          *string   `json:"page,omitempty"`
	Pinpoint      *string   `json:"pinpoint,omitempty"`
	Court         *string   `json:"court,omitempty"`
	Year          *int      `json:"year,omitempty"`
	ParentChunkID uuid.UUID `json:"parent_chunk_id"`
	Context       string    `json:"context"` // surrounding text where the citation appears
}
