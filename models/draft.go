package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DraftStatus represents the workflow state of a draft brief
type DraftStatus string

const (
	DraftStatusOutline  DraftStatus = "outline"
	DraftStatusDrafting DraftStatus = "drafting"
	DraftStatusReview   DraftStatus = "review"
	DraftStatusComplete DraftStatus = "complete"
)

// NewMatterRequest represents the fact pattern of a new matter a
// draft brief is started for
type NewMatterRequest struct {
	CaseName          string            `json:"case_name"`
	Court             string            `json:"court"`
	Jurisdiction      string            `json:"jurisdiction"`
	ProceduralPosture ProceduralPosture `json:"procedural_posture"`
	LegalIssues       []string          `json:"legal_issues"`
	FactSummary       string            `json:"fact_summary"`
	DesiredOutcome    string            `json:"desired_outcome"`
}

// Value implements driver.Valuer for JSONB
func (m NewMatterRequest) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB
func (m *NewMatterRequest) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// RetrievalResult represents a single retrieved chunk with relevance info
type RetrievalResult struct {
	Chunk              *ArgumentChunk `json:"chunk"`
	Score              float64        `json:"score"`
	MatchReasons       []string       `json:"match_reasons"`
	SourceBriefTitle   *string        `json:"source_brief_title,omitempty"`
	SourceBriefOutcome *string        `json:"source_brief_outcome,omitempty"`
}

// OutlineSection represents a proposed section in a draft outline
type OutlineSection struct {
	ID           uuid.UUID   `json:"id"`
	Heading      string      `json:"heading"`
	Description  string      `json:"description"`
	SourceChunks []uuid.UUID `json:"source_chunks"`
	Order        int         `json:"order"`
}

// OutlineSections represents an ordered draft outline
type OutlineSections []OutlineSection

// Value implements driver.Valuer for JSONB
func (o OutlineSections) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan implements sql.Scanner for JSONB
func (o *OutlineSections) Scan(value interface{}) error {
	if value == nil {
		*o = make(OutlineSections, 0)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*o = make(OutlineSections, 0)
		return nil
	}
	if len(bytes) == 0 {
		*o = make(OutlineSections, 0)
		return nil
	}
	return json.Unmarshal(bytes, o)
}

// SourceAdaptation records how source text was adapted into a draft,
// for side-by-side review
type SourceAdaptation struct {
	Original string `json:"original"`
	Adapted  string `json:"adapted"`
}

// GeneratedSection represents a generated draft section with provenance
type GeneratedSection struct {
	SectionID       uuid.UUID          `json:"section_id"`
	Heading         string             `json:"heading"`
	Content         string             `json:"content"`
	CitationsUsed   []Citation         `json:"citations_used"`
	CitationsNeeded []string           `json:"citations_needed"`
	Warnings        []string           `json:"warnings"`
	Adaptations     []SourceAdaptation `json:"adaptations"`
}

// GeneratedSections represents the generated sections of a draft
type GeneratedSections []GeneratedSection

// Value implements driver.Valuer for JSONB
func (g GeneratedSections) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements sql.Scanner for JSONB
func (g *GeneratedSections) Scan(value interface{}) error {
	if value == nil {
		*g = make(GeneratedSections, 0)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*g = make(GeneratedSections, 0)
		return nil
	}
	if len(bytes) == 0 {
		*g = make(GeneratedSections, 0)
		return nil
	}
	return json.Unmarshal(bytes, g)
}

// DraftBrief represents a draft brief in progress
type DraftBrief struct {
	ID        uuid.UUID         `json:"id"`
	Matter    NewMatterRequest  `json:"matter"`
	Outline   OutlineSections   `json:"outline"`
	Sections  GeneratedSections `json:"sections"`
	Status    DraftStatus       `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
