package models

import (
	"time"

	"github.com/google/uuid"
)

// SectionType represents the structural role of a brief section
type SectionType string

const (
	SectionCaption           SectionType = "caption"
	SectionIntroduction      SectionType = "introduction"
	SectionStatementOfFacts  SectionType = "statement_of_facts"
	SectionProceduralHistory SectionType = "procedural_history"
	SectionLegalStandard     SectionType = "legal_standard"
	SectionArgument          SectionType = "argument"
	SectionConclusion        SectionType = "conclusion"
	SectionOther             SectionType = "other"
)

// ProceduralPosture represents the type of motion or filing a brief supports
type ProceduralPosture string

const (
	PostureMotionToDismiss       ProceduralPosture = "motion_to_dismiss"
	PostureSummaryJudgment       ProceduralPosture = "summary_judgment"
	PosturePreliminaryInjunction ProceduralPosture = "preliminary_injunction"
	PostureMotionToCompel        ProceduralPosture = "motion_to_compel"
	PostureMotionInLimine        ProceduralPosture = "motion_in_limine"
	PostureOpposition            ProceduralPosture = "opposition"
	PostureReply                 ProceduralPosture = "reply"
	PostureAppealBrief           ProceduralPosture = "appeal_brief"
	PostureOther                 ProceduralPosture = "other"
)

// Section represents a contiguous structural unit of a brief
type Section struct {
	ID          uuid.UUID   `json:"id"`
	BriefID     uuid.UUID   `json:"brief_id"`
	SectionType SectionType `json:"section_type"`
	Title       *string     `json:"title,omitempty"`
	Content     string      `json:"content"`
	Order       int         `json:"order"`
}

// Brief represents one ingested legal brief document with its
// extracted structure and metadata. Optional metadata stays nil when
// extraction finds nothing, so "absent" is distinguishable from "".
type Brief struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Title    *string   `json:"title,omitempty"`

	// Court and jurisdiction
	Court        *string `json:"court,omitempty"`
	Jurisdiction *string `json:"jurisdiction,omitempty"`

	// Case information
	CaseName   *string `json:"case_name,omitempty"`
	CaseNumber *string `json:"case_number,omitempty"`

	// Procedural information
	ProceduralPosture ProceduralPosture `json:"procedural_posture"`

	// Outcome, if known after the matter resolves
	Outcome *string `json:"outcome,omitempty"`

	// Legal issues addressed
	LegalIssues []string `json:"legal_issues,omitempty"`

	// Content structure
	Sections []Section `json:"sections"`
	FullText string    `json:"full_text"`

	// Processing metadata
	FileType    string    `json:"file_type"` // "docx" or "text"
	StoragePath *string   `json:"storage_path,omitempty"`
	IngestedAt  time.Time `json:"ingested_at"`
}
