package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"briefbank-backend/models"
	"briefbank-backend/repository"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// DraftService handles draft brief creation and section generation
type DraftService struct {
	draftRepo    *repository.DraftRepository
	jobRepo      *repository.GenerationJobRepository
	store        *repository.BriefStore
	geminiClient *genai.Client
}

// DraftServiceOption is a functional option for DraftService
type DraftServiceOption func(*DraftService)

// DraftWithDraftRepository sets the draft repository
func DraftWithDraftRepository(repo *repository.DraftRepository) DraftServiceOption {
	return func(s *DraftService) {
		s.draftRepo = repo
	}
}

// DraftWithGenerationJobRepository sets the generation job repository
func DraftWithGenerationJobRepository(repo *repository.GenerationJobRepository) DraftServiceOption {
	return func(s *DraftService) {
		s.jobRepo = repo
	}
}

// DraftWithBriefStore sets the brief bank store
func DraftWithBriefStore(store *repository.BriefStore) DraftServiceOption {
	return func(s *DraftService) {
		s.store = store
	}
}

// DraftWithGeminiClient sets the Gemini client
func DraftWithGeminiClient(client *genai.Client) DraftServiceOption {
	return func(s *DraftService) {
		s.geminiClient = client
	}
}

// NewDraftService creates a new draft service
func NewDraftService(opts ...DraftServiceOption) *DraftService {
	s := &DraftService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrSectionNotFound   = errors.New("outline section not found")
	ErrJobNotFound       = errors.New("generation job not found")
	ErrJobCreationFailed = errors.New("failed to create generation job")
	ErrGenerationFailed  = errors.New("failed to generate content")
)

const (
	generationAPI  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-3-pro-preview:generateContent"
	maxRetries     = 3
	initialBackoff = time.Second

	retrievalLimit = 15
	outlineContext = 10
)

// CreateDraftRequest represents a request to start a new draft brief
type CreateDraftRequest struct {
	Matter models.NewMatterRequest
}

// CreateDraftResult represents the result of starting a draft
type CreateDraftResult struct {
	Draft     *models.DraftBrief
	Retrieved []models.RetrievalResult
}

// CreateDraft retrieves relevant source material for the matter,
// proposes an outline, and persists the new draft.
func (s *DraftService) CreateDraft(ctx context.Context, req CreateDraftRequest) (*CreateDraftResult, error) {
	if s.draftRepo == nil {
		return nil, errors.New("draft repository not set")
	}
	if s.store == nil {
		return nil, errors.New("brief store not set")
	}

	matter := req.Matter

	query := fmt.Sprintf("%s %s %s",
		matter.ProceduralPosture,
		strings.Join(matter.LegalIssues, " "),
		matter.FactSummary)

	var jurisdiction *string
	if matter.Jurisdiction != "" {
		jurisdiction = &matter.Jurisdiction
	}
	posture := matter.ProceduralPosture

	results := s.store.Search(query, jurisdiction, &posture, retrievalLimit)
	retrieved := s.buildRetrievalResults(results)

	outline := s.generateOutline(ctx, matter, retrieved)

	draft := &models.DraftBrief{
		Matter:   matter,
		Outline:  outline,
		Sections: make(models.GeneratedSections, 0),
		Status:   models.DraftStatusOutline,
	}

	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	return &CreateDraftResult{
		Draft:     draft,
		Retrieved: retrieved,
	}, nil
}

// buildRetrievalResults decorates raw search hits with source brief
// metadata for display and prompting
func (s *DraftService) buildRetrievalResults(results []repository.SearchResult) []models.RetrievalResult {
	retrieved := make([]models.RetrievalResult, 0, len(results))
	for _, r := range results {
		result := models.RetrievalResult{
			Chunk:        r.Chunk,
			Score:        r.Score,
			MatchReasons: r.MatchReasons,
		}
		if brief, err := s.store.GetBrief(r.Chunk.BriefID); err == nil {
			result.SourceBriefTitle = brief.Title
			result.SourceBriefOutcome = brief.Outcome
		}
		retrieved = append(retrieved, result)
	}
	return retrieved
}

// GetDraftRequest represents a request to get a draft
type GetDraftRequest struct {
	DraftID uuid.UUID
}

// GetDraftResult represents the result of getting a draft
type GetDraftResult struct {
	Draft *models.DraftBrief
}

// GetDraft retrieves a draft by ID
func (s *DraftService) GetDraft(ctx context.Context, req GetDraftRequest) (*GetDraftResult, error) {
	if s.draftRepo == nil {
		return nil, errors.New("draft repository not set")
	}

	draft, err := s.draftRepo.GetByID(ctx, req.DraftID)
	if err != nil {
		return nil, ErrDraftNotFound
	}

	return &GetDraftResult{Draft: draft}, nil
}

// ListDraftsResult represents the result of listing drafts
type ListDraftsResult struct {
	Drafts []*models.DraftBrief
}

// ListDrafts retrieves all drafts, newest first
func (s *DraftService) ListDrafts(ctx context.Context) (*ListDraftsResult, error) {
	if s.draftRepo == nil {
		return nil, errors.New("draft repository not set")
	}

	drafts, err := s.draftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	return &ListDraftsResult{Drafts: drafts}, nil
}

// UpdateOutlineRequest represents a request to replace a draft outline
type UpdateOutlineRequest struct {
	DraftID  uuid.UUID
	Sections models.OutlineSections
}

// UpdateOutlineResult represents the result of updating an outline
type UpdateOutlineResult struct {
	Draft *models.DraftBrief
}

// UpdateOutline replaces the outline of a draft, keeping sections
// sorted by their order field
func (s *DraftService) UpdateOutline(ctx context.Context, req UpdateOutlineRequest) (*UpdateOutlineResult, error) {
	if s.draftRepo == nil {
		return nil, errors.New("draft repository not set")
	}

	draft, err := s.draftRepo.GetByID(ctx, req.DraftID)
	if err != nil {
		return nil, ErrDraftNotFound
	}

	outline := make(models.OutlineSections, len(req.Sections))
	copy(outline, req.Sections)
	for i := range outline {
		if outline[i].ID == uuid.Nil {
			outline[i].ID = uuid.New()
		}
		if outline[i].SourceChunks == nil {
			outline[i].SourceChunks = make([]uuid.UUID, 0)
		}
	}
	sort.SliceStable(outline, func(i, j int) bool {
		return outline[i].Order < outline[j].Order
	})

	draft.Outline = outline
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to update outline: %w", err)
	}

	return &UpdateOutlineResult{Draft: draft}, nil
}

// DeleteDraftRequest represents a request to delete a draft
type DeleteDraftRequest struct {
	DraftID uuid.UUID
}

// DeleteDraft removes a draft and, via cascade, its generation jobs
func (s *DraftService) DeleteDraft(ctx context.Context, req DeleteDraftRequest) error {
	if s.draftRepo == nil {
		return errors.New("draft repository not set")
	}

	if _, err := s.draftRepo.GetByID(ctx, req.DraftID); err != nil {
		return ErrDraftNotFound
	}

	return s.draftRepo.Delete(ctx, req.DraftID)
}

// GenerateSectionRequest represents a request to generate one section
type GenerateSectionRequest struct {
	DraftID           uuid.UUID
	SectionID         uuid.UUID
	AdditionalSources []uuid.UUID // Optional, for regeneration
}

// GenerateSectionResult represents the result of queueing a section
// generation job. AlreadyRunning is set when an earlier job for the
// same section is still active and no new job was created.
type GenerateSectionResult struct {
	JobID          uuid.UUID
	AlreadyRunning bool
}

// GenerateSection creates a generation job and returns immediately.
// The actual generation runs in ProcessSection via a background
// goroutine, since a Gemini round trip can take tens of seconds.
func (s *DraftService) GenerateSection(ctx context.Context, req GenerateSectionRequest) (*GenerateSectionResult, error) {
	if s.draftRepo == nil {
		return nil, errors.New("draft repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("generation job repository not set")
	}

	draft, err := s.draftRepo.GetByID(ctx, req.DraftID)
	if err != nil {
		return nil, ErrDraftNotFound
	}

	section := findOutlineSection(draft.Outline, req.SectionID)
	if section == nil {
		return nil, ErrSectionNotFound
	}

	// A section already being generated returns its running job instead
	// of starting a second one
	if existing, err := s.jobRepo.GetLatestForSection(ctx, req.DraftID, req.SectionID); err == nil {
		if existing.Status == models.JobStatusPending || existing.Status == models.JobStatusInProgress {
			return &GenerateSectionResult{JobID: existing.ID, AlreadyRunning: true}, nil
		}
	}

	if len(req.AdditionalSources) > 0 {
		section.SourceChunks = append(section.SourceChunks, req.AdditionalSources...)
		if err := s.draftRepo.Update(ctx, draft); err != nil {
			return nil, fmt.Errorf("failed to record additional sources: %w", err)
		}
	}

	job := &models.GenerationJob{
		DraftID:   req.DraftID,
		SectionID: req.SectionID,
		Status:    models.JobStatusPending,
		Steps: models.GenerationSteps{
			{Name: "Gathering Source Material", Status: "pending"},
			{Name: "Drafting Section", Status: "pending"},
			{Name: "Reviewing Citations", Status: "pending"},
		},
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, ErrJobCreationFailed
	}

	return &GenerateSectionResult{JobID: job.ID}, nil
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.GenerationJob
}

// GetJobStatus retrieves the status of a generation job
func (s *DraftService) GetJobStatus(ctx context.Context, req GetJobStatusRequest) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("generation job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{Job: job}, nil
}

// ProcessSection performs the actual generation work in the
// background. This method runs in a goroutine and can take a while.
func (s *DraftService) ProcessSection(ctx context.Context, jobID uuid.UUID) error {
	if s.jobRepo == nil || s.draftRepo == nil || s.store == nil {
		return errors.New("draft service not fully configured")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load generation job: %w", err)
	}

	draft, err := s.draftRepo.GetByID(ctx, job.DraftID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load draft: "+err.Error())
		return err
	}

	section := findOutlineSection(draft.Outline, job.SectionID)
	if section == nil {
		s.markJobFailed(ctx, jobID, "section not found in outline")
		return ErrSectionNotFound
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	if err := s.updateStepStatus(ctx, jobID, "Gathering Source Material", "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	sources, citations := s.gatherSources(section)
	if err := s.updateStepStatus(ctx, jobID, "Gathering Source Material", "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	if err := s.updateStepStatus(ctx, jobID, "Drafting Section", "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	generated, err := s.generateSectionContent(ctx, section, draft.Matter, sources, citations)
	if err != nil {
		s.markJobFailed(ctx, jobID, fmt.Sprintf("failed to generate section: %v", err))
		return err
	}
	if err := s.updateStepStatus(ctx, jobID, "Drafting Section", "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	if err := s.updateStepStatus(ctx, jobID, "Reviewing Citations", "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	flagOutdatedCitations(generated)
	if err := s.updateStepStatus(ctx, jobID, "Reviewing Citations", "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// Replace any previous version of this section, keeping the
	// generated sections in outline order
	sections := make(models.GeneratedSections, 0, len(draft.Sections)+1)
	for _, gs := range draft.Sections {
		if gs.SectionID != job.SectionID {
			sections = append(sections, gs)
		}
	}
	sections = append(sections, *generated)
	sort.SliceStable(sections, func(i, j int) bool {
		return outlineOrder(draft.Outline, sections[i].SectionID) < outlineOrder(draft.Outline, sections[j].SectionID)
	})

	draft.Sections = sections
	draft.Status = models.DraftStatusDrafting
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		s.markJobFailed(ctx, jobID, "failed to store generated section: "+err.Error())
		return err
	}

	if err := s.jobRepo.Complete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// updateStepStatus updates one named step of a job and, when the step
// starts, the job's current step
func (s *DraftService) updateStepStatus(ctx context.Context, jobID uuid.UUID, stepName, status string) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	currentStep := stepName
	if job.CurrentStep != nil && status != "in_progress" {
		currentStep = *job.CurrentStep
	}
	for i := range job.Steps {
		if job.Steps[i].Name == stepName {
			job.Steps[i].Status = status
			break
		}
	}

	return s.jobRepo.UpdateProgress(ctx, jobID, currentStep, job.Steps)
}

func (s *DraftService) markJobFailed(ctx context.Context, jobID uuid.UUID, message string) {
	if err := s.jobRepo.Fail(ctx, jobID, message); err != nil {
		log.Printf("Failed to mark job %s as failed: %v", jobID, err)
	}
}

// sourceMaterial is one selected chunk with its owning brief context
type sourceMaterial struct {
	chunk      *models.ArgumentChunk
	briefTitle string
}

// gatherSources resolves a section's selected chunks and the citations
// those chunks carry
func (s *DraftService) gatherSources(section *models.OutlineSection) ([]sourceMaterial, []models.Citation) {
	sources := make([]sourceMaterial, 0, len(section.SourceChunks))
	citations := make([]models.Citation, 0)

	for _, chunkID := range section.SourceChunks {
		chunk, err := s.store.GetChunk(chunkID)
		if err != nil {
			continue
		}

		title := "Unknown"
		if brief, err := s.store.GetBrief(chunk.BriefID); err == nil && brief.Title != nil {
			title = *brief.Title
		}
		sources = append(sources, sourceMaterial{chunk: chunk, briefTitle: title})

		for _, citID := range chunk.Citations {
			if cit, ok := s.store.GetCitation(citID); ok {
				citations = append(citations, *cit)
			}
		}
	}

	return sources, citations
}

// sectionMetadata is the trailing JSON block the model appends after
// the drafted prose
type sectionMetadata struct {
	CitationsUsed   []string `json:"citations_used"`
	CitationsNeeded []string `json:"citations_needed"`
	Warnings        []string `json:"warnings"`
	Adaptations     []struct {
		Original string `json:"original"`
		Adapted  string `json:"adapted"`
	} `json:"adaptations"`
}

var metadataBlockPattern = regexp.MustCompile(`\{[\s\S]*"citations_used"[\s\S]*\}`)

// generateSectionContent drafts one section with Gemini, constrained
// to the provided source material and citations
func (s *DraftService) generateSectionContent(
	ctx context.Context,
	section *models.OutlineSection,
	matter models.NewMatterRequest,
	sources []sourceMaterial,
	availableCitations []models.Citation,
) (*models.GeneratedSection, error) {
	if s.geminiClient == nil {
		return nil, errors.New("gemini client not initialized")
	}

	var sourceTexts strings.Builder
	for _, src := range sources {
		heading := "No heading"
		if src.chunk.Heading != nil {
			heading = *src.chunk.Heading
		}
		sourceTexts.WriteString(fmt.Sprintf("\nSOURCE (from %s):\nHeading: %s\nContent:\n%s\n",
			src.briefTitle, heading, src.chunk.Content))
	}
	if sourceTexts.Len() == 0 {
		sourceTexts.WriteString("No source material selected for this section.")
	}

	var citationRef strings.Builder
	for _, cit := range availableCitations {
		citationRef.WriteString("- " + cit.FullText + "\n")
	}
	if citationRef.Len() == 0 {
		citationRef.WriteString("No citations available from source material.")
	}

	prompt := fmt.Sprintf(`You are drafting a section of a legal brief. Generate content for the following section using ONLY the provided source material.

SECTION TO DRAFT:
Heading: %s
Description: %s

MATTER CONTEXT:
- Case: %s
- Court: %s
- Procedural Posture: %s
- Legal Issues: %s
- Facts: %s

SOURCE MATERIAL TO DRAW FROM:
%s

AVAILABLE CITATIONS (USE ONLY THESE):
%s

CRITICAL INSTRUCTIONS:
1. NEVER invent or hallucinate citations. Only use citations listed above.
2. If a statement needs a citation but none is available, write [CITATION NEEDED].
3. Adapt the source material to this specific case and facts.
4. Use [FACT PLACEHOLDER: description] where case-specific facts are needed.
5. Maintain professional legal writing style.
6. If this is a STATEMENT OF FACTS section, use mostly placeholders since facts are case-specific.

WARNINGS TO CHECK:
- If you reference client names from source material, note this for removal
- If citations are more than 5 years old, note they should be verified
- If using authority from a different jurisdiction, note it's persuasive only

Write the section content now. After the content, provide a JSON block with:
{
  "citations_used": ["full citation text", ...],
  "citations_needed": ["description of what needs citation", ...],
  "warnings": ["any safety warnings", ...],
  "adaptations": [
    {"original": "original text excerpt", "adapted": "how you adapted it"}
  ]
}

Section content:`,
		section.Heading,
		section.Description,
		matter.CaseName,
		matter.Court,
		matter.ProceduralPosture,
		strings.Join(matter.LegalIssues, ", "),
		matter.FactSummary,
		sourceTexts.String(),
		citationRef.String(),
	)

	responseText, err := s.callGenerationAPIWithRetry(ctx, prompt, 0.2)
	if err != nil {
		return nil, err
	}

	content := responseText
	var meta sectionMetadata

	if m := metadataBlockPattern.FindStringIndex(responseText); m != nil {
		if err := json.Unmarshal([]byte(responseText[m[0]:m[1]]), &meta); err == nil {
			content = strings.TrimSpace(responseText[:m[0]])
		}
	}

	content = cleanMarkdownArtifacts(content)

	// Only citations recognized from the source material count as used
	used := make([]models.Citation, 0, len(meta.CitationsUsed))
	for _, citText := range meta.CitationsUsed {
		for _, cit := range availableCitations {
			if strings.Contains(citText, cit.FullText) || strings.Contains(cit.FullText, citText) {
				used = append(used, cit)
				break
			}
		}
	}

	adaptations := make([]models.SourceAdaptation, 0, len(meta.Adaptations))
	for _, a := range meta.Adaptations {
		adaptations = append(adaptations, models.SourceAdaptation{
			Original: a.Original,
			Adapted:  a.Adapted,
		})
	}

	generated := &models.GeneratedSection{
		SectionID:       section.ID,
		Heading:         section.Heading,
		Content:         content,
		CitationsUsed:   used,
		CitationsNeeded: orEmpty(meta.CitationsNeeded),
		Warnings:        orEmpty(meta.Warnings),
		Adaptations:     adaptations,
	}

	return generated, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return make([]string, 0)
	}
	return s
}

// flagOutdatedCitations appends a warning for every used citation more
// than five years old
func flagOutdatedCitations(section *models.GeneratedSection) {
	currentYear := time.Now().Year()
	for _, cit := range section.CitationsUsed {
		if cit.Year != nil && currentYear-*cit.Year > 5 {
			section.Warnings = append(section.Warnings,
				fmt.Sprintf("Citation may be outdated (>5 years): %s", cit.FullText))
		}
	}
}

func findOutlineSection(outline models.OutlineSections, sectionID uuid.UUID) *models.OutlineSection {
	for i := range outline {
		if outline[i].ID == sectionID {
			return &outline[i]
		}
	}
	return nil
}

func outlineOrder(outline models.OutlineSections, sectionID uuid.UUID) int {
	for _, s := range outline {
		if s.ID == sectionID {
			return s.Order
		}
	}
	return 0
}

// outlineResponse is the JSON shape the outline prompt asks for
type outlineResponse struct {
	Sections []struct {
		Heading       string `json:"heading"`
		Description   string `json:"description"`
		SourceIndices []int  `json:"source_indices"`
		Order         int    `json:"order"`
	} `json:"sections"`
}

// generateOutline proposes an outline with Gemini based on the matter
// and retrieved source material, falling back to a standard motion
// outline when the model is unavailable or returns garbage.
func (s *DraftService) generateOutline(ctx context.Context, matter models.NewMatterRequest, retrieved []models.RetrievalResult) models.OutlineSections {
	if s.geminiClient == nil {
		log.Printf("Warning: Gemini client not initialized. Using default outline.")
		return defaultOutline(matter)
	}

	var sourceSummaries strings.Builder
	for i, result := range retrieved {
		if i >= outlineContext {
			break
		}
		heading := "No heading"
		if result.Chunk.Heading != nil {
			heading = *result.Chunk.Heading
		}
		title := "Unknown"
		if result.SourceBriefTitle != nil {
			title = *result.SourceBriefTitle
		}
		court := "Unknown"
		if result.Chunk.Court != nil {
			court = *result.Chunk.Court
		}
		excerpt := result.Chunk.Content
		if len(excerpt) > 500 {
			excerpt = excerpt[:500]
		}
		sourceSummaries.WriteString(fmt.Sprintf("\nSource %d (Score: %.2f):\n- Heading: %s\n- Type: %s\n- From: %s\n- Court: %s\n- Excerpt: %s...\n",
			i+1, result.Score, heading, result.Chunk.SectionType, title, court, excerpt))
	}

	prompt := fmt.Sprintf(`You are helping draft a legal brief. Based on the matter details and retrieved source material from the firm's brief bank, propose an outline for the brief.

MATTER DETAILS:
- Case: %s
- Court: %s
- Jurisdiction: %s
- Procedural Posture: %s
- Legal Issues: %s
- Fact Summary: %s
- Desired Outcome: %s

RETRIEVED SOURCE MATERIAL:
%s

INSTRUCTIONS:
1. Propose an outline with 4-7 main sections appropriate for this type of motion
2. For each section, identify which source materials (by number) would be most useful
3. Consider the standard structure for this procedural posture
4. Include Introduction, Statement of Facts placeholder, Argument sections, and Conclusion

Return the outline in this exact JSON format:
{
  "sections": [
    {
      "heading": "I. INTRODUCTION",
      "description": "Brief overview of the motion and relief sought",
      "source_indices": [1, 3],
      "order": 0
    }
  ]
}

Return ONLY valid JSON, no other text.`,
		matter.CaseName,
		matter.Court,
		matter.Jurisdiction,
		matter.ProceduralPosture,
		strings.Join(matter.LegalIssues, ", "),
		matter.FactSummary,
		matter.DesiredOutcome,
		sourceSummaries.String(),
	)

	responseText, err := s.callGenerationAPIWithRetry(ctx, prompt, 0.3)
	if err != nil {
		log.Printf("Warning: outline generation failed: %v. Using default outline.", err)
		return defaultOutline(matter)
	}

	responseText = stripCodeFences(responseText)

	var parsed outlineResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil || len(parsed.Sections) == 0 {
		log.Printf("Warning: could not parse outline response. Using default outline.")
		return defaultOutline(matter)
	}

	outline := make(models.OutlineSections, 0, len(parsed.Sections))
	for _, sec := range parsed.Sections {
		sourceChunks := make([]uuid.UUID, 0, len(sec.SourceIndices))
		for _, idx := range sec.SourceIndices {
			if idx > 0 && idx <= len(retrieved) {
				sourceChunks = append(sourceChunks, retrieved[idx-1].Chunk.ID)
			}
		}
		outline = append(outline, models.OutlineSection{
			ID:           uuid.New(),
			Heading:      sec.Heading,
			Description:  sec.Description,
			SourceChunks: sourceChunks,
			Order:        sec.Order,
		})
	}

	sort.SliceStable(outline, func(i, j int) bool {
		return outline[i].Order < outline[j].Order
	})
	return outline
}

// defaultOutline is the standard motion structure used when outline
// generation fails
func defaultOutline(matter models.NewMatterRequest) models.OutlineSections {
	return models.OutlineSections{
		{
			ID:           uuid.New(),
			Heading:      "I. INTRODUCTION",
			Description:  "Overview of the motion and relief sought",
			SourceChunks: make([]uuid.UUID, 0),
			Order:        0,
		},
		{
			ID:           uuid.New(),
			Heading:      "II. STATEMENT OF FACTS",
			Description:  "Relevant factual background",
			SourceChunks: make([]uuid.UUID, 0),
			Order:        1,
		},
		{
			ID:           uuid.New(),
			Heading:      "III. LEGAL STANDARD",
			Description:  fmt.Sprintf("Standard for %s", matter.ProceduralPosture),
			SourceChunks: make([]uuid.UUID, 0),
			Order:        2,
		},
		{
			ID:           uuid.New(),
			Heading:      "IV. ARGUMENT",
			Description:  "Legal arguments supporting the motion",
			SourceChunks: make([]uuid.UUID, 0),
			Order:        3,
		},
		{
			ID:           uuid.New(),
			Heading:      "V. CONCLUSION",
			Description:  "Summary and request for relief",
			SourceChunks: make([]uuid.UUID, 0),
			Order:        4,
		},
	}
}

var (
	codeFenceOpenPattern  = regexp.MustCompile("^```\\w*\\s*")
	codeFenceClosePattern = regexp.MustCompile("```\\s*$")
	codeFencePattern      = regexp.MustCompile("```\\w*\\s*")
	markdownHeaderPattern = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	excessNewlinePattern  = regexp.MustCompile(`\n{3,}`)
)

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = codeFenceOpenPattern.ReplaceAllString(text, "")
	text = codeFenceClosePattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// cleanMarkdownArtifacts removes code fences and markdown headers the
// model sometimes emits despite instructions
func cleanMarkdownArtifacts(text string) string {
	text = codeFencePattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "```", "")
	text = markdownHeaderPattern.ReplaceAllString(text, "")
	text = excessNewlinePattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// callGenerationAPIWithRetry wraps callGenerationAPI with exponential
// backoff
func (s *DraftService) callGenerationAPIWithRetry(ctx context.Context, prompt string, temperature float64) (string, error) {
	var content string
	var err error

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		content, err = s.callGenerationAPI(ctx, prompt, temperature)
		if err != nil {
			if attempt == maxRetries-1 {
				return "", fmt.Errorf("failed to generate content after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if content != "" {
			return content, nil
		}
	}

	if content == "" {
		return "", ErrGenerationFailed
	}
	return content, nil
}

// callGenerationAPI calls the Gemini generation API directly via HTTP
func (s *DraftService) callGenerationAPI(ctx context.Context, prompt string, temperature float64) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": temperature,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", generationAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("Gemini API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("API error: %d", resp.StatusCode)
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason,omitempty"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason,omitempty"`
		} `json:"promptFeedback,omitempty"`
		Error struct {
			Code    int    `json:"code,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}

	if apiResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}

	if len(apiResp.Candidates) == 0 {
		return "", fmt.Errorf("API returned no candidates")
	}

	var responseText strings.Builder
	for i, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}
		for _, part := range candidate.Content.Parts {
			responseText.WriteString(part.Text)
		}
	}

	result := responseText.String()
	if result == "" {
		return "", fmt.Errorf("API returned empty content")
	}

	return result, nil
}
