package parser

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"briefbank-backend/models"
)

// Sub-heading shapes that split an argument section into sub-chunks.
// The roman-numeral form is case-insensitive here, unlike heading
// detection, since argument bodies often use lower-case romans.
var chunkSubHeadingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]\.\s+.+`),
	regexp.MustCompile(`^\d+\.\s+.+`),
	regexp.MustCompile(`(?i)^[ivx]+\.\s+.+`),
}

func matchesChunkSubHeading(text string) bool {
	for _, p := range chunkSubHeadingPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// ChunkBrief breaks a parsed brief into retrievable argument chunks.
// Caption sections are skipped. Non-argument sections become one chunk
// each; argument sections are subdivided on sub-heading lines. A run
// of consecutive argument sections shares one parent: the first chunk
// of the run, which every chunk in the run references, itself
// included. The first chunk's self-reference is intentional; it marks
// the run root, so a parent id equal to the chunk's own id means "this
// chunk starts a run", not a cycle. Citation extraction runs once per
// chunk after all chunks are built.
func ChunkBrief(brief *models.Brief) ([]*models.ArgumentChunk, []*models.Citation) {
	chunks := make([]*models.ArgumentChunk, 0)

	var runParentID *uuid.UUID

	for i := range brief.Sections {
		section := &brief.Sections[i]

		switch section.SectionType {
		case models.SectionCaption:
			runParentID = nil
			continue
		case models.SectionArgument:
			argChunks := chunkArgumentSection(section, brief, &runParentID)
			chunks = append(chunks, argChunks...)
		default:
			runParentID = nil
			chunks = append(chunks, &models.ArgumentChunk{
				ID:                uuid.New(),
				BriefID:           brief.ID,
				SectionType:       section.SectionType,
				Heading:           section.Title,
				Content:           section.Content,
				LegalIssues:       brief.LegalIssues,
				IsLegalStandard:   section.SectionType == models.SectionLegalStandard,
				IsFactual:         section.SectionType == models.SectionStatementOfFacts,
				Jurisdiction:      brief.Jurisdiction,
				Court:             brief.Court,
				ProceduralPosture: &brief.ProceduralPosture,
			})
		}
	}

	citations := make([]*models.Citation, 0)
	for _, chunk := range chunks {
		extracted := ExtractCitations(chunk.Content, chunk.ID)
		ids := make([]uuid.UUID, 0, len(extracted))
		for i := range extracted {
			ids = append(ids, extracted[i].ID)
			citations = append(citations, &extracted[i])
		}
		chunk.Citations = ids
	}

	return chunks, citations
}

// chunkArgumentSection splits one argument section's content on
// sub-heading lines. runParentID carries the parent across consecutive
// argument sections so sibling sub-arguments all point at the run's
// first chunk.
func chunkArgumentSection(section *models.Section, brief *models.Brief, runParentID **uuid.UUID) []*models.ArgumentChunk {
	chunks := make([]*models.ArgumentChunk, 0)

	currentHeading := section.Title
	var currentText []string

	closeChunk := func() {
		if len(currentText) == 0 {
			return
		}
		chunk := &models.ArgumentChunk{
			ID:                uuid.New(),
			BriefID:           brief.ID,
			SectionType:       models.SectionArgument,
			Heading:           currentHeading,
			Content:           strings.Join(currentText, "\n"),
			LegalIssues:       brief.LegalIssues,
			Jurisdiction:      brief.Jurisdiction,
			Court:             brief.Court,
			ProceduralPosture: &brief.ProceduralPosture,
		}
		if *runParentID == nil {
			id := chunk.ID
			*runParentID = &id
		}
		chunk.ParentChunkID = *runParentID
		chunks = append(chunks, chunk)
	}

	for _, line := range strings.Split(section.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if matchesChunkSubHeading(line) {
			closeChunk()
			heading := line
			currentHeading = &heading
			currentText = nil
		} else {
			currentText = append(currentText, line)
		}
	}
	closeChunk()

	return chunks
}
