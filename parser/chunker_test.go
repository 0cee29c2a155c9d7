package parser

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefbank-backend/models"
)

func sectionFixture(sectionType models.SectionType, title, content string) models.Section {
	return models.Section{
		ID:          uuid.New(),
		SectionType: sectionType,
		Title:       &title,
		Content:     content,
	}
}

func TestChunkBriefSkipsCaption(t *testing.T) {
	brief := &models.Brief{
		ID: uuid.New(),
		Sections: []models.Section{
			sectionFixture(models.SectionCaption, "", "UNITED STATES DISTRICT COURT"),
			sectionFixture(models.SectionIntroduction, "INTRODUCTION", "This motion should be granted."),
		},
	}

	chunks, _ := ChunkBrief(brief)
	require.Len(t, chunks, 1)
	assert.Equal(t, models.SectionIntroduction, chunks[0].SectionType)
}

func TestChunkBriefFlagsNonArgumentSections(t *testing.T) {
	brief := &models.Brief{
		ID: uuid.New(),
		Sections: []models.Section{
			sectionFixture(models.SectionLegalStandard, "LEGAL STANDARD", "A claim must be plausible."),
			sectionFixture(models.SectionStatementOfFacts, "STATEMENT OF FACTS", "Plaintiff filed suit in March."),
		},
	}

	chunks, _ := ChunkBrief(brief)
	require.Len(t, chunks, 2)

	assert.True(t, chunks[0].IsLegalStandard)
	assert.False(t, chunks[0].IsFactual)
	assert.True(t, chunks[1].IsFactual)
	assert.False(t, chunks[1].IsLegalStandard)
}

func TestChunkBriefSplitsArgumentOnSubHeadings(t *testing.T) {
	content := "A. The First Point\nThe first argument body.\nB. The Second Point\nThe second argument body."
	brief := &models.Brief{
		ID: uuid.New(),
		Sections: []models.Section{
			sectionFixture(models.SectionArgument, "ARGUMENT", content),
		},
	}

	chunks, _ := ChunkBrief(brief)
	require.Len(t, chunks, 2)

	require.NotNil(t, chunks[0].Heading)
	assert.Equal(t, "A. The First Point", *chunks[0].Heading)
	assert.Equal(t, "The first argument body.", chunks[0].Content)
	require.NotNil(t, chunks[1].Heading)
	assert.Equal(t, "B. The Second Point", *chunks[1].Heading)
}

func TestChunkBriefArgumentRunSharesParent(t *testing.T) {
	// Two consecutive argument sections form one run. Every chunk in the
	// run, including the first, points at the run's first chunk.
	brief := &models.Brief{
		ID: uuid.New(),
		Sections: []models.Section{
			sectionFixture(models.SectionArgument, "I. THE CLAIM FAILS", "The first argument body."),
			sectionFixture(models.SectionArgument, "II. THE CLAIM IS BARRED", "The second argument body."),
		},
	}

	chunks, _ := ChunkBrief(brief)
	require.Len(t, chunks, 2)

	require.NotNil(t, chunks[0].ParentChunkID)
	require.NotNil(t, chunks[1].ParentChunkID)
	assert.Equal(t, chunks[0].ID, *chunks[0].ParentChunkID)
	assert.Equal(t, chunks[0].ID, *chunks[1].ParentChunkID)
}

func TestChunkBriefParentResetsAcrossRuns(t *testing.T) {
	brief := &models.Brief{
		ID: uuid.New(),
		Sections: []models.Section{
			sectionFixture(models.SectionArgument, "I. FIRST RUN", "First run body."),
			sectionFixture(models.SectionLegalStandard, "LEGAL STANDARD", "A claim must be plausible."),
			sectionFixture(models.SectionArgument, "II. SECOND RUN", "Second run body."),
		},
	}

	chunks, _ := ChunkBrief(brief)
	require.Len(t, chunks, 3)

	first, second := chunks[0], chunks[2]
	require.NotNil(t, first.ParentChunkID)
	require.NotNil(t, second.ParentChunkID)
	assert.Equal(t, first.ID, *first.ParentChunkID)
	assert.Equal(t, second.ID, *second.ParentChunkID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Nil(t, chunks[1].ParentChunkID)
}

func TestChunkBriefAfterPlainLineParse(t *testing.T) {
	text := "STATEMENT OF FACTS\nThe sky is blue.\nARGUMENT\nA. First point\nText one.\nB. Second point\nText two."

	brief := ParseLines(text, "brief.txt")
	require.Len(t, brief.Sections, 3)
	assert.Equal(t, models.SectionStatementOfFacts, brief.Sections[0].SectionType)
	assert.Equal(t, models.SectionArgument, brief.Sections[1].SectionType)
	assert.Equal(t, models.SectionArgument, brief.Sections[2].SectionType)

	chunks, _ := ChunkBrief(brief)
	require.Len(t, chunks, 3)

	factChunk, first, second := chunks[0], chunks[1], chunks[2]
	assert.True(t, factChunk.IsFactual)
	assert.Equal(t, "Text one.", first.Content)
	assert.Equal(t, "Text two.", second.Content)

	require.NotNil(t, first.ParentChunkID)
	require.NotNil(t, second.ParentChunkID)
	assert.Equal(t, first.ID, *first.ParentChunkID)
	assert.Equal(t, first.ID, *second.ParentChunkID)
}

func TestChunkBriefIdempotent(t *testing.T) {
	content := "A. The First Point\nThe first argument body.\nB. The Second Point\nThe second argument body."
	build := func() *models.Brief {
		return &models.Brief{
			ID: uuid.New(),
			Sections: []models.Section{
				sectionFixture(models.SectionArgument, "ARGUMENT", content),
			},
		}
	}

	first, _ := ChunkBrief(build())
	second, _ := ChunkBrief(build())
	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, *first[i].Heading, *second[i].Heading)
		assert.Equal(t, first[i].Content, second[i].Content)
		// Parent structure is identical: the first chunk parents the run
		assert.Equal(t, first[i].ParentChunkID == nil, second[i].ParentChunkID == nil)
		if first[i].ParentChunkID != nil {
			assert.Equal(t, *first[i].ParentChunkID == first[0].ID, *second[i].ParentChunkID == second[0].ID)
		}
	}
}

func TestChunkBriefCitationConservation(t *testing.T) {
	// Each extracted citation belongs to exactly one chunk, and the
	// chunk's citation list mirrors the extracted records
	content := "A. The First Point\nSmith v. Jones, 123 F.3d 456 (9th Cir. 2020) controls.\n" +
		"B. The Second Point\nBrown v. Board, 347 U.S. 483 (Sup. Ct. 1954) is instructive."
	brief := &models.Brief{
		ID: uuid.New(),
		Sections: []models.Section{
			sectionFixture(models.SectionArgument, "ARGUMENT", content),
		},
	}

	chunks, citations := ChunkBrief(brief)
	require.Len(t, chunks, 2)
	require.Len(t, citations, 2)

	total := 0
	for _, chunk := range chunks {
		total += len(chunk.Citations)
		for _, citID := range chunk.Citations {
			var owner *models.Citation
			for _, c := range citations {
				if c.ID == citID {
					owner = c
					break
				}
			}
			require.NotNil(t, owner)
			assert.Equal(t, chunk.ID, owner.ParentChunkID)
		}
	}
	assert.Equal(t, len(citations), total)
}

func TestChunkBriefCopiesBriefMetadata(t *testing.T) {
	jurisdiction := "federal"
	court := "Northern District of California"
	brief := &models.Brief{
		ID:                uuid.New(),
		Jurisdiction:      &jurisdiction,
		Court:             &court,
		ProceduralPosture: models.PostureMotionToDismiss,
		LegalIssues:       []string{"standing"},
		Sections: []models.Section{
			sectionFixture(models.SectionArgument, "I. ARGUMENT", "The claim fails."),
		},
	}

	chunks, _ := ChunkBrief(brief)
	require.Len(t, chunks, 1)

	chunk := chunks[0]
	assert.Equal(t, brief.ID, chunk.BriefID)
	assert.Equal(t, &jurisdiction, chunk.Jurisdiction)
	assert.Equal(t, &court, chunk.Court)
	require.NotNil(t, chunk.ProceduralPosture)
	assert.Equal(t, models.PostureMotionToDismiss, *chunk.ProceduralPosture)
	assert.Equal(t, []string{"standing"}, chunk.LegalIssues)
}
