package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefbank-backend/models"
)

func TestStripCodeFences(t *testing.T) {
	fenced := "```json\n{\"sections\": []}\n```"
	assert.Equal(t, `{"sections": []}`, stripCodeFences(fenced))

	bare := `{"sections": []}`
	assert.Equal(t, bare, stripCodeFences(bare))
}

func TestCleanMarkdownArtifacts(t *testing.T) {
	text := "## Heading\n\nSome prose.\n\n\n\nMore prose.\n```\nleftover fence\n```"
	cleaned := cleanMarkdownArtifacts(text)

	assert.NotContains(t, cleaned, "##")
	assert.NotContains(t, cleaned, "```")
	assert.NotContains(t, cleaned, "\n\n\n")
	assert.Contains(t, cleaned, "Some prose.")
	assert.Contains(t, cleaned, "More prose.")
}

func TestFlagOutdatedCitations(t *testing.T) {
	old := time.Now().Year() - 6
	recent := time.Now().Year() - 2

	section := &models.GeneratedSection{
		CitationsUsed: []models.Citation{
			{FullText: "Old v. Case, 1 F.3d 1 (9th Cir. 2000)", Year: &old},
			{FullText: "Recent v. Case, 2 F.3d 2 (9th Cir. 2023)", Year: &recent},
			{FullText: "Undated v. Case, 3 F.3d 3 (9th Cir. 1999)"},
		},
		Warnings: make([]string, 0),
	}

	flagOutdatedCitations(section)

	require.Len(t, section.Warnings, 1)
	assert.Equal(t,
		"Citation may be outdated (>5 years): Old v. Case, 1 F.3d 1 (9th Cir. 2000)",
		section.Warnings[0])
}

func TestFindOutlineSection(t *testing.T) {
	first := models.OutlineSection{ID: uuid.New(), Heading: "I. INTRODUCTION", Order: 0}
	second := models.OutlineSection{ID: uuid.New(), Heading: "II. ARGUMENT", Order: 1}
	outline := models.OutlineSections{first, second}

	found := findOutlineSection(outline, second.ID)
	require.NotNil(t, found)
	assert.Equal(t, "II. ARGUMENT", found.Heading)

	assert.Nil(t, findOutlineSection(outline, uuid.New()))
}

func TestOutlineOrder(t *testing.T) {
	first := models.OutlineSection{ID: uuid.New(), Order: 0}
	second := models.OutlineSection{ID: uuid.New(), Order: 3}
	outline := models.OutlineSections{first, second}

	assert.Equal(t, 3, outlineOrder(outline, second.ID))
	assert.Equal(t, 0, outlineOrder(outline, uuid.New()))
}

func TestDefaultOutline(t *testing.T) {
	outline := defaultOutline(models.NewMatterRequest{
		ProceduralPosture: models.PostureMotionToDismiss,
	})

	require.Len(t, outline, 5)
	assert.Equal(t, "I. INTRODUCTION", outline[0].Heading)
	assert.Equal(t, "V. CONCLUSION", outline[4].Heading)
	assert.Contains(t, outline[2].Description, "motion_to_dismiss")

	for i, section := range outline {
		assert.Equal(t, i, section.Order)
		assert.NotEqual(t, uuid.Nil, section.ID)
		assert.NotNil(t, section.SourceChunks)
	}
}

func TestMetadataBlockPattern(t *testing.T) {
	response := `The motion should be granted. [CITATION NEEDED]

{
  "citations_used": ["Smith v. Jones, 123 F.3d 456 (9th Cir. 2020)"],
  "citations_needed": ["support for the standing argument"],
  "warnings": [],
  "adaptations": []
}`

	m := metadataBlockPattern.FindStringIndex(response)
	require.NotNil(t, m)
	assert.Contains(t, response[m[0]:m[1]], `"citations_used"`)
	assert.Contains(t, response[:m[0]], "The motion should be granted.")
}

func TestGenerateOutlineFallsBackWithoutClient(t *testing.T) {
	s := NewDraftService()

	matter := models.NewMatterRequest{
		CaseName:          "Smith v. Jones",
		ProceduralPosture: models.PostureMotionToDismiss,
	}
	outline := s.generateOutline(context.Background(), matter, nil)

	require.Len(t, outline, 5)
	assert.Equal(t, "I. INTRODUCTION", outline[0].Heading)
	assert.Contains(t, outline[2].Description, string(models.PostureMotionToDismiss))
}

func TestGenerateSectionContentRequiresClient(t *testing.T) {
	s := NewDraftService()

	section := &models.OutlineSection{ID: uuid.New(), Heading: "I. INTRODUCTION"}
	_, err := s.generateSectionContent(context.Background(), section, models.NewMatterRequest{}, nil, nil)
	require.Error(t, err)
}
