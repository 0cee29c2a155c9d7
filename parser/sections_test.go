package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"briefbank-backend/models"
)

func TestClassifySectionType(t *testing.T) {
	tests := []struct {
		heading string
		want    models.SectionType
	}{
		{"INTRODUCTION", models.SectionIntroduction},
		{"I. INTRODUCTION", models.SectionIntroduction},
		{"Preliminary Statement", models.SectionIntroduction},
		{"STATEMENT OF FACTS", models.SectionStatementOfFacts},
		{"II. STATEMENT OF FACTS", models.SectionStatementOfFacts},
		{"Factual Background", models.SectionStatementOfFacts},
		{"BACKGROUND", models.SectionStatementOfFacts},
		{"PROCEDURAL HISTORY", models.SectionProceduralHistory},
		{"Procedural Background", models.SectionProceduralHistory},
		{"LEGAL STANDARD", models.SectionLegalStandard},
		{"Standard of Review", models.SectionLegalStandard},
		{"ARGUMENT", models.SectionArgument},
		{"III. ARGUMENT", models.SectionArgument},
		{"Legal Argument", models.SectionArgument},
		{"DISCUSSION", models.SectionArgument},
		{"CONCLUSION", models.SectionConclusion},
		{"V. CONCLUSION", models.SectionConclusion},
		{"TABLE OF AUTHORITIES", models.SectionOther},
		{"", models.SectionOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySectionType(tt.heading), "heading %q", tt.heading)
	}
}

func TestClassifySectionTypeSubHeadingShape(t *testing.T) {
	// Headings shaped like argument sub-headings classify as argument
	// even without an argument keyword
	assert.Equal(t, models.SectionArgument, ClassifySectionType("A. The Claim Fails"))
	assert.Equal(t, models.SectionArgument, ClassifySectionType("1. Plaintiff Lacks Standing"))
	assert.Equal(t, models.SectionArgument, ClassifySectionType("IV. The Court Should Dismiss"))
}

func TestFormattedHeadingDetector(t *testing.T) {
	d := FormattedHeadingDetector{}

	assert.True(t, d.IsHeading(Unit{Text: "Some Heading", Style: "Heading1"}))
	assert.True(t, d.IsHeading(Unit{Text: "STATEMENT OF FACTS"}))
	assert.True(t, d.IsHeading(Unit{
		Text: "The Standard Applies",
		Runs: []Run{{Text: "The Standard Applies", Bold: true}},
	}))
	assert.True(t, d.IsHeading(Unit{Text: "A. The First Argument"}))

	assert.False(t, d.IsHeading(Unit{Text: ""}))
	assert.False(t, d.IsHeading(Unit{Text: "The plaintiff filed suit in March."}))
	assert.False(t, d.IsHeading(Unit{
		Text: "Partially bold text",
		Runs: []Run{{Text: "Partially ", Bold: true}, {Text: "bold text", Bold: false}},
	}))
}

func TestPlainLineHeadingDetector(t *testing.T) {
	d := PlainLineHeadingDetector{}

	assert.True(t, d.IsHeading(Unit{Text: "ARGUMENT"}))
	assert.True(t, d.IsHeading(Unit{Text: "Legal Standard"}))
	assert.False(t, d.IsHeading(Unit{Text: "The plaintiff filed suit in March."}))
	assert.False(t, d.IsHeading(Unit{Text: ""}))
}
