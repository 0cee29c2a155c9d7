package parser

import (
	"regexp"
	"strings"

	"briefbank-backend/models"
)

// sectionPattern pairs a section type with one anchored pattern tested
// against the upper-cased heading text. The table is priority ordered:
// the first matching entry wins.
type sectionPattern struct {
	sectionType models.SectionType
	pattern     *regexp.Regexp
}

var sectionPatterns = []sectionPattern{
	{models.SectionIntroduction, regexp.MustCompile(`^I\.?\s*INTRODUCTION`)},
	{models.SectionIntroduction, regexp.MustCompile(`^INTRODUCTION`)},
	{models.SectionIntroduction, regexp.MustCompile(`^PRELIMINARY\s+STATEMENT`)},
	{models.SectionStatementOfFacts, regexp.MustCompile(`^II\.?\s*STATEMENT\s+OF\s+FACTS`)},
	{models.SectionStatementOfFacts, regexp.MustCompile(`^STATEMENT\s+OF\s+FACTS`)},
	{models.SectionStatementOfFacts, regexp.MustCompile(`^FACTUAL\s+BACKGROUND`)},
	{models.SectionStatementOfFacts, regexp.MustCompile(`^FACTS`)},
	{models.SectionStatementOfFacts, regexp.MustCompile(`^BACKGROUND`)},
	{models.SectionProceduralHistory, regexp.MustCompile(`^PROCEDURAL\s+HISTORY`)},
	{models.SectionProceduralHistory, regexp.MustCompile(`^PROCEDURAL\s+BACKGROUND`)},
	{models.SectionLegalStandard, regexp.MustCompile(`^LEGAL\s+STANDARD`)},
	{models.SectionLegalStandard, regexp.MustCompile(`^STANDARD\s+OF\s+REVIEW`)},
	{models.SectionArgument, regexp.MustCompile(`^III\.?\s*ARGUMENT`)},
	{models.SectionArgument, regexp.MustCompile(`^IV\.?\s*ARGUMENT`)},
	{models.SectionArgument, regexp.MustCompile(`^ARGUMENT`)},
	{models.SectionArgument, regexp.MustCompile(`^LEGAL\s+ARGUMENT`)},
	{models.SectionArgument, regexp.MustCompile(`^DISCUSSION`)},
	{models.SectionConclusion, regexp.MustCompile(`^CONCLUSION`)},
	{models.SectionConclusion, regexp.MustCompile(`^V\.?\s*CONCLUSION`)},
	{models.SectionConclusion, regexp.MustCompile(`^VI\.?\s*CONCLUSION`)},
}

// ClassifySectionType maps a heading to its section type. The pattern
// table is tried top to bottom against the upper-cased text; a heading
// matching no table entry but shaped like an argument sub-heading is
// classified as argument, and anything else is "other".
func ClassifySectionType(heading string) models.SectionType {
	headingUpper := strings.ToUpper(strings.TrimSpace(heading))

	for _, sp := range sectionPatterns {
		if sp.pattern.MatchString(headingUpper) {
			return sp.sectionType
		}
	}

	if matchesSubHeading(strings.TrimSpace(heading)) {
		return models.SectionArgument
	}

	return models.SectionOther
}
