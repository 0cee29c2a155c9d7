package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefbank-backend/models"
)

func TestExtractCourtInfoDistrict(t *testing.T) {
	court, jurisdiction := ExtractCourtInfo("UNITED STATES DISTRICT COURT\nNorthern District of California")
	require.NotNil(t, court)
	assert.Equal(t, "Northern District of California", *court)
	require.NotNil(t, jurisdiction)
	assert.Equal(t, "federal", *jurisdiction)
}

func TestExtractCourtInfoCircuit(t *testing.T) {
	court, jurisdiction := ExtractCourtInfo("UNITED STATES COURT OF APPEALS FOR THE Ninth Circuit")
	require.NotNil(t, court)
	assert.Equal(t, "Ninth Circuit", *court)
	require.NotNil(t, jurisdiction)
	assert.Equal(t, "federal", *jurisdiction)
}

func TestExtractCourtInfoState(t *testing.T) {
	court, jurisdiction := ExtractCourtInfo("SUPERIOR COURT OF THE STATE OF CALIFORNIA")
	require.NotNil(t, court)
	require.NotNil(t, jurisdiction)
	assert.Equal(t, "california", *jurisdiction)
}

func TestExtractCourtInfoDistrictWinsOverState(t *testing.T) {
	// When both a district court and a state court appear, the district
	// pattern is tried first and wins
	text := "Removed from the Superior Court of California to the Northern District of California"
	court, jurisdiction := ExtractCourtInfo(text)
	require.NotNil(t, court)
	assert.Equal(t, "Northern District of California", *court)
	require.NotNil(t, jurisdiction)
	assert.Equal(t, "federal", *jurisdiction)
}

func TestExtractCourtInfoNoMatch(t *testing.T) {
	court, jurisdiction := ExtractCourtInfo("This text mentions no venue at all.")
	assert.Nil(t, court)
	assert.Nil(t, jurisdiction)
}

func TestExtractCaseInfoCaptionForm(t *testing.T) {
	text := "ACME CORP., Plaintiff, v. JOHN DOE, Defendant.\nCase No. 3:21-cv-01234"

	caseName, caseNumber := ExtractCaseInfo(text)
	require.NotNil(t, caseName)
	assert.Equal(t, "Acme Corp. v. John Doe", *caseName)
	require.NotNil(t, caseNumber)
	assert.Equal(t, "3:21-cv-01234", *caseNumber)
}

func TestExtractCaseInfoTruncatesLongPartyNames(t *testing.T) {
	text := "INTERNATIONAL CONSOLIDATED AMALGAMATED INDUSTRIES HOLDINGS, Plaintiff, v. JOHN DOE, Defendant"

	caseName, _ := ExtractCaseInfo(text)
	require.NotNil(t, caseName)
	assert.Contains(t, *caseName, "...")
	assert.Contains(t, *caseName, " v. John Doe")
}

func TestExtractCaseInfoNoMatch(t *testing.T) {
	caseName, caseNumber := ExtractCaseInfo("nothing resembling a caption here")
	assert.Nil(t, caseName)
	assert.Nil(t, caseNumber)
}

func TestIdentifyProceduralPosture(t *testing.T) {
	tests := []struct {
		text string
		want models.ProceduralPosture
	}{
		{"MOTION TO DISMISS pursuant to Rule 12(b)(6)", models.PostureMotionToDismiss},
		{"failure to state a claim upon which relief can be granted", models.PostureMotionToDismiss},
		{"MOTION FOR SUMMARY JUDGMENT under Rule 56", models.PostureSummaryJudgment},
		{"motion for a preliminary injunction", models.PosturePreliminaryInjunction},
		{"application for a temporary restraining order", models.PosturePreliminaryInjunction},
		{"the requested TRO should issue", models.PosturePreliminaryInjunction},
		{"MOTION TO COMPEL discovery responses", models.PostureMotionToCompel},
		{"OPPOSITION TO defendant's motion", models.PostureOpposition},
		{"REPLY IN SUPPORT of the motion", models.PostureReply},
		{"APPELLANT'S BRIEF", models.PostureAppealBrief},
		{"a routine status report", models.PostureOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IdentifyProceduralPosture(tt.text), "text %q", tt.text)
	}
}

func TestIdentifyProceduralPostureTroWordBoundary(t *testing.T) {
	// "tro" inside a longer word must not signal an injunction
	assert.Equal(t, models.PostureOther, IdentifyProceduralPosture("the electronic filing system"))
	assert.Equal(t, models.PostureOther, IdentifyProceduralPosture("an introductory paragraph"))
}

func TestGenerateBriefTitlePreference(t *testing.T) {
	caseName := "Smith v. Jones"
	caseNumber := "3:21-cv-01234"

	assert.Equal(t, "Smith v. Jones", GenerateBriefTitle(&caseName, &caseNumber, "brief.docx"))
	assert.Equal(t, "Case No. 3:21-cv-01234", GenerateBriefTitle(nil, &caseNumber, "brief.docx"))
	assert.Equal(t, "brief", GenerateBriefTitle(nil, nil, "brief.docx"))
}

func TestGenerateBriefTitleStripsUUIDPrefix(t *testing.T) {
	filename := "a1b2c3d4-e5f6-7890-abcd-ef0123456789-motion-to-dismiss.docx"
	assert.Equal(t, "motion-to-dismiss", GenerateBriefTitle(nil, nil, filename))
}
