package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"briefbank-backend/models"
)

var (
	districtCourtPattern = regexp.MustCompile(`(?i)((?:Northern|Southern|Eastern|Western|Central|Middle)\s+District\s+of\s+\w+)`)
	circuitCourtPattern  = regexp.MustCompile(`(?i)(\d+(?:st|nd|rd|th)\s+Circuit|(?:First|Second|Third|Fourth|Fifth|Sixth|Seventh|Eighth|Ninth|Tenth|Eleventh|D\.?C\.?)\s+Circuit)`)
	stateCourtPattern    = regexp.MustCompile(`(?i)(?:Superior\s+Court|Supreme\s+Court|Court\s+of\s+Appeal)\s+of\s+(?:the\s+State\s+of\s+)?(\w+)`)
)

// ExtractCourtInfo pulls court and jurisdiction from brief text. The
// federal district pattern is tried first, then circuit courts, then
// state courts; the first category that matches wins.
func ExtractCourtInfo(text string) (court *string, jurisdiction *string) {
	if m := districtCourtPattern.FindStringSubmatch(text); m != nil {
		federal := "federal"
		return &m[1], &federal
	}
	if m := circuitCourtPattern.FindStringSubmatch(text); m != nil {
		federal := "federal"
		return &m[1], &federal
	}
	if m := stateCourtPattern.FindStringSubmatch(text); m != nil {
		state := strings.ToLower(m[1])
		return &m[0], &state
	}
	return nil, nil
}

var caseNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Case\s+No\.?\s*:?\s*([\w\-:]+)`),
	regexp.MustCompile(`(?i)No\.?\s+(\d[\d\-cv\w]*)`),
	regexp.MustCompile(`(?i)Docket\s+No\.?\s*:?\s*([\w\-]+)`),
}

// Case names are searched only in the caption region. Three shapes are
// tried in order: the captioned "PLAINTIFF, Plaintiff, v. DEFENDANT,
// Defendant" form, a mixed-case "X v. Y" form, and a bare all-caps
// "X v. Y" form.
var caseNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][A-Z\s\.,']+?)\s*,?\s*(?:Plaintiff|Petitioner|Appellant)s?\s*,?\s*v\.?\s+([A-Z][A-Z\s\.,']+?)\s*,?\s*(?:Defendant|Respondent|Appellee)s?`),
	regexp.MustCompile(`([A-Z][a-zA-Z\s\.,'\-]+?)\s+v\.\s+([A-Z][a-zA-Z\s\.,'\-]+?)(?:\s*,|\s*\n|\s*Case|\s*No\.)`),
	regexp.MustCompile(`([A-Z][A-Z\s\.,']+)\s+v\.\s+([A-Z][A-Z\s\.,']+)`),
}

const captionRegionLen = 2000

// ExtractCaseInfo pulls the case name and docket number from brief text
func ExtractCaseInfo(text string) (caseName *string, caseNumber *string) {
	for _, p := range caseNumberPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			caseNumber = &m[1]
			break
		}
	}

	captionText := text
	if len(captionText) > captionRegionLen {
		captionText = captionText[:captionRegionLen]
	}

	for _, p := range caseNamePatterns {
		m := p.FindStringSubmatch(captionText)
		if m == nil {
			continue
		}
		plaintiff := cleanPartyName(m[1])
		defendant := cleanPartyName(m[2])
		name := plaintiff + " v. " + defendant
		caseName = &name
		break
	}

	return caseName, caseNumber
}

func cleanPartyName(raw string) string {
	name := strings.TrimSuffix(strings.TrimSpace(raw), ",")
	name = strings.Join(strings.Fields(titleCase(name)), " ")
	if len(name) > 40 {
		name = name[:37] + "..."
	}
	return name
}

// titleCase upper-cases the first letter of each space-or-punctuation
// delimited word and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		switch {
		case isLetter && !prevLetter:
			b.WriteString(strings.ToUpper(string(r)))
		case isLetter:
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

// posturePattern pairs a procedural posture with the phrases that
// signal it. The table is ordered; the first matching phrase wins.
type posturePattern struct {
	posture  models.ProceduralPosture
	patterns []*regexp.Regexp
}

var posturePatterns = []posturePattern{
	{models.PostureMotionToDismiss, []*regexp.Regexp{
		regexp.MustCompile(`motion\s+to\s+dismiss`),
		regexp.MustCompile(`12\(b\)\(6\)`),
		regexp.MustCompile(`failure\s+to\s+state\s+a\s+claim`),
	}},
	{models.PostureSummaryJudgment, []*regexp.Regexp{
		regexp.MustCompile(`motion\s+for\s+summary\s+judgment`),
		regexp.MustCompile(`summary\s+judgment`),
		regexp.MustCompile(`rule\s+56`),
	}},
	{models.PosturePreliminaryInjunction, []*regexp.Regexp{
		regexp.MustCompile(`preliminary\s+injunction`),
		regexp.MustCompile(`temporary\s+restraining\s+order`),
		regexp.MustCompile(`\btro\b`),
	}},
	{models.PostureMotionToCompel, []*regexp.Regexp{
		regexp.MustCompile(`motion\s+to\s+compel`),
	}},
	{models.PostureOpposition, []*regexp.Regexp{
		regexp.MustCompile(`opposition\s+to`),
		regexp.MustCompile(`in\s+opposition`),
	}},
	{models.PostureReply, []*regexp.Regexp{
		regexp.MustCompile(`reply\s+in\s+support`),
		regexp.MustCompile(`reply\s+brief`),
		regexp.MustCompile(`reply\s+memorandum`),
	}},
	{models.PostureAppealBrief, []*regexp.Regexp{
		regexp.MustCompile(`appellant'?s?\s+brief`),
		regexp.MustCompile(`appellee'?s?\s+brief`),
		regexp.MustCompile(`opening\s+brief`),
		regexp.MustCompile(`answering\s+brief`),
	}},
}

// IdentifyProceduralPosture classifies the filing type from brief text.
// Nothing matching defaults to "other" rather than leaving the posture
// unset.
func IdentifyProceduralPosture(text string) models.ProceduralPosture {
	textLower := strings.ToLower(text)
	for _, pp := range posturePatterns {
		for _, p := range pp.patterns {
			if p.MatchString(textLower) {
				return pp.posture
			}
		}
	}
	return models.PostureOther
}

// GenerateBriefTitle picks a display title, preferring case name, then
// case number, then the filename stem with any leading UUID prefix
// stripped.
func GenerateBriefTitle(caseName, caseNumber *string, filename string) string {
	if caseName != nil && *caseName != "" {
		return *caseName
	}
	if caseNumber != nil && *caseNumber != "" {
		return "Case No. " + *caseNumber
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if len(name) > 36 && name[8] == '-' && name[13] == '-' {
		parts := strings.Split(name, "-")
		if len(parts) > 5 {
			name = strings.Join(parts[5:], "-")
		}
	}
	if name == "" {
		return filename
	}
	return name
}
