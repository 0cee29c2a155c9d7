package parser

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"briefbank-backend/models"
)

// ErrUnsupportedFileType is returned when a document's extension maps
// to no known decoder.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Run represents a formatted run of text within a paragraph unit
type Run struct {
	Text string
	Bold bool
}

// Unit represents one paragraph-like unit of input text. DOCX inputs
// carry style and run formatting hints; plain-text inputs carry only
// the line text.
type Unit struct {
	Text  string // trimmed text
	Style string // paragraph style name, if any
	Runs  []Run  // formatted runs, if any
}

// Document represents an ordered sequence of input units
type Document struct {
	Units []Unit
}

// HeadingDetector decides whether a unit opens a new section. The
// formatting-aware implementation uses DOCX styling; the plain-line
// implementation relies on section-type classification alone.
type HeadingDetector interface {
	IsHeading(u Unit) bool
}

// Sub-heading shapes used both for heading detection and for argument
// chunking: roman numerals, capital letters, and digits, each followed
// by a period and content.
var subHeadingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[IVX]+\.\s+.+`),
	regexp.MustCompile(`^[A-Z]\.\s+.+`),
	regexp.MustCompile(`^\d+\.\s+.+`),
}

func matchesSubHeading(text string) bool {
	for _, p := range subHeadingPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// FormattedHeadingDetector detects headings from DOCX formatting:
// named heading styles, all-caps text, all-bold runs, or a sub-heading
// shape.
type FormattedHeadingDetector struct{}

// IsHeading reports whether the unit is likely a heading
func (FormattedHeadingDetector) IsHeading(u Unit) bool {
	text := strings.TrimSpace(u.Text)
	if text == "" {
		return false
	}

	if strings.Contains(u.Style, "Heading") {
		return true
	}

	// All caps is common for top-level headings in legal briefs
	if isUpperText(text) && len(text) < 200 {
		return true
	}

	if len(u.Runs) > 0 {
		allBold := true
		sawText := false
		for _, r := range u.Runs {
			if strings.TrimSpace(r.Text) == "" {
				continue
			}
			sawText = true
			if !r.Bold {
				allBold = false
				break
			}
		}
		if sawText && allBold && len(text) < 200 {
			return true
		}
	}

	return matchesSubHeading(text)
}

// PlainLineHeadingDetector treats any line that classifies to a known
// section type as a heading boundary. Used for inputs without
// formatting, such as text extracted from PDFs.
type PlainLineHeadingDetector struct{}

// IsHeading reports whether the line resolves to a known section type
func (PlainLineHeadingDetector) IsHeading(u Unit) bool {
	text := strings.TrimSpace(u.Text)
	if text == "" {
		return false
	}
	return ClassifySectionType(text) != models.SectionOther
}

// isUpperText reports whether s contains at least one cased letter and
// no lower-case letters, mirroring the usual "all caps" check.
func isUpperText(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}
