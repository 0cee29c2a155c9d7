package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"briefbank-backend/models"
)

// Parser builds a Brief from an ordered unit sequence. Heading
// detection is delegated to the configured strategy, so the same
// accumulation loop serves both formatted and plain-line inputs.
type Parser struct {
	detector HeadingDetector
}

// NewParser creates a parser with the given heading detection strategy
func NewParser(detector HeadingDetector) *Parser {
	return &Parser{detector: detector}
}

// Parse converts a document into a Brief. Metadata extraction runs
// once over the full concatenated text; sections are accumulated
// between heading boundaries. Text before the first heading is the
// caption.
func (p *Parser) Parse(doc Document, filename, fileType string) *models.Brief {
	briefID := uuid.New()

	texts := make([]string, 0, len(doc.Units))
	for _, u := range doc.Units {
		texts = append(texts, u.Text)
	}
	fullText := strings.Join(texts, "\n")

	court, jurisdiction := ExtractCourtInfo(fullText)
	caseName, caseNumber := ExtractCaseInfo(fullText)
	posture := IdentifyProceduralPosture(fullText)

	sections := make([]models.Section, 0)
	currentType := models.SectionCaption
	var currentTitle *string
	var currentText []string
	order := 0

	closeSection := func() {
		if len(currentText) == 0 {
			return
		}
		sections = append(sections, models.Section{
			ID:          uuid.New(),
			BriefID:     briefID,
			SectionType: currentType,
			Title:       currentTitle,
			Content:     strings.Join(currentText, "\n"),
			Order:       order,
		})
		order++
	}

	for _, u := range doc.Units {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}

		if p.detector.IsHeading(u) {
			closeSection()
			currentType = ClassifySectionType(text)
			title := text
			currentTitle = &title
			currentText = nil
		} else {
			currentText = append(currentText, text)
		}
	}
	closeSection()

	title := GenerateBriefTitle(caseName, caseNumber, filename)

	return &models.Brief{
		ID:                briefID,
		Filename:          filename,
		Title:             &title,
		Court:             court,
		Jurisdiction:      jurisdiction,
		CaseName:          caseName,
		CaseNumber:        caseNumber,
		ProceduralPosture: posture,
		Sections:          sections,
		FullText:          fullText,
		FileType:          fileType,
		IngestedAt:        time.Now().UTC(),
	}
}

// ParseLines parses plain text lines, such as the body of a .txt
// upload, using plain-line heading detection.
func ParseLines(text, filename string) *models.Brief {
	lines := strings.Split(text, "\n")
	units := make([]Unit, 0, len(lines))
	for _, line := range lines {
		units = append(units, Unit{Text: strings.TrimSpace(line)})
	}

	p := NewParser(PlainLineHeadingDetector{})
	return p.Parse(Document{Units: units}, filename, "text")
}

// ParseDocument parses raw uploaded file content by extension. DOCX
// files are decoded and parsed with formatting hints; plain text falls
// back to line-based parsing.
func ParseDocument(content []byte, filename string) (*models.Brief, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		doc, err := ReadDocx(content)
		if err != nil {
			return nil, fmt.Errorf("failed to read docx: %w", err)
		}
		p := NewParser(FormattedHeadingDetector{})
		return p.Parse(doc, filename, "docx"), nil
	case ".txt":
		return ParseLines(string(content), filename), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(filename))
	}
}
