package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"briefbank-backend/models"
)

// citationPattern matches common reporter-format case citations such as
// "Smith v. Jones, 123 F.3d 456, 460 (9th Cir. 2020)". Capture groups:
// case name, volume, reporter, page, optional pinpoint, court, year.
var citationPattern = regexp.MustCompile(
	`([A-Z][a-zA-Z'\-\s]+(?:v\.|vs\.)\s+[A-Z][a-zA-Z'\-\s]+),?\s*` +
		`(\d+)\s+([A-Z][a-zA-Z\.\s\d]+?)\s+(\d+)(?:\s*,\s*(\d+))?\s*` +
		`\(([^)]+?)\s+(\d{4})\)`)

// ExtractCitations scans text left to right for case citations owned by
// the given chunk. Matches are deduplicated by exact full text within a
// single call; the same citation appearing in two chunks still yields
// two records.
func ExtractCitations(text string, owningChunkID uuid.UUID) []models.Citation {
	citations := make([]models.Citation, 0)
	seen := make(map[string]bool)

	for _, m := range citationPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		fullText := text[start:end]
		if seen[fullText] {
			continue
		}
		seen[fullText] = true

		contextStart := start - 100
		if contextStart < 0 {
			contextStart = 0
		}
		contextEnd := end + 100
		if contextEnd > len(text) {
			contextEnd = len(text)
		}

		c := models.Citation{
			ID:            uuid.New(),
			FullText:      fullText,
			CaseName:      submatchPtr(text, m, 1),
			Volume:        submatchPtr(text, m, 2),
			Reporter:      submatchPtr(text, m, 3),
			Page:          submatchPtr(text, m, 4),
			Pinpoint:      submatchPtr(text, m, 5),
			Court:         submatchPtr(text, m, 6),
			ParentChunkID: owningChunkID,
			Context:       strings.TrimSpace(text[contextStart:contextEnd]),
		}

		if yearStr := submatch(text, m, 7); yearStr != "" {
			if year, err := strconv.Atoi(yearStr); err == nil {
				c.Year = &year
			}
		}

		citations = append(citations, c)
	}

	return citations
}

func submatch(text string, indices []int, group int) string {
	lo, hi := indices[2*group], indices[2*group+1]
	if lo < 0 {
		return ""
	}
	return text[lo:hi]
}

func submatchPtr(text string, indices []int, group int) *string {
	s := strings.TrimSpace(submatch(text, indices, group))
	if s == "" {
		return nil
	}
	return &s
}
