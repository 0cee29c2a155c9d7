package repository

import (
	"fmt"
	"sort"
	"strings"

	"briefbank-backend/models"
)

// SearchResult is one ranked retrieval hit
type SearchResult struct {
	Chunk        *models.ArgumentChunk
	Score        float64
	MatchReasons []string
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "must": true,
	"shall": true, "to": true, "of": true, "in": true, "for": true,
	"on": true, "with": true, "at": true, "by": true, "from": true,
	"as": true, "into": true, "through": true, "during": true,
	"before": true, "after": true, "above": true, "below": true,
	"between": true, "under": true, "again": true, "further": true,
	"then": true, "once": true, "that": true, "this": true,
	"these": true, "those": true, "and": true, "but": true, "or": true,
	"nor": true, "so": true, "yet": true, "both": true, "each": true,
	"few": true, "more": true, "most": true, "other": true,
	"some": true, "such": true, "no": true, "not": true, "only": true,
	"own": true, "same": true, "than": true,
}

var legalTerms = map[string]bool{
	"jurisdiction": true, "motion": true, "dismiss": true,
	"summary": true, "judgment": true, "contract": true,
	"breach": true, "negligence": true, "fraud": true, "tort": true,
	"statute": true, "limitations": true, "standing": true,
	"preemption": true, "discovery": true, "evidence": true,
	"damages": true, "injunction": true, "relief": true,
}

const (
	// Results scoring at or below this are dropped; the comparison is
	// strictly greater-than.
	scoreThreshold = 0.05

	filterBoost = 1.2

	representationContentLimit = 2000
)

// representationText builds the composite text a chunk is scored on:
// its structural role, heading, venue metadata, and leading content.
func representationText(chunk *models.ArgumentChunk) string {
	parts := make([]string, 0, 6)

	switch {
	case chunk.IsLegalStandard:
		parts = append(parts, "LEGAL STANDARD:")
	case chunk.IsFactual:
		parts = append(parts, "FACTUAL BACKGROUND:")
	case chunk.SectionType == models.SectionArgument:
		parts = append(parts, "LEGAL ARGUMENT:")
	}

	if chunk.Heading != nil {
		parts = append(parts, "Topic: "+*chunk.Heading)
	}
	if chunk.Jurisdiction != nil {
		parts = append(parts, "Jurisdiction: "+*chunk.Jurisdiction)
	}
	if chunk.Court != nil {
		parts = append(parts, "Court: "+*chunk.Court)
	}
	if chunk.ProceduralPosture != nil {
		parts = append(parts, "Procedural posture: "+string(*chunk.ProceduralPosture))
	}

	content := chunk.Content
	if len(content) > representationContentLimit {
		content = content[:representationContentLimit]
	}
	parts = append(parts, "Content: "+content)

	return strings.Join(parts, "\n")
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if !stopWords[w] {
			set[w] = true
		}
	}
	return set
}

// computeSimilarity scores query against chunk text: Jaccard
// similarity over stop-word-filtered word sets, plus 0.1 per shared
// legal term, capped at 1.0.
func computeSimilarity(query, chunkText string) float64 {
	queryWords := tokenSet(query)
	chunkWords := tokenSet(chunkText)

	if len(queryWords) == 0 || len(chunkWords) == 0 {
		return 0
	}

	intersection := 0
	legalMatches := 0
	for w := range queryWords {
		if chunkWords[w] {
			intersection++
			if legalTerms[w] {
				legalMatches++
			}
		}
	}
	union := len(queryWords) + len(chunkWords) - intersection

	score := float64(intersection)/float64(union) + float64(legalMatches)*0.1
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Search ranks stored chunks against a query. Filters are strict on
// jurisdiction; a posture filter skips only chunks whose posture is
// set and differs. Surviving results scoring above the threshold get
// presentation boosts for matching filters, then are sorted descending
// by score, stable on ties.
func (s *BriefStore) Search(query string, jurisdiction *string, posture *models.ProceduralPosture, limit int) []SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]SearchResult, 0)

	for _, chunk := range s.searchableChunksLocked() {
		if jurisdiction != nil && (chunk.Jurisdiction == nil || *chunk.Jurisdiction != *jurisdiction) {
			continue
		}
		if posture != nil && chunk.ProceduralPosture != nil && *chunk.ProceduralPosture != *posture {
			continue
		}

		score := computeSimilarity(query, representationText(chunk))
		if score <= scoreThreshold {
			continue
		}

		reasons := make([]string, 0, 3)

		if jurisdiction != nil && chunk.Jurisdiction != nil && *chunk.Jurisdiction == *jurisdiction {
			reasons = append(reasons, fmt.Sprintf("Same jurisdiction: %s", *jurisdiction))
			score *= filterBoost
		}
		if posture != nil && chunk.ProceduralPosture != nil && *chunk.ProceduralPosture == *posture {
			reasons = append(reasons, fmt.Sprintf("Same procedural posture: %s", *posture))
			score *= filterBoost
		}
		if chunk.Heading != nil {
			reasons = append(reasons, fmt.Sprintf("Section: %s", *chunk.Heading))
		}

		results = append(results, SearchResult{
			Chunk:        chunk,
			Score:        score,
			MatchReasons: reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// searchableChunksLocked returns all chunks in a deterministic
// encounter order: briefs by ingestion time (id as tiebreak), then
// each brief's chunks in insertion order. Callers must hold at least
// the read lock.
func (s *BriefStore) searchableChunksLocked() []*models.ArgumentChunk {
	briefs := make([]*models.Brief, 0, len(s.snapshot.Briefs))
	for _, b := range s.snapshot.Briefs {
		briefs = append(briefs, b)
	}
	sort.Slice(briefs, func(i, j int) bool {
		if !briefs[i].IngestedAt.Equal(briefs[j].IngestedAt) {
			return briefs[i].IngestedAt.Before(briefs[j].IngestedAt)
		}
		return briefs[i].ID.String() < briefs[j].ID.String()
	})

	chunks := make([]*models.ArgumentChunk, 0, len(s.snapshot.Chunks))
	for _, b := range briefs {
		for _, id := range s.snapshot.ChunksByBrief[b.ID] {
			if c, ok := s.snapshot.Chunks[id]; ok {
				chunks = append(chunks, c)
			}
		}
	}
	return chunks
}
