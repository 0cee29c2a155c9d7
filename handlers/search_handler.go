package handlers

import (
	"net/http"

	"briefbank-backend/models"
	"briefbank-backend/repository"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles HTTP requests for brief bank search
type SearchHandler struct {
	store *repository.BriefStore
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(store *repository.BriefStore) *SearchHandler {
	return &SearchHandler{store: store}
}

// SearchRequest represents the request body for a search
type SearchRequest struct {
	Query             string  `json:"query" binding:"required"`
	Jurisdiction      *string `json:"jurisdiction"`
	ProceduralPosture *string `json:"procedural_posture"`
	Limit             int     `json:"limit"`
}

// Search handles POST /api/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if req.Limit <= 0 {
		req.Limit = 10
	}

	var posture *models.ProceduralPosture
	if req.ProceduralPosture != nil && *req.ProceduralPosture != "" {
		p := models.ProceduralPosture(*req.ProceduralPosture)
		posture = &p
	}

	results := h.store.Search(req.Query, req.Jurisdiction, posture, req.Limit)

	hits := make([]gin.H, 0, len(results))
	for _, r := range results {
		var sourceBrief *string
		if brief, err := h.store.GetBrief(r.Chunk.BriefID); err == nil {
			sourceBrief = brief.Title
		}
		hits = append(hits, gin.H{
			"chunk_id":      r.Chunk.ID,
			"brief_id":      r.Chunk.BriefID,
			"heading":       r.Chunk.Heading,
			"content":       r.Chunk.Content,
			"section_type":  r.Chunk.SectionType,
			"court":         r.Chunk.Court,
			"jurisdiction":  r.Chunk.Jurisdiction,
			"score":         r.Score,
			"match_reasons": r.MatchReasons,
			"source_brief":  sourceBrief,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"results": hits,
			"total":   len(hits),
		},
	})
}
