package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"briefbank-backend/exporter"
	"briefbank-backend/models"
	"briefbank-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DraftHandler handles HTTP requests for draft briefs
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// CreateDraftRequest represents the request body for creating a draft
type CreateDraftRequest struct {
	CaseName          string   `json:"case_name" binding:"required"`
	Court             string   `json:"court"`
	Jurisdiction      string   `json:"jurisdiction"`
	ProceduralPosture string   `json:"procedural_posture" binding:"required"`
	LegalIssues       []string `json:"legal_issues"`
	FactSummary       string   `json:"fact_summary"`
	DesiredOutcome    string   `json:"desired_outcome"`
}

// CreateDraft handles POST /api/drafts
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	var req CreateDraftRequest
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

	matter := models.NewMatterRequest{
		CaseName:          req.CaseName,
		Court:             req.Court,
		Jurisdiction:      req.Jurisdiction,
		ProceduralPosture: models.ProceduralPosture(req.ProceduralPosture),
		LegalIssues:       req.LegalIssues,
		FactSummary:       req.FactSummary,
		DesiredOutcome:    req.DesiredOutcome,
	}

	result, err := h.draftService.CreateDraft(c.Request.Context(), service.CreateDraftRequest{Matter: matter})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	retrieved := make([]gin.H, 0, len(result.Retrieved))
	for i, r := range result.Retrieved {
		if i >= 10 {
			break
		}
		preview := r.Chunk.Content
		if len(preview) > 300 {
			preview = preview[:300]
		}
		retrieved = append(retrieved, gin.H{
			"chunk_id":        r.Chunk.ID,
			"heading":         r.Chunk.Heading,
			"content_preview": preview,
			"score":           r.Score,
			"match_reasons":   r.MatchReasons,
			"source_brief":    r.SourceBriefTitle,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"draft_id":          result.Draft.ID,
			"status":            result.Draft.Status,
			"outline":           result.Draft.Outline,
			"retrieved_sources": retrieved,
		},
	})
}

// ListDrafts handles GET /api/drafts
func (h *DraftHandler) ListDrafts(c *gin.Context) {
	result, err := h.draftService.ListDrafts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	summaries := make([]gin.H, 0, len(result.Drafts))
	for _, d := range result.Drafts {
		summaries = append(summaries, gin.H{
			"draft_id":           d.ID,
			"case_name":          d.Matter.CaseName,
			"procedural_posture": d.Matter.ProceduralPosture,
			"status":             d.Status,
			"outline_sections":   len(d.Outline),
			"generated_sections": len(d.Sections),
			"created_at":         d.CreatedAt,
			"updated_at":         d.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"drafts": summaries,
			"total":  len(summaries),
		},
	})
}

// GetDraft handles GET /api/drafts/:id
func (h *DraftHandler) GetDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid draft ID format",
			},
		})
		return
	}

	result, err := h.draftService.GetDraft(c.Request.Context(), service.GetDraftRequest{DraftID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DRAFT_NOT_FOUND",
				"message": "Draft not found",
			},
		})
		return
	}

	draft := result.Draft

	outline := make([]gin.H, 0, len(draft.Outline))
	for _, s := range draft.Outline {
		generated := false
		for _, gs := range draft.Sections {
			if gs.SectionID == s.ID {
				generated = true
				break
			}
		}
		outline = append(outline, gin.H{
			"id":          s.ID,
			"heading":     s.Heading,
			"description": s.Description,
			"order":       s.Order,
			"generated":   generated,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"draft_id":   draft.ID,
			"status":     draft.Status,
			"matter":     draft.Matter,
			"outline":    outline,
			"sections":   draft.Sections,
			"created_at": draft.CreatedAt,
			"updated_at": draft.UpdatedAt,
		},
	})
}

// DeleteDraft handles DELETE /api/drafts/:id
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid draft ID format",
			},
		})
		return
	}

	if err := h.draftService.DeleteDraft(c.Request.Context(), service.DeleteDraftRequest{DraftID: id}); err != nil {
		status := http.StatusInternalServerError
		code := "DELETE_FAILED"
		if errors.Is(err, service.ErrDraftNotFound) {
			status = http.StatusNotFound
			code = "DRAFT_NOT_FOUND"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted": id,
		},
	})
}

// UpdateOutlineRequest represents the request body for replacing an
// outline
type UpdateOutlineRequest struct {
	Sections []OutlineSectionRequest `json:"sections" binding:"required"`
}

// OutlineSectionRequest represents one outline section in an update
type OutlineSectionRequest struct {
	ID           *uuid.UUID  `json:"id"`
	Heading      string      `json:"heading" binding:"required"`
	Description  string      `json:"description"`
	SourceChunks []uuid.UUID `json:"source_chunks"`
	Order        int         `json:"order"`
}

// UpdateOutline handles PUT /api/drafts/:id/outline
func (h *DraftHandler) UpdateOutline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid draft ID format",
			},
		})
		return
	}

	var req UpdateOutlineRequest
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

	sections := make(models.OutlineSections, 0, len(req.Sections))
	for _, s := range req.Sections {
		section := models.OutlineSection{
			Heading:      s.Heading,
			Description:  s.Description,
			SourceChunks: s.SourceChunks,
			Order:        s.Order,
		}
		if s.ID != nil {
			section.ID = *s.ID
		}
		sections = append(sections, section)
	}

	result, err := h.draftService.UpdateOutline(c.Request.Context(), service.UpdateOutlineRequest{
		DraftID:  id,
		Sections: sections,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "UPDATE_FAILED"
		if errors.Is(err, service.ErrDraftNotFound) {
			status = http.StatusNotFound
			code = "DRAFT_NOT_FOUND"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"outline_sections": len(result.Draft.Outline),
		},
	})
}

// GenerateSectionRequest represents the request body for generating a
// section, optionally with extra source chunks for regeneration
type GenerateSectionRequest struct {
	AdditionalSources []uuid.UUID `json:"additional_sources"`
}

// GenerateSection handles POST /api/drafts/:id/generate/:sectionId
func (h *DraftHandler) GenerateSection(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid draft ID format",
			},
		})
		return
	}

	sectionID, err := uuid.Parse(c.Param("sectionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SECTION_ID",
				"message": "Invalid section ID format",
			},
		})
		return
	}

	var req GenerateSectionRequest
	if c.Request.ContentLength > 0 {
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
	}

	result, err := h.draftService.GenerateSection(c.Request.Context(), service.GenerateSectionRequest{
		DraftID:           draftID,
		SectionID:         sectionID,
		AdditionalSources: req.AdditionalSources,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "GENERATION_FAILED"
		switch {
		case errors.Is(err, service.ErrDraftNotFound):
			status = http.StatusNotFound
			code = "DRAFT_NOT_FOUND"
		case errors.Is(err, service.ErrSectionNotFound):
			status = http.StatusNotFound
			code = "SECTION_NOT_FOUND"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	// Run the slow generation work in the background; the client polls
	// the job endpoint for progress
	jobID := result.JobID
	if !result.AlreadyRunning {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := h.draftService.ProcessSection(ctx, jobID); err != nil {
				log.Printf("Section generation job %s failed: %v", jobID, err)
			}
		}()
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id": jobID,
		},
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *DraftHandler) GetJobStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	result, err := h.draftService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{JobID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "JOB_NOT_FOUND",
				"message": "Generation job not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}

// ExportDraft handles POST /api/drafts/:id/export
func (h *DraftHandler) ExportDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid draft ID format",
			},
		})
		return
	}

	result, err := h.draftService.GetDraft(c.Request.Context(), service.GetDraftRequest{DraftID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DRAFT_NOT_FOUND",
				"message": "Draft not found",
			},
		})
		return
	}

	data, err := exporter.ExportDraft(result.Draft)
	if err != nil {
		status := http.StatusInternalServerError
		code := "EXPORT_FAILED"
		if errors.Is(err, exporter.ErrNoSections) {
			status = http.StatusBadRequest
			code = "NO_SECTIONS"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	filename := exporter.ExportFilename(result.Draft)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", data)
}
