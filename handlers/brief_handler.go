package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"briefbank-backend/parser"
	"briefbank-backend/repository"
	"briefbank-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BriefHandler handles HTTP requests for brief bank operations
type BriefHandler struct {
	ingestService *service.IngestService
	store         *repository.BriefStore
	maxFileSize   int64
}

// NewBriefHandler creates a new brief handler
func NewBriefHandler(ingestService *service.IngestService, store *repository.BriefStore) *BriefHandler {
	return &BriefHandler{
		ingestService: ingestService,
		store:         store,
		maxFileSize:   10 * 1024 * 1024, // 10MB
	}
}

// UploadBrief handles POST /api/briefs/upload
func (h *BriefHandler) UploadBrief(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": "File exceeds the 10MB limit",
			},
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".docx" && ext != ".txt" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNSUPPORTED_FILE_TYPE",
				"message": "Only .docx and .txt files are supported",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_READ_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_READ_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	var outcome *string
	if o := c.PostForm("outcome"); o != "" {
		outcome = &o
	}
	var legalIssues []string
	if issues := c.PostForm("legal_issues"); issues != "" {
		for _, issue := range strings.Split(issues, ",") {
			if issue = strings.TrimSpace(issue); issue != "" {
				legalIssues = append(legalIssues, issue)
			}
		}
	}

	result, err := h.ingestService.UploadBrief(c.Request.Context(), service.UploadBriefRequest{
		Filename:    fileHeader.Filename,
		Content:     content,
		LegalIssues: legalIssues,
		Outcome:     outcome,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "INGEST_FAILED"
		if errors.Is(err, parser.ErrUnsupportedFileType) || errors.Is(err, parser.ErrInvalidDocx) {
			status = http.StatusBadRequest
			code = "UNSUPPORTED_FILE_TYPE"
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

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"brief_id":    result.Brief.ID,
			"title":       result.Brief.Title,
			"court":       result.Brief.Court,
			"posture":     result.Brief.ProceduralPosture,
			"sections":    len(result.Brief.Sections),
			"chunk_count": result.ChunkCount,
		},
	})
}

// ListBriefs handles GET /api/briefs
func (h *BriefHandler) ListBriefs(c *gin.Context) {
	briefs := h.store.ListBriefs()

	summaries := make([]gin.H, 0, len(briefs))
	for _, b := range briefs {
		summaries = append(summaries, gin.H{
			"id":                 b.ID,
			"title":              b.Title,
			"filename":           b.Filename,
			"court":              b.Court,
			"jurisdiction":       b.Jurisdiction,
			"case_name":          b.CaseName,
			"procedural_posture": b.ProceduralPosture,
			"outcome":            b.Outcome,
			"section_count":      len(b.Sections),
			"ingested_at":        b.IngestedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"briefs": summaries,
			"total":  len(summaries),
		},
	})
}

// GetBrief handles GET /api/briefs/:id
func (h *BriefHandler) GetBrief(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid brief ID format",
			},
		})
		return
	}

	brief, err := h.store.GetBrief(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BRIEF_NOT_FOUND",
				"message": "Brief not found",
			},
		})
		return
	}

	chunks := h.store.ChunksForBrief(id)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"brief":  brief,
			"chunks": chunks,
		},
	})
}

// DeleteBrief handles DELETE /api/briefs/:id
func (h *BriefHandler) DeleteBrief(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid brief ID format",
			},
		})
		return
	}

	if err := h.ingestService.DeleteBrief(c.Request.Context(), service.DeleteBriefRequest{BriefID: id}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
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
