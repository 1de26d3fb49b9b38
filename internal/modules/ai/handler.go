package ai

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/notewise/core/internal/middleware"
	"github.com/notewise/core/internal/pkg/response"
)

// CandidateSource lists a user's notes as related-note candidates.
type CandidateSource interface {
	ListRefs(ctx context.Context, userID string) ([]NoteRef, error)
}

type Handler struct {
	gw    *Gateway
	notes CandidateSource
}

func NewHandler(gw *Gateway, notes CandidateSource) *Handler {
	return &Handler{gw: gw, notes: notes}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/ai")
	g.POST("/analyze", h.analyze)
	g.POST("/improve", h.improve)
	g.POST("/suggestions", h.suggestions)
	g.POST("/related", h.related)
}

type analyzeDTO struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

type contentDTO struct {
	Content string `json:"content"`
}

// POST /ai/analyze
func (h *Handler) analyze(c *gin.Context) {
	var dto analyzeDTO
	if err := c.ShouldBindJSON(&dto); err != nil || strings.TrimSpace(dto.Content) == "" {
		response.BadRequest(c, "Content is required")
		return
	}
	analysis := h.gw.Analyze(c.Request.Context(), dto.Content, dto.Title)
	response.OK(c, gin.H{"analysis": analysis})
}

// POST /ai/improve
func (h *Handler) improve(c *gin.Context) {
	var dto contentDTO
	if err := c.ShouldBindJSON(&dto); err != nil || strings.TrimSpace(dto.Content) == "" {
		response.BadRequest(c, "Content is required")
		return
	}
	improved := h.gw.Improve(c.Request.Context(), dto.Content)
	response.OK(c, gin.H{"improvedContent": improved})
}

// POST /ai/suggestions
func (h *Handler) suggestions(c *gin.Context) {
	var dto contentDTO
	if err := c.ShouldBindJSON(&dto); err != nil || strings.TrimSpace(dto.Content) == "" {
		response.BadRequest(c, "Content is required")
		return
	}
	suggestions := h.gw.Suggest(c.Request.Context(), dto.Content)
	response.OK(c, gin.H{"suggestions": suggestions})
}

// POST /ai/related, computed against all of the caller's notes.
func (h *Handler) related(c *gin.Context) {
	var dto contentDTO
	if err := c.ShouldBindJSON(&dto); err != nil || strings.TrimSpace(dto.Content) == "" {
		response.BadRequest(c, "Content is required")
		return
	}

	candidates, err := h.notes.ListRefs(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "Failed to find related notes")
		return
	}

	related := h.gw.FindRelated(c.Request.Context(), dto.Content, candidates)
	if related == nil {
		related = []RelatedNote{}
	}
	response.OK(c, gin.H{"relatedNotes": related})
}
