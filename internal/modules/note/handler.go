package note

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/notewise/core/internal/middleware"
	"github.com/notewise/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	notes := rg.Group("/notes")

	notes.GET("", h.list)
	notes.POST("", h.create)
	notes.GET("/:id", h.getByID)
	notes.PUT("/:id", h.update)
	notes.PATCH("/:id", h.patchTags)
	notes.DELETE("/:id", h.delete)
}

// GET /notes
func (h *Handler) list(c *gin.Context) {
	notes, err := h.svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "Failed to list notes")
		return
	}
	response.OK(c, gin.H{"notes": notes})
}

// POST /notes
func (h *Handler) create(c *gin.Context) {
	var dto CreateNoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Missing fields")
		return
	}

	created, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), dto)
	if err != nil {
		if err == ErrMissingFields {
			response.BadRequest(c, "Missing fields")
			return
		}
		response.InternalError(c, "Failed to create note")
		return
	}
	response.Created(c, gin.H{"note": created})
}

// GET /notes/:id
func (h *Handler) getByID(c *gin.Context) {
	n, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "Failed to load note")
		return
	}
	if n == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"note": n})
}

// PUT /notes/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdateNoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil ||
		strings.TrimSpace(dto.Title) == "" || strings.TrimSpace(dto.Content) == "" {
		response.BadRequest(c, "Missing fields")
		return
	}

	n, err := h.svc.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), dto)
	if err != nil {
		response.InternalError(c, "Failed to update note")
		return
	}
	if n == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"note": n})
}

// PATCH /notes/:id updates tags/topics only, omitted fields untouched.
func (h *Handler) patchTags(c *gin.Context) {
	var dto PatchTagsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid body")
		return
	}

	n, err := h.svc.PatchTags(c.Request.Context(), c.Param("id"), middleware.UserID(c), dto)
	if err != nil {
		response.InternalError(c, "Failed to update tags/topics")
		return
	}
	if n == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"note": n})
}

// DELETE /notes/:id
func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "Failed to delete note")
		return
	}
	if !ok {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"ok": true})
}
