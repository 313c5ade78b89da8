package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	trashapp "github.com/pawnshop/backend/internal/application/trash"
	"github.com/pawnshop/backend/internal/interfaces/http/middleware"
)

// TrashHandler handles trash bin API endpoints
type TrashHandler struct {
	BaseHandler
	trashService *trashapp.Service
}

// NewTrashHandler creates a new TrashHandler
func NewTrashHandler(trashService *trashapp.Service) *TrashHandler {
	return &TrashHandler{trashService: trashService}
}

// List retrieves trash items, optionally filtered by type
func (h *TrashHandler) List(c *gin.Context) {
	items, err := h.trashService.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// Restore reconstructs a trashed record
func (h *TrashHandler) Restore(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid trash item ID format")
		return
	}

	item, err := h.trashService.Restore(c.Request.Context(), id, middleware.GetUsername(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes a trash item permanently
func (h *TrashHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid trash item ID format")
		return
	}

	if err := h.trashService.DeletePermanently(c.Request.Context(), id, middleware.GetUsername(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Empty removes every item from the bin
func (h *TrashHandler) Empty(c *gin.Context) {
	result, err := h.trashService.Empty(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Logs returns recent trash audit entries
func (h *TrashHandler) Logs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			h.BadRequest(c, "Limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	logs, err := h.trashService.Logs(c.Request.Context(), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, logs)
}
