package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	collectionapp "github.com/pawnshop/backend/internal/application/collection"
)

// CollectionHandler handles collection desk API endpoints
type CollectionHandler struct {
	BaseHandler
	collectionService *collectionapp.Service
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService *collectionapp.Service) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// CollectionListQuery represents the collection list query parameters
type CollectionListQuery struct {
	Priority string `form:"priority" binding:"omitempty,oneof=CRITICAL HIGH MEDIUM"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// List retrieves collection records ordered by urgency
func (h *CollectionHandler) List(c *gin.Context) {
	var query CollectionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	records, total, err := h.collectionService.List(c.Request.Context(), collectionapp.ListFilter{
		Priority: query.Priority,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, pageOrDefault(query.Page), pageSizeOrDefault(query.PageSize))
}

// GetByLoanID retrieves the collection record for one loan
func (h *CollectionHandler) GetByLoanID(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("loanId"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	record, err := h.collectionService.GetByLoanID(c.Request.Context(), loanID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, record)
}

// Resync rebuilds the collection record from its loan
func (h *CollectionHandler) Resync(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("loanId"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	record, err := h.collectionService.Resync(c.Request.Context(), loanID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, record)
}

// SyncAll refreshes every active loan's collection record
func (h *CollectionHandler) SyncAll(c *gin.Context) {
	result, err := h.collectionService.SyncAll(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Dashboard summarizes the collections desk workload
func (h *CollectionHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.collectionService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dashboard)
}
