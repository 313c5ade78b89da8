package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/pawnshop/backend/internal/application/report"
	"github.com/pawnshop/backend/internal/interfaces/http/dto"
)

// ReportHandler handles ledger and stock report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// LedgerQuery carries the ledger query date; defaults to today
type LedgerQuery struct {
	Date string `form:"date" binding:"omitempty,ddmmyyyy"`
}

// StockQuery represents the stock view query parameters
type StockQuery struct {
	Search    string `form:"search"`
	Date      string `form:"date" binding:"omitempty,ddmmyyyy"`
	Status    string `form:"status" binding:"omitempty,oneof=all active overdue closed inactive"`
	JewelType string `form:"jewel_type" binding:"omitempty,oneof=gold silver diamond"`
}

func (h *ReportHandler) ledgerDate(c *gin.Context) (time.Time, bool) {
	var query LedgerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return time.Time{}, false
	}
	if query.Date == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	date, err := dto.ParseDate(query.Date)
	if err != nil {
		h.HandleDomainError(c, err)
		return time.Time{}, false
	}
	return date, true
}

// GetLedger returns the stored ledger snapshot for a day
func (h *ReportHandler) GetLedger(c *gin.Context) {
	date, ok := h.ledgerDate(c)
	if !ok {
		return
	}

	ledger, err := h.reportService.GetLedger(c.Request.Context(), date)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ledger)
}

// RebuildLedger recomputes the ledger snapshot for a day
func (h *ReportHandler) RebuildLedger(c *gin.Context) {
	date, ok := h.ledgerDate(c)
	if !ok {
		return
	}

	result, err := h.reportService.RebuildLedger(c.Request.Context(), date)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// GetStockSummary returns the stored stock view with in-memory filters
func (h *ReportHandler) GetStockSummary(c *gin.Context) {
	var query StockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := reportapp.StockListFilter{
		Search:    query.Search,
		Status:    query.Status,
		JewelType: query.JewelType,
	}
	date, err := dto.ParseOptionalDate(query.Date)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	filter.Date = date

	summary, err := h.reportService.GetStockSummary(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// RebuildStockSummary recomputes the materialized stock view
func (h *ReportHandler) RebuildStockSummary(c *gin.Context) {
	result, err := h.reportService.RebuildStockSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}
