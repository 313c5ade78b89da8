package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	lendingapp "github.com/pawnshop/backend/internal/application/lending"
	"github.com/pawnshop/backend/internal/interfaces/http/dto"
	"github.com/pawnshop/backend/internal/interfaces/http/middleware"
)

// LoanHandler handles installment loan API endpoints
type LoanHandler struct {
	BaseHandler
	loanService *lendingapp.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *lendingapp.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents a request to create a new loan
type CreateLoanRequest struct {
	CustomerID       string  `json:"customer_id" binding:"required,uuid"`
	Principal        float64 `json:"principal" binding:"required,gt=0"`
	RatePercent      float64 `json:"rate_percent" binding:"required,gt=0"`
	InstallmentCount int     `json:"installment_count" binding:"required,min=1,max=120"`
	Frequency        string  `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY"`
	StartDate        string  `json:"start_date" binding:"required,ddmmyyyy"`
	Notes            string  `json:"notes" binding:"max=1000"`
}

// ApplyPaymentRequest represents a request to settle one installment
type ApplyPaymentRequest struct {
	InstallmentNumber int     `json:"installment_number" binding:"required,min=1"`
	Amount            float64 `json:"amount" binding:"required,gt=0"`
	Fine              float64 `json:"fine" binding:"omitempty,gte=0"`
	Method            string  `json:"method" binding:"omitempty,max=50"`
	Notes             string  `json:"notes" binding:"max=500"`
}

// PartialPaymentRequest represents a payment toward the next unpaid
// installment, in any amount up to what it still owes
type PartialPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Fine   float64 `json:"fine" binding:"omitempty,gte=0"`
	Method string  `json:"method" binding:"omitempty,max=50"`
	Notes  string  `json:"notes" binding:"max=500"`
}

// UpdateLoanStatusRequest represents a manual status change
type UpdateLoanStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE COMPLETED CLOSED DEFAULTED"`
}

// LoanListQuery represents the loan list query parameters
type LoanListQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=ACTIVE COMPLETED CLOSED DEFAULTED"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Search     string `form:"search"`
	StartFrom  string `form:"start_from" binding:"omitempty,ddmmyyyy"`
	StartTo    string `form:"start_to" binding:"omitempty,ddmmyyyy"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create books a new loan with its generated schedule
func (h *LoanHandler) Create(c *gin.Context) {
	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	startDate, err := dto.ParseDate(req.StartDate)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	loan, err := h.loanService.Create(c.Request.Context(), lendingapp.CreateLoanRequest{
		CustomerID:       customerID,
		Principal:        decimal.NewFromFloat(req.Principal),
		RatePercent:      decimal.NewFromFloat(req.RatePercent),
		InstallmentCount: req.InstallmentCount,
		Frequency:        req.Frequency,
		StartDate:        startDate,
		Notes:            req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, loan)
}

// GetByID retrieves a loan by ID
func (h *LoanHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	loan, err := h.loanService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, loan)
}

// GetByNumber retrieves a loan by its loan number
func (h *LoanHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Loan number is required")
		return
	}

	loan, err := h.loanService.GetByLoanNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, loan)
}

// List retrieves loans with filtering and pagination
func (h *LoanHandler) List(c *gin.Context) {
	var query LoanListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := lendingapp.LoanListFilter{
		Status:   query.Status,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	}
	if query.CustomerID != "" {
		customerID, err := uuid.Parse(query.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &customerID
	}
	var err error
	if filter.StartFrom, err = dto.ParseOptionalDate(query.StartFrom); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if filter.StartTo, err = dto.ParseOptionalDate(query.StartTo); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	loans, total, err := h.loanService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, loans, total, pageOrDefault(query.Page), pageSizeOrDefault(query.PageSize))
}

// Stats aggregates the loan book by status
func (h *LoanHandler) Stats(c *gin.Context) {
	stats, err := h.loanService.Stats(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stats)
}

// ApplyPayment settles one installment on a loan
func (h *LoanHandler) ApplyPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.loanService.ApplyPayment(c.Request.Context(), id, lendingapp.ApplyPaymentRequest{
		InstallmentNumber: req.InstallmentNumber,
		Amount:            decimal.NewFromFloat(req.Amount),
		Fine:              decimal.NewFromFloat(req.Fine),
		Method:            req.Method,
		Notes:             req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// ApplyPartialPayment pays toward the next unpaid installment
func (h *LoanHandler) ApplyPartialPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	var req PartialPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.loanService.ApplyPartialPayment(c.Request.Context(), id, lendingapp.PartialPaymentRequest{
		Amount: decimal.NewFromFloat(req.Amount),
		Fine:   decimal.NewFromFloat(req.Fine),
		Method: req.Method,
		Notes:  req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// UndoPayment reverts the payment on one installment
func (h *LoanHandler) UndoPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}
	installmentNumber, err := strconv.Atoi(c.Param("number"))
	if err != nil || installmentNumber < 1 {
		h.BadRequest(c, "Invalid installment number")
		return
	}

	loan, err := h.loanService.UndoPayment(c.Request.Context(), id, installmentNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, loan)
}

// UpdateStatus changes the loan status manually
func (h *LoanHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	var req UpdateLoanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loan, err := h.loanService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, loan)
}

// Delete moves a loan to the trash bin
func (h *LoanHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	if err := h.loanService.MoveToTrash(c.Request.Context(), id, middleware.GetUsername(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
