package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pawnapp "github.com/pawnshop/backend/internal/application/pawn"
	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/interfaces/http/dto"
	"github.com/pawnshop/backend/internal/interfaces/http/middleware"
)

// VoucherHandler handles pledge voucher API endpoints
type VoucherHandler struct {
	BaseHandler
	voucherService *pawnapp.VoucherService
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(voucherService *pawnapp.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// JewelryItemRequest represents one pledged item line
type JewelryItemRequest struct {
	SNo      int    `json:"sno"`
	Category string `json:"category" binding:"required,max=100"`
	Name     string `json:"name" binding:"required,max=200"`
	Remarks  string `json:"remarks" binding:"max=500"`
	Stone    string `json:"stone" binding:"max=100"`
	Count    int    `json:"count" binding:"required,min=1"`
	Purity   string `json:"purity" binding:"max=50"`
}

// CreateVoucherRequest represents a request to create a pledge voucher
type CreateVoucherRequest struct {
	BillNo           string               `json:"bill_no" binding:"omitempty,max=30"`
	CustomerID       string               `json:"customer_id" binding:"required,uuid"`
	JewelType        string               `json:"jewel_type" binding:"required,oneof=gold silver diamond"`
	GrossWeight      float64              `json:"gross_weight" binding:"required,gt=0"`
	DeductionWeight  float64              `json:"deduction_weight" binding:"omitempty,gte=0"`
	NetWeight        float64              `json:"net_weight" binding:"required,gt=0"`
	FinalLoanAmount  float64              `json:"final_loan_amount" binding:"required,gt=0"`
	InterestRate     float64              `json:"interest_rate" binding:"required,gt=0"`
	ProcessingFees   float64              `json:"processing_fees" binding:"omitempty,gte=0"`
	DisbursementDate string               `json:"disbursement_date" binding:"required,ddmmyyyy"`
	DueDate          string               `json:"due_date" binding:"required,ddmmyyyy"`
	JewelryItems     []JewelryItemRequest `json:"jewelry_items" binding:"required,min=1,dive"`
	Notes            string               `json:"notes" binding:"max=1000"`
}

// CloseVoucherRequest represents the settlement inputs
type CloseVoucherRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,max=50"`
}

// InterestPaymentRequest represents one interest remittance
type InterestPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Months int     `json:"months" binding:"required,min=1"`
}

// AuctionRequest represents the auction transfer inputs
type AuctionRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// VoucherListQuery represents the voucher list query parameters
type VoucherListQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=ACTIVE PENDING CLOSED AUCTION_TRANSFERRED"`
	JewelType  string `form:"jewel_type" binding:"omitempty,oneof=gold silver diamond"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Search     string `form:"search"`
	DateFrom   string `form:"date_from" binding:"omitempty,ddmmyyyy"`
	DateTo     string `form:"date_to" binding:"omitempty,ddmmyyyy"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create writes a new pledge voucher
func (h *VoucherHandler) Create(c *gin.Context) {
	var req CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}
	disbursementDate, err := dto.ParseDate(req.DisbursementDate)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	dueDate, err := dto.ParseDate(req.DueDate)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make(pawn.JewelryItems, len(req.JewelryItems))
	for i, item := range req.JewelryItems {
		items[i] = pawn.JewelryItem{
			SNo:      item.SNo,
			Category: item.Category,
			Name:     item.Name,
			Remarks:  item.Remarks,
			Stone:    item.Stone,
			Count:    item.Count,
			Purity:   item.Purity,
		}
	}

	voucher, err := h.voucherService.Create(c.Request.Context(), pawnapp.CreateVoucherRequest{
		BillNo:           req.BillNo,
		CustomerID:       customerID,
		JewelType:        req.JewelType,
		GrossWeight:      decimal.NewFromFloat(req.GrossWeight),
		DeductionWeight:  decimal.NewFromFloat(req.DeductionWeight),
		NetWeight:        decimal.NewFromFloat(req.NetWeight),
		FinalLoanAmount:  decimal.NewFromFloat(req.FinalLoanAmount),
		InterestRate:     decimal.NewFromFloat(req.InterestRate),
		ProcessingFees:   decimal.NewFromFloat(req.ProcessingFees),
		DisbursementDate: disbursementDate,
		DueDate:          dueDate,
		JewelryItems:     items,
		Notes:            req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, voucher)
}

// GetByID retrieves a voucher by ID
func (h *VoucherHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	voucher, err := h.voucherService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, voucher)
}

// GetByBillNo retrieves a voucher by its bill number
func (h *VoucherHandler) GetByBillNo(c *gin.Context) {
	billNo := c.Param("billNo")
	if billNo == "" {
		h.BadRequest(c, "Bill number is required")
		return
	}

	voucher, err := h.voucherService.GetByBillNo(c.Request.Context(), billNo)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, voucher)
}

// List retrieves vouchers with filtering and pagination
func (h *VoucherHandler) List(c *gin.Context) {
	var query VoucherListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := pawnapp.VoucherListFilter{
		Status:    query.Status,
		JewelType: query.JewelType,
		Search:    query.Search,
		Page:      query.Page,
		PageSize:  query.PageSize,
		OrderBy:   query.OrderBy,
		OrderDir:  query.OrderDir,
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
	if filter.DateFrom, err = dto.ParseOptionalDate(query.DateFrom); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if filter.DateTo, err = dto.ParseOptionalDate(query.DateTo); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	vouchers, total, err := h.voucherService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, vouchers, total, pageOrDefault(query.Page), pageSizeOrDefault(query.PageSize))
}

// PreviewSettlement computes the close figures without closing
func (h *VoucherHandler) PreviewSettlement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	settlement, err := h.voucherService.PreviewSettlement(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, settlement)
}

// Close settles a voucher
func (h *VoucherHandler) Close(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	var req CloseVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.voucherService.Close(c.Request.Context(), id, pawnapp.CloseVoucherRequest{
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// RevertClosure reopens a closed voucher
func (h *VoucherHandler) RevertClosure(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	voucher, err := h.voucherService.RevertClosure(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, voucher)
}

// TransferToAuction moves an unredeemed voucher to auction
func (h *VoucherHandler) TransferToAuction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	var req AuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	voucher, err := h.voucherService.TransferToAuction(c.Request.Context(), id, pawnapp.AuctionRequest{
		Notes: req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, voucher)
}

// RevertAuction returns an auctioned voucher to active status
func (h *VoucherHandler) RevertAuction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	voucher, err := h.voucherService.RevertAuction(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, voucher)
}

// RecordInterestPayment appends an interest remittance
func (h *VoucherHandler) RecordInterestPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	var req InterestPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	voucher, err := h.voucherService.RecordInterestPayment(c.Request.Context(), id, pawnapp.InterestPaymentRequest{
		Amount: decimal.NewFromFloat(req.Amount),
		Months: req.Months,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, voucher)
}

// Delete moves a voucher to the trash bin
func (h *VoucherHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	if err := h.voucherService.MoveToTrash(c.Request.Context(), id, middleware.GetUsername(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
