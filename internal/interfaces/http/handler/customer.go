package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/pawnshop/backend/internal/application/partner"
	"github.com/pawnshop/backend/internal/interfaces/http/middleware"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	CustomerRef string `json:"customer_ref" binding:"omitempty,max=20"`
	FullName    string `json:"full_name" binding:"required,min=1,max=200"`
	Phone       string `json:"phone" binding:"required,min=6,max=20"`
	Address     string `json:"address" binding:"max=500"`
	GovID       string `json:"gov_id" binding:"max=50"`
	PhotoRef    string `json:"photo_ref" binding:"max=200"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	FullName string `json:"full_name" binding:"required,min=1,max=200"`
	Phone    string `json:"phone" binding:"required,min=6,max=20"`
	Address  string `json:"address" binding:"max=500"`
	GovID    string `json:"gov_id" binding:"max=50"`
	PhotoRef string `json:"photo_ref" binding:"max=200"`
}

// CustomerListQuery represents the customer list query parameters
type CustomerListQuery struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create registers a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), partnerapp.CreateCustomerRequest{
		CustomerRef: req.CustomerRef,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Address:     req.Address,
		GovID:       req.GovID,
		PhotoRef:    req.PhotoRef,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID retrieves a customer by ID
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// GetByRef retrieves a customer by its reference number
func (h *CustomerHandler) GetByRef(c *gin.Context) {
	ref := c.Param("ref")
	if ref == "" {
		h.BadRequest(c, "Customer reference is required")
		return
	}

	customer, err := h.customerService.GetByRef(c.Request.Context(), ref)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// List retrieves customers with filtering and pagination
func (h *CustomerHandler) List(c *gin.Context) {
	var query CustomerListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), partnerapp.CustomerListFilter{
		Search:   query.Search,
		Active:   query.Active,
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, pageOrDefault(query.Page), pageSizeOrDefault(query.PageSize))
}

// Update modifies a customer's details
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, partnerapp.UpdateCustomerRequest{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		GovID:    req.GovID,
		PhotoRef: req.PhotoRef,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// Activate reactivates a customer
func (h *CustomerHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.customerService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// Deactivate deactivates a customer
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.customerService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete moves a customer to the trash bin
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	if err := h.customerService.MoveToTrash(c.Request.Context(), id, middleware.GetUsername(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func pageOrDefault(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

func pageSizeOrDefault(pageSize int) int {
	if pageSize <= 0 {
		return 20
	}
	return pageSize
}
