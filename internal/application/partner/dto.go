package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawnshop/backend/internal/domain/partner"
)

// CreateCustomerRequest carries the fields for a new customer
type CreateCustomerRequest struct {
	CustomerRef string // optional, generated when empty
	FullName    string
	Phone       string
	Address     string
	GovID       string
	PhotoRef    string
}

// UpdateCustomerRequest carries the editable customer fields
type UpdateCustomerRequest struct {
	FullName string
	Phone    string
	Address  string
	GovID    string
	PhotoRef string
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	CustomerRef string    `json:"customer_ref"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	GovID       string    `json:"gov_id,omitempty"`
	PhotoRef    string    `json:"photo_ref,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToCustomerResponse maps a customer aggregate to its response
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		CustomerRef: c.CustomerRef,
		FullName:    c.FullName,
		Phone:       c.Phone,
		Address:     c.Address,
		GovID:       c.GovID,
		PhotoRef:    c.PhotoRef,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}
