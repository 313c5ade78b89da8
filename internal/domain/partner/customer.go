package partner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawnshop/backend/internal/domain/shared"
)

// Customer is the aggregate root for a shop customer
type Customer struct {
	shared.BaseAggregateRoot
	CustomerRef string // business-facing customer id, unique
	FullName    string
	Phone       string
	Address     string
	GovID       string
	PhotoRef    string // external reference, uploads are out of scope
	Active      bool
}

// NewCustomer creates an active customer
func NewCustomer(customerRef, fullName, phone, address, govID, photoRef string) (*Customer, error) {
	if customerRef == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_REF", "Customer id cannot be empty")
	}
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Full name is required")
	}
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Phone is required")
	}
	if address == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Address is required")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerRef:       customerRef,
		FullName:          fullName,
		Phone:             phone,
		Address:           address,
		GovID:             govID,
		PhotoRef:          photoRef,
		Active:            true,
	}, nil
}

// Update changes the customer's editable details
func (c *Customer) Update(fullName, phone, address, govID, photoRef string, now time.Time) error {
	if fullName == "" {
		return shared.NewDomainError("INVALID_INPUT", "Full name is required")
	}
	if phone == "" {
		return shared.NewDomainError("INVALID_INPUT", "Phone is required")
	}
	if address == "" {
		return shared.NewDomainError("INVALID_INPUT", "Address is required")
	}

	c.FullName = fullName
	c.Phone = phone
	c.Address = address
	c.GovID = govID
	c.PhotoRef = photoRef
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate(now time.Time) error {
	if !c.Active {
		return shared.NewDomainError("INVALID_STATE", "Customer is already inactive")
	}
	c.Active = false
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// Activate marks the customer active
func (c *Customer) Activate(now time.Time) error {
	if c.Active {
		return shared.NewDomainError("INVALID_STATE", "Customer is already active")
	}
	c.Active = true
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// CustomerFilter captures list/search criteria for customers
type CustomerFilter struct {
	Active   *bool
	Search   string // matches ref, name or phone
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// CustomerRepository is the persistence port for customers
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByRef(ctx context.Context, customerRef string) (*Customer, error)
	FindAll(ctx context.Context, filter CustomerFilter) ([]*Customer, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateCustomerRef(ctx context.Context) (string, error)
}
