package collection

import (
	"context"

	"github.com/google/uuid"
)

// Filter captures list criteria for collection records
type Filter struct {
	Priority *Priority
	Search   string // matches loan number, customer name, ref or phone
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// Repository is the persistence port for collection records
type Repository interface {
	Create(ctx context.Context, c *Collection) error
	Save(ctx context.Context, c *Collection) error
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)
	FindByLoanID(ctx context.Context, loanID uuid.UUID) (*Collection, error)
	FindAll(ctx context.Context, filter Filter) ([]*Collection, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByLoanID(ctx context.Context, loanID uuid.UUID) error
}
