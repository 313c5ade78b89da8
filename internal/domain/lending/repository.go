package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanFilter captures list/search criteria for loans
type LoanFilter struct {
	Status     *LoanStatus
	CustomerID *uuid.UUID
	Search     string // matches loan number, customer name, ref or phone
	StartFrom  *time.Time
	StartTo    *time.Time
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// LoanStats aggregates counts and amount totals by status
type LoanStats struct {
	TotalLoans       int64
	ActiveLoans      int64
	CompletedLoans   int64
	ClosedLoans      int64
	DefaultedLoans   int64
	TotalDisbursed   decimal.Decimal
	TotalCollected   decimal.Decimal
	TotalOutstanding decimal.Decimal
}

// LoanRepository is the persistence port for loans
type LoanRepository interface {
	Create(ctx context.Context, loan *Loan) error
	Save(ctx context.Context, loan *Loan) error
	// SaveWithLock persists the loan only if the stored version matches,
	// guarding concurrent payment application.
	SaveWithLock(ctx context.Context, loan *Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindByLoanNumber(ctx context.Context, loanNumber string) (*Loan, error)
	FindAll(ctx context.Context, filter LoanFilter) ([]*Loan, int64, error)
	FindActive(ctx context.Context) ([]*Loan, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*LoanStats, error)
	GenerateLoanNumber(ctx context.Context) (string, error)
	GeneratePaymentID(ctx context.Context) (string, error)
}
