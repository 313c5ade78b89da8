package collection

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// Priority ranks how urgently a collection needs follow-up
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
)

// PriorityFor derives the follow-up priority from the overdue count
func PriorityFor(overdueCount int) Priority {
	switch {
	case overdueCount > 2:
		return PriorityCritical
	case overdueCount > 0:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Collection is a denormalized read model of a loan's repayment state,
// kept for the collections desk. The installment and payment arrays are
// copied from the loan at creation (and on explicit resync); summary
// fields are refreshed on every sync.
type Collection struct {
	shared.BaseAggregateRoot
	LoanID            uuid.UUID
	LoanNumber        string
	CustomerID        uuid.UUID
	CustomerRef       string
	CustomerName      string
	CustomerPhone     string
	LoanStatus        lending.LoanStatus
	TotalAmount       decimal.Decimal
	EMI               decimal.Decimal
	TotalInstallments int
	PaidCount         int
	PendingCount      int
	OverdueCount      int
	PaidAmount        decimal.Decimal
	OutstandingAmount decimal.Decimal
	NextDueNumber     int
	NextDueDate       *time.Time
	NextDueAmount     decimal.Decimal
	Priority          Priority
	Installments      lending.Installments
	Payments          lending.Payments
	LastSyncedAt      time.Time
}

// NewFromLoan builds a collection record snapshotting the loan state
func NewFromLoan(loan *lending.Loan, now time.Time) (*Collection, error) {
	if loan == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Loan is required")
	}

	c := &Collection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LoanID:            loan.ID,
		LoanNumber:        loan.LoanNumber,
		CustomerID:        loan.CustomerID,
		CustomerRef:       loan.CustomerRef,
		CustomerName:      loan.CustomerName,
		CustomerPhone:     loan.CustomerPhone,
		Installments:      append(lending.Installments{}, loan.Installments...),
		Payments:          append(lending.Payments{}, loan.Payments...),
	}
	c.SyncSummary(loan, now)
	return c, nil
}

// SyncSummary refreshes the summary fields from the loan. The copied
// installment and payment arrays are left untouched; use Resync to
// replace them.
func (c *Collection) SyncSummary(loan *lending.Loan, now time.Time) {
	c.LoanStatus = loan.Status
	c.TotalAmount = loan.TotalAmount
	c.EMI = loan.EMI
	c.TotalInstallments = len(loan.Installments)

	paid := 0
	for _, inst := range loan.Installments {
		if inst.IsPaid() {
			paid++
		}
	}
	c.PaidCount = paid
	c.PendingCount = len(loan.Installments) - paid
	c.PaidAmount = loan.PaidTotal()
	c.OutstandingAmount = loan.OutstandingBalance()

	if next := loan.NextDue(); next != nil {
		due := next.DueDate
		c.NextDueNumber = next.Number
		c.NextDueDate = &due
		c.NextDueAmount = next.EMI
	} else {
		c.NextDueNumber = 0
		c.NextDueDate = nil
		c.NextDueAmount = decimal.Zero
	}

	c.RefreshDerived(now)
	c.LastSyncedAt = now
	c.UpdatedAt = now
}

// Resync replaces the copied arrays and refreshes the summary
func (c *Collection) Resync(loan *lending.Loan, now time.Time) {
	c.Installments = append(lending.Installments{}, loan.Installments...)
	c.Payments = append(lending.Payments{}, loan.Payments...)
	c.SyncSummary(loan, now)
}

// RefreshDerived recomputes overdue count and priority from the copied
// installments. Called on every persist so the priority never goes
// stale even when the arrays do.
func (c *Collection) RefreshDerived(now time.Time) {
	overdue := 0
	for _, inst := range c.Installments {
		if inst.IsOverdue(now) {
			overdue++
		}
	}
	c.OverdueCount = overdue
	c.Priority = PriorityFor(overdue)
}
