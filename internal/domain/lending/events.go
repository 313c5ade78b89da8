package lending

import (
	"github.com/pawnshop/backend/internal/domain/shared"
)

const aggregateTypeLoan = "Loan"

// LoanCreatedEvent is raised when a new loan is disbursed
type LoanCreatedEvent struct {
	shared.BaseDomainEvent
	LoanNumber   string
	CustomerName string
}

// NewLoanCreatedEvent creates a LoanCreatedEvent
func NewLoanCreatedEvent(l *Loan) LoanCreatedEvent {
	return LoanCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("loan.created", l.ID, aggregateTypeLoan),
		LoanNumber:      l.LoanNumber,
		CustomerName:    l.CustomerName,
	}
}

// PaymentAppliedEvent is raised when an installment payment is received
type PaymentAppliedEvent struct {
	shared.BaseDomainEvent
	LoanNumber        string
	PaymentID         string
	InstallmentNumber int
}

// NewPaymentAppliedEvent creates a PaymentAppliedEvent
func NewPaymentAppliedEvent(l *Loan, p Payment) PaymentAppliedEvent {
	return PaymentAppliedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("loan.payment_applied", l.ID, aggregateTypeLoan),
		LoanNumber:        l.LoanNumber,
		PaymentID:         p.PaymentID,
		InstallmentNumber: p.InstallmentNumber,
	}
}

// PaymentUndoneEvent is raised when an installment payment is reverted
type PaymentUndoneEvent struct {
	shared.BaseDomainEvent
	LoanNumber        string
	InstallmentNumber int
}

// NewPaymentUndoneEvent creates a PaymentUndoneEvent
func NewPaymentUndoneEvent(l *Loan, installmentNumber int) PaymentUndoneEvent {
	return PaymentUndoneEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("loan.payment_undone", l.ID, aggregateTypeLoan),
		LoanNumber:        l.LoanNumber,
		InstallmentNumber: installmentNumber,
	}
}
