package lending

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/shared/valueobject"
)

// Loan is the aggregate root for an installment loan.
// The schedule and received payments are embedded so a single row
// carries the complete repayment state.
type Loan struct {
	shared.BaseAggregateRoot
	LoanNumber       string
	CustomerID       uuid.UUID
	CustomerRef      string
	CustomerName     string
	CustomerPhone    string
	Principal        decimal.Decimal
	RatePercent      decimal.Decimal
	InstallmentCount int
	Frequency        PaymentFrequency
	StartDate        time.Time
	TotalInterest    decimal.Decimal
	TotalAmount      decimal.Decimal
	EMI              decimal.Decimal
	Status           LoanStatus
	Installments     Installments
	Payments         Payments
	Notes            string
}

// NewLoan creates a loan and generates its installment schedule
func NewLoan(
	loanNumber string,
	customerID uuid.UUID,
	customerRef, customerName, customerPhone string,
	principal valueobject.Money,
	ratePercent decimal.Decimal,
	installmentCount int,
	frequency PaymentFrequency,
	startDate time.Time,
) (*Loan, error) {
	if loanNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOAN_NUMBER", "Loan number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if !principal.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Principal must be positive")
	}

	schedule, err := GenerateSchedule(principal.Amount(), ratePercent, installmentCount, frequency, startDate)
	if err != nil {
		return nil, err
	}

	loan := &Loan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LoanNumber:        loanNumber,
		CustomerID:        customerID,
		CustomerRef:       customerRef,
		CustomerName:      customerName,
		CustomerPhone:     customerPhone,
		Principal:         principal.Amount(),
		RatePercent:       ratePercent,
		InstallmentCount:  installmentCount,
		Frequency:         frequency,
		StartDate:         startDate,
		TotalInterest:     schedule.TotalInterest,
		TotalAmount:       schedule.TotalAmount,
		EMI:               schedule.EMI,
		Status:            LoanStatusActive,
		Installments:      schedule.Installments,
		Payments:          Payments{},
	}
	loan.AddDomainEvent(NewLoanCreatedEvent(loan))
	return loan, nil
}

// findInstallment returns the installment with the given number, or nil
func (l *Loan) findInstallment(number int) *Installment {
	for i := range l.Installments {
		if l.Installments[i].Number == number {
			return &l.Installments[i]
		}
	}
	return nil
}

// PaidTotal returns the sum of paid amounts across all installments
func (l *Loan) PaidTotal() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range l.Installments {
		total = total.Add(inst.PaidAmount)
	}
	return total
}

// OutstandingBalance returns the total amount still owed
func (l *Loan) OutstandingBalance() decimal.Decimal {
	return l.TotalAmount.Sub(l.PaidTotal())
}

// AllInstallmentsPaid returns true when every installment has been settled
func (l *Loan) AllInstallmentsPaid() bool {
	if len(l.Installments) == 0 {
		return false
	}
	for _, inst := range l.Installments {
		if !inst.IsPaid() {
			return false
		}
	}
	return true
}

// OverdueCount returns how many installments are unpaid past their due date
func (l *Loan) OverdueCount(now time.Time) int {
	count := 0
	for _, inst := range l.Installments {
		if inst.IsOverdue(now) {
			count++
		}
	}
	return count
}

// NextDue returns the first unpaid installment, or nil when all are paid
func (l *Loan) NextDue() *Installment {
	for i := range l.Installments {
		if !l.Installments[i].IsPaid() {
			inst := l.Installments[i]
			return &inst
		}
	}
	return nil
}

// ApplyPayment settles one installment in full.
//
// The amount must cover at least the EMI and must not exceed the
// outstanding balance. Overpayment within the balance is recorded on
// the installment; it never rolls over to later installments.
func (l *Loan) ApplyPayment(paymentID string, installmentNumber int, amount, fine decimal.Decimal, method, notes string, now time.Time) (*Payment, error) {
	if l.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot apply payment to a %s loan", l.Status))
	}

	inst := l.findInstallment(installmentNumber)
	if inst == nil {
		return nil, shared.NewDomainError("INSTALLMENT_NOT_FOUND",
			fmt.Sprintf("Installment %d not found", installmentNumber))
	}
	if inst.IsPaid() {
		return nil, shared.NewDomainError("INSTALLMENT_ALREADY_PAID",
			fmt.Sprintf("Installment %d is already paid", installmentNumber))
	}
	if amount.LessThan(inst.EMI) {
		return nil, shared.NewDomainError("INVALID_AMOUNT",
			"Payment amount must be at least the EMI amount")
	}
	if amount.GreaterThan(l.OutstandingBalance()) {
		return nil, shared.NewDomainError("INVALID_AMOUNT",
			"Payment amount exceeds the remaining loan balance")
	}
	if fine.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fine cannot be negative")
	}

	paidAt := now
	inst.Status = InstallmentStatusPaid
	// Accumulate on top of any partial credit so the installment's paid
	// amount stays equal to the sum of its payment records.
	inst.PaidAmount = inst.PaidAmount.Add(amount)
	inst.PaidDate = &paidAt

	payment := Payment{
		PaymentID:         paymentID,
		InstallmentNumber: installmentNumber,
		Amount:            amount,
		Fine:              fine,
		Total:             amount.Add(fine),
		Method:            method,
		Status:            PaymentStatusReceived,
		Date:              paidAt,
		Notes:             notes,
	}
	l.Payments = append(l.Payments, payment)

	if l.AllInstallmentsPaid() {
		l.Status = LoanStatusCompleted
	}
	l.UpdatedAt = now
	l.IncrementVersion()
	l.AddDomainEvent(NewPaymentAppliedEvent(l, payment))
	return &payment, nil
}

// ApplyPartialPayment puts an amount toward the next unpaid
// installment without requiring the full EMI.
//
// The amount accumulates on the installment: it stays PARTIAL until
// the paid total reaches the EMI, at which point it flips to PAID.
// The amount must not exceed what is still owed on that installment.
func (l *Loan) ApplyPartialPayment(paymentID string, amount, fine decimal.Decimal, method, notes string, now time.Time) (*Payment, error) {
	if l.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot apply payment to a %s loan", l.Status))
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if fine.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fine cannot be negative")
	}

	next := l.NextDue()
	if next == nil {
		return nil, shared.NewDomainError("INSTALLMENT_ALREADY_PAID",
			"All installments are already paid")
	}
	inst := l.findInstallment(next.Number)

	remaining := inst.EMI.Sub(inst.PaidAmount)
	if amount.GreaterThan(remaining) {
		return nil, shared.NewDomainError("INVALID_AMOUNT",
			"Payment amount exceeds the remaining installment amount")
	}

	inst.PaidAmount = inst.PaidAmount.Add(amount)
	if inst.PaidAmount.GreaterThanOrEqual(inst.EMI) {
		paidAt := now
		inst.Status = InstallmentStatusPaid
		inst.PaidDate = &paidAt
	} else {
		inst.Status = InstallmentStatusPartial
	}

	payment := Payment{
		PaymentID:         paymentID,
		InstallmentNumber: inst.Number,
		Amount:            amount,
		Fine:              fine,
		Total:             amount.Add(fine),
		Method:            method,
		Status:            PaymentStatusReceived,
		Date:              now,
		Notes:             notes,
	}
	l.Payments = append(l.Payments, payment)

	if l.AllInstallmentsPaid() {
		l.Status = LoanStatusCompleted
	}
	l.UpdatedAt = now
	l.IncrementVersion()
	l.AddDomainEvent(NewPaymentAppliedEvent(l, payment))
	return &payment, nil
}

// UndoPayment reverts a paid installment back to pending and removes
// its payment records. A completed loan becomes active again.
func (l *Loan) UndoPayment(installmentNumber int, now time.Time) error {
	inst := l.findInstallment(installmentNumber)
	if inst == nil {
		return shared.NewDomainError("INSTALLMENT_NOT_FOUND",
			fmt.Sprintf("Installment %d not found", installmentNumber))
	}
	if !inst.IsPaid() {
		return shared.NewDomainError("INSTALLMENT_NOT_PAID",
			fmt.Sprintf("Installment %d has no payment to undo", installmentNumber))
	}

	inst.Status = InstallmentStatusPending
	inst.PaidAmount = decimal.Zero
	inst.PaidDate = nil

	kept := make(Payments, 0, len(l.Payments))
	for _, p := range l.Payments {
		if p.InstallmentNumber != installmentNumber {
			kept = append(kept, p)
		}
	}
	l.Payments = kept

	if l.Status == LoanStatusCompleted {
		l.Status = LoanStatusActive
	}
	l.UpdatedAt = now
	l.IncrementVersion()
	l.AddDomainEvent(NewPaymentUndoneEvent(l, installmentNumber))
	return nil
}

// UpdateStatus performs an administrative status transition.
// Closing requires every installment to be settled first.
func (l *Loan) UpdateStatus(next LoanStatus, now time.Time) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Unknown loan status %q", next))
	}
	if next == l.Status {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Loan is already %s", l.Status))
	}
	if (next == LoanStatusClosed || next == LoanStatusCompleted) && !l.AllInstallmentsPaid() {
		return shared.NewDomainError("INVALID_STATE",
			"All installments must be paid before the loan can be closed")
	}

	l.Status = next
	l.UpdatedAt = now
	l.IncrementVersion()
	return nil
}

// RefreshOverdue flags pending installments past their due date.
// Partially paid installments keep their PARTIAL marker; OverdueCount
// still counts them.
func (l *Loan) RefreshOverdue(now time.Time) {
	for i := range l.Installments {
		if l.Installments[i].Status == InstallmentStatusPending && l.Installments[i].IsOverdue(now) {
			l.Installments[i].Status = InstallmentStatusOverdue
		}
	}
}
