package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/lending"
)

// CreateLoanRequest carries the fields for a new installment loan
type CreateLoanRequest struct {
	CustomerID       uuid.UUID
	Principal        decimal.Decimal
	RatePercent      decimal.Decimal
	InstallmentCount int
	Frequency        string
	StartDate        time.Time
	Notes            string
}

// ApplyPaymentRequest carries the fields for settling one installment
type ApplyPaymentRequest struct {
	InstallmentNumber int
	Amount            decimal.Decimal
	Fine              decimal.Decimal
	Method            string
	Notes             string
}

// PartialPaymentRequest carries the fields for a payment toward the
// next unpaid installment
type PartialPaymentRequest struct {
	Amount decimal.Decimal
	Fine   decimal.Decimal
	Method string
	Notes  string
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID               uuid.UUID            `json:"id"`
	LoanNumber       string               `json:"loan_number"`
	CustomerID       uuid.UUID            `json:"customer_id"`
	CustomerRef      string               `json:"customer_ref"`
	CustomerName     string               `json:"customer_name"`
	CustomerPhone    string               `json:"customer_phone"`
	Principal        decimal.Decimal      `json:"principal"`
	RatePercent      decimal.Decimal      `json:"rate_percent"`
	InstallmentCount int                  `json:"installment_count"`
	Frequency        string               `json:"frequency"`
	StartDate        time.Time            `json:"start_date"`
	TotalInterest    decimal.Decimal      `json:"total_interest"`
	TotalAmount      decimal.Decimal      `json:"total_amount"`
	EMI              decimal.Decimal      `json:"emi"`
	Status           string               `json:"status"`
	PaidAmount       decimal.Decimal      `json:"paid_amount"`
	Outstanding      decimal.Decimal      `json:"outstanding"`
	OverdueCount     int                  `json:"overdue_count"`
	Installments     lending.Installments `json:"installments"`
	Payments         lending.Payments     `json:"payments"`
	Notes            string               `json:"notes,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Version          int                  `json:"version"`
}

// ToLoanResponse maps a loan aggregate to its response
func ToLoanResponse(l *lending.Loan) LoanResponse {
	return LoanResponse{
		ID:               l.ID,
		LoanNumber:       l.LoanNumber,
		CustomerID:       l.CustomerID,
		CustomerRef:      l.CustomerRef,
		CustomerName:     l.CustomerName,
		CustomerPhone:    l.CustomerPhone,
		Principal:        l.Principal,
		RatePercent:      l.RatePercent,
		InstallmentCount: l.InstallmentCount,
		Frequency:        string(l.Frequency),
		StartDate:        l.StartDate,
		TotalInterest:    l.TotalInterest,
		TotalAmount:      l.TotalAmount,
		EMI:              l.EMI,
		Status:           string(l.Status),
		PaidAmount:       l.PaidTotal(),
		Outstanding:      l.OutstandingBalance(),
		OverdueCount:     l.OverdueCount(time.Now()),
		Installments:     l.Installments,
		Payments:         l.Payments,
		Notes:            l.Notes,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
		Version:          l.Version,
	}
}

// PaymentResponse represents an applied payment in API responses
type PaymentResponse struct {
	Payment lending.Payment `json:"payment"`
	Loan    LoanResponse    `json:"loan"`
}

// LoanListFilter represents filter options for the loan list
type LoanListFilter struct {
	Status     string
	CustomerID *uuid.UUID
	Search     string
	StartFrom  *time.Time
	StartTo    *time.Time
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// StatsResponse aggregates the loan book by status
type StatsResponse struct {
	TotalLoans       int64           `json:"total_loans"`
	ActiveLoans      int64           `json:"active_loans"`
	CompletedLoans   int64           `json:"completed_loans"`
	ClosedLoans      int64           `json:"closed_loans"`
	DefaultedLoans   int64           `json:"defaulted_loans"`
	TotalDisbursed   decimal.Decimal `json:"total_disbursed"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}
