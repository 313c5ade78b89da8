package pawn

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/pawn"
)

// CreateVoucherRequest carries the fields for a new pledge voucher
type CreateVoucherRequest struct {
	BillNo           string // optional, generated when empty
	CustomerID       uuid.UUID
	JewelType        string
	GrossWeight      decimal.Decimal
	DeductionWeight  decimal.Decimal
	NetWeight        decimal.Decimal
	FinalLoanAmount  decimal.Decimal
	InterestRate     decimal.Decimal
	ProcessingFees   decimal.Decimal
	DisbursementDate time.Time
	DueDate          time.Time
	JewelryItems     pawn.JewelryItems
	Notes            string
}

// CloseVoucherRequest carries the close settlement inputs
type CloseVoucherRequest struct {
	PaymentMethod string
}

// InterestPaymentRequest carries one interest remittance
type InterestPaymentRequest struct {
	Amount decimal.Decimal
	Months int
}

// AuctionRequest carries the auction transfer inputs
type AuctionRequest struct {
	Notes string
}

// VoucherResponse represents a voucher in API responses
type VoucherResponse struct {
	ID                uuid.UUID             `json:"id"`
	BillNo            string                `json:"bill_no"`
	CustomerID        uuid.UUID             `json:"customer_id"`
	CustomerRef       string                `json:"customer_ref"`
	CustomerName      string                `json:"customer_name"`
	CustomerPhone     string                `json:"customer_phone"`
	JewelType         string                `json:"jewel_type"`
	GrossWeight       decimal.Decimal       `json:"gross_weight"`
	DeductionWeight   decimal.Decimal       `json:"deduction_weight"`
	NetWeight         decimal.Decimal       `json:"net_weight"`
	LoanAmount        decimal.Decimal       `json:"loan_amount"`
	FinalLoanAmount   decimal.Decimal       `json:"final_loan_amount"`
	InterestRate      decimal.Decimal       `json:"interest_rate"`
	InterestAmount    decimal.Decimal       `json:"interest_amount"`
	OverallLoanAmount decimal.Decimal       `json:"overall_loan_amount"`
	ProcessingFees    decimal.Decimal       `json:"processing_fees"`
	DisbursementDate  time.Time             `json:"disbursement_date"`
	DueDate           time.Time             `json:"due_date"`
	ClosedDate        *time.Time            `json:"closed_date,omitempty"`
	Status            string                `json:"status"`
	MonthsPaid        int                   `json:"months_paid"`
	TotalInterestPaid decimal.Decimal       `json:"total_interest_paid"`
	FinalAmountPaid   decimal.Decimal       `json:"final_amount_paid"`
	PaymentMethod     string                `json:"payment_method"`
	AuctionDate       *time.Time            `json:"auction_date,omitempty"`
	AuctionNotes      string                `json:"auction_notes,omitempty"`
	PaymentHistory    pawn.InterestPayments `json:"payment_history"`
	JewelryItems      pawn.JewelryItems     `json:"jewelry_items"`
	Notes             string                `json:"notes,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Version           int                   `json:"version"`
}

// ToVoucherResponse maps a voucher aggregate to its response
func ToVoucherResponse(v *pawn.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:                v.ID,
		BillNo:            v.BillNo,
		CustomerID:        v.CustomerID,
		CustomerRef:       v.CustomerRef,
		CustomerName:      v.CustomerName,
		CustomerPhone:     v.CustomerPhone,
		JewelType:         string(v.JewelType),
		GrossWeight:       v.GrossWeight,
		DeductionWeight:   v.DeductionWeight,
		NetWeight:         v.NetWeight,
		LoanAmount:        v.LoanAmount,
		FinalLoanAmount:   v.FinalLoanAmount,
		InterestRate:      v.InterestRate,
		InterestAmount:    v.InterestAmount,
		OverallLoanAmount: v.OverallLoanAmount,
		ProcessingFees:    v.ProcessingFees,
		DisbursementDate:  v.DisbursementDate,
		DueDate:           v.DueDate,
		ClosedDate:        v.ClosedDate,
		Status:            string(v.Status),
		MonthsPaid:        v.MonthsPaid,
		TotalInterestPaid: v.TotalInterestPaid,
		FinalAmountPaid:   v.FinalAmountPaid,
		PaymentMethod:     v.PaymentMethod,
		AuctionDate:       v.AuctionDate,
		AuctionNotes:      v.AuctionNotes,
		PaymentHistory:    v.PaymentHistory,
		JewelryItems:      v.JewelryItems,
		Notes:             v.Notes,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
		Version:           v.Version,
	}
}

// SettlementResponse shows the figures owed to close a voucher
type SettlementResponse struct {
	MonthsPaid        int             `json:"months_paid"`
	MonthlyInterest   decimal.Decimal `json:"monthly_interest"`
	TotalInterestDue  decimal.Decimal `json:"total_interest_due"`
	PaidInterest      decimal.Decimal `json:"paid_interest"`
	RemainingInterest decimal.Decimal `json:"remaining_interest"`
	FinalAmount       decimal.Decimal `json:"final_amount"`
}

// ToSettlementResponse maps a settlement to its response
func ToSettlementResponse(s *pawn.Settlement) SettlementResponse {
	return SettlementResponse{
		MonthsPaid:        s.MonthsPaid,
		MonthlyInterest:   s.MonthlyInterest,
		TotalInterestDue:  s.TotalInterestDue,
		PaidInterest:      s.PaidInterest,
		RemainingInterest: s.RemainingInterest,
		FinalAmount:       s.FinalAmount,
	}
}

// CloseVoucherResponse pairs the settlement with the closed voucher
type CloseVoucherResponse struct {
	Settlement SettlementResponse `json:"settlement"`
	Voucher    VoucherResponse    `json:"voucher"`
}

// VoucherListFilter represents filter options for the voucher list
type VoucherListFilter struct {
	Status     string
	JewelType  string
	CustomerID *uuid.UUID
	Search     string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}
