package pawn

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/shared"
)

// VoucherStatus represents the lifecycle state of a pledge voucher
type VoucherStatus string

const (
	VoucherStatusActive    VoucherStatus = "ACTIVE"
	VoucherStatusPending   VoucherStatus = "PENDING"
	VoucherStatusClosed    VoucherStatus = "CLOSED"
	VoucherStatusAuctioned VoucherStatus = "AUCTION_TRANSFERRED"
)

// IsValid checks if the status is a known value
func (s VoucherStatus) IsValid() bool {
	switch s {
	case VoucherStatusActive, VoucherStatusPending, VoucherStatusClosed, VoucherStatusAuctioned:
		return true
	}
	return false
}

// JewelType classifies the pledged metal
type JewelType string

const (
	JewelTypeGold    JewelType = "gold"
	JewelTypeSilver  JewelType = "silver"
	JewelTypeDiamond JewelType = "diamond"
)

// IsValid checks if the jewel type is a known value
func (j JewelType) IsValid() bool {
	switch j {
	case JewelTypeGold, JewelTypeSilver, JewelTypeDiamond:
		return true
	}
	return false
}

// JewelryItem describes one pledged article
type JewelryItem struct {
	SNo      int    `json:"sno,omitempty"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Remarks  string `json:"remarks,omitempty"`
	Stone    string `json:"stone,omitempty"`
	Count    int    `json:"count"`
	Purity   string `json:"purity,omitempty"`
}

// JewelryItems is stored as a JSONB column on the voucher row
type JewelryItems []JewelryItem

// Value implements driver.Valuer for JSONB storage
func (ji JewelryItems) Value() (driver.Value, error) {
	if ji == nil {
		return "[]", nil
	}
	data, err := json.Marshal(ji)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (ji *JewelryItems) Scan(value any) error {
	if value == nil {
		*ji = JewelryItems{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JewelryItems", value)
	}
	return json.Unmarshal(data, ji)
}

// InterestPayment is one interest remittance against a voucher
type InterestPayment struct {
	Amount decimal.Decimal `json:"amount"`
	Months int             `json:"months"`
	Date   time.Time       `json:"date"`
}

// InterestPayments is stored as a JSONB column on the voucher row
type InterestPayments []InterestPayment

// Value implements driver.Valuer for JSONB storage
func (ps InterestPayments) Value() (driver.Value, error) {
	if ps == nil {
		return "[]", nil
	}
	data, err := json.Marshal(ps)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (ps *InterestPayments) Scan(value any) error {
	if value == nil {
		*ps = InterestPayments{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into InterestPayments", value)
	}
	return json.Unmarshal(data, ps)
}

// settlementMonth is the 30-day bucket used for interest settlement
const settlementMonth = 30 * 24 * time.Hour

// Voucher is the aggregate root for a jewel pledge loan
type Voucher struct {
	shared.BaseAggregateRoot
	BillNo            string
	CustomerID        uuid.UUID
	CustomerRef       string
	CustomerName      string
	CustomerPhone     string
	JewelType         JewelType
	GrossWeight       decimal.Decimal
	DeductionWeight   decimal.Decimal
	NetWeight         decimal.Decimal
	LoanAmount        decimal.Decimal
	FinalLoanAmount   decimal.Decimal
	InterestRate      decimal.Decimal
	InterestAmount    decimal.Decimal
	OverallLoanAmount decimal.Decimal
	ProcessingFees    decimal.Decimal
	DisbursementDate  time.Time
	DueDate           time.Time
	ClosedDate        *time.Time
	Status            VoucherStatus
	MonthsPaid        int
	TotalInterestPaid decimal.Decimal
	FinalAmountPaid   decimal.Decimal
	PaymentMethod     string
	AuctionDate       *time.Time
	AuctionNotes      string
	PaymentHistory    InterestPayments
	JewelryItems      JewelryItems
	Notes             string
}

// NewVoucher creates a pledge voucher in active status
func NewVoucher(
	billNo string,
	customerID uuid.UUID,
	customerRef, customerName, customerPhone string,
	jewelType JewelType,
	grossWeight, netWeight decimal.Decimal,
	finalLoanAmount, interestRate decimal.Decimal,
	disbursementDate, dueDate time.Time,
	items JewelryItems,
) (*Voucher, error) {
	if billNo == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NO", "Bill number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !jewelType.IsValid() {
		return nil, shared.NewDomainError("INVALID_JEWEL_TYPE", "Jewel type must be gold, silver or diamond")
	}
	if !grossWeight.IsPositive() || !netWeight.IsPositive() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Jewel weight must be positive")
	}
	if !finalLoanAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Loan amount must be positive")
	}
	if interestRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}
	if disbursementDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Disbursement date is required")
	}

	interestAmount := finalLoanAmount.Mul(interestRate).Div(decimal.NewFromInt(100)).Round(2)
	return &Voucher{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNo:            billNo,
		CustomerID:        customerID,
		CustomerRef:       customerRef,
		CustomerName:      customerName,
		CustomerPhone:     customerPhone,
		JewelType:         jewelType,
		GrossWeight:       grossWeight,
		NetWeight:         netWeight,
		LoanAmount:        finalLoanAmount,
		FinalLoanAmount:   finalLoanAmount,
		InterestRate:      interestRate,
		InterestAmount:    interestAmount,
		OverallLoanAmount: finalLoanAmount.Add(interestAmount),
		DisbursementDate:  disbursementDate,
		DueDate:           dueDate,
		Status:            VoucherStatusActive,
		TotalInterestPaid: decimal.Zero,
		FinalAmountPaid:   decimal.Zero,
		PaymentMethod:     "CASH",
		PaymentHistory:    InterestPayments{},
		JewelryItems:      items,
	}, nil
}

// PaidInterest returns the sum of all recorded interest payments
func (v *Voucher) PaidInterest() decimal.Decimal {
	total := decimal.Zero
	for _, p := range v.PaymentHistory {
		total = total.Add(p.Amount)
	}
	return total
}

// MonthsSinceDisbursement counts full 30-day periods since disbursement
func (v *Voucher) MonthsSinceDisbursement(now time.Time) int {
	elapsed := now.Sub(v.DisbursementDate)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / settlementMonth)
}

// Settlement holds the computed close figures for a voucher
type Settlement struct {
	MonthsPaid        int
	MonthlyInterest   decimal.Decimal
	TotalInterestDue  decimal.Decimal
	PaidInterest      decimal.Decimal
	RemainingInterest decimal.Decimal
	FinalAmount       decimal.Decimal
}

// ComputeSettlement calculates the amount owed to close the voucher now.
// Interest accrues per full 30-day month on the principal; interest
// already remitted reduces what remains, floored at zero.
func (v *Voucher) ComputeSettlement(now time.Time) Settlement {
	months := v.MonthsSinceDisbursement(now)
	monthly := v.FinalLoanAmount.Mul(v.InterestRate).Div(decimal.NewFromInt(100))
	totalDue := monthly.Mul(decimal.NewFromInt(int64(months)))
	paid := v.PaidInterest()
	remaining := totalDue.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return Settlement{
		MonthsPaid:        months,
		MonthlyInterest:   monthly.Round(2),
		TotalInterestDue:  totalDue.Round(2),
		PaidInterest:      paid,
		RemainingInterest: remaining.Round(2),
		FinalAmount:       v.FinalLoanAmount.Add(remaining).Round(2),
	}
}

// Close settles the voucher and records the final figures
func (v *Voucher) Close(paymentMethod string, now time.Time) (*Settlement, error) {
	if v.Status == VoucherStatusClosed {
		return nil, shared.NewDomainError("ALREADY_CLOSED", "Loan is already closed")
	}

	settlement := v.ComputeSettlement(now)
	closedAt := now
	v.Status = VoucherStatusClosed
	v.ClosedDate = &closedAt
	v.MonthsPaid = settlement.MonthsPaid
	v.TotalInterestPaid = settlement.PaidInterest.Add(settlement.RemainingInterest)
	v.FinalAmountPaid = settlement.FinalAmount
	if paymentMethod != "" {
		v.PaymentMethod = paymentMethod
	}
	v.UpdatedAt = now
	v.IncrementVersion()
	return &settlement, nil
}

// RevertClosure reopens a closed voucher, clearing the settlement fields
func (v *Voucher) RevertClosure(now time.Time) error {
	if v.Status != VoucherStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Can only revert closed vouchers")
	}

	v.Status = VoucherStatusActive
	v.ClosedDate = nil
	v.MonthsPaid = 0
	v.TotalInterestPaid = decimal.Zero
	v.FinalAmountPaid = decimal.Zero
	v.PaymentMethod = "CASH"
	v.UpdatedAt = now
	v.IncrementVersion()
	return nil
}

// TransferToAuction moves an unredeemed voucher to auction
func (v *Voucher) TransferToAuction(notes string, now time.Time) error {
	if v.Status == VoucherStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Closed vouchers cannot be auctioned")
	}
	if v.Status == VoucherStatusAuctioned {
		return shared.NewDomainError("INVALID_STATE", "Voucher is already transferred to auction")
	}

	transferredAt := now
	v.Status = VoucherStatusAuctioned
	v.AuctionDate = &transferredAt
	v.AuctionNotes = notes
	v.UpdatedAt = now
	v.IncrementVersion()
	return nil
}

// RevertAuction returns an auctioned voucher to active status
func (v *Voucher) RevertAuction(now time.Time) error {
	if v.Status != VoucherStatusAuctioned {
		return shared.NewDomainError("INVALID_STATE", "Can only revert auction-transferred vouchers")
	}

	v.Status = VoucherStatusActive
	v.AuctionDate = nil
	v.AuctionNotes = ""
	v.UpdatedAt = now
	v.IncrementVersion()
	return nil
}

// RecordInterestPayment appends an interest remittance to the history
func (v *Voucher) RecordInterestPayment(amount decimal.Decimal, months int, now time.Time) error {
	if v.Status == VoucherStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Cannot record interest on a closed voucher")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Interest payment must be positive")
	}
	if months <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Months covered must be positive")
	}

	v.PaymentHistory = append(v.PaymentHistory, InterestPayment{
		Amount: amount,
		Months: months,
		Date:   now,
	})
	v.UpdatedAt = now
	v.IncrementVersion()
	return nil
}

// IsOverdue reports whether an open voucher is past its due date
func (v *Voucher) IsOverdue(now time.Time) bool {
	if v.Status == VoucherStatusClosed {
		return false
	}
	return v.DueDate.Before(now)
}
