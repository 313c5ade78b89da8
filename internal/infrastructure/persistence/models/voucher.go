package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// VoucherModel is the database row for a pledge voucher
type VoucherModel struct {
	AggregateModel
	BillNo            string                `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerRef       string                `gorm:"type:varchar(32);not null;index"`
	CustomerName      string                `gorm:"type:varchar(255);not null"`
	CustomerPhone     string                `gorm:"type:varchar(32)"`
	JewelType         string                `gorm:"type:varchar(16);not null;index"`
	GrossWeight       decimal.Decimal       `gorm:"type:decimal(10,3);not null"`
	DeductionWeight   decimal.Decimal       `gorm:"type:decimal(10,3)"`
	NetWeight         decimal.Decimal       `gorm:"type:decimal(10,3);not null"`
	LoanAmount        decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	FinalLoanAmount   decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	InterestRate      decimal.Decimal       `gorm:"type:decimal(7,4);not null"`
	InterestAmount    decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	OverallLoanAmount decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	ProcessingFees    decimal.Decimal       `gorm:"type:decimal(15,2)"`
	DisbursementDate  time.Time             `gorm:"not null;index"`
	DueDate           time.Time             `gorm:"not null;index"`
	ClosedDate        *time.Time
	Status            string                `gorm:"type:varchar(32);not null;index"`
	MonthsPaid        int                   `gorm:"not null;default:0"`
	TotalInterestPaid decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	FinalAmountPaid   decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	PaymentMethod     string                `gorm:"type:varchar(32)"`
	AuctionDate       *time.Time
	AuctionNotes      string                `gorm:"type:text"`
	PaymentHistory    pawn.InterestPayments `gorm:"type:jsonb;not null"`
	JewelryItems      pawn.JewelryItems     `gorm:"type:jsonb;not null"`
	Notes             string                `gorm:"type:text"`
}

// TableName returns the table name
func (VoucherModel) TableName() string {
	return "vouchers"
}

// FromDomain populates the model from the aggregate
func (m *VoucherModel) FromDomain(v *pawn.Voucher) {
	m.ID = v.ID
	m.CreatedAt = v.CreatedAt
	m.UpdatedAt = v.UpdatedAt
	m.Version = v.Version
	m.BillNo = v.BillNo
	m.CustomerID = v.CustomerID
	m.CustomerRef = v.CustomerRef
	m.CustomerName = v.CustomerName
	m.CustomerPhone = v.CustomerPhone
	m.JewelType = string(v.JewelType)
	m.GrossWeight = v.GrossWeight
	m.DeductionWeight = v.DeductionWeight
	m.NetWeight = v.NetWeight
	m.LoanAmount = v.LoanAmount
	m.FinalLoanAmount = v.FinalLoanAmount
	m.InterestRate = v.InterestRate
	m.InterestAmount = v.InterestAmount
	m.OverallLoanAmount = v.OverallLoanAmount
	m.ProcessingFees = v.ProcessingFees
	m.DisbursementDate = v.DisbursementDate
	m.DueDate = v.DueDate
	m.ClosedDate = v.ClosedDate
	m.Status = string(v.Status)
	m.MonthsPaid = v.MonthsPaid
	m.TotalInterestPaid = v.TotalInterestPaid
	m.FinalAmountPaid = v.FinalAmountPaid
	m.PaymentMethod = v.PaymentMethod
	m.AuctionDate = v.AuctionDate
	m.AuctionNotes = v.AuctionNotes
	m.PaymentHistory = v.PaymentHistory
	m.JewelryItems = v.JewelryItems
	m.Notes = v.Notes
}

// ToDomain reconstructs the aggregate from the row
func (m *VoucherModel) ToDomain() *pawn.Voucher {
	v := &pawn.Voucher{
		BillNo:            m.BillNo,
		CustomerID:        m.CustomerID,
		CustomerRef:       m.CustomerRef,
		CustomerName:      m.CustomerName,
		CustomerPhone:     m.CustomerPhone,
		JewelType:         pawn.JewelType(m.JewelType),
		GrossWeight:       m.GrossWeight,
		DeductionWeight:   m.DeductionWeight,
		NetWeight:         m.NetWeight,
		LoanAmount:        m.LoanAmount,
		FinalLoanAmount:   m.FinalLoanAmount,
		InterestRate:      m.InterestRate,
		InterestAmount:    m.InterestAmount,
		OverallLoanAmount: m.OverallLoanAmount,
		ProcessingFees:    m.ProcessingFees,
		DisbursementDate:  m.DisbursementDate,
		DueDate:           m.DueDate,
		ClosedDate:        m.ClosedDate,
		Status:            pawn.VoucherStatus(m.Status),
		MonthsPaid:        m.MonthsPaid,
		TotalInterestPaid: m.TotalInterestPaid,
		FinalAmountPaid:   m.FinalAmountPaid,
		PaymentMethod:     m.PaymentMethod,
		AuctionDate:       m.AuctionDate,
		AuctionNotes:      m.AuctionNotes,
		PaymentHistory:    m.PaymentHistory,
		JewelryItems:      m.JewelryItems,
		Notes:             m.Notes,
	}
	v.BaseAggregateRoot = shared.RestoreAggregateRoot(m.ID, m.CreatedAt, m.UpdatedAt, m.Version)
	return v
}
