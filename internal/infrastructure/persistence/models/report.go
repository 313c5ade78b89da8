package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/domain/report"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// LedgerEntryModel is the database row for one ledger snapshot entry
type LedgerEntryModel struct {
	BaseModel
	QueryDate       time.Time         `gorm:"not null;index"`
	VoucherID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID         `gorm:"type:uuid;not null"`
	BillNo          string            `gorm:"type:varchar(32);not null"`
	CustomerRef     string            `gorm:"type:varchar(32);not null"`
	CustomerName    string            `gorm:"type:varchar(255);not null"`
	CustomerPhone   string            `gorm:"type:varchar(32)"`
	JewelType       string            `gorm:"type:varchar(16);not null"`
	GrossWeight     decimal.Decimal   `gorm:"type:decimal(10,3);not null"`
	NetWeight       decimal.Decimal   `gorm:"type:decimal(10,3);not null"`
	JewelryItems    pawn.JewelryItems `gorm:"type:jsonb;not null"`
	FinalLoanAmount decimal.Decimal   `gorm:"type:decimal(15,2);not null"`
	InterestRate    decimal.Decimal   `gorm:"type:decimal(7,4);not null"`
	InterestAmount  decimal.Decimal   `gorm:"type:decimal(15,2);not null"`
	TotalAmount     decimal.Decimal   `gorm:"type:decimal(15,2);not null"`
	RepaidAmount    decimal.Decimal   `gorm:"type:decimal(15,2);not null"`
	BalanceAmount   decimal.Decimal   `gorm:"type:decimal(15,2);not null"`
	Disbursement    time.Time         `gorm:"not null"`
	DueDate         time.Time         `gorm:"not null"`
	ClosedDate      *time.Time
	Status          string            `gorm:"type:varchar(16);not null;index"`
	DaysOverdue     int               `gorm:"not null;default:0"`
	LoanDuration    int               `gorm:"not null;default:0"`
	PaymentProgress int               `gorm:"not null;default:0"`
	MonthsPaid      int               `gorm:"not null;default:0"`
}

// TableName returns the table name
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// FromDomain populates the model from the ledger entry
func (m *LedgerEntryModel) FromDomain(e *report.LedgerEntry) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
	m.QueryDate = e.QueryDate
	m.VoucherID = e.VoucherID
	m.CustomerID = e.CustomerID
	m.BillNo = e.BillNo
	m.CustomerRef = e.CustomerRef
	m.CustomerName = e.CustomerName
	m.CustomerPhone = e.CustomerPhone
	m.JewelType = string(e.JewelType)
	m.GrossWeight = e.GrossWeight
	m.NetWeight = e.NetWeight
	m.JewelryItems = e.JewelryItems
	m.FinalLoanAmount = e.FinalLoanAmount
	m.InterestRate = e.InterestRate
	m.InterestAmount = e.InterestAmount
	m.TotalAmount = e.TotalAmount
	m.RepaidAmount = e.RepaidAmount
	m.BalanceAmount = e.BalanceAmount
	m.Disbursement = e.Disbursement
	m.DueDate = e.DueDate
	m.ClosedDate = e.ClosedDate
	m.Status = string(e.Status)
	m.DaysOverdue = e.DaysOverdue
	m.LoanDuration = e.LoanDuration
	m.PaymentProgress = e.PaymentProgress
	m.MonthsPaid = e.MonthsPaid
}

// ToDomain reconstructs the ledger entry from the row
func (m *LedgerEntryModel) ToDomain() report.LedgerEntry {
	return report.LedgerEntry{
		BaseEntity:      shared.RestoreEntity(m.ID, m.CreatedAt, m.UpdatedAt),
		QueryDate:       m.QueryDate,
		VoucherID:       m.VoucherID,
		CustomerID:      m.CustomerID,
		BillNo:          m.BillNo,
		CustomerRef:     m.CustomerRef,
		CustomerName:    m.CustomerName,
		CustomerPhone:   m.CustomerPhone,
		JewelType:       pawn.JewelType(m.JewelType),
		GrossWeight:     m.GrossWeight,
		NetWeight:       m.NetWeight,
		JewelryItems:    m.JewelryItems,
		FinalLoanAmount: m.FinalLoanAmount,
		InterestRate:    m.InterestRate,
		InterestAmount:  m.InterestAmount,
		TotalAmount:     m.TotalAmount,
		RepaidAmount:    m.RepaidAmount,
		BalanceAmount:   m.BalanceAmount,
		Disbursement:    m.Disbursement,
		DueDate:         m.DueDate,
		ClosedDate:      m.ClosedDate,
		Status:          report.LedgerStatus(m.Status),
		DaysOverdue:     m.DaysOverdue,
		LoanDuration:    m.LoanDuration,
		PaymentProgress: m.PaymentProgress,
		MonthsPaid:      m.MonthsPaid,
	}
}

// StockSummaryModel is the single materialized stock summary row
type StockSummaryModel struct {
	BaseModel
	Loans        report.StockLoans `gorm:"type:jsonb;not null"`
	TotalLoans   int               `gorm:"not null;default:0"`
	ActiveLoans  int               `gorm:"not null;default:0"`
	OverdueLoans int               `gorm:"not null;default:0"`
	ClosedLoans  int               `gorm:"not null;default:0"`
	TotalAmount  decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	OverdueRate  int               `gorm:"not null;default:0"`
	LastSyncedAt time.Time         `gorm:"not null"`
}

// TableName returns the table name
func (StockSummaryModel) TableName() string {
	return "stock_summaries"
}

// FromDomain populates the model from the summary
func (m *StockSummaryModel) FromDomain(s *report.StockSummary) {
	m.ID = s.ID
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
	m.Loans = s.Loans
	m.TotalLoans = s.TotalLoans
	m.ActiveLoans = s.ActiveLoans
	m.OverdueLoans = s.OverdueLoans
	m.ClosedLoans = s.ClosedLoans
	m.TotalAmount = s.TotalAmount
	m.OverdueRate = s.OverdueRate
	m.LastSyncedAt = s.LastSyncedAt
}

// ToDomain reconstructs the summary from the row
func (m *StockSummaryModel) ToDomain() *report.StockSummary {
	return &report.StockSummary{
		BaseEntity:   shared.RestoreEntity(m.ID, m.CreatedAt, m.UpdatedAt),
		Loans:        m.Loans,
		TotalLoans:   m.TotalLoans,
		ActiveLoans:  m.ActiveLoans,
		OverdueLoans: m.OverdueLoans,
		ClosedLoans:  m.ClosedLoans,
		TotalAmount:  m.TotalAmount,
		OverdueRate:  m.OverdueRate,
		LastSyncedAt: m.LastSyncedAt,
	}
}
