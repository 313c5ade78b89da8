package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// LoanModel is the database row for an installment loan
type LoanModel struct {
	AggregateModel
	LoanNumber       string               `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	CustomerRef      string               `gorm:"type:varchar(32);not null;index"`
	CustomerName     string               `gorm:"type:varchar(255);not null"`
	CustomerPhone    string               `gorm:"type:varchar(32)"`
	Principal        decimal.Decimal      `gorm:"type:decimal(15,2);not null"`
	RatePercent      decimal.Decimal      `gorm:"type:decimal(7,4);not null"`
	InstallmentCount int                  `gorm:"not null"`
	Frequency        string               `gorm:"type:varchar(16);not null"`
	StartDate        time.Time            `gorm:"not null"`
	TotalInterest    decimal.Decimal      `gorm:"type:decimal(15,2);not null"`
	TotalAmount      decimal.Decimal      `gorm:"type:decimal(15,2);not null"`
	EMI              decimal.Decimal      `gorm:"type:decimal(15,2);not null"`
	Status           string               `gorm:"type:varchar(16);not null;index"`
	Installments     lending.Installments `gorm:"type:jsonb;not null"`
	Payments         lending.Payments     `gorm:"type:jsonb;not null"`
	Notes            string               `gorm:"type:text"`
}

// TableName returns the table name
func (LoanModel) TableName() string {
	return "loans"
}

// FromDomain populates the model from the aggregate
func (m *LoanModel) FromDomain(l *lending.Loan) {
	m.ID = l.ID
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
	m.Version = l.Version
	m.LoanNumber = l.LoanNumber
	m.CustomerID = l.CustomerID
	m.CustomerRef = l.CustomerRef
	m.CustomerName = l.CustomerName
	m.CustomerPhone = l.CustomerPhone
	m.Principal = l.Principal
	m.RatePercent = l.RatePercent
	m.InstallmentCount = l.InstallmentCount
	m.Frequency = string(l.Frequency)
	m.StartDate = l.StartDate
	m.TotalInterest = l.TotalInterest
	m.TotalAmount = l.TotalAmount
	m.EMI = l.EMI
	m.Status = string(l.Status)
	m.Installments = l.Installments
	m.Payments = l.Payments
	m.Notes = l.Notes
}

// ToDomain reconstructs the aggregate from the row
func (m *LoanModel) ToDomain() *lending.Loan {
	loan := &lending.Loan{
		LoanNumber:       m.LoanNumber,
		CustomerID:       m.CustomerID,
		CustomerRef:      m.CustomerRef,
		CustomerName:     m.CustomerName,
		CustomerPhone:    m.CustomerPhone,
		Principal:        m.Principal,
		RatePercent:      m.RatePercent,
		InstallmentCount: m.InstallmentCount,
		Frequency:        lending.PaymentFrequency(m.Frequency),
		StartDate:        m.StartDate,
		TotalInterest:    m.TotalInterest,
		TotalAmount:      m.TotalAmount,
		EMI:              m.EMI,
		Status:           lending.LoanStatus(m.Status),
		Installments:     m.Installments,
		Payments:         m.Payments,
		Notes:            m.Notes,
	}
	loan.BaseAggregateRoot = shared.RestoreAggregateRoot(m.ID, m.CreatedAt, m.UpdatedAt, m.Version)
	return loan
}
