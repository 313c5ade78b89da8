package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/collection"
	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// CollectionModel is the database row for a collections desk record
type CollectionModel struct {
	AggregateModel
	LoanID            uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex"`
	LoanNumber        string               `gorm:"type:varchar(32);not null;index"`
	CustomerID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	CustomerRef       string               `gorm:"type:varchar(32);not null"`
	CustomerName      string               `gorm:"type:varchar(255);not null"`
	CustomerPhone     string               `gorm:"type:varchar(32)"`
	LoanStatus        string               `gorm:"type:varchar(16);not null;index"`
	TotalAmount       decimal.Decimal      `gorm:"type:decimal(15,2);not null"`
	EMI               decimal.Decimal      `gorm:"type:decimal(15,2);not null"`
	TotalInstallments int                  `gorm:"not null"`
	PaidCount         int                  `gorm:"not null;default:0"`
	PendingCount      int                  `gorm:"not null;default:0"`
	OverdueCount      int                  `gorm:"not null;default:0"`
	PaidAmount        decimal.Decimal      `gorm:"type:decimal(15,2);not null"`
	OutstandingAmount decimal.Decimal      `gorm:"type:decimal(15,2);not null"`
	NextDueNumber     int                  `gorm:"not null;default:0"`
	NextDueDate       *time.Time
	NextDueAmount     decimal.Decimal      `gorm:"type:decimal(15,2);not null"`
	Priority          string               `gorm:"type:varchar(16);not null;index"`
	Installments      lending.Installments `gorm:"type:jsonb;not null"`
	Payments          lending.Payments     `gorm:"type:jsonb;not null"`
	LastSyncedAt      time.Time            `gorm:"not null"`
}

// TableName returns the table name
func (CollectionModel) TableName() string {
	return "collections"
}

// FromDomain populates the model from the aggregate
func (m *CollectionModel) FromDomain(c *collection.Collection) {
	m.ID = c.ID
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
	m.Version = c.Version
	m.LoanID = c.LoanID
	m.LoanNumber = c.LoanNumber
	m.CustomerID = c.CustomerID
	m.CustomerRef = c.CustomerRef
	m.CustomerName = c.CustomerName
	m.CustomerPhone = c.CustomerPhone
	m.LoanStatus = string(c.LoanStatus)
	m.TotalAmount = c.TotalAmount
	m.EMI = c.EMI
	m.TotalInstallments = c.TotalInstallments
	m.PaidCount = c.PaidCount
	m.PendingCount = c.PendingCount
	m.OverdueCount = c.OverdueCount
	m.PaidAmount = c.PaidAmount
	m.OutstandingAmount = c.OutstandingAmount
	m.NextDueNumber = c.NextDueNumber
	m.NextDueDate = c.NextDueDate
	m.NextDueAmount = c.NextDueAmount
	m.Priority = string(c.Priority)
	m.Installments = c.Installments
	m.Payments = c.Payments
	m.LastSyncedAt = c.LastSyncedAt
}

// ToDomain reconstructs the aggregate from the row
func (m *CollectionModel) ToDomain() *collection.Collection {
	c := &collection.Collection{
		LoanID:            m.LoanID,
		LoanNumber:        m.LoanNumber,
		CustomerID:        m.CustomerID,
		CustomerRef:       m.CustomerRef,
		CustomerName:      m.CustomerName,
		CustomerPhone:     m.CustomerPhone,
		LoanStatus:        lending.LoanStatus(m.LoanStatus),
		TotalAmount:       m.TotalAmount,
		EMI:               m.EMI,
		TotalInstallments: m.TotalInstallments,
		PaidCount:         m.PaidCount,
		PendingCount:      m.PendingCount,
		OverdueCount:      m.OverdueCount,
		PaidAmount:        m.PaidAmount,
		OutstandingAmount: m.OutstandingAmount,
		NextDueNumber:     m.NextDueNumber,
		NextDueDate:       m.NextDueDate,
		NextDueAmount:     m.NextDueAmount,
		Priority:          collection.Priority(m.Priority),
		Installments:      m.Installments,
		Payments:          m.Payments,
		LastSyncedAt:      m.LastSyncedAt,
	}
	c.BaseAggregateRoot = shared.RestoreAggregateRoot(m.ID, m.CreatedAt, m.UpdatedAt, m.Version)
	return c
}
