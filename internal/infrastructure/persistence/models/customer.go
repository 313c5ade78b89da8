package models

import (
	"github.com/pawnshop/backend/internal/domain/partner"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// CustomerModel is the database row for a customer
type CustomerModel struct {
	AggregateModel
	CustomerRef string `gorm:"type:varchar(32);not null;uniqueIndex"`
	FullName    string `gorm:"type:varchar(255);not null;index"`
	Phone       string `gorm:"type:varchar(32);not null;index"`
	Address     string `gorm:"type:text;not null"`
	GovID       string `gorm:"type:varchar(64)"`
	PhotoRef    string `gorm:"type:varchar(255)"`
	Active      bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name
func (CustomerModel) TableName() string {
	return "customers"
}

// FromDomain populates the model from the aggregate
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.ID = c.ID
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
	m.Version = c.Version
	m.CustomerRef = c.CustomerRef
	m.FullName = c.FullName
	m.Phone = c.Phone
	m.Address = c.Address
	m.GovID = c.GovID
	m.PhotoRef = c.PhotoRef
	m.Active = c.Active
}

// ToDomain reconstructs the aggregate from the row
func (m *CustomerModel) ToDomain() *partner.Customer {
	c := &partner.Customer{
		CustomerRef: m.CustomerRef,
		FullName:    m.FullName,
		Phone:       m.Phone,
		Address:     m.Address,
		GovID:       m.GovID,
		PhotoRef:    m.PhotoRef,
		Active:      m.Active,
	}
	c.BaseAggregateRoot = shared.RestoreAggregateRoot(m.ID, m.CreatedAt, m.UpdatedAt, m.Version)
	return c
}
