package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/trash"
)

// TrashItemModel is the database row for a trashed aggregate
type TrashItemModel struct {
	BaseModel
	ItemType  string        `gorm:"type:varchar(16);not null;index"`
	SourceID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	Reference string        `gorm:"type:varchar(64);not null"`
	Label     string        `gorm:"type:varchar(255)"`
	Data      trash.Payload `gorm:"type:jsonb;not null"`
	DeletedAt time.Time     `gorm:"not null;index"`
	DeletedBy string        `gorm:"type:varchar(64)"`
}

// TableName returns the table name
func (TrashItemModel) TableName() string {
	return "trash_items"
}

// FromDomain populates the model from the trash item
func (m *TrashItemModel) FromDomain(i *trash.Item) {
	m.ID = i.ID
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
	m.ItemType = string(i.ItemType)
	m.SourceID = i.SourceID
	m.Reference = i.Reference
	m.Label = i.Label
	m.Data = i.Data
	m.DeletedAt = i.DeletedAt
	m.DeletedBy = i.DeletedBy
}

// ToDomain reconstructs the trash item from the row
func (m *TrashItemModel) ToDomain() *trash.Item {
	return &trash.Item{
		BaseEntity: shared.RestoreEntity(m.ID, m.CreatedAt, m.UpdatedAt),
		ItemType:   trash.ItemType(m.ItemType),
		SourceID:   m.SourceID,
		Reference:  m.Reference,
		Label:      m.Label,
		Data:       m.Data,
		DeletedAt:  m.DeletedAt,
		DeletedBy:  m.DeletedBy,
	}
}

// TrashLogModel is the database row for a trash audit entry
type TrashLogModel struct {
	BaseModel
	Action      string    `gorm:"type:varchar(32);not null;index"`
	ItemType    string    `gorm:"type:varchar(16);not null"`
	SourceID    uuid.UUID `gorm:"type:uuid;not null"`
	Reference   string    `gorm:"type:varchar(64)"`
	Details     string    `gorm:"type:text"`
	PerformedBy string    `gorm:"type:varchar(64)"`
	PerformedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name
func (TrashLogModel) TableName() string {
	return "trash_logs"
}

// FromDomain populates the model from the log entry
func (m *TrashLogModel) FromDomain(e *trash.LogEntry) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
	m.Action = string(e.Action)
	m.ItemType = string(e.ItemType)
	m.SourceID = e.SourceID
	m.Reference = e.Reference
	m.Details = e.Details
	m.PerformedBy = e.PerformedBy
	m.PerformedAt = e.PerformedAt
}

// ToDomain reconstructs the log entry from the row
func (m *TrashLogModel) ToDomain() *trash.LogEntry {
	return &trash.LogEntry{
		BaseEntity:  shared.RestoreEntity(m.ID, m.CreatedAt, m.UpdatedAt),
		Action:      trash.LogAction(m.Action),
		ItemType:    trash.ItemType(m.ItemType),
		SourceID:    m.SourceID,
		Reference:   m.Reference,
		Details:     m.Details,
		PerformedBy: m.PerformedBy,
		PerformedAt: m.PerformedAt,
	}
}
