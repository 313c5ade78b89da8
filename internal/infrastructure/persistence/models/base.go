package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel holds the columns shared by every table
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel adds the optimistic lock version column
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// AllModels returns every model for auto-migration
func AllModels() []any {
	return []any{
		&LoanModel{},
		&VoucherModel{},
		&CollectionModel{},
		&CustomerModel{},
		&LedgerEntryModel{},
		&StockSummaryModel{},
		&TrashItemModel{},
		&TrashLogModel{},
	}
}
