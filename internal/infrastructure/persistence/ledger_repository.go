package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pawnshop/backend/internal/domain/report"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// DeleteByQueryDate removes every ledger entry for the given day
func (r *GormLedgerRepository) DeleteByQueryDate(ctx context.Context, queryDate time.Time) error {
	start, end := dayBounds(queryDate)
	return r.db.WithContext(ctx).
		Where("query_date >= ? AND query_date < ?", start, end).
		Delete(&models.LedgerEntryModel{}).Error
}

// BulkInsert stores a rebuild's entries in batches
func (r *GormLedgerRepository) BulkInsert(ctx context.Context, entries []report.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.LedgerEntryModel, len(entries))
	for i := range entries {
		rows[i].FromDomain(&entries[i])
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 200).Error
}

// FindByQueryDate returns all ledger entries for the given day
func (r *GormLedgerRepository) FindByQueryDate(ctx context.Context, queryDate time.Time) ([]report.LedgerEntry, error) {
	start, end := dayBounds(queryDate)
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("query_date >= ? AND query_date < ?", start, end).
		Order("bill_no ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]report.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// Ensure GormLedgerRepository implements the interface
var _ report.LedgerRepository = (*GormLedgerRepository)(nil)
