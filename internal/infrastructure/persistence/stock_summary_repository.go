package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pawnshop/backend/internal/domain/report"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

// GormStockSummaryRepository implements StockSummaryRepository using GORM
type GormStockSummaryRepository struct {
	db *gorm.DB
}

// NewGormStockSummaryRepository creates a new GormStockSummaryRepository
func NewGormStockSummaryRepository(db *gorm.DB) *GormStockSummaryRepository {
	return &GormStockSummaryRepository{db: db}
}

// Replace removes any existing summary and stores the new one in a
// single transaction so readers never see an empty table.
func (r *GormStockSummaryRepository) Replace(ctx context.Context, summary *report.StockSummary) error {
	var model models.StockSummaryModel
	model.FromDomain(summary)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.StockSummaryModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&model).Error
	})
}

// Get returns the current summary
func (r *GormStockSummaryRepository) Get(ctx context.Context) (*report.StockSummary, error) {
	var model models.StockSummaryModel
	if err := r.db.WithContext(ctx).
		Order("last_synced_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// DeleteAll removes every stored summary
func (r *GormStockSummaryRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.StockSummaryModel{}).Error
}

// Ensure GormStockSummaryRepository implements the interface
var _ report.StockSummaryRepository = (*GormStockSummaryRepository)(nil)
