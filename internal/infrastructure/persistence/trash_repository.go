package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/trash"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

// GormTrashRepository implements trash.Repository using GORM
type GormTrashRepository struct {
	db *gorm.DB
}

// NewGormTrashRepository creates a new GormTrashRepository
func NewGormTrashRepository(db *gorm.DB) *GormTrashRepository {
	return &GormTrashRepository{db: db}
}

// Create parks an item in the trash
func (r *GormTrashRepository) Create(ctx context.Context, item *trash.Item) error {
	var model models.TrashItemModel
	model.FromDomain(item)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByID finds a trash item by ID
func (r *GormTrashRepository) FindByID(ctx context.Context, id uuid.UUID) (*trash.Item, error) {
	var model models.TrashItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns trash items, newest first, optionally by type
func (r *GormTrashRepository) FindAll(ctx context.Context, itemType *trash.ItemType) ([]*trash.Item, error) {
	query := r.db.WithContext(ctx).Order("deleted_at DESC")
	if itemType != nil {
		query = query.Where("item_type = ?", string(*itemType))
	}

	var rows []models.TrashItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]*trash.Item, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// Delete removes a trash item permanently
func (r *GormTrashRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TrashItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAll empties the trash bin and reports how many items went
func (r *GormTrashRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.TrashItemModel{})
	return result.RowsAffected, result.Error
}

// AppendLog records a trash audit entry
func (r *GormTrashRepository) AppendLog(ctx context.Context, entry *trash.LogEntry) error {
	var model models.TrashLogModel
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindLogs returns recent audit entries, newest first
func (r *GormTrashRepository) FindLogs(ctx context.Context, limit int) ([]*trash.LogEntry, error) {
	query := r.db.WithContext(ctx).Order("performed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.TrashLogModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]*trash.LogEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// Ensure GormTrashRepository implements the interface
var _ trash.Repository = (*GormTrashRepository)(nil)
