package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawnshop/backend/internal/domain/collection"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

// GormCollectionRepository implements collection.Repository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// Create inserts a new collection record
func (r *GormCollectionRepository) Create(ctx context.Context, c *collection.Collection) error {
	var model models.CollectionModel
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates a collection record
func (r *GormCollectionRepository) Save(ctx context.Context, c *collection.Collection) error {
	var model models.CollectionModel
	model.FromDomain(c)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds a collection record by ID
func (r *GormCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.Collection, error) {
	var model models.CollectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLoanID finds the collection record tracking the given loan
func (r *GormCollectionRepository) FindByLoanID(ctx context.Context, loanID uuid.UUID) (*collection.Collection, error) {
	var model models.CollectionModel
	if err := r.db.WithContext(ctx).First(&model, "loan_id = ?", loanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds collection records matching the filter with pagination
func (r *GormCollectionRepository) FindAll(ctx context.Context, filter collection.Filter) ([]*collection.Collection, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CollectionModel{})

	if filter.Priority != nil {
		query = query.Where("priority = ?", string(*filter.Priority))
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(loan_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_ref) LIKE ? OR customer_phone LIKE ?",
			pattern, pattern, pattern, "%"+filter.Search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filter.OrderBy, filter.OrderDir, collectionSortColumns, "overdue_count DESC, next_due_date ASC")
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.CollectionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*collection.Collection, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, total, nil
}

// Delete removes a collection record permanently
func (r *GormCollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CollectionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByLoanID removes the collection record tracking the given loan
func (r *GormCollectionRepository) DeleteByLoanID(ctx context.Context, loanID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CollectionModel{}, "loan_id = ?", loanID).Error
}

var collectionSortColumns = map[string]string{
	"created_at":    "created_at",
	"loan_number":   "loan_number",
	"priority":      "priority",
	"overdue_count": "overdue_count",
	"next_due_date": "next_due_date",
}

// Ensure GormCollectionRepository implements the interface
var _ collection.Repository = (*GormCollectionRepository)(nil)
