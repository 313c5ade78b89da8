package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawnshop/backend/internal/domain/partner"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	var model models.CustomerModel
	model.FromDomain(customer)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	var model models.CustomerModel
	model.FromDomain(customer)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRef finds a customer by business-facing id
func (r *GormCustomerRepository) FindByRef(ctx context.Context, customerRef string) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "customer_ref = ?", customerRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds customers matching the filter with pagination
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter partner.CustomerFilter) ([]*partner.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})

	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(customer_ref) LIKE ? OR LOWER(full_name) LIKE ? OR phone LIKE ?",
			pattern, pattern, "%"+filter.Search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filter.OrderBy, filter.OrderDir, customerSortColumns, "created_at DESC")
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.CustomerModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	customers := make([]*partner.Customer, len(rows))
	for i := range rows {
		customers[i] = rows[i].ToDomain()
	}
	return customers, total, nil
}

// Delete removes a customer permanently
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateCustomerRef generates the next sequential customer id
func (r *GormCustomerRepository) GenerateCustomerRef(ctx context.Context) (string, error) {
	const prefix = "CUST-"

	var maxRef string
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Select("customer_ref").
		Where("customer_ref LIKE ?", prefix+"%").
		Order("customer_ref DESC").
		Limit(1).
		Scan(&maxRef).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextSeq := 1
	if maxRef != "" {
		var seq int
		if _, err := fmt.Sscanf(maxRef[len(prefix):], "%05d", &seq); err == nil {
			nextSeq = seq + 1
		}
	}
	return fmt.Sprintf("%s%05d", prefix, nextSeq), nil
}

var customerSortColumns = map[string]string{
	"created_at":   "created_at",
	"customer_ref": "customer_ref",
	"full_name":    "full_name",
}

// Ensure GormCustomerRepository implements the interface
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
