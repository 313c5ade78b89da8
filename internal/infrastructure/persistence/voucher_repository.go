package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

// GormVoucherRepository implements VoucherRepository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// Create inserts a new voucher
func (r *GormVoucherRepository) Create(ctx context.Context, voucher *pawn.Voucher) error {
	var model models.VoucherModel
	model.FromDomain(voucher)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates a voucher without a version check
func (r *GormVoucherRepository) Save(ctx context.Context, voucher *pawn.Voucher) error {
	var model models.VoucherModel
	model.FromDomain(voucher)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormVoucherRepository) SaveWithLock(ctx context.Context, voucher *pawn.Voucher) error {
	var model models.VoucherModel
	model.FromDomain(voucher)

	result := r.db.WithContext(ctx).
		Model(&models.VoucherModel{}).
		Where("id = ? AND version = ?", voucher.ID, voucher.Version-1).
		Select("*").Omit("id", "created_at").
		Updates(&model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a voucher by ID
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*pawn.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBillNo finds a voucher by its bill number
func (r *GormVoucherRepository) FindByBillNo(ctx context.Context, billNo string) (*pawn.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.WithContext(ctx).First(&model, "bill_no = ?", billNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds vouchers matching the filter with pagination
func (r *GormVoucherRepository) FindAll(ctx context.Context, filter pawn.VoucherFilter) ([]*pawn.Voucher, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.VoucherModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.JewelType != nil {
		query = query.Where("jewel_type = ?", string(*filter.JewelType))
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(bill_no) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_ref) LIKE ? OR customer_phone LIKE ?",
			pattern, pattern, pattern, "%"+filter.Search+"%",
		)
	}
	if filter.DateFrom != nil {
		query = query.Where("disbursement_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("disbursement_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filter.OrderBy, filter.OrderDir, voucherSortColumns, "created_at DESC")
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.VoucherModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	vouchers := make([]*pawn.Voucher, len(rows))
	for i := range rows {
		vouchers[i] = rows[i].ToDomain()
	}
	return vouchers, total, nil
}

// FindByStatus returns all vouchers in the given status
func (r *GormVoucherRepository) FindByStatus(ctx context.Context, status pawn.VoucherStatus) ([]*pawn.Voucher, error) {
	var rows []models.VoucherModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	vouchers := make([]*pawn.Voucher, len(rows))
	for i := range rows {
		vouchers[i] = rows[i].ToDomain()
	}
	return vouchers, nil
}

// FindEverything returns all vouchers. Used by the report rebuilds,
// which recompute their snapshots from the full book.
func (r *GormVoucherRepository) FindEverything(ctx context.Context) ([]*pawn.Voucher, error) {
	var rows []models.VoucherModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	vouchers := make([]*pawn.Voucher, len(rows))
	for i := range rows {
		vouchers[i] = rows[i].ToDomain()
	}
	return vouchers, nil
}

// Delete removes a voucher permanently
func (r *GormVoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.VoucherModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateBillNo generates the next sequential bill number for today
func (r *GormVoucherRepository) GenerateBillNo(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := fmt.Sprintf("BILL-%s-", today)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.VoucherModel{}).
		Select("bill_no").
		Where("bill_no LIKE ?", prefix+"%").
		Order("bill_no DESC").
		Limit(1).
		Scan(&maxNumber).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextSeq := 1
	if maxNumber != "" {
		var seq int
		if _, err := fmt.Sscanf(maxNumber[len(prefix):], "%05d", &seq); err == nil {
			nextSeq = seq + 1
		}
	}
	return fmt.Sprintf("%s%05d", prefix, nextSeq), nil
}

var voucherSortColumns = map[string]string{
	"created_at":        "created_at",
	"bill_no":           "bill_no",
	"disbursement_date": "disbursement_date",
	"due_date":          "due_date",
	"final_loan_amount": "final_loan_amount",
	"status":            "status",
}

// Ensure GormVoucherRepository implements the interface
var _ pawn.VoucherRepository = (*GormVoucherRepository)(nil)
