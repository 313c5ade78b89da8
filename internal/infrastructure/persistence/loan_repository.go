package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

// GormLoanRepository implements LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// Create inserts a new loan
func (r *GormLoanRepository) Create(ctx context.Context, loan *lending.Loan) error {
	var model models.LoanModel
	model.FromDomain(loan)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates a loan without a version check
func (r *GormLoanRepository) Save(ctx context.Context, loan *lending.Loan) error {
	var model models.LoanModel
	model.FromDomain(loan)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormLoanRepository) SaveWithLock(ctx context.Context, loan *lending.Loan) error {
	var model models.LoanModel
	model.FromDomain(loan)

	result := r.db.WithContext(ctx).
		Model(&models.LoanModel{}).
		Where("id = ? AND version = ?", loan.ID, loan.Version-1).
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

// FindByID finds a loan by ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	var model models.LoanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLoanNumber finds a loan by its loan number
func (r *GormLoanRepository) FindByLoanNumber(ctx context.Context, loanNumber string) (*lending.Loan, error) {
	var model models.LoanModel
	if err := r.db.WithContext(ctx).First(&model, "loan_number = ?", loanNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds loans matching the filter with pagination
func (r *GormLoanRepository) FindAll(ctx context.Context, filter lending.LoanFilter) ([]*lending.Loan, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LoanModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(loan_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_ref) LIKE ? OR customer_phone LIKE ?",
			pattern, pattern, pattern, "%"+filter.Search+"%",
		)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_date >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		query = query.Where("start_date <= ?", *filter.StartTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filter.OrderBy, filter.OrderDir, loanSortColumns, "created_at DESC")
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.LoanModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	loans := make([]*lending.Loan, len(rows))
	for i := range rows {
		loans[i] = rows[i].ToDomain()
	}
	return loans, total, nil
}

// FindActive returns all loans in active status
func (r *GormLoanRepository) FindActive(ctx context.Context) ([]*lending.Loan, error) {
	var rows []models.LoanModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(lending.LoanStatusActive)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	loans := make([]*lending.Loan, len(rows))
	for i := range rows {
		loans[i] = rows[i].ToDomain()
	}
	return loans, nil
}

// Delete removes a loan permanently
func (r *GormLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LoanModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Stats aggregates loan counts and totals by status
func (r *GormLoanRepository) Stats(ctx context.Context) (*lending.LoanStats, error) {
	stats := &lending.LoanStats{
		TotalDisbursed:   decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}

	type statusRow struct {
		Status string
		Count  int64
		Amount decimal.Decimal
	}
	var rows []statusRow
	if err := r.db.WithContext(ctx).
		Model(&models.LoanModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(principal), 0) AS amount").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats.TotalLoans += row.Count
		stats.TotalDisbursed = stats.TotalDisbursed.Add(row.Amount)
		switch lending.LoanStatus(row.Status) {
		case lending.LoanStatusActive:
			stats.ActiveLoans = row.Count
		case lending.LoanStatusCompleted:
			stats.CompletedLoans = row.Count
		case lending.LoanStatusClosed:
			stats.ClosedLoans = row.Count
		case lending.LoanStatusDefaulted:
			stats.DefaultedLoans = row.Count
		}
	}

	// Collected and outstanding come from the embedded schedules, which
	// only the aggregate can interpret.
	var all []models.LoanModel
	if err := r.db.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, err
	}
	for i := range all {
		loan := all[i].ToDomain()
		stats.TotalCollected = stats.TotalCollected.Add(loan.PaidTotal())
		if !loan.Status.IsTerminal() {
			stats.TotalOutstanding = stats.TotalOutstanding.Add(loan.OutstandingBalance())
		}
	}
	return stats, nil
}

// GenerateLoanNumber generates the next sequential loan number for today
func (r *GormLoanRepository) GenerateLoanNumber(ctx context.Context) (string, error) {
	return r.generateNumber(ctx, "LOAN")
}

// GeneratePaymentID generates a unique payment id. Payments live inside
// the loan row, so a random suffix avoids scanning every schedule.
func (r *GormLoanRepository) GeneratePaymentID(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	return fmt.Sprintf("PAY-%s-%s", today, strings.ToUpper(uuid.New().String()[:8])), nil
}

func (r *GormLoanRepository) generateNumber(ctx context.Context, kind string) (string, error) {
	today := time.Now().Format("20060102")
	prefix := fmt.Sprintf("%s-%s-", kind, today)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.LoanModel{}).
		Select("loan_number").
		Where("loan_number LIKE ?", prefix+"%").
		Order("loan_number DESC").
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

var loanSortColumns = map[string]string{
	"created_at":  "created_at",
	"loan_number": "loan_number",
	"start_date":  "start_date",
	"principal":   "principal",
	"status":      "status",
}

// Ensure GormLoanRepository implements the interface
var _ lending.LoanRepository = (*GormLoanRepository)(nil)
