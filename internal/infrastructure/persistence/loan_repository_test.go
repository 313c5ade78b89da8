package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/shared/valueobject"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func newTestLoan(t *testing.T, loanNumber string) *lending.Loan {
	t.Helper()
	loan, err := lending.NewLoan(
		loanNumber, uuid.New(), "CUST-00001", "Meena Devi", "9123456780",
		valueobject.NewMoneyINRFromFloat(100000), decimal.NewFromInt(12), 12, lending.FrequencyMonthly,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return loan
}

func TestGormLoanRepository_CreateAndFind(t *testing.T) {
	repo := NewGormLoanRepository(setupTestDB(t))
	ctx := context.Background()

	loan := newTestLoan(t, "LOAN-20240101-00001")
	require.NoError(t, repo.Create(ctx, loan))

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, loan.LoanNumber, found.LoanNumber)
		assert.Equal(t, 12, found.InstallmentCount)
		assert.Len(t, found.Installments, 12)
		assert.True(t, loan.EMI.Equal(found.EMI))
		assert.Equal(t, lending.LoanStatusActive, found.Status)
	})

	t.Run("find by loan number", func(t *testing.T) {
		found, err := repo.FindByLoanNumber(ctx, loan.LoanNumber)
		require.NoError(t, err)
		assert.Equal(t, loan.ID, found.ID)
	})

	t.Run("missing id maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate loan number rejected", func(t *testing.T) {
		dup := newTestLoan(t, "LOAN-20240101-00001")
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})
}

func TestGormLoanRepository_SaveWithLock(t *testing.T) {
	repo := NewGormLoanRepository(setupTestDB(t))
	ctx := context.Background()

	loan := newTestLoan(t, "LOAN-20240101-00002")
	require.NoError(t, repo.Create(ctx, loan))

	t.Run("persists a payment with matching version", func(t *testing.T) {
		_, err := loan.ApplyPayment("PAY-1", 1, loan.EMI, decimal.Zero, "CASH", "", time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, loan))

		found, err := repo.FindByID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, loan.Version, found.Version)
		assert.Len(t, found.Payments, 1)
		assert.True(t, found.Installments[0].IsPaid())
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, loan.ID)
		require.NoError(t, err)

		// Another writer settles the next installment first
		current, err := repo.FindByID(ctx, loan.ID)
		require.NoError(t, err)
		_, err = current.ApplyPayment("PAY-2", 2, current.EMI, decimal.Zero, "CASH", "", time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, current))

		_, err = stale.ApplyPayment("PAY-3", 3, stale.EMI, decimal.Zero, "CASH", "", time.Now())
		require.NoError(t, err)
		assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
	})
}

func TestGormLoanRepository_FindAll(t *testing.T) {
	repo := NewGormLoanRepository(setupTestDB(t))
	ctx := context.Background()

	first := newTestLoan(t, "LOAN-20240101-00001")
	second := newTestLoan(t, "LOAN-20240102-00001")
	second.CustomerName = "Ravi Kumar"
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("search by customer name", func(t *testing.T) {
		loans, total, err := repo.FindAll(ctx, lending.LoanFilter{Search: "ravi"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, loans, 1)
		assert.Equal(t, second.LoanNumber, loans[0].LoanNumber)
	})

	t.Run("status filter", func(t *testing.T) {
		status := lending.LoanStatusActive
		loans, total, err := repo.FindAll(ctx, lending.LoanFilter{Status: &status})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, loans, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		loans, total, err := repo.FindAll(ctx, lending.LoanFilter{Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, loans, 1)
	})
}

func TestGormLoanRepository_GenerateLoanNumber(t *testing.T) {
	repo := NewGormLoanRepository(setupTestDB(t))
	ctx := context.Background()

	first, err := repo.GenerateLoanNumber(ctx)
	require.NoError(t, err)
	today := time.Now().Format("20060102")
	assert.Equal(t, "LOAN-"+today+"-00001", first)

	loan := newTestLoan(t, first)
	require.NoError(t, repo.Create(ctx, loan))

	second, err := repo.GenerateLoanNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LOAN-"+today+"-00002", second)
}

func TestGormLoanRepository_Stats(t *testing.T) {
	repo := NewGormLoanRepository(setupTestDB(t))
	ctx := context.Background()

	loan := newTestLoan(t, "LOAN-20240101-00001")
	_, err := loan.ApplyPayment("PAY-1", 1, loan.EMI, decimal.Zero, "CASH", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, loan))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalLoans)
	assert.EqualValues(t, 1, stats.ActiveLoans)
	assert.True(t, decimal.NewFromInt(100000).Equal(stats.TotalDisbursed))
	assert.True(t, loan.EMI.Equal(stats.TotalCollected))
	assert.True(t, loan.OutstandingBalance().Equal(stats.TotalOutstanding))
}
