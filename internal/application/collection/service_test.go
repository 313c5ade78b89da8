package collection

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pawnshop/backend/internal/domain/collection"
	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/shared/valueobject"
	"github.com/pawnshop/backend/internal/infrastructure/persistence"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

func newServiceFixture(t *testing.T) (*Service, collection.Repository, lending.LoanRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	loanRepo := persistence.NewGormLoanRepository(db)
	collectionRepo := persistence.NewGormCollectionRepository(db)
	return NewService(collectionRepo, loanRepo, zap.NewNop()), collectionRepo, loanRepo
}

func newStoredLoan(t *testing.T, loanRepo lending.LoanRepository) *lending.Loan {
	t.Helper()
	loan, err := lending.NewLoan(
		"LOAN-20240101-00001", uuid.New(), "CUST-00001", "Meena Devi", "9123456780",
		valueobject.NewMoneyINRFromFloat(100000), decimal.NewFromInt(12), 12, lending.FrequencyMonthly,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.NoError(t, loanRepo.Create(context.Background(), loan))
	return loan
}

func TestServiceCreateFromLoan(t *testing.T) {
	service, collectionRepo, loanRepo := newServiceFixture(t)
	ctx := context.Background()
	loan := newStoredLoan(t, loanRepo)

	first, err := service.CreateFromLoan(ctx, loan)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, first.LoanID)
	assert.Equal(t, 12, first.PendingCount)

	t.Run("calling again returns the same record", func(t *testing.T) {
		second, err := service.CreateFromLoan(ctx, loan)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		_, total, err := collectionRepo.FindAll(ctx, collection.Filter{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("repeat call syncs instead of recreating", func(t *testing.T) {
		_, err := loan.ApplyPayment("PAY-1", 1, loan.EMI, decimal.Zero, "CASH", "", time.Now())
		require.NoError(t, err)

		synced, err := service.CreateFromLoan(ctx, loan)
		require.NoError(t, err)
		assert.Equal(t, first.ID, synced.ID)
		assert.Equal(t, 1, synced.PaidCount)
	})
}
