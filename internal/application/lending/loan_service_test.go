package lending

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

	collectionapp "github.com/pawnshop/backend/internal/application/collection"
	"github.com/pawnshop/backend/internal/domain/collection"
	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/partner"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/trash"
	"github.com/pawnshop/backend/internal/infrastructure/persistence"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
)

type loanServiceFixture struct {
	service        *LoanService
	collectionRepo collection.Repository
	trashRepo      trash.Repository
	customerID     uuid.UUID
}

func newLoanServiceFixture(t *testing.T) *loanServiceFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	loanRepo := persistence.NewGormLoanRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	collectionRepo := persistence.NewGormCollectionRepository(db)
	trashRepo := persistence.NewGormTrashRepository(db)

	log := zap.NewNop()
	collections := collectionapp.NewService(collectionRepo, loanRepo, log)
	service := NewLoanService(loanRepo, customerRepo, trashRepo, collections, log)

	customer, err := partner.NewCustomer("CUST-00001", "Meena Devi", "9123456780", "12 Temple Street", "", "")
	require.NoError(t, err)
	require.NoError(t, customerRepo.Create(context.Background(), customer))

	return &loanServiceFixture{
		service:        service,
		collectionRepo: collectionRepo,
		trashRepo:      trashRepo,
		customerID:     customer.ID,
	}
}

func (f *loanServiceFixture) createLoan(t *testing.T) *LoanResponse {
	t.Helper()
	loan, err := f.service.Create(context.Background(), CreateLoanRequest{
		CustomerID:       f.customerID,
		Principal:        decimal.NewFromInt(100000),
		RatePercent:      decimal.NewFromInt(12),
		InstallmentCount: 12,
		Frequency:        string(lending.FrequencyMonthly),
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return loan
}

func TestLoanService_Create(t *testing.T) {
	f := newLoanServiceFixture(t)
	ctx := context.Background()

	loan := f.createLoan(t)
	assert.Equal(t, "CUST-00001", loan.CustomerRef)
	assert.Equal(t, "Meena Devi", loan.CustomerName)
	assert.Equal(t, string(lending.LoanStatusActive), loan.Status)
	assert.Len(t, loan.Installments, 12)

	t.Run("opens a collection record", func(t *testing.T) {
		record, err := f.collectionRepo.FindByLoanID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, loan.LoanNumber, record.LoanNumber)
		assert.Equal(t, 12, record.PendingCount)
	})

	t.Run("unknown customer rejected", func(t *testing.T) {
		_, err := f.service.Create(ctx, CreateLoanRequest{
			CustomerID:       uuid.New(),
			Principal:        decimal.NewFromInt(50000),
			RatePercent:      decimal.NewFromInt(12),
			InstallmentCount: 6,
			Frequency:        string(lending.FrequencyMonthly),
			StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLoanService_ApplyPayment(t *testing.T) {
	f := newLoanServiceFixture(t)
	ctx := context.Background()

	loan := f.createLoan(t)

	result, err := f.service.ApplyPayment(ctx, loan.ID, ApplyPaymentRequest{
		InstallmentNumber: 1,
		Amount:            loan.EMI,
		Method:            "CASH",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^PAY-\d{8}-[0-9A-F]{8}$`, result.Payment.PaymentID)
	assert.True(t, result.Loan.Installments[0].IsPaid())
	assert.True(t, loan.EMI.Equal(result.Loan.PaidAmount))

	t.Run("collection record follows the payment", func(t *testing.T) {
		record, err := f.collectionRepo.FindByLoanID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, record.PaidCount)
		assert.Equal(t, 2, record.NextDueNumber)
	})

	t.Run("same installment cannot be paid twice", func(t *testing.T) {
		_, err := f.service.ApplyPayment(ctx, loan.ID, ApplyPaymentRequest{
			InstallmentNumber: 1,
			Amount:            loan.EMI,
			Method:            "CASH",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSTALLMENT_ALREADY_PAID", domainErr.Code)
	})

	t.Run("amount below EMI rejected", func(t *testing.T) {
		_, err := f.service.ApplyPayment(ctx, loan.ID, ApplyPaymentRequest{
			InstallmentNumber: 2,
			Amount:            loan.EMI.Sub(decimal.NewFromInt(1)),
			Method:            "CASH",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})
}

func TestLoanService_ApplyPartialPayment(t *testing.T) {
	f := newLoanServiceFixture(t)
	ctx := context.Background()

	loan := f.createLoan(t)

	result, err := f.service.ApplyPartialPayment(ctx, loan.ID, PartialPaymentRequest{
		Amount: decimal.NewFromInt(4000),
		Method: "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Payment.InstallmentNumber)
	assert.Equal(t, lending.InstallmentStatusPartial, result.Loan.Installments[0].Status)
	assert.True(t, decimal.NewFromInt(4000).Equal(result.Loan.PaidAmount))

	t.Run("partial installment stays next due on the collection record", func(t *testing.T) {
		record, err := f.collectionRepo.FindByLoanID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, record.PaidCount)
		assert.Equal(t, 1, record.NextDueNumber)
	})

	t.Run("a second partial reaching the EMI settles the installment", func(t *testing.T) {
		result, err := f.service.ApplyPartialPayment(ctx, loan.ID, PartialPaymentRequest{
			Amount: loan.EMI.Sub(decimal.NewFromInt(4000)),
			Method: "CASH",
		})
		require.NoError(t, err)
		assert.True(t, result.Loan.Installments[0].IsPaid())

		record, err := f.collectionRepo.FindByLoanID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, record.PaidCount)
		assert.Equal(t, 2, record.NextDueNumber)
	})

	t.Run("amount beyond the installment remainder rejected", func(t *testing.T) {
		_, err := f.service.ApplyPartialPayment(ctx, loan.ID, PartialPaymentRequest{
			Amount: loan.EMI.Add(decimal.NewFromInt(1)),
			Method: "CASH",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})
}

func TestLoanService_ReadsFlagOverdueInstallments(t *testing.T) {
	f := newLoanServiceFixture(t)
	ctx := context.Background()

	// start date far in the past, so the whole schedule is past due
	loan := f.createLoan(t)

	got, err := f.service.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, lending.InstallmentStatusOverdue, got.Installments[0].Status)
	assert.Equal(t, 12, got.OverdueCount)

	listed, _, err := f.service.List(ctx, LoanListFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, lending.InstallmentStatusOverdue, listed[0].Installments[0].Status)
}

func TestLoanService_UndoPayment(t *testing.T) {
	f := newLoanServiceFixture(t)
	ctx := context.Background()

	loan := f.createLoan(t)
	_, err := f.service.ApplyPayment(ctx, loan.ID, ApplyPaymentRequest{
		InstallmentNumber: 1,
		Amount:            loan.EMI,
		Method:            "CASH",
	})
	require.NoError(t, err)

	reverted, err := f.service.UndoPayment(ctx, loan.ID, 1)
	require.NoError(t, err)
	assert.False(t, reverted.Installments[0].IsPaid())
	assert.True(t, reverted.PaidAmount.IsZero())
	assert.Empty(t, reverted.Payments)

	t.Run("collection record reverts with the loan", func(t *testing.T) {
		record, err := f.collectionRepo.FindByLoanID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, record.PaidCount)
		assert.Equal(t, 1, record.NextDueNumber)
	})

	t.Run("unpaid installment cannot be undone", func(t *testing.T) {
		_, err := f.service.UndoPayment(ctx, loan.ID, 2)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSTALLMENT_NOT_PAID", domainErr.Code)
	})
}

func TestLoanService_MoveToTrash(t *testing.T) {
	f := newLoanServiceFixture(t)
	ctx := context.Background()

	loan := f.createLoan(t)
	require.NoError(t, f.service.MoveToTrash(ctx, loan.ID, "admin"))

	_, err := f.service.GetByID(ctx, loan.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.collectionRepo.FindByLoanID(ctx, loan.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	items, err := f.trashRepo.FindAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, trash.ItemTypeLoan, items[0].ItemType)
	assert.Equal(t, loan.LoanNumber, items[0].Reference)
	assert.Equal(t, "admin", items[0].DeletedBy)
}
