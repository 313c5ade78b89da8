package collection

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/shared/valueobject"
)

var loanStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newLoan(t *testing.T) *lending.Loan {
	loan, err := lending.NewLoan(
		"LOAN-20240101-00001",
		uuid.New(),
		"CUST-001",
		"Ravi Kumar",
		"9876543210",
		valueobject.NewMoneyINRFromFloat(100000),
		decimal.NewFromInt(12),
		12,
		lending.FrequencyMonthly,
		loanStart,
	)
	require.NoError(t, err)
	return loan
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, PriorityMedium, PriorityFor(0))
	assert.Equal(t, PriorityHigh, PriorityFor(1))
	assert.Equal(t, PriorityHigh, PriorityFor(2))
	assert.Equal(t, PriorityCritical, PriorityFor(3))
	assert.Equal(t, PriorityCritical, PriorityFor(10))
}

func TestNewFromLoan(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("snapshots the loan state", func(t *testing.T) {
		loan := newLoan(t)
		c, err := NewFromLoan(loan, now)
		require.NoError(t, err)

		assert.Equal(t, loan.ID, c.LoanID)
		assert.Equal(t, loan.LoanNumber, c.LoanNumber)
		assert.Equal(t, loan.CustomerName, c.CustomerName)
		assert.Len(t, c.Installments, 12)
		assert.Equal(t, 12, c.TotalInstallments)
		assert.Equal(t, 0, c.PaidCount)
		assert.Equal(t, 12, c.PendingCount)
		assert.Equal(t, 0, c.OverdueCount)
		assert.Equal(t, PriorityMedium, c.Priority)
		require.NotNil(t, c.NextDueDate)
		assert.Equal(t, 1, c.NextDueNumber)
		assert.True(t, loan.TotalAmount.Equal(c.OutstandingAmount))
	})

	t.Run("rejects nil loan", func(t *testing.T) {
		_, err := NewFromLoan(nil, now)
		require.Error(t, err)
	})
}

func TestSyncSummaryLeavesArraysStale(t *testing.T) {
	now := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	loan := newLoan(t)
	c, err := NewFromLoan(loan, loanStart)
	require.NoError(t, err)

	_, err = loan.ApplyPayment("PAY-1", 1, loan.EMI, decimal.Zero, "CASH", "", now)
	require.NoError(t, err)

	c.SyncSummary(loan, now)

	// summary reflects the payment
	assert.Equal(t, 1, c.PaidCount)
	assert.Equal(t, 11, c.PendingCount)
	assert.True(t, loan.EMI.Equal(c.PaidAmount))
	assert.Equal(t, 2, c.NextDueNumber)

	// copied array does not
	assert.Equal(t, lending.InstallmentStatusPending, c.Installments[0].Status)
	assert.Empty(t, c.Payments)
}

func TestResyncReplacesArrays(t *testing.T) {
	now := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	loan := newLoan(t)
	c, err := NewFromLoan(loan, loanStart)
	require.NoError(t, err)

	_, err = loan.ApplyPayment("PAY-1", 1, loan.EMI, decimal.Zero, "CASH", "", now)
	require.NoError(t, err)

	c.Resync(loan, now)

	assert.Equal(t, lending.InstallmentStatusPaid, c.Installments[0].Status)
	require.Len(t, c.Payments, 1)
	assert.Equal(t, "PAY-1", c.Payments[0].PaymentID)
}

func TestRefreshDerived(t *testing.T) {
	loan := newLoan(t)
	c, err := NewFromLoan(loan, loanStart)
	require.NoError(t, err)

	t.Run("no overdue at start", func(t *testing.T) {
		c.RefreshDerived(loanStart)
		assert.Equal(t, 0, c.OverdueCount)
		assert.Equal(t, PriorityMedium, c.Priority)
	})

	t.Run("one overdue raises priority to high", func(t *testing.T) {
		c.RefreshDerived(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, 1, c.OverdueCount)
		assert.Equal(t, PriorityHigh, c.Priority)
	})

	t.Run("three overdue raises priority to critical", func(t *testing.T) {
		c.RefreshDerived(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, 3, c.OverdueCount)
		assert.Equal(t, PriorityCritical, c.Priority)
	})
}
