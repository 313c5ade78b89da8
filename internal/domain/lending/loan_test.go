package lending

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/shared/valueobject"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func createTestLoan(t *testing.T) *Loan {
	loan, err := NewLoan(
		"LOAN-20240101-00001",
		uuid.New(),
		"CUST-001",
		"Ravi Kumar",
		"9876543210",
		valueobject.NewMoneyINRFromFloat(100000),
		d("12"),
		12,
		FrequencyMonthly,
		testStart,
	)
	require.NoError(t, err)
	return loan
}

func payAllInstallments(t *testing.T, loan *Loan) {
	for i := 1; i <= loan.InstallmentCount; i++ {
		_, err := loan.ApplyPayment(
			fmt.Sprintf("PAY-20240101-%05d", i),
			i, loan.EMI, d("0"), "CASH", "", testStart.AddDate(0, i, 0))
		require.NoError(t, err)
	}
}

func TestNewLoan(t *testing.T) {
	t.Run("creates loan with generated schedule", func(t *testing.T) {
		loan := createTestLoan(t)
		assert.NotEqual(t, uuid.Nil, loan.ID)
		assert.Equal(t, LoanStatusActive, loan.Status)
		assert.Len(t, loan.Installments, 12)
		assert.Empty(t, loan.Payments)
		assert.True(t, d("112000").Equal(loan.TotalAmount))
		assert.True(t, d("9333.33").Equal(loan.EMI))
		assert.NotEmpty(t, loan.GetDomainEvents())
	})

	t.Run("fails with empty loan number", func(t *testing.T) {
		_, err := NewLoan("", uuid.New(), "CUST-001", "Ravi", "99", valueobject.NewMoneyINRFromFloat(1000), d("12"), 12, FrequencyMonthly, testStart)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Loan number cannot be empty")
	})

	t.Run("fails with nil customer", func(t *testing.T) {
		_, err := NewLoan("LOAN-001", uuid.Nil, "CUST-001", "Ravi", "99", valueobject.NewMoneyINRFromFloat(1000), d("12"), 12, FrequencyMonthly, testStart)
		require.Error(t, err)
	})

	t.Run("fails with empty customer name", func(t *testing.T) {
		_, err := NewLoan("LOAN-001", uuid.New(), "CUST-001", "", "99", valueobject.NewMoneyINRFromFloat(1000), d("12"), 12, FrequencyMonthly, testStart)
		require.Error(t, err)
	})

	t.Run("fails with zero principal", func(t *testing.T) {
		_, err := NewLoan("LOAN-001", uuid.New(), "CUST-001", "Ravi", "99", valueobject.ZeroINR(), d("12"), 12, FrequencyMonthly, testStart)
		require.Error(t, err)
	})
}

func TestLoanApplyPayment(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("settles the installment and records the payment", func(t *testing.T) {
		loan := createTestLoan(t)
		payment, err := loan.ApplyPayment("PAY-20240201-00001", 1, loan.EMI, d("50"), "CASH", "on time", now)
		require.NoError(t, err)

		inst := loan.Installments[0]
		assert.Equal(t, InstallmentStatusPaid, inst.Status)
		assert.True(t, loan.EMI.Equal(inst.PaidAmount))
		require.NotNil(t, inst.PaidDate)

		require.Len(t, loan.Payments, 1)
		assert.Equal(t, "PAY-20240201-00001", payment.PaymentID)
		assert.True(t, loan.EMI.Add(d("50")).Equal(payment.Total))
		assert.Equal(t, PaymentStatusReceived, payment.Status)
		assert.Equal(t, LoanStatusActive, loan.Status)
		assert.Equal(t, 2, loan.Version)
	})

	t.Run("fails for unknown installment", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPayment("PAY-1", 99, loan.EMI, d("0"), "CASH", "", now)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INSTALLMENT_NOT_FOUND", de.Code)
	})

	t.Run("fails when installment is already paid", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPayment("PAY-1", 1, loan.EMI, d("0"), "CASH", "", now)
		require.NoError(t, err)
		_, err = loan.ApplyPayment("PAY-2", 1, loan.EMI, d("0"), "CASH", "", now)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INSTALLMENT_ALREADY_PAID", de.Code)
	})

	t.Run("fails when amount is below the EMI", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPayment("PAY-1", 1, loan.EMI.Sub(d("0.01")), d("0"), "CASH", "", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be at least the EMI amount")
	})

	t.Run("fails when amount exceeds outstanding balance", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPayment("PAY-1", 1, loan.TotalAmount.Add(d("1")), d("0"), "CASH", "", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the remaining loan balance")
	})

	t.Run("fails on a terminal loan", func(t *testing.T) {
		loan := createTestLoan(t)
		loan.Status = LoanStatusDefaulted
		_, err := loan.ApplyPayment("PAY-1", 1, loan.EMI, d("0"), "CASH", "", now)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})

	t.Run("overpayment stays on the installment", func(t *testing.T) {
		loan := createTestLoan(t)
		over := loan.EMI.Add(d("500"))
		_, err := loan.ApplyPayment("PAY-1", 1, over, d("0"), "CASH", "", now)
		require.NoError(t, err)
		assert.True(t, over.Equal(loan.Installments[0].PaidAmount))
		assert.Equal(t, InstallmentStatusPending, loan.Installments[1].Status)
	})

	t.Run("completing all installments completes the loan", func(t *testing.T) {
		loan := createTestLoan(t)
		payAllInstallments(t, loan)
		assert.Equal(t, LoanStatusCompleted, loan.Status)
		assert.True(t, loan.AllInstallmentsPaid())
	})
}

func TestLoanApplyPartialPayment(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("marks the next unpaid installment partial", func(t *testing.T) {
		loan := createTestLoan(t)
		payment, err := loan.ApplyPartialPayment("PAY-1", d("4000"), d("0"), "CASH", "", now)
		require.NoError(t, err)

		inst := loan.Installments[0]
		assert.Equal(t, InstallmentStatusPartial, inst.Status)
		assert.True(t, d("4000").Equal(inst.PaidAmount))
		assert.Nil(t, inst.PaidDate)
		assert.Equal(t, 1, payment.InstallmentNumber)
		assert.True(t, d("4000").Equal(loan.PaidTotal()))

		// the partial installment is still the next one due
		next := loan.NextDue()
		require.NotNil(t, next)
		assert.Equal(t, 1, next.Number)
	})

	t.Run("accumulates to paid when the EMI is reached", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPartialPayment("PAY-1", d("4000"), d("0"), "CASH", "", now)
		require.NoError(t, err)
		_, err = loan.ApplyPartialPayment("PAY-2", loan.EMI.Sub(d("4000")), d("0"), "CASH", "", now)
		require.NoError(t, err)

		inst := loan.Installments[0]
		assert.Equal(t, InstallmentStatusPaid, inst.Status)
		assert.True(t, loan.EMI.Equal(inst.PaidAmount))
		require.NotNil(t, inst.PaidDate)
		require.Len(t, loan.Payments, 2)

		next := loan.NextDue()
		require.NotNil(t, next)
		assert.Equal(t, 2, next.Number)
	})

	t.Run("rejects amount above what the installment still owes", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPartialPayment("PAY-1", loan.EMI.Add(d("0.01")), d("0"), "CASH", "", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the remaining installment amount")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPartialPayment("PAY-1", d("0"), d("0"), "CASH", "", now)
		require.Error(t, err)
	})

	t.Run("rejects when every installment is paid", func(t *testing.T) {
		loan := createTestLoan(t)
		payAllInstallments(t, loan)
		_, err := loan.ApplyPartialPayment("PAY-1", d("100"), d("0"), "CASH", "", now)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INSTALLMENT_ALREADY_PAID", de.Code)
	})

	t.Run("fails on a terminal loan", func(t *testing.T) {
		loan := createTestLoan(t)
		loan.Status = LoanStatusDefaulted
		_, err := loan.ApplyPartialPayment("PAY-1", d("100"), d("0"), "CASH", "", now)
		require.Error(t, err)
	})

	t.Run("full payment on a partial installment keeps paid amounts in step", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPartialPayment("PAY-1", d("3000"), d("0"), "CASH", "", now)
		require.NoError(t, err)
		_, err = loan.ApplyPayment("PAY-2", 1, loan.EMI, d("0"), "CASH", "", now)
		require.NoError(t, err)

		inst := loan.Installments[0]
		assert.Equal(t, InstallmentStatusPaid, inst.Status)
		assert.True(t, d("3000").Add(loan.EMI).Equal(inst.PaidAmount))

		recorded := d("0")
		for _, p := range loan.Payments {
			recorded = recorded.Add(p.Amount)
		}
		assert.True(t, recorded.Equal(inst.PaidAmount))
	})

	t.Run("refresh overdue keeps the partial marker", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPartialPayment("PAY-1", d("4000"), d("0"), "CASH", "", now)
		require.NoError(t, err)

		later := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
		loan.RefreshOverdue(later)
		assert.Equal(t, InstallmentStatusPartial, loan.Installments[0].Status)
		assert.Equal(t, InstallmentStatusOverdue, loan.Installments[1].Status)
		assert.Equal(t, 4, loan.OverdueCount(later))
	})
}

func TestLoanUndoPayment(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("reverts installment and removes payment records", func(t *testing.T) {
		loan := createTestLoan(t)
		_, err := loan.ApplyPayment("PAY-1", 1, loan.EMI, d("0"), "CASH", "", now)
		require.NoError(t, err)

		require.NoError(t, loan.UndoPayment(1, now))
		inst := loan.Installments[0]
		assert.Equal(t, InstallmentStatusPending, inst.Status)
		assert.True(t, inst.PaidAmount.IsZero())
		assert.Nil(t, inst.PaidDate)
		assert.Empty(t, loan.Payments)
	})

	t.Run("fails when installment has no payment", func(t *testing.T) {
		loan := createTestLoan(t)
		err := loan.UndoPayment(1, now)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INSTALLMENT_NOT_PAID", de.Code)
	})

	t.Run("completed loan becomes active again", func(t *testing.T) {
		loan := createTestLoan(t)
		payAllInstallments(t, loan)
		require.Equal(t, LoanStatusCompleted, loan.Status)

		require.NoError(t, loan.UndoPayment(12, now))
		assert.Equal(t, LoanStatusActive, loan.Status)
	})
}

func TestLoanUpdateStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("rejects closing with unpaid installments", func(t *testing.T) {
		loan := createTestLoan(t)
		err := loan.UpdateStatus(LoanStatusClosed, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "All installments must be paid")
	})

	t.Run("closes a fully paid loan", func(t *testing.T) {
		loan := createTestLoan(t)
		payAllInstallments(t, loan)
		require.NoError(t, loan.UpdateStatus(LoanStatusClosed, now))
		assert.Equal(t, LoanStatusClosed, loan.Status)
	})

	t.Run("marks an active loan defaulted", func(t *testing.T) {
		loan := createTestLoan(t)
		require.NoError(t, loan.UpdateStatus(LoanStatusDefaulted, now))
		assert.Equal(t, LoanStatusDefaulted, loan.Status)
	})

	t.Run("rejects transition to the same status", func(t *testing.T) {
		loan := createTestLoan(t)
		err := loan.UpdateStatus(LoanStatusActive, now)
		require.Error(t, err)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		loan := createTestLoan(t)
		err := loan.UpdateStatus(LoanStatus("PAUSED"), now)
		require.Error(t, err)
	})
}

func TestLoanHelpers(t *testing.T) {
	now := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

	t.Run("overdue count and next due", func(t *testing.T) {
		loan := createTestLoan(t)
		// installments due Feb 1 through May 1 are past mid-May
		assert.Equal(t, 4, loan.OverdueCount(now))

		_, err := loan.ApplyPayment("PAY-1", 1, loan.EMI, d("0"), "CASH", "", now)
		require.NoError(t, err)
		assert.Equal(t, 3, loan.OverdueCount(now))

		next := loan.NextDue()
		require.NotNil(t, next)
		assert.Equal(t, 2, next.Number)
	})

	t.Run("outstanding balance decreases with payments", func(t *testing.T) {
		loan := createTestLoan(t)
		before := loan.OutstandingBalance()
		_, err := loan.ApplyPayment("PAY-1", 1, loan.EMI, d("0"), "CASH", "", now)
		require.NoError(t, err)
		assert.True(t, before.Sub(loan.EMI).Equal(loan.OutstandingBalance()))
	})

	t.Run("refresh overdue flags unpaid past-due installments", func(t *testing.T) {
		loan := createTestLoan(t)
		loan.RefreshOverdue(now)
		assert.Equal(t, InstallmentStatusOverdue, loan.Installments[0].Status)
		assert.Equal(t, InstallmentStatusPending, loan.Installments[11].Status)
	})
}
