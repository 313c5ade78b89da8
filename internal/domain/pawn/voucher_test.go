package pawn

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnshop/backend/internal/domain/shared"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

var disbursed = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func createTestVoucher(t *testing.T) *Voucher {
	v, err := NewVoucher(
		"BILL-20240101-00001",
		uuid.New(),
		"CUST-001",
		"Meena Devi",
		"9123456780",
		JewelTypeGold,
		d("25.5"),
		d("24.2"),
		d("50000"),
		d("2"),
		disbursed,
		disbursed.AddDate(1, 0, 0),
		JewelryItems{{Category: "chain", Name: "gold chain", Count: 1, Purity: "22K"}},
	)
	require.NoError(t, err)
	return v
}

func TestNewVoucher(t *testing.T) {
	t.Run("creates active voucher with derived interest", func(t *testing.T) {
		v := createTestVoucher(t)
		assert.Equal(t, VoucherStatusActive, v.Status)
		assert.True(t, d("1000").Equal(v.InterestAmount), "interest: %s", v.InterestAmount)
		assert.True(t, d("51000").Equal(v.OverallLoanAmount))
		assert.Empty(t, v.PaymentHistory)
	})

	t.Run("fails with empty bill number", func(t *testing.T) {
		_, err := NewVoucher("", uuid.New(), "C", "N", "P", JewelTypeGold, d("10"), d("9"), d("1000"), d("2"), disbursed, disbursed, nil)
		require.Error(t, err)
	})

	t.Run("fails with unknown jewel type", func(t *testing.T) {
		_, err := NewVoucher("B-1", uuid.New(), "C", "N", "P", JewelType("platinum"), d("10"), d("9"), d("1000"), d("2"), disbursed, disbursed, nil)
		require.Error(t, err)
	})

	t.Run("fails with non-positive weight", func(t *testing.T) {
		_, err := NewVoucher("B-1", uuid.New(), "C", "N", "P", JewelTypeGold, d("0"), d("9"), d("1000"), d("2"), disbursed, disbursed, nil)
		require.Error(t, err)
	})
}

func TestVoucherClose(t *testing.T) {
	t.Run("settles with accrued interest", func(t *testing.T) {
		v := createTestVoucher(t)
		// five full 30-day months
		now := disbursed.Add(5*30*24*time.Hour + time.Hour)

		settlement, err := v.Close("UPI", now)
		require.NoError(t, err)

		assert.Equal(t, 5, settlement.MonthsPaid)
		// 50000 * 2% * 5 months
		assert.True(t, d("5000").Equal(settlement.TotalInterestDue), "due: %s", settlement.TotalInterestDue)
		assert.True(t, d("5000").Equal(settlement.RemainingInterest))
		assert.True(t, d("55000").Equal(settlement.FinalAmount))

		assert.Equal(t, VoucherStatusClosed, v.Status)
		require.NotNil(t, v.ClosedDate)
		assert.Equal(t, 5, v.MonthsPaid)
		assert.True(t, d("5000").Equal(v.TotalInterestPaid))
		assert.True(t, d("55000").Equal(v.FinalAmountPaid))
		assert.Equal(t, "UPI", v.PaymentMethod)
	})

	t.Run("interest already paid reduces the settlement", func(t *testing.T) {
		v := createTestVoucher(t)
		require.NoError(t, v.RecordInterestPayment(d("3000"), 3, disbursed.AddDate(0, 3, 0)))

		now := disbursed.Add(5 * 30 * 24 * time.Hour)
		settlement, err := v.Close("", now)
		require.NoError(t, err)

		assert.True(t, d("2000").Equal(settlement.RemainingInterest))
		assert.True(t, d("52000").Equal(settlement.FinalAmount))
		// totalInterestPaid = previously remitted + remaining
		assert.True(t, d("5000").Equal(v.TotalInterestPaid))
	})

	t.Run("overpaid interest floors the remainder at zero", func(t *testing.T) {
		v := createTestVoucher(t)
		require.NoError(t, v.RecordInterestPayment(d("9999"), 9, disbursed.AddDate(0, 1, 0)))

		settlement, err := v.Close("", disbursed.Add(2*30*24*time.Hour))
		require.NoError(t, err)
		assert.True(t, settlement.RemainingInterest.IsZero())
		assert.True(t, d("50000").Equal(settlement.FinalAmount))
	})

	t.Run("closing before a full month accrues nothing", func(t *testing.T) {
		v := createTestVoucher(t)
		settlement, err := v.Close("", disbursed.Add(29*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 0, settlement.MonthsPaid)
		assert.True(t, d("50000").Equal(settlement.FinalAmount))
	})

	t.Run("fails when already closed", func(t *testing.T) {
		v := createTestVoucher(t)
		_, err := v.Close("", disbursed.AddDate(0, 2, 0))
		require.NoError(t, err)

		_, err = v.Close("", disbursed.AddDate(0, 3, 0))
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "ALREADY_CLOSED", de.Code)
	})
}

func TestVoucherRevertClosure(t *testing.T) {
	now := disbursed.AddDate(0, 6, 0)

	t.Run("reopens a closed voucher", func(t *testing.T) {
		v := createTestVoucher(t)
		_, err := v.Close("CARD", now)
		require.NoError(t, err)

		require.NoError(t, v.RevertClosure(now))
		assert.Equal(t, VoucherStatusActive, v.Status)
		assert.Nil(t, v.ClosedDate)
		assert.Equal(t, 0, v.MonthsPaid)
		assert.True(t, v.TotalInterestPaid.IsZero())
		assert.True(t, v.FinalAmountPaid.IsZero())
	})

	t.Run("fails on a voucher that is not closed", func(t *testing.T) {
		v := createTestVoucher(t)
		err := v.RevertClosure(now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Can only revert closed vouchers")
	})
}

func TestVoucherAuction(t *testing.T) {
	now := disbursed.AddDate(1, 1, 0)

	t.Run("transfers an overdue voucher to auction and reverts", func(t *testing.T) {
		v := createTestVoucher(t)
		assert.True(t, v.IsOverdue(now))

		require.NoError(t, v.TransferToAuction("unredeemed after due date", now))
		assert.Equal(t, VoucherStatusAuctioned, v.Status)
		require.NotNil(t, v.AuctionDate)

		require.NoError(t, v.RevertAuction(now))
		assert.Equal(t, VoucherStatusActive, v.Status)
		assert.Nil(t, v.AuctionDate)
		assert.Empty(t, v.AuctionNotes)
	})

	t.Run("closed voucher cannot be auctioned", func(t *testing.T) {
		v := createTestVoucher(t)
		_, err := v.Close("", now)
		require.NoError(t, err)
		require.Error(t, v.TransferToAuction("", now))
	})

	t.Run("revert requires auctioned status", func(t *testing.T) {
		v := createTestVoucher(t)
		require.Error(t, v.RevertAuction(now))
	})
}

func TestVoucherRecordInterestPayment(t *testing.T) {
	t.Run("appends to the payment history", func(t *testing.T) {
		v := createTestVoucher(t)
		require.NoError(t, v.RecordInterestPayment(d("1000"), 1, disbursed.AddDate(0, 1, 0)))
		require.NoError(t, v.RecordInterestPayment(d("1000"), 1, disbursed.AddDate(0, 2, 0)))
		require.Len(t, v.PaymentHistory, 2)
		assert.True(t, d("2000").Equal(v.PaidInterest()))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		v := createTestVoucher(t)
		require.Error(t, v.RecordInterestPayment(d("0"), 1, disbursed))
	})

	t.Run("rejects payments on closed vouchers", func(t *testing.T) {
		v := createTestVoucher(t)
		_, err := v.Close("", disbursed.AddDate(0, 2, 0))
		require.NoError(t, err)
		require.Error(t, v.RecordInterestPayment(d("1000"), 1, disbursed.AddDate(0, 3, 0)))
	})
}
