package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnshop/backend/internal/domain/pawn"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

var disbursed = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newVoucher(t *testing.T, billNo string, jewelType pawn.JewelType, amount string, due time.Time) *pawn.Voucher {
	v, err := pawn.NewVoucher(
		billNo, uuid.New(), "CUST-001", "Meena Devi", "9123456780",
		jewelType, d("25"), d("24"), d(amount), d("2"), disbursed, due, nil,
	)
	require.NoError(t, err)
	return v
}

func TestBuildLedgerEntry(t *testing.T) {
	queryDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("active voucher before due date", func(t *testing.T) {
		v := newVoucher(t, "B-1", pawn.JewelTypeGold, "50000", disbursed.AddDate(1, 0, 0))
		entry := BuildLedgerEntry(v, queryDate, queryDate)

		assert.Equal(t, LedgerStatusActive, entry.Status)
		assert.Equal(t, 0, entry.DaysOverdue)
		assert.True(t, d("50000").Equal(entry.BalanceAmount))
		assert.Equal(t, 0, entry.PaymentProgress)
		assert.Equal(t, 366, entry.LoanDuration) // 2024 is a leap year
	})

	t.Run("past-due voucher is overdue with ceiling days", func(t *testing.T) {
		due := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
		v := newVoucher(t, "B-2", pawn.JewelTypeGold, "50000", due)
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		entry := BuildLedgerEntry(v, queryDate, now)

		assert.Equal(t, LedgerStatusOverdue, entry.Status)
		assert.Equal(t, 13, entry.DaysOverdue) // 12.5 days rounds up
	})

	t.Run("closed voucher carries settlement figures", func(t *testing.T) {
		v := newVoucher(t, "B-3", pawn.JewelTypeSilver, "50000", disbursed.AddDate(1, 0, 0))
		_, err := v.Close("CASH", disbursed.Add(5*30*24*time.Hour))
		require.NoError(t, err)

		entry := BuildLedgerEntry(v, queryDate, queryDate)
		assert.Equal(t, LedgerStatusClosed, entry.Status)
		assert.True(t, d("55000").Equal(entry.RepaidAmount))
		assert.True(t, entry.BalanceAmount.IsZero())
		assert.Equal(t, 100, entry.PaymentProgress)
		assert.Equal(t, 5, entry.MonthsPaid)
	})

	t.Run("interest-only payments fall back for repaid amount", func(t *testing.T) {
		v := newVoucher(t, "B-4", pawn.JewelTypeGold, "50000", queryDate.AddDate(1, 0, 0))
		require.NoError(t, v.RecordInterestPayment(d("2500"), 2, queryDate))
		v.TotalInterestPaid = d("2500")

		entry := BuildLedgerEntry(v, queryDate, queryDate)
		assert.True(t, d("2500").Equal(entry.RepaidAmount))
		assert.True(t, d("47500").Equal(entry.BalanceAmount))
		assert.Equal(t, 5, entry.PaymentProgress)
	})
}

func TestCategorizeLedger(t *testing.T) {
	entries := []LedgerEntry{
		{Status: LedgerStatusActive},
		{Status: LedgerStatusOverdue},
		{Status: LedgerStatusOverdue},
		{Status: LedgerStatusClosed},
	}
	view := CategorizeLedger(entries)
	assert.Len(t, view.All, 4)
	assert.Len(t, view.Active, 1)
	assert.Len(t, view.Overdue, 2)
	assert.Len(t, view.Closed, 1)
}

func TestBuildLedgerEntryDeterministic(t *testing.T) {
	queryDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	v := newVoucher(t, "B-9", pawn.JewelTypeGold, "75000", disbursed.AddDate(0, 6, 0))

	a := BuildLedgerEntry(v, queryDate, queryDate)
	b := BuildLedgerEntry(v, queryDate, queryDate)

	assert.Equal(t, a.Status, b.Status)
	assert.True(t, a.BalanceAmount.Equal(b.BalanceAmount))
	assert.Equal(t, a.DaysOverdue, b.DaysOverdue)
	assert.Equal(t, a.PaymentProgress, b.PaymentProgress)

	t.Run("identity is stable across rebuilds", func(t *testing.T) {
		assert.Equal(t, a.ID, b.ID)
	})

	t.Run("identity changes with the query date", func(t *testing.T) {
		c := BuildLedgerEntry(v, queryDate.AddDate(0, 0, 1), queryDate)
		assert.NotEqual(t, a.ID, c.ID)
	})

	t.Run("identity changes with the voucher", func(t *testing.T) {
		other := newVoucher(t, "B-10", pawn.JewelTypeGold, "75000", disbursed.AddDate(0, 6, 0))
		c := BuildLedgerEntry(other, queryDate, queryDate)
		assert.NotEqual(t, a.ID, c.ID)
	})
}

func TestStockSummary(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	active := BuildStockLoan(newVoucher(t, "B-1", pawn.JewelTypeGold, "50000", now.AddDate(0, 6, 0)), now)
	overdue := BuildStockLoan(newVoucher(t, "B-2", pawn.JewelTypeGold, "30000", now.AddDate(0, -1, 0)), now)
	closedVoucher := newVoucher(t, "B-3", pawn.JewelTypeSilver, "20000", now.AddDate(0, 6, 0))
	_, err := closedVoucher.Close("", now)
	require.NoError(t, err)
	closed := BuildStockLoan(closedVoucher, now)

	loans := StockLoans{active, overdue, closed}

	t.Run("normalized statuses", func(t *testing.T) {
		assert.Equal(t, StockLoanActive, active.LoanStatus)
		assert.Equal(t, StockLoanOverdue, overdue.LoanStatus)
		assert.Equal(t, StockLoanClosed, closed.LoanStatus)
		assert.Positive(t, overdue.DaysOverdue)
	})

	t.Run("stats", func(t *testing.T) {
		stats := StatsFor(loans)
		assert.Equal(t, 3, stats.TotalLoans)
		assert.Equal(t, 1, stats.ActiveLoans)
		assert.Equal(t, 1, stats.OverdueLoans)
		assert.Equal(t, 1, stats.ClosedLoans)
		assert.True(t, d("100000").Equal(stats.TotalLoanAmount))
		assert.True(t, d("50000").Equal(stats.TotalActiveAmount))
		assert.True(t, d("30000").Equal(stats.TotalOverdueAmount))
		assert.Equal(t, 33, stats.OverdueRate)
	})

	t.Run("jewel type summary", func(t *testing.T) {
		summary := JewelTypeSummaryFor(loans)
		gold := summary[pawn.JewelTypeGold]
		assert.Equal(t, 2, gold.Count)
		assert.Equal(t, 1, gold.Active)
		assert.Equal(t, 1, gold.Overdue)
		assert.True(t, d("80000").Equal(gold.TotalAmount))

		silver := summary[pawn.JewelTypeSilver]
		assert.Equal(t, 1, silver.Closed)
	})

	t.Run("materialized summary", func(t *testing.T) {
		s := NewStockSummary(loans, now)
		assert.Equal(t, 3, s.TotalLoans)
		assert.Equal(t, 1, s.OverdueLoans)
		assert.Equal(t, now, s.LastSyncedAt)
	})
}

func TestApplyStockFilter(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	loans := []StockLoan{
		BuildStockLoan(newVoucher(t, "BILL-100", pawn.JewelTypeGold, "50000", now.AddDate(0, 6, 0)), now),
		BuildStockLoan(newVoucher(t, "BILL-200", pawn.JewelTypeSilver, "30000", now.AddDate(0, -1, 0)), now),
	}

	t.Run("search by bill number", func(t *testing.T) {
		got := ApplyStockFilter(loans, StockFilter{Search: "bill-100"})
		require.Len(t, got, 1)
		assert.Equal(t, "BILL-100", got[0].BillNo)
	})

	t.Run("search by customer name", func(t *testing.T) {
		got := ApplyStockFilter(loans, StockFilter{Search: "meena"})
		assert.Len(t, got, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		got := ApplyStockFilter(loans, StockFilter{Status: "overdue"})
		require.Len(t, got, 1)
		assert.Equal(t, "BILL-200", got[0].BillNo)
	})

	t.Run("jewel type filter", func(t *testing.T) {
		got := ApplyStockFilter(loans, StockFilter{JewelType: "gold"})
		require.Len(t, got, 1)
		assert.Equal(t, "BILL-100", got[0].BillNo)
	})

	t.Run("date filter on disbursement day", func(t *testing.T) {
		day := disbursed
		got := ApplyStockFilter(loans, StockFilter{Date: &day})
		assert.Len(t, got, 2)

		other := disbursed.AddDate(0, 1, 0)
		got = ApplyStockFilter(loans, StockFilter{Date: &other})
		assert.Empty(t, got)
	})

	t.Run("all passes everything", func(t *testing.T) {
		got := ApplyStockFilter(loans, StockFilter{Status: "all", JewelType: "all"})
		assert.Len(t, got, 2)
	})
}
