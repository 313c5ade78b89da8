package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// LedgerStatus is the normalized status a voucher maps to in the ledger
type LedgerStatus string

const (
	LedgerStatusActive  LedgerStatus = "active"
	LedgerStatusOverdue LedgerStatus = "overdue"
	LedgerStatusClosed  LedgerStatus = "closed"
)

// LedgerEntry is one voucher's row in the daily ledger. Entries for a
// query date are fully recomputed on rebuild; they are never edited.
type LedgerEntry struct {
	shared.BaseEntity
	QueryDate       time.Time
	VoucherID       uuid.UUID
	CustomerID      uuid.UUID
	BillNo          string
	CustomerRef     string
	CustomerName    string
	CustomerPhone   string
	JewelType       pawn.JewelType
	GrossWeight     decimal.Decimal
	NetWeight       decimal.Decimal
	JewelryItems    pawn.JewelryItems
	FinalLoanAmount decimal.Decimal
	InterestRate    decimal.Decimal
	InterestAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	RepaidAmount    decimal.Decimal
	BalanceAmount   decimal.Decimal
	Disbursement    time.Time
	DueDate         time.Time
	ClosedDate      *time.Time
	Status          LedgerStatus
	DaysOverdue     int
	LoanDuration    int
	PaymentProgress int
	MonthsPaid      int
}

const dayDuration = 24 * time.Hour

// ledgerEntryID derives a stable entry identity from the query date and
// voucher, so rebuilding the same date twice yields the same rows apart
// from timestamps.
func ledgerEntryID(queryDate time.Time, voucherID uuid.UUID) uuid.UUID {
	key := queryDate.Format("2006-01-02") + "/" + voucherID.String()
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}

// BuildLedgerEntry computes a ledger row from a voucher.
//
// Repaid falls back from the settled amount to interest paid so that
// partially serviced vouchers still show progress. Balance never goes
// negative. Overdue is judged against the end of the query day.
func BuildLedgerEntry(v *pawn.Voucher, queryDate, now time.Time) LedgerEntry {
	repaid := v.FinalAmountPaid
	if repaid.IsZero() {
		repaid = v.TotalInterestPaid
	}
	balance := v.FinalLoanAmount.Sub(repaid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	status := LedgerStatusActive
	switch v.Status {
	case pawn.VoucherStatusClosed:
		status = LedgerStatusClosed
	case pawn.VoucherStatusActive, pawn.VoucherStatusPending:
		endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
		switch {
		case v.DueDate.Before(endOfDay) && balance.IsPositive():
			status = LedgerStatusOverdue
		case !balance.IsPositive():
			status = LedgerStatusClosed
		}
	}

	daysOverdue := 0
	if status == LedgerStatusOverdue {
		daysOverdue = ceilDays(now.Sub(v.DueDate))
	}

	progress := 0
	if v.FinalLoanAmount.IsPositive() {
		pct := repaid.Div(v.FinalLoanAmount).Mul(decimal.NewFromInt(100)).Round(0)
		progress = int(pct.IntPart())
		if progress > 100 {
			progress = 100
		}
	}

	entity := shared.NewBaseEntity()
	entity.ID = ledgerEntryID(queryDate, v.ID)

	return LedgerEntry{
		BaseEntity:      entity,
		QueryDate:       queryDate,
		VoucherID:       v.ID,
		CustomerID:      v.CustomerID,
		BillNo:          v.BillNo,
		CustomerRef:     v.CustomerRef,
		CustomerName:    v.CustomerName,
		CustomerPhone:   v.CustomerPhone,
		JewelType:       v.JewelType,
		GrossWeight:     v.GrossWeight,
		NetWeight:       v.NetWeight,
		JewelryItems:    v.JewelryItems,
		FinalLoanAmount: v.FinalLoanAmount,
		InterestRate:    v.InterestRate,
		InterestAmount:  v.InterestAmount,
		TotalAmount:     v.OverallLoanAmount,
		RepaidAmount:    repaid,
		BalanceAmount:   balance,
		Disbursement:    v.DisbursementDate,
		DueDate:         v.DueDate,
		ClosedDate:      v.ClosedDate,
		Status:          status,
		DaysOverdue:     daysOverdue,
		LoanDuration:    ceilDays(v.DueDate.Sub(v.DisbursementDate)),
		PaymentProgress: progress,
		MonthsPaid:      v.MonthsPaid,
	}
}

func ceilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	days := int(d / dayDuration)
	if d%dayDuration != 0 {
		days++
	}
	return days
}

// LedgerView groups a rebuild's entries by normalized status
type LedgerView struct {
	All     []LedgerEntry
	Active  []LedgerEntry
	Overdue []LedgerEntry
	Closed  []LedgerEntry
}

// CategorizeLedger splits entries into the standard ledger views
func CategorizeLedger(entries []LedgerEntry) LedgerView {
	view := LedgerView{All: entries}
	for _, e := range entries {
		switch e.Status {
		case LedgerStatusActive:
			view.Active = append(view.Active, e)
		case LedgerStatusOverdue:
			view.Overdue = append(view.Overdue, e)
		case LedgerStatusClosed:
			view.Closed = append(view.Closed, e)
		}
	}
	return view
}

// LedgerRepository is the persistence port for ledger entries
type LedgerRepository interface {
	DeleteByQueryDate(ctx context.Context, queryDate time.Time) error
	BulkInsert(ctx context.Context, entries []LedgerEntry) error
	FindByQueryDate(ctx context.Context, queryDate time.Time) ([]LedgerEntry, error)
}
