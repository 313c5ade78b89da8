package report

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// StockLoanStatus is the normalized status a voucher maps to in the
// stock summary
type StockLoanStatus string

const (
	StockLoanActive   StockLoanStatus = "active"
	StockLoanOverdue  StockLoanStatus = "overdue"
	StockLoanClosed   StockLoanStatus = "closed"
	StockLoanInactive StockLoanStatus = "inactive"
)

// StockLoan is one voucher's snapshot inside the stock summary
type StockLoan struct {
	VoucherID       uuid.UUID          `json:"voucher_id"`
	BillNo          string             `json:"bill_no"`
	CustomerID      uuid.UUID          `json:"customer_id"`
	CustomerRef     string             `json:"customer_ref"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	JewelType       pawn.JewelType     `json:"jewel_type"`
	GrossWeight     decimal.Decimal    `json:"gross_weight"`
	NetWeight       decimal.Decimal    `json:"net_weight"`
	FinalLoanAmount decimal.Decimal    `json:"final_loan_amount"`
	InterestRate    decimal.Decimal    `json:"interest_rate"`
	InterestAmount  decimal.Decimal    `json:"interest_amount"`
	OverallAmount   decimal.Decimal    `json:"overall_amount"`
	Disbursement    time.Time          `json:"disbursement"`
	DueDate         time.Time          `json:"due_date"`
	VoucherStatus   pawn.VoucherStatus `json:"voucher_status"`
	LoanStatus      StockLoanStatus    `json:"loan_status"`
	DaysOverdue     int                `json:"days_overdue"`
	MonthsPaid      int                `json:"months_paid"`
	TotalInterest   decimal.Decimal    `json:"total_interest_paid"`
	ClosedDate      *time.Time         `json:"closed_date,omitempty"`
	JewelryItems    pawn.JewelryItems  `json:"jewelry_items"`
}

// BuildStockLoan computes a stock summary snapshot from a voucher
func BuildStockLoan(v *pawn.Voucher, now time.Time) StockLoan {
	overdue := v.DueDate.Before(now) && v.Status != pawn.VoucherStatusClosed

	status := StockLoanInactive
	switch {
	case overdue:
		status = StockLoanOverdue
	case v.Status == pawn.VoucherStatusClosed:
		status = StockLoanClosed
	case v.Status == pawn.VoucherStatusActive:
		status = StockLoanActive
	}

	daysOverdue := 0
	if overdue {
		daysOverdue = ceilDays(now.Sub(v.DueDate))
	}

	return StockLoan{
		VoucherID:       v.ID,
		BillNo:          v.BillNo,
		CustomerID:      v.CustomerID,
		CustomerRef:     v.CustomerRef,
		CustomerName:    v.CustomerName,
		CustomerPhone:   v.CustomerPhone,
		JewelType:       v.JewelType,
		GrossWeight:     v.GrossWeight,
		NetWeight:       v.NetWeight,
		FinalLoanAmount: v.FinalLoanAmount,
		InterestRate:    v.InterestRate,
		InterestAmount:  v.InterestAmount,
		OverallAmount:   v.OverallLoanAmount,
		Disbursement:    v.DisbursementDate,
		DueDate:         v.DueDate,
		VoucherStatus:   v.Status,
		LoanStatus:      status,
		DaysOverdue:     daysOverdue,
		MonthsPaid:      v.MonthsPaid,
		TotalInterest:   v.TotalInterestPaid,
		ClosedDate:      v.ClosedDate,
		JewelryItems:    v.JewelryItems,
	}
}

// StockLoans is stored as a JSONB column on the summary row
type StockLoans []StockLoan

// Value implements driver.Valuer for JSONB storage
func (sl StockLoans) Value() (driver.Value, error) {
	if sl == nil {
		return "[]", nil
	}
	data, err := json.Marshal(sl)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (sl *StockLoans) Scan(value any) error {
	if value == nil {
		*sl = StockLoans{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StockLoans", value)
	}
	return json.Unmarshal(data, sl)
}

// StockStats aggregates counts and amounts over a set of stock loans
type StockStats struct {
	TotalLoans         int             `json:"total_loans"`
	ActiveLoans        int             `json:"active_loans"`
	OverdueLoans       int             `json:"overdue_loans"`
	ClosedLoans        int             `json:"closed_loans"`
	TotalActiveAmount  decimal.Decimal `json:"total_active_amount"`
	TotalOverdueAmount decimal.Decimal `json:"total_overdue_amount"`
	TotalLoanAmount    decimal.Decimal `json:"total_loan_amount"`
	OverdueRate        int             `json:"overdue_rate"`
}

// StatsFor computes aggregate stats over stock loans
func StatsFor(loans []StockLoan) StockStats {
	stats := StockStats{
		TotalActiveAmount:  decimal.Zero,
		TotalOverdueAmount: decimal.Zero,
		TotalLoanAmount:    decimal.Zero,
	}
	stats.TotalLoans = len(loans)
	for _, l := range loans {
		stats.TotalLoanAmount = stats.TotalLoanAmount.Add(l.FinalLoanAmount)
		switch l.LoanStatus {
		case StockLoanActive:
			stats.ActiveLoans++
			stats.TotalActiveAmount = stats.TotalActiveAmount.Add(l.FinalLoanAmount)
		case StockLoanOverdue:
			stats.OverdueLoans++
			stats.TotalOverdueAmount = stats.TotalOverdueAmount.Add(l.FinalLoanAmount)
		case StockLoanClosed:
			stats.ClosedLoans++
		}
	}
	if stats.TotalLoans > 0 {
		rate := decimal.NewFromInt(int64(stats.OverdueLoans)).
			Div(decimal.NewFromInt(int64(stats.TotalLoans))).
			Mul(decimal.NewFromInt(100)).Round(0)
		stats.OverdueRate = int(rate.IntPart())
	}
	return stats
}

// JewelTypeStats aggregates per jewel type
type JewelTypeStats struct {
	Active      int             `json:"active"`
	Overdue     int             `json:"overdue"`
	Closed      int             `json:"closed"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// JewelTypeSummaryFor groups stock loans by jewel type
func JewelTypeSummaryFor(loans []StockLoan) map[pawn.JewelType]JewelTypeStats {
	summary := make(map[pawn.JewelType]JewelTypeStats)
	for _, l := range loans {
		s := summary[l.JewelType]
		switch l.LoanStatus {
		case StockLoanActive:
			s.Active++
		case StockLoanOverdue:
			s.Overdue++
		case StockLoanClosed:
			s.Closed++
		}
		s.Count++
		s.TotalAmount = s.TotalAmount.Add(l.FinalLoanAmount)
		summary[l.JewelType] = s
	}
	return summary
}

// StockFilter selects loans from the stock summary in memory
type StockFilter struct {
	Search    string
	Date      *time.Time
	Status    string // active, overdue, closed or all
	JewelType string // gold, silver, diamond or all
}

// ApplyStockFilter filters stock loans per the original desk rules:
// search matches bill number, customer name, ref or phone; date matches
// the disbursement day; status and jewel type match exactly.
func ApplyStockFilter(loans []StockLoan, filter StockFilter) []StockLoan {
	result := make([]StockLoan, 0, len(loans))
	search := strings.ToLower(filter.Search)
	for _, l := range loans {
		if search != "" {
			if !strings.Contains(strings.ToLower(l.BillNo), search) &&
				!strings.Contains(strings.ToLower(l.CustomerName), search) &&
				!strings.Contains(strings.ToLower(l.CustomerRef), search) &&
				!strings.Contains(l.CustomerPhone, filter.Search) {
				continue
			}
		}
		if filter.Date != nil {
			dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
			dayEnd := dayStart.AddDate(0, 0, 1)
			if l.Disbursement.Before(dayStart) || !l.Disbursement.Before(dayEnd) {
				continue
			}
		}
		if filter.Status != "" && filter.Status != "all" && string(l.LoanStatus) != filter.Status {
			continue
		}
		if filter.JewelType != "" && filter.JewelType != "all" && string(l.JewelType) != filter.JewelType {
			continue
		}
		result = append(result, l)
	}
	return result
}

// StockSummary is the single materialized stock view. Rebuilds replace
// the whole row.
type StockSummary struct {
	shared.BaseEntity
	Loans        StockLoans
	TotalLoans   int
	ActiveLoans  int
	OverdueLoans int
	ClosedLoans  int
	TotalAmount  decimal.Decimal
	OverdueRate  int
	LastSyncedAt time.Time
}

// NewStockSummary materializes a summary from voucher snapshots
func NewStockSummary(loans StockLoans, now time.Time) *StockSummary {
	stats := StatsFor(loans)
	return &StockSummary{
		BaseEntity:   shared.NewBaseEntity(),
		Loans:        loans,
		TotalLoans:   stats.TotalLoans,
		ActiveLoans:  stats.ActiveLoans,
		OverdueLoans: stats.OverdueLoans,
		ClosedLoans:  stats.ClosedLoans,
		TotalAmount:  stats.TotalLoanAmount,
		OverdueRate:  stats.OverdueRate,
		LastSyncedAt: now,
	}
}

// StockSummaryRepository is the persistence port for the stock summary
type StockSummaryRepository interface {
	// Replace removes any existing summary and stores the new one
	Replace(ctx context.Context, summary *StockSummary) error
	Get(ctx context.Context) (*StockSummary, error)
	DeleteAll(ctx context.Context) error
}
