package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/domain/report"
)

// LedgerResponse groups a day's ledger entries by normalized status
type LedgerResponse struct {
	QueryDate time.Time            `json:"query_date"`
	All       []report.LedgerEntry `json:"all"`
	Active    []report.LedgerEntry `json:"active"`
	Overdue   []report.LedgerEntry `json:"overdue"`
	Closed    []report.LedgerEntry `json:"closed"`
}

// RebuildLedgerResponse reports the outcome of a ledger rebuild
type RebuildLedgerResponse struct {
	QueryDate time.Time `json:"query_date"`
	Entries   int       `json:"entries"`
}

// StockSummaryResponse is the filtered stock view with its aggregates
type StockSummaryResponse struct {
	Loans            []report.StockLoan                       `json:"loans"`
	Stats            report.StockStats                        `json:"stats"`
	JewelTypeSummary map[pawn.JewelType]report.JewelTypeStats `json:"jewel_type_summary"`
	LastSyncedAt     time.Time                                `json:"last_synced_at"`
}

// RebuildStockResponse reports the outcome of a stock summary rebuild
type RebuildStockResponse struct {
	TotalLoans   int             `json:"total_loans"`
	ActiveLoans  int             `json:"active_loans"`
	OverdueLoans int             `json:"overdue_loans"`
	ClosedLoans  int             `json:"closed_loans"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	OverdueRate  int             `json:"overdue_rate"`
	LastSyncedAt time.Time       `json:"last_synced_at"`
}

// StockListFilter represents the in-memory stock view filters
type StockListFilter struct {
	Search    string
	Date      *time.Time
	Status    string
	JewelType string
}
