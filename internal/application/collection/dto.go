package collection

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/collection"
	"github.com/pawnshop/backend/internal/domain/lending"
)

// CollectionResponse represents a collection record in API responses
type CollectionResponse struct {
	ID                uuid.UUID            `json:"id"`
	LoanID            uuid.UUID            `json:"loan_id"`
	LoanNumber        string               `json:"loan_number"`
	CustomerID        uuid.UUID            `json:"customer_id"`
	CustomerRef       string               `json:"customer_ref"`
	CustomerName      string               `json:"customer_name"`
	CustomerPhone     string               `json:"customer_phone"`
	LoanStatus        string               `json:"loan_status"`
	TotalAmount       decimal.Decimal      `json:"total_amount"`
	EMI               decimal.Decimal      `json:"emi"`
	TotalInstallments int                  `json:"total_installments"`
	PaidCount         int                  `json:"paid_count"`
	PendingCount      int                  `json:"pending_count"`
	OverdueCount      int                  `json:"overdue_count"`
	PaidAmount        decimal.Decimal      `json:"paid_amount"`
	OutstandingAmount decimal.Decimal      `json:"outstanding_amount"`
	NextDueNumber     int                  `json:"next_due_number,omitempty"`
	NextDueDate       *time.Time           `json:"next_due_date,omitempty"`
	NextDueAmount     decimal.Decimal      `json:"next_due_amount"`
	Priority          string               `json:"priority"`
	Installments      lending.Installments `json:"installments,omitempty"`
	Payments          lending.Payments     `json:"payments,omitempty"`
	LastSyncedAt      time.Time            `json:"last_synced_at"`
}

// ToCollectionResponse maps a collection record to its response.
// includeDetail controls whether the copied arrays are attached.
func ToCollectionResponse(c *collection.Collection, includeDetail bool) CollectionResponse {
	resp := CollectionResponse{
		ID:                c.ID,
		LoanID:            c.LoanID,
		LoanNumber:        c.LoanNumber,
		CustomerID:        c.CustomerID,
		CustomerRef:       c.CustomerRef,
		CustomerName:      c.CustomerName,
		CustomerPhone:     c.CustomerPhone,
		LoanStatus:        string(c.LoanStatus),
		TotalAmount:       c.TotalAmount,
		EMI:               c.EMI,
		TotalInstallments: c.TotalInstallments,
		PaidCount:         c.PaidCount,
		PendingCount:      c.PendingCount,
		OverdueCount:      c.OverdueCount,
		PaidAmount:        c.PaidAmount,
		OutstandingAmount: c.OutstandingAmount,
		NextDueNumber:     c.NextDueNumber,
		NextDueDate:       c.NextDueDate,
		NextDueAmount:     c.NextDueAmount,
		Priority:          string(c.Priority),
		LastSyncedAt:      c.LastSyncedAt,
	}
	if includeDetail {
		resp.Installments = c.Installments
		resp.Payments = c.Payments
	}
	return resp
}

// ListFilter represents filter options for the collection list
type ListFilter struct {
	Priority string
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// SyncAllResult reports the outcome of a best-effort bulk sync
type SyncAllResult struct {
	Created int      `json:"created"`
	Synced  int      `json:"synced"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// DashboardResponse summarizes the collections desk workload
type DashboardResponse struct {
	TotalRecords     int64           `json:"total_records"`
	CriticalCount    int64           `json:"critical_count"`
	HighCount        int64           `json:"high_count"`
	MediumCount      int64           `json:"medium_count"`
	DueTodayCount    int64           `json:"due_today_count"`
	DueTodayAmount   decimal.Decimal `json:"due_today_amount"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	OverdueAmountDue decimal.Decimal `json:"overdue_amount_due"`
}
