package lending

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Installment is a single entry of a loan's repayment schedule
type Installment struct {
	Number           int               `json:"number"`
	DueDate          time.Time         `json:"due_date"`
	EMI              decimal.Decimal   `json:"emi"`
	Principal        decimal.Decimal   `json:"principal"`
	Interest         decimal.Decimal   `json:"interest"`
	RemainingBalance decimal.Decimal   `json:"remaining_balance"`
	Status           InstallmentStatus `json:"status"`
	PaidAmount       decimal.Decimal   `json:"paid_amount"`
	PaidDate         *time.Time        `json:"paid_date,omitempty"`
}

// IsPaid returns true when the installment has been settled
func (i Installment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// IsOverdue returns true when the installment is unpaid past its due date
func (i Installment) IsOverdue(now time.Time) bool {
	return !i.IsPaid() && i.DueDate.Before(truncateToDay(now))
}

// Installments is stored as a JSONB column on the loan row
type Installments []Installment

// Value implements driver.Valuer for JSONB storage
func (il Installments) Value() (driver.Value, error) {
	if il == nil {
		return "[]", nil
	}
	data, err := json.Marshal(il)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (il *Installments) Scan(value any) error {
	if value == nil {
		*il = Installments{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Installments", value)
	}
	return json.Unmarshal(data, il)
}

// Payment records a received installment payment
type Payment struct {
	PaymentID         string          `json:"payment_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	Fine              decimal.Decimal `json:"fine"`
	Total             decimal.Decimal `json:"total"`
	Method            string          `json:"method"`
	Status            string          `json:"status"`
	Date              time.Time       `json:"date"`
	Notes             string          `json:"notes,omitempty"`
}

// PaymentStatusReceived marks a payment as received
const PaymentStatusReceived = "RECEIVED"

// Payments is stored as a JSONB column on the loan row
type Payments []Payment

// Value implements driver.Valuer for JSONB storage
func (ps Payments) Value() (driver.Value, error) {
	if ps == nil {
		return "[]", nil
	}
	data, err := json.Marshal(ps)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (ps *Payments) Scan(value any) error {
	if value == nil {
		*ps = Payments{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Payments", value)
	}
	return json.Unmarshal(data, ps)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
