package lending

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusCompleted LoanStatus = "COMPLETED"
	LoanStatusClosed    LoanStatus = "CLOSED"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

// IsValid checks if the status is a known value
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusActive, LoanStatusCompleted, LoanStatusClosed, LoanStatusDefaulted:
		return true
	}
	return false
}

// IsTerminal returns true when no further payments may be applied
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusClosed || s == LoanStatusDefaulted
}

// CanApplyPayment returns true if payments can be applied in this status
func (s LoanStatus) CanApplyPayment() bool {
	return s == LoanStatusActive
}

// InstallmentStatus represents the state of a single installment
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE"
	InstallmentStatusPartial InstallmentStatus = "PARTIAL"
)

// IsValid checks if the status is a known value
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPaid, InstallmentStatusOverdue, InstallmentStatusPartial:
		return true
	}
	return false
}

// PaymentFrequency determines how due dates are spaced
type PaymentFrequency string

const (
	FrequencyDaily   PaymentFrequency = "DAILY"
	FrequencyWeekly  PaymentFrequency = "WEEKLY"
	FrequencyMonthly PaymentFrequency = "MONTHLY"
)

// IsValid checks if the frequency is a known value
func (f PaymentFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}
