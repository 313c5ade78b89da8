package lending

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pawnshop/backend/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// Schedule is the computed repayment plan for a loan
type Schedule struct {
	TotalInterest decimal.Decimal
	TotalAmount   decimal.Decimal
	EMI           decimal.Decimal
	Installments  Installments
}

// GenerateSchedule builds a flat-interest installment schedule.
//
// Interest is charged once on the principal (principal * rate / 100)
// regardless of term length, and the total is split into equal EMIs.
// Each installment carries its interest/principal portions in the same
// ratio as the loan totals, rounded to two decimal places, with the
// remaining balance floored at zero on the final installments.
func GenerateSchedule(principal, ratePercent decimal.Decimal, count int, frequency PaymentFrequency, start time.Time) (*Schedule, error) {
	if !principal.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Principal must be positive")
	}
	if ratePercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}
	if count <= 0 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT_COUNT", "Installment count must be positive")
	}
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Payment frequency must be DAILY, WEEKLY or MONTHLY")
	}
	if start.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Start date is required")
	}

	totalInterest := principal.Mul(ratePercent).Div(hundred).Round(2)
	totalAmount := principal.Add(totalInterest)
	emi := totalAmount.Div(decimal.NewFromInt(int64(count))).Round(2)
	interestRatio := totalInterest.Div(totalAmount)

	installments := make(Installments, 0, count)
	remaining := principal
	for i := 1; i <= count; i++ {
		interest := emi.Mul(interestRatio).Round(2)
		principalPart := emi.Sub(interest).Round(2)
		remaining = remaining.Sub(principalPart).Round(2)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		installments = append(installments, Installment{
			Number:           i,
			DueDate:          dueDateFor(start, frequency, i),
			EMI:              emi,
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: remaining,
			Status:           InstallmentStatusPending,
			PaidAmount:       decimal.Zero,
		})
	}

	return &Schedule{
		TotalInterest: totalInterest,
		TotalAmount:   totalAmount,
		EMI:           emi,
		Installments:  installments,
	}, nil
}

// dueDateFor computes the due date of the i-th installment.
// Monthly uses calendar-month arithmetic with Go's AddDate normalization.
func dueDateFor(start time.Time, frequency PaymentFrequency, i int) time.Time {
	switch frequency {
	case FrequencyDaily:
		return start.AddDate(0, 0, i)
	case FrequencyWeekly:
		return start.AddDate(0, 0, i*7)
	default:
		return start.AddDate(0, i, 0)
	}
}
