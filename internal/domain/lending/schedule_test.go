package lending

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestGenerateSchedule(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("monthly flat-interest schedule", func(t *testing.T) {
		schedule, err := GenerateSchedule(d("100000"), d("12"), 12, FrequencyMonthly, start)
		require.NoError(t, err)

		assert.True(t, d("12000").Equal(schedule.TotalInterest), "total interest: %s", schedule.TotalInterest)
		assert.True(t, d("112000").Equal(schedule.TotalAmount), "total amount: %s", schedule.TotalAmount)
		assert.True(t, d("9333.33").Equal(schedule.EMI), "emi: %s", schedule.EMI)
		require.Len(t, schedule.Installments, 12)

		first := schedule.Installments[0]
		assert.Equal(t, 1, first.Number)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first.DueDate)
		assert.True(t, d("1000").Equal(first.Interest), "interest: %s", first.Interest)
		assert.True(t, d("8333.33").Equal(first.Principal), "principal: %s", first.Principal)
		assert.True(t, d("91666.67").Equal(first.RemainingBalance), "remaining: %s", first.RemainingBalance)
		assert.Equal(t, InstallmentStatusPending, first.Status)

		last := schedule.Installments[11]
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), last.DueDate)
		assert.False(t, last.RemainingBalance.IsNegative())
	})

	t.Run("daily due dates", func(t *testing.T) {
		schedule, err := GenerateSchedule(d("1000"), d("10"), 3, FrequencyDaily, start)
		require.NoError(t, err)
		assert.Equal(t, start.AddDate(0, 0, 1), schedule.Installments[0].DueDate)
		assert.Equal(t, start.AddDate(0, 0, 3), schedule.Installments[2].DueDate)
	})

	t.Run("weekly due dates", func(t *testing.T) {
		schedule, err := GenerateSchedule(d("1000"), d("10"), 4, FrequencyWeekly, start)
		require.NoError(t, err)
		assert.Equal(t, start.AddDate(0, 0, 7), schedule.Installments[0].DueDate)
		assert.Equal(t, start.AddDate(0, 0, 28), schedule.Installments[3].DueDate)
	})

	t.Run("single installment covers the full amount", func(t *testing.T) {
		schedule, err := GenerateSchedule(d("5000"), d("10"), 1, FrequencyMonthly, start)
		require.NoError(t, err)
		require.Len(t, schedule.Installments, 1)
		assert.True(t, d("5500").Equal(schedule.EMI))
		assert.True(t, schedule.Installments[0].RemainingBalance.IsZero(),
			"remaining: %s", schedule.Installments[0].RemainingBalance)
	})

	t.Run("zero interest rate", func(t *testing.T) {
		schedule, err := GenerateSchedule(d("1200"), d("0"), 12, FrequencyMonthly, start)
		require.NoError(t, err)
		assert.True(t, schedule.TotalInterest.IsZero())
		assert.True(t, d("100").Equal(schedule.EMI))
		assert.True(t, schedule.Installments[0].Interest.IsZero())
	})

	t.Run("rejects non-positive principal", func(t *testing.T) {
		_, err := GenerateSchedule(d("0"), d("12"), 12, FrequencyMonthly, start)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Principal must be positive")
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := GenerateSchedule(d("1000"), d("-1"), 12, FrequencyMonthly, start)
		require.Error(t, err)
	})

	t.Run("rejects zero installment count", func(t *testing.T) {
		_, err := GenerateSchedule(d("1000"), d("12"), 0, FrequencyMonthly, start)
		require.Error(t, err)
	})

	t.Run("rejects unknown frequency", func(t *testing.T) {
		_, err := GenerateSchedule(d("1000"), d("12"), 12, PaymentFrequency("HOURLY"), start)
		require.Error(t, err)
	})

	t.Run("rejects zero start date", func(t *testing.T) {
		_, err := GenerateSchedule(d("1000"), d("12"), 12, FrequencyMonthly, time.Time{})
		require.Error(t, err)
	})
}

func TestGenerateScheduleSums(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		principal string
		rate      string
		count     int
		frequency PaymentFrequency
	}{
		{"reference monthly loan", "100000", "12", 12, FrequencyMonthly},
		{"awkward division", "33333", "7.5", 7, FrequencyWeekly},
		{"single installment", "5000", "10", 1, FrequencyMonthly},
		{"long daily term", "99999.99", "18", 90, FrequencyDaily},
		{"zero interest", "1200", "0", 12, FrequencyMonthly},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schedule, err := GenerateSchedule(d(tc.principal), d(tc.rate), tc.count, tc.frequency, start)
			require.NoError(t, err)
			require.Len(t, schedule.Installments, tc.count)

			// per-installment rounding can drift by at most one cent each
			tolerance := decimal.NewFromInt(int64(tc.count)).Mul(d("0.01"))

			principalSum := decimal.Zero
			emiSum := decimal.Zero
			for _, inst := range schedule.Installments {
				principalSum = principalSum.Add(inst.Principal)
				emiSum = emiSum.Add(inst.EMI)
			}

			principalDiff := principalSum.Sub(d(tc.principal)).Abs()
			assert.True(t, principalDiff.LessThanOrEqual(tolerance),
				"principal sum %s vs %s (diff %s)", principalSum, tc.principal, principalDiff)

			emiDiff := emiSum.Sub(schedule.TotalAmount).Abs()
			assert.True(t, emiDiff.LessThanOrEqual(tolerance),
				"emi sum %s vs total %s (diff %s)", emiSum, schedule.TotalAmount, emiDiff)
		})
	}
}

func TestGenerateScheduleRoundingConsistency(t *testing.T) {
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	schedule, err := GenerateSchedule(d("33333"), d("7.5"), 7, FrequencyWeekly, start)
	require.NoError(t, err)

	for _, inst := range schedule.Installments {
		// interest and principal are each rounded, so they reassemble
		// to the EMI within one cent
		diff := inst.EMI.Sub(inst.Interest.Add(inst.Principal)).Abs()
		assert.True(t, diff.LessThanOrEqual(d("0.01")),
			"installment %d: %s + %s vs emi %s", inst.Number, inst.Interest, inst.Principal, inst.EMI)
		assert.False(t, inst.RemainingBalance.IsNegative())
	}
}
