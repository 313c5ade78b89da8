package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnshop/backend/internal/domain/shared"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		parsed, err := ParseDate("15/01/2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("rejects ISO format", func(t *testing.T) {
		_, err := ParseDate("2024-01-15")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DATE", domainErr.Code)
	})

	t.Run("rejects impossible date", func(t *testing.T) {
		_, err := ParseDate("32/01/2024")
		assert.Error(t, err)
	})
}

func TestParseOptionalDate(t *testing.T) {
	t.Run("empty returns nil", func(t *testing.T) {
		parsed, err := ParseOptionalDate("")
		require.NoError(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("valid date", func(t *testing.T) {
		parsed, err := ParseOptionalDate("01/06/2025")
		require.NoError(t, err)
		require.NotNil(t, parsed)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *parsed)
	})
}

func TestFormatDate(t *testing.T) {
	formatted := FormatDate(time.Date(2024, 3, 7, 10, 30, 0, 0, time.UTC))
	assert.Equal(t, "07/03/2024", formatted)
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeInstallmentPaid, NormalizeErrorCode("INSTALLMENT_ALREADY_PAID"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_AMOUNT"))
	assert.Equal(t, ErrCodeInvalidDate, NormalizeErrorCode("INVALID_DATE"))
	assert.Equal(t, "SOMETHING_ELSE", NormalizeErrorCode("SOMETHING_ELSE"))
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, 409, GetHTTPStatus(ErrCodeConcurrencyConflict))
	assert.Equal(t, 422, GetHTTPStatus(ErrCodeInvalidState))
	assert.Equal(t, 500, GetHTTPStatus("ERR_NEVER_HEARD_OF"))
}
