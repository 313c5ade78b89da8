package dto

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pawnshop/backend/internal/domain/shared"
)

// DateLayout is the wire format for dates in requests and query params
const DateLayout = "02/01/2006"

// ParseDate parses a DD/MM/YYYY string into a UTC midnight time
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Date must be in DD/MM/YYYY format")
	}
	return t, nil
}

// ParseOptionalDate parses a DD/MM/YYYY string, returning nil for empty input
func ParseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a time as DD/MM/YYYY
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateDDMMYYYY is the validator.Func for the ddmmyyyy binding tag
func ValidateDDMMYYYY(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // pair with required when the field is mandatory
	}
	_, err := time.ParseInLocation(DateLayout, value, time.UTC)
	return err == nil
}
