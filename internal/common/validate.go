package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxNameLength        = 120
	MaxVariantNameLength = 160
	MaxSKULength         = 100
	MaxDescriptionLength = 2000
	MaxReferenceLength   = 120
	MaxLineQuantity      = 1000000
	MaxUnitPrice         = 10000000.00
)

// ValidateUUID validates a path/query id parameter.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError("%s is required", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError("%s is not a valid UUID", fieldName)
	}

	return id, nil
}

// ValidateRequiredString validates non-blank bounded string fields. The value
// is trimmed before length checks.
func ValidateRequiredString(value, fieldName string, maxLength int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", NewValidationError("%s is required", fieldName)
	}
	if len(trimmed) > maxLength {
		return "", NewValidationError("%s cannot exceed %d characters", fieldName, maxLength)
	}
	return trimmed, nil
}

// ValidatePositiveQuantity validates line and stock quantities.
func ValidatePositiveQuantity(value int, fieldName string) error {
	if value <= 0 {
		return NewValidationError("%s must be positive", fieldName)
	}
	if value > MaxLineQuantity {
		return NewValidationError("%s cannot exceed %d units", fieldName, MaxLineQuantity)
	}
	return nil
}

// ValidatePrice validates unit prices.
func ValidatePrice(value float64, fieldName string) error {
	if value <= 0 {
		return NewValidationError("%s must be positive", fieldName)
	}
	if value > MaxUnitPrice {
		return NewValidationError("%s cannot exceed %.2f", fieldName, MaxUnitPrice)
	}
	return nil
}

// ValidatePaginationParams clamps pagination parameters to sane bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// FormatQuantityMismatch renders requested-vs-available detail for error
// responses.
func FormatQuantityMismatch(available, requested int) map[string]string {
	return map[string]string{
		"available": fmt.Sprintf("%d", available),
		"requested": fmt.Sprintf("%d", requested),
	}
}
