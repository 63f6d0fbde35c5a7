package common

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateUUID(t *testing.T) {
	id := uuid.New()

	parsed, err := ValidateUUID(id.String(), "id")
	assert.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ValidateUUID("", "id")
	assert.True(t, IsValidation(err))

	_, err = ValidateUUID("not-a-uuid", "id")
	assert.True(t, IsValidation(err))
}

func TestValidateRequiredString(t *testing.T) {
	value, err := ValidateRequiredString("  hello  ", "name", 10)
	assert.NoError(t, err)
	assert.Equal(t, "hello", value)

	_, err = ValidateRequiredString("   ", "name", 10)
	assert.True(t, IsValidation(err))

	_, err = ValidateRequiredString(strings.Repeat("x", 11), "name", 10)
	assert.True(t, IsValidation(err))
}

func TestValidatePositiveQuantity(t *testing.T) {
	assert.NoError(t, ValidatePositiveQuantity(1, "quantity"))
	assert.True(t, IsValidation(ValidatePositiveQuantity(0, "quantity")))
	assert.True(t, IsValidation(ValidatePositiveQuantity(-3, "quantity")))
	assert.True(t, IsValidation(ValidatePositiveQuantity(MaxLineQuantity+1, "quantity")))
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice(19.99, "price"))
	assert.True(t, IsValidation(ValidatePrice(0, "price")))
	assert.True(t, IsValidation(ValidatePrice(-1, "price")))
	assert.True(t, IsValidation(ValidatePrice(MaxUnitPrice+1, "price")))
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset := ValidatePaginationParams(0, -1)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePaginationParams(5000, 20)
	assert.Equal(t, 1000, limit)
	assert.Equal(t, 20, offset)

	limit, offset = ValidatePaginationParams(25, 10)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 10, offset)
}
