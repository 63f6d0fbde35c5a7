package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// RespondError maps a service error to its HTTP status and error code.
// Validation failures are 400, missing resources 404, SKU/reference conflicts
// 409, business-rule rejections 422, anything else 500.
func RespondError(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		// Internal detail stays in the logs, not in the response body.
		return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "operation could not be completed", nil))
	}

	switch appErr.Kind {
	case KindValidation:
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", appErr.Message, appErr.Details))
	case KindNotFound:
		return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", appErr.Message, appErr.Details))
	case KindConflict:
		return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", appErr.Message, appErr.Details))
	case KindBusinessRule:
		return c.JSON(http.StatusUnprocessableEntity, CreateErrorResponse("BUSINESS_RULE_VIOLATION", appErr.Message, appErr.Details))
	default:
		return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "operation could not be completed", nil))
	}
}

// SendValidationError sends a validation error response for a single field.
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}
