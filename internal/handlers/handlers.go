package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// parsePagination reads limit/offset query params, leaving clamping to the
// service layer.
func parsePagination(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}
