package handlers

import (
	"net/http"

	"warehouse/internal/common"
	"warehouse/internal/models"
	"warehouse/internal/services"

	"github.com/labstack/echo/v4"
)

// SaleHandlers handles HTTP requests for sales
type SaleHandlers struct {
	saleService services.SaleServiceInterface
}

// NewSaleHandlers creates a new sale handlers instance
func NewSaleHandlers(saleService services.SaleServiceInterface) *SaleHandlers {
	return &SaleHandlers{saleService: saleService}
}

// CreateSale handles POST /v1/sales
func (h *SaleHandlers) CreateSale(c echo.Context) error {
	req := &models.CreateSaleRequest{}
	if err := c.Bind(req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request body")
	}

	sale, err := h.saleService.CreateSale(c.Request().Context(), req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, sale)
}

// GetSale handles GET /v1/sales/:id
func (h *SaleHandlers) GetSale(c echo.Context) error {
	saleID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	sale, err := h.saleService.GetSaleByID(c.Request().Context(), saleID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

// ListSales handles GET /v1/sales
func (h *SaleHandlers) ListSales(c echo.Context) error {
	reference := c.QueryParam("reference")
	limit, offset := parsePagination(c)

	sales, err := h.saleService.ListSales(c.Request().Context(), reference, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if sales == nil {
		sales = []*models.Sale{}
	}
	return c.JSON(http.StatusOK, sales)
}
