package handlers

import (
	"net/http"

	"warehouse/internal/common"
	"warehouse/internal/models"
	"warehouse/internal/services"

	"github.com/labstack/echo/v4"
)

// VariantHandlers handles HTTP requests for item variants
type VariantHandlers struct {
	variantService services.VariantServiceInterface
}

// NewVariantHandlers creates a new variant handlers instance
func NewVariantHandlers(variantService services.VariantServiceInterface) *VariantHandlers {
	return &VariantHandlers{variantService: variantService}
}

type variantRequest struct {
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	Active        *bool   `json:"active"`
}

type stockAdjustmentRequest struct {
	Change int `json:"change"`
}

// CreateVariant handles POST /v1/items/:itemId/variants
func (h *VariantHandlers) CreateVariant(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("itemId"), "itemId")
	if err != nil {
		return common.RespondError(c, err)
	}

	req := &variantRequest{}
	if err := c.Bind(req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request body")
	}

	variant := &models.ItemVariant{
		SKU:           req.SKU,
		Name:          req.Name,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Active:        toActive(req.Active),
	}

	if err := h.variantService.CreateVariant(c.Request().Context(), itemID, variant); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, variant)
}

// GetVariant handles GET /v1/variants/:id
func (h *VariantHandlers) GetVariant(c echo.Context) error {
	variantID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	variant, err := h.variantService.GetVariantByID(c.Request().Context(), variantID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, variant)
}

// ListVariants handles GET /v1/items/:itemId/variants
func (h *VariantHandlers) ListVariants(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("itemId"), "itemId")
	if err != nil {
		return common.RespondError(c, err)
	}

	activeOnly := c.QueryParam("active_only") == "true"
	variants, err := h.variantService.ListVariantsByItem(c.Request().Context(), itemID, activeOnly)
	if err != nil {
		return common.RespondError(c, err)
	}
	if variants == nil {
		variants = []*models.ItemVariant{}
	}
	return c.JSON(http.StatusOK, variants)
}

// UpdateVariant handles PUT /v1/variants/:id
func (h *VariantHandlers) UpdateVariant(c echo.Context) error {
	variantID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	req := &variantRequest{}
	if err := c.Bind(req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request body")
	}

	variant := &models.ItemVariant{
		ID:            variantID,
		SKU:           req.SKU,
		Name:          req.Name,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Active:        toActive(req.Active),
	}

	if err := h.variantService.UpdateVariant(c.Request().Context(), variant); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, variant)
}

// AdjustStock handles POST /v1/variants/:id/stock-adjustments
func (h *VariantHandlers) AdjustStock(c echo.Context) error {
	variantID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	req := &stockAdjustmentRequest{}
	if err := c.Bind(req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request body")
	}

	variant, err := h.variantService.AdjustStock(c.Request().Context(), variantID, req.Change)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, variant)
}

// DeleteVariant handles DELETE /v1/variants/:id
func (h *VariantHandlers) DeleteVariant(c echo.Context) error {
	variantID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.variantService.DeleteVariant(c.Request().Context(), variantID); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
