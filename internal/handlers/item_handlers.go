package handlers

import (
	"net/http"

	"warehouse/internal/common"
	"warehouse/internal/models"
	"warehouse/internal/services"

	"github.com/labstack/echo/v4"
)

// ItemHandlers handles HTTP requests for items
type ItemHandlers struct {
	itemService services.ItemServiceInterface
}

// NewItemHandlers creates a new item handlers instance
func NewItemHandlers(itemService services.ItemServiceInterface) *ItemHandlers {
	return &ItemHandlers{itemService: itemService}
}

type itemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// CreateItem handles POST /v1/items
func (h *ItemHandlers) CreateItem(c echo.Context) error {
	req := &itemRequest{}
	if err := c.Bind(req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request body")
	}

	item := &models.Item{
		Name:        req.Name,
		Description: req.Description,
		Active:      toActive(req.Active),
	}

	if err := h.itemService.CreateItem(c.Request().Context(), item); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// GetItem handles GET /v1/items/:id
func (h *ItemHandlers) GetItem(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	item, err := h.itemService.GetItemByID(c.Request().Context(), itemID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// ListItems handles GET /v1/items
func (h *ItemHandlers) ListItems(c echo.Context) error {
	activeOnly := c.QueryParam("active_only") == "true"
	limit, offset := parsePagination(c)

	items, err := h.itemService.ListItems(c.Request().Context(), activeOnly, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if items == nil {
		items = []*models.Item{}
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateItem handles PUT /v1/items/:id
func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	req := &itemRequest{}
	if err := c.Bind(req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request body")
	}

	item := &models.Item{
		ID:          itemID,
		Name:        req.Name,
		Description: req.Description,
		Active:      toActive(req.Active),
	}

	if err := h.itemService.UpdateItem(c.Request().Context(), item); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /v1/items/:id
func (h *ItemHandlers) DeleteItem(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.itemService.DeleteItem(c.Request().Context(), itemID); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Absent active flags default to true, matching create semantics.
func toActive(active *bool) bool {
	return active == nil || *active
}
