package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonsuite-backend/internal/domains/catalog/model"
	"salonsuite-backend/internal/domains/catalog/service"
	"salonsuite-backend/internal/shared/response"
	"salonsuite-backend/internal/shared/utils"
	"salonsuite-backend/pkg/logger"
)

// Handler serves the catalog endpoints.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// CreateItem handles POST /catalog/:storeId/items
func (h *Handler) CreateItem(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var req model.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), storeID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "item created", item)
}

// UpdateItem handles PUT /catalog/:storeId/items/:itemId
func (h *Handler) UpdateItem(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "invalid item id")
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), storeID, itemID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "item updated", item)
}

// GetItem handles GET /catalog/:storeId/items/:itemId
func (h *Handler) GetItem(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "invalid item id")
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), storeID, itemID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "item", item)
}

// ListItems handles GET /catalog/:storeId/items
func (h *Handler) ListItems(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var filter model.ListItemsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	filter.Normalize()

	items, total, err := h.service.ListItems(c.Request.Context(), storeID, &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "items", items, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Pages: utils.TotalPages(total, filter.Limit),
	})
}

// DeactivateItem handles DELETE /catalog/:storeId/items/:itemId
func (h *Handler) DeactivateItem(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "invalid item id")
		return
	}

	if err := h.service.DeactivateItem(c.Request.Context(), storeID, itemID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "item deactivated", nil)
}

func handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	logger.Error("catalog handler error", err)
	response.InternalServerError(c, "something went wrong")
}
