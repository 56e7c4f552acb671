package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonsuite-backend/internal/domains/customer/model"
	"salonsuite-backend/internal/domains/customer/service"
	"salonsuite-backend/internal/shared/response"
	"salonsuite-backend/internal/shared/utils"
	"salonsuite-backend/pkg/logger"
)

// Handler serves the customer endpoints.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// CreateCustomer handles POST /customers/:storeId
func (h *Handler) CreateCustomer(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var req model.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), storeID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "customer created", customer)
}

// UpdateCustomer handles PUT /customers/:storeId/:customerId
func (h *Handler) UpdateCustomer(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.BadRequest(c, "invalid customer id")
		return
	}

	var req model.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), storeID, customerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "customer updated", customer)
}

// GetCustomer handles GET /customers/:storeId/:customerId
func (h *Handler) GetCustomer(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.BadRequest(c, "invalid customer id")
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), storeID, customerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "customer", customer)
}

// ListCustomers handles GET /customers/:storeId
func (h *Handler) ListCustomers(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	// Phone lookup takes priority over the paged listing.
	if phone := c.Query("phone"); phone != "" {
		customer, err := h.service.FindByPhone(c.Request.Context(), storeID, phone)
		if err != nil {
			handleError(c, err)
			return
		}
		response.Success(c, http.StatusOK, "customer", customer)
		return
	}

	var filter model.ListCustomersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	filter.Normalize()

	customers, total, err := h.service.ListCustomers(c.Request.Context(), storeID, &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "customers", customers, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Pages: utils.TotalPages(total, filter.Limit),
	})
}

// AddAdvance handles POST /customers/:storeId/:customerId/advance
func (h *Handler) AddAdvance(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.BadRequest(c, "invalid customer id")
		return
	}

	var req model.AddAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	customer, err := h.service.AddAdvance(c.Request.Context(), storeID, customerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "advance added", customer)
}

// ListWalletEntries handles GET /customers/:storeId/:customerId/wallet
func (h *Handler) ListWalletEntries(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.BadRequest(c, "invalid customer id")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, total, err := h.service.ListWalletEntries(c.Request.Context(), storeID, customerID, page, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "wallet entries", entries, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: utils.TotalPages(total, limit),
	})
}

func handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	logger.Error("customer handler error", err)
	response.InternalServerError(c, "something went wrong")
}
