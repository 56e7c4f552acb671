package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/coupon/model"
	"salonsuite-backend/internal/domains/coupon/service"
	"salonsuite-backend/internal/shared/response"
)

// PublicHandler serves the counter-facing coupon endpoints.
type PublicHandler struct {
	service service.ServiceInterface
}

func NewPublicHandler(service service.ServiceInterface) *PublicHandler {
	return &PublicHandler{service: service}
}

// ValidateCoupon handles POST /coupons/:storeId/validate
func (h *PublicHandler) ValidateCoupon(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var req model.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	result, err := h.service.ValidateCoupon(c.Request.Context(), storeID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "coupon applied", result)
}

// ListEligibleCoupons handles GET /coupons/:storeId/eligible
func (h *PublicHandler) ListEligibleCoupons(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		response.BadRequest(c, "invalid customer_id")
		return
	}

	amountStr := c.Query("amount")
	amountFloat, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amountFloat <= 0 {
		response.BadRequest(c, "amount must be a positive number")
		return
	}
	amount := decimal.NewFromFloat(amountFloat)

	eligible, err := h.service.ListEligibleCoupons(c.Request.Context(), storeID, customerID, amount)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "eligible coupons", eligible)
}
