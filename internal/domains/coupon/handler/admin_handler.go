package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonsuite-backend/internal/domains/coupon/model"
	"salonsuite-backend/internal/domains/coupon/service"
	"salonsuite-backend/internal/shared/response"
	"salonsuite-backend/internal/shared/utils"
	"salonsuite-backend/pkg/logger"
)

// AdminHandler serves the manager-facing coupon CRUD.
type AdminHandler struct {
	service service.ServiceInterface
}

func NewAdminHandler(service service.ServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// CreateCoupon handles POST /coupons/:storeId
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	coupon, err := h.service.CreateCoupon(c.Request.Context(), storeID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "coupon created", coupon)
}

// UpdateCoupon handles PUT /coupons/:storeId/:couponId
func (h *AdminHandler) UpdateCoupon(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	couponID, err := uuid.Parse(c.Param("couponId"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	var req model.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	coupon, err := h.service.UpdateCoupon(c.Request.Context(), storeID, couponID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "coupon updated", coupon)
}

// DeleteCoupon handles DELETE /coupons/:storeId/:couponId
func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	couponID, err := uuid.Parse(c.Param("couponId"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	if err := h.service.DeleteCoupon(c.Request.Context(), storeID, couponID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "coupon deleted", nil)
}

// GetCoupon handles GET /coupons/:storeId/:couponId
func (h *AdminHandler) GetCoupon(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	couponID, err := uuid.Parse(c.Param("couponId"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	coupon, err := h.service.GetCoupon(c.Request.Context(), storeID, couponID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "coupon", coupon)
}

// ListCoupons handles GET /coupons/:storeId
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var filter model.ListCouponsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	filter.Normalize()

	coupons, total, err := h.service.ListCoupons(c.Request.Context(), storeID, &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "coupons", coupons, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Pages: utils.TotalPages(total, filter.Limit),
	})
}

// handleError maps domain errors to HTTP responses. Unknown errors are
// logged and answered with a generic 500.
func handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	logger.Error("coupon handler error", err)
	response.InternalServerError(c, "something went wrong")
}
