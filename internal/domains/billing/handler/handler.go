package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonsuite-backend/internal/domains/billing/model"
	"salonsuite-backend/internal/domains/billing/service"
	couponmodel "salonsuite-backend/internal/domains/coupon/model"
	"salonsuite-backend/internal/shared/response"
	"salonsuite-backend/internal/shared/utils"
	"salonsuite-backend/pkg/logger"
)

const idempotencyKeyHeader = "Idempotency-Key"

// Handler serves the billing endpoints.
type Handler struct {
	service  service.ServiceInterface
	exporter service.Exporter
}

func NewHandler(service service.ServiceInterface, exporter service.Exporter) *Handler {
	return &Handler{service: service, exporter: exporter}
}

func idempotencyKey(c *gin.Context) *string {
	if key := c.GetHeader(idempotencyKeyHeader); key != "" {
		return &key
	}
	return nil
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// SaveBill handles POST /billing/:storeId/bills
func (h *Handler) SaveBill(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.SaveBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	bill, err := h.service.SaveBill(c.Request.Context(), storeID, userID, idempotencyKey(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "bill saved", bill)
}

// GetBill handles GET /billing/:storeId/bills/:billId
func (h *Handler) GetBill(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	billID, err := uuid.Parse(c.Param("billId"))
	if err != nil {
		response.BadRequest(c, "invalid bill id")
		return
	}

	bill, err := h.service.GetBill(c.Request.Context(), storeID, billID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "bill", bill)
}

// ListBills handles GET /billing/:storeId/bills
func (h *Handler) ListBills(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var filter model.ListBillsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	filter.Normalize()

	bills, total, err := h.service.ListBills(c.Request.Context(), storeID, &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "bills", bills, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: int(total),
		Pages: utils.TotalPages(int(total), filter.Limit),
	})
}

// AddPayment handles POST /billing/:storeId/bills/:billId/payments
func (h *Handler) AddPayment(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	billID, err := uuid.Parse(c.Param("billId"))
	if err != nil {
		response.BadRequest(c, "invalid bill id")
		return
	}

	var req model.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	bill, err := h.service.AddPayment(c.Request.Context(), storeID, billID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "payment recorded", bill)
}

// HoldBill handles POST /billing/:storeId/bills/hold
func (h *Handler) HoldBill(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.HoldBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	held, err := h.service.HoldBill(c.Request.Context(), storeID, userID, idempotencyKey(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "bill held", held)
}

// ListHeldBills handles GET /billing/:storeId/bills/held
func (h *Handler) ListHeldBills(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	held, err := h.service.ListHeldBills(c.Request.Context(), storeID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "held bills", held)
}

// GetHeldBill handles GET /billing/:storeId/bills/held/:heldId
func (h *Handler) GetHeldBill(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	heldID, err := uuid.Parse(c.Param("heldId"))
	if err != nil {
		response.BadRequest(c, "invalid held bill id")
		return
	}

	held, err := h.service.GetHeldBill(c.Request.Context(), storeID, heldID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "held bill", held)
}

// DeleteHeldBill handles DELETE /billing/:storeId/bills/held/:heldId
func (h *Handler) DeleteHeldBill(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	heldID, err := uuid.Parse(c.Param("heldId"))
	if err != nil {
		response.BadRequest(c, "invalid held bill id")
		return
	}

	if err := h.service.DeleteHeldBill(c.Request.Context(), storeID, heldID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "held bill discarded", nil)
}

// ExportBills handles GET /billing/:storeId/bills/export?from=2006-01-02&to=2006-01-02
func (h *Handler) ExportBills(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.BadRequest(c, "from must be a date in YYYY-MM-DD format")
		return
	}

	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.BadRequest(c, "to must be a date in YYYY-MM-DD format")
		return
	}
	if to.Before(from) {
		response.BadRequest(c, "to cannot be before from")
		return
	}

	// End date is inclusive; the repository range is half-open.
	data, filename, err := h.exporter.ExportBills(c.Request.Context(), storeID, from, to.Add(24*time.Hour))
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// handleError maps domain errors to HTTP responses. Coupon failures
// surface with their own codes since bill saving resolves coupons.
func handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	var couponErr *couponmodel.AppError
	if errors.As(err, &couponErr) {
		response.ErrorWithDetails(c, couponErr.HTTPStatus, string(couponErr.Code), couponErr.Message, couponErr.Details)
		return
	}

	logger.Error("billing handler error", err)
	response.InternalServerError(c, "something went wrong")
}
