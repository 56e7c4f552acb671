package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonsuite-backend/internal/domains/booking/model"
	"salonsuite-backend/internal/domains/booking/service"
	customermodel "salonsuite-backend/internal/domains/customer/model"
	"salonsuite-backend/internal/shared/response"
	"salonsuite-backend/internal/shared/utils"
	"salonsuite-backend/pkg/logger"
)

// Handler serves the booking endpoints.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CreateBooking handles POST /bookings/:storeId
func (h *Handler) CreateBooking(c *gin.Context) {
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

	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), storeID, userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "booking created", booking)
}

// UpdateBooking handles PUT /bookings/:storeId/:bookingId
func (h *Handler) UpdateBooking(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	var req model.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	booking, err := h.service.UpdateBooking(c.Request.Context(), storeID, bookingID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "booking updated", booking)
}

// UpdateStatus handles PUT /bookings/:storeId/:bookingId/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	booking, err := h.service.UpdateStatus(c.Request.Context(), storeID, bookingID, model.BookingStatus(req.Status))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "booking status updated", booking)
}

// GetBooking handles GET /bookings/:storeId/:bookingId
func (h *Handler) GetBooking(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), storeID, bookingID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "booking", booking)
}

// ListBookings handles GET /bookings/:storeId
func (h *Handler) ListBookings(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var filter model.ListBookingsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	filter.Normalize()

	bookings, total, err := h.service.ListBookings(c.Request.Context(), storeID, &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "bookings", bookings, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Pages: utils.TotalPages(total, filter.Limit),
	})
}

// handleError maps domain errors to HTTP responses. Advance handling
// can surface customer errors from inside the booking transaction.
func handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	var custErr *customermodel.AppError
	if errors.As(err, &custErr) {
		response.ErrorWithDetails(c, custErr.HTTPStatus, string(custErr.Code), custErr.Message, custErr.Details)
		return
	}

	logger.Error("booking handler error", err)
	response.InternalServerError(c, "something went wrong")
}
