package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonsuite-backend/internal/domains/store/model"
	"salonsuite-backend/internal/domains/store/service"
	"salonsuite-backend/internal/shared/response"
	"salonsuite-backend/pkg/logger"
)

// Handler serves the store and membership endpoints.
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

// CreateStore handles POST /stores
func (h *Handler) CreateStore(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	store, err := h.service.CreateStore(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "store created", store)
}

// UpdateStore handles PUT /stores/:storeId
func (h *Handler) UpdateStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var req model.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	store, err := h.service.UpdateStore(c.Request.Context(), storeID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "store updated", store)
}

// GetStore handles GET /stores/:storeId
func (h *Handler) GetStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	store, err := h.service.GetStore(c.Request.Context(), storeID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "store", store)
}

// ListMyStores handles GET /stores
func (h *Handler) ListMyStores(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	stores, err := h.service.ListMyStores(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "stores", stores)
}

// AddMember handles POST /stores/:storeId/members
func (h *Handler) AddMember(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	var req model.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	member, err := h.service.AddMember(c.Request.Context(), storeID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "member added", member)
}

// UpdateMemberRole handles PUT /stores/:storeId/members/:userId
func (h *Handler) UpdateMemberRole(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req model.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), storeID, userID, req.Role); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "member role updated", nil)
}

// RemoveMember handles DELETE /stores/:storeId/members/:userId
func (h *Handler) RemoveMember(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), storeID, userID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "member removed", nil)
}

// ListMembers handles GET /stores/:storeId/members
func (h *Handler) ListMembers(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		response.BadRequest(c, "invalid store id")
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), storeID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "members", members)
}

// SetMyPIN handles PUT /stores/:storeId/members/me/pin
func (h *Handler) SetMyPIN(c *gin.Context) {
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

	var req model.SetPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	if err := h.service.SetMemberPIN(c.Request.Context(), storeID, userID, req.PIN); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "pin updated", nil)
}

// VerifyMyPIN handles POST /stores/:storeId/members/me/pin/verify
func (h *Handler) VerifyMyPIN(c *gin.Context) {
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

	var req model.VerifyPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed), "validation failed", err)
		return
	}

	if err := h.service.VerifyMemberPIN(c.Request.Context(), storeID, userID, req.PIN); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "pin verified", nil)
}

func handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	logger.Error("store handler error", err)
	response.InternalServerError(c, "something went wrong")
}
