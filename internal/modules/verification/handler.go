package verification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/pkg/pagination"
	"github.com/MHYAnate/rootafapi/internal/pkg/response"
)

// Handler exposes the admin verification console plus the user-side
// resubmission endpoint.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	v := admin.Group("/verification")
	{
		v.GET("/pending", h.ListPending)
		v.GET("/under-review", h.ListUnderReview)
		v.GET("/stats", h.GetStats)
		v.GET("/users/:id", h.GetUserDetail)
		v.POST("/users/:id/start-review", h.StartReview)
		v.POST("/users/:id/approve", h.Approve)
		v.POST("/users/:id/reject", h.Reject)
		v.POST("/users/:id/request-resubmission", h.RequestResubmission)
		v.POST("/users/:id/suspend", h.Suspend)
		v.POST("/users/:id/reactivate", h.Reactivate)
		v.POST("/users/:id/reset-password", h.DirectResetPassword)
		v.POST("/documents/:id/verify", h.VerifyDocument)
	}

	resets := admin.Group("/password-resets")
	{
		resets.GET("", h.ListPasswordResets)
		resets.POST("/:id/process", h.ProcessPasswordReset)
		resets.POST("/:id/reject", h.RejectPasswordReset)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/verification/resubmit", h.Resubmit)
}

func (h *Handler) ListPending(c *gin.Context) {
	users, meta, err := h.service.ListPending(c.Request.Context(), c.Query("user_type"), pageParams(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch pending verifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users, "meta": meta})
}

func (h *Handler) ListUnderReview(c *gin.Context) {
	users, meta, err := h.service.ListUnderReview(c.Request.Context(), c.Query("user_type"), pageParams(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch reviews in progress")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users, "meta": meta})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "STATS_FAILED", "Failed to compute verification stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) GetUserDetail(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.service.GetUserDetail(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) StartReview(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.StartReview(c.Request.Context(), userID, c.GetInt64("admin_id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Review started"})
}

func (h *Handler) Approve(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	// Notes are optional; an empty body is fine.
	var req ApproveRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.service.ApproveUser(c.Request.Context(), userID, c.GetInt64("admin_id"), req.Notes); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User verified"})
}

func (h *Handler) Reject(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	if err := h.service.RejectUser(c.Request.Context(), userID, c.GetInt64("admin_id"), req.Reason, req.Details); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Verification rejected"})
}

func (h *Handler) RequestResubmission(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	var req ResubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	if err := h.service.RequestResubmission(c.Request.Context(), userID, c.GetInt64("admin_id"), req.Reason, req.DocumentIDs); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Resubmission requested"})
}

func (h *Handler) Suspend(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	var req SuspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	if err := h.service.SuspendUser(c.Request.Context(), userID, c.GetInt64("admin_id"), req.Reason); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User suspended"})
}

func (h *Handler) Reactivate(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.ReactivateUser(c.Request.Context(), userID, c.GetInt64("admin_id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User reactivated"})
}

func (h *Handler) VerifyDocument(c *gin.Context) {
	docID, ok := pathID(c)
	if !ok {
		return
	}
	var req VerifyDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	err := h.service.VerifyDocument(c.Request.Context(), docID, c.GetInt64("admin_id"),
		domain.DocumentStatus(req.Status), req.RejectionReason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Document reviewed"})
}

func (h *Handler) Resubmit(c *gin.Context) {
	if err := h.service.Resubmit(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Verification resubmitted"})
}

func (h *Handler) ListPasswordResets(c *gin.Context) {
	requests, meta, err := h.service.ListPasswordResetRequests(c.Request.Context(), c.Query("status"), pageParams(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch reset requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requests": requests, "meta": meta})
}

func (h *Handler) ProcessPasswordReset(c *gin.Context) {
	requestID, ok := pathID(c)
	if !ok {
		return
	}
	var req ProcessResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	err := h.service.ProcessPasswordReset(c.Request.Context(), requestID, c.GetInt64("admin_id"),
		req.TemporaryPassword, req.AdminNotes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password reset processed"})
}

func (h *Handler) RejectPasswordReset(c *gin.Context) {
	requestID, ok := pathID(c)
	if !ok {
		return
	}
	var req RejectResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	if err := h.service.RejectPasswordReset(c.Request.Context(), requestID, c.GetInt64("admin_id"), req.Reason); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password reset request rejected"})
}

func (h *Handler) DirectResetPassword(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	var req DirectResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	if err := h.service.AdminResetUserPassword(c.Request.Context(), userID, c.GetInt64("admin_id"), req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password reset"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var conflict *StateConflictError
	switch {
	case errors.As(err, &conflict):
		response.Error(c, http.StatusConflict, "STATE_CONFLICT", conflict.Error())
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrDocumentNotFound):
		response.Error(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found")
	case errors.Is(err, ErrRequestNotFound):
		response.Error(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Reset request not found")
	case errors.Is(err, ErrAlreadyProcessed):
		response.Error(c, http.StatusConflict, "ALREADY_PROCESSED", "Request was already processed")
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrAdminNotFound):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission for this action")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Operation failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id parameter")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) pagination.Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	return pagination.Normalize(page, limit)
}
