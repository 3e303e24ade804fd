package adminauth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MHYAnate/rootafapi/internal/pkg/response"
)

// Handler serves the admin console's own account surface: login/logout
// and admin management.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/admin/login", h.Login)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/logout", h.Logout)
	admin.GET("/me", h.GetMe)
	admin.POST("/change-password", h.ChangePassword)

	admins := admin.Group("/admins")
	{
		admins.GET("", h.ListAdmins)
		admins.POST("", h.CreateAdmin)
		admins.PATCH("/:id", h.UpdateAdmin)
		admins.POST("/:id/toggle-status", h.ToggleStatus)
		admins.POST("/:id/reset-password", h.ResetPassword)
		admins.POST("/:id/terminate-sessions", h.TerminateSessions)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		var locked *AccountLockedError
		switch {
		case errors.As(err, &locked):
			response.Error(c, http.StatusUnauthorized, "ACCOUNT_LOCKED", locked.Error())
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
		case errors.Is(err, ErrAccountDeactivated):
			response.Error(c, http.StatusForbidden, "ACCOUNT_DEACTIVATED", "Admin account is deactivated")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Login failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":                result.Token,
		"admin":                toSummary(result.Admin),
		"must_change_password": result.MustChangePassword,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	err := h.service.Logout(c.Request.Context(), c.GetInt64("admin_id"), c.GetString("bearer_token"), c.ClientIP())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Logout failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) GetMe(c *gin.Context) {
	admin, err := h.service.GetProfile(c.Request.Context(), c.GetInt64("admin_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSummary(admin))
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	if err := h.service.ChangeOwnPassword(c.Request.Context(), c.GetInt64("admin_id"), req); err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			response.Error(c, http.StatusBadRequest, "WRONG_PASSWORD", "Current password is incorrect")
		case errors.Is(err, ErrPasswordReuse):
			response.Error(c, http.StatusBadRequest, "PASSWORD_REUSE", "New password must differ from the current one")
		default:
			h.respondError(c, err)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.service.ListAdmins(c.Request.Context(), c.GetInt64("admin_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	summaries := make([]AdminSummary, 0, len(admins))
	for i := range admins {
		summaries = append(summaries, toSummary(&admins[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"admins": summaries})
}

func (h *Handler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	admin, err := h.service.CreateAdmin(c.Request.Context(), c.GetInt64("admin_id"), req, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			response.Error(c, http.StatusConflict, "USERNAME_EXISTS", "Username already taken")
			return
		}
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toSummary(admin))
}

func (h *Handler) UpdateAdmin(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	admin, err := h.service.UpdateAdmin(c.Request.Context(), c.GetInt64("admin_id"), targetID, req, c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSummary(admin))
}

func (h *Handler) ToggleStatus(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}

	admin, err := h.service.ToggleAdminStatus(c.Request.Context(), c.GetInt64("admin_id"), targetID, c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSummary(admin))
}

func (h *Handler) ResetPassword(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}
	var req ResetAdminPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	err := h.service.ResetAdminPassword(c.Request.Context(), c.GetInt64("admin_id"), targetID, req.NewPassword, c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password reset; change required at next login"})
}

func (h *Handler) TerminateSessions(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}

	var req TerminateSessionsRequest
	_ = c.ShouldBindJSON(&req)

	err := h.service.TerminateSessions(c.Request.Context(), c.GetInt64("admin_id"), targetID, req.Reason, c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Sessions terminated"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAdminNotFound):
		response.Error(c, http.StatusNotFound, "ADMIN_NOT_FOUND", "Admin not found")
	case errors.Is(err, ErrSelfAction):
		response.Error(c, http.StatusForbidden, "SELF_ACTION", "You cannot perform this action on yourself")
	case errors.Is(err, ErrForbidden):
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
