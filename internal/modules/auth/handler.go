package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/pkg/response"
)

// Handler manages all HTTP interactions for user authentication.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register/member", h.RegisterMember)
		authGroup.POST("/register/client", h.RegisterClient)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/password-reset/request", h.RequestPasswordReset)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.POST("/change-password", h.ChangePassword)
	}
}

func (h *Handler) RegisterMember(c *gin.Context) {
	var req RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	user, err := h.service.RegisterMember(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrPhoneAlreadyExists) {
			response.Error(c, http.StatusConflict, "PHONE_EXISTS", "Phone number already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register member")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Registration successful. Pending admin verification.",
		"user":    toSummary(user),
	})
}

func (h *Handler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	user, err := h.service.RegisterClient(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrPhoneAlreadyExists) {
			response.Error(c, http.StatusConflict, "PHONE_EXISTS", "Phone number already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register client")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Registration successful. Pending admin verification.",
		"user":    toSummary(user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		var locked *AccountLockedError
		switch {
		case errors.As(err, &locked):
			response.Error(c, http.StatusUnauthorized, "ACCOUNT_LOCKED", locked.Error())
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid phone number or password")
		case errors.Is(err, ErrAccountSuspended):
			response.Error(c, http.StatusUnauthorized, "ACCOUNT_SUSPENDED", "Account has been suspended")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to log in")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          toSummary(result.User),
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.RefreshSession(c.Request.Context(), req.RefreshToken, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) || errors.Is(err, ErrAccountSuspended) {
			response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid refresh token")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh session")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			response.Error(c, http.StatusBadRequest, "WRONG_PASSWORD", "Current password is incorrect")
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Failed to change password")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Failed to submit reset request")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Password reset request submitted. Admin will process it.",
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.GetProfile(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func toSummary(u *domain.User) UserSummary {
	var email string
	if u.Email != nil {
		email = *u.Email
	}
	return UserSummary{
		ID:                 u.ID,
		PhoneNumber:        u.PhoneNumber,
		FullName:           u.FullName,
		Email:              email,
		UserType:           string(u.UserType),
		VerificationStatus: string(u.VerificationStatus),
	}
}
