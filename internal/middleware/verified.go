package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/pkg/response"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// RequireVerified gates endpoints that only fully verified, active
// accounts may use (listings, ratings).
func RequireVerified(users UserReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not found")
			c.Abort()
			return
		}

		if !user.IsActive {
			response.CustomError(c, http.StatusForbidden, "ACCOUNT_SUSPENDED", "Account has been suspended")
			c.Abort()
			return
		}
		if user.VerificationStatus != domain.VerificationVerified {
			response.CustomError(c, http.StatusForbidden, "NOT_VERIFIED", "Account not yet verified")
			c.Abort()
			return
		}

		c.Next()
	}
}
