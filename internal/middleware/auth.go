package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "github.com/MHYAnate/rootafapi/internal/pkg/jwt"
	"github.com/MHYAnate/rootafapi/internal/pkg/response"
)

// UserAuth validates a user access token and loads its claims into the
// gin context.
func UserAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwt)
		if !ok {
			return
		}

		c.Set("user_id", claims.SubjectID)
		c.Set("user_type", claims.UserType)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, jwt *jwtsvc.Service) (*jwtsvc.Claims, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
		c.Abort()
		return nil, false
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header must be 'Bearer <token>'")
		c.Abort()
		return nil, false
	}

	tokenStr := strings.TrimSpace(parts[1])
	if tokenStr == "" {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
		c.Abort()
		return nil, false
	}

	claims, err := jwt.ValidateToken(tokenStr)
	if err != nil {
		response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		c.Abort()
		return nil, false
	}

	c.Set("bearer_token", tokenStr)
	return claims, true
}
