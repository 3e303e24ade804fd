package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	jwtsvc "github.com/MHYAnate/rootafapi/internal/pkg/jwt"
	"github.com/MHYAnate/rootafapi/internal/pkg/response"
)

// AdminSessionChecker reports whether the session backing a token is
// still administratively alive.
type AdminSessionChecker interface {
	IsSessionActive(ctx context.Context, adminID int64, tokenHash string, now time.Time) (bool, error)
}

// AdminAuth validates an admin token twice over: the signature/expiry,
// and the server-side session row. A cryptographically valid token whose
// session was revoked (logout, deactivation, forced termination) is
// rejected.
func AdminAuth(jwt *jwtsvc.Service, sessions AdminSessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwt)
		if !ok {
			return
		}

		tokenHash := jwtsvc.HashToken(c.GetString("bearer_token"))
		active, err := sessions.IsSessionActive(c.Request.Context(), claims.SubjectID, tokenHash, time.Now())
		if err != nil {
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Session check failed")
			c.Abort()
			return
		}
		if !active {
			response.CustomError(c, http.StatusUnauthorized, "SESSION_REVOKED", "Session is no longer active")
			c.Abort()
			return
		}

		c.Set("admin_id", claims.SubjectID)
		c.Set("admin_role", claims.Role)
		c.Next()
	}
}
