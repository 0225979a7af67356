package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
	"github.com/sangkips/gst-invoice-api/pkg/session"
	"github.com/sangkips/gst-invoice-api/pkg/utils"
)

// ClaimsKey is the context key holding the validated *utils.JWTClaims.
const ClaimsKey = "jwt_claims"

// BearerToken returns the token of a "Bearer <token>" Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware creates a JWT authentication middleware. Tokens revoked by
// logout are rejected.
func AuthMiddleware(jwtManager *utils.JWTManager, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		tokenString, ok := BearerToken(c)
		if !ok {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			_ = c.Error(err)
			response.Error(c, apperror.NewUnavailableError("Unable to verify session"))
			c.Abort()
			return
		}
		if revoked {
			response.Error(c, apperror.ErrTokenRevoked)
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_roles", claims.Roles)
		c.Set("user_permissions", claims.Permissions)

		c.Next()
	}
}

// RequirePermission creates a middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permissions, exists := c.Get("user_permissions")
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		userPermissions, ok := permissions.([]string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, p := range userPermissions {
			if p == permission {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "You do not have permission to perform this action")
		c.Abort()
	}
}
