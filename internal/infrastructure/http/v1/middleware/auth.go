package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tally/internal/core/apperror"
	appctx "tally/internal/core/context"
	"tally/internal/core/tenant"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth validates JWT tokens and populates the user context. Non-admin users
// must stay inside their token's tenant; admins may address any tenant.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		if resolved, err := tenant.FromContext(c.Request.Context()); err == nil {
			if !user.IsAdmin && user.TenantID != "" && user.TenantID != resolved.String() {
				_ = c.Error(
					apperror.NewForbidden("tenant mismatch").
						WithDetail("resolved_tenant", resolved.String()).
						WithDetail("token_tenant", user.TenantID),
				)
				c.Abort()
				return
			}
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
		c.Set("user_id", user.UserID)

		c.Next()
	}
}

// OptionalAuth validates a token if present, but doesn't require one.
func OptionalAuth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.Next()
			return
		}

		if user, err := validator.ValidateToken(parts[1]); err == nil && user != nil {
			ctx := appctx.WithUser(c.Request.Context(), user)
			c.Request = c.Request.WithContext(ctx)
			c.Set("user_id", user.UserID)
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
