package middleware

import (
	"github.com/gin-gonic/gin"

	"tally/internal/core/apperror"
	"tally/internal/core/tenant"
)

// HeaderTenantID carries the caller's tenant choice.
const HeaderTenantID = "X-Tenant-ID"

// Tenant resolves the active tenant once per request, in priority order:
// header, query parameter, path parameter, then the primary tenant. The
// resolved identity is stored in the request context; handlers and services
// receive it explicitly from there, never from globals.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderTenantID)
		if raw == "" {
			raw = c.Query("tenant")
		}
		if raw == "" {
			raw = c.Param("tenant")
		}

		t := tenant.Default
		if raw != "" {
			parsed, ok := tenant.Parse(raw)
			if !ok {
				_ = c.Error(apperror.NewValidation("unknown tenant").
					WithDetail("tenant", raw))
				c.Abort()
				return
			}
			t = parsed
		}

		ctx := tenant.WithTenant(c.Request.Context(), t)
		c.Request = c.Request.WithContext(ctx)
		c.Set("tenant", t.String())

		c.Next()
	}
}
