package handlers

import (
	"github.com/gin-gonic/gin"

	"tally/internal/domain/auth"
	"tally/internal/infrastructure/http/v1/dto"
)

// AuthHandler exposes login.
type AuthHandler struct {
	*BaseHandler
	svc *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(),
		svc:         svc,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":          user.ID.String(),
			"email":       user.Email,
			"displayName": user.DisplayName,
			"tenantId":    user.TenantID,
			"isAdmin":     user.IsAdmin,
		},
	})
}
