// Package auth provides authentication for the ledger API.
package auth

import (
	"time"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
)

// User is an API user bound to one tenant. Admin users may request the
// consolidated cross-tenant views regardless of their home tenant.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	TenantID     tenant.ID `db:"tenant_id" json:"tenantId"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"displayName"`
	IsAdmin      bool      `db:"is_admin" json:"isAdmin"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	LastLoginAt  time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

// NewUser creates an active user with an already-hashed password.
func NewUser(t tenant.ID, email, passwordHash string) *User {
	return &User{
		ID:           id.New(),
		TenantID:     t,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
}

// Credentials carries a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
