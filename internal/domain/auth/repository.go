package auth

import (
	"context"

	"tally/internal/core/id"
)

// UserRepository defines user persistence. Emails are unique across tenants.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	RecordLogin(ctx context.Context, userID id.ID) error
}
