// Package auth_repo provides the PostgreSQL implementation of user storage.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tally/internal/core/apperror"
	"tally/internal/core/id"
	"tally/internal/domain/auth"
	"tally/internal/infrastructure/storage/postgres"
)

var userCols = []string{
	"id", "tenant_id", "email", "password_hash", "display_name",
	"is_admin", "active", "created_at", "last_login_at",
}

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

func (r *UserRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	sql, args, err := r.builder().
		Insert("users").
		Columns(userCols...).
		Values(
			user.ID, user.TenantID, user.Email, user.PasswordHash,
			user.DisplayName, user.IsAdmin, user.Active,
			user.CreatedAt, user.LastLoginAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": userID}, userID.String())
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email}, email)
}

func (r *UserRepo) getOne(ctx context.Context, where squirrel.Eq, ref string) (*auth.User, error) {
	sql, args, err := r.builder().
		Select(userCols...).
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var user auth.User
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &user, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("user", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// RecordLogin stamps the user's last login time.
func (r *UserRepo) RecordLogin(ctx context.Context, userID id.ID) error {
	sql, args, err := r.builder().
		Update("users").
		Set("last_login_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}
