package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/utils"
)

// UserRepo stores accounts.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create hashes password and inserts the user, returning its id.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	q, args, err := psql.Insert("users").
		Columns("email", "password_hash", "role").
		Values(normalizeEmail(email), hash, role).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if isDuplicate(err) {
		return 0, ErrEmailExists
	}
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const userColumns = "id, email, password_hash, role, is_active, created_at, updated_at"

func (r *UserRepo) getBy(ctx context.Context, col string, v any) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+col+"=? LIMIT 1", v).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, sql.ErrNoRows
	}
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getBy(ctx, "email", normalizeEmail(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getBy(ctx, "id", id)
}
