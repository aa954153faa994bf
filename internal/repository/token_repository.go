package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// TokenRepo persists refresh tokens by their SHA-256 hash.
type TokenRepo struct{ db *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp.UTC())
	return err
}

// Lookup returns the stored token row for a hash.
func (r *TokenRepo) Lookup(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var (
		t       model.RefreshToken
		revoked sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, revoked_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &revoked, &t.CreatedAt)
	if err != nil {
		return model.RefreshToken{}, err
	}
	if revoked.Valid {
		t.RevokedAt = &revoked.Time
	}
	return t, nil
}

// ValidateRefresh returns the owner of a token that is neither revoked nor
// expired; any other token yields sql.ErrNoRows.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	t, err := r.Lookup(ctx, tokenHash)
	if err != nil {
		return 0, err
	}
	if t.RevokedAt != nil || !time.Now().UTC().Before(t.ExpiresAt) {
		return 0, sql.ErrNoRows
	}
	return t.UserID, nil
}

func (r *TokenRepo) revoke(ctx context.Context, where sq.Eq) error {
	q, args, err := psql.Update("refresh_tokens").
		Set("revoked_at", sq.Expr("UTC_TIMESTAMP()")).
		Where(where).
		Where("revoked_at IS NULL").
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	return r.revoke(ctx, sq.Eq{"token_hash": tokenHash})
}

// RevokeAllForUser revokes every live token of a user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return r.revoke(ctx, sq.Eq{"user_id": userID})
}

// PurgeExpired deletes tokens that expired before the given time.
func (r *TokenRepo) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE expires_at < ?", before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
