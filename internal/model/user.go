package model

import "time"

// Roles understood by the API. Owners manage venue layouts; customers book
// tables.
const (
	RoleOwner    = "OWNER"
	RoleCustomer = "CUSTOMER"
)

// User mirrors the `users` table.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken mirrors `refresh_tokens`. Only the SHA-256 of the raw token
// is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at
	CreatedAt time.Time  // refresh_tokens.created_at
}
