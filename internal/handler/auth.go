package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-floor-planner/internal/logging"
	"github.com/iliyamo/venue-floor-planner/internal/middleware"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/repository"
	"github.com/iliyamo/venue-floor-planner/internal/utils"
)

// UserStore is the part of repository.UserRepo the auth endpoints use.
type UserStore interface {
	Create(ctx context.Context, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore is the part of repository.TokenRepo the auth endpoints use.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthSettings are the token and hashing parameters.
type AuthSettings struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Settings AuthSettings
	Users    UserStore
	Tokens   TokenStore
	Now      func() time.Time
}

func NewAuthHandler(s AuthSettings, u UserStore, t TokenStore) *AuthHandler {
	return &AuthHandler{Settings: s, Users: u, Tokens: t, Now: func() time.Time { return time.Now().UTC() }}
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // CUSTOMER | OWNER
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func authError(c echo.Context, status int, msg string) error {
	code := "INVALID_INPUT"
	switch status {
	case http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case http.StatusConflict:
		code = "EMAIL_EXISTS"
	case http.StatusInternalServerError:
		code = "INTERNAL_ERROR"
	}
	return c.JSON(status, echo.Map{"error": msg, "code": code})
}

// issue creates an access/refresh pair and stores the refresh hash.
func (h *AuthHandler) issue(ctx context.Context, u userPart) (authResp, error) {
	now := h.Now()
	access, err := utils.NewAccessToken(h.Settings.JWTSecret, u.ID, u.Role, h.Settings.AccessTTL, now)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Settings.RefreshTTL, now)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    u,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw goes back once
	}, nil
}

// Register creates a user and returns a token pair right away.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return authError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return authError(c, http.StatusBadRequest, "email/password required")
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleOwner && role != model.RoleCustomer {
		role = model.RoleCustomer
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, role, h.Settings.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return authError(c, http.StatusConflict, "email already exists")
	case errors.Is(err, utils.ErrWeakPassword):
		return authError(c, http.StatusBadRequest, err.Error())
	case err != nil:
		logging.FromContext(ctx).Error("create user", "err", err)
		return authError(c, http.StatusInternalServerError, "create user failed")
	}

	resp, err := h.issue(ctx, userPart{ID: uid, Email: req.Email, Role: role})
	if err != nil {
		logging.FromContext(ctx).Error("issue tokens", "user", uid, "err", err)
		return authError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies the credentials and returns a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return authError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return authError(c, http.StatusBadRequest, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return authError(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		logging.FromContext(ctx).Error("load user", "err", err)
		return authError(c, http.StatusInternalServerError, "query failed")
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return authError(c, http.StatusUnauthorized, "invalid credentials")
	}

	resp, err := h.issue(ctx, userPart{ID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		logging.FromContext(ctx).Error("issue tokens", "user", u.ID, "err", err)
		return authError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return authError(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return authError(c, http.StatusUnauthorized, "invalid refresh")
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		logging.FromContext(ctx).Warn("revoke rotated refresh token", "user", userID, "err", err)
	}
	u, err := h.Users.GetByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return authError(c, http.StatusUnauthorized, "invalid refresh")
	}
	if err != nil {
		return authError(c, http.StatusInternalServerError, "load user failed")
	}

	resp, err := h.issue(ctx, userPart{ID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		logging.FromContext(ctx).Error("issue tokens", "user", u.ID, "err", err)
		return authError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the refresh token in the body, or every refresh token of
// the authenticated user when the body carries none.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if raw != "" {
		hash := utils.HashRefreshRaw(raw)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return authError(c, http.StatusUnauthorized, "invalid refresh token")
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return authError(c, http.StatusInternalServerError, "logout failed")
		}
		return c.NoContent(http.StatusNoContent)
	}
	uid, ok := middleware.UserID(c)
	if !ok {
		return authError(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return authError(c, http.StatusInternalServerError, "logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the caller's identity.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	return c.JSON(http.StatusOK, echo.Map{"user_id": uid, "role": middleware.Role(c)})
}
