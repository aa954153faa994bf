package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	keyUserID = "user_id"
	keyRole   = "role"
)

// UserID returns the authenticated user id, if any.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(keyUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated role, or "".
func Role(c echo.Context) string {
	r, _ := c.Get(keyRole).(string)
	return r
}

// userKey identifies the caller in cache and rate-limit keys.
func userKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}

// SetIdentity stores the authenticated caller on c.
func SetIdentity(c echo.Context, userID uint64, role string) {
	c.Set(keyUserID, userID)
	c.Set(keyRole, role)
}
