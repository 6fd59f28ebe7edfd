package middleware

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/auth"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxClaims = "claims"
)

// JWTAuth requires a valid access token in the Authorization header, or in
// the token query parameter for websocket upgrades.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearer(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			claims, err := auth.ParseAccessToken(secret, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth reads the token when one is sent and otherwise lets the
// request through anonymously.
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := bearer(c); raw != "" {
				if claims, err := auth.ParseAccessToken(secret, raw); err == nil {
					setClaims(c, claims)
				}
			}
			return next(c)
		}
	}
}

// RequireRole must run after JWTAuth.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(models.Role)
			if !ok || !allowed[role] {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// Claims returns the caller's claims, or nil for anonymous requests.
func Claims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ctxClaims).(*auth.Claims)
	return claims
}

// UserID returns the caller's id, or uuid.Nil for anonymous requests.
func UserID(c echo.Context) uuid.UUID {
	id, _ := c.Get(ctxUserID).(uuid.UUID)
	return id
}

func Role(c echo.Context) models.Role {
	role, _ := c.Get(ctxRole).(models.Role)
	return role
}

func setClaims(c echo.Context, claims *auth.Claims) {
	c.Set(ctxClaims, claims)
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, claims.Role)
}

func bearer(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if raw, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(raw)
	}
	return c.QueryParam("token")
}
