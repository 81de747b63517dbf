package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/nhattin/storefront/internal/session"
)

const CookieName = "nhattin_session"

func SessionCookie(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func ExpiredCookie() *http.Cookie {
	return SessionCookie("", time.Now().Add(-1*time.Hour))
}

// RequireSession resolves the session cookie through the store and carries
// the session in the request context. A stale cookie is cleared on the way
// out so the client does not keep presenting dead credentials.
func RequireSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			s, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				c.SetCookie(ExpiredCookie())
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			ctx := session.IntoContext(c.Request().Context(), s)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("userID", s.User.ID)
			c.Set("role", s.User.Role)
			return next(c)
		}
	}
}

// AdminOnly verifies the upstream-issued JWT's role claim. The profile role
// alone is not trusted for back-office routes.
func AdminOnly(jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := session.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			token, err := jwt.Parse(s.Token, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return jwtSecret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			if role, _ := claims["role"].(string); role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "admin only")
			}
			return next(c)
		}
	}
}
