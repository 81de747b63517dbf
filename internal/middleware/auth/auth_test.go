package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nhattin/storefront/internal/models"
	"github.com/nhattin/storefront/internal/session"
)

func signToken(t *testing.T, secret []byte, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "u1",
		"role": role,
		"exp":  time.Now().Add(15 * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireSession(t *testing.T) {
	store := session.NewMemoryStore(time.Minute)
	e := echo.New()
	mw := RequireSession(store)

	// no cookie
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	err := mw(okHandler)(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)

	// stale cookie
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "gone"})
	rec = httptest.NewRecorder()
	err = mw(okHandler)(e.NewContext(req, rec))
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)

	// valid session lands in the request context
	s := models.Session{ID: "sid", Token: "tok", User: models.UserProfile{ID: "u1", Role: "user"}}
	require.NoError(t, store.Save(req.Context(), s))

	var seen models.Session
	next := func(c echo.Context) error {
		seen, _ = session.FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "sid"})
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, mw(next)(c))
	require.Equal(t, s, seen)
	require.Equal(t, "u1", c.Get("userID"))
}

func TestAdminOnly(t *testing.T) {
	secret := []byte("test-secret")
	e := echo.New()
	mw := AdminOnly(secret)

	run := func(token string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		s := models.Session{ID: "sid", Token: token, User: models.UserProfile{ID: "u1"}}
		req = req.WithContext(session.IntoContext(req.Context(), s))
		return mw(okHandler)(e.NewContext(req, httptest.NewRecorder()))
	}

	require.NoError(t, run(signToken(t, secret, "admin")))

	err := run(signToken(t, secret, "user"))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)

	err = run(signToken(t, []byte("other-secret"), "admin"))
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)

	err = run("not-a-jwt")
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
