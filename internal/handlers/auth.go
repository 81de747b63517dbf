package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	cartstate "github.com/nhattin/storefront/internal/cart"
	authmw "github.com/nhattin/storefront/internal/middleware/auth"
	"github.com/nhattin/storefront/internal/models"
	"github.com/nhattin/storefront/internal/notify"
	"github.com/nhattin/storefront/internal/mykafka"
	"github.com/nhattin/storefront/internal/session"
	"github.com/nhattin/storefront/internal/upstream"
)

type AuthHandler struct {
	Upstream *upstream.Client
	Sessions session.Store
	Carts    *cartstate.Registry
	Toasts   *notify.Broker
	Producer *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// Login proxies the credentials upstream and, on success, stores the issued
// token plus profile as a session behind an HttpOnly cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	result, err := h.Upstream.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return proxyError(c, err)
	}

	s := models.Session{
		ID:        uuid.NewString(),
		Token:     result.Token,
		User:      result.User,
		CreatedAt: time.Now(),
	}
	if err := h.Sessions.Save(c.Request().Context(), s); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store session")
	}

	c.SetCookie(authmw.SessionCookie(s.ID, time.Now().Add(session.DefaultTTL)))

	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userID": result.User.ID,
		"email":  result.User.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"user":     result.User,
		"is_admin": result.User.Role == "admin",
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(authmw.CookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no active session")
	}

	s, getErr := h.Sessions.Get(c.Request().Context(), cookie.Value)
	if err := h.Sessions.Delete(c.Request().Context(), cookie.Value); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.SetCookie(authmw.ExpiredCookie())
	h.Carts.Drop(cookie.Value)
	h.Toasts.Drop(cookie.Value)

	if getErr == nil {
		h.publish(c, map[string]any{
			"type":   "user_logged_out",
			"userID": s.User.ID,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the denormalized profile of the current session.
func (h *AuthHandler) Me(c echo.Context) error {
	s, ok := session.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return c.JSON(http.StatusOK, s.User)
}
