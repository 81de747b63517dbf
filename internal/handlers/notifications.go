package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nhattin/storefront/internal/notify"
	"github.com/nhattin/storefront/internal/session"
)

type NotificationHandler struct {
	Toasts *notify.Broker
}

func (h *NotificationHandler) hub(c echo.Context) (*notify.Hub, error) {
	s, ok := session.FromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return h.Toasts.For(s.ID), nil
}

func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	hub, err := h.hub(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hub.Active())
}

func (h *NotificationHandler) Dismiss(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id")
	}

	hub, err := h.hub(c)
	if err != nil {
		return err
	}
	hub.Dismiss(id)
	return c.NoContent(http.StatusNoContent)
}
