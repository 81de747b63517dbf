package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/nhattin/storefront/internal/middleware/auth"
	"github.com/nhattin/storefront/internal/upstream"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// proxyError turns an upstream failure into a client response. A 401 from
// the backend additionally clears the session cookie, the stored credentials
// are no longer good for anything.
func proxyError(c echo.Context, err error) error {
	status := upstream.StatusOf(err)
	switch upstream.Classify(err) {
	case upstream.KindNetwork:
		status = http.StatusBadGateway
	case upstream.KindUnknown:
		status = http.StatusInternalServerError
	}
	if status == http.StatusUnauthorized {
		c.SetCookie(authmw.ExpiredCookie())
	}

	body := echo.Map{"message": upstream.UserMessage(err)}
	if fields := upstream.FieldsOf(err); len(fields) > 0 {
		body["errors"] = fields
	}
	return c.JSON(status, body)
}
