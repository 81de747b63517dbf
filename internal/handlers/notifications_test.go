package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nhattin/storefront/internal/models"
	"github.com/nhattin/storefront/internal/notify"
	"github.com/nhattin/storefront/internal/session"
)

func notifyRequest(sessionID, method, path string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(method, path, nil)
	s := models.Session{ID: sessionID, Token: "tok-" + sessionID, User: models.UserProfile{ID: "u-" + sessionID}}
	return httptest.NewRecorder(), req.WithContext(session.IntoContext(req.Context(), s))
}

func TestNotificationsScopedToSession(t *testing.T) {
	broker := notify.NewBroker()
	h := &NotificationHandler{Toasts: broker}
	e := echo.New()

	id := broker.For("sA").Error("Không thể kết nối")

	rec, req := notifyRequest("sA", http.MethodGet, "/api/v1/notifications")
	require.NoError(t, h.GetNotifications(e.NewContext(req, rec)))
	var toastsA []notify.Toast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toastsA))
	require.Len(t, toastsA, 1)

	// another session sees none of them
	rec, req = notifyRequest("sB", http.MethodGet, "/api/v1/notifications")
	require.NoError(t, h.GetNotifications(e.NewContext(req, rec)))
	var toastsB []notify.Toast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toastsB))
	require.Empty(t, toastsB)

	// and cannot dismiss them
	rec, req = notifyRequest("sB", http.MethodDelete, "/api/v1/notifications/"+id)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Dismiss(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, broker.For("sA").Active(), 1)

	rec, req = notifyRequest("sA", http.MethodDelete, "/api/v1/notifications/"+id)
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Dismiss(c))
	require.Empty(t, broker.For("sA").Active())
}
