package httpserver

import (
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nhattin/storefront/internal/handlers"
	"github.com/nhattin/storefront/internal/handlers/affiliate"
	carthttp "github.com/nhattin/storefront/internal/handlers/cart"
	"github.com/nhattin/storefront/internal/session"
)

func TestRegisterRouteTable(t *testing.T) {
	e := echo.New()
	Register(e, &Deps{
		Sessions:            session.NewMemoryStore(time.Minute),
		AuthHandler:         &handlers.AuthHandler{},
		ProductHandler:      &handlers.ProductHandler{},
		ContentHandler:      &handlers.ContentHandler{},
		DiscountHandler:     &handlers.DiscountHandler{},
		PaymentHandler:      &handlers.PaymentHandler{},
		SearchHandler:       &handlers.SearchHandler{},
		NotificationHandler: &handlers.NotificationHandler{},
		CartHandler:         &carthttp.CartHandler{},
		RedirectHandler:     &affiliate.RedirectHandler{},
	})

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"GET /api/affiliate/redirect/:linkCode",
		"GET /api/affiliate/redirect",
		"GET /affiliate/redirect/:linkCode",
		"GET /affiliate/redirect",
		"POST /api/v1/login",
		"GET /api/v1/cart",
		"POST /api/v1/cart/checkout",
		"GET /api/v1/notifications",
		"DELETE /api/v1/notifications/:id",
	} {
		require.True(t, registered[route], "missing route %s", route)
	}
}
