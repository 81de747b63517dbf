package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/nhattin/storefront/internal/handlers"
	"github.com/nhattin/storefront/internal/handlers/affiliate"
	carthttp "github.com/nhattin/storefront/internal/handlers/cart"
	authmw "github.com/nhattin/storefront/internal/middleware/auth"
	"github.com/nhattin/storefront/internal/session"
)

type Deps struct {
	Sessions            session.Store
	JWTSecret           []byte
	AuthHandler         *handlers.AuthHandler
	ProductHandler      *handlers.ProductHandler
	ContentHandler      *handlers.ContentHandler
	DiscountHandler     *handlers.DiscountHandler
	PaymentHandler      *handlers.PaymentHandler
	SearchHandler       *handlers.SearchHandler
	NotificationHandler *handlers.NotificationHandler
	CartHandler         *carthttp.CartHandler
	RedirectHandler     *affiliate.RedirectHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.GET("/api/affiliate/redirect/:linkCode", d.RedirectHandler.Redirect)
	e.GET("/api/affiliate/redirect", d.RedirectHandler.Redirect)
	// short alias used in shared links
	e.GET("/affiliate/redirect/:linkCode", d.RedirectHandler.Redirect)
	e.GET("/affiliate/redirect", d.RedirectHandler.Redirect)

	v1 := e.Group("/api/v1")

	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.GET("/search", d.SearchHandler.Search)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/categories", d.ContentHandler.GetCategories)
	v1.GET("/posts", d.ContentHandler.GetPosts)
	v1.GET("/posts/:slug", d.ContentHandler.GetPost)
	v1.GET("/subscription-types", d.ContentHandler.GetSubscriptionTypes)
	v1.GET("/discounts", d.DiscountHandler.GetDiscounts)

	requireSession := authmw.RequireSession(d.Sessions)

	v1.GET("/me", d.AuthHandler.Me, requireSession)

	cart := v1.Group("/cart", requireSession)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:id", d.CartHandler.RemoveFromCart)
	cart.POST("/checkout", d.PaymentHandler.Checkout)

	v1.GET("/payments/:id", d.PaymentHandler.GetPayment, requireSession)

	v1.GET("/notifications", d.NotificationHandler.GetNotifications, requireSession)
	v1.DELETE("/notifications/:id", d.NotificationHandler.Dismiss, requireSession)

	admin := v1.Group("/admin", requireSession, authmw.AdminOnly(d.JWTSecret))
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/discounts", d.DiscountHandler.CreateDiscount)
	admin.PATCH("/discounts/:id", d.DiscountHandler.PatchDiscount)
	admin.DELETE("/discounts/:id", d.DiscountHandler.DeleteDiscount)
}
