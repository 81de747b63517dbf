package cart

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	cartstate "github.com/nhattin/storefront/internal/cart"
	"github.com/nhattin/storefront/internal/models"
	"github.com/nhattin/storefront/internal/mykafka"
	"github.com/nhattin/storefront/internal/session"
)

// ProductSource resolves the product being added so the cart line carries a
// name and a unit price snapshot.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

type CartHandler struct {
	Carts    *cartstate.Registry
	Products ProductSource
	Producer *mykafka.Producer
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// cart resolves the session's own manager. Routes sit behind RequireSession,
// so a missing session here means a wiring mistake, not a user error.
func (h *CartHandler) cart(c echo.Context) (*cartstate.Manager, models.Session, error) {
	s, ok := session.FromContext(c.Request().Context())
	if !ok {
		return nil, models.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return h.Carts.For(s.ID), s, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	m, _, err := h.cart(c)
	if err != nil {
		return err
	}

	snap, err := m.Refresh(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing product_id")
	}

	m, s, err := h.cart(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	product, err := h.Products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	snap, err := m.Add(ctx, product)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "add_cart_items",
		"userID":    s.User.ID,
		"productID": req.ProductID,
	})

	return c.JSON(http.StatusOK, snap)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	lineID := c.Param("id")
	if lineID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing line id")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m, s, err := h.cart(c)
	if err != nil {
		return err
	}

	snap, err := m.UpdateQuantity(c.Request().Context(), lineID, req.Quantity)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "cart_quantity_updated",
		"userID":   s.User.ID,
		"lineID":   lineID,
		"quantity": req.Quantity,
	})

	return c.JSON(http.StatusOK, snap)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	lineID := c.Param("id")
	if lineID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing line id")
	}

	m, s, err := h.cart(c)
	if err != nil {
		return err
	}

	snap, err := m.Remove(c.Request().Context(), lineID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	h.publish(c, map[string]any{
		"type":   "cart_item_deleted",
		"userID": s.User.ID,
		"lineID": lineID,
	})

	return c.JSON(http.StatusOK, snap)
}
