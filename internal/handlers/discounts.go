package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nhattin/storefront/internal/mykafka"
	"github.com/nhattin/storefront/internal/upstream"
)

type DiscountHandler struct {
	Upstream *upstream.Client
	Producer *mykafka.Producer
}

func (h *DiscountHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["discountID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *DiscountHandler) GetDiscounts(c echo.Context) error {
	discounts, err := h.Upstream.ListDiscounts(c.Request().Context())
	if err != nil {
		return proxyError(c, err)
	}
	return c.JSON(http.StatusOK, discounts)
}

// CreateDiscount forwards the form as-is; field-level validation messages
// from a 422 reply come back in the error body so the admin form can
// re-surface them.
func (h *DiscountHandler) CreateDiscount(c echo.Context) error {
	var req upstream.DiscountInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	discount, err := h.Upstream.CreateDiscount(c.Request().Context(), req)
	if err != nil {
		return proxyError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "discount_created",
		"discountID": discount.ID,
		"code":       discount.Code,
	})
	return c.JSON(http.StatusCreated, discount)
}

func (h *DiscountHandler) PatchDiscount(c echo.Context) error {
	id := c.Param("id")
	var req upstream.DiscountInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	discount, err := h.Upstream.UpdateDiscount(c.Request().Context(), id, req)
	if err != nil {
		return proxyError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "discount_updated",
		"discountID": discount.ID,
		"code":       discount.Code,
	})
	return c.JSON(http.StatusOK, discount)
}

func (h *DiscountHandler) DeleteDiscount(c echo.Context) error {
	id := c.Param("id")
	if err := h.Upstream.DeleteDiscount(c.Request().Context(), id); err != nil {
		return proxyError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "discount_deleted",
		"discountID": id,
	})
	return c.NoContent(http.StatusNoContent)
}
