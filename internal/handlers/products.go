package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nhattin/storefront/internal/mykafka"
	"github.com/nhattin/storefront/internal/upstream"
	"github.com/nhattin/storefront/internal/util"
)

type ProductHandler struct {
	Upstream *upstream.Client
	Producer *mykafka.Producer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var result upstream.ProductPage
	err := upstream.Retry(c.Request().Context(), upstream.DefaultMaxRetries, upstream.DefaultRetryDelay,
		func(ctx context.Context) error {
			var rerr error
			result, rerr = h.Upstream.ListProducts(ctx, offset, limit)
			return rerr
		})
	if err != nil {
		return proxyError(c, err)
	}

	total := result.Total
	return c.JSON(http.StatusOK, map[string]any{
		"data": result.Items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing product id")
	}

	product, err := h.Upstream.GetProduct(c.Request().Context(), id)
	if err != nil {
		return proxyError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req upstream.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.Upstream.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return proxyError(c, err)
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id := c.Param("id")
	var req upstream.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.Upstream.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return proxyError(c, err)
	}

	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := h.Upstream.DeleteProduct(c.Request().Context(), id); err != nil {
		return proxyError(c, err)
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return c.NoContent(http.StatusNoContent)
}
