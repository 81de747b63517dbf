package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nhattin/storefront/internal/upstream"
)

// ContentHandler serves the read-only storefront sections: categories, the
// news feed and the subscription plans.
type ContentHandler struct {
	Upstream *upstream.Client
}

func (h *ContentHandler) GetCategories(c echo.Context) error {
	categories, err := h.Upstream.ListCategories(c.Request().Context())
	if err != nil {
		return proxyError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *ContentHandler) GetPosts(c echo.Context) error {
	posts, err := h.Upstream.ListPosts(c.Request().Context())
	if err != nil {
		return proxyError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *ContentHandler) GetPost(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing slug")
	}

	post, err := h.Upstream.GetPost(c.Request().Context(), slug)
	if err != nil {
		return proxyError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

func (h *ContentHandler) GetSubscriptionTypes(c echo.Context) error {
	types, err := h.Upstream.ListSubscriptionTypes(c.Request().Context())
	if err != nil {
		return proxyError(c, err)
	}
	return c.JSON(http.StatusOK, types)
}
