package affiliate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nhattin/storefront/internal/logging"
	"github.com/nhattin/storefront/internal/models"
	"github.com/nhattin/storefront/internal/mykafka"
	"github.com/nhattin/storefront/internal/upstream"
)

// Resolver is the upstream slice the redirect flow needs.
type Resolver interface {
	ResolveAffiliate(ctx context.Context, code, clientIP, userAgent string) (string, error)
}

// RedirectHandler resolves marketing link codes and sends the browser on.
// The flow is fail-open: whatever goes wrong, the visitor lands on the home
// page, but every attempt leaves a journal row so failures stay visible.
type RedirectHandler struct {
	DB       *gorm.DB
	Upstream Resolver
	Producer *mykafka.Producer

	// RetryDelay overrides the resolve backoff base, tests shrink it.
	RetryDelay time.Duration
}

func (h *RedirectHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "affiliate_events", fmt.Sprint(event["linkCode"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *RedirectHandler) journal(c echo.Context, click models.AffiliateClick) {
	if h.DB == nil {
		return
	}
	if err := h.DB.Create(&click).Error; err != nil {
		c.Logger().Errorf("affiliate journal error: %v", err)
	}
}

func (h *RedirectHandler) Redirect(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx)

	code := c.Param("linkCode")
	ip := c.RealIP()
	ua := c.Request().UserAgent()

	if code == "" {
		h.journal(c, models.AffiliateClick{
			IP:        ip,
			UserAgent: ua,
			Outcome:   models.ClickFallback,
			Reason:    "missing link code",
		})
		return c.Redirect(http.StatusFound, "/")
	}

	delay := h.RetryDelay
	if delay <= 0 {
		delay = upstream.DefaultRetryDelay
	}

	var dest string
	err := upstream.Retry(ctx, upstream.DefaultMaxRetries, delay, func(ctx context.Context) error {
		var rerr error
		dest, rerr = h.Upstream.ResolveAffiliate(ctx, code, ip, ua)
		return rerr
	})
	if err != nil {
		log.Error("affiliate resolve failed",
			"link_code", code,
			"client_ip", ip,
			"error", err,
		)
		h.journal(c, models.AffiliateClick{
			LinkCode:  code,
			IP:        ip,
			UserAgent: ua,
			Outcome:   models.ClickFallback,
			Reason:    err.Error(),
		})
		return c.Redirect(http.StatusFound, "/")
	}

	h.journal(c, models.AffiliateClick{
		LinkCode:    code,
		Destination: dest,
		IP:          ip,
		UserAgent:   ua,
		Outcome:     models.ClickRedirected,
	})
	h.publish(c, map[string]any{
		"type":        "affiliate_click",
		"linkCode":    code,
		"destination": dest,
		"ip":          ip,
	})

	return c.Redirect(http.StatusFound, dest)
}
