package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	cartstate "github.com/nhattin/storefront/internal/cart"
	"github.com/nhattin/storefront/internal/models"
	"github.com/nhattin/storefront/internal/mykafka"
	"github.com/nhattin/storefront/internal/session"
	"github.com/nhattin/storefront/internal/upstream"
)

type PaymentHandler struct {
	DB       *gorm.DB
	Upstream *upstream.Client
	Carts    *cartstate.Registry
	Producer *mykafka.Producer
}

func (h *PaymentHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "payment_events", fmt.Sprint(event["paymentID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// Checkout initiates a payment for the current cart. The cart contents are
// frozen into an order snapshot on the stored record; the snapshot is for
// display only and is never reconciled against live order state.
func (h *PaymentHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	s, ok := session.FromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	snap, err := h.Carts.For(s.ID).Refresh(ctx)
	if err != nil {
		return proxyError(c, err)
	}
	if len(snap.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
	}

	items := make([]models.SnapshotItem, 0, len(snap.Items))
	for _, line := range snap.Items {
		items = append(items, models.SnapshotItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	total := snap.Total

	payment, err := h.Upstream.CreatePayment(ctx, upstream.PaymentInput{
		Amount: total,
		Items:  items,
	})
	if err != nil {
		return proxyError(c, err)
	}

	status := payment.Status
	if !status.Valid() {
		status = models.PaymentPending
	}

	record := models.PaymentRecord{
		PaymentID: payment.ID,
		UserID:    s.User.ID,
		Status:    string(status),
		Amount:    payment.Amount,
	}
	if err := record.SetSnapshot(models.OrderSnapshot{
		OrderID: payment.OrderID,
		Total:   total,
		Items:   items,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Create(&record).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "payment_initiated",
		"paymentID": payment.ID,
		"userID":    s.User.ID,
		"amount":    total.String(),
	})

	snapshot, _ := record.OrderSnapshot()
	return c.JSON(http.StatusCreated, echo.Map{
		"payment_id": record.PaymentID,
		"status":     record.Status,
		"amount":     record.Amount,
		"order":      snapshot,
	})
}

// GetPayment returns the stored record merged with the upstream status. The
// upstream read is best effort, a failure just serves the last known state.
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()
	s, ok := session.FromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	id := c.Param("id")
	var record models.PaymentRecord
	if err := h.DB.Where("payment_id = ? AND user_id = ?", id, s.User.ID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "payment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if remote, err := h.Upstream.GetPayment(ctx, id); err == nil && remote.Status.Valid() {
		if string(remote.Status) != record.Status {
			record.Status = string(remote.Status)
			if err := h.DB.Save(&record).Error; err != nil {
				c.Logger().Errorf("payment status update error: %v", err)
			}
		}
	}

	snapshot, err := record.OrderSnapshot()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payment_id": record.PaymentID,
		"status":     record.Status,
		"amount":     record.Amount,
		"order":      snapshot,
		"created_at": record.CreatedAt,
	})
}
