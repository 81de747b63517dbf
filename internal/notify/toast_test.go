package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultDuration(t *testing.T) {
	require.Equal(t, 5*time.Second, DefaultDuration)
}

func TestToastAutoDismissesAtExpiryNotEarlier(t *testing.T) {
	h := NewHub()
	id := h.Show(LevelInfo, "hello", 80*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	require.Len(t, h.Active(), 1, "toast dismissed too early")

	time.Sleep(120 * time.Millisecond)
	require.Empty(t, h.Active())

	// dismissing again is harmless
	h.Dismiss(id)
}

func TestManualDismiss(t *testing.T) {
	h := NewHub()
	id := h.Show(LevelSuccess, "done", time.Minute)
	require.Len(t, h.Active(), 1)

	h.Dismiss(id)
	require.Empty(t, h.Active())
}

func TestBrokerKeepsSessionsApart(t *testing.T) {
	b := NewBroker()

	id := b.For("s1").Show(LevelError, "thanh toán thất bại", time.Minute)
	require.Empty(t, b.For("s2").Active(), "another session must not see the toast")

	// dismissing through another session's hub does nothing
	b.For("s2").Dismiss(id)
	require.Len(t, b.For("s1").Active(), 1)

	require.Same(t, b.For("s1"), b.For("s1"))

	b.Drop("s1")
	require.Empty(t, b.For("s1").Active())
}

func TestShowDefaultsExpiry(t *testing.T) {
	h := NewHub()
	h.Success("saved")

	active := h.Active()
	require.Len(t, active, 1)
	remaining := time.Until(active[0].ExpiresAt)
	require.Greater(t, remaining, 4*time.Second)
	require.LessOrEqual(t, remaining, 5*time.Second)
}
