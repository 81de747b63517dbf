package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nhattin/storefront/internal/logging"
	"github.com/nhattin/storefront/internal/models"
	"github.com/nhattin/storefront/internal/notify"
	"github.com/nhattin/storefront/internal/session"
	"github.com/nhattin/storefront/internal/upstream"
)

// RemoteAPI is the slice of the upstream client the manager needs.
type RemoteAPI interface {
	ListCart(ctx context.Context) ([]models.CartLine, error)
	CreateCartLine(ctx context.Context, productID string, quantity int, idemKey string) (models.CartLine, error)
	UpdateCartLine(ctx context.Context, lineID string, quantity int) (models.CartLine, error)
	DeleteCartLine(ctx context.Context, lineID string) error
}

// Snapshot is the cart state observed inside a single critical section.
// Responses are built from it, never from a later read of the mirror.
type Snapshot struct {
	Items      []models.CartLine `json:"items"`
	Total      decimal.Decimal   `json:"total"`
	TotalItems int               `json:"total_items"`
}

// Manager mirrors the remote cart of ONE session. Every mutation is written
// upstream first and the mirror is replaced with a fresh read, so local state
// is always server-confirmed; a failed call leaves the mirror stale but
// consistent. Mutations are serialized, two adds of the same product cannot
// both take the create path, and each mutation returns the snapshot it
// produced.
type Manager struct {
	mu     sync.Mutex
	api    RemoteAPI
	toasts *notify.Hub
	lines  []models.CartLine
}

func NewManager(api RemoteAPI, toasts *notify.Hub) *Manager {
	return &Manager{api: api, toasts: toasts}
}

// Refresh replaces the mirror with the remote cart. Without an authenticated
// session it is a silent no-op returning the current snapshot.
func (m *Manager) Refresh(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := session.FromContext(ctx); !ok {
		return m.snapshotLocked(), nil
	}

	if err := m.reload(ctx); err != nil {
		return Snapshot{}, err
	}
	return m.snapshotLocked(), nil
}

// Add puts one unit of the product in the cart: an existing line gets its
// quantity bumped, otherwise a new line with quantity 1 is created.
func (m *Manager) Add(ctx context.Context, product models.Product) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	remote, err := m.api.ListCart(ctx)
	if err != nil {
		return Snapshot{}, m.fail(ctx, "add to cart", err)
	}

	var existing *models.CartLine
	for i := range remote {
		if remote[i].ProductID == product.ID {
			existing = &remote[i]
			break
		}
	}

	if existing != nil {
		_, err = m.api.UpdateCartLine(ctx, existing.ID, existing.Quantity+1)
	} else {
		_, err = m.api.CreateCartLine(ctx, product.ID, 1, uuid.NewString())
	}
	if err != nil {
		return Snapshot{}, m.fail(ctx, "add to cart", err)
	}

	if err := m.reload(ctx); err != nil {
		return Snapshot{}, m.fail(ctx, "add to cart", err)
	}
	m.toasts.Success("Đã thêm sản phẩm vào giỏ hàng")
	return m.snapshotLocked(), nil
}

// UpdateQuantity sets a line's quantity. Quantities below 1 are a strict
// no-op: no remote call, no local change.
func (m *Manager) UpdateQuantity(ctx context.Context, lineID string, quantity int) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity < 1 {
		return m.snapshotLocked(), nil
	}

	if _, err := m.api.UpdateCartLine(ctx, lineID, quantity); err != nil {
		return Snapshot{}, m.fail(ctx, "update quantity", err)
	}
	if err := m.reload(ctx); err != nil {
		return Snapshot{}, m.fail(ctx, "update quantity", err)
	}
	m.toasts.Success("Đã cập nhật giỏ hàng")
	return m.snapshotLocked(), nil
}

func (m *Manager) Remove(ctx context.Context, lineID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.api.DeleteCartLine(ctx, lineID); err != nil {
		return Snapshot{}, m.fail(ctx, "remove from cart", err)
	}
	if err := m.reload(ctx); err != nil {
		return Snapshot{}, m.fail(ctx, "remove from cart", err)
	}
	m.toasts.Success("Đã xóa sản phẩm khỏi giỏ hàng")
	return m.snapshotLocked(), nil
}

// reload must be called with the lock held.
func (m *Manager) reload(ctx context.Context) error {
	lines, err := m.api.ListCart(ctx)
	if err != nil {
		return err
	}
	m.lines = lines
	return nil
}

// snapshotLocked folds the mirror into a Snapshot. Lock must be held.
func (m *Manager) snapshotLocked() Snapshot {
	items := make([]models.CartLine, len(m.lines))
	copy(items, m.lines)

	total := decimal.Zero
	n := 0
	for _, line := range m.lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		n += line.Quantity
	}
	return Snapshot{Items: items, Total: total, TotalItems: n}
}

func (m *Manager) fail(ctx context.Context, op string, err error) error {
	logging.FromContext(ctx).Error("cart operation failed", "op", op, "error", err)
	m.toasts.Error(upstream.UserMessage(err))
	return err
}
