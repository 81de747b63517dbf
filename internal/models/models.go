package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	CategoryID  string          `json:"category_id"`
	Stock       int             `json:"stock"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Discount struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Percent     int             `json:"percent"`
	MaxAmount   decimal.Decimal `json:"max_amount"`
	Description string          `json:"description"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      time.Time       `json:"ends_at"`
	Active      bool            `json:"active"`
}

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	Thumbnail   string    `json:"thumbnail"`
	PublishedAt time.Time `json:"published_at"`
}

type SubscriptionType struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DurationDays int             `json:"duration_days"`
	Price        decimal.Decimal `json:"price"`
}

// CartLine is one product-quantity pairing in the local mirror of the
// remote cart. UnitPrice is a snapshot taken from the remote line and is
// only used for local total computation.
type CartLine struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Session holds the upstream-issued bearer token together with the
// denormalized profile returned at login. The token is trusted as-is,
// there is no refresh flow.
type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      UserProfile `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type SnapshotItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderSnapshot is a denormalized, point-in-time copy of the order embedded
// in a payment record. It is display data only and is never reconciled
// against live order state.
type OrderSnapshot struct {
	OrderID string          `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
	Items   []SnapshotItem  `json:"items"`
}

type PaymentRecord struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID string          `gorm:"uniqueIndex;not null"     json:"payment_id"`
	UserID    string          `gorm:"index;not null"           json:"user_id"`
	Status    string          `gorm:"not null"                 json:"status"`
	Amount    decimal.Decimal `gorm:"type:numeric"             json:"amount"`
	Snapshot  string          `gorm:"type:text"                json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (p *PaymentRecord) SetSnapshot(s OrderSnapshot) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	p.Snapshot = string(raw)
	return nil
}

func (p *PaymentRecord) OrderSnapshot() (OrderSnapshot, error) {
	var s OrderSnapshot
	if p.Snapshot == "" {
		return s, nil
	}
	err := json.Unmarshal([]byte(p.Snapshot), &s)
	return s, err
}

// AffiliateClick is one journal row per redirect attempt, kept so the
// fail-open redirect does not swallow upstream failures silently.
type AffiliateClick struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LinkCode    string    `gorm:"index"                    json:"link_code"`
	Destination string    `json:"destination"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"user_agent"`
	Outcome     string    `gorm:"index;not null"           json:"outcome"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	ClickRedirected = "redirected"
	ClickFallback   = "fallback"
)
