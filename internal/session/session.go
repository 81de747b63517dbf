package session

import (
	"context"
	"errors"
	"time"

	"github.com/nhattin/storefront/internal/models"
)

var ErrNotFound = errors.New("session not found")

// DefaultTTL matches the upstream token lifetime; the store never checks
// expiry itself beyond letting the entry lapse.
const DefaultTTL = 7 * 24 * time.Hour

// Store is the port for session persistence so handlers and tests never
// touch redis directly.
type Store interface {
	Save(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (models.Session, error)
	Delete(ctx context.Context, id string) error
}

type ctxKey struct{}

func IntoContext(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(models.Session)
	return s, ok
}

// ContextTokens adapts the session in the request context to the upstream
// client's token source.
type ContextTokens struct{}

func (ContextTokens) Token(ctx context.Context) (string, bool) {
	s, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return s.Token, s.Token != ""
}
