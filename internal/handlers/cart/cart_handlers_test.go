package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartstate "github.com/nhattin/storefront/internal/cart"
	"github.com/nhattin/storefront/internal/models"
	"github.com/nhattin/storefront/internal/mykafka"
	"github.com/nhattin/storefront/internal/notify"
	"github.com/nhattin/storefront/internal/session"
	"github.com/nhattin/storefront/internal/upstream"
)

// cartBackend is a minimal in-memory stand-in for the remote cart and
// product resources. Carts are keyed by bearer token, like the real backend.
type cartBackend struct {
	mu       sync.Mutex
	carts    map[string][]models.CartLine
	nextID   int
	products map[string]models.Product
}

func (b *cartBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/carts":
			lines := b.carts[tok]
			if lines == nil {
				lines = []models.CartLine{}
			}
			json.NewEncoder(w).Encode(lines)

		case r.Method == http.MethodPost && r.URL.Path == "/carts":
			var req struct {
				ProductID string `json:"product_id"`
				Quantity  int    `json:"quantity"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			product, ok := b.products[req.ProductID]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			b.nextID++
			line := models.CartLine{
				ID:        fmt.Sprintf("line-%d", b.nextID),
				ProductID: req.ProductID,
				Name:      product.Name,
				Quantity:  req.Quantity,
				UnitPrice: product.Price,
			}
			if b.carts == nil {
				b.carts = make(map[string][]models.CartLine)
			}
			b.carts[tok] = append(b.carts[tok], line)
			json.NewEncoder(w).Encode(line)

		case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/carts/"):
			id := strings.TrimPrefix(r.URL.Path, "/carts/")
			var req struct {
				Quantity int `json:"quantity"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			lines := b.carts[tok]
			for i := range lines {
				if lines[i].ID == id {
					lines[i].Quantity = req.Quantity
					json.NewEncoder(w).Encode(lines[i])
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/carts/"):
			id := strings.TrimPrefix(r.URL.Path, "/carts/")
			lines := b.carts[tok]
			for i := range lines {
				if lines[i].ID == id {
					b.carts[tok] = append(lines[:i], lines[i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/products/"):
			id := strings.TrimPrefix(r.URL.Path, "/products/")
			product, ok := b.products[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(product)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (b *cartBackend) userLines(tok string) []models.CartLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.CartLine(nil), b.carts[tok]...)
}

type cartResponse struct {
	Items      []models.CartLine `json:"items"`
	Total      decimal.Decimal   `json:"total"`
	TotalItems int               `json:"total_items"`
}

func newCartEnv(t *testing.T) (*CartHandler, *cartBackend, func()) {
	t.Helper()
	backend := &cartBackend{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Windows Key", Price: decimal.NewFromInt(10000)},
			"p2": {ID: "p2", Name: "Office Key", Price: decimal.NewFromInt(2500)},
		},
	}
	srv := httptest.NewServer(backend.handler())

	client := upstream.New(srv.URL, session.ContextTokens{})
	h := &CartHandler{
		Carts:    cartstate.NewRegistry(client, notify.NewBroker()),
		Products: client,
		Producer: &mykafka.Producer{},
	}
	return h, backend, srv.Close
}

var (
	userA = models.Session{ID: "sidA", Token: "tokA", User: models.UserProfile{ID: "uA"}}
	userB = models.Session{ID: "sidB", Token: "tokB", User: models.UserProfile{ID: "uB"}}
)

func userContext(t *testing.T, e *echo.Echo, s models.Session, method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(session.IntoContext(req.Context(), s))

	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func authedContext(t *testing.T, e *echo.Echo, method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	return userContext(t, e, userA, method, path, body)
}

func TestAddToCartTwiceMerges(t *testing.T) {
	h, _, done := newCartEnv(t)
	defer done()
	e := echo.New()

	for i := 0; i < 2; i++ {
		rec, c := authedContext(t, e, http.MethodPost, "/api/v1/cart", map[string]string{"product_id": "p1"})
		require.NoError(t, h.AddToCart(c))
		require.Equal(t, http.StatusOK, rec.Code)

		if i == 1 {
			var resp cartResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Len(t, resp.Items, 1)
			require.Equal(t, 2, resp.Items[0].Quantity)
			require.True(t, resp.Total.Equal(decimal.NewFromInt(20000)), "total = %s", resp.Total)
			require.Equal(t, 2, resp.TotalItems)
		}
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	h, _, done := newCartEnv(t)
	defer done()
	e := echo.New()

	_, c := authedContext(t, e, http.MethodPost, "/api/v1/cart", map[string]string{"product_id": "nope"})
	err := h.AddToCart(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestUpdateQuantityBelowOneKeepsState(t *testing.T) {
	h, backend, done := newCartEnv(t)
	defer done()
	e := echo.New()

	rec, c := authedContext(t, e, http.MethodPost, "/api/v1/cart", map[string]string{"product_id": "p1"})
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	lineID := backend.userLines(userA.Token)[0].ID

	rec, c = authedContext(t, e, http.MethodPatch, "/api/v1/cart/"+lineID, map[string]int{"quantity": 0})
	c.SetParamNames("id")
	c.SetParamValues(lineID)
	require.NoError(t, h.UpdateQuantity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, 1, resp.Items[0].Quantity)
	require.Equal(t, 1, backend.userLines(userA.Token)[0].Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	h, backend, done := newCartEnv(t)
	defer done()
	e := echo.New()

	_, c := authedContext(t, e, http.MethodPost, "/api/v1/cart", map[string]string{"product_id": "p2"})
	require.NoError(t, h.AddToCart(c))
	lineID := backend.userLines(userA.Token)[0].ID

	rec, c := authedContext(t, e, http.MethodDelete, "/api/v1/cart/"+lineID, nil)
	c.SetParamNames("id")
	c.SetParamValues(lineID)
	require.NoError(t, h.RemoveFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Items)
	require.True(t, resp.Total.IsZero())
}

func TestCartsOfDifferentSessionsStayApart(t *testing.T) {
	h, _, done := newCartEnv(t)
	defer done()
	e := echo.New()

	rec, c := userContext(t, e, userA, http.MethodPost, "/api/v1/cart", map[string]string{"product_id": "p1"})
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var respA cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respA))
	require.Len(t, respA.Items, 1)
	require.True(t, respA.Total.Equal(decimal.NewFromInt(10000)))

	// B reading an empty cart must not appear in A's responses
	rec, c = userContext(t, e, userB, http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, h.GetCart(c))
	var respB cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respB))
	require.Empty(t, respB.Items)
	require.True(t, respB.Total.IsZero())

	rec, c = userContext(t, e, userA, http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, h.GetCart(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respA))
	require.Len(t, respA.Items, 1)
	require.True(t, respA.Total.Equal(decimal.NewFromInt(10000)), "total = %s", respA.Total)
	require.Equal(t, 1, respA.TotalItems)
}
