package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/nhattin/storefront/internal/models"
)

type ProductPage struct {
	Items []models.Product `json:"data"`
	Total int64            `json:"total"`
}

func (c *Client) ListProducts(ctx context.Context, from, limit int) (ProductPage, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(from))
	q.Set("limit", strconv.Itoa(limit))

	var page ProductPage
	err := c.do(ctx, http.MethodGet, "/products", q, nil, nil, &page)
	return page, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, nil, &p)
	return p, err
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	CategoryID  string          `json:"category_id"`
	Stock       int             `json:"stock"`
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodPost, "/products", nil, nil, in, &p)
	return p, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodPatch, "/products/"+url.PathEscape(id), nil, nil, in, &p)
	return p, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.do(ctx, http.MethodGet, "/categories", nil, nil, nil, &out)
	return out, err
}

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	err := c.do(ctx, http.MethodGet, "/posts", nil, nil, nil, &out)
	return out, err
}

func (c *Client) GetPost(ctx context.Context, slug string) (models.Post, error) {
	var p models.Post
	err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(slug), nil, nil, nil, &p)
	return p, err
}

func (c *Client) ListSubscriptionTypes(ctx context.Context) ([]models.SubscriptionType, error) {
	var out []models.SubscriptionType
	err := c.do(ctx, http.MethodGet, "/subscription-types", nil, nil, nil, &out)
	return out, err
}

func (c *Client) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	var out []models.Discount
	err := c.do(ctx, http.MethodGet, "/discounts", nil, nil, nil, &out)
	return out, err
}

type DiscountInput struct {
	Code        string          `json:"code"`
	Percent     int             `json:"percent"`
	MaxAmount   decimal.Decimal `json:"max_amount"`
	Description string          `json:"description"`
	StartsAt    string          `json:"starts_at"`
	EndsAt      string          `json:"ends_at"`
}

func (c *Client) CreateDiscount(ctx context.Context, in DiscountInput) (models.Discount, error) {
	var d models.Discount
	err := c.do(ctx, http.MethodPost, "/discounts", nil, nil, in, &d)
	return d, err
}

func (c *Client) UpdateDiscount(ctx context.Context, id string, in DiscountInput) (models.Discount, error) {
	var d models.Discount
	err := c.do(ctx, http.MethodPatch, "/discounts/"+url.PathEscape(id), nil, nil, in, &d)
	return d, err
}

func (c *Client) DeleteDiscount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/discounts/"+url.PathEscape(id), nil, nil, nil, nil)
}

type LoginResult struct {
	Token string             `json:"access_token"`
	User  models.UserProfile `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, nil, body, &res)
	return res, err
}

func (c *Client) ListCart(ctx context.Context) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := c.do(ctx, http.MethodGet, "/carts", nil, nil, nil, &lines)
	return lines, err
}

func (c *Client) CreateCartLine(ctx context.Context, productID string, quantity int, idemKey string) (models.CartLine, error) {
	header := http.Header{}
	if idemKey != "" {
		header.Set("Idempotency-Key", idemKey)
	}
	body := map[string]any{"product_id": productID, "quantity": quantity}
	var line models.CartLine
	err := c.do(ctx, http.MethodPost, "/carts", nil, header, body, &line)
	return line, err
}

func (c *Client) UpdateCartLine(ctx context.Context, lineID string, quantity int) (models.CartLine, error) {
	body := map[string]any{"quantity": quantity}
	var line models.CartLine
	err := c.do(ctx, http.MethodPatch, "/carts/"+url.PathEscape(lineID), nil, nil, body, &line)
	return line, err
}

func (c *Client) DeleteCartLine(ctx context.Context, lineID string) error {
	return c.do(ctx, http.MethodDelete, "/carts/"+url.PathEscape(lineID), nil, nil, nil, nil)
}

type PaymentInput struct {
	Amount decimal.Decimal       `json:"amount"`
	Items  []models.SnapshotItem `json:"items"`
}

type RemotePayment struct {
	ID      string               `json:"id"`
	OrderID string               `json:"order_id"`
	Status  models.PaymentStatus `json:"status"`
	Amount  decimal.Decimal      `json:"amount"`
}

func (c *Client) CreatePayment(ctx context.Context, in PaymentInput) (RemotePayment, error) {
	var p RemotePayment
	err := c.do(ctx, http.MethodPost, "/payments", nil, nil, in, &p)
	return p, err
}

func (c *Client) GetPayment(ctx context.Context, id string) (RemotePayment, error) {
	var p RemotePayment
	err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(id), nil, nil, nil, &p)
	return p, err
}

// ResolveAffiliate asks the backend where a link code points, forwarding the
// original client's address and user agent for attribution. Redirects are not
// followed; the backend's Location header is the answer.
func (c *Client) ResolveAffiliate(ctx context.Context, code, clientIP, userAgent string) (string, error) {
	u := c.baseURL + "/affiliates/redirect/" + url.PathEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", networkError(err)
	}
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.noFollow.Do(req)
	if err != nil {
		return "", networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", decodeError(resp)
	}

	if loc := resp.Header.Get("Location"); loc != "" {
		return loc, nil
	}
	return "/", nil
}
