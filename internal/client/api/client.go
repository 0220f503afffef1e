// Package api is the HTTP client for the bookreview API. Every call decodes
// the {code, message, data} envelope; a non-zero code comes back as *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 10 * time.Second

// Error is a business error returned by the server.
type Error struct {
	Status  int
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// IsCode reports whether err is an *Error carrying code.
func IsCode(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to one server. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token sent with every request. Empty disables it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends body as JSON and decodes the envelope data into out (may be nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decode response (status %d): %w", method, path, resp.StatusCode, err)
	}
	if env.Code != 0 {
		return &Error{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}

// ========== auth ==========

// Register creates an account and signs it in. The returned token is installed.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", nil, body, &s); err != nil {
		return nil, err
	}
	c.SetToken(s.AccessToken)
	return &s, nil
}

// Login signs in. The returned token is installed.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, body, &s); err != nil {
		return nil, err
	}
	c.SetToken(s.AccessToken)
	return &s, nil
}

// Refresh trades a refresh token for a new access token and installs it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, body, &out); err != nil {
		return "", err
	}
	c.SetToken(out.AccessToken)
	return out.AccessToken, nil
}

// Logout revokes the current session and drops the token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

// ========== books ==========

func (c *Client) ListBooks(ctx context.Context, q ListQuery) (*BookPage, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}

	var page BookPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/books", v, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AllBooks walks every page of the listing.
func (c *Client) AllBooks(ctx context.Context, q ListQuery) ([]Book, error) {
	q.Page = 1
	if q.PageSize == 0 {
		q.PageSize = 50
	}
	var out []Book
	for {
		page, err := c.ListBooks(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Books...)
		if page.Page >= page.TotalPages || len(page.Books) == 0 {
			return out, nil
		}
		q.Page++
	}
}

func (c *Client) GetBook(ctx context.Context, id string) (*BookDetail, error) {
	var d BookDetail
	if err := c.do(ctx, http.MethodGet, "/api/v1/books/"+url.PathEscape(id), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateBook(ctx context.Context, in BookInput) (*Book, error) {
	var b Book
	if err := c.do(ctx, http.MethodPost, "/api/v1/books", nil, in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBook(ctx context.Context, id string, patch BookPatch) (*Book, error) {
	var b Book
	if err := c.do(ctx, http.MethodPut, "/api/v1/books/"+url.PathEscape(id), nil, patch, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/books/"+url.PathEscape(id), nil, nil, nil)
}

// ========== reviews ==========

func (c *Client) AddReview(ctx context.Context, bookID string, rating int, comment string) (*ReviewResult, error) {
	var r ReviewResult
	body := map[string]interface{}{"book_id": bookID, "rating": rating, "comment": comment}
	if err := c.do(ctx, http.MethodPost, "/api/v1/reviews", nil, body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ========== profile ==========

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, avatar string) (*User, error) {
	var u User
	body := map[string]string{"name": name, "avatar": avatar}
	if err := c.do(ctx, http.MethodPut, "/api/v1/profile", nil, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
