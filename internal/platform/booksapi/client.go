package booksapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"bookshelf/internal/book"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	BooksPath = "/books"
	StatsPath = "/books/stats"

	defaultUserAgent = "bookshelf/1.0"
)

// RequestError is returned for every non-2xx response.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Page is one page of a list call.
type Page struct {
	Items []book.Book
	Total int
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests per second; rps <= 0 disables the cap.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
		baseURL:   strings.TrimRight(baseURL, "/"),
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches path with the given query parameters. Empty parameters are
// not sent. The total comes from the X-Total-Count header.
func (c *Client) List(ctx context.Context, path string, params map[string]string) (Page, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return Page{}, fmt.Errorf("build list url: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var items []book.Book
	header, err := c.do(ctx, http.MethodGet, u.String(), nil, &items)
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []book.Book{}
	}

	total, err := strconv.Atoi(header.Get(book.TotalCountHeader))
	if err != nil {
		total = 0
	}
	return Page{Items: items, Total: total}, nil
}

// ListBooks is List against the books collection.
func (c *Client) ListBooks(ctx context.Context, q book.Query) (Page, error) {
	return c.List(ctx, BooksPath, q.Params())
}

func (c *Client) Create(ctx context.Context, in book.Input) (book.Book, error) {
	var out book.Book
	if _, err := c.do(ctx, http.MethodPost, c.baseURL+BooksPath, in, &out); err != nil {
		return book.Book{}, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, id int64, p book.Patch) (book.Book, error) {
	var out book.Book
	if _, err := c.do(ctx, http.MethodPut, c.bookURL(id), p, &out); err != nil {
		return book.Book{}, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, c.bookURL(id), nil, nil)
	return err
}

func (c *Client) Stats(ctx context.Context) (book.Stats, error) {
	var out book.Stats
	if _, err := c.do(ctx, http.MethodGet, c.baseURL+StatsPath, nil, &out); err != nil {
		return book.Stats{}, err
	}
	return out, nil
}

func (c *Client) bookURL(id int64) string {
	return c.baseURL + BooksPath + "/" + strconv.FormatInt(id, 10)
}

// do performs a single request. A nil target skips decoding the body.
func (c *Client) do(ctx context.Context, method, url string, payload, target interface{}) (http.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", method, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if target == nil {
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	return resp.Header, nil
}
