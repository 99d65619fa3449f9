// Package api is the HTTP client for the school-management backend.
//
// Response bodies are treated as opaque envelopes; callers extract record
// lists through the envelope package using each entity's declared candidate
// paths. The bearer token is owned by the session controller, which calls
// SetToken/ClearToken so the stored token and the outgoing Authorization
// header can never drift.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/campuskit/campusctl/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Client performs authenticated JSON requests against the backend.
type Client struct {
	baseURL string
	base    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger

	mu    sync.Mutex
	token string
	http  *http.Client
}

// NewClient creates a Client for the given base URL. The HTTP client defaults
// to [http.DefaultClient]; rps caps outgoing requests per second and defaults
// to 5 when non-positive.
func NewClient(baseURL string, hc *http.Client, rps float64, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000/api"
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	if rps <= 0 {
		rps = 5.0
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL: baseURL,
		base:    hc,
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// SetToken configures all subsequent requests to carry the bearer token.
func (c *Client) SetToken(token string) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.http = oauth2.NewClient(ctx, src)
}

// ClearToken removes the bearer token from subsequent requests.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.http = c.base
}

// Token returns the currently configured bearer token, empty when cleared.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Envelope is a raw backend response: status plus unparsed body.
type Envelope struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carried a success status.
func (e *Envelope) OK() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

// ErrorMessage extracts the best human-readable failure text from the body,
// in priority order: the "message" field, the "error" field, then fallback.
func (e *Envelope) ErrorMessage(fallback string) string {
	if e != nil {
		if msg := gjson.GetBytes(e.Body, "message"); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
		if msg := gjson.GetBytes(e.Body, "error"); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
	}
	return fallback
}

// SuccessMessage returns the server-provided "message" field when present,
// falling back to the given default. Mutation toasts carry this text.
func (e *Envelope) SuccessMessage(fallback string) string {
	if e != nil {
		if msg := gjson.GetBytes(e.Body, "message"); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
	}
	return fallback
}

// do performs a rate-limited JSON request and returns the raw envelope.
// Non-success statuses are returned in the envelope, not as errors; an error
// means the request never produced a response.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*Envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.Lock()
	hc := c.http
	c.mu.Unlock()

	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Errorf("request %s %s failed (id %s): %v", method, path, requestID, err)
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransport, err)
	}

	return &Envelope{StatusCode: resp.StatusCode, Body: data}, nil
}

// Authenticate exchanges credentials for a {token, user} envelope.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// List fetches the entity's collection endpoint.
func (c *Client) List(ctx context.Context, d Descriptor) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, d.Path, nil)
}

// Create posts a new record to the entity's collection endpoint.
func (c *Client) Create(ctx context.Context, d Descriptor, payload any) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, d.Path, payload)
}

// Update replaces the record with the given id.
func (c *Client) Update(ctx context.Context, d Descriptor, id string, payload any) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, d.Path+"/"+id, payload)
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, d Descriptor, id string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, d.Path+"/"+id, nil)
}
