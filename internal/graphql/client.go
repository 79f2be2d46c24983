package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
)

// maxErrorBody caps how much of a non-2xx response body is kept in StatusError.
const maxErrorBody = 2048

// Client executes GraphQL operations against a single endpoint with a bearer token.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	endpoint    string
	apiKey      string
	userAgent   string
	httpClient  *http.Client
	marshalFunc func(v any) ([]byte, error) // for testing
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled default client. Nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient returns a Client for endpoint authenticating with apiKey.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		httpClient:  cleanhttp.DefaultPooledClient(),
		marshalFunc: json.Marshal,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the upstream URL.
func (c *Client) Endpoint() string { return c.endpoint }

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors"`
}

// Execute posts req and returns the response's data member. Non-2xx statuses
// yield *StatusError; a non-empty errors array yields Errors even when partial
// data is present.
func (c *Client) Execute(ctx context.Context, req domain.GraphQLRequest) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := c.marshalFunc(req)
	if err != nil {
		return nil, fmt.Errorf("graphql marshal: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("graphql request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("graphql do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("graphql read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp, body)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("graphql decode: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, out.Errors
	}
	if len(out.Data) == 0 {
		return json.RawMessage("null"), nil
	}
	return out.Data, nil
}

// =============================================================================
// Errors
// =============================================================================

// StatusError reports a non-2xx HTTP response from the endpoint.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func newStatusError(resp *http.Response, body []byte) *StatusError {
	b := strings.TrimSpace(string(body))
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody] + "..."
	}
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return &StatusError{StatusCode: resp.StatusCode, Status: status, Body: b}
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return e.Status
	}
	return e.Status + ": " + e.Body
}

// Error is one entry of a GraphQL errors array.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Errors is a non-empty GraphQL errors array returned with a 2xx status.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, item := range e {
		if item.Message != "" {
			msgs = append(msgs, item.Message)
		}
	}
	if len(msgs) == 0 {
		return "graphql: request failed with unspecified errors"
	}
	return strings.Join(msgs, "; ")
}

var _ domain.GraphQLExecutor = (*Client)(nil)
