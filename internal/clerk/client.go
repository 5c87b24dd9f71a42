package clerk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Clerk Backend API root.
const DefaultBaseURL = "https://api.clerk.com/v1"

// Client is a minimal Clerk Backend API client. The server only needs one
// call: writing public metadata back onto a provider user.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a Clerk API client authenticated with the given secret
// key.
func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		secretKey:  strings.TrimSpace(secretKey),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateUserMetadata merges the given values into the public metadata of the
// provider user.
func (c *Client) UpdateUserMetadata(ctx context.Context, clerkID string, public map[string]any) error {
	if c.secretKey == "" {
		return fmt.Errorf("clerk: secret key not configured")
	}
	if strings.TrimSpace(clerkID) == "" {
		return fmt.Errorf("clerk: empty user id")
	}

	payload, err := json.Marshal(map[string]any{"public_metadata": public})
	if err != nil {
		return fmt.Errorf("clerk: encode metadata: %w", err)
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(clerkID) + "/metadata"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("clerk: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("clerk: update metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("clerk: update metadata: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// LinkUser records the internal user ID on the provider side so client
// sessions can resolve the local record without a lookup. Satisfies
// users.MetadataLinker.
func (c *Client) LinkUser(ctx context.Context, clerkID, userID string) error {
	return c.UpdateUserMetadata(ctx, clerkID, map[string]any{"userId": userID})
}
