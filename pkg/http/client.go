//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=client.go -destination=mock_client.go -package=http

// Package http is the HTTP surface of sketch. Callers depend on Client so tests can swap in the generated mock.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"

	errUtils "github.com/cloudposse/sketch/errors"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/retry"
)

const defaultTimeout = 30 * time.Second

// Client defines the interface for making HTTP requests.
type Client interface {
	// Do performs an HTTP request and returns the response.
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption is a functional option for configuring the DefaultClient.
type ClientOption func(*DefaultClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *DefaultClient) {
		c.client.Timeout = timeout
	}
}

// WithBearerToken authenticates requests sent to host.
func WithBearerToken(host, token string) ClientOption {
	return func(c *DefaultClient) {
		if token != "" {
			c.client.Transport = &AuthenticatedTransport{
				Base:  http.DefaultTransport,
				Host:  host,
				Token: token,
			}
		}
	}
}

// DefaultClient is the default HTTP client implementation.
type DefaultClient struct {
	client *http.Client
}

// NewDefaultClient creates a new DefaultClient with optional configuration.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// AuthenticatedTransport adds a bearer token to the requests sent to Host.
type AuthenticatedTransport struct {
	Base  http.RoundTripper
	Host  string
	Token string
}

// RoundTrip implements http.RoundTripper interface.
func (t *AuthenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Hostname() == t.Host && t.Token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("authenticated transport roundtrip: %w", err)
	}

	return resp, nil
}

// GetNpmTokenFromEnv checks SKETCH_NPM_TOKEN first, then falls back to NPM_TOKEN.
func GetNpmTokenFromEnv() string {
	if token := viper.GetString("SKETCH_NPM_TOKEN"); token != "" {
		return token
	}
	return viper.GetString("NPM_TOKEN")
}

// Do implements Client.Do.
func (c *DefaultClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Get performs an HTTP GET request with context using the provided client.
func Get(ctx context.Context, url string, client Client) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", errors.Join(errUtils.ErrHTTPRequestFailed, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", errors.Join(errUtils.ErrHTTPRequestFailed, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", errUtils.ErrHTTPRequestFailed, StatusError{StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", errors.Join(errUtils.ErrHTTPRequestFailed, err))
	}

	return body, nil
}

// GetWithRetry retries Get under config. Client errors (4xx) are not retried.
func GetWithRetry(ctx context.Context, url string, client Client, config *retry.Config) ([]byte, error) {
	var body []byte
	err := retry.WithPredicate(ctx, config, func() error {
		var err error
		body, err = Get(ctx, url, client)
		return err
	}, isRetryable)
	if err != nil {
		log.Debug("HTTP request failed", "url", url, "error", err)
		return nil, err
	}
	return body, nil
}

func isRetryable(err error) bool {
	var status StatusError
	if errors.As(err, &status) {
		return status.StatusCode == http.StatusTooManyRequests || status.StatusCode >= http.StatusInternalServerError
	}
	return true
}
