// Package client is the typed HTTP client for the orgdesk admin API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stwalsh4118/orgdesk/internal/config"
	"github.com/stwalsh4118/orgdesk/internal/logger"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// CredentialProvider supplies the bearer token attached to every request.
// An empty token sends no Authorization header.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a CredentialProvider that always returns the same token.
type StaticToken string

// Token implements CredentialProvider.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api/v1".
	BaseURL string

	// Credentials is consulted before every request. Defaults to no auth.
	Credentials CredentialProvider

	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client
	Timeout    time.Duration

	// CacheTTL is the staleness window of cached list reads. Zero disables caching.
	CacheTTL time.Duration

	Logger *logger.Logger
}

// Client talks to the admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialProvider
	cache      *Cache
	log        *logger.Logger
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	creds := cfg.Credentials
	if creds == nil {
		creds = StaticToken("")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		creds:      creds,
		cache:      NewCache(cfg.CacheTTL),
		log:        log,
	}, nil
}

// FromConfig creates a Client from environment-derived settings.
func FromConfig(cfg *config.ClientConfig, log *logger.Logger) (*Client, error) {
	return New(Config{
		BaseURL:     cfg.BaseURL,
		Credentials: StaticToken(cfg.Token),
		Timeout:     cfg.Timeout,
		CacheTTL:    cfg.CacheTTL,
		Logger:      log,
	})
}

// Cache returns the query cache shared by the client's list reads.
func (c *Client) Cache() *Cache { return c.cache }

// do executes an authenticated request. A non-nil body is JSON-encoded and
// a non-nil result is decoded from a 2xx response. Non-2xx responses are
// returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("client: credentials: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("client: reading response body: %w", err)
	}

	c.log.Debug("API call", map[string]interface{}{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, data)
	}
	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("client: decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Details    map[string]interface{}
	Code       string
	Message    string
	RequestID  string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// parseAPIError decodes {"error":{code,message,details,request_id}}.
// Bodies that are not an envelope keep their text as the message.
func parseAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Error struct {
			Details   map[string]interface{} `json:"details"`
			Code      string                 `json:"code"`
			Message   string                 `json:"message"`
			RequestID string                 `json:"request_id"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
		apiErr.RequestID = envelope.Error.RequestID
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// IsRelationConflict reports whether err is a delete blocked by references.
func IsRelationConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict && apiErr.Code == "HAS_RELATION"
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a server-side validation failure.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "VALIDATION_ERROR"
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
