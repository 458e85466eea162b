// Package api is the client for the backend that serves commit and diff JSON.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kilupskalvis/commitview/internal/models"
)

// Fetcher defines the contract for loading a commit and its diff.
type Fetcher interface {
	GetCommit(ctx context.Context, id models.CommitIdentity) (*models.CommitDetail, error)
	GetDiff(ctx context.Context, id models.CommitIdentity) (*models.DiffPayload, error)
}

// maxErrorBody bounds how much of a failed response is kept for logging.
const maxErrorBody = 4 << 10

// HTTPClient implements Fetcher over HTTP.
type HTTPClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// NewHTTPClient creates an HTTP-based API client.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) commitURL(id models.CommitIdentity, suffix string) string {
	return fmt.Sprintf("%s/repositories/%s/%s/commits/%s%s",
		c.baseURL,
		url.PathEscape(id.Owner),
		url.PathEscape(id.Repository),
		url.PathEscape(id.CommitSHA),
		suffix,
	)
}

func (c *HTTPClient) getJSON(ctx context.Context, rawURL string, respBody interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetCommit fetches the commit metadata.
func (c *HTTPClient) GetCommit(ctx context.Context, id models.CommitIdentity) (*models.CommitDetail, error) {
	var commit models.CommitDetail
	if err := c.getJSON(ctx, c.commitURL(id, ""), &commit); err != nil {
		return nil, fmt.Errorf("get commit %s: %w", id, err)
	}
	return &commit, nil
}

// GetDiff fetches the file-level diff.
func (c *HTTPClient) GetDiff(ctx context.Context, id models.CommitIdentity) (*models.DiffPayload, error) {
	var diff models.DiffPayload
	if err := c.getJSON(ctx, c.commitURL(id, "/diff"), &diff); err != nil {
		return nil, fmt.Errorf("get diff %s: %w", id, err)
	}
	return &diff, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status int
	URL    string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d from %s", e.Status, e.URL)
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.Status, e.URL, e.Body)
}

func decodeError(resp *http.Response, rawURL string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Status: resp.StatusCode,
		URL:    rawURL,
		Body:   strings.TrimSpace(string(body)),
	}
}
