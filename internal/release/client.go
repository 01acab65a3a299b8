package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public GitHub API endpoint
	DefaultBaseURL = "https://api.github.com"
	// DefaultTimeout bounds a single metadata request
	DefaultTimeout = 60 * time.Second
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "qbdifetch/1.0"

	maxErrorBody = 64 << 10
)

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("fetch release metadata: %s returned %s", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch release metadata: %s returned %s: %s", e.URL, e.Status, e.Body)
}

// Client fetches release metadata.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (GitHub Enterprise, test servers).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a release metadata client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReleaseURL builds the tag lookup endpoint for owner/repo.
func (c *Client) ReleaseURL(owner, repo, tag string) string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(tag))
}

// GetReleaseByTag fetches the release identified by tag. The request is made
// once; network failures, non-200 answers and malformed JSON are returned as
// errors. A release without an assets field yields an empty asset list.
func (c *Client) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}
	if tag == "" {
		return nil, fmt.Errorf("tag is required")
	}

	apiURL := c.ReleaseURL(owner, repo, tag)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release metadata: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			URL:        apiURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release JSON: %w", err)
	}
	if rel.Assets == nil {
		rel.Assets = []Asset{}
	}

	return &rel, nil
}
