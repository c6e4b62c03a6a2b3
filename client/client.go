// Package client provides the HTTP client for the remote recording service.
// It handles authentication, timeouts, and retry logic; callers receive
// decoded domain values and treat any failure as a query-level error.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	pkgerrors "github.com/recallhq/recall-cli/pkg/errors"
	"github.com/recallhq/recall-cli/pkg/logging"
	"github.com/recallhq/recall-cli/pkg/recordings"
)

// Default client settings.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 100 * time.Millisecond
	DefaultMaxBackoff        = 5 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Options configures the Client behavior.
type Options struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for retryable
	// failures (connection errors and 5xx responses).
	MaxRetries int

	// InitialBackoff is the initial backoff duration for retries.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration for retries.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64

	// Token is the bearer token sent with every request.
	Token string

	// Logger receives request diagnostics. Defaults to a nop logger.
	Logger logging.Logger
}

// DefaultOptions returns Options with default values.
func DefaultOptions() *Options {
	return &Options{
		Timeout:           DefaultTimeout,
		MaxRetries:        DefaultMaxRetries,
		InitialBackoff:    DefaultInitialBackoff,
		MaxBackoff:        DefaultMaxBackoff,
		BackoffMultiplier: DefaultBackoffMultiplier,
	}
}

// Client talks to the remote recording service.
type Client struct {
	baseURL string
	http    *http.Client
	options *Options
	logger  logging.Logger
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: opts.Timeout},
		options: opts,
		logger:  logger.With(logging.F("component", "api_client")),
	}
}

// listResponse is the service's envelope for category list endpoints.
type listResponse struct {
	Data []recordings.Category `json:"data"`
}

// recordingsResponse is the service's envelope for a user's recording rows.
type recordingsResponse struct {
	Data []recordings.RawDetail `json:"data"`
}

// FetchCategorizedMeetings returns the user's meetings grouped into
// categories, each carrying up to limit meetings.
func (c *Client) FetchCategorizedMeetings(ctx context.Context, limit int) ([]recordings.Category, error) {
	var resp listResponse
	query := url.Values{"num_meetings": {strconv.Itoa(limit)}}
	if err := c.getJSON(ctx, "/categories-with-meetings/", query, &resp); err != nil {
		return nil, fmt.Errorf("fetching categorized meetings: %w", err)
	}
	return resp.Data, nil
}

// FetchUncategorizedMeetings returns meetings not assigned to any category,
// conventionally wrapped in a single pseudo-category.
func (c *Client) FetchUncategorizedMeetings(ctx context.Context, limit int) ([]recordings.Category, error) {
	var resp listResponse
	query := url.Values{"num_meetings": {strconv.Itoa(limit)}}
	if err := c.getJSON(ctx, "/uncategorized-meetings/", query, &resp); err != nil {
		return nil, fmt.Errorf("fetching uncategorized meetings: %w", err)
	}
	return resp.Data, nil
}

// FetchUserRecordings returns the full recording rows for a user, used by
// the sync orchestrator to refresh the local cache.
func (c *Client) FetchUserRecordings(ctx context.Context, userID string) ([]recordings.RawDetail, error) {
	var resp recordingsResponse
	query := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/user-meetings/", query, &resp); err != nil {
		return nil, fmt.Errorf("fetching user recordings: %w", err)
	}
	return resp.Data, nil
}

// getJSON performs a GET with retry and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	backoff := c.options.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= c.options.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("request cancelled during backoff: %w", ctx.Err())
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * c.options.BackoffMultiplier)
			if backoff > c.options.MaxBackoff {
				backoff = c.options.MaxBackoff
			}
		}

		retryable, err := c.tryGetJSON(ctx, u, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
		c.logger.Debug("request failed, retrying",
			logging.F("url", u),
			logging.F("attempt", attempt+1),
			logging.Err(err))
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.options.MaxRetries+1, lastErr)
}

// tryGetJSON performs a single GET attempt. The first return value reports
// whether the failure is worth retrying.
func (c *Client) tryGetJSON(ctx context.Context, u string, out interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.options.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.options.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("%w: %v", pkgerrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, fmt.Errorf("%w: status %d", pkgerrors.ErrNotAuthenticated, resp.StatusCode)
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("%w: status %d", pkgerrors.ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("decoding response: %w", err)
	}
	return false, nil
}
