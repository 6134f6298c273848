package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"raffleScope/internal/model"
)

// DefaultTimeout bounds backend API requests. The backend is a cache in
// front of the indexer, so slow responses are worth abandoning early.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx or unsuccessful response from the backend API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the optional backend cache API. All methods return an error
// on any non-success outcome; callers are expected to fall back to direct
// indexer queries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a backend API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: "success=false"}
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// RaffleActivity returns cached activity for one raffle.
func (c *Client) RaffleActivity(ctx context.Context, raffleID uint64) ([]model.Activity, error) {
	var out []model.Activity
	err := c.get(ctx, "/api/activity/raffle/"+strconv.FormatUint(raffleID, 10), nil, &out)
	return out, err
}

// GlobalActivity returns cached activity across all raffles.
func (c *Client) GlobalActivity(ctx context.Context) ([]model.Activity, error) {
	var out []model.Activity
	err := c.get(ctx, "/api/activity/global", nil, &out)
	return out, err
}

// UserActivity returns cached activity for one address.
func (c *Client) UserActivity(ctx context.Context, address string) ([]model.Activity, error) {
	var out []model.Activity
	err := c.get(ctx, "/api/activity/user/"+url.PathEscape(address), nil, &out)
	return out, err
}

// RaffleLeaderboard returns the cached leaderboard for one raffle.
func (c *Client) RaffleLeaderboard(ctx context.Context, raffleID uint64, limit int) ([]model.LeaderboardEntry, error) {
	var out []model.LeaderboardEntry
	err := c.get(ctx, "/api/leaderboard/raffle/"+strconv.FormatUint(raffleID, 10), limitQuery(limit), &out)
	return out, err
}

// GlobalLeaderboard returns the cached global leaderboard.
func (c *Client) GlobalLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	var out []model.LeaderboardEntry
	err := c.get(ctx, "/api/leaderboard/global", limitQuery(limit), &out)
	return out, err
}

// RaffleStats returns cached stats for one raffle.
func (c *Client) RaffleStats(ctx context.Context, raffleID uint64) (model.RaffleStats, error) {
	var out model.RaffleStats
	err := c.get(ctx, "/api/stats/raffle/"+strconv.FormatUint(raffleID, 10), nil, &out)
	return out, err
}

// PlatformStats returns cached platform-wide stats.
func (c *Client) PlatformStats(ctx context.Context) (model.RaffleStats, error) {
	var out model.RaffleStats
	err := c.get(ctx, "/api/stats/platform", nil, &out)
	return out, err
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}
