package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"raffleScope/internal/normalize"
)

// DefaultTimeout bounds node API requests.
const DefaultTimeout = 15 * time.Second

// Client wraps the chain node REST API and provides resource read helpers.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a node API client from the base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// coinStoreResource is the shape of a legacy coin store resource.
type coinStoreResource struct {
	Data struct {
		Coin struct {
			Value string `json:"value"`
		} `json:"coin"`
	} `json:"data"`
}

// AccountResource reads an account resource by exact resource type string.
// Returns ok=false when the account does not hold the resource.
func (c *Client) AccountResource(ctx context.Context, address, resourceType string) (json.RawMessage, bool, error) {
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/resource/%s",
		c.baseURL, url.PathEscape(address), url.PathEscape(resourceType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode >= 400 {
		return nil, false, fmt.Errorf("node api %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return body, true, nil
}

// CoinBalance reads the legacy coin store balance for an account in base
// units. An account without a coin store reads as zero.
func (c *Client) CoinBalance(ctx context.Context, address, coinType string) (*big.Int, error) {
	resourceType := fmt.Sprintf("0x1::coin::CoinStore<%s>", coinType)

	body, ok, err := c.AccountResource(ctx, address, resourceType)
	if err != nil {
		return nil, fmt.Errorf("coin balance: %w", err)
	}
	if !ok {
		return big.NewInt(0), nil
	}

	var resource coinStoreResource
	if err := json.Unmarshal(body, &resource); err != nil {
		return nil, fmt.Errorf("coin balance: decode resource: %w", err)
	}
	amount, err := normalize.ParseBaseUnits(resource.Data.Coin.Value)
	if err != nil {
		return nil, fmt.Errorf("coin balance: %w", err)
	}
	return amount, nil
}
