package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://dolarapi.com/v1/dolares"
	defaultTimeout = 10 * time.Second
	userAgent      = "ratewatch/1.0"
)

// Client fetches current quotes from DolarAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a DolarAPI client. An empty baseURL selects the public
// endpoint. The request timeout is bounded; a slow source surfaces as an
// ordinary fetch error.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
	}
}

// Fetch retrieves the current quote set. It returns an error on transport
// failures, non-200 responses, malformed payloads, and empty payloads.
func (c *Client) Fetch(ctx context.Context) ([]Quote, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote source request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote source returned status %d", resp.StatusCode)
	}

	var quotes []Quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("failed to decode quote payload: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("quote source returned no quotes")
	}

	return quotes, nil
}
