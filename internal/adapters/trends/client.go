// internal/adapters/trends/client.go
package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"keywordgen/internal/common/logger"
)

var ErrTrendsFailed = errors.New("TRENDS_LOOKUP_FAILED")

// Config holds the settings for the trends API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// TrendData summarizes search interest for one keyword.
type TrendData struct {
	Keyword  string `json:"keyword"`
	Interest int    `json:"interest"`
	Rising   bool   `json:"rising"`
}

// Client fetches search interest trends for individual keywords.
type Client struct {
	config Config
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.With(map[string]interface{}{"adapter": "trends"}),
	}
}

// Analyze fetches interest-over-time data for one keyword in a region.
func (c *Client) Analyze(ctx context.Context, keyword, region string) (*TrendData, error) {
	endpoint := fmt.Sprintf("%s/v1/interest?q=%s&geo=%s", c.config.BaseURL, url.QueryEscape(keyword), url.QueryEscape(region))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrendsFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrendsFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTrendsFailed, resp.StatusCode)
	}

	var payload struct {
		Interest int  `json:"interest"`
		Rising   bool `json:"rising"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrTrendsFailed, err)
	}

	return &TrendData{Keyword: keyword, Interest: payload.Interest, Rising: payload.Rising}, nil
}
