// internal/adapters/volume/client.go
package volume

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/models"
)

var ErrVolumeLookupFailed = errors.New("VOLUME_LOOKUP_FAILED")

// Config holds the settings for the keyword data API.
type Config struct {
	BaseURL string
	Login   string
	APIKey  string
	Timeout time.Duration
}

// Data carries the metrics returned per keyword.
type Data struct {
	Volume     int `json:"volume"`
	Difficulty int `json:"difficulty"`
}

// Client looks up real search volumes and difficulty in batch.
type Client struct {
	config Config
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.With(map[string]interface{}{"adapter": "volume"}),
	}
}

// Lookup fetches volume data for a batch of keywords. The result is keyed by
// normalized keyword text so callers can match records regardless of case.
func (c *Client) Lookup(ctx context.Context, keywords []string, region string) (map[string]Data, error) {
	if len(keywords) == 0 {
		return map[string]Data{}, nil
	}

	body, _ := json.Marshal(map[string]interface{}{
		"keywords":      keywords,
		"location_code": region,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v3/keywords_data/search_volume/live", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVolumeLookupFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.Login, c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVolumeLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrVolumeLookupFailed, resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			Keyword    string `json:"keyword"`
			Volume     int    `json:"search_volume"`
			Difficulty int    `json:"difficulty"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrVolumeLookupFailed, err)
	}

	data := make(map[string]Data, len(payload.Results))
	for _, r := range payload.Results {
		data[models.Normalize(r.Keyword)] = Data{Volume: r.Volume, Difficulty: r.Difficulty}
	}

	c.logger.Info("volume lookup completed", map[string]interface{}{
		"requested": len(keywords),
		"returned":  len(data),
	})
	return data, nil
}
