// internal/adapters/autocomplete/client.go
package autocomplete

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"keywordgen/internal/common/cache"
	"keywordgen/internal/common/logger"
	"keywordgen/internal/models"
)

var ErrSuggestFailed = errors.New("AUTOCOMPLETE_FAILED")

// Question prefixes expanded around a seed to pull question-form
// suggestions.
var questionPrefixes = []string{"how", "what", "why", "can", "should"}

// Config holds the settings for the suggest API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Suggestions is the structured result for one seed keyword.
type Suggestions struct {
	Seed             string   `json:"seed"`
	Suggestions      []string `json:"suggestions"`
	QuestionKeywords []string `json:"question_keywords"`
	LongTailKeywords []string `json:"long_tail_keywords"`
}

// Client fetches search-box autocomplete suggestions. Responses are memoized
// in the cache when one is configured, since the same seeds recur across
// runs for the same company.
type Client struct {
	config Config
	client *http.Client
	cache  cache.Cache
	logger logger.Logger
}

// NewClient creates a suggest client. store may be nil to disable
// memoization.
func NewClient(cfg Config, store cache.Cache, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  store,
		logger: log.With(map[string]interface{}{"adapter": "autocomplete"}),
	}
}

// Suggest fetches suggestions for one seed keyword plus its question-prefix
// expansions.
func (c *Client) Suggest(ctx context.Context, seed string) (*Suggestions, error) {
	seed = models.Normalize(seed)
	if seed == "" {
		return nil, fmt.Errorf("%w: empty seed", ErrSuggestFailed)
	}

	cacheKey := cache.Key("autocomplete", seed)
	if c.cache != nil {
		var cached Suggestions
		if err := c.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	base, err := c.fetch(ctx, seed)
	if err != nil {
		return nil, err
	}

	result := &Suggestions{Seed: seed, Suggestions: base}
	for _, s := range base {
		if len(strings.Fields(s)) >= 4 {
			result.LongTailKeywords = append(result.LongTailKeywords, s)
		}
	}

	// Question expansions are best-effort; a failed prefix just contributes
	// nothing.
	seen := make(map[string]struct{})
	for _, prefix := range questionPrefixes {
		expansions, err := c.fetch(ctx, prefix+" "+seed)
		if err != nil {
			continue
		}
		for _, s := range expansions {
			norm := models.Normalize(s)
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			result.QuestionKeywords = append(result.QuestionKeywords, s)
		}
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, cacheKey, result); err != nil {
			c.logger.WithError(err).Debug("cache write failed", map[string]interface{}{"seed": seed})
		}
	}

	return result, nil
}

// fetch calls the suggest endpoint, which answers in the search-box wire
// format: a two-element array of the echoed query and the suggestion list.
func (c *Client) fetch(ctx context.Context, query string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/complete/search?client=chrome&q=%s", c.config.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuggestFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuggestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSuggestFailed, resp.StatusCode)
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrSuggestFailed, err)
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("%w: unexpected payload shape", ErrSuggestFailed)
	}

	var suggestions []string
	if err := json.Unmarshal(payload[1], &suggestions); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrSuggestFailed, err)
	}
	return suggestions, nil
}
