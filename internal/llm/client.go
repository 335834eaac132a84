// internal/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/common/retry"
)

var (
	ErrGenerateFailed = errors.New("LLM_GENERATE_FAILED")
	ErrTimeout        = errors.New("LLM_TIMEOUT")
	ErrEmptyResponse  = errors.New("LLM_EMPTY_RESPONSE")
)

// GenerateOptions tunes a single text-generation call.
type GenerateOptions struct {
	Temperature float64
	// JSONMode asks the model to emit a bare JSON document. Callers must
	// still tolerate markdown fences around the payload.
	JSONMode bool
}

// Client is the narrow text-generation interface every pipeline stage talks
// to. Implementations may fail or return malformed output; callers own the
// degradation policy.
type Client interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Config holds the settings for the HTTP client.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// HTTPClient calls a Gemini-style generateContent REST endpoint.
type HTTPClient struct {
	config Config
	client *http.Client
	logger logger.Logger
}

func NewHTTPClient(cfg Config, log logger.Logger) *HTTPClient {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &HTTPClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.With(map[string]interface{}{"component": "llm"}),
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate issues one generation call, retrying transient failures with
// exponential backoff before giving up.
func (c *HTTPClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	genCfg := &generationConfig{Temperature: opts.Temperature}
	if opts.JSONMode {
		genCfg.ResponseMimeType = "application/json"
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: genCfg,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.config.BaseURL, c.config.Model)

	var text string
	err = retry.Do(ctx, c.config.MaxRetries, c.config.RetryDelay, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGenerateFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("x-goog-api-key", c.config.APIKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGenerateFailed, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("%w: status %d", ErrGenerateFailed, resp.StatusCode)
		}

		var apiResponse generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
			return fmt.Errorf("%w: decode error: %v", ErrGenerateFailed, err)
		}
		if len(apiResponse.Candidates) == 0 || len(apiResponse.Candidates[0].Content.Parts) == 0 {
			return ErrEmptyResponse
		}

		text = apiResponse.Candidates[0].Content.Parts[0].Text
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", err
	}

	return text, nil
}
