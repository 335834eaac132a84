// internal/adapters/gaps/analyzer.go
package gaps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/models"
)

var ErrGapAnalysisFailed = errors.New("GAP_ANALYSIS_FAILED")

// Competitor keyword data is expensive to pull, so at most this many
// competitor domains go into one analysis.
const maxCompetitors = 3

// Config holds the settings for the gap analysis API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Analyzer finds keywords competitors rank for that the target domain does
// not. Records come back with an external AEO score that seeds Score until
// the scoring stage overwrites it.
type Analyzer struct {
	config Config
	client *http.Client
	logger logger.Logger
}

func NewAnalyzer(cfg Config, log logger.Logger) *Analyzer {
	return &Analyzer{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.With(map[string]interface{}{"adapter": "gap_analysis"}),
	}
}

type gapResponse struct {
	Keywords []struct {
		Keyword    string `json:"keyword"`
		Intent     string `json:"intent"`
		Volume     int    `json:"volume"`
		Difficulty int    `json:"difficulty"`
		AEOScore   int    `json:"aeo_score"`
	} `json:"keywords"`
}

// AnalyzeGaps runs a content gap analysis for the domain against its
// competitors in the given region.
func (a *Analyzer) AnalyzeGaps(ctx context.Context, domain string, competitors []string, region string) ([]models.Keyword, error) {
	if len(competitors) > maxCompetitors {
		competitors = competitors[:maxCompetitors]
	}

	body, _ := json.Marshal(map[string]interface{}{
		"domain":      domain,
		"competitors": competitors,
		"source":      region,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+"/v1/gap-analysis", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGapAnalysisFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+a.config.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGapAnalysisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrGapAnalysisFailed, resp.StatusCode)
	}

	var payload gapResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrGapAnalysisFailed, err)
	}

	keywords := make([]models.Keyword, 0, len(payload.Keywords))
	for _, gap := range payload.Keywords {
		text := strings.TrimSpace(gap.Keyword)
		if text == "" {
			continue
		}
		isQuestion := gap.Intent == models.IntentQuestion
		kw := models.Keyword{
			Text:       text,
			Intent:     models.ParseIntent(gap.Intent, isQuestion),
			IsQuestion: isQuestion,
			Score:      gap.AEOScore,
			Source:     models.SourceGapAnalysis,
			Volume:     gap.Volume,
			Difficulty: gap.Difficulty,
		}
		if kw.Difficulty == 0 {
			kw.Difficulty = 50
		}
		keywords = append(keywords, kw)
	}

	a.logger.Info("gap analysis completed", map[string]interface{}{
		"domain":   domain,
		"keywords": len(keywords),
	})
	return keywords, nil
}

// ExtractDomain reduces a URL to its bare host for the gap analysis API.
func ExtractDomain(rawURL string) string {
	domain := strings.TrimSpace(strings.ToLower(rawURL))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	if idx := strings.IndexAny(domain, "/?#"); idx >= 0 {
		domain = domain[:idx]
	}
	return domain
}
