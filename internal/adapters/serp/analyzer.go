// internal/adapters/serp/analyzer.go
package serp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"keywordgen/internal/common/cache"
	"keywordgen/internal/common/logger"
	"keywordgen/internal/common/retry"
	"keywordgen/internal/llm"
	"keywordgen/internal/models"
)

var ErrSERPAnalysisFailed = errors.New("SERP_ANALYSIS_FAILED")

const (
	analyzeAttempts = 2
	retryBaseDelay  = 2 * time.Second
)

const featuresSchema = `{
	"type": "object",
	"required": ["aeo_opportunity"],
	"properties": {
		"aeo_opportunity": {"type": "integer"},
		"has_featured_snippet": {"type": "boolean"},
		"has_paa": {"type": "boolean"},
		"paa_questions": {"type": "array", "items": {"type": "string"}}
	}
}`

// Features describes what the answer-engine surface of a SERP looks like
// for one keyword.
type Features struct {
	Keyword            string   `json:"keyword"`
	AEOOpportunity     int      `json:"aeo_opportunity"`
	HasFeaturedSnippet bool     `json:"has_featured_snippet"`
	HasPAA             bool     `json:"has_paa"`
	PAAQuestions       []string `json:"paa_questions"`
}

// Analyzer estimates AEO opportunity per keyword with a search-grounded LLM
// call. Analyses are memoized when a cache is configured; each analysis is
// billed per call.
type Analyzer struct {
	llm    llm.Client
	cache  cache.Cache
	logger logger.Logger
}

func NewAnalyzer(client llm.Client, store cache.Cache, log logger.Logger) *Analyzer {
	return &Analyzer{
		llm:    client,
		cache:  store,
		logger: log.With(map[string]interface{}{"adapter": "serp"}),
	}
}

// Analyze inspects the SERP for one keyword.
func (a *Analyzer) Analyze(ctx context.Context, keyword, region string) (*Features, error) {
	norm := models.Normalize(keyword)
	cacheKey := cache.Key("serp", region, norm)
	if a.cache != nil {
		var cached Features
		if err := a.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	prompt := a.buildPrompt(keyword, region)

	var raw string
	err := retry.Do(ctx, analyzeAttempts, retryBaseDelay, func(ctx context.Context) error {
		var err error
		raw, err = a.llm.Generate(ctx, prompt, llm.GenerateOptions{Temperature: 0.2, JSONMode: true})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSERPAnalysisFailed, err)
	}

	var payload struct {
		AEOOpportunity     int      `json:"aeo_opportunity"`
		HasFeaturedSnippet bool     `json:"has_featured_snippet"`
		HasPAA             bool     `json:"has_paa"`
		PAAQuestions       []string `json:"paa_questions"`
	}
	if err := llm.DecodeValidated(raw, featuresSchema, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSERPAnalysisFailed, err)
	}

	features := &Features{
		Keyword:            keyword,
		AEOOpportunity:     clampScore(payload.AEOOpportunity),
		HasFeaturedSnippet: payload.HasFeaturedSnippet,
		HasPAA:             payload.HasPAA,
		PAAQuestions:       payload.PAAQuestions,
	}

	if a.cache != nil {
		if err := a.cache.SetJSON(ctx, cacheKey, features); err != nil {
			a.logger.WithError(err).Debug("cache write failed", map[string]interface{}{"keyword": norm})
		}
	}

	return features, nil
}

func (a *Analyzer) buildPrompt(keyword, region string) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Search Google in the %s market for %q and analyze the result page.", strings.ToUpper(region), keyword))
	parts = append(parts, "Report whether a featured snippet is shown, whether a People Also Ask box is shown, and list up to 4 PAA questions.")
	parts = append(parts, "Then rate the answer-engine opportunity 0-100: high when the query has clear answer intent and the current snippet holders are weak, low when big brands own direct answers.")
	parts = append(parts, `Return JSON: {"aeo_opportunity": 0-100, "has_featured_snippet": true/false, "has_paa": true/false, "paa_questions": ["..."]}`)
	return strings.Join(parts, "\n\n")
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
