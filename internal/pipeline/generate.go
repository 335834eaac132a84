// internal/pipeline/generate.go
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/common/metrics"
	"keywordgen/internal/common/retry"
	"keywordgen/internal/llm"
	"keywordgen/internal/models"
)

const (
	// Over-generate to leave room for dedup and score filtering.
	generationBuffer = 2.5
	generationBatch  = 15

	llmAttempts    = 3
	retryBaseDelay = 2 * time.Second
)

const generatedKeywordsSchema = `{
	"type": "object",
	"required": ["keywords"],
	"properties": {
		"keywords": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["keyword"],
				"properties": {
					"keyword": {"type": "string"},
					"intent": {"type": "string"},
					"is_question": {"type": "boolean"}
				}
			}
		}
	}
}`

// aiGenerator produces candidate keywords from the LLM in parallel batches.
type aiGenerator struct {
	llm    llm.Client
	logger logger.Logger
}

// GenerateKeywords requests targetCount keywords (times the over-generation
// buffer) in parallel batches. Failed batches degrade to an empty
// contribution; sibling batches are unaffected.
func (g *aiGenerator) GenerateKeywords(ctx context.Context, profile models.CompanyProfile, cfg models.GenerationConfig, targetCount int) []models.Keyword {
	if targetCount <= 0 {
		return nil
	}

	companyContext := buildCompanyContext(profile, true)
	bufferCount := int(float64(targetCount) * generationBuffer)
	numBatches := (bufferCount + generationBatch - 1) / generationBatch

	g.logger.Info("generating ai keywords", map[string]interface{}{
		"target":  bufferCount,
		"batches": numBatches,
	})

	results := make([][]models.Keyword, numBatches)
	var wg sync.WaitGroup
	for i := 0; i < numBatches; i++ {
		wg.Add(1)
		go func(batchNum int) {
			defer wg.Done()
			batch, err := g.generateBatch(ctx, companyContext, generationBatch, cfg.Language, cfg.Region)
			if err != nil {
				metrics.LLMRequestFailures.WithLabelValues("generate").Inc()
				g.logger.WithError(err).Error("generation batch failed", map[string]interface{}{
					"batch": batchNum + 1,
				})
				return
			}
			results[batchNum] = batch
		}(i)
	}
	wg.Wait()

	var all []models.Keyword
	for _, batch := range results {
		all = append(all, batch...)
	}
	return all
}

func (g *aiGenerator) generateBatch(ctx context.Context, companyContext string, batchCount int, language, region string) ([]models.Keyword, error) {
	prompt := buildGenerationPrompt(companyContext, batchCount, language, region)

	var raw string
	err := retry.Do(ctx, llmAttempts, retryBaseDelay, func(ctx context.Context) error {
		metrics.LLMRequests.WithLabelValues("generate").Inc()
		var err error
		raw, err = g.llm.Generate(ctx, prompt, llm.GenerateOptions{Temperature: 0.8, JSONMode: true})
		return err
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Keywords []struct {
			Keyword    string `json:"keyword"`
			Intent     string `json:"intent"`
			IsQuestion bool   `json:"is_question"`
		} `json:"keywords"`
	}
	if err := llm.DecodeValidated(raw, generatedKeywordsSchema, &payload); err != nil {
		return nil, err
	}

	keywords := make([]models.Keyword, 0, len(payload.Keywords))
	for _, item := range payload.Keywords {
		text := strings.TrimSpace(item.Keyword)
		if text == "" {
			continue
		}
		keywords = append(keywords, models.Keyword{
			Text:       text,
			Intent:     models.ParseIntent(item.Intent, item.IsQuestion),
			IsQuestion: item.IsQuestion,
			Source:     models.SourceAIGenerated,
			Difficulty: 50,
		})
	}
	return keywords, nil
}

func buildGenerationPrompt(companyContext string, batchCount int, language, region string) string {
	questionMin := atLeast(3, batchCount*25/100)
	commercialMin := atLeast(3, batchCount*25/100)
	transactionalMin := atLeast(2, batchCount*15/100)
	comparisonMin := atLeast(1, batchCount*10/100)

	var parts []string
	parts = append(parts, fmt.Sprintf("Generate %d SEO keywords in %s language for the %s market.",
		batchCount, strings.ToUpper(language), strings.ToUpper(region)))
	parts = append(parts, companyContext)
	parts = append(parts, "INTENT TYPES (strict counts):")
	parts = append(parts, fmt.Sprintf("- %d+ QUESTION: keywords that start with question words in %s", questionMin, language))
	parts = append(parts, fmt.Sprintf("- %d+ TRANSACTIONAL: buying/action intent (book, buy, order, get quote, sign up)", transactionalMin))
	parts = append(parts, fmt.Sprintf("- %d+ COMPARISON: comparing options (vs, versus, alternative, difference)", comparisonMin))
	parts = append(parts, fmt.Sprintf("- %d+ COMMERCIAL: commercial intent (best, top, review, pricing, cost)", commercialMin))
	parts = append(parts, "- Rest INFORMATIONAL (max 25%): guides, benefits, tips")
	parts = append(parts, "KEYWORD LENGTH: 20% short (2-3 words), 50% medium (4-5 words), 30% long (6-7 words)")
	parts = append(parts, fmt.Sprintf("RULES: all keywords in %s, no single-word keywords, no keywords over 7 words, be specific to the company offerings, include location terms relevant to the %s market.",
		strings.ToUpper(language), strings.ToUpper(region)))
	parts = append(parts, `Return JSON: {"keywords": [{"keyword": "...", "intent": "question|transactional|comparison|commercial|informational", "is_question": true/false}]}`)
	return strings.Join(parts, "\n\n")
}

// buildCompanyContext renders the profile into prompt lines. full includes
// the audience/location/brand fields used for generation; the scoring prompt
// gets the shorter form.
func buildCompanyContext(profile models.CompanyProfile, full bool) string {
	parts := []string{fmt.Sprintf("Company: %s", profile.Name)}
	if full && profile.Industry != "" {
		parts = append(parts, fmt.Sprintf("Industry: %s", profile.Industry))
	}
	if profile.Description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", profile.Description))
	}
	if len(profile.Services) > 0 {
		parts = append(parts, fmt.Sprintf("Services: %s", strings.Join(profile.Services, ", ")))
	}
	if len(profile.Products) > 0 {
		parts = append(parts, fmt.Sprintf("Products: %s", strings.Join(profile.Products, ", ")))
	}
	if full {
		if len(profile.Brands) > 0 {
			parts = append(parts, fmt.Sprintf("Brands: %s", strings.Join(profile.Brands, ", ")))
		}
		if profile.TargetLocation != "" {
			parts = append(parts, fmt.Sprintf("Location: %s", profile.TargetLocation))
		}
		if profile.TargetAudience != "" {
			parts = append(parts, fmt.Sprintf("Target Audience: %s", profile.TargetAudience))
		}
	}
	return strings.Join(parts, "\n")
}

func atLeast(floor, v int) int {
	if v < floor {
		return floor
	}
	return v
}
