// internal/pipeline/scorer.go
package pipeline

import (
	"context"
	"sort"
	"strings"
	"sync"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/common/metrics"
	"keywordgen/internal/common/retry"
	"keywordgen/internal/llm"
	"keywordgen/internal/models"
)

const (
	scoringBatch = 25
	defaultScore = 50
)

const scoresSchema = `{
	"type": "object",
	"required": ["scores"],
	"properties": {
		"scores": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["keyword", "score"],
				"properties": {
					"keyword": {"type": "string"},
					"score": {"type": "integer"}
				}
			}
		}
	}
}`

// scorer assigns the 0-100 company-fit score. Every record gets scored
// regardless of source. Gap-analysis records arrive with an external score,
// but threshold filtering and ranking need one comparable scale, so it is
// overwritten here.
type scorer struct {
	llm    llm.Client
	logger logger.Logger
}

// Score batches records to the LLM relevance function in parallel and sorts
// the merged result descending by score. A batch that fails after retries
// falls back per record: an existing nonzero (external) score is preserved,
// everything else gets the default.
func (s *scorer) Score(ctx context.Context, records []models.Keyword, profile models.CompanyProfile) []models.Keyword {
	if len(records) == 0 {
		return nil
	}

	companyContext := buildCompanyContext(profile, false)
	numBatches := (len(records) + scoringBatch - 1) / scoringBatch

	results := make([][]models.Keyword, numBatches)
	var wg sync.WaitGroup
	for i := 0; i < numBatches; i++ {
		start := i * scoringBatch
		end := start + scoringBatch
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		wg.Add(1)
		go func(batchNum int, batch []models.Keyword) {
			defer wg.Done()
			scored, err := s.scoreBatch(ctx, batch, companyContext)
			if err != nil {
				metrics.LLMRequestFailures.WithLabelValues("score").Inc()
				s.logger.WithError(err).Error("scoring batch failed", map[string]interface{}{
					"batch": batchNum + 1,
					"size":  len(batch),
				})
				scored = fallbackScores(batch)
			}
			results[batchNum] = scored
		}(i, batch)
	}
	wg.Wait()

	scored := make([]models.Keyword, 0, len(records))
	for _, batch := range results {
		scored = append(scored, batch...)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func (s *scorer) scoreBatch(ctx context.Context, batch []models.Keyword, companyContext string) ([]models.Keyword, error) {
	prompt := buildScoringPrompt(batch, companyContext)

	var raw string
	err := retry.Do(ctx, llmAttempts, retryBaseDelay, func(ctx context.Context) error {
		metrics.LLMRequests.WithLabelValues("score").Inc()
		var err error
		raw, err = s.llm.Generate(ctx, prompt, llm.GenerateOptions{Temperature: 0.3, JSONMode: true})
		return err
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Scores []struct {
			Keyword string `json:"keyword"`
			Score   int    `json:"score"`
		} `json:"scores"`
	}
	if err := llm.DecodeValidated(raw, scoresSchema, &payload); err != nil {
		return nil, err
	}

	// Match by normalized keyword text, not position: batch results may
	// come back in any order.
	scoreMap := make(map[string]int, len(payload.Scores))
	for _, item := range payload.Scores {
		scoreMap[models.Normalize(item.Keyword)] = clampScore(item.Score)
	}

	scored := make([]models.Keyword, 0, len(batch))
	for _, kw := range batch {
		if score, ok := scoreMap[models.Normalize(kw.Text)]; ok {
			kw.Score = score
		} else {
			kw.Score = defaultScore
		}
		scored = append(scored, kw)
	}
	return scored, nil
}

func buildScoringPrompt(batch []models.Keyword, companyContext string) string {
	lines := make([]string, 0, len(batch))
	for _, kw := range batch {
		lines = append(lines, "- "+kw.Text)
	}

	var parts []string
	parts = append(parts, "Score these keywords for company fit on a 1-100 scale.")
	parts = append(parts, companyContext)
	parts = append(parts, "Keywords to score:\n"+strings.Join(lines, "\n"))
	parts = append(parts, "Scoring criteria:\n- Product/Service relevance (0-40 points)\n- Search intent match (0-30 points)\n- Business value potential (0-30 points)")
	parts = append(parts, `Return ONLY a JSON object: {"scores": [{"keyword": "exact keyword", "score": 75}]}`)
	return strings.Join(parts, "\n\n")
}

// fallbackScores is the degraded result for a failed batch: keep an
// externally provided score where one exists, default the rest.
func fallbackScores(batch []models.Keyword) []models.Keyword {
	out := make([]models.Keyword, 0, len(batch))
	for _, kw := range batch {
		if kw.Score == 0 {
			kw.Score = defaultScore
		}
		out = append(out, kw)
	}
	return out
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
