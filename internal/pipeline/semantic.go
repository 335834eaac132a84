// internal/pipeline/semantic.go
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/common/metrics"
	"keywordgen/internal/common/retry"
	"keywordgen/internal/llm"
	"keywordgen/internal/models"
)

const keepListSchema = `{
	"type": "object",
	"required": ["keep"],
	"properties": {
		"keep": {
			"type": "array",
			"items": {"type": "string"}
		}
	}
}`

// semanticDeduper removes near-duplicates fast dedup cannot see:
// pluralization, word-order and minor phrasing differences. It is
// best-effort; any failure leaves the input untouched rather than risking an
// empty set.
type semanticDeduper struct {
	llm    llm.Client
	logger logger.Logger
}

// Dedupe sends the full score-sorted keyword list to the LLM once and keeps
// the subset it returns. Each keep-list entry consumes exactly one matching
// record, so duplicate entries cannot double-count; entries matching nothing
// are silently dropped.
func (d *semanticDeduper) Dedupe(ctx context.Context, records []models.Keyword) []models.Keyword {
	if len(records) < 2 {
		return records
	}

	sorted := make([]models.Keyword, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	prompt := buildSemanticDedupPrompt(sorted)

	var raw string
	err := retry.Do(ctx, llmAttempts, retryBaseDelay, func(ctx context.Context) error {
		metrics.LLMRequests.WithLabelValues("semantic_dedup").Inc()
		var err error
		raw, err = d.llm.Generate(ctx, prompt, llm.GenerateOptions{Temperature: 0.2, JSONMode: true})
		return err
	})
	if err != nil {
		metrics.LLMRequestFailures.WithLabelValues("semantic_dedup").Inc()
		d.logger.WithError(err).Warn("semantic dedup failed, keeping original set", nil)
		return records
	}

	var payload struct {
		Keep []string `json:"keep"`
	}
	if err := llm.DecodeValidated(raw, keepListSchema, &payload); err != nil {
		metrics.LLMRequestFailures.WithLabelValues("semantic_dedup").Inc()
		d.logger.WithError(err).Warn("semantic dedup returned malformed payload, keeping original set", nil)
		return records
	}
	if len(payload.Keep) == 0 {
		d.logger.Warn("semantic dedup returned empty keep-list, keeping original set", nil)
		return records
	}

	keepSet := make(map[string]struct{}, len(payload.Keep))
	for _, k := range payload.Keep {
		keepSet[models.Normalize(k)] = struct{}{}
	}

	kept := make([]models.Keyword, 0, len(payload.Keep))
	for _, kw := range sorted {
		norm := models.Normalize(kw.Text)
		if _, ok := keepSet[norm]; ok {
			kept = append(kept, kw)
			delete(keepSet, norm)
		}
	}

	if removed := len(records) - len(kept); removed > 0 {
		d.logger.Info("semantic dedup removed near-duplicates", map[string]interface{}{
			"removed": removed,
		})
	}
	return kept
}

func buildSemanticDedupPrompt(sorted []models.Keyword) string {
	lines := make([]string, 0, len(sorted))
	for _, kw := range sorted {
		lines = append(lines, kw.Text)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("You have %d keywords sorted by quality (best first).", len(sorted)))
	parts = append(parts, "Remove DUPLICATES - keep only the first (best) one from each group of similar keywords.")
	parts = append(parts, "Duplicates (remove the later one): \"sign up X\" vs \"sign up for X\", \"review\" vs \"reviews\", same words in a different order, minor phrasing differences.")
	parts = append(parts, "NOT duplicates (keep both): different locations, different topics, different intents (\"buy X\" vs \"what is X\").")
	parts = append(parts, "Keywords (best quality first):\n"+strings.Join(lines, "\n"))
	parts = append(parts, `Return JSON with ONLY the unique keywords to keep: {"keep": ["keyword1", "keyword2", ...]}`)
	return strings.Join(parts, "\n\n")
}
