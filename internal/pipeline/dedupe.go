// internal/pipeline/dedupe.go
package pipeline

import (
	"keywordgen/internal/models"
)

// DedupeFast removes duplicates in two O(n) phases: exact normalized-text
// matches first, then token-signature groups ("seo tools best" vs "best seo
// tools"). It runs before scoring, so the first pass cannot be biased by
// scores; within a signature group a gap-analysis record wins over any
// score, otherwise the highest-scored record survives.
func DedupeFast(records []models.Keyword) ([]models.Keyword, int) {
	if len(records) == 0 {
		return nil, 0
	}

	originalCount := len(records)

	// Phase 1: exact match, first occurrence wins.
	seenExact := make(map[string]struct{}, len(records))
	phase1 := make([]models.Keyword, 0, len(records))
	for _, kw := range records {
		normalized := models.Normalize(kw.Text)
		if normalized == "" {
			continue
		}
		if _, ok := seenExact[normalized]; ok {
			continue
		}
		seenExact[normalized] = struct{}{}
		phase1 = append(phase1, kw)
	}

	// Phase 2: token-signature grouping.
	type group struct {
		best   models.Keyword
		hasGap bool
	}
	groups := make(map[string]*group, len(phase1))
	order := make([]string, 0, len(phase1))
	for _, kw := range phase1 {
		sig := models.TokenSignature(kw.Text)
		g, ok := groups[sig]
		if !ok {
			groups[sig] = &group{best: kw, hasGap: kw.Source == models.SourceGapAnalysis}
			order = append(order, sig)
			continue
		}
		if g.hasGap {
			continue
		}
		if kw.Source == models.SourceGapAnalysis {
			g.best = kw
			g.hasGap = true
			continue
		}
		if kw.Score > g.best.Score {
			g.best = kw
		}
	}

	unique := make([]models.Keyword, 0, len(order))
	for _, sig := range order {
		unique = append(unique, groups[sig].best)
	}

	return unique, originalCount - len(unique)
}
