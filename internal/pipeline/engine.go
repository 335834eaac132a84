// internal/pipeline/engine.go
package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"keywordgen/internal/adapters/gaps"
	"keywordgen/internal/common/logger"
	"keywordgen/internal/common/metrics"
	"keywordgen/internal/models"
)

var (
	ErrMissingLLM     = errors.New("MISSING_LLM_CLIENT")
	ErrInvalidProfile = errors.New("INVALID_COMPANY_PROFILE")
)

// Autocomplete expansion is billed per HTTP round trip, so seeds are capped.
const maxAutocompleteSeeds = 5

// PAA questions harvested per analyzed keyword.
const maxBonusQuestions = 3

// Engine runs the whole generation pipeline: concurrent source collection,
// fast dedup, scoring, semantic dedup, filtering, clustering, truncation and
// post-truncation enrichment.
type Engine struct {
	deps      Dependencies
	generator *aiGenerator
	scorer    *scorer
	semantic  *semanticDeduper
	clusterer *clusterer
	logger    logger.Logger
}

// NewEngine validates the dependency set. Only the LLM client is mandatory;
// the AI generator, scorer, semantic dedup and clusterer all run on it.
func NewEngine(deps Dependencies) (*Engine, error) {
	if deps.LLM == nil {
		return nil, ErrMissingLLM
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{
		deps:      deps,
		generator: &aiGenerator{llm: deps.LLM, logger: log},
		scorer:    &scorer{llm: deps.LLM, logger: log},
		semantic:  &semanticDeduper{llm: deps.LLM, logger: log},
		clusterer: &clusterer{llm: deps.LLM, logger: log},
		logger:    log,
	}, nil
}

// Generate produces the ranked, clustered keyword deliverable for one
// company. Source adapters degrade independently; only a completely empty
// candidate pool short-circuits, and even that returns an empty Result with a
// nil error.
func (e *Engine) Generate(ctx context.Context, profile models.CompanyProfile, cfg models.GenerationConfig) (*models.Result, error) {
	if strings.TrimSpace(profile.Name) == "" {
		return nil, ErrInvalidProfile
	}

	start := time.Now()
	cfg = cfg.Normalized()
	runID := uuid.NewString()
	log := e.logger.With(map[string]interface{}{"run_id": runID, "company": profile.Name})

	log.Info("starting keyword generation", map[string]interface{}{
		"target":   cfg.TargetCount,
		"language": cfg.Language,
		"region":   cfg.Region,
	})

	collected := e.collectSources(ctx, profile, cfg, log)

	// The AI generator always contributes at least half the target even when
	// the other sources over-deliver.
	aiTarget := cfg.TargetCount - len(collected)
	if floor := cfg.TargetCount / 2; aiTarget < floor {
		aiTarget = floor
	}
	all := append(collected, e.generator.GenerateKeywords(ctx, profile, cfg, aiTarget)...)
	for source, count := range countBySource(all) {
		metrics.KeywordsCollected.WithLabelValues(source).Add(float64(count))
	}

	if len(all) == 0 {
		log.Warn("every source returned empty, producing empty result", nil)
		return &models.Result{
			RunID:                 runID,
			Keywords:              []models.Keyword{},
			Clusters:              []models.Cluster{},
			Statistics:            ComputeStatistics(nil, 0),
			ProcessingTimeSeconds: time.Since(start).Seconds(),
		}, nil
	}

	all, dupCount := DedupeFast(all)
	log.Info("fast dedup done", map[string]interface{}{"kept": len(all), "removed": dupCount})

	if cfg.ResearchFocus || cfg.MinWordCount >= 4 {
		if variants := SynthesizeVariants(profile); len(variants) > 0 {
			var more int
			all, more = DedupeFast(append(all, variants...))
			dupCount += more
		}
	}

	all = e.timed("score", func() []models.Keyword { return e.scorer.Score(ctx, all, profile) })
	all = e.timed("semantic_dedup", func() []models.Keyword { return e.semantic.Dedupe(ctx, all) })

	all = FilterByScore(all, cfg.MinScore)
	if cfg.MinWordCount > 2 {
		all = FilterByWordCount(all, cfg.MinWordCount)
	}
	if cfg.ResearchFocus {
		all = FilterBroadPatterns(all)
	}
	log.Info("filtering done", map[string]interface{}{"kept": len(all)})

	if cfg.EnableClustering && len(all) > 0 {
		all = e.timed("cluster", func() []models.Keyword {
			return e.clusterer.Cluster(ctx, all, profile, cfg.ClusterCount)
		})
	}

	if len(all) > cfg.TargetCount {
		all = all[:cfg.TargetCount]
	}

	all = e.enrich(ctx, all, cfg, log)

	result := &models.Result{
		RunID:                 runID,
		Keywords:              all,
		Clusters:              buildClusters(all),
		Statistics:            ComputeStatistics(all, dupCount),
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}
	log.Info("generation complete", map[string]interface{}{
		"keywords": len(result.Keywords),
		"clusters": len(result.Clusters),
		"seconds":  result.ProcessingTimeSeconds,
	})
	return result, nil
}

// collectSources fans out the independent source adapters. Each slot owns its
// own result slice; a failed adapter contributes nothing and never cancels
// its siblings.
func (e *Engine) collectSources(ctx context.Context, profile models.CompanyProfile, cfg models.GenerationConfig, log logger.Logger) []models.Keyword {
	timer := prometheus.NewTimer(metrics.StageDuration.WithLabelValues("collect"))
	defer timer.ObserveDuration()

	results := make([][]models.Keyword, 3)
	var wg sync.WaitGroup

	if cfg.EnableResearch && e.deps.Research != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			found, err := e.deps.Research.DiscoverKeywords(ctx, profile, cfg.Language, cfg.TargetCount)
			if err != nil {
				log.WithError(err).Warn("research source failed", nil)
				return
			}
			results[0] = found
		}()
	}

	if cfg.EnableGapAnalysis && e.deps.Gaps != nil && profile.URL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			domain := gaps.ExtractDomain(profile.URL)
			found, err := e.deps.Gaps.AnalyzeGaps(ctx, domain, profile.Competitors, cfg.Region)
			if err != nil {
				log.WithError(err).Warn("gap analysis source failed", nil)
				return
			}
			results[1] = found
		}()
	}

	if cfg.EnableAutocomplete && e.deps.Autocomplete != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[2] = e.collectAutocomplete(ctx, profile, log)
		}()
	}

	wg.Wait()

	var all []models.Keyword
	for _, found := range results {
		all = append(all, found...)
	}
	return all
}

// collectAutocomplete expands up to maxAutocompleteSeeds offerings through
// the suggest endpoint. Per-seed failures degrade to nothing.
func (e *Engine) collectAutocomplete(ctx context.Context, profile models.CompanyProfile, log logger.Logger) []models.Keyword {
	seeds := make([]string, 0, maxAutocompleteSeeds)
	seeds = append(seeds, profile.Services...)
	seeds = append(seeds, profile.Products...)
	if len(seeds) > maxAutocompleteSeeds {
		seeds = seeds[:maxAutocompleteSeeds]
	}

	var all []models.Keyword
	for _, seed := range seeds {
		if strings.TrimSpace(seed) == "" {
			continue
		}
		suggestions, err := e.deps.Autocomplete.Suggest(ctx, seed)
		if err != nil {
			log.WithError(err).Warn("autocomplete seed failed", map[string]interface{}{"seed": seed})
			continue
		}
		for _, text := range suggestions.Suggestions {
			all = append(all, models.Keyword{
				Text:       text,
				Intent:     models.IntentInformational,
				Source:     models.SourceAutocomplete,
				Difficulty: 50,
			})
		}
		for _, text := range suggestions.QuestionKeywords {
			all = append(all, models.Keyword{
				Text:       text,
				Intent:     models.IntentQuestion,
				IsQuestion: true,
				Source:     models.SourceAutocomplete,
				Difficulty: 50,
			})
		}
	}
	return all
}

// enrich runs the optional post-truncation adapters. Each one fails
// independently; the keyword list survives unenriched.
func (e *Engine) enrich(ctx context.Context, records []models.Keyword, cfg models.GenerationConfig, log logger.Logger) []models.Keyword {
	if len(records) == 0 {
		return records
	}
	timer := prometheus.NewTimer(metrics.StageDuration.WithLabelValues("enrich"))
	defer timer.ObserveDuration()

	if cfg.EnableSERPAnalysis && e.deps.SERP != nil {
		records = e.enrichSERP(ctx, records, cfg, log)
	}
	if cfg.EnableVolumeLookup && e.deps.Volume != nil {
		records = e.enrichVolume(ctx, records, cfg, log)
	}
	if cfg.EnableTrends && e.deps.Trends != nil {
		records = e.enrichTrends(ctx, records, cfg, log)
	}
	return records
}

// enrichSERP analyzes the top SERPSampleSize keywords concurrently, writes
// the answer-engine features back, and appends freshly discovered PAA
// questions as bonus records.
func (e *Engine) enrichSERP(ctx context.Context, records []models.Keyword, cfg models.GenerationConfig, log logger.Logger) []models.Keyword {
	sample := cfg.SERPSampleSize
	if sample > len(records) {
		sample = len(records)
	}

	bonusSlots := make([][]string, sample)
	var wg sync.WaitGroup
	for i := 0; i < sample; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			features, err := e.deps.SERP.Analyze(ctx, records[i].Text, cfg.Region)
			if err != nil {
				log.WithError(err).Warn("serp analysis failed", map[string]interface{}{
					"keyword": records[i].Text,
				})
				return
			}
			records[i].AEOOpportunity = features.AEOOpportunity
			records[i].HasFeaturedSnippet = features.HasFeaturedSnippet
			records[i].HasPAA = features.HasPAA
			records[i].SERPAnalyzed = true
			if len(features.PAAQuestions) > maxBonusQuestions {
				bonusSlots[i] = features.PAAQuestions[:maxBonusQuestions]
			} else {
				bonusSlots[i] = features.PAAQuestions
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, len(records))
	for _, kw := range records {
		seen[models.Normalize(kw.Text)] = struct{}{}
	}
	for _, questions := range bonusSlots {
		for _, question := range questions {
			norm := models.Normalize(question)
			if norm == "" {
				continue
			}
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			records = append(records, models.Keyword{
				Text:       strings.TrimSpace(question),
				Intent:     models.IntentQuestion,
				IsQuestion: true,
				Score:      defaultScore,
				Source:     models.SourceSERPPAA,
				Difficulty: 50,
			})
		}
	}
	return records
}

func (e *Engine) enrichVolume(ctx context.Context, records []models.Keyword, cfg models.GenerationConfig, log logger.Logger) []models.Keyword {
	texts := make([]string, 0, len(records))
	for _, kw := range records {
		texts = append(texts, kw.Text)
	}
	data, err := e.deps.Volume.Lookup(ctx, texts, cfg.Region)
	if err != nil {
		log.WithError(err).Warn("volume lookup failed", nil)
		return records
	}
	for i := range records {
		if d, ok := data[models.Normalize(records[i].Text)]; ok {
			records[i].Volume = d.Volume
			records[i].Difficulty = d.Difficulty
		}
	}
	return records
}

func (e *Engine) enrichTrends(ctx context.Context, records []models.Keyword, cfg models.GenerationConfig, log logger.Logger) []models.Keyword {
	var wg sync.WaitGroup
	for i := range records {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := e.deps.Trends.Analyze(ctx, records[i].Text, cfg.Region)
			if err != nil {
				log.WithError(err).Warn("trends lookup failed", map[string]interface{}{
					"keyword": records[i].Text,
				})
				return
			}
			records[i].TrendScore = data.Interest
			records[i].Rising = data.Rising
		}(i)
	}
	wg.Wait()
	return records
}

func (e *Engine) timed(stage string, fn func() []models.Keyword) []models.Keyword {
	timer := prometheus.NewTimer(metrics.StageDuration.WithLabelValues(stage))
	defer timer.ObserveDuration()
	return fn()
}

// buildClusters groups final keyword phrases by their assigned cluster label,
// preserving first-seen label order. Unlabeled keywords stay out of the
// cluster listing.
func buildClusters(records []models.Keyword) []models.Cluster {
	byName := make(map[string][]string)
	var order []string
	for _, kw := range records {
		if kw.ClusterName == "" {
			continue
		}
		if _, ok := byName[kw.ClusterName]; !ok {
			order = append(order, kw.ClusterName)
		}
		byName[kw.ClusterName] = append(byName[kw.ClusterName], kw.Text)
	}

	clusters := make([]models.Cluster, 0, len(order))
	for _, name := range order {
		clusters = append(clusters, models.Cluster{Name: name, Keywords: byName[name]})
	}
	return clusters
}

func countBySource(records []models.Keyword) map[string]int {
	counts := make(map[string]int)
	for _, kw := range records {
		counts[kw.Source]++
	}
	return counts
}
