// internal/pipeline/deps.go
package pipeline

import (
	"context"

	"keywordgen/internal/adapters/autocomplete"
	"keywordgen/internal/adapters/serp"
	"keywordgen/internal/adapters/trends"
	"keywordgen/internal/adapters/volume"
	"keywordgen/internal/common/logger"
	"keywordgen/internal/llm"
	"keywordgen/internal/models"
)

// Adapter contracts the engine depends on. The concrete implementations live
// under internal/adapters; tests substitute fakes.

// GapAnalyzer surfaces keywords competitors rank for that the company's
// domain does not.
type GapAnalyzer interface {
	AnalyzeGaps(ctx context.Context, domain string, competitors []string, region string) ([]models.Keyword, error)
}

// ResearchEngine discovers community-sourced keywords.
type ResearchEngine interface {
	DiscoverKeywords(ctx context.Context, profile models.CompanyProfile, language string, targetCount int) ([]models.Keyword, error)
}

// AutocompleteClient fetches search-box suggestions for one seed phrase.
type AutocompleteClient interface {
	Suggest(ctx context.Context, seed string) (*autocomplete.Suggestions, error)
}

// SERPAnalyzer inspects the result page features of one keyword.
type SERPAnalyzer interface {
	Analyze(ctx context.Context, keyword, region string) (*serp.Features, error)
}

// TrendsClient reports interest-over-time for one keyword.
type TrendsClient interface {
	Analyze(ctx context.Context, keyword, region string) (*trends.TrendData, error)
}

// VolumeClient resolves search volume and difficulty for a keyword batch.
type VolumeClient interface {
	Lookup(ctx context.Context, keywords []string, region string) (map[string]volume.Data, error)
}

// Dependencies wires the engine. LLM is mandatory; every adapter is optional
// and a nil adapter simply disables its source or enrichment regardless of
// the run configuration.
type Dependencies struct {
	LLM          llm.Client
	Gaps         GapAnalyzer
	Research     ResearchEngine
	Autocomplete AutocompleteClient
	SERP         SERPAnalyzer
	Trends       TrendsClient
	Volume       VolumeClient
	Logger       logger.Logger
}
