// internal/models/keyword.go
package models

import (
	"sort"
	"strings"
)

// Search intent categories. Anything outside this set coerces to
// IntentInformational.
const (
	IntentTransactional = "transactional"
	IntentCommercial    = "commercial"
	IntentComparison    = "comparison"
	IntentInformational = "informational"
	IntentQuestion      = "question"
)

// Keyword source tags.
const (
	SourceAIGenerated    = "ai_generated"
	SourceGapAnalysis    = "gap_analysis"
	SourceResearchPrefix = "research"
	SourceAutocomplete   = "autocomplete"
	SourceSERPPAA        = "serp_paa"
)

var validIntents = map[string]struct{}{
	IntentTransactional: {},
	IntentCommercial:    {},
	IntentComparison:    {},
	IntentInformational: {},
	IntentQuestion:      {},
}

// ParseIntent validates a source-provided intent. Invalid or missing values
// coerce to informational; isQuestion forces the question intent regardless
// of what the source claimed.
func ParseIntent(raw string, isQuestion bool) string {
	intent := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := validIntents[intent]; !ok {
		intent = IntentInformational
	}
	if isQuestion {
		intent = IntentQuestion
	}
	return intent
}

// Normalize lowercases a keyword phrase and collapses internal whitespace.
// All comparisons between keywords (dedup, filtering, cluster matching) go
// through this form.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// TokenSignature returns the sorted whitespace tokens of the normalized text
// joined by a single space, so "seo tools best" and "best seo tools" collide.
func TokenSignature(text string) string {
	tokens := strings.Fields(strings.ToLower(text))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Keyword is the candidate record that flows through every pipeline stage.
// Stages copy and return fresh slices; a Keyword is never mutated in place
// across stage boundaries.
type Keyword struct {
	Text       string `json:"keyword"`
	Intent     string `json:"intent"`
	IsQuestion bool   `json:"is_question"`
	// Score is the 0-100 company-fit score. Zero until the scoring stage
	// runs; 50 is the fallback for failed scoring batches.
	Score       int    `json:"score"`
	Source      string `json:"source"`
	ClusterName string `json:"cluster_name,omitempty"`

	// Populated only when the matching enrichment adapter ran.
	Volume     int `json:"volume"`
	Difficulty int `json:"difficulty"`

	AEOOpportunity     int  `json:"aeo_opportunity"`
	HasFeaturedSnippet bool `json:"has_featured_snippet"`
	HasPAA             bool `json:"has_paa"`
	SERPAnalyzed       bool `json:"serp_analyzed"`

	TrendScore int  `json:"trend_score"`
	Rising     bool `json:"rising"`
}

// WordCount returns the number of whitespace-delimited tokens.
func (k Keyword) WordCount() int {
	return len(strings.Fields(k.Text))
}

// IsResearchSourced reports whether the record came from community research.
// Research keywords represent verified demand and are exempt from the
// broad-pattern filter.
func (k Keyword) IsResearchSourced() bool {
	return strings.HasPrefix(k.Source, SourceResearchPrefix)
}

// Cluster groups keyword phrases under a label produced by the clustering
// stage.
type Cluster struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Statistics summarizes a finished generation run.
type Statistics struct {
	Total                  int            `json:"total"`
	AvgScore               float64        `json:"avg_score"`
	IntentBreakdown        map[string]int `json:"intent_breakdown"`
	WordLengthDistribution map[string]int `json:"word_length_distribution"`
	SourceBreakdown        map[string]int `json:"source_breakdown"`
	DuplicateCount         int            `json:"duplicate_count"`
}

// Result is the deliverable of one generation run.
type Result struct {
	RunID                 string     `json:"run_id"`
	Keywords              []Keyword  `json:"keywords"`
	Clusters              []Cluster  `json:"clusters"`
	Statistics            Statistics `json:"statistics"`
	ProcessingTimeSeconds float64    `json:"processing_time_seconds"`
}
