// internal/models/keyword_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "best seo tools", Normalize("  Best   SEO  Tools "))
	assert.Equal(t, "crm software", Normalize("CRM\tSoftware"))
	assert.Equal(t, "", Normalize("   "))
}

func TestTokenSignature(t *testing.T) {
	assert.Equal(t, TokenSignature("best seo tools"), TokenSignature("SEO tools BEST"))
	assert.NotEqual(t, TokenSignature("best seo tools"), TokenSignature("best seo tool"))
	assert.Equal(t, "", TokenSignature(""))
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentCommercial, ParseIntent("Commercial", false))
	assert.Equal(t, IntentInformational, ParseIntent("navigational", false))
	assert.Equal(t, IntentInformational, ParseIntent("", false))

	// A question flag overrides whatever the source claimed.
	assert.Equal(t, IntentQuestion, ParseIntent("commercial", true))
}

func TestKeywordWordCount(t *testing.T) {
	assert.Equal(t, 3, Keyword{Text: "best seo tools"}.WordCount())
	assert.Equal(t, 0, Keyword{Text: ""}.WordCount())
}

func TestIsResearchSourced(t *testing.T) {
	assert.True(t, Keyword{Source: "research_reddit"}.IsResearchSourced())
	assert.True(t, Keyword{Source: "research_quora"}.IsResearchSourced())
	assert.False(t, Keyword{Source: SourceAIGenerated}.IsResearchSourced())
	assert.False(t, Keyword{Source: SourceGapAnalysis}.IsResearchSourced())
}

func TestGenerationConfigNormalized(t *testing.T) {
	cfg := GenerationConfig{}.Normalized()
	assert.Equal(t, 50, cfg.TargetCount)
	assert.Equal(t, 6, cfg.ClusterCount)
	assert.Equal(t, "english", cfg.Language)
	assert.Equal(t, "us", cfg.Region)
	assert.Equal(t, 15, cfg.SERPSampleSize)
	assert.False(t, cfg.EnableResearch)
}

func TestGenerationConfigResearchFocus(t *testing.T) {
	cfg := GenerationConfig{ResearchFocus: true, MinWordCount: 2}.Normalized()
	assert.True(t, cfg.EnableResearch)
	assert.Equal(t, 4, cfg.MinWordCount)

	// An already stricter word count survives.
	cfg = GenerationConfig{ResearchFocus: true, MinWordCount: 5}.Normalized()
	assert.Equal(t, 5, cfg.MinWordCount)
}
