// internal/pipeline/filters_test.go
package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"keywordgen/internal/models"
)

func TestFilterByScore(t *testing.T) {
	records := []models.Keyword{
		{Text: "a", Score: 39},
		{Text: "b", Score: 40},
		{Text: "c", Score: 95},
	}

	kept := FilterByScore(records, 40)

	assert.Len(t, kept, 2)
	assert.Equal(t, "b", kept[0].Text)
	assert.Equal(t, "c", kept[1].Text)
}

func TestFilterByWordCount(t *testing.T) {
	records := []models.Keyword{
		{Text: "crm"},
		{Text: "crm software for startups"},
		{Text: "best crm software"},
	}

	kept := FilterByWordCount(records, 4)

	assert.Len(t, kept, 1)
	assert.Equal(t, "crm software for startups", kept[0].Text)
}

func TestFilterBroadPatterns(t *testing.T) {
	records := []models.Keyword{
		{Text: "best tools", Source: models.SourceAIGenerated},
		{Text: "what is seo", Source: models.SourceAIGenerated},
		{Text: "hubspot vs salesforce", Source: models.SourceAIGenerated},
		{Text: "crm software for small law firms", Source: models.SourceAIGenerated},
	}

	kept := FilterBroadPatterns(records)

	assert.Len(t, kept, 1)
	assert.Equal(t, "crm software for small law firms", kept[0].Text)
}

func TestFilterBroadPatternsResearchExempt(t *testing.T) {
	records := []models.Keyword{
		{Text: "best tools", Source: "research_reddit"},
		{Text: "best tools", Source: models.SourceAIGenerated},
	}

	kept := FilterBroadPatterns(records)

	// A real user asked for the research one, however generic it looks.
	assert.Len(t, kept, 1)
	assert.Equal(t, "research_reddit", kept[0].Source)
}

func TestFilterBroadPatternsOnlyMatchesWholePhrase(t *testing.T) {
	records := []models.Keyword{
		{Text: "best tools for remote teams", Source: models.SourceAIGenerated},
		{Text: "seo guide", Source: models.SourceAIGenerated},
	}

	kept := FilterBroadPatterns(records)

	assert.Len(t, kept, 1)
	assert.Equal(t, "best tools for remote teams", kept[0].Text)
}
