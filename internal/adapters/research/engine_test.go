// internal/adapters/research/engine_test.go
package research

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/llm"
	"keywordgen/internal/models"
)

type fakeLLM struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.respond(prompt)
}

func TestDiscoverKeywords(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "reddit.com"):
			return `{"keywords": [{"keyword": "crm migration horror stories", "intent": "informational"}]}`, nil
		case strings.Contains(prompt, "quora.com"):
			return `{"keywords": [{"keyword": "which crm is easiest to learn", "intent": "commercial"}]}`, nil
		default:
			return `{"keywords": [{"keyword": "pipeline velocity tracking tool", "intent": "commercial"}]}`, nil
		}
	}}
	engine := NewEngine(client, logger.NewTestLogger(t))

	profile := models.CompanyProfile{Name: "Acme", Industry: "crm", Services: []string{"crm software"}}
	keywords, err := engine.DiscoverKeywords(context.Background(), profile, "english", 30)
	require.NoError(t, err)
	require.Len(t, keywords, 3)

	bySource := make(map[string]models.Keyword, len(keywords))
	for _, kw := range keywords {
		bySource[kw.Source] = kw
	}
	assert.Equal(t, "crm migration horror stories", bySource["research_reddit"].Text)
	assert.Equal(t, "pipeline velocity tracking tool", bySource["research_niche"].Text)

	// Quora findings are questions no matter what intent the model claimed.
	quora := bySource["research_quora"]
	assert.True(t, quora.IsQuestion)
	assert.Equal(t, models.IntentQuestion, quora.Intent)
}

func TestDiscoverKeywordsDedupesAcrossSources(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string) (string, error) {
		return `{"keywords": [{"keyword": "CRM Onboarding Checklist", "intent": "informational"}]}`, nil
	}}
	engine := NewEngine(client, logger.NewTestLogger(t))

	keywords, err := engine.DiscoverKeywords(context.Background(), models.CompanyProfile{Name: "Acme", Industry: "crm"}, "english", 30)
	require.NoError(t, err)

	// All three sub-researches returned the same phrase.
	assert.Len(t, keywords, 1)
}

func TestDiscoverKeywordsPartialFailure(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "reddit.com") {
			return "not json", nil
		}
		return `{"keywords": [{"keyword": "crm usage tips", "intent": "informational"}]}`, nil
	}}
	engine := NewEngine(client, logger.NewTestLogger(t))

	keywords, err := engine.DiscoverKeywords(context.Background(), models.CompanyProfile{Name: "Acme", Industry: "crm"}, "english", 30)
	require.NoError(t, err)
	assert.Len(t, keywords, 1)
}

func TestDiscoverKeywordsAllFail(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string) (string, error) {
		return "not json", nil
	}}
	engine := NewEngine(client, logger.NewTestLogger(t))

	_, err := engine.DiscoverKeywords(context.Background(), models.CompanyProfile{Name: "Acme", Industry: "crm"}, "english", 30)
	assert.ErrorIs(t, err, ErrResearchFailed)
}
