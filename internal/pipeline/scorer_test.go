// internal/pipeline/scorer_test.go
package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/models"
)

func TestScorerMergesByKeywordText(t *testing.T) {
	// Scores come back out of order and with different casing; one keyword is
	// missing entirely.
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return `{"scores": [
			{"keyword": "Email Automation", "score": 85},
			{"keyword": "crm software", "score": 70}
		]}`, nil
	}}
	s := &scorer{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{
		{Text: "crm software"},
		{Text: "email automation"},
		{Text: "unmatched keyword"},
	}

	scored := s.Score(context.Background(), records, models.CompanyProfile{Name: "Acme"})

	byText := make(map[string]int, len(scored))
	for _, kw := range scored {
		byText[kw.Text] = kw.Score
	}
	assert.Equal(t, 70, byText["crm software"])
	assert.Equal(t, 85, byText["email automation"])
	assert.Equal(t, defaultScore, byText["unmatched keyword"])

	// Sorted descending by score.
	assert.Equal(t, "email automation", scored[0].Text)
}

func TestScorerClampsScores(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return `{"scores": [
			{"keyword": "over", "score": 150},
			{"keyword": "under", "score": -10}
		]}`, nil
	}}
	s := &scorer{llm: client, logger: logger.NewTestLogger(t)}

	scored := s.Score(context.Background(), []models.Keyword{{Text: "over"}, {Text: "under"}}, models.CompanyProfile{Name: "Acme"})

	assert.Equal(t, 100, scored[0].Score)
	assert.Equal(t, 0, scored[1].Score)
}

func TestScorerFallbackOnMalformedResponse(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return `not json at all`, nil
	}}
	s := &scorer{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{
		{Text: "gap keyword", Source: models.SourceGapAnalysis, Score: 75},
		{Text: "fresh keyword"},
	}

	scored := s.Score(context.Background(), records, models.CompanyProfile{Name: "Acme"})

	byText := make(map[string]int, len(scored))
	for _, kw := range scored {
		byText[kw.Text] = kw.Score
	}
	// External score survives the failed batch; the unscored record defaults.
	assert.Equal(t, 75, byText["gap keyword"])
	assert.Equal(t, defaultScore, byText["fresh keyword"])
}

func TestScorerBatching(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return `{"scores": []}`, nil
	}}
	s := &scorer{llm: client, logger: logger.NewTestLogger(t)}

	records := make([]models.Keyword, scoringBatch+1)
	for i := range records {
		records[i] = models.Keyword{Text: "keyword"}
	}

	scored := s.Score(context.Background(), records, models.CompanyProfile{Name: "Acme"})

	assert.Len(t, scored, scoringBatch+1)
	assert.Equal(t, 2, client.callCount())
}

func TestScorerEmptyInput(t *testing.T) {
	s := &scorer{llm: &fakeLLM{}, logger: logger.NewTestLogger(t)}
	assert.Nil(t, s.Score(context.Background(), nil, models.CompanyProfile{Name: "Acme"}))
}
