// internal/pipeline/semantic_test.go
package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/models"
)

func TestSemanticDedupeKeepsSubset(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return `{"keep": ["sign up crm", "crm pricing"]}`, nil
	}}
	d := &semanticDeduper{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{
		{Text: "sign up crm", Score: 80},
		{Text: "sign up for crm", Score: 60},
		{Text: "crm pricing", Score: 70},
	}

	kept := d.Dedupe(context.Background(), records)

	assert.Len(t, kept, 2)
	// Output follows score order.
	assert.Equal(t, "sign up crm", kept[0].Text)
	assert.Equal(t, "crm pricing", kept[1].Text)
}

func TestSemanticDedupeConsumeOnce(t *testing.T) {
	// A keep-list entry matches at most one record even when repeated.
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return `{"keep": ["crm pricing", "CRM Pricing"]}`, nil
	}}
	d := &semanticDeduper{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{
		{Text: "crm pricing", Score: 70},
		{Text: "crm reviews", Score: 60},
	}

	kept := d.Dedupe(context.Background(), records)

	assert.Len(t, kept, 1)
	assert.Equal(t, "crm pricing", kept[0].Text)
}

func TestSemanticDedupeNoOpOnMalformedResponse(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return "definitely not json", nil
	}}
	d := &semanticDeduper{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{
		{Text: "alpha one", Score: 50},
		{Text: "beta two", Score: 40},
	}

	kept := d.Dedupe(context.Background(), records)

	assert.Equal(t, records, kept)
}

func TestSemanticDedupeNoOpOnEmptyKeepList(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return `{"keep": []}`, nil
	}}
	d := &semanticDeduper{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{
		{Text: "alpha one", Score: 50},
		{Text: "beta two", Score: 40},
	}

	kept := d.Dedupe(context.Background(), records)

	assert.Equal(t, records, kept)
}

func TestSemanticDedupeShortCircuitsSmallInput(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		t.Fatal("should not call the model for a single record")
		return "", nil
	}}
	d := &semanticDeduper{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{{Text: "only one"}}
	assert.Equal(t, records, d.Dedupe(context.Background(), records))
	assert.Equal(t, 0, client.callCount())
}
